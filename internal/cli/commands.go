package cli

import (
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/studypad/internal/export"
	"github.com/sadopc/studypad/internal/heatmap"
	"github.com/sadopc/studypad/internal/logger"
	"github.com/sadopc/studypad/internal/state"
	"github.com/sadopc/studypad/internal/stats"
	"github.com/sadopc/studypad/internal/store"
	"github.com/sadopc/studypad/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *Context) error {
	if err := ctx.SeedSettings(); err != nil {
		return err
	}
	app, err := tui.NewApp(ctx.Store, ctx.Calendar)
	if err != nil {
		return err
	}
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

type ExportCmd struct {
	Output string `short:"o" help:"Output file. Defaults to study_data_<date>.json (or .csv) in the current directory."`
	Format string `short:"f" enum:"json,csv" default:"json" help:"json for the full snapshot, csv for focus sessions."`
}

func (c *ExportCmd) Run(ctx *Context) error {
	data, err := ctx.Store.LoadSnapshot()
	if err != nil {
		return err
	}
	path := c.Output
	if path == "" {
		path = export.FileName(ctx.Calendar.Now())
		if c.Format == "csv" {
			path = strings.TrimSuffix(path, filepath.Ext(path)) + ".csv"
		}
	}

	switch c.Format {
	case "csv":
		err = export.ToCSV(data.PomodoroRecords, data.Tags, ctx.Calendar.Location(), path)
	default:
		err = export.ToJSON(data, path)
	}
	if err != nil {
		return err
	}
	logger.Info("exported snapshot", "path", path, "format", c.Format)
	ctx.printf("✓ Exported to %s\n", path)
	return nil
}

type ImportCmd struct {
	File string `arg:"" type:"existingfile" help:"Exported JSON file to import."`
}

// Run replaces the whole snapshot with the file's content. The previous
// snapshot is kept as a backup.
func (c *ImportCmd) Run(ctx *Context) error {
	data, err := export.FromJSON(c.File)
	if err != nil {
		logger.Warn("import failed", "file", c.File, "err", err)
		return err
	}
	if err := ctx.Store.BackupSnapshot("import " + filepath.Base(c.File)); err != nil {
		return err
	}
	next, err := ctx.Apply(state.Replace{Data: data})
	if err != nil {
		return err
	}
	logger.Info("imported snapshot", "file", c.File, "todos", len(next.Todos), "posts", len(next.Posts))
	ctx.printf("✓ Imported %d todos, %d posts, %d tags, %d focus sessions\n",
		len(next.Todos), len(next.Posts), len(next.Tags), len(next.PomodoroRecords))
	return nil
}

type StatsCmd struct {
	Days int `short:"d" help:"Length of the focus trend in days. Defaults to the trend_days setting."`
}

func (c *StatsCmd) Run(ctx *Context) error {
	data, err := ctx.Store.LoadSnapshot()
	if err != nil {
		return err
	}
	days := c.Days
	if days <= 0 {
		days = ctx.Store.GetSettingInt(store.SettingTrendDays, ctx.Config.TrendDays)
	}

	sum := stats.Summarize(ctx.Calendar, data)
	ctx.printf("Focus      %s\n", formatMinutes(sum.FocusMinutes))
	ctx.printf("Posts      %d\n", sum.Posts)
	ctx.printf("Completion %d%%\n", sum.CompletionPercent)
	ctx.printf("Focus days %d\n", sum.FocusDays)

	ctx.printf("\nLast %d days\n", days)
	for _, d := range stats.Trend(ctx.Calendar, data.PomodoroRecords, days) {
		ctx.printf("  %-6s %4d min\n", d.Label, d.Minutes)
	}

	if dist := stats.PomodoroTagDistribution(data.PomodoroRecords, data.Tags); len(dist) > 0 {
		ctx.printf("\nFocus by tag\n")
		for _, w := range dist {
			ctx.printf("  %-16s %s\n", w.Name, formatMinutes(w.Weight))
		}
	}
	if dist := stats.PostTagDistribution(data.Posts, data.Tags); len(dist) > 0 {
		ctx.printf("\nPosts by tag\n")
		for _, w := range dist {
			ctx.printf("  %-16s %d\n", w.Name, w.Weight)
		}
	}
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *Context) error {
	backups, err := ctx.Store.ListBackups()
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		ctx.printf("No backups found.\n")
		return nil
	}
	for _, b := range backups {
		ctx.printf("  %4d  %s  %s\n", b.ID, b.CreatedAt.In(ctx.Calendar.Location()).Format("2006-01-02 15:04:05"), b.Reason)
	}
	return nil
}

type BackupRestoreCmd struct {
	ID int64 `arg:"" help:"Backup id, as shown by backup list."`
}

func (c *BackupRestoreCmd) Run(ctx *Context) error {
	data, err := ctx.Store.LoadBackup(c.ID)
	if err != nil {
		return err
	}
	if err := ctx.Store.BackupSnapshot(fmt.Sprintf("restore %d", c.ID)); err != nil {
		return err
	}
	if _, err := ctx.Apply(state.Replace{Data: data}); err != nil {
		return err
	}
	ctx.printf("✓ Restored backup %d\n", c.ID)
	return nil
}

// SettingsCmd lists the stored settings, or sets one when a key and value are given.
type SettingsCmd struct {
	Key   string `arg:"" optional:"" help:"focus_duration, trend_days or heatmap_mode."`
	Value string `arg:"" optional:"" help:"New value."`
}

func (c *SettingsCmd) Run(ctx *Context) error {
	if c.Key == "" {
		settings, err := ctx.Store.GetAllSettings()
		if err != nil {
			return err
		}
		for _, st := range settings {
			ctx.printf("  %-16s %s\n", st.Key, st.Value)
		}
		return nil
	}
	if c.Value == "" {
		v, err := ctx.Store.GetSetting(c.Key)
		if err != nil {
			return err
		}
		ctx.printf("%s\n", v)
		return nil
	}
	if err := validateSetting(c.Key, c.Value); err != nil {
		return err
	}
	if err := ctx.Store.SetSetting(c.Key, c.Value); err != nil {
		return err
	}
	ctx.printf("✓ %s = %s\n", c.Key, c.Value)
	return nil
}

func validateSetting(key, value string) error {
	switch key {
	case store.SettingFocusDuration, store.SettingTrendDays:
		if n, err := strconv.Atoi(value); err != nil || n < 1 {
			return fmt.Errorf("%s must be a positive number of %s, got %q", key, unitOf(key), value)
		}
	case store.SettingHeatmapMode:
		if !slices.Contains(heatmap.Modes, heatmap.Mode(value)) {
			return fmt.Errorf("heatmap_mode must be one of year, month or week, got %q", value)
		}
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	return nil
}

func unitOf(key string) string {
	if key == store.SettingTrendDays {
		return "days"
	}
	return "minutes"
}

func formatMinutes(m int) string {
	if m < 60 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %02dm", m/60, m%60)
}
