package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/sadopc/studypad/internal/cli"
	"github.com/sadopc/studypad/internal/config"
	"github.com/sadopc/studypad/internal/logger"
	"github.com/sadopc/studypad/internal/store"
)

var CLI struct {
	Version  kong.VersionFlag
	Config   string `help:"Config file path." type:"path"`
	Data     string `help:"Database path. Overrides the config file and STUDYPAD_DATA." type:"path"`
	Timezone string `help:"IANA timezone for day boundaries, or Local."`
	Debug    bool   `help:"Verbose logging, also written to stderr."`

	Tui      cli.TuiCmd      `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Export   cli.ExportCmd   `cmd:"" help:"Export the snapshot to JSON or focus sessions to CSV."`
	Import   cli.ImportCmd   `cmd:"" help:"Replace the snapshot with an exported JSON file."`
	Stats    cli.StatsCmd    `cmd:"" help:"Print focus and writing statistics."`
	Settings cli.SettingsCmd `cmd:"" help:"List or change stored settings."`
	Backup struct {
		List    cli.BackupListCmd    `cmd:"" help:"List snapshot backups." default:"1"`
		Restore cli.BackupRestoreCmd `cmd:"" help:"Restore a snapshot backup."`
	} `cmd:"" help:"Manage snapshot backups."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("studypad"),
		kong.Description("Todos, notes, and focus sessions in the terminal."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": "v0.1.0"},
	)

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx *kong.Context) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		return err
	}
	if CLI.Data != "" {
		cfg.DataPath = CLI.Data
	}
	if CLI.Timezone != "" {
		cfg.Timezone = CLI.Timezone
	}
	if CLI.Debug {
		cfg.Debug = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// The TUI owns the terminal, so its debug output goes to the file only.
	tee := cfg.Debug && !strings.HasPrefix(ctx.Command(), "tui")
	if err := logger.Init(logger.Config{Debug: cfg.Debug, Dir: cfg.LogDir, Stderr: tee}); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	cal, err := cfg.Calendar()
	if err != nil {
		return err
	}

	s, err := store.New(cfg.DataPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer s.Close()
	logger.Debug("store opened", "path", cfg.DataPath, "timezone", cal.Location())

	return ctx.Run(&cli.Context{
		Store:    s,
		Calendar: cal,
		Config:   cfg,
		Out:      os.Stdout,
	})
}
