package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/studypad/internal/logger"
	"github.com/sadopc/studypad/internal/stats"
	"github.com/sadopc/studypad/internal/store"
)

// trendChoices are the trend windows the stats view cycles through.
var trendChoices = []int{7, 14, 30}

type reportsModel struct {
	ws     *workspace
	width  int
	height int

	days  int
	chart barchart.Model
}

func newReportsModel(ws *workspace) reportsModel {
	days := ws.store.GetSettingInt(store.SettingTrendDays, stats.DefaultTrendDays)
	if days < 1 {
		days = stats.DefaultTrendDays
	}
	return reportsModel{
		ws:    ws,
		days:  days,
		chart: barchart.New(60, 12),
	}
}

func (r *reportsModel) setSize(w, h int) {
	r.width = w
	r.height = h
	r.buildChart()
}

func (r reportsModel) update(msg tea.Msg) (reportsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case dataChangedMsg:
		r.buildChart()
		return r, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Mode) {
			r.days = nextTrendWindow(r.days)
			r.buildChart()
			if err := r.ws.store.SetSetting(store.SettingTrendDays, strconv.Itoa(r.days)); err != nil {
				logger.Error("save trend window failed", "err", err)
				return r, errCmd("Save trend window", err)
			}
		}
	}
	return r, nil
}

func nextTrendWindow(days int) int {
	for _, d := range trendChoices {
		if d > days {
			return d
		}
	}
	return trendChoices[0]
}

func (r *reportsModel) buildChart() {
	chartWidth := r.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 10
	if r.height > 36 {
		chartHeight = 14
	}

	r.chart = barchart.New(chartWidth, chartHeight)

	barStyle := lipgloss.NewStyle().Foreground(colorPrimary)
	todayStyle := lipgloss.NewStyle().Foreground(colorSuccess)
	trend := stats.Trend(r.ws.cal, r.ws.data.PomodoroRecords, r.days)

	var bars []barchart.BarData
	for i, d := range trend {
		style := barStyle
		if i == len(trend)-1 {
			style = todayStyle
		}
		label := d.Label
		if len(trend) > 14 && i%5 != 0 && i != len(trend)-1 {
			label = ""
		}
		bars = append(bars, barchart.BarData{
			Label:  label,
			Values: []barchart.BarValue{{Name: "focus", Value: float64(d.Minutes), Style: style}},
		})
	}

	r.chart.PushAll(bars)
	r.chart.Draw()
}

func (r reportsModel) view() string {
	w := r.width - 4
	data := r.ws.data
	summary := stats.Summarize(r.ws.cal, data)

	cardWidth := max((w-8)/4-2, 14)
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		r.card("Focus", formatMinutes(summary.FocusMinutes), cardWidth),
		r.card("Posts", strconv.Itoa(summary.Posts), cardWidth),
		r.card("Todos done", fmt.Sprintf("%d%%", summary.CompletionPercent), cardWidth),
		r.card("Focus days", strconv.Itoa(summary.FocusDays), cardWidth),
	)

	trend := stats.Trend(r.ws.cal, data.PomodoroRecords, r.days)
	total := 0
	for _, d := range trend {
		total += d.Minutes
	}
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Focus trend"), "  ",
		mutedStyle.Render(fmt.Sprintf("last %d days · %s", r.days, formatMinutes(total))))

	half := max((w-8)/2, 20)
	dists := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(half).Render(r.renderDistribution("Focus by tag",
			stats.PomodoroTagDistribution(data.PomodoroRecords, data.Tags), formatMinutes, half)),
		lipgloss.NewStyle().Width(half).Render(r.renderDistribution("Posts by tag",
			stats.PostTagDistribution(data.Posts, data.Tags), strconv.Itoa, half)),
	)

	nav := mutedStyle.Render("  m: trend window (7/14/30 days)")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			cards, "", header, "", r.chart.View(), "", dists, "", nav,
		),
	)
}

func (r reportsModel) card(label, value string, w int) string {
	return cardStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Center,
		highlightStyle.Bold(true).Render(value),
		mutedStyle.Render(label),
	))
}

func (r reportsModel) renderDistribution(title string, dist []stats.TagWeight, format func(int) string, w int) string {
	rows := []string{titleStyle.Render(title)}
	if len(dist) == 0 {
		return strings.Join(append(rows, mutedStyle.Render("  No data yet")), "\n")
	}

	sum := 0
	for _, d := range dist {
		sum += d.Weight
	}
	barWidth := max(w-34, 5)
	for _, d := range dist {
		n := 0
		if dist[0].Weight > 0 {
			n = d.Weight * barWidth / dist[0].Weight
		}
		bar := lipgloss.NewStyle().Foreground(lipgloss.Color(d.Color)).Render(strings.Repeat("█", max(n, 1)))
		share := 0.0
		if sum > 0 {
			share = float64(d.Weight) * 100 / float64(sum)
		}
		rows = append(rows, fmt.Sprintf("  %s %-14s %s %s",
			dot(d.Color), truncate(d.Name, 14), bar, mutedStyle.Render(fmt.Sprintf("%s %.0f%%", format(d.Weight), share))))
	}
	return strings.Join(rows, "\n")
}
