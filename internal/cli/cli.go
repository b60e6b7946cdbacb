// Package cli holds the kong commands. Each command receives a *Context
// built by main after configuration and storage are ready.
package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/sadopc/studypad/internal/calendar"
	"github.com/sadopc/studypad/internal/config"
	"github.com/sadopc/studypad/internal/logger"
	"github.com/sadopc/studypad/internal/model"
	"github.com/sadopc/studypad/internal/state"
	"github.com/sadopc/studypad/internal/store"
)

type Context struct {
	Store    *store.Store
	Calendar calendar.Calendar
	Config   config.Config
	Out      io.Writer
}

// SeedSettings copies configured defaults into settings that have never
// been set, so later changes made in the app win over the config file.
func (c *Context) SeedSettings() error {
	if err := c.Store.SeedSetting(store.SettingFocusDuration, strconv.Itoa(c.Config.FocusMinutes)); err != nil {
		return err
	}
	return c.Store.SeedSetting(store.SettingTrendDays, strconv.Itoa(c.Config.TrendDays))
}

// Apply runs one action against the persisted snapshot and saves the result.
func (c *Context) Apply(action state.Action) (model.AppData, error) {
	data, err := c.Store.LoadSnapshot()
	if err != nil {
		return model.AppData{}, err
	}
	next, err := state.Apply(data, action, c.Calendar)
	if err != nil {
		return data, err
	}
	if err := c.Store.SaveSnapshot(next); err != nil {
		logger.Error("save snapshot failed", "err", err)
		return data, fmt.Errorf("save snapshot: %w", err)
	}
	return next, nil
}

func (c *Context) printf(format string, args ...any) {
	fmt.Fprintf(c.Out, format, args...)
}
