package commands

import (
	"fmt"
	"strconv"

	"git.home.luguber.info/inful/transclude/internal/config"
	"git.home.luguber.info/inful/transclude/internal/foundation/errors"
)

// SettingsCmd groups the settings subcommands.
type SettingsCmd struct {
	Get SettingsGetCmd `cmd:"" help:"Print the current transclusion settings"`
	Set SettingsSetCmd `cmd:"" help:"Change a transclusion setting and persist it"`
}

// SettingsGetCmd prints the effective settings.
type SettingsGetCmd struct{}

func (g *SettingsGetCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	fmt.Printf("render_all_transclusions: %t\n", cfg.Settings.RenderAllTransclusions)
	fmt.Printf("shift_headings: %t\n", cfg.Settings.ShiftHeadings)
	return nil
}

// SettingsSetCmd updates one setting in the configuration file.
type SettingsSetCmd struct {
	Key   string `arg:"" help:"Setting name: render_all_transclusions or shift_headings."`
	Value string `arg:"" help:"Boolean value (true/false)."`
}

func (s *SettingsSetCmd) Run(_ *Global, root *CLI) error {
	// Load the file as written; CLI overrides must not be persisted.
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}

	value, err := strconv.ParseBool(s.Value)
	if err != nil {
		return errors.ValidationError("setting value must be a boolean").
			WithContext("value", s.Value).Build()
	}

	switch s.Key {
	case "render_all_transclusions":
		cfg.Settings.RenderAllTransclusions = value
	case "shift_headings":
		cfg.Settings.ShiftHeadings = value
	default:
		return errors.ValidationError("unknown setting").
			WithContext("key", s.Key).Build()
	}

	return config.Save(root.Config, cfg)
}
