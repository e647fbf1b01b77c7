package cli

import (
	"fmt"
	"sort"
	"strings"

	"rera-portal/internal/store"

	"github.com/spf13/cobra"
)

// configKeys maps `rera config set` keys to their setters.
var configKeys = map[string]func(*store.Config, string) error{
	"dataDir":        func(c *store.Config, v string) error { c.DataDir = v; return nil },
	"catalogDir":     func(c *store.Config, v string) error { c.CatalogDir = v; return nil },
	"defaultProject": func(c *store.Config, v string) error { c.DefaultProject = v; return nil },
	"logLevel": func(c *store.Config, v string) error {
		switch strings.ToLower(v) {
		case "", "debug", "info", "warn", "error":
			c.LogLevel = strings.ToLower(v)
			return nil
		}
		return fmt.Errorf("invalid log level: %s", v)
	},
	"tui.glyphs": func(c *store.Config, v string) error {
		switch strings.ToLower(v) {
		case "", "unicode", "ascii":
		default:
			return fmt.Errorf("invalid glyph set: %s (want unicode or ascii)", v)
		}
		if c.TUI == nil {
			c.TUI = &store.TUIConfig{}
		}
		c.TUI.Glyphs = strings.ToLower(v)
		return nil
	},
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "User defaults (~/.rera/config.json)",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the config file and resolved paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := store.ConfigPath()
			if err != nil {
				return writeErr(cmd, err)
			}
			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"path":    path,
				"config":  cfg,
				"dataDir": app.Dir,
			}, nil)
		},
	})

	keys := make([]string, 0, len(configKeys))
	for k := range configKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a default (" + strings.Join(keys, ", ") + "); an empty value clears it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, ok := configKeys[args[0]]
			if !ok {
				return writeErr(cmd, fmt.Errorf("unknown config key: %s", args[0]))
			}
			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := set(cfg, strings.TrimSpace(args[1])); err != nil {
				return writeErr(cmd, err)
			}
			if err := store.SaveConfig(cfg); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, cfg, nil)
		},
	})
	return cmd
}
