package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/kazin-kharizma/element-call/pkg/grid/state"
	"github.com/kazin-kharizma/element-call/pkg/session"
)

// demoSessionID is the file-store key for the demo's saved arrangement.
const demoSessionID = "demo"

// demoCommand creates the demo command for the interactive grid simulator.
func (c *CLI) demoCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Explore the tile grid in an interactive terminal simulator",
		Long: `Explore the tile grid in an interactive terminal simulator.

The demo maps the terminal to a call viewport and renders live tiles.
Participants can be added and removed, tiles focused, screen share toggled
and the spotlight strip scrolled, exercising the same engine the service
runs. The arrangement is saved on quit and restored on the next run.

Keys:
  a        add a participant
  d        drop the last participant
  m        toggle freedom/spotlight mode
  s        toggle screen share on the first participant
  1-9      double-tap tile N (toggle focus)
  arrows   scroll the spotlight spectator strip
  q        quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDemo(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "TOML geometry config file")

	return cmd
}

// runDemo starts the bubbletea simulator, restoring and persisting the
// arrangement through the file session store.
func (c *CLI) runDemo(ctx context.Context, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctrl := state.NewController(cfg)
	defer ctrl.Close()

	store, err := session.NewFileStore("")
	if err != nil {
		c.Logger.Warn("session store unavailable", "error", err)
		store = nil
	}
	if store != nil {
		if sess, err := store.Get(ctx, demoSessionID); err == nil && sess != nil {
			if err := ctrl.ApplyArrangement(sess.Arrangement); err != nil {
				c.Logger.Warn("restore arrangement", "error", err)
			}
		}
	}

	model := newDemoModel(ctrl)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("run demo: %w", err)
	}

	if store != nil {
		sess := session.New(ctrl.Arrangement(), session.DefaultTTL)
		sess.ID = demoSessionID
		if err := store.Set(ctx, sess); err != nil {
			c.Logger.Warn("save arrangement", "error", err)
		} else {
			printSuccess("Arrangement saved")
			printFile(store.Path())
		}
	}
	return nil
}
