// Package cli implements the element-call command-line interface.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/kazin-kharizma/element-call/pkg/buildinfo"
	"github.com/kazin-kharizma/element-call/pkg/grid"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "element-call"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Element Call arranges video call tiles into grids",
		Long:         `Element Call computes video call tile layouts: responsive grids, spotlight strips with a scrollable spectator line, and one-on-one picture-in-picture calls.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.demoCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config Loading
// =============================================================================

// loadConfig reads a TOML geometry config, or returns defaults when path is
// empty.
func loadConfig(path string) (grid.Config, error) {
	if path == "" {
		return grid.DefaultConfig(), nil
	}
	return grid.LoadConfig(path)
}
