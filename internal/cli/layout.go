package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kazin-kharizma/element-call/pkg/grid"
	"github.com/kazin-kharizma/element-call/pkg/grid/state"
)

// layoutCommand creates the layout command for computing tile layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output     string
		configPath string
		tiles      int
		presenters int
		width      float64
		height     float64
		mode       string
		pipX       float64
		pipY       float64
		scroll     float64
	)

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Compute a tile layout for a call",
		Long: `Compute a tile layout for a call.

The layout command runs the full grid engine for a synthetic call with the
given participant count and viewport, and prints the resulting layout as
JSON: one rectangle per tile, plus mode, picture-in-picture position and
spotlight scroll. Presenter tiles (screen shares) force spotlight mode.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(layoutParams{
				output:     output,
				configPath: configPath,
				tiles:      tiles,
				presenters: presenters,
				width:      width,
				height:     height,
				mode:       mode,
				pipX:       pipX,
				pipY:       pipY,
				scroll:     scroll,
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&configPath, "config", "", "TOML geometry config file")

	cmd.Flags().IntVarP(&tiles, "tiles", "n", 4, "number of participant tiles")
	cmd.Flags().IntVar(&presenters, "presenters", 0, "number of screen-sharing tiles")
	cmd.Flags().Float64Var(&width, "width", 1280, "viewport width in pixels")
	cmd.Flags().Float64Var(&height, "height", 720, "viewport height in pixels")
	cmd.Flags().StringVarP(&mode, "mode", "m", string(grid.ModeFreedom), "layout mode: freedom (default), spotlight")
	cmd.Flags().Float64Var(&pipX, "pip-x", 0, "picture-in-picture x position (0..1)")
	cmd.Flags().Float64Var(&pipY, "pip-y", 0, "picture-in-picture y position (0..1)")
	cmd.Flags().Float64Var(&scroll, "scroll", 0, "spotlight spectator scroll offset")

	return cmd
}

type layoutParams struct {
	output     string
	configPath string
	tiles      int
	presenters int
	width      float64
	height     float64
	mode       string
	pipX       float64
	pipY       float64
	scroll     float64
}

// runLayout drives the grid engine for a synthetic call and writes the
// layout.
func (c *CLI) runLayout(p layoutParams) error {
	cfg, err := loadConfig(p.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctrl := state.NewController(cfg)
	defer ctrl.Close()
	ctrl.SetViewport(p.width, p.height)
	if err := ctrl.SetUserMode(grid.Mode(p.mode)); err != nil {
		return err
	}

	items := make([]state.Item, p.tiles)
	for i := range items {
		items[i] = state.Item{Key: fmt.Sprintf("tile-%d", i+1)}
		if i < p.presenters {
			items[i].Presenter = true
		}
	}
	if err := ctrl.SetItems(items); err != nil {
		return err
	}
	if err := ctrl.ApplyArrangement(state.Arrangement{PiPX: p.pipX, PiPY: p.pipY}); err != nil {
		return err
	}
	if p.scroll != 0 {
		ctrl.Pointer(state.PointerEvent{Kind: state.PointerWheel, DY: p.scroll, DX: p.scroll})
	}

	layout := ctrl.Layout()

	if p.output == "" {
		data, err := grid.MarshalLayout(layout)
		if err != nil {
			return fmt.Errorf("encode layout: %w", err)
		}
		data = append(data, '\n')
		if _, err := os.Stdout.Write(data); err != nil {
			return err
		}
		return nil
	}

	if err := grid.WriteLayoutFile(layout, p.output); err != nil {
		return fmt.Errorf("write output %s: %w", p.output, err)
	}

	printSuccess("Layout complete")
	printFile(p.output)
	printStats(len(layout.Tiles), layout.Mode, layout.Width, layout.Height)
	printNewline()
	printNextStep("Explore", appName+" demo")

	return nil
}
