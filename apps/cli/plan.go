package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/PhantomInTheWire/tileprint/pkg/config"
	"github.com/PhantomInTheWire/tileprint/pkg/errs"
	"github.com/PhantomInTheWire/tileprint/pkg/pipeline"
)

var (
	styleTitle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("36"))
	styleLabel  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	styleNumber = lipgloss.NewStyle().Foreground(lipgloss.Color("36"))
	styleWarn   = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

func (c *cli) planCommand() *cobra.Command {
	var flags layoutFlags
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the page grid for an image without writing anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			file, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			p, err := file.Print()
			if err != nil {
				return err
			}
			if file.Input == "" {
				return errs.Configf("input path is required")
			}

			res, err := c.newRunner().Preview(cmd.Context(), file.Input, p)
			if err != nil {
				return err
			}
			printPlan(cmd.OutOrStdout(), res, p)
			return nil
		},
	}
	flags.bind(cmd)
	return cmd
}

func printPlan(w io.Writer, res *pipeline.Result, p config.Print) {
	pl := res.Plan
	pw, ph := p.PageSize()
	row := func(label, value string) {
		fmt.Fprintf(w, "  %s %s\n", styleLabel.Render(fmt.Sprintf("%-7s", label)), value)
	}

	fmt.Fprintln(w, styleTitle.Render("Poster plan"))
	row("source", fmt.Sprintf("%dx%d px", res.Source.X, res.Source.Y))
	row("paper", fmt.Sprintf("%s x %s %s, %d dpi, margin %s", pw, ph, p.Orientation, p.DPI, p.Margin))
	row("sheets", styleNumber.Render(fmt.Sprintf("%d wide x %d tall", pl.SheetsWide, pl.SheetsHigh))+
		fmt.Sprintf(" (%d pages)", pl.Pages()))
	row("tile", fmt.Sprintf("%dx%d px", pl.TileWidth, pl.TileHeight))
	row("canvas", fmt.Sprintf("%dx%d px", pl.CanvasWidth, pl.CanvasHeight))
	row("poster", fmt.Sprintf("%.2f x %.2f in",
		float64(pl.CanvasWidth)/float64(p.DPI), float64(pl.CanvasHeight)/float64(p.DPI)))
	if !pl.Exact() {
		lw, lh := pl.Remainder()
		row("edge", styleWarn.Render(fmt.Sprintf("last column %d px, last row %d px (%s)", lw, lh, p.Edge)))
	}
}
