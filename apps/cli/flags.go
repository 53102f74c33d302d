package main

import (
	"github.com/spf13/cobra"

	"github.com/PhantomInTheWire/tileprint/pkg/config"
)

// layoutFlags are shared by render and plan. Only flags the user actually
// set override the YAML file.
type layoutFlags struct {
	config      string
	input       string
	output      string
	paper       string
	width       string
	height      string
	orientation string
	dpi         int
	margin      string
	wide        int
	tall        int
	edge        string
	flatten     bool
	tilesDir    string
}

func (f *layoutFlags) bind(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.config, "config", "c", "", "YAML configuration file")
	fs.StringVarP(&f.input, "in", "i", "", "source image")
	fs.StringVar(&f.paper, "paper", "", "paper preset: letter (default), legal, tabloid, a5, a4, a3, a2")
	fs.StringVar(&f.width, "width", "", "paper width, e.g. 8.5in or 210mm (with --height)")
	fs.StringVar(&f.height, "height", "", "paper height, e.g. 11in or 297mm (with --width)")
	fs.StringVar(&f.orientation, "orientation", "", "portrait (default) or landscape")
	fs.IntVar(&f.dpi, "dpi", 0, "print resolution in pixels per inch (default 300)")
	fs.StringVar(&f.margin, "margin", "", "margin on each side, e.g. 0.25in (default 0)")
	fs.IntVar(&f.wide, "wide", 0, "sheets across")
	fs.IntVar(&f.tall, "tall", 0, "sheets down")
	fs.StringVar(&f.edge, "edge", "", "partial last row/column: clamp (default) or pad")
}

func (f *layoutFlags) bindOutput(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.output, "out", "o", "", "output PDF")
	fs.BoolVar(&f.flatten, "flatten", false, "composite transparent pixels onto white")
	fs.StringVar(&f.tilesDir, "tiles-dir", "", "also write each tile as a PNG into this directory")
}

// resolve loads --config, if any, and applies the flags that were set.
func (f *layoutFlags) resolve(cmd *cobra.Command) (config.File, error) {
	var file config.File
	if f.config != "" {
		loaded, err := config.LoadFile(f.config)
		if err != nil {
			return config.File{}, err
		}
		file = loaded
	}

	set := cmd.Flags().Changed
	if set("in") {
		file.Input = f.input
	}
	if set("out") {
		file.Output = f.output
	}
	if set("paper") {
		file.Paper = f.paper
		// a preset on the command line beats explicit dimensions from the file
		if !set("width") && !set("height") {
			file.Width, file.Height = "", ""
		}
	}
	if set("width") {
		file.Width = f.width
	}
	if set("height") {
		file.Height = f.height
	}
	if set("orientation") {
		file.Orientation = f.orientation
	}
	if set("dpi") {
		file.DPI = f.dpi
	}
	if set("margin") {
		file.Margin = f.margin
	}
	if set("wide") {
		file.SheetsWide = f.wide
	}
	if set("tall") {
		file.SheetsTall = f.tall
	}
	if set("edge") {
		file.Edge = f.edge
	}
	if set("flatten") {
		file.Flatten = f.flatten
	}
	if set("tiles-dir") {
		file.TilesDir = f.tilesDir
	}
	return file, nil
}
