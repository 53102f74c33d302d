package config

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/PhantomInTheWire/tileprint/pkg/errs"
)

// Upload points at an S3-compatible bucket (AWS or MinIO).
type Upload struct {
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
}

// File mirrors the YAML configuration file. Lengths are strings such as
// "8.5in" or "210mm"; bare numbers are inches.
type File struct {
	Input       string  `yaml:"input"`
	Output      string  `yaml:"output"`
	Paper       string  `yaml:"paper"`
	Width       string  `yaml:"width"`
	Height      string  `yaml:"height"`
	Orientation string  `yaml:"orientation"`
	DPI         int     `yaml:"dpi"`
	Margin      string  `yaml:"margin"`
	SheetsWide  int     `yaml:"sheets_wide"`
	SheetsTall  int     `yaml:"sheets_tall"`
	Edge        string  `yaml:"edge"`
	Flatten     bool    `yaml:"flatten"`
	TilesDir    string  `yaml:"tiles_dir"`
	Upload      *Upload `yaml:"upload"`
}

// Job is a fully resolved run: where to read, where to write, and how to lay out.
type Job struct {
	Input    string
	Output   string
	TilesDir string
	Print    Print
	Upload   *Upload
}

// LoadFile reads a YAML configuration file.
func LoadFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, errs.Configf("read config %s: %w", path, err)
	}
	return Decode(bytes.NewReader(data))
}

// Decode parses YAML configuration from r. Unknown keys are rejected.
func Decode(r io.Reader) (File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return File{}, errs.Configf("parse config: %w", err)
	}
	return f, nil
}

// Print resolves the layout fields of f on top of DefaultPrint.
func (f File) Print() (Print, error) {
	p := DefaultPrint()

	if f.Paper != "" {
		paper, ok := LookupPaper(f.Paper)
		if !ok {
			return Print{}, errs.Configf("unknown paper %q (known: %s)", f.Paper, strings.Join(PaperNames(), ", "))
		}
		p.PaperWidth, p.PaperHeight = paper.Width, paper.Height
	}
	if (f.Width == "") != (f.Height == "") {
		return Print{}, errs.Configf("paper width and height must be given together")
	}
	if f.Width != "" {
		w, err := ParseLength(f.Width, UnitIN)
		if err != nil {
			return Print{}, errs.Configf("paper width: %w", err)
		}
		h, err := ParseLength(f.Height, UnitIN)
		if err != nil {
			return Print{}, errs.Configf("paper height: %w", err)
		}
		p.PaperWidth, p.PaperHeight = w, h
	}

	o, err := ParseOrientation(f.Orientation)
	if err != nil {
		return Print{}, err
	}
	p.Orientation = o

	if f.DPI != 0 {
		p.DPI = f.DPI
	}
	if f.Margin != "" {
		m, err := ParseLength(f.Margin, UnitIN)
		if err != nil {
			return Print{}, errs.Configf("margin: %w", err)
		}
		p.Margin = m
	}

	edge, err := ParseEdgeMode(f.Edge)
	if err != nil {
		return Print{}, err
	}
	p.Edge = edge
	p.SheetsWide = f.SheetsWide
	p.SheetsTall = f.SheetsTall
	p.Flatten = f.Flatten

	if err := p.Validate(); err != nil {
		return Print{}, err
	}
	return p, nil
}

// Job resolves f into a validated Job.
func (f File) Job() (Job, error) {
	p, err := f.Print()
	if err != nil {
		return Job{}, err
	}
	if f.Input == "" {
		return Job{}, errs.Configf("input path is required")
	}
	if f.Output == "" {
		return Job{}, errs.Configf("output path is required")
	}
	job := Job{
		Input:    f.Input,
		Output:   f.Output,
		TilesDir: f.TilesDir,
		Print:    p,
	}
	if f.Upload != nil {
		up := *f.Upload
		if up.Bucket == "" {
			return Job{}, errs.Configf("upload bucket is required")
		}
		if up.Region == "" {
			up.Region = "us-east-1"
		}
		job.Upload = &up
	}
	return job, nil
}
