package main

import (
	"bytes"
	"context"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PhantomInTheWire/tileprint/pkg/config"
	"github.com/PhantomInTheWire/tileprint/pkg/errs"
)

func TestMain(m *testing.M) {
	api.DisableConfigDir()
	os.Exit(m.Run())
}

func parseLayout(t *testing.T, args ...string) config.File {
	t.Helper()
	var flags layoutFlags
	cmd := &cobra.Command{Use: "test"}
	flags.bind(cmd)
	flags.bindOutput(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	file, err := flags.resolve(cmd)
	require.NoError(t, err)
	return file
}

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "poster.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestFlagsOverrideFile(t *testing.T) {
	cfg := writeYAML(t, `
input: photo.png
output: poster.pdf
paper: a4
dpi: 150
sheets_wide: 2
edge: pad
`)
	file := parseLayout(t, "--config", cfg, "--dpi", "72", "--wide", "3", "--out", "other.pdf")

	assert.Equal(t, "photo.png", file.Input)
	assert.Equal(t, "other.pdf", file.Output)
	assert.Equal(t, "a4", file.Paper)
	assert.Equal(t, 72, file.DPI)
	assert.Equal(t, 3, file.SheetsWide)
	assert.Equal(t, "pad", file.Edge)
}

func TestUnsetFlagsKeepFileValues(t *testing.T) {
	cfg := writeYAML(t, "dpi: 150\nflatten: true\nsheets_tall: 4\n")
	file := parseLayout(t, "--config", cfg)

	assert.Equal(t, 150, file.DPI)
	assert.True(t, file.Flatten)
	assert.Equal(t, 4, file.SheetsTall)

	file = parseLayout(t, "--config", cfg, "--flatten=false", "--tall", "0", "--wide", "1")
	assert.False(t, file.Flatten)
	assert.Equal(t, 0, file.SheetsTall)
	assert.Equal(t, 1, file.SheetsWide)
}

func TestPaperFlagReplacesFileDimensions(t *testing.T) {
	cfg := writeYAML(t, "width: 20in\nheight: 30in\nsheets_wide: 1\n")
	file := parseLayout(t, "--config", cfg, "--paper", "legal")
	assert.Empty(t, file.Width)
	assert.Empty(t, file.Height)

	p, err := file.Print()
	require.NoError(t, err)
	assert.Equal(t, config.In(14), p.PaperHeight)
}

func TestMissingConfigFile(t *testing.T) {
	var flags layoutFlags
	cmd := &cobra.Command{Use: "test"}
	flags.bind(cmd)
	require.NoError(t, cmd.ParseFlags([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")}))
	_, err := flags.resolve(cmd)
	assert.ErrorIs(t, err, errs.ErrConfiguration)
}

func writeImage(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "photo.png")
	img := imaging.New(90, 60, color.NRGBA{R: 200, G: 40, B: 40, A: 255})
	require.NoError(t, imaging.Save(img, path))
	return path
}

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, log bytes.Buffer
	c := newCLI(&out, &log)
	root := c.rootCommand()
	root.SetArgs(args)
	err = root.ExecuteContext(context.Background())
	return out.String(), log.String(), err
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	in := writeImage(t, dir)
	out := filepath.Join(dir, "poster.pdf")

	_, logs, err := execute(t, "render", "--in", in, "--out", out,
		"--width", "3in", "--height", "2in", "--dpi", "10", "--wide", "2",
		"--tiles-dir", filepath.Join(dir, "tiles"))
	require.NoError(t, err)
	assert.Contains(t, logs, "poster ready")

	// 30x20 px tiles; the 60x40 canvas is an exact 2x2 grid.
	n, err := api.PageCountFile(out)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	tiles, err := filepath.Glob(filepath.Join(dir, "tiles", "tile_*.png"))
	require.NoError(t, err)
	assert.Len(t, tiles, 4)
}

func TestRenderRequiresHints(t *testing.T) {
	dir := t.TempDir()
	_, _, err := execute(t, "render", "--in", writeImage(t, dir), "--out", filepath.Join(dir, "p.pdf"))
	assert.ErrorIs(t, err, errs.ErrConfiguration)

	_, err = os.Stat(filepath.Join(dir, "p.pdf"))
	assert.True(t, os.IsNotExist(err))
}

func TestPlanCommand(t *testing.T) {
	dir := t.TempDir()
	in := writeImage(t, dir)

	out, _, err := execute(t, "plan", "--in", in, "--paper", "letter", "--dpi", "10", "--wide", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "90x60 px")
	assert.Contains(t, out, "2 wide x 2 tall")
	assert.Contains(t, out, "(4 pages)")
	assert.Contains(t, out, "170x113 px")
	assert.Contains(t, out, "last row 3 px")

	out, _, err = execute(t, "plan", "--in", in, "--paper", "letter", "--dpi", "10", "--wide", "2", "--edge", "pad")
	require.NoError(t, err)
	assert.Contains(t, out, "170x220 px")
	assert.NotContains(t, out, "last row")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestPlanNeedsInput(t *testing.T) {
	_, _, err := execute(t, "plan", "--wide", "2")
	assert.ErrorIs(t, err, errs.ErrConfiguration)
}

func TestVerboseAndQuietConflict(t *testing.T) {
	_, _, err := execute(t, "plan", "-v", "-q")
	assert.ErrorIs(t, err, errs.ErrConfiguration)
}

func TestQuietHidesInfoLogs(t *testing.T) {
	dir := t.TempDir()
	_, logs, err := execute(t, "-q", "render", "--in", writeImage(t, dir), "--out", filepath.Join(dir, "p.pdf"),
		"--width", "3in", "--height", "2in", "--dpi", "10", "--tall", "1")
	require.NoError(t, err)
	assert.NotContains(t, logs, "poster ready")
	assert.NotContains(t, logs, "Writing pages")
}
