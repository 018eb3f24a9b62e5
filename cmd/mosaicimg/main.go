// Command mosaicimg applies the glyph mosaic to still images.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/memmaker/glyphmosaic/engine/mosaic"
	"golang.org/x/term"
)

type inputList []string

func (l *inputList) String() string {
	return strings.Join(*l, ",")
}

func (l *inputList) Set(value string) error {
	*l = append(*l, value)
	return nil
}

func main() {
	var inputs inputList
	defaults := mosaic.DefaultConfig()
	flag.Var(&inputs, "in", "input image (PNG, JPEG, GIF or Netpbm); repeatable, positional arguments work too")
	output := flag.String("out", "", "output PNG, '-' for stdout, or a directory when several inputs are given; empty writes <name>.mosaic.png next to each input")
	characters := flag.String("chars", mosaic.DefaultCharacters, "glyph set ordered from sparse to dense")
	fontSize := flag.Float64("font-size", mosaic.DefaultFontSize, "glyph size in atlas pixels")
	fontFile := flag.String("font", "", "TrueType font; empty uses Go Mono")
	cellSize := flag.Float64("cell", defaults.CellSize, "mosaic cell size in pixels")
	invert := flag.Bool("invert", false, "map dark cells to dense glyphs")
	tint := flag.String("tint", "", "color glyphs with this hex color instead of the cell color")
	boundary := flag.Float64("boundary", defaults.BoundaryWidth, "width of the wipe between original and mosaic; 0 is a hard edge")
	width := flag.Int("width", 0, "rescale inputs to this width before compositing; 0 keeps the size")
	flag.Parse()
	inputs = append(inputs, flag.Args()...)

	opts := options{
		Inputs:     inputs,
		Output:     *output,
		Characters: *characters,
		FontSize:   *fontSize,
		FontFile:   *fontFile,
		Width:      *width,
		Config:     defaults,
	}
	opts.Config.CellSize = *cellSize
	opts.Config.Invert = *invert
	opts.Config.BoundaryWidth = *boundary
	if *tint != "" {
		parsed, err := mosaic.ParseTint(*tint)
		if err != nil {
			fmt.Fprintln(os.Stderr, "mosaicimg:", err)
			os.Exit(2)
		}
		opts.Config.ColorMode = mosaic.ColorTint
		opts.Config.Tint = parsed
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	stdoutIsTerminal := term.IsTerminal(int(os.Stdout.Fd()))
	if err := run(ctx, opts, os.Stdout, stdoutIsTerminal); err != nil {
		fmt.Fprintln(os.Stderr, "mosaicimg:", err)
		os.Exit(1)
	}
}
