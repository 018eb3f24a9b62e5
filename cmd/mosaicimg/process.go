package main

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/jpeg"

	"github.com/memmaker/glyphmosaic/engine/glyph"
	"github.com/memmaker/glyphmosaic/engine/mosaic"
	"github.com/memmaker/glyphmosaic/engine/util"
	"github.com/pkg/errors"
	_ "github.com/spakin/netpbm"
	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"
)

// stdoutName selects standard output as destination.
const stdoutName = "-"

var (
	errTerminalOutput  = errors.New("refusing to write PNG data to a terminal")
	errDuplicateOutput = errors.New("inputs map to the same output file")
)

type options struct {
	Inputs     []string
	Output     string
	Characters string
	FontSize   float64
	FontFile   string
	Width      int
	Config     mosaic.Config
}

func (o options) glyphSet() mosaic.GlyphSet {
	return mosaic.GlyphSet{Characters: o.Characters, FontSize: o.FontSize}
}

func (o options) faceSource() glyph.FaceSource {
	if o.FontFile == "" {
		return glyph.GoMono()
	}
	return glyph.TrueTypeFile(o.FontFile)
}

// destination maps an input file to its output path.
func (o options) destination(input string) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)) + ".mosaic.png"
	switch {
	case o.Output == "":
		return filepath.Join(filepath.Dir(input), base)
	case len(o.Inputs) > 1:
		return filepath.Join(o.Output, base)
	default:
		return o.Output
	}
}

func (o options) validate(stdoutIsTerminal bool) error {
	if len(o.Inputs) == 0 {
		return errors.New("no input images")
	}
	if o.Width < 0 {
		return errors.Errorf("width %d", o.Width)
	}
	if o.Output == stdoutName {
		if len(o.Inputs) > 1 {
			return errors.New("only a single input can be written to stdout")
		}
		if stdoutIsTerminal {
			return errTerminalOutput
		}
	} else {
		// inputs are written concurrently, two of them must not share a file
		written := make(map[string]string, len(o.Inputs))
		for _, input := range o.Inputs {
			out := filepath.Clean(o.destination(input))
			if previous, taken := written[out]; taken {
				return errors.Wrapf(errDuplicateOutput, "%s and %s both write %s", previous, input, out)
			}
			written[out] = input
		}
	}
	if err := o.glyphSet().Validate(); err != nil {
		return err
	}
	return o.Config.Validate()
}

// run builds the atlas once and composites every input concurrently.
func run(ctx context.Context, opts options, stdout io.Writer, stdoutIsTerminal bool) error {
	if err := opts.validate(stdoutIsTerminal); err != nil {
		return err
	}
	if opts.Output != "" && opts.Output != stdoutName && len(opts.Inputs) > 1 {
		if err := os.MkdirAll(opts.Output, 0o755); err != nil {
			return errors.Wrap(err, "create output directory")
		}
	}

	builder := glyph.NewBuilder(opts.faceSource())
	stage := mosaic.NewStage(builder, util.CategoryLogger{Category: util.LogMosaic})
	if err := stage.Rebuild(opts.glyphSet()); err != nil {
		return err
	}

	group, groupCtx := errgroup.WithContext(ctx)
	for _, input := range opts.Inputs {
		input := input
		group.Go(func() error {
			return processFile(groupCtx, stage, opts, input, stdout)
		})
	}
	return group.Wait()
}

func processFile(ctx context.Context, stage *mosaic.Stage, opts options, input string, stdout io.Writer) error {
	src, err := decodeFile(input)
	if err != nil {
		return err
	}
	if opts.Width > 0 {
		src = scaleToWidth(src, opts.Width)
	}
	result, err := stage.Composite(ctx, src, opts.Config)
	if err != nil {
		return errors.Wrapf(err, "composite %s", input)
	}

	if opts.Output == stdoutName {
		return errors.Wrap(png.Encode(stdout, result), "encode to stdout")
	}
	output := opts.destination(input)
	if err = writePNG(output, result); err != nil {
		return err
	}
	util.LogMosaicInfo(fmt.Sprintf("[mosaicimg] %s -> %s (%dx%d)", input, output, result.Bounds().Dx(), result.Bounds().Dy()))
	return nil
}

func decodeFile(filename string) (image.Image, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "open input")
	}
	defer file.Close()
	img, format, err := image.Decode(file)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", filename)
	}
	util.LogIOInfo(fmt.Sprintf("[mosaicimg] decoded %s as %s", filename, format))
	return img, nil
}

// scaleToWidth resamples img to width pixels, keeping the aspect ratio.
func scaleToWidth(img image.Image, width int) image.Image {
	bounds := img.Bounds()
	if bounds.Dx() == width || bounds.Dx() == 0 {
		return img
	}
	height := bounds.Dy() * width / bounds.Dx()
	if height < 1 {
		height = 1
	}
	scaled := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), img, bounds, draw.Src, nil)
	return scaled
}

func writePNG(filename string, img image.Image) error {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "create output")
	}
	if err = png.Encode(file, img); err != nil {
		file.Close()
		return errors.Wrapf(err, "encode %s", filename)
	}
	return errors.Wrapf(file.Close(), "close %s", filename)
}
