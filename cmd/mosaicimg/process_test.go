package main

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/memmaker/glyphmosaic/engine/mosaic"
	"github.com/pkg/errors"
	"github.com/spakin/netpbm"
)

func gradient(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			level := uint8(x * 255 / (width - 1))
			img.SetNRGBA(x, y, color.NRGBA{R: level, G: level, B: level, A: 255})
		}
	}
	return img
}

func writeInputs(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()

	pngPath := filepath.Join(dir, "ramp.png")
	if err := writePNG(pngPath, gradient(64, 32)); err != nil {
		t.Fatal(err)
	}

	ppmPath := filepath.Join(dir, "steps.ppm")
	file, err := os.Create(ppmPath)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()
	if err = netpbm.Encode(file, gradient(48, 24), &netpbm.EncodeOptions{Format: netpbm.PPM, MaxValue: 255}); err != nil {
		t.Fatal(err)
	}
	return pngPath, ppmPath
}

func testOptions(inputs ...string) options {
	return options{
		Inputs:     inputs,
		Characters: mosaic.DefaultCharacters,
		FontSize:   mosaic.DefaultFontSize,
		Config:     mosaic.DefaultConfig(),
	}
}

func readPNG(t *testing.T, filename string) image.Image {
	t.Helper()
	file, err := os.Open(filename)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()
	img, err := png.Decode(file)
	if err != nil {
		t.Fatal(err)
	}
	return img
}

func TestRunWritesNextToInputs(t *testing.T) {
	pngPath, ppmPath := writeInputs(t)
	if err := run(context.Background(), testOptions(pngPath, ppmPath), nil, false); err != nil {
		t.Fatal(err)
	}
	dir := filepath.Dir(pngPath)
	expected := map[string]image.Point{
		"ramp.mosaic.png":  {64, 32},
		"steps.mosaic.png": {48, 24},
	}
	for name, size := range expected {
		if got := readPNG(t, filepath.Join(dir, name)).Bounds().Size(); got != size {
			t.Errorf("%s: expected %v, got %v", name, size, got)
		}
	}
}

func TestRunIntoDirectoryWithRescale(t *testing.T) {
	pngPath, _ := writeInputs(t)
	other := filepath.Join(filepath.Dir(pngPath), "other.png")
	if err := writePNG(other, gradient(100, 50)); err != nil {
		t.Fatal(err)
	}
	outDir := filepath.Join(t.TempDir(), "out")
	opts := testOptions(pngPath, other)
	opts.Output = outDir
	opts.Width = 32
	if err := run(context.Background(), opts, nil, false); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"ramp.mosaic.png", "other.mosaic.png"} {
		size := readPNG(t, filepath.Join(outDir, name)).Bounds().Size()
		if size != (image.Point{32, 16}) {
			t.Errorf("%s: expected 32x16, got %v", name, size)
		}
	}
}

func TestRunLeftHalfIsUntouched(t *testing.T) {
	pngPath, _ := writeInputs(t)
	opts := testOptions(pngPath)
	opts.Output = stdoutName
	var out bytes.Buffer
	if err := run(context.Background(), opts, &out, false); err != nil {
		t.Fatal(err)
	}
	result, err := png.Decode(&out)
	if err != nil {
		t.Fatal(err)
	}
	source := gradient(64, 32)
	// the wipe band starts just before u = 0.5
	for y := 0; y < 32; y++ {
		for x := 0; x < 28; x++ {
			got := color.NRGBAModel.Convert(result.At(x, y)).(color.NRGBA)
			if got != source.NRGBAAt(x, y) {
				t.Fatalf("pixel (%d,%d): expected %v, got %v", x, y, source.NRGBAAt(x, y), got)
			}
		}
	}
}

func TestRunRefusesTerminal(t *testing.T) {
	pngPath, _ := writeInputs(t)
	opts := testOptions(pngPath)
	opts.Output = stdoutName
	if err := run(context.Background(), opts, nil, true); !errors.Is(err, errTerminalOutput) {
		t.Errorf("expected errTerminalOutput, got %v", err)
	}
}

func TestRunRejectsBadOptions(t *testing.T) {
	pngPath, ppmPath := writeInputs(t)

	opts := testOptions()
	if err := run(context.Background(), opts, nil, false); err == nil {
		t.Errorf("expected an error without inputs")
	}

	opts = testOptions(pngPath, ppmPath)
	opts.Output = stdoutName
	if err := run(context.Background(), opts, &bytes.Buffer{}, false); err == nil {
		t.Errorf("expected an error for several inputs on stdout")
	}

	opts = testOptions(pngPath)
	opts.Characters = ""
	if err := run(context.Background(), opts, nil, false); !errors.Is(err, mosaic.ErrConfigurationDegenerate) {
		t.Errorf("expected ErrConfigurationDegenerate, got %v", err)
	}

	opts = testOptions(filepath.Join(t.TempDir(), "missing.png"))
	if err := run(context.Background(), opts, nil, false); err == nil {
		t.Errorf("expected an error for a missing input")
	}
}

func TestRunRejectsSharedDestination(t *testing.T) {
	pngPath, _ := writeInputs(t)
	twin := filepath.Join(t.TempDir(), "ramp.png")
	if err := writePNG(twin, gradient(16, 8)); err != nil {
		t.Fatal(err)
	}
	outDir := filepath.Join(t.TempDir(), "out")
	opts := testOptions(pngPath, twin)
	opts.Output = outDir
	if err := run(context.Background(), opts, nil, false); !errors.Is(err, errDuplicateOutput) {
		t.Fatalf("expected errDuplicateOutput, got %v", err)
	}
	if _, err := os.Stat(outDir); !os.IsNotExist(err) {
		t.Errorf("nothing should be written, stat gave %v", err)
	}

	// next to their inputs the two files do not collide
	opts.Output = ""
	if err := run(context.Background(), opts, nil, false); err != nil {
		t.Errorf("separate directories: %v", err)
	}
}

func TestDestination(t *testing.T) {
	opts := testOptions("in/a.jpg")
	if got := opts.destination("in/a.jpg"); got != filepath.Join("in", "a.mosaic.png") {
		t.Errorf("default destination %s", got)
	}
	opts.Output = "result.png"
	if got := opts.destination("in/a.jpg"); got != "result.png" {
		t.Errorf("single destination %s", got)
	}
	opts = testOptions("in/a.jpg", "in/b.pgm")
	opts.Output = "out"
	if got := opts.destination("in/b.pgm"); got != filepath.Join("out", "b.mosaic.png") {
		t.Errorf("directory destination %s", got)
	}
}
