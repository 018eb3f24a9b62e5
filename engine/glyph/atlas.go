// Package glyph rasterizes character sets into the fixed 16x16 glyph atlas sampled by the mosaic pass.
package glyph

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
)

const (
	AtlasSize   = 1024
	CellsPerRow = 16
	CellSize    = AtlasSize / CellsPerRow
	Capacity    = CellsPerRow * CellsPerRow
)

// Atlas is an immutable glyph texture. Symbol i lives in cell i mod Capacity,
// laid out row-major from the top-left corner of Image.
type Atlas struct {
	Symbols  []rune
	FontSize float64
	FaceName string
	// Image is premultiplied: white strokes on a transparent background, so the
	// red channel equals the glyph coverage.
	Image *image.RGBA
}

// GlyphCount is the N the compositor divides the luminance range by.
func (a *Atlas) GlyphCount() int {
	return len(a.Symbols)
}

// Aliased reports whether some symbols share a cell because there are more than Capacity of them.
func (a *Atlas) Aliased() bool {
	return len(a.Symbols) > Capacity
}

// CellRect returns the pixel rectangle of the cell used by symbol index.
func CellRect(index int) image.Rectangle {
	slot := index % Capacity
	if slot < 0 {
		slot += Capacity
	}
	col := slot % CellsPerRow
	row := slot / CellsPerRow
	return image.Rect(col*CellSize, row*CellSize, (col+1)*CellSize, (row+1)*CellSize)
}

// CellOrigin is the top-left pixel of the cell holding symbol index.
func (a *Atlas) CellOrigin(index int) image.Point {
	return CellRect(index).Min
}

// Sample looks up the texel at texture coordinate (u, v) the way the GPU does with
// REPEAT wrapping and NEAREST filtering. v runs bottom to top, so v close to 1 hits
// the first atlas row.
func (a *Atlas) Sample(u, v float64) color.RGBA {
	x := texelIndex(u, AtlasSize)
	t := texelIndex(v, AtlasSize)
	return a.Image.RGBAAt(x, AtlasSize-1-t)
}

// Coverage is the red channel of Sample scaled to [0, 1].
func (a *Atlas) Coverage(u, v float64) float64 {
	return float64(a.Sample(u, v).R) / 255.0
}

func texelIndex(coord float64, size int) int {
	wrapped := coord - math.Floor(coord)
	index := int(wrapped * float64(size))
	if index >= size {
		index = size - 1
	}
	if index < 0 {
		index = 0
	}
	return index
}

// FlippedPixels returns the atlas rows bottom to top, the order glTexImage2D expects
// for the texture to match Sample.
func (a *Atlas) FlippedPixels() []uint8 {
	stride := a.Image.Stride
	height := a.Image.Bounds().Dy()
	out := make([]uint8, len(a.Image.Pix))
	for y := 0; y < height; y++ {
		copy(out[(height-1-y)*stride:(height-y)*stride], a.Image.Pix[y*stride:(y+1)*stride])
	}
	return out
}

// WritePNG dumps the atlas, handy for checking what a character set looks like.
func (a *Atlas) WritePNG(w io.Writer) error {
	return png.Encode(w, a.Image)
}
