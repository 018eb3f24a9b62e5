package glyph

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/mattn/go-runewidth"
	"github.com/memmaker/glyphmosaic/engine/util"
	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// ErrResourceUnavailable means no font face could be acquired. The build
// produced nothing and the caller should keep whatever atlas it had before.
var ErrResourceUnavailable = errors.New("glyph: rendering resource unavailable")

// ErrNoSymbols is returned for an empty character set.
var ErrNoSymbols = errors.New("glyph: no symbols to rasterize")

// Builder rasterizes symbol sets into atlases. It is not safe for concurrent use;
// Build is expected to run on the host thread between frames.
type Builder struct {
	source   FaceSource
	fallback FaceSource
}

func NewBuilder(source FaceSource) *Builder {
	if source == nil {
		source = GoMono()
	}
	return &Builder{source: source}
}

// WithFallback sets a face source that is tried when the primary one fails.
func (b *Builder) WithFallback(fallback FaceSource) *Builder {
	b.fallback = fallback
	return b
}

func (b *Builder) Source() FaceSource {
	return b.source
}

// Build draws symbol i centered into cell i mod Capacity of a fresh AtlasSize x AtlasSize canvas.
func (b *Builder) Build(symbols []rune, fontSizePixels float64) (*Atlas, error) {
	if len(symbols) == 0 {
		return nil, ErrNoSymbols
	}

	face, faceName, err := b.acquireFace(fontSizePixels)
	if err != nil {
		return nil, err
	}
	defer face.Close()

	if len(symbols) > Capacity {
		util.LogAtlasWarning(fmt.Sprintf("[Atlas] %d symbols exceed the %d cells, later symbols overwrite earlier ones", len(symbols), Capacity))
	}

	canvas := image.NewRGBA(image.Rect(0, 0, AtlasSize, AtlasSize))

	var wideFace font.Face
	for i, r := range symbols {
		cell := CellRect(i)
		// aliased cells are replaced, not composited
		draw.Draw(canvas, cell, image.Transparent, image.Point{}, draw.Src)

		glyphFace := face
		switch runewidth.RuneWidth(r) {
		case 0:
			util.LogAtlasWarning(fmt.Sprintf("[Atlas] symbol %d (%U) has no width, leaving cell blank", i, r))
			continue
		case 2:
			if wideFace == nil {
				wideFace, _, err = b.acquireFace(fontSizePixels / 2)
				if err != nil {
					return nil, err
				}
				defer wideFace.Close()
			}
			glyphFace = wideFace
		}
		drawCentered(canvas, cell, r, glyphFace)
	}

	util.LogAtlasInfo(fmt.Sprintf("[Atlas] built %d glyphs at %.1fpx with %s", len(symbols), fontSizePixels, faceName))

	return &Atlas{
		Symbols:  append([]rune(nil), symbols...),
		FontSize: fontSizePixels,
		FaceName: faceName,
		Image:    canvas,
	}, nil
}

func (b *Builder) acquireFace(sizePixels float64) (font.Face, string, error) {
	face, err := b.source.Face(sizePixels)
	if err == nil {
		return face, b.source.Name(), nil
	}
	if b.fallback == nil {
		return nil, "", errors.Wrapf(ErrResourceUnavailable, "face %s at %.1fpx: %v", b.source.Name(), sizePixels, err)
	}
	util.LogAtlasError(fmt.Sprintf("[Atlas] %s unavailable, using %s: %v", b.source.Name(), b.fallback.Name(), err))
	face, ferr := b.fallback.Face(sizePixels)
	if ferr != nil {
		return nil, "", errors.Wrapf(ErrResourceUnavailable, "fallback face %s: %v", b.fallback.Name(), ferr)
	}
	return face, b.fallback.Name(), nil
}

// drawCentered centers the glyph by advance horizontally and by ascent/descent vertically.
// Drawing goes through a sub image so nothing leaks into neighbouring cells.
func drawCentered(canvas *image.RGBA, cell image.Rectangle, r rune, face font.Face) {
	dst := canvas.SubImage(cell).(*image.RGBA)
	drawer := &font.Drawer{
		Dst:  dst,
		Src:  image.White,
		Face: face,
	}
	text := string(r)
	advance := drawer.MeasureString(text)
	metrics := face.Metrics()

	x := fixed.I(cell.Min.X) + (fixed.I(cell.Dx())-advance)/2
	y := fixed.I(cell.Min.Y) + (fixed.I(cell.Dy())+metrics.Ascent-metrics.Descent)/2
	drawer.Dot = fixed.Point26_6{X: x, Y: y}
	drawer.DrawString(text)
}
