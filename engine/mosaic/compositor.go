package mosaic

import (
	"context"
	"image"
	"image/draw"
	"math"
	"runtime"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/memmaker/glyphmosaic/engine/glyph"
	"golang.org/x/sync/errgroup"
)

// Compositor is the CPU rendition of the mosaic pass. It evaluates every output pixel
// independently, splitting the image into row bands that run in parallel.
type Compositor struct {
	Workers int
}

func NewCompositor() *Compositor {
	return &Compositor{Workers: runtime.GOMAXPROCS(0)}
}

// Apply composites src and returns a new image of the same size. A nil atlas passes the
// input through unchanged. A cancelled context drops the whole frame.
func (c *Compositor) Apply(ctx context.Context, src image.Image, atlas *glyph.Atlas, cfg Config) (*image.NRGBA, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	input := toNRGBA(src)
	width, height := input.Rect.Dx(), input.Rect.Dy()
	out := image.NewNRGBA(image.Rect(0, 0, width, height))
	if width == 0 || height == 0 {
		return out, nil
	}
	if atlas == nil {
		for y := 0; y < height; y++ {
			copy(out.Pix[y*out.Stride:y*out.Stride+width*4], input.Pix[y*input.Stride:])
		}
		return out, nil
	}

	shader := newPixelShader(input, atlas, cfg)

	workers := c.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > height {
		workers = height
	}
	bandHeight := (height + workers - 1) / workers

	g, ctx := errgroup.WithContext(ctx)
	for top := 0; top < height; top += bandHeight {
		bottom := top + bandHeight
		if bottom > height {
			bottom = height
		}
		top := top
		g.Go(func() error {
			for y := top; y < bottom; y++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				shader.shadeRow(out, y)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// pixelShader holds the per-frame uniforms.
type pixelShader struct {
	input      *image.NRGBA
	atlas      *glyph.Atlas
	cfg        Config
	glyphCount int
	resolution mgl64.Vec2
	cellCount  mgl64.Vec2
}

func newPixelShader(input *image.NRGBA, atlas *glyph.Atlas, cfg Config) *pixelShader {
	resolution := mgl64.Vec2{float64(input.Rect.Dx()), float64(input.Rect.Dy())}
	return &pixelShader{
		input:      input,
		atlas:      atlas,
		cfg:        cfg,
		glyphCount: atlas.GlyphCount(),
		resolution: resolution,
		cellCount:  CellCount(resolution, cfg.CellSize),
	}
}

func (p *pixelShader) shadeRow(out *image.NRGBA, y int) {
	v := 1 - (float64(y)+0.5)/p.resolution[1]
	srcRow := p.input.Pix[y*p.input.Stride:]
	dstRow := out.Pix[y*out.Stride:]
	for x := 0; x < int(p.resolution[0]); x++ {
		u := (float64(x) + 0.5) / p.resolution[0]
		blend := WipeBlend(u, p.cfg.BoundaryWidth)
		i := x * 4
		if blend == 0 {
			copy(dstRow[i:i+4], srcRow[i:i+4])
			continue
		}
		uv := mgl64.Vec2{u, v}
		color := p.mosaic(uv)
		if blend < 1 {
			color = Mix(p.sample(uv), color, blend)
		}
		dstRow[i+0] = toByte(color[0])
		dstRow[i+1] = toByte(color[1])
		dstRow[i+2] = toByte(color[2])
		dstRow[i+3] = toByte(color[3])
	}
}

// mosaic is the glyph color at uv before the wipe blend.
func (p *pixelShader) mosaic(uv mgl64.Vec2) mgl64.Vec4 {
	pixelized := p.sample(CellCenter(uv, p.cellCount))
	grey := Grey(pixelized.Vec3(), p.cfg.Invert)
	index := GlyphIndex(grey, p.glyphCount)
	charUV := AtlasUV(uv, p.cellCount, index)
	stencil := p.atlas.Coverage(charUV[0], charUV[1])

	rgb := pixelized.Vec3()
	if p.cfg.ColorMode == ColorTint {
		rgb = mgl64.Vec3(p.cfg.Tint)
	}
	return rgb.Mul(stencil).Vec4(pixelized[3])
}

// sample is a nearest, clamp-to-edge texture fetch with bottom-left origin.
func (p *pixelShader) sample(uv mgl64.Vec2) mgl64.Vec4 {
	width, height := p.input.Rect.Dx(), p.input.Rect.Dy()
	x := clampIndex(uv[0], width)
	y := height - 1 - clampIndex(uv[1], height)
	i := y*p.input.Stride + x*4
	pix := p.input.Pix[i : i+4 : i+4]
	return mgl64.Vec4{
		float64(pix[0]) / 255,
		float64(pix[1]) / 255,
		float64(pix[2]) / 255,
		float64(pix[3]) / 255,
	}
}

func clampIndex(coord float64, size int) int {
	index := math.Floor(coord * float64(size))
	if !(index > 0) {
		return 0
	}
	if index > float64(size-1) {
		return size - 1
	}
	return int(index)
}

func toByte(x float64) uint8 {
	return uint8(clamp01(x)*255 + 0.5)
}

// toNRGBA returns src as a zero-origin straight-alpha image, converting when needed.
func toNRGBA(src image.Image) *image.NRGBA {
	if img, ok := src.(*image.NRGBA); ok && img.Rect.Min == (image.Point{}) {
		return img
	}
	bounds := src.Bounds()
	img := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(img, img.Rect, src, bounds.Min, draw.Src)
	return img
}
