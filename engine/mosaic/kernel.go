package mosaic

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/memmaker/glyphmosaic/engine/glyph"
)

// The functions in this file are mirrored line by line in engine/postfx/shader/mosaic.frag.
// uv is normalized screen space with the origin in the bottom-left corner.

var lumaWeights = mgl64.Vec3{0.299, 0.587, 0.114}

// compensationThreshold is the glyph count from which the index mapping stays linear.
const compensationThreshold = 20.0

// CellCount is the number of mosaic cells along each axis.
func CellCount(resolution mgl64.Vec2, cellSize float64) mgl64.Vec2 {
	return mgl64.Vec2{resolution[0] / cellSize, resolution[1] / cellSize}
}

// CellCenter snaps uv to the center of its mosaic cell.
func CellCenter(uv, cellCount mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{
		math.Floor(uv[0]*cellCount[0])/cellCount[0] + 0.5/cellCount[0],
		math.Floor(uv[1]*cellCount[1])/cellCount[1] + 0.5/cellCount[1],
	}
}

func Luma(rgb mgl64.Vec3) float64 {
	return rgb.Dot(lumaWeights)
}

// Grey is the luma used for glyph selection, clamped to [0, 1].
func Grey(rgb mgl64.Vec3, invert bool) float64 {
	grey := clamp01(Luma(rgb))
	if invert {
		grey = 1 - grey
	}
	return grey
}

// DensityScale stretches the index range of small glyph sets. It is 1 from
// compensationThreshold glyphs on and grows as the set shrinks.
//
// This is deliberately max(1, 20/N) rather than the literal max(1, N/20) often quoted
// for this effect. N/20 is a no-op for sparse sets and pushes sets of more than 20 glyphs past
// their last cell, while 20/N keeps those sets linear and widens the steps of sparse ones.
// The price is that for N < 20 bright greys select an index of N or more, which is a
// blank cell. Use Stretch to bring a short set up to 20 glyphs instead.
func DensityScale(glyphCount int) float64 {
	return math.Max(1, compensationThreshold/float64(glyphCount))
}

func RawIndex(grey float64, glyphCount int) float64 {
	return math.Floor(float64(glyphCount-1) * grey)
}

// GlyphIndex maps grey to an atlas index. For small sets the result can pass N-1,
// and past the atlas capacity it aliases to index mod glyph.Capacity.
func GlyphIndex(grey float64, glyphCount int) int {
	return int(math.Floor(RawIndex(grey, glyphCount) * DensityScale(glyphCount)))
}

// AtlasUV is the atlas coordinate for uv inside a cell showing glyph index. The row term
// is negative and relies on repeat wrapping to land in the right atlas row.
func AtlasUV(uv, cellCount mgl64.Vec2, index int) mgl64.Vec2 {
	perRow := float64(glyph.CellsPerRow)
	col := math.Mod(float64(index), perRow)
	row := math.Floor(float64(index) / perRow)
	return mgl64.Vec2{
		fract(uv[0]*cellCount[0])/perRow + col/perRow,
		fract(uv[1]*cellCount[1])/perRow - (row+1)/perRow,
	}
}

// TransitionBand is the [start, end] range of uv.x over which the mosaic fades in.
// The band is asymmetric around 0.5.
func TransitionBand(boundaryWidth float64) (float64, float64) {
	return 0.5 - boundaryWidth/16, 0.5 + boundaryWidth/8
}

// Smoothstep is the GLSL cubic Hermite step. When edge1 <= edge0 it becomes a hard step at edge0.
func Smoothstep(edge0, edge1, x float64) float64 {
	if edge1 <= edge0 {
		if x < edge0 {
			return 0
		}
		return 1
	}
	t := clamp01((x - edge0) / (edge1 - edge0))
	return t * t * (3 - 2*t)
}

// WipeBlend is the mosaic weight at horizontal position x: 0 keeps the original pixel.
func WipeBlend(x, boundaryWidth float64) float64 {
	start, end := TransitionBand(boundaryWidth)
	return Smoothstep(start, end, x)
}

// Mix is GLSL mix on all four channels.
func Mix(a, b mgl64.Vec4, t float64) mgl64.Vec4 {
	return a.Mul(1 - t).Add(b.Mul(t))
}

func fract(x float64) float64 {
	return x - math.Floor(x)
}

func clamp01(x float64) float64 {
	if !(x > 0) {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
