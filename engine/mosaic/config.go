// Package mosaic turns a rendered frame into a glyph mosaic: cells are quantized, their luma
// picks a glyph from a glyph.Atlas and the result is wiped in over the original image.
package mosaic

import (
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
)

var ErrConfigurationDegenerate = errors.New("mosaic: degenerate configuration")

const (
	DefaultCellSize      = 12.0
	DefaultFontSize      = 54.0
	DefaultBoundaryWidth = 0.1
	// DefaultCharacters has enough glyphs to be mapped linearly, see DensityScale.
	DefaultCharacters = " .'`^\",:;!~-+=*<>?#%&$@"
)

type ColorMode int

const (
	// ColorOriginal colors glyph strokes with the cell color.
	ColorOriginal ColorMode = iota
	// ColorTint colors glyph strokes with Config.Tint.
	ColorTint
)

func (m ColorMode) String() string {
	switch m {
	case ColorTint:
		return "tint"
	default:
		return "original"
	}
}

func ParseColorMode(name string) (ColorMode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "original":
		return ColorOriginal, nil
	case "tint":
		return ColorTint, nil
	}
	return ColorOriginal, errors.Errorf("unknown color mode %q", name)
}

// Config is the per-frame snapshot read by the compositor. It is passed by value.
type Config struct {
	CellSize      float64
	Invert        bool
	ColorMode     ColorMode
	Tint          [3]float64
	BoundaryWidth float64
}

func DefaultConfig() Config {
	return Config{
		CellSize:      DefaultCellSize,
		ColorMode:     ColorOriginal,
		Tint:          [3]float64{0.2, 1.0, 0.4},
		BoundaryWidth: DefaultBoundaryWidth,
	}
}

func (c Config) Validate() error {
	if !(c.CellSize > 0) || math.IsInf(c.CellSize, 0) {
		return errors.Wrapf(ErrConfigurationDegenerate, "cell size %v", c.CellSize)
	}
	if math.IsNaN(c.BoundaryWidth) || math.IsInf(c.BoundaryWidth, 0) {
		return errors.Wrapf(ErrConfigurationDegenerate, "boundary width %v", c.BoundaryWidth)
	}
	return nil
}

// GlyphSet is the part of the configuration that requires an atlas rebuild when it changes.
type GlyphSet struct {
	Characters string
	FontSize   float64
}

func DefaultGlyphSet() GlyphSet {
	return GlyphSet{Characters: DefaultCharacters, FontSize: DefaultFontSize}
}

// Stretch repeats every glyph of a short set until it has at least compensationThreshold
// glyphs, so the whole set stays reachable from black to white. Longer sets are returned as is.
func Stretch(characters string) string {
	symbols := []rune(characters)
	if len(symbols) == 0 || len(symbols) >= compensationThreshold {
		return characters
	}
	repeat := (compensationThreshold + len(symbols) - 1) / len(symbols)
	var b strings.Builder
	for _, r := range symbols {
		b.WriteString(strings.Repeat(string(r), repeat))
	}
	return b.String()
}

func (g GlyphSet) Symbols() []rune {
	return []rune(g.Characters)
}

func (g GlyphSet) Validate() error {
	if len(g.Characters) == 0 {
		return errors.Wrap(ErrConfigurationDegenerate, "empty character set")
	}
	if !(g.FontSize > 0) || math.IsInf(g.FontSize, 0) {
		return errors.Wrapf(ErrConfigurationDegenerate, "font size %v", g.FontSize)
	}
	return nil
}

// ParseTint reads a hex color such as "#33ff66" into sRGB components in [0, 1].
func ParseTint(hex string) ([3]float64, error) {
	c, err := colorful.Hex(strings.TrimSpace(hex))
	if err != nil {
		return [3]float64{}, errors.Wrapf(err, "tint %q", hex)
	}
	return [3]float64{c.R, c.G, c.B}, nil
}

// TintHex is the inverse of ParseTint.
func TintHex(tint [3]float64) string {
	return colorful.Color{R: tint[0], G: tint[1], B: tint[2]}.Clamped().Hex()
}
