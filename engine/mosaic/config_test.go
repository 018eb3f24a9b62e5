package mosaic

import (
	"math"
	"testing"

	"github.com/pkg/errors"
)

func TestGlyphSetValidation(t *testing.T) {
	if err := DefaultGlyphSet().Validate(); err != nil {
		t.Errorf("default glyph set rejected: %v", err)
	}
	cases := []GlyphSet{
		{Characters: "", FontSize: 54},
		{Characters: "01", FontSize: 0},
		{Characters: "01", FontSize: math.NaN()},
		{Characters: "01", FontSize: math.Inf(1)},
	}
	for _, set := range cases {
		if err := set.Validate(); !errors.Is(err, ErrConfigurationDegenerate) {
			t.Errorf("%+v: expected ErrConfigurationDegenerate, got %v", set, err)
		}
	}
}

func TestConfigValidation(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("default config rejected: %v", err)
	}
	zeroWidth := DefaultConfig()
	zeroWidth.BoundaryWidth = 0
	if err := zeroWidth.Validate(); err != nil {
		t.Errorf("zero boundary width is a hard wipe, not an error: %v", err)
	}
	for _, cfg := range []Config{
		{CellSize: 0},
		{CellSize: math.NaN()},
		{CellSize: 8, BoundaryWidth: math.Inf(-1)},
	} {
		if err := cfg.Validate(); !errors.Is(err, ErrConfigurationDegenerate) {
			t.Errorf("%+v: expected ErrConfigurationDegenerate, got %v", cfg, err)
		}
	}
}

func TestColorModeNames(t *testing.T) {
	for _, mode := range []ColorMode{ColorOriginal, ColorTint} {
		parsed, err := ParseColorMode(mode.String())
		if err != nil || parsed != mode {
			t.Errorf("%v: got %v, %v", mode, parsed, err)
		}
	}
	if _, err := ParseColorMode("sepia"); err == nil {
		t.Errorf("expected an error for an unknown mode")
	}
}

func TestTintHex(t *testing.T) {
	tint, err := ParseTint("#ff8000")
	if err != nil {
		t.Fatal(err)
	}
	if tint[0] != 1 || math.Abs(tint[1]-128.0/255.0) > 1e-9 || tint[2] != 0 {
		t.Errorf("parsed %v", tint)
	}
	if hex := TintHex(tint); hex != "#ff8000" {
		t.Errorf("round trip gave %s", hex)
	}
	if _, err = ParseTint("green"); err == nil {
		t.Errorf("expected an error for a color name")
	}
}

func TestStretch(t *testing.T) {
	cases := []struct{ in, expected string }{
		{"", ""},
		{"01", "0000000000" + "1111111111"},
		{"ab@", "aaaaaaa" + "bbbbbbb" + "@@@@@@@"},
		{" ░▒▓█", "    " + "░░░░" + "▒▒▒▒" + "▓▓▓▓" + "████"},
	}
	for _, c := range cases {
		if got := Stretch(c.in); got != c.expected {
			t.Errorf("Stretch(%q) = %q, expected %q", c.in, got, c.expected)
		}
	}
	long := DefaultCharacters
	if Stretch(long) != long {
		t.Errorf("a set of %d glyphs should not be stretched", len([]rune(long)))
	}
}

func TestDefaultCharactersReachEveryGlyph(t *testing.T) {
	n := len([]rune(DefaultCharacters))
	if n < compensationThreshold {
		t.Fatalf("default set has %d glyphs", n)
	}
	seen := make(map[int]bool)
	for _, grey := range greySweep(1000) {
		index := GlyphIndex(grey, n)
		if index < 0 || index >= n {
			t.Fatalf("grey %v selects index %d outside the set", grey, index)
		}
		seen[index] = true
	}
	if len(seen) != n {
		t.Errorf("only %d of %d glyphs reachable", len(seen), n)
	}
}
