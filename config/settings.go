// Package config holds the viewer settings file and turns it into mosaic and scene parameters.
package config

import (
	"os"

	"github.com/memmaker/glyphmosaic/engine/glyph"
	"github.com/memmaker/glyphmosaic/engine/mosaic"
	"github.com/memmaker/glyphmosaic/engine/scene"
	"github.com/memmaker/glyphmosaic/engine/util"
	"github.com/pkg/errors"
)

type Settings struct {
	Width         int
	Height        int
	Characters    string
	FontSize      float64
	FontFile      string
	CellSize      float64
	Invert        bool
	ColorMode     string
	Tint          string
	BoundaryWidth float64
	Primitive     string
	ModelFile     string
	RotationSpeed float32
}

// Presets are cycled through by the viewer. Each one is ordered from sparse to dense
// and short sets are stretched so that bright cells never land on blank atlas cells.
var Presets = []string{
	mosaic.DefaultCharacters,
	mosaic.Stretch("01"),
	mosaic.Stretch(" .oO@"),
	mosaic.Stretch(" ░▒▓█"),
	" `.-':_,^=;><+!rc*/z?sLTv)J7(|Fi{C}fI31tlu[neoZ5Yxjya]2ESwqkP6h9d4VpOGbUAKXHm8RD#$Bg0MNWQ%&@",
}

func DefaultSettings() Settings {
	return Settings{
		Width:         1280,
		Height:        720,
		Characters:    mosaic.DefaultCharacters,
		FontSize:      mosaic.DefaultFontSize,
		CellSize:      mosaic.DefaultCellSize,
		ColorMode:     mosaic.ColorOriginal.String(),
		Tint:          "#33ff66",
		BoundaryWidth: mosaic.DefaultBoundaryWidth,
		Primitive:     scene.KindTorusKnot.String(),
		RotationSpeed: 30,
	}
}

// NewSettingsFromFile reads filename on top of the defaults. A missing or broken file
// yields the defaults.
func NewSettingsFromFile(filename string) Settings {
	settings := DefaultSettings()
	if util.DoesFileExist(filename) {
		file, err := os.ReadFile(filename)
		if err != nil {
			util.LogIOError(err.Error())
			return settings
		}
		loaded := DefaultSettings()
		if util.FromJson(string(file), &loaded) {
			return loaded
		}
	}
	return settings
}

func (s Settings) Save(filename string) error {
	return errors.Wrap(os.WriteFile(filename, []byte(util.ToJson(s)), 0o644), "save settings")
}

func (s Settings) MosaicConfig() (mosaic.Config, error) {
	cfg := mosaic.Config{
		CellSize:      s.CellSize,
		Invert:        s.Invert,
		BoundaryWidth: s.BoundaryWidth,
	}
	var err error
	if cfg.ColorMode, err = mosaic.ParseColorMode(s.ColorMode); err != nil {
		return cfg, err
	}
	if cfg.Tint, err = mosaic.ParseTint(s.Tint); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (s Settings) GlyphSet() mosaic.GlyphSet {
	return mosaic.GlyphSet{Characters: s.Characters, FontSize: s.FontSize}
}

// FaceSource is the configured font file, or Go Mono when none is set.
func (s Settings) FaceSource() glyph.FaceSource {
	if s.FontFile == "" {
		return glyph.GoMono()
	}
	return glyph.TrueTypeFile(s.FontFile)
}

func (s Settings) PrimitiveKind() (scene.Kind, error) {
	return scene.ParseKind(s.Primitive)
}
