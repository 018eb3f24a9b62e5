package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/faiface/mainthread"
	"github.com/memmaker/glyphmosaic/config"
	"github.com/memmaker/glyphmosaic/engine/scene"
	"github.com/memmaker/glyphmosaic/engine/util"
	"github.com/memmaker/glyphmosaic/viewer"
)

func main() {
	settingsFile := flag.String("settings", "settings.json", "viewer settings file; missing values use the defaults")
	modelFile := flag.String("model", "", "glTF/GLB model to show instead of the torus knot")
	fontFile := flag.String("font", "", "TrueType font for the glyph atlas; empty uses Go Mono")
	characters := flag.String("chars", "", "glyph set ordered from sparse to dense")
	quiet := flag.Bool("quiet", false, "only log warnings and errors")
	flag.Parse()

	if *quiet {
		util.GLOBAL_LOG_LEVEL = util.LogLevelWarning
	}

	settings := config.NewSettingsFromFile(*settingsFile)
	if *modelFile != "" {
		settings.ModelFile = *modelFile
		settings.Primitive = scene.KindImported.String()
	}
	if *fontFile != "" {
		settings.FontFile = *fontFile
	}
	if *characters != "" {
		settings.Characters = *characters
	}

	util.LogSystemInfo(fmt.Sprintf("[Main] %dx%d, %d glyphs at %.0fpx, model %s", settings.Width, settings.Height, len([]rune(settings.Characters)), settings.FontSize, settings.Primitive))

	mainthread.Run(func() {
		runViewer(settings)
	})
}

func runViewer(settings config.Settings) {
	var (
		v   *viewer.Viewer
		err error
	)
	mainthread.Call(func() {
		v, err = viewer.NewViewer("Glyph Mosaic", settings)
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "viewer:", err)
		os.Exit(1)
	}
	v.Run()
}
