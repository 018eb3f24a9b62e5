// Package viewer is the interactive host for the mosaic effect: it spins a lit mesh,
// renders it offscreen and shows the result through the mosaic pass.
package viewer

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/glyphmosaic/config"
	"github.com/memmaker/glyphmosaic/engine/glhf"
	"github.com/memmaker/glyphmosaic/engine/glyph"
	"github.com/memmaker/glyphmosaic/engine/mosaic"
	"github.com/memmaker/glyphmosaic/engine/postfx"
	"github.com/memmaker/glyphmosaic/engine/scene"
	"github.com/memmaker/glyphmosaic/engine/util"
	"github.com/memmaker/glyphmosaic/engine/window"
	"github.com/pkg/errors"
)

type Viewer struct {
	*window.GlApplication
	settings    config.Settings
	camera      *util.OrbitCamera
	spinner     *scene.Spinner
	stage       *mosaic.Stage
	pass        *postfx.Pass
	hud         *Hud
	modelShader *glhf.Shader
	model       *Model
	kind        scene.Kind
	mosaic      mosaic.Config
	glyphs      mosaic.GlyphSet
	presetIndex int
	timer       *util.Timer

	lastMousePosX float64
	lastMousePosY float64
	dragging      bool
}

// NewViewer opens the window and sets up all GL resources. It must run on the main thread.
func NewViewer(title string, settings config.Settings) (*Viewer, error) {
	mosaicConfig, err := settings.MosaicConfig()
	if err != nil {
		return nil, err
	}
	kind, err := settings.PrimitiveKind()
	if err != nil {
		return nil, err
	}

	win, terminateFunc := window.InitOpenGL(title, settings.Width, settings.Height)
	glApp := &window.GlApplication{
		Title:         title,
		WindowWidth:   settings.Width,
		WindowHeight:  settings.Height,
		Window:        win,
		TerminateFunc: terminateFunc,
	}
	glApp.RegisterCallbacks()

	// the framebuffer can be larger than the requested window size on HiDPI screens
	fbWidth, fbHeight := win.GetFramebufferSize()
	glApp.WindowWidth, glApp.WindowHeight = fbWidth, fbHeight

	pass, err := postfx.NewPass(fbWidth, fbHeight)
	if err != nil {
		terminateFunc()
		return nil, err
	}

	hud, err := NewHud(fbWidth, fbHeight)
	if err != nil {
		terminateFunc()
		return nil, err
	}

	builder := glyph.NewBuilder(settings.FaceSource()).WithFallback(glyph.Basic())
	v := &Viewer{
		GlApplication: glApp,
		settings:      settings,
		camera:        util.NewOrbitCamera(fbWidth, fbHeight),
		spinner:       scene.NewSpinner(settings.RotationSpeed),
		stage:         mosaic.NewStage(builder, util.CategoryLogger{Category: util.LogMosaic}),
		pass:          pass,
		hud:           hud,
		mosaic:        mosaicConfig,
		glyphs:        settings.GlyphSet(),
		presetIndex:   presetIndexOf(settings.Characters),
		timer:         util.NewTimer(),
	}
	v.modelShader = loadModelShader(v.camera)
	v.stage.Subscribe(v.pass.SetAtlas)

	// without a first atlas the pass shows the plain scene
	v.rebuildGlyphs()

	if err = v.loadModel(kind); err != nil {
		util.LogSceneError(err.Error())
		if err = v.loadModel(scene.KindTorusKnot); err != nil {
			terminateFunc()
			return nil, err
		}
	}

	v.UpdateFunc = v.Update
	v.DrawFunc = v.Draw
	v.StatusFunc = v.status
	v.ResizeHandler = v.resize
	v.KeyHandler = v.handleKeyEvents
	v.MousePosHandler = v.handleMousePosEvents
	v.MouseButtonHandler = v.handleMouseButtonEvents
	v.ScrollHandler = v.handleScrollEvents
	return v, nil
}

func presetIndexOf(characters string) int {
	for i, preset := range config.Presets {
		if preset == characters {
			return i
		}
	}
	return -1
}

func (v *Viewer) loadModel(kind scene.Kind) error {
	provider, err := scene.NewProvider(kind, v.settings.ModelFile)
	if err != nil {
		return err
	}
	mesh, err := provider.Mesh()
	if err != nil {
		return errors.Wrapf(err, "load %s", provider.Name())
	}
	v.model = NewModel(v.modelShader, provider.Name(), mesh)
	v.model.SetRotation(v.spinner.Rotation())
	v.kind = kind
	util.LogSceneInfo(fmt.Sprintf("[Viewer] showing %s (%d triangles)", provider.Name(), mesh.TriangleCount()))
	return nil
}

func (v *Viewer) Update(elapsed float64) {
	v.spinner.Update(elapsed)
	v.model.SetRotation(v.spinner.Rotation())
	v.hud.SetStatus(v.settingsLine())
}

func (v *Viewer) Draw(elapsed float64) {
	stopScene := v.timer.Start("scene")
	v.pass.BeginScene()
	glhf.Clear(0.08, 0.09, 0.12, 1)
	v.modelShader.Begin()
	v.modelShader.SetUniformAttr(ShaderProjectionMatrix, v.camera.GetProjectionMatrix())
	v.modelShader.SetUniformAttr(ShaderViewMatrix, v.camera.GetViewMatrix())
	v.modelShader.SetUniformAttr(ShaderEyePosition, v.camera.GetPosition())
	v.model.Draw(v.modelShader)
	v.modelShader.End()
	v.pass.EndScene()
	stopScene()

	stopMosaic := v.timer.Start("mosaic")
	v.pass.Draw(v.mosaic)
	stopMosaic()

	v.hud.Draw()
}

// glyphCount describes what the GPU draws. A failed upload leaves the pass on its
// previous atlas while the stage already holds the new one.
func (v *Viewer) glyphCount() string {
	drawn := fmt.Sprintf("%d glyphs", v.pass.GlyphCount())
	if atlas := v.stage.Atlas(); atlas != nil && atlas.GlyphCount() != v.pass.GlyphCount() {
		drawn += fmt.Sprintf(" (upload of %d failed)", atlas.GlyphCount())
	}
	return drawn
}

// settingsLine only changes on input, the HUD rebuilds its text mesh when it does.
func (v *Viewer) settingsLine() string {
	colors := v.mosaic.ColorMode.String()
	if v.mosaic.ColorMode == mosaic.ColorTint {
		colors += " " + mosaic.TintHex(v.mosaic.Tint)
	}
	return fmt.Sprintf("%s | %s @ %.0fpx | cell %.0fpx | wipe %.2f | invert %t | %s",
		v.model.Name(), v.glyphCount(), v.glyphs.FontSize, v.mosaic.CellSize, v.mosaic.BoundaryWidth, v.mosaic.Invert, colors)
}

func (v *Viewer) status() string {
	return fmt.Sprintf("%s | %s | %s", v.model.Name(), v.glyphCount(), v.timer.Summary())
}

func (v *Viewer) resize(width, height int) {
	if width <= 0 || height <= 0 {
		// minimized
		util.LogGlWarning(fmt.Sprintf("[Viewer] ignoring framebuffer size %dx%d", width, height))
		return
	}
	v.camera.SetScreenSize(width, height)
	v.hud.Resize(width, height)
	if err := v.pass.Resize(width, height); err != nil {
		util.LogGlError(fmt.Sprintf("[Viewer] %v", err))
	}
}

// rebuildGlyphs requests an atlas for the current glyph set. The stage keeps the last
// good atlas when the build fails.
func (v *Viewer) rebuildGlyphs() {
	if err := v.stage.Rebuild(v.glyphs); err != nil {
		util.LogMosaicError(fmt.Sprintf("[Viewer] %v", err))
	}
}

func (v *Viewer) cyclePreset() {
	v.presetIndex = (v.presetIndex + 1) % len(config.Presets)
	v.glyphs.Characters = config.Presets[v.presetIndex]
	v.rebuildGlyphs()
}

func (v *Viewer) changeFontSize(delta float64) {
	v.glyphs.FontSize = util.Clamp(v.glyphs.FontSize+delta, 8, float64(glyph.CellSize))
	v.rebuildGlyphs()
}

func (v *Viewer) changeCellSize(delta float64) {
	v.mosaic.CellSize = util.Clamp(v.mosaic.CellSize+delta, 2, 128)
}

func (v *Viewer) changeBoundaryWidth(delta float64) {
	v.mosaic.BoundaryWidth = util.Clamp(v.mosaic.BoundaryWidth+delta, 0, 1)
}

func (v *Viewer) toggleColorMode() {
	if v.mosaic.ColorMode == mosaic.ColorTint {
		v.mosaic.ColorMode = mosaic.ColorOriginal
	} else {
		v.mosaic.ColorMode = mosaic.ColorTint
	}
}

func (v *Viewer) dumpAtlas() {
	atlas := v.stage.Atlas()
	if atlas == nil {
		util.LogAtlasWarning("[Viewer] no atlas to dump")
		return
	}
	filename := "atlas.png"
	file, err := os.Create(filename)
	if err != nil {
		util.LogIOError(err.Error())
		return
	}
	defer file.Close()
	if err = atlas.WritePNG(file); err != nil {
		util.LogIOError(err.Error())
		return
	}
	util.LogAtlasInfo(fmt.Sprintf("[Viewer] atlas written to %s", filename))
}

func (v *Viewer) resetView() {
	v.spinner.Reset()
	v.camera.Reset()
	v.model.SetRotation(mgl32.QuatIdent())
}
