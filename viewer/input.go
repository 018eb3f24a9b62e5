package viewer

import (
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/memmaker/glyphmosaic/engine/scene"
	"github.com/memmaker/glyphmosaic/engine/util"
)

var primitiveKeys = map[glfw.Key]scene.Kind{
	glfw.Key1: scene.KindTorusKnot,
	glfw.Key2: scene.KindBox,
	glfw.Key3: scene.KindSphere,
	glfw.Key4: scene.KindIcosahedron,
	glfw.Key5: scene.KindImported,
}

func (v *Viewer) handleKeyEvents(key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if action == glfw.Release {
		return
	}
	repeatable := true
	switch key {
	case glfw.KeyEqual, glfw.KeyKPAdd:
		v.changeCellSize(1)
	case glfw.KeyMinus, glfw.KeyKPSubtract:
		v.changeCellSize(-1)
	case glfw.KeyRightBracket:
		v.changeBoundaryWidth(0.05)
	case glfw.KeyLeftBracket:
		v.changeBoundaryWidth(-0.05)
	default:
		repeatable = false
	}
	if repeatable || action != glfw.Press {
		return
	}

	if kind, isPrimitiveKey := primitiveKeys[key]; isPrimitiveKey {
		if kind == v.kind {
			return
		}
		if err := v.loadModel(kind); err != nil {
			util.LogSceneError(err.Error())
		}
		return
	}

	switch key {
	case glfw.KeyI:
		v.mosaic.Invert = !v.mosaic.Invert
	case glfw.KeyT:
		v.toggleColorMode()
	case glfw.KeyC:
		v.cyclePreset()
	case glfw.KeyF:
		v.changeFontSize(-4)
	case glfw.KeyG:
		v.changeFontSize(4)
	case glfw.KeyR:
		v.resetView()
	case glfw.KeySpace:
		v.spinner.TogglePause()
	case glfw.KeyP:
		v.dumpAtlas()
	case glfw.KeyH:
		v.hud.Toggle()
	case glfw.KeyEscape:
		v.Window.SetShouldClose(true)
	}
}

func (v *Viewer) handleMousePosEvents(xpos float64, ypos float64) {
	if v.dragging {
		v.camera.ChangeAngles(float32(v.lastMousePosX-xpos), float32(ypos-v.lastMousePosY))
	}
	v.lastMousePosX = xpos
	v.lastMousePosY = ypos
}

func (v *Viewer) handleMouseButtonEvents(button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	if button == glfw.MouseButtonLeft {
		v.dragging = action == glfw.Press
	}
}

func (v *Viewer) handleScrollEvents(xoff float64, yoff float64) {
	v.camera.Zoom(float32(yoff) * 0.5)
}
