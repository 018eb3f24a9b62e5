package glhf

import (
	"runtime"

	"github.com/faiface/mainthread"
	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/pkg/errors"
)

// Texture is an OpenGL texture.
type Texture struct {
	tex           binder
	width, height int
	smooth        bool
}

// NewTexture creates a new texture with the specified width and height with some initial
// pixel values. The pixels must be a sequence of RGBA values (one byte per component).
// Pass nil pixels to allocate an empty texture, e.g. as a render target.
func NewTexture(width, height int, smooth bool, pixels []uint8) *Texture {
	tex := &Texture{
		tex: binder{
			restoreLoc: gl.TEXTURE_BINDING_2D,
			bindFunc: func(obj uint32) {
				gl.BindTexture(gl.TEXTURE_2D, obj)
			},
		},
		width:  width,
		height: height,
	}

	gl.GenTextures(1, &tex.tex.obj)

	tex.Begin()
	defer tex.End()

	var data = gl.Ptr(nil)
	if pixels != nil {
		data = gl.Ptr(pixels)
	}
	gl.TexImage2D(
		gl.TEXTURE_2D,
		0,
		gl.RGBA,
		int32(width),
		int32(height),
		0,
		gl.RGBA,
		gl.UNSIGNED_BYTE,
		data,
	)

	tex.SetSmooth(smooth)
	tex.SetWrapToRepeat()
	runtime.SetFinalizer(tex, (*Texture).delete)

	return tex
}

// NewTextureChecked is NewTexture for callers that must not continue with a broken texture.
// It fails when the driver hands out no texture name or reports an error during the upload.
func NewTextureChecked(width, height int, smooth bool, pixels []uint8) (*Texture, error) {
	if pixels != nil && len(pixels) != width*height*4 {
		return nil, errors.Errorf("new texture: expected %d bytes of pixel data, got %d", width*height*4, len(pixels))
	}
	tex := NewTexture(width, height, smooth, pixels)
	if tex.ID() == 0 {
		return nil, errors.New("new texture: no texture name available")
	}
	if err := CheckForGLError("new texture"); err != nil {
		return nil, err
	}
	return tex, nil
}

func (t *Texture) delete() {
	mainthread.CallNonBlock(func() {
		gl.DeleteTextures(1, &t.tex.obj)
	})
}

// ID returns the OpenGL ID of this Texture.
func (t *Texture) ID() uint32 {
	return t.tex.obj
}

// Width returns the width of the Texture in pixels.
func (t *Texture) Width() int {
	return t.width
}

// Height returns the height of the Texture in pixels.
func (t *Texture) Height() int {
	return t.height
}

// SetSmooth sets whether the Texture should be drawn "smoothly" or "pixely".
//
// It affects how the Texture is drawn when zoomed. Smooth interpolates between the neighbour
// pixels, while pixely always chooses the nearest pixel.
func (t *Texture) SetSmooth(smooth bool) {
	t.smooth = smooth
	if smooth {
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	} else {
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	}
}

func (t *Texture) SetWrapToRepeat() {
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
}

func (t *Texture) SetWrapToClamp() {
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
}

// Smooth returns whether the Texture is set to be drawn "smooth" or "pixely".
func (t *Texture) Smooth() bool {
	return t.smooth
}

// Begin binds the Texture. This is necessary before using the Texture.
func (t *Texture) Begin() {
	t.tex.bind()
}

// End unbinds the Texture and restores the previous one.
func (t *Texture) End() {
	t.tex.restore()
}

// BeginAt makes unit the active texture unit and binds the Texture to it.
// Pair it with EndAt on the same unit.
func (t *Texture) BeginAt(unit uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	t.tex.bind()
}

func (t *Texture) EndAt(unit uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	t.tex.restore()
	gl.ActiveTexture(gl.TEXTURE0)
}
