package glhf

import (
	"runtime"

	"github.com/faiface/mainthread"
	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/pkg/errors"
)

// Frame is a framebuffer with a color texture and a depth renderbuffer attached.
// Everything drawn between Begin and End ends up in the Texture.
type Frame struct {
	fb     binder
	rbo    uint32
	tex    *Texture
	width  int
	height int
}

// NewFrame creates a new offscreen frame of the given size.
func NewFrame(width, height int, smooth bool) (*Frame, error) {
	f := &Frame{
		fb: binder{
			restoreLoc: gl.FRAMEBUFFER_BINDING,
			bindFunc: func(obj uint32) {
				gl.BindFramebuffer(gl.FRAMEBUFFER, obj)
			},
		},
		width:  width,
		height: height,
	}

	f.tex = NewTexture(width, height, smooth, nil)
	f.tex.Begin()
	f.tex.SetWrapToClamp()
	f.tex.End()

	gl.GenFramebuffers(1, &f.fb.obj)
	f.fb.bind()
	defer f.fb.restore()

	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, f.tex.ID(), 0)

	gl.GenRenderbuffers(1, &f.rbo)
	gl.BindRenderbuffer(gl.RENDERBUFFER, f.rbo)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH24_STENCIL8, int32(width), int32(height))
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_STENCIL_ATTACHMENT, gl.RENDERBUFFER, f.rbo)
	gl.BindRenderbuffer(gl.RENDERBUFFER, 0)

	if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		gl.DeleteFramebuffers(1, &f.fb.obj)
		gl.DeleteRenderbuffers(1, &f.rbo)
		return nil, errors.Errorf("framebuffer not complete: 0x%x", status)
	}

	runtime.SetFinalizer(f, (*Frame).delete)

	return f, nil
}

func (f *Frame) delete() {
	mainthread.CallNonBlock(func() {
		gl.DeleteFramebuffers(1, &f.fb.obj)
		gl.DeleteRenderbuffers(1, &f.rbo)
	})
}

// ID returns the OpenGL framebuffer ID of this Frame.
func (f *Frame) ID() uint32 {
	return f.fb.obj
}

// Width returns the width of the Frame in pixels.
func (f *Frame) Width() int {
	return f.width
}

// Height returns the height of the Frame in pixels.
func (f *Frame) Height() int {
	return f.height
}

// Begin binds the Frame. All draw operations will target this Frame until End is called.
func (f *Frame) Begin() {
	f.fb.bind()
}

// End unbinds the Frame. All draw operations will go to whatever was bound before this Frame.
func (f *Frame) End() {
	f.fb.restore()
}

// Texture returns the Frame's underlying color Texture that the Frame draws on.
func (f *Frame) Texture() *Texture {
	return f.tex
}
