package glhf

import (
	"runtime"

	"github.com/faiface/mainthread"
	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/pkg/errors"
)

type GlFloat float32

// VertexSlice points to a portion of (or possibly whole) vertex array. It is used as a pointer,
// contrary to Go's builtin slices, so that Begin/End-ing it stays unambiguous.
//
// Note that you need to Begin a VertexSlice before updating its elements or drawing it.
// After you're done with it, you need to End it.
type VertexSlice struct {
	va                   *vertexArray
	startIndex, endIndex int
}

// MakeVertexSlice allocates a new vertex array with specified capacity and returns a VertexSlice
// that points to its first len elements.
//
// Note, that a vertex array is specialized for a specific shader and can't be used with another
// shader.
func MakeVertexSlice(shader *Shader, len, cap int) *VertexSlice {
	return MakeIndexedVertexSlice(shader, len, cap, nil)
}

// MakeIndexedVertexSlice is MakeVertexSlice with an element buffer. Draw then renders the indices
// instead of the raw vertex range.
func MakeIndexedVertexSlice(shader *Shader, len, cap int, indices []uint32) *VertexSlice {
	if len > cap {
		panic("failed to make vertex slice: len > cap")
	}
	return &VertexSlice{
		va:         newVertexArray(shader, cap, indices),
		startIndex: 0,
		endIndex:   len,
	}
}

// VertexFormat returns the format of vertex attributes inside the underlying vertex array of this
// VertexSlice.
func (vs *VertexSlice) VertexFormat() AttrFormat {
	return vs.va.format
}

// Stride returns the number of float32 elements occupied by one vertex.
func (vs *VertexSlice) Stride() int {
	return vs.va.stride / 4
}

// Len returns the length of the VertexSlice (number of vertices).
func (vs *VertexSlice) Len() int {
	return vs.endIndex - vs.startIndex
}

// SetVertexData sets the contents of the VertexSlice.
//
// The data is a slice of float32's, where each vertex attribute occupies a certain number of
// elements. Namely, Float occupies 1, Vec2 occupies 2, Vec3 occupies 3 and Vec4 occupies 4. The
// attributes in the data slice must be in the same order as in the vertex format of this Vertex
// Slice.
//
// If the length of vertices does not match the length of the VertexSlice, this method panics.
func (vs *VertexSlice) SetVertexData(data []GlFloat) {
	if len(data)/vs.Stride() != vs.Len() {
		panic("set vertex data: wrong length of vertices")
	}
	vs.va.setVertexData(vs.startIndex, vs.endIndex, data)
}

// Draw draws the content of the VertexSlice.
func (vs *VertexSlice) Draw() {
	vs.va.draw(vs.startIndex, vs.endIndex)
}

// Begin binds the underlying vertex array. Calling this method is necessary before using the VertexSlice.
func (vs *VertexSlice) Begin() {
	vs.va.begin()
}

// End unbinds the underlying vertex array. Call this method when you're done with VertexSlice.
func (vs *VertexSlice) End() {
	vs.va.end()
}

func (vs *VertexSlice) SetPrimitiveType(glPrimitiveType uint32) {
	vs.va.primitiveType = glPrimitiveType
}

type vertexArray struct {
	vao, vbo, ibo binder
	cap           int
	format        AttrFormat
	stride        int
	offset        []int
	shader        *Shader
	indexCount    int32
	primitiveType uint32
}

const vertexArrayMinCap = 4

func newVertexArray(shader *Shader, cap int, indices []uint32) *vertexArray {
	if cap < vertexArrayMinCap {
		cap = vertexArrayMinCap
	}

	va := &vertexArray{
		primitiveType: gl.TRIANGLES,
		vao: binder{
			restoreLoc: gl.VERTEX_ARRAY_BINDING,
			bindFunc: func(obj uint32) {
				gl.BindVertexArray(obj)
			},
		},
		vbo: binder{
			restoreLoc: gl.ARRAY_BUFFER_BINDING,
			bindFunc: func(obj uint32) {
				gl.BindBuffer(gl.ARRAY_BUFFER, obj)
			},
		},
		ibo: binder{
			restoreLoc: gl.ELEMENT_ARRAY_BUFFER_BINDING,
			bindFunc: func(obj uint32) {
				gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, obj)
			},
		},
		indexCount: int32(len(indices)),
		cap:        cap,
		format:     shader.VertexFormat(),
		stride:     shader.VertexFormat().Size(),
		offset:     make([]int, len(shader.VertexFormat())),
		shader:     shader,
	}

	offset := 0
	for i, attr := range va.format {
		switch attr.Type {
		case Float, Vec2, Vec3, Vec4:
		default:
			panic(errors.New("failed to create vertex array: invalid attribute type"))
		}
		va.offset[i] = offset
		offset += attr.Type.Size()
	}

	gl.GenVertexArrays(1, &va.vao.obj)
	va.vao.bind()

	gl.GenBuffers(1, &va.vbo.obj)
	va.vbo.bind()
	emptyData := make([]byte, cap*va.stride)
	gl.BufferData(gl.ARRAY_BUFFER, len(emptyData), gl.Ptr(emptyData), gl.STATIC_DRAW)

	if len(indices) > 0 {
		// the element buffer binding is part of the VAO state, so it is bound while the VAO is
		gl.GenBuffers(1, &va.ibo.obj)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, va.ibo.obj)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)
	}

	for i, attr := range va.format {
		loc := gl.GetAttribLocation(shader.program.obj, gl.Str(attr.Name+"\x00"))
		if loc < 0 {
			continue
		}
		var size int32
		switch attr.Type {
		case Float:
			size = 1
		case Vec2:
			size = 2
		case Vec3:
			size = 3
		case Vec4:
			size = 4
		}
		gl.VertexAttribPointerWithOffset(uint32(loc), size, gl.FLOAT, false, int32(va.stride), uintptr(va.offset[i]))
		gl.EnableVertexAttribArray(uint32(loc))
	}

	va.vbo.restore()
	va.vao.restore()

	runtime.SetFinalizer(va, (*vertexArray).delete)

	return va
}

func (va *vertexArray) delete() {
	mainthread.CallNonBlock(func() {
		gl.DeleteVertexArrays(1, &va.vao.obj)
		gl.DeleteBuffers(1, &va.vbo.obj)
		if va.indexCount > 0 {
			gl.DeleteBuffers(1, &va.ibo.obj)
		}
	})
}

func (va *vertexArray) begin() {
	va.vao.bind()
	va.vbo.bind()
}

func (va *vertexArray) end() {
	va.vbo.restore()
	va.vao.restore()
}

func (va *vertexArray) draw(startIndex, endIndex int) {
	if va.indexCount > 0 {
		gl.DrawElements(va.primitiveType, va.indexCount, gl.UNSIGNED_INT, gl.Ptr(nil))
	} else {
		gl.DrawArrays(va.primitiveType, int32(startIndex), int32(endIndex-startIndex))
	}
}

func (va *vertexArray) setVertexData(i, j int, data []GlFloat) {
	if j-i == 0 {
		// avoid setting 0 bytes of buffer data
		return
	}
	gl.BufferSubData(gl.ARRAY_BUFFER, i*va.stride, len(data)*4, gl.Ptr(data))
}
