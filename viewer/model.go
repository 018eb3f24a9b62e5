package viewer

import (
	_ "embed"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/glyphmosaic/engine/glhf"
	"github.com/memmaker/glyphmosaic/engine/scene"
	"github.com/memmaker/glyphmosaic/engine/util"
)

var (
	//go:embed shader/model.vert
	modelVertexShaderSource string

	//go:embed shader/model.frag
	modelFragmentShaderSource string
)

const (
	ShaderProjectionMatrix = iota
	ShaderViewMatrix
	ShaderModelMatrix
	ShaderLightPosition
	ShaderLightColor
	ShaderObjectColor
	ShaderEyePosition
)

func loadModelShader(camera util.Camera) *glhf.Shader {
	var (
		vertexFormat = glhf.AttrFormat{
			{Name: "position", Type: glhf.Vec3},
			{Name: "normal", Type: glhf.Vec3},
		}
		uniformFormat = glhf.AttrFormat{
			glhf.Attr{Name: "projection", Type: glhf.Mat4},
			glhf.Attr{Name: "camera", Type: glhf.Mat4},
			glhf.Attr{Name: "model", Type: glhf.Mat4},
			glhf.Attr{Name: "light_position", Type: glhf.Vec3},
			glhf.Attr{Name: "light_color", Type: glhf.Vec3},
			glhf.Attr{Name: "object_color", Type: glhf.Vec3},
			glhf.Attr{Name: "eye_position", Type: glhf.Vec3},
		}
		shader *glhf.Shader
	)

	var err error
	shader, err = glhf.NewShader(vertexFormat, uniformFormat, modelVertexShaderSource, modelFragmentShaderSource)

	if err != nil {
		panic(err)
	}

	shader.Begin()
	shader.SetUniformAttr(ShaderProjectionMatrix, camera.GetProjectionMatrix())
	shader.SetUniformAttr(ShaderViewMatrix, camera.GetViewMatrix())
	shader.SetUniformAttr(ShaderModelMatrix, mgl32.Ident4())
	shader.SetUniformAttr(ShaderLightPosition, mgl32.Vec3{3, 5, 4})
	shader.SetUniformAttr(ShaderLightColor, mgl32.Vec3{0.9, 0.9, 0.9})
	shader.SetUniformAttr(ShaderObjectColor, mgl32.Vec3{0.85, 0.55, 0.3})
	shader.SetUniformAttr(ShaderEyePosition, camera.GetPosition())
	shader.End()
	return shader
}

// Model is a mesh uploaded to the GPU together with its transform.
type Model struct {
	*util.Transform
	name      string
	vertices  *glhf.VertexSlice
	triangles int
}

func NewModel(shader *glhf.Shader, name string, mesh *scene.MeshData) *Model {
	interleaved := mesh.Interleave()
	data := make([]glhf.GlFloat, len(interleaved))
	for i, f := range interleaved {
		data[i] = glhf.GlFloat(f)
	}
	vertexCount := mesh.VertexCount()
	vertices := glhf.MakeIndexedVertexSlice(shader, vertexCount, vertexCount, mesh.Indices)
	vertices.Begin()
	vertices.SetVertexData(data)
	vertices.End()
	return &Model{
		Transform: util.NewDefaultTransform(name),
		name:      name,
		vertices:  vertices,
		triangles: mesh.TriangleCount(),
	}
}

func (m *Model) Name() string {
	return m.name
}

func (m *Model) Draw(shader *glhf.Shader) {
	shader.SetUniformAttr(ShaderModelMatrix, m.GetTransformMatrix())
	m.vertices.Begin()
	m.vertices.Draw()
	m.vertices.End()
}
