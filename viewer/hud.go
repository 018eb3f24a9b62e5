package viewer

import (
	_ "embed"
	"fmt"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/glyphmosaic/engine/glhf"
	"github.com/memmaker/glyphmosaic/engine/glyph"
	"github.com/memmaker/glyphmosaic/engine/util"
	"github.com/pkg/errors"
)

var (
	//go:embed shader/hud.vert
	hudVertexShaderSource string

	//go:embed shader/hud.frag
	hudFragmentShaderSource string
)

const (
	hudFontSize = 32
	hudScale    = 0.5
	hudMargin   = 8
)

var helpLines = []string{
	"1-5 model  I invert  T tint  +/- cell  [/] wipe  C glyphs  F/G font",
	"R reset  Space pause  P dump atlas  H hide help  Esc quit",
}

// Hud draws text on top of the composited frame with a glyph atlas of its own.
type Hud struct {
	shader   *glhf.Shader
	texture  *glhf.Texture
	atlas    *glyph.Atlas
	layout   glyph.TextLayout
	vertices *glhf.VertexSlice
	lines    []string
	visible  bool
}

func printableASCII() []rune {
	symbols := make([]rune, 0, 0x7f-0x20)
	for r := rune(0x20); r < 0x7f; r++ {
		symbols = append(symbols, r)
	}
	return symbols
}

func NewHud(width, height int) (*Hud, error) {
	builder := glyph.NewBuilder(glyph.GoMono()).WithFallback(glyph.Basic())
	atlas, err := builder.Build(printableASCII(), hudFontSize)
	if err != nil {
		return nil, errors.Wrap(err, "hud atlas")
	}
	texture, err := glhf.NewTextureChecked(glyph.AtlasSize, glyph.AtlasSize, true, atlas.FlippedPixels())
	if err != nil {
		return nil, errors.Wrap(err, "hud texture")
	}
	advance := monospaceAdvance(atlas)
	hud := &Hud{
		shader:  loadHudShader(width, height),
		texture: texture,
		atlas:   atlas,
		layout: glyph.TextLayout{
			X:          hudMargin,
			Y:          hudMargin,
			Scale:      hudScale,
			Advance:    advance,
			LineHeight: hudFontSize * 1.25,
		},
		visible: true,
	}
	util.LogGlDebug(fmt.Sprintf("[Hud] %s atlas, advance %.1fpx", atlas.FaceName, advance))
	return hud, nil
}

// monospaceAdvance measures the face the atlas was actually built with.
func monospaceAdvance(atlas *glyph.Atlas) float32 {
	source := glyph.GoMono()
	if atlas.FaceName == glyph.Basic().Name() {
		source = glyph.Basic()
	}
	face, err := source.Face(atlas.FontSize)
	if err != nil {
		return float32(atlas.FontSize) * 0.6
	}
	defer face.Close()
	advance, ok := face.GlyphAdvance('M')
	if !ok {
		return float32(atlas.FontSize) * 0.6
	}
	return float32(advance) / 64
}

func loadHudShader(width, height int) *glhf.Shader {
	var (
		vertexFormat = glhf.AttrFormat{
			{Name: "position", Type: glhf.Vec2},
			{Name: "texCoord", Type: glhf.Vec2},
		}
		uniformFormat = glhf.AttrFormat{
			glhf.Attr{Name: "projection", Type: glhf.Mat4},
			glhf.Attr{Name: "glyphs", Type: glhf.Int},
			glhf.Attr{Name: "textColor", Type: glhf.Vec3},
		}
		shader *glhf.Shader
	)
	var err error
	shader, err = glhf.NewShader(vertexFormat, uniformFormat, hudVertexShaderSource, hudFragmentShaderSource)

	if err != nil {
		panic(err)
	}

	shader.Begin()
	shader.SetUniformAttr(0, util.Get2DPixelCoordOrthographicProjectionMatrix(width, height))
	shader.SetUniformAttr(1, int32(0))
	shader.SetUniformAttr(2, mgl32.Vec3{0.9, 0.95, 0.9})
	shader.End()
	return shader
}

// SetStatus replaces the status line shown below the help text.
func (h *Hud) SetStatus(status string) {
	lines := append(append([]string{}, helpLines...), status)
	if equalLines(lines, h.lines) {
		return
	}
	h.lines = lines
	data := h.atlas.TextQuads(lines, h.layout)
	if len(data) == 0 {
		h.vertices = nil
		return
	}
	glData := make([]glhf.GlFloat, len(data))
	for i, f := range data {
		glData[i] = glhf.GlFloat(f)
	}
	vertexCount := len(data) / glyph.FloatsPerTextVertex
	vertices := glhf.MakeVertexSlice(h.shader, vertexCount, vertexCount)
	vertices.Begin()
	vertices.SetVertexData(glData)
	vertices.End()
	h.vertices = vertices
}

func equalLines(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (h *Hud) Toggle() {
	h.visible = !h.visible
}

func (h *Hud) Resize(width, height int) {
	h.shader.Begin()
	h.shader.SetUniformAttr(0, util.Get2DPixelCoordOrthographicProjectionMatrix(width, height))
	h.shader.End()
}

func (h *Hud) Draw() {
	if !h.visible || h.vertices == nil {
		return
	}
	gl.Disable(gl.DEPTH_TEST)
	defer gl.Enable(gl.DEPTH_TEST)

	h.shader.Begin()
	h.texture.BeginAt(0)
	h.vertices.Begin()
	h.vertices.Draw()
	h.vertices.End()
	h.texture.EndAt(0)
	h.shader.End()
}
