// Package postfx runs the mosaic as a screen-space pass: the scene is drawn into an
// offscreen frame, then a fullscreen quad samples that frame and the glyph atlas.
package postfx

import (
	_ "embed"
	"fmt"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/glyphmosaic/engine/glhf"
	"github.com/memmaker/glyphmosaic/engine/glyph"
	"github.com/memmaker/glyphmosaic/engine/mosaic"
	"github.com/memmaker/glyphmosaic/engine/util"
	"github.com/pkg/errors"
)

var (
	//go:embed shader/mosaic.vert
	mosaicVertexShaderSource string

	//go:embed shader/mosaic.frag
	mosaicFragmentShaderSource string
)

// uniform indices into the shader's uniform format
const (
	uniformInput = iota
	uniformAtlas
	uniformGlyphCount
	uniformResolution
	uniformCellSize
	uniformInvert
	uniformColorMode
	uniformTint
	uniformBoundaryWidth
	uniformHasAtlas
)

const (
	inputTextureUnit = 0
	atlasTextureUnit = 1
)

type Pass struct {
	frame      *glhf.Frame
	shader     *glhf.Shader
	quad       *glhf.VertexSlice
	atlas      *glhf.Texture
	glyphCount int
	width      int
	height     int
}

func NewPass(width, height int) (*Pass, error) {
	shader, err := loadMosaicShader()
	if err != nil {
		return nil, err
	}
	frame, err := glhf.NewFrame(width, height, false)
	if err != nil {
		return nil, errors.Wrap(err, "create scene frame")
	}
	pass := &Pass{
		frame:  frame,
		shader: shader,
		quad:   newFullscreenQuad(shader),
		width:  width,
		height: height,
	}
	util.LogGlInfo(fmt.Sprintf("[PostFX] mosaic pass ready at %dx%d", width, height))
	return pass, nil
}

func loadMosaicShader() (*glhf.Shader, error) {
	var (
		vertexFormat = glhf.AttrFormat{
			{Name: "position", Type: glhf.Vec2},
			{Name: "texCoord", Type: glhf.Vec2},
		}
		uniformFormat = glhf.AttrFormat{
			glhf.Attr{Name: "inputTexture", Type: glhf.Int},
			glhf.Attr{Name: "atlasTexture", Type: glhf.Int},
			glhf.Attr{Name: "glyphCount", Type: glhf.Float},
			glhf.Attr{Name: "resolution", Type: glhf.Vec2},
			glhf.Attr{Name: "cellSize", Type: glhf.Float},
			glhf.Attr{Name: "invert", Type: glhf.Int},
			glhf.Attr{Name: "colorMode", Type: glhf.Int},
			glhf.Attr{Name: "tint", Type: glhf.Vec3},
			glhf.Attr{Name: "boundaryWidth", Type: glhf.Float},
			glhf.Attr{Name: "hasAtlas", Type: glhf.Int},
		}
	)
	shader, err := glhf.NewShader(vertexFormat, uniformFormat, mosaicVertexShaderSource, mosaicFragmentShaderSource)
	if err != nil {
		return nil, errors.Wrap(err, "mosaic shader")
	}
	shader.Begin()
	shader.SetUniformAttr(uniformInput, int32(inputTextureUnit))
	shader.SetUniformAttr(uniformAtlas, int32(atlasTextureUnit))
	shader.End()
	return shader, nil
}

func newFullscreenQuad(shader *glhf.Shader) *glhf.VertexSlice {
	quad := glhf.MakeVertexSlice(shader, 4, 4)
	quad.SetPrimitiveType(gl.TRIANGLE_STRIP)
	quad.Begin()
	quad.SetVertexData([]glhf.GlFloat{
		-1, -1, 0, 0,
		1, -1, 1, 0,
		-1, 1, 0, 1,
		1, 1, 1, 1,
	})
	quad.End()
	return quad
}

// SetAtlas uploads atlas as the glyph texture. When the upload fails the previous
// texture stays in use and the error wraps glyph.ErrResourceUnavailable.
func (p *Pass) SetAtlas(atlas *glyph.Atlas) error {
	if atlas == nil {
		p.atlas = nil
		p.glyphCount = 0
		return nil
	}
	texture, err := glhf.NewTextureChecked(glyph.AtlasSize, glyph.AtlasSize, false, atlas.FlippedPixels())
	if err != nil {
		util.LogGlError(fmt.Sprintf("[PostFX] atlas upload failed: %v", err))
		return errors.Wrapf(glyph.ErrResourceUnavailable, "upload atlas: %v", err)
	}
	// glyph cells rely on wrapping for the row offset and on nearest filtering for crisp edges
	texture.Begin()
	texture.SetSmooth(false)
	texture.SetWrapToRepeat()
	texture.End()

	p.atlas = texture
	p.glyphCount = atlas.GlyphCount()
	util.LogGlDebug(fmt.Sprintf("[PostFX] atlas texture %d holds %d glyphs", texture.ID(), p.glyphCount))
	return nil
}

// GlyphCount is the glyph count of the texture in use, 0 without an atlas.
func (p *Pass) GlyphCount() int {
	return p.glyphCount
}

// BeginScene redirects drawing into the offscreen frame.
func (p *Pass) BeginScene() {
	p.frame.Begin()
	glhf.Bounds(0, 0, p.width, p.height)
}

func (p *Pass) EndScene() {
	p.frame.End()
}

// Draw renders the composited frame into the currently bound framebuffer. Without an atlas
// or with a degenerate configuration the scene is shown unchanged.
func (p *Pass) Draw(cfg mosaic.Config) {
	enabled := p.atlas != nil && cfg.Validate() == nil

	gl.Disable(gl.DEPTH_TEST)
	defer gl.Enable(gl.DEPTH_TEST)
	glhf.Bounds(0, 0, p.width, p.height)

	p.shader.Begin()
	p.shader.SetUniformAttr(uniformHasAtlas, enabled)
	if enabled {
		p.shader.SetUniformAttr(uniformGlyphCount, float32(p.glyphCount))
		p.shader.SetUniformAttr(uniformResolution, mgl32.Vec2{float32(p.width), float32(p.height)})
		p.shader.SetUniformAttr(uniformCellSize, float32(cfg.CellSize))
		p.shader.SetUniformAttr(uniformInvert, cfg.Invert)
		p.shader.SetUniformAttr(uniformColorMode, int32(cfg.ColorMode))
		p.shader.SetUniformAttr(uniformTint, mgl32.Vec3{float32(cfg.Tint[0]), float32(cfg.Tint[1]), float32(cfg.Tint[2])})
		p.shader.SetUniformAttr(uniformBoundaryWidth, float32(cfg.BoundaryWidth))
		p.atlas.BeginAt(atlasTextureUnit)
	}
	p.frame.Texture().BeginAt(inputTextureUnit)

	p.quad.Begin()
	p.quad.Draw()
	p.quad.End()

	p.frame.Texture().EndAt(inputTextureUnit)
	if enabled {
		p.atlas.EndAt(atlasTextureUnit)
	}
	p.shader.End()
}

// Resize replaces the offscreen frame. The old one is released by its finalizer.
func (p *Pass) Resize(width, height int) error {
	if width == p.width && height == p.height {
		return nil
	}
	if width <= 0 || height <= 0 {
		return errors.Errorf("resize pass to %dx%d", width, height)
	}
	frame, err := glhf.NewFrame(width, height, false)
	if err != nil {
		return errors.Wrap(err, "resize scene frame")
	}
	p.frame = frame
	p.width = width
	p.height = height
	return nil
}
