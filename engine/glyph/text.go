package glyph

// TextLayout places text built from atlas cells in pixel space, y pointing down.
// Advance and LineHeight are measured in atlas pixels and multiplied by Scale.
type TextLayout struct {
	X, Y       float32
	Scale      float32
	Advance    float32
	LineHeight float32
}

// FloatsPerTextVertex is x, y, u, v.
const FloatsPerTextVertex = 4

// CellOf returns the cell that shows r. When symbols alias, only the last symbol written
// to a cell is visible.
func (a *Atlas) CellOf(r rune) (int, bool) {
	for i := len(a.Symbols) - 1; i >= 0 && i+Capacity >= len(a.Symbols); i-- {
		if a.Symbols[i] == r {
			return i % Capacity, true
		}
	}
	return 0, false
}

// TextQuads lays out lines as two triangles per visible rune. Texture coordinates
// address the flipped upload of the atlas, so v grows towards the atlas top.
// Spaces and runes missing from the atlas only advance the pen.
func (a *Atlas) TextQuads(lines []string, layout TextLayout) []float32 {
	var vertices []float32
	size := float32(CellSize) * layout.Scale
	advance := layout.Advance * layout.Scale
	lineHeight := layout.LineHeight * layout.Scale

	y := layout.Y
	for _, line := range lines {
		x := layout.X
		for _, r := range line {
			cell, found := a.CellOf(r)
			if !found || r == ' ' {
				x += advance
				continue
			}
			rect := CellRect(cell)
			leftU := float32(rect.Min.X) / AtlasSize
			rightU := float32(rect.Max.X) / AtlasSize
			topV := 1 - float32(rect.Min.Y)/AtlasSize
			bottomV := 1 - float32(rect.Max.Y)/AtlasSize

			vertices = append(vertices,
				// top-left, bottom-left, bottom-right
				x, y, leftU, topV,
				x, y+size, leftU, bottomV,
				x+size, y+size, rightU, bottomV,
				// top-left, bottom-right, top-right
				x, y, leftU, topV,
				x+size, y+size, rightU, bottomV,
				x+size, y, rightU, topV,
			)
			x += advance
		}
		y += lineHeight
	}
	return vertices
}
