package glyph

import (
	"bytes"
	"image"
	"image/png"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"golang.org/x/image/font"
)

func inkBounds(img *image.RGBA, within image.Rectangle) (image.Rectangle, int) {
	var bounds image.Rectangle
	count := 0
	for y := within.Min.Y; y < within.Max.Y; y++ {
		for x := within.Min.X; x < within.Max.X; x++ {
			if img.RGBAAt(x, y).A == 0 {
				continue
			}
			count++
			bounds = bounds.Union(image.Rect(x, y, x+1, y+1))
		}
	}
	return bounds, count
}

func onlyAt(index, n int, r rune) []rune {
	symbols := []rune(strings.Repeat(" ", n))
	symbols[index] = r
	return symbols
}

func TestGlyphCountEqualsSymbolCount(t *testing.T) {
	builder := NewBuilder(GoMono())
	for _, n := range []int{1, 2, 19, 20, 70, 256, 300} {
		symbols := []rune(strings.Repeat("@", n))
		atlas, err := builder.Build(symbols, 54)
		if err != nil {
			t.Fatalf("build %d symbols: %v", n, err)
		}
		if atlas.GlyphCount() != n {
			t.Errorf("glyph count: expected %d, got %d", n, atlas.GlyphCount())
		}
		if atlas.Aliased() != (n > Capacity) {
			t.Errorf("aliased flag wrong for %d symbols", n)
		}
		if atlas.Image.Bounds() != image.Rect(0, 0, AtlasSize, AtlasSize) {
			t.Errorf("atlas bounds: got %v", atlas.Image.Bounds())
		}
	}
}

func TestCellsAreDisjointAndRowMajor(t *testing.T) {
	seen := image.Rectangle{}
	for i := 0; i < Capacity; i++ {
		cell := CellRect(i)
		if cell.Dx() != CellSize || cell.Dy() != CellSize {
			t.Fatalf("cell %d has size %v", i, cell.Size())
		}
		expected := image.Pt((i%CellsPerRow)*CellSize, (i/CellsPerRow)*CellSize)
		if cell.Min != expected {
			t.Errorf("cell %d: expected origin %v, got %v", i, expected, cell.Min)
		}
		for j := 0; j < i; j++ {
			if cell.Overlaps(CellRect(j)) {
				t.Fatalf("cell %d overlaps cell %d", i, j)
			}
		}
		seen = seen.Union(cell)
	}
	if seen != image.Rect(0, 0, AtlasSize, AtlasSize) {
		t.Errorf("cells do not tile the atlas: %v", seen)
	}
	if CellRect(Capacity+3) != CellRect(3) {
		t.Errorf("index beyond capacity should alias")
	}
}

func TestGlyphStaysInsideItsCell(t *testing.T) {
	builder := NewBuilder(GoMono())
	for _, index := range []int{0, 17, 130, 255} {
		atlas, err := builder.Build(onlyAt(index, Capacity, '#'), 54)
		if err != nil {
			t.Fatal(err)
		}
		bounds, count := inkBounds(atlas.Image, atlas.Image.Bounds())
		if count == 0 {
			t.Fatalf("index %d: nothing drawn", index)
		}
		cell := CellRect(index)
		if !bounds.In(cell) {
			t.Errorf("index %d: ink %v escapes cell %v", index, bounds, cell)
		}
		if atlas.CellOrigin(index) != cell.Min {
			t.Errorf("index %d: origin %v, expected %v", index, atlas.CellOrigin(index), cell.Min)
		}
	}
}

func TestGlyphIsRoughlyCentered(t *testing.T) {
	atlas, err := NewBuilder(GoMono()).Build([]rune("#"), 54)
	if err != nil {
		t.Fatal(err)
	}
	bounds, _ := inkBounds(atlas.Image, CellRect(0))
	center := bounds.Min.Add(bounds.Max).Div(2)
	if center.X < CellSize/2-8 || center.X > CellSize/2+8 {
		t.Errorf("horizontal center %d too far from %d", center.X, CellSize/2)
	}
	if center.Y < CellSize/2-12 || center.Y > CellSize/2+12 {
		t.Errorf("vertical center %d too far from %d", center.Y, CellSize/2)
	}
}

func TestStencilIsPremultipliedWhite(t *testing.T) {
	atlas, err := NewBuilder(GoMono()).Build([]rune(" .:-=+*#%@"), 54)
	if err != nil {
		t.Fatal(err)
	}
	pix := atlas.Image.Pix
	for i := 0; i < len(pix); i += 4 {
		if pix[i] != pix[i+3] || pix[i+1] != pix[i+3] || pix[i+2] != pix[i+3] {
			t.Fatalf("pixel %d is not white with coverage alpha: %v", i/4, pix[i:i+4])
		}
	}
	// unused cells stay transparent
	_, count := inkBounds(atlas.Image, CellRect(200))
	if count != 0 {
		t.Errorf("unused cell has %d inked pixels", count)
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	symbols := []rune(" .:-=+*#%@01")
	first, err := NewBuilder(GoMono()).Build(symbols, 54)
	if err != nil {
		t.Fatal(err)
	}
	second, err := NewBuilder(GoMono()).Build(symbols, 54)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first.Image.Pix, second.Image.Pix) {
		t.Errorf("two builds with identical input differ")
	}
}

func TestSampleUsesFlippedRowsAndWraps(t *testing.T) {
	atlas, err := NewBuilder(GoMono()).Build(onlyAt(21, 32, '#'), 54)
	if err != nil {
		t.Fatal(err)
	}
	col, row := 21%CellsPerRow, 21/CellsPerRow
	for y := 0; y < CellSize; y++ {
		for x := 0; x < CellSize; x++ {
			u := (float64(col*CellSize+x) + 0.5) / AtlasSize
			v := 1 - (float64(row*CellSize+y)+0.5)/AtlasSize
			expected := atlas.Image.RGBAAt(col*CellSize+x, row*CellSize+y)
			if got := atlas.Sample(u, v); got != expected {
				t.Fatalf("texel (%d,%d): expected %v, got %v", x, y, expected, got)
			}
			if got := atlas.Sample(u+1, v-2); got != expected {
				t.Fatalf("texel (%d,%d) does not repeat: expected %v, got %v", x, y, expected, got)
			}
		}
	}
}

func TestFlippedPixelsReverseRows(t *testing.T) {
	atlas, err := NewBuilder(GoMono()).Build([]rune("#"), 54)
	if err != nil {
		t.Fatal(err)
	}
	flipped := atlas.FlippedPixels()
	stride := atlas.Image.Stride
	for _, y := range []int{0, 10, 40, AtlasSize - 1} {
		top := atlas.Image.Pix[y*stride : (y+1)*stride]
		bottom := flipped[(AtlasSize-1-y)*stride : (AtlasSize-y)*stride]
		if !bytes.Equal(top, bottom) {
			t.Errorf("row %d not mirrored", y)
		}
	}
}

func TestAliasingOverwritesEarlierCell(t *testing.T) {
	symbols := []rune(strings.Repeat(" ", Capacity+1))
	symbols[0] = '#'
	atlas, err := NewBuilder(GoMono()).Build(symbols, 54)
	if err != nil {
		t.Fatal(err)
	}
	if _, count := inkBounds(atlas.Image, CellRect(0)); count != 0 {
		t.Errorf("symbol %d should have replaced cell 0, found %d inked pixels", Capacity, count)
	}
}

func TestZeroWidthSymbolLeavesBlankCell(t *testing.T) {
	atlas, err := NewBuilder(GoMono()).Build([]rune{'#', '\u0301'}, 54)
	if err != nil {
		t.Fatal(err)
	}
	if _, count := inkBounds(atlas.Image, CellRect(1)); count != 0 {
		t.Errorf("combining mark drew %d pixels", count)
	}
}

func TestWideSymbolStaysInsideCell(t *testing.T) {
	atlas, err := NewBuilder(GoMono()).Build([]rune{' ', '漢', ' '}, 54)
	if err != nil {
		t.Fatal(err)
	}
	bounds, count := inkBounds(atlas.Image, atlas.Image.Bounds())
	if count > 0 && !bounds.In(CellRect(1)) {
		t.Errorf("wide symbol ink %v escapes cell %v", bounds, CellRect(1))
	}
}

func TestEmptySymbolsRejected(t *testing.T) {
	_, err := NewBuilder(GoMono()).Build(nil, 54)
	if !errors.Is(err, ErrNoSymbols) {
		t.Errorf("expected ErrNoSymbols, got %v", err)
	}
}

type brokenSource struct{}

func (brokenSource) Name() string { return "broken" }

func (brokenSource) Face(float64) (font.Face, error) {
	return nil, errors.New("no surface")
}

func TestUnavailableFace(t *testing.T) {
	atlas, err := NewBuilder(brokenSource{}).Build([]rune("01"), 54)
	if !errors.Is(err, ErrResourceUnavailable) {
		t.Fatalf("expected ErrResourceUnavailable, got %v", err)
	}
	if atlas != nil {
		t.Errorf("no partial atlas expected")
	}

	_, err = NewBuilder(GoMono()).Build([]rune("01"), -3)
	if !errors.Is(err, ErrResourceUnavailable) {
		t.Errorf("negative font size: expected ErrResourceUnavailable, got %v", err)
	}
}

func TestFallbackFace(t *testing.T) {
	atlas, err := NewBuilder(brokenSource{}).WithFallback(Basic()).Build([]rune("01"), 54)
	if err != nil {
		t.Fatal(err)
	}
	if atlas.FaceName != Basic().Name() {
		t.Errorf("expected fallback face, got %s", atlas.FaceName)
	}
	if _, count := inkBounds(atlas.Image, CellRect(0)); count == 0 {
		t.Errorf("fallback face drew nothing")
	}
}

func TestTrueTypeFileMissing(t *testing.T) {
	_, err := NewBuilder(TrueTypeFile("does-not-exist.ttf")).Build([]rune("01"), 54)
	if !errors.Is(err, ErrResourceUnavailable) {
		t.Errorf("expected ErrResourceUnavailable, got %v", err)
	}
}

func TestWritePNG(t *testing.T) {
	atlas, err := NewBuilder(Basic()).Build([]rune("AB"), 13)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err = atlas.WritePNG(&buf); err != nil {
		t.Fatal(err)
	}
	decoded, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if decoded.Bounds().Dx() != AtlasSize {
		t.Errorf("decoded width %d", decoded.Bounds().Dx())
	}
}
