package text

import (
	"testing"

	"github.com/fzipp/bmfont"
)

func testFont() *Font {
	return NewFont(&bmfont.Descriptor{
		Common: bmfont.Common{
			LineHeight: 32,
			Base:       26,
			ScaleW:     256,
			ScaleH:     256,
		},
		Pages: map[int]bmfont.Page{
			0: {ID: 0, File: "atlas_0.png"},
		},
		Chars: map[rune]bmfont.Char{
			'A': {ID: 'A', X: 0, Y: 0, Width: 20, Height: 24, XOffset: 1, YOffset: 2, XAdvance: 22},
			'V': {ID: 'V', X: 20, Y: 0, Width: 20, Height: 24, XAdvance: 22},
			'.': {ID: '.', X: 40, Y: 0, Width: 6, Height: 6, YOffset: 20, XAdvance: 8},
		},
		Kerning: map[bmfont.CharPair]bmfont.Kerning{
			{First: 'A', Second: 'V'}: {Amount: -3},
		},
	})
}

func TestLayoutBuildsQuadPerGlyph(t *testing.T) {
	f := testFont()
	verts, width := layoutText(f, NewStyle("AV.", 32))

	// Six vertices of seven floats per glyph.
	if got := len(verts); got != 3*6*floatsPerVertex {
		t.Fatalf("got %d floats, want %d", got, 3*6*floatsPerVertex)
	}
	// Advances 22 + (22-3 kerned) + 8.
	if width != 49 {
		t.Errorf("width = %v, want 49", width)
	}
}

func TestLayoutAppliesGlyphOffsets(t *testing.T) {
	f := testFont()
	verts, _ := layoutText(f, NewStyle("A", 32))

	// Third vertex of the first triangle is the quad's top-left corner.
	x0, y0 := verts[2*floatsPerVertex], verts[2*floatsPerVertex+1]
	if x0 != 1 || y0 != 2 {
		t.Errorf("top-left corner = (%v, %v), want (1, 2)", x0, y0)
	}
}

func TestLayoutScalesToRequestedSize(t *testing.T) {
	f := testFont()
	_, full := layoutText(f, NewStyle("A", 32))
	_, half := layoutText(f, NewStyle("A", 16))

	if half != full/2 {
		t.Errorf("half-size width = %v, want %v", half, full/2)
	}
}

func TestLayoutNewlineResetsCursor(t *testing.T) {
	f := testFont()
	oneLine, w1 := layoutText(f, NewStyle("AA", 32))
	twoLines, w2 := layoutText(f, NewStyle("A\nA", 32))

	if len(oneLine) != len(twoLines) {
		t.Errorf("newline changed the vertex count: %d vs %d", len(oneLine), len(twoLines))
	}
	if w2 >= w1 {
		t.Errorf("two-line width %v not narrower than one-line %v", w2, w1)
	}

	// Second line's quad sits one line height lower.
	base := twoLines[len(twoLines)/2:]
	topLeftY := base[2*floatsPerVertex+1]
	if topLeftY != 32+2 {
		t.Errorf("second line top-left y = %v, want 34", topLeftY)
	}
}

func TestLayoutSkipsUnknownRunes(t *testing.T) {
	f := testFont()
	verts, width := layoutText(f, NewStyle("A\x01A", 32))

	if got := len(verts); got != 2*6*floatsPerVertex {
		t.Errorf("got %d floats, want two glyphs", got)
	}
	if width != 44 {
		t.Errorf("width = %v, want 44", width)
	}
}

func TestLayoutEmptyString(t *testing.T) {
	f := testFont()
	verts, width := layoutText(f, NewStyle("", 32))
	if len(verts) != 0 || width != 0 {
		t.Errorf("empty string produced %d floats, width %v", len(verts), width)
	}
}

func TestFontAtlasUV(t *testing.T) {
	f := testFont()
	g, ok := f.glyph('V')
	if !ok {
		t.Fatal("glyph V missing")
	}
	u0, v0, u1, v1 := f.atlasUV(g)
	if u0 != 20.0/256 || v0 != 0 || u1 != 40.0/256 || v1 != 24.0/256 {
		t.Errorf("uv = (%v, %v, %v, %v)", u0, v0, u1, v1)
	}
}

func TestFontPages(t *testing.T) {
	pages := testFont().Pages()
	if pages[0] != "atlas_0.png" {
		t.Errorf("page 0 = %q, want atlas_0.png", pages[0])
	}
}
