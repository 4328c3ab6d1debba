package text

import (
	"fmt"

	"github.com/fzipp/bmfont"
)

// Font wraps an AngelCode bitmap font descriptor with the lookups the
// layout code needs. The glyph atlas texture is loaded separately; Pages
// names the image files it comes from.
type Font struct {
	desc *bmfont.Descriptor
}

// LoadFont reads a .fnt descriptor from disk.
func LoadFont(path string) (*Font, error) {
	desc, err := bmfont.LoadDescriptor(path)
	if err != nil {
		return nil, fmt.Errorf("loading font %s: %w", path, err)
	}
	return NewFont(desc), nil
}

// NewFont builds a Font from an already parsed descriptor.
func NewFont(desc *bmfont.Descriptor) *Font {
	return &Font{desc: desc}
}

// LineHeight is the vertical advance between text lines, in font pixels.
func (f *Font) LineHeight() float32 {
	return float32(f.desc.Common.LineHeight)
}

// Pages returns the atlas image file names, indexed by page id.
func (f *Font) Pages() map[int]string {
	pages := make(map[int]string, len(f.desc.Pages))
	for id, p := range f.desc.Pages {
		pages[id] = p.File
	}
	return pages
}

func (f *Font) glyph(r rune) (bmfont.Char, bool) {
	c, ok := f.desc.Chars[r]
	return c, ok
}

func (f *Font) kerning(prev, next rune) float32 {
	k, ok := f.desc.Kerning[bmfont.CharPair{First: prev, Second: next}]
	if !ok {
		return 0
	}
	return float32(k.Amount)
}

// atlasUV maps a glyph's atlas rectangle to texture coordinates.
func (f *Font) atlasUV(c bmfont.Char) (u0, v0, u1, v1 float32) {
	w := float32(f.desc.Common.ScaleW)
	h := float32(f.desc.Common.ScaleH)
	u0 = float32(c.X) / w
	v0 = float32(c.Y) / h
	u1 = float32(c.X+c.Width) / w
	v1 = float32(c.Y+c.Height) / h
	return
}
