// seehuhn.de/go/redact - true content-stream redaction for PDF pages
// Copyright (C) 2025  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package fontmap is the default [content.Decoder]: given a simple font's
// code-to-glyph-name encoding and its embedded program, it turns a
// text-showing operand's raw bytes into the Unicode codepoints and PDF
// glyph-space advances the content parser needs to compute effective font
// sizes and match extracted letters against operator text.
package fontmap

import (
	"fmt"

	"seehuhn.de/go/postscript/type1/names"
	"seehuhn.de/go/sfnt"

	"seehuhn.de/go/redact/content"
)

// SimpleFont describes one simple (single-byte code) font resource: the
// code-to-glyph-name encoding PDF calls out in the font's /Differences or
// base encoding, the glyph program used to look up widths, and whether the
// font is a symbol font (Dingbats, Symbol) where glyph names do not follow
// the standard Adobe glyph list.
type SimpleFont struct {
	Encoding [256]string
	Program  *sfnt.Font
	Dingbats bool
}

// Registry maps PDF font resource names, as they appear on a page's
// /Resources /Font dictionary, to the SimpleFont describing them. Register
// is called once per font resource before [Registry.Decode] is used as a
// [content.Decoder].
type Registry struct {
	fonts map[content.Name]*SimpleFont
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{fonts: make(map[content.Name]*SimpleFont)}
}

// Register associates a font resource name with its SimpleFont description.
func (r *Registry) Register(name content.Name, f *SimpleFont) {
	r.fonts[name] = f
}

// Decode implements [content.Decoder]: it has the signature the content
// parser needs and can be passed to [content.Parse] directly.
func (r *Registry) Decode(fontResource content.Name, operand []byte) ([]content.DecodedChar, error) {
	f, ok := r.fonts[fontResource]
	if !ok {
		return nil, fmt.Errorf("fontmap: unknown font resource %q", fontResource)
	}
	out := make([]content.DecodedChar, 0, len(operand))
	for _, code := range operand {
		glyphName := f.Encoding[code]
		if glyphName == "" {
			glyphName = ".notdef"
		}
		fontName := ""
		if f.Dingbats {
			fontName = "ZapfDingbats"
		}
		rr := names.ToUnicode(glyphName, fontName)
		var ch rune
		for _, r := range rr {
			ch = r
			break
		}
		out = append(out, content.DecodedChar{
			Rune:    ch,
			Advance: glyphWidth(f, ch),
		})
	}
	return out, nil
}

// glyphWidth returns the advance width of the glyph for rune ch, in PDF
// glyph-space units (1000 units per em), using the font's cmap to find the
// glyph ID and its hmtx table for the raw width.
func glyphWidth(f *SimpleFont, ch rune) float64 {
	if f.Program == nil || f.Program.CMapTable == nil {
		return 0
	}
	cm, err := f.Program.CMapTable.GetBest()
	if err != nil || cm == nil {
		return 0
	}
	gid := cm.Lookup(ch)
	widths := f.Program.Widths()
	if int(gid) >= len(widths) {
		return 0
	}
	unitsPerEm := float64(f.Program.UnitsPerEm)
	if unitsPerEm == 0 {
		unitsPerEm = 1000
	}
	return float64(widths[gid]) * 1000 / unitsPerEm
}
