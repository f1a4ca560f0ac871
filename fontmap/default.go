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

package fontmap

import "seehuhn.de/go/redact/content"

// DefaultDecoder is a best-effort [content.Decoder] for callers, such as
// the CLI, who have no per-font [Registry] built from the document's own
// font dictionaries. It treats every font resource as using the PDF
// standard Latin text encoding (codes 32-126 map to their ASCII rune,
// everything else decodes to the null glyph) and reports a fixed advance
// width for every glyph, since there is no embedded font program to read
// real metrics from.
//
// Redaction by explicit rectangle (RedactPage) does not depend on glyph
// positions being exact, only on which glyphs an op shows; RedactByText
// is more sensitive to DefaultDecoder's width approximation, since it
// drives where the extractor's matched letters line up against the
// content stream's own text. Callers who need byte-accurate search
// should build a real [Registry] from the document's font resources
// instead.
type DefaultDecoder struct {
	// FallbackAdvance is the glyph-space advance (1000 units per em)
	// reported for every character. Zero means 500, a typical average
	// Latin glyph width.
	FallbackAdvance float64
}

// Decode implements [content.Decoder].
func (d DefaultDecoder) Decode(fontResource content.Name, operand []byte) ([]content.DecodedChar, error) {
	advance := d.FallbackAdvance
	if advance == 0 {
		advance = 500
	}

	out := make([]content.DecodedChar, len(operand))
	for i, code := range operand {
		var r rune
		if code >= 0x20 && code <= 0x7e {
			r = rune(code)
		}
		out[i] = content.DecodedChar{Rune: r, Advance: advance}
	}
	return out, nil
}

var _ content.Decoder = DefaultDecoder{}.Decode
