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

package letters

import (
	"seehuhn.de/go/redact/content"
	"seehuhn.de/go/redact/coord"
)

// FromTextOps derives a page's letter stream directly from already-parsed
// content-stream operations, for callers with no independent text
// extractor (rasterizer) collaborator available. It mirrors the ascent/
// descent and cumulative-advance math the parser itself uses to compute a
// [content.TextShow]'s own BBox (see showTextKerned in the content
// package), just evaluated per character instead of once for the whole
// operation, so rectangles built this way are already in content-stream
// user-space: callers must NOT additionally route them through
// [coord.VisualRectToContent].
func FromTextOps(ops []*content.Operation) []Letter {
	var out []Letter
	for _, op := range ops {
		if op.Kind != content.KindText || op.Text == nil {
			continue
		}
		out = append(out, fromOneOp(op.Text)...)
	}
	return out
}

func fromOneOp(ts *content.TextShow) []Letter {
	ascent := ts.EffectiveSize * 0.8
	descent := ts.EffectiveSize * 0.2

	out := make([]Letter, 0, len(ts.Chars))
	cum := 0.0
	for _, c := range ts.Chars {
		x0, y0 := coord.Apply(ts.PreMatrix, cum, 0)
		x1, y1 := coord.Apply(ts.PreMatrix, cum+c.Advance, 0)
		cum += c.Advance

		rect := coord.NewRectangle(
			minF(x0, x1), minF(y0, y1)-descent,
			maxF(x0, x1), maxF(y0, y1)+ascent,
		)
		out = append(out, Letter{Rune: c.Rune, Rect: rect})
	}
	return out
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
