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

// Reconstruct emits the replacement operations for the kept segments of one
// original Text operation: a Tf of nominal size 1 (the real size is folded
// into the Tm scale, preserving the effective-font-size invariant), the
// Tr/Tc/Tw/Tz/Ts state in effect if non-default, and one Tm+Tj pair per kept
// segment. It returns nil only if every segment was removed, i.e. there is
// nothing left to emit; a fully kept operation is reconstructed too, since
// callers use this to rebuild every Text op of a touched block, not just
// the ones that had a removal of their own.
//
// Positions are computed by mapping the cumulative glyph advance (in
// unscaled text space, before this operation's Tm was applied) through the
// operation's own PreMatrix, so the result does not depend on the CTM
// being a pure translation.
func Reconstruct(orig *content.TextShow, segs []Segment) []*content.Operation {
	var body []*content.Operation
	tfEmitted := false
	cum := 0.0

	for _, seg := range segs {
		segStartCum := cum
		for _, c := range orig.Chars[seg.StartIndex:seg.EndIndex] {
			cum += c.Advance
		}
		if !seg.Keep {
			continue
		}

		if !tfEmitted {
			body = append(body, &content.Operation{
				Kind: content.KindTextState,
				Name: "Tf",
				Args: []content.Object{orig.FontName, content.Real(1)},
			})
			if orig.RenderMode != 0 {
				body = append(body, &content.Operation{
					Kind: content.KindTextState,
					Name: "Tr",
					Args: []content.Object{content.Integer(orig.RenderMode)},
				})
			}
			if orig.CharSpace != 0 {
				body = append(body, &content.Operation{
					Kind: content.KindTextState,
					Name: "Tc",
					Args: []content.Object{content.Real(orig.CharSpace)},
				})
			}
			if orig.WordSpace != 0 {
				body = append(body, &content.Operation{
					Kind: content.KindTextState,
					Name: "Tw",
					Args: []content.Object{content.Real(orig.WordSpace)},
				})
			}
			if orig.HScale != 0 && orig.HScale != 1 {
				body = append(body, &content.Operation{
					Kind: content.KindTextState,
					Name: "Tz",
					Args: []content.Object{content.Real(orig.HScale * 100)},
				})
			}
			if orig.Rise != 0 {
				body = append(body, &content.Operation{
					Kind: content.KindTextState,
					Name: "Ts",
					Args: []content.Object{content.Real(orig.Rise)},
				})
			}
			tfEmitted = true
		}

		x, y := coord.Apply(orig.PreMatrix, segStartCum, 0)
		size := orig.EffectiveSize
		body = append(body, &content.Operation{
			Kind: content.KindTextState,
			Name: "Tm",
			Args: []content.Object{
				content.Real(size), content.Real(0), content.Real(0), content.Real(size),
				content.Real(x), content.Real(y),
			},
		})
		body = append(body, &content.Operation{
			Kind: content.KindText,
			Name: "Tj",
			Args: []content.Object{content.String(seg.Text)},
		})
	}

	if len(body) == 0 {
		return nil
	}

	ops := make([]*content.Operation, 0, len(body)+2)
	ops = append(ops, &content.Operation{Kind: content.KindTextState, Name: "BT"})
	ops = append(ops, body...)
	ops = append(ops, &content.Operation{Kind: content.KindTextState, Name: "ET"})
	for _, op := range ops {
		op.InsideTextBlock = true
	}
	return ops
}
