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

import "seehuhn.de/go/redact/coord"

// Policy selects how a letter's rectangle is tested against the redaction
// rectangles to decide whether it is removed.
type Policy int

const (
	// AnyOverlap removes a letter whose glyph rectangle intersects
	// (strictly) any redaction rectangle. This is the default.
	AnyOverlap Policy = iota
	// FullyContained removes a letter only if its glyph rectangle is
	// fully contained in some redaction rectangle.
	FullyContained
	// CenterPoint removes a letter whose glyph-rectangle center lies
	// inside some redaction rectangle.
	CenterPoint
)

// Segment is a maximal run of characters from one Text operation sharing a
// single kept/removed classification.
type Segment struct {
	StartIndex, EndIndex int
	Keep                 bool
	Text                 string
}

func isRemoved(rect coord.Rectangle, areas []coord.Rectangle, policy Policy) bool {
	switch policy {
	case FullyContained:
		for _, a := range areas {
			if a.GetOverlapType(rect) == coord.OverlapFull {
				return true
			}
		}
		return false
	case CenterPoint:
		cx := (rect.Left + rect.Right) / 2
		cy := (rect.Bottom + rect.Top) / 2
		for _, a := range areas {
			if a.Contains(cx, cy) {
				return true
			}
		}
		return false
	default:
		return rect.IntersectsAny(areas)
	}
}

// SegmentText classifies every character of text and fuses adjacent
// same-classification runs. matches is nil when Find found no contiguous
// letter match, in which case the whole operation is treated as a single
// atom classified by wholeBBox: removed only if fully contained in one of
// the redaction areas, otherwise kept verbatim.
func SegmentText(text []rune, matches []Match, wholeBBox coord.Rectangle, areas []coord.Rectangle, policy Policy) []Segment {
	if matches == nil {
		keep := !wholeBBox.FullyInsideAny(areas)
		if len(text) == 0 {
			return nil
		}
		return []Segment{{StartIndex: 0, EndIndex: len(text), Keep: keep, Text: string(text)}}
	}

	var segs []Segment
	curKeep := false
	curStart := 0
	flush := func(end int) {
		if end <= curStart {
			return
		}
		segs = append(segs, Segment{
			StartIndex: curStart,
			EndIndex:   end,
			Keep:       curKeep,
			Text:       string(text[curStart:end]),
		})
	}
	for i, m := range matches {
		keep := !isRemoved(m.Letter.Rect, areas, policy)
		if i == 0 {
			curKeep = keep
			curStart = 0
			continue
		}
		if keep != curKeep {
			flush(i)
			curStart = i
			curKeep = keep
		}
	}
	flush(len(text))
	return segs
}

// AnyRemoved reports whether segs contains at least one removed run, i.e.
// whether the operation needs to be touched at all.
func AnyRemoved(segs []Segment) bool {
	for _, s := range segs {
		if !s.Keep {
			return true
		}
	}
	return false
}
