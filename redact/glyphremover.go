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

package redact

import (
	"seehuhn.de/go/redact/content"
	"seehuhn.de/go/redact/coord"
	"seehuhn.de/go/redact/letters"
)

// removeGlyphs walks ops, finds text blocks (runs with InsideTextBlock set,
// each ending at its ET), and replaces every block that has at least one
// removed character with a fully reconstructed block. Untouched blocks and
// all ops outside a block pass through unchanged. This is block-granularity
// filtering: touching any Text op inside a block forces the whole block to
// be rebuilt, so no original op from that block survives alongside a
// reconstructed one.
func removeGlyphs(ops []*content.Operation, pageLetters []letters.Letter, areas []coord.Rectangle, policy letters.Policy, caseInsensitive bool) ([]*content.Operation, int) {
	var out []*content.Operation
	removed := 0
	cursor := 0
	i := 0
	for i < len(ops) {
		op := ops[i]
		if !op.InsideTextBlock {
			out = append(out, op)
			i++
			continue
		}
		// find the end of this BT...ET block
		j := i
		for j < len(ops) && ops[j].InsideTextBlock {
			j++
			if ops[j-1].Name == "ET" {
				break
			}
		}
		block := ops[i:j]
		rebuilt, n, consumed := rebuildBlock(block, pageLetters[cursor:], areas, policy, caseInsensitive)
		cursor += consumed
		out = append(out, rebuilt...)
		removed += n
		i = j
	}
	return out, removed
}

// rebuildBlock decides whether one BT...ET block needs reconstruction and,
// if so, builds its replacement. It returns the number of letters consumed
// from pageLetters so the caller's cursor stays aligned across blocks.
func rebuildBlock(block []*content.Operation, pageLetters []letters.Letter, areas []coord.Rectangle, policy letters.Policy, caseInsensitive bool) ([]*content.Operation, int, int) {
	type textSegs struct {
		op   *content.Operation
		segs []letters.Segment
	}

	var segmented []textSegs
	touched := false
	consumed := 0

	for _, op := range block {
		if op.Kind != content.KindText || op.Text == nil {
			continue
		}
		matches := letters.Find(op.Text.Text, pageLetters[consumed:], caseInsensitive)
		if matches != nil {
			consumed += len(matches)
		}
		segs := letters.SegmentText([]rune(op.Text.Text), matches, op.Text.BBox, areas, policy)
		segmented = append(segmented, textSegs{op: op, segs: segs})
		if letters.AnyRemoved(segs) {
			touched = true
		}
	}

	if !touched {
		return block, 0, consumed
	}

	removedCount := 0
	var out []*content.Operation
	out = append(out, &content.Operation{Kind: content.KindTextState, Name: "BT", InsideTextBlock: true})

	segIdx := 0
	for _, op := range block {
		switch {
		case op.Name == "BT" || op.Name == "ET":
			continue
		case op.Kind == content.KindText:
			ts := segmented[segIdx]
			segIdx++
			if letters.AnyRemoved(ts.segs) {
				removedCount++
			}
			body := letters.Reconstruct(ts.op.Text, ts.segs)
			if len(body) > 2 {
				out = append(out, body[1:len(body)-1]...)
			}
		case op.Kind == content.KindTextState:
			// folded into the reconstructed Tf/Tm; dropped.
		default:
			op.InsideTextBlock = true
			out = append(out, op)
		}
	}
	out = append(out, &content.Operation{Kind: content.KindTextState, Name: "ET", InsideTextBlock: true})
	return out, removedCount, consumed
}
