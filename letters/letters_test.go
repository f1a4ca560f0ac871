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
	"testing"

	"seehuhn.de/go/redact/content"
	"seehuhn.de/go/redact/coord"
)

func rectAt(x0 float64) coord.Rectangle {
	return coord.Rectangle{Left: x0, Right: x0 + 5, Bottom: 0, Top: 10}
}

func TestNormalizeFoldsPunctuationAndWhitespace(t *testing.T) {
	got := Normalize("John’s   Book\n", false)
	want := "John's Book"
	if got != want {
		t.Errorf("Normalize() = %q, want %q", got, want)
	}
}

func TestNormalizeFoldsFullwidthVariants(t *testing.T) {
	got := Normalize("Ａ２", false)
	want := "A2"
	if got != want {
		t.Errorf("Normalize() = %q, want %q", got, want)
	}
}

func TestFindLocatesContiguousRun(t *testing.T) {
	page := []Letter{
		{Rune: 'H', Rect: rectAt(0)},
		{Rune: 'i', Rect: rectAt(5)},
		{Rune: ' ', Rect: rectAt(10)},
		{Rune: 't', Rect: rectAt(15)},
		{Rune: 'h', Rect: rectAt(20)},
		{Rune: 'e', Rect: rectAt(25)},
		{Rune: 'r', Rect: rectAt(30)},
		{Rune: 'e', Rect: rectAt(35)},
	}
	m := Find("there", page, false)
	if m == nil {
		t.Fatal("expected a match")
	}
	if len(m) != 5 || m[0].Letter.Rune != 't' {
		t.Errorf("unexpected match: %+v", m)
	}
}

func TestFindReturnsNilWhenAbsent(t *testing.T) {
	page := []Letter{{Rune: 'X', Rect: rectAt(0)}}
	if Find("missing", page, false) != nil {
		t.Error("expected no match")
	}
}

func TestSegmentTextFusesAdjacentRuns(t *testing.T) {
	text := []rune("public info")
	redaction := []coord.Rectangle{{Left: 0, Right: 30, Bottom: 0, Top: 10}}
	var matches []Match
	for i, r := range text {
		rect := rectAt(float64(i * 5))
		matches = append(matches, Match{Letter: Letter{Rune: r, Rect: rect}})
	}
	segs := SegmentText(text, matches, coord.Rectangle{}, redaction, AnyOverlap)
	if !AnyRemoved(segs) {
		t.Fatal("expected at least one removed segment")
	}
	if segs[0].Keep {
		t.Errorf("first segment should be removed (overlaps redaction), got keep=%v", segs[0].Keep)
	}
}

func TestReconstructEmitsFullyKeptOperation(t *testing.T) {
	// A fully kept Text op still needs to be reconstructed when it shares a
	// touched block with an op that did lose characters: the glyph remover
	// rebuilds the whole block, so skipping this op here would silently
	// drop its text from the output.
	ts := &content.TextShow{
		Text:          "hello",
		FontName:      "F1",
		FontSize:      12,
		EffectiveSize: 12,
		PreMatrix:     coord.Identity,
		Chars: func() []content.ShownChar {
			var cs []content.ShownChar
			for range "hello" {
				cs = append(cs, content.ShownChar{Advance: 6})
			}
			return cs
		}(),
	}
	segs := []Segment{{StartIndex: 0, EndIndex: 5, Keep: true, Text: "hello"}}
	ops := Reconstruct(ts, segs)
	if ops == nil {
		t.Fatal("expected reconstructed operations for a fully kept operation")
	}
	if ops[0].Name != "BT" || ops[len(ops)-1].Name != "ET" {
		t.Errorf("reconstructed block must be wrapped in BT...ET, got first=%q last=%q", ops[0].Name, ops[len(ops)-1].Name)
	}
	var sawTj bool
	for _, op := range ops {
		if op.Name == "Tj" {
			sawTj = true
		}
	}
	if !sawTj {
		t.Error("expected a Tj for the kept text")
	}
}

func TestReconstructEmitsKeptSegments(t *testing.T) {
	ts := &content.TextShow{
		Text:          "public info",
		FontName:      "F1",
		FontSize:      12,
		EffectiveSize: 12,
		PreMatrix:     coord.Translate(100, 700),
		Chars: func() []content.ShownChar {
			var cs []content.ShownChar
			for range "public info" {
				cs = append(cs, content.ShownChar{Advance: 6})
			}
			return cs
		}(),
	}
	segs := []Segment{
		{StartIndex: 0, EndIndex: 6, Keep: false, Text: "public"},
		{StartIndex: 6, EndIndex: 11, Keep: true, Text: " info"},
	}
	ops := Reconstruct(ts, segs)
	if ops == nil {
		t.Fatal("expected reconstructed operations")
	}
	if ops[0].Name != "BT" || ops[len(ops)-1].Name != "ET" {
		t.Errorf("reconstructed block must be wrapped in BT...ET, got first=%q last=%q", ops[0].Name, ops[len(ops)-1].Name)
	}
	var sawTj bool
	for _, op := range ops {
		if op.Name == "Tj" {
			sawTj = true
			s, ok := op.Args[0].(content.String)
			if !ok || string(s) != " info" {
				t.Errorf("Tj operand = %v, want %q", op.Args, " info")
			}
		}
	}
	if !sawTj {
		t.Error("expected one Tj for the kept segment")
	}
}
