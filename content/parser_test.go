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

package content

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// fixedWidthDecoder treats every input byte as one Latin-1 rune with a
// constant glyph advance, enough to exercise positioning math without
// pulling in a real font.
func fixedWidthDecoder(advance float64) Decoder {
	return func(font Name, operand []byte) ([]DecodedChar, error) {
		out := make([]DecodedChar, len(operand))
		for i, b := range operand {
			out[i] = DecodedChar{Rune: rune(b), Advance: advance}
		}
		return out, nil
	}
}

func TestParseSimpleTextShow(t *testing.T) {
	src := "BT /F1 12 Tf 100 700 Td (Hi) Tj ET"
	ops, err := Parse(strings.NewReader(src), fixedWidthDecoder(500))
	if err != nil {
		t.Fatal(err)
	}

	var shows []*Operation
	for _, op := range ops {
		if op.Kind == KindText {
			shows = append(shows, op)
		}
	}
	if len(shows) != 1 {
		t.Fatalf("got %d text-show operations, want 1", len(shows))
	}
	ts := shows[0].Text
	if ts.Text != "Hi" {
		t.Errorf("decoded text = %q, want %q", ts.Text, "Hi")
	}
	if ts.FontSize != 12 {
		t.Errorf("FontSize = %v, want 12", ts.FontSize)
	}
	if d := ts.EffectiveSize - 12; d > 1e-9 || d < -1e-9 {
		t.Errorf("EffectiveSize = %v, want 12 (identity Tm)", ts.EffectiveSize)
	}
}

func TestParseTextBlockNesting(t *testing.T) {
	src := "BT /F1 10 Tf (a) Tj ET q Q BT (b) Tj ET"
	ops, err := Parse(strings.NewReader(src), fixedWidthDecoder(500))
	if err != nil {
		t.Fatal(err)
	}
	for _, op := range ops {
		if (op.Name == "q" || op.Name == "Q") && op.InsideTextBlock {
			t.Errorf("op %q outside any text block must not be marked InsideTextBlock", op.Name)
		}
		if op.Kind == KindText && !op.InsideTextBlock {
			t.Errorf("text-show operator must be marked InsideTextBlock")
		}
	}
}

func TestParseGraphicsStateStack(t *testing.T) {
	src := "q 2 0 0 2 0 0 cm q 1 0 0 1 10 10 cm Q Q"
	ops, err := Parse(strings.NewReader(src), nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := Validate(ops); err != nil {
		t.Errorf("valid balanced q/Q rejected: %v", err)
	}
}

func TestParseUnbalancedQRejected(t *testing.T) {
	ops, err := Parse(strings.NewReader("q q Q"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := Validate(ops); err == nil {
		t.Error("expected validation error for unbalanced q/Q, got nil")
	}
}

func TestParseTJKerning(t *testing.T) {
	src := "BT /F1 10 Tf [(A) -500 (B)] TJ ET"
	ops, err := Parse(strings.NewReader(src), fixedWidthDecoder(500))
	if err != nil {
		t.Fatal(err)
	}
	var ts *TextShow
	for _, op := range ops {
		if op.Kind == KindText {
			ts = op.Text
		}
	}
	if ts == nil {
		t.Fatal("no text-show operation found")
	}
	if ts.Text != "AB" {
		t.Errorf("decoded text = %q, want %q", ts.Text, "AB")
	}
}

func TestParseInlineImageRoundTrip(t *testing.T) {
	src := "q 100 0 0 100 0 0 cm BI /W 2 /H 1 /BPC 8 /CS /G ID \xff\x00 EI Q"
	ops, err := Parse(strings.NewReader(src), nil)
	if err != nil {
		t.Fatal(err)
	}
	var img *Operation
	for _, op := range ops {
		if op.Name == "BI" {
			img = op
		}
	}
	if img == nil {
		t.Fatal("no inline image operation found")
	}
	if !img.Image.Inline {
		t.Error("Inline flag not set")
	}
	if got := string(img.Image.Data); got != "\xff\x00" {
		t.Errorf("inline image data = %q, want %q", got, "\xff\x00")
	}

	out := Build(ops)
	ops2, err := Parse(strings.NewReader(string(out)), nil)
	if err != nil {
		t.Fatalf("re-parsing rebuilt stream failed: %v", err)
	}
	if d := cmp.Diff(len(ops), len(ops2)); d != "" {
		t.Errorf("operation count changed across rebuild round trip: %s", d)
	}
}

func TestParseUnknownOperatorPreserved(t *testing.T) {
	src := "/GS1 gs /Sh1 sh"
	ops, err := Parse(strings.NewReader(src), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(ops) != 2 {
		t.Fatalf("got %d ops, want 2", len(ops))
	}
	if ops[0].Name != "gs" || ops[1].Name != "sh" {
		t.Errorf("unexpected operator names: %q, %q", ops[0].Name, ops[1].Name)
	}
}

func TestEffectiveSizeScalesWithTm(t *testing.T) {
	src := "BT /F1 10 Tf 3 0 0 3 0 0 Tm (A) Tj ET"
	ops, err := Parse(strings.NewReader(src), fixedWidthDecoder(500))
	if err != nil {
		t.Fatal(err)
	}
	var ts *TextShow
	for _, op := range ops {
		if op.Kind == KindText {
			ts = op.Text
		}
	}
	if ts == nil {
		t.Fatal("no text-show operation found")
	}
	want := 30.0 // 10 * |Tm row scale 3|
	if d := ts.EffectiveSize - want; d > 1e-6 || d < -1e-6 {
		t.Errorf("EffectiveSize = %v, want %v", ts.EffectiveSize, want)
	}
}

func TestRoundTripPreservesOperatorOrder(t *testing.T) {
	src := "q 1 0 0 1 0 0 cm BT /F1 12 Tf (hello) Tj ET Q"
	ops, err := Parse(strings.NewReader(src), fixedWidthDecoder(500))
	if err != nil {
		t.Fatal(err)
	}
	out := Build(ops)
	ops2, err := Parse(strings.NewReader(string(out)), fixedWidthDecoder(500))
	if err != nil {
		t.Fatal(err)
	}

	names := func(ops []*Operation) []string {
		var s []string
		for _, op := range ops {
			s = append(s, op.Name)
		}
		return s
	}
	if d := cmp.Diff(names(ops), names(ops2), cmpopts.EquateEmpty()); d != "" {
		t.Errorf("operator order changed across rebuild round trip (-want +got):\n%s", d)
	}
}
