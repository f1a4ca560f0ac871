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

package letters_test

import (
	"strings"
	"testing"

	"seehuhn.de/go/redact/content"
	"seehuhn.de/go/redact/letters"
)

func monospaceDecoder(advance float64) content.Decoder {
	return func(font content.Name, operand []byte) ([]content.DecodedChar, error) {
		out := make([]content.DecodedChar, len(operand))
		for i, b := range operand {
			out[i] = content.DecodedChar{Rune: rune(b), Advance: advance}
		}
		return out, nil
	}
}

func TestFromTextOpsRecoversText(t *testing.T) {
	stream := "BT /F1 12 Tf 1 0 0 1 100 700 Tm (hello world) Tj ET"
	ops, err := content.Parse(strings.NewReader(stream), monospaceDecoder(500))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	got := letters.FromTextOps(ops)
	var text []rune
	for _, l := range got {
		text = append(text, l.Rune)
	}
	if string(text) != "hello world" {
		t.Fatalf("FromTextOps runes = %q, want %q", string(text), "hello world")
	}

	// Letters should march left to right along the baseline, each glyph's
	// box starting where the previous one's ended.
	for i := 1; i < len(got); i++ {
		if got[i].Rect.Left < got[i-1].Rect.Left {
			t.Fatalf("letter %d is left of letter %d, advances should be monotonic", i, i-1)
		}
	}
	if got[0].Rect.Bottom >= got[0].Rect.Top {
		t.Fatalf("letter rect has non-positive height: %+v", got[0].Rect)
	}
}

func TestFromTextOpsSkipsNonText(t *testing.T) {
	stream := "q 1 0 0 1 0 0 cm 0 0 100 100 re f Q"
	ops, err := content.Parse(strings.NewReader(stream), monospaceDecoder(500))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := letters.FromTextOps(ops); len(got) != 0 {
		t.Fatalf("FromTextOps on a path-only stream = %v, want empty", got)
	}
}
