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

import (
	"testing"

	"seehuhn.de/go/redact/content"
)

func standardEncoding() [256]string {
	var enc [256]string
	enc['A'] = "A"
	enc['b'] = "b"
	enc[' '] = "space"
	return enc
}

func TestDecodeMapsCodesToRunes(t *testing.T) {
	reg := NewRegistry()
	reg.Register("F1", &SimpleFont{Encoding: standardEncoding()})

	got, err := reg.Decode("F1", []byte("A b"))
	if err != nil {
		t.Fatal(err)
	}
	want := []rune{'A', ' ', 'b'}
	if len(got) != len(want) {
		t.Fatalf("got %d chars, want %d", len(got), len(want))
	}
	for i, r := range want {
		if got[i].Rune != r {
			t.Errorf("char %d = %q, want %q", i, got[i].Rune, r)
		}
	}
}

func TestDecodeUnknownCodeFallsBackToNotdef(t *testing.T) {
	reg := NewRegistry()
	reg.Register("F1", &SimpleFont{Encoding: standardEncoding()})

	got, err := reg.Decode("F1", []byte{0x01})
	if err != nil {
		t.Fatal(err)
	}
	if got[0].Rune != 0 {
		t.Errorf("Rune = %q, want 0 for an unmapped code", got[0].Rune)
	}
}

func TestDecodeRejectsUnknownFontResource(t *testing.T) {
	reg := NewRegistry()
	if _, err := reg.Decode("F9", []byte("x")); err == nil {
		t.Error("expected an error for an unregistered font resource")
	}
}

func TestDecodeWithoutProgramHasZeroAdvance(t *testing.T) {
	reg := NewRegistry()
	reg.Register("F1", &SimpleFont{Encoding: standardEncoding()})
	got, err := reg.Decode("F1", []byte("A"))
	if err != nil {
		t.Fatal(err)
	}
	if got[0].Advance != 0 {
		t.Errorf("Advance = %v, want 0 without an embedded program", got[0].Advance)
	}
}

var _ content.Decoder = (*Registry)(nil).Decode
