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
	"bytes"
	"testing"
)

func TestWriteObjectNumbers(t *testing.T) {
	tests := []struct {
		in   Object
		want string
	}{
		{Integer(5), "5"},
		{Real(5), "5"},
		{Real(1.5), "1.5"},
		{Real(0.100000), "0.1"},
		{Boolean(true), "true"},
		{Name("F1"), "/F1"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		WriteObject(&buf, tt.in)
		if got := buf.String(); got != tt.want {
			t.Errorf("WriteObject(%#v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWriteObjectEscapesName(t *testing.T) {
	var buf bytes.Buffer
	WriteObject(&buf, Name("A B"))
	if got, want := buf.String(), "/A#20B"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBuildOmitsDeletedOperations(t *testing.T) {
	ops := []*Operation{
		{Name: "q", Args: nil},
		{Name: "Q", Args: nil},
	}
	out := Build(ops)
	if got, want := string(out), "q\nQ"; got != want {
		t.Errorf("Build() = %q, want %q", got, want)
	}
}
