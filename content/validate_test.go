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
)

func TestValidateRejectsNestedBT(t *testing.T) {
	ops, err := Parse(strings.NewReader("BT BT ET ET"), nil)
	if err == nil {
		// The parser itself does not reject nested BT (it only tracks
		// depth), so Validate must catch it.
		if verr := Validate(ops); verr == nil {
			t.Error("expected validation error for nested BT, got nil")
		}
	}
}

func TestValidateRejectsTextWithoutFont(t *testing.T) {
	ops, err := Parse(strings.NewReader("BT (hi) Tj ET"), fixedWidthDecoder(500))
	if err != nil {
		t.Fatal(err)
	}
	if err := Validate(ops); err == nil {
		t.Error("expected validation error for text-show with no Tf, got nil")
	}
}

func TestValidateAcceptsWellFormedStream(t *testing.T) {
	ops, err := Parse(strings.NewReader("q BT /F1 12 Tf (hi) Tj ET Q"), fixedWidthDecoder(500))
	if err != nil {
		t.Fatal(err)
	}
	if err := Validate(ops); err != nil {
		t.Errorf("well-formed stream rejected: %v", err)
	}
}
