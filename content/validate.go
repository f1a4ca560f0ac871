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

import "fmt"

// ValidationError names the first structural problem Validate found.
type ValidationError struct {
	Offset int64
	Msg    string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("content: invalid operation stream at byte %d: %s", e.Offset, e.Msg)
}

// Validate checks that ops forms a well-formed operator stream: balanced
// q/Q, balanced BT/ET with no nesting, and a Tf in scope before any
// text-showing operator. It does not re-validate operand counts or types,
// which the parser already enforces when it builds the Operation values.
func Validate(ops []*Operation) error {
	qDepth := 0
	inText := false
	haveFont := false

	for _, op := range ops {
		switch op.Name {
		case "q":
			qDepth++
		case "Q":
			qDepth--
			if qDepth < 0 {
				return &ValidationError{op.Offset, "Q without matching q"}
			}
		case "BT":
			if inText {
				return &ValidationError{op.Offset, "nested BT"}
			}
			inText = true
			haveFont = false
		case "ET":
			if !inText {
				return &ValidationError{op.Offset, "ET without matching BT"}
			}
			inText = false
		case "Tf":
			haveFont = true
		}

		if op.Kind == KindText && !haveFont {
			return &ValidationError{op.Offset, "text-showing operator with no font selected"}
		}
		if op.Kind == KindImageInvocation && op.Image != nil && op.Image.Inline {
			if err := validateInlineImage(op); err != nil {
				return err
			}
		}
	}

	if qDepth != 0 {
		return &ValidationError{0, "unbalanced q/Q"}
	}
	if inText {
		return &ValidationError{0, "unterminated BT"}
	}
	return nil
}

func validateInlineImage(op *Operation) error {
	w, hasW := op.Image.Params["W"]
	if !hasW {
		w, hasW = op.Image.Params["Width"]
	}
	h, hasH := op.Image.Params["H"]
	if !hasH {
		h, hasH = op.Image.Params["Height"]
	}
	if !hasW || !hasH {
		return &ValidationError{op.Offset, "inline image missing W/H"}
	}
	if _, ok := Number(w); !ok {
		return &ValidationError{op.Offset, "inline image W is not a number"}
	}
	if _, ok := Number(h); !ok {
		return &ValidationError{op.Offset, "inline image H is not a number"}
	}
	return nil
}
