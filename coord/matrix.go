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

package coord

import (
	"math"

	"seehuhn.de/go/geom/matrix"
)

// Matrix is the 3x3 affine transform used by the PDF graphics and text
// state, stored as the six numbers (a, b, c, d, e, f) of
//
//	[ a b 0 ]
//	[ c d 0 ]
//	[ e f 1 ]
//
// This is a thin alias over [matrix.Matrix] from seehuhn.de/go/geom: the
// composition and point-mapping arithmetic used throughout the coordinate
// bridge and the operation reconstructor already live there.
type Matrix = matrix.Matrix

// Identity is the identity matrix.
var Identity = matrix.Identity

// Translate returns the matrix that translates by (dx, dy).
func Translate(dx, dy float64) Matrix {
	return matrix.Translate(dx, dy)
}

// Scale returns the matrix that scales by (sx, sy) about the origin.
func Scale(sx, sy float64) Matrix {
	return matrix.Scale(sx, sy)
}

// RotateDeg returns the matrix that rotates counterclockwise by the given
// number of degrees about the origin.
func RotateDeg(deg float64) Matrix {
	return matrix.RotateDeg(deg)
}

// Apply maps the point (x, y) through m.
func Apply(m Matrix, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// Compose returns the matrix representing "first m, then n" — i.e. for a
// point p, Compose(m, n).Apply(p) == n.Apply(m.Apply(p)). This matches the
// PDF convention that `cm` prepends to the CTM and `Tm`/`Td` compose text
// matrices the same way.
func Compose(m, n Matrix) Matrix {
	return m.Mul(n)
}

// Invert returns the inverse of m and reports whether m was invertible
// (determinant non-zero). Used to map a page-space redaction rectangle
// back into an image's unit-square sample space.
func Invert(m Matrix) (Matrix, bool) {
	det := m[0]*m[3] - m[1]*m[2]
	if det == 0 {
		return Identity, false
	}
	inv := Matrix{
		m[3] / det, -m[1] / det,
		-m[2] / det, m[0] / det,
		(m[2]*m[5] - m[3]*m[4]) / det,
		(m[1]*m[4] - m[0]*m[5]) / det,
	}
	return inv, true
}

// RowScale returns the magnitude of the matrix's first row, (a, b). For a
// text matrix this is the horizontal scale factor a glyph drawn at nominal
// size 1 would be stretched by: the quantity the effective font size is
// built from.
func RowScale(m Matrix) float64 {
	return math.Hypot(m[0], m[1])
}
