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

// Package coord provides the coordinate primitives shared by every stage of
// the redaction pipeline: axis-aligned rectangles in page user-space, the
// affine matrices used by the PDF graphics and text state, and the rotation
// bridge between a page's visual frame and its content-stream frame.
package coord

import "math"

// Rectangle is an axis-aligned rectangle in page user-space, normalized so
// that Left <= Right and Bottom <= Top.
//
// The external text extractor consulted by the letter index (see the
// letters package) reports glyph boxes for rotated text with inverted
// axes; every Rectangle constructor normalizes swapped edges so that
// downstream code never has to special-case this.
type Rectangle struct {
	Left, Bottom, Right, Top float64
}

// NewRectangle builds a Rectangle from two arbitrary corners, swapping
// edges as needed so the result is normalized.
func NewRectangle(x0, y0, x1, y1 float64) Rectangle {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	return Rectangle{Left: x0, Bottom: y0, Right: x1, Top: y1}
}

// Width returns the rectangle's horizontal extent.
func (r Rectangle) Width() float64 { return r.Right - r.Left }

// Height returns the rectangle's vertical extent.
func (r Rectangle) Height() float64 { return r.Top - r.Bottom }

// IsEmpty reports whether the rectangle has zero or negative area.
func (r Rectangle) IsEmpty() bool {
	return r.Right <= r.Left || r.Top <= r.Bottom
}

// Intersects reports whether r and other share interior points. Rectangles
// that only touch along an edge or at a corner do not intersect.
func (r Rectangle) Intersects(other Rectangle) bool {
	return r.Left < other.Right && other.Left < r.Right &&
		r.Bottom < other.Top && other.Bottom < r.Top
}

// OverlapKind classifies how one rectangle overlaps another.
type OverlapKind int

const (
	// OverlapNone means the rectangles do not intersect (touching an edge
	// counts as no overlap).
	OverlapNone OverlapKind = iota
	// OverlapFull means the outer rectangle fully contains the inner one.
	OverlapFull
	// OverlapPartial means the rectangles intersect but the inner one is
	// not fully contained in the outer one.
	OverlapPartial
)

// GetOverlapType classifies how inner overlaps r (treated as the outer
// rectangle), per the rules above.
func (r Rectangle) GetOverlapType(inner Rectangle) OverlapKind {
	if !r.Intersects(inner) {
		return OverlapNone
	}
	if inner.Left >= r.Left && inner.Right <= r.Right &&
		inner.Bottom >= r.Bottom && inner.Top <= r.Top {
		return OverlapFull
	}
	return OverlapPartial
}

// Intersection returns the overlapping region of r and other, and whether
// that region is non-empty.
func (r Rectangle) Intersection(other Rectangle) (Rectangle, bool) {
	left := math.Max(r.Left, other.Left)
	bottom := math.Max(r.Bottom, other.Bottom)
	right := math.Min(r.Right, other.Right)
	top := math.Min(r.Top, other.Top)
	out := Rectangle{Left: left, Bottom: bottom, Right: right, Top: top}
	return out, !out.IsEmpty()
}

// Union returns the smallest rectangle containing both r and other.
func (r Rectangle) Union(other Rectangle) Rectangle {
	return Rectangle{
		Left:   math.Min(r.Left, other.Left),
		Bottom: math.Min(r.Bottom, other.Bottom),
		Right:  math.Max(r.Right, other.Right),
		Top:    math.Max(r.Top, other.Top),
	}
}

// Compare orders rectangles by Left, then Bottom, then Right, then Top,
// each ascending, giving a total order usable with
// slices.SortFunc so that a set of rectangles sorts into a canonical,
// construction-order-independent sequence.
func Compare(a, b Rectangle) int {
	if c := compareFloat(a.Left, b.Left); c != 0 {
		return c
	}
	if c := compareFloat(a.Bottom, b.Bottom); c != 0 {
		return c
	}
	if c := compareFloat(a.Right, b.Right); c != 0 {
		return c
	}
	return compareFloat(a.Top, b.Top)
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Pad grows r by amount on all four sides. A negative amount shrinks it.
func (r Rectangle) Pad(amount float64) Rectangle {
	return Rectangle{
		Left:   r.Left - amount,
		Bottom: r.Bottom - amount,
		Right:  r.Right + amount,
		Top:    r.Top + amount,
	}
}

// Contains reports whether the point (x, y) lies within r (boundary
// inclusive).
func (r Rectangle) Contains(x, y float64) bool {
	return x >= r.Left && x <= r.Right && y >= r.Bottom && y <= r.Top
}

// Subtract returns the (up to four) axis-aligned rectangles remaining after
// punching other out of r. The pieces are disjoint and, taken together with
// the part of other that lies inside r, tile r. Used by the path clipper for rectangular fills and by the
// image editor and text segmenter for partial-coverage rasterization.
func (r Rectangle) Subtract(other Rectangle) []Rectangle {
	cut, ok := r.Intersection(other)
	if !ok {
		return []Rectangle{r}
	}

	var out []Rectangle

	// Strip above the cut.
	if cut.Top < r.Top {
		out = append(out, Rectangle{Left: r.Left, Bottom: cut.Top, Right: r.Right, Top: r.Top})
	}
	// Strip below the cut.
	if cut.Bottom > r.Bottom {
		out = append(out, Rectangle{Left: r.Left, Bottom: r.Bottom, Right: r.Right, Top: cut.Bottom})
	}
	// Strip to the left of the cut, confined to the cut's vertical span.
	if cut.Left > r.Left {
		out = append(out, Rectangle{Left: r.Left, Bottom: cut.Bottom, Right: cut.Left, Top: cut.Top})
	}
	// Strip to the right of the cut, confined to the cut's vertical span.
	if cut.Right < r.Right {
		out = append(out, Rectangle{Left: cut.Right, Bottom: cut.Bottom, Right: r.Right, Top: cut.Top})
	}

	return out
}

// Union of a set of rectangles, as a helper for collecting the page's
// redaction areas into disjointness checks. Empty input yields the zero
// Rectangle and false.
func UnionAll(rs []Rectangle) (Rectangle, bool) {
	if len(rs) == 0 {
		return Rectangle{}, false
	}
	out := rs[0]
	for _, r := range rs[1:] {
		out = out.Union(r)
	}
	return out, true
}

// IntersectsAny reports whether r intersects any rectangle in areas.
func (r Rectangle) IntersectsAny(areas []Rectangle) bool {
	for _, a := range areas {
		if r.Intersects(a) {
			return true
		}
	}
	return false
}

// FullyInsideAny reports whether r is fully contained in some rectangle in
// areas.
func (r Rectangle) FullyInsideAny(areas []Rectangle) bool {
	for _, a := range areas {
		if a.GetOverlapType(r) == OverlapFull {
			return true
		}
	}
	return false
}
