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

package pathedit

import (
	"golang.org/x/exp/slices"

	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/redact/content"
	"seehuhn.de/go/redact/coord"
)

// Action is the disposition the clipper chose for one collected path.
type Action int

const (
	ActionKeep Action = iota
	ActionDelete
	ActionReplace
	ActionOverlayOnly // stroke lying under a redaction area: paint, then overlay
)

// Result is what the clipper decided for one path.
type Result struct {
	Action Action
	Ops    []*content.Operation // replacement construction+paint ops, for ActionReplace
}

// Clip decides the disposition of p against the union of redaction
// rectangles and, for ActionReplace, builds the replacement operations.
func Clip(p Path, areas []coord.Rectangle) Result {
	if !p.BBox.IntersectsAny(areas) {
		return Result{Action: ActionKeep}
	}

	if p.Paint == PaintStroke {
		if p.BBox.FullyInsideAny(areas) {
			return Result{Action: ActionDelete}
		}
		return Result{Action: ActionOverlayOnly}
	}

	fullyInside := false
	for _, a := range areas {
		if a.GetOverlapType(p.BBox) == coord.OverlapFull {
			fullyInside = true
			break
		}
	}
	if fullyInside && p.Paint != PaintNone {
		return Result{Action: ActionDelete}
	}

	if p.IsAxisRect && len(p.Subpaths) == 1 {
		return clipAxisRect(p, areas)
	}
	return clipGeneralPath(p, areas)
}

func clipAxisRect(p Path, areas []coord.Rectangle) Result {
	sp := p.Subpaths[0]
	rect := coord.NewRectangle(sp[0].X, sp[0].Y, sp[2].X, sp[2].Y)
	pieces := []coord.Rectangle{rect}
	for _, a := range areas {
		if !rect.Intersects(a) {
			continue
		}
		var next []coord.Rectangle
		for _, piece := range pieces {
			next = append(next, piece.Subtract(a)...)
		}
		pieces = next
	}

	// Subtract's own ordering of the pieces it returns depends on which
	// edge of the cut rectangle it checks first, not on any property of
	// the redaction areas; sorting the candidate split rectangles into a
	// canonical left-to-right, bottom-to-top order keeps the emitted
	// construction operators in the same order regardless of the order
	// areas were supplied in.
	slices.SortFunc(pieces, coord.Compare)

	var ops []*content.Operation
	for _, r := range pieces {
		ops = append(ops, &content.Operation{
			Kind: content.KindPathConstruction,
			Name: "re",
			Args: []content.Object{
				content.Real(r.Left), content.Real(r.Bottom),
				content.Real(r.Width()), content.Real(r.Height()),
			},
		})
	}
	if len(ops) == 0 {
		return Result{Action: ActionDelete}
	}
	ops = append(ops, p.PaintOp)
	return Result{Action: ActionReplace, Ops: ops}
}

func clipGeneralPath(p Path, areas []coord.Rectangle) Result {
	polys := p.Subpaths
	for _, a := range areas {
		var next [][]vec.Vec2
		for _, poly := range polys {
			next = append(next, subtractRectFromPolygon(poly, a)...)
		}
		polys = next
	}

	var ops []*content.Operation
	for _, poly := range polys {
		if len(poly) < 3 {
			continue
		}
		ops = append(ops, &content.Operation{
			Kind: content.KindPathConstruction,
			Name: "m",
			Args: []content.Object{content.Real(poly[0].X), content.Real(poly[0].Y)},
		})
		for _, pt := range poly[1:] {
			ops = append(ops, &content.Operation{
				Kind: content.KindPathConstruction,
				Name: "l",
				Args: []content.Object{content.Real(pt.X), content.Real(pt.Y)},
			})
		}
		ops = append(ops, &content.Operation{Kind: content.KindPathConstruction, Name: "h"})
	}
	if len(ops) == 0 {
		return Result{Action: ActionDelete}
	}
	ops = append(ops, p.PaintOp)
	return Result{Action: ActionReplace, Ops: ops}
}

// subtractRectFromPolygon returns poly minus rect, as up to four convex
// clip results (above, below, left-middle, right-middle of rect), the same
// non-overlapping strip decomposition coord.Rectangle.Subtract uses for
// rectangles, generalized to an arbitrary polygon via sequential
// Sutherland-Hodgman half-plane clips.
func subtractRectFromPolygon(poly []vec.Vec2, rect coord.Rectangle) [][]vec.Vec2 {
	var out [][]vec.Vec2

	above := clipHalfPlane(poly, axisGreater, 1, rect.Top)
	if len(above) >= 3 {
		out = append(out, above)
	}

	below := clipHalfPlane(poly, axisLess, 1, rect.Bottom)
	if len(below) >= 3 {
		out = append(out, below)
	}

	leftMiddle := clipHalfPlane(poly, axisLess, 0, rect.Left)
	leftMiddle = clipHalfPlane(leftMiddle, axisGreaterEq, 1, rect.Bottom)
	leftMiddle = clipHalfPlane(leftMiddle, axisLessEq, 1, rect.Top)
	if len(leftMiddle) >= 3 {
		out = append(out, leftMiddle)
	}

	rightMiddle := clipHalfPlane(poly, axisGreater, 0, rect.Right)
	rightMiddle = clipHalfPlane(rightMiddle, axisGreaterEq, 1, rect.Bottom)
	rightMiddle = clipHalfPlane(rightMiddle, axisLessEq, 1, rect.Top)
	if len(rightMiddle) >= 3 {
		out = append(out, rightMiddle)
	}

	return out
}

type axisCmp int

const (
	axisLess axisCmp = iota
	axisLessEq
	axisGreater
	axisGreaterEq
)

func coordOf(p vec.Vec2, axis int) float64 {
	if axis == 0 {
		return p.X
	}
	return p.Y
}

func inside(p vec.Vec2, cmp axisCmp, axis int, value float64) bool {
	c := coordOf(p, axis)
	switch cmp {
	case axisLess:
		return c < value
	case axisLessEq:
		return c <= value
	case axisGreater:
		return c > value
	default:
		return c >= value
	}
}

// clipHalfPlane is a single Sutherland-Hodgman clip pass against one
// axis-aligned half-plane boundary.
func clipHalfPlane(poly []vec.Vec2, cmp axisCmp, axis int, value float64) []vec.Vec2 {
	if len(poly) == 0 {
		return nil
	}
	var out []vec.Vec2
	n := len(poly)
	for i := 0; i < n; i++ {
		cur := poly[i]
		prev := poly[(i-1+n)%n]
		curIn := inside(cur, cmp, axis, value)
		prevIn := inside(prev, cmp, axis, value)
		if curIn {
			if !prevIn {
				out = append(out, intersectAxis(prev, cur, axis, value))
			}
			out = append(out, cur)
		} else if prevIn {
			out = append(out, intersectAxis(prev, cur, axis, value))
		}
	}
	return out
}

func intersectAxis(a, b vec.Vec2, axis int, value float64) vec.Vec2 {
	ca, cb := coordOf(a, axis), coordOf(b, axis)
	if cb == ca {
		return b
	}
	t := (value - ca) / (cb - ca)
	return vec.Vec2{
		X: a.X + t*(b.X-a.X),
		Y: a.Y + t*(b.Y-a.Y),
	}
}
