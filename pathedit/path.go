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

// Package pathedit groups path-construction operators into complete paths
// and clips the ones overlapping a redaction area, rewriting rectangle
// fills as sub-rectangles and general fills as clipped polygons while
// leaving strokes geometrically untouched.
package pathedit

import (
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/redact/content"
	"seehuhn.de/go/redact/coord"
)

// FillRule is the painting fill rule, preserved through clipping.
type FillRule int

const (
	NonZero FillRule = iota
	EvenOdd
)

// PaintKind classifies how a completed path is painted.
type PaintKind int

const (
	PaintNone PaintKind = iota
	PaintFill
	PaintStroke
	PaintFillStroke
)

// Path is one complete path from the first construction operator up to
// (not including) its painting operator: a list of subpaths, each a list
// of points in page user-space, plus the metadata needed to clip and
// repaint it.
type Path struct {
	Subpaths     [][]vec.Vec2
	IsAxisRect   bool // true iff built by a single `re` operator
	Paint        PaintKind
	Rule         FillRule
	PaintOpName  string // S, s, f, F, f*, B, B*, b, b*, n
	ConstructOps []*content.Operation
	PaintOp      *content.Operation
	BBox         coord.Rectangle
}

// Collect scans ops and groups every path-construction run with its
// painting operator into a Path, returning them together with the indices
// into ops each one spans (so the caller can splice in a replacement).
func Collect(ops []*content.Operation, ctm func(index int) coord.Matrix) []CollectedPath {
	var out []CollectedPath
	var cur []vec.Vec2
	var subpaths [][]vec.Vec2
	var constructOps []*content.Operation
	var isRect bool
	var rectCount int
	startIdx := -1

	flushSubpath := func() {
		if len(cur) > 0 {
			subpaths = append(subpaths, cur)
			cur = nil
		}
	}

	for i, op := range ops {
		switch op.Kind {
		case content.KindPathConstruction:
			if startIdx < 0 {
				startIdx = i
			}
			constructOps = append(constructOps, op)
			m := ctm(i)
			toPage := func(x, y float64) vec.Vec2 {
				px, py := coord.Apply(m, x, y)
				return vec.Vec2{X: px, Y: py}
			}
			switch op.Name {
			case "m":
				flushSubpath()
				x, y := xy(op.Args)
				cur = append(cur, toPage(x, y))
			case "l":
				x, y := xy(op.Args)
				cur = append(cur, toPage(x, y))
			case "c":
				if len(op.Args) >= 6 {
					x, _ := numAt(op.Args, 4)
					y, _ := numAt(op.Args, 5)
					cur = append(cur, toPage(x, y))
				}
			case "v", "y":
				if len(op.Args) >= 4 {
					x, _ := numAt(op.Args, 2)
					y, _ := numAt(op.Args, 3)
					cur = append(cur, toPage(x, y))
				}
			case "h":
				if len(cur) > 0 {
					cur = append(cur, cur[0])
				}
			case "re":
				flushSubpath()
				x, y, w, h := rectArgs(op.Args)
				subpaths = append(subpaths, []vec.Vec2{
					toPage(x, y), toPage(x+w, y), toPage(x+w, y+h), toPage(x, y+h), toPage(x, y),
				})
				rectCount++
				isRect = rectCount == 1 && len(constructOps) == 1 && isAxisAligned(m)
			}

		case content.KindPathPainting:
			flushSubpath()
			if startIdx >= 0 {
				p := Path{
					Subpaths:     subpaths,
					IsAxisRect:   isRect && len(subpaths) == 1,
					Paint:        paintKind(op.Name),
					Rule:         fillRule(op.Name),
					PaintOpName:  op.Name,
					ConstructOps: constructOps,
					PaintOp:      op,
					BBox:         bboxOf(subpaths),
				}
				out = append(out, CollectedPath{Path: p, StartIndex: startIdx, EndIndex: i})
			}
			subpaths = nil
			constructOps = nil
			isRect = false
			rectCount = 0
			startIdx = -1
		}
	}
	return out
}

// CollectedPath is a Path together with the inclusive [StartIndex,
// EndIndex] range of ops it occupies, EndIndex being the painting
// operator's own index.
type CollectedPath struct {
	Path       Path
	StartIndex int
	EndIndex   int
}

func paintKind(op string) PaintKind {
	switch op {
	case "n":
		return PaintNone
	case "S", "s":
		return PaintStroke
	case "f", "F", "f*":
		return PaintFill
	case "B", "B*", "b", "b*":
		return PaintFillStroke
	}
	return PaintNone
}

func fillRule(op string) FillRule {
	switch op {
	case "f*", "B*", "b*":
		return EvenOdd
	}
	return NonZero
}

// isAxisAligned reports whether m maps axis-aligned rectangles to
// axis-aligned rectangles, i.e. it has no rotation or skew component.
func isAxisAligned(m coord.Matrix) bool {
	const eps = 1e-9
	return (abs(m[1]) < eps && abs(m[2]) < eps) || (abs(m[0]) < eps && abs(m[3]) < eps)
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func bboxOf(subpaths [][]vec.Vec2) coord.Rectangle {
	var r coord.Rectangle
	first := true
	for _, sp := range subpaths {
		for _, p := range sp {
			if first {
				r = coord.Rectangle{Left: p.X, Right: p.X, Bottom: p.Y, Top: p.Y}
				first = false
				continue
			}
			r = r.Union(coord.Rectangle{Left: p.X, Right: p.X, Bottom: p.Y, Top: p.Y})
		}
	}
	return r
}

func xy(args []content.Object) (float64, float64) {
	x, _ := numAt(args, 0)
	y, _ := numAt(args, 1)
	return x, y
}

func rectArgs(args []content.Object) (x, y, w, h float64) {
	x, _ = numAt(args, 0)
	y, _ = numAt(args, 1)
	w, _ = numAt(args, 2)
	h, _ = numAt(args, 3)
	return
}

func numAt(args []content.Object, i int) (float64, bool) {
	if i >= len(args) {
		return 0, false
	}
	return content.Number(args[i])
}

