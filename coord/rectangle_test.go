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
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewRectangleNormalizes(t *testing.T) {
	r := NewRectangle(10, 10, 0, 0)
	want := Rectangle{Left: 0, Bottom: 0, Right: 10, Top: 10}
	if d := cmp.Diff(want, r); d != "" {
		t.Error(d)
	}
}

func TestIntersectsIsStrict(t *testing.T) {
	a := Rectangle{Left: 0, Bottom: 0, Right: 10, Top: 10}
	touching := Rectangle{Left: 10, Bottom: 0, Right: 20, Top: 10}
	if a.Intersects(touching) {
		t.Error("rectangles touching only at an edge must not intersect")
	}

	overlapping := Rectangle{Left: 5, Bottom: 5, Right: 15, Top: 15}
	if !a.Intersects(overlapping) {
		t.Error("overlapping rectangles must intersect")
	}
}

func TestGetOverlapType(t *testing.T) {
	outer := Rectangle{Left: 0, Bottom: 0, Right: 100, Top: 100}

	tests := []struct {
		name  string
		inner Rectangle
		want  OverlapKind
	}{
		{"disjoint", Rectangle{Left: 200, Bottom: 200, Right: 210, Top: 210}, OverlapNone},
		{"full", Rectangle{Left: 10, Bottom: 10, Right: 90, Top: 90}, OverlapFull},
		{"partial", Rectangle{Left: -10, Bottom: -10, Right: 10, Top: 10}, OverlapPartial},
		{"touching-edge", Rectangle{Left: 100, Bottom: 0, Right: 110, Top: 10}, OverlapNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outer.GetOverlapType(tt.inner); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSubtractTilesOriginal(t *testing.T) {
	r := Rectangle{Left: 0, Bottom: 0, Right: 100, Top: 100}
	cut := Rectangle{Left: 25, Bottom: 25, Right: 75, Top: 75}

	pieces := r.Subtract(cut)
	if len(pieces) == 0 {
		t.Fatal("expected at least one remainder piece")
	}

	var area float64
	for _, p := range pieces {
		if p.Intersects(cut) {
			t.Errorf("remainder piece %+v overlaps the cut rectangle", p)
		}
		area += p.Width() * p.Height()
	}
	cutArea, _ := r.Intersection(cut)
	wantArea := r.Width()*r.Height() - cutArea.Width()*cutArea.Height()
	if d := wantArea - area; d > 1e-9 || d < -1e-9 {
		t.Errorf("remainder area = %v, want %v", area, wantArea)
	}
}

func TestSubtractFullyOutside(t *testing.T) {
	r := Rectangle{Left: 0, Bottom: 0, Right: 10, Top: 10}
	other := Rectangle{Left: 100, Bottom: 100, Right: 110, Top: 110}
	pieces := r.Subtract(other)
	if len(pieces) != 1 || pieces[0] != r {
		t.Errorf("expected r unchanged, got %+v", pieces)
	}
}

func TestRotationBridgeRoundTrip(t *testing.T) {
	g := PageGeometry{Width: 612, Height: 792, Rotate: 270}
	vx, vy := 100.0, 200.0

	x, y, err := VisualToContent(g, vx, vy)
	if err != nil {
		t.Fatal(err)
	}
	rvx, rvy, err := ContentToVisual(g, x, y)
	if err != nil {
		t.Fatal(err)
	}
	if rvx != vx || rvy != vy {
		t.Errorf("round trip mismatch: got (%v, %v), want (%v, %v)", rvx, rvy, vx, vy)
	}
}

func TestRotationBridge270NoTeleport(t *testing.T) {
	// Applying the rotation formula with the user-space (unswapped)
	// width/height must not move points by anything like the page size.
	g := PageGeometry{Width: 612, Height: 792, Rotate: 270}
	x1, y1, err := VisualToContent(g, 50, 50)
	if err != nil {
		t.Fatal(err)
	}
	x2, y2, err := VisualToContent(g, 55, 55)
	if err != nil {
		t.Fatal(err)
	}
	if d := (x2 - x1); d < -10 || d > 10 {
		t.Errorf("small visual movement caused large content-space jump in x: %v", d)
	}
	if d := (y2 - y1); d < -10 || d > 10 {
		t.Errorf("small visual movement caused large content-space jump in y: %v", d)
	}
}
