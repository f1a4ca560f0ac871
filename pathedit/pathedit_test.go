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
	"strings"
	"testing"

	"seehuhn.de/go/redact/content"
	"seehuhn.de/go/redact/coord"
)

func identityCTM(int) coord.Matrix { return coord.Identity }

func TestCollectGroupsRectangleFill(t *testing.T) {
	ops, err := content.Parse(strings.NewReader("100 500 200 80 re f"), nil)
	if err != nil {
		t.Fatal(err)
	}
	paths := Collect(ops, identityCTM)
	if len(paths) != 1 {
		t.Fatalf("got %d paths, want 1", len(paths))
	}
	p := paths[0].Path
	if !p.IsAxisRect {
		t.Error("expected IsAxisRect")
	}
	if p.Paint != PaintFill {
		t.Errorf("Paint = %v, want PaintFill", p.Paint)
	}
}

func TestClipKeepsDisjointRectangle(t *testing.T) {
	ops, _ := content.Parse(strings.NewReader("0 0 10 10 re f"), nil)
	paths := Collect(ops, identityCTM)
	res := Clip(paths[0].Path, []coord.Rectangle{{Left: 100, Right: 110, Bottom: 100, Top: 110}})
	if res.Action != ActionKeep {
		t.Errorf("Action = %v, want ActionKeep", res.Action)
	}
}

func TestClipDeletesFullyContainedFill(t *testing.T) {
	ops, _ := content.Parse(strings.NewReader("0 0 10 10 re f"), nil)
	paths := Collect(ops, identityCTM)
	res := Clip(paths[0].Path, []coord.Rectangle{{Left: -5, Right: 15, Bottom: -5, Top: 15}})
	if res.Action != ActionDelete {
		t.Errorf("Action = %v, want ActionDelete", res.Action)
	}
}

func TestClipSplitsAxisRectangleOnPartialOverlap(t *testing.T) {
	// S5: a 200x80 rectangle at (100,500), cut at x=200 by a redaction
	// box covering its right half.
	ops, _ := content.Parse(strings.NewReader("100 500 200 80 re f"), nil)
	paths := Collect(ops, identityCTM)
	redaction := coord.Rectangle{Left: 200, Right: 400, Bottom: 480, Top: 600}
	res := Clip(paths[0].Path, []coord.Rectangle{redaction})
	if res.Action != ActionReplace {
		t.Fatalf("Action = %v, want ActionReplace", res.Action)
	}
	for _, op := range res.Ops {
		if op.Name != "re" {
			continue
		}
		x, _ := content.Number(op.Args[0])
		w, _ := content.Number(op.Args[2])
		if x+w > 200+1e-9 {
			t.Errorf("remaining rectangle extends past the cut: x=%v w=%v", x, w)
		}
	}
}

func TestClipStrokeNeverChangesGeometry(t *testing.T) {
	ops, _ := content.Parse(strings.NewReader("0 0 m 100 100 l S"), nil)
	paths := Collect(ops, identityCTM)
	res := Clip(paths[0].Path, []coord.Rectangle{{Left: 40, Right: 60, Bottom: 40, Top: 60}})
	if res.Action != ActionOverlayOnly {
		t.Errorf("Action = %v, want ActionOverlayOnly for a partially covered stroke", res.Action)
	}
}

func TestSubtractRectFromPolygonConservesDisjointness(t *testing.T) {
	ops, _ := content.Parse(strings.NewReader("0 0 m 100 0 l 100 100 l 0 100 l h f"), nil)
	paths := Collect(ops, identityCTM)
	cut := coord.Rectangle{Left: 25, Right: 75, Bottom: 25, Top: 75}
	res := Clip(paths[0].Path, []coord.Rectangle{cut})
	if res.Action != ActionReplace {
		t.Fatalf("Action = %v, want ActionReplace", res.Action)
	}
	// every emitted construction point must lie outside the cut rectangle
	for _, op := range res.Ops {
		if op.Kind != content.KindPathConstruction {
			continue
		}
		if len(op.Args) < 2 {
			continue
		}
		x, _ := content.Number(op.Args[0])
		y, _ := content.Number(op.Args[1])
		if x > cut.Left && x < cut.Right && y > cut.Bottom && y < cut.Top {
			t.Errorf("emitted point (%v,%v) lies inside the cut rectangle", x, y)
		}
	}
}
