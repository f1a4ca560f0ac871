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

import "fmt"

// PageGeometry describes the parts of a page's layout the rotation bridge
// needs: the user-space media box size (before /Rotate is applied) and the
// page's /Rotate value.
type PageGeometry struct {
	// Width and Height are the user-space MediaBox dimensions.
	Width, Height float64

	// Rotate is the page's /Rotate entry, one of 0, 90, 180, 270.
	Rotate int
}

// VisualToContent converts a point (vx, vy) reported by the external text
// extractor in the page's *visual* frame (rotated by Rotate relative to the
// content stream) into the content stream's own user-space frame.
//
// The mapping depends on Rotate as follows:
//
//	r=0:   (x, y) = (vx, vy)
//	r=90:  (x, y) = (H - vy, vx)
//	r=180: (x, y) = (W - vx, H - vy)
//	r=270: (x, y) = (vy, W - vx)
//
// W and H are always the *user-space* MediaBox dimensions, never the
// dimensions swapped for the visual frame: using the swapped values moves
// points by roughly the page size instead of leaving them near their
// original location.
func VisualToContent(g PageGeometry, vx, vy float64) (float64, float64, error) {
	switch g.Rotate {
	case 0:
		return vx, vy, nil
	case 90:
		return g.Height - vy, vx, nil
	case 180:
		return g.Width - vx, g.Height - vy, nil
	case 270:
		return vy, g.Width - vx, nil
	default:
		return 0, 0, fmt.Errorf("coord: unsupported page rotation %d", g.Rotate)
	}
}

// ContentToVisual is the inverse of VisualToContent: it maps a point in
// content-stream space into the page's visual frame, e.g. to report glyph
// geometry computed from the content stream in the frame a text extractor
// uses.
func ContentToVisual(g PageGeometry, x, y float64) (float64, float64, error) {
	switch g.Rotate {
	case 0:
		return x, y, nil
	case 90:
		return y, g.Height - x, nil
	case 180:
		return g.Width - x, g.Height - y, nil
	case 270:
		return g.Width - y, x, nil
	default:
		return 0, 0, fmt.Errorf("coord: unsupported page rotation %d", g.Rotate)
	}
}

// VisualRectToContent converts a rectangle given in visual-space corners
// into a normalized content-stream-space Rectangle, for any of the four
// supported rotations. Because 90/270 degree rotations swap which visual
// axis maps to which content axis, the four mapped corners are unioned
// rather than assuming corner order is preserved.
func VisualRectToContent(g PageGeometry, r Rectangle) (Rectangle, error) {
	corners := [4][2]float64{
		{r.Left, r.Bottom}, {r.Right, r.Bottom},
		{r.Right, r.Top}, {r.Left, r.Top},
	}
	var out Rectangle
	for i, c := range corners {
		x, y, err := VisualToContent(g, c[0], c[1])
		if err != nil {
			return Rectangle{}, err
		}
		if i == 0 {
			out = Rectangle{Left: x, Right: x, Bottom: y, Top: y}
		} else {
			out = out.Union(Rectangle{Left: x, Right: x, Bottom: y, Top: y})
		}
	}
	return out, nil
}
