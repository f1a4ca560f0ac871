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

// Package imageedit decides what happens to an image XObject or inline
// image whose page-space footprint overlaps a redaction area: delete it
// outright when it is fully covered, or blacken the covered samples in
// place when only part of it is covered and the color space is one this
// package knows how to address directly.
package imageedit

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/vector"

	"seehuhn.de/go/redact/coord"
	"seehuhn.de/go/redact/external"
)

// Action is the disposition chosen for one image placement.
type Action int

const (
	ActionKeep Action = iota
	ActionDelete
	ActionBlackout
)

// Decide classifies an image placement against the union of redaction
// areas, given the image's page-space bounding box.
func Decide(bbox coord.Rectangle, areas []coord.Rectangle) Action {
	if !bbox.IntersectsAny(areas) {
		return ActionKeep
	}
	if bbox.FullyInsideAny(areas) {
		return ActionDelete
	}
	return ActionBlackout
}

// addressable reports whether res's samples can be blackened in place:
// 8 bits per component, gray or RGB, with no stream filter this package
// would need to decompress first.
func addressable(res *external.ImageResource) bool {
	if res.BitsPerComponent != 8 {
		return false
	}
	if res.ColorSpace != "DeviceGray" && res.ColorSpace != "DeviceRGB" {
		return false
	}
	for _, f := range res.Filters {
		if f != "" {
			return false
		}
	}
	return true
}

// Blackout paints the parts of res that fall under areas (mapped from page
// space into the image's unit-square sample space via the inverse of ctm)
// solid black, returning a new ImageResource with the edited samples. It
// reports false without modifying anything if the resource's encoding is
// not one addressable in place (see addressable): the caller must fall
// back to ActionDelete for those.
func Blackout(res *external.ImageResource, ctm coord.Matrix, areas []coord.Rectangle) (*external.ImageResource, bool) {
	if !addressable(res) {
		return nil, false
	}
	inv, ok := coord.Invert(ctm)
	if !ok {
		return nil, false
	}

	img := decode(res)
	bounds := img.Bounds()
	black := image.NewUniform(color.Black)

	for _, a := range areas {
		// map the four corners of the redaction rectangle into unit-square
		// sample space, then into the pixel grid (row 0 is the image's top,
		// PDF image space has row 0 at the top of the unit square too, so v
		// is flipped rather than used directly).
		corners := [4][2]float64{
			{a.Left, a.Bottom}, {a.Right, a.Bottom},
			{a.Right, a.Top}, {a.Left, a.Top},
		}
		var px [4][2]float32
		minU, minV, maxU, maxV := 1.0, 1.0, 0.0, 0.0
		for i, c := range corners {
			u, v := coord.Apply(inv, c[0], c[1])
			px[i] = [2]float32{float32(u * float64(res.Width)), float32((1 - v) * float64(res.Height))}
			if u < minU {
				minU = u
			}
			if u > maxU {
				maxU = u
			}
			if v < minV {
				minV = v
			}
			if v > maxV {
				maxV = v
			}
		}
		if maxU <= 0 || minU >= 1 || maxV <= 0 || minV >= 1 {
			continue // quad falls entirely outside the unit square
		}

		// Rasterize the mapped quadrilateral directly, rather than its
		// axis-aligned pixel bounding box, so a rotated page CTM blackens
		// exactly the samples under the redaction rectangle instead of a
		// larger enclosing rectangle.
		z := vector.NewRasterizer(bounds.Dx(), bounds.Dy())
		z.MoveTo(px[0][0], px[0][1])
		z.LineTo(px[1][0], px[1][1])
		z.LineTo(px[2][0], px[2][1])
		z.LineTo(px[3][0], px[3][1])
		z.ClosePath()
		z.Draw(img, bounds, black, image.Point{})
	}

	return encode(img, res), true
}

func decode(res *external.ImageResource) draw.Image {
	switch res.ColorSpace {
	case "DeviceGray":
		img := image.NewGray(image.Rect(0, 0, res.Width, res.Height))
		copy(img.Pix, res.Data)
		return img
	default:
		rgba := image.NewRGBA(image.Rect(0, 0, res.Width, res.Height))
		n := res.Width * res.Height
		for i := 0; i < n && i*3+2 < len(res.Data); i++ {
			rgba.Pix[i*4+0] = res.Data[i*3+0]
			rgba.Pix[i*4+1] = res.Data[i*3+1]
			rgba.Pix[i*4+2] = res.Data[i*3+2]
			rgba.Pix[i*4+3] = 0xff
		}
		return rgba
	}
}

func encode(img draw.Image, orig *external.ImageResource) *external.ImageResource {
	out := &external.ImageResource{
		Width:            orig.Width,
		Height:           orig.Height,
		BitsPerComponent: 8,
		ColorSpace:       orig.ColorSpace,
	}
	switch g := img.(type) {
	case *image.Gray:
		out.Data = append([]byte(nil), g.Pix...)
	case *image.RGBA:
		data := make([]byte, 0, orig.Width*orig.Height*3)
		for i := 0; i < orig.Width*orig.Height; i++ {
			data = append(data, g.Pix[i*4+0], g.Pix[i*4+1], g.Pix[i*4+2])
		}
		out.Data = data
	}
	return out
}
