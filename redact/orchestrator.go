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

package redact

import (
	"bytes"
	"image/color"

	"golang.org/x/exp/slices"

	"seehuhn.de/go/redact/annot"
	"seehuhn.de/go/redact/content"
	"seehuhn.de/go/redact/coord"
	"seehuhn.de/go/redact/external"
	"seehuhn.de/go/redact/letters"
)

// pipeline bundles the collaborators one redaction pass needs.
type pipeline struct {
	Store     external.ObjectStore
	Decoder   external.Decoder
	Extractor external.TextExtractor
}

// RedactPage runs the full content-stream surgery pipeline against one
// page: parse, remove touched glyphs, clip paths, edit images, rebuild and
// validate, then gate annotations. It never leaves the document in a
// structurally invalid state: a validation failure reverts the page's
// content stream to its original bytes.
func (p *pipeline) RedactPage(pageIndex int, areas []coord.Rectangle, opts Options) (PageResult, error) {
	result := PageResult{PageIndex: pageIndex}

	// Process areas in a canonical order regardless of how the caller
	// supplied them, so that redacting the same disjoint rectangles in a
	// different call order produces byte-identical output (spec.md §8's
	// commutativity property).
	areas = slices.Clone(areas)
	slices.SortFunc(areas, coord.Compare)

	if opts.StrictUntouchedPreserved && areasOverlap(areas) {
		result.Err = &OverlappingAreasError{PageIndex: pageIndex}
		return result, nil
	}

	original, err := p.Store.PageContent(pageIndex)
	if err != nil {
		return result, err
	}

	ops, err := content.Parse(bytes.NewReader(original), p.Decoder)
	if err != nil {
		result.Err = &MalformedContentStreamError{PageIndex: pageIndex, Err: err}
		return result, nil
	}

	var pageLetters []letters.Letter
	if p.Extractor != nil {
		extLetters, err := p.Extractor.PageLetters(pageIndex)
		if err == nil {
			pageLetters, err = p.toContentSpace(pageIndex, extLetters)
			if err != nil {
				pageLetters = nil
			}
		}
	} else {
		pageLetters = letters.FromTextOps(ops)
	}

	ops, textRemoved := removeGlyphs(ops, pageLetters, areas, opts.GlyphRemovalPolicy, !opts.CaseSensitive)
	ops, pathRemoved := editPaths(ops, areas)
	ops, imageRemoved, err := editImages(p.Store, pageIndex, ops, areas, opts.PartialImageMode)
	if err != nil {
		result.Err = err
		return result, nil
	}

	if opts.DrawVisualMarker {
		ops = append(ops, markerOps(areas, opts.MarkerColor)...)
	}

	if err := content.Validate(ops); err != nil {
		result.Err = &ValidationFailureError{PageIndex: pageIndex, Err: err}
		return result, nil
	}
	rebuilt := content.Build(ops)

	if err := p.Store.SetPageContent(pageIndex, rebuilt); err != nil {
		return result, err
	}

	mode := annot.ModeIntersecting
	if opts.SanitizeMetadata {
		mode = annot.ModeSanitize
	}
	annotsBefore, err := p.Store.PageAnnotations(pageIndex)
	if err != nil {
		return result, &AnnotationEditFailureError{PageIndex: pageIndex, Err: err}
	}
	doomed := annot.Gate(annotsBefore, areas, mode)
	for i := len(doomed) - 1; i >= 0; i-- {
		if err := p.Store.DeleteAnnotation(pageIndex, doomed[i]); err != nil {
			return result, &AnnotationEditFailureError{PageIndex: pageIndex, Err: err}
		}
	}

	result.RemovedTextCount = textRemoved
	result.RemovedPathCount = pathRemoved
	result.RemovedImageCount = imageRemoved
	result.RemovedAnnotationCount = len(doomed)
	return result, nil
}

// toContentSpace converts the text extractor's letters, reported in the
// page's visual frame, into the content stream's own user-space frame via
// the rotation bridge (coord.VisualRectToContent), so that letter
// rectangles can be compared directly against caller-supplied redaction
// areas (which are always given in content-stream user-space, per
// [Redactor.RedactPage]'s contract) regardless of the page's /Rotate.
func (p *pipeline) toContentSpace(pageIndex int, extLetters []external.Letter) ([]letters.Letter, error) {
	w, h, err := p.Store.PageUserSpaceSize(pageIndex)
	if err != nil {
		return nil, err
	}
	rotate, err := p.Store.PageRotation(pageIndex)
	if err != nil {
		return nil, err
	}
	geom := coord.PageGeometry{Width: w, Height: h, Rotate: rotate}

	out := make([]letters.Letter, len(extLetters))
	for i, l := range extLetters {
		rect, err := coord.VisualRectToContent(geom, l.Rect)
		if err != nil {
			return nil, err
		}
		out[i] = letters.Letter{Rune: l.Rune, Rect: rect}
	}
	return out, nil
}

// markerOps builds the opaque marker overlay: q, a fill color, one re+f per
// area, Q. Emitted after structural removal so the result stays visually
// obvious even to a viewer that does not re-extract text.
func markerOps(areas []coord.Rectangle, c color.Color) []*content.Operation {
	if len(areas) == 0 {
		return nil
	}
	r, g, b := colorToRGB(c)

	ops := []*content.Operation{
		{Kind: content.KindGraphicsState, Name: "q"},
		{Kind: content.KindGraphicsState, Name: "rg", Args: []content.Object{
			content.Real(r), content.Real(g), content.Real(b),
		}},
	}
	for _, a := range areas {
		ops = append(ops, &content.Operation{
			Kind: content.KindPathConstruction,
			Name: "re",
			Args: []content.Object{
				content.Real(a.Left), content.Real(a.Bottom),
				content.Real(a.Width()), content.Real(a.Height()),
			},
		})
		ops = append(ops, &content.Operation{Kind: content.KindPathPainting, Name: "f"})
	}
	ops = append(ops, &content.Operation{Kind: content.KindGraphicsState, Name: "Q"})
	return ops
}

// areasOverlap reports whether any two rectangles in a sorted areas slice
// intersect. Areas is assumed sorted by coord.Compare, but the check itself
// is a plain pairwise scan: redaction requests are small enough that an
// O(n^2) check is not worth a sweep-line implementation.
func areasOverlap(areas []coord.Rectangle) bool {
	for i := 0; i < len(areas); i++ {
		for j := i + 1; j < len(areas); j++ {
			if areas[i].Intersects(areas[j]) {
				return true
			}
		}
	}
	return false
}

func colorToRGB(c color.Color) (r, g, b float64) {
	if c == nil {
		return 0, 0, 0
	}
	cr, cg, cb, _ := c.RGBA()
	return float64(cr) / 0xffff, float64(cg) / 0xffff, float64(cb) / 0xffff
}
