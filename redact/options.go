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
	"image/color"

	"seehuhn.de/go/redact/letters"
)

// PartialImageMode selects what happens to an image XObject or inline
// image that only partially overlaps the redaction union.
type PartialImageMode int

const (
	// PartialImageRemove drops the image invocation entirely, leaving the
	// opaque marker overlay (if enabled) to cover the area.
	PartialImageRemove PartialImageMode = iota
	// PartialImagePreserveWithBlackout overwrites the covered samples with
	// zero-valued pixels and keeps the invocation.
	PartialImagePreserveWithBlackout
)

// Options configures one redaction pass.
type Options struct {
	// CaseSensitive controls both RedactByText's search and the letter
	// index's content matching. Defaults to true (case-sensitive).
	CaseSensitive bool

	// DrawVisualMarker appends an opaque marker rectangle over each
	// redaction area after the structural edit, so the result is visually
	// obvious even to a viewer that only renders, never extracts.
	DrawVisualMarker bool

	// MarkerColor is the fill color used for the visual marker. Ignored
	// if DrawVisualMarker is false.
	MarkerColor color.Color

	// SanitizeMetadata, when true, drops every annotation on the touched
	// pages (not just the ones intersecting a redaction area). It does not
	// touch the document info dictionary or the XMP metadata.
	SanitizeMetadata bool

	// PartialImageMode selects how a partially covered image is handled.
	PartialImageMode PartialImageMode

	// GlyphRemovalPolicy selects how a letter's rectangle is tested
	// against the redaction rectangles.
	GlyphRemovalPolicy letters.Policy

	// SearchPad is the padding, in points, added around the bounding box
	// of a RedactByText match before it is treated as a redaction
	// rectangle, to absorb small positional discrepancies between the
	// text extractor's glyph geometry and the content stream's own.
	SearchPad float64

	// StrictUntouchedPreserved rejects a RedactPage call outright (via
	// OverlappingAreasError) when the caller's own areas overlap each
	// other, instead of best-effort processing them in the pipeline's
	// own canonical order. Overlapping requests are the only case where
	// that canonical order is implementation-defined rather than a
	// property of the requested areas themselves, so a caller that needs
	// a guarantee of order-independent output should set this rather
	// than rely on it.
	StrictUntouchedPreserved bool
}

// DefaultOptions returns the zero-value-safe defaults: case-sensitive
// matching, AnyOverlap glyph removal, image removal (not blackout) on
// partial overlap, no visual marker, no metadata sanitization.
func DefaultOptions() Options {
	return Options{
		CaseSensitive:      true,
		GlyphRemovalPolicy: letters.AnyOverlap,
		PartialImageMode:   PartialImageRemove,
		SearchPad:          1.0,
	}
}
