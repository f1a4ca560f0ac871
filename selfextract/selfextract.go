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

// Package selfextract is a fallback [external.TextExtractor] for callers
// who have no independent rendering/extraction engine: it re-parses a
// page's own content stream and derives glyph rectangles from the text
// matrix math the parser already computes (see [letters.FromTextOps])
// instead of consulting an external rasterizer. It exists so
// [redact.Redactor.RedactByText] is usable out of the box from the CLI;
// callers with a real text extractor should prefer that collaborator,
// since this fallback cannot see anything a content-stream replay
// wouldn't (vertical writing modes, Type 0/CID fonts beyond what the
// decoder reports, OCR'd scans).
package selfextract

import (
	"bytes"

	"seehuhn.de/go/redact/content"
	"seehuhn.de/go/redact/coord"
	"seehuhn.de/go/redact/external"
	"seehuhn.de/go/redact/letters"
)

// Extractor implements [external.TextExtractor] on top of an object store
// and character-map decoder that are already available to the caller.
type Extractor struct {
	Store   external.ObjectStore
	Decoder external.Decoder
}

// PageLetters implements [external.TextExtractor]. It returns letters in
// the page's visual frame (rotated by /Rotate relative to the content
// stream), matching the interface's contract, even though the geometry is
// computed in content-stream space first.
func (e *Extractor) PageLetters(pageIndex int) ([]external.Letter, error) {
	data, err := e.Store.PageContent(pageIndex)
	if err != nil {
		return nil, err
	}
	ops, err := content.Parse(bytes.NewReader(data), e.Decoder)
	if err != nil {
		return nil, err
	}

	w, h, err := e.Store.PageUserSpaceSize(pageIndex)
	if err != nil {
		return nil, err
	}
	rotate, err := e.Store.PageRotation(pageIndex)
	if err != nil {
		return nil, err
	}
	geom := coord.PageGeometry{Width: w, Height: h, Rotate: rotate}

	contentLetters := letters.FromTextOps(ops)
	out := make([]external.Letter, len(contentLetters))
	for i, l := range contentLetters {
		vx0, vy0, err := coord.ContentToVisual(geom, l.Rect.Left, l.Rect.Bottom)
		if err != nil {
			return nil, err
		}
		vx1, vy1, err := coord.ContentToVisual(geom, l.Rect.Right, l.Rect.Top)
		if err != nil {
			return nil, err
		}
		out[i] = external.Letter{Rune: l.Rune, Rect: coord.NewRectangle(vx0, vy0, vx1, vy1)}
	}
	return out, nil
}
