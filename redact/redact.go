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

// Package redact is the public entry point of the content-stream surgeon:
// given a PDF object store, a character-map decoder, and (for
// [Redactor.RedactByText]) a text extractor, it removes the glyphs,
// vector-path regions, image samples and annotations that fall inside a
// set of redaction rectangles, rewriting each touched page's content
// stream in place and never leaving the document in a structurally
// invalid state.
package redact

import (
	"seehuhn.de/go/redact/coord"
	"seehuhn.de/go/redact/external"
	"seehuhn.de/go/redact/letters"
)

// Redactor runs redaction passes against one document, via the
// collaborator interfaces of the external package.
type Redactor struct {
	pipeline pipeline
}

// NewRedactor builds a Redactor. extractor may be nil for callers that
// only ever call RedactPage with explicit rectangles.
func NewRedactor(store external.ObjectStore, decoder external.Decoder, extractor external.TextExtractor) *Redactor {
	return &Redactor{pipeline: pipeline{Store: store, Decoder: decoder, Extractor: extractor}}
}

// RedactPage removes every glyph, path region, image sample and annotation
// on pageIndex that falls inside areas.
func (rd *Redactor) RedactPage(pageIndex int, areas []coord.Rectangle, opts Options) (PageResult, error) {
	return rd.pipeline.RedactPage(pageIndex, areas, opts)
}

// RedactByText locates every occurrence of search on every page (via the
// text extractor) and redacts the bounding box of each match, expanded by
// opts.SearchPad. It returns the aggregate result across all pages that
// had at least one match.
func (rd *Redactor) RedactByText(search string, opts Options) (*Result, error) {
	result := &Result{}

	n, err := rd.pipeline.Store.PageCount()
	if err != nil {
		return nil, err
	}

	for pageIndex := 0; pageIndex < n; pageIndex++ {
		if rd.pipeline.Extractor == nil {
			continue
		}
		extLetters, err := rd.pipeline.Extractor.PageLetters(pageIndex)
		if err != nil {
			continue
		}
		pageLetters, err := rd.pipeline.toContentSpace(pageIndex, extLetters)
		if err != nil {
			continue
		}

		areas := findOccurrences(search, pageLetters, !opts.CaseSensitive, opts.SearchPad)
		if len(areas) == 0 {
			continue
		}

		pr, err := rd.pipeline.RedactPage(pageIndex, areas, opts)
		if err != nil {
			return result, err
		}
		result.Pages = append(result.Pages, pr)
		result.recordError(pr.Err)
	}

	return result, nil
}

// findOccurrences returns the padded bounding box of every non-overlapping
// contiguous run of pageLetters whose normalized text equals the
// normalized form of search.
func findOccurrences(search string, pageLetters []letters.Letter, caseInsensitive bool, pad float64) []coord.Rectangle {
	runes := []rune(search)
	if len(runes) == 0 {
		return nil
	}
	target := letters.Normalize(search, caseInsensitive)

	var areas []coord.Rectangle
	start := 0
	for start+len(runes) <= len(pageLetters) {
		window := pageLetters[start : start+len(runes)]
		candidate := make([]rune, len(window))
		for i, l := range window {
			candidate[i] = l.Rune
		}
		if letters.Normalize(string(candidate), caseInsensitive) != target {
			start++
			continue
		}
		areas = append(areas, boundingBox(window).Pad(pad))
		start += len(runes)
	}
	return areas
}

func boundingBox(ls []letters.Letter) coord.Rectangle {
	r := ls[0].Rect
	for _, l := range ls[1:] {
		r = r.Union(l.Rect)
	}
	return r
}
