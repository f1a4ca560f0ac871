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

// Package external declares the collaborator interfaces the redaction
// pipeline is built on top of: the PDF object store, the character-map
// decoder, the text extractor, and the PDF/A metadata preserver. None of
// these are implemented by this module's core; default adapters live in
// the fontmap and metadata packages, and callers may substitute their own.
package external

import (
	"seehuhn.de/go/redact/content"
	"seehuhn.de/go/redact/coord"
)

// ImageResource is the sample data and parameters of one image XObject, as
// the object store exposes it.
type ImageResource struct {
	Data             []byte
	Width, Height    int
	BitsPerComponent int
	ColorSpace       string
	Filters          []string
}

// Annotation is one page annotation record, reduced to what the annotation
// gate needs: its position and an identifying index into the store's
// per-page annotation list.
type Annotation struct {
	Index   int
	Rect    coord.Rectangle
	Subtype string
}

// ObjectStore is the PDF object-graph collaborator: cross-reference table,
// object streams and encryption all live behind it. The core never touches
// them directly, only content-stream bytes and the small scalar/array
// values below.
type ObjectStore interface {
	PageCount() (int, error)

	PageContent(pageIndex int) ([]byte, error)
	SetPageContent(pageIndex int, content []byte) error

	PageUserSpaceSize(pageIndex int) (width, height float64, err error)
	PageRotation(pageIndex int) (int, error)

	PageImageResource(pageIndex int, name string) (*ImageResource, error)
	ReplacePageImageResource(pageIndex int, name string, res *ImageResource) error

	PageAnnotations(pageIndex int) ([]Annotation, error)
	DeleteAnnotation(pageIndex int, index int) error

	// Metadata returns the document's XMP metadata stream, or nil if the
	// document carries none.
	Metadata() ([]byte, error)
	SetMetadata(data []byte) error

	Save() error
}

// Decoder turns a text-showing operand into Unicode codepoints and glyph
// advances for a given font resource. It is the external character-map
// decoder collaborator; content.Decoder is the identical shape so the
// content package never has to import this one.
type Decoder = content.Decoder

// Letter is one glyph reported by the text extractor: its Unicode
// codepoint and its bounding rectangle in the page's visual frame.
type Letter struct {
	Rune rune
	Rect coord.Rectangle
}

// TextExtractor reports, for a page, the sequence of letters an external
// rendering/extraction engine found, in reading order.
type TextExtractor interface {
	PageLetters(pageIndex int) ([]Letter, error)
}

// Conformance is a PDF/A conformance level.
type Conformance string

const (
	ConformanceNone Conformance = ""
	Conformance1A   Conformance = "1a"
	Conformance1B   Conformance = "1b"
	Conformance2A   Conformance = "2a"
	Conformance2B   Conformance = "2b"
	Conformance2U   Conformance = "2u"
	Conformance3A   Conformance = "3a"
	Conformance3B   Conformance = "3b"
	Conformance3U   Conformance = "3u"
	Conformance4    Conformance = "4"
	Conformance4E   Conformance = "4e"
	Conformance4F   Conformance = "4f"
)

// MetadataPreserver is invoked once, after the document has been saved, to
// keep PDF/A XMP metadata consistent with the edits the core made (in
// particular the document info dictionary's ModDate). It is permitted to
// fail silently when the existing XMP payload has no padding left to
// accept the update; in that case the document itself is still valid, just
// no longer strictly conformant.
type MetadataPreserver interface {
	Preserve(store ObjectStore, level Conformance) error
}
