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

package content

import "seehuhn.de/go/redact/coord"

// Kind classifies an Operation into the operator family it belongs to.
type Kind int

const (
	KindTextState Kind = iota
	KindGraphicsState
	KindPathConstruction
	KindPathPainting
	KindImageInvocation
	KindText
	KindMarkedContent
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindTextState:
		return "TextState"
	case KindGraphicsState:
		return "GraphicsState"
	case KindPathConstruction:
		return "PathConstruction"
	case KindPathPainting:
		return "PathPainting"
	case KindImageInvocation:
		return "ImageInvocation"
	case KindText:
		return "Text"
	case KindMarkedContent:
		return "MarkedContent"
	default:
		return "Unknown"
	}
}

// DecodedChar is one Unicode codepoint produced by decoding a text-showing
// operand, together with its glyph advance in unscaled (1/1000 em) glyph
// space, matching the convention of PDF font width arrays.
type DecodedChar struct {
	Rune    rune
	Advance float64 // glyph-space units, 1000 = 1 em
}

// Decoder turns the raw bytes of a text-showing operand into Unicode
// codepoints and glyph advances, using whatever font program / character
// map the caller's object store makes available for fontResource. It is
// passed explicitly into the parser, never resolved through a
// package-level singleton, so callers can swap decoders per document
// without touching parser state.
type Decoder func(fontResource Name, operand []byte) ([]DecodedChar, error)

// TextShow carries everything the glyph remover and path/image editors
// need from a single text-showing operator (Tj, TJ, ', ").
type TextShow struct {
	// Text is the decoded Unicode string shown by this operation
	// (concatenation of all string fragments of a TJ array).
	Text string

	// Chars mirrors Text one rune at a time, together with the x-advance
	// (in unscaled text space, i.e. already including character/word
	// spacing and horizontal scaling) from this glyph's origin to the
	// next.
	Chars []ShownChar

	// FontName and FontSize are the Tf font resource and nominal size in
	// effect for this operation.
	FontName Name
	FontSize float64

	// EffectiveSize is FontSize * |Tm row 0|, the on-page glyph height:
	// the nominal size scaled by the text matrix's row scale, independent
	// of any translation or skew component.
	EffectiveSize float64

	// RenderMode is the Tr in effect (0-7); mode 3 is invisible but still
	// redactable.
	RenderMode int

	// CharSpace, WordSpace, HScale and Rise are the Tc, Tw, Tz and Ts values
	// in effect for this operation, carried so the reconstructor can
	// re-emit them and keep kept-segment glyph spacing unchanged.
	CharSpace float64
	WordSpace float64
	HScale    float64
	Rise      float64

	// PreMatrix is the text rendering matrix (Tm * CTM) at the glyph
	// origin before this operation executes.
	PreMatrix coord.Matrix

	// BBox is this operation's bounding box in page user-space, from the
	// pre-show origin to the post-show origin, extended vertically by the
	// font's ascent/descent as approximated by the effective size.
	BBox coord.Rectangle
}

// ShownChar is one glyph shown by a Text operation.
type ShownChar struct {
	Rune    rune
	Advance float64 // text-space displacement contributed by this glyph, including Tc/Tw/Tz
}

// ImageOp carries the placement and (for inline images) sample data of an
// image-painting operation.
type ImageOp struct {
	// Inline is true for a BI...ID...EI block, false for a Do invocation of
	// an XObject resource.
	Inline bool

	// ResourceName is the XObject name for a Do invocation.
	ResourceName Name

	// Params is the inline image's parameter dictionary (nil for Do).
	Params Dict

	// Data is the inline image's raw sample bytes, verbatim (nil for Do).
	Data []byte

	// CTM is the transform mapping the unit square to this image's
	// page-space footprint.
	CTM coord.Matrix

	// BBox is the image's page-space bounding box, the unit square mapped
	// through CTM.
	BBox coord.Rectangle
}

// Operation is one item of the parsed content stream: a tagged union over
// the operator families a page content stream can contain. Every variant
// records the raw operator name and operands for round-trip fidelity, plus
// the byte offset it started at.
type Operation struct {
	Kind Kind
	Name string
	Args []Object

	// Offset is the byte offset of the operator token in the source
	// stream, used to keep the operation list totally ordered.
	Offset int64

	// InsideTextBlock is true for every operation between a BT and its
	// matching ET (inclusive).
	InsideTextBlock bool

	// Depth is the q/Q nesting depth this operation executed at.
	Depth int

	// CTM is the current transformation matrix in effect when this
	// operation executed, used by the path collector to map construction
	// points into page user-space.
	CTM coord.Matrix

	Text  *TextShow
	Image *ImageOp
}

// IsTextShowOperator reports whether name is one of the text-showing
// family (Tj, TJ, ', ").
func IsTextShowOperator(name string) bool {
	switch name {
	case "Tj", "TJ", "'", "\"":
		return true
	}
	return false
}
