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

package redact_test

import (
	"bytes"
	"strings"
	"testing"

	"seehuhn.de/go/redact/content"
	"seehuhn.de/go/redact/coord"
	"seehuhn.de/go/redact/external"
	"seehuhn.de/go/redact/letters"
	"seehuhn.de/go/redact/redact"
)

// fakeStore is a minimal in-memory [external.ObjectStore] for one page,
// enough to drive the pipeline without a real PDF object graph.
type fakeStore struct {
	content  []byte
	w, h     float64
	rotate   int
	annots   []external.Annotation
	deleted  map[int]bool
	saved    bool
	metadata []byte
}

func (s *fakeStore) PageCount() (int, error) { return 1, nil }

func (s *fakeStore) PageContent(i int) ([]byte, error) { return s.content, nil }

func (s *fakeStore) SetPageContent(i int, data []byte) error {
	s.content = data
	return nil
}

func (s *fakeStore) PageUserSpaceSize(i int) (float64, float64, error) { return s.w, s.h, nil }

func (s *fakeStore) PageRotation(i int) (int, error) { return s.rotate, nil }

func (s *fakeStore) PageImageResource(i int, name string) (*external.ImageResource, error) {
	return nil, errNotFound
}

func (s *fakeStore) ReplacePageImageResource(i int, name string, res *external.ImageResource) error {
	return errNotFound
}

func (s *fakeStore) PageAnnotations(i int) ([]external.Annotation, error) {
	var out []external.Annotation
	for _, a := range s.annots {
		if s.deleted[a.Index] {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (s *fakeStore) DeleteAnnotation(i int, index int) error {
	if s.deleted == nil {
		s.deleted = make(map[int]bool)
	}
	s.deleted[index] = true
	return nil
}

func (s *fakeStore) Metadata() ([]byte, error) { return s.metadata, nil }

func (s *fakeStore) SetMetadata(data []byte) error {
	s.metadata = data
	return nil
}

func (s *fakeStore) Save() error {
	s.saved = true
	return nil
}

var errNotFound = &notFoundError{}

type notFoundError struct{}

func (*notFoundError) Error() string { return "fakeStore: no image resources" }

// fakeExtractor reports a fixed letter list, as if produced by rendering
// the page and reading glyph geometry back off the raster.
type fakeExtractor struct {
	letters []external.Letter
}

func (f *fakeExtractor) PageLetters(int) ([]external.Letter, error) { return f.letters, nil }

func monospaceDecoder(advance float64) content.Decoder {
	return func(font content.Name, operand []byte) ([]content.DecodedChar, error) {
		out := make([]content.DecodedChar, len(operand))
		for i, b := range operand {
			out[i] = content.DecodedChar{Rune: rune(b), Advance: advance}
		}
		return out, nil
	}
}

func extractedText(t *testing.T, data []byte, decoder content.Decoder) string {
	t.Helper()
	ops, err := content.Parse(bytes.NewReader(data), decoder)
	if err != nil {
		t.Fatalf("re-parsing redacted content: %v", err)
	}
	var sb strings.Builder
	for _, op := range ops {
		if op.Kind == content.KindText && op.Text != nil {
			sb.WriteString(op.Text.Text)
		}
	}
	return sb.String()
}

// boundingBoxOf unions the content-space rectangles of the first run of
// letters in ops whose rune sequence matches word.
func boundingBoxOf(t *testing.T, ops []*content.Operation, word string) coord.Rectangle {
	t.Helper()
	all := letters.FromTextOps(ops)
	runes := []rune(word)
	for start := 0; start+len(runes) <= len(all); start++ {
		match := true
		for i, r := range runes {
			if all[start+i].Rune != r {
				match = false
				break
			}
		}
		if !match {
			continue
		}
		box := all[start].Rect
		for i := 1; i < len(runes); i++ {
			box = box.Union(all[start+i].Rect)
		}
		return box
	}
	t.Fatalf("word %q not found in parsed letters", word)
	return coord.Rectangle{}
}

// TestRedactPageRemovesWord exercises the scenario from spec.md S1: a
// single redaction rectangle covering one word of a line must remove only
// that word's glyphs from the content stream.
func TestRedactPageRemovesWord(t *testing.T) {
	decoder := monospaceDecoder(500)
	src := "BT /F1 1 Tf 12 0 0 12 50 700 Tm (This is public information) Tj ET"
	ops, err := content.Parse(strings.NewReader(src), decoder)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	area := boundingBoxOf(t, ops, "public").Pad(0.5)

	store := &fakeStore{content: []byte(src), w: 612, h: 792, rotate: 0}
	rd := redact.NewRedactor(store, decoder, nil)

	res, err := rd.RedactPage(0, []coord.Rectangle{area}, redact.DefaultOptions())
	if err != nil {
		t.Fatalf("RedactPage: %v", err)
	}
	if res.Err != nil {
		t.Fatalf("RedactPage result error: %v", res.Err)
	}
	if res.RemovedTextCount == 0 {
		t.Fatalf("expected at least one text op to be touched")
	}

	out := extractedText(t, store.content, decoder)
	if strings.Contains(out, "public") {
		t.Fatalf("redacted text still contains %q: %q", "public", out)
	}
	if !strings.Contains(out, "information") {
		t.Fatalf("redacted text lost unrelated word: %q", out)
	}
	if !strings.Contains(out, "This is") {
		t.Fatalf("redacted text lost unrelated prefix: %q", out)
	}
}

// TestRedactByTextAppliesRotationBridge is a regression test for the
// rotation bridge (spec.md §4.M): the extractor reports letter rectangles
// in the page's *visual* frame, which for a /Rotate 270 page is nowhere
// near the content-stream coordinates the redaction areas and the
// content-stream glyph positions use. Without converting through
// [coord.VisualRectToContent] first, the overlap test silently never
// matches and no glyph is ever removed.
func TestRedactByTextAppliesRotationBridge(t *testing.T) {
	decoder := monospaceDecoder(500)
	src := "BT /F1 1 Tf 12 0 0 12 50 700 Tm (Name: John Doe) Tj ET"
	ops, err := content.Parse(strings.NewReader(src), decoder)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	const w, h, rotate = 612.0, 792.0, 270
	geom := coord.PageGeometry{Width: w, Height: h, Rotate: rotate}

	// Build the extractor's reported letters by mapping each glyph's real
	// content-space rectangle into the visual frame, the same way a real
	// rendering-based extractor would report it for a rotated page.
	contentLetters := letters.FromTextOps(ops)
	var visual []external.Letter
	for _, l := range contentLetters {
		vx0, vy0, err := coord.ContentToVisual(geom, l.Rect.Left, l.Rect.Bottom)
		if err != nil {
			t.Fatalf("ContentToVisual: %v", err)
		}
		vx1, vy1, err := coord.ContentToVisual(geom, l.Rect.Right, l.Rect.Top)
		if err != nil {
			t.Fatalf("ContentToVisual: %v", err)
		}
		visual = append(visual, external.Letter{Rune: l.Rune, Rect: coord.NewRectangle(vx0, vy0, vx1, vy1)})
	}

	store := &fakeStore{content: []byte(src), w: w, h: h, rotate: rotate}
	extractor := &fakeExtractor{letters: visual}
	rd := redact.NewRedactor(store, decoder, extractor)

	opts := redact.DefaultOptions()
	opts.SearchPad = 0.5
	result, err := rd.RedactByText("John Doe", opts)
	if err != nil {
		t.Fatalf("RedactByText: %v", err)
	}
	if len(result.Pages) != 1 || result.Pages[0].RemovedTextCount == 0 {
		t.Fatalf("expected RedactByText to touch the page's text, got %+v", result.Pages)
	}

	out := extractedText(t, store.content, decoder)
	if strings.Contains(out, "John Doe") {
		t.Fatalf("rotation bridge regression: %q still present in %q", "John Doe", out)
	}
	if !strings.Contains(out, "Name:") {
		t.Fatalf("redacted text lost unrelated label: %q", out)
	}
}

// TestRedactPageIsIdempotent exercises spec.md §8 item 5: redacting a page a
// second time with the same areas, against the already-redacted content,
// must be a no-op byte-for-byte. The word is already gone after the first
// pass, so nothing should be found or touched the second time.
func TestRedactPageIsIdempotent(t *testing.T) {
	decoder := monospaceDecoder(500)
	src := "BT /F1 1 Tf 12 0 0 12 50 700 Tm (This is public information) Tj ET"
	ops, err := content.Parse(strings.NewReader(src), decoder)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	area := boundingBoxOf(t, ops, "public").Pad(0.5)

	store := &fakeStore{content: []byte(src), w: 612, h: 792, rotate: 0}
	rd := redact.NewRedactor(store, decoder, nil)

	if _, err := rd.RedactPage(0, []coord.Rectangle{area}, redact.DefaultOptions()); err != nil {
		t.Fatalf("first RedactPage: %v", err)
	}
	afterFirst := append([]byte(nil), store.content...)

	res, err := rd.RedactPage(0, []coord.Rectangle{area}, redact.DefaultOptions())
	if err != nil {
		t.Fatalf("second RedactPage: %v", err)
	}
	if res.Err != nil {
		t.Fatalf("second RedactPage result error: %v", res.Err)
	}
	if res.RemovedTextCount != 0 {
		t.Fatalf("second pass touched %d text ops, want 0", res.RemovedTextCount)
	}
	if !bytes.Equal(store.content, afterFirst) {
		t.Fatalf("second pass changed content:\nafter first:  %q\nafter second: %q", afterFirst, store.content)
	}
}

// TestRedactPageAreasAreCommutative exercises spec.md §8 item 6: redacting
// two disjoint areas in one call must produce byte-identical output
// regardless of the order the caller lists them in.
func TestRedactPageAreasAreCommutative(t *testing.T) {
	decoder := monospaceDecoder(500)
	src := "BT /F1 1 Tf 12 0 0 12 50 700 Tm (Alpha Bravo Charlie Delta) Tj ET"
	ops, err := content.Parse(strings.NewReader(src), decoder)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	areaBravo := boundingBoxOf(t, ops, "Bravo").Pad(0.5)
	areaDelta := boundingBoxOf(t, ops, "Delta").Pad(0.5)

	storeForward := &fakeStore{content: []byte(src), w: 612, h: 792, rotate: 0}
	rdForward := redact.NewRedactor(storeForward, decoder, nil)
	if _, err := rdForward.RedactPage(0, []coord.Rectangle{areaBravo, areaDelta}, redact.DefaultOptions()); err != nil {
		t.Fatalf("forward-order RedactPage: %v", err)
	}

	storeReverse := &fakeStore{content: []byte(src), w: 612, h: 792, rotate: 0}
	rdReverse := redact.NewRedactor(storeReverse, decoder, nil)
	if _, err := rdReverse.RedactPage(0, []coord.Rectangle{areaDelta, areaBravo}, redact.DefaultOptions()); err != nil {
		t.Fatalf("reverse-order RedactPage: %v", err)
	}

	if !bytes.Equal(storeForward.content, storeReverse.content) {
		t.Fatalf("redaction order changed output:\nforward: %q\nreverse: %q", storeForward.content, storeReverse.content)
	}

	out := extractedText(t, storeForward.content, decoder)
	if strings.Contains(out, "Bravo") || strings.Contains(out, "Delta") {
		t.Fatalf("redacted words still present: %q", out)
	}
	if !strings.Contains(out, "Alpha") || !strings.Contains(out, "Charlie") {
		t.Fatalf("redacted text lost unrelated words: %q", out)
	}
}
