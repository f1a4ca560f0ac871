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
	"errors"
	"fmt"
)

var (
	// ErrCancelled is returned when a cancellation token fired before a
	// page's edits were committed. No partial mutation reaches the
	// document in this case.
	ErrCancelled = errors.New("redact: cancelled")
)

// MalformedContentStreamError indicates the parser could not tokenize a
// page's content stream. The page is left unchanged.
type MalformedContentStreamError struct {
	PageIndex int
	Err       error
}

func (e *MalformedContentStreamError) Error() string {
	return fmt.Sprintf("redact: page %d: malformed content stream: %v", e.PageIndex, e.Err)
}

func (e *MalformedContentStreamError) Unwrap() error {
	return e.Err
}

// ValidationFailureError indicates the rebuilt content stream failed
// structural validation. The page is reverted to its pre-edit bytes; this
// error always short-circuits the page.
type ValidationFailureError struct {
	PageIndex int
	Err       error
}

func (e *ValidationFailureError) Error() string {
	return fmt.Sprintf("redact: page %d: rebuilt content failed validation: %v", e.PageIndex, e.Err)
}

func (e *ValidationFailureError) Unwrap() error {
	return e.Err
}

// LetterMismatchError records that an operation's decoded text could not be
// aligned with the extractor's letter stream. It is never surfaced as a
// pipeline error: the affected operation is treated as a single atom by the
// segmenter, and the mismatch is only recorded for diagnostics.
type LetterMismatchError struct {
	PageIndex      int
	OperationIndex int
}

func (e *LetterMismatchError) Error() string {
	return fmt.Sprintf("redact: page %d: operation %d: text does not align with extracted letters", e.PageIndex, e.OperationIndex)
}

// OverlappingAreasError indicates that Options.StrictUntouchedPreserved was
// set and two or more of the caller's own redaction areas overlap. The page
// is left unchanged.
type OverlappingAreasError struct {
	PageIndex int
}

func (e *OverlappingAreasError) Error() string {
	return fmt.Sprintf("redact: page %d: redaction areas overlap and Options.StrictUntouchedPreserved is set", e.PageIndex)
}

// ImageResourceMissingError records that a Do operator named a resource the
// object store could not produce. The operation is kept verbatim.
type ImageResourceMissingError struct {
	PageIndex int
	Name      string
}

func (e *ImageResourceMissingError) Error() string {
	return fmt.Sprintf("redact: page %d: image resource %q not found", e.PageIndex, e.Name)
}

// AnnotationEditFailureError wraps a failure propagated from the object
// store while deleting an annotation.
type AnnotationEditFailureError struct {
	PageIndex int
	Err       error
}

func (e *AnnotationEditFailureError) Error() string {
	return fmt.Sprintf("redact: page %d: annotation edit failed: %v", e.PageIndex, e.Err)
}

func (e *AnnotationEditFailureError) Unwrap() error {
	return e.Err
}

// PageResult is the per-page outcome of a redaction pass.
type PageResult struct {
	PageIndex            int
	RemovedTextCount     int
	RemovedImageCount    int
	RemovedPathCount     int
	RemovedAnnotationCount int
	Err                  error // set when the page was reverted or skipped
}

// Result is the aggregate outcome of redacting every requested page of a
// document.
type Result struct {
	Pages []PageResult

	// FirstErrors holds up to ten of the first per-page errors
	// encountered, for user-visible reporting.
	FirstErrors []error
}

// PagesRedacted reports how many pages completed without error.
func (r *Result) PagesRedacted() int {
	n := 0
	for _, p := range r.Pages {
		if p.Err == nil {
			n++
		}
	}
	return n
}

// PagesSkipped reports how many pages were reverted or skipped due to an
// error.
func (r *Result) PagesSkipped() int {
	return len(r.Pages) - r.PagesRedacted()
}

func (r *Result) recordError(err error) {
	if err == nil {
		return
	}
	if len(r.FirstErrors) < 10 {
		r.FirstErrors = append(r.FirstErrors, err)
	}
}
