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

// Package annot decides which page annotations survive a redaction pass.
// An annotation whose /Rect intersects a redaction area is itself a leak
// of the text or image it labels (a comment quoting the redacted
// paragraph, a link whose visible rectangle overlaps it) and is deleted
// along with the content it overlaps; a separate sanitize mode removes
// every annotation regardless of position, for callers who want no
// interactive layer left at all.
package annot

import (
	"golang.org/x/exp/slices"

	"seehuhn.de/go/redact/coord"
	"seehuhn.de/go/redact/external"
)

// Mode selects how aggressively the gate removes annotations.
type Mode int

const (
	// ModeIntersecting deletes only annotations whose Rect intersects a
	// redaction area.
	ModeIntersecting Mode = iota
	// ModeSanitize deletes every annotation on the page.
	ModeSanitize
)

// Gate applies a Mode against a page's annotations and redaction areas,
// returning the indices (into the store's per-page annotation list, as
// delivered by [external.ObjectStore.PageAnnotations]) that must be
// deleted.
func Gate(annots []external.Annotation, areas []coord.Rectangle, mode Mode) []int {
	var doomed []int
	for _, a := range annots {
		switch mode {
		case ModeSanitize:
			doomed = append(doomed, a.Index)
		default:
			if a.Rect.IntersectsAny(areas) {
				doomed = append(doomed, a.Index)
			}
		}
	}
	// Callers delete doomed indices highest-first so an earlier deletion
	// never shifts the index of one still pending; that only works if the
	// indices are sorted, which PageAnnotations's own ordering does not
	// guarantee.
	slices.Sort(doomed)
	return doomed
}

// Apply runs Gate against the page's current annotations from store and
// deletes the doomed ones, highest index first so earlier deletions never
// shift the index of one still pending.
func Apply(store external.ObjectStore, pageIndex int, areas []coord.Rectangle, mode Mode) error {
	annots, err := store.PageAnnotations(pageIndex)
	if err != nil {
		return err
	}
	doomed := Gate(annots, areas, mode)
	for i := len(doomed) - 1; i >= 0; i-- {
		if err := store.DeleteAnnotation(pageIndex, doomed[i]); err != nil {
			return err
		}
	}
	return nil
}
