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

package pdfstore

import (
	"bytes"
	"fmt"

	"seehuhn.de/go/redact/coord"
	"seehuhn.de/go/redact/external"
)

var _ external.ObjectStore = (*Store)(nil)

// PageCount implements [external.ObjectStore].
func (s *Store) PageCount() (int, error) {
	return len(s.pages), nil
}

func (s *Store) page(i int) (*pageEntry, error) {
	if i < 0 || i >= len(s.pages) {
		return nil, fmt.Errorf("pdfstore: page index %d out of range", i)
	}
	return s.pages[i], nil
}

// PageContent implements [external.ObjectStore]. When a page's content is
// split across several stream objects (a legal but uncommon /Contents
// array), the decoded bytes are concatenated with a newline between each,
// matching how a conforming viewer treats the split as invisible.
func (s *Store) PageContent(pageIndex int) ([]byte, error) {
	if data, ok := s.contentOverride[pageIndex]; ok {
		return data, nil
	}
	pe, err := s.page(pageIndex)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	for i, ref := range pe.contentRefs {
		body, ok := s.objs[ref]
		if !ok {
			continue
		}
		_, data, _, ok := decodeStream(body)
		if !ok {
			continue
		}
		if i > 0 {
			buf.WriteByte('\n')
		}
		buf.Write(data)
	}
	return buf.Bytes(), nil
}

// SetPageContent implements [external.ObjectStore]. The replacement is
// staged in memory; [Store.Save] folds every page's override into a
// single content-stream object per page.
func (s *Store) SetPageContent(pageIndex int, content []byte) error {
	if _, err := s.page(pageIndex); err != nil {
		return err
	}
	s.contentOverride[pageIndex] = append([]byte(nil), content...)
	return nil
}

// PageUserSpaceSize implements [external.ObjectStore].
func (s *Store) PageUserSpaceSize(pageIndex int) (float64, float64, error) {
	pe, err := s.page(pageIndex)
	if err != nil {
		return 0, 0, err
	}
	w := pe.mediaBox[2] - pe.mediaBox[0]
	h := pe.mediaBox[3] - pe.mediaBox[1]
	return w, h, nil
}

// PageRotation implements [external.ObjectStore].
func (s *Store) PageRotation(pageIndex int) (int, error) {
	pe, err := s.page(pageIndex)
	if err != nil {
		return 0, err
	}
	return pe.rotate, nil
}

// PageAnnotations implements [external.ObjectStore].
func (s *Store) PageAnnotations(pageIndex int) ([]external.Annotation, error) {
	pe, err := s.page(pageIndex)
	if err != nil {
		return nil, err
	}
	deleted := s.annotDeleted[pageIndex]
	var out []external.Annotation
	for i, ref := range pe.annots {
		if deleted[i] {
			continue
		}
		body, ok := s.objs[ref]
		if !ok {
			continue
		}
		rect := coord.Rectangle{Left: pe.mediaBox[0], Bottom: pe.mediaBox[1], Right: pe.mediaBox[2], Top: pe.mediaBox[3]}
		if rb, ok := findValueRaw(body, "Rect"); ok {
			if box, ok := parseNumArray4(rb); ok {
				rect = coord.NewRectangle(box[0], box[1], box[2], box[3])
			}
		}
		subtype := ""
		if st, ok := findValueRaw(body, "Subtype"); ok {
			subtype = string(bytes.TrimPrefix(bytes.TrimSpace(st), []byte("/")))
		}
		out = append(out, external.Annotation{Index: i, Rect: rect, Subtype: subtype})
	}
	return out, nil
}

// DeleteAnnotation implements [external.ObjectStore]. index is the Index
// field [Store.PageAnnotations] reported (the annotation's position in the
// page's /Annots array), not an object number.
func (s *Store) DeleteAnnotation(pageIndex int, index int) error {
	pe, err := s.page(pageIndex)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(pe.annots) {
		return fmt.Errorf("pdfstore: annotation index %d out of range on page %d", index, pageIndex)
	}
	if s.annotDeleted[pageIndex] == nil {
		s.annotDeleted[pageIndex] = make(map[int]bool)
	}
	s.annotDeleted[pageIndex][index] = true
	return nil
}

// Metadata implements [external.ObjectStore].
func (s *Store) Metadata() ([]byte, error) {
	if s.metadataSet {
		return s.metadataOverride, nil
	}
	catalog, ok := s.objs[s.root]
	if !ok {
		return nil, nil
	}
	ref, ok := findValueRef(catalog, "Metadata")
	if !ok {
		return nil, nil
	}
	body, ok := s.objs[ref]
	if !ok {
		return nil, nil
	}
	_, data, _, ok := decodeStream(body)
	if !ok {
		return nil, nil
	}
	return data, nil
}

// SetMetadata implements [external.ObjectStore].
func (s *Store) SetMetadata(data []byte) error {
	s.metadataOverride = append([]byte(nil), data...)
	s.metadataSet = true
	return nil
}
