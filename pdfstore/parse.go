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

// Package pdfstore is a minimal [external.ObjectStore] adapter for classic
// (non-cross-reference-stream, non-object-stream) PDF files, so that
// [redact.Redactor] can be driven end to end from the command line without
// requiring every caller to bring their own object-graph reader/writer.
// It is deliberately not a general PDF library: it locates objects with a
// brute-force "N G obj ... endobj" scan rather than following the
// cross-reference table, the same simplification the retrieved
// gopdfsuit redaction tool uses for the same reason (most real-world PDFs
// are well-formed enough for this to work, and the full xref/object-stream
// machinery is the object-graph reader/writer this module treats as an
// external collaborator).
package pdfstore

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
	"regexp"
	"strconv"
)

// Store is a parsed classic PDF file: a flat map of indirect objects plus
// the resolved list of page dictionaries, in document order.
type Store struct {
	objs map[string][]byte // "N G" -> raw bytes between "obj" and "endobj"
	root string            // "N G" of the /Root catalog
	info  string             // "N G" of the /Info dict, if any
	pages []*pageEntry

	contentOverride  map[int][]byte
	metadataOverride []byte
	metadataSet      bool
	annotDeleted     map[int]map[int]bool
	imageOverride    map[int]map[string]*imageBytes

	outPath string
}

type imageBytes struct {
	dict []byte
	data []byte
}

type pageEntry struct {
	ref         string
	contentRefs []string
	mediaBox    [4]float64
	rotate      int
	resources   []byte
	annots      []string
}

var objRe = regexp.MustCompile(`(?s)(\d+)\s+(\d+)\s+obj\s*(.*?)\s*endobj`)

// Parse reads a classic PDF file and resolves its page tree.
func Parse(data []byte) (*Store, error) {
	s := &Store{
		objs:            make(map[string][]byte),
		contentOverride: make(map[int][]byte),
		annotDeleted:    make(map[int]map[int]bool),
		imageOverride:   make(map[int]map[string]*imageBytes),
	}

	for _, m := range objRe.FindAllSubmatch(data, -1) {
		num, _ := strconv.Atoi(string(m[1]))
		gen, _ := strconv.Atoi(string(m[2]))
		key := objKey(num, gen)
		s.objs[key] = append([]byte(nil), m[3]...)
	}
	if len(s.objs) == 0 {
		return nil, fmt.Errorf("pdfstore: no indirect objects found")
	}

	if root, ok := findRootRef(data); ok {
		s.root = root
	} else if root, ok := s.findCatalogByType(); ok {
		s.root = root
	} else {
		return nil, fmt.Errorf("pdfstore: could not locate document catalog")
	}
	if info, ok := findRef(data, "Info"); ok {
		s.info = info
	}

	catalog, ok := s.objs[s.root]
	if !ok {
		return nil, fmt.Errorf("pdfstore: catalog object %s missing", s.root)
	}
	pagesRef, ok := findValueRef(catalog, "Pages")
	if !ok {
		return nil, fmt.Errorf("pdfstore: catalog has no /Pages entry")
	}

	inherited := pageInherited{rotate: 0, mediaBox: [4]float64{0, 0, 612, 792}}
	if err := s.walkPages(pagesRef, inherited, make(map[string]bool)); err != nil {
		return nil, err
	}
	if len(s.pages) == 0 {
		return nil, fmt.Errorf("pdfstore: document has no pages")
	}
	return s, nil
}

type pageInherited struct {
	mediaBox  [4]float64
	rotate    int
	resources []byte
}

func (s *Store) walkPages(ref string, inh pageInherited, visiting map[string]bool) error {
	if visiting[ref] {
		return fmt.Errorf("pdfstore: cyclic page tree at %s", ref)
	}
	visiting[ref] = true
	defer delete(visiting, ref)

	dict, ok := s.objs[ref]
	if !ok {
		return fmt.Errorf("pdfstore: page-tree node %s missing", ref)
	}
	if mb, ok := findValueRaw(dict, "MediaBox"); ok {
		if box, ok := parseNumArray4(mb); ok {
			inh.mediaBox = box
		}
	}
	if rot, ok := findValueRaw(dict, "Rotate"); ok {
		if n, ok := parseIntTok(rot); ok {
			inh.rotate = ((n % 360) + 360) % 360
		}
	}
	if res, ok := findValueRaw(dict, "Resources"); ok {
		inh.resources = res
	}

	if kids, ok := findValueRaw(dict, "Kids"); ok {
		refs := parseRefArray(kids)
		for _, kid := range refs {
			if err := s.walkPages(kid, inh, visiting); err != nil {
				return err
			}
		}
		return nil
	}

	// Leaf page.
	pe := &pageEntry{ref: ref, mediaBox: inh.mediaBox, rotate: inh.rotate, resources: inh.resources}
	if contents, ok := findValueRaw(dict, "Contents"); ok {
		trimmed := bytes.TrimSpace(contents)
		if len(trimmed) > 0 && trimmed[0] == '[' {
			pe.contentRefs = parseRefArray(trimmed)
		} else if ref, ok := parseSingleRef(trimmed); ok {
			pe.contentRefs = []string{ref}
		}
	}
	if annots, ok := findValueRaw(dict, "Annots"); ok {
		pe.annots = parseRefArray(annots)
	}
	s.pages = append(s.pages, pe)
	return nil
}

func (s *Store) findCatalogByType() (string, bool) {
	for key, body := range s.objs {
		if t, ok := findValueRaw(body, "Type"); ok && bytes.Equal(bytes.TrimSpace(t), []byte("/Catalog")) {
			return key, true
		}
	}
	return "", false
}

func objKey(num, gen int) string {
	return strconv.Itoa(num) + " " + strconv.Itoa(gen)
}

var rootRe = regexp.MustCompile(`/Root\s+(\d+)\s+(\d+)\s+R`)

func findRootRef(data []byte) (string, bool) {
	if m := rootRe.FindSubmatch(data); m != nil {
		return string(m[1]) + " " + string(m[2]), true
	}
	return "", false
}

func findRef(data []byte, key string) (string, bool) {
	re := regexp.MustCompile(`/` + key + `\s+(\d+)\s+(\d+)\s+R`)
	if m := re.FindSubmatch(data); m != nil {
		return string(m[1]) + " " + string(m[2]), true
	}
	return "", false
}

// decodeStream splits a stream object's raw body into its dictionary text
// and decoded sample bytes, applying FlateDecode if that is the sole
// filter. Other filters are returned undecoded with filters reported so
// callers can tell the data is still encoded.
func decodeStream(body []byte) (dict []byte, data []byte, filters []string, ok bool) {
	idx := bytes.Index(body, []byte("stream"))
	if idx < 0 {
		return nil, nil, nil, false
	}
	dict = bytes.TrimSpace(body[:idx])
	rest := body[idx+len("stream"):]
	rest = bytes.TrimPrefix(rest, []byte("\r\n"))
	rest = bytes.TrimPrefix(rest, []byte("\n"))
	rest = bytes.TrimPrefix(rest, []byte("\r"))
	end := bytes.LastIndex(rest, []byte("endstream"))
	if end < 0 {
		return nil, nil, nil, false
	}
	raw := rest[:end]
	raw = bytes.TrimSuffix(raw, []byte("\r\n"))
	raw = bytes.TrimSuffix(raw, []byte("\n"))
	raw = bytes.TrimSuffix(raw, []byte("\r"))

	filters = parseFilterList(dict)
	if len(filters) == 1 && filters[0] == "FlateDecode" {
		if dec, err := zlibDecode(raw); err == nil {
			return dict, dec, nil, true
		}
	}
	return dict, raw, filters, true
}

func zlibDecode(b []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

func parseFilterList(dict []byte) []string {
	raw, ok := findValueRaw(dict, "Filter")
	if !ok {
		return nil
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}
	if raw[0] == '[' {
		var out []string
		for _, ref := range splitArrayTokens(raw) {
			ref = bytes.TrimSpace(ref)
			if len(ref) > 0 && ref[0] == '/' {
				out = append(out, string(ref[1:]))
			}
		}
		return out
	}
	if raw[0] == '/' {
		return []string{string(raw[1:])}
	}
	return nil
}
