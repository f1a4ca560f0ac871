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
	"compress/zlib"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
)

// SetOutputPath records the destination [Store.Save] writes to. cmd/redact
// calls this once after opening the input file and before running any
// redaction passes.
func (s *Store) SetOutputPath(path string) {
	s.outPath = path
}

// Save implements [external.ObjectStore]. It folds every staged edit
// (page content rewrites, annotation deletions, image blackouts, metadata
// replacement) into a fresh classic PDF file written to the path given to
// [Store.SetOutputPath].
func (s *Store) Save() error {
	if s.outPath == "" {
		return fmt.Errorf("pdfstore: no output path set (call SetOutputPath first)")
	}
	var buf bytes.Buffer
	if err := s.WriteTo(&buf); err != nil {
		return err
	}
	return os.WriteFile(s.outPath, buf.Bytes(), 0o644)
}

// WriteTo serializes the store, with every staged edit applied, as a
// complete classic PDF: a header, every indirect object in ascending
// object-number order, a plain (non-compressed, non-cross-reference-
// stream) xref table, and a trailer pointing at the same /Root and /Info
// the input file used.
func (s *Store) WriteTo(w io.Writer) error {
	objs := s.materialize()

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.7\n%\xE2\xE3\xCF\xD3\n")

	offsets := make(map[int]int64)
	maxNum := 0
	for num := range objs {
		if num > maxNum {
			maxNum = num
		}
	}
	nums := make([]int, 0, len(objs))
	for num := range objs {
		nums = append(nums, num)
	}
	sort.Ints(nums)

	for _, num := range nums {
		offsets[num] = int64(buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n", num)
		buf.Write(objs[num])
		buf.WriteString("\nendobj\n")
	}

	xrefOffset := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", maxNum+1)
	buf.WriteString("0000000000 65535 f \n")
	for n := 1; n <= maxNum; n++ {
		if off, ok := offsets[n]; ok {
			fmt.Fprintf(&buf, "%010d 00000 n \n", off)
		} else {
			buf.WriteString("0000000000 00000 f \n")
		}
	}

	buf.WriteString("trailer\n")
	buf.WriteString("<< /Size " + strconv.Itoa(maxNum+1) + " /Root " + s.root + " R")
	if s.info != "" {
		buf.WriteString(" /Info " + s.info + " R")
	}
	buf.WriteString(" >>\n")
	fmt.Fprintf(&buf, "startxref\n%d\n%%%%EOF\n", xrefOffset)

	_, err := w.Write(buf.Bytes())
	return err
}

// materialize returns the object-number -> body map with every staged edit
// folded in, leaving the original parsed objects untouched.
func (s *Store) materialize() map[int][]byte {
	out := make(map[int][]byte, len(s.objs))
	for key, body := range s.objs {
		out[objNum(key)] = append([]byte(nil), body...)
	}

	for pageIdx, content := range s.contentOverride {
		pe := s.pages[pageIdx]
		if len(pe.contentRefs) == 0 {
			continue
		}
		primary := pe.contentRefs[0]
		out[objNum(primary)] = streamObjectBody(content)
		for _, extra := range pe.contentRefs[1:] {
			out[objNum(extra)] = streamObjectBody(nil)
		}
		if len(pe.contentRefs) > 1 {
			pageBody := out[objNum(pe.ref)]
			out[objNum(pe.ref)] = setValueRaw(pageBody, "Contents", []byte(primary+" R"))
		}
	}

	for pageIdx, deleted := range s.annotDeleted {
		if len(deleted) == 0 {
			continue
		}
		pe := s.pages[pageIdx]
		var kept []byte
		kept = append(kept, '[')
		for i, ref := range pe.annots {
			if deleted[i] {
				continue
			}
			kept = append(kept, []byte(ref+" R ")...)
		}
		kept = append(kept, ']')
		pageBody := out[objNum(pe.ref)]
		out[objNum(pe.ref)] = setValueRaw(pageBody, "Annots", kept)
	}

	for pageIdx, byName := range s.imageOverride {
		pe := s.pages[pageIdx]
		for name, ib := range byName {
			ref, err := s.imageObjectRef(pageIdx, name)
			if err != nil {
				continue
			}
			_ = pe
			var body bytes.Buffer
			body.Write(ib.dict)
			body.WriteString("\nstream\n")
			body.Write(ib.data)
			body.WriteString("\nendstream")
			out[objNum(ref)] = body.Bytes()
		}
	}

	if s.metadataSet {
		if ref, ok := findValueRef(out[objNum(s.root)], "Metadata"); ok {
			var body bytes.Buffer
			body.WriteString("<< /Type /Metadata /Subtype /XML /Length " + strconv.Itoa(len(s.metadataOverride)) + " >>")
			body.WriteString("\nstream\n")
			body.Write(s.metadataOverride)
			body.WriteString("\nendstream")
			out[objNum(ref)] = body.Bytes()
		}
	}

	return out
}

func streamObjectBody(content []byte) []byte {
	compressed := flateCompress(content)
	var body bytes.Buffer
	fmt.Fprintf(&body, "<< /Length %d /Filter /FlateDecode >>", len(compressed))
	body.WriteString("\nstream\n")
	body.Write(compressed)
	body.WriteString("\nendstream")
	return body.Bytes()
}

func flateCompress(data []byte) []byte {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	zw.Write(data)
	zw.Close()
	return buf.Bytes()
}

func objNum(key string) int {
	n := 0
	for _, c := range key {
		if c == ' ' {
			break
		}
		n = n*10 + int(c-'0')
	}
	return n
}
