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

	"seehuhn.de/go/redact/external"
)

// resolveDict returns raw if it is already an inline "<<...>>" dict, or
// the body of the object it refers to if raw is an "N G R" reference.
func (s *Store) resolveDict(raw []byte) []byte {
	raw = bytes.TrimSpace(raw)
	if ref, ok := parseSingleRef(raw); ok {
		if body, ok := s.objs[ref]; ok {
			return body
		}
		return nil
	}
	return raw
}

func (s *Store) imageObjectRef(pageIndex int, name string) (string, error) {
	pe, err := s.page(pageIndex)
	if err != nil {
		return "", err
	}
	res := s.resolveDict(pe.resources)
	if res == nil {
		return "", fmt.Errorf("pdfstore: page %d has no resources", pageIndex)
	}
	xobjRaw, ok := findValueRaw(res, "XObject")
	if !ok {
		return "", fmt.Errorf("pdfstore: page %d resources have no /XObject", pageIndex)
	}
	xobj := s.resolveDict(xobjRaw)
	ref, ok := findValueRef(xobj, name)
	if !ok {
		return "", fmt.Errorf("pdfstore: image resource %q not found", name)
	}
	return ref, nil
}

// PageImageResource implements [external.ObjectStore]. FlateDecode is
// transparently decoded so that gray/RGB samples are directly addressable
// by [imageedit.Blackout]; other filters (DCT, CCITT, JBIG2, ...) are left
// encoded and reported via Filters, so the caller correctly treats the
// image as not addressable in place.
func (s *Store) PageImageResource(pageIndex int, name string) (*external.ImageResource, error) {
	if ov, ok := s.imageOverride[pageIndex]; ok {
		if ib, ok := ov[name]; ok {
			return s.decodeImageDict(ib.dict, ib.data)
		}
	}
	ref, err := s.imageObjectRef(pageIndex, name)
	if err != nil {
		return nil, err
	}
	body, ok := s.objs[ref]
	if !ok {
		return nil, fmt.Errorf("pdfstore: image object %s missing", ref)
	}
	dict, data, filters, ok := decodeStream(body)
	if !ok {
		return nil, fmt.Errorf("pdfstore: image object %s is not a stream", ref)
	}
	res, err := s.decodeImageDict(dict, data)
	if err != nil {
		return nil, err
	}
	res.Filters = filters
	return res, nil
}

func (s *Store) decodeImageDict(dict, data []byte) (*external.ImageResource, error) {
	w, _ := numDictValue(dict, "Width")
	h, _ := numDictValue(dict, "Height")
	bpc, ok := numDictValue(dict, "BitsPerComponent")
	if !ok {
		bpc = 8
	}
	cs := "DeviceGray"
	if csRaw, ok := findValueRaw(dict, "ColorSpace"); ok {
		cs = csName(csRaw)
	}
	return &external.ImageResource{
		Data:             data,
		Width:            int(w),
		Height:           int(h),
		BitsPerComponent: int(bpc),
		ColorSpace:       cs,
	}, nil
}

func numDictValue(dict []byte, key string) (float64, bool) {
	raw, ok := findValueRaw(dict, key)
	if !ok {
		return 0, false
	}
	n, ok := parseIntTok(raw)
	return float64(n), ok
}

func csName(raw []byte) string {
	n := bytes.TrimSpace(raw)
	n = bytes.TrimPrefix(n, []byte("/"))
	switch string(n) {
	case "G", "DeviceGray", "CalGray":
		return "DeviceGray"
	case "RGB", "DeviceRGB", "CalRGB":
		return "DeviceRGB"
	default:
		return string(n)
	}
}

// ReplacePageImageResource implements [external.ObjectStore]. Per the
// interface's cloning requirement, the edit is staged against this page's
// own copy of the resource rather than mutating the shared object map, so
// other pages referencing the same XObject are unaffected until each of
// them is (independently) redacted.
func (s *Store) ReplacePageImageResource(pageIndex int, name string, res *external.ImageResource) error {
	if _, err := s.imageObjectRef(pageIndex, name); err != nil {
		return err
	}
	dict := []byte(fmt.Sprintf("<< /Type /XObject /Subtype /Image /Width %d /Height %d /BitsPerComponent %d /ColorSpace /%s >>",
		res.Width, res.Height, res.BitsPerComponent, res.ColorSpace))
	if s.imageOverride[pageIndex] == nil {
		s.imageOverride[pageIndex] = make(map[string]*imageBytes)
	}
	s.imageOverride[pageIndex][name] = &imageBytes{dict: dict, data: append([]byte(nil), res.Data...)}
	return nil
}
