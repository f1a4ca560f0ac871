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

// Package metadata is the default [external.MetadataPreserver]: it keeps a
// document's XMP packet in step with a redaction edit by bumping
// xmp:ModifyDate, and leaves everything else in the packet untouched so
// that Dublin Core titles, authors and PDF/A identification survive.
package metadata

import (
	"bytes"
	"time"

	"seehuhn.de/go/xmp"

	"seehuhn.de/go/redact/external"
)

// Now is called to obtain the timestamp stamped into xmp:ModifyDate. Tests
// substitute it with a fixed clock.
var Now = time.Now

// XMPPreserver implements [external.MetadataPreserver] by reading the
// document's existing XMP packet, updating its Basic.ModifyDate property,
// and writing it back. If the document carries no XMP packet, or the
// requested conformance level is [external.ConformanceNone], Preserve is a
// no-op: introducing an XMP packet into a document that never had one is
// outside this preserver's job, since the ID and part/conformance
// properties a PDF/A validator checks are not something a redaction edit
// can supply on its own.
type XMPPreserver struct{}

func (XMPPreserver) Preserve(store external.ObjectStore, level external.Conformance) error {
	if level == external.ConformanceNone {
		return nil
	}

	raw, err := store.Metadata()
	if err != nil {
		return err
	}
	if raw == nil {
		return nil
	}

	packet, err := xmp.Read(bytes.NewReader(raw))
	if err != nil {
		return err
	}

	var basic xmp.Basic
	packet.Get(&basic)
	basic.ModifyDate = xmp.NewDate(Now())
	if err := packet.Set(&basic); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := packet.Write(&buf, &xmp.PacketOptions{Pretty: true}); err != nil {
		return err
	}
	return store.SetMetadata(buf.Bytes())
}
