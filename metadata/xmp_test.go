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

package metadata

import (
	"bytes"
	"testing"
	"time"

	"golang.org/x/text/language"
	"seehuhn.de/go/xmp"

	"seehuhn.de/go/redact/external"
)

type fakeStore struct {
	external.ObjectStore
	data []byte
}

func (f *fakeStore) Metadata() ([]byte, error) { return f.data, nil }
func (f *fakeStore) SetMetadata(data []byte) error {
	f.data = data
	return nil
}

func newPacketBytes(t *testing.T, title string) []byte {
	t.Helper()
	packet := xmp.NewPacket()
	dc := &xmp.DublinCore{}
	dc.Title.Set(language.Und, title)
	if err := packet.Set(dc); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := packet.Write(&buf, &xmp.PacketOptions{}); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestPreserveUpdatesModifyDateKeepsDublinCore(t *testing.T) {
	store := &fakeStore{data: newPacketBytes(t, "Redacted Report")}

	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	orig := Now
	Now = func() time.Time { return fixed }
	defer func() { Now = orig }()

	p := XMPPreserver{}
	if err := p.Preserve(store, external.Conformance2B); err != nil {
		t.Fatal(err)
	}

	packet, err := xmp.Read(bytes.NewReader(store.data))
	if err != nil {
		t.Fatal(err)
	}
	var dc xmp.DublinCore
	packet.Get(&dc)
	if got := dc.Title.Get(language.Und); got != "Redacted Report" {
		t.Errorf("Title = %q, want %q", got, "Redacted Report")
	}

	var basic xmp.Basic
	packet.Get(&basic)
	if !basic.ModifyDate.V.Equal(fixed) {
		t.Errorf("ModifyDate = %v, want %v", basic.ModifyDate.V, fixed)
	}
}

func TestPreserveNoopWithoutConformance(t *testing.T) {
	store := &fakeStore{data: newPacketBytes(t, "Untouched")}
	p := XMPPreserver{}
	if err := p.Preserve(store, external.ConformanceNone); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(store.data, newPacketBytes(t, "Untouched")) {
		t.Error("Preserve modified the packet despite ConformanceNone")
	}
}

func TestPreserveNoopWithoutExistingPacket(t *testing.T) {
	store := &fakeStore{data: nil}
	p := XMPPreserver{}
	if err := p.Preserve(store, external.Conformance1B); err != nil {
		t.Fatal(err)
	}
	if store.data != nil {
		t.Error("Preserve introduced a packet where none existed")
	}
}
