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

import (
	"bytes"
	"fmt"
	"sort"
)

// Build serializes ops back into content-stream bytes, in order. Deleted
// operations (callers simply omit them from ops) leave no trace; surviving
// operations are written byte-for-byte equivalent to how the scanner would
// have read them, except that numeric literals are normalized through
// FormatNumber.
func Build(ops []*Operation) []byte {
	var buf bytes.Buffer
	for i, op := range ops {
		if i > 0 {
			buf.WriteByte('\n')
		}
		writeOperation(&buf, op)
	}
	return buf.Bytes()
}

func writeOperation(buf *bytes.Buffer, op *Operation) {
	if op.Name == "BI" && op.Image != nil && op.Image.Inline {
		writeInlineImage(buf, op.Image)
		return
	}
	for _, a := range op.Args {
		WriteObject(buf, a)
		buf.WriteByte(' ')
	}
	buf.WriteString(op.Name)
}

func writeInlineImage(buf *bytes.Buffer, img *ImageOp) {
	buf.WriteString("BI")
	keys := make([]Name, 0, len(img.Params))
	for k := range img.Params {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	for _, k := range keys {
		buf.WriteByte(' ')
		buf.WriteByte('/')
		buf.WriteString(string(k))
		buf.WriteByte(' ')
		WriteObject(buf, img.Params[k])
	}
	buf.WriteString(" ID ")
	buf.Write(img.Data)
	buf.WriteString(" EI")
}

// WriteObject appends the content-stream syntax for o to buf.
func WriteObject(buf *bytes.Buffer, o Object) {
	switch v := o.(type) {
	case nil:
		buf.WriteString("null")
	case Name:
		buf.WriteByte('/')
		buf.WriteString(escapeName(string(v)))
	case String:
		buf.WriteByte('(')
		buf.Write(escapeLiteralString(v))
		buf.WriteByte(')')
	case Integer:
		buf.WriteString(FormatNumber(float64(v)))
	case Real:
		buf.WriteString(FormatNumber(float64(v)))
	case Boolean:
		if v {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case Array:
		buf.WriteByte('[')
		for i, e := range v {
			if i > 0 {
				buf.WriteByte(' ')
			}
			WriteObject(buf, e)
		}
		buf.WriteByte(']')
	case Dict:
		buf.WriteString("<<")
		keys := make([]Name, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
		for _, k := range keys {
			buf.WriteByte('/')
			buf.WriteString(escapeName(string(k)))
			buf.WriteByte(' ')
			WriteObject(buf, v[k])
			buf.WriteByte(' ')
		}
		buf.WriteString(">>")
	default:
		panic(fmt.Sprintf("content: unexpected object type %T", o))
	}
}

func escapeName(s string) string {
	var out bytes.Buffer
	for _, b := range []byte(s) {
		if b <= ' ' || b > '~' || bytes.IndexByte([]byte("()<>[]{}/%#"), b) >= 0 {
			fmt.Fprintf(&out, "#%02X", b)
		} else {
			out.WriteByte(b)
		}
	}
	return out.String()
}

func escapeLiteralString(s []byte) []byte {
	var out bytes.Buffer
	for _, b := range s {
		switch b {
		case '(', ')', '\\':
			out.WriteByte('\\')
			out.WriteByte(b)
		case '\n':
			out.WriteString(`\n`)
		case '\r':
			out.WriteString(`\r`)
		case '\t':
			out.WriteString(`\t`)
		default:
			out.WriteByte(b)
		}
	}
	return out.Bytes()
}
