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
	"regexp"
	"strconv"
)

// findValueRaw returns the raw token span of the value following "/key" in
// dict, handling nested dictionaries, arrays and strings well enough for
// the keys this package reads (MediaBox, Rotate, Contents, Kids, Annots,
// Resources, XObject, Filter, Type, Root, Info, Metadata).
func findValueRaw(dict []byte, key string) ([]byte, bool) {
	idx := findKeyIndex(dict, key)
	if idx < 0 {
		return nil, false
	}
	val, _ := scanValue(dict[idx:])
	return val, val != nil
}

var keyBoundary = regexp.MustCompile(`[\s/\[\]()<>{}]`)

// findKeyIndex locates the byte offset right after the first "/key" in dict
// that is followed by a token boundary. Occurrences inside nested
// "<<...>>"/"[...]" values are not skipped.
func findKeyIndex(dict []byte, key string) int {
	pat := []byte("/" + key)
	pos := 0
	for {
		i := bytes.Index(dict[pos:], pat)
		if i < 0 {
			return -1
		}
		abs := pos + i
		end := abs + len(pat)
		if end >= len(dict) || keyBoundary.Match(dict[end:end+1]) {
			return end
		}
		pos = end
	}
}

// scanValue reads one PDF object token starting at b (which begins right
// after a key name and optional whitespace), returning the token's bytes
// and how many bytes of b it consumed.
func scanValue(b []byte) ([]byte, int) {
	i := 0
	for i < len(b) && isPDFSpace(b[i]) {
		i++
	}
	if i >= len(b) {
		return nil, i
	}
	start := i
	switch b[i] {
	case '<':
		if i+1 < len(b) && b[i+1] == '<' {
			depth := 0
			for i < len(b) {
				if i+1 < len(b) && b[i] == '<' && b[i+1] == '<' {
					depth++
					i += 2
					continue
				}
				if i+1 < len(b) && b[i] == '>' && b[i+1] == '>' {
					depth--
					i += 2
					if depth == 0 {
						return b[start:i], i
					}
					continue
				}
				i++
			}
			return b[start:i], i
		}
		for i < len(b) && b[i] != '>' {
			i++
		}
		if i < len(b) {
			i++
		}
		return b[start:i], i
	case '[':
		depth := 0
		for i < len(b) {
			switch b[i] {
			case '[':
				depth++
			case ']':
				depth--
				i++
				if depth == 0 {
					return b[start:i], i
				}
				continue
			case '(':
				i = skipLiteralString(b, i)
				continue
			}
			i++
		}
		return b[start:i], i
	case '(':
		i = skipLiteralString(b, i)
		return b[start:i], i
	case '/':
		i++
		for i < len(b) && !isPDFSpace(b[i]) && !isPDFDelim(b[i]) {
			i++
		}
		return b[start:i], i
	default:
		// Number, boolean, or "N G R" indirect reference.
		j := i
		for j < len(b) && !isPDFSpace(b[j]) && !isPDFDelim(b[j]) {
			j++
		}
		first := string(b[i:j])
		if _, err := strconv.Atoi(first); err == nil {
			// Look ahead for "G R".
			k := j
			for k < len(b) && isPDFSpace(b[k]) {
				k++
			}
			genStart := k
			for k < len(b) && b[k] >= '0' && b[k] <= '9' {
				k++
			}
			if k > genStart {
				m := k
				for m < len(b) && isPDFSpace(b[m]) {
					m++
				}
				if m < len(b) && b[m] == 'R' && (m+1 >= len(b) || isPDFSpace(b[m+1]) || isPDFDelim(b[m+1])) {
					return b[start : m+1], m + 1
				}
			}
		}
		return b[start:j], j
	}
}

func skipLiteralString(b []byte, i int) int {
	depth := 0
	for i < len(b) {
		switch b[i] {
		case '\\':
			i += 2
			continue
		case '(':
			depth++
		case ')':
			depth--
			i++
			if depth == 0 {
				return i
			}
			continue
		}
		i++
	}
	return i
}

func isPDFSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '\f', 0:
		return true
	}
	return false
}

func isPDFDelim(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

// findValueRef finds an indirect-reference-valued key and returns its
// "N G" object key.
func findValueRef(dict []byte, key string) (string, bool) {
	raw, ok := findValueRaw(dict, key)
	if !ok {
		return "", false
	}
	return parseSingleRef(raw)
}

var singleRefRe = regexp.MustCompile(`^(\d+)\s+(\d+)\s+R$`)

func parseSingleRef(raw []byte) (string, bool) {
	m := singleRefRe.FindSubmatch(bytes.TrimSpace(raw))
	if m == nil {
		return "", false
	}
	return string(m[1]) + " " + string(m[2]), true
}

// splitArrayTokens splits the contents of a "[...]" token into its
// top-level elements (numbers, names, refs).
func splitArrayTokens(arr []byte) [][]byte {
	inner := bytes.TrimSpace(arr)
	inner = bytes.TrimPrefix(inner, []byte("["))
	inner = bytes.TrimSuffix(inner, []byte("]"))
	var out [][]byte
	for len(bytes.TrimSpace(inner)) > 0 {
		inner = bytes.TrimLeft(inner, " \t\r\n\f")
		if len(inner) == 0 {
			break
		}
		tok, n := scanValue(inner)
		if n == 0 {
			break
		}
		out = append(out, tok)
		inner = inner[n:]
	}
	return out
}

// parseRefArray splits a "[ a b R c d R ... ]" array into its "N G" ref
// strings.
func parseRefArray(arr []byte) []string {
	var out []string
	for _, tok := range splitArrayTokens(arr) {
		if ref, ok := parseSingleRef(tok); ok {
			out = append(out, ref)
		}
	}
	return out
}

func parseNumArray4(arr []byte) ([4]float64, bool) {
	var out [4]float64
	toks := splitArrayTokens(arr)
	if len(toks) != 4 {
		return out, false
	}
	for i, t := range toks {
		f, err := strconv.ParseFloat(string(bytes.TrimSpace(t)), 64)
		if err != nil {
			return out, false
		}
		out[i] = f
	}
	return out, true
}

func parseIntTok(tok []byte) (int, bool) {
	n, err := strconv.Atoi(string(bytes.TrimSpace(tok)))
	if err != nil {
		return 0, false
	}
	return n, true
}

// setValueRaw replaces (or, if absent, inserts before the closing ">>") the
// value of "/key" inside a "<<...>>" dictionary, returning the rewritten
// dictionary bytes.
func setValueRaw(dict []byte, key string, newVal []byte) []byte {
	idx := findKeyIndex(dict, key)
	if idx >= 0 {
		val, n := scanValue(dict[idx:])
		_ = val
		var out []byte
		out = append(out, dict[:idx]...)
		out = append(out, ' ')
		out = append(out, newVal...)
		out = append(out, dict[idx+n:]...)
		return out
	}
	end := bytes.LastIndex(dict, []byte(">>"))
	if end < 0 {
		return dict
	}
	var out []byte
	out = append(out, dict[:end]...)
	out = append(out, []byte(" /"+key+" ")...)
	out = append(out, newVal...)
	out = append(out, ' ')
	out = append(out, dict[end:]...)
	return out
}
