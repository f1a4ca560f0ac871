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
	"fmt"
	"io"
	"strconv"
)

// ScanError reports a tokenizing failure together with the byte offset it
// occurred at, so the page orchestrator can fall back to leaving the page's
// content stream unmodified rather than emit a malformed rewrite.
type ScanError struct {
	Offset int64
	Msg    string
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("content: %s (at byte %d)", e.Msg, e.Offset)
}

// Scanner breaks a content-stream byte sequence into Objects, assembling
// bracketed arrays and dictionaries (needed for inline-image parameter
// dicts) along the way. Bare operator tokens are returned as Operator
// values; callers that want the raw operand/operator stream (the parser in
// parser.go) look for Operator values themselves.
type Scanner struct {
	src       io.Reader
	buf       []byte
	pos, used int
	ahead     []byte
	crSeen    bool
	offset    int64
	err       error
}

// NewScanner returns a Scanner reading from r.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{src: r, buf: make([]byte, 4096)}
}

// Offset returns the number of bytes consumed from the input so far.
func (s *Scanner) Offset() int64 { return s.offset }

// Next returns the next Object from the input, assembling arrays ("[...]")
// and dictionaries ("<<...>>") as single values. Unmatched brackets
// propagate as a *ScanError.
func (s *Scanner) Next() (Object, error) {
	type frame struct {
		isDict bool
		data   []Object
	}
	var stack []*frame
	for {
		obj, err := s.next()
		if err != nil {
			if err == io.EOF && len(stack) > 0 {
				return nil, &ScanError{s.offset, "unterminated array or dictionary"}
			}
			return nil, err
		}

	retry:
		switch v := obj.(type) {
		case Operator:
			switch v {
			case "<<":
				stack = append(stack, &frame{isDict: true})
				continue
			case ">>":
				if len(stack) == 0 || !stack[len(stack)-1].isDict {
					return nil, &ScanError{s.offset, "unexpected '>>'"}
				}
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				if len(top.data)%2 != 0 {
					return nil, &ScanError{s.offset, "dict with odd number of entries"}
				}
				dict := Dict{}
				for i := 0; i < len(top.data); i += 2 {
					key, ok := top.data[i].(Name)
					if !ok {
						return nil, &ScanError{s.offset, "non-name dict key"}
					}
					dict[key] = top.data[i+1]
				}
				obj = dict
				goto retry
			case "[":
				stack = append(stack, &frame{})
				continue
			case "]":
				if len(stack) == 0 || stack[len(stack)-1].isDict {
					return nil, &ScanError{s.offset, "unexpected ']'"}
				}
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				obj = Array(top.data)
				goto retry
			}
		}

		if len(stack) == 0 {
			return obj, nil
		}
		stack[len(stack)-1].data = append(stack[len(stack)-1].data, obj)
	}
}

func (s *Scanner) next() (Object, error) {
	if err := s.skipWhiteSpace(); err != nil {
		return nil, err
	}
	b, err := s.peek()
	if err != nil {
		return nil, err
	}
	switch b {
	case '(':
		return s.readString()
	case '<':
		if string(s.peekN(2)) == "<<" {
			s.nextByte()
			s.nextByte()
			return Operator("<<"), nil
		}
		return s.readHexString()
	case '>':
		if string(s.peekN(2)) == ">>" {
			s.nextByte()
			s.nextByte()
			return Operator(">>"), nil
		}
		return nil, &ScanError{s.offset, "unexpected '>'"}
	case '/':
		s.nextByte()
		return s.readName()
	case '[':
		s.nextByte()
		return Operator("["), nil
	case ']':
		s.nextByte()
		return Operator("]"), nil
	default:
		return s.readRegular()
	}
}

func (s *Scanner) readRegular() (Object, error) {
	b, _ := s.nextByte()
	tok := []byte{b}
	if charClass[b] == classRegular {
		for {
			c, err := s.peek()
			if err == io.EOF || charClass[c] != classRegular {
				break
			} else if err != nil {
				return nil, err
			}
			s.nextByte()
			tok = append(tok, c)
		}
	}

	if n, ok := parseNumber(tok); ok {
		return n, nil
	}
	switch string(tok) {
	case "true":
		return Boolean(true), nil
	case "false":
		return Boolean(false), nil
	case "null":
		return nil, nil
	}
	return Operator(tok), nil
}

func parseNumber(tok []byte) (Object, bool) {
	if i, err := strconv.ParseInt(string(tok), 10, 64); err == nil {
		return Integer(i), true
	}
	simple := true
	for i, c := range tok {
		if i == 0 && (c == '+' || c == '-') {
			continue
		}
		if c == '.' || (c >= '0' && c <= '9') {
			continue
		}
		simple = false
		break
	}
	if !simple {
		return nil, false
	}
	if f, err := strconv.ParseFloat(string(tok), 64); err == nil {
		return Real(f), true
	}
	return nil, false
}

func (s *Scanner) readString() (Object, error) {
	if _, err := s.expect('('); err != nil {
		return nil, err
	}
	var out []byte
	depth := 1
	skipLF := false
	for {
		b, err := s.nextByte()
		if err != nil {
			return nil, err
		}
		if skipLF && b == '\n' {
			skipLF = false
			continue
		}
		skipLF = false
		switch b {
		case '(':
			depth++
			out = append(out, b)
		case ')':
			depth--
			if depth == 0 {
				return String(out), nil
			}
			out = append(out, b)
		case '\\':
			esc, err := s.nextByte()
			if err != nil {
				return nil, err
			}
			switch esc {
			case 'n':
				out = append(out, '\n')
			case 'r':
				out = append(out, '\r')
			case 't':
				out = append(out, '\t')
			case 'b':
				out = append(out, '\b')
			case 'f':
				out = append(out, '\f')
			case '(', ')', '\\':
				out = append(out, esc)
			case '\n':
				// line continuation, nothing emitted
			case '\r':
				skipLF = true
			case '0', '1', '2', '3', '4', '5', '6', '7':
				oct := esc - '0'
				for i := 0; i < 2; i++ {
					c, err := s.peek()
					if err != nil || c < '0' || c > '7' {
						break
					}
					s.nextByte()
					oct = oct*8 + (c - '0')
				}
				out = append(out, oct)
			default:
				out = append(out, esc)
			}
		default:
			out = append(out, b)
		}
	}
}

func (s *Scanner) readHexString() (Object, error) {
	if _, err := s.expect('<'); err != nil {
		return nil, err
	}
	var out []byte
	first := true
	var hi byte
	for {
		b, err := s.nextByte()
		if err != nil {
			return nil, err
		}
		var lo byte
		switch {
		case b == '>':
			if !first {
				out = append(out, hi)
			}
			return String(out), nil
		case b <= ' ':
			continue
		case b >= '0' && b <= '9':
			lo = b - '0'
		case b >= 'A' && b <= 'F':
			lo = b - 'A' + 10
		case b >= 'a' && b <= 'f':
			lo = b - 'a' + 10
		default:
			return nil, &ScanError{s.offset, fmt.Sprintf("invalid hex digit %q", b)}
		}
		if first {
			hi = lo << 4
		} else {
			out = append(out, hi|lo)
		}
		first = !first
	}
}

func (s *Scanner) readName() (Object, error) {
	var out []byte
	for {
		b, err := s.peek()
		if err == io.EOF || charClass[b] != classRegular {
			break
		} else if err != nil {
			return nil, err
		}
		if b == '#' {
			s.nextByte()
			hi, err := s.hexDigit()
			if err != nil {
				return nil, err
			}
			lo, err := s.hexDigit()
			if err != nil {
				return nil, err
			}
			out = append(out, hi<<4|lo)
			continue
		}
		s.nextByte()
		out = append(out, b)
	}
	return Name(out), nil
}

func (s *Scanner) hexDigit() (byte, error) {
	b, err := s.nextByte()
	if err != nil {
		return 0, err
	}
	switch {
	case b >= '0' && b <= '9':
		return b - '0', nil
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, nil
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, nil
	}
	return 0, &ScanError{s.offset, fmt.Sprintf("invalid hex digit %q", b)}
}

func (s *Scanner) skipWhiteSpace() error {
	for {
		b, err := s.peek()
		if err != nil {
			return err
		}
		if b <= ' ' && charClass[b] == classSpace {
			s.nextByte()
		} else if b == '%' {
			s.skipComment()
		} else {
			return nil
		}
	}
}

func (s *Scanner) skipComment() {
	s.expect('%')
	for {
		b, err := s.peek()
		if err != nil || b == '\n' || b == '\r' {
			return
		}
		s.nextByte()
	}
}

func (s *Scanner) expect(want byte) (byte, error) {
	b, err := s.nextByte()
	if err != nil {
		return 0, err
	}
	if b != want {
		return 0, &ScanError{s.offset, fmt.Sprintf("expected %q, got %q", want, b)}
	}
	return b, nil
}

func (s *Scanner) peek() (byte, error) {
	if len(s.ahead) == 0 {
		b, err := s.readByte()
		if err != nil {
			return 0, err
		}
		s.ahead = append(s.ahead, b)
	}
	return s.ahead[0], nil
}

func (s *Scanner) peekN(n int) []byte {
	for len(s.ahead) < n {
		b, err := s.readByte()
		if err != nil {
			return s.ahead
		}
		s.ahead = append(s.ahead, b)
	}
	return s.ahead[:n]
}

func (s *Scanner) nextByte() (byte, error) {
	var b byte
	if len(s.ahead) > 0 {
		b = s.ahead[0]
		copy(s.ahead, s.ahead[1:])
		s.ahead = s.ahead[:len(s.ahead)-1]
	} else {
		var err error
		b, err = s.readByte()
		if err != nil {
			return 0, err
		}
	}
	s.offset++
	return b, nil
}

func (s *Scanner) readByte() (byte, error) {
	for s.pos >= s.used {
		if err := s.refill(); err != nil {
			return 0, err
		}
	}
	b := s.buf[s.pos]
	s.pos++
	return b, nil
}

func (s *Scanner) refill() error {
	if s.err != nil {
		return s.err
	}
	s.used = copy(s.buf, s.buf[s.pos:s.used])
	s.pos = 0
	n, err := s.src.Read(s.buf[s.used:])
	s.used += n
	if err != nil {
		s.err = err
		if n > 0 {
			return nil
		}
	}
	return err
}

// ReadInlineImageData reads the raw sample bytes of an inline image, from
// immediately after the "ID" operator's single whitespace separator up to
// (but not including) the first occurrence of the "EI" operator bracketed
// by whitespace or end of input. The bytes are copied verbatim: inline
// image sample data is not content-stream syntax and must never be
// re-tokenized.
func (s *Scanner) ReadInlineImageData() ([]byte, error) {
	// A single whitespace byte separates "ID" from the sample data.
	if _, err := s.nextByte(); err != nil {
		return nil, err
	}

	var out []byte
	for {
		b, err := s.nextByte()
		if err != nil {
			return nil, err
		}
		out = append(out, b)
		n := len(out)
		if n >= 3 && isWhiteSpace(out[n-3]) && out[n-2] == 'E' && out[n-1] == 'I' {
			next, err := s.peek()
			if err != nil || isWhiteSpace(next) {
				return out[:n-3], nil
			}
		}
	}
}

func isWhiteSpace(b byte) bool {
	return charClass[b] == classSpace
}

type charClassification byte

const (
	classRegular charClassification = iota
	classSpace
	classDelimiter
)

var charClass = buildCharClass()

func buildCharClass() [256]charClassification {
	var c [256]charClassification
	for i := range c {
		c[i] = classRegular
	}
	for _, b := range []byte{0, 9, 10, 12, 13, 32} {
		c[b] = classSpace
	}
	for _, b := range []byte("()<>[]{}/%") {
		c[b] = classDelimiter
	}
	return c
}
