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

// Package letters matches a text-showing operation's decoded string
// against an external extractor's page-wide letter stream, segments the
// match into kept/removed runs against a set of redaction rectangles, and
// reconstructs the replacement BT...ET block for the runs that survive.
package letters

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

var caseFold = cases.Fold()

// Normalize puts s through compatibility decomposition, folds fullwidth and
// halfwidth variants to their standard-width form, collapses whitespace
// runs to a single space, folds curly apostrophes to the ASCII apostrophe
// and en/em dashes to hyphen-minus, and trims leading/trailing whitespace.
// When caseInsensitive is set the result is additionally case-folded using
// Unicode's default folding rules, not a naive ToLower.
//
// The compatibility/width folding matters because a PDF's content stream
// and an extractor's reported text can each independently choose a
// fullwidth or halfwidth form for the same character (common in CJK
// layouts); without folding them to the same representation first, a
// search string typed in one width would never match glyphs shown in the
// other.
func Normalize(s string, caseInsensitive bool) string {
	s = norm.NFKC.String(s)
	s = width.Fold.String(s)
	s = collapseWhitespace(s)
	s = foldPunctuation(s)
	s = strings.TrimSpace(s)
	if caseInsensitive {
		s = caseFold.String(s)
	}
	return s
}

func collapseWhitespace(s string) string {
	var b strings.Builder
	prevSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !prevSpace {
				b.WriteByte(' ')
			}
			prevSpace = true
			continue
		}
		prevSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

func foldPunctuation(s string) string {
	return punctuationFolder.Replace(s)
}

var punctuationFolder = strings.NewReplacer(
	"‘", "'", "’", "'",
	"–", "-", "—", "-",
)
