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

package letters

import "seehuhn.de/go/redact/coord"

// Letter pairs a Unicode codepoint with its visual glyph rectangle, as
// reported by an external text extractor.
type Letter struct {
	Rune rune
	Rect coord.Rectangle
}

// Match is one Letter from the page-wide stream, in the order it
// corresponds to a character of the matched operation text.
type Match struct {
	Letter Letter
}

// Find locates the contiguous run of letters in pageLetters whose
// concatenated runes, normalized, equal the normalized form of text, and
// returns one Match per rune of text in that run. It returns nil if no
// contiguous run matches, which tells the caller to treat the whole
// operation as a single atom.
//
// This is content matching, not spatial matching: it never looks at page
// rotation (the rotation bridge only matters once a kept letter's
// rectangle needs to become a Tm translation) and it tolerates the small
// positional discrepancies between an external extractor's glyph geometry
// and the content stream's own.
func Find(text string, pageLetters []Letter, caseInsensitive bool) []Match {
	runes := []rune(text)
	if len(runes) == 0 || len(pageLetters) < len(runes) {
		return nil
	}
	target := Normalize(text, caseInsensitive)

	for start := 0; start+len(runes) <= len(pageLetters); start++ {
		window := pageLetters[start : start+len(runes)]
		candidate := make([]rune, len(window))
		for i, l := range window {
			candidate[i] = l.Rune
		}
		if Normalize(string(candidate), caseInsensitive) != target {
			continue
		}
		matches := make([]Match, len(window))
		for i, l := range window {
			matches[i] = Match{Letter: l}
		}
		return matches
	}
	return nil
}
