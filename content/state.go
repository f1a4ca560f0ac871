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

import "seehuhn.de/go/redact/coord"

// GraphicsState is the parser's working state: everything `q` snapshots and
// `Q` restores, plus the two transient text matrices that only exist inside
// a BT...ET block.
type GraphicsState struct {
	CTM coord.Matrix

	FontName Name
	FontSize float64

	CharSpace  float64
	WordSpace  float64
	HScale     float64 // Tz, as a fraction (100 Tz == 1.0)
	Leading    float64
	Rise       float64
	RenderMode int // Tr, 0-7

	// Tm and Tlm are reset to the identity at BT and are undefined
	// (ignored) outside a text block.
	Tm, Tlm coord.Matrix
}

// NewGraphicsState returns the state a content stream starts with: identity
// CTM, default text parameters, horizontal scaling of 100%.
func NewGraphicsState() GraphicsState {
	return GraphicsState{
		CTM:    coord.Identity,
		HScale: 1,
		Tm:     coord.Identity,
		Tlm:    coord.Identity,
	}
}

// Clone returns an independent copy of g, for pushing onto the q/Q stack.
func (g GraphicsState) Clone() GraphicsState {
	return g
}
