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
	"errors"
	"fmt"
	"io"

	"seehuhn.de/go/redact/coord"
)

// ErrNoDecoder is returned by Parse when a text-showing operator is
// encountered but the caller supplied a nil Decoder.
var ErrNoDecoder = errors.New("content: text-showing operator with no decoder configured")

// parseState is the mutable state threaded through one Parse call: the
// current graphics/text parameters, the q/Q stack, and the BT/ET nesting
// counter used to stamp InsideTextBlock.
type parseState struct {
	g     GraphicsState
	stack []GraphicsState

	textDepth int
	depth     int
	sawTf     bool

	decoder Decoder
}

// Parse reads a complete content stream from r and returns its operations in
// stream order, annotated with the graphics/text state each one executed
// under. decoder is used to turn text-showing operands into Unicode runes
// and advances; it is invoked for every Tj/TJ/'/" operator, so callers that
// have no use for decoded text may still pass a decoder that returns a
// single replacement-rune run per call, but passing nil errors as soon as a
// text-showing operator is seen.
func Parse(r io.Reader, decoder Decoder) ([]*Operation, error) {
	scanner := NewScanner(r)
	registry := DefaultRegistry()
	ps := &parseState{g: NewGraphicsState(), decoder: decoder}

	var ops []*Operation
	var args []Object

	for {
		startOffset := scanner.Offset()
		obj, err := scanner.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		opName, isOperator := obj.(Operator)
		if !isOperator {
			args = append(args, obj)
			continue
		}

		name := string(opName)

		if name == "BI" {
			op, err := ps.parseInlineImage(scanner, startOffset)
			if err != nil {
				return nil, err
			}
			op.Offset = startOffset
			op.Depth = ps.depth
			op.InsideTextBlock = ps.textDepth > 0
			op.CTM = ps.g.CTM
			ops = append(ops, op)
			args = nil
			continue
		}

		op, err := registry.Dispatch(ps, name, args)
		if err != nil {
			return nil, fmt.Errorf("content: operator %q at byte %d: %w", name, startOffset, err)
		}
		args = nil
		if op == nil {
			continue
		}
		op.Name = name
		op.Offset = startOffset
		op.Depth = ps.depth
		op.InsideTextBlock = ps.textDepth > 0 || name == "BT" || name == "ET"
		op.CTM = ps.g.CTM
		ops = append(ops, op)
	}

	return ops, nil
}

// parseInlineImage consumes a BI <dict> ID <data> EI sequence. The BI
// operator has already been read; the scanner cursor sits just past it.
func (ps *parseState) parseInlineImage(scanner *Scanner, offset int64) (*Operation, error) {
	dict := Dict{}
	for {
		obj, err := scanner.Next()
		if err != nil {
			return nil, err
		}
		if op, ok := obj.(Operator); ok && op == "ID" {
			break
		}
		key, ok := obj.(Name)
		if !ok {
			return nil, &ScanError{offset, "inline image dict key is not a name"}
		}
		val, err := scanner.Next()
		if err != nil {
			return nil, err
		}
		dict[key] = val
	}

	data, err := scanner.ReadInlineImageData()
	if err != nil {
		return nil, err
	}

	x0, y0 := coord.Apply(ps.g.CTM, 0, 0)
	x1, y1 := coord.Apply(ps.g.CTM, 1, 1)
	x2, y2 := coord.Apply(ps.g.CTM, 1, 0)
	x3, y3 := coord.Apply(ps.g.CTM, 0, 1)
	bbox := coord.NewRectangle(x0, y0, x1, y1)
	bbox = bbox.Union(coord.NewRectangle(x2, y2, x2, y2))
	bbox = bbox.Union(coord.NewRectangle(x3, y3, x3, y3))

	return &Operation{
		Kind: KindImageInvocation,
		Name: "BI",
		Image: &ImageOp{
			Inline: true,
			Params: dict,
			Data:   data,
			CTM:    ps.g.CTM,
			BBox:   bbox,
		},
	}, nil
}

// showText builds the Operation for a non-kerned text-showing operator
// (Tj, ', ") from its single string operand.
func (ps *parseState) showText(rawArgs []Object, strs []String) (*Operation, error) {
	return ps.showTextKerned(rawArgs, strs, make([]float64, len(strs)+1))
}

// showTextKerned builds the Operation for a text-showing operator, applying
// adj[i] (in unscaled text space, i.e. thousandths of an em) immediately
// before showing strs[i], and adj[len(strs)] after the last string.
func (ps *parseState) showTextKerned(rawArgs []Object, strs []String, adj []float64) (*Operation, error) {
	if ps.decoder == nil {
		return nil, ErrNoDecoder
	}

	preMatrix := coord.Compose(ps.g.Tm, ps.g.CTM)
	effSize := ps.g.FontSize * coord.RowScale(ps.g.Tm)

	var text []rune
	var chars []ShownChar
	minX, minY := 0.0, 0.0
	maxX, maxY := 0.0, 0.0
	first := true

	extend := func(x, y float64) {
		if first {
			minX, maxX, minY, maxY = x, x, y, y
			first = false
			return
		}
		if x < minX {
			minX = x
		}
		if x > maxX {
			maxX = x
		}
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}
	}

	applyKern := func(t float64) {
		tx := -t / 1000 * ps.g.FontSize * ps.g.HScale
		ps.g.Tm = coord.Compose(coord.Translate(tx, 0), ps.g.Tm)
	}

	for i, s := range strs {
		applyKern(adj[i])
		x, y := coord.Apply(coord.Compose(ps.g.Tm, ps.g.CTM), 0, 0)
		extend(x, y)

		decoded, err := ps.decoder(ps.g.FontName, s)
		if err != nil {
			return nil, fmt.Errorf("content: decoding text operand: %w", err)
		}
		for _, dc := range decoded {
			text = append(text, dc.Rune)
			w0 := dc.Advance / 1000
			tw := 0.0
			if dc.Rune == ' ' {
				tw = ps.g.WordSpace
			}
			tx := (w0*ps.g.FontSize + ps.g.CharSpace + tw) * ps.g.HScale
			chars = append(chars, ShownChar{Rune: dc.Rune, Advance: tx})
			ps.g.Tm = coord.Compose(coord.Translate(tx, 0), ps.g.Tm)
			x, y := coord.Apply(coord.Compose(ps.g.Tm, ps.g.CTM), 0, 0)
			extend(x, y)
		}
	}
	if len(adj) > len(strs) {
		applyKern(adj[len(strs)])
	}

	ascent := effSize * 0.8
	descent := effSize * 0.2
	bbox := coord.NewRectangle(minX, minY-descent, maxX, maxY+ascent)

	return &Operation{
		Kind: KindText,
		Args: rawArgs,
		Text: &TextShow{
			Text:          string(text),
			Chars:         chars,
			FontName:      ps.g.FontName,
			FontSize:      ps.g.FontSize,
			EffectiveSize: effSize,
			RenderMode:    ps.g.RenderMode,
			CharSpace:     ps.g.CharSpace,
			WordSpace:     ps.g.WordSpace,
			HScale:        ps.g.HScale,
			Rise:          ps.g.Rise,
			PreMatrix:     preMatrix,
			BBox:          bbox,
		},
	}, nil
}
