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

	"seehuhn.de/go/redact/coord"
)

// handler mutates the parser's graphics/text state in response to one
// operator invocation, and returns the Operation to emit for it. Every
// handler in this package returns a non-nil Operation, so each operator
// of the source appears in the parsed list; the parser skips a nil result.
type handler func(ps *parseState, args []Object) (*Operation, error)

// Registry is the operator dispatch table: a static map from operator name
// to handler.
type Registry struct {
	handlers map[string]handler
	kind     map[string]Kind
}

// DefaultRegistry returns the registry covering every content-stream
// operator this package understands. Callers may derive a custom registry
// by copying the handlers map and overriding entries, but in practice one
// shared instance is reused across all pages of a document.
func DefaultRegistry() *Registry {
	r := &Registry{handlers: map[string]handler{}, kind: map[string]Kind{}}

	reg := func(name string, k Kind, h handler) {
		r.handlers[name] = h
		r.kind[name] = k
	}

	// -- General graphics state -------------------------------------
	reg("q", KindGraphicsState, opQ_push)
	reg("Q", KindGraphicsState, opQ_pop)
	reg("cm", KindGraphicsState, opCM)
	for _, name := range []string{"w", "J", "j", "M", "d", "ri", "i", "gs"} {
		reg(name, KindGraphicsState, opPassThroughGraphics)
	}

	// -- Color --------------------------------------------------------
	for _, name := range []string{"cs", "CS", "sc", "SC", "scn", "SCN", "g", "G", "rg", "RG", "k", "K"} {
		reg(name, KindGraphicsState, opPassThroughGraphics)
	}

	// -- Path construction ---------------------------------------------
	for _, name := range []string{"m", "l", "c", "v", "y", "re", "h"} {
		reg(name, KindPathConstruction, opPassThroughPath)
	}

	// -- Path painting ---------------------------------------------------
	for _, name := range []string{"S", "s", "f", "F", "f*", "B", "B*", "b", "b*", "n"} {
		reg(name, KindPathPainting, opPassThroughPath)
	}

	// -- Clipping (the path editor only tracks construction/painting and
	// folds a clip into whichever painting op follows it; W/W* are kept
	// as opaque path-construction-adjacent operators for round-trip
	// fidelity)
	reg("W", KindPathConstruction, opPassThroughPath)
	reg("W*", KindPathConstruction, opPassThroughPath)

	// -- Text objects -----------------------------------------------------
	reg("BT", KindTextState, opBT)
	reg("ET", KindTextState, opET)

	// -- Text state ------------------------------------------------------
	reg("Tc", KindTextState, opTc)
	reg("Tw", KindTextState, opTw)
	reg("Tz", KindTextState, opTz)
	reg("TL", KindTextState, opTL)
	reg("Ts", KindTextState, opTs)
	reg("Tr", KindTextState, opTr)
	reg("Tf", KindTextState, opTf)

	// -- Text positioning --------------------------------------------------
	reg("Td", KindTextState, opTd)
	reg("TD", KindTextState, opTD)
	reg("Tm", KindTextState, opTm)
	reg("T*", KindTextState, opTstar)

	// -- Text showing ------------------------------------------------------
	reg("Tj", KindText, opTj)
	reg("'", KindText, opQuote)
	reg("\"", KindText, opDoubleQuote)
	reg("TJ", KindText, opTJ)

	// -- XObjects -----------------------------------------------------------
	reg("Do", KindImageInvocation, opDo)

	// -- Marked content -------------------------------------------------------
	for _, name := range []string{"BMC", "BDC", "EMC", "MP", "DP"} {
		reg(name, KindMarkedContent, opPassThroughMarked)
	}

	return r
}

// Dispatch looks up name and runs its handler. Unregistered operators are
// forwarded as an opaque KindUnknown operation with their operands
// retained verbatim, so round-trip fidelity never depends on the
// registry's coverage being exhaustive.
func (r *Registry) Dispatch(ps *parseState, name string, args []Object) (*Operation, error) {
	h, ok := r.handlers[name]
	if !ok {
		return &Operation{Kind: KindUnknown, Name: name, Args: args}, nil
	}
	op, err := h(ps, args)
	if op != nil {
		op.Kind = r.kind[name]
	}
	return op, err
}

func opPassThroughGraphics(ps *parseState, args []Object) (*Operation, error) {
	return &Operation{Kind: KindGraphicsState, Args: args}, nil
}

func opPassThroughPath(ps *parseState, args []Object) (*Operation, error) {
	k := KindPathConstruction
	return &Operation{Kind: k, Args: args}, nil
}

func opPassThroughMarked(ps *parseState, args []Object) (*Operation, error) {
	return &Operation{Kind: KindMarkedContent, Args: args}, nil
}

func opQ_push(ps *parseState, args []Object) (*Operation, error) {
	ps.stack = append(ps.stack, ps.g.Clone())
	ps.depth++
	return &Operation{Kind: KindGraphicsState, Args: args}, nil
}

func opQ_pop(ps *parseState, args []Object) (*Operation, error) {
	if len(ps.stack) == 0 {
		// Many real-world files have unbalanced q/Q; this is not a parse
		// error, only the validator rejects it in output.
		return &Operation{Kind: KindGraphicsState, Args: args}, nil
	}
	ps.g = ps.stack[len(ps.stack)-1]
	ps.stack = ps.stack[:len(ps.stack)-1]
	if ps.depth > 0 {
		ps.depth--
	}
	return &Operation{Kind: KindGraphicsState, Args: args}, nil
}

func opCM(ps *parseState, args []Object) (*Operation, error) {
	m, err := matrixArgs(args)
	if err != nil {
		return nil, err
	}
	ps.g.CTM = coord.Compose(m, ps.g.CTM)
	return &Operation{Kind: KindGraphicsState, Args: args}, nil
}

func opBT(ps *parseState, args []Object) (*Operation, error) {
	ps.g.Tm = coord.Identity
	ps.g.Tlm = coord.Identity
	ps.textDepth++
	return &Operation{Kind: KindTextState, Args: args}, nil
}

func opET(ps *parseState, args []Object) (*Operation, error) {
	if ps.textDepth > 0 {
		ps.textDepth--
	}
	return &Operation{Kind: KindTextState, Args: args}, nil
}

func opTc(ps *parseState, args []Object) (*Operation, error) {
	v, err := number1(args)
	if err != nil {
		return nil, err
	}
	ps.g.CharSpace = v
	return &Operation{Kind: KindTextState, Args: args}, nil
}

func opTw(ps *parseState, args []Object) (*Operation, error) {
	v, err := number1(args)
	if err != nil {
		return nil, err
	}
	ps.g.WordSpace = v
	return &Operation{Kind: KindTextState, Args: args}, nil
}

func opTz(ps *parseState, args []Object) (*Operation, error) {
	v, err := number1(args)
	if err != nil {
		return nil, err
	}
	ps.g.HScale = v / 100
	return &Operation{Kind: KindTextState, Args: args}, nil
}

func opTL(ps *parseState, args []Object) (*Operation, error) {
	v, err := number1(args)
	if err != nil {
		return nil, err
	}
	ps.g.Leading = v
	return &Operation{Kind: KindTextState, Args: args}, nil
}

func opTs(ps *parseState, args []Object) (*Operation, error) {
	v, err := number1(args)
	if err != nil {
		return nil, err
	}
	ps.g.Rise = v
	return &Operation{Kind: KindTextState, Args: args}, nil
}

func opTr(ps *parseState, args []Object) (*Operation, error) {
	if len(args) < 1 {
		return nil, errTooFewArgs("Tr")
	}
	i, ok := args[0].(Integer)
	if !ok {
		return nil, fmt.Errorf("content: Tr operand is not an integer")
	}
	ps.g.RenderMode = int(i)
	return &Operation{Kind: KindTextState, Args: args}, nil
}

func opTf(ps *parseState, args []Object) (*Operation, error) {
	if len(args) < 2 {
		return nil, errTooFewArgs("Tf")
	}
	name, ok := args[0].(Name)
	if !ok {
		return nil, fmt.Errorf("content: Tf font operand is not a name")
	}
	size, ok := Number(args[1])
	if !ok {
		return nil, fmt.Errorf("content: Tf size operand is not a number")
	}
	ps.g.FontName = name
	ps.g.FontSize = size
	ps.sawTf = true
	return &Operation{Kind: KindTextState, Args: args}, nil
}

func opTd(ps *parseState, args []Object) (*Operation, error) {
	tx, ty, err := number2(args)
	if err != nil {
		return nil, err
	}
	ps.g.Tlm = coord.Compose(coord.Translate(tx, ty), ps.g.Tlm)
	ps.g.Tm = ps.g.Tlm
	return &Operation{Kind: KindTextState, Args: args}, nil
}

func opTD(ps *parseState, args []Object) (*Operation, error) {
	tx, ty, err := number2(args)
	if err != nil {
		return nil, err
	}
	ps.g.Leading = -ty
	ps.g.Tlm = coord.Compose(coord.Translate(tx, ty), ps.g.Tlm)
	ps.g.Tm = ps.g.Tlm
	return &Operation{Kind: KindTextState, Args: args}, nil
}

func opTm(ps *parseState, args []Object) (*Operation, error) {
	m, err := matrixArgs(args)
	if err != nil {
		return nil, err
	}
	ps.g.Tm = m
	ps.g.Tlm = m
	return &Operation{Kind: KindTextState, Args: args}, nil
}

func opTstar(ps *parseState, args []Object) (*Operation, error) {
	ps.g.Tlm = coord.Compose(coord.Translate(0, -ps.g.Leading), ps.g.Tlm)
	ps.g.Tm = ps.g.Tlm
	return &Operation{Kind: KindTextState, Args: args}, nil
}

func opTj(ps *parseState, args []Object) (*Operation, error) {
	if len(args) < 1 {
		return nil, errTooFewArgs("Tj")
	}
	s, ok := args[0].(String)
	if !ok {
		return nil, fmt.Errorf("content: Tj operand is not a string")
	}
	return ps.showText(args, []String{s})
}

func opQuote(ps *parseState, args []Object) (*Operation, error) {
	if len(args) < 1 {
		return nil, errTooFewArgs("'")
	}
	s, ok := args[0].(String)
	if !ok {
		return nil, fmt.Errorf("content: ' operand is not a string")
	}
	ps.g.Tlm = coord.Compose(coord.Translate(0, -ps.g.Leading), ps.g.Tlm)
	ps.g.Tm = ps.g.Tlm
	return ps.showText(args, []String{s})
}

func opDoubleQuote(ps *parseState, args []Object) (*Operation, error) {
	if len(args) < 3 {
		return nil, errTooFewArgs("\"")
	}
	aw, ok1 := Number(args[0])
	ac, ok2 := Number(args[1])
	s, ok3 := args[2].(String)
	if !ok1 || !ok2 || !ok3 {
		return nil, fmt.Errorf("content: \" operands malformed")
	}
	ps.g.WordSpace = aw
	ps.g.CharSpace = ac
	ps.g.Tlm = coord.Compose(coord.Translate(0, -ps.g.Leading), ps.g.Tlm)
	ps.g.Tm = ps.g.Tlm
	return ps.showText(args, []String{s})
}

func opTJ(ps *parseState, args []Object) (*Operation, error) {
	if len(args) < 1 {
		return nil, errTooFewArgs("TJ")
	}
	arr, ok := args[0].(Array)
	if !ok {
		return nil, fmt.Errorf("content: TJ operand is not an array")
	}
	var strs []String
	var adj []float64
	idx := 0
	adjAt := map[int]float64{}
	for _, frag := range arr {
		switch v := frag.(type) {
		case String:
			strs = append(strs, v)
			idx++
		case Integer:
			adjAt[idx] = float64(v)
		case Real:
			adjAt[idx] = float64(v)
		default:
			return nil, fmt.Errorf("content: TJ array fragment has unexpected type %T", frag)
		}
	}
	adj = make([]float64, len(strs)+1)
	for i := range adj {
		adj[i] = adjAt[i]
	}
	return ps.showTextKerned(args, strs, adj)
}

func opDo(ps *parseState, args []Object) (*Operation, error) {
	if len(args) < 1 {
		return nil, errTooFewArgs("Do")
	}
	name, ok := args[0].(Name)
	if !ok {
		return nil, fmt.Errorf("content: Do operand is not a name")
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
		Args: args,
		Image: &ImageOp{
			ResourceName: name,
			CTM:          ps.g.CTM,
			BBox:         bbox,
		},
	}, nil
}

func matrixArgs(args []Object) (coord.Matrix, error) {
	if len(args) < 6 {
		return coord.Identity, errTooFewArgs("matrix")
	}
	var m coord.Matrix
	for i := 0; i < 6; i++ {
		v, ok := Number(args[i])
		if !ok {
			return coord.Identity, fmt.Errorf("content: matrix operand %d is not a number", i)
		}
		m[i] = v
	}
	return m, nil
}

func number1(args []Object) (float64, error) {
	if len(args) < 1 {
		return 0, errTooFewArgs("operator")
	}
	v, ok := Number(args[0])
	if !ok {
		return 0, fmt.Errorf("content: operand is not a number")
	}
	return v, nil
}

func number2(args []Object) (float64, float64, error) {
	if len(args) < 2 {
		return 0, 0, errTooFewArgs("operator")
	}
	a, ok1 := Number(args[0])
	b, ok2 := Number(args[1])
	if !ok1 || !ok2 {
		return 0, 0, fmt.Errorf("content: operand is not a number")
	}
	return a, b, nil
}

func errTooFewArgs(op string) error {
	return fmt.Errorf("content: too few arguments for %s", op)
}
