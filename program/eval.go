//
// eval.go
//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package program

import (
	"fmt"

	"github.com/markkurossi/fhe/types"
)

func (p *Program) typeMismatchf(format string, a ...interface{}) error {
	return &TypeMismatchError{
		Program: p.Name,
		Err:     fmt.Sprintf(format, a...),
	}
}

func (p *Program) unsupportedf(format string, a ...interface{}) error {
	return &UnsupportedError{
		Program: p.Name,
		Err:     fmt.Sprintf(format, a...),
	}
}

// Eval evaluates the program with the concrete input values and
// returns the concrete values of the declared outputs. The input
// values must match the declared parameter types exactly. Evaluation
// is pure: it allocates its own result storage and two evaluations
// with identical inputs yield identical outputs. Concurrent
// evaluations of the same checked program are safe.
func (c *Checked) Eval(inputs map[string]Value) (map[string]Value, error) {
	p := c.prog

	values := make(map[string]Value, len(p.Params)+len(p.Instrs))
	for _, param := range p.Params {
		val, ok := inputs[param.Name]
		if !ok {
			return nil, p.typeMismatchf("no input for parameter %s",
				param.Name)
		}
		if !val.Type().Equal(param.Type) {
			return nil, p.typeMismatchf("parameter %s declared %s, input %s",
				param.Name, param.Type, val.Type())
		}
		values[param.Name] = val
	}
	for name := range inputs {
		if _, ok := values[name]; !ok {
			return nil, p.typeMismatchf("unknown input %s", name)
		}
	}

	for idx, instr := range p.Instrs {
		val, err := p.evalInstr(idx, instr, values)
		if err != nil {
			return nil, err
		}
		values[instr.Out] = val
	}

	results := make(map[string]Value, len(p.Outputs))
	for _, out := range p.Outputs {
		results[out.Name] = values[out.Ref]
	}
	return results, nil
}

func (p *Program) evalInstr(idx int, instr Instr, values map[string]Value) (
	Value, error) {

	in := make([]Value, len(instr.In))
	for i, ref := range instr.In {
		if ref.Const != nil {
			in[i] = *ref.Const
		} else {
			in[i] = values[ref.Name]
		}
	}

	switch instr.Op {
	case Mov:
		return in[0], nil

	case Add, Sub, Mul:
		a, b := in[0], in[1]
		if !a.Type().Equal(b.Type()) {
			return Value{}, p.unsupportedf("instr %d: %s %s %s",
				idx, instr.Op, a.Type(), b.Type())
		}
		if a.Type().Type == types.TArray {
			el := *a.Type().ElementType
			bits := make([]uint64, len(a.bits))
			for i := range a.bits {
				r, ok := binOp(instr.Op, el, a.bits[i], b.bits[i])
				if !ok {
					return Value{}, p.unsupportedf("instr %d: %s %s",
						idx, instr.Op, a.Type())
				}
				bits[i] = r
			}
			return Value{typ: instr.Type, bits: bits}, nil
		}
		r, ok := binOp(instr.Op, a.Type(), a.bits[0], b.bits[0])
		if !ok {
			return Value{}, p.unsupportedf("instr %d: %s %s",
				idx, instr.Op, a.Type())
		}
		return Value{typ: instr.Type, bits: []uint64{r}}, nil

	case Gt:
		a, b := in[0], in[1]
		if !a.Type().Equal(b.Type()) || !a.Type().Scalar() {
			return Value{}, p.unsupportedf("instr %d: %s %s %s",
				idx, instr.Op, a.Type(), b.Type())
		}
		var result bool
		if a.Type().Signed() {
			result = a.Int64() > b.Int64()
		} else {
			result = a.Uint64() > b.Uint64()
		}
		return NewBool(result), nil

	case Ext:
		a := in[0]
		from := a.Type()
		if !from.Scalar() || from.Bits >= instr.Type.Bits {
			return Value{}, p.unsupportedf("instr %d: %s %s to %s",
				idx, instr.Op, from, instr.Type)
		}
		var bits uint64
		if from.Signed() {
			bits = uint64(a.Int64()) & mask(instr.Type.Bits)
		} else {
			bits = a.Uint64()
		}
		return Value{typ: instr.Type, bits: []uint64{bits}}, nil

	case Elem:
		arr, index := in[0], in[1]
		if arr.Type().Type != types.TArray ||
			index.Type().Type != types.TUint {
			return Value{}, p.unsupportedf("instr %d: %s %s %s",
				idx, instr.Op, arr.Type(), index.Type())
		}
		i := index.Uint64()
		if i >= uint64(arr.Type().ArraySize) {
			return Value{}, p.typeMismatchf(
				"instr %d: index %d out of range for %s",
				idx, i, arr.Type())
		}
		return Value{
			typ:  instr.Type,
			bits: []uint64{arr.bits[i]},
		}, nil

	default:
		return Value{}, p.unsupportedf("instr %d: opcode %s", idx, instr.Op)
	}
}

// binOp computes the scalar binary operation with the fixed-width
// wraparound semantics of the type: results are reduced modulo 2^w,
// which is the two's-complement wraparound for signed types.
func binOp(op Operand, t types.Info, a, b uint64) (uint64, bool) {
	m := mask(t.Bits)
	switch op {
	case Add:
		return (a + b) & m, true

	case Sub:
		return (a - b) & m, true

	case Mul:
		return (a * b) & m, true

	default:
		return 0, false
	}
}
