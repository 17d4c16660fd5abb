//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package program

import (
	"errors"
	"testing"

	"github.com/markkurossi/fhe/types"
)

func mustScalar(t *testing.T, ti types.Info, x uint64) Value {
	v, err := NewScalar(ti, x)
	if err != nil {
		t.Fatalf("NewScalar: %s", err)
	}
	return v
}

func mustInt(t *testing.T, ti types.Info, x int64) Value {
	v, err := NewInt(ti, x)
	if err != nil {
		t.Fatalf("NewInt: %s", err)
	}
	return v
}

func mustArray(t *testing.T, ti types.Info, elems []uint64) Value {
	v, err := NewArray(ti, elems)
	if err != nil {
		t.Fatalf("NewArray: %s", err)
	}
	return v
}

func mustProgram(t *testing.T, name string, params []Param, instrs []Instr,
	outputs []Output) *Program {

	p, err := NewProgram(name, params, instrs, outputs)
	if err != nil {
		t.Fatalf("NewProgram: %s", err)
	}
	return p
}

func mustChecked(t *testing.T, p *Program) *Checked {
	checked, err := p.Check()
	if err != nil {
		t.Fatalf("Check: %s", err)
	}
	return checked
}

// addProgram returns the program "out = a + b" for the argument
// scalar type.
func addProgram(t *testing.T, ti types.Info) *Program {
	return mustProgram(t, "add",
		[]Param{
			{Name: "a", Type: ti, Tag: Encrypted},
			{Name: "b", Type: ti, Tag: Encrypted},
		},
		[]Instr{
			{Op: Add, In: []Ref{NewRef("a"), NewRef("b")}, Out: "sum",
				Type: ti},
		},
		[]Output{
			{Name: "out", Ref: "sum", Type: ti, Tag: Encrypted},
		})
}

func TestNewProgram(t *testing.T) {
	p := addProgram(t, types.Uint8)
	if len(p.Instrs) != 1 {
		t.Errorf("unexpected instruction count: %d", len(p.Instrs))
	}
	if p.String() != "add: #params=2 #instrs=1 #outputs=1" {
		t.Errorf("unexpected String(): %s", p)
	}
}

var malformedTests = []struct {
	name    string
	params  []Param
	instrs  []Instr
	outputs []Output
}{
	{
		name: "empty parameter name",
		params: []Param{
			{Name: "", Type: types.Uint8},
		},
	},
	{
		name: "duplicate parameter",
		params: []Param{
			{Name: "a", Type: types.Uint8},
			{Name: "a", Type: types.Uint8},
		},
	},
	{
		name: "invalid parameter type",
		params: []Param{
			{Name: "a", Type: types.Info{Type: types.TUint, Bits: 7}},
		},
	},
	{
		name: "undefined reference",
		params: []Param{
			{Name: "a", Type: types.Uint8},
		},
		instrs: []Instr{
			{Op: Add, In: []Ref{NewRef("a"), NewRef("b")}, Out: "sum",
				Type: types.Uint8},
		},
	},
	{
		name: "forward reference",
		params: []Param{
			{Name: "a", Type: types.Uint8},
		},
		instrs: []Instr{
			{Op: Add, In: []Ref{NewRef("a"), NewRef("r1")}, Out: "r0",
				Type: types.Uint8},
			{Op: Mov, In: []Ref{NewRef("a")}, Out: "r1",
				Type: types.Uint8},
		},
	},
	{
		name: "result shadows parameter",
		params: []Param{
			{Name: "a", Type: types.Uint8},
		},
		instrs: []Instr{
			{Op: Mov, In: []Ref{NewRef("a")}, Out: "a",
				Type: types.Uint8},
		},
	},
	{
		name: "operand type mismatch",
		params: []Param{
			{Name: "a", Type: types.Uint8},
			{Name: "b", Type: types.Uint16},
		},
		instrs: []Instr{
			{Op: Add, In: []Ref{NewRef("a"), NewRef("b")}, Out: "sum",
				Type: types.Uint8},
		},
	},
	{
		name: "signedness mismatch",
		params: []Param{
			{Name: "a", Type: types.Uint8},
			{Name: "b", Type: types.Int8},
		},
		instrs: []Instr{
			{Op: Add, In: []Ref{NewRef("a"), NewRef("b")}, Out: "sum",
				Type: types.Uint8},
		},
	},
	{
		name: "bool arithmetic",
		params: []Param{
			{Name: "a", Type: types.Bool},
			{Name: "b", Type: types.Bool},
		},
		instrs: []Instr{
			{Op: Add, In: []Ref{NewRef("a"), NewRef("b")}, Out: "sum",
				Type: types.Bool},
		},
	},
	{
		name: "array length mismatch",
		params: []Param{
			{Name: "a", Type: types.Array(types.Uint8, 4)},
			{Name: "b", Type: types.Array(types.Uint8, 5)},
		},
		instrs: []Instr{
			{Op: Add, In: []Ref{NewRef("a"), NewRef("b")}, Out: "sum",
				Type: types.Array(types.Uint8, 4)},
		},
	},
	{
		name: "implicit narrowing",
		params: []Param{
			{Name: "a", Type: types.Uint16},
			{Name: "b", Type: types.Uint16},
		},
		instrs: []Instr{
			{Op: Add, In: []Ref{NewRef("a"), NewRef("b")}, Out: "sum",
				Type: types.Uint8},
		},
	},
	{
		name: "gt result not bool",
		params: []Param{
			{Name: "a", Type: types.Uint8},
			{Name: "b", Type: types.Uint8},
		},
		instrs: []Instr{
			{Op: Gt, In: []Ref{NewRef("a"), NewRef("b")}, Out: "r",
				Type: types.Uint8},
		},
	},
	{
		name: "narrowing ext",
		params: []Param{
			{Name: "a", Type: types.Uint16},
		},
		instrs: []Instr{
			{Op: Ext, In: []Ref{NewRef("a")}, Out: "r",
				Type: types.Uint8},
		},
	},
	{
		name: "ext changes signedness",
		params: []Param{
			{Name: "a", Type: types.Uint8},
		},
		instrs: []Instr{
			{Op: Ext, In: []Ref{NewRef("a")}, Out: "r",
				Type: types.Int16},
		},
	},
	{
		name: "constant index out of range",
		params: []Param{
			{Name: "arr", Type: types.Array(types.Uint8, 4)},
		},
		instrs: []Instr{
			{Op: Elem, In: []Ref{
				NewRef("arr"),
				{Const: constUint(types.Uint8, 4)},
			}, Out: "r", Type: types.Uint8},
		},
	},
	{
		name: "elem result type mismatch",
		params: []Param{
			{Name: "arr", Type: types.Array(types.Uint8, 4)},
		},
		instrs: []Instr{
			{Op: Elem, In: []Ref{
				NewRef("arr"),
				{Const: constUint(types.Uint8, 0)},
			}, Out: "r", Type: types.Uint16},
		},
	},
	{
		name: "output references undeclared result",
		params: []Param{
			{Name: "a", Type: types.Uint8},
		},
		instrs: []Instr{
			{Op: Mov, In: []Ref{NewRef("a")}, Out: "r",
				Type: types.Uint8},
		},
		outputs: []Output{
			{Name: "out", Ref: "nonesuch", Type: types.Uint8},
		},
	},
	{
		name: "output type mismatch",
		params: []Param{
			{Name: "a", Type: types.Uint8},
		},
		instrs: []Instr{
			{Op: Mov, In: []Ref{NewRef("a")}, Out: "r",
				Type: types.Uint8},
		},
		outputs: []Output{
			{Name: "out", Ref: "r", Type: types.Uint16},
		},
	},
	{
		name: "no outputs",
		params: []Param{
			{Name: "a", Type: types.Uint8},
		},
		instrs: []Instr{
			{Op: Mov, In: []Ref{NewRef("a")}, Out: "r",
				Type: types.Uint8},
		},
		outputs: []Output{},
	},
}

func constUint(ti types.Info, x uint64) *Value {
	v, err := NewScalar(ti, x)
	if err != nil {
		panic(err)
	}
	return &v
}

func TestMalformed(t *testing.T) {
	for _, test := range malformedTests {
		outputs := test.outputs
		if outputs == nil {
			// Default output referencing the last result.
			var ref string
			var typ types.Info
			if len(test.instrs) > 0 {
				last := test.instrs[len(test.instrs)-1]
				ref = last.Out
				typ = last.Type
			} else if len(test.params) > 0 {
				ref = test.params[0].Name
				typ = test.params[0].Type
			}
			outputs = []Output{
				{Name: "out", Ref: ref, Type: typ},
			}
		}
		_, err := NewProgram(test.name, test.params, test.instrs, outputs)
		if err == nil {
			t.Errorf("%s: NewProgram did not fail", test.name)
			continue
		}
		var malformed *MalformedError
		if !errors.As(err, &malformed) {
			t.Errorf("%s: unexpected error type: %v", test.name, err)
		}
	}
}

func TestProgramImmutable(t *testing.T) {
	instrs := []Instr{
		{Op: Add, In: []Ref{NewRef("a"), NewRef("b")}, Out: "sum",
			Type: types.Uint8},
	}
	p := mustProgram(t, "add",
		[]Param{
			{Name: "a", Type: types.Uint8, Tag: Encrypted},
			{Name: "b", Type: types.Uint8, Tag: Encrypted},
		},
		instrs,
		[]Output{
			{Name: "out", Ref: "sum", Type: types.Uint8, Tag: Encrypted},
		})

	// Mutating the argument slices must not affect the program.
	instrs[0].Op = Mul
	instrs[0].In[0] = NewRef("b")
	if p.Instrs[0].Op != Add {
		t.Errorf("program aliases the argument instruction slice")
	}
	if p.Instrs[0].In[0].Name != "a" {
		t.Errorf("program aliases the argument operand slice")
	}
}

func TestParseRef(t *testing.T) {
	ref, err := ParseRef("a")
	if err != nil {
		t.Fatalf("ParseRef: %s", err)
	}
	if ref.Name != "a" || ref.Const != nil {
		t.Errorf("unexpected ref: %v", ref)
	}

	ref, err = ParseRef("1:u16")
	if err != nil {
		t.Fatalf("ParseRef: %s", err)
	}
	if ref.Const == nil || ref.Const.Uint64() != 1 ||
		!ref.Const.Type().Equal(types.Uint16) {
		t.Errorf("unexpected const ref: %v", ref)
	}

	ref, err = ParseRef("-5:i8")
	if err != nil {
		t.Fatalf("ParseRef: %s", err)
	}
	if ref.Const == nil || ref.Const.Int64() != -5 {
		t.Errorf("unexpected const ref: %v", ref)
	}

	_, err = ParseRef("1:u7")
	if err == nil {
		t.Errorf("ParseRef(1:u7) did not fail")
	}
	_, err = ParseRef("")
	if err == nil {
		t.Errorf("ParseRef(\"\") did not fail")
	}
}

func TestOperands(t *testing.T) {
	for op, name := range operands {
		parsed, err := ParseOperand(name)
		if err != nil {
			t.Errorf("ParseOperand(%s): %s", name, err)
			continue
		}
		if parsed != op {
			t.Errorf("ParseOperand(%s) => %v, expected %v", name, parsed, op)
		}
	}
	_, err := ParseOperand("div")
	if err == nil {
		t.Errorf("ParseOperand(div) did not fail")
	}
}
