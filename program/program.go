//
// program.go
//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package program

import (
	"fmt"
	"strings"
	"sync"

	"github.com/markkurossi/fhe/types"
)

// Tag marks a value as encrypted or plaintext. A value carries
// exactly one tag for its lifetime within a program. Plaintext values
// may become encrypted but never the reverse.
type Tag uint8

// Value tags.
const (
	Plaintext Tag = iota
	Encrypted
)

var tags = map[Tag]string{
	Plaintext: "plaintext",
	Encrypted: "encrypted",
}

func (t Tag) String() string {
	name, ok := tags[t]
	if ok {
		return name
	}
	return fmt.Sprintf("{Tag %d}", t)
}

// Param declares a program parameter: a named, typed, and tagged
// input value.
type Param struct {
	Name string
	Type types.Info
	Tag  Tag
}

func (p Param) String() string {
	return fmt.Sprintf("%s:%s:%s", p.Name, p.Type, p.Tag)
}

// Ref references an instruction operand: a named parameter or
// earlier instruction result, or an immediate constant. Constants are
// plaintext by definition.
type Ref struct {
	Name  string
	Const *Value
}

// NewRef creates a named operand reference.
func NewRef(name string) Ref {
	return Ref{
		Name: name,
	}
}

// NewConst creates an immediate constant operand.
func NewConst(v Value) Ref {
	return Ref{
		Const: &v,
	}
}

func (r Ref) String() string {
	if r.Const != nil {
		return fmt.Sprintf("%s:%s", r.Const, r.Const.Type())
	}
	return r.Name
}

// ParseRef parses the textual operand syntax: a plain name
// references a parameter or result, "value:type" is an immediate
// constant ("1:u16", "-5:i8", "true:bool").
func ParseRef(val string) (Ref, error) {
	idx := strings.LastIndexByte(val, ':')
	if idx < 0 {
		if len(val) == 0 {
			return Ref{}, fmt.Errorf("program: empty operand reference")
		}
		return Ref{Name: val}, nil
	}
	t, err := types.Parse(val[idx+1:])
	if err != nil {
		return Ref{}, err
	}
	v, err := Parse(t, []string{val[:idx]})
	if err != nil {
		return Ref{}, err
	}
	return Ref{Const: &v}, nil
}

// Instr specifies one operation: an opcode, its ordered operands, and
// the named, typed result it defines.
type Instr struct {
	Op   Operand
	In   []Ref
	Out  string
	Type types.Info
}

func (i Instr) String() string {
	result := i.Op.String()
	for len(result) < maxOperandLength+1 {
		result += " "
	}
	for _, in := range i.In {
		result += " "
		result += in.String()
	}
	result += " "
	result += i.Out
	result += ":"
	result += i.Type.String()
	return result
}

// Output exposes a result to the caller with its declared type and
// tag.
type Output struct {
	Name string
	Ref  string
	Type types.Info
	Tag  Tag
}

func (o Output) String() string {
	return fmt.Sprintf("%s=%s:%s:%s", o.Name, o.Ref, o.Type, o.Tag)
}

// Program is a validated, immutable description of one straight-line
// computation: typed and tagged parameters, an ordered operation
// sequence, and the declared outputs. A program is constructed once,
// checked once, and can then be evaluated any number of times
// concurrently.
type Program struct {
	Name    string
	Params  []Param
	Instrs  []Instr
	Outputs []Output

	defs map[string]types.Info

	checkOnce sync.Once
	checked   *Checked
	checkErr  error
}

func (p *Program) String() string {
	return fmt.Sprintf("%s: #params=%d #instrs=%d #outputs=%d",
		p.Name, len(p.Params), len(p.Instrs), len(p.Outputs))
}

func (p *Program) malformedf(format string, a ...interface{}) error {
	return &MalformedError{
		Program: p.Name,
		Err:     fmt.Sprintf(format, a...),
	}
}

// NewProgram creates a program from the parameter, instruction, and
// output declarations. It fails with MalformedError if an operand
// reference is undefined or forward, an operand type rule is broken,
// an array length mismatch exists for an element-wise opcode, or an
// output references an undeclared result. The declarations are copied
// and the program does not alias the argument slices.
func NewProgram(name string, params []Param, instrs []Instr,
	outputs []Output) (*Program, error) {

	p := &Program{
		Name:    name,
		Params:  append([]Param{}, params...),
		Instrs:  append([]Instr{}, instrs...),
		Outputs: append([]Output{}, outputs...),
		defs:    make(map[string]types.Info),
	}

	for _, param := range p.Params {
		if len(param.Name) == 0 {
			return nil, p.malformedf("parameter with empty name")
		}
		if _, ok := p.defs[param.Name]; ok {
			return nil, p.malformedf("parameter %s already defined",
				param.Name)
		}
		if !validType(param.Type) {
			return nil, p.malformedf("invalid type %s for parameter %s",
				param.Type, param.Name)
		}
		p.defs[param.Name] = param.Type
	}

	for idx := range p.Instrs {
		instr := &p.Instrs[idx]
		instr.In = append([]Ref{}, instr.In...)

		err := p.validateInstr(idx, *instr)
		if err != nil {
			return nil, err
		}
		p.defs[instr.Out] = instr.Type
	}

	if len(p.Outputs) == 0 {
		return nil, p.malformedf("no outputs")
	}
	seen := make(map[string]bool)
	for _, out := range p.Outputs {
		if len(out.Name) == 0 {
			return nil, p.malformedf("output with empty name")
		}
		if seen[out.Name] {
			return nil, p.malformedf("output %s already defined", out.Name)
		}
		seen[out.Name] = true

		t, ok := p.defs[out.Ref]
		if !ok {
			return nil, p.malformedf("output %s references undeclared %s",
				out.Name, out.Ref)
		}
		if !out.Type.Equal(t) {
			return nil, p.malformedf(
				"output %s declared %s but %s is %s",
				out.Name, out.Type, out.Ref, t)
		}
	}

	return p, nil
}

func (p *Program) validateInstr(idx int, instr Instr) error {
	if len(instr.Out) == 0 {
		return p.malformedf("instr %d: result with empty name", idx)
	}
	if _, ok := p.defs[instr.Out]; ok {
		return p.malformedf("instr %d: result %s already defined",
			idx, instr.Out)
	}

	in := make([]types.Info, len(instr.In))
	for i, ref := range instr.In {
		t, err := p.refType(idx, ref)
		if err != nil {
			return err
		}
		in[i] = t
	}

	switch instr.Op {
	case Mov:
		if len(in) != 1 {
			return p.malformedf("instr %d: %s with %d operands",
				idx, instr.Op, len(in))
		}
		if !instr.Type.Equal(in[0]) {
			return p.malformedf("instr %d: %s result type %s, operand %s",
				idx, instr.Op, instr.Type, in[0])
		}

	case Add, Sub, Mul:
		if len(in) != 2 {
			return p.malformedf("instr %d: %s with %d operands",
				idx, instr.Op, len(in))
		}
		if in[0].Type == types.TArray || in[1].Type == types.TArray {
			if in[0].Type != types.TArray || in[1].Type != types.TArray {
				return p.malformedf("instr %d: %s operand types %s and %s",
					idx, instr.Op, in[0], in[1])
			}
			if !in[0].ElementType.Equal(*in[1].ElementType) {
				return p.malformedf("instr %d: %s operand types %s and %s",
					idx, instr.Op, in[0], in[1])
			}
			if in[0].ArraySize != in[1].ArraySize {
				return p.malformedf(
					"instr %d: %s array length mismatch: %d != %d",
					idx, instr.Op, in[0].ArraySize, in[1].ArraySize)
			}
		} else {
			if in[0].Type != types.TInt && in[0].Type != types.TUint {
				return p.malformedf("instr %d: invalid type %s for %s",
					idx, in[0], instr.Op)
			}
			if !in[0].Equal(in[1]) {
				return p.malformedf("instr %d: %s operand types %s and %s",
					idx, instr.Op, in[0], in[1])
			}
		}
		if !instr.Type.Equal(in[0]) {
			return p.malformedf("instr %d: %s result type %s, operands %s",
				idx, instr.Op, instr.Type, in[0])
		}

	case Gt:
		if len(in) != 2 {
			return p.malformedf("instr %d: %s with %d operands",
				idx, instr.Op, len(in))
		}
		if in[0].Type != types.TInt && in[0].Type != types.TUint {
			return p.malformedf("instr %d: invalid type %s for %s",
				idx, in[0], instr.Op)
		}
		if !in[0].Equal(in[1]) {
			return p.malformedf("instr %d: %s operand types %s and %s",
				idx, instr.Op, in[0], in[1])
		}
		if !instr.Type.Equal(types.Bool) {
			return p.malformedf("instr %d: %s result type %s",
				idx, instr.Op, instr.Type)
		}

	case Ext:
		if len(in) != 1 {
			return p.malformedf("instr %d: %s with %d operands",
				idx, instr.Op, len(in))
		}
		var to types.Type
		switch in[0].Type {
		case types.TInt:
			to = types.TInt
		case types.TUint, types.TBool:
			to = types.TUint
		default:
			return p.malformedf("instr %d: invalid type %s for %s",
				idx, in[0], instr.Op)
		}
		if instr.Type.Type != to || instr.Type.Bits <= in[0].Bits {
			return p.malformedf("instr %d: invalid extension %s to %s",
				idx, in[0], instr.Type)
		}

	case Elem:
		if len(in) != 2 {
			return p.malformedf("instr %d: %s with %d operands",
				idx, instr.Op, len(in))
		}
		if in[0].Type != types.TArray {
			return p.malformedf("instr %d: invalid type %s for %s",
				idx, in[0], instr.Op)
		}
		if in[1].Type != types.TUint {
			return p.malformedf("instr %d: invalid index type %s",
				idx, in[1])
		}
		if c := instr.In[1].Const; c != nil {
			if c.Uint64() >= uint64(in[0].ArraySize) {
				return p.malformedf("instr %d: index %d out of range for %s",
					idx, c.Uint64(), in[0])
			}
		}
		if !instr.Type.Equal(*in[0].ElementType) {
			return p.malformedf("instr %d: %s result type %s, element %s",
				idx, instr.Op, instr.Type, in[0].ElementType)
		}

	default:
		return p.malformedf("instr %d: unknown opcode %s", idx, instr.Op)
	}

	return nil
}

func (p *Program) refType(idx int, ref Ref) (types.Info, error) {
	if ref.Const != nil {
		t := ref.Const.Type()
		if !validScalar(t) {
			return types.Undefined, p.malformedf(
				"instr %d: invalid constant type %s", idx, t)
		}
		return t, nil
	}
	t, ok := p.defs[ref.Name]
	if !ok {
		return types.Undefined, p.malformedf(
			"instr %d: undefined reference %s", idx, ref.Name)
	}
	return t, nil
}

func validScalar(t types.Info) bool {
	switch t.Type {
	case types.TBool:
		return t.Bits == 1

	case types.TInt, types.TUint:
		switch t.Bits {
		case 8, 16, 32, 64:
			return true
		}
	}
	return false
}

func validType(t types.Info) bool {
	if t.Type == types.TArray {
		if t.ArraySize <= 0 || t.ElementType == nil {
			return false
		}
		el := *t.ElementType
		return el.Type != types.TBool && validScalar(el) &&
			t.Bits == el.Bits*t.ArraySize
	}
	return validScalar(t)
}
