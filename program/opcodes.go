//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package program

import (
	"fmt"
)

// Operand specifies an instruction opcode.
type Operand uint8

// FHE program opcodes.
const (
	Mov Operand = iota
	Add
	Sub
	Mul
	Gt
	Ext
	Elem
)

var operands = map[Operand]string{
	Mov:  "mov",
	Add:  "add",
	Sub:  "sub",
	Mul:  "mul",
	Gt:   "gt",
	Ext:  "ext",
	Elem: "elem",
}

var operandsByName map[string]Operand

var maxOperandLength int

func init() {
	operandsByName = make(map[string]Operand)
	for k, v := range operands {
		if len(v) > maxOperandLength {
			maxOperandLength = len(v)
		}
		operandsByName[v] = k
	}
}

func (op Operand) String() string {
	name, ok := operands[op]
	if ok {
		return name
	}
	return fmt.Sprintf("{Operand %d}", op)
}

// ParseOperand parses an opcode name.
func ParseOperand(name string) (Operand, error) {
	op, ok := operandsByName[name]
	if !ok {
		return 0, fmt.Errorf("program: unknown opcode: %s", name)
	}
	return op, nil
}
