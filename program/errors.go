//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package program

import (
	"fmt"
)

// MalformedError reports a structural error in a program: an
// undefined or forward operand reference, an operand type rule
// violation, an array length mismatch for an element-wise opcode, or
// an output referencing an undeclared result. It is reported at
// program construction time.
type MalformedError struct {
	Program string
	Err     string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed program %q: %s", e.Program, e.Err)
}

// CapabilityError reports a broken tag propagation rule: a plaintext
// output with encrypted provenance, or an encrypted array index. It
// is reported by the capability checker before any evaluation.
type CapabilityError struct {
	Program string
	Err     string
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf("capability violation in program %q: %s",
		e.Program, e.Err)
}

// TypeMismatchError reports a concrete input value whose shape or
// width does not match the declared parameter type. It is reported at
// evaluation entry.
type TypeMismatchError struct {
	Program string
	Err     string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch in program %q: %s", e.Program, e.Err)
}

// UnsupportedError reports an opcode or operand type combination the
// evaluator does not define. The evaluator never coerces types.
type UnsupportedError struct {
	Program string
	Err     string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("unsupported operation in program %q: %s",
		e.Program, e.Err)
}
