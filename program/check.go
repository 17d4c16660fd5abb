//
// check.go
//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package program

import (
	"fmt"
)

// Checked is a program that has passed the capability check. It is
// read-only and safe for concurrent evaluation.
type Checked struct {
	prog *Program
	tags map[string]Tag
}

// Program returns the checked program.
func (c *Checked) Program() *Program {
	return c.prog
}

// Tag returns the propagated tag of the named parameter or result.
func (c *Checked) Tag(name string) (Tag, bool) {
	tag, ok := c.tags[name]
	return tag, ok
}

func (p *Program) capabilityf(format string, a ...interface{}) error {
	return &CapabilityError{
		Program: p.Name,
		Err:     fmt.Sprintf(format, a...),
	}
}

// Check verifies the tag propagation rules of the program: the tag of
// an operation result is encrypted if any operand tag is encrypted,
// array index operands must be plaintext, and a plaintext output may
// only surface values with no encrypted provenance. The check runs
// once per program; subsequent calls return the cached result.
func (p *Program) Check() (*Checked, error) {
	p.checkOnce.Do(func() {
		p.checked, p.checkErr = p.check()
	})
	return p.checked, p.checkErr
}

func (p *Program) check() (*Checked, error) {
	tags := make(map[string]Tag)

	for _, param := range p.Params {
		tags[param.Name] = param.Tag
	}
	for idx, instr := range p.Instrs {
		tag := Plaintext
		for i, in := range instr.In {
			t := refTag(tags, in)
			if instr.Op == Elem && i == 1 && t == Encrypted {
				return nil, p.capabilityf(
					"instr %d: encrypted index %s", idx, in)
			}
			if t == Encrypted {
				tag = Encrypted
			}
		}
		tags[instr.Out] = tag
	}
	for _, out := range p.Outputs {
		if tags[out.Ref] == Encrypted && out.Tag == Plaintext {
			return nil, p.capabilityf(
				"plaintext output %s has encrypted provenance via %s",
				out.Name, out.Ref)
		}
	}

	return &Checked{
		prog: p,
		tags: tags,
	}, nil
}

func refTag(tags map[string]Tag, ref Ref) Tag {
	if ref.Const != nil {
		return Plaintext
	}
	return tags[ref.Name]
}
