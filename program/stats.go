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

// Stats holds counts of the scalar operations a program performs.
// Element-wise array operations count once per element.
type Stats [Elem + 1]int

func (s Stats) String() string {
	var str string
	for k := Mov; k <= Elem; k++ {
		if len(str) > 0 {
			str += " "
		}
		str += fmt.Sprintf("%s=%d", k, s[k])
	}
	return str
}

// Count returns the total number of scalar operations.
func (s Stats) Count() int {
	var sum int
	for _, v := range s {
		sum += v
	}
	return sum
}

// Stats computes the operation statistics of the program.
func (p *Program) Stats() Stats {
	var stats Stats

	for _, instr := range p.Instrs {
		n := 1
		switch instr.Op {
		case Add, Sub, Mul:
			if instr.Type.Type == types.TArray {
				n = int(instr.Type.ArraySize)
			}
		}
		stats[instr.Op] += n
	}
	return stats
}

// Cost computes the relative computational cost of the program when
// executed homomorphically. Multiplications dominate, additive
// operations and comparisons are cheaper, data movement is almost
// free.
func (p *Program) Cost() int {
	stats := p.Stats()
	return stats[Mul]*8 + (stats[Add]+stats[Sub]+stats[Gt])*4 +
		stats[Ext]*2 + stats[Elem]
}
