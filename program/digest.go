//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package program

import (
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// Digest computes the BLAKE2b-256 fingerprint of the program's
// parameters, operations, and outputs. The program name is not part
// of the fingerprint: a program is identified by its operation
// sequence, not by what its source called it.
func (p *Program) Digest() []byte {
	h, err := blake2b.New256(nil)
	if err != nil {
		panic(err)
	}
	for _, param := range p.Params {
		fmt.Fprintf(h, "param %s\n", param)
	}
	for _, instr := range p.Instrs {
		fmt.Fprintf(h, "%s\n", instr)
	}
	for _, out := range p.Outputs {
		fmt.Fprintf(h, "output %s\n", out)
	}
	return h.Sum(nil)
}

// DigestString returns the program fingerprint as a hex string.
func (p *Program) DigestString() string {
	return hex.EncodeToString(p.Digest())
}
