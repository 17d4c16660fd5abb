//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package program

import (
	"fmt"
	"io"

	"github.com/markkurossi/tabulate"
)

// Dump prints a program listing with the propagated tags of all
// parameters and results.
func (p *Program) Dump(o io.Writer) {
	fmt.Fprintf(o, "program %v\n", p)

	var tags map[string]Tag
	checked, err := p.Check()
	if err == nil {
		tags = checked.tags
	}

	tab := tabulate.New(tabulate.UnicodeLight)
	tab.Header("Param").SetAlign(tabulate.ML)
	tab.Header("Type").SetAlign(tabulate.ML)
	tab.Header("Tag").SetAlign(tabulate.ML)
	for _, param := range p.Params {
		row := tab.Row()
		row.Column(param.Name)
		row.Column(param.Type.String())
		row.Column(param.Tag.String())
	}
	tab.Print(o)

	tab = tabulate.New(tabulate.UnicodeLight)
	tab.Header("Idx").SetAlign(tabulate.MR)
	tab.Header("Op").SetAlign(tabulate.ML)
	tab.Header("In").SetAlign(tabulate.ML)
	tab.Header("Out").SetAlign(tabulate.ML)
	tab.Header("Type").SetAlign(tabulate.ML)
	tab.Header("Tag").SetAlign(tabulate.ML)
	for idx, instr := range p.Instrs {
		row := tab.Row()
		row.Column(fmt.Sprintf("%d", idx))
		row.Column(instr.Op.String())
		var ins string
		for i, in := range instr.In {
			if i > 0 {
				ins += " "
			}
			ins += in.String()
		}
		row.Column(ins)
		row.Column(instr.Out)
		row.Column(instr.Type.String())
		if tags != nil {
			row.Column(tags[instr.Out].String())
		} else {
			row.Column("?")
		}
	}
	tab.Print(o)

	tab = tabulate.New(tabulate.UnicodeLight)
	tab.Header("Output").SetAlign(tabulate.ML)
	tab.Header("Ref").SetAlign(tabulate.ML)
	tab.Header("Type").SetAlign(tabulate.ML)
	tab.Header("Tag").SetAlign(tabulate.ML)
	for _, out := range p.Outputs {
		row := tab.Row()
		row.Column(out.Name)
		row.Column(out.Ref)
		row.Column(out.Type.String())
		row.Column(out.Tag.String())
	}
	tab.Print(o)
}
