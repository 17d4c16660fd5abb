//
// vector.go
//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

// Package vector implements test vector suites: a program
// description plus input and expected output value sets. Suites are
// the plaintext ground truth an FHE compiler's encrypted execution is
// compared against.
package vector

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/markkurossi/fhe/program"
	"github.com/markkurossi/fhe/types"
)

// Args is a list of textual values. In JSON, a scalar value can be
// given as a plain string, arrays as an array of strings.
type Args []string

// UnmarshalJSON implements json.Unmarshaler.
func (a *Args) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = Args{s}
		return nil
	}
	var arr []string
	if err := json.Unmarshal(data, &arr); err != nil {
		return err
	}
	*a = Args(arr)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (a Args) MarshalJSON() ([]byte, error) {
	if len(a) == 1 {
		return json.Marshal(a[0])
	}
	return json.Marshal([]string(a))
}

// Param describes a program parameter.
type Param struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Encrypted bool   `json:"encrypted,omitempty"`
}

// Instr describes one operation. Operands are either names or
// "value:type" constants.
type Instr struct {
	Op   string   `json:"op"`
	In   []string `json:"in"`
	Out  string   `json:"out"`
	Type string   `json:"type"`
}

// Output describes a declared program output.
type Output struct {
	Name      string `json:"name"`
	Ref       string `json:"ref"`
	Type      string `json:"type"`
	Encrypted bool   `json:"encrypted,omitempty"`
}

// Program describes a program in the textual suite syntax.
type Program struct {
	Name    string   `json:"name"`
	Params  []Param  `json:"params"`
	Instrs  []Instr  `json:"instrs"`
	Outputs []Output `json:"outputs"`
}

// Case defines one test vector: concrete inputs and the expected
// outputs.
type Case struct {
	Inputs  map[string]Args `json:"inputs"`
	Outputs map[string]Args `json:"outputs"`
}

// Suite defines a program and its test vectors.
type Suite struct {
	Program Program `json:"program"`
	Vectors []Case  `json:"vectors"`
}

// Parse parses a suite from the input.
func Parse(r io.Reader) (*Suite, error) {
	suite := new(Suite)
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	err := decoder.Decode(suite)
	if err != nil {
		return nil, fmt.Errorf("vector: %s", err)
	}
	return suite, nil
}

// ParseFile parses a suite from the named file.
func ParseFile(name string) (*Suite, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

func tag(encrypted bool) program.Tag {
	if encrypted {
		return program.Encrypted
	}
	return program.Plaintext
}

// Build constructs the program of the suite.
func (s *Suite) Build() (*program.Program, error) {
	var params []program.Param
	for _, p := range s.Program.Params {
		t, err := types.Parse(p.Type)
		if err != nil {
			return nil, err
		}
		params = append(params, program.Param{
			Name: p.Name,
			Type: t,
			Tag:  tag(p.Encrypted),
		})
	}

	var instrs []program.Instr
	for _, i := range s.Program.Instrs {
		op, err := program.ParseOperand(i.Op)
		if err != nil {
			return nil, err
		}
		t, err := types.Parse(i.Type)
		if err != nil {
			return nil, err
		}
		var in []program.Ref
		for _, operand := range i.In {
			ref, err := program.ParseRef(operand)
			if err != nil {
				return nil, err
			}
			in = append(in, ref)
		}
		instrs = append(instrs, program.Instr{
			Op:   op,
			In:   in,
			Out:  i.Out,
			Type: t,
		})
	}

	var outputs []program.Output
	for _, o := range s.Program.Outputs {
		t, err := types.Parse(o.Type)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, program.Output{
			Name: o.Name,
			Ref:  o.Ref,
			Type: t,
			Tag:  tag(o.Encrypted),
		})
	}

	return program.NewProgram(s.Program.Name, params, instrs, outputs)
}

// Run builds and checks the program of the suite and evaluates all
// of its test vectors. It returns the error of the first failing
// vector.
func (s *Suite) Run() error {
	p, err := s.Build()
	if err != nil {
		return err
	}
	checked, err := p.Check()
	if err != nil {
		return err
	}
	for idx := range s.Vectors {
		err = Eval(checked, s.Vectors[idx])
		if err != nil {
			return fmt.Errorf("%s: vector %d: %s", p.Name, idx, err)
		}
	}
	return nil
}

// Inputs parses the concrete input values of the test vector for the
// program's parameters.
func Inputs(checked *program.Checked, c Case) (map[string]program.Value,
	error) {

	p := checked.Program()

	inputs := make(map[string]program.Value)
	for _, param := range p.Params {
		vals, ok := c.Inputs[param.Name]
		if !ok {
			return nil, fmt.Errorf("no input for parameter %s", param.Name)
		}
		val, err := program.Parse(param.Type, vals)
		if err != nil {
			return nil, err
		}
		inputs[param.Name] = val
	}
	for name := range c.Inputs {
		if _, ok := inputs[name]; !ok {
			return nil, fmt.Errorf("unknown input %s", name)
		}
	}
	return inputs, nil
}

// Eval evaluates one test vector against the checked program and
// verifies the expected outputs.
func Eval(checked *program.Checked, c Case) error {
	p := checked.Program()

	inputs, err := Inputs(checked, c)
	if err != nil {
		return err
	}

	results, err := checked.Eval(inputs)
	if err != nil {
		return err
	}

	for _, out := range p.Outputs {
		vals, ok := c.Outputs[out.Name]
		if !ok {
			return fmt.Errorf("no expected value for output %s", out.Name)
		}
		expected, err := program.Parse(out.Type, vals)
		if err != nil {
			return err
		}
		if !results[out.Name].Equal(expected) {
			return fmt.Errorf("output %s: got %s, expected %s",
				out.Name, results[out.Name], expected)
		}
	}
	return nil
}
