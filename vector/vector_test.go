//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package vector

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
)

func TestSuites(t *testing.T) {
	files, err := filepath.Glob("testdata/*.json")
	if err != nil {
		t.Fatalf("Glob: %s", err)
	}
	if len(files) == 0 {
		t.Fatalf("no test vector suites")
	}
	for _, file := range files {
		suite, err := ParseFile(file)
		if err != nil {
			t.Errorf("%s: %s", file, err)
			continue
		}
		if len(suite.Vectors) == 0 {
			t.Errorf("%s: no vectors", file)
			continue
		}
		err = suite.Run()
		if err != nil {
			t.Errorf("%s: %s", file, err)
		}
	}
}

func TestArgs(t *testing.T) {
	var c Case
	err := json.Unmarshal([]byte(
		`{"inputs": {"a": "1", "arr": ["1", "2"]}, "outputs": {"out": "3"}}`),
		&c)
	if err != nil {
		t.Fatalf("Unmarshal: %s", err)
	}
	if len(c.Inputs["a"]) != 1 || c.Inputs["a"][0] != "1" {
		t.Errorf("unexpected scalar args: %v", c.Inputs["a"])
	}
	if len(c.Inputs["arr"]) != 2 {
		t.Errorf("unexpected array args: %v", c.Inputs["arr"])
	}

	data, err := json.Marshal(c.Inputs["a"])
	if err != nil {
		t.Fatalf("Marshal: %s", err)
	}
	if string(data) != `"1"` {
		t.Errorf("unexpected scalar marshal: %s", data)
	}
	data, err = json.Marshal(c.Inputs["arr"])
	if err != nil {
		t.Fatalf("Marshal: %s", err)
	}
	if string(data) != `["1","2"]` {
		t.Errorf("unexpected array marshal: %s", data)
	}
}

const addSuite = `{
  "program": {
    "name": "add_u8",
    "params": [
      {"name": "a", "type": "u8", "encrypted": true},
      {"name": "b", "type": "u8", "encrypted": true}
    ],
    "instrs": [
      {"op": "add", "in": ["a", "b"], "out": "sum", "type": "u8"}
    ],
    "outputs": [
      {"name": "out", "ref": "sum", "type": "u8", "encrypted": true}
    ]
  },
  "vectors": [
    {"inputs": {"a": "1", "b": "2"}, "outputs": {"out": "4"}}
  ]
}`

func TestFailingVector(t *testing.T) {
	suite, err := Parse(strings.NewReader(addSuite))
	if err != nil {
		t.Fatalf("Parse: %s", err)
	}
	err = suite.Run()
	if err == nil {
		t.Fatalf("Run did not fail on wrong expected output")
	}
	if !strings.Contains(err.Error(), "vector 0") {
		t.Errorf("unexpected error: %s", err)
	}
}

var buildErrorTests = []struct {
	name  string
	suite string
}{
	{
		name: "unknown opcode",
		suite: `{
  "program": {
    "name": "bad",
    "params": [{"name": "a", "type": "u8"}],
    "instrs": [{"op": "div", "in": ["a", "a"], "out": "r", "type": "u8"}],
    "outputs": [{"name": "out", "ref": "r", "type": "u8"}]
  },
  "vectors": []
}`,
	},
	{
		name: "unknown type",
		suite: `{
  "program": {
    "name": "bad",
    "params": [{"name": "a", "type": "f32"}],
    "instrs": [{"op": "mov", "in": ["a"], "out": "r", "type": "f32"}],
    "outputs": [{"name": "out", "ref": "r", "type": "f32"}]
  },
  "vectors": []
}`,
	},
	{
		name: "unknown field",
		suite: `{
  "program": {
    "name": "bad",
    "arguments": []
  },
  "vectors": []
}`,
	},
}

func TestBuildErrors(t *testing.T) {
	for _, test := range buildErrorTests {
		suite, err := Parse(strings.NewReader(test.suite))
		if err != nil {
			// Syntax errors are fine too.
			continue
		}
		_, err = suite.Build()
		if err == nil {
			t.Errorf("%s: Build did not fail", test.name)
		}
	}
}
