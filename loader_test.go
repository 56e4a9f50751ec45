package basic

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestLoadProgramFileRuns(t *testing.T) {
	prog, err := LoadProgramFile("testdata/squares.yaml")
	if err != nil {
		t.Fatalf("LoadProgramFile: %v", err)
	}

	var out, diag bytes.Buffer
	_, err = NewInterpreter(prog, Options{Output: &out, Diagnostics: &diag}).Run()
	if err != nil {
		t.Fatalf("Run: %v (%s)", err, diag.String())
	}

	want := "1  4  9  16 25 \nSUM 6.5\n{'b': -2}\n"
	if out.String() != want {
		t.Fatalf("output = %q, want %q", out.String(), want)
	}
}

func TestLoadProgramStatements(t *testing.T) {
	src := `
program:
  - {line: 20, op: while, cond: {op: "<=", left: {var: I}, right: {num: 3}}, step: {num: 1}}
  - {line: 10, op: DIM, dims: [{name: A, rows: 5}, {name: T, rows: 2, cols: 3}]}
  - {line: 30, op: IF, cond: {op: "=", left: {var: I}, right: {num: 2}}, then: break}
  - {line: 40, op: IF, cond: {op: "<>", left: {var: I}, right: {num: 2}}, then: CONTINUE}
  - {line: 50, op: NEXT}
  - {line: 60, op: OOP, dict: D, action: UPDATE, other: E}
  - {line: 70, op: PRINT, items: [{label: "K", value: {keys: D}}, {value: {values: D}}], end: ","}
  - {line: 80, op: END}
`
	prog, err := LoadProgram(strings.NewReader(src))
	if err != nil {
		t.Fatalf("LoadProgram: %v", err)
	}

	if prog.Len() != 8 {
		t.Fatalf("Len = %d, want 8", prog.Len())
	}

	stmt, _ := prog.Lookup(10)
	dim := stmt.(*DimStmt)
	if len(dim.Entries) != 2 || dim.Entries[1] != (DimEntry{Name: "T", Rows: 2, Cols: 3}) {
		t.Fatalf("DIM = %#v", dim.Entries)
	}

	stmt, _ = prog.Lookup(20)
	while := stmt.(*WhileStmt)
	if while.Cond.Op != OpLE || while.Step == nil {
		t.Fatalf("WHILE = %#v", while)
	}

	stmt, _ = prog.Lookup(30)
	if stmt.(*IfStmt).Target.Kind != TargetBreak {
		t.Fatalf("IF 30 target = %#v", stmt.(*IfStmt).Target)
	}

	stmt, _ = prog.Lookup(40)
	if stmt.(*IfStmt).Target.Kind != TargetContinue {
		t.Fatalf("IF 40 target = %#v", stmt.(*IfStmt).Target)
	}

	stmt, _ = prog.Lookup(60)
	if oop := stmt.(*OopStmt); oop.Op != DictUpdate || oop.Other != "E" {
		t.Fatalf("OOP = %#v", oop)
	}

	stmt, _ = prog.Lookup(70)
	ps := stmt.(*PrintStmt)
	if ps.Terminator != TermComma || len(ps.Items) != 2 {
		t.Fatalf("PRINT = %#v", ps)
	}
	if fn, ok := ps.Items[0].Value.(*DictFuncExpr); !ok || fn.Func != DictKeys {
		t.Fatalf("PRINT item 0 = %#v", ps.Items[0].Value)
	}
}

func TestLoadProgramErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"unknown field", `program: [{line: 10, op: END, colour: red}]`, "colour"},
		{"unknown op", `program: [{line: 10, op: JUMP}]`, "JUMP"},
		{"zero line", `program: [{line: 0, op: END}]`, "must be positive"},
		{"duplicate line", `program: [{line: 10, op: END}, {line: 10, op: STOP}]`, "appears twice"},
		{"LET without value", `program: [{line: 10, op: LET, target: {name: A}}]`, "LET"},
		{"string DATA", `program: [{line: 10, op: DATA, data: [1, "two"]}]`, "two"},
		{"bad then", `program: [{line: 10, op: IF, cond: {op: "=", left: {num: 1}, right: {num: 1}}, then: later}]`, "later"},
		{"bad relop", `program: [{line: 10, op: IF, cond: {op: "~", left: {num: 1}, right: {num: 1}}, then: 10}]`, "~"},
		{"empty expression", `program: [{line: 10, op: LET, target: {name: A}, value: {}}]`, "empty expression"},
		{"three subscripts", `program: [{line: 10, op: LET, target: {name: A, subs: [{num: 1}, {num: 1}, {num: 1}]}, value: {num: 1}}]`, "3 subscripts"},
		{"bad print end", `program: [{line: 10, op: PRINT, end: ":"}]`, "PRINT"},
		{"bad dict action", `program: [{line: 10, op: OOP, dict: D, action: SHRINK}]`, "SHRINK"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadProgram(strings.NewReader(tc.src))
			if err == nil {
				t.Fatalf("expected an error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}

	_, err := LoadProgram(strings.NewReader(`program: [{line: 10, op: JUMP}]`))
	if !errors.Is(err, ErrProgramFormat) {
		t.Fatalf("expected ErrProgramFormat, got %v", err)
	}
}

func TestLoadEmptyProgram(t *testing.T) {
	prog, err := LoadProgram(strings.NewReader(""))
	if err != nil {
		t.Fatalf("LoadProgram: %v", err)
	}

	_, err = NewInterpreter(prog, Options{}).Run()
	if !errors.Is(err, ErrMissingEnd) {
		t.Fatalf("expected ErrMissingEnd, got %v", err)
	}
}

func TestLoadOptions(t *testing.T) {
	opts, err := LoadOptions(strings.NewReader("traceVars: true\nstats: true\nseed: 42\n"))
	if err != nil {
		t.Fatalf("LoadOptions: %v", err)
	}
	if !opts.TraceVars || !opts.Stats || opts.Seed != 42 || opts.TraceExec {
		t.Fatalf("options = %+v", opts)
	}
	if opts.Output == nil || opts.Diagnostics == nil {
		t.Fatalf("writers not defaulted")
	}

	if _, err := LoadOptions(strings.NewReader("tracing: yes\n")); err == nil {
		t.Fatalf("expected an error for an unknown option")
	}
}
