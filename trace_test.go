package basic

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"fortio.org/log"
)

func TestTraceVars(t *testing.T) {
	var logs bytes.Buffer
	log.SetOutput(&logs)
	defer log.SetOutput(os.Stderr)

	in := NewInterpreter(makeProgram(
		line{10, let("X", num(1))},
		line{20, let("X", num(2))},
		line{30, let("A", str("v"), num(3))},
		line{40, &EndStmt{}},
	), Options{TraceVars: true})

	if _, err := in.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"Variable X set to 1",
		"Variable X changed from 1 to 2",
		"Variable A(3) changed from 0 to 'v'",
	} {
		if !strings.Contains(logs.String(), want) {
			t.Errorf("trace is missing %q:\n%s", want, logs.String())
		}
	}
}

func TestTraceExec(t *testing.T) {
	var logs bytes.Buffer
	log.SetOutput(&logs)
	defer log.SetOutput(os.Stderr)

	in := NewInterpreter(makeProgram(
		line{10, &GosubStmt{Line: 30}},
		line{20, &GotoStmt{Line: 40}},
		line{30, &ReturnStmt{}},
		line{40, &EndStmt{}},
	), Options{TraceExec: true})

	if _, err := in.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{"[10] GOSUB", "[30] RETURN", "[20] GOTO", "[40] END"} {
		if !strings.Contains(logs.String(), want) {
			t.Errorf("trace is missing %q:\n%s", want, logs.String())
		}
	}
}

func TestStmtKeyword(t *testing.T) {
	tests := []struct {
		stmt Statement
		want string
	}{
		{&PrintStmt{}, "PRINT"},
		{&OopStmt{}, "OOP"},
		{&NextStmt{}, "NEXT"},
	}

	for _, tc := range tests {
		if got := stmtKeyword(tc.stmt); got != tc.want {
			t.Errorf("stmtKeyword(%T) = %q, want %q", tc.stmt, got, tc.want)
		}
	}
}
