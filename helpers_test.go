package basic

import (
	"bytes"
	"testing"
)

// Small constructors so test programs read close to the BASIC they model.

func num(v any) Expr { return &NumberExpr{Value: v} }

func str(s string) Expr { return &StringExpr{Value: s} }

func ref(name string, subs ...Expr) VarRef { return VarRef{Name: name, Subs: subs} }

func vr(name string, subs ...Expr) Expr { return &VarExpr{Ref: ref(name, subs...)} }

func bin(op string, l, r Expr) Expr { return &BinaryExpr{Op: op, Left: l, Right: r} }

func rel(op string, l, r Expr) *RelExpr { return &RelExpr{Op: op, Left: l, Right: r} }

func let(name string, value Expr, subs ...Expr) Statement {
	return &LetStmt{Target: ref(name, subs...), Value: value}
}

func printItems(term string, items ...PrintItem) Statement {
	return &PrintStmt{Items: items, Terminator: term}
}

func pv(e Expr) PrintItem { return PrintItem{Value: e} }

func ifGoto(cond *RelExpr, line int) Statement {
	return &IfStmt{Cond: cond, Target: IfTarget{Kind: TargetLine, Line: line}}
}

func ifBreak(cond *RelExpr) Statement {
	return &IfStmt{Cond: cond, Target: IfTarget{Kind: TargetBreak}}
}

func ifContinue(cond *RelExpr) Statement {
	return &IfStmt{Cond: cond, Target: IfTarget{Kind: TargetContinue}}
}

type line struct {
	no   int
	stmt Statement
}

func makeProgram(lines ...line) *Program {
	prog := NewProgram()
	for _, l := range lines {
		prog.Insert(l.no, l.stmt)
	}
	return prog
}

type result struct {
	out   string
	diag  string
	stats Stats
	err   error
	in    *Interpreter
}

func runLines(t *testing.T, lines ...line) result {
	t.Helper()

	var out, diag bytes.Buffer

	in := NewInterpreter(makeProgram(lines...), Options{
		Output:      &out,
		Diagnostics: &diag,
		Seed:        1,
	})

	stats, err := in.Run()

	return result{out: out.String(), diag: diag.String(), stats: stats, err: err, in: in}
}

// newTestInterpreter gives an interpreter with fresh storage and no program,
// for exercising the evaluator directly.
func newTestInterpreter() (*Interpreter, *bytes.Buffer) {
	var out bytes.Buffer

	in := NewInterpreter(nil, Options{Output: &out, Seed: 1})
	in.initializeRun()

	return in, &out
}

// catchFault runs f and returns the fault it raised, or nil.
func catchFault(t *testing.T, f func()) (fault *Fault) {
	t.Helper()

	defer func() {
		if e := recover(); e != nil {
			info, ok := e.(*runtimeErrorInfo)
			if !ok {
				panic(e)
			}
			fault = &info.fault
		}
	}()

	f()

	return nil
}
