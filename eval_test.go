package basic

import (
	"errors"
	"math"
	"testing"
)

func TestEvalArithmetic(t *testing.T) {
	tests := []struct {
		name string
		expr Expr
		want Value
	}{
		{"int add", bin("+", num(2), num(3)), int64(5)},
		{"int sub", bin("-", num(2), num(3)), int64(-1)},
		{"int mul", bin("*", num(4), num(3)), int64(12)},
		{"mixed add", bin("+", num(2), num(0.5)), 2.5},
		{"division is real", bin("/", num(6), num(3)), 2.0},
		{"fractional division", bin("/", num(1), num(4)), 0.25},
		{"int power", bin("^", num(2), num(10)), int64(1024)},
		{"power drops sign", bin("^", num(-2), num(3)), int64(8)},
		{"negative exponent", bin("^", num(2), num(-1)), 0.5},
		{"real power", bin("^", num(4), num(0.5)), 2.0},
		{"unary minus", &UnaryExpr{Op: "-", Inner: num(7)}, int64(-7)},
		{"unary plus", &UnaryExpr{Op: "+", Inner: num(1.5)}, 1.5},
		{"group", &GroupExpr{Inner: bin("+", num(1), num(1))}, int64(2)},
		{"concatenate", bin("+", str("AB"), str("CD")), "ABCD"},
		{"int literal normalized", num(int32(9)), int64(9)},
	}

	in, _ := newTestInterpreter()

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := in.eval(tc.expr)
			if got != tc.want {
				t.Fatalf("eval = %#v, want %#v", got, tc.want)
			}
		})
	}
}

func TestEvalIntegerOverflow(t *testing.T) {
	tests := []struct {
		name string
		expr Expr
		want Value
	}{
		{"add overflows", bin("+", num(int64(math.MaxInt64)), num(1)), float64(1 << 63)},
		{"add at the limit", bin("+", num(int64(math.MaxInt64-1)), num(1)), int64(math.MaxInt64)},
		{"sub overflows", bin("-", num(int64(math.MinInt64)), num(1)), -float64(1 << 63)},
		{"sub at the limit", bin("-", num(int64(math.MinInt64+1)), num(1)), int64(math.MinInt64)},
		{"mul overflows", bin("*", num(3037000500), num(3037000500)), float64(3037000500) * 3037000500},
		{"mul at the limit", bin("*", num(3037000499), num(3037000499)), int64(9223372030926249001)},
		{"mul MinInt64 by -1", bin("*", num(int64(math.MinInt64)), num(-1)), float64(1 << 63)},
		{"negate MinInt64", &UnaryExpr{Op: "-", Inner: num(int64(math.MinInt64))}, float64(1 << 63)},
		{"power stays exact", bin("^", num(3), num(39)), int64(4052555153018976267)},
		{"power overflows", bin("^", num(2), num(63)), float64(1 << 63)},
		{"power of MinInt64", bin("^", num(int64(math.MinInt64)), num(1)), float64(1 << 63)},
	}

	in, _ := newTestInterpreter()

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := in.eval(tc.expr)
			if got != tc.want {
				t.Fatalf("eval = %#v, want %#v", got, tc.want)
			}
		})
	}
}

func TestEvalFaults(t *testing.T) {
	tests := []struct {
		name string
		expr Expr
		want error
	}{
		{"divide by zero", bin("/", num(1), num(0)), ErrDivisionByZero},
		{"zero to negative power", bin("^", num(0), num(-1)), ErrDivisionByZero},
		{"string minus", bin("-", str("A"), num(1)), ErrTypeMismatch},
		{"string plus number", bin("+", str("A"), num(1)), ErrTypeMismatch},
		{"number plus string", bin("+", num(1), str("A")), ErrTypeMismatch},
		{"negate string", &UnaryExpr{Op: "-", Inner: str("A")}, ErrTypeMismatch},
		{"undefined scalar", vr("Q"), ErrUndefinedVariable},
		{"undefined list", vr("Q", num(1)), ErrUndefinedVariable},
		{"undefined table", vr("Q", num(1), num(1)), ErrUndefinedVariable},
		{"keys of non-dict", &DictFuncExpr{Dict: "Q", Func: DictKeys}, ErrUndefinedVariable},
		{"log of zero", vr("LOG", num(0)), ErrFunctionArgument},
		{"sqr of negative", vr("SQR", num(-1)), ErrFunctionArgument},
		{"exp overflow", vr("EXP", num(1000)), ErrFunctionArgument},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in, _ := newTestInterpreter()
			fault := catchFault(t, func() { in.eval(tc.expr) })
			if fault == nil {
				t.Fatalf("expected %v, got no fault", tc.want)
			}
			if !errors.Is(fault, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, fault)
			}
		})
	}
}

func TestEvalReadBounds(t *testing.T) {
	in, _ := newTestInterpreter()
	in.processDimStmt(&DimStmt{Entries: []DimEntry{{Name: "A", Rows: 3}, {Name: "T", Rows: 2, Cols: 2}}})

	for _, idx := range []int{0, -1, 4} {
		fault := catchFault(t, func() { in.eval(vr("A", num(idx))) })
		if !errors.Is(fault, ErrIndexOutOfBounds) {
			t.Errorf("A(%d): expected ErrIndexOutOfBounds, got %v", idx, fault)
		}
	}

	for _, sub := range [][2]int{{0, 1}, {1, 0}, {3, 1}, {1, 3}} {
		fault := catchFault(t, func() { in.eval(vr("T", num(sub[0]), num(sub[1]))) })
		if !errors.Is(fault, ErrIndexOutOfBounds) {
			t.Errorf("T(%d,%d): expected ErrIndexOutOfBounds, got %v", sub[0], sub[1], fault)
		}
	}

	if got := in.eval(vr("A", num(3))); got != int64(0) {
		t.Fatalf("A(3) = %#v, want 0", got)
	}
	if got := in.eval(vr("A", num(2.9))); got != int64(0) {
		t.Fatalf("A(2.9) = %#v, want 0", got)
	}
}

func TestEvalWholeListIsCopy(t *testing.T) {
	in, _ := newTestInterpreter()
	in.assign(ref("A", num(1)), num(5))

	got, ok := in.eval(vr("A")).([]Value)
	if !ok || len(got) != maxImplicitSubscript || got[0] != int64(5) {
		t.Fatalf("A = %#v", got)
	}

	got[0] = int64(99)
	if in.r.lists["A"][0] != int64(5) {
		t.Fatalf("modifying the copy changed the list")
	}
}

func TestScalarShadowsList(t *testing.T) {
	in, _ := newTestInterpreter()
	in.assign(ref("A"), num(1))
	in.assign(ref("A", num(2)), num(20))
	in.assign(ref("A", num(1), num(1)), num(30))

	if got := in.eval(vr("A")); got != int64(1) {
		t.Fatalf("A = %#v, want 1", got)
	}
	if got := in.eval(vr("A", num(2))); got != int64(20) {
		t.Fatalf("A(2) = %#v, want 20", got)
	}
	if got := in.eval(vr("A", num(1), num(1))); got != int64(30) {
		t.Fatalf("A(1,1) = %#v, want 30", got)
	}
}

func TestRelational(t *testing.T) {
	tests := []struct {
		op   string
		l, r Expr
		want int64
	}{
		{OpLT, num(1), num(2), 1},
		{OpLT, num(2), num(2), 0},
		{OpLE, num(2), num(2), 1},
		{OpGT, num(2.5), num(2), 1},
		{OpGE, num(1), num(2), 0},
		{OpEQ, num(2), num(2.0), 1},
		{OpNE, num(2), num(3), 1},
		{OpLT, str("A"), str("B"), 1},
		{OpEQ, str("A"), str("A"), 1},
		{OpEQ, num(1), str("1"), 0},
		{OpNE, num(1), str("1"), 1},
	}

	in, _ := newTestInterpreter()

	for _, tc := range tests {
		if got := in.releval(rel(tc.op, tc.l, tc.r)); got != tc.want {
			t.Errorf("%v %s %v = %d, want %d", tc.l, tc.op, tc.r, got, tc.want)
		}
	}

	fault := catchFault(t, func() { in.releval(rel(OpLT, num(1), str("A"))) })
	if !errors.Is(fault, ErrTypeMismatch) {
		t.Fatalf("ordering a number against a string: got %v", fault)
	}
}

func TestUserFunction(t *testing.T) {
	in, _ := newTestInterpreter()
	in.r.functions["SQ"] = &funcDef{param: "X", body: bin("*", vr("X"), vr("X"))}

	if got := in.eval(vr("SQ", num(7))); got != int64(49) {
		t.Fatalf("SQ(7) = %#v, want 49", got)
	}

	// The parameter lands in the ordinary scalar map.
	if got := in.r.vars["X"]; got != int64(7) {
		t.Fatalf("X after call = %#v, want 7", got)
	}
}

func TestFunctionWinsOverList(t *testing.T) {
	in, _ := newTestInterpreter()
	in.processDimStmt(&DimStmt{Entries: []DimEntry{{Name: "ABS", Rows: 3}}})

	if got := in.eval(vr("ABS", num(-4))); got != int64(4) {
		t.Fatalf("ABS(-4) = %#v, want 4", got)
	}
}

func TestBuiltins(t *testing.T) {
	in, _ := newTestInterpreter()

	checks := []struct {
		expr Expr
		want Value
	}{
		{vr("ABS", num(-3)), int64(3)},
		{vr("ABS", num(-2.5)), 2.5},
		{vr("INT", num(3.7)), int64(3)},
		{vr("INT", num(-3.7)), int64(-3)},
		{vr("SQR", num(16)), 4.0},
		{vr("LOG", num(1)), 0.0},
		{vr("SIN", num(0)), 0.0},
		{vr("COS", num(0)), 1.0},
		{vr("ATN", num(0)), 0.0},
		{vr("EXP", num(0)), 1.0},
	}

	for _, c := range checks {
		if got := in.eval(c.expr); got != c.want {
			t.Errorf("%v = %#v, want %#v", c.expr.(*VarExpr).Ref.Name, got, c.want)
		}
	}

	r, ok := in.eval(vr("RND", num(0))).(float64)
	if !ok || r < 0 || r >= 1 || math.IsNaN(r) {
		t.Fatalf("RND = %v", r)
	}
}

func TestRndSeeded(t *testing.T) {
	a, _ := newTestInterpreter()
	b, _ := newTestInterpreter()

	for i := 0; i < 5; i++ {
		x, y := a.eval(vr("RND", num(1))), b.eval(vr("RND", num(1)))
		if x != y {
			t.Fatalf("same seed gave %v and %v", x, y)
		}
	}
}
