package basic

import (
	"math"
	"slices"
	"strings"

	"fortio.org/log"
)

//
// Evaluate an expression tree against the current storage.  Nothing
// here writes storage, except that calling a user defined function
// binds its parameter, exactly as an assignment would
//

func (in *Interpreter) eval(expr Expr) Value {

	switch e := expr.(type) {
	default:
		fatalError("unexpected expression %T", expr)

	case *NumberExpr:
		return normalizeNumber(e.Value)

	case *StringExpr:
		return e.Value

	case *GroupExpr:
		return in.eval(e.Inner)

	case *UnaryExpr:
		v := in.eval(e.Inner)
		switch e.Op {
		default:
			fatalError("unexpected unary operator %q", e.Op)

		case "+":
			in.requireNumber(v)
			return v

		case "-":
			return in.negate(v)
		}

	case *BinaryExpr:
		return in.computeBinop(e.Op, in.eval(e.Left), in.eval(e.Right))

	case *VarExpr:
		return in.evalVar(e.Ref)

	case *DictExpr:
		d := NewDict()
		for _, entry := range e.Entries {
			d.Set(entry.Key, in.eval(entry.Value))
		}
		return d

	case *DictFuncExpr:
		d := in.lookupDict(e.Dict)
		if e.Func == DictKeys {
			return d.Keys()
		}
		return d.Values()
	}

	panic(nil) // avoid compiler complaint
}

//
// The number of subscripts picks the storage.  With one subscript a
// function wins over a list, and a list wins over a dict
//

func (in *Interpreter) evalVar(ref VarRef) Value {

	name := ref.Name

	switch len(ref.Subs) {
	default:
		fatalError("%d subscripts on %s", len(ref.Subs), name)

	case 0:
		if v, ok := in.r.vars[name]; ok {
			return v
		}

		if list, ok := in.r.lists[name]; ok {
			return slices.Clone(list)
		}

		in.runtimeError(ErrUndefinedVariable, "%s", name)

	case 1:
		sub := ref.Subs[0]

		if fn, ok := in.r.functions[name]; ok {
			return in.callFunction(name, fn, sub)
		}

		if list, ok := in.r.lists[name]; ok {
			idx := in.evalIndex(sub)
			in.runtimeCheck(idx >= 1 && idx <= len(list),
				ErrIndexOutOfBounds, "%s(%d)", name, idx)
			return list[idx-1]
		}

		if key, ok := sub.(*StringExpr); ok {
			d := in.lookupDict(name)
			v, found := d.Get(key.Value)
			in.runtimeCheck(found, ErrUndefinedKey, "%s(%q)", name, key.Value)
			return v
		}

		in.runtimeError(ErrUndefinedVariable, "%s", name)

	case 2:
		table, ok := in.r.tables[name]
		in.runtimeCheck(ok, ErrUndefinedVariable, "%s", name)

		row := in.evalIndex(ref.Subs[0])
		col := in.evalIndex(ref.Subs[1])
		rows, cols := tableBounds(table)

		in.runtimeCheck(row >= 1 && row <= rows && col >= 1 && col <= cols,
			ErrIndexOutOfBounds, "%s(%d,%d)", name, row, col)

		return table[row-1][col-1]
	}

	panic(nil) // avoid compiler complaint
}

//
// Built-ins evaluate their own argument.  A user function binds the
// unevaluated argument to its parameter in the scalar map, then
// evaluates its body, so calls may recurse
//

func (in *Interpreter) callFunction(name string, fn *funcDef, arg Expr) Value {

	if fn.native != nil {
		return fn.native(in, arg)
	}

	log.LogVf("call %s(%s)", name, fn.param)

	in.assign(VarRef{Name: fn.param}, arg)

	return in.eval(fn.body)
}

//
// Evaluate a relational expression, returning 1 or 0
//

func (in *Interpreter) releval(rel *RelExpr) int64 {

	lhs := in.eval(rel.Left)
	rhs := in.eval(rel.Right)

	if in.compareValues(rel.Op, lhs, rhs) {
		return 1
	}

	return 0
}

//
// Numbers compare numerically and strings lexically.  A number never
// equals a string, and ordering one against the other is a type
// mismatch.  Lists and dicts only support = and <>
//

func (in *Interpreter) compareValues(op string, lhs, rhs Value) bool {

	switch op {
	default:
		fatalError("unexpected relational operator %q", op)

	case OpEQ:
		return valuesEqual(lhs, rhs)

	case OpNE:
		return !valuesEqual(lhs, rhs)

	case OpLT, OpLE, OpGT, OpGE:
	}

	var c int

	if isNumber(lhs) && isNumber(rhs) {
		c = compareNumbers(lhs, rhs)
	} else {
		ls, lok := lhs.(string)
		rs, rok := rhs.(string)
		in.runtimeCheck(lok && rok, ErrTypeMismatch, "%s %s %s",
			typeName(lhs), op, typeName(rhs))
		c = strings.Compare(ls, rs)
	}

	switch op {
	case OpLT:
		return c < 0
	case OpLE:
		return c <= 0
	case OpGT:
		return c > 0
	default:
		return c >= 0
	}
}

func compareNumbers(lhs, rhs Value) int {

	li, lok := lhs.(int64)
	ri, rok := rhs.(int64)

	if lok && rok {
		switch {
		case li < ri:
			return -1
		case li > ri:
			return 1
		}
		return 0
	}

	lf, rf := toFloat(lhs), toFloat(rhs)

	switch {
	case lf < rf:
		return -1
	case lf > rf:
		return 1
	}

	return 0
}

func valuesEqual(lhs, rhs Value) bool {

	if isNumber(lhs) && isNumber(rhs) {
		return compareNumbers(lhs, rhs) == 0 && !math.IsNaN(toFloat(lhs))
	}

	switch l := lhs.(type) {
	case string:
		r, ok := rhs.(string)
		return ok && l == r

	case []Value:
		r, ok := rhs.([]Value)
		return ok && slices.EqualFunc(l, r, valuesEqual)

	case *Dict:
		r, ok := rhs.(*Dict)
		if !ok || l.Len() != r.Len() {
			return false
		}
		for _, k := range l.keys {
			rv, found := r.vals[k]
			if !found || !valuesEqual(l.vals[k], rv) {
				return false
			}
		}
		return true
	}

	return false
}

//
// Arithmetic.  Two integers stay integral for + - * and for ^ with a
// non-negative exponent, unless the result leaves int64, in which case
// it is computed as a real.  / is always real.  ^ drops the sign of its
// base: abs(left) ^ right
//

func (in *Interpreter) computeBinop(op string, lhs, rhs Value) Value {

	if ls, ok := lhs.(string); ok && op == "+" {
		rs, ok := rhs.(string)
		in.runtimeCheck(ok, ErrTypeMismatch, "%s + %s", typeName(lhs),
			typeName(rhs))
		return ls + rs
	}

	in.runtimeCheck(isNumber(lhs) && isNumber(rhs), ErrTypeMismatch,
		"%s %s %s", typeName(lhs), op, typeName(rhs))

	li, lok := lhs.(int64)
	ri, rok := rhs.(int64)
	bothInt := lok && rok

	switch op {
	default:
		fatalError("unexpected binary operator %q", op)

	case "+":
		if bothInt {
			if sum, ok := addInt(li, ri); ok {
				return sum
			}
		}
		return toFloat(lhs) + toFloat(rhs)

	case "-":
		if bothInt {
			if diff, ok := subInt(li, ri); ok {
				return diff
			}
		}
		return toFloat(lhs) - toFloat(rhs)

	case "*":
		if bothInt {
			if prod, ok := mulInt(li, ri); ok {
				return prod
			}
		}
		return toFloat(lhs) * toFloat(rhs)

	case "/":
		divisor := toFloat(rhs)
		in.runtimeCheck(divisor != 0, ErrDivisionByZero, "")
		return toFloat(lhs) / divisor

	case "^":
		base := math.Abs(toFloat(lhs))
		exp := toFloat(rhs)
		in.runtimeCheck(base != 0 || exp >= 0, ErrDivisionByZero, "")
		if bothInt && ri >= 0 && li != math.MinInt64 {
			if li < 0 {
				li = -li
			}
			if res, ok := powInt(li, ri); ok {
				return res
			}
		}
		return math.Pow(base, exp)
	}

	panic(nil) // avoid compiler complaint
}

//
// Checked int64 arithmetic.  The bool is false when the true result
// does not fit
//

func addInt(a, b int64) (int64, bool) {

	sum := a + b

	return sum, (sum > a) == (b > 0)
}

func subInt(a, b int64) (int64, bool) {

	diff := a - b

	return diff, (diff < a) == (b > 0)
}

func mulInt(a, b int64) (int64, bool) {

	if a == 0 || b == 0 {
		return 0, true
	}

	// MinInt64 / -1 wraps back to MinInt64, so the division test misses it
	if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, false
	}

	prod := a * b

	return prod, prod/b == a
}

//
// Square and multiply.  Squaring the base only overflows when a later
// multiply would have overflowed anyway
//

func powInt(base, exp int64) (int64, bool) {

	result := int64(1)

	for exp > 0 {
		var ok bool

		if exp&1 == 1 {
			if result, ok = mulInt(result, base); !ok {
				return 0, false
			}
		}

		exp >>= 1

		if exp > 0 {
			if base, ok = mulInt(base, base); !ok {
				return 0, false
			}
		}
	}

	return result, true
}

//
// Integers up to 2^53 survive a trip through float64 unchanged
//

const maxExactInt = 1 << 53

func (in *Interpreter) negate(v Value) Value {

	switch v := v.(type) {
	case int64:
		if v == math.MinInt64 {
			return -float64(v)
		}
		return -v
	case float64:
		return -v
	}

	in.runtimeError(ErrTypeMismatch, "-%s", typeName(v))

	panic(nil) // avoid compiler complaint
}

//
// Subscripts are truncated toward zero, as BASIC does for any real
// used where an integer is needed
//

func (in *Interpreter) evalIndex(expr Expr) int {

	v := in.eval(expr)

	switch v := v.(type) {
	case int64:
		return int(v)
	case float64:
		in.runtimeCheck(!math.IsNaN(v) && math.Abs(v) < maxExactInt,
			ErrIndexOutOfBounds, "%s", formatValue(v))
		return int(v)
	}

	in.runtimeError(ErrTypeMismatch, "subscript %s", typeName(v))

	panic(nil) // avoid compiler complaint
}

func (in *Interpreter) evalFloat(expr Expr) float64 {

	v := in.eval(expr)

	in.requireNumber(v)

	return toFloat(v)
}

func (in *Interpreter) requireNumber(v Value) {

	in.runtimeCheck(isNumber(v), ErrTypeMismatch, "%s is not a number",
		typeName(v))
}

//
// Numbers can arrive as any Go integer type from callers building
// their own trees; inside the interpreter they are int64 or float64
//

func normalizeNumber(v Value) Value {

	switch n := v.(type) {
	case int:
		return int64(n)
	case int8:
		return int64(n)
	case int16:
		return int64(n)
	case int32:
		return int64(n)
	case uint8:
		return int64(n)
	case uint16:
		return int64(n)
	case uint32:
		return int64(n)
	case float32:
		return float64(n)
	}

	return v
}

func isNumber(v Value) bool {

	switch v.(type) {
	case int64, float64:
		return true
	}

	return false
}

func isNegative(v Value) bool {

	return isNumber(v) && toFloat(v) < 0
}

func toFloat(v Value) float64 {

	switch v := v.(type) {
	case int64:
		return float64(v)
	case float64:
		return v
	}

	fatalError("toFloat of %T", v)

	panic(nil) // avoid compiler complaint
}

func typeName(v Value) string {

	switch v.(type) {
	case int64, float64:
		return "number"
	case string:
		return "string"
	case []Value:
		return "list"
	case *Dict:
		return "dict"
	}

	return "nothing"
}
