package basic

import (
	"math"
)

//
// The built-in function table.  Each entry is handed the unevaluated
// argument expression and evaluates it itself
//

func builtinFunctions() map[string]*funcDef {

	return map[string]*funcDef{
		"SIN": numericFunction("SIN", math.Sin),
		"COS": numericFunction("COS", math.Cos),
		"TAN": numericFunction("TAN", math.Tan),
		"ATN": numericFunction("ATN", math.Atan),
		"EXP": numericFunction("EXP", math.Exp),
		"LOG": {native: computeLog},
		"SQR": {native: computeSqr},
		"ABS": {native: computeAbs},
		"INT": {native: computeInt},
		"RND": {native: computeRnd},
	}
}

func numericFunction(name string, f func(float64) float64) *funcDef {

	return &funcDef{native: func(in *Interpreter, arg Expr) Value {
		x := in.evalFloat(arg)
		res := f(x)

		in.runtimeCheck(!math.IsInf(res, 0) && !math.IsNaN(res),
			ErrFunctionArgument, "%s(%s)", name, formatValue(x))

		return res
	}}
}

func computeLog(in *Interpreter, arg Expr) Value {

	x := in.evalFloat(arg)

	in.runtimeCheck(x > 0, ErrFunctionArgument, "LOG(%s)", formatValue(x))

	return math.Log(x)
}

func computeSqr(in *Interpreter, arg Expr) Value {

	x := in.evalFloat(arg)

	in.runtimeCheck(x >= 0, ErrFunctionArgument, "SQR(%s)", formatValue(x))

	return math.Sqrt(x)
}

//
// ABS and INT keep integers integral
//

func computeAbs(in *Interpreter, arg Expr) Value {

	v := in.eval(arg)

	in.requireNumber(v)

	if i, ok := v.(int64); ok {
		if i < 0 {
			return -i
		}
		return i
	}

	return math.Abs(v.(float64))
}

func computeInt(in *Interpreter, arg Expr) Value {

	v := in.eval(arg)

	in.requireNumber(v)

	if i, ok := v.(int64); ok {
		return i
	}

	f := math.Trunc(v.(float64))

	in.runtimeCheck(math.Abs(f) < math.MaxInt64, ErrFunctionArgument,
		"INT(%s)", formatValue(v))

	return int64(f)
}

//
// RND ignores its argument
//

func computeRnd(in *Interpreter, arg Expr) Value {

	return in.r.rng.Float64()
}
