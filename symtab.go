package basic

import (
	"fortio.org/log"
)

//
// Storage is four disjoint maps.  A name may live in more than one of
// them at once: X, X(1) and X(1,2) are three different variables, and
// the number of subscripts on each use decides which is meant
//

func (in *Interpreter) initSymbolTable() {

	in.r.vars = make(map[string]Value)
	in.r.lists = make(map[string][]Value)
	in.r.tables = make(map[string][][]Value)
	in.r.functions = builtinFunctions()
}

//
// Assign the value of expr to the target.  Writes only check the
// upper bound of a subscript; a subscript of 0 or less counts back
// from the end of the row, the way reads never allow
//

func (in *Interpreter) assign(target VarRef, expr Expr) {

	name := target.Name

	switch len(target.Subs) {
	default:
		fatalError("%d subscripts on %s", len(target.Subs), name)

	case 0:
		val := in.eval(expr)
		in.traceVar(name, nil, in.r.vars[name], val)
		in.r.vars[name] = val

	case 1:
		sub := target.Subs[0]

		if key, ok := sub.(*StringExpr); ok {
			d := in.lookupDict(name)
			val := in.eval(expr)
			old, _ := d.Get(key.Value)
			in.traceVar(name, []any{key.Value}, old, val)
			d.Set(key.Value, val)
			return
		}

		idx := in.evalIndex(sub)

		list, ok := in.r.lists[name]
		if !ok {
			list = createList(maxImplicitSubscript)
			in.r.lists[name] = list
		}

		in.runtimeCheck(idx <= len(list), ErrDimensionTooLarge, "%s(%d)",
			name, idx)

		val := in.eval(expr)
		pos := in.writeOffset(name, idx, len(list))

		in.traceVar(name, []any{idx}, list[pos], val)
		list[pos] = val

	case 2:
		row := in.evalIndex(target.Subs[0])
		col := in.evalIndex(target.Subs[1])

		table, ok := in.r.tables[name]
		if !ok {
			table = createTable(maxImplicitSubscript, maxImplicitSubscript)
			in.r.tables[name] = table
		}

		rows, cols := tableBounds(table)

		in.runtimeCheck(row <= rows && col <= cols, ErrDimensionTooLarge,
			"%s(%d,%d)", name, row, col)

		val := in.eval(expr)
		rpos := in.writeOffset(name, row, rows)
		cpos := in.writeOffset(name, col, cols)

		in.traceVar(name, []any{row, col}, table[rpos][cpos], val)
		table[rpos][cpos] = val
	}
}

//
// Turn a 1-based subscript that passed the upper bound check into a
// slice offset.  Offsets below zero wrap around from the end; only
// one wrap is possible before it is out of range
//

func (in *Interpreter) writeOffset(name string, idx, n int) int {

	pos := idx - 1
	if idx < 1 {
		pos = idx + n - 1
	}

	in.runtimeCheck(pos >= 0, ErrIndexOutOfBounds, "%s(%d)", name, idx)

	return pos
}

func (in *Interpreter) assignScalar(name string, val Value) {

	in.traceVar(name, nil, in.r.vars[name], val)

	in.r.vars[name] = val
}

func (in *Interpreter) lookupScalar(name string) Value {

	v, ok := in.r.vars[name]

	in.runtimeCheck(ok, ErrUndefinedVariable, "%s", name)

	return v
}

//
// The name must already hold a dict in the scalar map
//

func (in *Interpreter) lookupDict(name string) *Dict {

	d, ok := in.r.vars[name].(*Dict)

	in.runtimeCheck(ok, ErrUndefinedVariable, "%s", name)

	return d
}

//
// DIM replaces any existing list or table of the same name
//

func (in *Interpreter) processDimStmt(stmt *DimStmt) {

	for _, dim := range stmt.Entries {
		in.runtimeCheck(dim.Rows >= 0 && dim.Cols >= 0,
			ErrIndexOutOfBounds, "DIM %s(%d,%d)", dim.Name, dim.Rows,
			dim.Cols)

		if dim.Cols == 0 {
			in.r.lists[dim.Name] = createList(dim.Rows)
			log.LogVf("DIM %s(%d)", dim.Name, dim.Rows)
		} else {
			in.r.tables[dim.Name] = createTable(dim.Rows, dim.Cols)
			log.LogVf("DIM %s(%d,%d)", dim.Name, dim.Rows, dim.Cols)
		}
	}
}

//
// Lists and tables start out zero-filled
//

func createList(n int) []Value {

	list := make([]Value, n)
	for i := range list {
		list[i] = int64(0)
	}

	return list
}

func createTable(rows, cols int) [][]Value {

	table := make([][]Value, rows)
	for i := range table {
		table[i] = createList(cols)
	}

	return table
}

func tableBounds(table [][]Value) (int, int) {

	if len(table) == 0 {
		return 0, 0
	}

	return len(table), len(table[0])
}
