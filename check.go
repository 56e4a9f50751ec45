package basic

import (
	"fortio.org/log"
)

//
// The pre-pass.  Before anything executes we collect DATA, check for
// a single END as the last statement, and pair every FOR/WHILE with
// its NEXT.  Faults are accumulated rather than raised, so one run
// reports every problem it can find
//

func (in *Interpreter) processDeclarations() {

	in.collectData()

	in.checkEnd()

	in.checkLoops()
}

func (in *Interpreter) collectData() {

	in.r.dataList = nil

	for _, stmt := range in.r.stmts {
		if data, ok := stmt.(*DataStmt); ok {
			in.r.dataList = append(in.r.dataList, data.Values...)
		}
	}

	in.r.dataIndex = 0

	log.Debugf("collected %d DATA items", len(in.r.dataList))
}

//
// Only the first END counts.  If there is a second one, the first
// cannot be last, which is how "exactly one END" gets enforced
//

func (in *Interpreter) checkEnd() {

	endPC := -1

	for pc, stmt := range in.r.stmts {
		if _, ok := stmt.(*EndStmt); ok {
			endPC = pc
			break
		}
	}

	if endPC < 0 {
		in.validationFault(0, ErrMissingEnd, "")
		return
	}

	if endPC != len(in.r.stmts)-1 {
		in.validationFault(in.r.lines[endPC], ErrEndNotLast, "")
	}
}

func (in *Interpreter) checkLoops() {

	for pc, stmt := range in.r.stmts {
		loopVar, isLoop, ok := getLoopVar(stmt)
		if !isLoop {
			continue
		}

		if !ok {
			in.validationFault(in.r.lines[pc], ErrBadLoopCondition, "")
			continue
		}

		if !in.findNext(pc, loopVar) {
			in.validationFault(in.r.lines[pc], ErrUnmatchedLoop, "")
		}
	}
}

//
// Scan forward from the loop at pc for its NEXT.  Any BREAK seen on
// the way resumes just past that NEXT.  Loops are resolved in
// ascending order, so a BREAK inside a nested loop ends up mapped to
// the innermost loop, which is resolved last
//

func (in *Interpreter) findNext(pc int, loopVar string) bool {

	var breaks []int

	for i := pc + 1; i < len(in.r.stmts); i++ {
		switch stmt := in.r.stmts[i].(type) {
		case *IfStmt:
			if stmt.Target.Kind == TargetBreak {
				breaks = append(breaks, i)
			}

		case *NextStmt:
			if loopVar != "" && stmt.Var != "" && stmt.Var != loopVar {
				continue
			}

			in.r.loopEnd[pc] = i

			for _, b := range breaks {
				in.r.loopEnd[b] = i + 1
			}

			log.LogVf("loop at line %d ends at line %d (%d BREAK)",
				in.r.lines[pc], in.r.lines[i], len(breaks))

			return true
		}
	}

	return false
}

//
// Extract the control variable of a loop opening statement.  isLoop is
// false for anything but FOR and WHILE.  An always-true WHILE has no
// control variable.  ok is false when a WHILE condition does not test
// a plain variable
//

func getLoopVar(stmt Statement) (loopVar string, isLoop bool, ok bool) {

	switch stmt := stmt.(type) {
	case *ForStmt:
		return stmt.Var, true, true

	case *WhileStmt:
		if stmt.Cond == nil {
			return "", true, true
		}

		v, isVar := stmt.Cond.Left.(*VarExpr)
		if !isVar || len(v.Ref.Subs) != 0 {
			return "", true, false
		}

		return v.Ref.Name, true, true
	}

	return "", false, false
}
