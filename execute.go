package basic

import (
	"fmt"
	"math/rand"
	"time"

	"fortio.org/log"
)

func NewInterpreter(prog *Program, opts Options) *Interpreter {

	if prog == nil {
		prog = NewProgram()
	}

	return &Interpreter{prog: prog, opts: opts}
}

//
// Run executes the program from its lowest line until END, STOP,
// running off the end, or READ running out of data.  All storage is
// rebuilt first, so successive runs do not see each other.  A
// *ValidationError means nothing executed; a *RuntimeError is the
// fault that stopped execution.  Either way the diagnostic has already
// been written to Options.Diagnostics
//

func (in *Interpreter) Run() (stats Stats, err error) {

	in.initializeRun()

	defer func() {
		if e := recover(); e != nil {
			err = in.decodePanic(e)
		}

		stats = in.finishStatistics()

		log.Debugf("run finished after %d statements (err %v)",
			stats.Statements, err)
	}()

	//
	// Process DATA, END and loop structure
	//

	in.processDeclarations()

	if len(in.r.faults) != 0 {
		return stats, &ValidationError{Faults: in.r.faults}
	}

	in.executeRunInternal()

	return stats, nil
}

func (in *Interpreter) initializeRun() {

	lines, stmts := in.prog.Snapshot()

	seed := in.opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	in.r = run{
		lines:     lines,
		stmts:     stmts,
		lineIndex: make(map[int]int, len(lines)),
		loopEnd:   make(map[int]int),
		rng:       rand.New(rand.NewSource(seed)),
	}

	for pc, line := range lines {
		in.r.lineIndex[line] = pc
	}

	in.initSymbolTable()

	in.initClock()

	log.Debugf("run starting: %d statements", len(stmts))
}

//
// Only a runtime fault is ours to turn into an error.  Anything else
// is an interpreter bug and keeps unwinding
//

func (in *Interpreter) decodePanic(e any) error {

	switch e := e.(type) {
	default:
		panic(e)

	case *basicErrorInfo:
		panic(fmt.Sprintf("basic: internal error at line %d: %s",
			in.curLine(), e.msg))

	case *runtimeErrorInfo:
		rerr := &RuntimeError{Fault: e.fault}
		in.printDiagnostic(rerr.Error())
		return rerr
	}
}

func (in *Interpreter) executeRunInternal() {

	for in.r.pc != haltPC && in.r.pc < len(in.r.stmts) {
		stmt := in.r.stmts[in.r.pc]

		in.traceStmt(stmt)

		in.r.stats.Statements++

		in.r.pc = in.executeStmt(stmt)
	}
}

//
// Execute one statement and return the pc of the next one, or haltPC.
// Anything that does not transfer control falls through to pc+1
//

func (in *Interpreter) executeStmt(stmt Statement) int {

	switch stmt := stmt.(type) {
	default:
		fatalError("unexpected statement %T", stmt)

	case *EndStmt, *StopStmt:
		return haltPC

	case *GotoStmt:
		return in.executeGoto(stmt.Line)

	case *PrintStmt:
		in.executePrint(stmt)

	case *LetStmt:
		in.assign(stmt.Target, stmt.Value)

	case *ReadStmt:
		if !in.executeRead(stmt) {
			return haltPC
		}

	case *IfStmt:
		return in.executeIf(stmt)

	case *ForStmt:
		return in.executeFor(stmt)

	case *WhileStmt:
		return in.executeWhile(stmt)

	case *NextStmt:
		return in.executeNext(stmt)

	case *GosubStmt:
		return in.executeGosub(stmt)

	case *ReturnStmt:
		return in.executeReturn()

	case *FuncStmt:
		in.r.functions[stmt.Name] = &funcDef{param: stmt.Param, body: stmt.Body}

	case *DimStmt:
		in.processDimStmt(stmt)

	case *OopStmt:
		in.executeOop(stmt)

	//
	// DATA was consumed by the pre-pass
	//

	case *DataStmt, *RemStmt:
		// nothing to do
	}

	return in.r.pc + 1
}

func (in *Interpreter) executeGoto(stmtNo int) int {

	pc, ok := in.r.lineIndex[stmtNo]

	in.runtimeCheck(ok, ErrUndefinedLine, "%d", stmtNo)

	return pc
}

//
// READ stops the program, quietly, the moment the data runs out.
// Targets before that point keep what they were given
//

func (in *Interpreter) executeRead(stmt *ReadStmt) bool {

	for _, target := range stmt.Targets {
		if in.r.dataIndex >= len(in.r.dataList) {
			log.LogVf("out of DATA at line %d", in.curLine())
			return false
		}

		in.assign(target, &NumberExpr{Value: in.r.dataList[in.r.dataIndex]})
		in.r.dataIndex++
	}

	return true
}

func (in *Interpreter) executeIf(stmt *IfStmt) int {

	pc := in.r.pc

	if in.releval(stmt.Cond) == 0 {
		return pc + 1
	}

	switch stmt.Target.Kind {
	default:
		return in.executeGoto(stmt.Target.Line)

	case TargetBreak:
		end, ok := in.r.loopEnd[pc]
		in.runtimeCheck(ok && len(in.r.loops) != 0, ErrNoActiveLoop, "BREAK")
		in.popLoop()
		return end

	case TargetContinue:
		in.runtimeCheck(len(in.r.loops) != 0, ErrNoActiveLoop, "CONTINUE")
		return in.r.loops[len(in.r.loops)-1].pc
	}
}

//
// Coming in from above starts a new loop: assign the initial value
// and fix the step for the life of the loop.  Coming back from NEXT
// the top frame is anchored here, so step the variable instead.  The
// final value is evaluated afresh on every pass.  When the loop is
// done the variable keeps its last in-range value
//

func (in *Interpreter) executeFor(stmt *ForStmt) int {

	var candidate Value

	pc := in.r.pc

	if !in.loopActiveAt(pc) {
		candidate = in.eval(stmt.Init)
		in.assignScalar(stmt.Var, candidate)

		var step Value = int64(1)
		if stmt.Step != nil {
			step = in.eval(stmt.Step)
		}

		in.checkStep(step)

		in.r.loops = append(in.r.loops, loopFrame{pc: pc, step: step})
	} else {
		step := in.r.loops[len(in.r.loops)-1].step
		candidate = in.computeBinop("+", in.evalVar(VarRef{Name: stmt.Var}), step)
	}

	op := OpLE
	if isNegative(in.r.loops[len(in.r.loops)-1].step) {
		op = OpGE
	}

	if !in.compareValues(op, candidate, in.eval(stmt.Final)) {
		return in.exitLoop(pc)
	}

	in.assignScalar(stmt.Var, candidate)

	return pc + 1
}

//
// An always-true WHILE only ends through BREAK.  A conditioned WHILE
// steps its variable the way FOR does, with the step direction taken
// from the comparison.  The test compares the variable's current value
// against the bound less one step, and the step expression is
// evaluated again for that bound
//

func (in *Interpreter) executeWhile(stmt *WhileStmt) int {

	var candidate Value
	var stepExpr Expr

	pc := in.r.pc

	if stmt.Cond == nil {
		if !in.loopActiveAt(pc) {
			in.r.loops = append(in.r.loops, loopFrame{pc: pc})
		}
		return pc + 1
	}

	loopVar, _, _ := getLoopVar(stmt)

	if !in.loopActiveAt(pc) {
		candidate = in.lookupScalar(loopVar)

		stepExpr = stmt.Step
		if stepExpr == nil {
			switch stmt.Cond.Op {
			case OpLT, OpLE:
				stepExpr = &NumberExpr{Value: int64(1)}
			default:
				stepExpr = &NumberExpr{Value: int64(-1)}
			}
		}

		step := in.eval(stepExpr)

		in.checkStep(step)

		in.r.loops = append(in.r.loops, loopFrame{pc: pc, step: step})
	} else {
		step := in.r.loops[len(in.r.loops)-1].step
		stepExpr = &NumberExpr{Value: step}
		candidate = in.computeBinop("+", in.lookupScalar(loopVar), step)
	}

	bound := in.computeBinop("-", in.eval(stmt.Cond.Right), in.eval(stepExpr))

	if !in.compareValues(stmt.Cond.Op, in.eval(stmt.Cond.Left), bound) {
		return in.exitLoop(pc)
	}

	in.assignScalar(loopVar, candidate)

	return pc + 1
}

//
// NEXT sends control back to the loop statement, which decides whether
// to go round again
//

func (in *Interpreter) executeNext(stmt *NextStmt) int {

	in.runtimeCheck(len(in.r.loops) != 0, ErrNextWithoutLoop, "")

	fsp := in.r.loops[len(in.r.loops)-1]

	if stmt.Var != "" {
		loopVar, _, _ := getLoopVar(in.r.stmts[fsp.pc])
		in.runtimeCheck(loopVar == "" || loopVar == stmt.Var,
			ErrNextMismatch, "%s", stmt.Var)
	}

	return fsp.pc
}

//
// There is room for one pending return, so subroutines do not nest
//

func (in *Interpreter) executeGosub(stmt *GosubStmt) int {

	in.runtimeCheck(!in.r.gosubSet, ErrGosubActive, "")

	target := in.executeGoto(stmt.Line)

	in.r.gosubPC = in.r.pc
	in.r.gosubSet = true

	return target
}

func (in *Interpreter) executeReturn() int {

	in.runtimeCheck(in.r.gosubSet, ErrReturnWithoutGosub, "")

	in.r.gosubSet = false

	return in.r.gosubPC + 1
}

func (in *Interpreter) executeOop(stmt *OopStmt) {

	d := in.lookupDict(stmt.Dict)

	switch stmt.Op {
	default:
		fatalError("unexpected dict operation %d", stmt.Op)

	case DictPop:
		in.runtimeCheck(d.Pop(stmt.Key), ErrUndefinedKey, "%s(%q)",
			stmt.Dict, stmt.Key)

	case DictClear:
		d.Clear()

	case DictUpdate:
		d.Update(in.lookupDict(stmt.Other))
	}

	in.traceVar(stmt.Dict, nil, nil, d)
}

//
// A step of zero would never leave the loop
//

func (in *Interpreter) checkStep(step Value) {

	in.requireNumber(step)

	in.runtimeCheck(toFloat(step) != 0, ErrZeroStep, "")
}

func (in *Interpreter) loopActiveAt(pc int) bool {

	return len(in.r.loops) != 0 && in.r.loops[len(in.r.loops)-1].pc == pc
}

//
// Leave the loop opened at pc: resume after its NEXT
//

func (in *Interpreter) exitLoop(pc int) int {

	in.popLoop()

	return in.r.loopEnd[pc] + 1
}

func (in *Interpreter) popLoop() {

	in.r.loops = in.r.loops[:len(in.r.loops)-1]
}

func (in *Interpreter) curLine() int {

	if in.r.pc >= 0 && in.r.pc < len(in.r.lines) {
		return in.r.lines[in.r.pc]
	}

	return 0
}
