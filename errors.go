package basic

import (
	"errors"
	"fmt"
	"strings"
)

//
// Fault kinds.  The message text is what lands on the diagnostic sink,
// followed by any detail and the offending line number
//

// Validation faults, found by the pre-pass
var (
	ErrMissingEnd       = errors.New("NO END INSTRUCTION")
	ErrEndNotLast       = errors.New("END IS NOT LAST")
	ErrUnmatchedLoop    = errors.New("LOOP WITHOUT NEXT")
	ErrBadLoopCondition = errors.New("WHILE CONDITION MUST TEST A VARIABLE")
)

// Runtime faults, raised while executing
var (
	ErrUndefinedVariable  = errors.New("UNDEFINED VARIABLE")
	ErrIndexOutOfBounds   = errors.New("INDEX OUT OF BOUNDS")
	ErrDimensionTooLarge  = errors.New("DIMENSION TOO LARGE")
	ErrUndefinedLine      = errors.New("UNDEFINED LINE NUMBER")
	ErrNextWithoutLoop    = errors.New("NEXT WITHOUT LOOP")
	ErrNextMismatch       = errors.New("NEXT DOESN'T MATCH LOOP")
	ErrGosubActive        = errors.New("ALREADY IN A SUBROUTINE")
	ErrReturnWithoutGosub = errors.New("RETURN WITHOUT A GOSUB")
	ErrUndefinedKey       = errors.New("UNDEFINED KEY")
	ErrTypeMismatch       = errors.New("TYPE MISMATCH")
	ErrDivisionByZero     = errors.New("DIVISION BY 0")
	ErrFunctionArgument   = errors.New("ILLEGAL FUNCTION ARGUMENT")
	ErrZeroStep           = errors.New("STEP MUST BE NON-ZERO")
	ErrNoActiveLoop       = errors.New("NO ACTIVE LOOP")
	ErrOutput             = errors.New("OUTPUT ERROR")
)

//
// Fault is one diagnosed problem tied to a program line.  A Line of 0
// means the fault is not tied to any one line (an empty program)
//

type Fault struct {
	Line   int
	Err    error
	Detail string
}

func (f *Fault) Error() string {

	var sb strings.Builder

	sb.WriteString(f.Err.Error())

	if f.Detail != "" {
		sb.WriteString(" ")
		sb.WriteString(f.Detail)
	}

	if f.Line != 0 {
		fmt.Fprintf(&sb, " AT LINE %d", f.Line)
	}

	return sb.String()
}

func (f *Fault) Unwrap() error {

	return f.Err
}

//
// ValidationError carries every fault the pre-pass found.  No statement
// has executed when one of these comes back from Run
//

type ValidationError struct {
	Faults []*Fault
}

func (e *ValidationError) Error() string {

	msgs := make([]string, 0, len(e.Faults))
	for _, f := range e.Faults {
		msgs = append(msgs, f.Error())
	}

	return strings.Join(msgs, "\n")
}

func (e *ValidationError) Unwrap() []error {

	errs := make([]error, 0, len(e.Faults))
	for _, f := range e.Faults {
		errs = append(errs, f)
	}

	return errs
}

//
// RuntimeError is the first (and only) fault of an aborted run
//

type RuntimeError struct {
	Fault
}

func (e *RuntimeError) Unwrap() error {

	return e.Err
}

//
// The panic payload used to unwind out of arbitrarily deep evaluation
// back to Run, which turns it into a *RuntimeError
//

type runtimeErrorInfo struct {
	fault Fault
}

//
// Interpreter bugs, as opposed to faults in the BASIC program
//

type basicErrorInfo struct {
	msg string
}

func (in *Interpreter) runtimeCheck(chk bool, kind error, f string, args ...any) {

	if !chk {
		in.runtimeError(kind, f, args...)
	}
}

func (in *Interpreter) runtimeError(kind error, f string, args ...any) {

	var detail string

	if f != "" {
		detail = fmt.Sprintf(f, args...)
	}

	panic(&runtimeErrorInfo{fault: Fault{Line: in.curLine(), Err: kind,
		Detail: detail}})
}

func fatalError(f string, args ...any) {

	panic(&basicErrorInfo{msg: fmt.Sprintf(f, args...)})
}

//
// Validation faults are accumulated, not raised, so every check runs
//

func (in *Interpreter) validationFault(line int, kind error, f string, args ...any) {

	var detail string

	if f != "" {
		detail = fmt.Sprintf(f, args...)
	}

	fault := &Fault{Line: line, Err: kind, Detail: detail}

	in.r.faults = append(in.r.faults, fault)

	in.printDiagnostic(fault.Error())
}

func (in *Interpreter) printDiagnostic(msg string) {

	w := in.opts.Diagnostics
	if w == nil {
		return
	}

	if in.opts.Color {
		msg = colorRedSeq + msg + colorResetSeq
	}

	fmt.Fprintln(w, msg)
}
