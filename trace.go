package basic

import (
	"fmt"
	"reflect"
	"strings"

	"fortio.org/log"
	"github.com/goforj/godump"
)

//
// Log each statement as it executes.  The dump shows the whole tree
// of the statement, which is what you want when an expression is not
// doing what you thought it said
//

func (in *Interpreter) traceStmt(stmt Statement) {

	line := in.curLine()

	if log.LogVerbose() {
		log.LogVf("pc %d line %d %s", in.r.pc, line, stmtKeyword(stmt))
	}

	if in.opts.TraceExec {
		log.Infof("[%d] %s", line, stmtKeyword(stmt))
	}

	if in.opts.TraceDump {
		godump.Dump(stmt)
	}
}

func (in *Interpreter) traceVar(name string, subs []any, oldVal, newVal Value) {

	if !in.opts.TraceVars {
		return
	}

	if len(subs) != 0 {
		parts := make([]string, 0, len(subs))
		for _, s := range subs {
			parts = append(parts, fmt.Sprint(s))
		}
		name += "(" + strings.Join(parts, ",") + ")"
	}

	if oldVal == nil {
		log.Infof("[%d] Variable %s set to %s", in.curLine(), name,
			reprValue(newVal))
		return
	}

	log.Infof("[%d] Variable %s changed from %s to %s", in.curLine(), name,
		reprValue(oldVal), reprValue(newVal))
}

//
// PrintStmt => PRINT
//

func stmtKeyword(stmt Statement) string {

	name := reflect.TypeOf(stmt).Elem().Name()

	return strings.ToUpper(strings.TrimSuffix(name, "Stmt"))
}
