package basic

import (
	"io"
	"math/rand"
	"os"
	"time"
)

//
// Constants
//

const VERSION = "1.2.0"

//
// Lists and tables that are written before any DIM get this many
// elements per dimension
//

const maxImplicitSubscript = 10

//
// PRINT pads between items (and after a trailing comma) to the next
// multiple of zoneWidth, and after a trailing semicolon to the next
// multiple of semiWidth
//

const zoneWidth = 15
const semiWidth = 3

const colorRedSeq = "\033[31m"
const colorResetSeq = "\033[0m"

//
// executeStmt hands back haltPC when the program should stop
//

const haltPC = -1

//
// Relational operators
//

const (
	OpLT = "<"
	OpLE = "<="
	OpGT = ">"
	OpGE = ">="
	OpEQ = "="
	OpNE = "<>"
)

//
// Print terminators.  Anything else (normally "") ends the line
//

const (
	TermComma = ","
	TermSemi  = ";"
)

//
// Value is anything an expression can evaluate to: int64 or float64
// for numbers, string, []Value for a whole list, or *Dict
//

type Value any

//
// Expression nodes
//

type Expr interface {
	exprNode()
}

type NumberExpr struct {
	Value Value
}

type StringExpr struct {
	Value string
}

type GroupExpr struct {
	Inner Expr
}

type UnaryExpr struct {
	Op    string
	Inner Expr
}

type BinaryExpr struct {
	Op    string
	Left  Expr
	Right Expr
}

type VarExpr struct {
	Ref VarRef
}

type DictEntry struct {
	Key   string
	Value Expr
}

type DictExpr struct {
	Entries []DictEntry
}

type DictFunc int

const (
	DictKeys DictFunc = iota
	DictValues
)

type DictFuncExpr struct {
	Dict string
	Func DictFunc
}

//
// RelExpr is only legal as the condition of IF and WHILE
//

type RelExpr struct {
	Op    string
	Left  Expr
	Right Expr
}

//
// A variable reference carries 0, 1 or 2 subscripts.  The number of
// subscripts, not any declaration, decides whether the name means a
// scalar, a dict, a function, a list or a table
//

type VarRef struct {
	Name string
	Subs []Expr
}

func (*NumberExpr) exprNode() {}
func (*StringExpr) exprNode() {}
func (*GroupExpr) exprNode() {}
func (*UnaryExpr) exprNode() {}
func (*BinaryExpr) exprNode() {}
func (*VarExpr) exprNode() {}
func (*DictExpr) exprNode() {}
func (*DictFuncExpr) exprNode() {}

//
// Statement nodes
//

type Statement interface {
	stmtNode()
}

type EndStmt struct{}

type StopStmt struct{}

type GotoStmt struct {
	Line int
}

type PrintItem struct {
	Label string
	Value Expr
}

type PrintStmt struct {
	Items      []PrintItem
	Terminator string
}

type LetStmt struct {
	Target VarRef
	Value  Expr
}

type ReadStmt struct {
	Targets []VarRef
}

type TargetKind int

const (
	TargetLine TargetKind = iota
	TargetBreak
	TargetContinue
)

type IfTarget struct {
	Kind TargetKind
	Line int
}

type IfStmt struct {
	Cond   *RelExpr
	Target IfTarget
}

type ForStmt struct {
	Var   string
	Init  Expr
	Final Expr
	Step  Expr
}

//
// A nil Cond is the always-true marker
//

type WhileStmt struct {
	Cond *RelExpr
	Step Expr
}

type NextStmt struct {
	Var string
}

type GosubStmt struct {
	Line int
}

type ReturnStmt struct{}

type FuncStmt struct {
	Name  string
	Param string
	Body  Expr
}

//
// Cols == 0 declares a list of Rows elements
//

type DimEntry struct {
	Name string
	Rows int
	Cols int
}

type DimStmt struct {
	Entries []DimEntry
}

type DataStmt struct {
	Values []Value
}

type RemStmt struct {
	Text string
}

type DictOp int

const (
	DictPop DictOp = iota
	DictClear
	DictUpdate
)

type OopStmt struct {
	Dict  string
	Op    DictOp
	Key   string
	Other string
}

func (*EndStmt) stmtNode() {}
func (*StopStmt) stmtNode() {}
func (*GotoStmt) stmtNode() {}
func (*PrintStmt) stmtNode() {}
func (*LetStmt) stmtNode() {}
func (*ReadStmt) stmtNode() {}
func (*IfStmt) stmtNode() {}
func (*ForStmt) stmtNode() {}
func (*WhileStmt) stmtNode() {}
func (*NextStmt) stmtNode() {}
func (*GosubStmt) stmtNode() {}
func (*ReturnStmt) stmtNode() {}
func (*FuncStmt) stmtNode() {}
func (*DimStmt) stmtNode() {}
func (*DataStmt) stmtNode() {}
func (*RemStmt) stmtNode() {}
func (*OopStmt) stmtNode() {}

//
// Options controls where a run writes and what it traces
//

type Options struct {
	Output      io.Writer `yaml:"-"`
	Diagnostics io.Writer `yaml:"-"`
	TraceExec   bool      `yaml:"traceExec"`
	TraceVars   bool      `yaml:"traceVars"`
	TraceDump   bool      `yaml:"traceDump"`
	Stats       bool      `yaml:"stats"`
	Color       bool      `yaml:"color"`
	Seed        int64     `yaml:"seed"`
}

func DefaultOptions() Options {

	return Options{Output: os.Stdout, Diagnostics: os.Stderr}
}

//
// User defined functions are a plain (parameter, body) record.  The
// built-ins get the unevaluated argument so RND can ignore it
//

type funcDef struct {
	native func(in *Interpreter, arg Expr) Value
	param  string
	body   Expr
}

type loopFrame struct {
	pc   int
	step Value
}

//
// Stats describes one run
//

type Stats struct {
	Statements int64
	Elapsed    time.Duration
	UserCPU    time.Duration
	SystemCPU  time.Duration
}

//
// This structure contains the non-persistent state of a program run.
// It is rebuilt from scratch by initializeRun, so nothing survives
// from one run to the next
//

type run struct {
	lines      []int
	stmts      []Statement
	lineIndex  map[int]int
	pc         int
	vars       map[string]Value
	lists      map[string][]Value
	tables     map[string][][]Value
	functions  map[string]*funcDef
	loops      []loopFrame
	loopEnd    map[int]int
	gosubPC    int
	gosubSet   bool
	dataList   []Value
	dataIndex  int
	faults     []*Fault
	rng        *rand.Rand
	stats      Stats
	started    time.Time
	startUtime time.Duration
	startStime time.Duration
}

//
// Interpreter executes one Program.  It is not safe for concurrent use
//

type Interpreter struct {
	prog *Program
	opts Options
	r    run
}
