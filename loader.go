package basic

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//
// Programs arrive already parsed, as a YAML list of statements.  Each
// statement names its line and its op, plus the fields that op uses:
//
//	program:
//	  - {line: 10, op: LET, target: {name: X}, value: {num: 1}}
//	  - {line: 20, op: PRINT, items: [{label: "X=", value: {var: X}}]}
//	  - {line: 30, op: END}
//
// Unknown fields are rejected, so a misspelt field is an error rather
// than a silently missing operand
//

var ErrProgramFormat = errors.New("bad program file")

type diskProgram struct {
	Program []diskStmt `yaml:"program"`
}

type diskStmt struct {
	Line    int             `yaml:"line"`
	Op      string          `yaml:"op"`
	Dest    int             `yaml:"dest"`
	Items   []diskPrintItem `yaml:"items"`
	End     string          `yaml:"end"`
	Target  *diskRef        `yaml:"target"`
	Value   *diskExpr       `yaml:"value"`
	Targets []diskRef       `yaml:"targets"`
	Cond    *diskRel        `yaml:"cond"`
	Then    string          `yaml:"then"`
	Var     string          `yaml:"var"`
	From    *diskExpr       `yaml:"from"`
	To      *diskExpr       `yaml:"to"`
	Step    *diskExpr       `yaml:"step"`
	Name    string          `yaml:"name"`
	Param   string          `yaml:"param"`
	Body    *diskExpr       `yaml:"body"`
	Dims    []diskDim       `yaml:"dims"`
	Data    []any           `yaml:"data"`
	Text    string          `yaml:"text"`
	Dict    string          `yaml:"dict"`
	Action  string          `yaml:"action"`
	Key     string          `yaml:"key"`
	Other   string          `yaml:"other"`
}

type diskPrintItem struct {
	Label string    `yaml:"label"`
	Value *diskExpr `yaml:"value"`
}

type diskRef struct {
	Name string     `yaml:"name"`
	Subs []diskExpr `yaml:"subs"`
}

type diskRel struct {
	Op    string    `yaml:"op"`
	Left  *diskExpr `yaml:"left"`
	Right *diskExpr `yaml:"right"`
}

type diskDim struct {
	Name string `yaml:"name"`
	Rows int    `yaml:"rows"`
	Cols int    `yaml:"cols"`
}

type diskEntry struct {
	Key   string    `yaml:"key"`
	Value *diskExpr `yaml:"value"`
}

//
// Exactly one of the expression kinds is set.  op goes with left and
// right for a binary operator, or with operand for a unary one
//

type diskExpr struct {
	Num     any          `yaml:"num"`
	Str     *string      `yaml:"str"`
	Group   *diskExpr    `yaml:"group"`
	Op      string       `yaml:"op"`
	Operand *diskExpr    `yaml:"operand"`
	Left    *diskExpr    `yaml:"left"`
	Right   *diskExpr    `yaml:"right"`
	Var     string       `yaml:"var"`
	Subs    []diskExpr   `yaml:"subs"`
	Dict    *[]diskEntry `yaml:"dict"`
	Keys    string       `yaml:"keys"`
	Values  string       `yaml:"values"`
}

func LoadProgramFile(path string) (*Program, error) {

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("program: open %s: %w", path, err)
	}
	defer file.Close()

	prog, err := LoadProgram(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return prog, nil
}

//
// LoadProgram decodes a whole program.  Line numbers must be positive
// and unique; the order they appear in does not matter
//

func LoadProgram(r io.Reader) (*Program, error) {

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var raw diskProgram
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return NewProgram(), nil
		}
		return nil, fmt.Errorf("program: parse: %w", err)
	}

	prog := NewProgram()

	for _, ds := range raw.Program {
		if ds.Line <= 0 {
			return nil, fmt.Errorf("%w: line number %d must be positive",
				ErrProgramFormat, ds.Line)
		}

		if _, dup := prog.Lookup(ds.Line); dup {
			return nil, fmt.Errorf("%w: line %d appears twice",
				ErrProgramFormat, ds.Line)
		}

		stmt, err := ds.toStatement()
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrProgramFormat,
				ds.Line, err)
		}

		prog.Insert(ds.Line, stmt)
	}

	return prog, nil
}

//
// LoadOptions reads the run options.  The writers are not part of the
// file; they come back as the defaults
//

func LoadOptions(r io.Reader) (Options, error) {

	opts := DefaultOptions()

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	if err := decoder.Decode(&opts); err != nil && !errors.Is(err, io.EOF) {
		return opts, fmt.Errorf("options: parse: %w", err)
	}

	return opts, nil
}

func (ds *diskStmt) toStatement() (Statement, error) {

	switch strings.ToUpper(ds.Op) {
	default:
		return nil, fmt.Errorf("unknown op %q", ds.Op)

	case "END":
		return &EndStmt{}, nil

	case "STOP":
		return &StopStmt{}, nil

	case "GOTO":
		return &GotoStmt{Line: ds.Dest}, nil

	case "GOSUB":
		return &GosubStmt{Line: ds.Dest}, nil

	case "RETURN":
		return &ReturnStmt{}, nil

	case "PRINT":
		return ds.toPrint()

	case "LET":
		if ds.Target == nil || ds.Value == nil {
			return nil, errors.New("LET needs a target and a value")
		}
		target, err := ds.Target.toRef()
		if err != nil {
			return nil, err
		}
		value, err := ds.Value.toExpr()
		if err != nil {
			return nil, err
		}
		return &LetStmt{Target: target, Value: value}, nil

	case "READ":
		stmt := &ReadStmt{}
		for i := range ds.Targets {
			ref, err := ds.Targets[i].toRef()
			if err != nil {
				return nil, err
			}
			stmt.Targets = append(stmt.Targets, ref)
		}
		return stmt, nil

	case "IF":
		return ds.toIf()

	case "FOR":
		if ds.Var == "" || ds.From == nil || ds.To == nil {
			return nil, errors.New("FOR needs var, from and to")
		}
		stmt := &ForStmt{Var: ds.Var}
		var err error
		if stmt.Init, err = ds.From.toExpr(); err != nil {
			return nil, err
		}
		if stmt.Final, err = ds.To.toExpr(); err != nil {
			return nil, err
		}
		if stmt.Step, err = ds.Step.toOptionalExpr(); err != nil {
			return nil, err
		}
		return stmt, nil

	case "WHILE":
		stmt := &WhileStmt{}
		var err error
		if ds.Cond != nil {
			if stmt.Cond, err = ds.Cond.toRel(); err != nil {
				return nil, err
			}
		}
		if stmt.Step, err = ds.Step.toOptionalExpr(); err != nil {
			return nil, err
		}
		return stmt, nil

	case "NEXT":
		return &NextStmt{Var: ds.Var}, nil

	case "FUNC":
		if ds.Name == "" || ds.Param == "" || ds.Body == nil {
			return nil, errors.New("FUNC needs name, param and body")
		}
		body, err := ds.Body.toExpr()
		if err != nil {
			return nil, err
		}
		return &FuncStmt{Name: ds.Name, Param: ds.Param, Body: body}, nil

	case "DIM":
		stmt := &DimStmt{}
		for _, d := range ds.Dims {
			if d.Name == "" {
				return nil, errors.New("DIM needs a name")
			}
			stmt.Entries = append(stmt.Entries, DimEntry(d))
		}
		return stmt, nil

	case "DATA":
		return ds.toData()

	case "REM":
		return &RemStmt{Text: ds.Text}, nil

	case "OOP":
		return ds.toOop()
	}
}

func (ds *diskStmt) toPrint() (Statement, error) {

	stmt := &PrintStmt{}

	switch ds.End {
	case "":
	case ",":
		stmt.Terminator = TermComma
	case ";":
		stmt.Terminator = TermSemi
	default:
		return nil, fmt.Errorf("PRINT end %q is not , or ;", ds.End)
	}

	for _, item := range ds.Items {
		value, err := item.Value.toOptionalExpr()
		if err != nil {
			return nil, err
		}
		stmt.Items = append(stmt.Items, PrintItem{Label: item.Label, Value: value})
	}

	return stmt, nil
}

func (ds *diskStmt) toIf() (Statement, error) {

	if ds.Cond == nil {
		return nil, errors.New("IF needs a condition")
	}

	cond, err := ds.Cond.toRel()
	if err != nil {
		return nil, err
	}

	stmt := &IfStmt{Cond: cond}

	switch strings.ToUpper(ds.Then) {
	case "BREAK":
		stmt.Target.Kind = TargetBreak

	case "CONTINUE":
		stmt.Target.Kind = TargetContinue

	default:
		line, err := strconv.Atoi(ds.Then)
		if err != nil {
			return nil, fmt.Errorf("IF then %q is not a line, BREAK or CONTINUE",
				ds.Then)
		}
		stmt.Target = IfTarget{Kind: TargetLine, Line: line}
	}

	return stmt, nil
}

//
// DATA holds numbers only
//

func (ds *diskStmt) toData() (Statement, error) {

	stmt := &DataStmt{}

	for _, v := range ds.Data {
		n := normalizeNumber(v)
		if !isNumber(n) {
			return nil, fmt.Errorf("DATA value %v is not a number", v)
		}
		stmt.Values = append(stmt.Values, n)
	}

	return stmt, nil
}

func (ds *diskStmt) toOop() (Statement, error) {

	if ds.Dict == "" {
		return nil, errors.New("OOP needs a dict")
	}

	stmt := &OopStmt{Dict: ds.Dict}

	switch strings.ToUpper(ds.Action) {
	default:
		return nil, fmt.Errorf("unknown dict action %q", ds.Action)

	case "POP":
		stmt.Op = DictPop
		stmt.Key = ds.Key

	case "CLEAR":
		stmt.Op = DictClear

	case "UPDATE":
		if ds.Other == "" {
			return nil, errors.New("UPDATE needs another dict")
		}
		stmt.Op = DictUpdate
		stmt.Other = ds.Other
	}

	return stmt, nil
}

func (dr *diskRef) toRef() (VarRef, error) {

	if dr.Name == "" {
		return VarRef{}, errors.New("variable needs a name")
	}

	subs, err := toExprList(dr.Subs)
	if err != nil {
		return VarRef{}, err
	}

	if len(subs) > 2 {
		return VarRef{}, fmt.Errorf("%s has %d subscripts", dr.Name, len(subs))
	}

	return VarRef{Name: dr.Name, Subs: subs}, nil
}

func (dr *diskRel) toRel() (*RelExpr, error) {

	switch dr.Op {
	case OpLT, OpLE, OpGT, OpGE, OpEQ, OpNE:
	default:
		return nil, fmt.Errorf("unknown relational operator %q", dr.Op)
	}

	if dr.Left == nil || dr.Right == nil {
		return nil, errors.New("comparison needs left and right")
	}

	left, err := dr.Left.toExpr()
	if err != nil {
		return nil, err
	}

	right, err := dr.Right.toExpr()
	if err != nil {
		return nil, err
	}

	return &RelExpr{Op: dr.Op, Left: left, Right: right}, nil
}

func toExprList(list []diskExpr) ([]Expr, error) {

	var exprs []Expr

	for i := range list {
		e, err := list[i].toExpr()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
	}

	return exprs, nil
}

func (de *diskExpr) toOptionalExpr() (Expr, error) {

	if de == nil {
		return nil, nil
	}

	return de.toExpr()
}

func (de *diskExpr) toExpr() (Expr, error) {

	switch {
	case de.Num != nil:
		n := normalizeNumber(de.Num)
		if !isNumber(n) {
			return nil, fmt.Errorf("num %v is not a number", de.Num)
		}
		return &NumberExpr{Value: n}, nil

	case de.Str != nil:
		return &StringExpr{Value: *de.Str}, nil

	case de.Group != nil:
		inner, err := de.Group.toExpr()
		if err != nil {
			return nil, err
		}
		return &GroupExpr{Inner: inner}, nil

	case de.Operand != nil:
		if de.Op != "+" && de.Op != "-" {
			return nil, fmt.Errorf("unknown unary operator %q", de.Op)
		}
		inner, err := de.Operand.toExpr()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Op: de.Op, Inner: inner}, nil

	case de.Op != "":
		return de.toBinary()

	case de.Var != "":
		ref, err := (&diskRef{Name: de.Var, Subs: de.Subs}).toRef()
		if err != nil {
			return nil, err
		}
		return &VarExpr{Ref: ref}, nil

	case de.Dict != nil:
		dict := &DictExpr{}
		for _, entry := range *de.Dict {
			if entry.Value == nil {
				return nil, fmt.Errorf("dict key %q has no value", entry.Key)
			}
			value, err := entry.Value.toExpr()
			if err != nil {
				return nil, err
			}
			dict.Entries = append(dict.Entries, DictEntry{Key: entry.Key, Value: value})
		}
		return dict, nil

	case de.Keys != "":
		return &DictFuncExpr{Dict: de.Keys, Func: DictKeys}, nil

	case de.Values != "":
		return &DictFuncExpr{Dict: de.Values, Func: DictValues}, nil
	}

	return nil, errors.New("empty expression")
}

func (de *diskExpr) toBinary() (Expr, error) {

	switch de.Op {
	case "+", "-", "*", "/", "^":
	default:
		return nil, fmt.Errorf("unknown operator %q", de.Op)
	}

	if de.Left == nil || de.Right == nil {
		return nil, fmt.Errorf("operator %q needs left and right", de.Op)
	}

	left, err := de.Left.toExpr()
	if err != nil {
		return nil, err
	}

	right, err := de.Right.toExpr()
	if err != nil {
		return nil, err
	}

	return &BinaryExpr{Op: de.Op, Left: left, Right: right}, nil
}
