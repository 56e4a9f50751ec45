package basic

import (
	"github.com/google/btree"
)

//
// The program is kept in a btree keyed by line number, so listing and
// running can walk it in ascending order however lines were entered.
// These wrappers hide the btree from the rest of the interpreter
//

const programDegree = 8

type stmtNode struct {
	stmtNo int
	stmt   Statement
}

func cmpStmtNo(a, b stmtNode) bool {

	return a.stmtNo < b.stmtNo
}

type Program struct {
	tree *btree.BTreeG[stmtNode]
}

func NewProgram() *Program {

	return &Program{tree: btree.NewG(programDegree, cmpStmtNo)}
}

//
// Insert adds a statement, replacing whatever was on that line
//

func (p *Program) Insert(line int, stmt Statement) {

	if stmt == nil {
		fatalError("nil statement for line %d", line)
	}

	p.tree.ReplaceOrInsert(stmtNode{stmtNo: line, stmt: stmt})
}

//
// Deleting a line that does not exist is not an error
//

func (p *Program) Delete(line int) {

	p.tree.Delete(stmtNode{stmtNo: line})
}

func (p *Program) Lookup(line int) (Statement, bool) {

	node, ok := p.tree.Get(stmtNode{stmtNo: line})

	return node.stmt, ok
}

func (p *Program) Len() int {

	return p.tree.Len()
}

//
// Clear erases the whole program (NEW)
//

func (p *Program) Clear() {

	p.tree.Clear(false)
}

func (p *Program) Lines() []int {

	lines := make([]int, 0, p.tree.Len())

	p.tree.Ascend(func(node stmtNode) bool {
		lines = append(lines, node.stmtNo)
		return true
	})

	return lines
}

//
// Snapshot returns the line numbers in ascending order, with the
// statement for each.  A run only ever looks at its snapshot, so
// editing the program mid-run cannot disturb it
//

func (p *Program) Snapshot() ([]int, []Statement) {

	lines := make([]int, 0, p.tree.Len())
	stmts := make([]Statement, 0, p.tree.Len())

	p.tree.Ascend(func(node stmtNode) bool {
		lines = append(lines, node.stmtNo)
		stmts = append(stmts, node.stmt)
		return true
	})

	return lines, stmts
}
