// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package ast declares the host syntax tree consumed by the kernel compiler.
//
// Trees are produced by an ingestion layer outside of this module which parses
// host source code. The node set mirrors the host grammar closely: the compiler
// decides, node by node, whether to evaluate at compile time or to emit IR.
// Positions are never computed by the compiler: they are copied from the nodes
// into diagnostics.
package ast

import "fmt"

// Pos is a position in the host source code.
type Pos struct {
	File string
	Line int
	Col  int
}

// IsValid returns true if the position has been set by the ingestion layer.
func (p Pos) IsValid() bool {
	return p.Line > 0
}

// String representation of the position, formatted as file:line:col.
func (p Pos) String() string {
	if !p.IsValid() {
		if p.File != "" {
			return p.File
		}
		return "-"
	}
	file := p.File
	if file == "" {
		file = "<kernel>"
	}
	if p.Col > 0 {
		return fmt.Sprintf("%s:%d:%d", file, p.Line, p.Col)
	}
	return fmt.Sprintf("%s:%d", file, p.Line)
}

// ----------------------------------------------------------------------------
// Interfaces.
type (
	// Node in the tree.
	Node interface {
		Position() Pos
	}

	// Expr is an expression node.
	Expr interface {
		Node
		exprNode()
	}

	// Stmt is a statement node.
	Stmt interface {
		Node
		stmtNode()
	}
)

// ----------------------------------------------------------------------------
// Expressions.
type (
	// Name is an identifier.
	Name struct {
		Pos Pos
		ID  string
	}

	// Constant is a literal: int64, float64, bool, string, or nil for None.
	Constant struct {
		Pos   Pos
		Value any
	}

	// BinOp is a binary arithmetic or bitwise operation.
	BinOp struct {
		Pos  Pos
		Op   Op
		X, Y Expr
	}

	// UnaryOp is a unary operation.
	UnaryOp struct {
		Pos Pos
		Op  Op
		X   Expr
	}

	// BoolOp is a chain of `and` or `or` operators.
	BoolOp struct {
		Pos    Pos
		Op     Op
		Values []Expr
	}

	// Compare is a chained comparison: Left Ops[0] Comparators[0] Ops[1] ...
	Compare struct {
		Pos         Pos
		Left        Expr
		Ops         []Op
		Comparators []Expr
	}

	// IfExp is the conditional expression `Body if Cond else Else`.
	IfExp struct {
		Pos  Pos
		Cond Expr
		Body Expr
		Else Expr
	}

	// Keyword is a keyword argument in a call.
	Keyword struct {
		Pos   Pos
		Name  string
		Value Expr
	}

	// Call is a function call.
	Call struct {
		Pos      Pos
		Func     Expr
		Args     []Expr
		Keywords []*Keyword
	}

	// Attribute selects a name on a value.
	Attribute struct {
		Pos  Pos
		X    Expr
		Name string
	}

	// Subscript indexes a value: X[Index...].
	Subscript struct {
		Pos   Pos
		X     Expr
		Index []Expr
	}

	// Tuple display.
	Tuple struct {
		Pos   Pos
		Elems []Expr
	}

	// List display.
	List struct {
		Pos   Pos
		Elems []Expr
	}

	// Dict display.
	Dict struct {
		Pos    Pos
		Keys   []Expr
		Values []Expr
	}

	// Comprehension is one `for Target in Iter if Ifs...` clause.
	Comprehension struct {
		Pos    Pos
		Target Expr
		Iter   Expr
		Ifs    []Expr
	}

	// ListComp is a list comprehension.
	ListComp struct {
		Pos        Pos
		Elt        Expr
		Generators []*Comprehension
	}

	// DictComp is a dictionary comprehension.
	DictComp struct {
		Pos        Pos
		Key, Value Expr
		Generators []*Comprehension
	}

	// NamedExpr is the assignment expression `Target := Value`.
	NamedExpr struct {
		Pos    Pos
		Target *Name
		Value  Expr
	}
)

// ----------------------------------------------------------------------------
// Statements.
type (
	// Assign assigns Value to every target, left to right.
	Assign struct {
		Pos     Pos
		Targets []Expr
		Value   Expr
	}

	// AugAssign is an augmented assignment such as `x += 1`.
	AugAssign struct {
		Pos    Pos
		Target Expr
		Op     Op
		Value  Expr
	}

	// AnnAssign is an annotated assignment `Target: Annotation = Value`.
	// Value may be nil.
	AnnAssign struct {
		Pos        Pos
		Target     *Name
		Annotation Expr
		Value      Expr
	}

	// ExprStmt evaluates an expression and discards its result.
	ExprStmt struct {
		Pos Pos
		X   Expr
	}

	// If statement. Else is nil when absent.
	If struct {
		Pos  Pos
		Cond Expr
		Body []Stmt
		Else []Stmt
	}

	// While loop.
	While struct {
		Pos  Pos
		Cond Expr
		Body []Stmt
	}

	// For loop. Target is a Name or a Tuple of names.
	For struct {
		Pos    Pos
		Target Expr
		Iter   Expr
		Body   []Stmt
	}

	// Break statement.
	Break struct {
		Pos Pos
	}

	// Continue statement.
	Continue struct {
		Pos Pos
	}

	// Pass statement.
	Pass struct {
		Pos Pos
	}

	// Return statement. Value may be nil.
	Return struct {
		Pos   Pos
		Value Expr
	}

	// Assert statement. Msg may be nil.
	Assert struct {
		Pos  Pos
		Test Expr
		Msg  Expr
	}
)

// Param is a parameter of a compiled body.
type Param struct {
	Pos        Pos
	Name       string
	Annotation Expr
}

// FuncDef is the compiled body: a kernel or a function.
type FuncDef struct {
	Pos     Pos
	Name    string
	Params  []*Param
	Returns Expr
	Body    []Stmt
}

// Position returns the position of the node.
func (n *Name) Position() Pos { return n.Pos }

// Position returns the position of the node.
func (n *Constant) Position() Pos { return n.Pos }

// Position returns the position of the node.
func (n *BinOp) Position() Pos { return n.Pos }

// Position returns the position of the node.
func (n *UnaryOp) Position() Pos { return n.Pos }

// Position returns the position of the node.
func (n *BoolOp) Position() Pos { return n.Pos }

// Position returns the position of the node.
func (n *Compare) Position() Pos { return n.Pos }

// Position returns the position of the node.
func (n *IfExp) Position() Pos { return n.Pos }

// Position returns the position of the node.
func (n *Keyword) Position() Pos { return n.Pos }

// Position returns the position of the node.
func (n *Call) Position() Pos { return n.Pos }

// Position returns the position of the node.
func (n *Attribute) Position() Pos { return n.Pos }

// Position returns the position of the node.
func (n *Subscript) Position() Pos { return n.Pos }

// Position returns the position of the node.
func (n *Tuple) Position() Pos { return n.Pos }

// Position returns the position of the node.
func (n *List) Position() Pos { return n.Pos }

// Position returns the position of the node.
func (n *Dict) Position() Pos { return n.Pos }

// Position returns the position of the node.
func (n *Comprehension) Position() Pos { return n.Pos }

// Position returns the position of the node.
func (n *ListComp) Position() Pos { return n.Pos }

// Position returns the position of the node.
func (n *DictComp) Position() Pos { return n.Pos }

// Position returns the position of the node.
func (n *NamedExpr) Position() Pos { return n.Pos }

// Position returns the position of the node.
func (n *Assign) Position() Pos { return n.Pos }

// Position returns the position of the node.
func (n *AugAssign) Position() Pos { return n.Pos }

// Position returns the position of the node.
func (n *AnnAssign) Position() Pos { return n.Pos }

// Position returns the position of the node.
func (n *ExprStmt) Position() Pos { return n.Pos }

// Position returns the position of the node.
func (n *If) Position() Pos { return n.Pos }

// Position returns the position of the node.
func (n *While) Position() Pos { return n.Pos }

// Position returns the position of the node.
func (n *For) Position() Pos { return n.Pos }

// Position returns the position of the node.
func (n *Break) Position() Pos { return n.Pos }

// Position returns the position of the node.
func (n *Continue) Position() Pos { return n.Pos }

// Position returns the position of the node.
func (n *Pass) Position() Pos { return n.Pos }

// Position returns the position of the node.
func (n *Return) Position() Pos { return n.Pos }

// Position returns the position of the node.
func (n *Assert) Position() Pos { return n.Pos }

// Position returns the position of the node.
func (n *Param) Position() Pos { return n.Pos }

// Position returns the position of the node.
func (n *FuncDef) Position() Pos { return n.Pos }

func (*Name) exprNode()      {}
func (*Constant) exprNode()  {}
func (*BinOp) exprNode()     {}
func (*UnaryOp) exprNode()   {}
func (*BoolOp) exprNode()    {}
func (*Compare) exprNode()   {}
func (*IfExp) exprNode()     {}
func (*Call) exprNode()      {}
func (*Attribute) exprNode() {}
func (*Subscript) exprNode() {}
func (*Tuple) exprNode()     {}
func (*List) exprNode()      {}
func (*Dict) exprNode()      {}
func (*ListComp) exprNode()  {}
func (*DictComp) exprNode()  {}
func (*NamedExpr) exprNode() {}

func (*Assign) stmtNode()    {}
func (*AugAssign) stmtNode() {}
func (*AnnAssign) stmtNode() {}
func (*ExprStmt) stmtNode()  {}
func (*If) stmtNode()        {}
func (*While) stmtNode()     {}
func (*For) stmtNode()       {}
func (*Break) stmtNode()     {}
func (*Continue) stmtNode()  {}
func (*Pass) stmtNode()      {}
func (*Return) stmtNode()    {}
func (*Assert) stmtNode()    {}

var (
	_ Expr = (*Name)(nil)
	_ Expr = (*Constant)(nil)
	_ Expr = (*BinOp)(nil)
	_ Expr = (*UnaryOp)(nil)
	_ Expr = (*BoolOp)(nil)
	_ Expr = (*Compare)(nil)
	_ Expr = (*IfExp)(nil)
	_ Expr = (*Call)(nil)
	_ Expr = (*Attribute)(nil)
	_ Expr = (*Subscript)(nil)
	_ Expr = (*Tuple)(nil)
	_ Expr = (*List)(nil)
	_ Expr = (*Dict)(nil)
	_ Expr = (*ListComp)(nil)
	_ Expr = (*DictComp)(nil)
	_ Expr = (*NamedExpr)(nil)

	_ Stmt = (*Assign)(nil)
	_ Stmt = (*AugAssign)(nil)
	_ Stmt = (*AnnAssign)(nil)
	_ Stmt = (*ExprStmt)(nil)
	_ Stmt = (*If)(nil)
	_ Stmt = (*While)(nil)
	_ Stmt = (*For)(nil)
	_ Stmt = (*Break)(nil)
	_ Stmt = (*Continue)(nil)
	_ Stmt = (*Pass)(nil)
	_ Stmt = (*Return)(nil)
	_ Stmt = (*Assert)(nil)
)
