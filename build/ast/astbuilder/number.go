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

package astbuilder

import (
	"github.com/gx-org/kernelc/build/ast"
)

type numberer struct {
	file  string
	line  int
	depth int
}

// Number assigns positions to all the nodes of a function definition.
// Each statement starts a new line. Expressions take the position of their
// statement.
func Number(fn *ast.FuncDef, file string) {
	nb := &numberer{file: file, line: 1}
	fn.Pos = ast.Pos{File: file, Line: nb.line, Col: 1}
	for _, param := range fn.Params {
		param.Pos = fn.Pos
		nb.exprs(fn.Pos, param.Annotation)
	}
	nb.exprs(fn.Pos, fn.Returns)
	nb.depth++
	nb.stmts(fn.Body)
}

func (nb *numberer) stmts(stmts []ast.Stmt) {
	for _, stmt := range stmts {
		nb.stmt(stmt)
	}
}

func (nb *numberer) next() ast.Pos {
	nb.line++
	return ast.Pos{File: nb.file, Line: nb.line, Col: nb.depth*4 + 1}
}

func (nb *numberer) nested(stmts []ast.Stmt) {
	nb.depth++
	nb.stmts(stmts)
	nb.depth--
}

func (nb *numberer) stmt(stmt ast.Stmt) {
	pos := nb.next()
	switch s := stmt.(type) {
	case *ast.Assign:
		s.Pos = pos
		nb.exprs(pos, s.Targets...)
		nb.exprs(pos, s.Value)
	case *ast.AugAssign:
		s.Pos = pos
		nb.exprs(pos, s.Target, s.Value)
	case *ast.AnnAssign:
		s.Pos = pos
		nb.exprs(pos, s.Target, s.Annotation, s.Value)
	case *ast.ExprStmt:
		s.Pos = pos
		nb.exprs(pos, s.X)
	case *ast.If:
		s.Pos = pos
		nb.exprs(pos, s.Cond)
		nb.nested(s.Body)
		if len(s.Else) > 0 {
			nb.line++ // else:
			nb.nested(s.Else)
		}
	case *ast.While:
		s.Pos = pos
		nb.exprs(pos, s.Cond)
		nb.nested(s.Body)
	case *ast.For:
		s.Pos = pos
		nb.exprs(pos, s.Target, s.Iter)
		nb.nested(s.Body)
	case *ast.Break:
		s.Pos = pos
	case *ast.Continue:
		s.Pos = pos
	case *ast.Pass:
		s.Pos = pos
	case *ast.Return:
		s.Pos = pos
		nb.exprs(pos, s.Value)
	case *ast.Assert:
		s.Pos = pos
		nb.exprs(pos, s.Test, s.Msg)
	}
}

// exprs sets the position of the expressions and all their sub-expressions.
func (nb *numberer) exprs(pos ast.Pos, xs ...ast.Expr) {
	for _, x := range xs {
		if x == nil {
			continue
		}
		ast.Walk(x, func(n ast.Node) bool {
			setPos(n, pos)
			return true
		})
	}
}

func setPos(n ast.Node, pos ast.Pos) {
	switch nT := n.(type) {
	case *ast.Name:
		nT.Pos = pos
	case *ast.Constant:
		nT.Pos = pos
	case *ast.BinOp:
		nT.Pos = pos
	case *ast.UnaryOp:
		nT.Pos = pos
	case *ast.BoolOp:
		nT.Pos = pos
	case *ast.Compare:
		nT.Pos = pos
	case *ast.IfExp:
		nT.Pos = pos
	case *ast.Call:
		nT.Pos = pos
	case *ast.Keyword:
		nT.Pos = pos
	case *ast.Attribute:
		nT.Pos = pos
	case *ast.Subscript:
		nT.Pos = pos
	case *ast.Tuple:
		nT.Pos = pos
	case *ast.List:
		nT.Pos = pos
	case *ast.Dict:
		nT.Pos = pos
	case *ast.Comprehension:
		nT.Pos = pos
	case *ast.ListComp:
		nT.Pos = pos
	case *ast.DictComp:
		nT.Pos = pos
	case *ast.NamedExpr:
		nT.Pos = pos
	}
}
