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

package ast

// Visitor is called for every node during a walk.
// Returning false stops the descent into the children of the node.
type Visitor func(n Node) bool

// Walk traverses a tree in depth-first order, calling visit for each node.
func Walk(n Node, visit Visitor) {
	if n == nil || !visit(n) {
		return
	}
	switch nT := n.(type) {
	case *FuncDef:
		for _, param := range nT.Params {
			Walk(param, visit)
		}
		walkExpr(nT.Returns, visit)
		walkStmts(nT.Body, visit)
	case *Param:
		walkExpr(nT.Annotation, visit)
	case *BinOp:
		walkExpr(nT.X, visit)
		walkExpr(nT.Y, visit)
	case *UnaryOp:
		walkExpr(nT.X, visit)
	case *BoolOp:
		walkExprs(nT.Values, visit)
	case *Compare:
		walkExpr(nT.Left, visit)
		walkExprs(nT.Comparators, visit)
	case *IfExp:
		walkExpr(nT.Cond, visit)
		walkExpr(nT.Body, visit)
		walkExpr(nT.Else, visit)
	case *Call:
		walkExpr(nT.Func, visit)
		walkExprs(nT.Args, visit)
		for _, kw := range nT.Keywords {
			Walk(kw, visit)
		}
	case *Keyword:
		walkExpr(nT.Value, visit)
	case *Attribute:
		walkExpr(nT.X, visit)
	case *Subscript:
		walkExpr(nT.X, visit)
		walkExprs(nT.Index, visit)
	case *Tuple:
		walkExprs(nT.Elems, visit)
	case *List:
		walkExprs(nT.Elems, visit)
	case *Dict:
		walkExprs(nT.Keys, visit)
		walkExprs(nT.Values, visit)
	case *Comprehension:
		walkExpr(nT.Target, visit)
		walkExpr(nT.Iter, visit)
		walkExprs(nT.Ifs, visit)
	case *ListComp:
		walkExpr(nT.Elt, visit)
		for _, gen := range nT.Generators {
			Walk(gen, visit)
		}
	case *DictComp:
		walkExpr(nT.Key, visit)
		walkExpr(nT.Value, visit)
		for _, gen := range nT.Generators {
			Walk(gen, visit)
		}
	case *NamedExpr:
		Walk(nT.Target, visit)
		walkExpr(nT.Value, visit)
	case *Assign:
		walkExprs(nT.Targets, visit)
		walkExpr(nT.Value, visit)
	case *AugAssign:
		walkExpr(nT.Target, visit)
		walkExpr(nT.Value, visit)
	case *AnnAssign:
		Walk(nT.Target, visit)
		walkExpr(nT.Annotation, visit)
		walkExpr(nT.Value, visit)
	case *ExprStmt:
		walkExpr(nT.X, visit)
	case *If:
		walkExpr(nT.Cond, visit)
		walkStmts(nT.Body, visit)
		walkStmts(nT.Else, visit)
	case *While:
		walkExpr(nT.Cond, visit)
		walkStmts(nT.Body, visit)
	case *For:
		walkExpr(nT.Target, visit)
		walkExpr(nT.Iter, visit)
		walkStmts(nT.Body, visit)
	case *Return:
		walkExpr(nT.Value, visit)
	case *Assert:
		walkExpr(nT.Test, visit)
		walkExpr(nT.Msg, visit)
	}
}

func walkExpr(x Expr, visit Visitor) {
	if x == nil {
		return
	}
	Walk(x, visit)
}

func walkExprs(xs []Expr, visit Visitor) {
	for _, x := range xs {
		walkExpr(x, visit)
	}
}

func walkStmts(stmts []Stmt, visit Visitor) {
	for _, stmt := range stmts {
		Walk(stmt, visit)
	}
}
