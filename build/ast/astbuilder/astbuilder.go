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

// Package astbuilder provides helper functions to build host syntax trees.
//
// Ingestion adapters and tests use these constructors to assemble a function
// body without a parser. Func numbers the statements of the body so that
// every node has a valid position.
package astbuilder

import (
	"github.com/gx-org/kernelc/build/ast"
)

// Name returns an identifier.
func Name(id string) *ast.Name {
	return &ast.Name{ID: id}
}

// Int returns an integer literal.
func Int(v int64) *ast.Constant {
	return &ast.Constant{Value: v}
}

// Float returns a floating-point literal.
func Float(v float64) *ast.Constant {
	return &ast.Constant{Value: v}
}

// Str returns a string literal.
func Str(s string) *ast.Constant {
	return &ast.Constant{Value: s}
}

// Bool returns a boolean literal.
func Bool(b bool) *ast.Constant {
	return &ast.Constant{Value: b}
}

// None returns the None literal.
func None() *ast.Constant {
	return &ast.Constant{}
}

// Bin returns the binary operation x op y.
func Bin(x ast.Expr, op ast.Op, y ast.Expr) *ast.BinOp {
	return &ast.BinOp{Op: op, X: x, Y: y}
}

// Unary returns the unary operation op x.
func Unary(op ast.Op, x ast.Expr) *ast.UnaryOp {
	return &ast.UnaryOp{Op: op, X: x}
}

// And returns the chain x0 and x1 and ...
func And(xs ...ast.Expr) *ast.BoolOp {
	return &ast.BoolOp{Op: ast.And, Values: xs}
}

// Or returns the chain x0 or x1 or ...
func Or(xs ...ast.Expr) *ast.BoolOp {
	return &ast.BoolOp{Op: ast.Or, Values: xs}
}

// Cmp returns a single comparison x op y.
func Cmp(x ast.Expr, op ast.Op, y ast.Expr) *ast.Compare {
	return &ast.Compare{Left: x, Ops: []ast.Op{op}, Comparators: []ast.Expr{y}}
}

// Chain returns a chained comparison. ops and xs must have the same length.
func Chain(left ast.Expr, ops []ast.Op, xs ...ast.Expr) *ast.Compare {
	return &ast.Compare{Left: left, Ops: ops, Comparators: xs}
}

// IfExp returns body if cond else els.
func IfExp(cond, body, els ast.Expr) *ast.IfExp {
	return &ast.IfExp{Cond: cond, Body: body, Else: els}
}

// Call returns a call with positional arguments.
func Call(fn ast.Expr, args ...ast.Expr) *ast.Call {
	return &ast.Call{Func: fn, Args: args}
}

// CallKw returns a call with positional and keyword arguments.
func CallKw(fn ast.Expr, args []ast.Expr, kws ...*ast.Keyword) *ast.Call {
	return &ast.Call{Func: fn, Args: args, Keywords: kws}
}

// Kw returns a keyword argument.
func Kw(name string, value ast.Expr) *ast.Keyword {
	return &ast.Keyword{Name: name, Value: value}
}

// CallName returns a call to a function identified by its name.
func CallName(name string, args ...ast.Expr) *ast.Call {
	return Call(Name(name), args...)
}

// Attr returns x.name.
func Attr(x ast.Expr, name string) *ast.Attribute {
	return &ast.Attribute{X: x, Name: name}
}

// Index returns x[index...].
func Index(x ast.Expr, index ...ast.Expr) *ast.Subscript {
	return &ast.Subscript{X: x, Index: index}
}

// Tuple returns a tuple display.
func Tuple(xs ...ast.Expr) *ast.Tuple {
	return &ast.Tuple{Elems: xs}
}

// List returns a list display.
func List(xs ...ast.Expr) *ast.List {
	return &ast.List{Elems: xs}
}

// Dict returns a dictionary display.
func Dict(keys, values []ast.Expr) *ast.Dict {
	return &ast.Dict{Keys: keys, Values: values}
}

// Gen returns a comprehension clause.
func Gen(target, iter ast.Expr, ifs ...ast.Expr) *ast.Comprehension {
	return &ast.Comprehension{Target: target, Iter: iter, Ifs: ifs}
}

// ListComp returns a list comprehension.
func ListComp(elt ast.Expr, gens ...*ast.Comprehension) *ast.ListComp {
	return &ast.ListComp{Elt: elt, Generators: gens}
}

// DictComp returns a dictionary comprehension.
func DictComp(key, value ast.Expr, gens ...*ast.Comprehension) *ast.DictComp {
	return &ast.DictComp{Key: key, Value: value, Generators: gens}
}

// Walrus returns the assignment expression name := value.
func Walrus(name string, value ast.Expr) *ast.NamedExpr {
	return &ast.NamedExpr{Target: Name(name), Value: value}
}

// Assign returns target = value.
func Assign(target, value ast.Expr) *ast.Assign {
	return &ast.Assign{Targets: []ast.Expr{target}, Value: value}
}

// Define returns name = value.
func Define(name string, value ast.Expr) *ast.Assign {
	return Assign(Name(name), value)
}

// AugAssign returns target op= value.
func AugAssign(target ast.Expr, op ast.Op, value ast.Expr) *ast.AugAssign {
	return &ast.AugAssign{Target: target, Op: op, Value: value}
}

// AnnAssign returns name: annotation = value. value can be nil.
func AnnAssign(name string, annotation, value ast.Expr) *ast.AnnAssign {
	return &ast.AnnAssign{Target: Name(name), Annotation: annotation, Value: value}
}

// Expr returns an expression statement.
func Expr(x ast.Expr) *ast.ExprStmt {
	return &ast.ExprStmt{X: x}
}

// Body groups statements.
func Body(stmts ...ast.Stmt) []ast.Stmt {
	return stmts
}

// If returns an if statement. els can be nil.
func If(cond ast.Expr, body, els []ast.Stmt) *ast.If {
	return &ast.If{Cond: cond, Body: body, Else: els}
}

// While returns a while loop.
func While(cond ast.Expr, body ...ast.Stmt) *ast.While {
	return &ast.While{Cond: cond, Body: body}
}

// For returns a for loop.
func For(target, iter ast.Expr, body ...ast.Stmt) *ast.For {
	return &ast.For{Target: target, Iter: iter, Body: body}
}

// ForIn returns a for loop over a single loop variable.
func ForIn(name string, iter ast.Expr, body ...ast.Stmt) *ast.For {
	return For(Name(name), iter, body...)
}

// Break returns a break statement.
func Break() *ast.Break {
	return &ast.Break{}
}

// Continue returns a continue statement.
func Continue() *ast.Continue {
	return &ast.Continue{}
}

// Pass returns a pass statement.
func Pass() *ast.Pass {
	return &ast.Pass{}
}

// Return returns a return statement. value can be nil.
func Return(value ast.Expr) *ast.Return {
	return &ast.Return{Value: value}
}

// Assert returns an assert statement. msg can be nil.
func Assert(test, msg ast.Expr) *ast.Assert {
	return &ast.Assert{Test: test, Msg: msg}
}

// Param returns a parameter. annotation can be nil.
func Param(name string, annotation ast.Expr) *ast.Param {
	return &ast.Param{Name: name, Annotation: annotation}
}

// Params groups parameters.
func Params(params ...*ast.Param) []*ast.Param {
	return params
}

// Func returns a function definition with numbered positions in file "test.py".
func Func(name string, params []*ast.Param, returns ast.Expr, body ...ast.Stmt) *ast.FuncDef {
	fn := &ast.FuncDef{
		Name:    name,
		Params:  params,
		Returns: returns,
		Body:    body,
	}
	Number(fn, "test.py")
	return fn
}
