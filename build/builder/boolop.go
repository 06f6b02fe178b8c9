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

package builder

import (
	"github.com/gx-org/kernelc/build/ast"
	"github.com/gx-org/kernelc/build/host"
	"github.com/gx-org/kernelc/build/ir"
)

// evalBoolOp evaluates a chain of `and` or `or` operators.
// Compile-time operands follow the semantics of the host language: the
// chain stops at the first operand deciding the result, which is returned as is.
// Once an operand is a runtime value, the result is a runtime boolean.
func (fb *fnBuilder) evalBoolOp(ctx stmtCtx, expr *ast.BoolOp) (*value, error) {
	first, err := fb.evalExpr(ctx, expr.Values[0])
	if err != nil {
		return nil, err
	}
	return fb.boolOp(ctx, expr, first, expr.Values[1:])
}

func (fb *fnBuilder) boolOp(ctx stmtCtx, expr *ast.BoolOp, x *value, rest []ast.Expr) (*value, error) {
	if len(rest) == 0 {
		return x, nil
	}
	if !x.isRuntime() {
		if (expr.Op == ast.And) != host.Truth(x.ct) {
			return x, nil
		}
		next, err := fb.evalExpr(ctx, rest[0])
		if err != nil {
			return nil, err
		}
		return fb.boolOp(ctx, expr, next, rest[1:])
	}
	if fb.opts.ShortCircuit {
		return fb.shortCircuit(ctx, expr, x, rest)
	}
	return fb.eagerBoolOp(ctx, expr, x, rest)
}

// eagerBoolOp evaluates all the remaining operands and combines their truth values.
func (fb *fnBuilder) eagerBoolOp(ctx stmtCtx, expr *ast.BoolOp, x *value, rest []ast.Expr) (*value, error) {
	acc, err := fb.truth(expr, x)
	if err != nil {
		return nil, err
	}
	op := ast.BitAnd
	if expr.Op == ast.Or {
		op = ast.BitOr
	}
	for _, operand := range rest {
		v, err := fb.evalExpr(ctx, operand)
		if err != nil {
			return nil, err
		}
		t, err := fb.truth(operand, v)
		if err != nil {
			return nil, err
		}
		acc = fb.emitValue(&ir.BinaryOp{
			Base: fb.em.Base(expr.Pos),
			Op:   op,
			X:    acc,
			Y:    t,
			Typ:  ir.BoolType(),
		})
	}
	return rtValue(acc), nil
}

// shortCircuit evaluates the remaining operands in a runtime conditional
// so that they are only executed if the first operand does not decide the result.
func (fb *fnBuilder) shortCircuit(ctx stmtCtx, expr *ast.BoolOp, x *value, rest []ast.Expr) (*value, error) {
	cond, err := fb.truth(expr, x)
	if err != nil {
		return nil, err
	}
	slot := fb.emitValue(&ir.Alloca{
		Base: fb.em.Base(expr.Pos),
		Name: fb.em.Name(expr.Op.String()),
		Typ:  ir.BoolType(),
	})
	fb.em.Emit(&ir.LocalStore{Base: fb.em.Base(expr.Pos), Var: slot.H, Val: cond})
	base := fb.em.Base(expr.Pos)
	block, err := fb.runtimeBlock(ctx, func(ctx stmtCtx) error {
		next, err := fb.evalExpr(ctx, rest[0])
		if err != nil {
			return err
		}
		res, err := fb.boolOp(ctx, expr, next, rest[1:])
		if err != nil {
			return err
		}
		t, err := fb.truth(expr, res)
		if err != nil {
			return err
		}
		fb.em.Emit(&ir.LocalStore{Base: fb.em.Base(expr.Pos), Var: slot.H, Val: t})
		return nil
	})
	if err != nil {
		return nil, err
	}
	stmt := &ir.If{Base: base, Cond: cond, Then: block}
	if expr.Op == ast.Or {
		stmt.Then, stmt.Else = &ir.Block{}, block
	}
	fb.em.Emit(stmt)
	return rtValue(fb.emitValue(&ir.LocalLoad{
		Base: fb.em.Base(expr.Pos),
		Var:  slot.H,
		Typ:  ir.BoolType(),
	})), nil
}
