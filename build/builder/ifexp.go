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
	"github.com/gx-org/kernelc/build/fmterr"
	"github.com/gx-org/kernelc/build/host"
	"github.com/gx-org/kernelc/build/ir"
)

// evalIfExp evaluates a conditional expression.
// A compile-time condition only evaluates the branch taken.
// A runtime condition evaluates both branches and selects the result.
func (fb *fnBuilder) evalIfExp(ctx stmtCtx, expr *ast.IfExp) (*value, error) {
	cond, err := fb.evalExpr(ctx, expr.Cond)
	if err != nil {
		return nil, err
	}
	if !cond.isRuntime() {
		if host.Truth(cond.ct) {
			return fb.evalExpr(ctx, expr.Body)
		}
		return fb.evalExpr(ctx, expr.Else)
	}
	c, err := fb.truth(expr.Cond, cond)
	if err != nil {
		return nil, err
	}
	x, err := fb.evalExpr(ctx, expr.Body)
	if err != nil {
		return nil, err
	}
	y, err := fb.evalExpr(ctx, expr.Else)
	if err != nil {
		return nil, err
	}
	return fb.selectOf(expr, c, x, y)
}

// selectOf emits the selection between two values, converted to a common type.
func (fb *fnBuilder) selectOf(node ast.Node, c ir.Operand, x, y *value) (*value, error) {
	var xop, yop ir.Operand
	var err error
	if !x.isRuntime() && !y.isRuntime() {
		if xop, err = fb.operand(node, x); err != nil {
			return nil, err
		}
		if yop, err = fb.operand(node, y); err != nil {
			return nil, err
		}
	} else if xop, yop, err = fb.scalarOperands(node, x, y); err != nil {
		return nil, err
	}
	if xk, yk := elemKind(xop.Type()), elemKind(yop.Type()); xk != yk {
		kind := fb.check.ArithmeticKind(xk, yk)
		if xop, err = fb.convert(node, xop, kind); err != nil {
			return nil, err
		}
		if yop, err = fb.convert(node, yop, kind); err != nil {
			return nil, err
		}
	}
	if !xop.Type().Equal(yop.Type()) {
		return nil, fmterr.Errorf(fmterr.TypeError, node, "cannot select between values of types %s and %s", xop.Type().String(), yop.Type().String())
	}
	return rtValue(fb.emitValue(&ir.Select{
		Base: fb.em.Base(node.Position()),
		Cond: c,
		X:    xop,
		Y:    yop,
		Typ:  xop.Type(),
	})), nil
}
