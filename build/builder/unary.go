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

func (fb *fnBuilder) evalUnaryOp(ctx stmtCtx, expr *ast.UnaryOp) (*value, error) {
	x, err := fb.evalExpr(ctx, expr.X)
	if err != nil {
		return nil, err
	}
	if !x.isRuntime() {
		v, err := host.Unary(expr.Op, x.ct)
		if err != nil {
			return nil, fmterr.At(expr, err)
		}
		return ctValue(v), nil
	}
	if _, isVec := x.rt.Type().(*ir.VectorType); expr.Op == ast.Not && !isVec {
		cond, err := fb.truth(expr, x)
		if err != nil {
			return nil, err
		}
		return rtValue(fb.emitValue(&ir.UnaryOp{
			Base: fb.em.Base(expr.Pos),
			Op:   ast.Not,
			X:    cond,
			Typ:  ir.BoolType(),
		})), nil
	}
	prom, err := fb.check.Unary(expr.Op, x.rt.Type())
	if err != nil {
		return nil, fmterr.At(expr, err)
	}
	xop, err := fb.convert(expr, x.rt, prom.Operand)
	if err != nil {
		return nil, err
	}
	return rtValue(fb.emitValue(&ir.UnaryOp{
		Base: fb.em.Base(expr.Pos),
		Op:   expr.Op,
		X:    xop,
		Typ:  prom.Result,
	})), nil
}
