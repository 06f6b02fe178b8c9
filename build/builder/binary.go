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

func (fb *fnBuilder) evalBinOp(ctx stmtCtx, expr *ast.BinOp) (*value, error) {
	x, err := fb.evalExpr(ctx, expr.X)
	if err != nil {
		return nil, err
	}
	y, err := fb.evalExpr(ctx, expr.Y)
	if err != nil {
		return nil, err
	}
	return fb.binary(expr, expr.Op, x, y)
}

// binary applies a binary operator. The operation is folded if both operands
// are compile-time values. Otherwise, a single IR operation is emitted,
// preceded by the conversions of its operands if their types differ.
func (fb *fnBuilder) binary(node ast.Node, op ast.Op, x, y *value) (*value, error) {
	if !x.isRuntime() && !y.isRuntime() {
		v, err := host.Binary(op, x.ct, y.ct)
		if err != nil {
			return nil, fmterr.At(node, err)
		}
		return ctValue(v), nil
	}
	xop, yop, err := fb.scalarOperands(node, x, y)
	if err != nil {
		return nil, err
	}
	prom, err := fb.check.Binary(op, xop.Type(), yop.Type())
	if err != nil {
		return nil, fmterr.At(node, err)
	}
	if xop, yop, err = fb.promote(node, prom, xop, yop); err != nil {
		return nil, err
	}
	return rtValue(fb.emitValue(&ir.BinaryOp{
		Base: fb.em.Base(node.Position()),
		Op:   op,
		X:    xop,
		Y:    yop,
		Typ:  prom.Result,
	})), nil
}
