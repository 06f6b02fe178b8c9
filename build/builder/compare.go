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
)

// evalCompare evaluates a chain of comparisons.
// Pairs of compile-time operands are folded: the chain is false as soon as one of them is false.
// Runtime comparisons are combined with a bitwise and.
func (fb *fnBuilder) evalCompare(ctx stmtCtx, expr *ast.Compare) (*value, error) {
	left, err := fb.evalExpr(ctx, expr.Left)
	if err != nil {
		return nil, err
	}
	var acc *value
	for i, op := range expr.Ops {
		right, err := fb.evalExpr(ctx, expr.Comparators[i])
		if err != nil {
			return nil, err
		}
		if !left.isRuntime() && !right.isRuntime() {
			ok, err := host.Compare(op, left.ct, right.ct)
			if err != nil {
				return nil, fmterr.At(expr, err)
			}
			if !ok {
				return ctValue(false), nil
			}
			left = right
			continue
		}
		switch op {
		case ast.Is, ast.IsNot, ast.In, ast.NotIn:
			return nil, fmterr.Errorf(fmterr.TypeError, expr, "operator %s not supported on runtime values", op)
		}
		cmp, err := fb.binary(expr, op, left, right)
		if err != nil {
			return nil, err
		}
		if acc == nil {
			acc = cmp
		} else if acc, err = fb.binary(expr, ast.BitAnd, acc, cmp); err != nil {
			return nil, err
		}
		left = right
	}
	if acc == nil {
		return ctValue(true), nil
	}
	return acc, nil
}
