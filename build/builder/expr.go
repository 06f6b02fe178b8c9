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

func (fb *fnBuilder) evalExpr(ctx stmtCtx, expr ast.Expr) (*value, error) {
	v, err := fb.evalNode(ctx, expr)
	if err != nil {
		return nil, err
	}
	if !v.isRuntime() {
		fb.claim(v.ct, ctx.region)
	}
	return v, nil
}

func (fb *fnBuilder) evalNode(ctx stmtCtx, expr ast.Expr) (*value, error) {
	switch exprT := expr.(type) {
	case *ast.Constant:
		return fb.evalConstant(exprT)
	case *ast.Name:
		return fb.evalName(exprT)
	case *ast.BinOp:
		return fb.evalBinOp(ctx, exprT)
	case *ast.UnaryOp:
		return fb.evalUnaryOp(ctx, exprT)
	case *ast.BoolOp:
		return fb.evalBoolOp(ctx, exprT)
	case *ast.Compare:
		return fb.evalCompare(ctx, exprT)
	case *ast.IfExp:
		return fb.evalIfExp(ctx, exprT)
	case *ast.Call:
		return fb.evalCall(ctx, exprT)
	case *ast.Attribute:
		return fb.evalAttribute(ctx, exprT)
	case *ast.Subscript:
		return fb.evalSubscript(ctx, exprT)
	case *ast.Tuple:
		return fb.evalTuple(ctx, exprT)
	case *ast.List:
		return fb.evalList(ctx, exprT)
	case *ast.Dict:
		return fb.evalDict(ctx, exprT)
	case *ast.ListComp:
		return fb.evalListComp(ctx, exprT)
	case *ast.DictComp:
		return fb.evalDictComp(ctx, exprT)
	case *ast.NamedExpr:
		return fb.evalNamedExpr(ctx, exprT)
	default:
		return nil, fmterr.Errorf(fmterr.CompileError, expr, "expression %T not supported", expr)
	}
}

func (fb *fnBuilder) evalExprs(ctx stmtCtx, exprs []ast.Expr) ([]*value, error) {
	vals := make([]*value, len(exprs))
	for i, expr := range exprs {
		var err error
		if vals[i], err = fb.evalExpr(ctx, expr); err != nil {
			return nil, err
		}
	}
	return vals, nil
}

// evalCompileTime evaluates an expression which must be a compile-time value.
func (fb *fnBuilder) evalCompileTime(ctx stmtCtx, expr ast.Expr, what string) (host.Value, error) {
	v, err := fb.evalExpr(ctx, expr)
	if err != nil {
		return nil, err
	}
	if v.isRuntime() || host.HasRuntime(v.ct) {
		return nil, errRuntimeInStatic(expr, what)
	}
	return v.ct, nil
}

func (fb *fnBuilder) evalConstant(expr *ast.Constant) (*value, error) {
	v, err := host.FromConstant(expr.Value)
	if err != nil {
		return nil, fmterr.At(expr, err)
	}
	return ctValue(v), nil
}
