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
	"fmt"

	"github.com/gx-org/kernelc/build/ast"
	"github.com/gx-org/kernelc/build/fmterr"
	"github.com/gx-org/kernelc/build/host"
	"github.com/gx-org/kernelc/build/ir/irkind"
)

// evalCall evaluates a call. The function is always a compile-time value:
// runtime code has no function values.
func (fb *fnBuilder) evalCall(ctx stmtCtx, expr *ast.Call) (*value, error) {
	fn, err := fb.evalExpr(ctx, expr.Func)
	if err != nil {
		return nil, err
	}
	if fn.isRuntime() {
		return nil, fmterr.Errorf(fmterr.TypeError, expr, "'%s' object is not callable", fn.rt.Type().String())
	}
	if b, ok := fn.ct.(host.Builtin); ok {
		return fb.callBuiltin(ctx, expr, b.Name)
	}
	if err := noKeywords(expr, host.TypeName(fn.ct)); err != nil {
		return nil, err
	}
	args, err := fb.evalExprs(ctx, expr.Args)
	if err != nil {
		return nil, err
	}
	switch fnT := fn.ct.(type) {
	case host.TypeValue:
		if len(args) != 1 {
			return nil, fmterr.Errorf(fmterr.TypeError, expr, "%s() takes exactly one argument (%d given)", fnT.Kind, len(args))
		}
		return fb.castTo(expr, args[0], fnT.Kind)
	case *host.Func:
		for i, arg := range args {
			if arg.isRuntime() || host.HasRuntime(arg.ct) {
				return nil, errRuntimeInStatic(expr.Args[i], fmt.Sprintf("argument %d of %s()", i+1, fnT.Name))
			}
		}
	case host.Method:
		if fnT.Mutating() {
			if err := fb.checkMutation(ctx, expr, fnT.Recv); err != nil {
				return nil, err
			}
		}
	default:
		return nil, fmterr.Errorf(fmterr.TypeError, expr, "'%s' object is not callable", host.TypeName(fn.ct))
	}
	v, err := host.Call(fn.ct, hostValues(args))
	if err != nil {
		return nil, fmterr.At(expr, err)
	}
	return ctValue(v), nil
}

func noKeywords(expr *ast.Call, name string) error {
	if len(expr.Keywords) == 0 {
		return nil
	}
	kw := expr.Keywords[0]
	return fmterr.Errorf(fmterr.TypeError, kw, "%s() got an unexpected keyword argument '%s'", name, kw.Name)
}

func hostValues(vals []*value) []host.Value {
	hvs := make([]host.Value, len(vals))
	for i, v := range vals {
		hvs[i] = v.host()
	}
	return hvs
}

// castTo converts a value to a kind, at compile time if the value is a compile-time value.
func (fb *fnBuilder) castTo(node ast.Node, v *value, kind irkind.Kind) (*value, error) {
	if !v.isRuntime() {
		cv, err := host.Convert(kind, v.ct)
		if err != nil {
			return nil, fmterr.At(node, err)
		}
		return ctValue(cv), nil
	}
	op, err := fb.convert(node, v.rt, kind)
	if err != nil {
		return nil, err
	}
	return rtValue(op), nil
}
