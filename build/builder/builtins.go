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
	"slices"

	"github.com/gx-org/kernelc/build/ast"
	"github.com/gx-org/kernelc/build/fmterr"
	"github.com/gx-org/kernelc/build/host"
	"github.com/gx-org/kernelc/build/ir"
	"github.com/gx-org/kernelc/build/ir/irkind"
)

func (fb *fnBuilder) callBuiltin(ctx stmtCtx, expr *ast.Call, name string) (*value, error) {
	switch name {
	case host.Static:
		return fb.evalStatic(ctx, expr)
	case host.LoopConfig:
		return nil, fmterr.Errorf(fmterr.CompileError, expr, "%s() must be a statement placed immediately before a for loop", name)
	case host.Print:
		return fb.processPrint(ctx, expr)
	case "atomic_add":
		return fb.atomicAdd(ctx, expr)
	}
	if err := noKeywords(expr, name); err != nil {
		return nil, err
	}
	args, err := fb.evalExprs(ctx, expr.Args)
	if err != nil {
		return nil, err
	}
	if !slices.ContainsFunc(args, (*value).isRuntime) {
		v, err := host.CallBuiltin(name, hostValues(args), nil)
		if err != nil {
			return nil, fmterr.At(expr, err)
		}
		return ctValue(v), nil
	}
	return fb.lowerBuiltin(expr, name, args)
}

func checkNumArgs(expr *ast.Call, name string, args []*value, n int) error {
	if len(args) == n {
		return nil
	}
	return fmterr.Errorf(fmterr.TypeError, expr, "%s() takes %d argument(s) (%d given)", name, n, len(args))
}

// lowerBuiltin emits the IR of a builtin called with at least one runtime argument.
func (fb *fnBuilder) lowerBuiltin(expr *ast.Call, name string, args []*value) (*value, error) {
	if _, ok := host.Intrinsics[name]; ok {
		if err := checkNumArgs(expr, name, args, 1); err != nil {
			return nil, err
		}
		return fb.floatIntrinsic(expr, name, args[0])
	}
	switch name {
	case host.RangeFn, host.NDRangeFn, host.GroupedFn:
		return nil, fmterr.Errorf(fmterr.TypeError, expr, "%s() with runtime arguments can only be the iterable of a for loop", name)
	case "len":
		if err := checkNumArgs(expr, name, args, 1); err != nil {
			return nil, err
		}
		vt, ok := args[0].rt.Type().(*ir.VectorType)
		if !ok {
			return nil, fmterr.Errorf(fmterr.TypeError, expr, "object of type %s has no len()", args[0].rt.Type().String())
		}
		return ctValue(int64(vt.Len())), nil
	case "abs":
		if err := checkNumArgs(expr, name, args, 1); err != nil {
			return nil, err
		}
		return fb.absIntrinsic(expr, args[0])
	case "min", "max":
		if len(args) < 2 {
			return nil, fmterr.Errorf(fmterr.TypeError, expr, "%s() on runtime values expects at least 2 arguments, got %d", name, len(args))
		}
		acc := args[0]
		for _, arg := range args[1:] {
			var err error
			if acc, err = fb.binaryIntrinsic(expr, name, acc, arg); err != nil {
				return nil, err
			}
		}
		return acc, nil
	case "int":
		if err := checkNumArgs(expr, name, args, 1); err != nil {
			return nil, err
		}
		return fb.castTo(expr, args[0], fb.check.DefaultInt().Kind())
	case "float":
		if err := checkNumArgs(expr, name, args, 1); err != nil {
			return nil, err
		}
		return fb.castTo(expr, args[0], fb.check.DefaultFloat().Kind())
	case "bool":
		if err := checkNumArgs(expr, name, args, 1); err != nil {
			return nil, err
		}
		t, err := fb.truth(expr, args[0])
		if err != nil {
			return nil, err
		}
		return rtValue(t), nil
	case "cast":
		if err := checkNumArgs(expr, name, args, 2); err != nil {
			return nil, err
		}
		typ, ok := args[1].ct.(host.TypeValue)
		if args[1].isRuntime() || !ok {
			return nil, fmterr.Errorf(fmterr.TypeError, expr.Args[1], "cast() second argument must be a type")
		}
		return fb.castTo(expr, args[0], typ.Kind)
	}
	return nil, fmterr.Errorf(fmterr.StaticEvaluationError, expr, "%s() requires compile-time arguments", name)
}

// floatIntrinsic emits a mathematical function. Integers are converted to the default float type.
func (fb *fnBuilder) floatIntrinsic(expr *ast.Call, name string, x *value) (*value, error) {
	kind := elemKind(x.rt.Type())
	if !irkind.IsNumeric(kind) {
		return nil, fmterr.Errorf(fmterr.TypeError, expr, "%s() argument must be a number, not %s", name, x.rt.Type().String())
	}
	if !irkind.IsFloat(kind) {
		kind = fb.check.DefaultFloat().Kind()
	}
	xop, err := fb.convert(expr, x.rt, kind)
	if err != nil {
		return nil, err
	}
	return rtValue(fb.emitValue(&ir.Intrinsic{
		Base: fb.em.Base(expr.Pos),
		Name: name,
		Args: []ir.Operand{xop},
		Typ:  xop.Type(),
	})), nil
}

func (fb *fnBuilder) absIntrinsic(expr *ast.Call, x *value) (*value, error) {
	prom, err := fb.check.Unary(ast.USub, x.rt.Type())
	if err != nil {
		return nil, fmterr.At(expr, err)
	}
	xop, err := fb.convert(expr, x.rt, prom.Operand)
	if err != nil {
		return nil, err
	}
	if !irkind.IsSigned(prom.Operand) && !irkind.IsFloat(prom.Operand) {
		return rtValue(xop), nil
	}
	return rtValue(fb.emitValue(&ir.Intrinsic{
		Base: fb.em.Base(expr.Pos),
		Name: "abs",
		Args: []ir.Operand{xop},
		Typ:  prom.Result,
	})), nil
}

// binaryIntrinsic emits min or max of two values, at least one of them being a runtime value.
func (fb *fnBuilder) binaryIntrinsic(expr *ast.Call, name string, x, y *value) (*value, error) {
	if !x.isRuntime() && !y.isRuntime() {
		v, err := host.CallBuiltin(name, []host.Value{x.ct, y.ct}, nil)
		if err != nil {
			return nil, fmterr.At(expr, err)
		}
		return ctValue(v), nil
	}
	xop, yop, err := fb.scalarOperands(expr, x, y)
	if err != nil {
		return nil, err
	}
	prom, err := fb.check.Binary(ast.Sub, xop.Type(), yop.Type())
	if err != nil {
		return nil, fmterr.At(expr, err)
	}
	if xop, yop, err = fb.promote(expr, prom, xop, yop); err != nil {
		return nil, err
	}
	return rtValue(fb.emitValue(&ir.Intrinsic{
		Base: fb.em.Base(expr.Pos),
		Name: name,
		Args: []ir.Operand{xop, yop},
		Typ:  prom.Result,
	})), nil
}

// atomicAdd emits atomic_add(field[indices], value). The result is the value
// of the element before the addition.
func (fb *fnBuilder) atomicAdd(ctx stmtCtx, expr *ast.Call) (*value, error) {
	if err := noKeywords(expr, "atomic_add"); err != nil {
		return nil, err
	}
	if len(expr.Args) != 2 {
		return nil, fmterr.Errorf(fmterr.TypeError, expr, "atomic_add() takes 2 arguments (%d given)", len(expr.Args))
	}
	sub, ok := expr.Args[0].(*ast.Subscript)
	if !ok {
		return nil, fmterr.Errorf(fmterr.TypeError, expr.Args[0], "atomic_add() first argument must be an element of a field")
	}
	acc, err := fb.fieldElement(ctx, sub)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, fmterr.Errorf(fmterr.TypeError, expr.Args[0], "atomic_add() first argument must be an element of a field")
	}
	val, err := fb.evalExpr(ctx, expr.Args[1])
	if err != nil {
		return nil, err
	}
	return fb.atomic(expr, ast.Add, acc, val)
}
