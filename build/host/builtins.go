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

package host

import (
	"math"
	"slices"

	"golang.org/x/exp/maps"

	"github.com/gx-org/kernelc/build/ast"
	"github.com/gx-org/kernelc/build/fmterr"
	"github.com/gx-org/kernelc/build/ir/irkind"
)

// Names of the builtins with a special meaning for the compiler.
const (
	Static     = "static"
	NDRangeFn  = "ndrange"
	GroupedFn  = "grouped"
	LoopConfig = "loop_config"
	RangeFn    = "range"
	Print      = "print"
)

// Intrinsics are the mathematical functions lowered to IR intrinsics on runtime values.
var Intrinsics = map[string]func(float64) float64{
	"sqrt":  math.Sqrt,
	"sin":   math.Sin,
	"cos":   math.Cos,
	"tan":   math.Tan,
	"exp":   math.Exp,
	"log":   math.Log,
	"floor": math.Floor,
	"ceil":  math.Ceil,
	"tanh":  math.Tanh,
}

var builtinNames = []string{
	RangeFn, "len", "abs", "min", "max", "int", "float", "bool",
	"tuple", "list", "enumerate", "zip", "sum", Print,
}

var namespaceBuiltins = []string{Static, NDRangeFn, GroupedFn, LoopConfig, "cast", "atomic_add"}

var namespaceTypes = map[string]irkind.Kind{
	"i32": irkind.Int32,
	"i64": irkind.Int64,
	"u32": irkind.Uint32,
	"u64": irkind.Uint64,
	"f32": irkind.Float32,
	"f64": irkind.Float64,
	"u1":  irkind.Bool,
}

// Namespace returns the module exposing the kernel language to the host language.
func Namespace(name string) *Module {
	mod := &Module{Name: name, Attrs: make(map[string]Value)}
	for _, b := range namespaceBuiltins {
		mod.Attrs[b] = Builtin{Name: b}
	}
	for intr := range Intrinsics {
		mod.Attrs[intr] = Builtin{Name: intr}
	}
	for n, kind := range namespaceTypes {
		mod.Attrs[n] = TypeValue{Kind: kind}
	}
	mod.Attrs["int32"] = TypeValue{Kind: irkind.Int32}
	mod.Attrs["float32"] = TypeValue{Kind: irkind.Float32}
	mod.Attrs["int64"] = TypeValue{Kind: irkind.Int64}
	mod.Attrs["float64"] = TypeValue{Kind: irkind.Float64}
	return mod
}

// Builtins returns the values visible in every kernel, before any external value.
// The kernel namespace is bound to "ti" and its builtins are also bound without qualification.
func Builtins() map[string]Value {
	vals := make(map[string]Value)
	for _, name := range builtinNames {
		vals[name] = Builtin{Name: name}
	}
	for _, name := range namespaceBuiltins {
		vals[name] = Builtin{Name: name}
	}
	vals["ti"] = Namespace("ti")
	vals["True"] = true
	vals["False"] = false
	vals["None"] = None
	return vals
}

// CallBuiltin evaluates a builtin at compile time.
func CallBuiltin(name string, args []Value, kwargs map[string]Value) (Value, error) {
	if len(kwargs) > 0 {
		kws := maps.Keys(kwargs)
		slices.Sort(kws)
		return nil, fmterr.Errorf(fmterr.TypeError, nil, "%s() got an unexpected keyword argument '%s'", name, kws[0])
	}
	if fn, ok := Intrinsics[name]; ok {
		if err := checkArgs(name, args, 1, 1); err != nil {
			return nil, err
		}
		f, ok := AsFloat(args[0])
		if !ok {
			return nil, fmterr.Errorf(fmterr.TypeError, nil, "must be real number, not %s", TypeName(args[0]))
		}
		return fn(f), nil
	}
	switch name {
	case RangeFn:
		return NewRange(args)
	case NDRangeFn:
		return NewNDRange(args)
	case GroupedFn:
		if err := checkArgs(name, args, 1, 1); err != nil {
			return nil, err
		}
		return Grouped{X: args[0]}, nil
	case Static:
		if len(args) == 1 {
			return args[0], nil
		}
		return Tuple(append([]Value{}, args...)), nil
	case "cast":
		if err := checkArgs(name, args, 2, 2); err != nil {
			return nil, err
		}
		typ, ok := args[1].(TypeValue)
		if !ok {
			return nil, fmterr.Errorf(fmterr.TypeError, nil, "cast() second argument must be a type, not %s", TypeName(args[1]))
		}
		return Convert(typ.Kind, args[0])
	case "len":
		if err := checkArgs(name, args, 1, 1); err != nil {
			return nil, err
		}
		return Len(args[0])
	case "abs":
		if err := checkArgs(name, args, 1, 1); err != nil {
			return nil, err
		}
		if f, ok := args[0].(float64); ok {
			return math.Abs(f), nil
		}
		if i, ok := AsInt(args[0]); ok {
			return max(i, -i), nil
		}
		return nil, fmterr.Errorf(fmterr.TypeError, nil, "bad operand type for abs(): '%s'", TypeName(args[0]))
	case "min", "max":
		return minMax(name, args)
	case "int":
		if err := checkArgs(name, args, 1, 1); err != nil {
			return nil, err
		}
		return Convert(irkind.Int64, args[0])
	case "float":
		if err := checkArgs(name, args, 1, 1); err != nil {
			return nil, err
		}
		return Convert(irkind.Float64, args[0])
	case "bool":
		if err := checkArgs(name, args, 1, 1); err != nil {
			return nil, err
		}
		return Truth(args[0]), nil
	case "tuple", "list":
		var elems []Value
		if len(args) > 0 {
			if err := checkArgs(name, args, 1, 1); err != nil {
				return nil, err
			}
			var err error
			if elems, err = Iterate(args[0]); err != nil {
				return nil, err
			}
		}
		if name == "tuple" {
			return Tuple(elems), nil
		}
		return &List{Elems: elems}, nil
	case "enumerate":
		if err := checkArgs(name, args, 1, 1); err != nil {
			return nil, err
		}
		elems, err := Iterate(args[0])
		if err != nil {
			return nil, err
		}
		pairs := make(Tuple, len(elems))
		for i, e := range elems {
			pairs[i] = Tuple{int64(i), e}
		}
		return pairs, nil
	case "zip":
		return zip(args)
	case "sum":
		if err := checkArgs(name, args, 1, 1); err != nil {
			return nil, err
		}
		elems, err := Iterate(args[0])
		if err != nil {
			return nil, err
		}
		var total Value = int64(0)
		for _, e := range elems {
			if total, err = Binary(ast.Add, total, e); err != nil {
				return nil, err
			}
		}
		return total, nil
	}
	return nil, fmterr.Errorf(fmterr.StaticEvaluationError, nil, "builtin %s cannot be evaluated at compile time", name)
}

func minMax(name string, args []Value) (Value, error) {
	if len(args) == 1 {
		elems, err := Iterate(args[0])
		if err != nil {
			return nil, err
		}
		args = elems
	}
	if len(args) == 0 {
		return nil, fmterr.Errorf(fmterr.TypeError, nil, "%s() arg is an empty sequence", name)
	}
	best := args[0]
	for _, arg := range args[1:] {
		c, err := order(arg, best)
		if err != nil {
			return nil, fmterr.Errorf(fmterr.TypeError, nil, "%s() cannot compare '%s' and '%s'", name, TypeName(arg), TypeName(best))
		}
		if (name == "min" && c < 0) || (name == "max" && c > 0) {
			best = arg
		}
	}
	return best, nil
}

func zip(args []Value) (Value, error) {
	seqs := make([][]Value, len(args))
	n := -1
	for i, arg := range args {
		elems, err := Iterate(arg)
		if err != nil {
			return nil, err
		}
		seqs[i] = elems
		if n < 0 || len(elems) < n {
			n = len(elems)
		}
	}
	tuples := make(Tuple, max(n, 0))
	for i := range tuples {
		t := make(Tuple, len(seqs))
		for j, seq := range seqs {
			t[j] = seq[i]
		}
		tuples[i] = t
	}
	return tuples, nil
}
