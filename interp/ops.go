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

package interp

import (
	"cmp"
	"math"

	"github.com/pkg/errors"
	"github.com/gx-org/kernelc/build/ast"
	"github.com/gx-org/kernelc/build/host"
	"github.com/gx-org/kernelc/build/ir"
	"github.com/gx-org/kernelc/build/ir/irkind"
)

var errDivisionByZero = errors.New("integer division or modulo by zero")

func elemKind(typ ir.Type) irkind.Kind {
	if vt, ok := typ.(*ir.VectorType); ok {
		return vt.Elem().Kind()
	}
	return typ.Kind()
}

// lift applies a scalar function element-wise when one of the operands is a vector.
// Scalar operands are broadcast.
func lift(f func(xs ...Value) (Value, error), xs ...Value) (Value, error) {
	n := -1
	for _, x := range xs {
		if vec, ok := x.(Vector); ok {
			if n >= 0 && n != len(vec) {
				return nil, errors.Errorf("vector length mismatch: %d != %d", n, len(vec))
			}
			n = len(vec)
		}
	}
	if n < 0 {
		return f(xs...)
	}
	out := make(Vector, n)
	args := make([]Value, len(xs))
	for i := range out {
		for j, x := range xs {
			if vec, ok := x.(Vector); ok {
				args[j] = vec[i]
			} else {
				args[j] = x
			}
		}
		var err error
		if out[i], err = f(args...); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// binary applies a binary operator on two scalars of the same kind.
func binary(op ast.Op, kind irkind.Kind, x, y Value) (Value, error) {
	switch {
	case kind == irkind.Bool:
		return binaryBool(op, x.(bool), y.(bool))
	case irkind.IsSigned(kind):
		r, err := binaryInt(op, x.(int64), y.(int64))
		if err != nil {
			return nil, err
		}
		if _, ok := r.(int64); ok {
			return wrap(kind, r), nil
		}
		return r, nil
	case irkind.IsInteger(kind):
		r, err := binaryUint(op, x.(uint64), y.(uint64))
		if err != nil {
			return nil, err
		}
		if _, ok := r.(uint64); ok {
			return wrap(kind, r), nil
		}
		return r, nil
	case irkind.IsFloat(kind):
		r, err := binaryFloat(op, x.(float64), y.(float64))
		if err != nil {
			return nil, err
		}
		if _, ok := r.(float64); ok {
			return wrap(kind, r), nil
		}
		return r, nil
	}
	return nil, errors.Errorf("operator %s not supported on %s", op, kind)
}

func compare[T cmp.Ordered](op ast.Op, x, y T) (bool, bool) {
	c := cmp.Compare(x, y)
	switch op {
	case ast.Eq:
		return c == 0, true
	case ast.NotEq:
		return c != 0, true
	case ast.Lt:
		return c < 0, true
	case ast.LtE:
		return c <= 0, true
	case ast.Gt:
		return c > 0, true
	case ast.GtE:
		return c >= 0, true
	}
	return false, false
}

func binaryBool(op ast.Op, x, y bool) (Value, error) {
	switch op {
	case ast.BitAnd:
		return x && y, nil
	case ast.BitOr:
		return x || y, nil
	case ast.BitXor, ast.NotEq:
		return x != y, nil
	case ast.Eq:
		return x == y, nil
	}
	xi, yi := toInt64(x), toInt64(y)
	if r, ok := compare(op, xi, yi); ok {
		return r, nil
	}
	return nil, errors.Errorf("operator %s not supported on bool", op)
}

func binaryInt(op ast.Op, x, y int64) (Value, error) {
	if r, ok := compare(op, x, y); ok {
		return r, nil
	}
	switch op {
	case ast.Add:
		return x + y, nil
	case ast.Sub:
		return x - y, nil
	case ast.Mult:
		return x * y, nil
	case ast.FloorDiv:
		if y == 0 {
			return nil, errDivisionByZero
		}
		return host.FloorDiv(x, y), nil
	case ast.Mod:
		if y == 0 {
			return nil, errDivisionByZero
		}
		return host.IntMod(x, y), nil
	case ast.Pow:
		if y < 0 {
			return nil, errors.Errorf("negative exponent %d", y)
		}
		return host.IntPow(x, y), nil
	case ast.LShift, ast.RShift:
		if y < 0 {
			return nil, errors.Errorf("negative shift count %d", y)
		}
		if op == ast.LShift {
			return x << uint64(y), nil
		}
		return x >> uint64(y), nil
	case ast.BitAnd:
		return x & y, nil
	case ast.BitOr:
		return x | y, nil
	case ast.BitXor:
		return x ^ y, nil
	}
	return nil, errors.Errorf("operator %s not supported on integers", op)
}

func binaryUint(op ast.Op, x, y uint64) (Value, error) {
	if r, ok := compare(op, x, y); ok {
		return r, nil
	}
	switch op {
	case ast.Add:
		return x + y, nil
	case ast.Sub:
		return x - y, nil
	case ast.Mult:
		return x * y, nil
	case ast.FloorDiv:
		if y == 0 {
			return nil, errDivisionByZero
		}
		return x / y, nil
	case ast.Mod:
		if y == 0 {
			return nil, errDivisionByZero
		}
		return x % y, nil
	case ast.Pow:
		r := uint64(1)
		for ; y > 0; y >>= 1 {
			if y&1 == 1 {
				r *= x
			}
			x *= x
		}
		return r, nil
	case ast.LShift:
		return x << y, nil
	case ast.RShift:
		return x >> y, nil
	case ast.BitAnd:
		return x & y, nil
	case ast.BitOr:
		return x | y, nil
	case ast.BitXor:
		return x ^ y, nil
	}
	return nil, errors.Errorf("operator %s not supported on unsigned integers", op)
}

func binaryFloat(op ast.Op, x, y float64) (Value, error) {
	if r, ok := compare(op, x, y); ok {
		return r, nil
	}
	switch op {
	case ast.Add:
		return x + y, nil
	case ast.Sub:
		return x - y, nil
	case ast.Mult:
		return x * y, nil
	case ast.Div:
		return x / y, nil
	case ast.FloorDiv:
		return math.Floor(x / y), nil
	case ast.Mod:
		return host.FloatMod(x, y), nil
	case ast.Pow:
		return math.Pow(x, y), nil
	}
	return nil, errors.Errorf("operator %s not supported on floats", op)
}

// unary applies a unary operator on a scalar.
func unary(op ast.Op, kind irkind.Kind, x Value) (Value, error) {
	switch op {
	case ast.UAdd:
		return x, nil
	case ast.Not:
		return !truth(x), nil
	case ast.USub:
		switch x := x.(type) {
		case int64:
			return wrap(kind, -x), nil
		case uint64:
			return wrap(kind, -x), nil
		case float64:
			return -x, nil
		}
	case ast.Invert:
		switch x := x.(type) {
		case bool:
			return !x, nil
		case int64:
			return wrap(kind, ^x), nil
		case uint64:
			return wrap(kind, ^x), nil
		}
	}
	return nil, errors.Errorf("operator %s not supported on %s", op, kind)
}

// intrinsic evaluates a mathematical function on scalars.
func intrinsic(name string, kind irkind.Kind, args []Value) (Value, error) {
	switch name {
	case "abs":
		switch x := args[0].(type) {
		case int64:
			if x < 0 {
				return wrap(kind, -x), nil
			}
			return x, nil
		case float64:
			return math.Abs(x), nil
		}
		return args[0], nil
	case "min", "max":
		if len(args) != 2 {
			return nil, errors.Errorf("%s expects 2 arguments, got %d", name, len(args))
		}
		lt, err := binary(ast.Lt, kind, args[0], args[1])
		if err != nil {
			return nil, err
		}
		if lt.(bool) == (name == "min") {
			return args[0], nil
		}
		return args[1], nil
	}
	fn, ok := host.Intrinsics[name]
	if !ok {
		return nil, errors.Errorf("unknown intrinsic %s", name)
	}
	if len(args) != 1 {
		return nil, errors.Errorf("%s expects 1 argument, got %d", name, len(args))
	}
	return castScalar(kind, fn(toFloat64(args[0]))), nil
}
