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
	"strings"

	"github.com/gx-org/kernelc/build/ast"
	"github.com/gx-org/kernelc/build/fmterr"
)

func unsupported(op ast.Op, x, y Value) error {
	return fmterr.Errorf(fmterr.TypeError, nil, "unsupported operand type(s) for %s: '%s' and '%s'", op, TypeName(x), TypeName(y))
}

func divisionByZero(op ast.Op) error {
	return fmterr.Errorf(fmterr.CompileError, nil, "division by zero in %s at compile time", op)
}

// Binary applies a binary operator on two compile-time values.
func Binary(op ast.Op, x, y Value) (Value, error) {
	if IsNumber(x) && IsNumber(y) {
		return binaryNumber(op, x, y)
	}
	switch xv := x.(type) {
	case string:
		switch op {
		case ast.Add:
			if yv, ok := y.(string); ok {
				return xv + yv, nil
			}
		case ast.Mult:
			if n, ok := y.(int64); ok {
				return repeatString(xv, n), nil
			}
		}
	case Tuple:
		switch op {
		case ast.Add:
			if yv, ok := y.(Tuple); ok {
				return append(append(Tuple{}, xv...), yv...), nil
			}
		case ast.Mult:
			if n, ok := y.(int64); ok {
				return Tuple(repeat(xv, n)), nil
			}
		}
	case *List:
		switch op {
		case ast.Add:
			if yv, ok := y.(*List); ok {
				return &List{Elems: append(slices.Clone(xv.Elems), yv.Elems...)}, nil
			}
		case ast.Mult:
			if n, ok := y.(int64); ok {
				return &List{Elems: repeat(xv.Elems, n)}, nil
			}
		}
	case int64:
		if op != ast.Mult {
			break
		}
		switch yv := y.(type) {
		case string:
			return repeatString(yv, xv), nil
		case Tuple:
			return Tuple(repeat(yv, xv)), nil
		case *List:
			return &List{Elems: repeat(yv.Elems, xv)}, nil
		}
	}
	return nil, unsupported(op, x, y)
}

func repeat(vals []Value, n int64) []Value {
	var r []Value
	for range max(n, 0) {
		r = append(r, vals...)
	}
	return r
}

func repeatString(s string, n int64) string {
	var r string
	for range max(n, 0) {
		r += s
	}
	return r
}

func binaryNumber(op ast.Op, x, y Value) (Value, error) {
	xb, xIsBool := x.(bool)
	yb, yIsBool := y.(bool)
	if xIsBool && yIsBool {
		switch op {
		case ast.BitAnd:
			return xb && yb, nil
		case ast.BitOr:
			return xb || yb, nil
		case ast.BitXor:
			return xb != yb, nil
		}
	}
	_, xIsFloat := x.(float64)
	_, yIsFloat := y.(float64)
	if xIsFloat || yIsFloat {
		xf, _ := AsFloat(x)
		yf, _ := AsFloat(y)
		return binaryFloat(op, xf, yf, x, y)
	}
	xi, _ := AsInt(x)
	yi, _ := AsInt(y)
	return binaryInt(op, xi, yi, x, y)
}

func binaryFloat(op ast.Op, x, y float64, xv, yv Value) (Value, error) {
	switch op {
	case ast.Add:
		return x + y, nil
	case ast.Sub:
		return x - y, nil
	case ast.Mult:
		return x * y, nil
	case ast.Div:
		if y == 0 {
			return nil, divisionByZero(op)
		}
		return x / y, nil
	case ast.FloorDiv:
		if y == 0 {
			return nil, divisionByZero(op)
		}
		return math.Floor(x / y), nil
	case ast.Mod:
		if y == 0 {
			return nil, divisionByZero(op)
		}
		return FloatMod(x, y), nil
	case ast.Pow:
		return math.Pow(x, y), nil
	}
	return nil, unsupported(op, xv, yv)
}

func binaryInt(op ast.Op, x, y int64, xv, yv Value) (Value, error) {
	switch op {
	case ast.Add:
		return x + y, nil
	case ast.Sub:
		return x - y, nil
	case ast.Mult:
		return x * y, nil
	case ast.Div:
		if y == 0 {
			return nil, divisionByZero(op)
		}
		return float64(x) / float64(y), nil
	case ast.FloorDiv:
		if y == 0 {
			return nil, divisionByZero(op)
		}
		return FloorDiv(x, y), nil
	case ast.Mod:
		if y == 0 {
			return nil, divisionByZero(op)
		}
		return IntMod(x, y), nil
	case ast.Pow:
		if y < 0 {
			return math.Pow(float64(x), float64(y)), nil
		}
		return IntPow(x, y), nil
	case ast.LShift:
		if y < 0 {
			return nil, fmterr.Errorf(fmterr.CompileError, nil, "negative shift count")
		}
		return x << uint64(y), nil
	case ast.RShift:
		if y < 0 {
			return nil, fmterr.Errorf(fmterr.CompileError, nil, "negative shift count")
		}
		return x >> uint64(y), nil
	case ast.BitAnd:
		return x & y, nil
	case ast.BitOr:
		return x | y, nil
	case ast.BitXor:
		return x ^ y, nil
	}
	return nil, unsupported(op, xv, yv)
}

// FloorDiv divides two integers rounding towards negative infinity.
func FloorDiv(x, y int64) int64 {
	q := x / y
	if (x%y != 0) && ((x < 0) != (y < 0)) {
		q--
	}
	return q
}

// IntMod returns the remainder of the floor division: the result has the sign of y.
func IntMod(x, y int64) int64 {
	r := x % y
	if r != 0 && ((r < 0) != (y < 0)) {
		r += y
	}
	return r
}

// FloatMod returns the remainder of the floor division: the result has the sign of y.
func FloatMod(x, y float64) float64 {
	r := math.Mod(x, y)
	if r != 0 && ((r < 0) != (y < 0)) {
		r += y
	}
	return r
}

// IntPow raises x to a non-negative power.
func IntPow(x, y int64) int64 {
	r := int64(1)
	for y > 0 {
		if y&1 == 1 {
			r *= x
		}
		x *= x
		y >>= 1
	}
	return r
}

// Unary applies a unary operator on a compile-time value.
func Unary(op ast.Op, x Value) (Value, error) {
	if op == ast.Not {
		return !Truth(x), nil
	}
	if f, ok := x.(float64); ok {
		switch op {
		case ast.UAdd:
			return f, nil
		case ast.USub:
			return -f, nil
		}
	}
	if i, ok := AsInt(x); ok {
		switch op {
		case ast.UAdd:
			return i, nil
		case ast.USub:
			return -i, nil
		case ast.Invert:
			return ^i, nil
		}
	}
	return nil, fmterr.Errorf(fmterr.TypeError, nil, "bad operand type for unary %s: '%s'", op, TypeName(x))
}

// Compare applies a comparison operator on two compile-time values.
func Compare(op ast.Op, x, y Value) (bool, error) {
	switch op {
	case ast.Eq:
		return Equal(x, y), nil
	case ast.NotEq:
		return !Equal(x, y), nil
	case ast.Is:
		return identical(x, y), nil
	case ast.IsNot:
		return !identical(x, y), nil
	case ast.In:
		return Contains(y, x)
	case ast.NotIn:
		in, err := Contains(y, x)
		return !in, err
	}
	c, err := order(x, y)
	if err != nil {
		return false, fmterr.Errorf(fmterr.TypeError, nil, "'%s' not supported between instances of '%s' and '%s'", op, TypeName(x), TypeName(y))
	}
	switch op {
	case ast.Lt:
		return c < 0, nil
	case ast.LtE:
		return c <= 0, nil
	case ast.Gt:
		return c > 0, nil
	case ast.GtE:
		return c >= 0, nil
	}
	return false, unsupported(op, x, y)
}

// order returns -1, 0 or 1 if x is respectively lower, equal or greater than y.
func order(x, y Value) (int, error) {
	if IsNumber(x) && IsNumber(y) {
		xi, xIsInt := AsInt(x)
		yi, yIsInt := AsInt(y)
		if xIsInt && yIsInt {
			return cmpOrdered(xi, yi), nil
		}
		xf, _ := AsFloat(x)
		yf, _ := AsFloat(y)
		return cmpOrdered(xf, yf), nil
	}
	switch xv := x.(type) {
	case string:
		if yv, ok := y.(string); ok {
			return cmpOrdered(xv, yv), nil
		}
	case Tuple:
		if yv, ok := y.(Tuple); ok {
			return orderSeq(xv, yv)
		}
	case *List:
		if yv, ok := y.(*List); ok {
			return orderSeq(xv.Elems, yv.Elems)
		}
	}
	return 0, unsupported(ast.Lt, x, y)
}

func cmpOrdered[T int64 | float64 | string](x, y T) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}

func orderSeq(xs, ys []Value) (int, error) {
	for i := 0; i < len(xs) && i < len(ys); i++ {
		if Equal(xs[i], ys[i]) {
			continue
		}
		return order(xs[i], ys[i])
	}
	return cmpOrdered(int64(len(xs)), int64(len(ys))), nil
}

// Equal returns true if two values are equal in the host language.
func Equal(x, y Value) bool {
	if IsNumber(x) && IsNumber(y) {
		c, _ := order(x, y)
		return c == 0
	}
	switch xv := x.(type) {
	case nil, NoneType:
		switch y.(type) {
		case nil, NoneType:
			return true
		}
		return false
	case string:
		yv, ok := y.(string)
		return ok && xv == yv
	case Tuple:
		yv, ok := y.(Tuple)
		return ok && equalSeq(xv, yv)
	case *List:
		yv, ok := y.(*List)
		return ok && equalSeq(xv.Elems, yv.Elems)
	case *Dict:
		yv, ok := y.(*Dict)
		return ok && xv.equal(yv)
	case Range:
		yv, ok := y.(Range)
		return ok && xv.Len() == yv.Len() && (xv.Len() == 0 || (xv.Start == yv.Start && (xv.Len() == 1 || xv.Step == yv.Step)))
	case NDRange:
		yv, ok := y.(NDRange)
		return ok && slices.Equal(xv.Axes, yv.Axes)
	case Grouped:
		yv, ok := y.(Grouped)
		return ok && Equal(xv.X, yv.X)
	case Builtin, TypeValue:
		return x == y
	case Method:
		yv, ok := y.(Method)
		return ok && xv.Name == yv.Name && identical(xv.Recv, yv.Recv)
	}
	return identical(x, y)
}

func equalSeq(xs, ys []Value) bool {
	return slices.EqualFunc(xs, ys, Equal)
}

func identical(x, y Value) bool {
	switch xv := x.(type) {
	case nil, NoneType:
		switch y.(type) {
		case nil, NoneType:
			return true
		}
		return false
	case *List:
		yv, ok := y.(*List)
		return ok && xv == yv
	case *Dict:
		yv, ok := y.(*Dict)
		return ok && xv == yv
	case *Field:
		yv, ok := y.(*Field)
		return ok && xv == yv
	case *Module:
		yv, ok := y.(*Module)
		return ok && xv == yv
	case *Func:
		yv, ok := y.(*Func)
		return ok && xv == yv
	case Tuple:
		yv, ok := y.(Tuple)
		return ok && equalSeq(xv, yv)
	case bool, int64, float64, string, Range, Builtin, TypeValue:
		return x == y
	}
	return false
}

// Contains returns true if a container contains a value.
func Contains(container, x Value) (bool, error) {
	switch c := container.(type) {
	case string:
		s, ok := x.(string)
		if !ok {
			return false, fmterr.Errorf(fmterr.TypeError, nil, "'in <string>' requires string as left operand, not %s", TypeName(x))
		}
		return strings.Contains(c, s), nil
	case *Dict:
		_, found, err := c.Get(x)
		return found, err
	case Range:
		i, ok := AsInt(x)
		if !ok {
			return false, nil
		}
		if c.Len() == 0 {
			return false, nil
		}
		if c.Step > 0 && (i < c.Start || i >= c.Stop) || c.Step < 0 && (i > c.Start || i <= c.Stop) {
			return false, nil
		}
		return (i-c.Start)%c.Step == 0, nil
	}
	elems, err := Iterate(container)
	if err != nil {
		return false, fmterr.Errorf(fmterr.TypeError, nil, "argument of type '%s' is not iterable", TypeName(container))
	}
	return slices.ContainsFunc(elems, func(e Value) bool { return Equal(e, x) }), nil
}
