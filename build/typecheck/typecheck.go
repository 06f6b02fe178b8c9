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

// Package typecheck implements the typing rules of runtime values.
//
// A runtime variable has a fixed type: its annotation or the type of the
// first value assigned to it. Later assignments must be compatible with
// that type. Operators promote their operands to a common type.
package typecheck

import (
	"github.com/pkg/errors"
	"github.com/gx-org/kernelc/build/ast"
	"github.com/gx-org/kernelc/build/fmterr"
	"github.com/gx-org/kernelc/build/host"
	"github.com/gx-org/kernelc/build/ir"
	"github.com/gx-org/kernelc/build/ir/irkind"
)

// Checker applies typing rules given the default types of literals.
type Checker struct {
	defaultInt   *ir.ScalarType
	defaultFloat *ir.ScalarType
}

// New returns a checker given the runtime types of integer and float literals.
func New(defaultInt, defaultFloat irkind.Kind) (*Checker, error) {
	if !irkind.IsInteger(defaultInt) {
		return nil, errors.Errorf("default integer type %s is not an integer type", defaultInt)
	}
	if !irkind.IsFloat(defaultFloat) {
		return nil, errors.Errorf("default float type %s is not a float type", defaultFloat)
	}
	return &Checker{
		defaultInt:   ir.TypeFromKind(defaultInt),
		defaultFloat: ir.TypeFromKind(defaultFloat),
	}, nil
}

// DefaultInt returns the type of integer literals.
func (c *Checker) DefaultInt() *ir.ScalarType {
	return c.defaultInt
}

// DefaultFloat returns the type of float literals.
func (c *Checker) DefaultFloat() *ir.ScalarType {
	return c.defaultFloat
}

// Literal returns the runtime type of a compile-time number materialized on its own.
func (c *Checker) Literal(v host.Value) (*ir.ScalarType, error) {
	switch v.(type) {
	case bool:
		return ir.BoolType(), nil
	case int64:
		return c.defaultInt, nil
	case float64:
		return c.defaultFloat, nil
	}
	return nil, fmterr.Errorf(fmterr.TypeError, nil, "%s value %s cannot be used as a runtime value", host.TypeName(v), host.Repr(v))
}

// LiteralWith returns the type of a compile-time number used as an operand
// of a binary operator with a runtime operand of a given type.
// The literal adopts the type of the runtime operand unless that loses its kind:
// a float literal with an integer operand keeps the default float type.
func (c *Checker) LiteralWith(v host.Value, other ir.Type) (*ir.ScalarType, error) {
	lit, err := c.Literal(v)
	if err != nil {
		return nil, err
	}
	elem := elemKind(other)
	switch {
	case !irkind.IsScalar(elem):
		return lit, nil
	case lit.Kind() == irkind.Bool:
		return ir.TypeFromKind(elem), nil
	case irkind.IsFloat(lit.Kind()) && !irkind.IsFloat(elem):
		return lit, nil
	case elem == irkind.Bool:
		return lit, nil
	}
	return ir.TypeFromKind(elem), nil
}

// FromAnnotation returns the runtime type of an annotation evaluated at compile time.
func (c *Checker) FromAnnotation(v host.Value) (*ir.ScalarType, error) {
	switch v := v.(type) {
	case host.TypeValue:
		if typ := ir.TypeFromKind(v.Kind); typ != nil {
			return typ, nil
		}
	case host.Builtin:
		switch v.Name {
		case "int":
			return c.defaultInt, nil
		case "float":
			return c.defaultFloat, nil
		case "bool":
			return ir.BoolType(), nil
		}
	}
	return nil, fmterr.Errorf(fmterr.TypeError, nil, "invalid type annotation %s", host.Repr(v))
}

func elemKind(t ir.Type) irkind.Kind {
	if vt, ok := t.(*ir.VectorType); ok {
		return vt.Elem().Kind()
	}
	return t.Kind()
}

// Promotion is the result of typing a binary operator.
type Promotion struct {
	// Operand is the kind to which both operands (or their elements) are converted.
	Operand irkind.Kind
	// Result is the type of the result.
	Result ir.Type
}

// ArithmeticKind returns the common kind of two numeric kinds.
// Floats dominate integers, wider types dominate narrower types,
// and signed integers dominate unsigned integers of the same width.
// Booleans are promoted to the default integer type.
func (c *Checker) ArithmeticKind(x, y irkind.Kind) irkind.Kind {
	if x == irkind.Bool {
		x = c.defaultInt.Kind()
	}
	if y == irkind.Bool {
		y = c.defaultInt.Kind()
	}
	xf, yf := irkind.IsFloat(x), irkind.IsFloat(y)
	switch {
	case xf && !yf:
		return x
	case yf && !xf:
		return y
	}
	bx, by := irkind.Bits(x), irkind.Bits(y)
	switch {
	case bx > by:
		return x
	case by > bx:
		return y
	case irkind.IsSigned(y):
		return y
	}
	return x
}

func vectorLen(x, y ir.Type) (int, error) {
	xv, xIsVec := x.(*ir.VectorType)
	yv, yIsVec := y.(*ir.VectorType)
	switch {
	case xIsVec && yIsVec:
		if xv.Len() != yv.Len() {
			return 0, fmterr.Errorf(fmterr.TypeError, nil, "vector length mismatch: %s and %s", x.String(), y.String())
		}
		return xv.Len(), nil
	case xIsVec:
		return xv.Len(), nil
	case yIsVec:
		return yv.Len(), nil
	}
	return 0, nil
}

func shaped(kind irkind.Kind, n int) ir.Type {
	if n == 0 {
		return ir.TypeFromKind(kind)
	}
	return ir.NewVectorType(kind, n)
}

// Binary types a binary operator applied to two runtime operands.
// Vectors are combined element-wise and scalars are broadcast.
func (c *Checker) Binary(op ast.Op, x, y ir.Type) (Promotion, error) {
	xk, yk := elemKind(x), elemKind(y)
	if !irkind.IsScalar(xk) || !irkind.IsScalar(yk) {
		return Promotion{}, fmterr.Errorf(fmterr.TypeError, nil, "unsupported operand types for %s: %s and %s", op, x.String(), y.String())
	}
	n, err := vectorLen(x, y)
	if err != nil {
		return Promotion{}, err
	}
	switch op {
	case ast.Add, ast.Sub, ast.Mult, ast.FloorDiv, ast.Mod, ast.Pow:
		k := c.ArithmeticKind(xk, yk)
		return Promotion{Operand: k, Result: shaped(k, n)}, nil
	case ast.Div:
		k := c.ArithmeticKind(xk, yk)
		if !irkind.IsFloat(k) {
			k = c.defaultFloat.Kind()
		}
		return Promotion{Operand: k, Result: shaped(k, n)}, nil
	case ast.BitAnd, ast.BitOr, ast.BitXor:
		if xk == irkind.Bool && yk == irkind.Bool {
			return Promotion{Operand: irkind.Bool, Result: shaped(irkind.Bool, n)}, nil
		}
		fallthrough
	case ast.LShift, ast.RShift:
		k := c.ArithmeticKind(xk, yk)
		if !irkind.IsInteger(k) {
			return Promotion{}, fmterr.Errorf(fmterr.TypeError, nil, "unsupported operand types for %s: %s and %s", op, x.String(), y.String())
		}
		return Promotion{Operand: k, Result: shaped(k, n)}, nil
	case ast.Eq, ast.NotEq, ast.Lt, ast.LtE, ast.Gt, ast.GtE:
		k := c.ArithmeticKind(xk, yk)
		if xk == irkind.Bool && yk == irkind.Bool {
			k = irkind.Bool
		}
		return Promotion{Operand: k, Result: shaped(irkind.Bool, n)}, nil
	}
	return Promotion{}, fmterr.Errorf(fmterr.TypeError, nil, "operator %s not supported on runtime values", op)
}

// Unary types a unary operator applied to a runtime operand.
func (c *Checker) Unary(op ast.Op, x ir.Type) (Promotion, error) {
	k := elemKind(x)
	n, _ := vectorLen(x, x)
	switch {
	case !irkind.IsScalar(k):
	case op == ast.Not:
		return Promotion{Operand: k, Result: shaped(irkind.Bool, n)}, nil
	case op == ast.UAdd || op == ast.USub:
		if k == irkind.Bool {
			k = c.defaultInt.Kind()
		}
		return Promotion{Operand: k, Result: shaped(k, n)}, nil
	case op == ast.Invert:
		if k == irkind.Bool {
			return Promotion{Operand: k, Result: shaped(k, n)}, nil
		}
		if irkind.IsInteger(k) {
			return Promotion{Operand: k, Result: shaped(k, n)}, nil
		}
	}
	return Promotion{}, fmterr.Errorf(fmterr.TypeError, nil, "bad operand type for unary %s: %s", op, x.String())
}

// Widens returns true if a value of type src can be converted to dst without loss.
func Widens(dst, src irkind.Kind) bool {
	if dst == src {
		return true
	}
	if irkind.Bits(dst) <= irkind.Bits(src) {
		return false
	}
	switch {
	case irkind.IsFloat(dst):
		return irkind.IsFloat(src)
	case irkind.IsSigned(dst):
		return irkind.IsSigned(src)
	case irkind.IsInteger(dst):
		return irkind.IsInteger(src) && !irkind.IsSigned(src)
	}
	return false
}

// AssignValue checks that a runtime value can be assigned to a variable of a fixed type.
// It returns true if a conversion needs to be emitted.
func (c *Checker) AssignValue(name string, dst, src ir.Type) (bool, error) {
	if dst.Equal(src) {
		return false, nil
	}
	dv, dIsVec := dst.(*ir.VectorType)
	sv, sIsVec := src.(*ir.VectorType)
	switch {
	case !dIsVec && !sIsVec:
		if Widens(dst.Kind(), src.Kind()) {
			return true, nil
		}
	case dIsVec && sIsVec && dv.Len() == sv.Len():
		if Widens(dv.Elem().Kind(), sv.Elem().Kind()) {
			return true, nil
		}
	}
	return false, fmterr.Errorf(fmterr.TypeError, nil, "cannot assign a value of type %s to %s of type %s", src.String(), name, dst.String())
}

// AssignLiteral checks that a compile-time number can be assigned to a variable of a fixed type.
func (c *Checker) AssignLiteral(name string, dst ir.Type, v host.Value) (*ir.Imm, error) {
	st, ok := dst.(*ir.ScalarType)
	if !ok {
		return nil, fmterr.Errorf(fmterr.TypeError, nil, "cannot assign %s value %s to %s of type %s", host.TypeName(v), host.Repr(v), name, dst.String())
	}
	kind := st.Kind()
	compatible := false
	switch v.(type) {
	case bool:
		compatible = kind == irkind.Bool
	case int64:
		compatible = irkind.IsNumeric(kind)
	case float64:
		compatible = irkind.IsFloat(kind)
	}
	if !compatible {
		return nil, fmterr.Errorf(fmterr.TypeError, nil, "cannot assign %s value %s to %s of type %s", host.TypeName(v), host.Repr(v), name, dst.String())
	}
	imm, err := ir.NewImm(v, st)
	if err != nil {
		return nil, fmterr.Position(fmterr.TypeError, ast.Pos{}, errors.Wrapf(err, "cannot assign %s to %s", host.Repr(v), name))
	}
	return imm, nil
}
