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

// Package host implements the compile-time values of kernels.
//
// Compile-time values are ordinary values of the host scripting language:
// they are computed while the kernel is compiled and never appear in the
// emitted IR, except as immediates. Numbers are represented with Go native
// types: int64 for integers, float64 for floats and bool for booleans.
// Strings are Go strings. All other values have a dedicated type in this
// package.
package host

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/gx-org/backend/dtype"
	"github.com/gx-org/backend/shape"
	"github.com/gx-org/kernelc/build/fmterr"
	"github.com/gx-org/kernelc/build/ir"
	"github.com/gx-org/kernelc/build/ir/irkind"
)

type (
	// Value is a compile-time value.
	Value any

	// NoneType is the type of None.
	NoneType struct{}

	// Tuple is an immutable sequence of values.
	Tuple []Value

	// List is a mutable sequence of values.
	List struct {
		Elems []Value
	}

	// Range is a finite arithmetic progression of integers.
	Range struct {
		Start, Stop, Step int64
	}

	// NDRange is the direct product of ranges with a step of 1.
	NDRange struct {
		Axes []Range
	}

	// Grouped wraps an iterable so that loops over it bind a single vector
	// instead of one variable per axis.
	Grouped struct {
		X Value
	}

	// Field is a handle on a field-like container. The storage of the field
	// is owned by the runtime.
	Field struct {
		Name  string
		Shape *shape.Shape
		// Sparse is true if only a subset of the coordinates is active.
		Sparse bool
	}

	// Module is a namespace of values.
	Module struct {
		Name  string
		Attrs map[string]Value
	}

	// Builtin is a function recognised by the compiler.
	Builtin struct {
		Name string
	}

	// Func is a host function executed at compile time.
	Func struct {
		Name string
		Fn   func(args []Value) (Value, error)
	}

	// Method is a function bound to a receiver.
	Method struct {
		Recv Value
		Name string
	}

	// TypeValue is a runtime type used in annotations and casts.
	TypeValue struct {
		Kind irkind.Kind
	}

	// Runtime is a runtime value stored in a compile-time container,
	// for instance in a tuple display with runtime elements.
	Runtime struct {
		Op ir.Operand
	}
)

// None is the value of the None constant.
var None = NoneType{}

// NewField returns a dense field given its element type and axis lengths.
func NewField(name string, dt dtype.DataType, axes ...int) *Field {
	return &Field{
		Name:  name,
		Shape: &shape.Shape{DType: dt, AxisLengths: axes},
	}
}

// NDim returns the number of axes of the field.
func (f *Field) NDim() int {
	return len(f.Shape.AxisLengths)
}

// Kind returns the kind of the elements of the field.
func (f *Field) Kind() irkind.Kind {
	return irkind.FromDType(f.Shape.DType)
}

func (f *Field) String() string {
	return fmt.Sprintf("field %s<%s%v>", f.Name, f.Kind(), f.Shape.AxisLengths)
}

// Info returns the description of the field recorded in programs.
func (f *Field) Info() ir.FieldInfo {
	return ir.FieldInfo{Name: f.Name, Shape: f.Shape, Sparse: f.Sparse}
}

// HasRuntime returns true if a value is a runtime value or a container holding one.
func HasRuntime(v Value) bool {
	switch v := v.(type) {
	case Runtime:
		return true
	case Tuple:
		return slices.ContainsFunc(v, HasRuntime)
	case *List:
		return slices.ContainsFunc(v.Elems, HasRuntime)
	case *Dict:
		return slices.ContainsFunc(v.Values(), HasRuntime)
	case Grouped:
		return HasRuntime(v.X)
	}
	return false
}

// Len returns the number of integers in the range, saturated to math.MaxInt64.
func (r Range) Len() int64 {
	var span, step uint64
	switch {
	case r.Step > 0 && r.Stop > r.Start:
		span, step = uint64(r.Stop-r.Start), uint64(r.Step)
	case r.Step < 0 && r.Start > r.Stop:
		span, step = uint64(r.Start-r.Stop), uint64(-r.Step)
	default:
		return 0
	}
	n := (span-1)/step + 1
	if n > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(n)
}

// At returns the i-th element of the range.
func (r Range) At(i int64) int64 {
	return r.Start + i*r.Step
}

// NewRange builds a range from the arguments of a call to range.
func NewRange(args []Value) (Range, error) {
	ints := make([]int64, len(args))
	for i, arg := range args {
		v, ok := AsInt(arg)
		if !ok {
			return Range{}, fmterr.Errorf(fmterr.TypeError, nil, "range() argument %d: %s object cannot be interpreted as an integer", i+1, TypeName(arg))
		}
		ints[i] = v
	}
	switch len(ints) {
	case 1:
		return Range{Start: 0, Stop: ints[0], Step: 1}, nil
	case 2:
		return Range{Start: ints[0], Stop: ints[1], Step: 1}, nil
	case 3:
		if ints[2] == 0 {
			return Range{}, fmterr.Errorf(fmterr.TypeError, nil, "range() arg 3 must not be zero")
		}
		return Range{Start: ints[0], Stop: ints[1], Step: ints[2]}, nil
	}
	return Range{}, fmterr.Errorf(fmterr.TypeError, nil, "range expected 1 to 3 arguments, got %d", len(args))
}

// NewNDRange builds an ndrange from the arguments of a call to ndrange.
// Each argument is either the length of an axis or a (start, stop) pair.
func NewNDRange(args []Value) (NDRange, error) {
	axes := make([]Range, len(args))
	for i, arg := range args {
		if n, ok := AsInt(arg); ok {
			axes[i] = Range{Start: 0, Stop: n, Step: 1}
			continue
		}
		elems, ok := sequence(arg)
		if !ok || len(elems) != 2 {
			return NDRange{}, fmterr.Errorf(fmterr.TypeError, nil, "ndrange() argument %d: expected an integer or a (start, stop) pair, got %s", i+1, Repr(arg))
		}
		start, okStart := AsInt(elems[0])
		stop, okStop := AsInt(elems[1])
		if !okStart || !okStop {
			return NDRange{}, fmterr.Errorf(fmterr.TypeError, nil, "ndrange() argument %d: bounds must be integers, got %s", i+1, Repr(arg))
		}
		axes[i] = Range{Start: start, Stop: stop, Step: 1}
	}
	return NDRange{Axes: axes}, nil
}

// Len returns the number of points in the ndrange, saturated to math.MaxInt64.
func (r NDRange) Len() int64 {
	n := int64(1)
	for _, axis := range r.Axes {
		l := axis.Len()
		if l == 0 {
			return 0
		}
		if n > math.MaxInt64/l {
			n = math.MaxInt64
			continue
		}
		n *= l
	}
	return n
}

// TypeName returns the name of the type of a value in the host language.
func TypeName(v Value) string {
	switch v := v.(type) {
	case nil, NoneType:
		return "NoneType"
	case bool:
		return "bool"
	case int64:
		return "int"
	case float64:
		return "float"
	case string:
		return "str"
	case Tuple:
		return "tuple"
	case *List:
		return "list"
	case *Dict:
		return "dict"
	case Range:
		return "range"
	case NDRange:
		return "ndrange"
	case Grouped:
		return "grouped"
	case *Field:
		return "field"
	case *Module:
		return "module"
	case Builtin, Method:
		return "builtin_function_or_method"
	case *Func:
		return "function"
	case TypeValue:
		return "type"
	case Runtime:
		return "runtime " + v.Op.Type().String()
	default:
		return fmt.Sprintf("%T", v)
	}
}

// Str returns the string of a value as printed by the host language.
func Str(v Value) string {
	if s, ok := v.(string); ok {
		return s
	}
	return Repr(v)
}

// Repr returns the representation of a value in the host language.
func Repr(v Value) string {
	switch v := v.(type) {
	case nil, NoneType:
		return "None"
	case bool:
		if v {
			return "True"
		}
		return "False"
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return ir.FormatFloat(v)
	case string:
		return "'" + strings.ReplaceAll(v, "'", `\'`) + "'"
	case Tuple:
		if len(v) == 1 {
			return "(" + Repr(v[0]) + ",)"
		}
		return "(" + joinRepr(v) + ")"
	case *List:
		return "[" + joinRepr(v.Elems) + "]"
	case *Dict:
		items := make([]string, 0, v.Len())
		for key, val := range v.Items() {
			items = append(items, Repr(key)+": "+Repr(val))
		}
		return "{" + strings.Join(items, ", ") + "}"
	case Range:
		if v.Step == 1 {
			return fmt.Sprintf("range(%d, %d)", v.Start, v.Stop)
		}
		return fmt.Sprintf("range(%d, %d, %d)", v.Start, v.Stop, v.Step)
	case NDRange:
		axes := make([]string, len(v.Axes))
		for i, axis := range v.Axes {
			axes[i] = fmt.Sprintf("(%d, %d)", axis.Start, axis.Stop)
		}
		return "ndrange(" + strings.Join(axes, ", ") + ")"
	case Grouped:
		return "grouped(" + Repr(v.X) + ")"
	case *Field:
		return v.String()
	case *Module:
		return "<module '" + v.Name + "'>"
	case Builtin:
		return "<built-in function " + v.Name + ">"
	case Method:
		return "<built-in method " + v.Name + " of " + TypeName(v.Recv) + " object>"
	case *Func:
		return "<function " + v.Name + ">"
	case TypeValue:
		return v.Kind.String()
	case Runtime:
		return "<" + v.Op.String() + ": " + v.Op.Type().String() + ">"
	default:
		return fmt.Sprint(v)
	}
}

func joinRepr(vals []Value) string {
	ss := make([]string, len(vals))
	for i, v := range vals {
		ss[i] = Repr(v)
	}
	return strings.Join(ss, ", ")
}

// FromConstant converts a literal of the host AST into a value.
func FromConstant(c any) (Value, error) {
	switch c := c.(type) {
	case nil:
		return None, nil
	case bool, int64, float64, string:
		return c, nil
	case int:
		return int64(c), nil
	case float32:
		return float64(c), nil
	}
	return nil, fmterr.Errorf(fmterr.TypeError, nil, "literal of type %T not supported", c)
}

// AsInt returns the integer value of a bool or an int.
func AsInt(v Value) (int64, bool) {
	switch v := v.(type) {
	case int64:
		return v, true
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// AsFloat returns the float value of a number.
func AsFloat(v Value) (float64, bool) {
	if f, ok := v.(float64); ok {
		return f, true
	}
	if i, ok := AsInt(v); ok {
		return float64(i), true
	}
	return 0, false
}

// IsNumber returns true if the value is a bool, an int or a float.
func IsNumber(v Value) bool {
	switch v.(type) {
	case bool, int64, float64:
		return true
	}
	return false
}

// Truth returns the truth value of a value.
func Truth(v Value) bool {
	switch v := v.(type) {
	case nil, NoneType:
		return false
	case bool:
		return v
	case int64:
		return v != 0
	case float64:
		return v != 0
	case string:
		return len(v) > 0
	case Tuple:
		return len(v) > 0
	case *List:
		return len(v.Elems) > 0
	case *Dict:
		return v.Len() > 0
	case Range:
		return v.Len() > 0
	case NDRange:
		return v.Len() > 0
	}
	return true
}
