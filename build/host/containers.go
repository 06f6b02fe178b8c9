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
	"iter"
	"strings"

	"github.com/gx-org/kernelc/base/ordered"
	"github.com/gx-org/kernelc/build/ast"
	"github.com/gx-org/kernelc/build/fmterr"
	"github.com/gx-org/kernelc/build/ir"
	"github.com/gx-org/kernelc/build/ir/irkind"
)

// Dict is a mapping preserving the insertion order of its keys.
type Dict struct {
	entries *ordered.Map[any, dictEntry]
}

type dictEntry struct {
	key, val Value
}

// NewDict returns an empty dictionary.
func NewDict() *Dict {
	return &Dict{entries: ordered.NewMap[any, dictEntry]()}
}

// hashKey returns a comparable Go value such that equal host values have equal keys.
func hashKey(v Value) (any, error) {
	switch v := v.(type) {
	case nil, NoneType:
		return None, nil
	case bool:
		i, _ := AsInt(v)
		return i, nil
	case float64:
		if i := int64(v); float64(i) == v {
			return i, nil
		}
		return v, nil
	case int64, string, Range, Builtin, TypeValue, *Field, *Module, *Func:
		return v, nil
	case Tuple:
		keys := make([]string, len(v))
		for i, e := range v {
			k, err := hashKey(e)
			if err != nil {
				return nil, err
			}
			keys[i] = Repr(k)
		}
		return "\x00tuple(" + strings.Join(keys, ",") + ")", nil
	}
	return nil, fmterr.Errorf(fmterr.TypeError, nil, "unhashable type: '%s'", TypeName(v))
}

// Set maps a key to a value. An existing key keeps its position.
func (d *Dict) Set(key, val Value) error {
	h, err := hashKey(key)
	if err != nil {
		return err
	}
	if prev, ok := d.entries.Load(h); ok {
		key = prev.key
	}
	d.entries.Store(h, dictEntry{key: key, val: val})
	return nil
}

// Get returns the value of a key.
func (d *Dict) Get(key Value) (Value, bool, error) {
	h, err := hashKey(key)
	if err != nil {
		return nil, false, err
	}
	e, ok := d.entries.Load(h)
	return e.val, ok, nil
}

// Len returns the number of keys.
func (d *Dict) Len() int {
	return d.entries.Size()
}

// Items returns the key,value pairs in insertion order.
func (d *Dict) Items() iter.Seq2[Value, Value] {
	return func(yield func(Value, Value) bool) {
		for e := range d.entries.Values() {
			if !yield(e.key, e.val) {
				return
			}
		}
	}
}

// Keys returns the keys in insertion order.
func (d *Dict) Keys() []Value {
	keys := make([]Value, 0, d.Len())
	for key := range d.Items() {
		keys = append(keys, key)
	}
	return keys
}

// Values returns the values in insertion order of their keys.
func (d *Dict) Values() []Value {
	vals := make([]Value, 0, d.Len())
	for _, val := range d.Items() {
		vals = append(vals, val)
	}
	return vals
}

func (d *Dict) equal(other *Dict) bool {
	if d.Len() != other.Len() {
		return false
	}
	for key, want := range d.Items() {
		val, found, err := other.Get(key)
		if err != nil || !found || !Equal(want, val) {
			return false
		}
	}
	return true
}

// sequence returns the elements of a tuple or a list.
func sequence(v Value) ([]Value, bool) {
	switch v := v.(type) {
	case Tuple:
		return v, true
	case *List:
		return v.Elems, true
	}
	return nil, false
}

// MaxElements is the maximum number of elements Iterate enumerates.
const MaxElements = 1 << 24

// Iterate enumerates the elements of a finite compile-time iterable.
func Iterate(v Value) ([]Value, error) {
	return IterateN(v, MaxElements)
}

// IterateN enumerates the elements of a finite compile-time iterable of at
// most limit elements. Ranges larger than limit fail with a CompileError
// before any element is computed.
func IterateN(v Value, limit int64) ([]Value, error) {
	if n, ok := Size(v); ok && n > limit {
		return nil, fmterr.Errorf(fmterr.CompileError, nil, "cannot enumerate %s at compile time: %d elements exceed the limit of %d", Repr(v), n, limit)
	}
	switch v := v.(type) {
	case Tuple:
		return append([]Value{}, v...), nil
	case *List:
		return append([]Value{}, v.Elems...), nil
	case *Dict:
		return v.Keys(), nil
	case string:
		elems := make([]Value, 0, len(v))
		for _, r := range v {
			elems = append(elems, string(r))
		}
		return elems, nil
	case Range:
		elems := make([]Value, v.Len())
		for i := range elems {
			elems[i] = v.At(int64(i))
		}
		return elems, nil
	case NDRange:
		return v.points(), nil
	case Grouped:
		return IterateN(v.X, limit)
	}
	return nil, fmterr.Errorf(fmterr.StaticEvaluationError, nil, "cannot enumerate a value of type '%s' at compile time", TypeName(v))
}

// Size returns the number of elements of an iterable generating its
// elements on demand: ranges, ndranges and their grouped form.
func Size(v Value) (int64, bool) {
	switch v := v.(type) {
	case Range:
		return v.Len(), true
	case NDRange:
		return v.Len(), true
	case Grouped:
		return Size(v.X)
	}
	return 0, false
}

// points returns the coordinates of the ndrange in row-major order.
func (r NDRange) points() []Value {
	var pts []Value
	coord := make([]int64, len(r.Axes))
	var rec func(axis int)
	rec = func(axis int) {
		if axis == len(r.Axes) {
			pt := make(Tuple, len(coord))
			for i, c := range coord {
				pt[i] = c
			}
			pts = append(pts, pt)
			return
		}
		ax := r.Axes[axis]
		for i := range ax.Len() {
			coord[axis] = ax.At(i)
			rec(axis + 1)
		}
	}
	rec(0)
	return pts
}

// Len returns the length of a container.
func Len(v Value) (int64, error) {
	switch v := v.(type) {
	case string:
		return int64(len(v)), nil
	case Tuple:
		return int64(len(v)), nil
	case *List:
		return int64(len(v.Elems)), nil
	case *Dict:
		return int64(v.Len()), nil
	case Range:
		return v.Len(), nil
	case NDRange:
		return v.Len(), nil
	case *Field:
		if v.NDim() == 0 {
			break
		}
		return int64(v.Shape.AxisLengths[0]), nil
	}
	return 0, fmterr.Errorf(fmterr.TypeError, nil, "object of type '%s' has no len()", TypeName(v))
}

// Index returns the element of a container at a given index or key.
func Index(x, idx Value) (Value, error) {
	if d, ok := x.(*Dict); ok {
		val, found, err := d.Get(idx)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, fmterr.Errorf(fmterr.IndexError, nil, "key %s not found", Repr(idx))
		}
		return val, nil
	}
	i, ok := AsInt(idx)
	if !ok {
		return nil, fmterr.Errorf(fmterr.TypeError, nil, "%s indices must be integers, not %s", TypeName(x), TypeName(idx))
	}
	var n int64
	var at func(int64) Value
	switch xv := x.(type) {
	case Tuple:
		n, at = int64(len(xv)), func(i int64) Value { return xv[i] }
	case *List:
		n, at = int64(len(xv.Elems)), func(i int64) Value { return xv.Elems[i] }
	case string:
		n, at = int64(len(xv)), func(i int64) Value { return xv[i : i+1] }
	case Range:
		n, at = xv.Len(), func(i int64) Value { return xv.At(i) }
	default:
		return nil, fmterr.Errorf(fmterr.TypeError, nil, "'%s' object is not subscriptable at compile time", TypeName(x))
	}
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return nil, fmterr.Errorf(fmterr.IndexError, nil, "%s index %s out of range", TypeName(x), Repr(idx))
	}
	return at(i), nil
}

// SetIndex sets the element of a mutable container.
func SetIndex(x, idx, val Value) error {
	switch xv := x.(type) {
	case *Dict:
		return xv.Set(idx, val)
	case *List:
		i, ok := AsInt(idx)
		if !ok {
			return fmterr.Errorf(fmterr.TypeError, nil, "list indices must be integers, not %s", TypeName(idx))
		}
		n := int64(len(xv.Elems))
		if i < 0 {
			i += n
		}
		if i < 0 || i >= n {
			return fmterr.Errorf(fmterr.IndexError, nil, "list assignment index %d out of range", i)
		}
		xv.Elems[i] = val
		return nil
	}
	return fmterr.Errorf(fmterr.TypeError, nil, "'%s' object does not support item assignment", TypeName(x))
}

var methods = map[string]map[string]bool{
	"list": {"append": true, "extend": true, "pop": true},
	"dict": {"keys": true, "values": true, "items": true, "get": true},
}

// Attr returns the attribute of a compile-time value.
func Attr(x Value, name string) (Value, error) {
	switch xv := x.(type) {
	case *Module:
		if v, ok := xv.Attrs[name]; ok {
			return v, nil
		}
		return nil, fmterr.Errorf(fmterr.NameError, nil, "module '%s' has no attribute '%s'", xv.Name, name)
	case *Field:
		switch name {
		case "shape":
			shape := make(Tuple, xv.NDim())
			for i, n := range xv.Shape.AxisLengths {
				shape[i] = int64(n)
			}
			return shape, nil
		case "dtype":
			return TypeValue{Kind: xv.Kind()}, nil
		case "ndim":
			return int64(xv.NDim()), nil
		case "name":
			return xv.Name, nil
		}
	case Range:
		switch name {
		case "start":
			return xv.Start, nil
		case "stop":
			return xv.Stop, nil
		case "step":
			return xv.Step, nil
		}
	case TypeValue:
		if name == "bits" {
			return int64(irkind.Bits(xv.Kind)), nil
		}
	}
	if methods[TypeName(x)][name] {
		return Method{Recv: x, Name: name}, nil
	}
	return nil, fmterr.Errorf(fmterr.NameError, nil, "'%s' object has no attribute '%s'", TypeName(x), name)
}

// Call calls a host function or a method at compile time.
func Call(fn Value, args []Value) (Value, error) {
	switch fn := fn.(type) {
	case *Func:
		return fn.Fn(args)
	case Method:
		return callMethod(fn, args)
	case TypeValue:
		if len(args) != 1 {
			return nil, fmterr.Errorf(fmterr.TypeError, nil, "%s() takes exactly one argument (%d given)", fn.Kind, len(args))
		}
		return Convert(fn.Kind, args[0])
	}
	return nil, fmterr.Errorf(fmterr.TypeError, nil, "'%s' object is not callable", TypeName(fn))
}

func checkArgs(name string, args []Value, lo, hi int) error {
	if len(args) < lo || len(args) > hi {
		return fmterr.Errorf(fmterr.TypeError, nil, "%s() takes from %d to %d arguments (%d given)", name, lo, hi, len(args))
	}
	return nil
}

// Mutating returns true if calling the method modifies its receiver.
func (m Method) Mutating() bool {
	if _, isList := m.Recv.(*List); !isList {
		return false
	}
	switch m.Name {
	case "append", "extend", "pop":
		return true
	}
	return false
}

func callMethod(m Method, args []Value) (Value, error) {
	switch recv := m.Recv.(type) {
	case *List:
		switch m.Name {
		case "append":
			if err := checkArgs(m.Name, args, 1, 1); err != nil {
				return nil, err
			}
			recv.Elems = append(recv.Elems, args[0])
			return None, nil
		case "extend":
			if err := checkArgs(m.Name, args, 1, 1); err != nil {
				return nil, err
			}
			elems, err := Iterate(args[0])
			if err != nil {
				return nil, err
			}
			recv.Elems = append(recv.Elems, elems...)
			return None, nil
		case "pop":
			if err := checkArgs(m.Name, args, 0, 0); err != nil {
				return nil, err
			}
			if len(recv.Elems) == 0 {
				return nil, fmterr.Errorf(fmterr.IndexError, nil, "pop from empty list")
			}
			last := recv.Elems[len(recv.Elems)-1]
			recv.Elems = recv.Elems[:len(recv.Elems)-1]
			return last, nil
		}
	case *Dict:
		switch m.Name {
		case "keys":
			return Tuple(recv.Keys()), nil
		case "values":
			return Tuple(recv.Values()), nil
		case "items":
			items := make(Tuple, 0, recv.Len())
			for key, val := range recv.Items() {
				items = append(items, Tuple{key, val})
			}
			return items, nil
		case "get":
			if err := checkArgs(m.Name, args, 1, 2); err != nil {
				return nil, err
			}
			val, found, err := recv.Get(args[0])
			if err != nil || found {
				return val, err
			}
			if len(args) == 2 {
				return args[1], nil
			}
			return None, nil
		}
	}
	return nil, fmterr.Errorf(fmterr.NameError, nil, "'%s' object has no method '%s'", TypeName(m.Recv), m.Name)
}

// Convert converts a compile-time number to the value range of a runtime type.
func Convert(kind irkind.Kind, v Value) (Value, error) {
	switch {
	case kind == irkind.Bool:
		return Truth(v), nil
	case irkind.IsInteger(kind):
		if f, ok := v.(float64); ok {
			return int64(f), nil
		}
		if i, ok := AsInt(v); ok {
			return i, nil
		}
	case irkind.IsFloat(kind):
		if f, ok := AsFloat(v); ok {
			if kind == irkind.Float32 {
				return float64(float32(f)), nil
			}
			return f, nil
		}
	}
	return nil, fmterr.Errorf(fmterr.TypeError, nil, "cannot convert %s to %s", Repr(v), kind)
}

// Imm returns the IR immediate of a compile-time number given the type it is used with.
func Imm(v Value, typ *ir.ScalarType) (*ir.Imm, error) {
	if !IsNumber(v) {
		return nil, fmterr.Errorf(fmterr.TypeError, nil, "%s value %s has no runtime representation", TypeName(v), Repr(v))
	}
	imm, err := ir.NewImm(v, typ)
	if err != nil {
		return nil, fmterr.Position(fmterr.TypeError, ast.Pos{}, err)
	}
	return imm, nil
}
