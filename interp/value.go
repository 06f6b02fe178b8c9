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
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/gx-org/kernelc/build/host"
	"github.com/gx-org/kernelc/build/ir"
	"github.com/gx-org/kernelc/build/ir/irkind"
)

type (
	// Value is a runtime value. Scalars share their representation with IR
	// immediates: a bool, an int64 for signed integers, a uint64 for unsigned
	// integers and a float64 for floating-point numbers. Vectors are Vector.
	Value any

	// Vector is a fixed-length vector of scalars.
	Vector []Value
)

func zero(typ ir.Type) Value {
	vt, ok := typ.(*ir.VectorType)
	if !ok {
		return zeroKind(typ.Kind())
	}
	v := make(Vector, vt.Len())
	for i := range v {
		v[i] = zeroKind(vt.Elem().Kind())
	}
	return v
}

func zeroKind(kind irkind.Kind) Value {
	switch {
	case kind == irkind.Bool:
		return false
	case irkind.IsSigned(kind):
		return int64(0)
	case irkind.IsInteger(kind):
		return uint64(0)
	}
	return float64(0)
}

// FromGo converts a Go value into a runtime value of a given type.
// Vectors are given as a Vector or a slice of any.
func FromGo(typ ir.Type, v any) (Value, error) {
	if vt, ok := typ.(*ir.VectorType); ok {
		var elems []Value
		switch v := v.(type) {
		case Vector:
			elems = v
		case []any:
			elems = make([]Value, len(v))
			for i, elem := range v {
				elems[i] = elem
			}
		default:
			return nil, errors.Errorf("cannot use %T as %s", v, typ.String())
		}
		if len(elems) != vt.Len() {
			return nil, errors.Errorf("cannot use %d elements as %s", len(elems), typ.String())
		}
		vec := make(Vector, len(elems))
		for i, elem := range elems {
			var err error
			if vec[i], err = FromGo(vt.Elem(), elem); err != nil {
				return nil, err
			}
		}
		return vec, nil
	}
	scalar := ir.TypeFromKind(typ.Kind())
	if scalar == nil {
		return nil, errors.Errorf("cannot build a value of type %s", typ.String())
	}
	var hv any
	switch v := v.(type) {
	case bool, int64, float64:
		hv = v
	case int:
		hv = int64(v)
	case int32:
		hv = int64(v)
	case uint32:
		hv = int64(v)
	case uint64:
		if v > math.MaxInt64 {
			if typ.Kind() != irkind.Uint64 {
				return nil, errors.Errorf("%d overflows %s", v, typ.String())
			}
			return v, nil
		}
		hv = int64(v)
	case float32:
		hv = float64(v)
	default:
		return nil, errors.Errorf("cannot use %T as %s", v, typ.String())
	}
	imm, err := ir.NewImm(hv, scalar)
	if err != nil {
		return nil, err
	}
	return imm.Val, nil
}

func toInt64(v Value) int64 {
	switch v := v.(type) {
	case int64:
		return v
	case uint64:
		return int64(v)
	case float64:
		return int64(v)
	case bool:
		if v {
			return 1
		}
	}
	return 0
}

func toUint64(v Value) uint64 {
	switch v := v.(type) {
	case uint64:
		return v
	case int64:
		return uint64(v)
	case float64:
		if v < 0 {
			return uint64(int64(v))
		}
		return uint64(v)
	case bool:
		if v {
			return 1
		}
	}
	return 0
}

func toFloat64(v Value) float64 {
	switch v := v.(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case uint64:
		return float64(v)
	case bool:
		if v {
			return 1
		}
	}
	return 0
}

func truth(v Value) bool {
	switch v := v.(type) {
	case bool:
		return v
	case int64:
		return v != 0
	case uint64:
		return v != 0
	case float64:
		return v != 0
	}
	return false
}

// castScalar converts a scalar to a kind. Integers wrap around.
func castScalar(kind irkind.Kind, v Value) Value {
	switch {
	case kind == irkind.Bool:
		return truth(v)
	case irkind.IsSigned(kind):
		return wrap(kind, toInt64(v))
	case irkind.IsInteger(kind):
		return wrap(kind, toUint64(v))
	}
	return wrap(kind, toFloat64(v))
}

// wrap truncates the result of an operation to the width of its kind.
func wrap(kind irkind.Kind, v Value) Value {
	switch kind {
	case irkind.Int32:
		return int64(int32(v.(int64)))
	case irkind.Uint32:
		return uint64(uint32(v.(uint64)))
	case irkind.Float32:
		return float64(float32(v.(float64)))
	}
	return v
}

// Format returns the string printed for a runtime value.
func Format(v Value) string {
	switch v := v.(type) {
	case nil:
		return "None"
	case uint64:
		return strconv.FormatUint(v, 10)
	case Vector:
		elems := make([]string, len(v))
		for i, elem := range v {
			elems[i] = Format(elem)
		}
		return "[" + strings.Join(elems, ", ") + "]"
	case bool, int64, float64:
		return host.Str(v)
	}
	return fmt.Sprint(v)
}
