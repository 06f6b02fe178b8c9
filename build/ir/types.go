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

package ir

import (
	"fmt"

	"github.com/gx-org/backend/shape"
	"github.com/gx-org/kernelc/build/ir/irkind"
)

type (
	// Type of a runtime value.
	Type interface {
		// Kind of the type.
		Kind() irkind.Kind

		// Equal returns true if other is the same type.
		Equal(other Type) bool

		// String representation of the type.
		String() string
	}

	// ScalarType is the type of a single number or boolean.
	ScalarType struct {
		Knd irkind.Kind
	}

	// VectorType is a fixed-length vector of scalars,
	// for instance the index of a grouped loop.
	VectorType struct {
		Shape *shape.Shape
	}

	// VoidType is the type of statements producing no value.
	VoidType struct{}
)

var (
	_ Type = (*ScalarType)(nil)
	_ Type = (*VectorType)(nil)
	_ Type = VoidType{}
)

var scalarTypes = map[irkind.Kind]*ScalarType{
	irkind.Bool:    {Knd: irkind.Bool},
	irkind.Int32:   {Knd: irkind.Int32},
	irkind.Int64:   {Knd: irkind.Int64},
	irkind.Uint32:  {Knd: irkind.Uint32},
	irkind.Uint64:  {Knd: irkind.Uint64},
	irkind.Float32: {Knd: irkind.Float32},
	irkind.Float64: {Knd: irkind.Float64},
}

// TypeFromKind returns the scalar type of a kind.
// Returns nil if the kind is not a scalar kind.
func TypeFromKind(kind irkind.Kind) *ScalarType {
	return scalarTypes[kind]
}

// BoolType returns the boolean type.
func BoolType() *ScalarType { return scalarTypes[irkind.Bool] }

// Int32Type returns the 32-bit signed integer type.
func Int32Type() *ScalarType { return scalarTypes[irkind.Int32] }

// Int64Type returns the 64-bit signed integer type.
func Int64Type() *ScalarType { return scalarTypes[irkind.Int64] }

// Uint32Type returns the 32-bit unsigned integer type.
func Uint32Type() *ScalarType { return scalarTypes[irkind.Uint32] }

// Uint64Type returns the 64-bit unsigned integer type.
func Uint64Type() *ScalarType { return scalarTypes[irkind.Uint64] }

// Float32Type returns the 32-bit floating-point type.
func Float32Type() *ScalarType { return scalarTypes[irkind.Float32] }

// Float64Type returns the 64-bit floating-point type.
func Float64Type() *ScalarType { return scalarTypes[irkind.Float64] }

// Kind of the type.
func (t *ScalarType) Kind() irkind.Kind {
	return t.Knd
}

// Equal returns true if other is the same scalar type.
func (t *ScalarType) Equal(other Type) bool {
	o, ok := other.(*ScalarType)
	return ok && o.Knd == t.Knd
}

// String representation of the type.
func (t *ScalarType) String() string {
	return t.Knd.String()
}

// NewVectorType returns a vector type of n elements of a given kind.
func NewVectorType(elem irkind.Kind, n int) *VectorType {
	return &VectorType{Shape: &shape.Shape{
		DType:       elem.DType(),
		AxisLengths: []int{n},
	}}
}

// Kind of the type.
func (t *VectorType) Kind() irkind.Kind {
	return irkind.Vector
}

// Elem returns the type of the elements of the vector.
func (t *VectorType) Elem() *ScalarType {
	return TypeFromKind(irkind.FromDType(t.Shape.DType))
}

// Len returns the number of elements in the vector.
func (t *VectorType) Len() int {
	return t.Shape.Size()
}

// Equal returns true if other is a vector with the same element type and length.
func (t *VectorType) Equal(other Type) bool {
	o, ok := other.(*VectorType)
	if !ok {
		return false
	}
	return o.Shape.DType == t.Shape.DType && o.Len() == t.Len()
}

// String representation of the type.
func (t *VectorType) String() string {
	return fmt.Sprintf("vector<%dx%s>", t.Len(), t.Elem().String())
}

// Kind of the type.
func (VoidType) Kind() irkind.Kind {
	return irkind.Void
}

// Equal returns true if other is also void.
func (VoidType) Equal(other Type) bool {
	_, ok := other.(VoidType)
	return ok
}

// String representation of the type.
func (VoidType) String() string {
	return "void"
}
