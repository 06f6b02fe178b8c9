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

// Package irkind defines the kinds of runtime values in the kernel IR.
package irkind

import "github.com/gx-org/backend/dtype"

// Kind of a runtime type.
type Kind uint

// Kinds of scalar data share their values with the backend data types.
const (
	Invalid = Kind(dtype.Invalid)

	Bool    = Kind(dtype.Bool)
	Int32   = Kind(dtype.Int32)
	Int64   = Kind(dtype.Int64)
	Uint32  = Kind(dtype.Uint32)
	Uint64  = Kind(dtype.Uint64)
	Float32 = Kind(dtype.Float32)
	Float64 = Kind(dtype.Float64)

	// Vector is a fixed-length vector of scalars.
	Vector = Kind(iota + dtype.MaxDataType)
	// Void is the kind of statements producing no value.
	Void

	// Max value for a Kind constant.
	Max
)

// String returns a string representation of a kind.
func (k Kind) String() string {
	switch k {
	case Bool:
		return "bool"
	case Int32:
		return "i32"
	case Int64:
		return "i64"
	case Uint32:
		return "u32"
	case Uint64:
		return "u64"
	case Float32:
		return "f32"
	case Float64:
		return "f64"
	case Vector:
		return "vector"
	case Void:
		return "void"
	}
	return "invalid"
}

// DType converts a scalar kind into a backend data type.
func (k Kind) DType() dtype.DataType {
	if !IsScalar(k) {
		return dtype.Invalid
	}
	return dtype.DataType(k)
}

// FromDType returns the kind of a backend data type.
func FromDType(dt dtype.DataType) Kind {
	k := Kind(dt)
	if !IsScalar(k) {
		return Invalid
	}
	return k
}

// FromString returns a scalar kind given its name.
// Both the short (i32) and the long (int32) spellings are accepted.
func FromString(name string) Kind {
	switch name {
	case "bool", "u1":
		return Bool
	case "i32", "int32":
		return Int32
	case "i64", "int64":
		return Int64
	case "u32", "uint32":
		return Uint32
	case "u64", "uint64":
		return Uint64
	case "f32", "float32":
		return Float32
	case "f64", "float64":
		return Float64
	}
	return Invalid
}

// IsScalar returns true if the kind is a scalar data type.
func IsScalar(k Kind) bool {
	switch k {
	case Bool, Int32, Int64, Uint32, Uint64, Float32, Float64:
		return true
	}
	return false
}

// IsInteger returns true if the kind is an integer (signed or not).
func IsInteger(k Kind) bool {
	switch k {
	case Int32, Int64, Uint32, Uint64:
		return true
	}
	return false
}

// IsSigned returns true if the kind is a signed integer.
func IsSigned(k Kind) bool {
	return k == Int32 || k == Int64
}

// IsFloat returns true if the kind is a floating-point number.
func IsFloat(k Kind) bool {
	return k == Float32 || k == Float64
}

// IsNumeric returns true if the kind supports arithmetic.
func IsNumeric(k Kind) bool {
	return IsInteger(k) || IsFloat(k)
}

// Bits returns the number of bits of a scalar kind.
func Bits(k Kind) int {
	switch k {
	case Bool:
		return 1
	case Int32, Uint32, Float32:
		return 32
	case Int64, Uint64, Float64:
		return 64
	}
	return 0
}
