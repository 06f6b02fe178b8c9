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

package ast

// Op is an operator of the host language.
type Op int

// Operators supported by the compiler.
const (
	Invalid Op = iota

	// Binary operators.
	Add
	Sub
	Mult
	Div
	FloorDiv
	Mod
	Pow
	LShift
	RShift
	BitAnd
	BitOr
	BitXor
	MatMult

	// Unary operators.
	UAdd
	USub
	Not
	Invert

	// Boolean operators.
	And
	Or

	// Comparison operators.
	Eq
	NotEq
	Lt
	LtE
	Gt
	GtE
	Is
	IsNot
	In
	NotIn
)

var opStrings = map[Op]string{
	Add:      "+",
	Sub:      "-",
	Mult:     "*",
	Div:      "/",
	FloorDiv: "//",
	Mod:      "%",
	Pow:      "**",
	LShift:   "<<",
	RShift:   ">>",
	BitAnd:   "&",
	BitOr:    "|",
	BitXor:   "^",
	MatMult:  "@",
	UAdd:     "+",
	USub:     "-",
	Not:      "not",
	Invert:   "~",
	And:      "and",
	Or:       "or",
	Eq:       "==",
	NotEq:    "!=",
	Lt:       "<",
	LtE:      "<=",
	Gt:       ">",
	GtE:      ">=",
	Is:       "is",
	IsNot:    "is not",
	In:       "in",
	NotIn:    "not in",
}

// String returns the operator as written in source code.
func (op Op) String() string {
	if s, ok := opStrings[op]; ok {
		return s
	}
	return "<invalid>"
}

// IsComparison returns true if the operator is a comparison.
func (op Op) IsComparison() bool {
	return op >= Eq && op <= NotIn
}

// IsBitwise returns true if the operator only applies to integers and booleans.
func (op Op) IsBitwise() bool {
	switch op {
	case LShift, RShift, BitAnd, BitOr, BitXor, Invert:
		return true
	}
	return false
}
