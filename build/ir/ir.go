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

// Package ir is the intermediate representation emitted by the kernel compiler.
//
// A program is an ordered list of statements. Statements producing a value are
// identified by a Handle assigned at emission and stable for the lifetime of
// the program. Nested constructs (conditionals and loops) own their blocks.
// The IR is backend-agnostic: code generation and optimization are done by a
// backend outside of this module.
package ir

import (
	"fmt"
	"iter"

	"github.com/gx-org/kernelc/build/ast"
)

// Handle identifies a statement in a program.
type Handle int

// InvalidHandle is the zero value for a statement not yet emitted.
const InvalidHandle Handle = -1

// String representation of the handle, as printed in the IR.
func (h Handle) String() string {
	return fmt.Sprintf("%%%d", int(h))
}

type (
	// Stmt is an IR statement.
	Stmt interface {
		// ID returns the handle of the statement.
		ID() Handle
		// Source returns the position in the host code the statement was emitted for.
		Source() ast.Pos
		// String representation of the statement, without nested blocks.
		String() string
		// stmtNode marks a structure as a statement structure.
		stmtNode()
	}

	// Value is a statement producing a value.
	Value interface {
		Stmt
		Type() Type
	}

	// Nested is a statement owning blocks of statements.
	Nested interface {
		Stmt
		Blocks() []*Block
	}

	// Base stores the identity and the source position of a statement.
	Base struct {
		H   Handle
		Src ast.Pos
	}

	// Block is an ordered list of statements.
	Block struct {
		Stmts []Stmt
	}
)

// ID returns the handle of the statement.
func (b *Base) ID() Handle {
	return b.H
}

// Source returns the position of the statement in the host code.
func (b *Base) Source() ast.Pos {
	return b.Src
}

func (*Base) stmtNode() {}

// All returns an iterator over all the statements of the block, including
// the statements of the nested blocks, in emission order.
func (b *Block) All() iter.Seq[Stmt] {
	return func(yield func(Stmt) bool) {
		b.all(yield)
	}
}

func (b *Block) all(yield func(Stmt) bool) bool {
	if b == nil {
		return true
	}
	for _, stmt := range b.Stmts {
		nested, isNested := stmt.(Nested)
		if isNested {
			for _, block := range nested.Blocks() {
				if !block.all(yield) {
					return false
				}
			}
		}
		if !yield(stmt) {
			return false
		}
	}
	return true
}

// ----------------------------------------------------------------------------
// Values.
type (
	// Arg reads a parameter of the compiled body.
	Arg struct {
		Base
		Index int
		Name  string
		Typ   Type
	}

	// Alloca allocates a slot for a local runtime variable.
	Alloca struct {
		Base
		Name string
		Typ  Type
	}

	// LocalLoad reads a local variable.
	LocalLoad struct {
		Base
		Var Handle
		Typ Type
	}

	// BinaryOp applies a binary operator.
	BinaryOp struct {
		Base
		Op   ast.Op
		X, Y Operand
		Typ  Type
	}

	// UnaryOp applies a unary operator.
	UnaryOp struct {
		Base
		Op  ast.Op
		X   Operand
		Typ Type
	}

	// Cast converts a value to another type.
	Cast struct {
		Base
		X   Operand
		Typ Type
	}

	// Select returns X if Cond is true, Y otherwise. Both operands are evaluated.
	Select struct {
		Base
		Cond, X, Y Operand
		Typ        Type
	}

	// VectorMake builds a vector from scalars.
	VectorMake struct {
		Base
		Elems []Operand
		Typ   *VectorType
	}

	// VectorExtract reads a scalar from a vector at a constant index.
	VectorExtract struct {
		Base
		X     Operand
		Index int
		Typ   Type
	}

	// FieldLoad reads an element of a field.
	FieldLoad struct {
		Base
		Field   string
		Indices []Operand
		Typ     Type
	}

	// AtomicOp atomically combines an element of a field with a value and returns the previous value.
	AtomicOp struct {
		Base
		Op      ast.Op
		Field   string
		Indices []Operand
		Val     Operand
		Typ     Type
	}

	// Intrinsic is a call to a mathematical function provided by the backend.
	Intrinsic struct {
		Base
		Name string
		Args []Operand
		Typ  Type
	}

	// LoopIndex reads the index of an enclosing loop along an axis.
	LoopIndex struct {
		Base
		Loop Handle
		Axis int
		Typ  Type
	}
)

var (
	_ Value = (*Arg)(nil)
	_ Value = (*Alloca)(nil)
	_ Value = (*LocalLoad)(nil)
	_ Value = (*BinaryOp)(nil)
	_ Value = (*UnaryOp)(nil)
	_ Value = (*Cast)(nil)
	_ Value = (*Select)(nil)
	_ Value = (*VectorMake)(nil)
	_ Value = (*VectorExtract)(nil)
	_ Value = (*FieldLoad)(nil)
	_ Value = (*AtomicOp)(nil)
	_ Value = (*Intrinsic)(nil)
	_ Value = (*LoopIndex)(nil)
)

// Type returns the type of the parameter.
func (s *Arg) Type() Type { return s.Typ }

// Type returns the type of the variable.
func (s *Alloca) Type() Type { return s.Typ }

// Type returns the type of the variable.
func (s *LocalLoad) Type() Type { return s.Typ }

// Type returns the type of the result.
func (s *BinaryOp) Type() Type { return s.Typ }

// Type returns the type of the result.
func (s *UnaryOp) Type() Type { return s.Typ }

// Type returns the target type.
func (s *Cast) Type() Type { return s.Typ }

// Type returns the type of the result.
func (s *Select) Type() Type { return s.Typ }

// Type returns the vector type.
func (s *VectorMake) Type() Type { return s.Typ }

// Type returns the type of the element.
func (s *VectorExtract) Type() Type { return s.Typ }

// Type returns the element type of the field.
func (s *FieldLoad) Type() Type { return s.Typ }

// Type returns the element type of the field.
func (s *AtomicOp) Type() Type { return s.Typ }

// Type returns the type of the result.
func (s *Intrinsic) Type() Type { return s.Typ }

// Type returns the type of the index.
func (s *LoopIndex) Type() Type { return s.Typ }

// ----------------------------------------------------------------------------
// Statements with side effects.
type (
	// LocalStore writes a local variable.
	LocalStore struct {
		Base
		Var Handle
		Val Operand
	}

	// FieldStore writes an element of a field.
	FieldStore struct {
		Base
		Field   string
		Indices []Operand
		Val     Operand
	}

	// Break exits the innermost loop.
	Break struct {
		Base
	}

	// Continue skips to the next iteration of the innermost loop.
	Continue struct {
		Base
	}

	// Assert traps when Cond is false. Only emitted in debug mode.
	Assert struct {
		Base
		Cond Operand
		Msg  string
		Args []Operand
	}

	// Print prints values and text.
	Print struct {
		Base
		Contents []Operand
	}

	// Return returns from the compiled body.
	Return struct {
		Base
		Values []Operand
	}
)

// ----------------------------------------------------------------------------
// Nested statements.
type (
	// If executes Then if Cond is true, Else otherwise.
	If struct {
		Base
		Cond Operand
		Then *Block
		Else *Block
	}

	// While loops over its body until a break statement is executed.
	// The condition of the host loop is lowered at the beginning of the body.
	While struct {
		Base
		Body *Block
	}

	// RangeFor iterates over the integers in [Begin, End).
	RangeFor struct {
		Base
		Begin, End Operand
		Body       *Block
		// Parallel is true if iterations may be executed in any order.
		Parallel bool
		// BlockDim is a scheduling hint for the backend. 0 means default.
		BlockDim int
	}

	// StructFor iterates over the active coordinates of a field.
	// The order of the iterations is unspecified.
	StructFor struct {
		Base
		Field    string
		NDim     int
		Body     *Block
		Parallel bool
		BlockDim int
	}
)

var (
	_ Nested = (*If)(nil)
	_ Nested = (*While)(nil)
	_ Nested = (*RangeFor)(nil)
	_ Nested = (*StructFor)(nil)
)

// Blocks returns the then and else blocks.
func (s *If) Blocks() []*Block { return []*Block{s.Then, s.Else} }

// Blocks returns the body of the loop.
func (s *While) Blocks() []*Block { return []*Block{s.Body} }

// Blocks returns the body of the loop.
func (s *RangeFor) Blocks() []*Block { return []*Block{s.Body} }

// Blocks returns the body of the loop.
func (s *StructFor) Blocks() []*Block { return []*Block{s.Body} }
