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
	"strings"

	"github.com/google/uuid"
	"github.com/gx-org/backend/shape"
	basefmt "github.com/gx-org/kernelc/base/fmt"
	"github.com/gx-org/kernelc/build/ast"
	"github.com/gx-org/kernelc/build/ir/irkind"
)

// Version of the IR format produced by this package.
const Version = "v1.2.0"

// LoopKind is the kind of host loop a runtime loop was lowered from.
type LoopKind int

// Kinds of loops.
const (
	RangeLoop LoopKind = iota
	NDRangeLoop
	StructLoop
	WhileLoop
)

// String representation of the loop kind.
func (k LoopKind) String() string {
	switch k {
	case RangeLoop:
		return "range"
	case NDRangeLoop:
		return "ndrange"
	case StructLoop:
		return "struct"
	case WhileLoop:
		return "while"
	}
	return "invalid"
}

type (
	// LoopInfo records the scheduling decision of a loop.
	LoopInfo struct {
		Loop     Handle
		Kind     LoopKind
		Parallel bool
		Src      ast.Pos
	}

	// FieldInfo describes a field accessed by the program.
	FieldInfo struct {
		Name   string
		Shape  *shape.Shape
		Sparse bool
	}

	// Param is a parameter of the compiled body.
	Param struct {
		Name string
		Typ  Type
		Arg  Handle
	}

	// Program is the artifact produced by compiling one body.
	Program struct {
		// ID identifies the compiled artifact.
		ID uuid.UUID
		// Name of the compiled body.
		Name string
		// Version of the IR format.
		Version string
		// Params are the parameters with their declared types.
		Params []Param
		// Result is the declared return type. nil if the body returns nothing.
		Result Type
		// Body of the program.
		Body *Block
		// Loops lists the loops of the program in emission order.
		Loops []LoopInfo
		// Fields lists the fields accessed by the program in order of first access.
		Fields []FieldInfo
		// NumHandles is the number of handles assigned in the program.
		NumHandles int
	}
)

// Field returns the description of a field given its name.
func (p *Program) Field(name string) (FieldInfo, bool) {
	for _, field := range p.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return FieldInfo{}, false
}

// String representation of the field declaration.
func (f FieldInfo) String() string {
	layout := "dense"
	if f.Sparse {
		layout = "sparse"
	}
	return fmt.Sprintf("%s field %s: %s%v", layout, f.Name, irkind.FromDType(f.Shape.DType), f.Shape.AxisLengths)
}

// Loop returns the scheduling information of a loop given its handle.
func (p *Program) Loop(h Handle) (LoopInfo, bool) {
	for _, info := range p.Loops {
		if info.Loop == h {
			return info, true
		}
	}
	return LoopInfo{}, false
}

// Stmt returns a statement given its handle, or nil if the handle does not exist.
func (p *Program) Stmt(h Handle) Stmt {
	for stmt := range p.Body.All() {
		if stmt.ID() == h {
			return stmt
		}
	}
	return nil
}

// Signature returns the signature of the program.
func (p *Program) Signature() string {
	params := make([]string, len(p.Params))
	for i, param := range p.Params {
		params[i] = fmt.Sprintf("%s: %s", param.Name, param.Typ.String())
	}
	sig := fmt.Sprintf("%s(%s)", p.Name, strings.Join(params, ", "))
	if p.Result != nil {
		sig += " -> " + p.Result.String()
	}
	return sig
}

// String returns a textual representation of the program.
// The representation does not include the ID and is deterministic.
func (p *Program) String() string {
	var body strings.Builder
	for _, field := range p.Fields {
		body.WriteString(field.String() + "\n")
	}
	body.WriteString(blockString(p.Body))
	return fmt.Sprintf("kernel %s {\n%s}\n", p.Signature(), basefmt.Indent(body.String()))
}
