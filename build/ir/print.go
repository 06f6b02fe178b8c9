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
	"slices"
	"strconv"
	"strings"

	basefmt "github.com/gx-org/kernelc/base/fmt"
	"github.com/gx-org/kernelc/base/stringseq"
	"github.com/gx-org/kernelc/build/ast"
)

func operands(ops []Operand) string {
	return stringseq.JoinStringer(slices.Values(ops), ", ")
}

func valueString(v Value, format string, a ...any) string {
	return fmt.Sprintf("%s = %s : %s", v.ID(), fmt.Sprintf(format, a...), v.Type().String())
}

// String representation of the statement.
func (s *Arg) String() string {
	return valueString(s, "arg %d %q", s.Index, s.Name)
}

// String representation of the statement.
func (s *Alloca) String() string {
	return valueString(s, "alloca %s", s.Name)
}

// String representation of the statement.
func (s *LocalLoad) String() string {
	return valueString(s, "load %s", s.Var)
}

// String representation of the statement.
func (s *LocalStore) String() string {
	return fmt.Sprintf("store %s, %s", s.Var, s.Val)
}

// String representation of the statement.
func (s *BinaryOp) String() string {
	return valueString(s, "%s %s %s", s.X, s.Op, s.Y)
}

// String representation of the statement.
func (s *UnaryOp) String() string {
	if s.Op == ast.Not {
		return valueString(s, "not %s", s.X)
	}
	return valueString(s, "%s%s", s.Op, s.X)
}

// String representation of the statement.
func (s *Cast) String() string {
	return valueString(s, "cast %s", s.X)
}

// String representation of the statement.
func (s *Select) String() string {
	return valueString(s, "select %s, %s, %s", s.Cond, s.X, s.Y)
}

// String representation of the statement.
func (s *VectorMake) String() string {
	return valueString(s, "vector(%s)", operands(s.Elems))
}

// String representation of the statement.
func (s *VectorExtract) String() string {
	return valueString(s, "%s[%d]", s.X, s.Index)
}

// String representation of the statement.
func (s *FieldLoad) String() string {
	return valueString(s, "%s[%s]", s.Field, operands(s.Indices))
}

// String representation of the statement.
func (s *FieldStore) String() string {
	return fmt.Sprintf("%s[%s] = %s", s.Field, operands(s.Indices), s.Val)
}

// String representation of the statement.
func (s *AtomicOp) String() string {
	return valueString(s, "atomic %s %s[%s], %s", s.Op, s.Field, operands(s.Indices), s.Val)
}

// String representation of the statement.
func (s *Intrinsic) String() string {
	return valueString(s, "%s(%s)", s.Name, operands(s.Args))
}

// String representation of the statement.
func (s *LoopIndex) String() string {
	return valueString(s, "index %s[%d]", s.Loop, s.Axis)
}

// String representation of the statement.
func (s *Break) String() string {
	return "break"
}

// String representation of the statement.
func (s *Continue) String() string {
	return "continue"
}

// String representation of the statement.
func (s *Assert) String() string {
	str := fmt.Sprintf("assert %s, %s", s.Cond, strconv.Quote(s.Msg))
	if len(s.Args) > 0 {
		str += ", " + operands(s.Args)
	}
	return str
}

// String representation of the statement.
func (s *Print) String() string {
	return "print " + operands(s.Contents)
}

// String representation of the statement.
func (s *Return) String() string {
	if len(s.Values) == 0 {
		return "return"
	}
	return "return " + operands(s.Values)
}

// String representation of the statement header.
func (s *If) String() string {
	return fmt.Sprintf("if %s", s.Cond)
}

// String representation of the statement header.
func (s *While) String() string {
	return fmt.Sprintf("while %s", s.H)
}

func schedule(parallel bool) string {
	if parallel {
		return "parallel"
	}
	return "serial"
}

func blockDim(dim int) string {
	if dim == 0 {
		return ""
	}
	return fmt.Sprintf(" block_dim=%d", dim)
}

// String representation of the statement header.
func (s *RangeFor) String() string {
	return fmt.Sprintf("%s for %s in range(%s, %s)%s", schedule(s.Parallel), s.H, s.Begin, s.End, blockDim(s.BlockDim))
}

// String representation of the statement header.
func (s *StructFor) String() string {
	return fmt.Sprintf("%s struct for %s in %s(%d)%s", schedule(s.Parallel), s.H, s.Field, s.NDim, blockDim(s.BlockDim))
}

func blockString(b *Block) string {
	if b == nil {
		return ""
	}
	var sb strings.Builder
	for _, stmt := range b.Stmts {
		sb.WriteString(stmtString(stmt))
	}
	return sb.String()
}

func stmtString(stmt Stmt) string {
	if ifStmt, isIf := stmt.(*If); isIf {
		s := ifStmt.String() + " {\n" + basefmt.Indent(blockString(ifStmt.Then))
		if ifStmt.Else != nil && len(ifStmt.Else.Stmts) > 0 {
			s += "} else {\n" + basefmt.Indent(blockString(ifStmt.Else))
		}
		return s + "}\n"
	}
	nested, isNested := stmt.(Nested)
	if !isNested {
		return stmt.String() + "\n"
	}
	var sb strings.Builder
	sb.WriteString(nested.String() + " {\n")
	for _, block := range nested.Blocks() {
		sb.WriteString(basefmt.Indent(blockString(block)))
	}
	sb.WriteString("}\n")
	return sb.String()
}

// String representation of the block.
func (b *Block) String() string {
	return blockString(b)
}
