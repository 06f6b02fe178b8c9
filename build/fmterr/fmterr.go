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

// Package fmterr defines the closed taxonomy of compilation errors
// and formats them with the position of the host source code they refer to.
//
// Compilation stops at the first error: there is no accumulation and no
// partial IR. Errors wrap their cause with github.com/pkg/errors so that
// %+v prints where the error was generated in the compiler.
package fmterr

// Kind classifies an error.
// A Kind is itself an error so that callers can write:
//
//	if errors.Is(err, fmterr.NameError) { ... }
type Kind int

// Kinds of errors reported by the compiler and the executed program.
const (
	// Invalid kind: never reported.
	Invalid Kind = iota
	// NameError reports an unresolved identifier.
	NameError
	// RedefinitionError reports a duplicate binding with an incompatible kind or type in a scope.
	RedefinitionError
	// TypeError reports a mismatch with the fixed type of a variable or a malformed return contract.
	TypeError
	// ScopeError reports a statement used outside of the scope in which it is legal.
	ScopeError
	// CompileError reports an illegal construct: break in a parallel loop, misplaced directive, return misuse.
	CompileError
	// StaticEvaluationError reports an expression required at compile time that depends on a runtime value.
	StaticEvaluationError
	// IndexError reports a runtime index into a container that does not allow dynamic indexing.
	IndexError
	// RuntimeAssertionError is raised by the executed program when an assert fails in debug mode.
	RuntimeAssertionError
)

var kindNames = map[Kind]string{
	NameError:             "NameError",
	RedefinitionError:     "RedefinitionError",
	TypeError:             "TypeError",
	ScopeError:            "ScopeError",
	CompileError:          "CompileError",
	StaticEvaluationError: "StaticEvaluationError",
	IndexError:            "IndexError",
	RuntimeAssertionError: "RuntimeAssertionError",
}

// String returns the name of the kind.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "InvalidError"
}

// Error returns the name of the kind so that a Kind can be used as a target of errors.Is.
func (k Kind) Error() string {
	return k.String()
}
