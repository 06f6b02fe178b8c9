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

package fmterr

import (
	"fmt"
	"runtime/debug"

	"github.com/pkg/errors"
	"github.com/gx-org/kernelc/build/ast"
)

// Error is an error of a given kind attached to a position in the host source code.
type Error struct {
	Kind Kind
	Pos  ast.Pos
	Err  error
}

var _ error = (*Error)(nil)

// Position attaches a kind and a position to an error.
func Position(kind Kind, pos ast.Pos, err error) error {
	return &Error{Kind: kind, Pos: pos, Err: err}
}

// Errorf returns a formatted error of a given kind at the position of a node.
func Errorf(kind Kind, node ast.Node, format string, a ...any) error {
	var pos ast.Pos
	if node != nil {
		pos = node.Position()
	}
	return Position(kind, pos, errors.Errorf(format, a...))
}

// Internal marks an error as internal, that is a bug in the compiler.
func Internal(err error) error {
	return fmt.Errorf("kernel compiler internal error. This is a bug. Please report it. Error:\n%+v", err)
}

// Internalf returns a formatted internal error at the position of a node.
func Internalf(node ast.Node, format string, a ...any) error {
	return Internal(Errorf(CompileError, node, format, a...))
}

// Error returns a string description of the error.
func (err *Error) Error() (s string) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		s = fmt.Sprintf("recovered from panic when building error message: %T:\n%v", err.Err, string(debug.Stack()))
	}()
	return fmt.Sprintf("%s: %s: %s", err.Pos.String(), err.Kind.String(), err.Err.Error())
}

// Unwrap returns the cause of the error.
func (err *Error) Unwrap() error {
	return err.Err
}

// Is matches the error with its kind.
func (err *Error) Is(target error) bool {
	kind, ok := target.(Kind)
	return ok && kind == err.Kind
}

// Format writes the error into the state of the formatter.
func (err *Error) Format(s fmt.State, verb rune) {
	format(err, s, verb)
}

// KindOf returns the kind of the first error of the chain carrying a kind.
func KindOf(err error) Kind {
	var withKind *Error
	if !errors.As(err, &withKind) {
		return Invalid
	}
	return withKind.Kind
}

// PosOf returns the position of the first error of the chain carrying a position.
func PosOf(err error) (ast.Pos, bool) {
	var withPos *Error
	if !errors.As(err, &withPos) {
		return ast.Pos{}, false
	}
	return withPos.Pos, true
}

// At sets the position of an error created without one, typically by the
// evaluation of a compile-time value.
// Errors without a kind are reported as compilation errors.
func At(node ast.Node, err error) error {
	if err == nil {
		return nil
	}
	var pos ast.Pos
	if node != nil {
		pos = node.Position()
	}
	var withKind *Error
	if !errors.As(err, &withKind) {
		return Position(CompileError, pos, err)
	}
	if withKind.Pos.IsValid() {
		return err
	}
	return Position(withKind.Kind, pos, withKind.Err)
}
