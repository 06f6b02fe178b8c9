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

package symtab_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"github.com/gx-org/kernelc/build/ast"
	"github.com/gx-org/kernelc/build/fmterr"
	"github.com/gx-org/kernelc/build/host"
	"github.com/gx-org/kernelc/build/ir"
	"github.com/gx-org/kernelc/build/symtab"
)

func pos(line int) ast.Pos {
	return ast.Pos{File: "k.py", Line: line, Col: 1}
}

func TestShadowing(t *testing.T) {
	tbl := symtab.New(map[string]host.Value{"p": int64(3)})
	if _, err := tbl.Define(symtab.NewCompileTime("x", pos(1), int64(1), 0)); err != nil {
		t.Fatal(err)
	}
	err := tbl.Within(func() error {
		if _, err := tbl.Define(symtab.NewRuntime("x", pos(2), ir.Int32Type(), 4, 0)); err != nil {
			return err
		}
		v, err := tbl.Resolve(&ast.Name{Pos: pos(3), ID: "x"})
		if err != nil {
			return err
		}
		if v.Kind != symtab.Runtime {
			t.Errorf("inner x: got kind %s, want %s", v.Kind, symtab.Runtime)
		}
		return nil
	})
	require.NoError(t, err)
	v, err := tbl.Resolve(&ast.Name{Pos: pos(4), ID: "x"})
	require.NoError(t, err)
	if v.Kind != symtab.CompileTime || v.Value != int64(1) {
		t.Errorf("outer x = %v, want compile-time 1", v)
	}
	p, err := tbl.Resolve(&ast.Name{Pos: pos(5), ID: "p"})
	require.NoError(t, err)
	if !p.External || p.Value != int64(3) {
		t.Errorf("p = %v, want external 3", p)
	}
}

func TestResolveIdempotent(t *testing.T) {
	tbl := symtab.New(nil)
	if _, err := tbl.Define(symtab.NewRuntime("a", pos(1), ir.Float32Type(), 0, 0)); err != nil {
		t.Fatal(err)
	}
	ident := &ast.Name{Pos: pos(2), ID: "a"}
	first, err := tbl.Resolve(ident)
	require.NoError(t, err)
	second, err := tbl.Resolve(ident)
	require.NoError(t, err)
	if first != second {
		t.Errorf("resolving a twice returned different variables: %v and %v", first, second)
	}
}

func TestNameError(t *testing.T) {
	tbl := symtab.New(map[string]host.Value{"field": int64(0)})
	_, err := tbl.Resolve(&ast.Name{Pos: pos(7), ID: "feild"})
	require.ErrorIs(t, err, fmterr.NameError)
	require.EqualError(t, err, `k.py:7:1: NameError: name "feild" is not defined: did you mean "field"?`)

	_, err = tbl.Resolve(&ast.Name{Pos: pos(8), ID: "fieldz"})
	require.EqualError(t, err, `k.py:8:1: NameError: name "fieldz" is not defined: did you mean "field"?`)

	_, err = tbl.Resolve(&ast.Name{Pos: pos(8), ID: "qwertyuiop"})
	require.EqualError(t, err, `k.py:8:1: NameError: name "qwertyuiop" is not defined`)
}

func TestRedefinition(t *testing.T) {
	tbl := symtab.New(nil)
	x, err := tbl.Define(symtab.NewRuntime("x", pos(1), ir.Int32Type(), 0, 0))
	require.NoError(t, err)

	same, err := tbl.Define(symtab.NewRuntime("x", pos(2), ir.Int32Type(), 5, 0))
	require.NoError(t, err)
	if same != x {
		t.Errorf("compatible redefinition returned a new variable")
	}

	_, err = tbl.Define(symtab.NewRuntime("x", pos(3), ir.Float32Type(), 6, 0))
	require.ErrorIs(t, err, fmterr.RedefinitionError)

	_, err = tbl.Define(symtab.NewCompileTime("x", pos(4), int64(1), 0))
	require.ErrorIs(t, err, fmterr.RedefinitionError)

	err = tbl.Within(func() error {
		_, err := tbl.Define(symtab.NewRuntime("x", pos(5), ir.Float32Type(), 7, 0))
		return err
	})
	require.NoError(t, err, "shadowing in a child scope")
}

func TestWithinReleasesOnError(t *testing.T) {
	tbl := symtab.New(nil)
	bodyErr := errors.New("body failed")
	err := tbl.Within(func() error {
		if _, err := tbl.Define(symtab.NewCompileTime("tmp", pos(1), int64(0), 0)); err != nil {
			return err
		}
		return bodyErr
	})
	require.ErrorIs(t, err, bodyErr)
	if tbl.Depth() != 0 {
		t.Errorf("depth after Within = %d, want 0", tbl.Depth())
	}
	if _, ok := tbl.Lookup("tmp"); ok {
		t.Errorf("tmp still visible after its scope has been released")
	}
	require.Error(t, tbl.Exit(), "exiting the function scope")
}

func TestBuiltinsShadowedByExternals(t *testing.T) {
	tbl := symtab.New(map[string]host.Value{"range": "not a builtin"})
	v, ok := tbl.Lookup("range")
	if !ok || v.Value != "not a builtin" {
		t.Errorf("range = %v, want the external value", v)
	}
	if v, ok := tbl.Lookup("ndrange"); !ok || v.Value != (host.Builtin{Name: "ndrange"}) {
		t.Errorf("ndrange = %v, want the builtin", v)
	}
}
