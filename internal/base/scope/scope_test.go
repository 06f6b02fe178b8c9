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

package scope

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefine(t *testing.T) {
	s := NewScope[int](nil)
	s.Define("x", 1)
	s.Define("y", 2)

	if value, ok := s.Find("x"); value != 1 || !ok {
		t.Errorf("Find('x') = %v, %v, want 1, true", value, ok)
	}
	if value, ok := s.Find("y"); value != 2 || !ok {
		t.Errorf("Find('y') = %v, %v, want 2, true", value, ok)
	}
	if value, ok := s.Find("z"); value != 0 || ok {
		t.Errorf("Find('z') = %v, %v, want 0, false", value, ok)
	}
}

func TestLocal(t *testing.T) {
	s := NewScope[int](nil)
	s.Define("z", -1)
	child := NewScope[int](s)
	child.Define("y", 3)
	if value, ok := child.Local("y"); value != 3 || !ok {
		t.Errorf("Local('y') = %v, %v, want 3, true", value, ok)
	}
	if _, ok := child.Local("z"); ok {
		t.Errorf("Local('z') found a binding of the parent scope")
	}
	if child.IsLocal("z") {
		t.Errorf("child.IsLocal('z') = true, want false")
	}
	if value, ok := child.Find("z"); value != -1 || !ok {
		t.Errorf("Find('z') = %v, %v, want -1, true", value, ok)
	}
	if child.Parent() != Scope[int](s) {
		t.Errorf("child.Parent() = %v, want %v", child.Parent(), s)
	}
}

func TestReadOnlyParent(t *testing.T) {
	ro := NewReadOnly[int](nil, map[string]int{"x": 1}, nil)
	s := NewScope(ro)
	s.Define("x", 2)
	if value, ok := s.Find("x"); value != 2 || !ok {
		t.Errorf("Find('x') = %v, %v, want 2, true", value, ok)
	}
	if value, ok := ro.Find("x"); value != 1 || !ok {
		t.Errorf("read-only Find('x') = %v, %v, want 1, true", value, ok)
	}
}

func TestNestedScope(t *testing.T) {
	s1 := NewScope[int](nil)
	s1.Define("x", 1)
	s1.Define("z", 20)

	s2 := NewScope[int](s1)
	s2.Define("x", 10)
	s2.Define("y", 2)

	tests := []struct {
		s     Scope[int]
		key   string
		want  int
		found bool
	}{
		{s: s1, key: "x", want: 1, found: true},
		{s: s1, key: "y", want: 0, found: false},
		{s: s2, key: "x", want: 10, found: true},
		{s: s2, key: "y", want: 2, found: true},
		{s: s2, key: "z", want: 20, found: true},
	}
	for i, test := range tests {
		got, found := test.s.Find(test.key)
		if got != test.want || found != test.found {
			t.Errorf("test %d: Find(%q) = %v, %v, want %v, %v", i, test.key, got, found, test.want, test.found)
		}
	}
}

func TestNames(t *testing.T) {
	ro := NewReadOnly[int](nil, map[string]int{"b": 1, "a": 2, "c": 3}, []string{"c", "a"})
	s := NewScope(ro)
	s.Define("y", 1)
	s.Define("x", 2)
	s.Define("y", 3)

	want := []string{"y", "x", "c", "a", "b"}
	if diff := cmp.Diff(want, slices.Collect(s.Names())); diff != "" {
		t.Errorf("unexpected names (-want +got):\n%s", diff)
	}
}
