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

// Package scope provides types for modeling nested lexical scopes.
//
// Bindings are kept in definition order so that listings (used in
// diagnostics) are deterministic.
package scope

import (
	"fmt"
	"iter"
	"strings"

	"github.com/gx-org/kernelc/base/ordered"
)

type (
	// Scope provides a set of values that can be found given their name.
	Scope[V any] interface {
		// Find returns the value of the nearest binding of a name.
		Find(string) (V, bool)
		// Names returns the names bound in this scope and its parents,
		// innermost first.
		Names() iter.Seq[string]
	}

	roScope[V any] struct {
		parent Scope[V]
		local  *ordered.Map[string, V]
	}
)

func bindingsString[V any](b *ordered.Map[string, V]) string {
	if b.Size() == 0 {
		return "empty"
	}
	var kvs []string
	for k, v := range b.Iter() {
		kvs = append(kvs, fmt.Sprintf("%s: %T:%v", k, v, v))
	}
	return strings.Join(kvs, "\n")
}

func find[V any](key string, local *ordered.Map[string, V], parent Scope[V]) (value V, ok bool) {
	value, ok = local.Load(key)
	if ok || parent == nil {
		return
	}
	return parent.Find(key)
}

func names[V any](local *ordered.Map[string, V], parent Scope[V]) iter.Seq[string] {
	return func(yield func(string) bool) {
		for k := range local.Keys() {
			if !yield(k) {
				return
			}
		}
		if parent == nil {
			return
		}
		for k := range parent.Names() {
			if !yield(k) {
				return
			}
		}
	}
}

// NewReadOnly returns a scope that can only be queried, given a set of values.
// The values are copied: later modifications of the map are not visible.
func NewReadOnly[V any](parent Scope[V], vals map[string]V, order []string) Scope[V] {
	s := &roScope[V]{parent: parent, local: ordered.NewMap[string, V]()}
	for _, k := range order {
		if v, ok := vals[k]; ok {
			s.local.Store(k, v)
		}
	}
	for k, v := range vals {
		if !s.local.Has(k) {
			s.local.Store(k, v)
		}
	}
	return s
}

// Find returns the value associated with `key`, if any.
func (s *roScope[V]) Find(key string) (V, bool) {
	return find(key, s.local, s.parent)
}

// Names returns the names bound in the scope and its parents.
func (s *roScope[V]) Names() iter.Seq[string] {
	return names(s.local, s.parent)
}

func (s *roScope[V]) String() string {
	return scopeString(s.local, s.parent)
}

// RWScope stores key,value pairs and implements the Scope interface.
// A key, value pair is always defined within the scope.
// A value can be retrieved from its key by querying the scope and,
// if not found, its parents recursively.
type RWScope[V any] struct {
	parent Scope[V]
	local  *ordered.Map[string, V]
}

var _ Scope[any] = (*RWScope[any])(nil)

// NewScope returns a new scope given a parent, which can be nil.
func NewScope[V any](parent Scope[V]) *RWScope[V] {
	return &RWScope[V]{
		parent: parent,
		local:  ordered.NewMap[string, V](),
	}
}

// Parent returns the parent of the scope.
func (s *RWScope[V]) Parent() Scope[V] {
	return s.parent
}

// Define maps `key` to `value` in the local scope, overwriting if necessary.
func (s *RWScope[V]) Define(k string, v V) {
	s.local.Store(k, v)
}

// Local returns the value of a key defined in the local scope only.
func (s *RWScope[V]) Local(key string) (V, bool) {
	return s.local.Load(key)
}

// IsLocal returns true if the key is defined in the local scope.
func (s *RWScope[V]) IsLocal(key string) bool {
	return s.local.Has(key)
}

// Find a key in the scope and its parents.
func (s *RWScope[V]) Find(key string) (V, bool) {
	return find(key, s.local, s.parent)
}

// Names returns the names bound in the scope and its parents.
func (s *RWScope[V]) Names() iter.Seq[string] {
	return names(s.local, s.parent)
}

func scopeString[V any](local *ordered.Map[string, V], parent Scope[V]) string {
	parentS := "root"
	if parent != nil {
		parentS = fmt.Sprint(parent)
	}
	return fmt.Sprintf("%s\n-- %p --\n%s\n", parentS, local, bindingsString(local))
}

// String representation of the scope.
func (s *RWScope[V]) String() string {
	return scopeString(s.local, s.parent)
}
