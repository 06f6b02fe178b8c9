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

// Package uname provides unique names.
package uname

import "fmt"

// Unique generates unique names.
type Unique struct {
	taken map[string]bool
	next  map[string]int
}

// New name generator.
func New() *Unique {
	return &Unique{
		taken: make(map[string]bool),
		next:  make(map[string]int),
	}
}

// Register marks a name as used without going through the generator.
// Names generated later will not collide with it.
func (n *Unique) Register(name string) {
	n.taken[name] = true
}

// Name returns a unique name given a desired base name.
// If the base name is available, it is returned directly. Else, the smallest
// available numerical suffix is appended.
func (n *Unique) Name(root string) string {
	if !n.taken[root] {
		n.taken[root] = true
		return root
	}
	for {
		index := n.next[root] + 1
		n.next[root] = index
		name := fmt.Sprintf("%s%d", root, index)
		if n.taken[name] {
			continue
		}
		n.taken[name] = true
		return name
	}
}

// Len returns the number of names taken.
func (n *Unique) Len() int {
	return len(n.taken)
}
