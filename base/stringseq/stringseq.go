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

// Package stringseq provides helper functions to build strings from sequences.
package stringseq

import (
	"fmt"
	"iter"
	"strings"
)

// Append appends the elements of a sequence to a builder, separated by sep.
func Append(b *strings.Builder, seq iter.Seq[string], sep string) {
	n := 0
	for item := range seq {
		if n > 0 {
			b.WriteString(sep)
		}
		b.WriteString(item)
		n++
	}
}

// AppendStringer appends the string of the elements of a sequence to a builder, separated by sep.
func AppendStringer[T fmt.Stringer](b *strings.Builder, seq iter.Seq[T], sep string) {
	n := 0
	for item := range seq {
		if n > 0 {
			b.WriteString(sep)
		}
		b.WriteString(item.String())
		n++
	}
}

// Join the elements of a sequence.
func Join(seq iter.Seq[string], sep string) string {
	var b strings.Builder
	Append(&b, seq, sep)
	return b.String()
}

// JoinStringer joins the string of the elements of a sequence.
func JoinStringer[T fmt.Stringer](seq iter.Seq[T], sep string) string {
	var b strings.Builder
	AppendStringer(&b, seq, sep)
	return b.String()
}
