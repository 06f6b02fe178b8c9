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

package ordered_test

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gx-org/kernelc/base/ordered"
)

type entry struct {
	k string
	v int
}

func TestMap(t *testing.T) {
	tests := []struct {
		entries []entry
		want    []entry
	}{
		{
			entries: []entry{{k: "a", v: 1}, {k: "b", v: 2}, {k: "c", v: 3}},
			want:    []entry{{k: "a", v: 1}, {k: "b", v: 2}, {k: "c", v: 3}},
		},
		{
			entries: []entry{{k: "a", v: 1}, {k: "b", v: 2}, {k: "a", v: 3}},
			want:    []entry{{k: "a", v: 3}, {k: "b", v: 2}},
		},
		{
			entries: []entry{{k: "a", v: 1}, {k: "a", v: 2}, {k: "a", v: 3}},
			want:    []entry{{k: "a", v: 3}},
		},
	}
	for ti, test := range tests {
		m := ordered.NewMap[string, int]()
		for _, e := range test.entries {
			m.Store(e.k, e.v)
		}
		if m.Size() != len(test.want) {
			t.Errorf("test %d: map has %d entries but want %d", ti, m.Size(), len(test.want))
			continue
		}
		m = m.Clone()
		var got []entry
		for k, v := range m.Iter() {
			got = append(got, entry{k: k, v: v})
		}
		if diff := cmp.Diff(test.want, got, cmp.AllowUnexported(entry{})); diff != "" {
			t.Errorf("test %d: unexpected entries (-want +got):\n%s", ti, diff)
		}
		wantKeys := make([]string, len(test.want))
		wantVals := make([]int, len(test.want))
		for i, e := range test.want {
			wantKeys[i], wantVals[i] = e.k, e.v
		}
		if diff := cmp.Diff(wantKeys, slices.Collect(m.Keys())); diff != "" {
			t.Errorf("test %d: unexpected keys (-want +got):\n%s", ti, diff)
		}
		if diff := cmp.Diff(wantVals, slices.Collect(m.Values())); diff != "" {
			t.Errorf("test %d: unexpected values (-want +got):\n%s", ti, diff)
		}
	}
}

func TestHas(t *testing.T) {
	m := ordered.NewMap[string, int]()
	m.Store("a", 0)
	if !m.Has("a") {
		t.Errorf("Has(%q) = false, want true", "a")
	}
	if m.Has("b") {
		t.Errorf("Has(%q) = true, want false", "b")
	}
}
