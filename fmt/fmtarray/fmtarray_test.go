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

package fmtarray_test

import (
	"strconv"
	"strings"
	"testing"

	"github.com/gx-org/kernelc/build/ir/irkind"
	"github.com/gx-org/kernelc/fmt/fmtarray"
)

func cells(axes []int) []string {
	total := 1
	for _, n := range axes {
		total *= n
	}
	cs := make([]string, total)
	for i := range cs {
		cs[i] = strconv.Itoa(i)
	}
	return cs
}

func TestSprint(t *testing.T) {
	tests := []struct {
		cells []string
		axes  []int
		want  string
	}{
		{
			cells: []string{"42"},
			want:  "i32(42)",
		},
		{
			cells: []string{"1", "2", "3", "4", "5", "6"},
			axes:  []int{6},
			want:  "[6]i32{1, 2, 3, 4, 5, 6}",
		},
		{
			axes: []int{2, 3},
			want: `
[2][3]i32{
	{0, 1, 2},
	{3, 4, 5},
}
`,
		},
		{
			axes: []int{2, 3, 4},
			want: `
[2][3][4]i32{
	{
		{0, 1, 2, 3},
		{4, 5, 6, 7},
		{8, 9, 10, 11},
	},
	{
		{12, 13, 14, 15},
		{16, 17, 18, 19},
		{20, 21, 22, 23},
	},
}
`,
		},
	}
	for _, test := range tests {
		cs := test.cells
		if cs == nil {
			cs = cells(test.axes)
		}
		got := fmtarray.Sprint(irkind.Int32, cs, test.axes)
		want := strings.TrimSpace(test.want)
		if got != want {
			t.Errorf("incorrect output:\ngot:\n%s\nwant:\n%s", got, want)
		}
	}
}

func TestSDataPrint(t *testing.T) {
	got := fmtarray.SDataPrint([]string{"1.5", "_"}, []int{2})
	if want := "{1.5, _}"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSizeMismatch(t *testing.T) {
	got := fmtarray.Sprint(irkind.Float32, []string{"1"}, []int{2, 2})
	if !strings.Contains(got, "got 1 elements for axes [2 2] of size 4") {
		t.Errorf("unexpected output %q", got)
	}
}
