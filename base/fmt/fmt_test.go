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

package fmt_test

import (
	"testing"

	basefmt "github.com/gx-org/kernelc/base/fmt"
)

func TestIndent(t *testing.T) {
	tests := []struct {
		skip int
		txt  string
		want string
	}{
		{txt: "", want: ""},
		{txt: "a\nb\n", want: "  a\n  b\n"},
		{txt: "a\n\tb", want: "  a\n  \tb"},
		{skip: 1, txt: "a {\nb\n}\n", want: "a {\n  b\n  }\n"},
	}
	for i, test := range tests {
		got := basefmt.IndentSkip(test.skip, test.txt)
		if got != test.want {
			t.Errorf("test %d: IndentSkip(%d, %q) = %q, want %q", i, test.skip, test.txt, got, test.want)
		}
	}
}
