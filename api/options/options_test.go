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

package options_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
	"github.com/gx-org/kernelc/api/options"
	"github.com/gx-org/kernelc/build/ir/irkind"
)

func TestLoad(t *testing.T) {
	opts, err := options.Load(strings.NewReader(`
debug: true
short_circuit: true
max_unroll: 128
default_float: f64
`))
	require.NoError(t, err)
	want := options.Default()
	want.Debug = true
	want.ShortCircuit = true
	want.MaxUnroll = 128
	want.DefaultFloat = "f64"
	if diff := cmp.Diff(want, opts, cmpopts.IgnoreFields(options.Options{}, "Logger")); diff != "" {
		t.Errorf("unexpected options (-want +got):\n%s", diff)
	}
	if opts.FloatKind() != irkind.Float64 || opts.IntKind() != irkind.Int32 {
		t.Errorf("got kinds %s, %s, want i32, f64", opts.IntKind(), opts.FloatKind())
	}
}

func TestLoadEmpty(t *testing.T) {
	opts, err := options.Load(strings.NewReader(""))
	require.NoError(t, err)
	if diff := cmp.Diff(options.Default(), opts, cmpopts.IgnoreFields(options.Options{}, "Logger")); diff != "" {
		t.Errorf("unexpected options (-want +got):\n%s", diff)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{src: "debgu: true", want: "field debgu not found"},
		{src: "default_int: f32", want: `default_int "f32" is not an integer type`},
		{src: "default_float: i64", want: `default_float "i64" is not a float type`},
		{src: `ir_version: "1.2"`, want: "not a valid semantic version"},
		{src: "ir_version: v0.9.0", want: "incompatible"},
		{src: "ir_version: v1.99.0", want: "more recent"},
		{src: "max_static_depth: 0", want: "max_static_depth"},
		{src: "max_unroll: 0", want: "max_unroll must be strictly positive"},
	}
	for _, test := range tests {
		_, err := options.Load(strings.NewReader(test.src))
		require.ErrorContains(t, err, test.want, "source: %q", test.src)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv(options.EnvDebug, "true")
	t.Setenv(options.EnvMaxUnroll, "12")
	opts := options.Default()
	opts.ShortCircuit = true
	got := opts.FromEnv()
	if !got.Debug || got.MaxUnroll != 12 || !got.ShortCircuit || got.DynamicIndex {
		t.Errorf("unexpected options after FromEnv: %+v", got)
	}
}

func TestLogNeverNil(t *testing.T) {
	if options.Default().Log() == nil {
		t.Errorf("Log() returned nil")
	}
}
