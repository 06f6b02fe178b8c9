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

// Package options specifies the options of the kernel compiler.
package options

import (
	"io"
	"log/slog"

	"github.com/pkg/errors"
	"github.com/xyproto/env/v2"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
	"github.com/gx-org/kernelc/build/ir"
	"github.com/gx-org/kernelc/build/ir/irkind"
)

// Environment variables overriding options.
const (
	EnvDebug        = "KERNELC_DEBUG"
	EnvShortCircuit = "KERNELC_SHORT_CIRCUIT"
	EnvDynamicIndex = "KERNELC_DYNAMIC_INDEX"
	EnvMaxUnroll    = "KERNELC_MAX_UNROLL"
)

// Options of a compilation.
type Options struct {
	// Debug compiles assert statements. Otherwise, asserts are no-ops.
	Debug bool `yaml:"debug"`
	// ShortCircuit lowers runtime and/or to conditionals evaluating their
	// second operand only when required. Otherwise, both operands are evaluated.
	ShortCircuit bool `yaml:"short_circuit"`
	// DynamicIndex allows vectors and compile-time sequences to be indexed with runtime values.
	// Fields can always be indexed with runtime values.
	DynamicIndex bool `yaml:"dynamic_index"`
	// MaxUnroll is the maximum number of loop bodies instantiated by static loops in a kernel.
	MaxUnroll int `yaml:"max_unroll"`
	// MaxStaticDepth is the maximum nesting of static loops.
	MaxStaticDepth int `yaml:"max_static_depth"`
	// DefaultInt is the runtime type of integer literals.
	DefaultInt string `yaml:"default_int"`
	// DefaultFloat is the runtime type of float literals.
	DefaultFloat string `yaml:"default_float"`
	// IRVersion is the version of the IR expected by the backend.
	IRVersion string `yaml:"ir_version"`

	// Logger receives debug information about the compilation.
	Logger *slog.Logger `yaml:"-"`
}

// Default returns the default options.
func Default() Options {
	return Options{
		MaxUnroll:      1 << 16,
		MaxStaticDepth: 64,
		DefaultInt:     irkind.Int32.String(),
		DefaultFloat:   irkind.Float32.String(),
		IRVersion:      ir.Version,
	}
}

// Load reads options from YAML, starting from the default options.
// Unknown fields are rejected.
func Load(r io.Reader) (Options, error) {
	opts := Default()
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&opts); err != nil && err != io.EOF {
		return Options{}, errors.Wrap(err, "cannot parse compiler options")
	}
	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// FromEnv overrides options with the values of environment variables, if set.
func (o Options) FromEnv() Options {
	if env.Has(EnvDebug) {
		o.Debug = env.Bool(EnvDebug)
	}
	if env.Has(EnvShortCircuit) {
		o.ShortCircuit = env.Bool(EnvShortCircuit)
	}
	if env.Has(EnvDynamicIndex) {
		o.DynamicIndex = env.Bool(EnvDynamicIndex)
	}
	o.MaxUnroll = env.Int(EnvMaxUnroll, o.MaxUnroll)
	return o
}

// Validate checks that the options are consistent.
func (o Options) Validate() error {
	if o.MaxUnroll <= 0 {
		return errors.Errorf("max_unroll must be strictly positive, got %d", o.MaxUnroll)
	}
	if o.MaxStaticDepth <= 0 {
		return errors.Errorf("max_static_depth must be strictly positive, got %d", o.MaxStaticDepth)
	}
	if k := irkind.FromString(o.DefaultInt); !irkind.IsInteger(k) {
		return errors.Errorf("default_int %q is not an integer type", o.DefaultInt)
	}
	if k := irkind.FromString(o.DefaultFloat); !irkind.IsFloat(k) {
		return errors.Errorf("default_float %q is not a float type", o.DefaultFloat)
	}
	if !semver.IsValid(o.IRVersion) {
		return errors.Errorf("ir_version %q is not a valid semantic version", o.IRVersion)
	}
	if semver.Major(o.IRVersion) != semver.Major(ir.Version) {
		return errors.Errorf("ir_version %s incompatible with the IR produced by the compiler (%s)", o.IRVersion, ir.Version)
	}
	if semver.Compare(o.IRVersion, ir.Version) > 0 {
		return errors.Errorf("ir_version %s is more recent than the IR produced by the compiler (%s)", o.IRVersion, ir.Version)
	}
	return nil
}

// IntKind returns the kind of integer literals.
func (o Options) IntKind() irkind.Kind {
	return irkind.FromString(o.DefaultInt)
}

// FloatKind returns the kind of float literals.
func (o Options) FloatKind() irkind.Kind {
	return irkind.FromString(o.DefaultFloat)
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// Log returns the logger of the compilation. Never nil.
func (o Options) Log() *slog.Logger {
	if o.Logger == nil {
		return discard
	}
	return o.Logger
}
