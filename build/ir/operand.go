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

package ir

import (
	"math"
	"strconv"

	"github.com/pkg/errors"
	"github.com/gx-org/kernelc/build/ir/irkind"
)

type (
	// Operand of a statement: either a reference to a value or an immediate.
	Operand interface {
		Type() Type
		String() string
		operand()
	}

	// Ref references the value produced by a statement.
	Ref struct {
		H   Handle
		Typ Type
	}

	// Imm is a compile-time value folded into a statement.
	// Val is an int64 for signed integers, a uint64 for unsigned integers,
	// a float64 for floating-point numbers, and a bool for booleans.
	Imm struct {
		Val any
		Typ Type
	}

	// Text is a string operand. Only used by print statements.
	Text struct {
		S string
	}
)

var (
	_ Operand = (*Ref)(nil)
	_ Operand = (*Imm)(nil)
	_ Operand = (*Text)(nil)
)

// RefTo returns a reference to the value of a statement.
func RefTo(v Value) *Ref {
	return &Ref{H: v.ID(), Typ: v.Type()}
}

// Type returns the type of the referenced value.
func (r *Ref) Type() Type { return r.Typ }

// String returns the handle of the referenced value.
func (r *Ref) String() string { return r.H.String() }

func (*Ref) operand() {}

// NewImm returns an immediate of a given scalar type, converting the host number
// to the canonical Go representation of the kind.
func NewImm(val any, typ *ScalarType) (*Imm, error) {
	kind := typ.Kind()
	var err error
	var canonical any
	switch {
	case kind == irkind.Bool:
		canonical, err = toBool(val)
	case irkind.IsSigned(kind):
		canonical, err = toInt(val, kind)
	case irkind.IsInteger(kind):
		canonical, err = toUint(val, kind)
	case irkind.IsFloat(kind):
		canonical, err = toFloat(val, kind)
	default:
		err = errors.Errorf("cannot build an immediate of type %s", typ.String())
	}
	if err != nil {
		return nil, err
	}
	return &Imm{Val: canonical, Typ: typ}, nil
}

func toBool(val any) (bool, error) {
	b, ok := val.(bool)
	if !ok {
		return false, errors.Errorf("cannot use %T as bool", val)
	}
	return b, nil
}

func toInt(val any, kind irkind.Kind) (int64, error) {
	var i int64
	switch v := val.(type) {
	case int64:
		i = v
	case bool:
		if v {
			i = 1
		}
	case float64:
		if v != math.Trunc(v) {
			return 0, errors.Errorf("cannot represent %v as %s without truncation", v, kind)
		}
		i = int64(v)
	default:
		return 0, errors.Errorf("cannot use %T as %s", val, kind)
	}
	if kind == irkind.Int32 && (i < math.MinInt32 || i > math.MaxInt32) {
		return 0, errors.Errorf("%d overflows %s", i, kind)
	}
	return i, nil
}

func toUint(val any, kind irkind.Kind) (uint64, error) {
	i, err := toInt(val, irkind.Int64)
	if err != nil {
		return 0, err
	}
	if i < 0 {
		return 0, errors.Errorf("%d overflows %s", i, kind)
	}
	if kind == irkind.Uint32 && i > math.MaxUint32 {
		return 0, errors.Errorf("%d overflows %s", i, kind)
	}
	return uint64(i), nil
}

func toFloat(val any, kind irkind.Kind) (float64, error) {
	switch v := val.(type) {
	case float64:
		if kind == irkind.Float32 {
			return float64(float32(v)), nil
		}
		return v, nil
	case int64:
		return float64(v), nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	}
	return 0, errors.Errorf("cannot use %T as %s", val, kind)
}

// Type returns the type of the immediate.
func (m *Imm) Type() Type { return m.Typ }

// String representation of the immediate.
func (m *Imm) String() string {
	switch v := m.Val.(type) {
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10) + "u"
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return FormatFloat(v)
	}
	return "<invalid>"
}

func (*Imm) operand() {}

// FormatFloat formats a float such that it cannot be confused with an integer.
func FormatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	for _, c := range s {
		switch c {
		case '.', 'e', 'N', 'I':
			return s
		}
	}
	return s + ".0"
}

// Type returns void: text is not a value.
func (t *Text) Type() Type { return VoidType{} }

// String returns the quoted text.
func (t *Text) String() string { return strconv.Quote(t.S) }

func (*Text) operand() {}
