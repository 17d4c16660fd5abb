//
// value.go
//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package program

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/markkurossi/fhe/types"
)

// Value is a concrete typed value. Scalars are stored as their raw
// two's-complement bits in an uint64; arrays store one word per
// element. The bits are always masked to the declared width.
type Value struct {
	typ  types.Info
	bits []uint64
}

// Type returns the value type.
func (v Value) Type() types.Info {
	return v.typ
}

// NewScalar creates a scalar value of type t from the raw
// two's-complement bits x. Bits above the type width must be zero.
func NewScalar(t types.Info, x uint64) (Value, error) {
	if !t.Scalar() {
		return Value{}, fmt.Errorf("program: %s is not a scalar type", t)
	}
	if x&^mask(t.Bits) != 0 {
		return Value{}, fmt.Errorf("program: value %#x out of range for %s",
			x, t)
	}
	return Value{
		typ:  t,
		bits: []uint64{x},
	}, nil
}

// NewInt creates a signed scalar value of type t from x, reduced to
// the two's-complement representation of the type width. The value
// must be representable in the width.
func NewInt(t types.Info, x int64) (Value, error) {
	if t.Type != types.TInt {
		return Value{}, fmt.Errorf("program: %s is not a signed type", t)
	}
	bits := uint64(x) & mask(t.Bits)
	if signExtend(bits, t.Bits) != x {
		return Value{}, fmt.Errorf("program: value %d out of range for %s",
			x, t)
	}
	return Value{
		typ:  t,
		bits: []uint64{bits},
	}, nil
}

// NewBool creates a boolean value.
func NewBool(v bool) Value {
	var bits uint64
	if v {
		bits = 1
	}
	return Value{
		typ:  types.Bool,
		bits: []uint64{bits},
	}
}

// NewArray creates an array value of type t from the raw
// two's-complement element bits.
func NewArray(t types.Info, elems []uint64) (Value, error) {
	if t.Type != types.TArray {
		return Value{}, fmt.Errorf("program: %s is not an array type", t)
	}
	if len(elems) != int(t.ArraySize) {
		return Value{}, fmt.Errorf(
			"program: invalid element count for %s: got %d, expected %d",
			t, len(elems), t.ArraySize)
	}
	m := mask(t.ElementType.Bits)
	bits := make([]uint64, len(elems))
	for idx, el := range elems {
		if el&^m != 0 {
			return Value{}, fmt.Errorf(
				"program: element %#x out of range for %s", el, t)
		}
		bits[idx] = el
	}
	return Value{
		typ:  t,
		bits: bits,
	}, nil
}

// Uint64 returns the raw bits of a scalar value.
func (v Value) Uint64() uint64 {
	return v.bits[0]
}

// Int64 returns a scalar value sign-extended to 64 bits.
func (v Value) Int64() int64 {
	return signExtend(v.bits[0], v.typ.Bits)
}

// Bool returns a scalar value as boolean.
func (v Value) Bool() bool {
	return v.bits[0] != 0
}

// Elems returns the raw element bits of an array value.
func (v Value) Elems() []uint64 {
	elems := make([]uint64, len(v.bits))
	copy(elems, v.bits)
	return elems
}

// Equal tests if the argument value is equal to this value.
func (v Value) Equal(o Value) bool {
	if !v.typ.Equal(o.typ) {
		return false
	}
	for idx, b := range v.bits {
		if o.bits[idx] != b {
			return false
		}
	}
	return true
}

func (v Value) String() string {
	switch v.typ.Type {
	case types.TBool:
		if v.bits[0] != 0 {
			return "true"
		}
		return "false"

	case types.TInt:
		return strconv.FormatInt(v.Int64(), 10)

	case types.TUint:
		return strconv.FormatUint(v.bits[0], 10)

	case types.TArray:
		sb := new(strings.Builder)
		sb.WriteRune('[')
		for idx, el := range v.bits {
			if idx > 0 {
				sb.WriteRune(' ')
			}
			if v.typ.Signed() {
				sb.WriteString(strconv.FormatInt(
					signExtend(el, v.typ.ElementType.Bits), 10))
			} else {
				sb.WriteString(strconv.FormatUint(el, 10))
			}
		}
		sb.WriteRune(']')
		return sb.String()

	default:
		return fmt.Sprintf("{Value %v}", v.typ)
	}
}

// Parse parses the textual values into a value of type t. Scalar
// types take one value, array types one value per element.
func Parse(t types.Info, vals []string) (Value, error) {
	if t.Type == types.TArray {
		if len(vals) != int(t.ArraySize) {
			return Value{}, fmt.Errorf(
				"program: invalid amount of values for %s: got %d, expected %d",
				t, len(vals), t.ArraySize)
		}
		elems := make([]uint64, len(vals))
		for idx, val := range vals {
			el, err := parseScalar(*t.ElementType, val)
			if err != nil {
				return Value{}, err
			}
			elems[idx] = el
		}
		return NewArray(t, elems)
	}

	if len(vals) != 1 {
		return Value{}, fmt.Errorf(
			"program: invalid amount of values for %s: got %d, expected 1",
			t, len(vals))
	}
	bits, err := parseScalar(t, vals[0])
	if err != nil {
		return Value{}, err
	}
	return Value{
		typ:  t,
		bits: []uint64{bits},
	}, nil
}

func parseScalar(t types.Info, val string) (uint64, error) {
	switch t.Type {
	case types.TBool:
		switch val {
		case "0", "f", "false":
			return 0, nil
		case "1", "t", "true":
			return 1, nil
		default:
			return 0, fmt.Errorf("program: invalid bool constant: %s", val)
		}

	case types.TInt:
		i, err := strconv.ParseInt(val, 0, 64)
		if err != nil {
			return 0, fmt.Errorf("program: invalid value '%s' for %s", val, t)
		}
		bits := uint64(i) & mask(t.Bits)
		if signExtend(bits, t.Bits) != i {
			return 0, fmt.Errorf("program: value %s out of range for %s",
				val, t)
		}
		return bits, nil

	case types.TUint:
		u, err := strconv.ParseUint(val, 0, 64)
		if err != nil {
			return 0, fmt.Errorf("program: invalid value '%s' for %s", val, t)
		}
		if u&^mask(t.Bits) != 0 {
			return 0, fmt.Errorf("program: value %s out of range for %s",
				val, t)
		}
		return u, nil

	default:
		return 0, fmt.Errorf("program: unsupported value type: %s", t)
	}
}

func mask(bits types.Size) uint64 {
	if bits >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << bits) - 1
}

func signExtend(x uint64, bits types.Size) int64 {
	shift := 64 - uint(bits)
	return int64(x<<shift) >> shift
}
