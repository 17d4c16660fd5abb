//
// types.go
//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package types

import (
	"fmt"
)

// Type specifies a scalar type of the FHE program subset.
type Type int8

// Size specifies sizes and bit counts of values.
type Size int32

func (t Type) String() string {
	for k, v := range Types {
		if v == t {
			return k
		}
	}
	return fmt.Sprintf("{Type %d}", t)
}

// ShortString returns a short string name for the type.
func (t Type) ShortString() string {
	name, ok := shortTypes[t]
	if ok {
		return name
	}
	return t.String()
}

// FHE program types.
const (
	TUndefined Type = iota
	TBool
	TInt
	TUint
	TArray
)

// Types define the FHE program types and their names.
var Types = map[string]Type{
	"<Undefined>": TUndefined,
	"bool":        TBool,
	"int":         TInt,
	"uint":        TUint,
	"array":       TArray,
}

var shortTypes = map[Type]string{
	TUndefined: "?",
	TBool:      "b",
	TInt:       "i",
	TUint:      "u",
	TArray:     "arr",
}

// Info specifies information about a type. Every value of a type fits
// in Bits bits; signed types use two's-complement representation.
type Info struct {
	Type        Type
	Bits        Size
	ElementType *Info
	ArraySize   Size
}

// Undefined defines type info for undefined types.
var Undefined = Info{
	Type: TUndefined,
}

// Bool defines type info for boolean values.
var Bool = Info{
	Type: TBool,
	Bits: 1,
}

// Uint8 defines type info for unsigned 8bit integers.
var Uint8 = Info{
	Type: TUint,
	Bits: 8,
}

// Uint16 defines type info for unsigned 16bit integers.
var Uint16 = Info{
	Type: TUint,
	Bits: 16,
}

// Uint32 defines type info for unsigned 32bit integers.
var Uint32 = Info{
	Type: TUint,
	Bits: 32,
}

// Uint64 defines type info for unsigned 64bit integers.
var Uint64 = Info{
	Type: TUint,
	Bits: 64,
}

// Int8 defines type info for signed 8bit integers.
var Int8 = Info{
	Type: TInt,
	Bits: 8,
}

// Int16 defines type info for signed 16bit integers.
var Int16 = Info{
	Type: TInt,
	Bits: 16,
}

// Int32 defines type info for signed 32bit integers.
var Int32 = Info{
	Type: TInt,
	Bits: 32,
}

// Int64 defines type info for signed 64bit integers.
var Int64 = Info{
	Type: TInt,
	Bits: 64,
}

// Array returns type info for a fixed-length array with the element
// type el.
func Array(el Info, size Size) Info {
	elType := el
	return Info{
		Type:        TArray,
		Bits:        el.Bits * size,
		ElementType: &elType,
		ArraySize:   size,
	}
}

func (i Info) String() string {
	switch i.Type {
	case TArray:
		return fmt.Sprintf("[%d]%s", i.ArraySize, i.ElementType)

	case TBool:
		return "bool"

	default:
		if i.Bits == 0 {
			return i.Type.String()
		}
		return fmt.Sprintf("%s%d", i.Type.ShortString(), i.Bits)
	}
}

// ShortString returns a short string name for the type info.
func (i Info) ShortString() string {
	if i.Type == TArray {
		return fmt.Sprintf("[%d]%s", i.ArraySize, i.ElementType.ShortString())
	}
	if i.Bits == 0 {
		return i.Type.ShortString()
	}
	return fmt.Sprintf("%s%d", i.Type.ShortString(), i.Bits)
}

// Undefined tests if type is undefined.
func (i Info) Undefined() bool {
	return i.Type == TUndefined
}

// Scalar tests if the type is a scalar type.
func (i Info) Scalar() bool {
	switch i.Type {
	case TBool, TInt, TUint:
		return true
	default:
		return false
	}
}

// Signed tests if the type interprets its bits as a two's-complement
// signed value. For arrays this tests the element type.
func (i Info) Signed() bool {
	if i.Type == TArray {
		return i.ElementType.Signed()
	}
	return i.Type == TInt
}

// Equal tests if the argument type is equal to this type info.
func (i Info) Equal(o Info) bool {
	if i.Type != o.Type {
		return false
	}
	switch i.Type {
	case TUndefined, TBool, TInt, TUint:
		return i.Bits == o.Bits

	case TArray:
		if i.ArraySize != o.ArraySize || i.Bits != o.Bits {
			return false
		}
		return i.ElementType.Equal(*o.ElementType)

	default:
		panic(fmt.Sprintf("Info.Equal called for %v (%T)", i.Type, i.Type))
	}
}
