//
// parse.go
//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package types

import (
	"fmt"
	"regexp"
	"strconv"
)

var (
	reArr   = regexp.MustCompilePOSIX(`^\[([[:digit:]]+)\](.+)$`)
	reSized = regexp.MustCompilePOSIX(`^([iu])(8|16|32|64)$`)
)

// Parse parses a type definition and returns its type
// information. The syntax covers the FHE program scalar types
// ("bool", "u8".."u64", "i8".."i64") and fixed-length arrays thereof
// ("[4]u8").
func Parse(val string) (info Info, err error) {
	switch val {
	case "b", "bool":
		info = Bool
		return
	}

	m := reSized.FindStringSubmatch(val)
	if m != nil {
		switch m[1] {
		case "i":
			info.Type = TInt

		case "u":
			info.Type = TUint
		}
		var bits int64
		bits, err = strconv.ParseInt(m[2], 10, 32)
		if err != nil {
			return
		}
		info.Bits = Size(bits)
		return
	}

	m = reArr.FindStringSubmatch(val)
	if m == nil {
		return info, fmt.Errorf("types.Parse: unknown type: %s", val)
	}
	var elType Info
	elType, err = Parse(m[2])
	if err != nil {
		return
	}
	if elType.Type == TArray {
		return info, fmt.Errorf("types.Parse: nested array type: %s", val)
	}
	var size int64
	size, err = strconv.ParseInt(m[1], 10, 32)
	if err != nil {
		return
	}
	if size == 0 {
		return info, fmt.Errorf("types.Parse: empty array type: %s", val)
	}
	info = Array(elType, Size(size))

	return
}
