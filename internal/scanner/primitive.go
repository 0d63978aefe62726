package scanner

import (
	"strconv"
	"strings"

	"go4.org/mem"

	"github.com/shapestone/toon/internal/escape"
)

// PrimKind identifies which primitive ScanPrimitive recognised.
type PrimKind int

const (
	PrimNone PrimKind = iota
	PrimNull
	PrimBool
	PrimInt
	PrimDouble
	PrimString
)

// Primitive is the result of a successful ScanPrimitive call.
type Primitive struct {
	Kind   PrimKind
	Bool   bool
	Int    int32
	Double float64
	Text   string // for PrimString, the decoded (unescaped) text
}

// ScanPrimitive recognises null, true/false, a double-quoted string, a
// base-10 32-bit integer, or a finite double. text must already have
// ASCII whitespace trimmed by the caller (ColumnBuilder.Set trims; the
// DOM parser's raw-value lines are trimmed by the classifier).
//
// naSentinel is the reserved 32-bit integer value used by the host's
// integer column to represent NA; an integer literal with that exact
// value is deliberately reported as PrimDouble instead of PrimInt so it
// never collides with a real NA marker downstream.
func ScanPrimitive(text string, strict bool, naSentinel int32) (Primitive, bool, error) {
	if text == "" {
		return Primitive{}, false, nil
	}

	switch text {
	case "null":
		return Primitive{Kind: PrimNull}, true, nil
	case "true":
		return Primitive{Kind: PrimBool, Bool: true}, true, nil
	case "false":
		return Primitive{Kind: PrimBool, Bool: false}, true, nil
	}

	if len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"' {
		body, err := escape.Unquote(mem.S(text[1 : len(text)-1]))
		if err != nil {
			return Primitive{}, false, err
		}
		return Primitive{Kind: PrimString, Text: string(body)}, true, nil
	}

	if isIntegerLiteral(text) {
		n, err := strconv.ParseInt(text, 10, 32)
		if err == nil {
			if int32(n) == naSentinel {
				return Primitive{Kind: PrimDouble, Double: float64(n)}, true, nil
			}
			return Primitive{Kind: PrimInt, Int: int32(n)}, true, nil
		}
	}

	if f, ok := parseFiniteOrStrictDouble(text, strict); ok {
		return Primitive{Kind: PrimDouble, Double: f}, true, nil
	}

	return Primitive{}, false, nil
}

// isIntegerLiteral rejects a leading '+' and any hexadecimal form before
// handing off to strconv so "+1" and "0x10" fall through to the
// double/string branches instead of parsing as ints.
func isIntegerLiteral(s string) bool {
	i := 0
	if i < len(s) && s[i] == '-' {
		i++
	}
	if i >= len(s) {
		return false
	}
	if s[i] == '0' && i+1 < len(s) && (s[i+1] == 'x' || s[i+1] == 'X') {
		return false // reject hexadecimal forms
	}
	for ; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func parseFiniteOrStrictDouble(s string, strict bool) (float64, bool) {
	low := strings.ToLower(s)
	if strict && (strings.Contains(low, "nan") || strings.Contains(low, "inf")) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
