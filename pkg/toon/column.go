package toon

import (
	"strconv"
	"strings"

	"github.com/shapestone/toon/internal/scanner"
)

// Column is a finalised, typed, NA-aware column snapshot: {type, values,
// na_mask}. Only the slice matching Type is meaningful; the others are
// nil.
type Column struct {
	Name    string
	Type    ColumnType
	Bools   []bool
	Ints    []int32
	Doubles []float64
	Strings []string
	NA      []bool
}

// Len returns the column's row count.
func (c *Column) Len() int { return len(c.NA) }

// ColumnBuilder accumulates a single column's values with monotonic type
// promotion and back-conversion. The zero value is not usable; construct
// with NewColumnBuilder.
type ColumnBuilder struct {
	name string
	typ  ColumnType

	na      []bool
	bools   []bool
	ints    []int32
	doubles []float64
	strings []string
}

// NewColumnBuilder creates an empty builder for the named column.
func NewColumnBuilder(name string) *ColumnBuilder {
	return &ColumnBuilder{name: name}
}

// Len reports the builder's current row count.
func (b *ColumnBuilder) Len() int { return len(b.na) }

// Type reports the builder's current lattice type.
func (b *ColumnBuilder) Type() ColumnType { return b.typ }

// ensureCapacity grows the NA mask and the backing slice of the current
// type, amortised-O(1), so indices up to n-1 are addressable. New rows
// start as NA.
func (b *ColumnBuilder) ensureCapacity(n int) {
	for len(b.na) < n {
		b.na = append(b.na, true)
		switch b.typ {
		case Integer:
			b.ints = append(b.ints, 0)
		case Double_:
			b.doubles = append(b.doubles, 0)
		case String_:
			b.strings = append(b.strings, "")
		default: // Unknown and Logical share the temporary LOGICAL backing array
			b.bools = append(b.bools, false)
		}
	}
}

// SetNull extends the column to row+1 if needed and marks row as NA. If
// the column is still UNKNOWN, it remains UNKNOWN: nulls alone never
// force a type decision.
func (b *ColumnBuilder) SetNull(row int) {
	b.ensureCapacity(row + 1)
	b.na[row] = true
	b.zeroRow(row)
}

func (b *ColumnBuilder) zeroRow(row int) {
	switch b.typ {
	case Integer:
		b.ints[row] = 0
	case Double_:
		b.doubles[row] = 0
	case String_:
		b.strings[row] = ""
	default:
		b.bools[row] = false
	}
}

// ForceType applies a caller-supplied column type (the col_types
// option): the column's type joins forced with whatever it already is,
// and any buffered rows are promoted accordingly. Subsequent Set calls
// still only promote upward from there.
func (b *ColumnBuilder) ForceType(forced ColumnType) {
	target := join(b.typ, forced)
	if target != b.typ {
		b.promote(target)
	}
}

// Set trims ASCII whitespace from text and stores it at row, inferring
// its primitive type and joining it into the column's running type,
// promoting already-buffered rows if the join widens the column.
func (b *ColumnBuilder) Set(row int, text string, strict bool) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || trimmed == "null" {
		b.SetNull(row)
		return nil
	}

	prim, ok, err := scanner.ScanPrimitive(trimmed, strict, NAIntSentinel)
	if err != nil {
		return err
	}
	if ok && prim.Kind == scanner.PrimNull {
		b.SetNull(row)
		return nil
	}

	var observed ColumnType
	kind := scanner.PrimNone
	if ok {
		kind = prim.Kind
		switch prim.Kind {
		case scanner.PrimBool:
			observed = Logical
		case scanner.PrimInt:
			observed = Integer
		case scanner.PrimDouble:
			observed = Double_
		case scanner.PrimString:
			observed = String_
		}
	} else {
		observed = String_ // fall back to unquoted string
	}

	target := join(b.typ, observed)
	if target != b.typ {
		b.promote(target)
	}
	b.ensureCapacity(row + 1)
	b.na[row] = false
	b.writeConverted(row, target, kind, prim, trimmed)
	return nil
}

// writeConverted stores a scanned value into row under targetType,
// applying the same numeric-widening/textual-representation rules as
// promote, since targetType may be wider than the type this particular
// row's literal scanned as.
func (b *ColumnBuilder) writeConverted(row int, targetType ColumnType, kind scanner.PrimKind, p scanner.Primitive, fallbackText string) {
	switch targetType {
	case Logical:
		b.bools[row] = p.Bool
	case Integer:
		if kind == scanner.PrimBool {
			b.ints[row] = boolToInt(p.Bool)
		} else {
			b.ints[row] = p.Int
		}
	case Double_:
		switch kind {
		case scanner.PrimBool:
			b.doubles[row] = boolToFloat(p.Bool)
		case scanner.PrimInt:
			b.doubles[row] = float64(p.Int)
		default:
			b.doubles[row] = p.Double
		}
	case String_:
		switch kind {
		case scanner.PrimBool:
			b.strings[row] = boolDefaultText(p.Bool)
		case scanner.PrimInt:
			b.strings[row] = strconv.Itoa(int(p.Int))
		case scanner.PrimDouble:
			b.strings[row] = formatDoubleDefault(p.Double)
		case scanner.PrimString:
			b.strings[row] = p.Text
		default:
			b.strings[row] = fallbackText
		}
	}
}

// promote rewrites every buffered row from b.typ to newType, applying the
// same widening rules Set uses for a fresh value.
func (b *ColumnBuilder) promote(newType ColumnType) {
	oldType := b.typ
	n := len(b.na)

	switch {
	case oldType == newType:
		return
	case (oldType == Unknown || oldType == Logical) && newType == Integer:
		ints := make([]int32, n)
		for i := 0; i < n; i++ {
			if !b.na[i] {
				ints[i] = boolToInt(b.bools[i])
			}
		}
		b.bools, b.ints = nil, ints
	case (oldType == Unknown || oldType == Logical) && newType == Double_:
		doubles := make([]float64, n)
		for i := 0; i < n; i++ {
			if !b.na[i] {
				doubles[i] = boolToFloat(b.bools[i])
			}
		}
		b.bools, b.doubles = nil, doubles
	case (oldType == Unknown || oldType == Logical) && newType == String_:
		strs := make([]string, n)
		for i := 0; i < n; i++ {
			if !b.na[i] {
				strs[i] = boolDefaultText(b.bools[i])
			}
		}
		b.bools, b.strings = nil, strs
	case oldType == Integer && newType == Double_:
		doubles := make([]float64, n)
		for i := 0; i < n; i++ {
			if !b.na[i] {
				doubles[i] = float64(b.ints[i])
			}
		}
		b.ints, b.doubles = nil, doubles
	case oldType == Integer && newType == String_:
		strs := make([]string, n)
		for i := 0; i < n; i++ {
			if !b.na[i] {
				strs[i] = strconv.Itoa(int(b.ints[i]))
			}
		}
		b.ints, b.strings = nil, strs
	case oldType == Double_ && newType == String_:
		strs := make([]string, n)
		for i := 0; i < n; i++ {
			if !b.na[i] {
				strs[i] = formatDoubleDefault(b.doubles[i])
			}
		}
		b.doubles, b.strings = nil, strs
	}
	b.typ = newType
}

// Finalize returns an immutable snapshot of the column. A column that
// remains UNKNOWN defaults to LOGICAL, all-NA.
func (b *ColumnBuilder) Finalize() *Column {
	typ := b.typ
	bools := b.bools
	if typ == Unknown {
		typ = Logical
		if bools == nil {
			bools = make([]bool, len(b.na))
		}
	}
	na := append([]bool(nil), b.na...)
	return &Column{
		Name:    b.name,
		Type:    typ,
		Bools:   append([]bool(nil), bools...),
		Ints:    append([]int32(nil), b.ints...),
		Doubles: append([]float64(nil), b.doubles...),
		Strings: append([]string(nil), b.strings...),
		NA:      na,
	}
}

// Reset clears the builder back to empty, UNKNOWN, keeping its backing
// arrays for reuse by the next batch.
func (b *ColumnBuilder) Reset() {
	b.typ = Unknown
	b.na = b.na[:0]
	b.bools = b.bools[:0]
	b.ints = b.ints[:0]
	b.doubles = b.doubles[:0]
	b.strings = b.strings[:0]
}

func boolToInt(v bool) int32 {
	if v {
		return 1
	}
	return 0
}

func boolToFloat(v bool) float64 {
	if v {
		return 1
	}
	return 0
}

func boolDefaultText(v bool) string {
	if v {
		return "true"
	}
	return "false"
}

func formatDoubleDefault(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
