package toon

import "fmt"

// ColumnType is a value in a 5-state type lattice:
// UNKNOWN ⊑ LOGICAL ⊑ INTEGER ⊑ DOUBLE ⊑ STRING, ordered so that join()
// can be a simple max over a promotion-only lattice.
type ColumnType int

const (
	Unknown ColumnType = iota
	Logical
	Integer
	Double_
	String_
)

func (t ColumnType) String() string {
	switch t {
	case Unknown:
		return "UNKNOWN"
	case Logical:
		return "LOGICAL"
	case Integer:
		return "INTEGER"
	case Double_:
		return "DOUBLE"
	case String_:
		return "STRING"
	default:
		return fmt.Sprintf("ColumnType(%d)", int(t))
	}
}

// ParseColumnType maps a col_types option string
// ("LOGICAL"|"INTEGER"|"DOUBLE"|"STRING") to a ColumnType.
func ParseColumnType(s string) (ColumnType, bool) {
	switch s {
	case "LOGICAL":
		return Logical, true
	case "INTEGER":
		return Integer, true
	case "DOUBLE":
		return Double_, true
	case "STRING":
		return String_, true
	default:
		return Unknown, false
	}
}

// join returns the least upper bound of two column types under the
// lattice UNKNOWN ⊑ LOGICAL ⊑ INTEGER ⊑ DOUBLE ⊑ STRING. The chain is
// total, so join is simply the larger ordinal.
func join(a, b ColumnType) ColumnType {
	if a > b {
		return a
	}
	return b
}
