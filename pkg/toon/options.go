package toon

import "math"

// NAIntSentinel is the reserved 32-bit integer value used by the host's
// integer column to represent NA. A textual integer literal equal to
// this exact value is parsed as a Double instead of an Int so it never
// collides with a real NA marker downstream.
const NAIntSentinel int32 = math.MinInt32

// ReaderOptions configures parsing behaviour, following a plain-struct
// pattern with a defaults constructor.
type ReaderOptions struct {
	// Strict rejects TAB indentation, NaN/Inf doubles, and a ListItem
	// inline value that fails the primitive scan.
	Strict bool
	// AllowComments enables "#" and "//" line and trailing comments.
	AllowComments bool
	// AllowDuplicateKeys makes a repeated object key overwrite
	// (last-wins) instead of failing the parse.
	AllowDuplicateKeys bool
	// Warn enables warning collection for n_mismatch/ragged_rows/
	// duplicate_key anomalies; when false, anomalies are silently
	// tolerated wherever the policy is PolicyWarn.
	Warn bool
	// ColTypes overrides inferred column types by field name, applied
	// via ColumnBuilder.ForceType before the first row is ingested.
	ColTypes map[string]ColumnType
	// RaggedRows selects the ragged-row policy for TabularParser/RowStreamer.
	RaggedRows MismatchPolicy
	// NMismatch selects the declared-vs-observed row count policy.
	NMismatch MismatchPolicy
	// MaxExtraCols caps the number of synthesised V<k> columns from
	// ragged-row expansion. A negative value means unbounded.
	MaxExtraCols int
	// Key, if non-empty, names the object key under which the tabular
	// header is located.
	Key string
	// BatchSize is the row count RowStreamer flushes per batch.
	BatchSize int
	// BlockSize overrides BufferedReader's read block size; 0 selects
	// the 4 MiB default.
	BlockSize int
	// DisableMmap forces ParseFile to read through BufferedReader's
	// block scanning instead of memory-mapping the file. Useful on
	// filesystems where mmap is unreliable (some network mounts) or
	// when block-by-block reads are wanted for a bounded memory test.
	DisableMmap bool
}

// DefaultReaderOptions returns the default parsing configuration.
func DefaultReaderOptions() ReaderOptions {
	return ReaderOptions{
		Strict:       true,
		RaggedRows:   PolicyWarn,
		NMismatch:    PolicyWarn,
		MaxExtraCols: -1,
		BatchSize:    1000,
	}
}

// WriterOptions configures TOON emission.
type WriterOptions struct {
	// Pretty enables indentation and LF line termination. When false,
	// output is minimised to the mandatory separators.
	Pretty bool
	// Indent is the number of spaces per depth level in pretty mode.
	Indent int
	// Canonical sorts object entries by byte-lexicographic key order.
	Canonical bool
	// Strict fails encoding of non-finite doubles instead of emitting
	// "null".
	Strict bool
	// Simplify permits the encoder to drop declared row counts it can
	// re-derive from the array/table length (an ambient convenience,
	// off by default so round-tripping is exact).
	Simplify bool
}

// DefaultWriterOptions returns the default emission configuration.
func DefaultWriterOptions() WriterOptions {
	return WriterOptions{
		Pretty: true,
		Indent: 2,
		Strict: true,
	}
}
