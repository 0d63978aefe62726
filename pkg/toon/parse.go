package toon

import (
	"context"
	"io"
	"strings"

	"github.com/shapestone/toon/internal/reader"
	"github.com/shapestone/toon/internal/scanner"
)

// Parse parses a TOON document held entirely in memory and returns its
// value tree. Use Parse for small documents already resident as a
// string, ParseReader for large files or streams.
func Parse(input string, opts ReaderOptions) (Value, []Warning, error) {
	return ParseReader(strings.NewReader(input), opts)
}

// ParseReader parses a TOON document from any io.Reader, reading the input
// in blocks through BufferedReader rather than loading it whole first;
// the returned value tree itself grows with the document.
func ParseReader(r io.Reader, opts ReaderOptions) (Value, []Warning, error) {
	br := reader.NewFromReader(r, opts.BlockSize)
	src := newLineSource(br, scannerOptions(opts), "")
	return parseDocument(src, opts, nil)
}

// ParseFile parses a TOON document from disk, using a memory-mapped
// read where the platform supports it and opts.DisableMmap is false.
func ParseFile(path string, opts ReaderOptions) (Value, []Warning, error) {
	if opts.DisableMmap {
		br, err := reader.Open(path, opts.BlockSize)
		if err != nil {
			return Value{}, nil, &IOError{Path: path, Op: "open", Err: err}
		}
		defer br.Close()
		src := newLineSource(br, scannerOptions(opts), path)
		return parseDocument(src, opts, nil)
	}

	br, cleanup, err := reader.OpenMmap(path)
	if err != nil {
		return Value{}, nil, &IOError{Path: path, Op: "open", Err: err}
	}
	defer cleanup()
	src := newLineSource(br, scannerOptions(opts), path)
	return parseDocument(src, opts, nil)
}

// Validate parses input purely for its side effect of surfacing
// ParseError/ValidationError; on success it returns the warnings that
// would also be produced by Parse, discarding the value tree itself.
func Validate(input string, opts ReaderOptions) ([]Warning, error) {
	return ValidateReader(strings.NewReader(input), opts)
}

// ValidateReader is the streaming counterpart of Validate.
func ValidateReader(r io.Reader, opts ReaderOptions) ([]Warning, error) {
	_, warnings, err := ParseReader(r, opts)
	return warnings, err
}

// ReadTable extracts a typed Table directly from a tabular block in
// input, bypassing the generic Value tree.
func ReadTable(input string, opts ReaderOptions) (*Table, []Warning, error) {
	return ReadTableReader(strings.NewReader(input), opts)
}

// ReadTableReader is the streaming counterpart of ReadTable.
func ReadTableReader(r io.Reader, opts ReaderOptions) (*Table, []Warning, error) {
	br := reader.NewFromReader(r, opts.BlockSize)
	src := newLineSource(br, scannerOptions(opts), "")

	p := newTabularParser(src, opts, nil)
	if err := p.Locate(); err != nil {
		return nil, nil, err
	}
	if err := p.IngestAll(); err != nil {
		return nil, nil, err
	}
	table, err := p.Finalize()
	if err != nil {
		return nil, nil, err
	}
	return table, p.Warnings(), nil
}

// StreamRowsReader locates the tabular block in r and delivers it in
// batches of opts.BatchSize via onBatch, checking ctx for cancellation
// roughly every cancelProbeInterval rows.
func StreamRowsReader(ctx context.Context, r io.Reader, opts ReaderOptions, onBatch func(RowBatch) error) error {
	br := reader.NewFromReader(r, opts.BlockSize)
	src := newLineSource(br, scannerOptions(opts), "")
	return StreamRows(ctx, src, opts, nil, onBatch)
}

// WriteTable encodes a Table as a standalone tabular document (the
// Table-shaped counterpart of Encode).
func WriteTable(t *Table, opts WriterOptions) ([]byte, error) {
	return EncodeTable(t, "", opts)
}

// EncodeTable encodes a Table as a tabular block, optionally nested under
// a single top-level key, via the same tabular-writer path Encode uses
// for a Value carrying uniform-object array data: no separate
// row-of-objects mode is needed.
func EncodeTable(t *Table, key string, opts WriterOptions) ([]byte, error) {
	elems := make([]Value, t.RowCount)
	for row := 0; row < t.RowCount; row++ {
		members := make([]Member, len(t.Columns))
		for i, c := range t.Columns {
			members[i] = Member{Key: c.Name, Value: columnCell(c, row)}
		}
		elems[row] = NewObject(members)
	}

	if key == "" {
		return Encode(NewArray(elems), opts)
	}
	return Encode(NewObject([]Member{{Key: key, Value: NewArray(elems)}}), opts)
}

// columnCell reads row from c as a Value, respecting the NA mask.
func columnCell(c *Column, row int) Value {
	if c.NA[row] {
		return Null()
	}
	switch c.Type {
	case Logical:
		return Bool(c.Bools[row])
	case Integer:
		return Int(c.Ints[row])
	case Double_:
		return Double(c.Doubles[row])
	default:
		return String(c.Strings[row])
	}
}

// StreamWriteOpen opens an incremental tabular writer over w. Close must
// be called to backpatch the row count.
func StreamWriteOpen(w io.WriteSeeker, key string, fields []string, opts WriterOptions) (*StreamWriter, error) {
	return OpenStreamWriter(w, key, fields, opts)
}

// PeekFile classifies a document's shape from disk without a full
// parse: its root type, up to 5 first-seen object keys, and up to
// nLines raw preview lines.
func PeekFile(path string, nLines int, opts ReaderOptions) (PeekResult, error) {
	br, err := reader.Open(path, opts.BlockSize)
	if err != nil {
		return PeekResult{}, &IOError{Path: path, Op: "open", Err: err}
	}
	defer br.Close()
	src := newLineSource(br, scannerOptions(opts), path)
	return NewPeeker(src, nLines).Peek()
}

// Peek classifies an in-memory document's shape without a full parse.
func Peek(input string, nLines int, opts ReaderOptions) (PeekResult, error) {
	br := reader.NewFromReader(strings.NewReader(input), opts.BlockSize)
	src := newLineSource(br, scannerOptions(opts), "")
	return NewPeeker(src, nLines).Peek()
}

// InfoFile reports a document-wide structural summary from disk:
// array/object counts, whether a tabular block is present, and its
// declared row count if any.
func InfoFile(path string, opts ReaderOptions) (DocumentInfo, error) {
	br, err := reader.Open(path, opts.BlockSize)
	if err != nil {
		return DocumentInfo{}, &IOError{Path: path, Op: "open", Err: err}
	}
	defer br.Close()
	src := newLineSource(br, scannerOptions(opts), path)
	return Info(src, opts)
}

// InfoReader reports the same document-wide structural summary as
// InfoFile, from any io.Reader.
func InfoReader(r io.Reader, opts ReaderOptions) (DocumentInfo, error) {
	br := reader.NewFromReader(r, opts.BlockSize)
	src := newLineSource(br, scannerOptions(opts), "")
	return Info(src, opts)
}

func scannerOptions(opts ReaderOptions) scanner.Options {
	return scanner.Options{Strict: opts.Strict, AllowComments: opts.AllowComments}
}
