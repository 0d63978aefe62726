package toon

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shapestone/toon/internal/writebuf"
)

// placeholderWidth is the fixed digit width reserved for the row count in
// a StreamWriter header. Choosing a fixed width lets Close backpatch just
// those bytes via Seek, avoiding a read-rewrite of the whole output.
const placeholderWidth = 10

// StreamWriter incrementally emits a tabular block to a seekable sink,
// reserving space for the row count and backpatching it once the true
// count is known at Close.
type StreamWriter struct {
	w      io.WriteSeeker
	opts   WriterOptions
	fields []string
	depth  int

	headerOffset int64
	rowCount     int
	closed       bool
}

// OpenStreamWriter writes the object scaffolding down to a tabular
// header with a reserved row-count placeholder, and returns a
// StreamWriter ready to Append rows. If key is non-empty, the table is
// nested under that single top-level key ("key:\n  [..]{...}:\n");
// otherwise the table is the document root.
func OpenStreamWriter(w io.WriteSeeker, key string, fields []string, opts WriterOptions) (*StreamWriter, error) {
	buf := writebuf.Get()
	defer writebuf.Put(buf)

	e := &encoder{buf: buf, opts: opts}
	depth := 0
	if key != "" {
		e.writeKey(key)
		buf.WriteString(":\n")
		depth = 1
	}

	buf.WriteIndent(depth, e.indentWidth())
	buf.WriteByte('[')
	placeholderOffsetInBuf := buf.Len()
	buf.WriteString(strings.Repeat("0", placeholderWidth))
	buf.WriteByte(']')
	buf.WriteString(fieldList(fields))
	buf.WriteString(":\n")

	if _, err := w.Write(buf.Bytes()); err != nil {
		return nil, &IOError{Op: "write", Err: err}
	}

	pos, err := w.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, &IOError{Op: "seek", Err: err}
	}
	headerOffset := pos - int64(buf.Len()) + int64(placeholderOffsetInBuf)

	return &StreamWriter{
		w:            w,
		opts:         opts,
		fields:       fields,
		depth:        depth + 1,
		headerOffset: headerOffset,
	}, nil
}

// Append writes one row, positionally matched against the field list
// supplied to OpenStreamWriter.
func (sw *StreamWriter) Append(row []Value) error {
	if sw.closed {
		return fmt.Errorf("toon: Append called after Close")
	}
	if len(row) != len(sw.fields) {
		return fmt.Errorf("toon: row has %d value(s), header declares %d field(s)", len(row), len(sw.fields))
	}

	buf := writebuf.Get()
	defer writebuf.Put(buf)

	e := &encoder{buf: buf, opts: sw.opts}
	buf.WriteIndent(sw.depth, e.indentWidth())
	for i, v := range row {
		if i > 0 {
			buf.WriteByte(',')
			if sw.opts.Pretty {
				buf.WriteByte(' ')
			}
		}
		if err := e.writeScalar(v); err != nil {
			return err
		}
	}
	buf.WriteByte('\n')

	if _, err := sw.w.Write(buf.Bytes()); err != nil {
		return &IOError{Op: "write", Err: err}
	}
	sw.rowCount++
	return nil
}

// Close backpatches the reserved row-count placeholder with the true
// count and seeks back to the end of the stream.
func (sw *StreamWriter) Close() error {
	if sw.closed {
		return nil
	}
	sw.closed = true

	end, err := sw.w.Seek(0, io.SeekCurrent)
	if err != nil {
		return &IOError{Op: "seek", Err: err}
	}

	digits := strconv.Itoa(sw.rowCount)
	if len(digits) > placeholderWidth {
		return fmt.Errorf("toon: row count %d exceeds the %d-digit reserved header width", sw.rowCount, placeholderWidth)
	}
	digits = strings.Repeat("0", placeholderWidth-len(digits)) + digits

	if _, err := sw.w.Seek(sw.headerOffset, io.SeekStart); err != nil {
		return &IOError{Op: "seek", Err: err}
	}
	if _, err := sw.w.Write([]byte(digits)); err != nil {
		return &IOError{Op: "write", Err: err}
	}
	if _, err := sw.w.Seek(end, io.SeekStart); err != nil {
		return &IOError{Op: "seek", Err: err}
	}
	return nil
}
