// Package reader implements zero-copy line iteration over a TOON source,
// with CRLF normalisation and cross-buffer line reassembly.
//
// Data is consumed in fixed-size blocks, and a line that spans two
// blocks is reassembled into a small heap scratch buffer rather than
// forcing the whole file into memory.
package reader

import (
	"io"
	"os"

	"go4.org/mem"
)

// DefaultBlockSize is the block size used when none is configured.
const DefaultBlockSize = 4 * 1024 * 1024 // 4 MiB

// BufferedReader reads lines from an underlying byte source one at a time.
// The mem.RO returned by Next is only valid until the following call to
// Next.
type BufferedReader struct {
	src       io.Reader
	closer    io.Closer
	blockSize int

	buf        []byte
	start, end int // buf[start:end] holds unconsumed bytes read so far
	readEOF    bool

	scratch []byte // reused heap buffer for lines that span two blocks
	lineNo  int
	err     error
}

// Open opens path for reading. The error is returned rather than
// panicking; callers must check it before using the reader.
func Open(path string, blockSize int) (*BufferedReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r := NewFromReader(f, blockSize)
	r.closer = f
	return r, nil
}

// Wrap constructs a BufferedReader over a borrowed in-memory byte range.
// The slice is never copied: the whole range is already resident, so
// the block refill and reassembly path never runs and blockSize has no
// effect on how lines are returned.
func Wrap(data []byte, blockSize int) *BufferedReader {
	r := NewFromReader(nil, blockSize)
	r.buf = data
	r.start = 0
	r.end = len(data)
	r.readEOF = true
	return r
}

// NewFromReader constructs a BufferedReader that pulls blocks from src.
func NewFromReader(src io.Reader, blockSize int) *BufferedReader {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	return &BufferedReader{
		src:       src,
		blockSize: blockSize,
		buf:       make([]byte, 0, blockSize),
	}
}

// Close releases the underlying file handle, if any. Safe to call on a
// reader constructed with Wrap.
func (r *BufferedReader) Close() error {
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}

// Err returns the first error encountered by Next, if any.
func (r *BufferedReader) Err() error { return r.err }

// Next returns the next line (with any trailing \r stripped) and its
// 1-indexed line number. ok is false at EOF or on error; check Err to
// distinguish the two.
func (r *BufferedReader) Next() (line mem.RO, lineNo int, ok bool) {
	if r.err != nil {
		return mem.RO{}, 0, false
	}

	for {
		if idx := indexByte(r.buf[r.start:r.end], '\n'); idx >= 0 {
			raw := r.buf[r.start : r.start+idx]
			r.start += idx + 1
			r.lineNo++
			return mem.B(trimCR(raw)), r.lineNo, true
		}

		if r.readEOF {
			if r.start < r.end {
				raw := r.buf[r.start:r.end]
				r.start = r.end
				r.lineNo++
				return mem.B(trimCR(raw)), r.lineNo, true
			}
			return mem.RO{}, 0, false
		}

		if err := r.fill(); err != nil {
			r.err = err
			return mem.RO{}, 0, false
		}
	}
}

// fill reassembles any unconsumed tail into scratch and reads the next
// block from src, appending to scratch so a line split across the
// boundary becomes contiguous.
func (r *BufferedReader) fill() error {
	tail := r.buf[r.start:r.end]
	r.scratch = append(r.scratch[:0], tail...)

	block := make([]byte, r.blockSize)
	n, err := r.src.Read(block)
	if n > 0 {
		r.scratch = append(r.scratch, block[:n]...)
	}
	if err == io.EOF {
		r.readEOF = true
	} else if err != nil {
		return err
	}

	r.buf = r.scratch
	r.start = 0
	r.end = len(r.scratch)
	return nil
}

func trimCR(b []byte) []byte {
	if n := len(b); n > 0 && b[n-1] == '\r' {
		return b[:n-1]
	}
	return b
}

func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}
	return -1
}
