// Package writebuf provides a growable byte buffer with a string-escape
// helper, used by the encoder and pooled via sync.Pool the same way a
// CSV marshaler pools its output buffers.
package writebuf

import (
	"sync"

	"go4.org/mem"

	"github.com/shapestone/toon/internal/escape"
)

// Buffer is a growable byte buffer geared toward the encoder's
// line-at-a-time emission: WriteIndent, WriteByte, WriteString and
// WriteQuoted are the only primitives it needs.
type Buffer struct {
	buf []byte
}

// New returns an empty Buffer.
func New() *Buffer { return &Buffer{} }

// Reset empties the buffer while keeping its backing array.
func (b *Buffer) Reset() { b.buf = b.buf[:0] }

// Len reports the number of bytes written so far.
func (b *Buffer) Len() int { return len(b.buf) }

// Bytes returns the accumulated bytes. The slice is invalidated by the
// next write.
func (b *Buffer) Bytes() []byte { return b.buf }

// String returns a copy of the accumulated bytes.
func (b *Buffer) String() string { return string(b.buf) }

// WriteByte appends a single byte.
func (b *Buffer) WriteByte(c byte) { b.buf = append(b.buf, c) }

// WriteString appends s verbatim, with no escaping.
func (b *Buffer) WriteString(s string) { b.buf = append(b.buf, s...) }

// WriteIndent appends depth*width space characters.
func (b *Buffer) WriteIndent(depth, width int) {
	for i := 0; i < depth*width; i++ {
		b.buf = append(b.buf, ' ')
	}
}

// WriteQuoted appends s as a double-quoted TOON string, escaping it.
func (b *Buffer) WriteQuoted(s string) {
	b.buf = append(b.buf, '"')
	b.buf = append(b.buf, escape.Quote(mem.S(s))...)
	b.buf = append(b.buf, '"')
}

var pool = sync.Pool{New: func() any { return New() }}

// Get retrieves a reset Buffer from the shared pool.
func Get() *Buffer {
	buf := pool.Get().(*Buffer)
	buf.Reset()
	return buf
}

// Put returns buf to the shared pool. Buffers with a capacity of 64KiB
// or more are dropped rather than pooled, so one oversized document can't keep the
// pool's steady-state allocations inflated.
func Put(buf *Buffer) {
	if cap(buf.buf) < 64*1024 {
		pool.Put(buf)
	}
}
