package toon_test

import (
	"errors"
	"io"
	"testing"

	"github.com/shapestone/toon/pkg/toon"
)

// memSeeker is a minimal in-memory io.WriteSeeker backed by a growable
// byte slice, standing in for a seekable file during StreamWriter tests.
type memSeeker struct {
	buf []byte
	pos int64
}

func (m *memSeeker) Write(p []byte) (int, error) {
	end := m.pos + int64(len(p))
	if end > int64(len(m.buf)) {
		grown := make([]byte, end)
		copy(grown, m.buf)
		m.buf = grown
	}
	copy(m.buf[m.pos:end], p)
	m.pos = end
	return len(p), nil
}

func (m *memSeeker) Seek(offset int64, whence int) (int64, error) {
	var base int64
	switch whence {
	case io.SeekStart:
		base = 0
	case io.SeekCurrent:
		base = m.pos
	case io.SeekEnd:
		base = int64(len(m.buf))
	default:
		return 0, errors.New("memSeeker: invalid whence")
	}
	m.pos = base + offset
	if m.pos < 0 {
		return 0, errors.New("memSeeker: negative position")
	}
	return m.pos, nil
}

func TestStreamWriterRoundTrips(t *testing.T) {
	m := &memSeeker{}
	sw, err := toon.StreamWriteOpen(m, "", []string{"id", "name"}, toon.DefaultWriterOptions())
	if err != nil {
		t.Fatal(err)
	}
	rows := [][]toon.Value{
		{toon.Int(1), toon.String("Alice")},
		{toon.Int(2), toon.String("Bob")},
		{toon.Int(3), toon.String("Cara")},
	}
	for _, r := range rows {
		if err := sw.Append(r); err != nil {
			t.Fatal(err)
		}
	}
	if err := sw.Close(); err != nil {
		t.Fatal(err)
	}

	table, _, err := toon.ReadTable(string(m.buf), toon.DefaultReaderOptions())
	if err != nil {
		t.Fatalf("round trip failed on:\n%s\nerr: %v", m.buf, err)
	}
	if table.RowCount != 3 {
		t.Fatalf("expected 3 rows, got %d", table.RowCount)
	}
	name, ok := table.Column("name")
	if !ok || name.Strings[2] != "Cara" {
		t.Fatalf("name column = %+v, ok=%v", name, ok)
	}
}

func TestStreamWriterKeyedRoundTrips(t *testing.T) {
	m := &memSeeker{}
	sw, err := toon.StreamWriteOpen(m, "records", []string{"n"}, toon.DefaultWriterOptions())
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		if err := sw.Append([]toon.Value{toon.Int(int32(i))}); err != nil {
			t.Fatal(err)
		}
	}
	if err := sw.Close(); err != nil {
		t.Fatal(err)
	}

	opts := toon.DefaultReaderOptions()
	opts.Key = "records"
	table, _, err := toon.ReadTable(string(m.buf), opts)
	if err != nil {
		t.Fatalf("round trip failed on:\n%s\nerr: %v", m.buf, err)
	}
	if table.RowCount != 2 {
		t.Fatalf("expected 2 rows, got %d", table.RowCount)
	}
}

func TestStreamWriterAppendAfterCloseErrors(t *testing.T) {
	m := &memSeeker{}
	sw, err := toon.StreamWriteOpen(m, "", []string{"n"}, toon.DefaultWriterOptions())
	if err != nil {
		t.Fatal(err)
	}
	if err := sw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := sw.Append([]toon.Value{toon.Int(1)}); err == nil {
		t.Fatal("expected an error appending after Close")
	}
}
