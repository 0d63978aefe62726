package toon_test

import (
	"strings"
	"testing"

	"github.com/shapestone/toon/pkg/toon"
)

func TestPeekTabularArray(t *testing.T) {
	src := "t:\n  [2]{a,b}:\n    1,2\n    3,4\n"
	res, err := toon.Peek(src, 5, toon.DefaultReaderOptions())
	if err != nil {
		t.Fatal(err)
	}
	if res.Type != "object" {
		t.Fatalf("expected root type object (a key wraps the table), got %q", res.Type)
	}
	if len(res.FirstKeys) != 1 || res.FirstKeys[0] != "t" {
		t.Fatalf("expected first_keys=[t], got %v", res.FirstKeys)
	}
	if len(res.PreviewLines) != 4 {
		t.Fatalf("expected 4 preview lines, got %d: %v", len(res.PreviewLines), res.PreviewLines)
	}
}

func TestPeekBareTabularArray(t *testing.T) {
	src := "[2]{a,b}:\n  1,2\n  3,4\n"
	res, err := toon.Peek(src, 2, toon.DefaultReaderOptions())
	if err != nil {
		t.Fatal(err)
	}
	if res.Type != "tabular_array" {
		t.Fatalf("expected tabular_array, got %q", res.Type)
	}
	if len(res.PreviewLines) != 2 {
		t.Fatalf("expected preview capped at n_lines=2, got %d", len(res.PreviewLines))
	}
}

func TestPeekObjectFirstKeysCapped(t *testing.T) {
	src := "a: 1\nb: 2\nc: 3\nd: 4\ne: 5\nf: 6\n"
	res, err := toon.Peek(src, 10, toon.DefaultReaderOptions())
	if err != nil {
		t.Fatal(err)
	}
	if res.Type != "object" {
		t.Fatalf("expected object, got %q", res.Type)
	}
	if len(res.FirstKeys) != 5 {
		t.Fatalf("expected first_keys capped at 5, got %v", res.FirstKeys)
	}
}

func TestPeekEmptyDocumentIsUnknown(t *testing.T) {
	res, err := toon.Peek("", 5, toon.DefaultReaderOptions())
	if err != nil {
		t.Fatal(err)
	}
	if res.Type != "unknown" {
		t.Fatalf("expected unknown for an empty document, got %q", res.Type)
	}
}

func TestInfoReaderCountsAndDetectsTabular(t *testing.T) {
	src := "items:\n  [2]{a,b}:\n    1,2\n    3,4\nmeta:\n  owner: bob\ntags:\n  - x\n  - y\n"
	info, err := toon.InfoReader(strings.NewReader(src), toon.DefaultReaderOptions())
	if err != nil {
		t.Fatal(err)
	}
	if !info.HasTabular {
		t.Fatal("expected has_tabular=true")
	}
	if !info.HasDeclaredRows || info.DeclaredRows != 2 {
		t.Fatalf("expected declared_rows=2, got %d (has=%v)", info.DeclaredRows, info.HasDeclaredRows)
	}
	if info.ArrayCount != 2 {
		t.Fatalf("expected 2 arrays (items table, tags list), got %d", info.ArrayCount)
	}
	if info.ObjectCount != 2 {
		t.Fatalf("expected 2 objects (root, meta), got %d", info.ObjectCount)
	}
}

func TestInfoReaderNoTabularHasNoDeclaredRows(t *testing.T) {
	src := "name: alice\ntags:\n  - x\n  - y\n"
	info, err := toon.InfoReader(strings.NewReader(src), toon.DefaultReaderOptions())
	if err != nil {
		t.Fatal(err)
	}
	if info.HasTabular {
		t.Fatal("expected has_tabular=false")
	}
	if info.HasDeclaredRows {
		t.Fatalf("expected no declared_rows, got %d", info.DeclaredRows)
	}
}
