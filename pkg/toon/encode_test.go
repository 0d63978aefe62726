package toon_test

import (
	"strings"
	"testing"

	"github.com/shapestone/toon/pkg/toon"
)

func TestEncodeScalarFlatObject(t *testing.T) {
	v := toon.NewObject([]toon.Member{
		{Key: "name", Value: toon.String("Alice")},
		{Key: "age", Value: toon.Int(30)},
	})
	out, err := toon.Encode(v, toon.DefaultWriterOptions())
	if err != nil {
		t.Fatal(err)
	}
	text := string(out)
	if !strings.Contains(text, `name: "Alice"`) {
		t.Errorf("missing name line: %q", text)
	}
	if !strings.Contains(text, "age: 30") {
		t.Errorf("missing age line: %q", text)
	}
}

func TestEncodeDoubleTrailingZero(t *testing.T) {
	v := toon.Double(5)
	out, err := toon.Encode(v, toon.DefaultWriterOptions())
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(out)) != "5.0" {
		t.Errorf("got %q, want \"5.0\"", out)
	}
}

func TestEncodeStrictRejectsNonFiniteDouble(t *testing.T) {
	opts := toon.DefaultWriterOptions()
	opts.Strict = true
	if _, err := toon.Encode(toon.Double(computeNaN()), opts); err == nil {
		t.Fatal("expected an EncodingError for NaN under strict mode")
	}
}

func TestEncodeNonStrictRendersNonFiniteAsNull(t *testing.T) {
	nan := computeNaN()
	opts := toon.DefaultWriterOptions()
	opts.Strict = false
	out, err := toon.Encode(toon.Double(nan), opts)
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(out)) != "null" {
		t.Errorf("got %q, want \"null\"", out)
	}
}

func computeNaN() float64 {
	var zero float64
	return zero / zero
}

func TestEncodeCanonicalSortsKeys(t *testing.T) {
	v := toon.NewObject([]toon.Member{
		{Key: "zeta", Value: toon.Int(1)},
		{Key: "alpha", Value: toon.Int(2)},
	})
	opts := toon.DefaultWriterOptions()
	opts.Canonical = true
	out, err := toon.Encode(v, opts)
	if err != nil {
		t.Fatal(err)
	}
	text := string(out)
	if strings.Index(text, "alpha") > strings.Index(text, "zeta") {
		t.Errorf("expected alpha before zeta in canonical order, got %q", text)
	}
}

func TestEncodeTabularArrayRoundTrips(t *testing.T) {
	rows := toon.NewArray([]toon.Value{
		toon.NewObject([]toon.Member{{Key: "id", Value: toon.Int(1)}, {Key: "name", Value: toon.String("Alice")}}),
		toon.NewObject([]toon.Member{{Key: "id", Value: toon.Int(2)}, {Key: "name", Value: toon.String("Bob")}}),
	})
	out, err := toon.Encode(rows, toon.DefaultWriterOptions())
	if err != nil {
		t.Fatal(err)
	}

	reparsed, _, err := toon.Parse(string(out), toon.DefaultReaderOptions())
	if err != nil {
		t.Fatalf("round-trip parse failed on:\n%s\nerr: %v", out, err)
	}
	if reparsed.Kind != toon.KindArray || len(reparsed.Array) != 2 {
		t.Fatalf("round-trip mismatch: %+v", reparsed)
	}
	name, ok := reparsed.Array[1].Get("name")
	if !ok || name.Text != "Bob" {
		t.Fatalf("round-trip row1 name = %+v", name)
	}
}

func TestEncodeKeyedArrayRoundTrips(t *testing.T) {
	doc := toon.NewObject([]toon.Member{
		{Key: "items", Value: toon.NewArray([]toon.Value{toon.Int(1), toon.Int(2), toon.Int(3)})},
	})
	out, err := toon.Encode(doc, toon.DefaultWriterOptions())
	if err != nil {
		t.Fatal(err)
	}

	reparsed, _, err := toon.Parse(string(out), toon.DefaultReaderOptions())
	if err != nil {
		t.Fatalf("round-trip parse failed on:\n%s\nerr: %v", out, err)
	}
	items, ok := reparsed.Get("items")
	if !ok || len(items.Array) != 3 {
		t.Fatalf("round-trip items = %+v, ok=%v", items, ok)
	}
}

func TestEncodeEmptyArrayRoundTrips(t *testing.T) {
	doc := toon.NewObject([]toon.Member{
		{Key: "items", Value: toon.NewArray(nil)},
	})
	out, err := toon.Encode(doc, toon.DefaultWriterOptions())
	if err != nil {
		t.Fatal(err)
	}
	reparsed, _, err := toon.Parse(string(out), toon.DefaultReaderOptions())
	if err != nil {
		t.Fatalf("round-trip parse failed on:\n%s\nerr: %v", out, err)
	}
	items, ok := reparsed.Get("items")
	if !ok || items.Kind != toon.KindArray || len(items.Array) != 0 {
		t.Fatalf("round-trip items = %+v, ok=%v", items, ok)
	}
}

func TestNeedsKeyQuotingReservedWords(t *testing.T) {
	v := toon.NewObject([]toon.Member{{Key: "true", Value: toon.Int(1)}})
	out, err := toon.Encode(v, toon.DefaultWriterOptions())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), `"true":`) {
		t.Errorf("expected the reserved-word key to be quoted, got %q", out)
	}
}

func TestEncodeSimplifyOmitsDeclaredCount(t *testing.T) {
	v := toon.NewArray([]toon.Value{toon.Int(1), toon.Int(2), toon.Int(3)})

	opts := toon.DefaultWriterOptions()
	out, err := toon.Encode(v, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), "[3]:") {
		t.Fatalf("expected declared count by default, got %q", out)
	}

	opts.Simplify = true
	out, err = toon.Encode(v, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), "[]:") {
		t.Fatalf("expected simplified header with no count, got %q", out)
	}

	reparsed, _, err := toon.Parse(string(out), toon.DefaultReaderOptions())
	if err != nil {
		t.Fatalf("round-trip parse failed on:\n%s\nerr: %v", out, err)
	}
	if reparsed.Kind != toon.KindArray || len(reparsed.Array) != 3 {
		t.Fatalf("round-trip array = %+v", reparsed)
	}
}

func TestEncodeSimplifyOmitsTableDeclaredCount(t *testing.T) {
	v := toon.NewArray([]toon.Value{
		toon.NewObject([]toon.Member{{Key: "a", Value: toon.Int(1)}, {Key: "b", Value: toon.Int(2)}}),
		toon.NewObject([]toon.Member{{Key: "a", Value: toon.Int(3)}, {Key: "b", Value: toon.Int(4)}}),
	})

	opts := toon.DefaultWriterOptions()
	opts.Simplify = true
	out, err := toon.Encode(v, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), "[]{a,b}:") {
		t.Fatalf("expected simplified tabular header, got %q", out)
	}
}
