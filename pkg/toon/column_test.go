package toon_test

import (
	"testing"

	"github.com/shapestone/toon/pkg/toon"
)

func TestColumnBuilderPromotion(t *testing.T) {
	t.Run("logical to integer to double to string", func(t *testing.T) {
		b := toon.NewColumnBuilder("v")
		if err := b.Set(0, "true", true); err != nil {
			t.Fatal(err)
		}
		if b.Type() != toon.Logical {
			t.Fatalf("expected LOGICAL, got %v", b.Type())
		}

		if err := b.Set(1, "5", true); err != nil {
			t.Fatal(err)
		}
		if b.Type() != toon.Integer {
			t.Fatalf("expected INTEGER, got %v", b.Type())
		}

		if err := b.Set(2, "2.5", true); err != nil {
			t.Fatal(err)
		}
		if b.Type() != toon.Double_ {
			t.Fatalf("expected DOUBLE, got %v", b.Type())
		}

		if err := b.Set(3, "\"hello\"", true); err != nil {
			t.Fatal(err)
		}
		if b.Type() != toon.String_ {
			t.Fatalf("expected STRING, got %v", b.Type())
		}

		col := b.Finalize()
		if col.Type != toon.String_ {
			t.Fatalf("expected finalised STRING, got %v", col.Type)
		}
		// Row 0 was widened true -> 1 on the LOGICAL -> INTEGER step, so it
		// renders as "1" once the column reaches STRING.
		want := []string{"1", "5", "2.5", "hello"}
		for i, w := range want {
			if col.NA[i] {
				t.Fatalf("row %d unexpectedly NA", i)
			}
			if col.Strings[i] != w {
				t.Fatalf("row %d: got %q, want %q", i, col.Strings[i], w)
			}
		}
	})

	t.Run("null never forces a type decision", func(t *testing.T) {
		b := toon.NewColumnBuilder("v")
		b.SetNull(0)
		b.SetNull(1)
		if b.Type() != toon.Unknown {
			t.Fatalf("expected UNKNOWN, got %v", b.Type())
		}
		col := b.Finalize()
		if col.Type != toon.Logical {
			t.Fatalf("an all-NA column should default to LOGICAL, got %v", col.Type)
		}
		if !col.NA[0] || !col.NA[1] {
			t.Fatal("both rows should be NA")
		}
	})

	t.Run("NA preserved through promotion", func(t *testing.T) {
		b := toon.NewColumnBuilder("v")
		if err := b.Set(0, "true", true); err != nil {
			t.Fatal(err)
		}
		b.SetNull(1)
		if err := b.Set(2, "3.14", true); err != nil {
			t.Fatal(err)
		}
		col := b.Finalize()
		if col.Type != toon.Double_ {
			t.Fatalf("expected DOUBLE, got %v", col.Type)
		}
		if col.NA[0] || col.NA[2] {
			t.Fatal("rows 0 and 2 should not be NA")
		}
		if !col.NA[1] {
			t.Fatal("row 1 should still be NA after promotion")
		}
		if col.Doubles[0] != 1.0 {
			t.Fatalf("true should widen to 1.0, got %v", col.Doubles[0])
		}
	})

	t.Run("unquoted fallback to string", func(t *testing.T) {
		b := toon.NewColumnBuilder("v")
		if err := b.Set(0, "not-a-literal", true); err != nil {
			t.Fatal(err)
		}
		if b.Type() != toon.String_ {
			t.Fatalf("expected STRING fallback, got %v", b.Type())
		}
		col := b.Finalize()
		if col.Strings[0] != "not-a-literal" {
			t.Fatalf("got %q", col.Strings[0])
		}
	})

	t.Run("force type widens before ingest", func(t *testing.T) {
		b := toon.NewColumnBuilder("v")
		b.ForceType(toon.Double_)
		if err := b.Set(0, "5", true); err != nil {
			t.Fatal(err)
		}
		col := b.Finalize()
		if col.Type != toon.Double_ {
			t.Fatalf("expected DOUBLE, got %v", col.Type)
		}
		if col.Doubles[0] != 5 {
			t.Fatalf("got %v", col.Doubles[0])
		}
	})
}
