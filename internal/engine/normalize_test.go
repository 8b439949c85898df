package engine

import (
	"testing"
)

func TestNormalizeKeepsObjectHeadersVisible(t *testing.T) {
	data := validTemplate()
	e := testEngine()
	if got := e.Parse(data); len(got) != 1 {
		t.Fatalf("Parse(fixture) returned %d placeholders, want 1", len(got))
	}

	norm, err := Normalize(data)
	if err != nil {
		t.Fatalf("Normalize() error: %v", err)
	}

	// The re-saved document must still index through the byte-pattern
	// path: pages packed into object streams would vanish here.
	doc := IndexDocument(norm)
	if got := doc.PageCount(); got != 1 {
		t.Fatalf("PageCount() after normalize = %d, want 1", got)
	}

	got := e.Parse(norm)
	if len(got) != 1 {
		t.Fatalf("Parse(normalized) returned %d placeholders, want 1", len(got))
	}
	p := got[0]
	if p.Type != TypeSignature || p.Role != "signer1" {
		t.Errorf("placeholder = %+v", p)
	}
	if p.PageNumber != 1 || !almostEqual(p.X, 50) || !almostEqual(p.Y, 700) {
		t.Errorf("position = page %d (%v, %v), want page 1 (50, 700)", p.PageNumber, p.X, p.Y)
	}
}

func TestNormalizeIdempotentForParse(t *testing.T) {
	e := testEngine()

	norm1, err := Normalize(validTemplate())
	if err != nil {
		t.Fatalf("Normalize() error: %v", err)
	}
	norm2, err := Normalize(norm1)
	if err != nil {
		t.Fatalf("second Normalize() error: %v", err)
	}

	first := e.Parse(norm1)
	second := e.Parse(norm2)
	if len(first) != 1 || len(second) != len(first) {
		t.Fatalf("placeholder counts: %d then %d, want 1 and 1", len(first), len(second))
	}
	if first[0] != second[0] {
		t.Errorf("placeholder changed across normalizations: %+v -> %+v", first[0], second[0])
	}
}

func TestInspectValidDocument(t *testing.T) {
	info, err := Inspect(validTemplate())
	if err != nil {
		t.Fatalf("Inspect() error: %v", err)
	}
	if info.Pages != 1 {
		t.Errorf("Pages = %d, want 1", info.Pages)
	}
	if info.Version == "" {
		t.Error("Version is empty")
	}
}
