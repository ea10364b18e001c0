package id

import (
	"errors"
	"strings"
	"testing"
)

type failingGenerator struct{}

func (failingGenerator) NewID() (string, error) { return "", errors.New("no entropy") }

func TestRandomGenerator_NewID(t *testing.T) {
	t.Parallel()

	g := NewRandomGenerator()
	first, err := g.NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	second, _ := g.NewID()
	if len(first) != 2*defaultRequestIDBytes {
		t.Fatalf("expected %d hex chars, got %q", 2*defaultRequestIDBytes, first)
	}
	if first == second {
		t.Fatalf("expected distinct ids, got %q twice", first)
	}
}

func TestNewOrFallback(t *testing.T) {
	t.Parallel()

	if got := NewOrFallback(failingGenerator{}); !strings.HasPrefix(got, "t") {
		t.Fatalf("expected clock fallback, got %q", got)
	}
	if got := NewOrFallback(nil); got == "" {
		t.Fatalf("expected fallback id for nil generator")
	}
	if got := NewOrFallback(NewRandomGenerator()); strings.HasPrefix(got, "t") && len(got) != 2*defaultRequestIDBytes {
		t.Fatalf("unexpected id %q", got)
	}
}
