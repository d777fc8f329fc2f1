package profile

import (
	"testing"

	"go.uber.org/zap"

	"github.com/brandlens/brandlens/internal/domain"
)

func named(name, url string) *domain.BrandProfile {
	return &domain.BrandProfile{CompanyName: name, URL: url}
}

func TestDedupe_FirstSeenWins(t *testing.T) {
	profiles := []*domain.BrandProfile{
		named("Acme", "https://acme.example"),
		named("Globex", "https://globex.example"),
		named("acme", "https://acme-mirror.example"),
		named("ACME  ", "https://acme-eu.example"),
	}

	out, dropped := Dedupe(profiles, zap.NewNop())
	if len(out) != 2 {
		t.Fatalf("expected 2 survivors, got %d", len(out))
	}
	if dropped != 2 {
		t.Errorf("dropped = %d, want 2", dropped)
	}
	if out[0].URL != "https://acme.example" {
		t.Errorf("first seen must win, got %s", out[0].URL)
	}
	if out[1].CompanyName != "Globex" {
		t.Errorf("out[1] = %s", out[1].CompanyName)
	}
}

func TestDedupe_WhitespaceNormalized(t *testing.T) {
	profiles := []*domain.BrandProfile{
		named("Acme Corp", "https://a.example"),
		named("acme   corp", "https://b.example"),
	}

	out, _ := Dedupe(profiles, zap.NewNop())
	if len(out) != 1 {
		t.Fatalf("expected 1 survivor, got %d", len(out))
	}
}

func TestDedupe_UnnamedProfilesAlwaysKept(t *testing.T) {
	profiles := []*domain.BrandProfile{
		named("", "https://a.example"),
		named("", "https://b.example"),
	}

	out, dropped := Dedupe(profiles, zap.NewNop())
	if len(out) != 2 || dropped != 0 {
		t.Errorf("unnamed profiles must not collide: survivors=%d dropped=%d", len(out), dropped)
	}
}

func TestDedupe_Idempotent(t *testing.T) {
	profiles := []*domain.BrandProfile{
		named("Acme", "https://acme.example"),
		named("Acme", "https://acme2.example"),
		named("Globex", "https://globex.example"),
	}

	once, _ := Dedupe(profiles, zap.NewNop())
	twice, dropped := Dedupe(once, zap.NewNop())

	if dropped != 0 {
		t.Errorf("second pass dropped %d, want 0", dropped)
	}
	if len(twice) != len(once) {
		t.Errorf("second pass changed the set: %d != %d", len(twice), len(once))
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Errorf("order changed at %d", i)
		}
	}
}

func TestDeduplicator_Keep(t *testing.T) {
	d := NewDeduplicator(zap.NewNop())

	if !d.Keep(named("Acme", "https://acme.example")) {
		t.Error("first occurrence should be kept")
	}
	if d.Keep(named("ACME", "https://other.example")) {
		t.Error("case-variant duplicate should be dropped")
	}
	if !d.Keep(named("Globex", "https://globex.example")) {
		t.Error("distinct name should be kept")
	}
}
