package profile

import (
	"sync"

	"go.uber.org/zap"

	"github.com/brandlens/brandlens/internal/domain"
)

// Deduplicator drops profiles whose normalized company name was already
// seen. First seen wins; duplicates are logged and discarded, never
// merged. Safe for concurrent use.
type Deduplicator struct {
	mu     sync.Mutex
	seen   map[string]string // normalized name -> first URL
	logger *zap.Logger
}

// NewDeduplicator creates a deduplicator
func NewDeduplicator(logger *zap.Logger) *Deduplicator {
	return &Deduplicator{
		seen:   make(map[string]string),
		logger: logger,
	}
}

// Keep reports whether the profile survives deduplication and records it.
// Profiles without a company name cannot collide and are always kept.
func (d *Deduplicator) Keep(p *domain.BrandProfile) bool {
	key := p.NormalizedName()
	if key == "" {
		return true
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if first, dup := d.seen[key]; dup {
		d.logger.Info("dropping duplicate brand",
			zap.String("company", p.CompanyName),
			zap.String("url", p.URL),
			zap.String("first_seen", first))
		return false
	}
	d.seen[key] = p.URL
	return true
}

// Dedupe filters a profile slice in order, returning the survivors and
// the number of duplicates dropped. Running it over its own output is a
// no-op.
func Dedupe(profiles []*domain.BrandProfile, logger *zap.Logger) ([]*domain.BrandProfile, int) {
	d := NewDeduplicator(logger)
	out := make([]*domain.BrandProfile, 0, len(profiles))
	dropped := 0
	for _, p := range profiles {
		if d.Keep(p) {
			out = append(out, p)
		} else {
			dropped++
		}
	}
	return out, dropped
}
