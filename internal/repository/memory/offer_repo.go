package memory

import (
	"context"
	"sync"

	offerDomain "github.com/adoptly/service-adoption/internal/domain/offer"
)

// OfferRepository serves a fixed set of offers.
type OfferRepository struct {
	mu     sync.RWMutex
	offers []offerDomain.Offer
}

// NewOfferRepository creates an OfferRepository holding seed.
func NewOfferRepository(seed ...offerDomain.Offer) *OfferRepository {
	return &OfferRepository{offers: append([]offerDomain.Offer(nil), seed...)}
}

// ListAll returns the seeded offers.
func (r *OfferRepository) ListAll(ctx context.Context) ([]offerDomain.Offer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]offerDomain.Offer(nil), r.offers...), nil
}
