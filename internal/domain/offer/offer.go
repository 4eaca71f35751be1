package offer

import "context"

// Offer is a homepage promotion document. Offers are seeded outside this
// service with no fixed schema, so the fields are kept as stored.
type Offer map[string]interface{}

// OfferRepository reads offers.
type OfferRepository interface {
	ListAll(ctx context.Context) ([]Offer, error)
}
