package repository

import (
	"context"
	"fmt"

	offerDomain "github.com/adoptly/service-adoption/internal/domain/offer"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const offersCollection = "offers"

// MongoOfferRepository reads the offers collection.
type MongoOfferRepository struct {
	coll *mongo.Collection
}

// NewMongoOfferRepository creates a new MongoOfferRepository.
func NewMongoOfferRepository(db *mongo.Database) *MongoOfferRepository {
	return &MongoOfferRepository{coll: db.Collection(offersCollection)}
}

// ListAll returns every offer document unchanged.
func (r *MongoOfferRepository) ListAll(ctx context.Context) ([]offerDomain.Offer, error) {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list offers: %w", err)
	}
	return decodeOffers(ctx, cursor)
}

func decodeOffers(ctx context.Context, cursor *mongo.Cursor) ([]offerDomain.Offer, error) {
	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode offers: %w", err)
	}

	offers := make([]offerDomain.Offer, len(docs))
	for i, d := range docs {
		offers[i] = offerDomain.Offer(d)
	}
	return offers, nil
}
