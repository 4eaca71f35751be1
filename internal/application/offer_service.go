package application

import (
	"context"
	"fmt"

	offerDomain "github.com/adoptly/service-adoption/internal/domain/offer"
	"go.uber.org/zap"
)

// OfferDTO is an offer document as stored.
type OfferDTO map[string]interface{}

// OfferService lists offers.
type OfferService struct {
	repo   offerDomain.OfferRepository
	logger *zap.Logger
}

// NewOfferService creates a new OfferService.
func NewOfferService(repo offerDomain.OfferRepository, logger *zap.Logger) *OfferService {
	return &OfferService{repo: repo, logger: logger}
}

// ListOffers returns every stored offer.
func (s *OfferService) ListOffers(ctx context.Context) ([]OfferDTO, error) {
	offers, err := s.repo.ListAll(ctx)
	if err != nil {
		s.logger.Error("failed to list offers", zap.Error(err))
		return nil, fmt.Errorf("failed to list offers: %w", err)
	}
	dtos := make([]OfferDTO, len(offers))
	for i, o := range offers {
		dtos[i] = OfferDTO(o)
	}
	return dtos, nil
}
