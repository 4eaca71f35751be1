package application

import (
	"context"
	"fmt"
	"time"

	"github.com/adoptly/service-adoption/internal/domain"
	petDomain "github.com/adoptly/service-adoption/internal/domain/pet"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// PosterDTO is the snapshot of the user who listed a pet.
type PosterDTO struct {
	UserID    string `json:"userId"`
	UserEmail string `json:"userEmail"`
	UserName  string `json:"userName,omitempty"`
}

// CreatePetInput is the request DTO for listing a pet.
type CreatePetInput struct {
	Name        string         `json:"name"`
	Category    string         `json:"category"`
	Breed       string         `json:"breed"`
	Age         string         `json:"age"`
	Gender      string         `json:"gender"`
	Description string         `json:"description"`
	Image       string         `json:"image"`
	Quantity    *int           `json:"quantity"`
	Address     domain.Address `json:"address"`
	PostedBy    PosterDTO      `json:"postedBy"`
}

// UpdatePetInput is a partial direct edit. adoptedCount and isAdopted are
// not updatable here.
type UpdatePetInput struct {
	Name        *string         `json:"name"`
	Category    *string         `json:"category"`
	Breed       *string         `json:"breed"`
	Age         *string         `json:"age"`
	Gender      *string         `json:"gender"`
	Description *string         `json:"description"`
	Image       *string         `json:"image"`
	Quantity    *int            `json:"quantity"`
	Address     *domain.Address `json:"address"`
}

// PetListFilter holds the optional query filters of GET /pets.
type PetListFilter struct {
	Category  string
	IsAdopted *bool
}

// PetDTO is the API response representation of a pet listing.
type PetDTO struct {
	ID           string         `json:"_id"`
	Name         string         `json:"name"`
	Category     string         `json:"category,omitempty"`
	Breed        string         `json:"breed,omitempty"`
	Age          string         `json:"age,omitempty"`
	Gender       string         `json:"gender,omitempty"`
	Description  string         `json:"description,omitempty"`
	Image        string         `json:"image,omitempty"`
	Quantity     int            `json:"quantity"`
	AdoptedCount int            `json:"adoptedCount"`
	IsAdopted    bool           `json:"isAdopted"`
	Address      domain.Address `json:"address"`
	PostedBy     PosterDTO      `json:"postedBy"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// PetService implements use cases for pet listings.
type PetService struct {
	repo   petDomain.PetRepository
	logger *zap.Logger
}

// NewPetService creates a new PetService.
func NewPetService(repo petDomain.PetRepository, logger *zap.Logger) *PetService {
	return &PetService{repo: repo, logger: logger}
}

// CreatePet lists a new pet.
func (s *PetService) CreatePet(ctx context.Context, in CreatePetInput) (*PetDTO, error) {
	quantity := petDomain.DefaultQuantity
	if in.Quantity != nil {
		quantity = *in.Quantity
	}

	p, err := petDomain.NewPet(
		petDomain.Profile{
			Name:        in.Name,
			Category:    in.Category,
			Breed:       in.Breed,
			Age:         in.Age,
			Gender:      in.Gender,
			Description: in.Description,
			Image:       in.Image,
		},
		quantity,
		in.Address,
		petDomain.Poster{
			UserID:    in.PostedBy.UserID,
			UserEmail: in.PostedBy.UserEmail,
			UserName:  in.PostedBy.UserName,
		},
	)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, p); err != nil {
		s.logger.Error("failed to create pet", zap.Error(err))
		return nil, fmt.Errorf("failed to create pet: %w", err)
	}

	s.logger.Info("pet listed",
		zap.String("pet_id", p.ID().Hex()),
		zap.Int("quantity", p.Quantity()),
	)
	result := toPetDTO(p)
	return &result, nil
}

// ListPets returns listings matching filter, newest first.
func (s *PetService) ListPets(ctx context.Context, filter PetListFilter) ([]PetDTO, error) {
	pets, err := s.repo.List(ctx, petDomain.ListFilter{
		Category:  filter.Category,
		IsAdopted: filter.IsAdopted,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list pets: %w", err)
	}
	dtos := make([]PetDTO, len(pets))
	for i, p := range pets {
		dtos[i] = toPetDTO(p)
	}
	return dtos, nil
}

// GetPet returns a single listing.
func (s *PetService) GetPet(ctx context.Context, id primitive.ObjectID) (*PetDTO, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	result := toPetDTO(p)
	return &result, nil
}

// UpdatePet applies a direct edit. isAdopted is left as stored.
func (s *PetService) UpdatePet(ctx context.Context, id primitive.ObjectID, in UpdatePetInput) (*PetDTO, error) {
	changes := petDomain.Changes{
		Name:        in.Name,
		Category:    in.Category,
		Breed:       in.Breed,
		Age:         in.Age,
		Gender:      in.Gender,
		Description: in.Description,
		Image:       in.Image,
		Quantity:    in.Quantity,
		Address:     in.Address,
	}
	if err := changes.Validate(); err != nil {
		return nil, err
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	p.Update(changes)
	if err := s.repo.Update(ctx, p); err != nil {
		s.logger.Error("failed to update pet", zap.String("pet_id", id.Hex()), zap.Error(err))
		return nil, err
	}

	s.logger.Info("pet updated", zap.String("pet_id", id.Hex()))
	result := toPetDTO(p)
	return &result, nil
}

// DeletePet removes a listing. Requests that reference it are left in place.
func (s *PetService) DeletePet(ctx context.Context, id primitive.ObjectID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("pet deleted", zap.String("pet_id", id.Hex()))
	return nil
}

func toPetDTO(p *petDomain.Pet) PetDTO {
	profile := p.Profile()
	poster := p.PostedBy()
	return PetDTO{
		ID:           p.ID().Hex(),
		Name:         profile.Name,
		Category:     profile.Category,
		Breed:        profile.Breed,
		Age:          profile.Age,
		Gender:       profile.Gender,
		Description:  profile.Description,
		Image:        profile.Image,
		Quantity:     p.Quantity(),
		AdoptedCount: p.AdoptedCount(),
		IsAdopted:    p.IsAdopted(),
		Address:      p.Address(),
		PostedBy: PosterDTO{
			UserID:    poster.UserID,
			UserEmail: poster.UserEmail,
			UserName:  poster.UserName,
		},
		CreatedAt: p.CreatedAt(),
		UpdatedAt: p.UpdatedAt(),
	}
}
