// Package memory holds process-local repositories with the same contracts as
// the MongoDB ones. They back STORAGE_DRIVER=memory and the unit tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/adoptly/service-adoption/internal/domain"
	petDomain "github.com/adoptly/service-adoption/internal/domain/pet"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PetRepository is a mutex-guarded in-memory petDomain.PetRepository.
type PetRepository struct {
	mu   sync.RWMutex
	byID map[primitive.ObjectID]*petDomain.Pet
}

// NewPetRepository creates an empty PetRepository.
func NewPetRepository() *PetRepository {
	return &PetRepository{byID: make(map[primitive.ObjectID]*petDomain.Pet)}
}

// FindByID returns a copy of the stored pet.
func (r *PetRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*petDomain.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return nil, domain.NewNotFoundError("Pet", id.Hex())
	}
	return clonePet(p), nil
}

// List returns matching pets, newest first.
func (r *PetRepository) List(ctx context.Context, filter petDomain.ListFilter) ([]*petDomain.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*petDomain.Pet, 0, len(r.byID))
	for _, p := range r.byID {
		if filter.Category != "" && p.Profile().Category != filter.Category {
			continue
		}
		if filter.IsAdopted != nil && p.IsAdopted() != *filter.IsAdopted {
			continue
		}
		out = append(out, clonePet(p))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt().After(out[j].CreatedAt())
	})
	return out, nil
}

// Save stores a new pet.
func (r *PetRepository) Save(ctx context.Context, p *petDomain.Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[p.ID()]; exists {
		return domain.NewConflictError("pet already exists")
	}
	r.byID[p.ID()] = clonePet(p)
	return nil
}

// Update writes the editable fields of an existing pet.
func (r *PetRepository) Update(ctx context.Context, p *petDomain.Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[p.ID()]
	if !ok {
		return domain.NewNotFoundError("Pet", p.ID().Hex())
	}
	// Counters owned by acceptance keep their stored values.
	r.byID[p.ID()] = petDomain.Reconstruct(
		p.ID(), p.Profile(),
		p.Quantity(), stored.AdoptedCount(),
		stored.IsAdopted(),
		p.Address(), stored.PostedBy(),
		stored.CreatedAt(), p.UpdatedAt(),
	)
	return nil
}

// Delete removes a pet.
func (r *PetRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return domain.NewNotFoundError("Pet", id.Hex())
	}
	delete(r.byID, id)
	return nil
}

// DecrementStock adopts n units under the write lock, or returns
// ErrStockUnavailable when the pet holds fewer.
func (r *PetRepository) DecrementStock(ctx context.Context, id primitive.ObjectID, n int) (*petDomain.Pet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[id]
	if !ok || n <= 0 || p.Quantity() < n {
		return nil, petDomain.ErrStockUnavailable
	}
	if _, err := p.Adopt(n); err != nil {
		return nil, petDomain.ErrStockUnavailable
	}
	return clonePet(p), nil
}

// Seed stores a pet as is, bypassing validation. Used by tests and local bootstrap.
func (r *PetRepository) Seed(p *petDomain.Pet) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[p.ID()] = clonePet(p)
}

// SeedStock stores a minimal pet holding the given counters and returns its id.
func (r *PetRepository) SeedStock(name string, quantity, adoptedCount int, isAdopted bool) primitive.ObjectID {
	now := time.Now().UTC()
	p := petDomain.Reconstruct(
		primitive.NewObjectID(),
		petDomain.Profile{Name: name},
		quantity, adoptedCount, isAdopted,
		domain.Address{District: "Dhaka", Division: "Dhaka"},
		petDomain.Poster{},
		now, now,
	)
	r.Seed(p)
	return p.ID()
}

func clonePet(p *petDomain.Pet) *petDomain.Pet {
	return petDomain.Reconstruct(
		p.ID(), p.Profile(),
		p.Quantity(), p.AdoptedCount(), p.IsAdopted(),
		p.Address(), p.PostedBy(),
		p.CreatedAt(), p.UpdatedAt(),
	)
}
