package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/adoptly/service-adoption/internal/domain"
	requestDomain "github.com/adoptly/service-adoption/internal/domain/request"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RequestRepository is a mutex-guarded in-memory requestDomain.RequestRepository.
type RequestRepository struct {
	mu    sync.RWMutex
	order []primitive.ObjectID
	byID  map[primitive.ObjectID]*requestDomain.AdoptionRequest
}

// NewRequestRepository creates an empty RequestRepository.
func NewRequestRepository() *RequestRepository {
	return &RequestRepository{byID: make(map[primitive.ObjectID]*requestDomain.AdoptionRequest)}
}

// FindByID returns a copy of the stored request.
func (r *RequestRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*requestDomain.AdoptionRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	req, ok := r.byID[id]
	if !ok {
		return nil, domain.NewNotFoundError("Request", id.Hex())
	}
	return cloneRequest(req), nil
}

// List returns matching requests, newest first.
func (r *RequestRepository) List(ctx context.Context, filter requestDomain.ListFilter) ([]*requestDomain.AdoptionRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// Walk newest insertion first so equal timestamps keep a stable newest-first order.
	out := make([]*requestDomain.AdoptionRequest, 0, len(r.order))
	for i := len(r.order) - 1; i >= 0; i-- {
		req, ok := r.byID[r.order[i]]
		if !ok {
			continue
		}
		if filter.UserEmail != "" && req.UserEmail() != filter.UserEmail {
			continue
		}
		out = append(out, cloneRequest(req))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RequestDate().After(out[j].RequestDate())
	})
	return out, nil
}

// CountByStatus counts stored requests per status value.
func (r *RequestRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[string]int64)
	for _, req := range r.byID {
		counts[req.Status().String()]++
	}
	return counts, nil
}

// Save stores a new request.
func (r *RequestRepository) Save(ctx context.Context, req *requestDomain.AdoptionRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[req.ID()]; exists {
		return domain.NewConflictError("request already exists")
	}
	r.byID[req.ID()] = cloneRequest(req)
	r.order = append(r.order, req.ID())
	return nil
}

// Update replaces an existing request.
func (r *RequestRepository) Update(ctx context.Context, req *requestDomain.AdoptionRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[req.ID()]; !ok {
		return domain.NewNotFoundError("Request", req.ID().Hex())
	}
	r.byID[req.ID()] = cloneRequest(req)
	return nil
}

// Delete removes a request.
func (r *RequestRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return domain.NewNotFoundError("Request", id.Hex())
	}
	delete(r.byID, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func cloneRequest(req *requestDomain.AdoptionRequest) *requestDomain.AdoptionRequest {
	return requestDomain.Reconstruct(
		req.ID(),
		req.UserID(), req.UserEmail(), req.UserName(),
		req.PetID(),
		req.PhoneNumber(),
		req.Address(),
		req.Quantity(),
		req.Status(),
		req.RequestDate(), req.UpdatedAt(),
	)
}
