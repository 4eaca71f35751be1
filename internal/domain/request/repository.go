package request

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ListFilter narrows List results. Zero value lists everything.
type ListFilter struct {
	UserEmail string
}

// RequestRepository defines the persistence contract for adoption requests.
type RequestRepository interface {
	// FindByID retrieves a request by id, NOT_FOUND when absent.
	FindByID(ctx context.Context, id primitive.ObjectID) (*AdoptionRequest, error)

	// List returns matching requests ordered by requestDate descending.
	List(ctx context.Context, filter ListFilter) ([]*AdoptionRequest, error)

	// CountByStatus returns request counts grouped by status.
	CountByStatus(ctx context.Context) (map[string]int64, error)

	// Save persists a new request.
	Save(ctx context.Context, req *AdoptionRequest) error

	// Update persists the mutable fields of an existing request, NOT_FOUND when absent.
	Update(ctx context.Context, req *AdoptionRequest) error

	// Delete removes a request, NOT_FOUND when absent.
	Delete(ctx context.Context, id primitive.ObjectID) error
}
