package pet

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrStockUnavailable is returned by DecrementStock when no pet with at least
// the requested stock matched the conditional write.
var ErrStockUnavailable = errors.New("pet stock unavailable for decrement")

// ListFilter narrows List results. Zero value lists everything.
type ListFilter struct {
	Category  string
	IsAdopted *bool
}

// PetRepository defines persistence operations for pet listings.
type PetRepository interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*Pet, error)
	List(ctx context.Context, filter ListFilter) ([]*Pet, error)
	Save(ctx context.Context, pet *Pet) error
	// Update writes profile, quantity and address. It never writes
	// adoptedCount or isAdopted.
	Update(ctx context.Context, pet *Pet) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	// DecrementStock removes n units in one indivisible write, only when the
	// pet holds at least n, incrementing adoptedCount by n and setting
	// isAdopted to whether the stock reached zero. It returns the updated pet
	// or ErrStockUnavailable.
	DecrementStock(ctx context.Context, id primitive.ObjectID, n int) (*Pet, error)
}
