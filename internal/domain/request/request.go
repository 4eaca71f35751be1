package request

import (
	"strings"
	"time"

	"github.com/adoptly/service-adoption/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultQuantity is used when a submission omits the quantity.
const DefaultQuantity = 1

// AdoptionRequest is the aggregate root linking a user to a pet.
//
// userEmail and userName are copied from the submission at creation and are
// never refreshed from the user record.
type AdoptionRequest struct {
	id          primitive.ObjectID
	userID      string
	userEmail   string
	userName    string
	petID       primitive.ObjectID
	phoneNumber string
	address     domain.Address
	quantity    int
	status      Status
	requestDate time.Time
	updatedAt   time.Time
}

// NewAdoptionRequest creates a pending request with validated fields.
func NewAdoptionRequest(
	userID, userEmail, userName string,
	petID primitive.ObjectID,
	phoneNumber string,
	address domain.Address,
	quantity int,
) (*AdoptionRequest, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.NewValidationError("userId is required")
	}
	if petID.IsZero() {
		return nil, domain.NewValidationError("petId is required")
	}
	if quantity <= 0 {
		return nil, domain.NewValidationError("quantity must be greater than zero")
	}
	if err := address.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &AdoptionRequest{
		id:          primitive.NewObjectID(),
		userID:      userID,
		userEmail:   strings.TrimSpace(userEmail),
		userName:    userName,
		petID:       petID,
		phoneNumber: phoneNumber,
		address:     address,
		quantity:    quantity,
		status:      StatusPending,
		requestDate: now,
		updatedAt:   now,
	}, nil
}

// Reconstruct rebuilds an AdoptionRequest from persistence data (no validation).
func Reconstruct(
	id primitive.ObjectID,
	userID, userEmail, userName string,
	petID primitive.ObjectID,
	phoneNumber string,
	address domain.Address,
	quantity int,
	status Status,
	requestDate, updatedAt time.Time,
) *AdoptionRequest {
	return &AdoptionRequest{
		id:          id,
		userID:      userID,
		userEmail:   userEmail,
		userName:    userName,
		petID:       petID,
		phoneNumber: phoneNumber,
		address:     address,
		quantity:    quantity,
		status:      status,
		requestDate: requestDate,
		updatedAt:   updatedAt,
	}
}

// --- Getters ---

func (r *AdoptionRequest) ID() primitive.ObjectID    { return r.id }
func (r *AdoptionRequest) UserID() string            { return r.userID }
func (r *AdoptionRequest) UserEmail() string         { return r.userEmail }
func (r *AdoptionRequest) UserName() string          { return r.userName }
func (r *AdoptionRequest) PetID() primitive.ObjectID { return r.petID }
func (r *AdoptionRequest) PhoneNumber() string       { return r.phoneNumber }
func (r *AdoptionRequest) Address() domain.Address   { return r.address }
func (r *AdoptionRequest) Quantity() int             { return r.quantity }
func (r *AdoptionRequest) Status() Status            { return r.status }
func (r *AdoptionRequest) RequestDate() time.Time    { return r.requestDate }
func (r *AdoptionRequest) UpdatedAt() time.Time      { return r.updatedAt }

// Changes is a shallow partial update. Nil fields are left as they are.
// petId, quantity, userId and requestDate are immutable and have no field here.
type Changes struct {
	Status      *Status
	PhoneNumber *string
	Address     *domain.Address
	UserName    *string
}

// IsEmpty reports whether no field would change.
func (c Changes) IsEmpty() bool {
	return c.Status == nil && c.PhoneNumber == nil && c.Address == nil && c.UserName == nil
}

// Validate checks every supplied field so a merge never fails half way.
func (c Changes) Validate() error {
	if c.IsEmpty() {
		return domain.NewValidationError("no updatable fields provided")
	}
	if c.Status != nil {
		if _, err := ParseStatus(string(*c.Status)); err != nil {
			return err
		}
	}
	if c.Address != nil {
		if err := c.Address.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Apply merges validated changes into the request.
func (r *AdoptionRequest) Apply(c Changes) {
	if c.Status != nil {
		r.status = *c.Status
	}
	if c.PhoneNumber != nil {
		r.phoneNumber = *c.PhoneNumber
	}
	if c.Address != nil {
		r.address = *c.Address
	}
	if c.UserName != nil {
		r.userName = *c.UserName
	}
	r.updatedAt = time.Now().UTC()
}
