package pet

import (
	"strings"
	"time"

	"github.com/adoptly/service-adoption/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultQuantity is used when a new pet listing omits the quantity.
const DefaultQuantity = 1

// Profile holds the descriptive fields of a pet listing.
type Profile struct {
	Name        string
	Category    string
	Breed       string
	Age         string
	Gender      string
	Description string
	Image       string
}

// Poster is the denormalized snapshot of the user who listed the pet.
// It is written at creation and never refreshed.
type Poster struct {
	UserID    string
	UserEmail string
	UserName  string
}

// Pet is the aggregate root for an adoptable pet listing and its stock.
type Pet struct {
	id           primitive.ObjectID
	profile      Profile
	quantity     int
	adoptedCount int
	isAdopted    bool
	address      domain.Address
	postedBy     Poster
	createdAt    time.Time
	updatedAt    time.Time
}

// NewPet creates a listing with validated fields and no adoptions yet.
// isAdopted stays false until an acceptance drains the stock.
func NewPet(profile Profile, quantity int, address domain.Address, postedBy Poster) (*Pet, error) {
	if strings.TrimSpace(profile.Name) == "" {
		return nil, domain.NewValidationError("pet name is required")
	}
	if quantity < 0 {
		return nil, domain.NewValidationError("quantity cannot be negative")
	}
	if err := address.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Pet{
		id:        primitive.NewObjectID(),
		profile:   profile,
		quantity:  quantity,
		address:   address,
		postedBy:  postedBy,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Reconstruct rebuilds a Pet from persistence data (no validation).
func Reconstruct(
	id primitive.ObjectID,
	profile Profile,
	quantity, adoptedCount int,
	isAdopted bool,
	address domain.Address,
	postedBy Poster,
	createdAt, updatedAt time.Time,
) *Pet {
	return &Pet{
		id:           id,
		profile:      profile,
		quantity:     quantity,
		adoptedCount: adoptedCount,
		isAdopted:    isAdopted,
		address:      address,
		postedBy:     postedBy,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

// --- Getters ---

func (p *Pet) ID() primitive.ObjectID  { return p.id }
func (p *Pet) Profile() Profile        { return p.profile }
func (p *Pet) Quantity() int           { return p.quantity }
func (p *Pet) AdoptedCount() int       { return p.adoptedCount }
func (p *Pet) IsAdopted() bool         { return p.isAdopted }
func (p *Pet) Address() domain.Address { return p.address }
func (p *Pet) PostedBy() Poster        { return p.postedBy }
func (p *Pet) CreatedAt() time.Time    { return p.createdAt }
func (p *Pet) UpdatedAt() time.Time    { return p.updatedAt }

// --- Behavior ---

// AdoptionPlan is the outcome of checking a requested quantity against stock.
type AdoptionPlan struct {
	Requested        int
	PreviousQuantity int
	Quantity         int
	AdoptedCount     int
	IsAdopted        bool
	// NoOp is set when the pet has no stock left; nothing is written.
	NoOp bool
}

// PlanAdoption computes the counters an acceptance of requested units would
// produce, without mutating the pet.
//
// A pet with zero stock yields a NoOp plan for any positive request.
func (p *Pet) PlanAdoption(requested int) (AdoptionPlan, error) {
	if requested <= 0 {
		return AdoptionPlan{}, domain.NewValidationError("requested quantity must be greater than zero")
	}

	plan := AdoptionPlan{
		Requested:        requested,
		PreviousQuantity: p.quantity,
		Quantity:         p.quantity,
		AdoptedCount:     p.adoptedCount,
		IsAdopted:        p.isAdopted,
	}
	if p.quantity == 0 {
		plan.NoOp = true
		return plan, nil
	}
	if requested > p.quantity {
		return AdoptionPlan{}, domain.NewInsufficientStockError(requested, p.quantity)
	}

	remaining := max(p.quantity-requested, 0)
	plan.Quantity = remaining
	plan.AdoptedCount = p.adoptedCount + requested
	plan.IsAdopted = remaining == 0
	return plan, nil
}

// Adopt applies PlanAdoption to the pet. All three counters change together
// or not at all.
func (p *Pet) Adopt(requested int) (AdoptionPlan, error) {
	plan, err := p.PlanAdoption(requested)
	if err != nil || plan.NoOp {
		return plan, err
	}
	p.quantity = plan.Quantity
	p.adoptedCount = plan.AdoptedCount
	p.isAdopted = plan.IsAdopted
	p.updatedAt = time.Now().UTC()
	return plan, nil
}

// Changes is a direct edit of a listing. Direct edits never touch
// adoptedCount or isAdopted; those belong to adoption acceptance.
type Changes struct {
	Name        *string
	Category    *string
	Breed       *string
	Age         *string
	Gender      *string
	Description *string
	Image       *string
	Quantity    *int
	Address     *domain.Address
}

// IsEmpty reports whether no field would change.
func (c Changes) IsEmpty() bool {
	return c.Name == nil && c.Category == nil && c.Breed == nil && c.Age == nil &&
		c.Gender == nil && c.Description == nil && c.Image == nil &&
		c.Quantity == nil && c.Address == nil
}

// Validate checks every supplied field.
func (c Changes) Validate() error {
	if c.IsEmpty() {
		return domain.NewValidationError("no updatable fields provided")
	}
	if c.Name != nil && strings.TrimSpace(*c.Name) == "" {
		return domain.NewValidationError("pet name must not be empty")
	}
	if c.Quantity != nil && *c.Quantity < 0 {
		return domain.NewValidationError("quantity cannot be negative")
	}
	if c.Address != nil {
		if err := c.Address.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Update applies validated direct edits.
func (p *Pet) Update(c Changes) {
	setString(&p.profile.Name, c.Name)
	setString(&p.profile.Category, c.Category)
	setString(&p.profile.Breed, c.Breed)
	setString(&p.profile.Age, c.Age)
	setString(&p.profile.Gender, c.Gender)
	setString(&p.profile.Description, c.Description)
	setString(&p.profile.Image, c.Image)
	if c.Quantity != nil {
		p.quantity = *c.Quantity
	}
	if c.Address != nil {
		p.address = *c.Address
	}
	p.updatedAt = time.Now().UTC()
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
