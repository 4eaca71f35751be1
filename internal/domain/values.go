package domain

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Address is the district/division pair used by pets and adoption requests.
type Address struct {
	District string `json:"district" bson:"district"`
	Division string `json:"division" bson:"division"`
}

// Validate requires both parts of the address.
func (a Address) Validate() error {
	if strings.TrimSpace(a.District) == "" {
		return NewValidationError("address.district is required")
	}
	if strings.TrimSpace(a.Division) == "" {
		return NewValidationError("address.division is required")
	}
	return nil
}

// ParseID converts a hex string to a store identifier, returning an
// INVALID_IDENTIFIER error naming the entity when it is malformed.
func ParseID(entity, raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, NewInvalidIdentifierError(entity, raw)
	}
	return id, nil
}
