// Package events defines the adoption events published to the event bus.
package events

import "time"

// Source is the CloudEvents source for every event this service emits.
const Source = "service-adoption"

// TopicAdoptionEvents is the default topic for adoption request events.
const TopicAdoptionEvents = "adoption.events"

// Event types.
const (
	RequestCreated       = "adoption.request.created"
	RequestStatusChanged = "adoption.request.status_changed"
	RequestAccepted      = "adoption.request.accepted"
	RequestDeleted       = "adoption.request.deleted"
)

// RequestCreatedEvent is published after a request is stored.
type RequestCreatedEvent struct {
	RequestID  string    `json:"requestId"`
	UserID     string    `json:"userId"`
	UserEmail  string    `json:"userEmail"`
	PetID      string    `json:"petId"`
	Quantity   int       `json:"quantity"`
	OccurredAt time.Time `json:"occurredAt"`
}

// RequestStatusChangedEvent is published when an update changes the status.
type RequestStatusChangedEvent struct {
	RequestID      string    `json:"requestId"`
	PreviousStatus string    `json:"previousStatus"`
	Status         string    `json:"status"`
	OccurredAt     time.Time `json:"occurredAt"`
}

// RequestAcceptedEvent is published when acceptance decremented a pet's stock.
type RequestAcceptedEvent struct {
	RequestID         string    `json:"requestId"`
	PetID             string    `json:"petId"`
	Quantity          int       `json:"quantity"`
	RemainingQuantity int       `json:"remainingQuantity"`
	AdoptedCount      int       `json:"adoptedCount"`
	IsAdopted         bool      `json:"isAdopted"`
	OccurredAt        time.Time `json:"occurredAt"`
}

// RequestDeletedEvent is published after a request is removed.
type RequestDeletedEvent struct {
	RequestID  string    `json:"requestId"`
	OccurredAt time.Time `json:"occurredAt"`
}
