package application

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/adoptly/service-adoption/internal/domain"
	requestDomain "github.com/adoptly/service-adoption/internal/domain/request"
	"github.com/adoptly/service-adoption/internal/platform/kafka"
	"github.com/adoptly/service-adoption/internal/repository/memory"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var dhaka = domain.Address{District: "Dhaka", Division: "Dhaka"}

// recordingPublisher keeps every event it is given.
type recordingPublisher struct {
	mu     sync.Mutex
	events []kafka.CloudEvent
	err    error
}

func (p *recordingPublisher) PublishEvent(_ context.Context, _ string, event kafka.CloudEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type testStack struct {
	service   *RequestService
	requests  *memory.RequestRepository
	pets      *memory.PetRepository
	publisher *recordingPublisher
}

func newTestStack(t *testing.T, policy requestDomain.ReacceptPolicy) *testStack {
	t.Helper()
	requests := memory.NewRequestRepository()
	pets := memory.NewPetRepository()
	publisher := &recordingPublisher{}
	reconciler := NewInventoryReconciler(pets, nil, zap.NewNop())
	return &testStack{
		service:   NewRequestService(requests, reconciler, publisher, policy, "", zap.NewNop()),
		requests:  requests,
		pets:      pets,
		publisher: publisher,
	}
}

// submit creates a pending request for petID through the service.
func (s *testStack) submit(t *testing.T, petID primitive.ObjectID, email string, quantity int) primitive.ObjectID {
	t.Helper()
	dto, err := s.service.CreateRequest(context.Background(), CreateRequestInput{
		UserID:    "user-1",
		UserEmail: email,
		UserName:  "Ana",
		PetID:     petID.Hex(),
		Address:   dhaka,
		Quantity:  &quantity,
	})
	require.NoError(t, err)
	id, err := primitive.ObjectIDFromHex(dto.ID)
	require.NoError(t, err)
	return id
}

func statusPtr(s string) *string { return &s }

var errPublish = errors.New("broker unavailable")
