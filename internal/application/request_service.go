package application

import (
	"context"
	"fmt"
	"time"

	"github.com/adoptly/service-adoption/internal/domain"
	requestDomain "github.com/adoptly/service-adoption/internal/domain/request"
	"github.com/adoptly/service-adoption/internal/events"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// CreateRequestInput is the submission body of a new adoption request.
type CreateRequestInput struct {
	UserID      string         `json:"userId"`
	UserEmail   string         `json:"userEmail"`
	UserName    string         `json:"userName"`
	PetID       string         `json:"petId"`
	PhoneNumber string         `json:"phoneNumber"`
	Address     domain.Address `json:"address"`
	Quantity    *int           `json:"quantity"`
}

// UpdateRequestInput is a partial update. Only the fields below are
// updatable; anything else in the body is dropped during binding.
type UpdateRequestInput struct {
	Status      *string         `json:"status"`
	PhoneNumber *string         `json:"phoneNumber"`
	Address     *domain.Address `json:"address"`
	UserName    *string         `json:"userName"`
}

// RequestDTO is the response representation of an adoption request.
type RequestDTO struct {
	ID          string         `json:"_id"`
	UserID      string         `json:"userId"`
	UserEmail   string         `json:"userEmail"`
	UserName    string         `json:"userName,omitempty"`
	PetID       string         `json:"petId"`
	PhoneNumber string         `json:"phoneNumber,omitempty"`
	Address     domain.Address `json:"address"`
	Quantity    int            `json:"quantity"`
	Status      string         `json:"status"`
	RequestDate time.Time      `json:"requestDate"`
}

// UserRequestsDTO is the per-user listing.
type UserRequestsDTO struct {
	TotalRequest int          `json:"totalRequest"`
	Request      []RequestDTO `json:"request"`
}

// RequestStatsDTO counts requests by status.
type RequestStatsDTO struct {
	Total    int64            `json:"total"`
	ByStatus map[string]int64 `json:"byStatus"`
}

// RequestService orchestrates the adoption request lifecycle.
type RequestService struct {
	repo       requestDomain.RequestRepository
	reconciler StockReconciler
	publisher  EventPublisher
	policy     requestDomain.ReacceptPolicy
	topic      string
	logger     *zap.Logger
}

// NewRequestService creates a new RequestService.
func NewRequestService(
	repo requestDomain.RequestRepository,
	reconciler StockReconciler,
	publisher EventPublisher,
	policy requestDomain.ReacceptPolicy,
	topic string,
	logger *zap.Logger,
) *RequestService {
	if topic == "" {
		topic = events.TopicAdoptionEvents
	}
	return &RequestService{
		repo:       repo,
		reconciler: reconciler,
		publisher:  publisher,
		policy:     policy,
		topic:      topic,
		logger:     logger,
	}
}

// CreateRequest validates and stores a new pending request. The pet is not
// loaded; stock is only checked at acceptance.
func (s *RequestService) CreateRequest(ctx context.Context, in CreateRequestInput) (*RequestDTO, error) {
	if in.PetID == "" {
		return nil, domain.NewValidationError("petId is required")
	}
	petID, err := primitive.ObjectIDFromHex(in.PetID)
	if err != nil {
		return nil, domain.NewValidationError("petId must be a valid id")
	}

	quantity := requestDomain.DefaultQuantity
	if in.Quantity != nil {
		quantity = *in.Quantity
	}

	req, err := requestDomain.NewAdoptionRequest(
		in.UserID, in.UserEmail, in.UserName,
		petID,
		in.PhoneNumber,
		in.Address,
		quantity,
	)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, req); err != nil {
		s.logger.Error("failed to save adoption request", zap.Error(err))
		return nil, fmt.Errorf("failed to save adoption request: %w", err)
	}

	s.logger.Info("adoption request created",
		zap.String("request_id", req.ID().Hex()),
		zap.String("pet_id", req.PetID().Hex()),
		zap.Int("quantity", req.Quantity()),
	)

	publishEvent(ctx, s.publisher, s.logger, s.topic, events.RequestCreated, req.ID().Hex(), events.RequestCreatedEvent{
		RequestID:  req.ID().Hex(),
		UserID:     req.UserID(),
		UserEmail:  req.UserEmail(),
		PetID:      req.PetID().Hex(),
		Quantity:   req.Quantity(),
		OccurredAt: time.Now().UTC(),
	})

	result := toRequestDTO(req)
	return &result, nil
}

// ListRequests returns every request, newest first.
func (s *RequestService) ListRequests(ctx context.Context) ([]RequestDTO, error) {
	reqs, err := s.repo.List(ctx, requestDomain.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list adoption requests: %w", err)
	}
	return toRequestDTOs(reqs), nil
}

// ListUserRequests returns the requests submitted under email. No match is NOT_FOUND.
func (s *RequestService) ListUserRequests(ctx context.Context, email string) (*UserRequestsDTO, error) {
	reqs, err := s.repo.List(ctx, requestDomain.ListFilter{UserEmail: email})
	if err != nil {
		return nil, fmt.Errorf("failed to list user adoption requests: %w", err)
	}
	if len(reqs) == 0 {
		return nil, domain.NewNotFoundMessage("no adoption requests found for this user")
	}
	return &UserRequestsDTO{TotalRequest: len(reqs), Request: toRequestDTOs(reqs)}, nil
}

// GetRequest returns one request.
func (s *RequestService) GetRequest(ctx context.Context, id primitive.ObjectID) (*RequestDTO, error) {
	req, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	result := toRequestDTO(req)
	return &result, nil
}

// UpdateRequest merges in into the stored request. When the new status is
// accepted the inventory is reconciled first; a reconciliation error aborts
// the update and leaves the stored request unchanged.
func (s *RequestService) UpdateRequest(ctx context.Context, id primitive.ObjectID, in UpdateRequestInput) (*RequestDTO, error) {
	changes := requestDomain.Changes{
		PhoneNumber: in.PhoneNumber,
		Address:     in.Address,
		UserName:    in.UserName,
	}
	if in.Status != nil {
		status := requestDomain.Status(*in.Status)
		changes.Status = &status
	}
	if err := changes.Validate(); err != nil {
		return nil, err
	}

	req, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := req.Status()
	var inventory *ReconcileResult
	if changes.Status != nil && s.policy.NeedsReconciliation(previous, *changes.Status) {
		inventory, err = s.reconciler.Reconcile(ctx, req)
		if err != nil {
			s.logger.Warn("acceptance rejected by inventory reconciliation",
				zap.String("request_id", id.Hex()),
				zap.Error(err),
			)
			return nil, err
		}
	}

	req.Apply(changes)
	if err := s.repo.Update(ctx, req); err != nil {
		s.logger.Error("failed to persist adoption request update",
			zap.String("request_id", id.Hex()),
			zap.Bool("inventory_applied", inventory != nil && inventory.Applied),
			zap.Error(err),
		)
		return nil, err
	}

	if req.Status() != previous {
		s.logger.Info("adoption request status changed",
			zap.String("request_id", id.Hex()),
			zap.String("from", previous.String()),
			zap.String("to", req.Status().String()),
		)
		publishEvent(ctx, s.publisher, s.logger, s.topic, events.RequestStatusChanged, id.Hex(), events.RequestStatusChangedEvent{
			RequestID:      id.Hex(),
			PreviousStatus: previous.String(),
			Status:         req.Status().String(),
			OccurredAt:     time.Now().UTC(),
		})
	}
	if inventory != nil && inventory.Applied {
		publishEvent(ctx, s.publisher, s.logger, s.topic, events.RequestAccepted, id.Hex(), events.RequestAcceptedEvent{
			RequestID:         id.Hex(),
			PetID:             inventory.PetID,
			Quantity:          inventory.Requested,
			RemainingQuantity: inventory.Quantity,
			AdoptedCount:      inventory.AdoptedCount,
			IsAdopted:         inventory.IsAdopted,
			OccurredAt:        time.Now().UTC(),
		})
	}

	result := toRequestDTO(req)
	return &result, nil
}

// DeleteRequest removes a request. Inventory already decremented by an
// earlier acceptance is not restored.
func (s *RequestService) DeleteRequest(ctx context.Context, id primitive.ObjectID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("adoption request deleted", zap.String("request_id", id.Hex()))
	publishEvent(ctx, s.publisher, s.logger, s.topic, events.RequestDeleted, id.Hex(), events.RequestDeletedEvent{
		RequestID:  id.Hex(),
		OccurredAt: time.Now().UTC(),
	})
	return nil
}

// GetRequestStats counts requests by status.
func (s *RequestService) GetRequestStats(ctx context.Context) (*RequestStatsDTO, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count adoption requests: %w", err)
	}
	stats := &RequestStatsDTO{ByStatus: counts}
	for _, n := range counts {
		stats.Total += n
	}
	return stats, nil
}

func toRequestDTO(r *requestDomain.AdoptionRequest) RequestDTO {
	return RequestDTO{
		ID:          r.ID().Hex(),
		UserID:      r.UserID(),
		UserEmail:   r.UserEmail(),
		UserName:    r.UserName(),
		PetID:       r.PetID().Hex(),
		PhoneNumber: r.PhoneNumber(),
		Address:     r.Address(),
		Quantity:    r.Quantity(),
		Status:      r.Status().String(),
		RequestDate: r.RequestDate(),
	}
}

func toRequestDTOs(reqs []*requestDomain.AdoptionRequest) []RequestDTO {
	dtos := make([]RequestDTO, len(reqs))
	for i, r := range reqs {
		dtos[i] = toRequestDTO(r)
	}
	return dtos
}
