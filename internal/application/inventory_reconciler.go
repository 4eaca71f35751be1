package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/adoptly/service-adoption/internal/domain"
	petDomain "github.com/adoptly/service-adoption/internal/domain/pet"
	requestDomain "github.com/adoptly/service-adoption/internal/domain/request"
	"github.com/adoptly/service-adoption/internal/platform/metrics"
	"go.uber.org/zap"
)

const petNotFoundForRequest = "pet not found for this request"

// ReconcileResult describes what acceptance did to the referenced pet.
type ReconcileResult struct {
	PetID            string `json:"petId"`
	Applied          bool   `json:"applied"`
	Requested        int    `json:"requested"`
	PreviousQuantity int    `json:"previousQuantity"`
	Quantity         int    `json:"quantity"`
	AdoptedCount     int    `json:"adoptedCount"`
	IsAdopted        bool   `json:"isAdopted"`
}

// StockReconciler checks and applies the stock effect of accepting a request.
type StockReconciler interface {
	Reconcile(ctx context.Context, req *requestDomain.AdoptionRequest) (*ReconcileResult, error)
}

// InventoryReconciler keeps pet stock consistent with accepted requests.
type InventoryReconciler struct {
	pets    petDomain.PetRepository
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewInventoryReconciler creates a new InventoryReconciler. m may be nil.
func NewInventoryReconciler(pets petDomain.PetRepository, m *metrics.Metrics, logger *zap.Logger) *InventoryReconciler {
	return &InventoryReconciler{pets: pets, metrics: m, logger: logger}
}

// Reconcile decrements the pet's stock by the request quantity.
//
// A pet with no stock left is a no-op. A request for more than the pet holds
// fails with INSUFFICIENT_STOCK and nothing is written. The decrement itself
// is one conditional write, so two acceptances racing for the last units
// cannot both succeed; the loser is classified by re-reading the pet once.
func (r *InventoryReconciler) Reconcile(ctx context.Context, req *requestDomain.AdoptionRequest) (*ReconcileResult, error) {
	requested := req.Quantity()

	p, err := r.loadPet(ctx, req)
	if err != nil {
		return nil, err
	}

	result, err := r.classify(p, requested)
	if err != nil || !result.Applied {
		return result, err
	}

	updated, err := r.pets.DecrementStock(ctx, p.ID(), requested)
	if errors.Is(err, petDomain.ErrStockUnavailable) {
		return r.reclassify(ctx, req, requested)
	}
	if err != nil {
		r.metrics.IncReconcile(metrics.OutcomeError)
		return nil, fmt.Errorf("failed to decrement pet stock: %w", err)
	}

	result = &ReconcileResult{
		PetID:            updated.ID().Hex(),
		Applied:          true,
		Requested:        requested,
		PreviousQuantity: p.Quantity(),
		Quantity:         updated.Quantity(),
		AdoptedCount:     updated.AdoptedCount(),
		IsAdopted:        updated.IsAdopted(),
	}
	r.metrics.IncReconcile(metrics.OutcomeApplied)
	r.logger.Info("pet stock decremented",
		zap.String("request_id", req.ID().Hex()),
		zap.String("pet_id", result.PetID),
		zap.Int("requested", requested),
		zap.Int("quantity", result.Quantity),
		zap.Int("adopted_count", result.AdoptedCount),
		zap.Bool("is_adopted", result.IsAdopted),
	)
	return result, nil
}

func (r *InventoryReconciler) loadPet(ctx context.Context, req *requestDomain.AdoptionRequest) (*petDomain.Pet, error) {
	p, err := r.pets.FindByID(ctx, req.PetID())
	if err == nil {
		return p, nil
	}
	if domain.IsNotFound(err) {
		r.metrics.IncReconcile(metrics.OutcomePetNotFound)
		r.logger.Warn("pet not found for request",
			zap.String("request_id", req.ID().Hex()),
			zap.String("pet_id", req.PetID().Hex()),
		)
		return nil, domain.NewNotFoundMessage(petNotFoundForRequest)
	}
	r.metrics.IncReconcile(metrics.OutcomeError)
	return nil, fmt.Errorf("failed to load pet: %w", err)
}

// classify applies the no-op and sufficiency rules without writing. A result
// with Applied set means the caller should attempt the decrement.
func (r *InventoryReconciler) classify(p *petDomain.Pet, requested int) (*ReconcileResult, error) {
	plan, err := p.PlanAdoption(requested)
	if err != nil {
		if domain.HasCode(err, domain.CodeInsufficientStock) {
			r.metrics.IncReconcile(metrics.OutcomeInsufficientStock)
		} else {
			r.metrics.IncReconcile(metrics.OutcomeError)
		}
		return nil, err
	}

	result := &ReconcileResult{
		PetID:            p.ID().Hex(),
		Applied:          !plan.NoOp,
		Requested:        requested,
		PreviousQuantity: plan.PreviousQuantity,
		Quantity:         plan.Quantity,
		AdoptedCount:     plan.AdoptedCount,
		IsAdopted:        plan.IsAdopted,
	}
	if plan.NoOp {
		r.metrics.IncReconcile(metrics.OutcomeNoop)
		r.logger.Info("pet has no stock left, acceptance leaves inventory unchanged",
			zap.String("pet_id", result.PetID),
		)
	}
	return result, nil
}

// reclassify runs after the conditional write matched nothing.
func (r *InventoryReconciler) reclassify(ctx context.Context, req *requestDomain.AdoptionRequest, requested int) (*ReconcileResult, error) {
	p, err := r.loadPet(ctx, req)
	if err != nil {
		return nil, err
	}
	result, err := r.classify(p, requested)
	if err != nil || !result.Applied {
		return result, err
	}
	r.metrics.IncReconcile(metrics.OutcomeError)
	r.logger.Warn("pet stock changed during acceptance",
		zap.String("request_id", req.ID().Hex()),
		zap.String("pet_id", p.ID().Hex()),
	)
	return nil, domain.NewConflictError("pet stock changed concurrently, retry the update")
}
