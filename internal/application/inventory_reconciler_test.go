package application

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/adoptly/service-adoption/internal/domain"
	petDomain "github.com/adoptly/service-adoption/internal/domain/pet"
	requestDomain "github.com/adoptly/service-adoption/internal/domain/request"
	"github.com/adoptly/service-adoption/internal/platform/metrics"
	"github.com/adoptly/service-adoption/internal/repository/memory"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newRequest(t *testing.T, petID primitive.ObjectID, quantity int) *requestDomain.AdoptionRequest {
	t.Helper()
	req, err := requestDomain.NewAdoptionRequest("user-1", "a@x.io", "Ana", petID, "", dhaka, quantity)
	require.NoError(t, err)
	return req
}

func TestReconcile_DecrementsStock(t *testing.T) {
	tests := []struct {
		name                       string
		quantity, adopted, request int
		wantQty, wantAdopted       int
		wantIsAdopted              bool
	}{
		{"partial", 3, 0, 2, 1, 2, false},
		{"exact", 2, 0, 2, 0, 2, true},
		{"exact with history", 1, 4, 1, 0, 5, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pets := memory.NewPetRepository()
			petID := pets.SeedStock("Milo", tt.quantity, tt.adopted, false)
			r := NewInventoryReconciler(pets, nil, zap.NewNop())

			result, err := r.Reconcile(context.Background(), newRequest(t, petID, tt.request))
			require.NoError(t, err)
			assert.True(t, result.Applied)
			assert.Equal(t, tt.quantity, result.PreviousQuantity)
			assert.Equal(t, tt.wantQty, result.Quantity)

			p, err := pets.FindByID(context.Background(), petID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantQty, p.Quantity())
			assert.Equal(t, tt.wantAdopted, p.AdoptedCount())
			assert.Equal(t, tt.wantIsAdopted, p.IsAdopted())
		})
	}
}

func TestReconcile_NoStockIsNoop(t *testing.T) {
	pets := memory.NewPetRepository()
	petID := pets.SeedStock("Milo", 0, 3, true)
	r := NewInventoryReconciler(pets, nil, zap.NewNop())

	result, err := r.Reconcile(context.Background(), newRequest(t, petID, 2))
	require.NoError(t, err)
	assert.False(t, result.Applied)

	p, _ := pets.FindByID(context.Background(), petID)
	assert.Equal(t, 0, p.Quantity())
	assert.Equal(t, 3, p.AdoptedCount())
	assert.True(t, p.IsAdopted())
}

func TestReconcile_InsufficientStock(t *testing.T) {
	pets := memory.NewPetRepository()
	petID := pets.SeedStock("Milo", 1, 0, false)
	reg := prometheus.NewRegistry()
	r := NewInventoryReconciler(pets, metrics.New(reg), zap.NewNop())

	_, err := r.Reconcile(context.Background(), newRequest(t, petID, 3))
	require.Error(t, err)

	de, ok := domain.AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, domain.CodeInsufficientStock, de.Code)
	assert.Equal(t, "Insufficient quantity. Requested: 3, Available: 1", de.Message)

	p, _ := pets.FindByID(context.Background(), petID)
	assert.Equal(t, 1, p.Quantity(), "stock must be untouched")
	assert.Equal(t, 0, p.AdoptedCount())

	count, err := testutil.GatherAndCount(reg, "adoption_reconcile_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestReconcile_PetNotFound(t *testing.T) {
	r := NewInventoryReconciler(memory.NewPetRepository(), nil, zap.NewNop())

	_, err := r.Reconcile(context.Background(), newRequest(t, primitive.NewObjectID(), 1))
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
	assert.Equal(t, "pet not found for this request", err.Error())
}

// racingPets drains stock between the reconciler's read and its write.
type racingPets struct {
	*memory.PetRepository
	steal int
}

func (p *racingPets) DecrementStock(ctx context.Context, id primitive.ObjectID, n int) (*petDomain.Pet, error) {
	if p.steal > 0 {
		_, _ = p.PetRepository.DecrementStock(ctx, id, p.steal)
		p.steal = 0
	}
	return p.PetRepository.DecrementStock(ctx, id, n)
}

func TestReconcile_LostRaceIsReclassified(t *testing.T) {
	t.Run("drained to zero becomes a no-op", func(t *testing.T) {
		pets := &racingPets{PetRepository: memory.NewPetRepository(), steal: 2}
		petID := pets.SeedStock("Milo", 2, 0, false)
		r := NewInventoryReconciler(pets, nil, zap.NewNop())

		result, err := r.Reconcile(context.Background(), newRequest(t, petID, 2))
		require.NoError(t, err)
		assert.False(t, result.Applied)

		p, _ := pets.FindByID(context.Background(), petID)
		assert.Equal(t, 0, p.Quantity())
		assert.Equal(t, 2, p.AdoptedCount())
	})

	t.Run("partially drained becomes insufficient", func(t *testing.T) {
		pets := &racingPets{PetRepository: memory.NewPetRepository(), steal: 2}
		petID := pets.SeedStock("Milo", 3, 0, false)
		r := NewInventoryReconciler(pets, nil, zap.NewNop())

		_, err := r.Reconcile(context.Background(), newRequest(t, petID, 2))
		require.Error(t, err)
		assert.True(t, domain.HasCode(err, domain.CodeInsufficientStock))

		p, _ := pets.FindByID(context.Background(), petID)
		assert.Equal(t, 1, p.Quantity())
		assert.Equal(t, 2, p.AdoptedCount())
	})
}

// staleWritePets fails every conditional write while reads still show stock.
type staleWritePets struct {
	*memory.PetRepository
}

func (staleWritePets) DecrementStock(context.Context, primitive.ObjectID, int) (*petDomain.Pet, error) {
	return nil, petDomain.ErrStockUnavailable
}

func TestReconcile_LostRaceWithStockLeftIsConflict(t *testing.T) {
	pets := staleWritePets{PetRepository: memory.NewPetRepository()}
	petID := pets.SeedStock("Milo", 5, 0, false)
	reg := prometheus.NewRegistry()
	r := NewInventoryReconciler(pets, metrics.New(reg), zap.NewNop())

	result, err := r.Reconcile(context.Background(), newRequest(t, petID, 2))
	require.Error(t, err)
	assert.Nil(t, result)

	de, ok := domain.AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, domain.CodeConflict, de.Code)
	assert.Equal(t, "pet stock changed concurrently, retry the update", de.Message)

	p, _ := pets.FindByID(context.Background(), petID)
	assert.Equal(t, 5, p.Quantity(), "stock must be untouched")
	assert.Equal(t, 0, p.AdoptedCount())
	assert.False(t, p.IsAdopted())

	count, err := testutil.GatherAndCount(reg, "adoption_reconcile_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestReconcile_ConcurrentAcceptancesNeverOversell(t *testing.T) {
	const initial = 5
	pets := memory.NewPetRepository()
	petID := pets.SeedStock("Milo", initial, 0, false)
	r := NewInventoryReconciler(pets, nil, zap.NewNop())

	reqs := make([]*requestDomain.AdoptionRequest, 20)
	for i := range reqs {
		reqs[i] = newRequest(t, petID, 1)
	}

	var applied atomic.Int64
	var wg sync.WaitGroup
	for _, req := range reqs {
		wg.Add(1)
		go func(req *requestDomain.AdoptionRequest) {
			defer wg.Done()
			result, err := r.Reconcile(context.Background(), req)
			if err == nil && result.Applied {
				applied.Add(1)
			}
		}(req)
	}
	wg.Wait()

	p, err := pets.FindByID(context.Background(), petID)
	require.NoError(t, err)
	assert.Equal(t, int64(initial), applied.Load())
	assert.Equal(t, 0, p.Quantity())
	assert.Equal(t, initial, p.AdoptedCount())
	assert.True(t, p.IsAdopted())
}
