package gate

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/farmclock/internal/domain"
)

func TestTryAcquire_TrueFalseTrue(t *testing.T) {
	g := New()
	key := domain.NewSlotKey(domain.ActionWater, "1001", 0)

	assert.True(t, g.TryAcquire(key))
	assert.False(t, g.TryAcquire(key))
	g.Release(key)
	assert.True(t, g.TryAcquire(key))
}

func TestTryAcquire_OneKeyPerSlot(t *testing.T) {
	g := New()

	require.True(t, g.TryAcquire(domain.NewSlotKey(domain.ActionWater, "1001", 0)))
	assert.False(t, g.TryAcquire(domain.NewSlotKey(domain.ActionHarvest, "1001", 0)))
	assert.True(t, g.TryAcquire(domain.NewSlotKey(domain.ActionHarvest, "1001", 1)))
	assert.True(t, g.TryAcquire(domain.NewSlotKey(domain.ActionWater, "2002", 0)))
	assert.Equal(t, 3, g.Len())
}

func TestTryAcquire_PlotLevelConflicts(t *testing.T) {
	t.Run("plot key blocks slot keys", func(t *testing.T) {
		g := New()
		unstake := domain.NewPlotKey(domain.ActionUnstake, "1001")
		require.True(t, g.TryAcquire(unstake))

		assert.False(t, g.TryAcquire(domain.NewSlotKey(domain.ActionPlant, "1001", 3)))
		assert.False(t, g.TryAcquire(domain.NewPlotKey(domain.ActionRecharge, "1001")))
		assert.True(t, g.TryAcquire(domain.NewSlotKey(domain.ActionPlant, "2002", 3)))

		g.Release(unstake)
		assert.True(t, g.TryAcquire(domain.NewSlotKey(domain.ActionPlant, "1001", 3)))
	})

	t.Run("slot keys block plot key", func(t *testing.T) {
		g := New()
		a := domain.NewSlotKey(domain.ActionWater, "1001", 0)
		b := domain.NewSlotKey(domain.ActionWater, "1001", 1)
		require.True(t, g.TryAcquire(a))
		require.True(t, g.TryAcquire(b))

		unstake := domain.NewPlotKey(domain.ActionUnstake, "1001")
		assert.False(t, g.TryAcquire(unstake))
		g.Release(a)
		assert.False(t, g.TryAcquire(unstake))
		g.Release(b)
		assert.True(t, g.TryAcquire(unstake))
	})
}

func TestTryAcquire_ScopesDoNotCollide(t *testing.T) {
	g := New()
	water := domain.NewSlotKey(domain.ActionWater, "7", 0)
	require.True(t, g.TryAcquire(water))

	vote := domain.NewProposalKey(domain.ActionVote, "7")
	assert.True(t, g.TryAcquire(vote), "proposal 7 is not plot 7")
	assert.True(t, g.TryAcquire(domain.NewFarmKey(domain.ActionRecharge, "7")))
	assert.True(t, g.TryAcquire(domain.NewTemplateKey(domain.ActionPropose, "7", "1")))

	stake := domain.NewFarmKey(domain.ActionStake, "9")
	require.True(t, g.TryAcquire(stake))
	assert.True(t, g.TryAcquire(domain.NewSlotKey(domain.ActionHarvest, "9", 0)), "farm 9 does not lock plot 9")
	assert.False(t, g.TryAcquire(domain.NewPlotKey(domain.ActionUnstake, "9")), "slot 0 of plot 9 is busy")

	// farm-level actions on one farm still exclude each other
	assert.False(t, g.TryAcquire(domain.NewFarmKey(domain.ActionDeposit, "9")))
	assert.False(t, g.TryAcquire(domain.NewProposalKey(domain.ActionVote, "7")))

	g.Release(stake)
	assert.True(t, g.TryAcquire(domain.NewFarmKey(domain.ActionDeposit, "9")))
	g.Release(vote)
	assert.True(t, g.TryAcquire(domain.NewProposalKey(domain.ActionVote, "7")))
	assert.Equal(t, 6, g.Len())
}

func TestRelease_UnknownKeyIsNoop(t *testing.T) {
	g := New()
	held := domain.NewSlotKey(domain.ActionWater, "1001", 0)
	require.True(t, g.TryAcquire(held))

	g.Release(domain.NewSlotKey(domain.ActionHarvest, "1001", 0))
	assert.True(t, g.IsPending(held))
	assert.Equal(t, 1, g.Len())
}

func TestDo_ReleasesOnError(t *testing.T) {
	g := New()
	key := domain.NewSlotKey(domain.ActionHarvest, "1001", 2)
	boom := errors.New("boom")

	err := g.Do(context.Background(), key, func(ctx context.Context) error {
		assert.True(t, g.IsPending(key))
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.False(t, g.IsPending(key))
}

func TestDo_ReleasesOnPanic(t *testing.T) {
	g := New()
	key := domain.NewSlotKey(domain.ActionHarvest, "1001", 2)

	assert.Panics(t, func() {
		_ = g.Do(context.Background(), key, func(ctx context.Context) error {
			panic("wallet exploded")
		})
	})
	assert.False(t, g.IsPending(key))
}

func TestDo_BusyKey(t *testing.T) {
	g := New()
	key := domain.NewSlotKey(domain.ActionWater, "1001", 0)
	require.True(t, g.TryAcquire(key))

	called := false
	err := g.Do(context.Background(), key, func(ctx context.Context) error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, domain.ErrActionPending)
	assert.False(t, called)
	assert.True(t, g.IsPending(key), "busy Do must not release the other holder")
}

func TestPendingSnapshot(t *testing.T) {
	g := New()
	var counts []int
	g.OnChange(func(n int) { counts = append(counts, n) })

	w := domain.NewSlotKey(domain.ActionWater, "1001", 0)
	h := domain.NewSlotKey(domain.ActionHarvest, "1001", 1)
	require.True(t, g.TryAcquire(w))
	require.True(t, g.TryAcquire(h))

	assert.Equal(t, []domain.ActionKey{h, w}, g.Pending())

	k, ok := g.PendingForSlot(domain.SlotRef{PlotID: "1001", SlotIndex: 1})
	assert.True(t, ok)
	assert.Equal(t, h, k)

	g.Release(w)
	g.Release(h)
	assert.Empty(t, g.Pending())
	assert.Equal(t, []int{1, 2, 1, 0}, counts)
}

func TestTryAcquire_ConcurrentSingleWinner(t *testing.T) {
	g := New()
	key := domain.NewSlotKey(domain.ActionWater, "1001", 0)

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if g.TryAcquire(key) {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
}
