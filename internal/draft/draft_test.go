package draft

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mealplan-backend/internal/models"
)

// gatedFetcher blocks until release is closed so the test can move the
// draft while a fetch is in flight.
type gatedFetcher struct {
	started chan struct{}
	release chan struct{}
	items   []Item
	err     error
}

func (f *gatedFetcher) Candidates(ctx context.Context, _ models.MealCategory) ([]Item, error) {
	close(f.started)
	select {
	case <-f.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return f.items, f.err
}

func newGated(items ...Item) *gatedFetcher {
	return &gatedFetcher{started: make(chan struct{}), release: make(chan struct{}), items: items}
}

func TestDispatchNotifiesListeners(t *testing.T) {
	d := New()
	var events []Event
	unsubscribe := d.Subscribe(func(ev Event) { events = append(events, ev) })

	_, err := d.Dispatch(Init(models.Plan{MealsPerDay: 1}))
	require.NoError(t, err)
	_, err = d.Dispatch(Advance())
	require.ErrorIs(t, err, ErrSlotIncomplete)

	require.Len(t, events, 1)
	assert.Equal(t, EventStateChanged, events[0].Kind)
	assert.Equal(t, PhaseMeal, events[0].State.Phase())

	unsubscribe()
	_, err = d.Dispatch(Reset())
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestLoadCandidatesApplied(t *testing.T) {
	d := New()
	_, err := d.Dispatch(Init(models.Plan{MealsPerDay: 2}))
	require.NoError(t, err)

	f := newGated(protein(1), protein(2))
	close(f.release)
	items, applied, err := d.LoadCandidates(context.Background(), f, models.CategoryProtein)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Len(t, items, 2)

	cached, ok := d.Candidates(models.CategoryProtein)
	require.True(t, ok)
	assert.Len(t, cached, 2)
}

func TestLoadCandidatesDiscardsStaleResult(t *testing.T) {
	d := New()
	_, err := d.Dispatch(Init(models.Plan{MealsPerDay: 2}))
	require.NoError(t, err)
	_, err = d.Dispatch(SetProtein(0, protein(1)))
	require.NoError(t, err)
	_, err = d.Dispatch(SetCarb(0, carb(2)))
	require.NoError(t, err)

	var loaded int
	d.Subscribe(func(ev Event) {
		if ev.Kind == EventCandidatesLoaded {
			loaded++
		}
	})

	f := newGated(protein(3))
	var (
		wg      sync.WaitGroup
		applied bool
		items   []Item
		loadErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		items, applied, loadErr = d.LoadCandidates(context.Background(), f, models.CategoryProtein)
	}()

	<-f.started
	// the customer moves on to slot 1 before the slot 0 list arrives
	_, err = d.Dispatch(Advance())
	require.NoError(t, err)
	close(f.release)
	wg.Wait()

	require.NoError(t, loadErr)
	assert.False(t, applied)
	assert.Nil(t, items)
	assert.Zero(t, loaded)
	_, ok := d.Candidates(models.CategoryProtein)
	assert.False(t, ok)
}

func TestCandidatesExpireOnMove(t *testing.T) {
	d := New()
	_, err := d.Dispatch(Init(models.Plan{MealsPerDay: 2}))
	require.NoError(t, err)

	f := newGated(protein(1))
	close(f.release)
	_, applied, err := d.LoadCandidates(context.Background(), f, models.CategoryProtein)
	require.NoError(t, err)
	require.True(t, applied)

	// slot edits keep the position, navigation does not
	_, err = d.Dispatch(SetProtein(0, protein(1)))
	require.NoError(t, err)
	_, ok := d.Candidates(models.CategoryProtein)
	assert.True(t, ok)

	_, err = d.Dispatch(SetCarb(0, carb(2)))
	require.NoError(t, err)
	_, err = d.Dispatch(Advance())
	require.NoError(t, err)
	_, ok = d.Candidates(models.CategoryProtein)
	assert.False(t, ok)
}

func TestLoadCandidatesError(t *testing.T) {
	d := New()
	f := newGated()
	f.err = errors.New("offline")
	close(f.release)

	_, applied, err := d.LoadCandidates(context.Background(), f, models.CategoryCarb)
	assert.EqualError(t, err, "offline")
	assert.False(t, applied)
}
