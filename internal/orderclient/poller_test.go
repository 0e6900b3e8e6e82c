package orderclient

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"mealplan-backend/internal/apperr"
	"mealplan-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scripted struct {
	mu    sync.Mutex
	steps []any // models.OrderStatus or error
	calls int
}

func (s *scripted) OrderStatus(ctx context.Context, id uint) (models.OrderStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	step := s.steps[len(s.steps)-1]
	if s.calls < len(s.steps) {
		step = s.steps[s.calls]
	}
	s.calls++
	if err, ok := step.(error); ok {
		return "", err
	}
	return step.(models.OrderStatus), nil
}

func TestWatchReportsChangesUntilCompleted(t *testing.T) {
	f := &scripted{steps: []any{
		models.OrderReceived,
		models.OrderReceived,
		errors.New("connection reset"),
		models.OrderReady,
		models.OrderReady,
		models.OrderCompleted,
	}}
	var seen []models.OrderStatus
	final, err := NewPoller(f, time.Millisecond).Watch(context.Background(), 1, func(s models.OrderStatus) {
		seen = append(seen, s)
	})
	require.NoError(t, err)
	assert.Equal(t, models.OrderCompleted, final)
	assert.Equal(t, []models.OrderStatus{models.OrderReceived, models.OrderReady, models.OrderCompleted}, seen)
	assert.Equal(t, 6, f.calls)
}

func TestWatchStopsOnContext(t *testing.T) {
	f := &scripted{steps: []any{models.OrderPreparing}}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	final, err := NewPoller(f, time.Millisecond).Watch(ctx, 1, nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, models.OrderPreparing, final)
}

func TestWatchEndsOnClientError(t *testing.T) {
	notFound := apperr.New(http.StatusNotFound, apperr.CodeNotFound, "resource not found")
	f := &scripted{steps: []any{models.OrderReceived, notFound}}

	final, err := NewPoller(f, time.Millisecond).Watch(context.Background(), 1, nil)
	assert.ErrorIs(t, err, notFound)
	assert.Equal(t, models.OrderReceived, final)
	assert.Equal(t, 2, f.calls)
}

func TestWatchAlreadyCompletedReturnsWithoutTicking(t *testing.T) {
	f := &scripted{steps: []any{models.OrderCompleted}}
	final, err := NewPoller(f, time.Hour).Watch(context.Background(), 1, nil)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCompleted, final)
	assert.Equal(t, 1, f.calls)
}
