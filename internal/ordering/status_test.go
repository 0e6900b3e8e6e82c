package ordering

import (
	"context"
	"testing"

	"mealplan-backend/internal/models"
	"mealplan-backend/internal/repository"
	"mealplan-backend/internal/tenant"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	all := []models.OrderStatus{models.OrderReceived, models.OrderPreparing, models.OrderReady, models.OrderCompleted}
	for i, from := range all {
		for j, to := range all {
			assert.Equal(t, j >= i, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
	assert.False(t, CanTransition(models.OrderReceived, "cancelled"))
}

func TestUpdateStatusForwardAndBackward(t *testing.T) {
	f := newFixture(t, models.Plan{MealsPerDay: 1})
	ctx := context.Background()
	order, err := f.svc.Submit(ctx, f.customer, f.request(1))
	require.NoError(t, err)

	got, err := f.svc.UpdateStatus(ctx, f.staff, order.ID, "ready")
	require.NoError(t, err)
	assert.Equal(t, models.OrderReady, got.Status)

	_, err = f.svc.UpdateStatus(ctx, f.staff, order.ID, "preparing")
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)

	got, err = f.svc.UpdateStatus(ctx, f.staff, order.ID, "ready")
	require.NoError(t, err)
	assert.Equal(t, models.OrderReady, got.Status)

	got, err = f.svc.UpdateStatus(ctx, f.staff, order.ID, "completed")
	require.NoError(t, err)
	assert.Equal(t, models.OrderCompleted, got.Status)

	stored, err := f.svc.Get(ctx, f.staff, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCompleted, stored.Status)

	logs, err := f.store.AuditLogs().Find(ctx, f.staff, repository.Query{
		Filter: repository.Filter{"action": models.AuditActionStatusChange},
	})
	require.NoError(t, err)
	assert.Len(t, logs, 2)
}

func TestUpdateStatusGuards(t *testing.T) {
	f := newFixture(t, models.Plan{MealsPerDay: 1})
	ctx := context.Background()
	order, err := f.svc.Submit(ctx, f.customer, f.request(1))
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(ctx, f.staff, order.ID, "cooking")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = f.svc.UpdateStatus(ctx, f.customer, order.ID, "ready")
	assert.ErrorIs(t, err, tenant.ErrForbidden)

	_, err = f.svc.UpdateStatus(ctx, f.otherSt, order.ID, "ready")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = f.svc.UpdateStatus(ctx, tenant.Platform(1), order.ID, "ready")
	assert.Error(t, err)
}
