package catalog

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"mealplan-backend/internal/database/dbtest"
	"mealplan-backend/internal/models"
	"mealplan-backend/internal/repository"
	"mealplan-backend/internal/tenant"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemoryCache() *memoryCache { return &memoryCache{data: map[string][]byte{}} }

func (m *memoryCache) Get(_ context.Context, key string, dest any) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.data[key]
	return ok && json.Unmarshal(b, dest) == nil
}

func (m *memoryCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = b
	m.sets++
	return nil
}

func (m *memoryCache) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func setup(t *testing.T) (*Service, *memoryCache, tenant.Context, tenant.Context) {
	t.Helper()
	ctx := context.Background()
	store := repository.New(dbtest.New(t))
	a := &models.Tenant{Name: "A"}
	b := &models.Tenant{Name: "B"}
	require.NoError(t, store.CreateTenant(ctx, a))
	require.NoError(t, store.CreateTenant(ctx, b))
	mc := newMemoryCache()
	return NewService(store, mc, time.Minute), mc, tenant.For(1, models.RoleStaff, a.ID), tenant.For(2, models.RoleStaff, b.ID)
}

func TestCandidatesFiltersCategoryActiveAndTenant(t *testing.T) {
	svc, _, staffA, staffB := setup(t)
	ctx := context.Background()
	inactive := false

	_, err := svc.Create(ctx, staffA, CreateItemInput{Name: "Salmon", Category: models.CategoryProtein, ProteinGrams: 30})
	require.NoError(t, err)
	_, err = svc.Create(ctx, staffA, CreateItemInput{Name: "Beef", Category: models.CategoryProtein, IsActive: &inactive})
	require.NoError(t, err)
	_, err = svc.Create(ctx, staffA, CreateItemInput{Name: "Rice", Category: models.CategoryCarb})
	require.NoError(t, err)
	_, err = svc.Create(ctx, staffB, CreateItemInput{Name: "Tofu", Category: models.CategoryProtein})
	require.NoError(t, err)

	items, err := svc.Candidates(ctx, staffA, models.CategoryProtein)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Salmon", items[0].Name)
}

func TestCandidatesUsesCacheAndCreateInvalidates(t *testing.T) {
	svc, mc, staffA, _ := setup(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, staffA, CreateItemInput{Name: "Apple", Category: models.CategorySnack})
	require.NoError(t, err)

	first, err := svc.Candidates(ctx, staffA, models.CategorySnack)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 1, mc.sets)

	_, err = svc.Candidates(ctx, staffA, models.CategorySnack)
	require.NoError(t, err)
	assert.Equal(t, 1, mc.sets, "second read should be a cache hit")

	_, err = svc.Create(ctx, staffA, CreateItemInput{Name: "Nuts", Category: models.CategorySnack})
	require.NoError(t, err)
	again, err := svc.Candidates(ctx, staffA, models.CategorySnack)
	require.NoError(t, err)
	assert.Len(t, again, 2)
}

func TestCandidatesRejectsUnknownCategory(t *testing.T) {
	svc, _, staffA, _ := setup(t)
	_, err := svc.Candidates(context.Background(), staffA, "dessert")
	assert.ErrorIs(t, err, ErrInvalidCategory)
}

func TestLookupIgnoresOtherTenants(t *testing.T) {
	svc, _, staffA, staffB := setup(t)
	ctx := context.Background()

	mine, err := svc.Create(ctx, staffA, CreateItemInput{Name: "Egg", Category: models.CategoryProtein})
	require.NoError(t, err)
	theirs, err := svc.Create(ctx, staffB, CreateItemInput{Name: "Ham", Category: models.CategoryProtein})
	require.NoError(t, err)

	got, err := svc.Lookup(ctx, staffA, []uint{mine.ID, theirs.ID, mine.ID})
	require.NoError(t, err)
	assert.Contains(t, got, mine.ID)
	assert.NotContains(t, got, theirs.ID)
}
