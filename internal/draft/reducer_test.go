package draft

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mealplan-backend/internal/models"
)

func protein(id uint) Item {
	return Item{ID: id, Name: "protein", Category: models.CategoryProtein, Nutrition: models.Nutrition{Calories: 200, ProteinGrams: 30}}
}

func carb(id uint) Item {
	return Item{ID: id, Name: "carb", Category: models.CategoryCarb, Nutrition: models.Nutrition{Calories: 150, CarbsGrams: 35}}
}

func snack(id uint) Item {
	return Item{ID: id, Name: "snack", Category: models.CategorySnack, Nutrition: models.Nutrition{Calories: 90, ProteinGrams: 3, CarbsGrams: 12}}
}

func apply(t *testing.T, s State, actions ...Action) State {
	t.Helper()
	for _, a := range actions {
		var err error
		s, err = Reduce(s, a)
		require.NoError(t, err)
	}
	return s
}

func fill(t *testing.T, plan models.Plan) State {
	t.Helper()
	s := apply(t, State{}, Init(plan))
	for i := 0; i < plan.MealsPerDay; i++ {
		s = apply(t, s, SetProtein(i, protein(uint(10+i))), SetCarb(i, carb(uint(20+i))))
		if i < plan.MealsPerDay-1 {
			s = apply(t, s, Advance())
		}
	}
	return s
}

func TestInitAllocatesEmptySlots(t *testing.T) {
	for n := models.MinMealsPerDay; n <= models.MaxMealsPerDay; n++ {
		s := apply(t, State{}, Init(models.Plan{MealsPerDay: n}))
		assert.Equal(t, PhaseMeal, s.Phase())
		assert.Equal(t, 0, s.Current())
		require.Len(t, s.Slots(), n)
		for _, slot := range s.Slots() {
			assert.Nil(t, slot.Protein)
			assert.Nil(t, slot.Carb)
		}
	}
}

func TestInitRejectsPlanOutOfRange(t *testing.T) {
	for _, n := range []int{0, 6, -1} {
		_, err := Reduce(State{}, Init(models.Plan{MealsPerDay: n}))
		assert.ErrorIs(t, err, ErrInvalidPlan)
	}
}

func TestActionsBeforeInit(t *testing.T) {
	for _, a := range []Action{SetProtein(0, protein(1)), SetCarb(0, carb(2)), Advance(), Retreat()} {
		_, err := Reduce(State{}, a)
		assert.ErrorIs(t, err, ErrNotInitialized)
	}
}

func TestSetProteinClearsCarbForEverySlot(t *testing.T) {
	for n := models.MinMealsPerDay; n <= models.MaxMealsPerDay; n++ {
		for i := 0; i < n; i++ {
			for _, prior := range []uint{20, 21, 99} {
				s := apply(t, State{}, Init(models.Plan{MealsPerDay: n}),
					SetProtein(i, protein(1)), SetCarb(i, carb(prior)))
				slot, _ := s.Slot(i)
				require.NotNil(t, slot.Carb)

				s = apply(t, s, SetProtein(i, protein(2)))
				slot, _ = s.Slot(i)
				assert.Nil(t, slot.Carb, "slots=%d slot=%d carb=%d", n, i, prior)
				require.NotNil(t, slot.Protein)
				assert.Equal(t, uint(2), slot.Protein.ID)
			}
		}
	}
}

func TestSetCarbNeedsProtein(t *testing.T) {
	s := apply(t, State{}, Init(models.Plan{MealsPerDay: 2}))
	_, err := Reduce(s, SetCarb(0, carb(1)))
	assert.ErrorIs(t, err, ErrNeedsProtein)
}

func TestWrongCategoryAndRange(t *testing.T) {
	s := apply(t, State{}, Init(models.Plan{MealsPerDay: 2}))

	_, err := Reduce(s, SetProtein(0, carb(1)))
	assert.ErrorIs(t, err, ErrWrongCategory)

	_, err = Reduce(s, SetProtein(2, protein(1)))
	assert.ErrorIs(t, err, ErrSlotOutOfRange)

	_, err = Reduce(s, SetProtein(-1, protein(1)))
	assert.ErrorIs(t, err, ErrSlotOutOfRange)
}

func TestReduceLeavesStateUntouched(t *testing.T) {
	s := apply(t, State{}, Init(models.Plan{MealsPerDay: 1}), SetProtein(0, protein(1)), SetCarb(0, carb(2)))

	next := apply(t, s, SetProtein(0, protein(3)))

	slot, _ := s.Slot(0)
	require.NotNil(t, slot.Carb)
	assert.Equal(t, uint(1), slot.Protein.ID)
	nextSlot, _ := next.Slot(0)
	assert.Nil(t, nextSlot.Carb)
}

func TestIsCompleteIgnoresSnack(t *testing.T) {
	for n := models.MinMealsPerDay; n <= models.MaxMealsPerDay; n++ {
		for _, withSnack := range []bool{false, true} {
			plan := models.Plan{MealsPerDay: n, IncludesSnack: withSnack}
			s := apply(t, State{}, Init(plan))
			assert.False(t, IsComplete(s))

			s = fill(t, plan)
			assert.True(t, IsComplete(s), "slots=%d snack=%v", n, withSnack)
			assert.Nil(t, s.Snack())

			// any single missing carb breaks completeness
			for i := 0; i < n; i++ {
				broken := apply(t, s, SetProtein(i, protein(50)))
				assert.False(t, IsComplete(broken))
			}
		}
	}
}

func TestAdvanceNeedsCompleteSlot(t *testing.T) {
	s := apply(t, State{}, Init(models.Plan{MealsPerDay: 3}), SetProtein(0, protein(1)))
	_, err := Reduce(s, Advance())
	assert.ErrorIs(t, err, ErrSlotIncomplete)

	s = apply(t, s, SetCarb(0, carb(2)), Advance())
	assert.Equal(t, PhaseMeal, s.Phase())
	assert.Equal(t, 1, s.Current())
}

func TestLastSlotWithoutSnackCompletes(t *testing.T) {
	s := fill(t, models.Plan{MealsPerDay: 2})
	s = apply(t, s, Advance())
	assert.Equal(t, PhaseComplete, s.Phase())

	_, err := Reduce(s, Advance())
	assert.ErrorIs(t, err, ErrCannotAdvance)
}

func TestSnackStep(t *testing.T) {
	plan := models.Plan{MealsPerDay: 2, IncludesSnack: true}

	s := apply(t, fill(t, plan), Advance())
	require.Equal(t, PhaseSnack, s.Phase())

	_, err := Reduce(s, SetSnack(protein(5)))
	assert.ErrorIs(t, err, ErrWrongCategory)

	chosen := apply(t, s, SetSnack(snack(7)))
	assert.Equal(t, PhaseComplete, chosen.Phase())
	require.NotNil(t, chosen.Snack())
	assert.Equal(t, uint(7), chosen.Snack().ID)

	skipped := apply(t, chosen, Retreat(), SkipSnack())
	assert.Equal(t, PhaseComplete, skipped.Phase())
	assert.Nil(t, skipped.Snack())
}

func TestSnackActionsOutsideSnackStep(t *testing.T) {
	s := apply(t, State{}, Init(models.Plan{MealsPerDay: 1, IncludesSnack: true}))
	_, err := Reduce(s, SetSnack(snack(1)))
	assert.ErrorIs(t, err, ErrNotAtSnack)
	_, err = Reduce(s, SkipSnack())
	assert.ErrorIs(t, err, ErrNotAtSnack)
}

func TestRetreat(t *testing.T) {
	plan := models.Plan{MealsPerDay: 3, IncludesSnack: true}
	s := apply(t, State{}, Init(plan))
	_, err := Reduce(s, Retreat())
	assert.ErrorIs(t, err, ErrCannotRetreat)

	s = apply(t, fill(t, plan), Advance())
	require.Equal(t, PhaseSnack, s.Phase())

	s = apply(t, s, Retreat())
	assert.Equal(t, PhaseMeal, s.Phase())
	assert.Equal(t, 2, s.Current())

	s = apply(t, s, Retreat())
	assert.Equal(t, 1, s.Current())

	done := apply(t, fill(t, plan), Advance(), SkipSnack(), Retreat())
	assert.Equal(t, PhaseSnack, done.Phase())

	noSnack := models.Plan{MealsPerDay: 2}
	done = apply(t, fill(t, noSnack), Advance(), Retreat())
	assert.Equal(t, PhaseMeal, done.Phase())
	assert.Equal(t, 1, done.Current())
}

func TestEditAfterCompleteReturnsToSlot(t *testing.T) {
	plan := models.Plan{MealsPerDay: 3, IncludesSnack: true}
	s := apply(t, fill(t, plan), Advance(), SetSnack(snack(9)))
	require.Equal(t, PhaseComplete, s.Phase())

	s = apply(t, s, SetProtein(1, protein(40)))
	assert.Equal(t, PhaseMeal, s.Phase())
	assert.Equal(t, 1, s.Current())
	assert.False(t, IsComplete(s))
	require.NotNil(t, s.Snack())
}

func TestReset(t *testing.T) {
	s := apply(t, fill(t, models.Plan{MealsPerDay: 2}), Reset())
	assert.False(t, s.Initialized())
	assert.Empty(t, s.Slots())
	assert.False(t, IsComplete(s))
}

func TestInitReplacesExistingDraft(t *testing.T) {
	s := fill(t, models.Plan{MealsPerDay: 3})
	s = apply(t, s, Init(models.Plan{MealsPerDay: 1}))
	require.Len(t, s.Slots(), 1)
	assert.Nil(t, s.Slots()[0].Protein)
}

func TestTotalsAndProgress(t *testing.T) {
	plan := models.Plan{MealsPerDay: 2, IncludesSnack: true}
	s := apply(t, State{}, Init(plan))
	assert.Zero(t, Progress(s))

	s = apply(t, s, SetProtein(0, protein(1)))
	assert.InDelta(t, 0.25, Progress(s), 1e-9)

	s = apply(t, s, SetCarb(0, carb(2)), Advance(), SetProtein(1, protein(3)), SetCarb(1, carb(4)), Advance(), SetSnack(snack(5)))
	assert.InDelta(t, 1.0, Progress(s), 1e-9)

	got := Totals(s)
	assert.InDelta(t, 2*200+2*150+90, got.Calories, 1e-9)
	assert.InDelta(t, 2*30+3, got.ProteinGrams, 1e-9)
	assert.InDelta(t, 2*35+12, got.CarbsGrams, 1e-9)
}

func TestSubmission(t *testing.T) {
	plan := models.Plan{MealsPerDay: 2, IncludesSnack: true}
	s := apply(t, State{}, Init(plan))
	_, err := Submission(s, "2026-03-02", "")
	assert.ErrorIs(t, err, ErrIncomplete)

	s = apply(t, fill(t, plan), Advance(), SkipSnack())
	require.Equal(t, PhaseComplete, s.Phase())

	req, err := Submission(s, "2026-03-02", "no onions")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-02", req.OrderDate)
	require.Len(t, req.Selections, 2)
	assert.Equal(t, uint(10), req.Selections[0].ProteinMealID)
	assert.Equal(t, uint(21), req.Selections[1].CarbMealID)
	assert.Empty(t, req.SnackMealIDs)
	require.NotNil(t, req.Totals)
	assert.InDelta(t, 700, req.Totals.Calories, 1e-9)
}
