package draft

import "mealplan-backend/internal/models"

// Action is one transition request.
type Action interface {
	apply(State) (State, error)
}

// Reduce applies a to s. On error s is returned unchanged.
func Reduce(s State, a Action) (State, error) {
	next, err := a.apply(s)
	if err != nil {
		return s, err
	}
	return next, nil
}

type initAction struct{ plan models.Plan }

// Init allocates plan.MealsPerDay empty slots and starts at slot 0,
// replacing whatever the draft held before.
func Init(plan models.Plan) Action { return initAction{plan: plan} }

func (a initAction) apply(s State) (State, error) {
	if a.plan.MealsPerDay < models.MinMealsPerDay || a.plan.MealsPerDay > models.MaxMealsPerDay {
		return s, ErrInvalidPlan
	}
	return State{
		plan:     a.plan,
		slots:    make([]Slot, a.plan.MealsPerDay),
		phase:    PhaseMeal,
		position: s.position + 1,
	}, nil
}

type resetAction struct{}

// Reset discards everything and returns to the uninitialized state.
func Reset() Action { return resetAction{} }

func (resetAction) apply(s State) (State, error) {
	return State{position: s.position + 1}, nil
}

type setProteinAction struct {
	slot int
	item Item
}

// SetProtein picks the protein for slot i and clears that slot's carb.
func SetProtein(i int, item Item) Action { return setProteinAction{slot: i, item: item} }

func (a setProteinAction) apply(s State) (State, error) {
	if err := checkSlot(s, a.slot, a.item, models.CategoryProtein); err != nil {
		return s, err
	}
	s = s.withSlots()
	item := a.item
	s.slots[a.slot] = Slot{Protein: &item}
	// the slot is now incomplete, so a finished draft goes back to it
	if s.phase != PhaseMeal {
		s = s.moveTo(PhaseMeal, a.slot)
	}
	return s, nil
}

type setCarbAction struct {
	slot int
	item Item
}

// SetCarb picks the carb for slot i. The slot's protein must already be set.
func SetCarb(i int, item Item) Action { return setCarbAction{slot: i, item: item} }

func (a setCarbAction) apply(s State) (State, error) {
	if err := checkSlot(s, a.slot, a.item, models.CategoryCarb); err != nil {
		return s, err
	}
	if s.slots[a.slot].Protein == nil {
		return s, ErrNeedsProtein
	}
	s = s.withSlots()
	item := a.item
	s.slots[a.slot].Carb = &item
	return s, nil
}

func checkSlot(s State, i int, item Item, want models.MealCategory) error {
	if !s.Initialized() {
		return ErrNotInitialized
	}
	if i < 0 || i >= len(s.slots) {
		return ErrSlotOutOfRange
	}
	if item.Category != want {
		return ErrWrongCategory
	}
	return nil
}

type advanceAction struct{}

// Advance moves from a complete slot to the next one. From the last slot it
// goes to the snack step when the plan has one, otherwise straight to
// PhaseComplete.
func Advance() Action { return advanceAction{} }

func (advanceAction) apply(s State) (State, error) {
	switch s.phase {
	case PhaseUninitialized:
		return s, ErrNotInitialized
	case PhaseMeal:
	default:
		return s, ErrCannotAdvance
	}
	if !s.slots[s.current].Complete() {
		return s, ErrSlotIncomplete
	}
	if s.current < s.last() {
		return s.moveTo(PhaseMeal, s.current+1), nil
	}
	if s.plan.IncludesSnack {
		return s.moveTo(PhaseSnack, s.current), nil
	}
	if !IsComplete(s) {
		return s, ErrIncomplete
	}
	return s.moveTo(PhaseComplete, s.current), nil
}

type retreatAction struct{}

// Retreat steps back one slot, or from the snack step to the last slot.
// From PhaseComplete it returns to the step that led there.
func Retreat() Action { return retreatAction{} }

func (retreatAction) apply(s State) (State, error) {
	switch s.phase {
	case PhaseUninitialized:
		return s, ErrNotInitialized
	case PhaseMeal:
		if s.current == 0 {
			return s, ErrCannotRetreat
		}
		return s.moveTo(PhaseMeal, s.current-1), nil
	case PhaseSnack:
		return s.moveTo(PhaseMeal, s.last()), nil
	default:
		if s.plan.IncludesSnack {
			return s.moveTo(PhaseSnack, s.last()), nil
		}
		return s.moveTo(PhaseMeal, s.last()), nil
	}
}

type setSnackAction struct{ item Item }

// SetSnack chooses the snack and completes the draft.
func SetSnack(item Item) Action { return setSnackAction{item: item} }

func (a setSnackAction) apply(s State) (State, error) {
	if s.phase != PhaseSnack {
		return s, ErrNotAtSnack
	}
	if a.item.Category != models.CategorySnack {
		return s, ErrWrongCategory
	}
	if !IsComplete(s) {
		return s, ErrIncomplete
	}
	item := a.item
	s.snack = &item
	return s.moveTo(PhaseComplete, s.current), nil
}

type skipSnackAction struct{}

// SkipSnack clears any snack and completes the draft.
func SkipSnack() Action { return skipSnackAction{} }

func (skipSnackAction) apply(s State) (State, error) {
	if s.phase != PhaseSnack {
		return s, ErrNotAtSnack
	}
	if !IsComplete(s) {
		return s, ErrIncomplete
	}
	s.snack = nil
	return s.moveTo(PhaseComplete, s.current), nil
}
