// Package draft builds a customer's order before submission. State is an
// immutable value; every change goes through Reduce, which returns a new
// State or an error and leaves the old one untouched.
package draft

import (
	"errors"

	"mealplan-backend/internal/models"
)

var (
	ErrNotInitialized = errors.New("draft: not initialized")
	ErrInvalidPlan    = errors.New("draft: mealsPerDay must be between 1 and 5")
	ErrSlotOutOfRange = errors.New("draft: slot index out of range")
	ErrWrongCategory  = errors.New("draft: item has the wrong category for this step")
	ErrNeedsProtein   = errors.New("draft: choose a protein before the carb")
	ErrSlotIncomplete = errors.New("draft: current slot needs a protein and a carb")
	ErrCannotAdvance  = errors.New("draft: no forward step from here")
	ErrCannotRetreat  = errors.New("draft: no previous step")
	ErrNotAtSnack     = errors.New("draft: snack can only be chosen at the snack step")
	ErrIncomplete     = errors.New("draft: every slot needs a protein and a carb")
)

type Phase int

const (
	PhaseUninitialized Phase = iota
	PhaseMeal
	PhaseSnack
	PhaseComplete
)

func (p Phase) String() string {
	switch p {
	case PhaseMeal:
		return "meal"
	case PhaseSnack:
		return "snack"
	case PhaseComplete:
		return "complete"
	}
	return "uninitialized"
}

// Item is a catalog entry as the client sees it.
type Item struct {
	ID        uint                `json:"id"`
	Name      string              `json:"name"`
	Category  models.MealCategory `json:"category"`
	Nutrition models.Nutrition    `json:"nutrition"`
}

type Slot struct {
	Protein *Item
	Carb    *Item
}

func (s Slot) Complete() bool { return s.Protein != nil && s.Carb != nil }

// State is never mutated after construction; accessors return copies.
type State struct {
	plan    models.Plan
	slots   []Slot
	snack   *Item
	phase   Phase
	current int
	// position bumps whenever phase or current slot changes, so async
	// results can tell they were requested for an earlier position.
	position uint64
}

func (s State) Plan() models.Plan { return s.plan }
func (s State) Phase() Phase      { return s.phase }

// Current is the active slot index; meaningful in PhaseMeal.
func (s State) Current() int      { return s.current }
func (s State) Position() uint64  { return s.position }
func (s State) Initialized() bool { return s.phase != PhaseUninitialized }

func (s State) Slots() []Slot {
	out := make([]Slot, len(s.slots))
	copy(out, s.slots)
	return out
}

func (s State) Slot(i int) (Slot, bool) {
	if i < 0 || i >= len(s.slots) {
		return Slot{}, false
	}
	return s.slots[i], true
}

func (s State) Snack() *Item {
	if s.snack == nil {
		return nil
	}
	snack := *s.snack
	return &snack
}

func (s State) last() int { return len(s.slots) - 1 }

func (s State) withSlots() State {
	s.slots = append([]Slot(nil), s.slots...)
	return s
}

func (s State) moveTo(phase Phase, current int) State {
	if s.phase != phase || s.current != current {
		s.phase = phase
		s.current = current
		s.position++
	}
	return s
}
