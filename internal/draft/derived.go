package draft

import (
	"mealplan-backend/internal/models"
	"mealplan-backend/internal/wire"
)

// IsComplete is true when every slot has both a protein and a carb. The
// snack never matters.
func IsComplete(s State) bool {
	if !s.Initialized() || len(s.slots) == 0 {
		return false
	}
	for _, slot := range s.slots {
		if !slot.Complete() {
			return false
		}
	}
	return true
}

// Totals sums every chosen item, snack included.
func Totals(s State) models.Nutrition {
	var total models.Nutrition
	for _, slot := range s.slots {
		if slot.Protein != nil {
			total = total.Add(slot.Protein.Nutrition)
		}
		if slot.Carb != nil {
			total = total.Add(slot.Carb.Nutrition)
		}
	}
	if s.snack != nil {
		total = total.Add(s.snack.Nutrition)
	}
	return total
}

// Progress is the share of protein/carb choices made, in [0, 1].
func Progress(s State) float64 {
	if len(s.slots) == 0 {
		return 0
	}
	filled := 0
	for _, slot := range s.slots {
		if slot.Protein != nil {
			filled++
		}
		if slot.Carb != nil {
			filled++
		}
	}
	return float64(filled) / float64(len(s.slots)*2)
}

// Submission renders a complete draft as the order request body.
func Submission(s State, orderDate, notes string) (wire.SubmitOrderRequest, error) {
	if !IsComplete(s) {
		return wire.SubmitOrderRequest{}, ErrIncomplete
	}
	req := wire.SubmitOrderRequest{
		OrderDate:  orderDate,
		Selections: make([]wire.Selection, 0, len(s.slots)),
		Notes:      notes,
	}
	for _, slot := range s.slots {
		req.Selections = append(req.Selections, wire.Selection{
			ProteinMealID: slot.Protein.ID,
			CarbMealID:    slot.Carb.ID,
		})
	}
	if s.snack != nil {
		req.SnackMealIDs = []uint{s.snack.ID}
	}
	t := Totals(s)
	req.Totals = &wire.Nutrition{Calories: t.Calories, ProteinGrams: t.ProteinGrams, CarbsGrams: t.CarbsGrams}
	return req, nil
}
