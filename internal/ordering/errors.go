package ordering

import (
	"net/http"

	"mealplan-backend/internal/apperr"
)

var (
	ErrInvalidDate          = apperr.Validation("INVALID_DATE", "orderDate must be YYYY-MM-DD")
	ErrPlanMismatch         = apperr.Validation("PLAN_MISMATCH", "number of selections does not match the plan's meals per day")
	ErrSnackNotAllowed      = apperr.Validation("SNACK_NOT_ALLOWED", "snack is not allowed for this order")
	ErrInvalidMealReference = apperr.Validation("INVALID_MEAL_REFERENCE", "a selected meal does not exist, is inactive, or has the wrong category")
	ErrInvalidStatus        = apperr.Validation("INVALID_STATUS", "status must be one of received, preparing, ready, completed")

	ErrOrderAlreadyExists      = apperr.New(http.StatusConflict, apperr.CodeOrderAlreadyExists, "an order already exists for this date")
	ErrInvalidStatusTransition = apperr.New(http.StatusConflict, apperr.CodeInvalidStatusTransition, "order status cannot move backward")
	ErrStatusChanged           = apperr.New(http.StatusConflict, apperr.CodeConflict, "order status changed concurrently, reload and retry")
)
