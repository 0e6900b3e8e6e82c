// Package wire holds the JSON contract shared by the HTTP handlers and the
// client-side draft and poller.
package wire

import "time"

type Nutrition struct {
	Calories     float64 `json:"calories"`
	ProteinGrams float64 `json:"proteinGrams"`
	CarbsGrams   float64 `json:"carbsGrams"`
}

type MacroTargets struct {
	ProteinGrams float64 `json:"proteinGrams"`
	CarbsGrams   float64 `json:"carbsGrams"`
}

type Selection struct {
	ProteinMealID uint `json:"proteinMealId" validate:"required"`
	CarbMealID    uint `json:"carbMealId" validate:"required"`
}

// SubmitOrderRequest is the body of POST /api/orders.
type SubmitOrderRequest struct {
	OrderDate    string      `json:"orderDate" validate:"required,datetime=2006-01-02"`
	Selections   []Selection `json:"selections" validate:"required,dive"`
	SnackMealIDs []uint      `json:"snackMealIds,omitempty"`
	Notes        string      `json:"notes,omitempty" validate:"max=500"`
	// Totals are the client's own arithmetic, stored as an echo only.
	Totals *Nutrition `json:"totals,omitempty"`
}

type SubmitOrderResponse struct {
	OrderID      uint         `json:"orderId"`
	OrderNumber  uint         `json:"orderNumber"`
	Status       string       `json:"status"`
	CreatedAt    time.Time    `json:"createdAt"`
	Totals       Nutrition    `json:"totals"`
	MacroTargets MacroTargets `json:"macroTargets"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type StatusResponse struct {
	OrderID   uint      `json:"orderId"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type NotifyResponse struct {
	NotificationID  uint `json:"notificationId"`
	Sent            bool `json:"sent"`
	AlreadyNotified bool `json:"alreadyNotified"`
}

type OrderSelection struct {
	Slot          int  `json:"slot"`
	ProteinMealID uint `json:"proteinMealId"`
	CarbMealID    uint `json:"carbMealId"`
}

type OrderResponse struct {
	ID           uint             `json:"id"`
	OrderNumber  uint             `json:"orderNumber"`
	CustomerID   uint             `json:"customerId"`
	OrderDate    string           `json:"orderDate"`
	Status       string           `json:"status"`
	Selections   []OrderSelection `json:"selections"`
	SnackMealID  *uint            `json:"snackMealId"`
	MacroTargets MacroTargets     `json:"macroTargets"`
	Totals       Nutrition        `json:"totals"`
	ClientTotals Nutrition        `json:"clientTotals"`
	Notes        string           `json:"notes"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

type NotificationResponse struct {
	ID        uint      `json:"id"`
	OrderID   uint      `json:"orderId"`
	Kind      string    `json:"kind"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

type MarkReadRequest struct {
	IsRead *bool `json:"isRead" validate:"required"`
}
