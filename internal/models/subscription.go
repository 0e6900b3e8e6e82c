package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

type SubscriptionStatus string

const (
	SubscriptionActive SubscriptionStatus = "active"
	SubscriptionPaused SubscriptionStatus = "paused"
)

const (
	MinMealsPerDay = 1
	MaxMealsPerDay = 5
)

var (
	ErrMealsPerDayRange = errors.New("mealsPerDay must be between 1 and 5")
	ErrPeriodInverted   = errors.New("subscription period end is before start")
)

// Plan governs the shape of every order placed under a subscription.
type Plan struct {
	MealsPerDay   int  `gorm:"not null" json:"mealsPerDay"`
	IncludesSnack bool `gorm:"not null" json:"includesSnack"`
}

type MacroTargets struct {
	ProteinGrams float64 `json:"proteinGrams"`
	CarbsGrams   float64 `json:"carbsGrams"`
}

type Subscription struct {
	ID                uint               `gorm:"primaryKey"`
	TenantID          uint               `gorm:"index:idx_subscriptions_tenant_customer,priority:1;not null"`
	CustomerID        uint               `gorm:"index:idx_subscriptions_tenant_customer,priority:2;not null"`
	Plan              Plan               `gorm:"embedded;embeddedPrefix:plan_"`
	DailyMacroTargets MacroTargets       `gorm:"embedded;embeddedPrefix:target_"`
	PeriodStart       time.Time          `gorm:"not null"`
	PeriodEnd         time.Time          `gorm:"not null"`
	Status            SubscriptionStatus `gorm:"size:20;not null"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (s *Subscription) OwnerTenantID() uint  { return s.TenantID }
func (s *Subscription) AssignTenant(id uint) { s.TenantID = id }

func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.Plan.MealsPerDay < MinMealsPerDay || s.Plan.MealsPerDay > MaxMealsPerDay {
		return ErrMealsPerDayRange
	}
	if s.PeriodEnd.Before(s.PeriodStart) {
		return ErrPeriodInverted
	}
	return nil
}

// Covers reports whether day falls inside the subscription period, inclusive.
func (s *Subscription) Covers(day time.Time) bool {
	day = DateOnly(day)
	return !day.Before(DateOnly(s.PeriodStart)) && !day.After(DateOnly(s.PeriodEnd))
}
