package models

import "time"

type MealCategory string

const (
	CategoryProtein MealCategory = "protein"
	CategoryCarb    MealCategory = "carb"
	CategorySnack   MealCategory = "snack"
)

func (c MealCategory) Valid() bool {
	switch c {
	case CategoryProtein, CategoryCarb, CategorySnack:
		return true
	}
	return false
}

type Nutrition struct {
	Calories     float64 `json:"calories"`
	ProteinGrams float64 `json:"proteinGrams"`
	CarbsGrams   float64 `json:"carbsGrams"`
}

// Add returns the element-wise sum of n and o.
func (n Nutrition) Add(o Nutrition) Nutrition {
	return Nutrition{
		Calories:     n.Calories + o.Calories,
		ProteinGrams: n.ProteinGrams + o.ProteinGrams,
		CarbsGrams:   n.CarbsGrams + o.CarbsGrams,
	}
}

// MenuItem is a catalog meal. The ordering core only reads it.
type MenuItem struct {
	ID                 uint         `gorm:"primaryKey" json:"id"`
	TenantID           uint         `gorm:"index:idx_menu_items_tenant_category,priority:1;not null" json:"tenantId"`
	Name               string       `gorm:"size:150;not null" json:"name"`
	Category           MealCategory `gorm:"size:20;index:idx_menu_items_tenant_category,priority:2;not null" json:"category"`
	AvailabilityWindow string       `gorm:"size:50" json:"availabilityWindow"` // "lunch", "dinner", "all_day"
	Nutrition          Nutrition    `gorm:"embedded" json:"nutrition"`
	IsActive           bool         `gorm:"not null" json:"isActive"`
	CreatedAt          time.Time    `json:"createdAt"`
	UpdatedAt          time.Time    `json:"updatedAt"`
}

func (m *MenuItem) OwnerTenantID() uint  { return m.TenantID }
func (m *MenuItem) AssignTenant(id uint) { m.TenantID = id }
