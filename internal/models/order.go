package models

import "time"

type OrderStatus string

const (
	OrderReceived  OrderStatus = "received"
	OrderPreparing OrderStatus = "preparing"
	OrderReady     OrderStatus = "ready"
	OrderCompleted OrderStatus = "completed"
)

var orderStatusRank = map[OrderStatus]int{
	OrderReceived:  0,
	OrderPreparing: 1,
	OrderReady:     2,
	OrderCompleted: 3,
}

func (s OrderStatus) Valid() bool {
	_, ok := orderStatusRank[s]
	return ok
}

// Rank orders the lifecycle; -1 for unknown values.
func (s OrderStatus) Rank() int {
	if r, ok := orderStatusRank[s]; ok {
		return r
	}
	return -1
}

// Order is one customer's daily order. Selections, snack and snapshots are
// immutable after creation; only Status moves.
type Order struct {
	ID                   uint             `gorm:"primaryKey"`
	TenantID             uint             `gorm:"not null;uniqueIndex:idx_orders_tenant_customer_date,priority:1;uniqueIndex:idx_orders_tenant_number,priority:1"`
	CustomerID           uint             `gorm:"not null;uniqueIndex:idx_orders_tenant_customer_date,priority:2"`
	OrderDate            time.Time        `gorm:"not null;uniqueIndex:idx_orders_tenant_customer_date,priority:3"`
	OrderNumber          uint             `gorm:"not null;uniqueIndex:idx_orders_tenant_number,priority:2"`
	Status               OrderStatus      `gorm:"size:20;not null;index"`
	Selections           []OrderSelection `gorm:"constraint:OnDelete:CASCADE"`
	SnackItemID          *uint
	MacroTargetsSnapshot MacroTargets `gorm:"embedded;embeddedPrefix:target_"`
	Totals               Nutrition    `gorm:"embedded;embeddedPrefix:total_"`
	ClientTotals         Nutrition    `gorm:"embedded;embeddedPrefix:client_total_"` // informational echo only
	Notes                string       `gorm:"size:500"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func (o *Order) OwnerTenantID() uint  { return o.TenantID }
func (o *Order) AssignTenant(id uint) { o.TenantID = id }

type OrderSelection struct {
	ID            uint `gorm:"primaryKey"`
	OrderID       uint `gorm:"index;not null"`
	Slot          int  `gorm:"not null"`
	ProteinItemID uint `gorm:"not null"`
	CarbItemID    uint `gorm:"not null"`
}

// TenantOrderCounter holds the last order number handed out for a tenant.
type TenantOrderCounter struct {
	TenantID   uint `gorm:"primaryKey;autoIncrement:false"`
	LastNumber uint `gorm:"not null"`
}
