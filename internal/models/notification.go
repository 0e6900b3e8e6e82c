package models

import "time"

type NotificationKind string

const NotificationOrderReady NotificationKind = "order_ready"

// Notification is created at most once per (OrderID, Kind); the unique index
// is what enforces it.
type Notification struct {
	ID         uint             `gorm:"primaryKey"`
	TenantID   uint             `gorm:"index;not null"`
	CustomerID uint             `gorm:"index;not null"`
	OrderID    uint             `gorm:"not null;uniqueIndex:idx_notifications_order_kind,priority:1"`
	Kind       NotificationKind `gorm:"size:30;not null;uniqueIndex:idx_notifications_order_kind,priority:2"`
	IsRead     bool             `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (n *Notification) OwnerTenantID() uint  { return n.TenantID }
func (n *Notification) AssignTenant(id uint) { n.TenantID = id }
