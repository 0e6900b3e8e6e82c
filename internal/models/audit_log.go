package models

import (
	"time"

	"gorm.io/datatypes"
)

type AuditAction string

const (
	AuditActionCreate       AuditAction = "create"
	AuditActionStatusChange AuditAction = "status_change"
	AuditActionNotify       AuditAction = "notify"
)

type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	TenantID uint `gorm:"index;not null" json:"tenant_id"`

	UserID   uint   `json:"user_id"`
	UserName string `gorm:"size:100" json:"user_name"`

	// "order", "notification"
	EntityType string `gorm:"size:50;index" json:"entity_type"`
	EntityID   uint   `gorm:"index" json:"entity_id"`

	Action      AuditAction `gorm:"size:20" json:"action"`
	Description string      `gorm:"size:255" json:"description"`

	BeforeData datatypes.JSON `json:"before_data"`
	AfterData  datatypes.JSON `json:"after_data"`
}

func (a *AuditLog) OwnerTenantID() uint  { return a.TenantID }
func (a *AuditLog) AssignTenant(id uint) { a.TenantID = id }
