package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RolePlatform UserRole = "platform"
	RoleStaff    UserRole = "staff"
	RoleCustomer UserRole = "customer"
)

var (
	ErrUserTenantRequired   = errors.New("staff and customer users must belong to a tenant")
	ErrPlatformUserTenanted = errors.New("platform users cannot belong to a tenant")
	ErrUnknownRole          = errors.New("unknown user role")
)

func (r UserRole) Valid() bool {
	switch r {
	case RolePlatform, RoleStaff, RoleCustomer:
		return true
	}
	return false
}

// User is an actor. TenantID is nil only for platform users.
type User struct {
	ID           uint  `gorm:"primaryKey"`
	TenantID     *uint `gorm:"index"`
	Tenant       *Tenant
	Name         string   `gorm:"size:100;not null"`
	LoginKey     string   `gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string   `gorm:"size:255;not null"`
	Role         UserRole `gorm:"size:20;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// BeforeCreate enforces the role/tenant pairing for every insert path.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if !u.Role.Valid() {
		return ErrUnknownRole
	}
	if u.Role == RolePlatform && u.TenantID != nil {
		return ErrPlatformUserTenanted
	}
	if u.Role != RolePlatform && (u.TenantID == nil || *u.TenantID == 0) {
		return ErrUserTenantRequired
	}
	return nil
}
