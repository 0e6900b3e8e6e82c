// Package repository is the only code that touches the database. Every
// tenant-owned read is filtered by the caller's tenant and every write is
// stamped with it; there is no way to pass a tenant id in from outside.
package repository

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"mealplan-backend/internal/apperr"
	"mealplan-backend/internal/models"

	"gorm.io/gorm"
)

var (
	// ErrNotFound covers both "missing" and "belongs to another tenant".
	ErrNotFound       = apperr.New(http.StatusNotFound, apperr.CodeNotFound, "resource not found")
	ErrTenantMismatch = apperr.New(http.StatusBadRequest, apperr.CodeTenantMismatch, "payload tenant does not match the authenticated tenant")
	// ErrConflict is a unique index violation.
	ErrConflict = apperr.New(http.StatusConflict, apperr.CodeConflict, "record conflicts with an existing one")
)

// Filter is an equality filter keyed by column name. Slice values become IN.
type Filter map[string]any

// Range bounds Column inclusively. A nil end is open.
type Range struct {
	Column   string
	From, To any
}

type Query struct {
	Filter  Filter
	Ranges  []Range
	Order   string
	Limit   int
	Preload []string
}

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Tx runs fn inside one database transaction. fn must only use the Store it
// is handed.
func (s *Store) Tx(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) MenuItems() Scoped[models.MenuItem, *models.MenuItem] {
	return Scoped[models.MenuItem, *models.MenuItem]{db: s.db}
}

func (s *Store) Subscriptions() Scoped[models.Subscription, *models.Subscription] {
	return Scoped[models.Subscription, *models.Subscription]{db: s.db}
}

func (s *Store) Orders() Scoped[models.Order, *models.Order] {
	return Scoped[models.Order, *models.Order]{db: s.db}
}

func (s *Store) Notifications() Scoped[models.Notification, *models.Notification] {
	return Scoped[models.Notification, *models.Notification]{db: s.db}
}

func (s *Store) AuditLogs() Scoped[models.AuditLog, *models.AuditLog] {
	return Scoped[models.AuditLog, *models.AuditLog]{db: s.db}
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrConflict.Wrap(err)
	}
	return fmt.Errorf("repository: %w", err)
}
