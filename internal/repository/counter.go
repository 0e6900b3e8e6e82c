package repository

import (
	"context"

	"mealplan-backend/internal/models"
	"mealplan-backend/internal/tenant"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NextOrderNumber increments and returns the caller tenant's order counter.
// Call it inside Tx together with the insert it numbers; the row update holds
// the counter lock until commit.
func (s *Store) NextOrderNumber(ctx context.Context, tc tenant.Context) (uint, error) {
	tid, err := tc.RequireTenant()
	if err != nil {
		return 0, err
	}
	db := s.db.WithContext(ctx)

	seed := models.TenantOrderCounter{TenantID: tid, LastNumber: 0}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
		return 0, translate(err)
	}

	res := db.Model(&models.TenantOrderCounter{}).
		Where("tenant_id = ?", tid).
		UpdateColumn("last_number", gorm.Expr("last_number + 1"))
	if res.Error != nil {
		return 0, translate(res.Error)
	}

	var counter models.TenantOrderCounter
	if err := db.Take(&counter, "tenant_id = ?", tid).Error; err != nil {
		return 0, translate(err)
	}
	return counter.LastNumber, nil
}
