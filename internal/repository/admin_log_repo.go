package repository

import (
	"context"

	"table_booking/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AdminLogRepository interface {
	Create(ctx context.Context, tx *gorm.DB, entry *domain.AdminLog) error
	List(ctx context.Context, offset, limit int) ([]domain.AdminLog, int64, error)
}

type adminLogRepository struct {
	db *gorm.DB
}

func NewAdminLogRepository(db *gorm.DB) AdminLogRepository {
	return &adminLogRepository{db: db}
}

func (r *adminLogRepository) Create(ctx context.Context, tx *gorm.DB, entry *domain.AdminLog) error {
	return tx.WithContext(ctx).Omit("Admin").Create(entry).Error
}

// List returns the newest entries first.
func (r *adminLogRepository) List(ctx context.Context, offset, limit int) ([]domain.AdminLog, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.AdminLog{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	logs := []domain.AdminLog{}
	err := r.db.WithContext(ctx).
		Order(clause.OrderBy{Columns: []clause.OrderByColumn{
			{Column: clause.Column{Name: "timestamp"}, Desc: true},
			{Column: clause.Column{Name: "id"}, Desc: true},
		}}).
		Offset(offset).
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}
