package repository

import (
	"context"

	"table_booking/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TableRepository interface {
	Create(ctx context.Context, table *domain.Table) error
	List(ctx context.Context) ([]domain.Table, error)
	FindByID(ctx context.Context, id uint) (*domain.Table, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*domain.Table, error)
}

type tableRepository struct {
	db *gorm.DB
}

func NewTableRepository(db *gorm.DB) TableRepository {
	return &tableRepository{db: db}
}

func (r *tableRepository) Create(ctx context.Context, table *domain.Table) error {
	return r.db.WithContext(ctx).Create(table).Error
}

func (r *tableRepository) List(ctx context.Context) ([]domain.Table, error) {
	var tables []domain.Table
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&tables).Error; err != nil {
		return nil, err
	}
	return tables, nil
}

func (r *tableRepository) FindByID(ctx context.Context, id uint) (*domain.Table, error) {
	var table domain.Table
	if err := r.db.WithContext(ctx).First(&table, id).Error; err != nil {
		return nil, err
	}
	return &table, nil
}

// FindByIDForUpdate locks the table row for the rest of the transaction. Every admission for
// the table queues behind it.
func (r *tableRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*domain.Table, error) {
	var table domain.Table
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&table, id).Error; err != nil {
		return nil, err
	}
	return &table, nil
}
