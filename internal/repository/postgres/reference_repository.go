package postgres

import (
	"context"
	"fmt"

	"myCreditAdvisor/domain"

	"gorm.io/gorm"
)

// ReferenceRepository reads the reference dataset rows the neighbour index
// was built from.
type ReferenceRepository struct {
	DB    *gorm.DB
	table string
}

func NewReferenceRepository(db *gorm.DB, table string) *ReferenceRepository {
	if table == "" {
		table = domain.ReferenceCustomer{}.TableName()
	}
	return &ReferenceRepository{
		DB:    db,
		table: table,
	}
}

func (r *ReferenceRepository) LoadReferenceRows(ctx context.Context) ([]domain.ReferenceCustomer, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var rows []domain.ReferenceCustomer
	err := r.DB.WithContext(ctx).Table(r.table).Order("row_index ASC").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load reference rows: %w", err)
	}

	return rows, nil
}
