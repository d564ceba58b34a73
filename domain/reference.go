package domain

import "gorm.io/datatypes"

// CREATE TABLE public.reference_customers (
//     row_index   INTEGER PRIMARY KEY,
//     features    JSONB NOT NULL,
//     scores      JSONB NOT NULL
// );

// ReferenceCustomer is one historical row of the reference dataset when it is
// stored in Postgres. RowIndex must match the row position used to build the
// neighbour index.
type ReferenceCustomer struct {
	RowIndex int               `gorm:"column:row_index;primaryKey" json:"row_index"`
	Features datatypes.JSONMap `gorm:"column:features;type:jsonb" json:"features"`
	Scores   datatypes.JSONMap `gorm:"column:scores;type:jsonb" json:"scores"`
}

func (ReferenceCustomer) TableName() string {
	return "reference_customers"
}
