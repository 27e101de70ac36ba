package repository

import (
	"context"

	"gorm.io/gorm"
)

// TxManager opens a transaction scope shared by several repositories.
// Callers rebind repositories onto the scope with WithTx so a multi-step
// mutation (populate, reorder, cascade delete) commits or rolls back as
// one unit.
type TxManager interface {
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type txManager struct {
	db *gorm.DB
}

func NewTxManager(db *gorm.DB) TxManager {
	return &txManager{db: db}
}

func (m *txManager) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return m.db.WithContext(ctx).Transaction(fn)
}
