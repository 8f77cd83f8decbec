// Package store is the Postgres persistence layer for statements and
// transactions.
package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/insightdelivered/statement-ingest/internal/models"
)

// Store wraps a gorm connection with the operations the ingest core relies
// on: header insert, reference lookup, conflict-ignoring bulk upsert and
// per-row field update.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// InsertStatement creates the statement header and returns it with the
// store-assigned id.
func (s *Store) InsertStatement(ctx context.Context, stmt models.Statement) (models.Statement, error) {
	if err := s.db.WithContext(ctx).Create(&stmt).Error; err != nil {
		return models.Statement{}, fmt.Errorf("insert statement: %w", err)
	}
	return stmt, nil
}

// FindTransactionByReference returns the persisted transaction carrying the
// given bank reference number, or nil when none exists.
func (s *Store) FindTransactionByReference(ctx context.Context, ref string) (*models.Transaction, error) {
	var txn models.Transaction
	err := s.db.WithContext(ctx).Where("transaction_no = ?", ref).First(&txn).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find transaction by reference: %w", err)
	}
	return &txn, nil
}

// BulkUpsertTransactions inserts rows in one statement, ignoring rows whose
// unique_key already exists. Returns the number of rows actually inserted,
// which is how re-uploads of the same statement stay idempotent.
func (s *Store) BulkUpsertTransactions(ctx context.Context, rows []models.Transaction) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "unique_key"}},
		DoNothing: true,
	}).Create(&rows)
	if res.Error != nil {
		return 0, fmt.Errorf("bulk upsert transactions: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// UpdateTransaction writes the given fields on one row. Callers pass only
// parser-owned columns; categorization fields are never part of the map.
func (s *Store) UpdateTransaction(ctx context.Context, id uint, fields map[string]interface{}) error {
	err := s.db.WithContext(ctx).Model(&models.Transaction{}).Where("id = ?", id).Updates(fields).Error
	if err != nil {
		return fmt.Errorf("update transaction %d: %w", id, err)
	}
	return nil
}

// FindUncategorized lists transactions that have no category yet, oldest
// first, capped to keep prompt sizes bounded.
func (s *Store) FindUncategorized(ctx context.Context, limit int) ([]models.Transaction, error) {
	var txns []models.Transaction
	err := s.db.WithContext(ctx).
		Where("category_id IS NULL AND hidden = ?", false).
		Order("id").
		Limit(limit).
		Find(&txns).Error
	if err != nil {
		return nil, fmt.Errorf("find uncategorized: %w", err)
	}
	return txns, nil
}
