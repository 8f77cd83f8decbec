package models

import "time"

// Statement is the header record created once per uploaded statement PDF.
// The core never mutates or deletes it after insert.
type Statement struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	AccountName string    `gorm:"not null" json:"account_name"`
	FileName    string    `json:"file_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// Transaction is a persisted statement transaction.
//
// UniqueKey is a content hash over the statement-independent identity of the
// row (date, amounts, description, reference). The database enforces a unique
// index on it so that re-uploading the same statement is idempotent.
//
// CategoryID and Hidden are owned by the categorization workflow, not by the
// parser/reconciler — reconciliation updates must leave them untouched.
type Transaction struct {
	ID            uint     `gorm:"primaryKey" json:"id"`
	StatementID   uint     `gorm:"not null;index" json:"statement_id"`
	TrxDate       string   `gorm:"type:date;not null" json:"trx_date"`
	Description   *string  `json:"description"`
	Credit        float64  `json:"credit"`
	Debit         float64  `json:"debit"`
	Balance       *float64 `json:"balance"`
	TransactionNo *string  `gorm:"index" json:"transaction_no"`
	UniqueKey     string   `gorm:"uniqueIndex;not null" json:"unique_key"`

	CategoryID *uint `json:"category_id"`
	Hidden     bool  `gorm:"default:false" json:"hidden"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Category is a user-managed transaction category.
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
