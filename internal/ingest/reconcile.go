package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/insightdelivered/statement-ingest/internal/models"
	"github.com/insightdelivered/statement-ingest/internal/parser"
)

// batchSize bounds one bulk insert round-trip.
const batchSize = 500

// reconcile decides per candidate whether to insert, update or skip.
// Candidates with a bank reference are matched against existing rows by that
// reference; everything else goes through the unique-key upsert so that
// re-uploads cannot duplicate. A failed bulk write stops the run and returns
// a partial report — committed rows stay committed.
func (s *Service) reconcile(ctx context.Context, statementID uint, candidates []parser.Candidate) (Result, error) {
	result := Result{StatementID: statementID, ParsedRows: len(candidates)}

	var batch []models.Transaction
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		submitted := len(batch)
		n, err := s.store.BulkUpsertTransactions(ctx, batch)
		batch = batch[:0]
		if err != nil {
			return err
		}
		result.InsertedRows += int(n)
		result.SkippedRows += submitted - int(n)
		return nil
	}

	for _, c := range candidates {
		row := toTransaction(statementID, c)

		if c.TransactionNo != "" {
			existing, err := s.store.FindTransactionByReference(ctx, c.TransactionNo)
			if err != nil {
				return result, &PartialError{Result: result, Err: err}
			}
			if existing != nil {
				if transactionEqual(existing, &row) {
					result.SkippedRows++
					continue
				}
				fields := map[string]interface{}{
					"statement_id": row.StatementID,
					"trx_date":     row.TrxDate,
					"description":  row.Description,
					"credit":       row.Credit,
					"debit":        row.Debit,
					"balance":      row.Balance,
					"unique_key":   row.UniqueKey,
				}
				if err := s.store.UpdateTransaction(ctx, existing.ID, fields); err != nil {
					return result, &PartialError{Result: result, Err: err}
				}
				result.UpdatedRows++
				continue
			}
		}

		batch = append(batch, row)
		if len(batch) >= batchSize {
			if err := flush(); err != nil {
				return result, &PartialError{Result: result, Err: err}
			}
		}
	}
	if err := flush(); err != nil {
		return result, &PartialError{Result: result, Err: err}
	}

	result.OK = true
	return result, nil
}

func toTransaction(statementID uint, c parser.Candidate) models.Transaction {
	t := models.Transaction{
		StatementID: statementID,
		TrxDate:     c.Date,
		Credit:      c.Credit,
		Debit:       c.Debit,
		Balance:     c.Balance,
		UniqueKey:   UniqueKey(c),
	}
	if c.Description != "" {
		desc := c.Description
		t.Description = &desc
	}
	if c.TransactionNo != "" {
		ref := c.TransactionNo
		t.TransactionNo = &ref
	}
	return t
}

// UniqueKey hashes the statement-independent identity of a candidate. Two
// uploads of the same statement produce the same keys, which is what the
// store's unique constraint keys on.
func UniqueKey(c parser.Candidate) string {
	parts := []string{
		c.Date,
		c.Description,
		fmt.Sprintf("%.2f", c.Credit),
		fmt.Sprintf("%.2f", c.Debit),
		c.TransactionNo,
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}

// transactionEqual compares the fields the parser owns. Balance is excluded:
// it is frequently unrecoverable, and a missing balance on a re-upload must
// not force a rewrite of an otherwise identical row.
func transactionEqual(a, b *models.Transaction) bool {
	return a.StatementID == b.StatementID &&
		a.TrxDate == b.TrxDate &&
		a.Credit == b.Credit &&
		a.Debit == b.Debit &&
		strPtrEqual(a.Description, b.Description)
}

func strPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
