// Package ingest orchestrates one statement upload: validate, create the
// header, extract text, parse candidates, reconcile against the store.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/insightdelivered/statement-ingest/internal/models"
	"github.com/insightdelivered/statement-ingest/internal/parser"
)

// Input validation failures. No side effects have happened when these are
// returned.
var (
	ErrNoFile              = errors.New("no file uploaded")
	ErrAccountNameRequired = errors.New("accountName is required")
)

// TextExtractor is the external collaborator converting PDF bytes to text.
type TextExtractor interface {
	Extract(ctx context.Context, data []byte) (string, error)
}

// Store is the persistence collaborator. Implemented by the gorm store; the
// tests inject an in-memory fake.
type Store interface {
	InsertStatement(ctx context.Context, stmt models.Statement) (models.Statement, error)
	FindTransactionByReference(ctx context.Context, ref string) (*models.Transaction, error)
	BulkUpsertTransactions(ctx context.Context, rows []models.Transaction) (int64, error)
	UpdateTransaction(ctx context.Context, id uint, fields map[string]interface{}) error
}

// Request is one statement upload.
type Request struct {
	AccountName string
	FileName    string
	PDF         []byte
}

// Result is the ingestion report returned to the caller, also used as the
// partial-success body when a batch write fails midway.
type Result struct {
	StatementID  uint `json:"statement_id"`
	ParsedRows   int  `json:"parsed_rows"`
	InsertedRows int  `json:"inserted_rows"`
	UpdatedRows  int  `json:"updated_rows"`
	SkippedRows  int  `json:"skipped_rows"`
	OK           bool `json:"ok"`
}

// PartialError reports a reconciliation that committed some rows before a
// store write failed. Already-inserted rows are not rolled back: the same
// statement can simply be re-uploaded and dedup will do the rest.
type PartialError struct {
	Result Result
	Err    error
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("insert error after %d rows: %v", e.Result.InsertedRows, e.Err)
}

func (e *PartialError) Unwrap() error { return e.Err }

// Service runs the ingestion pipeline. Collaborators are injected so the
// pipeline is testable without a live backend.
type Service struct {
	extractor TextExtractor
	store     Store
	log       zerolog.Logger
}

func NewService(extractor TextExtractor, store Store, log zerolog.Logger) *Service {
	return &Service{extractor: extractor, store: store, log: log}
}

// Ingest processes one upload start to finish. The statement header is
// created before text extraction, so a failed extraction leaves the header
// behind; re-uploading afterwards creates a fresh header but cannot
// duplicate transactions.
func (s *Service) Ingest(ctx context.Context, req Request) (Result, error) {
	accountName := strings.TrimSpace(req.AccountName)
	if accountName == "" {
		return Result{}, ErrAccountNameRequired
	}
	if len(req.PDF) == 0 {
		return Result{}, ErrNoFile
	}
	fileName := req.FileName
	if fileName == "" {
		fileName = "statement.pdf"
	}

	start := time.Now()
	runID := uuid.NewString()
	log := s.log.With().Str("run_id", runID).Str("account", accountName).Logger()

	stmt, err := s.store.InsertStatement(ctx, models.Statement{
		AccountName: accountName,
		FileName:    fileName,
	})
	if err != nil {
		return Result{}, fmt.Errorf("create statement: %w", err)
	}
	log = log.With().Uint("statement_id", stmt.ID).Logger()

	text, err := s.extractor.Extract(ctx, req.PDF)
	if err != nil {
		log.Error().Err(err).Msg("text extraction failed")
		return Result{}, fmt.Errorf("extract text: %w", err)
	}

	candidates := parser.Parse(text)
	log.Info().Int("parsed_rows", len(candidates)).Msg("statement parsed")

	result, err := s.reconcile(ctx, stmt.ID, candidates)
	if err != nil {
		log.Error().Err(err).Int("inserted_rows", result.InsertedRows).Msg("reconciliation incomplete")
		return result, err
	}

	log.Info().
		Int("inserted_rows", result.InsertedRows).
		Int("updated_rows", result.UpdatedRows).
		Int("skipped_rows", result.SkippedRows).
		Dur("duration", time.Since(start)).
		Msg("statement ingested")
	return result, nil
}
