// Package api exposes the HTTP surface: statement upload, AI categorization
// and health.
package api

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/insightdelivered/statement-ingest/internal/categorize"
	"github.com/insightdelivered/statement-ingest/internal/ingest"
)

// analyzeLimit caps how many transactions one analyze call sends to the
// model, keeping prompts inside token limits.
const analyzeLimit = 50

// Ingester runs one statement upload.
type Ingester interface {
	Ingest(ctx context.Context, req ingest.Request) (ingest.Result, error)
}

// Analyzer proposes categories for uncategorized transactions.
type Analyzer interface {
	Analyze(ctx context.Context, limit int) ([]categorize.Suggestion, error)
}

// Handler holds the HTTP handlers for the API.
type Handler struct {
	ingester Ingester
	analyzer Analyzer
	log      zerolog.Logger
}

func NewHandler(ingester Ingester, analyzer Analyzer, log zerolog.Logger) *Handler {
	return &Handler{ingester: ingester, analyzer: analyzer, log: log}
}

// Register sets up the HTTP routes.
func (h *Handler) Register(app *fiber.App) {
	api := app.Group("/api")
	api.Get("/health", h.handleHealth)
	api.Post("/statements/create", h.handleCreateStatement)
	api.Post("/transactions/analyze", h.handleAnalyze)
}

func (h *Handler) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *Handler) handleCreateStatement(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No file uploaded. Use form field 'file'."})
	}
	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".pdf") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Only PDF files are supported."})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to read uploaded file."})
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to read uploaded file."})
	}

	result, err := h.ingester.Ingest(c.UserContext(), ingest.Request{
		AccountName: c.FormValue("accountName"),
		FileName:    fileHeader.Filename,
		PDF:         data,
	})
	if err != nil {
		switch {
		case errors.Is(err, ingest.ErrAccountNameRequired), errors.Is(err, ingest.ErrNoFile):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		default:
			var partial *ingest.PartialError
			if errors.As(err, &partial) {
				// Committed rows stay committed, so report what landed.
				return c.Status(fiber.StatusMultiStatus).JSON(fiber.Map{
					"statement_id":  partial.Result.StatementID,
					"parsed_rows":   partial.Result.ParsedRows,
					"inserted_rows": partial.Result.InsertedRows,
					"error":         "Insert error",
					"details":       partial.Err.Error(),
				})
			}
			h.log.Error().Err(err).Msg("statement ingestion failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
	}

	return c.JSON(result)
}

func (h *Handler) handleAnalyze(c *fiber.Ctx) error {
	suggestions, err := h.analyzer.Analyze(c.UserContext(), analyzeLimit)
	if err != nil {
		h.log.Error().Err(err).Msg("analysis failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{
		"count":       len(suggestions),
		"suggestions": suggestions,
	})
}
