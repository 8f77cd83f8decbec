// Package categorize suggests spending categories for parsed transactions
// using the Gemini API.
package categorize

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/insightdelivered/statement-ingest/internal/models"
)

// ErrNoAPIKey is returned when the Gemini client is constructed without a key.
var ErrNoAPIKey = errors.New("GEMINI_API_KEY not set")

// defaultModel balances speed and cost for batch categorization.
const defaultModel = "gemini-1.5-flash"

// Suggestion is one model-proposed category for a transaction. Suggestions
// are advisory; nothing is written back without operator review.
type Suggestion struct {
	TransactionID uint   `json:"transaction_id"`
	Category      string `json:"new_category"`
}

// ContentGenerator produces text for a prompt. Backed by Gemini in
// production; tests stub it.
type ContentGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// UncategorizedLister is the slice of the store the analyzer needs.
type UncategorizedLister interface {
	FindUncategorized(ctx context.Context, limit int) ([]models.Transaction, error)
}

// Analyzer batches uncategorized transactions into one prompt and parses the
// suggestions back out.
type Analyzer struct {
	store UncategorizedLister
	gen   ContentGenerator
	log   zerolog.Logger
}

func NewAnalyzer(store UncategorizedLister, gen ContentGenerator, log zerolog.Logger) *Analyzer {
	return &Analyzer{store: store, gen: gen, log: log}
}

// Analyze fetches up to limit uncategorized transactions and asks the model
// for a category per row. An empty slice with a nil error means there was
// nothing to categorize.
func (a *Analyzer) Analyze(ctx context.Context, limit int) ([]Suggestion, error) {
	txns, err := a.store.FindUncategorized(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list uncategorized: %w", err)
	}
	if len(txns) == 0 {
		return []Suggestion{}, nil
	}
	a.log.Info().Int("count", len(txns)).Msg("analyzing uncategorized transactions")

	raw, err := a.gen.GenerateText(ctx, buildPrompt(txns))
	if err != nil {
		return nil, fmt.Errorf("generate suggestions: %w", err)
	}

	var suggestions []Suggestion
	if err := json.Unmarshal([]byte(stripFences(raw)), &suggestions); err != nil {
		a.log.Error().Err(err).Str("raw", raw).Msg("model returned unparseable JSON")
		return nil, fmt.Errorf("parse suggestions: %w", err)
	}
	return suggestions, nil
}

func buildPrompt(txns []models.Transaction) string {
	var b strings.Builder
	b.WriteString("You are a financial analyst. Analyze these bank transaction records.\n")
	b.WriteString("Return a RAW JSON ARRAY of objects. Do NOT use markdown formatting.\n")
	b.WriteString("Each object must have: 'transaction_id' (number) and 'new_category' ")
	b.WriteString("(e.g. Food, Travel, Bills, Shopping, Salary, Investment, Transfer).\n")
	b.WriteString("Descriptions may be in English or Vietnamese.\n\n")

	for _, t := range txns {
		desc := ""
		if t.Description != nil {
			desc = *t.Description
		}
		amount := t.Debit
		if t.Credit > 0 {
			amount = t.Credit
		}
		fmt.Fprintf(&b, `{"transaction_id": %d, "text": %q, "amount": %.2f}`+"\n", t.ID, desc, amount)
	}
	return b.String()
}

// stripFences removes the ```json fences Gemini tends to wrap responses in
// despite being told not to.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// Disabled is a ContentGenerator for deployments without a Gemini key. The
// analyze endpoint fails cleanly instead of blocking server startup.
type Disabled struct{}

func (Disabled) GenerateText(context.Context, string) (string, error) {
	return "", ErrNoAPIKey
}

// GeminiGenerator is the production ContentGenerator.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator builds a Gemini-backed generator. The key comes from
// the caller so this package stays free of env lookups.
func NewGeminiGenerator(ctx context.Context, apiKey string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("init gemini client: %w", err)
	}
	return &GeminiGenerator{client: client, model: defaultModel}, nil
}

func (g *GeminiGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("empty response from model")
	}
	var out strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		out.WriteString(part.Text)
	}
	return out.String(), nil
}
