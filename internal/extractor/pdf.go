// Package extractor converts uploaded PDF statements to plain text.
// Extraction is best-effort: layout and whitespace fidelity are not
// guaranteed, and downstream parsing must tolerate interleaved lines.
package extractor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
)

// PDFExtractor extracts text from in-memory PDF content using the
// structured PDF library, trying multiple methods because bank statements
// vary widely in how their text objects are encoded.
type PDFExtractor struct{}

func New() *PDFExtractor {
	return &PDFExtractor{}
}

// Extract returns the statement text, pages joined by newlines. The library
// panics on some malformed files, so the whole call is recovered.
func (e *PDFExtractor) Extract(ctx context.Context, data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf library crashed: %v", r)
		}
	}()

	if err := ctx.Err(); err != nil {
		return "", err
	}

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	numPages := r.NumPage()
	if numPages == 0 {
		return "", fmt.Errorf("pdf has no pages")
	}

	// Method 1: row-grouped extraction, best layout preservation.
	pages := extractByRow(r, numPages)
	if isReadableText(pages) {
		return strings.Join(pages, "\n"), nil
	}

	// Method 2: raw text objects grouped by Y coordinate.
	pages = extractByContent(r, numPages)
	if isReadableText(pages) {
		return strings.Join(pages, "\n"), nil
	}

	// Method 3: whole-document plain text.
	plain := extractByReaderPlainText(r)
	if isReadableText([]string{plain}) {
		return plain, nil
	}

	return "", fmt.Errorf("no readable text could be extracted; the file may be image-based or use custom font encodings")
}

// textQuality returns the ratio of readable characters to total characters.
// Letters are checked with unicode.IsLetter rather than an ASCII range so
// Vietnamese diacritics count as readable instead of as garbage.
func textQuality(pages []string) float64 {
	total := 0
	readable := 0
	for _, page := range pages {
		for _, r := range page {
			total++
			if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) ||
				strings.ContainsRune(`.,-/:;()'"%&@#!?+=*£$€`, r) {
				readable++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(readable) / float64(total)
}

// commonWords appear in virtually every statement we ingest, in one language
// or the other. Text containing none of them is almost certainly garbage
// from an identity-encoded font.
var commonWords = []string{
	"bank", "account", "balance", "date", "payment", "statement",
	"total", "amount", "credit", "debit", "transaction", "transfer",
	"ngân hàng", "số dư", "giao dịch", "diễn giải", "tài khoản", "sổ phụ",
}

func containsCommonWords(pages []string) bool {
	combined := strings.ToLower(strings.Join(pages, " "))
	for _, word := range commonWords {
		if strings.Contains(combined, word) {
			return true
		}
	}
	return false
}

// isReadableText requires enough text, a high readable-character ratio, and
// at least one recognizable statement word.
func isReadableText(pages []string) bool {
	if totalTextLen(pages) <= 50 {
		return false
	}
	if textQuality(pages) <= 0.6 {
		return false
	}
	return containsCommonWords(pages)
}

func extractByRow(r *pdf.Reader, numPages int) []string {
	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		var lines []string
		for _, row := range rows {
			var parts []string
			for _, word := range row.Content {
				parts = append(parts, word.S)
			}
			line := strings.TrimSpace(strings.Join(parts, " "))
			if line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return pages
}

// extractByContent reconstructs rows from raw text objects: group by Y
// (PDF Y axis runs bottom-to-top), order by X, and inject a separator on
// large horizontal gaps so column boundaries survive as double spaces.
func extractByContent(r *pdf.Reader, numPages int) []string {
	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		content := page.Content()
		if len(content.Text) == 0 {
			continue
		}

		type textItem struct {
			x float64
			s string
		}
		rowMap := make(map[int][]textItem)
		for _, t := range content.Text {
			if strings.TrimSpace(t.S) == "" {
				continue
			}
			yKey := int(math.Round(t.Y))
			rowMap[yKey] = append(rowMap[yKey], textItem{x: t.X, s: t.S})
		}

		yKeys := make([]int, 0, len(rowMap))
		for y := range rowMap {
			yKeys = append(yKeys, y)
		}
		sort.Sort(sort.Reverse(sort.IntSlice(yKeys)))

		var lines []string
		for _, y := range yKeys {
			items := rowMap[y]
			sort.Slice(items, func(a, b int) bool {
				return items[a].x < items[b].x
			})

			var parts []string
			var prevX float64
			for j, item := range items {
				if j > 0 && item.x-prevX > 15 {
					parts = append(parts, "  ")
				}
				parts = append(parts, item.s)
				prevX = item.x
			}
			line := strings.TrimSpace(strings.Join(parts, ""))
			if line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return pages
}

func extractByReaderPlainText(r *pdf.Reader) string {
	reader, err := r.GetPlainText()
	if err != nil {
		return ""
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func totalTextLen(pages []string) int {
	n := 0
	for _, p := range pages {
		n += len(strings.TrimSpace(p))
	}
	return n
}
