package parser

import "strings"

// LineLabel classifies a raw statement line.
type LineLabel int

const (
	// LabelNoise marks letterhead, column headers, summaries and legend text.
	LabelNoise LineLabel = iota
	// LabelTransactionStart marks a line that begins with a date token.
	LabelTransactionStart
	// LabelContinuation marks detail lines attached to the previous start line.
	LabelContinuation
)

// RawLine is a trimmed, non-empty line of extracted PDF text.
type RawLine struct {
	Index int
	Text  string
}

// LabeledLine is a RawLine with its classification.
type LabeledLine struct {
	RawLine
	Label LineLabel
}

// noisePhrases are substrings that identify non-transactional boilerplate in
// the bank statement layouts we support (English and Vietnamese). Matching is
// case-sensitive: the bare column words ("Debit", "Balance") only appear
// capitalized in headers, and lowering them would swallow real transaction
// lines.
var noisePhrases = []string{
	"NGÂN HÀNG",
	"BANK STATEMENT",
	"SỔ PHỤ",
	"Customer name",
	"Account no",
	"Opening balance",
	"Ending balance",
	"Closing balance",
	"Transaction Date",
	"Transaction No",
	"Số bút toán",
	"Diễn giải",
	"Details",
	"Nợ TKTT",
	"Debit",
	"Có TKTT",
	"Credit",
	"Số dư",
	"Balance",
	"Page ",
	"Trang ",
	// Footnote legend explaining the columns, present on every page.
	"Ngày giao dịch: Là ngày",
	"Số dư: Là số dư",
	"Transaction Date: is the next",
	"Balance: is total power",
	"TECHCOMBANK Tra lai",
}

// permissiveNoisePhrases is the reduced list used by the fallback pass. Only
// unambiguous letterhead survives; header-ish words are allowed through so a
// layout that interleaves them with data still yields candidates.
var permissiveNoisePhrases = []string{
	"NGÂN HÀNG",
	"BANK STATEMENT",
	"SỔ PHỤ",
	"Ngày giao dịch: Là ngày",
	"Số dư: Là số dư",
}

// SplitLines splits raw extracted text into trimmed, non-empty lines,
// preserving the original line index.
func SplitLines(text string) []RawLine {
	var out []RawLine
	for i, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, RawLine{Index: i, Text: line})
	}
	return out
}

// Classify labels every line as noise, transaction start, or continuation.
// Pure function; the assembler decides how far continuations attach.
func Classify(lines []RawLine, permissive bool) []LabeledLine {
	phrases := noisePhrases
	if permissive {
		phrases = permissiveNoisePhrases
	}

	out := make([]LabeledLine, 0, len(lines))
	for _, l := range lines {
		label := LabelContinuation
		if isNoise(l.Text, phrases) {
			label = LabelNoise
		} else if _, _, ok := ExtractDate(l.Text); ok {
			label = LabelTransactionStart
		}
		out = append(out, LabeledLine{RawLine: l, Label: label})
	}
	return out
}

func isNoise(line string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(line, p) {
			return true
		}
	}
	return false
}
