package parser

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Accepted date formats at the start of a transaction line. The four-digit
// year-first pattern is tried first: when a token matches more than one
// convention, it is the only one with no day/month ambiguity.
var (
	dateISOPattern   = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})\b`)
	dateSlashPattern = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})\b`)
	dateDashPattern  = regexp.MustCompile(`^(\d{1,2})-(\d{1,2})-(\d{4})\b`)
)

// Amount conventions. The primary pattern requires comma grouping or a
// decimal suffix; the loose pattern exists for statements printed without
// thousands separators and is consulted only when the primary finds nothing.
var (
	amountPattern      = regexp.MustCompile(`\d{1,3}(?:,\d{3})+(?:\.\d{1,2})?|\d+\.\d{1,2}`)
	amountLoosePattern = regexp.MustCompile(`\d+(?:\.\d{1,2})?`)
)

// Bank reference conventions: explicit FT/IBFT/BFT prefixes, with a
// standalone long digit run as a last-resort identifier.
var (
	txnRefPattern    = regexp.MustCompile(`\b(?:FT|IBFT|BFT)\d+\b`)
	txnDigitsPattern = regexp.MustCompile(`\b\d{8,}\b`)
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	// Administrative prefixes banks prepend to the narrative text.
	descriptionPrefixes = []string{"REF:", "ND:", "NOI DUNG:", "NỘI DUNG:", "MEMO:"}
)

// ExtractDate matches a date token at the start of the line and returns it
// normalized to YYYY-MM-DD plus the line with the token removed. ok is false
// when no accepted format matches or the token is not a real calendar date.
func ExtractDate(line string) (iso, rest string, ok bool) {
	line = strings.TrimSpace(line)

	type match struct {
		m          []string
		yearFirst  bool
		matchedLen int
	}
	var mm *match
	if m := dateISOPattern.FindStringSubmatch(line); m != nil {
		mm = &match{m: m, yearFirst: true, matchedLen: len(m[0])}
	} else if m := dateSlashPattern.FindStringSubmatch(line); m != nil {
		mm = &match{m: m, matchedLen: len(m[0])}
	} else if m := dateDashPattern.FindStringSubmatch(line); m != nil {
		mm = &match{m: m, matchedLen: len(m[0])}
	}
	if mm == nil {
		return "", line, false
	}

	var y, mo, d string
	if mm.yearFirst {
		y, mo, d = mm.m[1], mm.m[2], mm.m[3]
	} else {
		d, mo, y = mm.m[1], mm.m[2], mm.m[3]
	}
	iso = fmt.Sprintf("%s-%s-%s", y, pad2(mo), pad2(d))
	if _, err := time.Parse("2006-01-02", iso); err != nil {
		return "", line, false
	}
	return iso, strings.TrimSpace(line[mm.matchedLen:]), true
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

// ExtractAmounts scans the line for monetary tokens and returns their
// positive magnitudes in order of appearance, plus the line with the tokens
// removed. Zero, negative and non-finite values are dropped. Sign and
// direction are not part of amount syntax here; the role resolver decides.
func ExtractAmounts(line string, loose bool) (values []float64, rest string) {
	spans := amountPattern.FindAllStringIndex(line, -1)
	if len(spans) == 0 && loose {
		spans = amountLoosePattern.FindAllStringIndex(line, -1)
	}
	if len(spans) == 0 {
		return nil, line
	}

	var b strings.Builder
	prev := 0
	for _, sp := range spans {
		tok := line[sp[0]:sp[1]]
		v, err := strconv.ParseFloat(strings.ReplaceAll(tok, ",", ""), 64)
		if err != nil || v <= 0 || math.IsInf(v, 0) || math.IsNaN(v) {
			// Keep the token in the residual text; it is not an amount.
			continue
		}
		values = append(values, v)
		b.WriteString(line[prev:sp[0]])
		b.WriteString(" ")
		prev = sp[1]
	}
	b.WriteString(line[prev:])
	return values, strings.TrimSpace(b.String())
}

// ExtractTransactionNo matches a prefixed bank reference (FT/IBFT/BFT) and
// returns it plus the line with the token removed. Returns "" when absent.
func ExtractTransactionNo(line string) (ref, rest string) {
	sp := txnRefPattern.FindStringIndex(line)
	if sp == nil {
		return "", line
	}
	return line[sp[0]:sp[1]], strings.TrimSpace(line[:sp[0]] + " " + line[sp[1]:])
}

// FallbackTransactionNo matches a standalone run of 8+ digits. The assembler
// only calls this on text that already had its amounts removed, so a long
// unseparated amount cannot be mistaken for a reference.
func FallbackTransactionNo(line string) (ref, rest string) {
	sp := txnDigitsPattern.FindStringIndex(line)
	if sp == nil {
		return "", line
	}
	return line[sp[0]:sp[1]], strings.TrimSpace(line[:sp[0]] + " " + line[sp[1]:])
}

// CleanDescription normalizes residual narrative text: whitespace collapsed,
// administrative prefixes stripped, stray separators removed.
func CleanDescription(s string) string {
	s = whitespaceRun.ReplaceAllString(s, " ")
	s = strings.Trim(s, " -–|:")
	for _, p := range descriptionPrefixes {
		if len(s) >= len(p) && strings.EqualFold(s[:len(p)], p) {
			s = strings.TrimSpace(s[len(p):])
		}
	}
	return strings.TrimSpace(s)
}
