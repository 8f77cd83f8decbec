package parser

import (
	"strings"
	"testing"
)

func TestParseSingleDebitLine(t *testing.T) {
	cands := Parse("05/01/2024 Grocery Store 12,000 488,000")
	if len(cands) != 1 {
		t.Fatalf("candidates: got %d, want 1", len(cands))
	}

	c := cands[0]
	if c.Date != "2024-01-05" {
		t.Errorf("date: got %q, want %q", c.Date, "2024-01-05")
	}
	if c.Description != "Grocery Store" {
		t.Errorf("description: got %q, want %q", c.Description, "Grocery Store")
	}
	if c.Debit != 12000 {
		t.Errorf("debit: got %v, want 12000", c.Debit)
	}
	if c.Credit != 0 {
		t.Errorf("credit: got %v, want 0", c.Credit)
	}
	if c.Balance == nil || *c.Balance != 488000 {
		t.Errorf("balance: got %v, want 488000", c.Balance)
	}
}

func TestParseLineWithReference(t *testing.T) {
	// "Paycheck" matches neither keyword list, so the two-amount default
	// applies: first amount is debit, second is balance.
	cands := Parse("06/01/2024 Paycheck FT1002233 200,000 688,000")
	if len(cands) != 1 {
		t.Fatalf("candidates: got %d, want 1", len(cands))
	}

	c := cands[0]
	if c.TransactionNo != "FT1002233" {
		t.Errorf("transaction no: got %q, want %q", c.TransactionNo, "FT1002233")
	}
	if c.Description != "Paycheck" {
		t.Errorf("description: got %q, want %q", c.Description, "Paycheck")
	}
	if c.Debit != 200000 {
		t.Errorf("debit: got %v, want 200000", c.Debit)
	}
	if c.Balance == nil || *c.Balance != 688000 {
		t.Errorf("balance: got %v, want 688000", c.Balance)
	}
}

func TestParseMultiLineTransaction(t *testing.T) {
	// Amounts and reference arrive on detail lines after the date line.
	text := strings.Join([]string{
		"07/01/2024 CHUYỂN KHOẢN NHẬN TIỀN",
		"FT2400700123",
		"tu quay giao dich 500,000 1,188,000",
	}, "\n")

	cands := Parse(text)
	if len(cands) != 1 {
		t.Fatalf("candidates: got %d, want 1", len(cands))
	}

	c := cands[0]
	if c.Date != "2024-01-07" {
		t.Errorf("date: got %q", c.Date)
	}
	if c.TransactionNo != "FT2400700123" {
		t.Errorf("transaction no: got %q", c.TransactionNo)
	}
	// Start line carries an inflow keyword, so the two amounts resolve as
	// credit + balance.
	if c.Credit != 500000 {
		t.Errorf("credit: got %v, want 500000", c.Credit)
	}
	if c.Balance == nil || *c.Balance != 1188000 {
		t.Errorf("balance: got %v, want 1188000", c.Balance)
	}
	if !strings.Contains(c.Description, "CHUYỂN KHOẢN NHẬN TIỀN") {
		t.Errorf("description: got %q", c.Description)
	}
}

func TestParseSkipsNoise(t *testing.T) {
	text := strings.Join([]string{
		"NGÂN HÀNG TMCP KỸ THƯƠNG VIỆT NAM",
		"BANK STATEMENT / SỔ PHỤ",
		"Transaction Date Details Debit Credit Balance",
		"05/01/2024 Grocery Store 12,000 488,000",
		"Số dư: Là số dư cuối ngày",
	}, "\n")

	cands := Parse(text)
	if len(cands) != 1 {
		t.Fatalf("candidates: got %d, want 1", len(cands))
	}
	if cands[0].Description != "Grocery Store" {
		t.Errorf("description: got %q", cands[0].Description)
	}
}

func TestParseThreeAmountLine(t *testing.T) {
	cands := Parse("10/01/2024 PHI QUAN LY TK 100 50 900")
	if len(cands) != 1 {
		t.Fatalf("candidates: got %d, want 1", len(cands))
	}
	c := cands[0]
	// Plain integers only match the loose pattern, so this line is only
	// recoverable by the fallback pass; the three-amount rule then applies.
	if c.Debit != 100 || c.Credit != 50 {
		t.Errorf("amounts: got debit=%v credit=%v, want 100/50", c.Debit, c.Credit)
	}
	if c.Balance == nil || *c.Balance != 900 {
		t.Errorf("balance: got %v, want 900", c.Balance)
	}
}

func TestParseDiscardsDateOnlyLines(t *testing.T) {
	// A date-bearing line with no extractable amounts and a too-short
	// description is statement furniture, not a transaction.
	cands := NewPipeline(DefaultOptions()).Parse("05/01/2024 kb")
	if len(cands) != 0 {
		t.Fatalf("candidates: got %d, want 0", len(cands))
	}

	cands = NewPipeline(DefaultOptions()).Parse("05/01/2024 period opening header text")
	if len(cands) != 0 {
		t.Fatalf("no-amount line: got %d candidates, want 0", len(cands))
	}
}

func TestParseFallbackActivation(t *testing.T) {
	// No thousands separators anywhere: the strict pass finds nothing and
	// the permissive pass must recover the transactions.
	text := strings.Join([]string{
		"01/03/2024 SIEU THI ABC 45000 955000",
		"02/03/2024 LUONG THANG 3 NHẬN TIỀN 12000000 12955000",
	}, "\n")

	strict := NewPipeline(DefaultOptions()).Parse(text)
	if len(strict) != 0 {
		t.Fatalf("strict pass: got %d candidates, want 0", len(strict))
	}

	cands := Parse(text)
	if len(cands) != 2 {
		t.Fatalf("fallback: got %d candidates, want 2", len(cands))
	}
	if cands[0].Debit != 45000 {
		t.Errorf("first debit: got %v, want 45000", cands[0].Debit)
	}
	if cands[1].Credit != 12000000 {
		t.Errorf("second credit: got %v, want 12000000", cands[1].Credit)
	}
}

func TestParseIdenticalInputStableOutput(t *testing.T) {
	text := "05/01/2024 Grocery Store 12,000 488,000\n06/01/2024 Paycheck FT1002233 200,000 688,000"
	a := Parse(text)
	b := Parse(text)
	if len(a) != len(b) {
		t.Fatalf("runs disagree: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] && a[i].Date != b[i].Date {
			t.Errorf("candidate %d differs between runs", i)
		}
	}
}

func TestLookaheadWindowCloses(t *testing.T) {
	// Amounts arriving past the lookahead window must not attach to the
	// earlier date line.
	lines := []string{"05/01/2024 something descriptive"}
	for i := 0; i < 7; i++ {
		lines = append(lines, "filler detail text")
	}
	lines = append(lines, "orphan amounts 12,000 488,000")

	cands := NewPipeline(DefaultOptions()).Parse(strings.Join(lines, "\n"))
	if len(cands) != 0 {
		t.Fatalf("candidates: got %d, want 0", len(cands))
	}
}
