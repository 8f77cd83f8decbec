package parser

import "strings"

// Roles is the outcome of assigning debit/credit/balance meaning to the
// parsed amounts of one transaction. Balance is nil when not recoverable.
type Roles struct {
	Debit   float64
	Credit  float64
	Balance *float64
}

type flowIntent int

const (
	intentNone flowIntent = iota
	intentOutflow
	intentInflow
)

// flowKeywords is the canonical bilingual disambiguation table. Plain-text
// extraction destroys column boundaries, so wording is the only signal left
// for two- and one-amount lines. Outflow is consulted first; lines matching
// neither list default to outflow. Terms are matched as lowercase substrings.
var flowKeywords = []struct {
	intent flowIntent
	terms  []string
}{
	{intentOutflow, []string{
		"debit", "withdraw", "payment", "transfer out", "standing order",
		"atm ", "purchase", "fee", "charge",
		"rut tien", "rút tiền", "thanh toan", "thanh toán",
		"chuyen di", "chuyển đi", "no tktt", "nợ tktt",
	}},
	{intentInflow, []string{
		"credit", "deposit", "receive", "refund", "salary", "interest",
		"transfer in",
		"nhan tien", "nhận tiền", "chuyen den", "chuyển đến",
		"co tktt", "có tktt",
	}},
}

func lineIntent(text string) flowIntent {
	lower := strings.ToLower(text)
	for _, group := range flowKeywords {
		for _, term := range group.terms {
			if strings.Contains(lower, term) {
				return group.intent
			}
		}
	}
	return intentNone
}

// ResolveRoles decides which parsed amounts are debit, credit and running
// balance. The count-based rules mirror the standard three-column statement
// layout; keyword heuristics break the tie when columns collapsed into one or
// two amounts. Best effort — misclassification is an accepted risk, never an
// error.
func ResolveRoles(amounts []float64, lineText string) Roles {
	switch {
	case len(amounts) >= 3:
		bal := amounts[2]
		return Roles{Debit: amounts[0], Credit: amounts[1], Balance: &bal}
	case len(amounts) == 2:
		bal := amounts[1]
		if lineIntent(lineText) == intentInflow {
			return Roles{Credit: amounts[0], Balance: &bal}
		}
		return Roles{Debit: amounts[0], Balance: &bal}
	case len(amounts) == 1:
		if lineIntent(lineText) == intentInflow {
			return Roles{Credit: amounts[0]}
		}
		return Roles{Debit: amounts[0]}
	default:
		return Roles{}
	}
}
