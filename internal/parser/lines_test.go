package parser

import "testing"

func TestSplitLines(t *testing.T) {
	lines := SplitLines("first\r\n\n  second  \n\t\nthird")
	if len(lines) != 3 {
		t.Fatalf("lines: got %d, want 3", len(lines))
	}
	if lines[1].Text != "second" {
		t.Errorf("text: got %q, want %q", lines[1].Text, "second")
	}
	if lines[2].Index <= lines[1].Index {
		t.Errorf("indices not preserved: %d, %d", lines[1].Index, lines[2].Index)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		input string
		want  LineLabel
	}{
		{"NGÂN HÀNG TMCP KỸ THƯƠNG", LabelNoise},
		{"Transaction Date Details", LabelNoise},
		{"Nợ TKTT Có TKTT", LabelNoise},
		{"05/01/2024 Grocery Store 12,000", LabelTransactionStart},
		{"2024-01-05 ISO dated line", LabelTransactionStart},
		{"FT1002233 detail text", LabelContinuation},
		{"tien chuyen tiep theo", LabelContinuation},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Classify([]RawLine{{Index: 0, Text: tt.input}}, false)
			if got[0].Label != tt.want {
				t.Errorf("label: got %v, want %v", got[0].Label, tt.want)
			}
		})
	}
}

func TestClassifyPermissiveKeepsHeaderWords(t *testing.T) {
	got := Classify([]RawLine{{Text: "Debit Credit Balance"}}, true)
	if got[0].Label != LabelContinuation {
		t.Errorf("permissive pass should not drop header-ish lines, got %v", got[0].Label)
	}

	got = Classify([]RawLine{{Text: "BANK STATEMENT / SỔ PHỤ"}}, true)
	if got[0].Label != LabelNoise {
		t.Errorf("letterhead must stay noise, got %v", got[0].Label)
	}
}
