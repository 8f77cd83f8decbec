package parser

// Candidate is an in-memory transaction produced by parsing, not yet
// persisted. Date is always normalized YYYY-MM-DD.
type Candidate struct {
	Date          string
	Description   string
	Credit        float64
	Debit         float64
	Balance       *float64
	TransactionNo string
}

// Options control one pass of the pipeline.
type Options struct {
	// Lookahead is how many continuation lines after a transaction start are
	// scanned for the fields the start line was missing.
	Lookahead int
	// MinDescription discards candidates whose narrative is shorter.
	MinDescription int
	// Permissive relaxes the noise filter and accepts amounts without
	// thousands separators. Used by the fallback pass only.
	Permissive bool
}

// DefaultOptions is the strict first pass.
func DefaultOptions() Options {
	return Options{Lookahead: 5, MinDescription: 3}
}

// PermissiveOptions is the fallback pass, run only when the strict pass
// finds nothing at all. Trades precision for recall.
func PermissiveOptions() Options {
	return Options{Lookahead: 8, MinDescription: 1, Permissive: true}
}

// Pipeline turns raw statement text into candidate transactions.
type Pipeline struct {
	opts Options
}

func NewPipeline(opts Options) *Pipeline {
	return &Pipeline{opts: opts}
}

// Parse runs the strict pass and, only if it yields zero candidates for the
// whole document, the permissive fallback pass. Bank layouts are not
// contractually fixed; a strict pass that matches nothing means the
// heuristics missed this layout entirely, not that the statement is empty.
func Parse(text string) []Candidate {
	if out := NewPipeline(DefaultOptions()).Parse(text); len(out) > 0 {
		return out
	}
	return NewPipeline(PermissiveOptions()).Parse(text)
}

// Parse runs a single pass over the text.
func (p *Pipeline) Parse(text string) []Candidate {
	labeled := Classify(SplitLines(text), p.opts.Permissive)

	var out []Candidate
	var open *accumulator
	flush := func() {
		if open == nil {
			return
		}
		if c, ok := open.emit(p.opts.MinDescription); ok {
			out = append(out, c)
		}
		open = nil
	}

	for _, line := range labeled {
		switch line.Label {
		case LabelTransactionStart:
			flush()
			open = p.openAccumulator(line.Text)
		case LabelContinuation:
			if open == nil {
				continue
			}
			open.window++
			if open.window > p.opts.Lookahead {
				flush()
				continue
			}
			p.accrete(open, line.Text)
		case LabelNoise:
			// Noise never closes the window; statements interleave legend
			// text with transaction detail lines.
		}
	}
	flush()

	return out
}

// accumulator is the ACCUMULATING state: one open transaction collecting
// fields from its start line and subsequent detail lines.
type accumulator struct {
	date        string
	descParts   []string
	amounts     []float64
	keywordText string
	txnNo       string
	window      int
}

func (p *Pipeline) openAccumulator(line string) *accumulator {
	iso, rest, _ := ExtractDate(line)
	a := &accumulator{date: iso, keywordText: line}

	a.txnNo, rest = ExtractTransactionNo(rest)
	a.amounts, rest = ExtractAmounts(rest, p.opts.Permissive)
	if a.txnNo == "" {
		a.txnNo, rest = FallbackTransactionNo(rest)
	}
	if desc := CleanDescription(rest); desc != "" {
		a.descParts = append(a.descParts, desc)
	}
	return a
}

// accrete folds a continuation line into the open transaction: reference and
// amounts are taken only if still missing, the leftover text extends the
// description.
func (p *Pipeline) accrete(a *accumulator, line string) {
	rest := line
	if a.txnNo == "" {
		a.txnNo, rest = ExtractTransactionNo(rest)
	}
	if len(a.amounts) == 0 {
		a.amounts, rest = ExtractAmounts(rest, p.opts.Permissive)
		if len(a.amounts) > 0 {
			a.keywordText += " " + line
		}
	}
	if a.txnNo == "" {
		a.txnNo, rest = FallbackTransactionNo(rest)
	}
	if desc := CleanDescription(rest); desc != "" {
		a.descParts = append(a.descParts, desc)
	}
}

// emit builds the candidate if the minimum viable fields are present:
// a non-empty description and at least one non-zero amount. Anything else is
// discarded silently — date-bearing lines without amounts (period headers,
// legend rows) are normal statement content, not errors.
func (a *accumulator) emit(minDescription int) (Candidate, bool) {
	desc := CleanDescription(joinParts(a.descParts))
	if len(desc) < minDescription {
		return Candidate{}, false
	}

	roles := ResolveRoles(a.amounts, a.keywordText)
	hasAmount := roles.Debit > 0 || roles.Credit > 0 ||
		(roles.Balance != nil && *roles.Balance > 0)
	if !hasAmount {
		return Candidate{}, false
	}

	return Candidate{
		Date:          a.date,
		Description:   desc,
		Credit:        roles.Credit,
		Debit:         roles.Debit,
		Balance:       roles.Balance,
		TransactionNo: a.txnNo,
	}, true
}

func joinParts(parts []string) string {
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	}
	out := parts[0]
	for _, p := range parts[1:] {
		out += " " + p
	}
	return out
}
