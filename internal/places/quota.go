package places

// API quota unit costs per operation.
const (
	TextSearchCost = 32
	DetailsCost    = 17
)

// QuotaLedger tracks API quota spending for a single engine invocation.
// It is not persisted; every run starts from zero.
type QuotaLedger struct {
	used  int
	limit int
}

// NewQuotaLedger creates a ledger with the given daily limit.
func NewQuotaLedger(limit int) *QuotaLedger {
	return &QuotaLedger{limit: limit}
}

// CanSpend reports whether n more units fit under the limit.
func (l *QuotaLedger) CanSpend(n int) bool {
	return l.used+n <= l.limit
}

// Spend records n units as used.
func (l *QuotaLedger) Spend(n int) {
	l.used += n
}

// Used returns the units spent so far.
func (l *QuotaLedger) Used() int { return l.used }

// Limit returns the configured limit.
func (l *QuotaLedger) Limit() int { return l.limit }
