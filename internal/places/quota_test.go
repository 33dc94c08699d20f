package places

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuotaLedger(t *testing.T) {
	t.Parallel()

	l := NewQuotaLedger(100)
	assert.True(t, l.CanSpend(TextSearchCost))

	l.Spend(TextSearchCost)
	l.Spend(TextSearchCost)
	assert.Equal(t, 64, l.Used())

	// 64 + 32 = 96 fits, 96 + 32 would not
	assert.True(t, l.CanSpend(TextSearchCost))
	l.Spend(TextSearchCost)
	assert.False(t, l.CanSpend(TextSearchCost))
	assert.True(t, l.CanSpend(4))
	assert.False(t, l.CanSpend(DetailsCost))
}

func TestQuotaLedgerArithmetic(t *testing.T) {
	t.Parallel()

	l := NewQuotaLedger(1000)
	for i := 0; i < 3; i++ {
		l.Spend(TextSearchCost)
	}
	for i := 0; i < 5; i++ {
		l.Spend(DetailsCost)
	}
	assert.Equal(t, 3*32+5*17, l.Used())
}
