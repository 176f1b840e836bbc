package cashflow

import (
	"testing"

	"github.com/etnz/cashflow/date"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjection(t *testing.T) {
	l := newTestLedger(t)
	require.NoError(t, l.Insert(mustBuild(t, l, "opening", "2024-01-01", P("cash", USD(2000)), P("opening", USD(-2000)))))

	projected, err := NewGenerator(l).GenerateAll([]Rule{rentRule()}, date.Range{From: D("2024-01-01"), To: D("2024-03-31")})
	require.NoError(t, err)
	require.Len(t, projected, 3)

	p, err := NewProjection(l, projected)
	require.NoError(t, err)

	assert.Equal(t, 4, p.Len())
	cash, err := p.Balance("cash")
	require.NoError(t, err)
	assert.True(t, cash.Equal(Balance{"USD": USD(-100)}), "got %v", cash)

	feb, err := p.BalanceAsOf("cash", D("2024-02-29"))
	require.NoError(t, err)
	assert.True(t, feb.Equal(Balance{"USD": USD(600)}), "got %v", feb)

	var n int
	for tx := range p.Projected() {
		assert.Equal(t, Projected, tx.Status())
		n++
	}
	assert.Equal(t, 3, n)

	// the recorded ledger is unchanged
	assert.Equal(t, 1, l.Len())
	recorded, _ := l.Balance("cash")
	assert.True(t, recorded.Equal(Balance{"USD": USD(2000)}))
}

func TestProjectionRejectsInvalid(t *testing.T) {
	l := newTestLedger(t)
	tx := mustBuild(t, l, "t1", "2024-01-01", P("cash", USD(1)), P("opening", USD(-1)))
	require.NoError(t, l.Insert(tx))

	_, err := NewProjection(l, []Transaction{tx})
	assert.ErrorIs(t, err, ErrDuplicateTransactionID)
	assert.Equal(t, 1, l.Len())
}
