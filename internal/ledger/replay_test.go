package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/books/internal/model"
)

func TestReplay_MatchesStatementClosing(t *testing.T) {
	vouchers := []model.Voucher{
		twoLeg("V1", 2, "cash", "sales", "200", ""),
		twoLeg("V2", 3, "cash", "rent", "", "500"),
		twoLeg("V3", 4, "cash", "sales", "100", ""),
	}
	acct := cashLedger()

	assert.Equal(t, "800.00 Dr", Replay(acct, vouchers, time.Time{}).String())
	assert.Equal(t, "700.00 Dr", Replay(acct, vouchers, date(2025, 1, 3)).String())

	stmt := Compute(acct, vouchers, names, time.Time{}, date(2025, 1, 3))
	assert.Equal(t, Replay(acct, vouchers, date(2025, 1, 3)).String(), stmt.Closing().String())
}

func TestReplayAll(t *testing.T) {
	ledgers := []model.LedgerAccount{
		cashLedger(),
		{ID: "sales", OpeningType: model.Cr},
		{ID: "rent", OpeningType: model.Dr},
		{ID: "idle", OpeningBalance: dec("50"), OpeningType: model.Cr},
	}
	vouchers := []model.Voucher{
		twoLeg("V1", 2, "cash", "sales", "200", ""),
		twoLeg("V2", 3, "cash", "rent", "", "500"),
		twoLeg("V3", 40, "cash", "sales", "100", ""),
	}

	got := ReplayAll(ledgers, vouchers, date(2025, 1, 31))
	require.Len(t, got, 4)
	assert.True(t, got[0].CurrentBalance.Equal(dec("700")))
	assert.True(t, got[1].CurrentBalance.Equal(dec("-200")))
	assert.True(t, got[2].CurrentBalance.Equal(dec("500")))
	assert.True(t, got[3].CurrentBalance.Equal(dec("-50")))
	assert.True(t, ledgers[0].CurrentBalance.IsZero(), "input is not mutated")

	sum := dec("0")
	for _, l := range got {
		sum = sum.Add(l.CurrentBalance)
	}
	assert.True(t, sum.Equal(dec("950")), "only opening balances are unbalanced here")
}

func TestMovement(t *testing.T) {
	vouchers := []model.Voucher{
		twoLeg("V1", 2, "cash", "sales", "200", ""),
		twoLeg("V2", 15, "cash", "sales", "300", ""),
	}
	m := Movement(vouchers, date(2025, 1, 10), date(2025, 1, 31))
	assert.True(t, m["cash"].Equal(dec("300")))
	assert.True(t, m["sales"].Equal(dec("-300")))
}
