package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/domain/entity"
)

// Balance projection over an ordered ledger (domain service, pure).
// The sum of deltas is the truth; the cached current_stock counter on
// the product is a derived convenience and must always agree with a
// full replay.

// RunningBalance pairs a ledger entry with the balance after applying it.
type RunningBalance struct {
	Entry   *entity.LedgerEntry
	Balance decimal.Decimal
}

// Replay computes the running balance sequence for entries ordered
// oldest first, starting from the given opening balance.
func Replay(opening decimal.Decimal, entries []*entity.LedgerEntry) []RunningBalance {
	out := make([]RunningBalance, 0, len(entries))
	balance := opening
	for _, e := range entries {
		balance = balance.Add(e.QuantityDelta)
		out = append(out, RunningBalance{Entry: e, Balance: balance})
	}
	return out
}

// Sum is the net quantity over all entries: the replayed current stock
// when the opening balance is zero.
func Sum(entries []*entity.LedgerEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.QuantityDelta)
	}
	return total
}
