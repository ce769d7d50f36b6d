package sim

import (
	"log/slog"

	"github.com/dustin/go-humanize"
)

// InsolvencyPolicy decides what happens when the forced monthly payment
// exceeds the household's savings. It returns true if the game should halt.
type InsolvencyPolicy func(b *Budget, owed int) (halt bool)

// ClampToZero forgives the shortfall: savings drop to zero and the game
// continues. This is the default policy.
func ClampToZero(b *Budget, owed int) bool {
	slog.Warn("fixed costs unpayable, savings clamped to zero",
		"owed", humanize.Comma(int64(owed)),
		"savings", humanize.Comma(b.savings),
	)
	b.savings = 0
	return false
}

// HaltOnInsolvency zeroes savings and ends the game.
func HaltOnInsolvency(b *Budget, owed int) bool {
	slog.Warn("household insolvent, halting",
		"owed", humanize.Comma(int64(owed)),
		"savings", humanize.Comma(b.savings),
	)
	b.savings = 0
	return true
}

// Budget holds the household cash balance and owns the fixed-cost ledger.
// Normal spending goes through TrySpend and can never drive the balance
// negative; the monthly fixed-cost payment is forced and defers to the
// insolvency policy when funds run short.
type Budget struct {
	savings   int64
	fixedCost *FixedCost

	// Insolvency is consulted by PayMonthlyFixedCosts. Nil means ClampToZero.
	Insolvency InsolvencyPolicy
}

// NewBudget creates a budget with the given starting savings and an empty
// fixed-cost ledger.
func NewBudget(initialMoney int64, fixedCost *FixedCost) *Budget {
	return &Budget{savings: initialMoney, fixedCost: fixedCost}
}

// CurrentSavings returns the cash balance.
func (b *Budget) CurrentSavings() int64 { return b.savings }

// FixedCost returns the ledger of recurring monthly costs.
func (b *Budget) FixedCost() *FixedCost { return b.fixedCost }

// AddIncome credits the balance. Amounts are yen; there is no upper bound.
func (b *Budget) AddIncome(amount int) {
	b.savings += int64(amount)
}

// TrySpend debits amount if the balance covers it. On insufficient funds it
// returns false and leaves the balance unchanged.
func (b *Budget) TrySpend(amount int) bool {
	if b.savings >= int64(amount) {
		b.savings -= int64(amount)
		return true
	}
	return false
}

// PayMonthlyFixedCosts performs the forced monthly payment. Returns true if
// the insolvency policy halted the game.
func (b *Budget) PayMonthlyFixedCosts() bool {
	total := b.fixedCost.TotalCost()
	if b.TrySpend(total) {
		slog.Info("fixed costs paid",
			"total", humanize.Comma(int64(total)),
			"rent", b.fixedCost.Rent(),
			"tax", b.fixedCost.Tax(),
			"insurance", b.fixedCost.Insurance(),
			"maintenance", b.fixedCost.Maintenance(),
			"food", b.fixedCost.FoodCost(),
		)
		return false
	}

	policy := b.Insolvency
	if policy == nil {
		policy = ClampToZero
	}
	return policy(b, total)
}
