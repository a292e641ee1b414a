package commission

import (
	"github.com/distributor/backend/internal/domain/identity"
	"github.com/distributor/backend/internal/domain/sales"
	"github.com/shopspring/decimal"
)

// SkipReason explains why a sold line produced no commission. These are
// expected outcomes, not errors: most sales have no agent involvement.
type SkipReason string

const (
	SkipNoRecipient       SkipReason = "no_recipient"
	SkipZeroRate          SkipReason = "zero_rate"
	SkipNonPositiveAmount SkipReason = "non_positive_amount"
)

// Outcome is the generator's verdict for one order item: either an
// entry to persist, or a skip with its reason.
type Outcome struct {
	Entry *LedgerEntry
	Skip  SkipReason
}

// Skipped returns true when no entry was produced
func (o Outcome) Skipped() bool {
	return o.Entry == nil
}

// Generator decides who earns commission on a sold line and how much.
// It is pure: recipient resolution and arithmetic only, no persistence.
// The caller runs it inside the order submission transaction and saves
// the resulting entries alongside the order.
type Generator struct{}

// NewGenerator creates a commission generator
func NewGenerator() *Generator {
	return &Generator{}
}

// Evaluate resolves the commission for one order item.
//
// Recipient resolution: a buyer who is an agent earns their own
// commission (self-commission); otherwise the buyer's assigned agent
// earns it; a buyer with neither produces no entry. The rate always
// comes from the recipient's own groups, and the amount is the item's
// recorded profit times that rate, rounded half-up to cents.
// Zero or negative amounts (free items, loss-makers) produce no entry.
func (g *Generator) Evaluate(item *sales.OrderItem, buyer *identity.User, assignedAgent *identity.User) Outcome {
	recipient := g.resolveRecipient(buyer, assignedAgent)
	if recipient == nil {
		return Outcome{Skip: SkipNoRecipient}
	}

	rate := recipient.CommissionRate()
	if !rate.IsPositive() {
		return Outcome{Skip: SkipZeroRate}
	}

	profit := item.Profit
	if profit.IsZero() {
		profit = item.ComputeProfit()
	}

	amount := profit.Mul(rate).Div(decimal.NewFromInt(100)).Round(2)
	if !amount.IsPositive() {
		return Outcome{Skip: SkipNonPositiveAmount}
	}

	entry, err := NewLedgerEntry(item.TenantID, recipient.ID, recipient.Username, item.OrderID, item.ID, rate, amount)
	if err != nil {
		// construction only fails on non-positive amounts, already excluded
		return Outcome{Skip: SkipNonPositiveAmount}
	}
	return Outcome{Entry: entry}
}

func (g *Generator) resolveRecipient(buyer *identity.User, assignedAgent *identity.User) *identity.User {
	if buyer != nil && buyer.IsAgent() {
		return buyer
	}
	if assignedAgent != nil {
		return assignedAgent
	}
	return nil
}
