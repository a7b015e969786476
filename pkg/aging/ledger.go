package aging

import (
	"time"

	"github.com/RiXaTorAguGoBravo/matriz-cobranza/pkg/models"
	"github.com/shopspring/decimal"
)

// Ledger indexes the raw payment rows by credit, preserving the ledger's
// natural recording order within each credit. It never mutates the rows.
type Ledger struct {
	byCredit map[string][]models.Payment
}

// NewLedger groups the payment rows by credit ID.
func NewLedger(payments []models.Payment) *Ledger {
	l := &Ledger{byCredit: make(map[string][]models.Payment)}
	for _, p := range payments {
		l.byCredit[p.CreditID] = append(l.byCredit[p.CreditID], p)
	}
	return l
}

// lastQualifying returns the chronologically latest payment dated on or
// before asOf. When several payments share that date the one recorded last
// wins, matching the ledger's natural order.
func (l *Ledger) lastQualifying(creditID string, asOf time.Time) *models.Payment {
	var last *models.Payment
	for i := range l.byCredit[creditID] {
		p := &l.byCredit[creditID][i]
		if p.PaymentDate.After(asOf) {
			continue
		}
		if last == nil || !p.PaymentDate.Before(last.PaymentDate) {
			last = p
		}
	}
	return last
}

// PaidAmount sums the payments dated on or before asOf. An opened credit
// with no qualifying payments reports zero; a credit that has not opened
// reports nil.
func (l *Ledger) PaidAmount(c models.Credit, asOf time.Time) *decimal.Decimal {
	if asOf.Before(c.OpenDate) {
		return nil
	}
	total := decimal.Zero
	for _, p := range l.byCredit[c.ID] {
		if !p.PaymentDate.After(asOf) {
			total = total.Add(p.Amount)
		}
	}
	return &total
}

// LastPaymentDate returns the date of the latest payment on or before asOf,
// or nil when no payment qualifies.
func (l *Ledger) LastPaymentDate(creditID string, asOf time.Time) *time.Time {
	p := l.lastQualifying(creditID, asOf)
	if p == nil {
		return nil
	}
	d := p.PaymentDate
	return &d
}

// Balance returns the outstanding balance after the last qualifying payment,
// falling back to the initial balance when no payment has been recorded yet.
// Unlike PaidAmount this is not gated on the open date: a credit with no
// payments simply reports what it was disbursed with.
func (l *Ledger) Balance(c models.Credit, asOf time.Time) decimal.Decimal {
	p := l.lastQualifying(c.ID, asOf)
	if p == nil {
		return c.InitialBalance
	}
	return p.BalanceAfter
}

// OpeningBalance is the balance as of the last day of the prior month.
func (l *Ledger) OpeningBalance(c models.Credit, asOf time.Time) decimal.Decimal {
	return l.Balance(c, OpeningDate(asOf))
}
