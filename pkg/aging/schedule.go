package aging

import (
	"time"

	"github.com/RiXaTorAguGoBravo/matriz-cobranza/pkg/models"
	"github.com/shopspring/decimal"
)

// RequiredInstallments returns how many installments the contract demands as
// of the given date, clipped to [0, term]. The count follows billing-cycle
// rules: the month difference to the first payment date, minus one when asOf
// sits before the anniversary day in a partial month. A month-end reference
// date always closes out that month's installment regardless of the
// anniversary day. Nil when the credit has not opened yet.
func RequiredInstallments(c models.Credit, asOf time.Time) *int {
	if c.OpenDate.After(asOf) {
		return nil
	}
	fp := c.FirstPaymentDate
	n := (asOf.Year()-fp.Year())*12 + int(asOf.Month()) - int(fp.Month())
	if !isMonthEnd(asOf) && asOf.Day() < fp.Day() {
		n--
	}
	n++ // the first due date itself counts as one installment
	if n < 0 {
		n = 0
	}
	if n > c.Term {
		n = c.Term
	}
	return &n
}

// RequiredAmount is the installment amount times the required installment
// count. Nil propagates from RequiredInstallments.
func RequiredAmount(c models.Credit, installments *int) *decimal.Decimal {
	if installments == nil {
		return nil
	}
	amt := c.MonthlyInstallment.Mul(decimal.NewFromInt(int64(*installments)))
	return &amt
}
