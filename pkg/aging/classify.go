package aging

import (
	"time"

	"github.com/RiXaTorAguGoBravo/matriz-cobranza/pkg/models"
	"github.com/shopspring/decimal"
)

// gracePeriodDays is subtracted from the time since the last payment before
// days start accruing as unpaid. It does not apply when no payment has ever
// been recorded.
const gracePeriodDays = 30

// currentBand is the fraction of the required amount a borrower may be short
// by and still count as current.
var currentBand = decimal.RequireFromString("0.98")

// PaymentStatus classifies the paid amount against the required amount.
// Nil inputs propagate: a credit that has not opened has no status.
func PaymentStatus(requiredAmount, paidAmount *decimal.Decimal) *models.Status {
	if requiredAmount == nil || paidAmount == nil {
		return nil
	}
	var s models.Status
	switch {
	case paidAmount.LessThan(requiredAmount.Mul(currentBand)):
		s = models.StatusDelinquent
	case paidAmount.GreaterThan(*requiredAmount):
		s = models.StatusAhead
	default:
		s = models.StatusCurrent
	}
	return &s
}

// DaysWithoutPayment counts how long the credit has gone unpaid as of asOf.
// With a recorded payment the count starts after a 30-day grace period;
// with none it runs from the open date with no grace. Nil before the credit
// opens.
func DaysWithoutPayment(c models.Credit, lastPaymentDate *time.Time, asOf time.Time) *int {
	if lastPaymentDate != nil {
		d := daysBetween(*lastPaymentDate, asOf) - gracePeriodDays
		if d < 0 {
			d = 0
		}
		return &d
	}
	if !c.OpenDate.After(asOf) {
		d := daysBetween(c.OpenDate, asOf)
		return &d
	}
	return nil
}

// ArrearsCount is the number of whole installments the borrower is short:
// required installments minus payments effectively made. Negative means
// ahead. Payments made are the paid amount divided by the installment,
// rounded half away from zero; decimal division keeps .5 boundaries exact,
// so no float correction term is needed. Nil inputs propagate.
func ArrearsCount(c models.Credit, requiredInstallments *int, paidAmount *decimal.Decimal) *int {
	if requiredInstallments == nil || paidAmount == nil {
		return nil
	}
	made := paidAmount.Div(c.MonthlyInstallment).Round(0)
	n := *requiredInstallments - int(made.IntPart())
	return &n
}

// parThresholds is the severity table scanned top-down; a credit lands in a
// bucket either by calendar lateness or by installment shortfall, whichever
// matches first. With arrears at or below zero the arrears arm never fires
// (all thresholds are >= 2), leaving the pure day-count cascade.
var parThresholds = []struct {
	bucket  models.Bucket
	days    int
	arrears int
}{
	{models.BucketPAR360, 360, 13},
	{models.BucketPAR270, 270, 10},
	{models.BucketPAR180, 180, 7},
	{models.BucketPAR150, 150, 6},
	{models.BucketPAR120, 120, 5},
	{models.BucketPAR90, 90, 4},
	{models.BucketPAR60, 60, 3},
	{models.BucketPAR30, 30, 2},
}

// AgingBucket assigns the delinquency bucket:
//
//  1. a credit that has not opened is Current, whatever the ledger says;
//  2. a credit with no net installment shortfall whose status is not
//     Delinquent is Current;
//  3. otherwise the first matching row of the threshold table wins, and a
//     credit past none of the thresholds is PAR 1.
func AgingBucket(c models.Credit, status *models.Status, daysWithoutPayment, arrearsCount *int, asOf time.Time) models.Bucket {
	if asOf.Before(c.OpenDate) {
		return models.BucketCurrent
	}
	// Once opened, the upstream metrics are all defined.
	if status == nil || daysWithoutPayment == nil || arrearsCount == nil {
		return models.BucketCurrent
	}
	if *arrearsCount <= 0 && *status != models.StatusDelinquent {
		return models.BucketCurrent
	}
	for _, t := range parThresholds {
		if *daysWithoutPayment > t.days || *arrearsCount >= t.arrears {
			return t.bucket
		}
	}
	return models.BucketPAR1
}
