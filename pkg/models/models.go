package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Credit is one loan in the portfolio, keyed by its ID as assigned by the
// upstream origination system.
type Credit struct {
	ID                 string          `json:"id"`
	OpenDate           time.Time       `json:"open_date"`           // disbursement date
	FirstPaymentDate   time.Time       `json:"first_payment_date"`  // contractual first installment date
	Term               int             `json:"term"`                // total number of installments
	MonthlyInstallment decimal.Decimal `json:"monthly_installment"` // fixed installment amount
	InitialBalance     decimal.Decimal `json:"initial_balance"`
	CloseDate          *time.Time      `json:"close_date,omitempty"` // nil while the credit is open
}

// Payment is one payment event recorded against a credit. Rows for a credit
// are kept in the ledger's natural recording order, ascending by date.
type Payment struct {
	CreditID     string          `json:"credit_id"`
	PaymentDate  time.Time       `json:"payment_date"`
	Amount       decimal.Decimal `json:"payment_amount"`
	BalanceAfter decimal.Decimal `json:"balance_after"` // outstanding balance right after this payment
}

// Status is the payment standing of a credit relative to its required amount.
type Status string

const (
	StatusDelinquent Status = "Delinquent"
	StatusCurrent    Status = "Current"
	StatusAhead      Status = "Ahead"
)

// Bucket is a delinquency severity tier. PAR buckets are named by the
// day-count threshold they represent.
type Bucket string

const (
	BucketCurrent Bucket = "Current"
	BucketPAR1    Bucket = "PAR 1"
	BucketPAR30   Bucket = "PAR 30"
	BucketPAR60   Bucket = "PAR 60"
	BucketPAR90   Bucket = "PAR 90"
	BucketPAR120  Bucket = "PAR 120"
	BucketPAR150  Bucket = "PAR 150"
	BucketPAR180  Bucket = "PAR 180"
	BucketPAR270  Bucket = "PAR 270"
	BucketPAR360  Bucket = "PAR 360"
)

// CreditMetrics is the derived row for one credit as of a reference date.
// Pointer fields are nil when the metric is not applicable, which happens
// only while the credit has not yet opened (or, for LastPaymentDate, while
// no payment has been recorded). Nil is never interchangeable with zero:
// an unopened credit has nil PaidAmount, an opened credit with no payments
// has a zero one.
type CreditMetrics struct {
	CreditID             string           `json:"credit_id"`
	RequiredInstallments *int             `json:"required_installments,omitempty"`
	RequiredAmount       *decimal.Decimal `json:"required_amount,omitempty"`
	PaidAmount           *decimal.Decimal `json:"paid_amount,omitempty"`
	LastPaymentDate      *time.Time       `json:"last_payment_date,omitempty"`
	PaymentStatus        *Status          `json:"payment_status,omitempty"`
	DaysWithoutPayment   *int             `json:"days_without_payment,omitempty"`
	ArrearsCount         *int             `json:"arrears_count,omitempty"`
	Bucket               Bucket           `json:"aging_bucket"`
	Balance              decimal.Decimal  `json:"balance"`
}

// Validate reports the first structural fault on the credit row. Business
// conditions like "not yet opened" are not faults and are handled by the
// aging pipeline's nil propagation instead.
func (c Credit) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("credit has empty id")
	}
	if c.Term < 0 {
		return fmt.Errorf("credit %s: negative term %d", c.ID, c.Term)
	}
	if c.MonthlyInstallment.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("credit %s: monthly installment must be positive, got %s", c.ID, c.MonthlyInstallment)
	}
	if c.FirstPaymentDate.Before(c.OpenDate) {
		return fmt.Errorf("credit %s: first payment date %s precedes open date %s",
			c.ID, c.FirstPaymentDate.Format("2006-01-02"), c.OpenDate.Format("2006-01-02"))
	}
	if c.CloseDate != nil && c.CloseDate.Before(c.OpenDate) {
		return fmt.Errorf("credit %s: close date %s precedes open date %s",
			c.ID, c.CloseDate.Format("2006-01-02"), c.OpenDate.Format("2006-01-02"))
	}
	return nil
}
