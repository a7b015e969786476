// Package aging derives payment-delinquency metrics for a loan portfolio as
// of an arbitrary reference date. It is a pure library: the credit and
// payment tables go in read-only, a metric row per credit comes out, and
// nothing is persisted between calls. Metrics that do not apply yet (credit
// not opened, no payment recorded) are nil pointers, never zeroes, and that
// nil propagates through every downstream metric.
package aging

import (
	"fmt"
	"time"

	"github.com/RiXaTorAguGoBravo/matriz-cobranza/pkg/models"
)

// Snapshot runs the full pipeline for every credit as of the given date and
// returns one metric row per credit, in input order. Structural faults in
// the inputs (invalid credit rows, payments referencing unknown credits,
// duplicate credit IDs) fail the whole call up front; business conditions
// like "not yet opened" do not.
func Snapshot(credits []models.Credit, payments []models.Payment, asOf time.Time) ([]models.CreditMetrics, error) {
	if err := validateInputs(credits, payments); err != nil {
		return nil, err
	}
	ledger := NewLedger(payments)
	rows := make([]models.CreditMetrics, 0, len(credits))
	for _, c := range credits {
		rows = append(rows, creditSnapshot(c, ledger, asOf))
	}
	return rows, nil
}

// OpeningSnapshot is Snapshot evaluated at the last day of the month before
// the one containing asOf. It gives the beginning-of-period view used to
// measure within-month bucket migration, and is the same pipeline at a
// shifted date rather than a second implementation.
func OpeningSnapshot(credits []models.Credit, payments []models.Payment, asOf time.Time) ([]models.CreditMetrics, error) {
	return Snapshot(credits, payments, OpeningDate(asOf))
}

func creditSnapshot(c models.Credit, ledger *Ledger, asOf time.Time) models.CreditMetrics {
	requiredN := RequiredInstallments(c, asOf)
	requiredAmt := RequiredAmount(c, requiredN)
	paid := ledger.PaidAmount(c, asOf)
	lastPaid := ledger.LastPaymentDate(c.ID, asOf)
	status := PaymentStatus(requiredAmt, paid)
	days := DaysWithoutPayment(c, lastPaid, asOf)
	arrears := ArrearsCount(c, requiredN, paid)

	return models.CreditMetrics{
		CreditID:             c.ID,
		RequiredInstallments: requiredN,
		RequiredAmount:       requiredAmt,
		PaidAmount:           paid,
		LastPaymentDate:      lastPaid,
		PaymentStatus:        status,
		DaysWithoutPayment:   days,
		ArrearsCount:         arrears,
		Bucket:               AgingBucket(c, status, days, arrears, asOf),
		Balance:              ledger.Balance(c, asOf),
	}
}

func validateInputs(credits []models.Credit, payments []models.Payment) error {
	ids := make(map[string]bool, len(credits))
	for _, c := range credits {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("invalid credit row: %w", err)
		}
		if ids[c.ID] {
			return fmt.Errorf("duplicate credit id %s", c.ID)
		}
		ids[c.ID] = true
	}
	for i, p := range payments {
		if !ids[p.CreditID] {
			return fmt.Errorf("payment row %d references unknown credit %s", i, p.CreditID)
		}
	}
	return nil
}
