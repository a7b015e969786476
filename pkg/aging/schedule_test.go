package aging

import (
	"testing"
	"time"

	"github.com/RiXaTorAguGoBravo/matriz-cobranza/pkg/models"
	"github.com/shopspring/decimal"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testCredit() models.Credit {
	return models.Credit{
		ID:                 "C-1",
		OpenDate:           date(2023, time.January, 1),
		FirstPaymentDate:   date(2023, time.February, 1),
		Term:               12,
		MonthlyInstallment: decimal.NewFromInt(1000),
		InitialBalance:     decimal.NewFromInt(12000),
	}
}

func TestRequiredInstallments_NotOpened(t *testing.T) {
	c := testCredit()
	if got := RequiredInstallments(c, date(2022, time.December, 31)); got != nil {
		t.Errorf("Expected nil before open date, got %d", *got)
	}
}

func TestRequiredInstallments_MidMonth(t *testing.T) {
	c := testCredit()
	got := RequiredInstallments(c, date(2023, time.May, 15))
	if got == nil || *got != 4 {
		t.Fatalf("Expected 4 installments on 2023-05-15, got %v", got)
	}
}

func TestRequiredInstallments_BeforeAnniversaryDay(t *testing.T) {
	c := testCredit()
	c.FirstPaymentDate = date(2023, time.February, 20)

	// Day 15 < anniversary day 20: the May period has not completed.
	got := RequiredInstallments(c, date(2023, time.May, 15))
	if got == nil || *got != 3 {
		t.Fatalf("Expected 3 installments before the anniversary day, got %v", got)
	}

	// On the anniversary day the period counts.
	got = RequiredInstallments(c, date(2023, time.May, 20))
	if got == nil || *got != 4 {
		t.Fatalf("Expected 4 installments on the anniversary day, got %v", got)
	}
}

func TestRequiredInstallments_MonthEndAlwaysCounts(t *testing.T) {
	c := testCredit()
	c.FirstPaymentDate = date(2023, time.February, 28)

	// May 31 is a month end, so the period completes even though 31 is
	// compared against anniversary day 28 in other months.
	got := RequiredInstallments(c, date(2023, time.May, 31))
	if got == nil || *got != 4 {
		t.Fatalf("Expected 4 installments at month end, got %v", got)
	}

	// February 28 is a month end in a non-leap year.
	got = RequiredInstallments(c, date(2023, time.February, 28))
	if got == nil || *got != 1 {
		t.Fatalf("Expected 1 installment on 2023-02-28, got %v", got)
	}
}

func TestRequiredInstallments_ClippedToTerm(t *testing.T) {
	c := testCredit()
	got := RequiredInstallments(c, date(2030, time.June, 15))
	if got == nil || *got != c.Term {
		t.Fatalf("Expected clipping to term %d, got %v", c.Term, got)
	}
}

func TestRequiredInstallments_ClippedToZero(t *testing.T) {
	c := testCredit()
	// Opened but the first payment is still months away.
	got := RequiredInstallments(c, date(2023, time.January, 2))
	if got == nil || *got != 0 {
		t.Fatalf("Expected 0 installments before the first due date, got %v", got)
	}
}

func TestRequiredInstallments_Bounds(t *testing.T) {
	c := testCredit()
	for d := date(2023, time.January, 1); d.Before(date(2025, time.January, 1)); d = d.AddDate(0, 0, 7) {
		got := RequiredInstallments(c, d)
		if got == nil {
			t.Fatalf("Expected defined installments at %s", d.Format("2006-01-02"))
		}
		if *got < 0 || *got > c.Term {
			t.Fatalf("Installments %d out of [0, %d] at %s", *got, c.Term, d.Format("2006-01-02"))
		}
	}
}

func TestRequiredAmount(t *testing.T) {
	c := testCredit()
	n := 4
	got := RequiredAmount(c, &n)
	if got == nil || !got.Equal(decimal.NewFromInt(4000)) {
		t.Fatalf("Expected required amount 4000, got %v", got)
	}

	if RequiredAmount(c, nil) != nil {
		t.Error("Expected nil required amount to propagate")
	}
}
