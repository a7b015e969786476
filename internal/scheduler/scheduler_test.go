package scheduler

import (
	"testing"
	"time"

	"github.com/RiXaTorAguGoBravo/matriz-cobranza/internal/report"
	"github.com/RiXaTorAguGoBravo/matriz-cobranza/pkg/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

// MockStore is a simple in-memory implementation of the Storage interface
// for testing.
type MockStore struct {
	credits  []models.Credit
	payments []models.Payment
}

func (m *MockStore) Credits() ([]models.Credit, error)   { return m.credits, nil }
func (m *MockStore) Payments() ([]models.Payment, error) { return m.payments, nil }

func (m *MockStore) AddCredit(c *models.Credit) error {
	m.credits = append(m.credits, *c)
	return nil
}

func (m *MockStore) AddPayment(p *models.Payment) error {
	m.payments = append(m.payments, *p)
	return nil
}

func (m *MockStore) Close() error { return nil }

func TestReportFor_MonthJustClosed(t *testing.T) {
	store := &MockStore{}
	store.AddCredit(&models.Credit{
		ID:                 "C-1",
		OpenDate:           time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC),
		FirstPaymentDate:   time.Date(2023, time.February, 1, 0, 0, 0, 0, time.UTC),
		Term:               12,
		MonthlyInstallment: decimal.NewFromInt(1000),
		InitialBalance:     decimal.NewFromInt(12000),
	})
	store.AddPayment(&models.Payment{
		CreditID:     "C-1",
		PaymentDate:  time.Date(2023, time.April, 1, 0, 0, 0, 0, time.UTC),
		Amount:       decimal.NewFromInt(3000),
		BalanceAfter: decimal.NewFromInt(9000),
	})

	logger, hook := test.NewNullLogger()
	s := New(report.NewBuilder(store, logger), logger)

	// Fired on the 1st of May: the report covers April, as of its last day.
	s.reportFor(time.Date(2023, time.May, 1, 6, 0, 0, 0, time.UTC))

	var done *logrus.Entry
	for _, e := range hook.AllEntries() {
		if e.Message == "scheduled report complete" {
			done = e
		}
	}
	if done == nil {
		t.Fatal("Expected a completion log entry")
	}
	if done.Data["as_of"] != "2023-04-30" {
		t.Errorf("Expected report as of 2023-04-30, got %v", done.Data["as_of"])
	}
	if done.Data["total"] != 1 {
		t.Errorf("Expected 1 credit in the report, got %v", done.Data["total"])
	}
	// Paid in full through April: nothing at risk.
	if done.Data["at_risk"] != 0 {
		t.Errorf("Expected 0 credits at risk, got %v", done.Data["at_risk"])
	}
}
