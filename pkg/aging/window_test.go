package aging

import (
	"testing"
	"time"

	"github.com/RiXaTorAguGoBravo/matriz-cobranza/pkg/models"
)

func TestInReportingWindow_StartsMonthAfterOpen(t *testing.T) {
	c := testCredit() // opened 2023-01-01

	if InReportingWindow(c, date(2023, time.January, 31)) {
		t.Error("Credit should not report in its opening month")
	}
	if !InReportingWindow(c, date(2023, time.February, 1)) {
		t.Error("Credit should report the month after it opened")
	}
	if !InReportingWindow(c, date(2023, time.February, 28)) {
		t.Error("Window membership should not depend on the day within the month")
	}
}

func TestInReportingWindow_CloseDate(t *testing.T) {
	c := testCredit()
	closed := date(2023, time.March, 1)
	c.CloseDate = &closed

	if !InReportingWindow(c, date(2023, time.February, 15)) {
		t.Error("Credit should report in February before its close")
	}
	// Closed on the month's first day: out as of March.
	if InReportingWindow(c, date(2023, time.March, 15)) {
		t.Error("Credit closed 2023-03-01 should not report in March")
	}

	// Closed mid-month: still reports for that month.
	closedMid := date(2023, time.March, 20)
	c.CloseDate = &closedMid
	if !InReportingWindow(c, date(2023, time.March, 15)) {
		t.Error("Credit closed mid-March should still report in March")
	}
	if InReportingWindow(c, date(2023, time.April, 1)) {
		t.Error("Credit closed in March should not report in April")
	}
}

func TestActiveCredits(t *testing.T) {
	open := testCredit()
	closed := testCredit()
	closed.ID = "C-2"
	closeDate := date(2023, time.March, 1)
	closed.CloseDate = &closeDate
	young := testCredit()
	young.ID = "C-3"
	young.OpenDate = date(2023, time.March, 10)
	young.FirstPaymentDate = date(2023, time.April, 10)

	active := ActiveCredits([]models.Credit{open, closed, young}, date(2023, time.March, 15))
	if len(active) != 1 || active[0].ID != "C-1" {
		t.Fatalf("Expected only C-1 active in March, got %v", active)
	}
}
