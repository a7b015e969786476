package aging

import (
	"time"

	"github.com/RiXaTorAguGoBravo/matriz-cobranza/pkg/models"
)

// InReportingWindow reports whether the credit belongs to the reporting
// month containing asOf. A credit first becomes reportable the calendar
// month after it opened, and stops counting once the month's first day
// reaches its close date. A credit closed mid-month therefore still reports
// for that month.
func InReportingWindow(c models.Credit, asOf time.Time) bool {
	firstMonth := startOfMonth(c.OpenDate).AddDate(0, 1, 0)
	current := startOfMonth(asOf)
	if current.Before(firstMonth) {
		return false
	}
	if c.CloseDate != nil && !current.Before(*c.CloseDate) {
		return false
	}
	return true
}

// ActiveCredits returns the subset of credits inside their reporting window
// for the month containing asOf, in input order.
func ActiveCredits(credits []models.Credit, asOf time.Time) []models.Credit {
	active := make([]models.Credit, 0, len(credits))
	for _, c := range credits {
		if InReportingWindow(c, asOf) {
			active = append(active, c)
		}
	}
	return active
}
