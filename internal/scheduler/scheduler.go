// Package scheduler runs the portfolio report on a cron schedule, typically
// at the start of each month for the month just closed.
package scheduler

import (
	"fmt"
	"time"

	"github.com/RiXaTorAguGoBravo/matriz-cobranza/internal/report"
	"github.com/RiXaTorAguGoBravo/matriz-cobranza/pkg/aging"
	"github.com/RiXaTorAguGoBravo/matriz-cobranza/pkg/models"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Scheduler manages the periodic report task.
type Scheduler struct {
	cron    *cron.Cron
	builder *report.Builder
	log     *logrus.Logger
}

// New creates a Scheduler around the given report builder.
func New(builder *report.Builder, log *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		builder: builder,
		log:     log,
	}
}

// Register adds the report task under the given cron spec.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.runReport); err != nil {
		return fmt.Errorf("register report task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.log.Info("scheduler stopped")
}

// RunNow executes the report task immediately (manual trigger).
func (s *Scheduler) RunNow() {
	s.runReport()
}

func (s *Scheduler) runReport() {
	s.reportFor(time.Now().UTC())
}

// reportFor builds the report for the month just closed relative to now:
// firing on the 1st reports the prior month, as of its last day.
func (s *Scheduler) reportFor(now time.Time) {
	asOf := aging.OpeningDate(now)
	r, err := s.builder.Build(asOf)
	if err != nil {
		s.log.WithError(err).Error("scheduled report failed")
		return
	}
	for bucket, stats := range r.Distribution {
		s.log.WithFields(logrus.Fields{
			"run_id":  r.RunID,
			"bucket":  string(bucket),
			"credits": stats.Credits,
			"balance": stats.Balance.StringFixed(2),
		}).Info("bucket distribution")
	}
	var atRisk int
	for _, row := range r.Rows {
		if row.Bucket != models.BucketCurrent {
			atRisk++
		}
	}
	s.log.WithFields(logrus.Fields{
		"run_id":  r.RunID,
		"as_of":   r.AsOf.Format("2006-01-02"),
		"at_risk": atRisk,
		"total":   len(r.Rows),
	}).Info("scheduled report complete")
}
