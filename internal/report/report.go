// Package report assembles the periodic portfolio risk report from the
// aging pipeline's output: one metric row per active credit with its
// beginning-of-period counterpart, the bucket distribution, and the
// within-month bucket migrations.
package report

import (
	"errors"
	"time"

	"github.com/RiXaTorAguGoBravo/matriz-cobranza/pkg/aging"
	"github.com/RiXaTorAguGoBravo/matriz-cobranza/pkg/models"
	"github.com/RiXaTorAguGoBravo/matriz-cobranza/pkg/store"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// ErrCreditNotFound is returned when a requested credit ID is not in the
// portfolio.
var ErrCreditNotFound = errors.New("credit not found")

// Row pairs a credit's metrics as of the reference date with its
// beginning-of-period bucket and balance.
type Row struct {
	models.CreditMetrics
	OpeningBucket  models.Bucket   `json:"opening_bucket"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

// BucketStats aggregates one bucket of the distribution.
type BucketStats struct {
	Credits int             `json:"credits"`
	Balance decimal.Decimal `json:"balance"`
}

// Migration records a credit whose bucket changed between the opening date
// and the reference date.
type Migration struct {
	CreditID string        `json:"credit_id"`
	From     models.Bucket `json:"from"`
	To       models.Bucket `json:"to"`
}

// Report is one full portfolio report run.
type Report struct {
	RunID        uuid.UUID                     `json:"run_id"`
	AsOf         time.Time                     `json:"as_of"`
	OpeningAsOf  time.Time                     `json:"opening_as_of"`
	Rows         []Row                         `json:"rows"`
	Distribution map[models.Bucket]BucketStats `json:"distribution"`
	Migrations   []Migration                   `json:"migrations"`
}

// Builder loads the portfolio tables and runs report builds against them.
type Builder struct {
	storage store.Storage
	log     *logrus.Logger
}

// NewBuilder creates a Builder over the given Storage.
func NewBuilder(s store.Storage, log *logrus.Logger) *Builder {
	return &Builder{storage: s, log: log}
}

// Build produces the report for the month containing asOf. Only credits
// inside their reporting window appear; the pipeline still validates and
// runs over the whole portfolio so a payment against an out-of-window
// credit is not mistaken for a fault.
func (b *Builder) Build(asOf time.Time) (*Report, error) {
	credits, payments, err := b.load()
	if err != nil {
		return nil, err
	}

	current, err := aging.Snapshot(credits, payments, asOf)
	if err != nil {
		return nil, err
	}
	opening, err := aging.OpeningSnapshot(credits, payments, asOf)
	if err != nil {
		return nil, err
	}
	openingByID := make(map[string]models.CreditMetrics, len(opening))
	for _, m := range opening {
		openingByID[m.CreditID] = m
	}

	r := &Report{
		RunID:        uuid.New(),
		AsOf:         asOf,
		OpeningAsOf:  aging.OpeningDate(asOf),
		Distribution: make(map[models.Bucket]BucketStats),
	}
	for i, c := range credits {
		if !aging.InReportingWindow(c, asOf) {
			continue
		}
		m := current[i]
		om := openingByID[c.ID]
		r.Rows = append(r.Rows, Row{
			CreditMetrics:  m,
			OpeningBucket:  om.Bucket,
			OpeningBalance: om.Balance,
		})

		stats := r.Distribution[m.Bucket]
		stats.Credits++
		stats.Balance = stats.Balance.Add(m.Balance)
		r.Distribution[m.Bucket] = stats

		if om.Bucket != m.Bucket {
			r.Migrations = append(r.Migrations, Migration{CreditID: c.ID, From: om.Bucket, To: m.Bucket})
		}
	}

	b.log.WithFields(logrus.Fields{
		"run_id":     r.RunID,
		"as_of":      r.AsOf.Format("2006-01-02"),
		"credits":    len(r.Rows),
		"migrations": len(r.Migrations),
	}).Info("portfolio report built")
	return r, nil
}

// Credit returns the metric row for a single credit as of asOf, regardless
// of its reporting window.
func (b *Builder) Credit(id string, asOf time.Time) (*Row, error) {
	credits, payments, err := b.load()
	if err != nil {
		return nil, err
	}

	current, err := aging.Snapshot(credits, payments, asOf)
	if err != nil {
		return nil, err
	}
	opening, err := aging.OpeningSnapshot(credits, payments, asOf)
	if err != nil {
		return nil, err
	}

	for i, c := range credits {
		if c.ID != id {
			continue
		}
		return &Row{
			CreditMetrics:  current[i],
			OpeningBucket:  opening[i].Bucket,
			OpeningBalance: opening[i].Balance,
		}, nil
	}
	return nil, ErrCreditNotFound
}

func (b *Builder) load() ([]models.Credit, []models.Payment, error) {
	credits, err := b.storage.Credits()
	if err != nil {
		return nil, nil, err
	}
	payments, err := b.storage.Payments()
	if err != nil {
		return nil, nil, err
	}
	return credits, payments, nil
}
