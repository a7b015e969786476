package store

import (
	"github.com/RiXaTorAguGoBravo/matriz-cobranza/pkg/models"
)

// Storage supplies the immutable input tables the aging pipeline consumes.
// Payments must come back in ledger order: payment date ascending, insertion
// order within a date.
type Storage interface {
	Credits() ([]models.Credit, error)
	Payments() ([]models.Payment, error)

	AddCredit(credit *models.Credit) error
	AddPayment(payment *models.Payment) error

	Close() error
}
