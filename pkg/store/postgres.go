package store

import (
	"database/sql"
	"fmt"

	"github.com/RiXaTorAguGoBravo/matriz-cobranza/pkg/models"

	_ "github.com/lib/pq"
)

// PostgresStore reads the portfolio tables from the origination database.
// Unlike the SQLite store it does not own the schema; the credits and
// payments tables are managed by the upstream system.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore connects to the database behind the given DSN.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("could not connect to database: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// Credits retrieves the full credit table.
func (s *PostgresStore) Credits() ([]models.Credit, error) {
	rows, err := s.db.Query(`
		SELECT id, open_date, first_payment_date, term, monthly_installment, initial_balance, close_date
		FROM credits`)
	if err != nil {
		return nil, fmt.Errorf("failed to get credits: %w", err)
	}
	defer rows.Close()

	var credits []models.Credit
	for rows.Next() {
		var c models.Credit
		var closeDate sql.NullTime
		if err := rows.Scan(&c.ID, &c.OpenDate, &c.FirstPaymentDate, &c.Term, &c.MonthlyInstallment, &c.InitialBalance, &closeDate); err != nil {
			return nil, fmt.Errorf("failed to scan credit row: %w", err)
		}
		if closeDate.Valid {
			c.CloseDate = &closeDate.Time
		}
		credits = append(credits, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration: %w", err)
	}
	return credits, nil
}

// Payments retrieves the payment ledger in recording order.
func (s *PostgresStore) Payments() ([]models.Payment, error) {
	rows, err := s.db.Query(`
		SELECT credit_id, payment_date, payment_amount, balance_after
		FROM payments
		ORDER BY payment_date ASC, row_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to get payments: %w", err)
	}
	defer rows.Close()

	var payments []models.Payment
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(&p.CreditID, &p.PaymentDate, &p.Amount, &p.BalanceAfter); err != nil {
			return nil, fmt.Errorf("failed to scan payment row: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration: %w", err)
	}
	return payments, nil
}

// AddCredit inserts a new credit.
func (s *PostgresStore) AddCredit(credit *models.Credit) error {
	_, err := s.db.Exec(`
		INSERT INTO credits (id, open_date, first_payment_date, term, monthly_installment, initial_balance, close_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		credit.ID, credit.OpenDate, credit.FirstPaymentDate, credit.Term, credit.MonthlyInstallment, credit.InitialBalance, credit.CloseDate,
	)
	if err != nil {
		return fmt.Errorf("failed to add credit: %w", err)
	}
	return nil
}

// AddPayment appends a payment to the ledger.
func (s *PostgresStore) AddPayment(payment *models.Payment) error {
	_, err := s.db.Exec(`
		INSERT INTO payments (credit_id, payment_date, payment_amount, balance_after)
		VALUES ($1, $2, $3, $4)`,
		payment.CreditID, payment.PaymentDate, payment.Amount, payment.BalanceAfter,
	)
	if err != nil {
		return fmt.Errorf("failed to add payment: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
