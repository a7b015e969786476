package store

import (
	"database/sql"
	"fmt"

	"github.com/RiXaTorAguGoBravo/matriz-cobranza/pkg/models"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore manages the database connection and operations for SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLiteStore and initializes the database.
func NewSQLiteStore(dataSourceName string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}

	// Manually enable foreign keys and WAL mode
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL;"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("could not connect to database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("could not initialize schema: %w", err)
	}
	return s, nil
}

// initSchema creates the database tables if they don't already exist.
// We use TEXT for decimal fields in SQLite to ensure no precision is lost.
// The payments rowid preserves the ledger's recording order for same-day
// payments.
func (s *SQLiteStore) initSchema() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS credits (
		id TEXT PRIMARY KEY,
		open_date DATETIME NOT NULL,
		first_payment_date DATETIME NOT NULL,
		term INTEGER NOT NULL,
		monthly_installment TEXT NOT NULL,
		initial_balance TEXT NOT NULL,
		close_date DATETIME
	);
	CREATE TABLE IF NOT EXISTS payments (
		row_id INTEGER PRIMARY KEY AUTOINCREMENT,
		credit_id TEXT NOT NULL,
		payment_date DATETIME NOT NULL,
		payment_amount TEXT NOT NULL,
		balance_after TEXT NOT NULL,
		FOREIGN KEY(credit_id) REFERENCES credits(id)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// AddCredit inserts a new credit into the database.
func (s *SQLiteStore) AddCredit(credit *models.Credit) error {
	var closeDate sql.NullTime
	if credit.CloseDate != nil {
		closeDate = sql.NullTime{Time: *credit.CloseDate, Valid: true}
	}
	_, err := s.db.Exec(
		`INSERT INTO credits (id, open_date, first_payment_date, term, monthly_installment, initial_balance, close_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		credit.ID, credit.OpenDate, credit.FirstPaymentDate, credit.Term, credit.MonthlyInstallment, credit.InitialBalance, closeDate,
	)
	if err != nil {
		return fmt.Errorf("failed to add credit: %w", err)
	}
	return nil
}

// AddPayment appends a payment to the ledger.
func (s *SQLiteStore) AddPayment(payment *models.Payment) error {
	_, err := s.db.Exec(
		`INSERT INTO payments (credit_id, payment_date, payment_amount, balance_after)
		VALUES (?, ?, ?, ?)`,
		payment.CreditID, payment.PaymentDate, payment.Amount, payment.BalanceAfter,
	)
	if err != nil {
		return fmt.Errorf("failed to add payment: %w", err)
	}
	return nil
}

// Credits retrieves the full credit table.
func (s *SQLiteStore) Credits() ([]models.Credit, error) {
	rows, err := s.db.Query(`SELECT id, open_date, first_payment_date, term, monthly_installment, initial_balance, close_date FROM credits`)
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
func (s *SQLiteStore) Payments() ([]models.Payment, error) {
	rows, err := s.db.Query(`SELECT credit_id, payment_date, payment_amount, balance_after FROM payments ORDER BY payment_date ASC, row_id ASC`)
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

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
