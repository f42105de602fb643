package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"smskhata/internal/extractor"
)

// Store wraps the SQLite database holding accounts, income and expense
// rows, and the one-time-import ledger.
type Store struct {
	db *sql.DB
}

// Open opens the SQLite database at path, creating it and applying the
// schema when needed.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Account is a stored bank account or credit card. AccountNumber holds
// only the last four digits, the most a notification message reveals.
type Account struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	AccountNumber string `json:"account_number"`
	AccountType   string `json:"account_type"`
	BankName      string `json:"bank_name"`
	IsDefault     bool   `json:"is_default"`
	AutoCreated   bool   `json:"auto_created"`
}

// FindOrCreateAccount resolves an account by (lastFour, kind), creating an
// auto-named record on first sight. Returns the account id.
func (s *Store) FindOrCreateAccount(ctx context.Context, lastFour, bankName string, kind extractor.AccountKind) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM accounts WHERE account_number = ? AND account_type = ?`,
		lastFour, string(kind)).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("looking up account: %w", err)
	}

	name := fmt.Sprintf("%s Savings (XX%s)", bankName, lastFour)
	if kind == extractor.KindCreditCard {
		name = fmt.Sprintf("%s Credit Card (XX%s)", bankName, lastFour)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO accounts (name, account_number, account_type, bank_name, is_default, auto_created, created_at, updated_at)
		 VALUES (?, ?, ?, ?, 0, 1, ?, ?)`,
		name, lastFour, string(kind), bankName, now, now)
	if err != nil {
		return 0, fmt.Errorf("creating account: %w", err)
	}

	return res.LastInsertId()
}

// DefaultAccount returns the account flagged default for the given kind,
// falling back to the first account of that kind. Nil when none exist.
func (s *Store) DefaultAccount(ctx context.Context, kind extractor.AccountKind) (*Account, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, account_number, account_type, bank_name, is_default, auto_created
		 FROM accounts WHERE account_type = ?
		 ORDER BY is_default DESC, id ASC LIMIT 1`, string(kind))

	var a Account
	err := row.Scan(&a.ID, &a.Name, &a.AccountNumber, &a.AccountType, &a.BankName, &a.IsDefault, &a.AutoCreated)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading default account: %w", err)
	}
	return &a, nil
}

// ListAccounts returns all accounts, defaults first.
func (s *Store) ListAccounts(ctx context.Context) ([]Account, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, account_number, account_type, bank_name, is_default, auto_created
		 FROM accounts ORDER BY is_default DESC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	defer rows.Close()

	var accounts []Account
	for rows.Next() {
		var a Account
		if err := rows.Scan(&a.ID, &a.Name, &a.AccountNumber, &a.AccountType, &a.BankName, &a.IsDefault, &a.AutoCreated); err != nil {
			return nil, fmt.Errorf("scanning account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// InsertIncome writes one income row and returns its id.
func (s *Store) InsertIncome(ctx context.Context, source string, amount decimal.Decimal, date time.Time, accountID int64) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO income (source, amount, date, account_id) VALUES (?, ?, ?, ?)`,
		source, amount.InexactFloat64(), date.Format(time.DateOnly), accountID)
	if err != nil {
		return 0, fmt.Errorf("inserting income: %w", err)
	}
	return res.LastInsertId()
}

// InsertSpend writes one expense row and returns its id.
func (s *Store) InsertSpend(ctx context.Context, date time.Time, category string, amount decimal.Decimal, note string, accountID int64) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO daily_spends (date, category, amount, note, account_id) VALUES (?, ?, ?, ?, ?)`,
		date.Format(time.DateOnly), category, amount.InexactFloat64(), note, accountID)
	if err != nil {
		return 0, fmt.Errorf("inserting spend: %w", err)
	}
	return res.LastInsertId()
}

// IsImported reports whether the message id is already in the ledger.
func (s *Store) IsImported(ctx context.Context, smsID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM imported_sms WHERE sms_id = ?`, smsID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking import ledger: %w", err)
	}
	return n > 0, nil
}

// ImportRecord is one ledger entry tying a message id to the rows created
// from it. ReceivedAt preserves the provider receipt timestamp so a later
// date policy change can re-derive dates without re-reading the inbox.
type ImportRecord struct {
	SMSID      string
	RunID      string
	AccountID  int64
	IncomeID   sql.NullInt64
	SpendID    sql.NullInt64
	ReceivedAt time.Time
}

// MarkImported records a ledger entry for an imported message.
func (s *Store) MarkImported(ctx context.Context, rec ImportRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO imported_sms (sms_id, imported_at, received_at, import_run_id, account_id, income_id, daily_spend_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.SMSID,
		time.Now().UTC().Format(time.RFC3339),
		rec.ReceivedAt.UTC().Format(time.RFC3339),
		rec.RunID, rec.AccountID, rec.IncomeID, rec.SpendID)
	if err != nil {
		return fmt.Errorf("recording import: %w", err)
	}
	return nil
}

const schemaSQL = `
-- accounts: savings accounts and credit cards, auto-created on first sight
CREATE TABLE IF NOT EXISTS accounts (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    account_number TEXT,
    account_type TEXT NOT NULL CHECK (account_type IN ('savings', 'credit_card')),
    bank_name TEXT,
    current_balance REAL DEFAULT 0,
    credit_limit REAL DEFAULT 0,
    is_default INTEGER DEFAULT 0,
    auto_created INTEGER DEFAULT 0,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_accounts_number ON accounts(account_number);
CREATE INDEX IF NOT EXISTS idx_accounts_default ON accounts(is_default);

-- income: credits linked to an account
CREATE TABLE IF NOT EXISTS income (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    source TEXT NOT NULL,
    amount REAL NOT NULL,
    date TEXT NOT NULL,
    account_id INTEGER REFERENCES accounts(id)
);

-- daily_spends: debits linked to an account
CREATE TABLE IF NOT EXISTS daily_spends (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    date TEXT NOT NULL,
    category TEXT NOT NULL,
    amount REAL NOT NULL,
    note TEXT,
    account_id INTEGER REFERENCES accounts(id)
);

-- imported_sms: one-time-import ledger keyed by provider message id
CREATE TABLE IF NOT EXISTS imported_sms (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    sms_id TEXT NOT NULL UNIQUE,
    imported_at TEXT NOT NULL,
    received_at TEXT,
    import_run_id TEXT,
    account_id INTEGER REFERENCES accounts(id),
    income_id INTEGER REFERENCES income(id),
    daily_spend_id INTEGER REFERENCES daily_spends(id)
);
`
