package importer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"smskhata/internal/extractor"
	"smskhata/internal/parser"
	"smskhata/internal/store"
)

// RawMessage is one SMS as supplied by the message source. The importer
// only reads Body for extraction; ID keys the one-time-import ledger.
type RawMessage struct {
	ID         string    `json:"id"`
	Sender     string    `json:"sender"`
	Body       string    `json:"body"`
	ReceivedAt time.Time `json:"received_at"`
}

// Filter limits which messages a source returns.
type Filter struct {
	MinDate  time.Time
	MaxCount int
}

// MessageSource yields raw messages: the device inbox on a phone, a JSON
// dump of it everywhere else.
type MessageSource interface {
	Messages(ctx context.Context, f Filter) ([]RawMessage, error)
}

// Summary reports one import run.
type Summary struct {
	RunID      string    `json:"run_id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Total      int       `json:"total"`
	Imported   int       `json:"imported"`
	Skipped    int       `json:"skipped"`  // already in the ledger
	NoMatch    int       `json:"no_match"` // no dialect recognized the body
	Failed     int       `json:"failed"`
}

var (
	errNoMatch         = errors.New("no dialect matched")
	errAlreadyImported = errors.New("message already imported")
	errNoAccount       = errors.New("no account to import into")
)

// Importer turns recognized SMS messages into stored income and expense
// rows, resolving each message's account hint against the account table.
type Importer struct {
	store  *store.Store
	source MessageSource
	log    zerolog.Logger
}

func New(st *store.Store, src MessageSource, log zerolog.Logger) *Importer {
	return &Importer{store: st, source: src, log: log}
}

// Run fetches messages matching f and imports every recognized transaction
// that is not already in the ledger. A message that fails to import does
// not stop the run; it is counted and logged.
func (im *Importer) Run(ctx context.Context, f Filter) (*Summary, error) {
	msgs, err := im.source.Messages(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("fetching messages: %w", err)
	}

	sum := &Summary{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
		Total:     len(msgs),
	}

	for _, msg := range msgs {
		switch err := im.importOne(ctx, sum.RunID, msg); {
		case err == nil:
			sum.Imported++
		case errors.Is(err, errNoMatch):
			sum.NoMatch++
		case errors.Is(err, errAlreadyImported):
			sum.Skipped++
		default:
			sum.Failed++
			im.log.Error().Err(err).Str("sms_id", msg.ID).Msg("import failed")
		}
	}

	sum.FinishedAt = time.Now()
	im.log.Info().
		Str("run_id", sum.RunID).
		Int("total", sum.Total).
		Int("imported", sum.Imported).
		Int("skipped", sum.Skipped).
		Int("no_match", sum.NoMatch).
		Int("failed", sum.Failed).
		Msg("import run finished")

	return sum, nil
}

func (im *Importer) importOne(ctx context.Context, runID string, msg RawMessage) error {
	tx := parser.Parse(msg.Body)
	if tx == nil {
		return errNoMatch
	}

	imported, err := im.store.IsImported(ctx, msg.ID)
	if err != nil {
		return err
	}
	if imported {
		return errAlreadyImported
	}

	accountID, err := im.resolveAccount(ctx, tx)
	if err != nil {
		return err
	}

	rec := store.ImportRecord{
		SMSID:      msg.ID,
		RunID:      runID,
		AccountID:  accountID,
		ReceivedAt: msg.ReceivedAt,
	}

	if tx.Direction == parser.Income {
		id, err := im.store.InsertIncome(ctx, tx.Merchant, tx.Amount, tx.Date, accountID)
		if err != nil {
			return err
		}
		rec.IncomeID = sql.NullInt64{Int64: id, Valid: true}
	} else {
		note := tx.Merchant + " (from SMS)"
		id, err := im.store.InsertSpend(ctx, tx.Date, tx.Category, tx.Amount, note, accountID)
		if err != nil {
			return err
		}
		rec.SpendID = sql.NullInt64{Int64: id, Valid: true}
	}

	return im.store.MarkImported(ctx, rec)
}

// resolveAccount maps a parsed transaction to a stored account: the
// account hint when the message carried one (created on first sight),
// otherwise the default savings account.
func (im *Importer) resolveAccount(ctx context.Context, tx *parser.Transaction) (int64, error) {
	if hint := tx.Account; hint != nil {
		id, err := im.store.FindOrCreateAccount(ctx, hint.LastFour, hint.BankName, hint.Kind)
		if err != nil {
			return 0, fmt.Errorf("resolving account hint: %w", err)
		}
		return id, nil
	}

	acc, err := im.store.DefaultAccount(ctx, extractor.KindSavings)
	if err != nil {
		return 0, err
	}
	if acc == nil {
		return 0, errNoAccount
	}
	return acc.ID, nil
}
