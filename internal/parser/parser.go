package parser

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"smskhata/internal/extractor"
)

// Direction indicates whether money left or entered the tracked funds.
type Direction string

const (
	Expense Direction = "expense"
	Income  Direction = "income"
)

// Category labels bound to the dialect that recognized a message. They
// classify the message template, not the semantics of the purchase.
const (
	CategoryUPI        = "UPI Payment"
	CategoryCreditCard = "Credit Card"
	CategoryAutoDebit  = "Auto-debit"
	CategoryIncome     = "Income"
)

// Source marks records extracted from SMS, as opposed to manual entry.
const Source = "SMS"

// maxMerchantLen bounds merchant text; NEFT description lines in
// particular carry long bank boilerplate.
const maxMerchantLen = 50

// Transaction is a structured financial record extracted from one SMS body.
type Transaction struct {
	Amount    decimal.Decimal            `json:"amount"`
	Direction Direction                  `json:"direction"`
	Date      time.Time                  `json:"date"`
	Merchant  string                     `json:"merchant"`
	Category  string                     `json:"category"`
	Account   *extractor.AccountIdentity `json:"account,omitempty"`
	Source    string                     `json:"source"`
}

// Parse runs the dialect matchers in priority order and returns the first
// successful extraction, or nil when no dialect recognizes the message.
// Empty or blank input is a non-match, not an error.
func Parse(body string) *Transaction {
	if strings.TrimSpace(body) == "" {
		return nil
	}

	for _, d := range dialects {
		if tx, ok := d.match(body); ok {
			tx.Account = extractor.Extract(body)
			return tx
		}
	}

	return nil
}

// ParseBatch parses each body, dropping messages no dialect recognizes.
// Relative input order is preserved; callers may re-sort by Date.
func ParseBatch(bodies []string) []Transaction {
	var txs []Transaction
	for _, body := range bodies {
		if tx := Parse(body); tx != nil {
			txs = append(txs, *tx)
		}
	}
	return txs
}

// parseAmount normalizes a captured numeric token, stripping the
// thousands-grouping commas banks format amounts with ("1,23,456.78").
func parseAmount(token string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.ReplaceAll(token, ",", ""))
}

func trimMerchant(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxMerchantLen {
		s = strings.TrimSpace(s[:maxMerchantLen])
	}
	return s
}
