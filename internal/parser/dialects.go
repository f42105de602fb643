package parser

import (
	"regexp"
	"time"
)

// A dialect is one recognizable SMS template: a recognition pattern with
// named captures (amount, merchant, optional date) plus the constant
// classification it implies. Dialects are not mutually exclusive in what
// they can match, so the slice order below is the precedence order.
type dialect struct {
	name      string
	re        *regexp.Regexp
	direction Direction
	category  string
}

var dialects = []dialect{
	// Outbound UPI payment.
	// "Sent Rs.299.00 from HDFC Bank A/c 1263 To Google Play 18/11/25"
	{
		name:      "upi_sent",
		re:        regexp.MustCompile(`(?is)sent\s+rs\.?\s*(?P<amount>[\d,]+\.?\d*)\s+from\b.*?\bto\s+(?P<merchant>.*?)\s+(?:on\s+)?(?P<date>\d{2}/\d{2}/\d{2})`),
		direction: Expense,
		category:  CategoryUPI,
	},

	// Inbound UPI credit.
	// "Rs.1,500.00 credited to your A/c XX1263 via UPI by rahul@okicici on 21/11/25 - HDFC Bank"
	{
		name:      "upi_credit",
		re:        regexp.MustCompile(`(?is)rs\.?\s*(?P<amount>[\d,]+\.?\d*)\s+(?:is\s+|has been\s+)?credited\s+to\s+(?:your\s+)?a/c\b.*?\b(?:by|from)\s+(?P<merchant>\S+)\s+on\s+(?P<date>\d{2}/\d{2}/\d{2})`),
		direction: Income,
		category:  CategoryIncome,
	},

	// Failed UPI payment reversed to the account. Carries no date.
	// "Rs.299.00 reversed to your HDFC Bank A/c 1263 for failed UPI transaction to Google Play. Ref 123456789012."
	{
		name:      "upi_reversal",
		re:        regexp.MustCompile(`(?is)rs\.?\s*(?P<amount>[\d,]+\.?\d*)\s+(?:has been\s+)?reversed\b.*?(?:txn|transaction)\s+to\s+(?P<merchant>[^.\n]+)`),
		direction: Income,
		category:  CategoryUPI,
	},

	// Credit card point-of-sale spend.
	// "Transaction Successful! INR 867.00 spent on your IDFC FIRST Bank Credit Card ending XX1142 at ZOMATO on 31 OCT 2025"
	{
		name:      "card_spent",
		re:        regexp.MustCompile(`(?is)(?:transaction successful!|delicious purchase!|happy shopping!).*?inr\s+(?P<amount>[\d,]+\.?\d*)\s+spent\b.*?\bat\s+(?P<merchant>.*?)\s+on\s+(?P<date>\d{2}\s+[a-z]{3}\s+\d{4})`),
		direction: Expense,
		category:  CategoryCreditCard,
	},

	// Credit card bill payment out of the savings account.
	// "Payment of Rs.12,340.00 received towards your SBI Card ending 8656 on 05-Nov-25. Thank you."
	{
		name:      "card_bill_payment",
		re:        regexp.MustCompile(`(?is)payment of rs\.?\s*(?P<amount>[\d,]+\.?\d*)\s+(?:received|credited)?\s*towards your\s+(?P<merchant>.*?)(?:\s+ending\s+(?:xx)?\d{4})?\s+on\s+(?P<date>\d{2}-[a-z]{3}-\d{2})`),
		direction: Expense,
		category:  CategoryCreditCard,
	},

	// Standing e-mandate debit notification.
	// "Rs.299.00 will be deducted on 15/11/25, 00:00:00 For GOOGLE INDIA DIGITAL SERVICES mandate ref HDFC000123"
	{
		name:      "emandate",
		re:        regexp.MustCompile(`(?is)rs\.?\s*(?P<amount>[\d,]+\.?\d*)\s+will be deducted\b.*?\bon\s+(?P<date>\d{2}/\d{2}/\d{2}).*?\bfor\s+(?P<merchant>.*?)\s*(?:mandate|umn)`),
		direction: Expense,
		category:  CategoryAutoDebit,
	},

	// Generic "amount deducted towards X" debit. Carries no date.
	// "Rs.149.00 deducted from your account towards NETFLIX ENTERTAINMENT SERVICES. Avl bal Rs.1,000.00"
	{
		name:      "generic_debit",
		re:        regexp.MustCompile(`(?is)rs\.?\s*(?P<amount>[\d,]+\.?\d*)\s+(?:has been\s+)?deducted\b.*?\btowards\s+(?P<merchant>[^.\n]+)`),
		direction: Expense,
		category:  CategoryAutoDebit,
	},

	// NEFT / salary credit. Description lines run long and get truncated.
	// "Your A/c XX1263 is credited with Rs.85,000.00 on 30-11-25 by NEFT from ACME CORP PVT LTD SALARY NOV 2025 PAYROLL"
	{
		name:      "neft_credit",
		re:        regexp.MustCompile(`(?is)credited\s+with\s+(?:rs\.?|inr)\s*(?P<amount>[\d,]+\.?\d*)\s+on\s+(?P<date>\d{2}-\d{2}-\d{2})\b.*?\bneft\b.*?\bfrom\s+(?P<merchant>[^.\n]+)`),
		direction: Income,
		category:  CategoryIncome,
	},
}

// match applies the dialect's pattern and derives the typed fields. A
// captured amount that fails to parse is treated as a failed match, not an
// error: anchor phrases overlap across dialects, so later matchers still
// get a chance.
func (d dialect) match(body string) (*Transaction, bool) {
	m := d.re.FindStringSubmatch(body)
	if m == nil {
		return nil, false
	}

	groups := make(map[string]string)
	for i, name := range d.re.SubexpNames() {
		if name != "" && i < len(m) {
			groups[name] = m[i]
		}
	}

	amount, err := parseAmount(groups["amount"])
	if err != nil {
		return nil, false
	}

	// Dialects without a date group intentionally fall back to now.
	date := time.Now()
	if ds := groups["date"]; ds != "" {
		date = parseDate(ds)
	}

	return &Transaction{
		Amount:    amount,
		Direction: d.direction,
		Date:      date,
		Merchant:  trimMerchant(groups["merchant"]),
		Category:  d.category,
		Source:    Source,
	}, true
}
