package parser

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"smskhata/internal/extractor"
)

func TestParseDialects(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		wantAmount    string
		wantDirection Direction
		wantCategory  string
		wantMerchant  string
		wantDate      time.Time // zero means "now" fallback, checked separately
		wantLastFour  string    // empty means no account hint
		wantBank      string
		wantKind      extractor.AccountKind
	}{
		{
			name:          "upi sent",
			body:          "Sent Rs.299.00 from HDFC Bank A/c 1263 To Google Play 18/11/25",
			wantAmount:    "299",
			wantDirection: Expense,
			wantCategory:  CategoryUPI,
			wantMerchant:  "Google Play",
			wantDate:      time.Date(2025, time.November, 18, 0, 0, 0, 0, time.UTC),
			wantLastFour:  "1263",
			wantBank:      "HDFC Bank",
			wantKind:      extractor.KindSavings,
		},
		{
			name:          "upi credit",
			body:          "Rs.1,500.00 credited to your A/c XX1263 via UPI by rahul.sharma@okicici on 21/11/25 - HDFC Bank",
			wantAmount:    "1500",
			wantDirection: Income,
			wantCategory:  CategoryIncome,
			wantMerchant:  "rahul.sharma@okicici",
			wantDate:      time.Date(2025, time.November, 21, 0, 0, 0, 0, time.UTC),
			wantLastFour:  "1263",
			wantBank:      "HDFC Bank",
			wantKind:      extractor.KindSavings,
		},
		{
			name:          "upi reversal",
			body:          "Rs.299.00 reversed to your HDFC Bank A/c 1263 for failed UPI transaction to Google Play. Ref 123456789012.",
			wantAmount:    "299",
			wantDirection: Income,
			wantCategory:  CategoryUPI,
			wantMerchant:  "Google Play",
			wantLastFour:  "1263",
			wantBank:      "HDFC Bank",
			wantKind:      extractor.KindSavings,
		},
		{
			name:          "card spent",
			body:          "Transaction Successful! INR 867.00 spent on your IDFC FIRST Bank Credit Card ending XX1142 at ZOMATO on 31 OCT 2025",
			wantAmount:    "867",
			wantDirection: Expense,
			wantCategory:  CategoryCreditCard,
			wantMerchant:  "ZOMATO",
			wantDate:      time.Date(2025, time.October, 31, 0, 0, 0, 0, time.UTC),
			wantLastFour:  "1142",
			wantBank:      "IDFC FIRST Bank",
			wantKind:      extractor.KindCreditCard,
		},
		{
			name:          "card bill payment",
			body:          "Payment of Rs.12,340.00 received towards your SBI Card ending 8656 on 05-Nov-25. Thank you.",
			wantAmount:    "12340",
			wantDirection: Expense,
			wantCategory:  CategoryCreditCard,
			wantMerchant:  "SBI Card",
			wantDate:      time.Date(2025, time.November, 5, 0, 0, 0, 0, time.UTC),
			wantLastFour:  "8656",
			wantBank:      "SBI",
			wantKind:      extractor.KindCreditCard,
		},
		{
			name:          "emandate",
			body:          "Rs.299.00 will be deducted on 15/11/25, 00:00:00 For GOOGLE INDIA DIGITAL SERVICES mandate ref HDFC0001",
			wantAmount:    "299",
			wantDirection: Expense,
			wantCategory:  CategoryAutoDebit,
			wantMerchant:  "GOOGLE INDIA DIGITAL SERVICES",
			wantDate:      time.Date(2025, time.November, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:          "generic debit",
			body:          "Rs.149.00 deducted from your account towards NETFLIX ENTERTAINMENT SERVICES. Avl bal Rs.1,000.00",
			wantAmount:    "149",
			wantDirection: Expense,
			wantCategory:  CategoryAutoDebit,
			wantMerchant:  "NETFLIX ENTERTAINMENT SERVICES",
		},
		{
			name:          "neft credit",
			body:          "Your A/c XX1263 is credited with Rs.85,000.00 on 30-11-25 by NEFT from ACME CORPORATION INDIA PRIVATE LIMITED SALARY NOVEMBER PAYROLL",
			wantAmount:    "85000",
			wantDirection: Income,
			wantCategory:  CategoryIncome,
			wantMerchant:  "ACME CORPORATION INDIA PRIVATE LIMITED SALARY NOVE",
			wantDate:      time.Date(2025, time.November, 30, 0, 0, 0, 0, time.UTC),
			wantLastFour:  "1263",
			wantBank:      extractor.UnknownBank,
			wantKind:      extractor.KindSavings,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := Parse(tt.body)
			if tx == nil {
				t.Fatalf("Parse() = nil, want a transaction")
			}
			if want := decimal.RequireFromString(tt.wantAmount); !tx.Amount.Equal(want) {
				t.Errorf("Amount = %s, want %s", tx.Amount, want)
			}
			if tx.Direction != tt.wantDirection {
				t.Errorf("Direction = %s, want %s", tx.Direction, tt.wantDirection)
			}
			if tx.Category != tt.wantCategory {
				t.Errorf("Category = %q, want %q", tx.Category, tt.wantCategory)
			}
			if tx.Merchant != tt.wantMerchant {
				t.Errorf("Merchant = %q, want %q", tx.Merchant, tt.wantMerchant)
			}
			if tx.Source != Source {
				t.Errorf("Source = %q, want %q", tx.Source, Source)
			}
			if !tt.wantDate.IsZero() && !tx.Date.Equal(tt.wantDate) {
				t.Errorf("Date = %v, want %v", tx.Date, tt.wantDate)
			}

			if tt.wantLastFour == "" {
				if tx.Account != nil {
					t.Errorf("Account = %+v, want nil", tx.Account)
				}
				return
			}
			if tx.Account == nil {
				t.Fatalf("Account = nil, want last four %q", tt.wantLastFour)
			}
			if tx.Account.LastFour != tt.wantLastFour {
				t.Errorf("Account.LastFour = %q, want %q", tx.Account.LastFour, tt.wantLastFour)
			}
			if tx.Account.BankName != tt.wantBank {
				t.Errorf("Account.BankName = %q, want %q", tx.Account.BankName, tt.wantBank)
			}
			if tx.Account.Kind != tt.wantKind {
				t.Errorf("Account.Kind = %q, want %q", tx.Account.Kind, tt.wantKind)
			}
		})
	}
}

func TestParseNoMatch(t *testing.T) {
	bodies := []string{
		"",
		"   \n\t",
		"Your package has shipped and will arrive Tuesday",
		"Your OTP for login is 446688. Do not share it with anyone.",
	}
	for _, body := range bodies {
		if tx := Parse(body); tx != nil {
			t.Errorf("Parse(%q) = %+v, want nil", body, tx)
		}
	}
}

func TestParsePrecedence(t *testing.T) {
	// Cues for both upi_sent and card_spent; the earlier dialect wins.
	body := "Sent Rs.100.00 from HDFC Bank A/c 1263 To BIGBASKET 01/11/25. " +
		"Transaction Successful! INR 100.00 spent on your card ending XX9999 at BIGBASKET on 01 NOV 2025"

	tx := Parse(body)
	if tx == nil {
		t.Fatalf("Parse() = nil, want a transaction")
	}
	if tx.Category != CategoryUPI {
		t.Errorf("Category = %q, want %q", tx.Category, CategoryUPI)
	}
}

func TestParseAmountSeparators(t *testing.T) {
	grouped := Parse("Sent Rs.1,23,456.78 from HDFC Bank A/c 1263 To Dealer 18/11/25")
	plain := Parse("Sent Rs.123456.78 from HDFC Bank A/c 1263 To Dealer 18/11/25")

	if grouped == nil || plain == nil {
		t.Fatalf("Parse() = nil, want transactions for both spellings")
	}
	if !grouped.Amount.Equal(plain.Amount) {
		t.Errorf("grouped amount %s != plain amount %s", grouped.Amount, plain.Amount)
	}
	if want := decimal.RequireFromString("123456.78"); !grouped.Amount.Equal(want) {
		t.Errorf("Amount = %s, want %s", grouped.Amount, want)
	}
}

func TestParseMalformedAmountFallsThrough(t *testing.T) {
	// The upi_sent anchors match but the numeric token is commas only;
	// the matcher must fail quietly rather than return or panic.
	if tx := Parse("Sent Rs.,, from HDFC Bank A/c 1263 To Shop 18/11/25"); tx != nil {
		t.Errorf("Parse() = %+v, want nil", tx)
	}
}

func TestParseDateFallbackToNow(t *testing.T) {
	bodies := []string{
		"Rs.299.00 reversed to your HDFC Bank A/c 1263 for failed UPI transaction to Google Play. Ref 1234.",
		"Rs.149.00 deducted from your account towards NETFLIX ENTERTAINMENT SERVICES. Avl bal Rs.1,000.00",
	}
	for _, body := range bodies {
		tx := Parse(body)
		if tx == nil {
			t.Fatalf("Parse(%q) = nil, want a transaction", body)
		}
		if since := time.Since(tx.Date); since < 0 || since > 5*time.Second {
			t.Errorf("Date = %v, want within 5s of now", tx.Date)
		}
	}
}

func TestParseBatch(t *testing.T) {
	bodies := []string{
		"Sent Rs.299.00 from HDFC Bank A/c 1263 To Google Play 18/11/25",
		"Your package has shipped and will arrive Tuesday",
		"Rs.299.00 will be deducted on 15/11/25, 00:00:00 For GOOGLE INDIA DIGITAL SERVICES mandate ref HDFC0001",
	}

	txs := ParseBatch(bodies)
	if len(txs) != 2 {
		t.Fatalf("ParseBatch() returned %d transactions, want 2", len(txs))
	}
	// Relative order of messages #1 and #3 is preserved.
	if txs[0].Category != CategoryUPI {
		t.Errorf("txs[0].Category = %q, want %q", txs[0].Category, CategoryUPI)
	}
	if txs[1].Category != CategoryAutoDebit {
		t.Errorf("txs[1].Category = %q, want %q", txs[1].Category, CategoryAutoDebit)
	}
}

func TestTrimMerchant(t *testing.T) {
	long := strings.Repeat("A", 60)
	if got := trimMerchant("  " + long + "  "); len(got) != maxMerchantLen {
		t.Errorf("trimMerchant() length = %d, want %d", len(got), maxMerchantLen)
	}
	if got := trimMerchant("  Google Play  "); got != "Google Play" {
		t.Errorf("trimMerchant() = %q, want %q", got, "Google Play")
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"18/11/25", time.Date(2025, time.November, 18, 0, 0, 0, 0, time.UTC)},
		{"05-Nov-25", time.Date(2025, time.November, 5, 0, 0, 0, 0, time.UTC)},
		{"30-11-25", time.Date(2025, time.November, 30, 0, 0, 0, 0, time.UTC)},
		{"31 OCT 2025", time.Date(2025, time.October, 31, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		if got := parseDate(tt.in); !got.Equal(tt.want) {
			t.Errorf("parseDate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	// Unparsable input falls back to now.
	if since := time.Since(parseDate("someday soon")); since < 0 || since > 5*time.Second {
		t.Errorf("parseDate fallback not within 5s of now")
	}
}
