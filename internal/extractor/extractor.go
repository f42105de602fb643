package extractor

import (
	"regexp"
	"strings"
)

// AccountKind distinguishes the two account shapes bank messages mention.
type AccountKind string

const (
	KindSavings    AccountKind = "savings"
	KindCreditCard AccountKind = "credit_card"
)

// UnknownBank is the issuer placeholder used when no bank name can be
// recovered, so downstream account creation always has a display name.
const UnknownBank = "Unknown Bank"

// AccountIdentity is a partial identity fragment recovered from a message.
// It never uniquely identifies a real account on its own; downstream code
// reconciles it against stored accounts by (LastFour, Kind).
type AccountIdentity struct {
	LastFour string      `json:"last_four"`
	BankName string      `json:"bank_name"`
	Kind     AccountKind `json:"kind"`
}

var (
	// Savings account reference: "HDFC Bank A/c 1263" or "A/c XX1263"
	savingsPattern = regexp.MustCompile(`(?:((?:[A-Z]{2,}\s+)+Bank)\s+)?[Aa]/[Cc]\s+(?:[Xx]{2})?(\d{4})`)

	// Credit card reference: "IDFC FIRST Bank Credit Card ending XX1142",
	// "card ending 8656", "Cardmember ... ending 1234"
	creditCardPattern = regexp.MustCompile(`(?s)(?:((?:[A-Z]{2,}\s+)+Bank)\s+)?(?:[Cc]redit\s+)?[Cc]ard(?:member)?\b.*?[Ee]nding\s+(?:[Xx]{2})?(\d{4})`)

	// Known issuers, scanned when the account pattern captures no issuer
	// inline. Ordered; first hit wins.
	issuerPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)HDFC\s+Bank`),
		regexp.MustCompile(`(?i)IDFC\s+(?:FIRST\s+)?Bank`),
		regexp.MustCompile(`(?i)ICICI\s+Bank`),
		regexp.MustCompile(`(?i)Kotak\s+Mahindra\s+Bank`),
		regexp.MustCompile(`(?i)Axis\s+Bank`),
		regexp.MustCompile(`(?i)SBI`),
	}
)

// Extract recovers a bank-account identity fragment from a message body.
// It returns nil when the message mentions no account, which is common and
// not an error: generic deduction messages carry no account at all.
func Extract(body string) *AccountIdentity {
	if m := savingsPattern.FindStringSubmatch(body); m != nil {
		return &AccountIdentity{
			LastFour: m[2],
			BankName: issuerName(m[1], body),
			Kind:     KindSavings,
		}
	}

	if m := creditCardPattern.FindStringSubmatch(body); m != nil {
		return &AccountIdentity{
			LastFour: m[2],
			BankName: issuerName(m[1], body),
			Kind:     KindCreditCard,
		}
	}

	return nil
}

// issuerName prefers the inline capture, then a best-effort scan over the
// known-issuer table, then the UnknownBank placeholder. Never empty.
func issuerName(inline, body string) string {
	if inline != "" {
		return strings.TrimSpace(inline)
	}
	for _, p := range issuerPatterns {
		if hit := p.FindString(body); hit != "" {
			return hit
		}
	}
	return UnknownBank
}
