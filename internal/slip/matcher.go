// Package slip decides whether OCR text extracted from a bank-transfer
// screenshot proves payment of a claimed amount.
package slip

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// currencyWord is the Thai word for baht as it appears on transfer slips.
const currencyWord = "บาท"

type Rule string

const (
	// RuleGluedPlain: the plain amount immediately followed by the currency word.
	RuleGluedPlain Rule = "glued_plain"
	// RuleGluedTwoDecimal: the two-decimal form glued to the currency word.
	RuleGluedTwoDecimal Rule = "glued_two_decimal"
	// RuleTrailingPlain: the text before the first currency word ends with the
	// plain amount.
	RuleTrailingPlain Rule = "trailing_plain"
	// RuleTrailingTwoDecimal: same split, two-decimal form.
	RuleTrailingTwoDecimal Rule = "trailing_two_decimal"
)

// Reason reports which rule matched, or on a miss, which candidate strings
// were searched for. Useful when diagnosing rejected slips from logs.
type Reason struct {
	Rule       Rule     `json:"rule,omitempty"`
	Candidates []string `json:"candidates"`
}

// Match checks whether rawText contains claimed as a paid amount. OCR output
// from low-quality screenshots is noisy, so the check is a four-rule OR over
// two representations of the amount ("150" and "150.00"). It is a heuristic:
// a table or phone number whose digits end with the amount right before the
// currency word also matches the trailing rules.
func Match(rawText string, claimed decimal.Decimal) (bool, Reason) {
	text := normalize(rawText)
	plain := normalize(claimed.String())
	fixed := normalize(claimed.StringFixed(2))

	reason := Reason{Candidates: []string{plain, fixed}}

	before, _, _ := strings.Cut(text, currencyWord)

	switch {
	case strings.Contains(text, plain+currencyWord):
		reason.Rule = RuleGluedPlain
	case strings.Contains(text, fixed+currencyWord):
		reason.Rule = RuleGluedTwoDecimal
	case strings.HasSuffix(before, plain):
		reason.Rule = RuleTrailingPlain
	case strings.HasSuffix(before, fixed):
		reason.Rule = RuleTrailingTwoDecimal
	default:
		return false, reason
	}

	return true, reason
}

// normalize translates Thai digit glyphs to ASCII and strips whitespace and
// the "," and "." separators, collapsing the text into one compact run so
// substring checks are immune to OCR spacing and thousand separators.
func normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= '๐' && r <= '๙':
			b.WriteRune('0' + (r - '๐'))
		case unicode.IsSpace(r) || r == ',' || r == '.':
			// dropped
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
