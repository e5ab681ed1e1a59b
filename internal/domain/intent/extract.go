package intent

import (
	"regexp"
	"strconv"
	"strings"
)

// knownClientNames are first names matched as substrings before the regex
// fallbacks run. Extraction is a best-effort filter: downstream queries treat
// the result as a case-insensitive partial match, never an exact key.
var knownClientNames = []string{
	"joakim", "anna", "erik", "maria", "johan", "karin", "lars", "sofia",
}

var (
	possessiveRe    = regexp.MustCompile(`(?i)\b([A-ZÅÄÖ][a-zåäö]+)'s\b`)
	prepositionalRe = regexp.MustCompile(`(?i)\b(?:for|from|till|från|åt)\s+([A-ZÅÄÖ][a-zåäö]+)\b`)
	amountRe        = regexp.MustCompile(`(?i)\b(\d+(?:[.,]\d{1,2})?)\s*(?:sek|kr|kronor)?\b`)
	invoiceNumberRe = regexp.MustCompile(`(?i)\b(INV-\d{4}-\d{3})\b`)
)

var actionVerbs = []string{"create", "view", "update", "delete", "analyze"}

// ExtractClientName returns a best-effort client name referenced in free
// text, or "" when nothing plausible is found.
func ExtractClientName(text string) string {
	lower := strings.ToLower(text)
	for _, name := range knownClientNames {
		if strings.Contains(lower, name) {
			return strings.ToUpper(name[:1]) + name[1:]
		}
	}
	if m := possessiveRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := prepositionalRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

// ExtractAmount returns the first monetary amount in the text, or 0.
// Invoice numbers are stripped first so their digits are not read as money.
func ExtractAmount(text string) float64 {
	text = invoiceNumberRe.ReplaceAllString(text, "")
	m := amountRe.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	amount, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
	if err != nil {
		return 0
	}
	return amount
}

// Extract pulls all supported entities out of a message.
func Extract(text string) Entities {
	e := Entities{
		ClientName: ExtractClientName(text),
		Amount:     ExtractAmount(text),
	}
	if m := invoiceNumberRe.FindStringSubmatch(text); m != nil {
		e.InvoiceNumber = strings.ToUpper(m[1])
	}
	lower := strings.ToLower(text)
	for _, verb := range actionVerbs {
		if strings.Contains(lower, verb) {
			e.Action = verb
			break
		}
	}
	return e
}
