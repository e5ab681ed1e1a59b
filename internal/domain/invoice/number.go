package invoice

import (
	"fmt"
	"regexp"
	"strconv"
)

// NumberPrefix is the fixed invoice number prefix.
const NumberPrefix = "INV"

var numberRe = regexp.MustCompile(`^INV-(\d{4})-(\d{3})$`)

// FormatNumber renders an invoice number as INV-<year>-NNN.
func FormatNumber(year, seq int) string {
	return fmt.Sprintf("%s-%04d-%03d", NumberPrefix, year, seq)
}

// ParseNumber extracts the year and sequence from an invoice number.
func ParseNumber(number string) (year, seq int, err error) {
	m := numberRe.FindStringSubmatch(number)
	if m == nil {
		return 0, 0, fmt.Errorf("malformed invoice number %q", number)
	}
	year, _ = strconv.Atoi(m[1])
	seq, _ = strconv.Atoi(m[2])
	return year, seq, nil
}

// NextNumber derives the next invoice number from the most recently created
// one. An empty or malformed previous number, or a previous number from an
// earlier year, restarts the sequence at 001 for the given year.
func NextNumber(lastNumber string, year int) string {
	prevYear, seq, err := ParseNumber(lastNumber)
	if err != nil || prevYear != year {
		return FormatNumber(year, 1)
	}
	return FormatNumber(year, seq+1)
}
