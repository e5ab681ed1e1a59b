package ledger

import "math"

// Swedish VAT rates.
const (
	VATStandard = 0.25
	VATMeals    = 0.12
)

// mealCategories carry the reduced 12% rate.
var mealCategories = map[string]bool{
	"Representation": true,
	"Mat":            true,
	"Lunch":          true,
}

// VATRateForCategory returns the applicable VAT rate for a category.
func VATRateForCategory(category string) float64 {
	if mealCategories[category] {
		return VATMeals
	}
	return VATStandard
}

// AddVAT applies VAT on top of a pre-tax base and returns the gross total.
// Used when the caller states a net amount (e.g. invoice creation).
func AddVAT(net, rate float64) (tax, gross float64) {
	tax = round2(net * rate)
	return tax, round2(net + tax)
}

// BackCalculateVAT extracts the tax portion from a gross amount:
// tax = gross * rate / (1 + rate). Used when the caller states what was paid
// (e.g. recording an expense from a receipt). Keep this distinct from AddVAT:
// the two directions are not interchangeable per call site.
func BackCalculateVAT(gross, rate float64) (tax, net float64) {
	tax = round2(gross * rate / (1 + rate))
	return tax, round2(gross - tax)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
