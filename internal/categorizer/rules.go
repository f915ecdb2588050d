package categorizer

import "fjacquet/monarch-csv/internal/models"

// Rule is one ordered categorization rule.
type Rule = models.CategoryRule

// Weekdays are the notes that mark a recurring child care payment.
var Weekdays = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

// DefaultRules returns the built-in rules in evaluation order.
func DefaultRules() []Rule {
	return []Rule{
		// Venmo
		{
			Name:     "house-cleaning",
			Source:   models.SourceVenmo,
			Kind:     models.RuleMerchantEquals,
			Patterns: []string{"Stephanie Fancher"},
			Category: models.CategoryHouseCleaning,
		},
		{
			Name:     "house-maintenance",
			Source:   models.SourceVenmo,
			Kind:     models.RuleMerchantEquals,
			Patterns: []string{"Meg Young"},
			Category: models.CategoryHouseMaint,
		},
		{
			Name:     "child-care-payees",
			Source:   models.SourceVenmo,
			Kind:     models.RuleMerchantEquals,
			Patterns: []string{"Kaya Lutz", "Senna Camp", "josie cooper", "Cloee EldevikLaCotera"},
			Category: models.CategoryChildCare,
		},
		{
			Name:     "child-care-notes",
			Source:   models.SourceVenmo,
			Kind:     models.RuleNoteContains,
			Patterns: []string{"watching mendel", "babysitting"},
			Category: models.CategoryChildCare,
		},
		{
			Name:     "child-care-weekday",
			Source:   models.SourceVenmo,
			Kind:     models.RuleNoteEquals,
			Patterns: Weekdays,
			Category: models.CategoryChildCare,
		},
		{
			Name:     "inheritance",
			Source:   models.SourceVenmo,
			Kind:     models.RuleMerchantEquals,
			Patterns: []string{"Andrew Horowitz"},
			Category: models.CategoryInheritance,
		},

		// PayPal
		{
			Name:     "paypal-withdrawal",
			Source:   models.SourcePayPal,
			Kind:     models.RuleStatementContains,
			Patterns: []string{models.PayPalTypeUserWithdrawal},
			Category: models.CategoryPayPalTransfer,
		},
		{
			Name:     "charity",
			Source:   models.SourcePayPal,
			Kind:     models.RuleMerchantEquals,
			Patterns: []string{"Wikimedia Foundation, Inc."},
			Category: models.CategoryCharity,
		},
		{
			Name:     "ride-share",
			Source:   models.SourcePayPal,
			Kind:     models.RuleMerchantEquals,
			Patterns: []string{"Lyft"},
			Category: models.CategoryRideShare,
		},
		{
			Name:     "ev-charging",
			Source:   models.SourcePayPal,
			Kind:     models.RuleMerchantEquals,
			Patterns: []string{"ChargeSmart EV LLC"},
			Category: models.CategoryGas,
		},
		{
			Name:     "shopping",
			Source:   models.SourcePayPal,
			Kind:     models.RuleMerchantEquals,
			Patterns: []string{"eBay Commerce Inc.", "Poshmark"},
			Category: models.CategoryShopping,
		},
	}
}
