package models

import "strings"

// Expense categories understood by the backend
const (
	CategoryFood           = "food"
	CategoryTransportation = "transportation"
	CategoryShopping       = "shopping"
	CategoryEntertainment  = "entertainment"
	CategoryUtilities      = "utilities"
	CategoryHealthcare     = "healthcare"
	CategoryTravel         = "travel"
	CategoryEducation      = "education"
	CategoryProfessional   = "professional"
	CategoryInsurance      = "insurance"
	CategoryOther          = "other"
)

// Bookkeeping entities a transaction can belong to
const (
	BusinessTypePersonal       = "Personal"
	BusinessTypeDownHome       = "Down Home"
	BusinessTypeMusicCityRodeo = "Music City Rodeo"
)

// AllCategories returns all valid category constants
func AllCategories() []string {
	return []string{
		CategoryFood,
		CategoryTransportation,
		CategoryShopping,
		CategoryEntertainment,
		CategoryUtilities,
		CategoryHealthcare,
		CategoryTravel,
		CategoryEducation,
		CategoryProfessional,
		CategoryInsurance,
		CategoryOther,
	}
}

// AllBusinessTypes returns all valid business type constants
func AllBusinessTypes() []string {
	return []string{
		BusinessTypePersonal,
		BusinessTypeDownHome,
		BusinessTypeMusicCityRodeo,
	}
}

// IsValidCategory checks if a category string is valid
func IsValidCategory(category string) bool {
	for _, validCategory := range AllCategories() {
		if category == validCategory {
			return true
		}
	}
	return false
}

// IsValidBusinessType checks if a business type string is valid
func IsValidBusinessType(businessType string) bool {
	for _, valid := range AllBusinessTypes() {
		if businessType == valid {
			return true
		}
	}
	return false
}

// NormalizeCategory maps any spelling of a known category to its constant.
// Unknown or empty categories become CategoryOther.
func NormalizeCategory(category string) string {
	c := strings.ToLower(strings.TrimSpace(category))
	if IsValidCategory(c) {
		return c
	}
	return CategoryOther
}

// NormalizeBusinessType matches case-insensitively against the known entities.
// Unknown or empty values become BusinessTypePersonal.
func NormalizeBusinessType(businessType string) string {
	bt := strings.TrimSpace(businessType)
	for _, valid := range AllBusinessTypes() {
		if strings.EqualFold(bt, valid) {
			return valid
		}
	}
	return BusinessTypePersonal
}
