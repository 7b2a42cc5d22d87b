package models

import "time"

// Persisted dashboard preference keys
const (
	PreferenceKeyTheme = "dashboard-theme"
	PreferenceKeyView  = "dashboard-view"

	ThemeLight = "light"
	ThemeDark  = "dark"

	ViewTable = "table"
	ViewCards = "cards"
)

// Preference is one persisted key/value pair of client state
type Preference struct {
	Key       string    `gorm:"type:varchar(100);primary_key" json:"key"`
	Value     string    `gorm:"type:varchar(255);not null" json:"value"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (*Preference) TableName() string {
	return "preferences"
}

// PreferenceDefaults are used when nothing has been stored yet
var PreferenceDefaults = map[string]string{
	PreferenceKeyTheme: ThemeLight,
	PreferenceKeyView:  ViewTable,
}

// IsValidPreference checks a value against the allowed values for its key
func IsValidPreference(key, value string) bool {
	switch key {
	case PreferenceKeyTheme:
		return value == ThemeLight || value == ThemeDark
	case PreferenceKeyView:
		return value == ViewTable || value == ViewCards
	default:
		return false
	}
}
