package dto

import "encoding/json"

// DashboardStats is the stats block of GET /api/dashboard-stats
type DashboardStats struct {
	TotalExpenses       Amount                     `json:"total_expenses"`
	MatchRate           float64                    `json:"match_rate"`
	AIProcessed         int                        `json:"ai_processed"`
	TotalTransactions   int                        `json:"total_transactions"`
	MatchedTransactions int                        `json:"matched_transactions"`
	MissingReceipts     int                        `json:"missing_receipts"`
	BusinessBreakdown   map[string]json.RawMessage `json:"business_breakdown,omitempty"`
}

// DashboardStatsResponse is the body of GET /api/dashboard-stats
type DashboardStatsResponse struct {
	Success bool           `json:"success"`
	Stats   DashboardStats `json:"stats"`
	Error   string         `json:"error,omitempty"`
	Offline bool           `json:"offline,omitempty"`
}

// HealthPayload covers the shapes the various health endpoints return:
// {status: "healthy"|"online"|...} or {success: bool}
type HealthPayload struct {
	Status  string `json:"status,omitempty"`
	Success *bool  `json:"success,omitempty"`
	Error   string `json:"error,omitempty"`
	Offline bool   `json:"offline,omitempty"`
}

// PreferenceRequest is the body of PUT /__dashboard/preferences/{key}
type PreferenceRequest struct {
	Value string `json:"value" validate:"required,max=255"`
}

// PreferencesResponse lists the stored client preferences
type PreferencesResponse struct {
	Preferences map[string]string `json:"preferences"`
}
