package models

// RenewablesRequest represents the request body for a Daily Renewables Watch pull
type RenewablesRequest struct {
	StartDate string `json:"start_date" binding:"required"` // YYYY-MM-DD
	EndDate   string `json:"end_date" binding:"required"`   // YYYY-MM-DD, inclusive
	// DelaySeconds overrides the configured pause between requests.
	DelaySeconds *float64 `json:"delay_seconds,omitempty"`
}

// OASISRequest represents the request body for an OASIS price pull
type OASISRequest struct {
	Query        string   `json:"query" binding:"required"` // e.g. "PRC_LMP"
	Node         string   `json:"node,omitempty"`           // not used by PRC_AS
	StartDate    string   `json:"start_date" binding:"required"`
	EndDate      string   `json:"end_date" binding:"required"`
	Timezone     string   `json:"timezone,omitempty"` // default: configured zone
	DelaySeconds *float64 `json:"delay_seconds,omitempty"`
}
