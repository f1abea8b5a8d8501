package models

import (
	"time"
)

// Check represents a single scam-check request and its outcome
type Check struct {
	ID          string          `json:"id"`
	URL         string          `json:"url"`
	Domain      string          `json:"domain"`
	Mode        CheckMode       `json:"mode"`
	Status      CheckStatus     `json:"status"`
	RiskScore   *int            `json:"risk_score"`
	Error       string          `json:"error,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	CompletedAt *time.Time      `json:"completed_at"`
	Report      *AnalysisReport `json:"report,omitempty"`
}

// CheckMode selects the depth of the remote analysis. Only basic-mode
// checks consult the report cache.
type CheckMode string

const (
	CheckModeBasic    CheckMode = "basic"
	CheckModeDetailed CheckMode = "detailed"
)

// Valid reports whether the mode is one of the supported values
func (m CheckMode) Valid() bool {
	return m == CheckModeBasic || m == CheckModeDetailed
}

// CheckStatus represents the overall status of a check
type CheckStatus string

const (
	CheckStatusPending   CheckStatus = "pending"
	CheckStatusRunning   CheckStatus = "running"
	CheckStatusCompleted CheckStatus = "completed"
	CheckStatusFailed    CheckStatus = "failed"
)

// CachedReport is a stored analysis report keyed by canonical domain.
// Freshness is decided by the caller against CreatedAt.
type CachedReport struct {
	Domain    string          `json:"domain"`
	Report    *AnalysisReport `json:"report"`
	CreatedAt time.Time       `json:"created_at"`
}

// ScamReport is a user-submitted report of a suspected scam site
type ScamReport struct {
	ID            string    `json:"id"`
	URL           string    `json:"url"`
	Description   string    `json:"description"`
	ReporterEmail string    `json:"reporter_email,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
