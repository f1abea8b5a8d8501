// Package risk derives display-ready facts from an analysis report: tier
// classification for a numeric risk score and defensive extraction of
// security facts from the report's optional sub-sections.
package risk

import (
	"time"

	"scamscope/internal/models"
)

// Tier is the fine-grained risk bucket shown on the results page
type Tier string

const (
	TierLow    Tier = "low"
	TierMedium Tier = "medium"
	TierHigh   Tier = "high"
)

// Level carries a tier together with its display label and color
type Level struct {
	Tier  Tier   `json:"tier"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// LevelForScore maps a 0-100 risk score onto the five-step display level.
// Thresholds are inclusive upper bounds applied in order.
func LevelForScore(score int) Level {
	switch {
	case score <= 20:
		return Level{Tier: TierLow, Label: "Very Low Risk", Color: "#16a34a"}
	case score <= 40:
		return Level{Tier: TierLow, Label: "Low Risk", Color: "#84cc16"}
	case score <= 60:
		return Level{Tier: TierMedium, Label: "Moderate Risk", Color: "#eab308"}
	case score <= 80:
		return Level{Tier: TierHigh, Label: "High Risk", Color: "#f97316"}
	default:
		return Level{Tier: TierHigh, Label: "Very High Risk", Color: "#dc2626"}
	}
}

// SiteStatus is the coarse bucket used by the recent-checks list
type SiteStatus string

const (
	StatusSafe         SiteStatus = "safe"
	StatusQuestionable SiteStatus = "questionable"
	StatusScam         SiteStatus = "scam"
)

// StatusForScore maps a risk score onto the coarse three-step status.
//
// Note: the cut points (30/70) deliberately disagree with LevelForScore's
// (20/40/60/80); the two classifications ship to different surfaces and
// are kept as independent functions. A score of 35 is "Low Risk" on the
// results page yet "safe" in the recent-checks list.
func StatusForScore(score int) SiteStatus {
	switch {
	case score <= 30:
		return StatusSafe
	case score <= 70:
		return StatusQuestionable
	default:
		return StatusScam
	}
}

// Summary bundles everything the UI needs to render a report's verdict
type Summary struct {
	Level          Level      `json:"level"`
	Status         SiteStatus `json:"status"`
	Facts          Facts      `json:"facts"`
	DomainAgeYears *int       `json:"domain_age_years"`
}

// Summarize derives the full presentation summary for a report as of now
func Summarize(report *models.AnalysisReport, now time.Time) Summary {
	s := Summary{
		Level:  LevelForScore(report.RiskScore),
		Status: StatusForScore(report.RiskScore),
		Facts:  DeriveFacts(report, now),
	}

	if report.Whois != nil {
		if years, ok := DomainAgeYears(report.Whois.CreationDate.String(), now); ok {
			s.DomainAgeYears = &years
		}
	}

	return s
}
