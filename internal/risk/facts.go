package risk

import (
	"strings"
	"time"

	"scamscope/internal/models"
)

// DomainAge buckets domain registration age three ways rather than as a
// boolean: very young domains are a strong scam signal on their own.
type DomainAge string

const (
	DomainAgeElevatedRisk DomainAge = "elevated_risk"  // registered < 90 days ago
	DomainAgeNew          DomainAge = "relatively_new" // registered < 365 days ago
	DomainAgeEstablished  DomainAge = "established"
	DomainAgeUnknown      DomainAge = "unknown"
)

// Facts are yes/no (or bucketed) security facts derived from a report.
// Every derivation tolerates absent sub-reports and partial failures; a
// missing section yields false/unknown, never a panic.
type Facts struct {
	UsesHTTPS         bool      `json:"uses_https"`
	ValidSSL          bool      `json:"valid_ssl"`
	HasContactInfo    bool      `json:"has_contact_info"`
	HasPrivacyPolicy  bool      `json:"has_privacy_policy"`
	HasTermsOfService bool      `json:"has_terms_of_service"`
	HasRefundPolicy   bool      `json:"has_refund_policy"`
	DomainAge         DomainAge `json:"domain_age"`
	WhoisPrivacy      bool      `json:"whois_privacy"`
}

// Registrant strings that indicate a privacy/proxy registration service
var privacyMarkers = []string{
	"privacy",
	"redacted",
	"whoisguard",
	"domains by proxy",
	"proxy",
	"protected",
	"withheld",
	"not disclosed",
}

// URL keywords identifying page categories inside the crawl results
var (
	contactKeywords = []string{"contact", "about-us", "aboutus", "support"}
	privacyKeywords = []string{"privacy"}
	termsKeywords   = []string{"terms", "conditions", "legal"}
	refundKeywords  = []string{"refund", "return", "money-back"}
)

// DeriveFacts computes the boolean/bucketed facts for a report as of now
func DeriveFacts(report *models.AnalysisReport, now time.Time) Facts {
	facts := Facts{DomainAge: DomainAgeUnknown}
	if report == nil {
		return facts
	}

	facts.UsesHTTPS = report.SSL != nil && report.SSL.Error == ""
	facts.ValidSSL = facts.UsesHTTPS && certValidAt(report.SSL, now)

	facts.HasContactInfo = hasPageMatching(report, contactKeywords)
	facts.HasPrivacyPolicy = hasPageMatching(report, privacyKeywords)
	facts.HasTermsOfService = hasPageMatching(report, termsKeywords)
	facts.HasRefundPolicy = hasPageMatching(report, refundKeywords)

	if report.Whois != nil && report.Whois.Error == "" {
		facts.DomainAge = domainAgeBucket(report.Whois.CreationDate.String(), now)
		facts.WhoisPrivacy = whoisPrivacy(report.Whois)
	}

	return facts
}

// certValidAt reports whether the certificate's not_after date parses and
// lies in the future relative to now
func certValidAt(ssl *models.SSLInfo, now time.Time) bool {
	notAfter, ok := parseDate(ssl.NotAfter)
	if !ok {
		return false
	}
	return notAfter.After(now)
}

// hasPageMatching looks for any crawled URL in the categorized page-type
// lists containing one of the keywords
func hasPageMatching(report *models.AnalysisReport, keywords []string) bool {
	for _, urls := range report.PageTypes {
		for _, u := range urls {
			lower := strings.ToLower(u)
			for _, kw := range keywords {
				if strings.Contains(lower, kw) {
					return true
				}
			}
		}
	}
	return false
}

func domainAgeBucket(creationDate string, now time.Time) DomainAge {
	created, ok := parseDate(creationDate)
	if !ok {
		return DomainAgeUnknown
	}

	age := now.Sub(created)
	switch {
	case age < 90*24*time.Hour:
		return DomainAgeElevatedRisk
	case age < 365*24*time.Hour:
		return DomainAgeNew
	default:
		return DomainAgeEstablished
	}
}

func whoisPrivacy(whois *models.WhoisInfo) bool {
	registrant := strings.ToLower(whois.RegistrantName + " " + whois.RegistrantOrg)
	for _, marker := range privacyMarkers {
		if strings.Contains(registrant, marker) {
			return true
		}
	}
	return false
}
