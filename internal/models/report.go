package models

import (
	"encoding/json"
)

// AnalysisReport is the document returned by the analysis service.
// RiskScore is the only field guaranteed to be present; every sub-report
// is optional and may itself carry an Error from a partially failed
// lookup. Consumers must treat any field as possibly absent.
type AnalysisReport struct {
	RequestedURL string `json:"requested_url"`
	DomainName   string `json:"domain_name"`
	RiskScore    int    `json:"riskScore"`

	Whois        *WhoisInfo       `json:"whois_info,omitempty"`
	DNS          *DNSInfo         `json:"dns_info,omitempty"`
	HTTP         *HTTPInfo        `json:"http_info,omitempty"`
	SSL          *SSLInfo         `json:"ssl_info,omitempty"`
	Geolocation  *IPGeolocation   `json:"ip_geolocation,omitempty"`
	PortScan     *PortScanResults `json:"port_scan_results,omitempty"`
	Technologies []string         `json:"technologies,omitempty"`
	RobotsTxt    *RobotsTxt       `json:"robots_txt,omitempty"`
	CrawledPages *CrawledPages    `json:"crawled_pages_details,omitempty"`

	// PageTypes maps a page category (e.g. "contact", "legal") to the
	// crawled URLs that matched it.
	PageTypes map[string][]string `json:"specific_page_types_found,omitempty"`

	PaymentMethods     []string           `json:"detected_payment_methods_keywords,omitempty"`
	ModelPrediction    string             `json:"model_prediction,omitempty"`
	ModelProbabilities map[string]float64 `json:"model_probabilities,omitempty"`
}

// WhoisInfo holds registration facts for the domain
type WhoisInfo struct {
	Error          string       `json:"error,omitempty"`
	Registrar      string       `json:"registrar,omitempty"`
	CreationDate   FlexibleDate `json:"creation_date,omitempty"`
	ExpirationDate FlexibleDate `json:"expiration_date,omitempty"`
	UpdatedDate    FlexibleDate `json:"updated_date,omitempty"`
	RegistrantName string       `json:"registrant_name,omitempty"`
	RegistrantOrg  string       `json:"org,omitempty"`
	Country        string       `json:"country,omitempty"`
}

// DNSInfo holds resolved records
type DNSInfo struct {
	Error       string   `json:"error,omitempty"`
	ARecords    []string `json:"a_records,omitempty"`
	AAAARecords []string `json:"aaaa_records,omitempty"`
	MXRecords   []string `json:"mx_records,omitempty"`
	NSRecords   []string `json:"ns_records,omitempty"`
	TXTRecords  []string `json:"txt_records,omitempty"`
}

// HTTPInfo holds response facts from fetching the site root
type HTTPInfo struct {
	Error           string            `json:"error,omitempty"`
	StatusCode      int               `json:"status_code,omitempty"`
	FinalURL        string            `json:"final_url,omitempty"`
	Headers         map[string]string `json:"headers,omitempty"`
	SecurityHeaders map[string]string `json:"security_headers,omitempty"`
}

// SSLInfo holds TLS certificate facts. A populated SSLInfo with no Error
// means the target answered over HTTPS.
type SSLInfo struct {
	Error     string `json:"error,omitempty"`
	Issuer    string `json:"issuer,omitempty"`
	Subject   string `json:"subject,omitempty"`
	NotBefore string `json:"not_before,omitempty"`
	NotAfter  string `json:"not_after,omitempty"`
}

// IPGeolocation holds server location facts
type IPGeolocation struct {
	Error        string `json:"error,omitempty"`
	IP           string `json:"ip,omitempty"`
	Country      string `json:"country,omitempty"`
	City         string `json:"city,omitempty"`
	ISP          string `json:"isp,omitempty"`
	Organization string `json:"org,omitempty"`
}

// PortScanResults holds the open-port scan outcome
type PortScanResults struct {
	Error     string `json:"error,omitempty"`
	OpenPorts []int  `json:"open_ports,omitempty"`
}

// RobotsTxt holds the crawl policy facts
type RobotsTxt struct {
	Error    string   `json:"error,omitempty"`
	Exists   bool     `json:"exists,omitempty"`
	Disallow []string `json:"disallow,omitempty"`
	Sitemaps []string `json:"sitemaps,omitempty"`
}

// CrawledPages summarizes the detailed-mode crawl
type CrawledPages struct {
	Error      string   `json:"error,omitempty"`
	PagesFound int      `json:"pages_found,omitempty"`
	URLs       []string `json:"urls,omitempty"`
}

// FlexibleDate tolerates the date shapes WHOIS data arrives in: a plain
// string, an array of strings (first entry wins), or null. The raw string
// is kept as-is; parsing to a time happens at presentation.
type FlexibleDate string

func (d *FlexibleDate) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*d = FlexibleDate(s)
		return nil
	}

	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		if len(arr) > 0 {
			*d = FlexibleDate(arr[0])
		} else {
			*d = ""
		}
		return nil
	}

	// Anything else (null, numbers, objects) degrades to unknown
	*d = ""
	return nil
}

func (d FlexibleDate) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(d))
}

// String returns the raw date string
func (d FlexibleDate) String() string {
	return string(d)
}
