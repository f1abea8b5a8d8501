package repository

import (
	"encoding/json"
	"time"

	"scamscope/internal/models"
)

// checksPartition is the fixed partition key for the checks table; all
// checks share one partition so the ULID range key yields a recency-ordered
// query.
const checksPartition = "1000"

// submissionsPartition plays the same role for scam-report submissions
const submissionsPartition = "1000"

// CachedReportEntity stores a report keyed by canonical domain. The
// report itself is opaque to the store and kept as a JSON blob.
type CachedReportEntity struct {
	Domain     string    `dynamodbav:"domain"`
	ReportJSON string    `dynamodbav:"report_json"`
	CreatedAt  time.Time `dynamodbav:"created_at"`
}

// ToModel converts CachedReportEntity to the domain model
func (e *CachedReportEntity) ToModel() (*models.CachedReport, error) {
	var report models.AnalysisReport
	if err := json.Unmarshal([]byte(e.ReportJSON), &report); err != nil {
		return nil, err
	}

	return &models.CachedReport{
		Domain:    e.Domain,
		Report:    &report,
		CreatedAt: e.CreatedAt,
	}, nil
}

// FromModel converts the domain model to a CachedReportEntity
func (e *CachedReportEntity) FromModel(cached *models.CachedReport) error {
	data, err := json.Marshal(cached.Report)
	if err != nil {
		return err
	}

	e.Domain = cached.Domain
	e.ReportJSON = string(data)
	e.CreatedAt = cached.CreatedAt
	return nil
}

// CheckEntity represents a check as stored in DynamoDB
type CheckEntity struct {
	PartitionKey string     `dynamodbav:"partition_key"`
	ID           string     `dynamodbav:"id"`
	URL          string     `dynamodbav:"url"`
	Domain       string     `dynamodbav:"domain"`
	Mode         string     `dynamodbav:"mode"`
	Status       string     `dynamodbav:"status"`
	RiskScore    *int       `dynamodbav:"risk_score"`
	Error        string     `dynamodbav:"error"`
	CreatedAt    time.Time  `dynamodbav:"created_at"`
	UpdatedAt    time.Time  `dynamodbav:"updated_at"`
	CompletedAt  *time.Time `dynamodbav:"completed_at"`
	ReportJSON   string     `dynamodbav:"report_json"`
}

// ToModel converts CheckEntity to the domain model
func (e *CheckEntity) ToModel() (*models.Check, error) {
	check := &models.Check{
		ID:          e.ID,
		URL:         e.URL,
		Domain:      e.Domain,
		Mode:        models.CheckMode(e.Mode),
		Status:      models.CheckStatus(e.Status),
		RiskScore:   e.RiskScore,
		Error:       e.Error,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
		CompletedAt: e.CompletedAt,
	}

	if e.ReportJSON != "" {
		var report models.AnalysisReport
		if err := json.Unmarshal([]byte(e.ReportJSON), &report); err != nil {
			return nil, err
		}
		check.Report = &report
	}

	return check, nil
}

// FromModel converts the domain model to a CheckEntity
func (e *CheckEntity) FromModel(check *models.Check) error {
	e.PartitionKey = checksPartition
	e.ID = check.ID
	e.URL = check.URL
	e.Domain = check.Domain
	e.Mode = string(check.Mode)
	e.Status = string(check.Status)
	e.RiskScore = check.RiskScore
	e.Error = check.Error
	e.CreatedAt = check.CreatedAt
	e.UpdatedAt = check.UpdatedAt
	e.CompletedAt = check.CompletedAt

	if check.Report != nil {
		data, err := json.Marshal(check.Report)
		if err != nil {
			return err
		}
		e.ReportJSON = string(data)
	}

	return nil
}

// SubmissionEntity represents a user-submitted scam report as stored in DynamoDB
type SubmissionEntity struct {
	PartitionKey  string    `dynamodbav:"partition_key"`
	ID            string    `dynamodbav:"id"`
	URL           string    `dynamodbav:"url"`
	Description   string    `dynamodbav:"description"`
	ReporterEmail string    `dynamodbav:"reporter_email"`
	CreatedAt     time.Time `dynamodbav:"created_at"`
}

// ToModel converts SubmissionEntity to the domain model
func (e *SubmissionEntity) ToModel() *models.ScamReport {
	return &models.ScamReport{
		ID:            e.ID,
		URL:           e.URL,
		Description:   e.Description,
		ReporterEmail: e.ReporterEmail,
		CreatedAt:     e.CreatedAt,
	}
}

// FromModel converts the domain model to a SubmissionEntity
func (e *SubmissionEntity) FromModel(report *models.ScamReport) {
	e.PartitionKey = submissionsPartition
	e.ID = report.ID
	e.URL = report.URL
	e.Description = report.Description
	e.ReporterEmail = report.ReporterEmail
	e.CreatedAt = report.CreatedAt
}
