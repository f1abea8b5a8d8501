package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/yousuf64/shift"

	"scamscope/internal/messagebus"
	"scamscope/internal/models"
	"scamscope/internal/repository"
	"scamscope/internal/risk"
	"scamscope/internal/target"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// handleCreateCheck accepts a check request, persists the pending check
// and queues it for the checker
func (a *API) handleCreateCheck(w http.ResponseWriter, r *http.Request, route shift.Route) error {
	ctx := r.Context()
	start := time.Now()

	var req CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return errors.Join(err, errors.New("failed to decode request"))
	}

	mode := models.CheckMode(req.Mode)
	if req.Mode == "" {
		mode = models.CheckModeBasic
	}

	var success bool
	defer func() {
		if a.metrics != nil {
			a.metrics.RecordCheckCreation(string(mode), success, time.Since(start))
		}
	}()

	if !mode.Valid() {
		return fmt.Errorf("unsupported mode '%s': must be basic or detailed", req.Mode)
	}

	validatedURL, err := validateURL(req.URL)
	if err != nil {
		return fmt.Errorf("url validation failed: %w", err)
	}

	checkID := generateID()
	now := time.Now().UTC()

	check := &models.Check{
		ID:        checkID,
		URL:       validatedURL,
		Domain:    target.Normalize(validatedURL),
		Mode:      mode,
		Status:    models.CheckStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	a.log.Info("Creating new check",
		slog.String("checkId", checkID),
		slog.String("url", validatedURL),
		slog.String("mode", string(mode)))

	if err := a.checks.CreateCheck(ctx, check); err != nil {
		return errors.Join(err, errors.New("failed to create check"))
	}

	if err := a.mb.PublishCheckRequest(ctx, messagebus.CheckRequestMessage{
		CheckID: checkID,
	}); err != nil {
		return errors.Join(err, errors.New("failed to publish check request"))
	}

	a.log.Info("Check request published",
		slog.String("checkId", checkID),
		slog.Duration("duration", time.Since(start)))

	success = true
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	return json.NewEncoder(w).Encode(check)
}

// checkListItem decorates a check with the coarse site status shown in
// the recent-checks list. Checks without a score (pending, running,
// failed) omit the field.
type checkListItem struct {
	*models.Check
	SiteStatus risk.SiteStatus `json:"site_status,omitempty"`
}

// handleGetRecentChecks lists the latest checks, newest first
func (a *API) handleGetRecentChecks(w http.ResponseWriter, r *http.Request, route shift.Route) error {
	ctx := r.Context()

	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return fmt.Errorf("invalid limit '%s'", raw)
		}
		limit = min(n, maxListLimit)
	}

	checks, err := a.checks.ListRecent(ctx, limit)
	if err != nil {
		return errors.Join(err, errors.New("failed to get checks"))
	}

	items := make([]checkListItem, 0, len(checks))
	for _, check := range checks {
		item := checkListItem{Check: check}
		if check.RiskScore != nil {
			item.SiteStatus = risk.StatusForScore(*check.RiskScore)
		}
		items = append(items, item)
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(items)
}

// handleGetCheck fetches a single check with its report when available
func (a *API) handleGetCheck(w http.ResponseWriter, r *http.Request, route shift.Route) error {
	ctx := r.Context()
	checkID := route.Params.Get("check_id")

	check, err := a.checks.GetCheck(ctx, checkID)
	if err != nil {
		if errors.Is(err, repository.ErrCheckNotFound) {
			http.Error(w, "check not found", http.StatusNotFound)
			return nil
		}
		return errors.Join(err, errors.New("failed to get check"))
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(check)
}

// handleGetCheckSummary presents a completed check's report as the
// risk summary shown to end users
func (a *API) handleGetCheckSummary(w http.ResponseWriter, r *http.Request, route shift.Route) error {
	ctx := r.Context()
	checkID := route.Params.Get("check_id")

	check, err := a.checks.GetCheck(ctx, checkID)
	if err != nil {
		if errors.Is(err, repository.ErrCheckNotFound) {
			http.Error(w, "check not found", http.StatusNotFound)
			return nil
		}
		return errors.Join(err, errors.New("failed to get check"))
	}

	if check.Report == nil {
		http.Error(w, "check has no report yet", http.StatusConflict)
		return nil
	}

	summary := risk.Summarize(check.Report, time.Now().UTC())

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(summary)
}

// handleSubmitReport accepts a user-submitted scam report
func (a *API) handleSubmitReport(w http.ResponseWriter, r *http.Request, route shift.Route) error {
	ctx := r.Context()

	var req ReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return errors.Join(err, errors.New("failed to decode request"))
	}

	var success bool
	defer func() {
		if a.metrics != nil {
			a.metrics.RecordReportSubmission(success)
		}
	}()

	validatedURL, err := validateURL(req.URL)
	if err != nil {
		return fmt.Errorf("url validation failed: %w", err)
	}

	if req.Description == "" {
		return errors.New("description is required")
	}

	report := &models.ScamReport{
		ID:            generateID(),
		URL:           validatedURL,
		Description:   req.Description,
		ReporterEmail: req.ReporterEmail,
		CreatedAt:     time.Now().UTC(),
	}

	if err := a.submissions.Create(ctx, report); err != nil {
		return errors.Join(err, errors.New("failed to create report"))
	}

	a.log.Info("Scam report submitted", slog.String("reportId", report.ID))

	success = true
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	return json.NewEncoder(w).Encode(report)
}

// handleGetReports lists the latest user-submitted scam reports
func (a *API) handleGetReports(w http.ResponseWriter, r *http.Request, route shift.Route) error {
	ctx := r.Context()

	reports, err := a.submissions.ListRecent(ctx, maxListLimit)
	if err != nil {
		return errors.Join(err, errors.New("failed to get reports"))
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(reports)
}

// handleDeleteReport removes a user-submitted scam report
func (a *API) handleDeleteReport(w http.ResponseWriter, r *http.Request, route shift.Route) error {
	ctx := r.Context()
	reportID := route.Params.Get("report_id")

	if err := a.submissions.Delete(ctx, reportID); err != nil {
		return errors.Join(err, errors.New("failed to delete report"))
	}

	a.log.Info("Scam report deleted", slog.String("reportId", reportID))

	w.WriteHeader(http.StatusNoContent)
	return nil
}

// handleWebSocket upgrades the connection for live check updates
func (a *API) handleWebSocket(w http.ResponseWriter, r *http.Request, route shift.Route) error {
	a.ws.HandleWebSocket(w, r)
	return nil
}
