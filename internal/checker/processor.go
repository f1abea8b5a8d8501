package checker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"scamscope/internal/messagebus"
	"scamscope/internal/models"
)

// ProcessCheckMessage handles incoming check request messages
func (c *Checker) ProcessCheckMessage(ctx context.Context, msg *nats.Msg) {
	var cm messagebus.CheckRequestMessage
	if err := json.Unmarshal(msg.Data, &cm); err != nil {
		c.log.Error("Failed to unmarshal check request",
			slog.Any("error", err),
			slog.String("data", string(msg.Data)))
		return
	}

	c.log.Info("Processing check request", slog.String("checkId", cm.CheckID))

	start := time.Now()
	mode, err := c.runCheck(ctx, cm)
	if err != nil {
		c.log.Error("Failed to process check request",
			slog.String("checkId", cm.CheckID),
			slog.Any("error", err))
		c.metrics.RecordCheck(mode, false, time.Since(start).Seconds())
		return
	}

	d := time.Since(start)
	c.log.Info("Completed check request",
		slog.String("checkId", cm.CheckID),
		slog.Duration("processingTime", d))

	c.metrics.RecordCheck(mode, true, d.Seconds())
}

// runCheck performs the complete check workflow for a queued check
func (c *Checker) runCheck(ctx context.Context, cm messagebus.CheckRequestMessage) (string, error) {
	check, err := c.checks.GetCheck(ctx, cm.CheckID)
	if err != nil {
		return "", fmt.Errorf("check not found: %w", err)
	}

	c.log.Info("Starting check",
		slog.String("checkId", check.ID),
		slog.String("url", check.URL),
		slog.String("mode", string(check.Mode)))

	if err := c.updateCheckStatus(ctx, check, models.CheckStatusRunning); err != nil {
		return string(check.Mode), fmt.Errorf("failed to update check status: %w", err)
	}

	report, err := c.Resolve(ctx, check)
	if err != nil {
		c.failCheck(ctx, check, err)
		return string(check.Mode), fmt.Errorf("analysis failed: %w", err)
	}

	return string(check.Mode), c.completeCheck(ctx, check, report)
}

// updateCheckStatus persists a status transition and publishes the update
func (c *Checker) updateCheckStatus(ctx context.Context, check *models.Check, status models.CheckStatus) error {
	check.Status = status
	if err := c.checks.UpdateCheck(ctx, check); err != nil {
		return err
	}

	return c.bus.PublishCheckUpdate(ctx, messagebus.CheckUpdateMessage{
		CheckID: check.ID,
		Status:  string(status),
	})
}

// completeCheck finalizes the check with its report
func (c *Checker) completeCheck(ctx context.Context, check *models.Check, report *models.AnalysisReport) error {
	now := c.now().UTC()
	score := report.RiskScore

	check.Status = models.CheckStatusCompleted
	check.RiskScore = &score
	check.Report = report
	check.CompletedAt = &now
	check.Error = ""

	c.log.Info("Check completed",
		slog.String("checkId", check.ID),
		slog.String("domain", check.Domain),
		slog.Int("riskScore", score))

	if err := c.checks.UpdateCheck(ctx, check); err != nil {
		return fmt.Errorf("failed to update check: %w", err)
	}

	return c.bus.PublishCheckUpdate(ctx, messagebus.CheckUpdateMessage{
		CheckID:   check.ID,
		Status:    string(models.CheckStatusCompleted),
		RiskScore: &score,
		Report:    report,
	})
}

// failCheck marks the check failed, keeping the failure reason
func (c *Checker) failCheck(ctx context.Context, check *models.Check, cause error) {
	check.Status = models.CheckStatusFailed
	check.Error = cause.Error()

	if err := c.checks.UpdateCheck(ctx, check); err != nil {
		c.log.Error("Failed to mark check failed",
			slog.String("checkId", check.ID),
			slog.Any("error", err))
	}

	if err := c.bus.PublishCheckUpdate(ctx, messagebus.CheckUpdateMessage{
		CheckID: check.ID,
		Status:  string(models.CheckStatusFailed),
	}); err != nil {
		c.log.Error("Failed to publish check update",
			slog.String("checkId", check.ID),
			slog.Any("error", err))
	}
}
