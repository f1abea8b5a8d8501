// Package analysis is the HTTP boundary to the remote analysis service.
// The service does the actual scanning; this client only submits the
// target and decodes the report document.
package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"scamscope/internal/models"
)

//go:generate mockgen -destination=../mocks/mock_analysis.go -package=mocks . ClientInterface

// ClientInterface submits a target for remote analysis
type ClientInterface interface {
	Analyze(ctx context.Context, url string, mode models.CheckMode) (*models.AnalysisReport, error)
}

type Client struct {
	endpoint string
	h        *http.Client
}

// New creates a Client talking to the given endpoint. The http.Client
// carries the timeout; analysis runs take minutes in detailed mode.
func New(endpoint string, h *http.Client) *Client {
	if h == nil {
		h = http.DefaultClient
	}
	return &Client{
		endpoint: endpoint,
		h:        h,
	}
}

type analyzeRequest struct {
	URL          string `json:"url"`
	AnalysisType string `json:"analysis_type"`
}

// errorResponse matches the analysis service's error body
type errorResponse struct {
	Detail string `json:"detail"`
}

// Analyze submits the url and blocks until the service returns a report.
// Non-2xx responses become errors carrying the service's detail message
// when one is present.
func (c *Client) Analyze(ctx context.Context, url string, mode models.CheckMode) (*models.AnalysisReport, error) {
	body, err := json.Marshal(analyzeRequest{
		URL:          url,
		AnalysisType: string(mode),
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.h.Do(req)
	if err != nil {
		return nil, fmt.Errorf("analysis request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read analysis response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp errorResponse
		if err := json.Unmarshal(data, &errResp); err == nil && errResp.Detail != "" {
			return nil, fmt.Errorf("analysis service: %s", errResp.Detail)
		}
		return nil, fmt.Errorf("analysis service: HTTP error %d", resp.StatusCode)
	}

	var report models.AnalysisReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to decode analysis report: %w", err)
	}

	return &report, nil
}
