package analysis

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scamscope/internal/models"
)

func TestAnalyze_Success(t *testing.T) {
	var gotBody analyzeRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"requested_url": "https://example.com/",
			"domain_name": "example.com",
			"riskScore": 15,
			"ssl_info": {"issuer": "R3"},
			"whois_info": {"creation_date": ["2010-04-01", "2010-04-02"]}
		}`))
	}))
	defer srv.Close()

	client := New(srv.URL, srv.Client())

	report, err := client.Analyze(context.Background(), "https://example.com/", models.CheckModeBasic)
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/", gotBody.URL)
	assert.Equal(t, "basic", gotBody.AnalysisType)

	assert.Equal(t, 15, report.RiskScore)
	assert.Equal(t, "example.com", report.DomainName)
	require.NotNil(t, report.SSL)
	assert.Equal(t, "R3", report.SSL.Issuer)
	require.NotNil(t, report.Whois)
	assert.Equal(t, "2010-04-01", report.Whois.CreationDate.String())
}

func TestAnalyze_ErrorDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail": "unable to resolve host"}`))
	}))
	defer srv.Close()

	client := New(srv.URL, srv.Client())

	report, err := client.Analyze(context.Background(), "https://nosuchhost.invalid/", models.CheckModeBasic)
	assert.Nil(t, report)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unable to resolve host")
}

func TestAnalyze_ErrorWithoutDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`upstream crashed`))
	}))
	defer srv.Close()

	client := New(srv.URL, srv.Client())

	_, err := client.Analyze(context.Background(), "https://example.com/", models.CheckModeDetailed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP error 502")
}

func TestAnalyze_MalformedReport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	client := New(srv.URL, srv.Client())

	_, err := client.Analyze(context.Background(), "https://example.com/", models.CheckModeBasic)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode")
}

func TestAnalyze_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := New(srv.URL, srv.Client())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := client.Analyze(ctx, "https://example.com/", models.CheckModeBasic)
	require.Error(t, err)
}
