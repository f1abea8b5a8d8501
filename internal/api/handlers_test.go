package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yousuf64/shift"
	"go.uber.org/mock/gomock"

	"scamscope/internal/auth"
	"scamscope/internal/middleware"
	"scamscope/internal/mocks"
	"scamscope/internal/models"
	"scamscope/internal/repository"
	"scamscope/internal/risk"
)

// handlerTestCase is a test case for API handler testing
type handlerTestCase struct {
	name           string
	method         string
	path           string
	body           any
	setupMocks     func(*mocks.MockCheckRepositoryInterface, *mocks.MockSubmissionRepositoryInterface, *mocks.MockMessageBusInterface)
	expectedStatus int
	expectedError  bool
	description    string
}

// setupMockAPI creates an API instance with mocked dependencies
func setupMockAPI(t *testing.T) (*API, *mocks.MockCheckRepositoryInterface, *mocks.MockSubmissionRepositoryInterface, *mocks.MockMessageBusInterface, *gomock.Controller) {
	ctrl := gomock.NewController(t)

	mockChecks := mocks.NewMockCheckRepositoryInterface(ctrl)
	mockSubmissions := mocks.NewMockSubmissionRepositoryInterface(ctrl)
	mockMessageBus := mocks.NewMockMessageBusInterface(ctrl)

	api := &API{
		checks:      mockChecks,
		submissions: mockSubmissions,
		mb:          mockMessageBus,
		authSvc:     auth.New("admin@scamscope.io"),
		metrics:     nil,
		log:         slog.New(slog.DiscardHandler),
	}

	return api, mockChecks, mockSubmissions, mockMessageBus, ctrl
}

// makeRequest creates an HTTP request with the given method, path, and body.
func makeRequest(method, path string, body any) (*http.Request, error) {
	var reqBody bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&reqBody).Encode(body); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequest(method, path, &reqBody)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// setupRouter creates a new router and registers the given handler for the given method and path.
// It also adds the error middleware to the router.
func setupRouter(method, path string, handler shift.HandlerFunc) *shift.Router {
	router := shift.New()
	router.Use(middleware.ErrorMiddleware(slog.New(slog.DiscardHandler)))
	router.Map([]string{method}, path, handler)
	return router
}

func TestAPI_HandleCreateCheck_TableDriven(t *testing.T) {
	testCases := []handlerTestCase{
		// Success cases
		{
			name:   "SuccessfulCheck_Basic",
			method: "POST",
			path:   "/checks",
			body: CheckRequest{
				URL:  "https://example.com",
				Mode: "basic",
			},
			setupMocks: func(checks *mocks.MockCheckRepositoryInterface, subs *mocks.MockSubmissionRepositoryInterface, mb *mocks.MockMessageBusInterface) {
				checks.EXPECT().CreateCheck(gomock.Any(), gomock.Any()).Return(nil)
				mb.EXPECT().PublishCheckRequest(gomock.Any(), gomock.Any()).Return(nil)
			},
			expectedStatus: http.StatusAccepted,
			expectedError:  false,
			description:    "Successfully create and publish a basic check",
		},
		{
			name:   "SuccessfulCheck_Detailed",
			method: "POST",
			path:   "/checks",
			body: CheckRequest{
				URL:  "https://example.com",
				Mode: "detailed",
			},
			setupMocks: func(checks *mocks.MockCheckRepositoryInterface, subs *mocks.MockSubmissionRepositoryInterface, mb *mocks.MockMessageBusInterface) {
				checks.EXPECT().CreateCheck(gomock.Any(), gomock.Any()).Return(nil)
				mb.EXPECT().PublishCheckRequest(gomock.Any(), gomock.Any()).Return(nil)
			},
			expectedStatus: http.StatusAccepted,
			expectedError:  false,
			description:    "Successfully create and publish a detailed check",
		},
		{
			name:   "SuccessfulCheck_DefaultMode",
			method: "POST",
			path:   "/checks",
			body: CheckRequest{
				URL: "example.com",
			},
			setupMocks: func(checks *mocks.MockCheckRepositoryInterface, subs *mocks.MockSubmissionRepositoryInterface, mb *mocks.MockMessageBusInterface) {
				checks.EXPECT().CreateCheck(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ any, check *models.Check) error {
						assert.Equal(t, models.CheckModeBasic, check.Mode)
						assert.Equal(t, "example.com", check.Domain)
						return nil
					})
				mb.EXPECT().PublishCheckRequest(gomock.Any(), gomock.Any()).Return(nil)
			},
			expectedStatus: http.StatusAccepted,
			expectedError:  false,
			description:    "Mode defaults to basic; scheme-less URL gets https://",
		},

		// Validation error cases
		{
			name:   "InvalidMode",
			method: "POST",
			path:   "/checks",
			body: CheckRequest{
				URL:  "https://example.com",
				Mode: "paranoid",
			},
			setupMocks: func(checks *mocks.MockCheckRepositoryInterface, subs *mocks.MockSubmissionRepositoryInterface, mb *mocks.MockMessageBusInterface) {
				// No expectations - should fail validation
			},
			expectedError: true,
			description:   "Reject unknown check mode",
		},
		{
			name:   "EmptyURL",
			method: "POST",
			path:   "/checks",
			body: CheckRequest{
				URL: "",
			},
			setupMocks: func(checks *mocks.MockCheckRepositoryInterface, subs *mocks.MockSubmissionRepositoryInterface, mb *mocks.MockMessageBusInterface) {
				// No expectations - should fail validation
			},
			expectedError: true,
			description:   "Reject empty URL",
		},
		{
			name:   "TooLongURL",
			method: "POST",
			path:   "/checks",
			body: CheckRequest{
				URL: "https://example.com/" + strings.Repeat("a", 2050),
			},
			setupMocks: func(checks *mocks.MockCheckRepositoryInterface, subs *mocks.MockSubmissionRepositoryInterface, mb *mocks.MockMessageBusInterface) {
				// No expectations - should fail validation
			},
			expectedError: true,
			description:   "Reject URL exceeding 2048 character limit",
		},
		{
			name:   "UnsupportedScheme",
			method: "POST",
			path:   "/checks",
			body: CheckRequest{
				URL: "ftp://example.com",
			},
			setupMocks: func(checks *mocks.MockCheckRepositoryInterface, subs *mocks.MockSubmissionRepositoryInterface, mb *mocks.MockMessageBusInterface) {
				// No expectations - should fail validation
			},
			expectedError: true,
			description:   "Reject FTP scheme (only HTTP/HTTPS allowed)",
		},
		{
			name:   "LocalhostRejection",
			method: "POST",
			path:   "/checks",
			body: CheckRequest{
				URL: "https://localhost",
			},
			setupMocks: func(checks *mocks.MockCheckRepositoryInterface, subs *mocks.MockSubmissionRepositoryInterface, mb *mocks.MockMessageBusInterface) {
				// No expectations - should fail validation
			},
			expectedError: true,
			description:   "Reject localhost URLs (security policy)",
		},
		{
			name:   "PrivateIP",
			method: "POST",
			path:   "/checks",
			body: CheckRequest{
				URL: "https://192.168.1.1",
			},
			setupMocks: func(checks *mocks.MockCheckRepositoryInterface, subs *mocks.MockSubmissionRepositoryInterface, mb *mocks.MockMessageBusInterface) {
				// No expectations - should fail validation
			},
			expectedError: true,
			description:   "Reject private IP address",
		},
		{
			name:   "InvalidJSON",
			method: "POST",
			path:   "/checks",
			body:   "invalid-json",
			setupMocks: func(checks *mocks.MockCheckRepositoryInterface, subs *mocks.MockSubmissionRepositoryInterface, mb *mocks.MockMessageBusInterface) {
				// No expectations - should fail JSON parsing
			},
			expectedError: true,
			description:   "Handle invalid JSON request body",
		},

		// Infrastructure errors
		{
			name:   "DatabaseError",
			method: "POST",
			path:   "/checks",
			body: CheckRequest{
				URL: "https://example.com",
			},
			setupMocks: func(checks *mocks.MockCheckRepositoryInterface, subs *mocks.MockSubmissionRepositoryInterface, mb *mocks.MockMessageBusInterface) {
				checks.EXPECT().CreateCheck(gomock.Any(), gomock.Any()).Return(errors.New("database error"))
			},
			expectedError: true,
			description:   "Handle database errors during check creation",
		},
		{
			name:   "MessageBusError",
			method: "POST",
			path:   "/checks",
			body: CheckRequest{
				URL: "https://example.com",
			},
			setupMocks: func(checks *mocks.MockCheckRepositoryInterface, subs *mocks.MockSubmissionRepositoryInterface, mb *mocks.MockMessageBusInterface) {
				checks.EXPECT().CreateCheck(gomock.Any(), gomock.Any()).Return(nil)
				mb.EXPECT().PublishCheckRequest(gomock.Any(), gomock.Any()).Return(errors.New("message bus error"))
			},
			expectedError: true,
			description:   "Handle message bus publishing errors",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			api, mockChecks, mockSubmissions, mockMessageBus, ctrl := setupMockAPI(t)
			defer ctrl.Finish()

			tc.setupMocks(mockChecks, mockSubmissions, mockMessageBus)

			req, err := makeRequest(tc.method, tc.path, tc.body)
			assert.NoError(t, err, "Failed to create request")

			rr := httptest.NewRecorder()

			router := setupRouter("POST", "/checks", api.handleCreateCheck)

			router.Serve().ServeHTTP(rr, req)

			if tc.expectedError {
				assert.True(t, rr.Code >= 400, "Expected error status code, got %d", rr.Code)
			} else {
				assert.Equal(t, tc.expectedStatus, rr.Code, "Status code mismatch")
				assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			}
		})
	}
}

func TestAPI_HandleGetRecentChecks(t *testing.T) {
	score := 15
	testChecks := []*models.Check{
		{
			ID:        "check-1",
			URL:       "https://example.com",
			Domain:    "example.com",
			Mode:      models.CheckModeBasic,
			Status:    models.CheckStatusCompleted,
			RiskScore: &score,
			CreatedAt: time.Now(),
		},
		{
			ID:        "check-2",
			URL:       "https://test.com",
			Domain:    "test.com",
			Mode:      models.CheckModeDetailed,
			Status:    models.CheckStatusRunning,
			CreatedAt: time.Now(),
		},
	}

	testCases := []struct {
		name           string
		query          string
		setupMocks     func(*mocks.MockCheckRepositoryInterface)
		expectedStatus int
		expectedError  bool
	}{
		{
			name:  "DefaultLimit",
			query: "",
			setupMocks: func(checks *mocks.MockCheckRepositoryInterface) {
				checks.EXPECT().ListRecent(gomock.Any(), defaultListLimit).Return(testChecks, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:  "ExplicitLimit",
			query: "?limit=5",
			setupMocks: func(checks *mocks.MockCheckRepositoryInterface) {
				checks.EXPECT().ListRecent(gomock.Any(), 5).Return(testChecks, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:  "LimitCapped",
			query: "?limit=5000",
			setupMocks: func(checks *mocks.MockCheckRepositoryInterface) {
				checks.EXPECT().ListRecent(gomock.Any(), maxListLimit).Return(testChecks, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:          "InvalidLimit",
			query:         "?limit=abc",
			setupMocks:    func(checks *mocks.MockCheckRepositoryInterface) {},
			expectedError: true,
		},
		{
			name:  "DatabaseError",
			query: "",
			setupMocks: func(checks *mocks.MockCheckRepositoryInterface) {
				checks.EXPECT().ListRecent(gomock.Any(), gomock.Any()).Return(nil, errors.New("database error"))
			},
			expectedError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			api, mockChecks, _, _, ctrl := setupMockAPI(t)
			defer ctrl.Finish()

			tc.setupMocks(mockChecks)

			req, err := makeRequest("GET", "/checks/recent"+tc.query, nil)
			assert.NoError(t, err, "Failed to create request")

			rr := httptest.NewRecorder()
			router := setupRouter("GET", "/checks/recent", api.handleGetRecentChecks)
			router.Serve().ServeHTTP(rr, req)

			if tc.expectedError {
				assert.True(t, rr.Code >= 400, "Expected error status code, got %d", rr.Code)
			} else {
				assert.Equal(t, tc.expectedStatus, rr.Code, "Status code mismatch")

				var items []checkListItem
				err := json.Unmarshal(rr.Body.Bytes(), &items)
				assert.NoError(t, err, "Response should be valid JSON")
				assert.Len(t, items, 2)

				// Completed check carries the coarse status; unscored ones omit it
				assert.Equal(t, risk.StatusSafe, items[0].SiteStatus)
				assert.Empty(t, items[1].SiteStatus)
			}
		})
	}
}

func TestAPI_HandleGetCheck(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		api, mockChecks, _, _, ctrl := setupMockAPI(t)
		defer ctrl.Finish()

		mockChecks.EXPECT().GetCheck(gomock.Any(), "check-1").Return(&models.Check{
			ID:     "check-1",
			URL:    "https://example.com",
			Status: models.CheckStatusCompleted,
		}, nil)

		req, err := makeRequest("GET", "/checks/check-1", nil)
		require.NoError(t, err)

		rr := httptest.NewRecorder()
		router := setupRouter("GET", "/checks/:check_id", api.handleGetCheck)
		router.Serve().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var check models.Check
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &check))
		assert.Equal(t, "check-1", check.ID)
	})

	t.Run("NotFound", func(t *testing.T) {
		api, mockChecks, _, _, ctrl := setupMockAPI(t)
		defer ctrl.Finish()

		mockChecks.EXPECT().GetCheck(gomock.Any(), "missing").Return(nil, repository.ErrCheckNotFound)

		req, err := makeRequest("GET", "/checks/missing", nil)
		require.NoError(t, err)

		rr := httptest.NewRecorder()
		router := setupRouter("GET", "/checks/:check_id", api.handleGetCheck)
		router.Serve().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestAPI_HandleGetCheckSummary(t *testing.T) {
	t.Run("CompletedCheck", func(t *testing.T) {
		api, mockChecks, _, _, ctrl := setupMockAPI(t)
		defer ctrl.Finish()

		mockChecks.EXPECT().GetCheck(gomock.Any(), "check-1").Return(&models.Check{
			ID:     "check-1",
			Status: models.CheckStatusCompleted,
			Report: &models.AnalysisReport{
				RequestedURL: "https://example.com/",
				DomainName:   "example.com",
				RiskScore:    15,
				SSL:          &models.SSLInfo{Issuer: "R3"},
			},
		}, nil)

		req, err := makeRequest("GET", "/checks/check-1/summary", nil)
		require.NoError(t, err)

		rr := httptest.NewRecorder()
		router := setupRouter("GET", "/checks/:check_id/summary", api.handleGetCheckSummary)
		router.Serve().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var summary risk.Summary
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &summary))
		assert.Equal(t, "Very Low Risk", summary.Level.Label)
		assert.Equal(t, risk.StatusSafe, summary.Status)
	})

	t.Run("PendingCheck", func(t *testing.T) {
		api, mockChecks, _, _, ctrl := setupMockAPI(t)
		defer ctrl.Finish()

		mockChecks.EXPECT().GetCheck(gomock.Any(), "check-2").Return(&models.Check{
			ID:     "check-2",
			Status: models.CheckStatusPending,
		}, nil)

		req, err := makeRequest("GET", "/checks/check-2/summary", nil)
		require.NoError(t, err)

		rr := httptest.NewRecorder()
		router := setupRouter("GET", "/checks/:check_id/summary", api.handleGetCheckSummary)
		router.Serve().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
	})
}

func TestAPI_HandleSubmitReport(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		api, _, mockSubmissions, _, ctrl := setupMockAPI(t)
		defer ctrl.Finish()

		mockSubmissions.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ any, report *models.ScamReport) error {
				assert.NotEmpty(t, report.ID)
				assert.Equal(t, "https://scam.example.net", report.URL)
				return nil
			})

		req, err := makeRequest("POST", "/reports", ReportRequest{
			URL:           "https://scam.example.net",
			Description:   "Fake storefront, never ships",
			ReporterEmail: "user@example.com",
		})
		require.NoError(t, err)

		rr := httptest.NewRecorder()
		router := setupRouter("POST", "/reports", api.handleSubmitReport)
		router.Serve().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	})

	t.Run("MissingDescription", func(t *testing.T) {
		api, _, _, _, ctrl := setupMockAPI(t)
		defer ctrl.Finish()

		req, err := makeRequest("POST", "/reports", ReportRequest{
			URL: "https://scam.example.net",
		})
		require.NoError(t, err)

		rr := httptest.NewRecorder()
		router := setupRouter("POST", "/reports", api.handleSubmitReport)
		router.Serve().ServeHTTP(rr, req)

		assert.True(t, rr.Code >= 400, "Expected error status code, got %d", rr.Code)
	})
}

func TestAPI_AdminEndpoints(t *testing.T) {
	t.Run("GetReports_AsAdmin", func(t *testing.T) {
		api, _, mockSubmissions, _, ctrl := setupMockAPI(t)
		defer ctrl.Finish()

		mockSubmissions.EXPECT().ListRecent(gomock.Any(), maxListLimit).Return([]*models.ScamReport{
			{ID: "report-1", URL: "https://scam.example.net"},
		}, nil)

		req, err := makeRequest("GET", "/reports", nil)
		require.NoError(t, err)
		req.Header.Set(auth.IdentityHeader, "admin@scamscope.io")

		rr := httptest.NewRecorder()
		router := setupRouter("GET", "/reports", api.adminOnly(api.handleGetReports))
		router.Serve().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("GetReports_Anonymous", func(t *testing.T) {
		api, _, mockSubmissions, _, ctrl := setupMockAPI(t)
		defer ctrl.Finish()

		mockSubmissions.EXPECT().ListRecent(gomock.Any(), gomock.Any()).Times(0)

		req, err := makeRequest("GET", "/reports", nil)
		require.NoError(t, err)

		rr := httptest.NewRecorder()
		router := setupRouter("GET", "/reports", api.adminOnly(api.handleGetReports))
		router.Serve().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("DeleteReport_AsAdmin", func(t *testing.T) {
		api, _, mockSubmissions, _, ctrl := setupMockAPI(t)
		defer ctrl.Finish()

		mockSubmissions.EXPECT().Delete(gomock.Any(), "report-1").Return(nil)

		req, err := makeRequest("DELETE", "/reports/report-1", nil)
		require.NoError(t, err)
		req.Header.Set(auth.IdentityHeader, "admin@scamscope.io")

		rr := httptest.NewRecorder()
		router := setupRouter("DELETE", "/reports/:report_id", api.adminOnly(api.handleDeleteReport))
		router.Serve().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)
	})

	t.Run("DeleteReport_WrongUser", func(t *testing.T) {
		api, _, mockSubmissions, _, ctrl := setupMockAPI(t)
		defer ctrl.Finish()

		mockSubmissions.EXPECT().Delete(gomock.Any(), gomock.Any()).Times(0)

		req, err := makeRequest("DELETE", "/reports/report-1", nil)
		require.NoError(t, err)
		req.Header.Set(auth.IdentityHeader, "user@scamscope.io")

		rr := httptest.NewRecorder()
		router := setupRouter("DELETE", "/reports/:report_id", api.adminOnly(api.handleDeleteReport))
		router.Serve().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}
