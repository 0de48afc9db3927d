package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vesselworks/dashboard/internal/modules/model"
	"github.com/vesselworks/dashboard/internal/pkg/report"
)

func TestReportHandler_GetSummary(t *testing.T) {
	svc := &MockReportService{}
	svc.On("Summary", mock.Anything, testSess).Return(report.Summary{CompletedCount: 4, LettersReceived: 1, LettersPending: 3}, nil)
	h := NewReportHandler(svc)
	router := setupRouter()
	router.GET("/report/summary", h.GetSummary)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/report/summary", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data map[string]int `json:"data"`
	}
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, map[string]int{"completed_count": 4, "letters_received": 1, "letters_pending": 3}, resp.Data)
}

func TestReportHandler_GetCertificates(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		setup          func(*MockReportService)
		expectedStatus int
	}{
		{
			name:  "pending",
			query: "?tab=pending",
			setup: func(svc *MockReportService) {
				svc.On("Certificates", mock.Anything, testSess, "pending").Return([]model.Project{{ID: "c-2"}}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:  "default tab",
			query: "",
			setup: func(svc *MockReportService) {
				svc.On("Certificates", mock.Anything, testSess, "").Return([]model.Project{}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unknown tab",
			query:          "?tab=archived",
			setup:          func(svc *MockReportService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockReportService{}
			tt.setup(svc)
			h := NewReportHandler(svc)
			router := setupRouter()
			router.GET("/report/certificates", h.GetCertificates)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/report/certificates"+tt.query, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			svc.AssertExpectations(t)
		})
	}
}
