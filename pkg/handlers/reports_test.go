package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cutroom-hq/cutroom-engine/pkg/services"
)

// mockReportService implements services.ReportService for testing.
type mockReportService struct {
	report     *services.Report
	err        error
	lastFilter services.ReportFilter
}

func (m *mockReportService) Build(_ context.Context, _ uuid.UUID, filter services.ReportFilter) (*services.Report, error) {
	m.lastFilter = filter
	if m.err != nil {
		return nil, m.err
	}
	return m.report, nil
}

var _ services.ReportService = (*mockReportService)(nil)

func TestReportsHandler_Build(t *testing.T) {
	svc := &mockReportService{report: &services.Report{
		Entries:    []services.ReportEntry{{ProjectName: "Promo", UserRole: "Editor"}},
		TotalHours: 12.5,
	}}
	handler := NewReportsHandler(svc, zap.NewNop())

	projectID := uuid.New()
	userID := uuid.New()
	url := fmt.Sprintf("/api/reports?project_id=%s&user_id=%s&from=2026-08-01&to=2026-08-31", projectID, userID)
	req := authedRequest("GET", url, nil, uuid.New())
	rr := httptest.NewRecorder()
	handler.Build(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	assert.Equal(t, projectID, svc.lastFilter.ProjectID)
	assert.Equal(t, userID, svc.lastFilter.UserID)
	assert.Equal(t, "2026-08-01", svc.lastFilter.From)
	assert.Equal(t, "2026-08-31", svc.lastFilter.To)

	var report services.Report
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&report))
	assert.Equal(t, 12.5, report.TotalHours)
}

func TestReportsHandler_Build_NoFilters(t *testing.T) {
	svc := &mockReportService{report: &services.Report{Entries: []services.ReportEntry{}}}
	handler := NewReportsHandler(svc, zap.NewNop())

	req := authedRequest("GET", "/api/reports", nil, uuid.New())
	rr := httptest.NewRecorder()
	handler.Build(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, uuid.Nil, svc.lastFilter.ProjectID)
	assert.Equal(t, uuid.Nil, svc.lastFilter.UserID)
}

func TestReportsHandler_Build_BadProjectID(t *testing.T) {
	handler := NewReportsHandler(&mockReportService{}, zap.NewNop())

	req := authedRequest("GET", "/api/reports?project_id=xyz", nil, uuid.New())
	rr := httptest.NewRecorder()
	handler.Build(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestReportsHandler_Build_BadUserID(t *testing.T) {
	handler := NewReportsHandler(&mockReportService{}, zap.NewNop())

	req := authedRequest("GET", "/api/reports?user_id=xyz", nil, uuid.New())
	rr := httptest.NewRecorder()
	handler.Build(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
