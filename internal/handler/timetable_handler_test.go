package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	internalmiddleware "github.com/noah-isme/sma-timetable-api/internal/middleware"
	"github.com/noah-isme/sma-timetable-api/internal/scheduler"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

type timetableServiceMock struct {
	captured   dto.GenerateTimetableRequest
	generateFn func(req dto.GenerateTimetableRequest) (*dto.TimetableResponse, error)
	listBranch string
	deletedID  string
	exportFmt  string
	cacheHit   bool
	err        error
}

func (m *timetableServiceMock) Generate(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.TimetableResponse, error) {
	m.captured = req
	if m.generateFn != nil {
		return m.generateFn(req)
	}
	return sampleTimetableResponse(), nil
}

func (m *timetableServiceMock) List(ctx context.Context, branchID string) ([]dto.TimetableSummary, bool, error) {
	m.listBranch = branchID
	if m.err != nil {
		return nil, false, m.err
	}
	return []dto.TimetableSummary{{ID: "run-2", BranchID: branchID, Version: 2}, {ID: "run-1", BranchID: branchID, Version: 1}}, m.cacheHit, nil
}

func (m *timetableServiceMock) Get(ctx context.Context, id string) (*dto.TimetableResponse, bool, error) {
	if m.err != nil {
		return nil, false, m.err
	}
	resp := sampleTimetableResponse()
	resp.ID = id
	return resp, m.cacheHit, nil
}

func (m *timetableServiceMock) Delete(ctx context.Context, id string) error {
	m.deletedID = id
	return m.err
}

func (m *timetableServiceMock) Export(ctx context.Context, id, format string) (*dto.TimetableExport, error) {
	m.exportFmt = format
	if m.err != nil {
		return nil, m.err
	}
	return &dto.TimetableExport{
		Filename:    "timetable-branch-1-v1.csv",
		ContentType: "text/csv",
		Payload:     []byte("Day,Period\nMONDAY,1\n"),
	}, nil
}

func sampleTimetableResponse() *dto.TimetableResponse {
	placement := scheduler.Placement{Day: 1, Period: 2, LessonID: "math-10A", ClassID: "10A", TeacherID: "t-1"}
	return &dto.TimetableResponse{
		ID:       "run-1",
		BranchID: "branch-1",
		Version:  1,
		Status:   "SUCCEEDED",
		Success:  true,
		Schedule: []dto.ScheduleEntry{{Key: placement.Key().String(), Placement: placement}},
	}
}

func newTimetableRouter(mockSvc *timetableServiceMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := &TimetableHandler{service: mockSvc}
	router := gin.New()
	router.Use(internalmiddleware.WithResponseMeta())
	group := router.Group("/api/v1/timetables")
	group.POST("/generate", h.Generate)
	group.GET("", h.List)
	group.GET("/:id", h.Get)
	group.DELETE("/:id", h.Delete)
	group.GET("/:id/export", h.Export)
	return router
}

func TestTimetableGenerateCreated(t *testing.T) {
	mockSvc := &timetableServiceMock{}
	router := newTimetableRouter(mockSvc)

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/timetables/generate", bytes.NewReader([]byte(`{"branchId":"branch-1","attempts":20,"seed":7}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "branch-1", mockSvc.captured.BranchID)
	assert.Equal(t, 20, mockSvc.captured.Attempts)
	require.NotNil(t, mockSvc.captured.Seed)
	assert.Equal(t, int64(7), *mockSvc.captured.Seed)

	var body struct {
		Data struct {
			ID       string            `json:"id"`
			Schedule []json.RawMessage `json:"schedule"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "run-1", body.Data.ID)
	require.Len(t, body.Data.Schedule, 1)
	assert.JSONEq(t, `["1:2:t-1",{"day":1,"period":2,"lessonId":"math-10A","lessonName":"","classId":"10A","teacherId":"t-1"}]`, string(body.Data.Schedule[0]))
}

func TestTimetableGenerateMalformedPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &TimetableHandler{service: &timetableServiceMock{}}
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/timetables/generate", bytes.NewReader([]byte(`{"branchId":`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	h.Generate(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), appErrors.ErrValidation.Code)
}

func TestTimetableGenerateIntegrityFailure(t *testing.T) {
	mockSvc := &timetableServiceMock{
		generateFn: func(req dto.GenerateTimetableRequest) (*dto.TimetableResponse, error) {
			issues := []scheduler.IntegrityIssue{{Entity: "lesson", EntityID: "chem-10A", Reason: "no teacher assigned"}}
			return nil, appErrors.WithDetails(appErrors.ErrDataIntegrity, &scheduler.DataIntegrityError{Issues: issues}, map[string]interface{}{
				"runId":  "run-9",
				"issues": issues,
			})
		},
	}
	router := newTimetableRouter(mockSvc)

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/timetables/generate", bytes.NewReader([]byte(`{"branchId":"branch-1"}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Details struct {
				RunID  string                     `json:"runId"`
				Issues []scheduler.IntegrityIssue `json:"issues"`
			} `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, appErrors.ErrDataIntegrity.Code, body.Error.Code)
	assert.Equal(t, "run-9", body.Error.Details.RunID)
	require.Len(t, body.Error.Details.Issues, 1)
	assert.Equal(t, "chem-10A", body.Error.Details.Issues[0].EntityID)
}

func TestTimetableListRequiresBranch(t *testing.T) {
	router := newTimetableRouter(&timetableServiceMock{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/timetables", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTimetableListWithMeta(t *testing.T) {
	mockSvc := &timetableServiceMock{cacheHit: true}
	router := newTimetableRouter(mockSvc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/timetables?branchId=branch-1", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "branch-1", mockSvc.listBranch)
	var body struct {
		Data []dto.TimetableSummary `json:"data"`
		Meta map[string]interface{} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 2)
	assert.Equal(t, float64(2), body.Meta["total"])
	assert.Equal(t, true, body.Meta["cache_hit"])
	assert.Contains(t, body.Meta, "processing_time_ms")
}

func TestTimetableGetNotFound(t *testing.T) {
	router := newTimetableRouter(&timetableServiceMock{err: appErrors.Clone(appErrors.ErrNotFound, "timetable run not found")})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/timetables/missing", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

func TestTimetableGetSuccess(t *testing.T) {
	router := newTimetableRouter(&timetableServiceMock{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/timetables/run-42", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"run-42"`)
	assert.Contains(t, w.Body.String(), `"cache_hit":false`)
}

func TestTimetableDelete(t *testing.T) {
	mockSvc := &timetableServiceMock{}
	router := newTimetableRouter(mockSvc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodDelete, "/api/v1/timetables/run-1", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "run-1", mockSvc.deletedID)
}

func TestTimetableExportAttachment(t *testing.T) {
	mockSvc := &timetableServiceMock{}
	router := newTimetableRouter(mockSvc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/timetables/run-1/export?format=csv", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "csv", mockSvc.exportFmt)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="timetable-branch-1-v1.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "Day,Period\nMONDAY,1\n", w.Body.String())
}

func TestTimetableExportConflict(t *testing.T) {
	router := newTimetableRouter(&timetableServiceMock{err: appErrors.Clone(appErrors.ErrConflict, "failed runs cannot be exported")})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/timetables/run-1/export?format=pdf", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusConflict, w.Code)
}
