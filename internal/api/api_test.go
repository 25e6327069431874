package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BerylCAtieno/gtm-studio/internal/a2a"
	"github.com/BerylCAtieno/gtm-studio/internal/flow"
	"github.com/BerylCAtieno/gtm-studio/internal/logger/loggertest"
	"github.com/BerylCAtieno/gtm-studio/internal/models"
	"github.com/BerylCAtieno/gtm-studio/internal/profiler"
)

type fakeGateway struct {
	mu          sync.Mutex
	failProfile bool
	failReview  bool
	lastProfile *models.Profile
}

func (g *fakeGateway) RequestProfile(_ context.Context, _ string) (models.Profile, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failProfile {
		return models.Profile{}, fmt.Errorf("%w: upstream 503", profiler.ErrProfileGenerationFailed)
	}
	p := models.NewProfile()
	p.ID = models.NewID()
	p.Role = "Compliance Officer"
	p.CompanySize = "SMB"
	p.PainPoints = []string{"manual review"}
	p.Goals = []string{"faster approvals"}
	return p, nil
}

func (g *fakeGateway) RequestFeedback(_ context.Context, _ string, profile *models.Profile, _ models.AssetType) (models.Feedback, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastProfile = profile
	if g.failReview {
		return models.Feedback{}, fmt.Errorf("%w: truncated JSON", profiler.ErrFeedbackGenerationFailed)
	}
	return models.Feedback{
		Score:          45,
		Strengths:      []string{},
		Weaknesses:     []string{"no pain-point reference"},
		Suggestions:    []string{"mention approval delays"},
		RevisedContent: "Cut approval delays with our tool",
		Timestamp:      time.Now().UTC(),
	}, nil
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
	store  *SessionStore
	gw     *fakeGateway
}

func newTestServer(t *testing.T) *testServer {
	gin.SetMode(gin.TestMode)
	log := loggertest.New(t)
	gw := &fakeGateway{}
	store := NewSessionStore(gw, time.Hour, log)
	r := NewRouter(RouterConfig{
		ServiceName:    "gtm-studio-test",
		CORSOrigins:    []string{"http://localhost:5173"},
		Log:            log,
		SessionHandler: NewSessionHandler(store, log),
		A2AHandler:     a2a.NewA2AHandler(gw, log),
	})
	return &testServer{t: t, router: r, store: store, gw: gw}
}

func (s *testServer) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) newSession() string {
	rec := s.do(http.MethodPost, "/api/sessions", nil)
	require.Equal(s.t, http.StatusCreated, rec.Code)
	var out struct {
		ID    string          `json:"id"`
		State flow.ShellState `json:"state"`
	}
	require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.NotEmpty(s.t, out.ID)
	assert.Equal(s.t, flow.ViewDashboard, out.State.View)
	assert.Equal(s.t, "GLOBAL_NULL", out.State.Context)
	return out.ID
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	return decode[errorEnvelope](t, rec).Error.Code
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())

	rec = s.do(http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "gtm_http_requests_total")
}

func TestGenerateSelectAnalyzeRevise(t *testing.T) {
	s := newTestServer(t)
	id := s.newSession()
	base := "/api/sessions/" + id

	rec := s.do(http.MethodPost, base+"/icp/generate", gin.H{"description": "AI compliance tool for architecture firms"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	gen := decode[flow.GeneratorState](t, rec)
	assert.Equal(t, flow.StatusDone, gen.Status)
	require.NotNil(t, gen.Result)
	assert.Equal(t, "Compliance Officer", gen.Result.Role)
	assert.NotEmpty(t, gen.Result.ID)

	rec = s.do(http.MethodPost, base+"/icp/select", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	shell := decode[flow.ShellState](t, rec)
	assert.Equal(t, flow.ViewCreative, shell.View)
	assert.Equal(t, "Compliance Officer", shell.Context)

	rec = s.do(http.MethodPost, base+"/creative/profile/painPoints", gin.H{"value": "slow approvals"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodPost, base+"/creative/analyze", gin.H{"content": "Buy our tool now", "assetType": "value_prop"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cr := decode[flow.CreativeState](t, rec)
	require.NotNil(t, cr.Feedback)
	assert.Equal(t, 45, cr.Feedback.Score)
	assert.Equal(t, models.BandLow, cr.Band)
	assert.Equal(t, models.AssetValueProp, cr.AssetType)
	assert.Equal(t, []string{"manual review", "slow approvals"}, s.gw.lastProfile.PainPoints)

	rec = s.do(http.MethodPost, base+"/creative/revision", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cr = decode[flow.CreativeState](t, rec)
	assert.Equal(t, "Cut approval delays with our tool", cr.Content)
	assert.Nil(t, cr.Feedback)
	assert.Equal(t, flow.StatusIdle, cr.Status)

	rec = s.do(http.MethodPost, base+"/creative/revision", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, CodeNoRevision, errorCode(t, rec))

	// Analyze again without a body re-uses the revised content.
	rec = s.do(http.MethodPost, base+"/creative/analyze", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGatewayFailuresReturnBadGatewayWithState(t *testing.T) {
	s := newTestServer(t)
	id := s.newSession()
	base := "/api/sessions/" + id

	s.gw.failProfile = true
	rec := s.do(http.MethodPost, base+"/icp/generate", gin.H{"description": "x"})
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	var env struct {
		Error errorBody           `json:"error"`
		State flow.GeneratorState `json:"state"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, CodeProfileGenerationFailed, env.Error.Code)
	assert.Equal(t, "failed to generate ICP", env.Error.Message)
	assert.Equal(t, flow.StatusFailed, env.State.Status)
	assert.Equal(t, flow.NoticeProfileFailed, env.State.Notice)

	s.gw.failReview = true
	rec = s.do(http.MethodPost, base+"/creative/analyze", gin.H{"content": "copy"})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, CodeFeedbackGenerationFailed, errorCode(t, rec))
}

func TestValidationErrors(t *testing.T) {
	s := newTestServer(t)
	id := s.newSession()
	base := "/api/sessions/" + id

	cases := []struct {
		name   string
		method string
		path   string
		body   interface{}
		status int
		code   string
	}{
		{"unknown session", http.MethodGet, "/api/sessions/nope", nil, http.StatusNotFound, CodeSessionNotFound},
		{"blank description", http.MethodPost, base + "/icp/generate", gin.H{"description": "  "}, http.StatusBadRequest, CodeEmptyInput},
		{"select before generate", http.MethodPost, base + "/icp/select", nil, http.StatusConflict, CodeNoResult},
		{"unknown view", http.MethodPut, base + "/view", gin.H{"view": "settings"}, http.StatusBadRequest, CodeUnknownField},
		{"missing view", http.MethodPut, base + "/view", gin.H{}, http.StatusBadRequest, CodeInvalidRequest},
		{"unknown list", http.MethodPost, base + "/creative/profile/hobbies", gin.H{"value": "x"}, http.StatusBadRequest, CodeUnknownField},
		{"remove out of range", http.MethodDelete, base + "/creative/profile/goals/3", nil, http.StatusBadRequest, CodeIndexOutOfRange},
		{"bad index", http.MethodDelete, base + "/creative/profile/goals/abc", nil, http.StatusBadRequest, CodeInvalidRequest},
		{"reorder missing to", http.MethodPost, base + "/creative/profile/goals/reorder", gin.H{"from": 0}, http.StatusBadRequest, CodeInvalidRequest},
		{"unknown asset", http.MethodPut, base + "/creative", gin.H{"assetType": "video"}, http.StatusBadRequest, CodeUnknownField},
		{"analyze blank", http.MethodPost, base + "/creative/analyze", gin.H{"content": ""}, http.StatusBadRequest, CodeEmptyInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := s.do(tc.method, tc.path, tc.body)
			assert.Equal(t, tc.status, rec.Code, rec.Body.String())
			assert.Equal(t, tc.code, errorCode(t, rec))
		})
	}
}

func TestContextEditorRoutes(t *testing.T) {
	s := newTestServer(t)
	base := "/api/sessions/" + s.newSession()

	for _, v := range []string{"Jira", "Slack", "Notion", "   "} {
		require.Equal(t, http.StatusOK, s.do(http.MethodPost, base+"/creative/profile/techStack", gin.H{"value": v}).Code)
	}
	rec := s.do(http.MethodPost, base+"/creative/profile/techStack/reorder", gin.H{"from": 2, "to": 0})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"Notion", "Jira", "Slack"}, decode[flow.CreativeState](t, rec).WorkingProfile.TechStack)

	rec = s.do(http.MethodDelete, base+"/creative/profile/techStack/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"Notion", "Slack"}, decode[flow.CreativeState](t, rec).WorkingProfile.TechStack)

	rec = s.do(http.MethodPatch, base+"/creative/profile", gin.H{"role": "CTO"})
	require.Equal(t, http.StatusOK, rec.Code)
	wp := decode[flow.CreativeState](t, rec).WorkingProfile
	assert.Equal(t, "CTO", wp.Role)
	assert.Equal(t, "", wp.CompanySize)

	rec = s.do(http.MethodPut, base+"/view", gin.H{"view": "crm"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, flow.ViewCRM, decode[flow.ShellState](t, rec).View)
}

func TestBoards(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Velocity Index")

	rec = s.do(http.MethodGet, "/api/leads", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var out struct {
		Columns []struct {
			Title string        `json:"title"`
			Leads []models.Lead `json:"leads"`
		} `json:"columns"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out.Columns, 4)
	assert.Equal(t, "Closed Won", out.Columns[3].Title)
}

func TestA2ARoutesMounted(t *testing.T) {
	s := newTestServer(t)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/.well-known/agent.json", nil).Code)

	rec := s.do(http.MethodPost, "/a2a/profiler", gin.H{
		"jsonrpc": "2.0", "id": "1", "method": "message/send",
		"params": gin.H{"message": gin.H{"parts": []gin.H{{"kind": "text", "text": "legal AI"}}}},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"state":"completed"`)
}
