package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/spigell/schememitra/internal/ai"
	"github.com/spigell/schememitra/internal/filtering"
	"github.com/spigell/schememitra/internal/schemes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type echoGenerator struct {
	prompts []string
}

func (g *echoGenerator) Provider() string { return "Echo" }

func (g *echoGenerator) Generate(_ context.Context, prompt string, _ int) (string, error) {
	g.prompts = append(g.prompts, prompt)
	return "You may be eligible.", nil
}

type fakeAnalyzer struct{}

func (fakeAnalyzer) Analyze(_ context.Context, text string) json.RawMessage {
	out, _ := json.Marshal(map[string]string{"echo": text})
	return out
}

func newTestServer(t *testing.T, gen ai.Generator) *Server {
	t.Helper()

	catalog, err := schemes.NewCatalog([]schemes.Scheme{
		{ID: "pm-kisan", Name: "PM-KISAN", Ministry: "Agriculture", Beneficiary: "Farmers", Benefit: "Rs 6000", Category: schemes.CategoryFarmers, Description: "Income support"},
		{ID: "mskendra", Name: "Mahila Shakti Kendra", Ministry: "Women and Child Development", Beneficiary: "Women", Benefit: "Support", Category: schemes.CategoryWomen, Description: "Empowering rural women"},
	})
	require.NoError(t, err)

	return New(catalog, ai.NewExplainer(gen, 0, zap.NewNop()), fakeAnalyzer{}, zap.NewNop())
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestListSchemes(t *testing.T) {
	s := newTestServer(t, nil)

	rec := do(t, s, http.MethodGet, "/api/v1/schemes?q=women&profile=women+entrepreneur", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))

	var resp listResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Found 1 scheme(s) matching your criteria", resp.Summary)
	require.Len(t, resp.Schemes, 1)
	assert.Equal(t, "mskendra", resp.Schemes[0].ID)
	assert.Equal(t, "👩‍💼", resp.Schemes[0].Icon)
	assert.Equal(t, 55, resp.Schemes[0].Score)
}

func TestListSchemesSentinels(t *testing.T) {
	s := newTestServer(t, nil)

	rec := do(t, s, http.MethodGet, "/api/v1/schemes?ministry=All+Ministries&beneficiary=All+Types&category=All+Categories", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp listResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, "General user", resp.Profile)
	assert.Equal(t, "pm-kisan", resp.Schemes[0].ID)
}

func TestGetScheme(t *testing.T) {
	s := newTestServer(t, nil)

	rec := do(t, s, http.MethodGet, "/api/v1/schemes/pm-kisan", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"PM-KISAN"`)

	rec = do(t, s, http.MethodGet, "/api/v1/schemes/unknown", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExplainScheme(t *testing.T) {
	gen := &echoGenerator{}
	s := newTestServer(t, gen)

	rec := do(t, s, http.MethodPost, "/api/v1/schemes/pm-kisan/explain", `{"age": 40, "category": "Farmers", "skills": "dairy farmer"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var result ai.MatchResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "You may be eligible.", result.Explanation)
	assert.Equal(t, 55, result.Score)

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "User Profile: 40 years old, Farmers category, skills: dairy farmer")
}

func TestExplainSchemeWithoutBodyUsesDefaultProfile(t *testing.T) {
	gen := &echoGenerator{}
	s := newTestServer(t, gen)

	rec := do(t, s, http.MethodPost, "/api/v1/schemes/mskendra/explain", "")
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "User Profile: General user")
}

func TestExplainSchemeNotConfigured(t *testing.T) {
	s := newTestServer(t, nil)

	rec := do(t, s, http.MethodPost, "/api/v1/schemes/pm-kisan/explain", `{"profile": "farmer"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var result ai.MatchResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, strings.HasPrefix(result.Explanation, ai.WarningMarker))
	assert.Equal(t, 55, result.Score)
}

func TestExplainUnknownScheme(t *testing.T) {
	rec := do(t, newTestServer(t, nil), http.MethodPost, "/api/v1/schemes/nope/explain", `{}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFilters(t *testing.T) {
	rec := do(t, newTestServer(t, nil), http.MethodGet, "/api/v1/filters", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var opts filtering.Options
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &opts))
	assert.Equal(t, []string{filtering.AllMinistries, "Agriculture", "Women and Child Development"}, opts.Ministries)
	assert.Equal(t, filtering.AllTypes, opts.Beneficiaries[0])
}

func TestAnalyze(t *testing.T) {
	s := newTestServer(t, nil)

	rec := do(t, s, http.MethodPost, "/api/v1/analyze", `{"text": "farmer in Punjab"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"echo": "farmer in Punjab"}`, rec.Body.String())

	rec = do(t, s, http.MethodPost, "/api/v1/analyze", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(t, nil), http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "ok", "schemes": 2}`, rec.Body.String())

	degraded := New(schemes.Empty(errors.New("file not found")), nil, nil, nil)
	rec = do(t, degraded, http.MethodGet, "/healthz", "")
	assert.Contains(t, rec.Body.String(), `"status":"degraded"`)
	assert.Contains(t, rec.Body.String(), "file not found")
}

func TestMetricsEndpoint(t *testing.T) {
	rec := do(t, newTestServer(t, nil), http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "schememitra_")
}

func TestRequestIDIsPreserved(t *testing.T) {
	s := newTestServer(t, nil)
	id := "3f1c2a3e-8d2b-4b8e-9a55-0f6d1f2f3a4b"

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, id)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, id, rec.Header().Get(requestIDHeader))
}
