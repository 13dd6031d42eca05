package server

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/spigell/schememitra/internal/filtering"
	"github.com/spigell/schememitra/internal/matching"
	"github.com/spigell/schememitra/internal/schemes"
	"github.com/spigell/schememitra/internal/session"
)

type listQuery struct {
	filtering.Criteria
	Profile string `form:"profile"`
}

type schemeView struct {
	schemes.Scheme
	Icon  string `json:"icon"`
	Score int    `json:"score,omitempty"`
}

type listResponse struct {
	Summary string       `json:"summary"`
	Count   int          `json:"count"`
	Profile string       `json:"profile"`
	Schemes []schemeView `json:"schemes"`
}

type explainRequest struct {
	Profile  string `json:"profile"`
	Age      *int   `json:"age"`
	Category string `json:"category"`
	Skills   string `json:"skills"`
}

// profile prefers the free-text profile, then the structured fields, then the default.
func (r explainRequest) profile() string {
	if p := strings.TrimSpace(r.Profile); p != "" {
		return p
	}
	if r.Age != nil || strings.TrimSpace(r.Category) != "" || strings.TrimSpace(r.Skills) != "" {
		age := session.DefaultAge
		if r.Age != nil {
			age = *r.Age
		}
		return session.BuildProfile(age, r.Category, r.Skills)
	}
	return session.DefaultProfile
}

type analyzeRequest struct {
	Text string `json:"text" binding:"required"`
}

func errorBody(msg string) gin.H {
	return gin.H{"error": msg}
}

func (s *Server) health(c *gin.Context) {
	body := gin.H{"status": "ok", "schemes": s.catalog.Len()}
	if err := s.catalog.Err(); err != nil {
		body["status"] = "degraded"
		body["catalog_error"] = err.Error()
	}
	c.JSON(http.StatusOK, body)
}

func (s *Server) listSchemes(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	profile := strings.TrimSpace(q.Profile)
	if profile == "" {
		profile = session.DefaultProfile
	}

	found := filtering.Run(filtering.Steps(q.Criteria), s.catalog.Items(), s.logger)

	views := make([]schemeView, 0, len(found))
	for _, scored := range matching.ScoreAll(found, profile) {
		views = append(views, schemeView{
			Scheme: scored.Scheme,
			Icon:   scored.Scheme.Category.Icon(),
			Score:  scored.Score,
		})
	}

	c.JSON(http.StatusOK, listResponse{
		Summary: filtering.Summary(len(views)),
		Count:   len(views),
		Profile: profile,
		Schemes: views,
	})
}

func (s *Server) getScheme(c *gin.Context) {
	scheme, ok := s.catalog.FindByID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, errorBody("scheme not found"))
		return
	}
	c.JSON(http.StatusOK, schemeView{Scheme: scheme, Icon: scheme.Category.Icon()})
}

func (s *Server) explainScheme(c *gin.Context) {
	scheme, ok := s.catalog.FindByID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, errorBody("scheme not found"))
		return
	}

	var req explainRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	c.JSON(http.StatusOK, s.explainer.Explain(c.Request.Context(), scheme, req.profile()))
}

func (s *Server) filters(c *gin.Context) {
	c.JSON(http.StatusOK, filtering.OptionsFor(s.catalog))
}

func (s *Server) analyze(c *gin.Context) {
	if s.analyzer == nil {
		c.JSON(http.StatusOK, errorBody("Azure Text Analytics not configured"))
		return
	}

	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", s.analyzer.Analyze(c.Request.Context(), req.Text))
}
