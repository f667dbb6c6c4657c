package api

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/rpupo63/portfolio-backend/catalog"
	"github.com/rpupo63/portfolio-backend/models"
)

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	authHandler    authHandler
	catalogHandler catalogHandler
	projectHandler projectHandler
	healthHandler  healthHandler
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Error   string `json:"error" example:"invalid field"`
	Status  string `json:"status" example:"error"`
	Field   string `json:"field,omitempty" example:"title"`
	Details string `json:"details,omitempty" example:"Invalid field title: must not be empty"`
}

// SuccessResponse is returned by operations with nothing else to report
type SuccessResponse struct {
	Success bool `json:"success" example:"true"`
}

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Username string `json:"username" example:"admin"`
	Password string `json:"password" example:"secret"`
}

// LoginResponse carries the issued bearer token
type LoginResponse struct {
	Success   bool   `json:"success"`
	Token     string `json:"token"`
	ExpiresAt string `json:"expiresAt" example:"2026-01-02T15:04:05Z"`
}

// VerifyResponse reports whether the presented token is currently valid
type VerifyResponse struct {
	Valid bool `json:"valid"`
}

// DashboardResponse is the catalog plus the counters the admin dashboard shows
type DashboardResponse struct {
	models.Catalog
	TotalProjects    int                          `json:"totalProjects"`
	FeaturedProjects int                          `json:"featuredProjects"`
	TotalSkills      int                          `json:"totalSkills"`
	SkillsByCategory map[models.SkillCategory]int `json:"skillsByCategory"`
}

// ProjectRequest is the body of project create and update calls. Absent fields are nil.
type ProjectRequest struct {
	Title        *string           `json:"title"`
	Description  *string           `json:"description"`
	Technologies *technologiesField `json:"technologies"`
	DemoURL      *string           `json:"demoUrl"`
	SourceURL    *string           `json:"sourceUrl"`
	Featured     *bool             `json:"featured"`
}

func (p ProjectRequest) toProject() models.Project {
	return models.Project{}.Apply(p.toPatch())
}

func (p ProjectRequest) toPatch() models.ProjectPatch {
	patch := models.ProjectPatch{
		Title:       p.Title,
		Description: p.Description,
		DemoURL:     p.DemoURL,
		SourceURL:   p.SourceURL,
		Featured:    p.Featured,
	}
	if p.Technologies != nil {
		techs := []string(*p.Technologies)
		patch.Technologies = &techs
	}
	return patch
}

// SkillsRequest is the body of PUT /dashboard/skills
type SkillsRequest struct {
	Skills []models.Skill `json:"skills"`
}

// SkillsResponse echoes the stored skills
type SkillsResponse struct {
	Success bool           `json:"success"`
	Skills  []models.Skill `json:"skills"`
}

// LearningRequest is the body of PUT /dashboard/learning
type LearningRequest struct {
	CurrentlyLearning []string `json:"currentlyLearning"`
}

// LearningResponse echoes the stored learning list
type LearningResponse struct {
	Success           bool     `json:"success"`
	CurrentlyLearning []string `json:"currentlyLearning"`
}

// RefreshResponse reports the outcome of a GitHub import
type RefreshResponse struct {
	Success bool `json:"success"`
	catalog.ImportResult
}

// HealthResponse is returned by GET /healthz
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
	Uptime string `json:"uptime" example:"1h2m3s"`
}

var errTechnologiesShape = errors.New("technologies must be an array of strings or a comma-separated string")

// technologiesField accepts either ["Go","React"] or "Go, React"
type technologiesField []string

func (t *technologiesField) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = models.ParseTechnologies(s)
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return errTechnologiesShape
	}
	*t = models.NormalizeTechnologies(list)
	return nil
}
