package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rpupo63/portfolio-backend/catalog"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// refresher runs a GitHub import
type refresher interface {
	Refresh(ctx context.Context) (catalog.ImportResult, error)
}

type catalogHandler struct {
	responder Responder
	logger    zerolog.Logger
	store     *catalog.Store
	importer  refresher
}

func newCatalogHandler(store *catalog.Store, importer refresher) catalogHandler {
	logger := log.With().Str("handlerName", "catalogHandler").Logger()

	return catalogHandler{
		responder: NewResponder(logger),
		logger:    logger,
		store:     store,
		importer:  importer,
	}
}

// getPublicData returns everything the public site renders
// @Summary Get site data
// @Description Returns projects, skills, the learning list and the technology tags. Projects can be
// @Description narrowed by technology (case-insensitive, "all" disables the filter) and featured flag.
// @Tags Public
// @Produce json
// @Param technology query string false "Only projects using this technology"
// @Param featured query bool false "Only featured (true) or non-featured (false) projects"
// @Success 200 {object} models.Catalog
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid featured value"
// @Router /data [get]
func (h catalogHandler) getPublicData() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot := h.store.Snapshot()

		technology := strings.TrimSpace(r.URL.Query().Get("technology"))
		if technology != "" && !strings.EqualFold(technology, models.AllTechnologiesTag) {
			snapshot.Projects = filterProjects(snapshot.Projects, func(p models.Project) bool {
				for _, t := range p.Technologies {
					if strings.EqualFold(t, technology) {
						return true
					}
				}
				return false
			})
		}

		if raw := r.URL.Query().Get("featured"); raw != "" {
			featured, err := strconv.ParseBool(raw)
			if err != nil {
				h.responder.WriteError(w, errs.NewInvalidFieldError("featured", "must be true or false"))
				return
			}
			snapshot.Projects = filterProjects(snapshot.Projects, func(p models.Project) bool {
				return p.Featured == featured
			})
		}

		h.responder.WriteJSON(w, snapshot)
	}
}

func filterProjects(projects []models.Project, keep func(models.Project) bool) []models.Project {
	out := make([]models.Project, 0, len(projects))
	for _, p := range projects {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

// getDashboardData returns the catalog with dashboard counters
// @Summary Get dashboard data
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} DashboardResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /dashboard/data [get]
func (h catalogHandler) getDashboardData() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot := h.store.Snapshot()

		h.responder.WriteJSON(w, DashboardResponse{
			Catalog:          snapshot,
			TotalProjects:    len(snapshot.Projects),
			FeaturedProjects: snapshot.FeaturedCount(),
			TotalSkills:      len(snapshot.Skills),
			SkillsByCategory: models.CountByCategory(snapshot.Skills),
		})
	}
}

// replaceSkills swaps the whole skills list
// @Summary Replace skills
// @Description Every skill needs a name, a level between 0 and 100 and one of the known categories
// @Tags Dashboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param skills body SkillsRequest true "New skills list"
// @Success 200 {object} SkillsResponse
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid skill"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Internal Server Error"
// @Router /dashboard/skills [put]
func (h catalogHandler) replaceSkills() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SkillsRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if req.Skills == nil {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("skills"))
			return
		}

		for i, skill := range req.Skills {
			if err := validation.Validate(skill); err != nil {
				h.responder.WriteValidationError(w, fmt.Sprintf("skills[%d]", i), err)
				return
			}
		}

		if err := h.store.ReplaceSkills(r.Context(), req.Skills); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, SkillsResponse{Success: true, Skills: h.store.Snapshot().Skills})
	}
}

// replaceLearning swaps the currently-learning list
// @Summary Replace currently learning
// @Tags Dashboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param learning body LearningRequest true "New learning list"
// @Success 200 {object} LearningResponse
// @Failure 400 {object} ErrorResponse "Bad Request - Missing currentlyLearning"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /dashboard/learning [put]
func (h catalogHandler) replaceLearning() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LearningRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if req.CurrentlyLearning == nil {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("currentlyLearning"))
			return
		}

		if err := h.store.ReplaceCurrentlyLearning(r.Context(), req.CurrentlyLearning); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, LearningResponse{
			Success:           true,
			CurrentlyLearning: h.store.Snapshot().CurrentlyLearning,
		})
	}
}

// refreshGitHub imports the configured account's repositories
// @Summary Refresh from GitHub
// @Description Fetches every public repository and merges it into the projects. Curated fields of
// @Description existing projects are kept. On any upstream failure nothing is changed.
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} RefreshResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 429 {object} ErrorResponse "Rate limited by GitHub"
// @Failure 502 {object} ErrorResponse "GitHub returned an error"
// @Failure 503 {object} ErrorResponse "GitHub unreachable or import not configured"
// @Failure 504 {object} ErrorResponse "GitHub timed out"
// @Router /dashboard/refresh-github [post]
func (h catalogHandler) refreshGitHub() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.importer == nil {
			h.responder.WriteError(w, errs.NewApiErr(http.StatusServiceUnavailable, "GitHub import is not configured"))
			return
		}

		result, err := h.importer.Refresh(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, RefreshResponse{Success: true, ImportResult: result})
	}
}
