package controllers

import (
	"errors"
	"net/http"

	"github.com/ballothub/election-backend/api/models"
	"github.com/ballothub/election-backend/election"
	"github.com/ballothub/election-backend/logging"
	"github.com/gin-gonic/gin"
)

// PublicController serves everything a client needs before anyone logs in:
// the workspace picker, the election snapshot, published results, voter id
// lookup and the theme preference.
type PublicController struct {
	service *election.Service
}

func NewPublicController(service *election.Service) *PublicController {
	return &PublicController{service: service}
}

func (c *PublicController) RegisterRoutes(engine *gin.Engine) {
	group := engine.Group("/api")

	group.GET("/workspaces", c.listWorkspaces)
	group.POST("/workspaces/:id/select", c.selectWorkspace)
	group.POST("/workspaces/deselect", c.deselectWorkspace)
	group.GET("/workspaces/last", c.lastWorkspace)
	group.GET("/election", c.electionState)
	group.GET("/results", c.publicResults)
	group.GET("/voter-lookup", c.voterLookup)
	group.GET("/theme", c.getTheme)
	group.PUT("/theme", c.setTheme)
}

// listWorkspaces godoc
// @Summary List workspaces available for selection
// @Tags public
// @Produce json
// @Success 200 {array} election.Workspace
// @Router /api/workspaces [get]
func (c *PublicController) listWorkspaces(g *gin.Context) {
	g.JSON(http.StatusOK, c.service.Workspaces(g.Request.Context()))
}

// selectWorkspace godoc
// @Summary Activate a workspace and persist the last-selected pointer
// @Tags public
// @Produce json
// @Param id path string true "Workspace ID"
// @Success 200 {object} election.Workspace
// @Failure 404 {object} models.ErrorResponse
// @Router /api/workspaces/{id}/select [post]
func (c *PublicController) selectWorkspace(g *gin.Context) {
	ws, err := c.service.SelectWorkspace(g.Request.Context(), g.Param("id"))
	if err != nil {
		g.JSON(http.StatusNotFound, &models.ErrorResponse{Error: err.Error()})
		return
	}
	g.JSON(http.StatusOK, ws)
}

// deselectWorkspace godoc
// @Summary Clear the active workspace selection
// @Tags public
// @Produce json
// @Success 200 {object} models.MessageResponse
// @Router /api/workspaces/deselect [post]
func (c *PublicController) deselectWorkspace(g *gin.Context) {
	if err := c.service.DeselectWorkspace(g.Request.Context()); err != nil {
		logging.Log.Errorf("WS: failed to deselect workspace: %v", err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not clear selection"})
		return
	}
	g.JSON(http.StatusOK, &models.MessageResponse{Message: "workspace deselected"})
}

// lastWorkspace godoc
// @Summary Resolve the last selected workspace
// @Tags public
// @Produce json
// @Success 200 {object} election.Workspace
// @Failure 404 {object} models.ErrorResponse
// @Router /api/workspaces/last [get]
func (c *PublicController) lastWorkspace(g *gin.Context) {
	ws := c.service.LastSelectedWorkspace(g.Request.Context())
	if ws == nil {
		g.JSON(http.StatusNotFound, &models.ErrorResponse{Error: "no workspace selected"})
		return
	}
	g.JSON(http.StatusOK, ws)
}

// electionState godoc
// @Summary Election status, end time and published flag for a workspace
// @Tags public
// @Produce json
// @Param workspace query string true "Workspace ID"
// @Success 200 {object} election.ElectionState
// @Failure 400 {object} models.ErrorResponse
// @Router /api/election [get]
func (c *PublicController) electionState(g *gin.Context) {
	wsID := g.Query("workspace")
	if wsID == "" {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "workspace is required"})
		return
	}
	g.JSON(http.StatusOK, c.service.ElectionState(g.Request.Context(), wsID))
}

// publicResults godoc
// @Summary Final results, available once the election ended and results were published
// @Tags public
// @Produce json
// @Param workspace query string true "Workspace ID"
// @Success 200 {array} election.PositionResult
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse "Results not visible yet"
// @Router /api/results [get]
func (c *PublicController) publicResults(g *gin.Context) {
	wsID := g.Query("workspace")
	if wsID == "" {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "workspace is required"})
		return
	}

	results, err := c.service.PublicResults(g.Request.Context(), wsID)
	if err != nil {
		if errors.Is(err, election.ErrResultsNotVisible) {
			g.JSON(http.StatusForbidden, &models.ErrorResponse{Error: err.Error()})
			return
		}
		logging.Log.Errorf("RESULTS: failed to compute results: %v", err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not compute results"})
		return
	}
	g.JSON(http.StatusOK, results)
}

// voterLookup godoc
// @Summary Find a voter id by name
// @Description Lets a voter who forgot their login id recover it by (partial) name match
// @Tags public
// @Produce json
// @Param workspace query string true "Workspace ID"
// @Param name query string true "Voter name"
// @Success 200 {array} models.VoterLookupResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /api/voter-lookup [get]
func (c *PublicController) voterLookup(g *gin.Context) {
	wsID := g.Query("workspace")
	name := g.Query("name")
	if wsID == "" || name == "" {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "workspace and name are required"})
		return
	}

	matches := c.service.LookupVoters(g.Request.Context(), wsID, name)
	g.JSON(http.StatusOK, models.TransformVoterLookup(matches))
}

// getTheme godoc
// @Summary Read the persisted theme preference
// @Tags public
// @Produce json
// @Success 200 {object} models.ThemeResponse
// @Router /api/theme [get]
func (c *PublicController) getTheme(g *gin.Context) {
	g.JSON(http.StatusOK, &models.ThemeResponse{Theme: c.service.Theme(g.Request.Context())})
}

// setTheme godoc
// @Summary Persist the theme preference
// @Tags public
// @Accept json
// @Produce json
// @Param request body models.ThemeRequest true "Theme"
// @Success 200 {object} models.ThemeResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /api/theme [put]
func (c *PublicController) setTheme(g *gin.Context) {
	var req models.ThemeRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "theme must be light or dark"})
		return
	}
	if err := c.service.SetTheme(g.Request.Context(), req.Theme); err != nil {
		logging.Log.Errorf("THEME: failed to persist preference: %v", err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not save theme"})
		return
	}
	g.JSON(http.StatusOK, &models.ThemeResponse{Theme: req.Theme})
}
