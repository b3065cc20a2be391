package controllers

import (
	"errors"
	"net/http"

	"github.com/ballothub/election-backend/api/models"
	"github.com/ballothub/election-backend/api/transport"
	"github.com/ballothub/election-backend/election"
	"github.com/ballothub/election-backend/logging"
	"github.com/gin-gonic/gin"
)

type AuthController struct {
	service *election.Service
}

func NewAuthController(service *election.Service) *AuthController {
	return &AuthController{service: service}
}

func (c *AuthController) RegisterRoutes(engine *gin.Engine) {
	group := engine.Group("/api/auth")

	group.POST("/login", c.login)
	group.POST("/logout", transport.SessionMiddleware(c.service.Sessions()), c.logout)
}

// login godoc
// @Summary Authenticate as super admin, workspace admin or voter
// @Description Resolves the login id against the super admin, the workspace admin and the voter roll, in that order
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login Request"
// @Success 200 {object} models.LoginResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse "Credentials rejected"
// @Router /api/auth/login [post]
func (c *AuthController) login(g *gin.Context) {
	var req models.LoginRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid request format"})
		return
	}

	session, err := c.service.Resolve(g.Request.Context(), req.WorkspaceID, req.LoginID, req.Password)
	if err != nil {
		if errors.Is(err, election.ErrWorkspaceNotFound) {
			g.JSON(http.StatusNotFound, &models.ErrorResponse{Error: err.Error()})
			return
		}
		// Login failures are displayable messages, not faults.
		g.JSON(http.StatusUnauthorized, &models.ErrorResponse{Error: err.Error()})
		return
	}

	response := models.LoginResponse{
		Token:       session.Token,
		Role:        string(session.Role),
		WorkspaceID: session.WorkspaceID,
		Name:        session.Actor().Name,
	}
	g.JSON(http.StatusOK, response)
}

// logout godoc
// @Summary End the current session
// @Description Destroys the session; with full=true the persisted workspace selection is cleared as well
// @Tags auth
// @Produce json
// @Param full query bool false "Also clear the workspace selection"
// @Success 200 {object} models.MessageResponse
// @Router /api/auth/logout [post]
func (c *AuthController) logout(g *gin.Context) {
	session := transport.SessionFrom(g)
	c.service.Sessions().Destroy(session.Token)

	if g.Query("full") == "true" {
		if err := c.service.DeselectWorkspace(g.Request.Context()); err != nil {
			logging.Log.Errorf("AUTH: failed to clear workspace selection: %v", err)
		}
	}

	logging.Log.Infof("AUTH: session for %s ended", session.Actor().ID)
	g.JSON(http.StatusOK, &models.MessageResponse{Message: "logged out"})
}
