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

// SuperAdminController owns the cross-workspace surface: the workspace
// registry, entering a workspace without admin credentials, rolling a
// workspace over to a new election, and the platform account itself.
type SuperAdminController struct {
	service *election.Service
}

func NewSuperAdminController(service *election.Service) *SuperAdminController {
	return &SuperAdminController{service: service}
}

func (c *SuperAdminController) RegisterRoutes(engine *gin.Engine) {
	group := engine.Group("/api/superadmin",
		transport.SessionMiddleware(c.service.Sessions()), transport.RequireSuperAdmin())

	group.GET("/workspaces", c.listWorkspaces)
	group.POST("/workspaces", c.createWorkspace)
	group.DELETE("/workspaces/:id", c.deleteWorkspace)
	group.POST("/workspaces/:id/enter", c.enterWorkspace)
	group.POST("/workspaces/:id/new-election", c.newElection)
	group.GET("/workspaces/:id/admin-profile", c.getWorkspaceAdminProfile)
	group.PUT("/workspaces/:id/admin-profile", c.setWorkspaceAdminProfile)
	group.GET("/profile", c.getProfile)
	group.PUT("/profile", c.updateProfile)
}

// @Security SessionToken
// listWorkspaces godoc
// @Summary All workspaces with roster counts and election phase
// @Tags superadmin
// @Produce json
// @Success 200 {array} election.WorkspaceOverview
// @Router /api/superadmin/workspaces [get]
func (c *SuperAdminController) listWorkspaces(g *gin.Context) {
	g.JSON(http.StatusOK, c.service.WorkspaceOverviews(g.Request.Context()))
}

// @Security SessionToken
// createWorkspace godoc
// @Summary Create a workspace
// @Tags superadmin
// @Accept json
// @Produce json
// @Param request body models.CreateWorkspaceRequest true "Workspace"
// @Success 200 {object} election.Workspace
// @Failure 400 {object} models.ErrorResponse
// @Router /api/superadmin/workspaces [post]
func (c *SuperAdminController) createWorkspace(g *gin.Context) {
	var req models.CreateWorkspaceRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid request, missing name"})
		return
	}

	session := transport.SessionFrom(g)
	workspace, err := c.service.CreateWorkspace(g.Request.Context(), req.Name, session.Actor())
	if err != nil {
		logging.Log.Errorf("SUPERADMIN: failed to create workspace: %v", err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not create workspace"})
		return
	}
	logging.Log.Infof("SUPERADMIN: created workspace %s (%s)", workspace.Name, workspace.ID)
	g.JSON(http.StatusOK, workspace)
}

// @Security SessionToken
// deleteWorkspace godoc
// @Summary Delete a workspace and all its election data
// @Tags superadmin
// @Produce json
// @Param id path string true "Workspace ID"
// @Success 200 {object} models.MessageResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/superadmin/workspaces/{id} [delete]
func (c *SuperAdminController) deleteWorkspace(g *gin.Context) {
	session := transport.SessionFrom(g)
	wsID := g.Param("id")
	if err := c.service.DeleteWorkspace(g.Request.Context(), wsID, session.Actor(), session.WorkspaceID); err != nil {
		if errors.Is(err, election.ErrWorkspaceNotFound) {
			g.JSON(http.StatusNotFound, &models.ErrorResponse{Error: err.Error()})
			return
		}
		logging.Log.Errorf("SUPERADMIN: failed to delete workspace %s: %v", wsID, err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not delete workspace"})
		return
	}
	g.JSON(http.StatusOK, &models.MessageResponse{Message: "workspace deleted"})
}

// @Security SessionToken
// enterWorkspace godoc
// @Summary Enter a workspace with full admin access, no credentials required
// @Tags superadmin
// @Produce json
// @Param id path string true "Workspace ID"
// @Success 200 {object} models.LoginResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/superadmin/workspaces/{id}/enter [post]
func (c *SuperAdminController) enterWorkspace(g *gin.Context) {
	session := transport.SessionFrom(g)
	entered, err := c.service.EnterWorkspace(g.Request.Context(), session, g.Param("id"))
	if err != nil {
		g.JSON(http.StatusNotFound, &models.ErrorResponse{Error: err.Error()})
		return
	}

	resp := &models.LoginResponse{
		Token:       entered.Token,
		Role:        string(entered.Role),
		WorkspaceID: entered.WorkspaceID,
	}
	if entered.EnteredAdmin != nil {
		resp.Name = entered.EnteredAdmin.Name
	}
	logging.Log.Infof("SUPERADMIN: entered workspace %s", entered.WorkspaceID)
	g.JSON(http.StatusOK, resp)
}

// @Security SessionToken
// newElection godoc
// @Summary Roll a workspace over to a fresh election
// @Description Clears votes and turnout latches but keeps positions, candidates, voters and the audit history
// @Tags superadmin
// @Produce json
// @Param id path string true "Workspace ID"
// @Success 200 {object} models.MessageResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/superadmin/workspaces/{id}/new-election [post]
func (c *SuperAdminController) newElection(g *gin.Context) {
	session := transport.SessionFrom(g)
	wsID := g.Param("id")
	if _, err := c.service.FindWorkspace(g.Request.Context(), wsID); err != nil {
		g.JSON(http.StatusNotFound, &models.ErrorResponse{Error: err.Error()})
		return
	}
	if err := c.service.EnableNewElection(g.Request.Context(), wsID, session.Actor()); err != nil {
		logging.Log.Errorf("SUPERADMIN: failed to enable new election for %s: %v", wsID, err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not enable new election"})
		return
	}
	g.JSON(http.StatusOK, &models.MessageResponse{Message: "new election enabled"})
}

// @Security SessionToken
// getWorkspaceAdminProfile godoc
// @Summary A workspace's admin profile
// @Tags superadmin
// @Produce json
// @Param id path string true "Workspace ID"
// @Success 200 {object} models.AdminProfileResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/superadmin/workspaces/{id}/admin-profile [get]
func (c *SuperAdminController) getWorkspaceAdminProfile(g *gin.Context) {
	profile, err := c.service.WorkspaceAdminProfile(g.Request.Context(), g.Param("id"))
	if err != nil || profile == nil {
		g.JSON(http.StatusNotFound, &models.ErrorResponse{Error: "no admin profile provisioned"})
		return
	}
	g.JSON(http.StatusOK, models.TransformAdminProfile(*profile))
}

// @Security SessionToken
// setWorkspaceAdminProfile godoc
// @Summary Provision or replace a workspace's admin profile
// @Tags superadmin
// @Accept json
// @Produce json
// @Param id path string true "Workspace ID"
// @Param request body models.AdminProfileRequest true "Profile"
// @Success 200 {object} models.AdminProfileResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /api/superadmin/workspaces/{id}/admin-profile [put]
func (c *SuperAdminController) setWorkspaceAdminProfile(g *gin.Context) {
	var req models.AdminProfileRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid request format"})
		return
	}

	session := transport.SessionFrom(g)
	profile := election.AdminProfile{
		ID:       req.ID,
		Name:     req.Name,
		Password: req.Password,
		ImageURL: req.ImageURL,
		Contact:  req.Contact,
	}
	if err := c.service.SetWorkspaceAdminProfile(g.Request.Context(), g.Param("id"), profile, session.Actor()); err != nil {
		logging.Log.Errorf("SUPERADMIN: failed to set admin profile for %s: %v", g.Param("id"), err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not update profile"})
		return
	}
	g.JSON(http.StatusOK, models.TransformAdminProfile(profile))
}

// @Security SessionToken
// getProfile godoc
// @Summary The platform super admin profile
// @Tags superadmin
// @Produce json
// @Success 200 {object} models.AdminProfileResponse
// @Router /api/superadmin/profile [get]
func (c *SuperAdminController) getProfile(g *gin.Context) {
	profile := c.service.SuperAdminProfile(g.Request.Context())
	g.JSON(http.StatusOK, models.TransformAdminProfile(profile))
}

// @Security SessionToken
// updateProfile godoc
// @Summary Update the platform super admin profile
// @Tags superadmin
// @Accept json
// @Produce json
// @Param request body models.AdminProfileRequest true "Profile"
// @Success 200 {object} models.AdminProfileResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /api/superadmin/profile [put]
func (c *SuperAdminController) updateProfile(g *gin.Context) {
	var req models.AdminProfileRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid request format"})
		return
	}

	profile := election.AdminProfile{
		ID:       req.ID,
		Name:     req.Name,
		Password: req.Password,
		ImageURL: req.ImageURL,
		Contact:  req.Contact,
	}
	if err := c.service.UpdateSuperAdminProfile(g.Request.Context(), profile); err != nil {
		logging.Log.Errorf("SUPERADMIN: failed to update profile: %v", err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not update profile"})
		return
	}
	g.JSON(http.StatusOK, models.TransformAdminProfile(profile))
}
