package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ballothub/election-backend/api/models"
	"github.com/ballothub/election-backend/api/transport"
	"github.com/ballothub/election-backend/election"
	"github.com/ballothub/election-backend/logging"
	"github.com/gin-gonic/gin"
)

// AdminController manages one workspace's election: the roster of positions,
// candidates and voters, the lifecycle transitions, the audit trail and the
// admin profile. Routes admit the workspace admin, or a super admin that
// entered the workspace.
type AdminController struct {
	service *election.Service
}

func NewAdminController(service *election.Service) *AdminController {
	return &AdminController{service: service}
}

func (c *AdminController) RegisterRoutes(engine *gin.Engine) {
	group := engine.Group("/api/admin",
		transport.SessionMiddleware(c.service.Sessions()), transport.RequireAdmin())

	group.GET("/positions", c.listPositions)
	group.POST("/positions", c.createPosition)
	group.DELETE("/positions/:id", c.deletePosition)
	group.GET("/candidates", c.listCandidates)
	group.POST("/candidates", c.createCandidate)
	group.DELETE("/candidates/:id", c.deleteCandidate)
	group.GET("/voters", c.listVoters)
	group.POST("/voters", c.createVoter)
	group.DELETE("/voters/:id", c.deleteVoter)
	group.PUT("/voters/:id/blocked", c.setVoterBlocked)
	group.GET("/votes", c.listVotes)
	group.GET("/results", c.results)
	group.GET("/audit", c.auditLog)
	group.POST("/election/start", c.startElection)
	group.POST("/election/end", c.endElection)
	group.POST("/election/reset", c.resetElection)
	group.PUT("/election/results-published", c.setResultsPublished)
	group.GET("/profile", c.getProfile)
	group.PUT("/profile", c.updateProfile)
}

func adminScope(g *gin.Context) (*election.Session, string, election.Actor) {
	session := transport.SessionFrom(g)
	return session, session.WorkspaceID, session.Actor()
}

// @Security SessionToken
// listPositions godoc
// @Summary List the workspace's positions
// @Tags admin
// @Produce json
// @Success 200 {array} election.Position
// @Router /api/admin/positions [get]
func (c *AdminController) listPositions(g *gin.Context) {
	_, wsID, _ := adminScope(g)
	g.JSON(http.StatusOK, c.service.Positions(g.Request.Context(), wsID))
}

// @Security SessionToken
// createPosition godoc
// @Summary Add a position
// @Tags admin
// @Accept json
// @Produce json
// @Param request body models.CreatePositionRequest true "Position"
// @Success 200 {object} election.Position
// @Failure 400 {object} models.ErrorResponse
// @Router /api/admin/positions [post]
func (c *AdminController) createPosition(g *gin.Context) {
	var req models.CreatePositionRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid request, missing name"})
		return
	}

	_, wsID, actor := adminScope(g)
	position, err := c.service.AddPosition(g.Request.Context(), wsID, req.Name, actor)
	if err != nil {
		logging.Log.Errorf("ADMIN: failed to add position: %v", err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not save position"})
		return
	}
	logging.Log.Infof("ADMIN: added position %s to workspace %s", req.Name, wsID)
	g.JSON(http.StatusOK, position)
}

// @Security SessionToken
// deletePosition godoc
// @Summary Remove a position and its candidates
// @Tags admin
// @Produce json
// @Param id path int true "Position ID"
// @Success 200 {object} models.MessageResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/admin/positions/{id} [delete]
func (c *AdminController) deletePosition(g *gin.Context) {
	id, err := strconv.Atoi(g.Param("id"))
	if err != nil {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid position id"})
		return
	}

	_, wsID, actor := adminScope(g)
	if err := c.service.RemovePosition(g.Request.Context(), wsID, id, actor); err != nil {
		if errors.Is(err, election.ErrUnknownPosition) {
			g.JSON(http.StatusNotFound, &models.ErrorResponse{Error: err.Error()})
			return
		}
		logging.Log.Errorf("ADMIN: failed to remove position %d: %v", id, err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not remove position"})
		return
	}
	g.JSON(http.StatusOK, &models.MessageResponse{Message: "position removed"})
}

// @Security SessionToken
// listCandidates godoc
// @Summary List the workspace's candidates
// @Tags admin
// @Produce json
// @Success 200 {array} election.Candidate
// @Router /api/admin/candidates [get]
func (c *AdminController) listCandidates(g *gin.Context) {
	_, wsID, _ := adminScope(g)
	g.JSON(http.StatusOK, c.service.Candidates(g.Request.Context(), wsID))
}

// @Security SessionToken
// createCandidate godoc
// @Summary Add a candidate to a position
// @Tags admin
// @Accept json
// @Produce json
// @Param request body models.CreateCandidateRequest true "Candidate"
// @Success 200 {object} election.Candidate
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse "Position does not exist"
// @Router /api/admin/candidates [post]
func (c *AdminController) createCandidate(g *gin.Context) {
	var req models.CreateCandidateRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid request, missing position or name"})
		return
	}

	_, wsID, actor := adminScope(g)
	candidate, err := c.service.AddCandidate(g.Request.Context(), wsID, req.PositionID, req.Name, req.ImageURL, actor)
	if err != nil {
		if errors.Is(err, election.ErrUnknownPosition) {
			g.JSON(http.StatusNotFound, &models.ErrorResponse{Error: err.Error()})
			return
		}
		logging.Log.Errorf("ADMIN: failed to add candidate: %v", err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not save candidate"})
		return
	}
	g.JSON(http.StatusOK, candidate)
}

// @Security SessionToken
// deleteCandidate godoc
// @Summary Remove a candidate
// @Tags admin
// @Produce json
// @Param id path int true "Candidate ID"
// @Success 200 {object} models.MessageResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/admin/candidates/{id} [delete]
func (c *AdminController) deleteCandidate(g *gin.Context) {
	id, err := strconv.Atoi(g.Param("id"))
	if err != nil {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid candidate id"})
		return
	}

	_, wsID, actor := adminScope(g)
	if err := c.service.RemoveCandidate(g.Request.Context(), wsID, id, actor); err != nil {
		if errors.Is(err, election.ErrUnknownCandidate) {
			g.JSON(http.StatusNotFound, &models.ErrorResponse{Error: err.Error()})
			return
		}
		logging.Log.Errorf("ADMIN: failed to remove candidate %d: %v", id, err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not remove candidate"})
		return
	}
	g.JSON(http.StatusOK, &models.MessageResponse{Message: "candidate removed"})
}

// @Security SessionToken
// listVoters godoc
// @Summary List the workspace's voters
// @Tags admin
// @Produce json
// @Success 200 {array} models.VoterResponse
// @Router /api/admin/voters [get]
func (c *AdminController) listVoters(g *gin.Context) {
	_, wsID, _ := adminScope(g)
	g.JSON(http.StatusOK, models.TransformVoters(c.service.Voters(g.Request.Context(), wsID)))
}

// @Security SessionToken
// createVoter godoc
// @Summary Register a voter
// @Tags admin
// @Accept json
// @Produce json
// @Param request body models.CreateVoterRequest true "Voter"
// @Success 200 {object} models.VoterResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse "Voter id already exists"
// @Router /api/admin/voters [post]
func (c *AdminController) createVoter(g *gin.Context) {
	var req models.CreateVoterRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid request, missing id, name or password"})
		return
	}

	_, wsID, actor := adminScope(g)
	voter, err := c.service.AddVoter(g.Request.Context(), wsID, req.ID, req.Name, req.Password, actor)
	if err != nil {
		if errors.Is(err, election.ErrDuplicateID) {
			g.JSON(http.StatusConflict, &models.ErrorResponse{Error: err.Error()})
			return
		}
		logging.Log.Errorf("ADMIN: failed to register voter: %v", err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not save voter"})
		return
	}
	g.JSON(http.StatusOK, models.TransformVoter(voter))
}

// @Security SessionToken
// deleteVoter godoc
// @Summary Remove a voter
// @Tags admin
// @Produce json
// @Param id path string true "Voter ID"
// @Success 200 {object} models.MessageResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/admin/voters/{id} [delete]
func (c *AdminController) deleteVoter(g *gin.Context) {
	_, wsID, actor := adminScope(g)
	if err := c.service.RemoveVoter(g.Request.Context(), wsID, g.Param("id"), actor); err != nil {
		if errors.Is(err, election.ErrVoterNotFound) {
			g.JSON(http.StatusNotFound, &models.ErrorResponse{Error: err.Error()})
			return
		}
		logging.Log.Errorf("ADMIN: failed to remove voter %s: %v", g.Param("id"), err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not remove voter"})
		return
	}
	g.JSON(http.StatusOK, &models.MessageResponse{Message: "voter removed"})
}

// @Security SessionToken
// setVoterBlocked godoc
// @Summary Block or unblock a voter
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Voter ID"
// @Param request body models.SetBlockedRequest true "Blocked flag"
// @Success 200 {object} models.MessageResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/admin/voters/{id}/blocked [put]
func (c *AdminController) setVoterBlocked(g *gin.Context) {
	var req models.SetBlockedRequest
	if err := g.ShouldBindJSON(&req); err != nil || req.Blocked == nil {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid request, missing blocked flag"})
		return
	}

	_, wsID, actor := adminScope(g)
	if err := c.service.SetVoterBlocked(g.Request.Context(), wsID, g.Param("id"), *req.Blocked, actor); err != nil {
		if errors.Is(err, election.ErrVoterNotFound) {
			g.JSON(http.StatusNotFound, &models.ErrorResponse{Error: err.Error()})
			return
		}
		logging.Log.Errorf("ADMIN: failed to update blocked flag for %s: %v", g.Param("id"), err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not update voter"})
		return
	}
	g.JSON(http.StatusOK, &models.MessageResponse{Message: "voter updated"})
}

// @Security SessionToken
// listVotes godoc
// @Summary List the raw vote records
// @Tags admin
// @Produce json
// @Success 200 {array} election.Vote
// @Router /api/admin/votes [get]
func (c *AdminController) listVotes(g *gin.Context) {
	_, wsID, _ := adminScope(g)
	g.JSON(http.StatusOK, c.service.Votes(g.Request.Context(), wsID))
}

// @Security SessionToken
// results godoc
// @Summary Live tally, visible to admins in any phase
// @Tags admin
// @Produce json
// @Success 200 {array} election.PositionResult
// @Router /api/admin/results [get]
func (c *AdminController) results(g *gin.Context) {
	_, wsID, _ := adminScope(g)
	g.JSON(http.StatusOK, c.service.Results(g.Request.Context(), wsID))
}

// @Security SessionToken
// auditLog godoc
// @Summary The workspace's audit trail, newest first
// @Tags admin
// @Produce json
// @Success 200 {array} election.AuditEntry
// @Router /api/admin/audit [get]
func (c *AdminController) auditLog(g *gin.Context) {
	_, wsID, _ := adminScope(g)
	log := c.service.AuditLog(g.Request.Context(), wsID)
	logging.Log.Infof("ADMIN: listed %d audit entries for workspace %s", len(log), wsID)
	g.JSON(http.StatusOK, log)
}

// @Security SessionToken
// startElection godoc
// @Summary Start the election (no-op when already in progress)
// @Tags admin
// @Produce json
// @Success 200 {object} election.ElectionState
// @Router /api/admin/election/start [post]
func (c *AdminController) startElection(g *gin.Context) {
	_, wsID, actor := adminScope(g)
	if err := c.service.Start(g.Request.Context(), wsID, actor); err != nil {
		logging.Log.Errorf("ADMIN: failed to start election: %v", err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not start election"})
		return
	}
	g.JSON(http.StatusOK, c.service.ElectionState(g.Request.Context(), wsID))
}

// @Security SessionToken
// endElection godoc
// @Summary End the election
// @Tags admin
// @Produce json
// @Success 200 {object} election.ElectionState
// @Router /api/admin/election/end [post]
func (c *AdminController) endElection(g *gin.Context) {
	_, wsID, actor := adminScope(g)
	if err := c.service.End(g.Request.Context(), wsID, actor); err != nil {
		logging.Log.Errorf("ADMIN: failed to end election: %v", err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not end election"})
		return
	}
	g.JSON(http.StatusOK, c.service.ElectionState(g.Request.Context(), wsID))
}

// @Security SessionToken
// resetElection godoc
// @Summary Wipe the entire workspace election
// @Description Clears positions, candidates, voters, votes and the audit log; the reset entry opens the fresh log
// @Tags admin
// @Produce json
// @Success 200 {object} models.MessageResponse
// @Router /api/admin/election/reset [post]
func (c *AdminController) resetElection(g *gin.Context) {
	_, wsID, actor := adminScope(g)
	if err := c.service.Reset(g.Request.Context(), wsID, actor); err != nil {
		logging.Log.Errorf("ADMIN: failed to reset election: %v", err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not reset election"})
		return
	}
	g.JSON(http.StatusOK, &models.MessageResponse{Message: "election reset"})
}

// @Security SessionToken
// setResultsPublished godoc
// @Summary Publish or hide the final results
// @Tags admin
// @Accept json
// @Produce json
// @Param request body models.ResultsPublishedRequest true "Published flag"
// @Success 200 {object} election.ElectionState
// @Failure 400 {object} models.ErrorResponse
// @Router /api/admin/election/results-published [put]
func (c *AdminController) setResultsPublished(g *gin.Context) {
	var req models.ResultsPublishedRequest
	if err := g.ShouldBindJSON(&req); err != nil || req.Published == nil {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid request, missing published flag"})
		return
	}

	_, wsID, actor := adminScope(g)
	if err := c.service.SetResultsPublished(g.Request.Context(), wsID, *req.Published, actor); err != nil {
		logging.Log.Errorf("ADMIN: failed to update results flag: %v", err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not update results flag"})
		return
	}
	g.JSON(http.StatusOK, c.service.ElectionState(g.Request.Context(), wsID))
}

// @Security SessionToken
// getProfile godoc
// @Summary The workspace admin profile
// @Tags admin
// @Produce json
// @Success 200 {object} models.AdminProfileResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/admin/profile [get]
func (c *AdminController) getProfile(g *gin.Context) {
	_, wsID, _ := adminScope(g)
	profile, err := c.service.WorkspaceAdminProfile(g.Request.Context(), wsID)
	if err != nil || profile == nil {
		g.JSON(http.StatusNotFound, &models.ErrorResponse{Error: "no admin profile provisioned"})
		return
	}
	g.JSON(http.StatusOK, models.TransformAdminProfile(*profile))
}

// @Security SessionToken
// updateProfile godoc
// @Summary Update the workspace admin profile
// @Tags admin
// @Accept json
// @Produce json
// @Param request body models.AdminProfileRequest true "Profile"
// @Success 200 {object} models.AdminProfileResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /api/admin/profile [put]
func (c *AdminController) updateProfile(g *gin.Context) {
	var req models.AdminProfileRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid request format"})
		return
	}

	_, wsID, actor := adminScope(g)
	profile := election.AdminProfile{
		ID:       req.ID,
		Name:     req.Name,
		Password: req.Password,
		ImageURL: req.ImageURL,
		Contact:  req.Contact,
	}
	if err := c.service.SetWorkspaceAdminProfile(g.Request.Context(), wsID, profile, actor); err != nil {
		logging.Log.Errorf("ADMIN: failed to update profile: %v", err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not update profile"})
		return
	}
	g.JSON(http.StatusOK, models.TransformAdminProfile(profile))
}
