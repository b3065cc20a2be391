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

// VotingController is the voter's booth: the ballot for their workspace and
// the single cast operation.
type VotingController struct {
	service *election.Service
}

func NewVotingController(service *election.Service) *VotingController {
	return &VotingController{service: service}
}

func (c *VotingController) RegisterRoutes(engine *gin.Engine) {
	group := engine.Group("/api",
		transport.SessionMiddleware(c.service.Sessions()), transport.RequireVoter())

	group.GET("/ballot", c.getBallot)
	group.POST("/vote", c.castVote)
}

// @Security SessionToken
// getBallot godoc
// @Summary The ballot for the voter's workspace
// @Tags voting
// @Produce json
// @Success 200 {object} models.BallotResponse
// @Router /api/ballot [get]
func (c *VotingController) getBallot(g *gin.Context) {
	session := transport.SessionFrom(g)
	ctx := g.Request.Context()
	ballot := models.TransformBallot(session.WorkspaceID,
		c.service.Positions(ctx, session.WorkspaceID),
		c.service.Candidates(ctx, session.WorkspaceID))
	g.JSON(http.StatusOK, ballot)
}

// @Security SessionToken
// castVote godoc
// @Summary Cast the voter's ballot
// @Description Commits the selections, marks the voter as having voted and terminates the session. An empty selection map is a recorded abstention.
// @Tags voting
// @Accept json
// @Produce json
// @Param request body models.CastVoteRequest true "Selections per position"
// @Success 200 {object} models.MessageResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse "Blocked, already voted, or election not in progress"
// @Router /api/vote [post]
func (c *VotingController) castVote(g *gin.Context) {
	var req models.CastVoteRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid request format"})
		return
	}

	session := transport.SessionFrom(g)
	err := c.service.CastVote(g.Request.Context(), session.WorkspaceID, session.Voter.ID, req.Selections)
	switch {
	case err == nil:
	case errors.Is(err, election.ErrUnknownPosition), errors.Is(err, election.ErrUnknownCandidate):
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: err.Error()})
		return
	case errors.Is(err, election.ErrAlreadyVoted),
		errors.Is(err, election.ErrAccountBlocked),
		errors.Is(err, election.ErrElectionNotActive):
		g.JSON(http.StatusForbidden, &models.ErrorResponse{Error: err.Error()})
		return
	default:
		logging.Log.Errorf("VOTING: failed to commit vote for %s: %v", session.Voter.ID, err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not record vote"})
		return
	}

	// The booth is single-use: a committed ballot ends the session.
	c.service.Sessions().Destroy(session.Token)
	logging.Log.Infof("VOTING: vote recorded for %s in workspace %s", session.Voter.ID, session.WorkspaceID)
	g.JSON(http.StatusOK, &models.MessageResponse{Message: "vote recorded"})
}
