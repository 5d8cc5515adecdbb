package server

import (
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	projectdomain "github.com/openclub/clubhub/internal/project/domain"
)

type createProjectMembershipRequest struct {
	UserID    snowflake.ID `json:"user_id"`
	ClubID    snowflake.ID `json:"club_id"`
	ProjectID snowflake.ID `json:"project_id"`
}

func (s *Server) CreateProjectMembership(c *gin.Context) {
	var req createProjectMembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	membership, err := s.projectSvc.CreateMembership(c.Request.Context(), actorOf(c), projectdomain.CreateMembershipRequest{
		UserID:    req.UserID,
		ClubID:    req.ClubID,
		ProjectID: req.ProjectID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": membership})
}

func (s *Server) GetProjectMembership(c *gin.Context) {
	id, err := parsePathID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	membership, err := s.projectSvc.GetMembership(c.Request.Context(), actorOf(c), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": membership})
}

func (s *Server) DeleteProjectMembership(c *gin.Context) {
	id, err := parsePathID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.projectSvc.DeleteMembership(c.Request.Context(), actorOf(c), id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) ListProjectMemberships(c *gin.Context) {
	var query struct {
		ClubID    string `form:"club_id"`
		ProjectID string `form:"project_id"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	clubID, err := parseOptionalID(query.ClubID)
	if err != nil {
		AbortWithError(c, newValidationError("club_id", "invalid_club_id", "invalid club_id"))
		return
	}
	projectID, err := parseOptionalID(query.ProjectID)
	if err != nil {
		AbortWithError(c, newValidationError("project_id", "invalid_project_id", "invalid project_id"))
		return
	}

	memberships, err := s.projectSvc.ListMemberships(c.Request.Context(), actorOf(c), projectdomain.ListMembershipsOptions{
		ClubID:    clubID,
		ProjectID: projectID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": memberships})
}
