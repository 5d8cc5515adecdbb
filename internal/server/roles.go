package server

import (
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	clubdomain "github.com/openclub/clubhub/internal/club/domain"
)

type createRoleRequest struct {
	ClubID      snowflake.ID        `json:"club_id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Privilege   clubdomain.Privilege `json:"privilege"`
}

func (s *Server) CreateRole(c *gin.Context) {
	var req createRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if req.Privilege == "" {
		req.Privilege = clubdomain.PrivilegeMem
	}

	role, err := s.clubSvc.CreateRole(c.Request.Context(), actorOf(c), clubdomain.CreateRoleRequest{
		ClubID:      req.ClubID,
		Name:        req.Name,
		Description: req.Description,
		Privilege:   req.Privilege,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": role})
}

func (s *Server) GetRole(c *gin.Context) {
	id, err := parsePathID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	role, err := s.clubSvc.GetRole(c.Request.Context(), actorOf(c), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": role})
}

type updateRoleRequest struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Privilege   clubdomain.Privilege `json:"privilege"`
}

func (s *Server) UpdateRole(c *gin.Context) {
	id, err := parsePathID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req updateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	role, err := s.clubSvc.UpdateRole(c.Request.Context(), actorOf(c), id, clubdomain.UpdateRoleRequest{
		Name:        req.Name,
		Description: req.Description,
		Privilege:   req.Privilege,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": role})
}

func (s *Server) DeleteRole(c *gin.Context) {
	id, err := parsePathID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.clubSvc.DeleteRole(c.Request.Context(), actorOf(c), id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) ListRoles(c *gin.Context) {
	var query struct {
		ClubID string `form:"club_id"`
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

	roles, err := s.clubSvc.ListRoles(c.Request.Context(), actorOf(c), clubdomain.ListRolesOptions{
		ClubID: clubID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": roles})
}
