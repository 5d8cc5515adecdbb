package server

import (
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	clubdomain "github.com/openclub/clubhub/internal/club/domain"
)

// membershipResponse decorates a membership with the display name of its
// role's privilege.
type membershipResponse struct {
	clubdomain.ClubMembership
	Privilege string `json:"privilege"`
}

func (s *Server) membershipResponse(c *gin.Context, membership clubdomain.ClubMembership) membershipResponse {
	resp := membershipResponse{ClubMembership: membership}
	role, err := s.clubSvc.GetRole(c.Request.Context(), actorOf(c), membership.ClubRoleID)
	if err == nil {
		resp.Privilege = role.Privilege.Display()
	}
	return resp
}

type createMembershipRequest struct {
	UserID     snowflake.ID `json:"user_id"`
	ClubRoleID snowflake.ID `json:"club_role_id"`
}

func (s *Server) CreateMembership(c *gin.Context) {
	var req createMembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	membership, err := s.clubSvc.CreateMembership(c.Request.Context(), actorOf(c), clubdomain.CreateMembershipRequest{
		UserID:     req.UserID,
		ClubRoleID: req.ClubRoleID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": s.membershipResponse(c, *membership)})
}

func (s *Server) GetMembership(c *gin.Context) {
	id, err := parsePathID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	membership, err := s.clubSvc.GetMembership(c.Request.Context(), actorOf(c), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": s.membershipResponse(c, *membership)})
}

type updateMembershipRequest struct {
	UserID     snowflake.ID `json:"user_id"`
	ClubRoleID snowflake.ID `json:"club_role_id"`
}

func (s *Server) UpdateMembership(c *gin.Context) {
	id, err := parsePathID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req updateMembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	membership, err := s.clubSvc.UpdateMembership(c.Request.Context(), actorOf(c), id, clubdomain.UpdateMembershipRequest{
		UserID:     req.UserID,
		ClubRoleID: req.ClubRoleID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": s.membershipResponse(c, *membership)})
}

func (s *Server) DeleteMembership(c *gin.Context) {
	id, err := parsePathID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.clubSvc.DeleteMembership(c.Request.Context(), actorOf(c), id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) ListMemberships(c *gin.Context) {
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

	memberships, err := s.clubSvc.ListMemberships(c.Request.Context(), actorOf(c), clubdomain.ListMembershipsOptions{
		ClubID: clubID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp := make([]membershipResponse, 0, len(memberships))
	for _, membership := range memberships {
		resp = append(resp, s.membershipResponse(c, membership))
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}
