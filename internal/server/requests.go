package server

import (
	"context"
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	authdomain "github.com/openclub/clubhub/internal/auth/domain"
	enrollmentdomain "github.com/openclub/clubhub/internal/enrollment/domain"
)

// requestResponse decorates a membership request with the display name of its
// status.
type requestResponse struct {
	enrollmentdomain.MembershipRequest
	StatusDisplay string `json:"status_display"`
}

func newRequestResponse(request enrollmentdomain.MembershipRequest) requestResponse {
	return requestResponse{
		MembershipRequest: request,
		StatusDisplay:     request.Status.Display(),
	}
}

type createRequestRequest struct {
	ClubID snowflake.ID `json:"club_id"`
}

func (s *Server) CreateRequest(c *gin.Context) {
	var req createRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	request, err := s.enrollmentSvc.Create(c.Request.Context(), actorOf(c), req.ClubID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": newRequestResponse(*request)})
}

func (s *Server) GetRequest(c *gin.Context) {
	id, err := parsePathID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	request, err := s.enrollmentSvc.Get(c.Request.Context(), actorOf(c), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": newRequestResponse(*request)})
}

func (s *Server) ListRequests(c *gin.Context) {
	var query struct {
		ClubID  string `form:"club_id"`
		OnlyMy  string `form:"only_my"`
		Pending string `form:"pending"`
		Order   string `form:"order"`
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
	onlyMine, err := parseFlag(query.OnlyMy)
	if err != nil {
		AbortWithError(c, newValidationError("only_my", "invalid_only_my", "invalid only_my"))
		return
	}
	pending, err := parseTriBool(query.Pending)
	if err != nil {
		AbortWithError(c, newValidationError("pending", "invalid_pending", "invalid pending"))
		return
	}
	ascending, err := parseAscending(query.Order)
	if err != nil {
		AbortWithError(c, newValidationError("order", "invalid_order", "invalid order"))
		return
	}

	requests, err := s.enrollmentSvc.List(c.Request.Context(), actorOf(c), enrollmentdomain.ListOptions{
		ClubID:    clubID,
		OnlyMine:  onlyMine,
		Pending:   pending,
		Ascending: ascending,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp := make([]requestResponse, 0, len(requests))
	for _, request := range requests {
		resp = append(resp, newRequestResponse(request))
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) AcceptRequest(c *gin.Context) {
	s.transitionRequest(c, s.enrollmentSvc.Accept)
}

func (s *Server) RejectRequest(c *gin.Context) {
	s.transitionRequest(c, s.enrollmentSvc.Reject)
}

func (s *Server) CancelRequest(c *gin.Context) {
	s.transitionRequest(c, s.enrollmentSvc.Cancel)
}

func (s *Server) transitionRequest(
	c *gin.Context,
	transition func(ctx context.Context, actor authdomain.Actor, id snowflake.ID) (*enrollmentdomain.MembershipRequest, error),
) {
	id, err := parsePathID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	request, err := transition(c.Request.Context(), actorOf(c), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": newRequestResponse(*request)})
}
