package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	clubdomain "github.com/openclub/clubhub/internal/club/domain"
)

// clubResponse decorates a club with the caller's effective privilege,
// "Representative", "Member" or null.
type clubResponse struct {
	clubdomain.Club
	Privilege *string `json:"privilege"`
}

func (s *Server) clubResponse(c *gin.Context, club clubdomain.Club) (clubResponse, error) {
	eval, err := s.clubSvc.Evaluate(c.Request.Context(), actorOf(c).ID, club.ID)
	if err != nil {
		return clubResponse{}, err
	}

	resp := clubResponse{Club: club}
	if p := eval.EffectivePrivilege(); p != nil {
		display := p.Display()
		resp.Privilege = &display
	}
	return resp, nil
}

type createClubRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *Server) CreateClub(c *gin.Context) {
	var req createClubRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	club, err := s.clubSvc.Create(c.Request.Context(), actorOf(c), clubdomain.CreateClubRequest{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.clubResponse(c, *club)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) GetClub(c *gin.Context) {
	id, err := parsePathID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	club, err := s.clubSvc.Get(c.Request.Context(), actorOf(c), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.clubResponse(c, *club)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateClubRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *Server) UpdateClub(c *gin.Context) {
	id, err := parsePathID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req updateClubRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	club, err := s.clubSvc.Update(c.Request.Context(), actorOf(c), id, clubdomain.UpdateClubRequest{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.clubResponse(c, *club)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteClub(c *gin.Context) {
	id, err := parsePathID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.clubSvc.Delete(c.Request.Context(), actorOf(c), id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) ListClubs(c *gin.Context) {
	var query struct {
		OnlyMy string `form:"only_my"`
		Search string `form:"search"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	onlyMine, err := parseFlag(query.OnlyMy)
	if err != nil {
		AbortWithError(c, newValidationError("only_my", "invalid_only_my", "invalid only_my"))
		return
	}

	clubs, err := s.clubSvc.List(c.Request.Context(), actorOf(c), clubdomain.ListClubsOptions{
		OnlyMine: onlyMine,
		Search:   query.Search,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp := make([]clubResponse, 0, len(clubs))
	for _, club := range clubs {
		item, err := s.clubResponse(c, club)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		resp = append(resp, item)
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}
