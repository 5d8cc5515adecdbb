package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	channeldomain "github.com/openclub/clubhub/internal/channel/domain"
)

// channelResponse decorates a channel with the caller's subscription state.
type channelResponse struct {
	channeldomain.Channel
	Subscribed bool `json:"subscribed"`
}

func (s *Server) channelResponse(c *gin.Context, channel channeldomain.Channel) (channelResponse, error) {
	subscribed, err := s.channelSvc.Subscribed(c.Request.Context(), actorOf(c).ID, channel.ID)
	if err != nil {
		return channelResponse{}, err
	}
	return channelResponse{Channel: channel, Subscribed: subscribed}, nil
}

func (s *Server) GetChannel(c *gin.Context) {
	id, err := parsePathID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	channel, err := s.channelSvc.Get(c.Request.Context(), actorOf(c), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.channelResponse(c, *channel)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateChannelRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *Server) UpdateChannel(c *gin.Context) {
	id, err := parsePathID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req updateChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	channel, err := s.channelSvc.Update(c.Request.Context(), actorOf(c), id, channeldomain.UpdateRequest{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.channelResponse(c, *channel)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListChannels(c *gin.Context) {
	var query struct {
		ClubID string `form:"club_id"`
		OnlyMy string `form:"only_my"`
		Search string `form:"search"`
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

	channels, err := s.channelSvc.List(c.Request.Context(), actorOf(c), channeldomain.ListOptions{
		ClubID:   clubID,
		OnlyMine: onlyMine,
		Search:   query.Search,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp := make([]channelResponse, 0, len(channels))
	for _, channel := range channels {
		item, err := s.channelResponse(c, channel)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		resp = append(resp, item)
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) SubscribeChannel(c *gin.Context) {
	id, err := parsePathID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	channel, err := s.channelSvc.Subscribe(c.Request.Context(), actorOf(c), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.channelResponse(c, *channel)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UnsubscribeChannel(c *gin.Context) {
	id, err := parsePathID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	channel, err := s.channelSvc.Unsubscribe(c.Request.Context(), actorOf(c), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.channelResponse(c, *channel)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListChannelSubscribers(c *gin.Context) {
	id, err := parsePathID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	subscribers, err := s.channelSvc.Subscribers(c.Request.Context(), actorOf(c), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": subscribers})
}
