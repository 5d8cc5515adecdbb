package server

import (
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	postdomain "github.com/openclub/clubhub/internal/post/domain"
)

type createPostRequest struct {
	ChannelID snowflake.ID `json:"channel_id"`
	Content   string       `json:"content"`
}

func (s *Server) CreatePost(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	post, err := s.postSvc.Create(c.Request.Context(), actorOf(c), postdomain.CreateRequest{
		ChannelID: req.ChannelID,
		Content:   req.Content,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": post})
}

func (s *Server) GetPost(c *gin.Context) {
	id, err := parsePathID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	post, err := s.postSvc.Get(c.Request.Context(), actorOf(c), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": post})
}

type updatePostRequest struct {
	Content string `json:"content"`
}

func (s *Server) UpdatePost(c *gin.Context) {
	id, err := parsePathID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req updatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	post, err := s.postSvc.Update(c.Request.Context(), actorOf(c), id, postdomain.UpdateRequest{
		Content: req.Content,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": post})
}

func (s *Server) DeletePost(c *gin.Context) {
	id, err := parsePathID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.postSvc.Delete(c.Request.Context(), actorOf(c), id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) ListPosts(c *gin.Context) {
	var query struct {
		ChannelID string `form:"channel_id"`
		Order     string `form:"order"`
		Search    string `form:"search"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	channelID, err := parseOptionalID(query.ChannelID)
	if err != nil {
		AbortWithError(c, newValidationError("channel_id", "invalid_channel_id", "invalid channel_id"))
		return
	}
	ascending, err := parseAscending(query.Order)
	if err != nil {
		AbortWithError(c, newValidationError("order", "invalid_order", "invalid order"))
		return
	}

	posts, err := s.postSvc.List(c.Request.Context(), actorOf(c), postdomain.ListOptions{
		ChannelID: channelID,
		Ascending: ascending,
		Search:    query.Search,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": posts})
}
