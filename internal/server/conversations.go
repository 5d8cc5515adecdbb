package server

import (
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	conversationdomain "github.com/openclub/clubhub/internal/conversation/domain"
)

type createConversationRequest struct {
	ChannelID snowflake.ID  `json:"channel_id"`
	ParentID  *snowflake.ID `json:"parent_id"`
	Content   string        `json:"content"`
}

func (s *Server) CreateConversation(c *gin.Context) {
	var req createConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	conversation, err := s.conversationSvc.Create(c.Request.Context(), actorOf(c), conversationdomain.CreateRequest{
		ChannelID: req.ChannelID,
		ParentID:  req.ParentID,
		Content:   req.Content,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": conversation})
}

func (s *Server) GetConversation(c *gin.Context) {
	id, err := parsePathID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	conversation, err := s.conversationSvc.Get(c.Request.Context(), actorOf(c), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": conversation})
}

func (s *Server) ListConversations(c *gin.Context) {
	var query struct {
		ParentID  string `form:"parent_id"`
		ChannelID string `form:"channel_id"`
		OnlyMy    string `form:"only_my"`
		Replies   string `form:"replies"`
		Order     string `form:"order"`
		Search    string `form:"search"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	parentID, err := parseOptionalID(query.ParentID)
	if err != nil {
		AbortWithError(c, newValidationError("parent_id", "invalid_parent_id", "invalid parent_id"))
		return
	}
	channelID, err := parseOptionalID(query.ChannelID)
	if err != nil {
		AbortWithError(c, newValidationError("channel_id", "invalid_channel_id", "invalid channel_id"))
		return
	}
	onlyMine, err := parseFlag(query.OnlyMy)
	if err != nil {
		AbortWithError(c, newValidationError("only_my", "invalid_only_my", "invalid only_my"))
		return
	}
	replies, err := parseFlag(query.Replies)
	if err != nil {
		AbortWithError(c, newValidationError("replies", "invalid_replies", "invalid replies"))
		return
	}
	ascending, err := parseAscending(query.Order)
	if err != nil {
		AbortWithError(c, newValidationError("order", "invalid_order", "invalid order"))
		return
	}

	conversations, err := s.conversationSvc.List(c.Request.Context(), actorOf(c), conversationdomain.ListOptions{
		ParentID:  parentID,
		ChannelID: channelID,
		OnlyMine:  onlyMine,
		Replies:   replies,
		Ascending: ascending,
		Search:    query.Search,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": conversations})
}
