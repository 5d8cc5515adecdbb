package server

import (
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	feedbackdomain "github.com/openclub/clubhub/internal/feedback/domain"
)

type createFeedbackRequest struct {
	ClubID  snowflake.ID `json:"club_id"`
	Content string       `json:"content"`
}

func (s *Server) CreateFeedback(c *gin.Context) {
	var req createFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	feedback, err := s.feedbackSvc.Create(c.Request.Context(), actorOf(c), feedbackdomain.CreateRequest{
		ClubID:  req.ClubID,
		Content: req.Content,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": feedback})
}

func (s *Server) GetFeedback(c *gin.Context) {
	id, err := parsePathID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	feedback, err := s.feedbackSvc.Get(c.Request.Context(), actorOf(c), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	reply, err := s.feedbackSvc.Reply(c.Request.Context(), actorOf(c), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": feedback, "reply": reply})
}

func (s *Server) ListFeedbacks(c *gin.Context) {
	opts, ok := s.feedbackListOptions(c)
	if !ok {
		return
	}

	feedbacks, err := s.feedbackSvc.List(c.Request.Context(), actorOf(c), opts)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": feedbacks})
}

type createFeedbackReplyRequest struct {
	FeedbackID snowflake.ID `json:"feedback_id"`
	Content    string       `json:"content"`
}

func (s *Server) CreateFeedbackReply(c *gin.Context) {
	var req createFeedbackReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	reply, err := s.feedbackSvc.CreateReply(c.Request.Context(), actorOf(c), feedbackdomain.CreateReplyRequest{
		FeedbackID: req.FeedbackID,
		Content:    req.Content,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": reply})
}

func (s *Server) GetFeedbackReply(c *gin.Context) {
	id, err := parsePathID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	reply, err := s.feedbackSvc.GetReply(c.Request.Context(), actorOf(c), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": reply})
}

func (s *Server) ListFeedbackReplies(c *gin.Context) {
	opts, ok := s.feedbackListOptions(c)
	if !ok {
		return
	}

	replies, err := s.feedbackSvc.ListReplies(c.Request.Context(), actorOf(c), opts)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": replies})
}

func (s *Server) feedbackListOptions(c *gin.Context) (feedbackdomain.ListOptions, bool) {
	var query struct {
		ClubID string `form:"club_id"`
		OnlyMy string `form:"only_my"`
		Order  string `form:"order"`
		Search string `form:"search"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return feedbackdomain.ListOptions{}, false
	}

	clubID, err := parseOptionalID(query.ClubID)
	if err != nil {
		AbortWithError(c, newValidationError("club_id", "invalid_club_id", "invalid club_id"))
		return feedbackdomain.ListOptions{}, false
	}
	onlyMine, err := parseFlag(query.OnlyMy)
	if err != nil {
		AbortWithError(c, newValidationError("only_my", "invalid_only_my", "invalid only_my"))
		return feedbackdomain.ListOptions{}, false
	}
	ascending, err := parseAscending(query.Order)
	if err != nil {
		AbortWithError(c, newValidationError("order", "invalid_order", "invalid order"))
		return feedbackdomain.ListOptions{}, false
	}

	return feedbackdomain.ListOptions{
		ClubID:    clubID,
		OnlyMine:  onlyMine,
		Ascending: ascending,
		Search:    query.Search,
	}, true
}
