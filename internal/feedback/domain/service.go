package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/openclub/clubhub/internal/auth/domain"
	"gorm.io/gorm"
)

// Evaluator answers feedback ownership questions for authorization checks.
type Evaluator interface {
	// GetFeedback loads a feedback by id, used to resolve the club and
	// author of a reply's parent.
	GetFeedback(ctx context.Context, id snowflake.ID) (*Feedback, error)
}

// ListOptions narrows feedback listings. Non-secretary callers are always
// pre-scoped to feedback they authored plus feedback of clubs they represent.
type ListOptions struct {
	ClubID    snowflake.ID // 0 = unset
	OnlyMine  bool
	Ascending bool
	Search    string
}

type Repository interface {
	Evaluator

	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, feedback Feedback) error
	List(ctx context.Context, userID snowflake.ID, secretary bool, repClubIDs []snowflake.ID, opts ListOptions) ([]Feedback, error)

	CreateReply(ctx context.Context, reply FeedbackReply) error
	GetReply(ctx context.Context, id snowflake.ID) (*FeedbackReply, error)
	ReplyOf(ctx context.Context, feedbackID snowflake.ID) (*FeedbackReply, error)
	ListReplies(ctx context.Context, feedbackIDs []snowflake.ID) ([]FeedbackReply, error)
}

type Service interface {
	// Create posts feedback authored by the actor. Club members only.
	Create(ctx context.Context, actor authdomain.Actor, req CreateRequest) (*Feedback, error)
	Get(ctx context.Context, actor authdomain.Actor, id snowflake.ID) (*Feedback, error)
	List(ctx context.Context, actor authdomain.Actor, opts ListOptions) ([]Feedback, error)

	// Reply returns the feedback's reply, or nil when the club has not
	// answered yet. Visibility follows the feedback itself.
	Reply(ctx context.Context, actor authdomain.Actor, feedbackID snowflake.ID) (*FeedbackReply, error)

	// CreateReply posts the club's single reply to a feedback. Club
	// representatives only.
	CreateReply(ctx context.Context, actor authdomain.Actor, req CreateReplyRequest) (*FeedbackReply, error)
	GetReply(ctx context.Context, actor authdomain.Actor, id snowflake.ID) (*FeedbackReply, error)
	ListReplies(ctx context.Context, actor authdomain.Actor, opts ListOptions) ([]FeedbackReply, error)
}

type CreateRequest struct {
	ClubID  snowflake.ID
	Content string
}

type CreateReplyRequest struct {
	FeedbackID snowflake.ID
	Content    string
}

var (
	ErrInvalidClub     = errors.New("invalid_club")
	ErrInvalidContent  = errors.New("invalid_content")
	ErrInvalidFeedback = errors.New("invalid_feedback")
	// ErrReplyExists is returned when the feedback already has a reply.
	ErrReplyExists = errors.New("reply_exists")
)
