// Package authorization holds the object-level access rules for every domain
// entity in one place. Feature services pass the actor, the intended action
// and the target object; the rules resolve club and project relationships
// through the evaluator interfaces of each feature.
package authorization

import (
	"context"
	"errors"
	"fmt"

	authdomain "github.com/openclub/clubhub/internal/auth/domain"
	channeldomain "github.com/openclub/clubhub/internal/channel/domain"
	clubdomain "github.com/openclub/clubhub/internal/club/domain"
	conversationdomain "github.com/openclub/clubhub/internal/conversation/domain"
	enrollmentdomain "github.com/openclub/clubhub/internal/enrollment/domain"
	feedbackdomain "github.com/openclub/clubhub/internal/feedback/domain"
	postdomain "github.com/openclub/clubhub/internal/post/domain"
	projectdomain "github.com/openclub/clubhub/internal/project/domain"
	"go.uber.org/zap"
)

// Action is the operation being authorized against an object.
type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// ErrForbidden is returned when the actor may not perform the action.
var ErrForbidden = errors.New("forbidden")

// Service evaluates access rules. Authorize returns nil when the action is
// allowed and ErrForbidden otherwise. For creates the object is the entity
// about to be persisted, populated with its scoping references.
type Service interface {
	Authorize(ctx context.Context, actor authdomain.Actor, action Action, object any) error
}

type service struct {
	log      *zap.Logger
	clubs    clubdomain.Evaluator
	channels channeldomain.Evaluator
	projects projectdomain.Evaluator
	feedback feedbackdomain.Evaluator
}

func NewService(
	log *zap.Logger,
	clubs clubdomain.Evaluator,
	channels channeldomain.Evaluator,
	projects projectdomain.Evaluator,
	feedback feedbackdomain.Evaluator,
) Service {
	return &service{
		log:      log,
		clubs:    clubs,
		channels: channels,
		projects: projects,
		feedback: feedback,
	}
}

func (s *service) Authorize(ctx context.Context, actor authdomain.Actor, action Action, object any) error {
	allowed, err := s.allowed(ctx, actor, action, object)
	if err != nil {
		return err
	}
	if !allowed {
		s.log.Debug("authorization denied",
			zap.Int64("actor_id", int64(actor.ID)),
			zap.String("action", string(action)),
			zap.String("object", fmt.Sprintf("%T", object)),
		)
		return ErrForbidden
	}
	return nil
}

func (s *service) allowed(ctx context.Context, actor authdomain.Actor, action Action, object any) (bool, error) {
	switch obj := object.(type) {
	case clubdomain.Club:
		return s.allowedClub(ctx, actor, action, obj)
	case clubdomain.ClubRole:
		return s.allowedClubRole(ctx, actor, action, obj)
	case clubdomain.ClubMembership:
		return s.allowedClubMembership(ctx, actor, action, obj)
	case enrollmentdomain.MembershipRequest:
		return s.allowedMembershipRequest(ctx, actor, action, obj)
	case channeldomain.Channel:
		return s.allowedChannel(ctx, actor, action, obj)
	case postdomain.Post:
		return s.allowedPost(ctx, actor, action, obj)
	case conversationdomain.Conversation:
		return s.allowedConversation(ctx, actor, action, obj)
	case projectdomain.Project:
		return s.allowedProject(ctx, actor, action, obj)
	case projectdomain.ClubProject:
		return s.allowedClubProject(ctx, actor, action, obj)
	case projectdomain.ProjectMembership:
		return s.allowedProjectMembership(ctx, actor, action, obj)
	case feedbackdomain.Feedback:
		return s.allowedFeedback(ctx, actor, action, obj)
	case feedbackdomain.FeedbackReply:
		return s.allowedFeedbackReply(ctx, actor, action, obj)
	}
	return false, nil
}

// Clubs are public to read. Only the secretary registers or removes a club;
// the club's representative may edit it.
func (s *service) allowedClub(ctx context.Context, actor authdomain.Actor, action Action, club clubdomain.Club) (bool, error) {
	switch action {
	case ActionRead:
		return true, nil
	case ActionCreate, ActionDelete:
		return actor.IsSecretary, nil
	case ActionUpdate:
		if actor.IsSecretary {
			return true, nil
		}
		return s.clubs.HasRep(ctx, club.ID, actor.ID)
	}
	return false, nil
}

// Roles are visible to the club's members and managed by its representative.
func (s *service) allowedClubRole(ctx context.Context, actor authdomain.Actor, action Action, role clubdomain.ClubRole) (bool, error) {
	switch action {
	case ActionRead:
		return s.clubs.HasMember(ctx, role.ClubID, actor.ID)
	case ActionCreate, ActionUpdate, ActionDelete:
		return s.clubs.HasRep(ctx, role.ClubID, actor.ID)
	}
	return false, nil
}

// Memberships are visible to the club's members. Direct creation is reserved
// to the secretary; role changes and removals take the club's representative.
func (s *service) allowedClubMembership(ctx context.Context, actor authdomain.Actor, action Action, membership clubdomain.ClubMembership) (bool, error) {
	if actor.IsSecretary {
		return true, nil
	}
	if action == ActionCreate {
		return false, nil
	}
	clubID, err := s.clubs.ClubIDOfRole(ctx, membership.ClubRoleID)
	if err != nil {
		return false, err
	}
	switch action {
	case ActionRead:
		return s.clubs.HasMember(ctx, clubID, actor.ID)
	case ActionUpdate, ActionDelete:
		return s.clubs.HasRep(ctx, clubID, actor.ID)
	}
	return false, nil
}

// A membership request is visible to its requester and the representative of
// the target club. Users open requests only for themselves; all state changes
// go through the accept/reject/cancel transitions, never generic writes.
func (s *service) allowedMembershipRequest(ctx context.Context, actor authdomain.Actor, action Action, request enrollmentdomain.MembershipRequest) (bool, error) {
	switch action {
	case ActionCreate:
		return request.UserID == actor.ID, nil
	case ActionRead:
		if request.UserID == actor.ID {
			return true, nil
		}
		return s.clubs.HasRep(ctx, request.ClubID, actor.ID)
	}
	return false, nil
}

// Channels are public to read and edited by the club's representative. They
// exist one per club, created with the club and never removed.
func (s *service) allowedChannel(ctx context.Context, actor authdomain.Actor, action Action, channel channeldomain.Channel) (bool, error) {
	switch action {
	case ActionRead:
		return true, nil
	case ActionUpdate:
		return s.clubs.HasRep(ctx, channel.ClubID, actor.ID)
	}
	return false, nil
}

// Posts are public announcements written by the channel club's representative.
func (s *service) allowedPost(ctx context.Context, actor authdomain.Actor, action Action, post postdomain.Post) (bool, error) {
	if action == ActionRead {
		return true, nil
	}
	clubID, err := s.channels.ClubIDOfChannel(ctx, post.ChannelID)
	if err != nil {
		return false, err
	}
	switch action {
	case ActionCreate, ActionUpdate, ActionDelete:
		return s.clubs.HasRep(ctx, clubID, actor.ID)
	}
	return false, nil
}

// Conversations belong to the channel club's members and are immutable once
// posted.
func (s *service) allowedConversation(ctx context.Context, actor authdomain.Actor, action Action, conversation conversationdomain.Conversation) (bool, error) {
	switch action {
	case ActionRead, ActionCreate:
		clubID, err := s.channels.ClubIDOfChannel(ctx, conversation.ChannelID)
		if err != nil {
			return false, err
		}
		return s.clubs.HasMember(ctx, clubID, actor.ID)
	}
	return false, nil
}

// Projects are visible to the secretary and to members of any owner club, and
// edited by an owner club's representative. Projects are closed, not deleted.
func (s *service) allowedProject(ctx context.Context, actor authdomain.Actor, action Action, project projectdomain.Project) (bool, error) {
	switch action {
	case ActionRead:
		if actor.IsSecretary {
			return true, nil
		}
		return s.projects.HasClubMember(ctx, project.ID, actor.ID)
	case ActionUpdate:
		return s.projects.HasClubRep(ctx, project.ID, actor.ID)
	}
	return false, nil
}

// A club-project link is created with the project by the owning club's
// representative.
func (s *service) allowedClubProject(ctx context.Context, actor authdomain.Actor, action Action, link projectdomain.ClubProject) (bool, error) {
	if action == ActionCreate {
		return s.clubs.HasRep(ctx, link.ClubID, actor.ID)
	}
	return false, nil
}

// Project memberships are visible to owner-club members and managed by the
// project leader or an owner club's representative. Reassignment is not a
// thing; memberships are created and removed.
func (s *service) allowedProjectMembership(ctx context.Context, actor authdomain.Actor, action Action, membership projectdomain.ProjectMembership) (bool, error) {
	switch action {
	case ActionRead:
		return s.projects.HasClubMember(ctx, membership.ProjectID, actor.ID)
	case ActionCreate, ActionDelete:
		leaderID, err := s.projects.LeaderID(ctx, membership.ProjectID)
		if err != nil {
			return false, err
		}
		if leaderID == actor.ID {
			return true, nil
		}
		return s.projects.HasClubRep(ctx, membership.ProjectID, actor.ID)
	}
	return false, nil
}

// Feedback is written by the club's members and read back by its author, the
// secretary and the club's representative.
func (s *service) allowedFeedback(ctx context.Context, actor authdomain.Actor, action Action, feedback feedbackdomain.Feedback) (bool, error) {
	switch action {
	case ActionCreate:
		return s.clubs.HasMember(ctx, feedback.ClubID, actor.ID)
	case ActionRead:
		if actor.IsSecretary || feedback.AuthorID == actor.ID {
			return true, nil
		}
		return s.clubs.HasRep(ctx, feedback.ClubID, actor.ID)
	}
	return false, nil
}

// A reply inherits the visibility of its feedback and is written by the
// feedback club's representative.
func (s *service) allowedFeedbackReply(ctx context.Context, actor authdomain.Actor, action Action, reply feedbackdomain.FeedbackReply) (bool, error) {
	parent, err := s.feedback.GetFeedback(ctx, reply.FeedbackID)
	if err != nil {
		return false, err
	}
	switch action {
	case ActionCreate:
		return s.clubs.HasRep(ctx, parent.ClubID, actor.ID)
	case ActionRead:
		if actor.IsSecretary || parent.AuthorID == actor.ID {
			return true, nil
		}
		return s.clubs.HasRep(ctx, parent.ClubID, actor.ID)
	}
	return false, nil
}
