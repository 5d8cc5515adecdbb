package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	authdomain "github.com/openclub/clubhub/internal/auth/domain"
	"github.com/openclub/clubhub/internal/authorization"
	channelrepository "github.com/openclub/clubhub/internal/channel/repository"
	"github.com/openclub/clubhub/internal/clock"
	clubdomain "github.com/openclub/clubhub/internal/club/domain"
	clubrepository "github.com/openclub/clubhub/internal/club/repository"
	"github.com/openclub/clubhub/internal/feedback/domain"
	feedbackrepository "github.com/openclub/clubhub/internal/feedback/repository"
	"github.com/openclub/clubhub/internal/migration"
	projectrepository "github.com/openclub/clubhub/internal/project/repository"
	"github.com/openclub/clubhub/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEnv struct {
	node  *snowflake.Node
	clk   *clock.FakeClock
	clubs clubdomain.Repository
	svc   domain.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, migration.AutoMigrate(conn))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	clk := clock.NewFakeClock(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))

	clubs := clubrepository.NewRepository(conn)
	channels := channelrepository.NewRepository(conn)
	projects := projectrepository.NewRepository(conn)
	repo := feedbackrepository.NewRepository(conn)

	authz := authorization.NewService(zap.NewNop(),
		clubrepository.NewEvaluator(clubs),
		channelrepository.NewEvaluator(channels),
		projectrepository.NewEvaluator(projects),
		feedbackrepository.NewEvaluator(repo),
	)

	return &testEnv{
		node:  node,
		clk:   clk,
		clubs: clubs,
		svc:   NewService(zap.NewNop(), repo, clubs, authz, node, clk),
	}
}

func (e *testEnv) newClub(t *testing.T, name string) clubdomain.Club {
	t.Helper()
	club := clubdomain.Club{
		ID:        e.node.Generate(),
		Name:      name,
		Slug:      slug.Make(name),
		CreatedAt: e.clk.Now(),
	}
	require.NoError(t, e.clubs.CreateClub(context.Background(), club))
	return club
}

func (e *testEnv) join(t *testing.T, clubID, userID snowflake.ID, privilege clubdomain.Privilege) {
	t.Helper()
	role, err := e.clubs.GetOrCreateRoleByPrivilege(context.Background(), clubID, privilege, e.node.Generate())
	require.NoError(t, err)
	require.NoError(t, e.clubs.CreateMembership(context.Background(), clubdomain.ClubMembership{
		ID:         e.node.Generate(),
		UserID:     userID,
		ClubRoleID: role.ID,
		Joined:     e.clk.Now(),
	}))
}

func (e *testEnv) actor() authdomain.Actor {
	return authdomain.Actor{ID: e.node.Generate()}
}

func TestCreateFeedbackMembersOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	club := env.newClub(t, "Chess Club")
	member := env.actor()
	env.join(t, club.ID, member.ID, clubdomain.PrivilegeMem)

	feedback, err := env.svc.Create(ctx, member, domain.CreateRequest{
		ClubID:  club.ID,
		Content: "More boards please",
	})
	require.NoError(t, err)
	assert.Equal(t, member.ID, feedback.AuthorID)
	assert.Equal(t, club.ID, feedback.ClubID)

	outsider := env.actor()
	_, err = env.svc.Create(ctx, outsider, domain.CreateRequest{
		ClubID:  club.ID,
		Content: "Let me in",
	})
	assert.ErrorIs(t, err, authorization.ErrForbidden)
}

func TestCreateFeedbackValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	club := env.newClub(t, "Chess Club")
	member := env.actor()
	env.join(t, club.ID, member.ID, clubdomain.PrivilegeMem)

	_, err := env.svc.Create(ctx, member, domain.CreateRequest{ClubID: club.ID, Content: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidContent)

	_, err = env.svc.Create(ctx, member, domain.CreateRequest{ClubID: env.node.Generate(), Content: "hi"})
	assert.ErrorIs(t, err, domain.ErrInvalidClub)
}

func TestSingleReplyPerFeedback(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	club := env.newClub(t, "Chess Club")
	member := env.actor()
	env.join(t, club.ID, member.ID, clubdomain.PrivilegeMem)
	rep := env.actor()
	env.join(t, club.ID, rep.ID, clubdomain.PrivilegeRep)

	feedback, err := env.svc.Create(ctx, member, domain.CreateRequest{ClubID: club.ID, Content: "More boards"})
	require.NoError(t, err)

	reply, err := env.svc.CreateReply(ctx, rep, domain.CreateReplyRequest{
		FeedbackID: feedback.ID,
		Content:    "Ordered",
	})
	require.NoError(t, err)
	assert.Equal(t, feedback.ID, reply.FeedbackID)

	_, err = env.svc.CreateReply(ctx, rep, domain.CreateReplyRequest{
		FeedbackID: feedback.ID,
		Content:    "Ordered again",
	})
	assert.ErrorIs(t, err, domain.ErrReplyExists)
}

func TestCreateReplyRepOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	club := env.newClub(t, "Chess Club")
	member := env.actor()
	env.join(t, club.ID, member.ID, clubdomain.PrivilegeMem)

	feedback, err := env.svc.Create(ctx, member, domain.CreateRequest{ClubID: club.ID, Content: "More boards"})
	require.NoError(t, err)

	_, err = env.svc.CreateReply(ctx, member, domain.CreateReplyRequest{
		FeedbackID: feedback.ID,
		Content:    "I approve my own idea",
	})
	assert.ErrorIs(t, err, authorization.ErrForbidden)

	_, err = env.svc.CreateReply(ctx, member, domain.CreateReplyRequest{
		FeedbackID: env.node.Generate(),
		Content:    "Hello",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidFeedback)
}

func TestReplyOfFeedback(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	club := env.newClub(t, "Chess Club")
	author := env.actor()
	env.join(t, club.ID, author.ID, clubdomain.PrivilegeMem)
	rep := env.actor()
	env.join(t, club.ID, rep.ID, clubdomain.PrivilegeRep)

	feedback, err := env.svc.Create(ctx, author, domain.CreateRequest{ClubID: club.ID, Content: "More boards"})
	require.NoError(t, err)

	// Unanswered feedback has no reply.
	reply, err := env.svc.Reply(ctx, author, feedback.ID)
	require.NoError(t, err)
	assert.Nil(t, reply)

	created, err := env.svc.CreateReply(ctx, rep, domain.CreateReplyRequest{FeedbackID: feedback.ID, Content: "Ordered"})
	require.NoError(t, err)

	reply, err = env.svc.Reply(ctx, author, feedback.ID)
	require.NoError(t, err)
	require.NotNil(t, reply)
	assert.Equal(t, created.ID, reply.ID)

	// Reply visibility follows the feedback itself.
	other := env.actor()
	env.join(t, club.ID, other.ID, clubdomain.PrivilegeMem)
	_, err = env.svc.Reply(ctx, other, feedback.ID)
	assert.ErrorIs(t, err, authorization.ErrForbidden)
}

func TestGetFeedbackVisibility(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	club := env.newClub(t, "Chess Club")
	author := env.actor()
	env.join(t, club.ID, author.ID, clubdomain.PrivilegeMem)
	other := env.actor()
	env.join(t, club.ID, other.ID, clubdomain.PrivilegeMem)
	rep := env.actor()
	env.join(t, club.ID, rep.ID, clubdomain.PrivilegeRep)
	secretary := authdomain.Actor{ID: env.node.Generate(), IsSecretary: true}

	feedback, err := env.svc.Create(ctx, author, domain.CreateRequest{ClubID: club.ID, Content: "More boards"})
	require.NoError(t, err)

	_, err = env.svc.Get(ctx, author, feedback.ID)
	assert.NoError(t, err)
	_, err = env.svc.Get(ctx, rep, feedback.ID)
	assert.NoError(t, err)
	_, err = env.svc.Get(ctx, secretary, feedback.ID)
	assert.NoError(t, err)

	// Plain members do not read each other's feedback.
	_, err = env.svc.Get(ctx, other, feedback.ID)
	assert.ErrorIs(t, err, authorization.ErrForbidden)
}

func TestListFeedbackScoping(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	chess := env.newClub(t, "Chess Club")
	debate := env.newClub(t, "Debate Club")

	alice := env.actor()
	env.join(t, chess.ID, alice.ID, clubdomain.PrivilegeMem)
	env.join(t, debate.ID, alice.ID, clubdomain.PrivilegeMem)
	rep := env.actor()
	env.join(t, chess.ID, rep.ID, clubdomain.PrivilegeRep)
	secretary := authdomain.Actor{ID: env.node.Generate(), IsSecretary: true}

	first, err := env.svc.Create(ctx, alice, domain.CreateRequest{ClubID: chess.ID, Content: "More boards"})
	require.NoError(t, err)
	env.clk.Advance(time.Minute)
	second, err := env.svc.Create(ctx, alice, domain.CreateRequest{ClubID: debate.ID, Content: "Longer sessions"})
	require.NoError(t, err)

	// Authors see their own feedback across clubs, newest first.
	listed, err := env.svc.List(ctx, alice, domain.ListOptions{})
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, second.ID, listed[0].ID)

	listed, err = env.svc.List(ctx, alice, domain.ListOptions{Ascending: true})
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, first.ID, listed[0].ID)

	listed, err = env.svc.List(ctx, alice, domain.ListOptions{ClubID: chess.ID})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, first.ID, listed[0].ID)

	// The chess rep sees chess feedback only.
	listed, err = env.svc.List(ctx, rep, domain.ListOptions{})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, first.ID, listed[0].ID)

	// The secretary sees everything.
	listed, err = env.svc.List(ctx, secretary, domain.ListOptions{})
	require.NoError(t, err)
	assert.Len(t, listed, 2)

	listed, err = env.svc.List(ctx, secretary, domain.ListOptions{Search: "sessions"})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, second.ID, listed[0].ID)
}

func TestListRepliesFollowsFeedbackScope(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	chess := env.newClub(t, "Chess Club")
	debate := env.newClub(t, "Debate Club")

	alice := env.actor()
	env.join(t, chess.ID, alice.ID, clubdomain.PrivilegeMem)
	bob := env.actor()
	env.join(t, debate.ID, bob.ID, clubdomain.PrivilegeMem)
	chessRep := env.actor()
	env.join(t, chess.ID, chessRep.ID, clubdomain.PrivilegeRep)
	debateRep := env.actor()
	env.join(t, debate.ID, debateRep.ID, clubdomain.PrivilegeRep)

	chessFeedback, err := env.svc.Create(ctx, alice, domain.CreateRequest{ClubID: chess.ID, Content: "More boards"})
	require.NoError(t, err)
	debateFeedback, err := env.svc.Create(ctx, bob, domain.CreateRequest{ClubID: debate.ID, Content: "Longer sessions"})
	require.NoError(t, err)

	chessReply, err := env.svc.CreateReply(ctx, chessRep, domain.CreateReplyRequest{FeedbackID: chessFeedback.ID, Content: "Ordered"})
	require.NoError(t, err)
	_, err = env.svc.CreateReply(ctx, debateRep, domain.CreateReplyRequest{FeedbackID: debateFeedback.ID, Content: "Scheduled"})
	require.NoError(t, err)

	replies, err := env.svc.ListReplies(ctx, alice, domain.ListOptions{})
	require.NoError(t, err)
	require.Len(t, replies, 1)
	assert.Equal(t, chessReply.ID, replies[0].ID)

	replies, err = env.svc.ListReplies(ctx, authdomain.Actor{ID: env.node.Generate(), IsSecretary: true}, domain.ListOptions{})
	require.NoError(t, err)
	assert.Len(t, replies, 2)
}
