package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	authdomain "github.com/openclub/clubhub/internal/auth/domain"
	"github.com/openclub/clubhub/internal/authorization"
	channeldomain "github.com/openclub/clubhub/internal/channel/domain"
	channelrepository "github.com/openclub/clubhub/internal/channel/repository"
	"github.com/openclub/clubhub/internal/clock"
	clubdomain "github.com/openclub/clubhub/internal/club/domain"
	clubrepository "github.com/openclub/clubhub/internal/club/repository"
	"github.com/openclub/clubhub/internal/conversation/domain"
	conversationrepository "github.com/openclub/clubhub/internal/conversation/repository"
	feedbackrepository "github.com/openclub/clubhub/internal/feedback/repository"
	"github.com/openclub/clubhub/internal/migration"
	projectrepository "github.com/openclub/clubhub/internal/project/repository"
	"github.com/openclub/clubhub/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEnv struct {
	node     *snowflake.Node
	clk      *clock.FakeClock
	clubs    clubdomain.Repository
	channels channeldomain.Repository
	svc      domain.Service
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
	feedbacks := feedbackrepository.NewRepository(conn)
	repo := conversationrepository.NewRepository(conn)

	authz := authorization.NewService(zap.NewNop(),
		clubrepository.NewEvaluator(clubs),
		channelrepository.NewEvaluator(channels),
		projectrepository.NewEvaluator(projects),
		feedbackrepository.NewEvaluator(feedbacks),
	)

	return &testEnv{
		node:     node,
		clk:      clk,
		clubs:    clubs,
		channels: channels,
		svc:      NewService(zap.NewNop(), repo, channels, authz, node, clk),
	}
}

func (e *testEnv) newClubWithChannel(t *testing.T, name string) (clubdomain.Club, channeldomain.Channel) {
	t.Helper()
	ctx := context.Background()
	club := clubdomain.Club{
		ID:        e.node.Generate(),
		Name:      name,
		Slug:      slug.Make(name),
		CreatedAt: e.clk.Now(),
	}
	require.NoError(t, e.clubs.CreateClub(ctx, club))
	channel := channeldomain.Channel{
		ID:     e.node.Generate(),
		ClubID: club.ID,
		Name:   name + " Channel",
	}
	require.NoError(t, e.channels.Create(ctx, channel))
	return club, channel
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

func TestCreateConversationMembersOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	club, channel := env.newClubWithChannel(t, "Chess Club")
	member := env.actor()
	env.join(t, club.ID, member.ID, clubdomain.PrivilegeMem)

	conversation, err := env.svc.Create(ctx, member, domain.CreateRequest{
		ChannelID: channel.ID,
		Content:   "Anyone up for a game?",
	})
	require.NoError(t, err)
	assert.Equal(t, member.ID, conversation.AuthorID)
	assert.Nil(t, conversation.ParentID)

	outsider := env.actor()
	_, err = env.svc.Create(ctx, outsider, domain.CreateRequest{
		ChannelID: channel.ID,
		Content:   "Hello",
	})
	assert.ErrorIs(t, err, authorization.ErrForbidden)
}

func TestCreateConversationValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	club, channel := env.newClubWithChannel(t, "Chess Club")
	member := env.actor()
	env.join(t, club.ID, member.ID, clubdomain.PrivilegeMem)

	_, err := env.svc.Create(ctx, member, domain.CreateRequest{ChannelID: channel.ID, Content: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidContent)

	_, err = env.svc.Create(ctx, member, domain.CreateRequest{ChannelID: env.node.Generate(), Content: "hi"})
	assert.ErrorIs(t, err, domain.ErrInvalidChannel)
}

func TestReplyStaysInChannel(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	chessClub, chessChannel := env.newClubWithChannel(t, "Chess Club")
	debateClub, debateChannel := env.newClubWithChannel(t, "Debate Club")
	member := env.actor()
	env.join(t, chessClub.ID, member.ID, clubdomain.PrivilegeMem)
	env.join(t, debateClub.ID, member.ID, clubdomain.PrivilegeMem)

	root, err := env.svc.Create(ctx, member, domain.CreateRequest{
		ChannelID: chessChannel.ID,
		Content:   "Anyone up for a game?",
	})
	require.NoError(t, err)

	reply, err := env.svc.Create(ctx, member, domain.CreateRequest{
		ChannelID: chessChannel.ID,
		ParentID:  &root.ID,
		Content:   "Me!",
	})
	require.NoError(t, err)
	require.NotNil(t, reply.ParentID)
	assert.Equal(t, root.ID, *reply.ParentID)

	// A reply cannot live in a different channel than its parent.
	_, err = env.svc.Create(ctx, member, domain.CreateRequest{
		ChannelID: debateChannel.ID,
		ParentID:  &root.ID,
		Content:   "Wrong room",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidParent)

	missing := env.node.Generate()
	_, err = env.svc.Create(ctx, member, domain.CreateRequest{
		ChannelID: chessChannel.ID,
		ParentID:  &missing,
		Content:   "Replying to nothing",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidParent)
}

func TestListRootsAndReplies(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	club, channel := env.newClubWithChannel(t, "Chess Club")
	alice := env.actor()
	env.join(t, club.ID, alice.ID, clubdomain.PrivilegeMem)
	bob := env.actor()
	env.join(t, club.ID, bob.ID, clubdomain.PrivilegeMem)

	root, err := env.svc.Create(ctx, alice, domain.CreateRequest{ChannelID: channel.ID, Content: "Game tonight?"})
	require.NoError(t, err)
	env.clk.Advance(time.Minute)
	reply, err := env.svc.Create(ctx, bob, domain.CreateRequest{ChannelID: channel.ID, ParentID: &root.ID, Content: "Yes"})
	require.NoError(t, err)

	// Default listing returns roots only.
	listed, err := env.svc.List(ctx, alice, domain.ListOptions{})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, root.ID, listed[0].ID)

	listed, err = env.svc.List(ctx, alice, domain.ListOptions{Replies: true})
	require.NoError(t, err)
	assert.Len(t, listed, 2)

	listed, err = env.svc.List(ctx, alice, domain.ListOptions{ParentID: root.ID})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, reply.ID, listed[0].ID)

	listed, err = env.svc.List(ctx, alice, domain.ListOptions{Replies: true, OnlyMine: true})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, root.ID, listed[0].ID)

	// Non-members see nothing.
	listed, err = env.svc.List(ctx, env.actor(), domain.ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestGetConversationMembersOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	club, channel := env.newClubWithChannel(t, "Chess Club")
	member := env.actor()
	env.join(t, club.ID, member.ID, clubdomain.PrivilegeMem)

	conversation, err := env.svc.Create(ctx, member, domain.CreateRequest{ChannelID: channel.ID, Content: "Hi"})
	require.NoError(t, err)

	_, err = env.svc.Get(ctx, member, conversation.ID)
	assert.NoError(t, err)

	_, err = env.svc.Get(ctx, env.actor(), conversation.ID)
	assert.ErrorIs(t, err, authorization.ErrForbidden)
}
