package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	authdomain "github.com/openclub/clubhub/internal/auth/domain"
	"github.com/openclub/clubhub/internal/authorization"
	"github.com/openclub/clubhub/internal/channel/domain"
	channelrepository "github.com/openclub/clubhub/internal/channel/repository"
	"github.com/openclub/clubhub/internal/clock"
	clubdomain "github.com/openclub/clubhub/internal/club/domain"
	clubrepository "github.com/openclub/clubhub/internal/club/repository"
	feedbackrepository "github.com/openclub/clubhub/internal/feedback/repository"
	"github.com/openclub/clubhub/internal/migration"
	projectrepository "github.com/openclub/clubhub/internal/project/repository"
	"github.com/openclub/clubhub/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type testEnv struct {
	conn  *gorm.DB
	node  *snowflake.Node
	clk   *clock.FakeClock
	clubs clubdomain.Repository
	repo  domain.Repository
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
	repo := channelrepository.NewRepository(conn)
	projects := projectrepository.NewRepository(conn)
	feedbacks := feedbackrepository.NewRepository(conn)

	authz := authorization.NewService(zap.NewNop(),
		clubrepository.NewEvaluator(clubs),
		channelrepository.NewEvaluator(repo),
		projectrepository.NewEvaluator(projects),
		feedbackrepository.NewEvaluator(feedbacks),
	)

	return &testEnv{
		conn:  conn,
		node:  node,
		clk:   clk,
		clubs: clubs,
		repo:  repo,
		svc:   NewService(zap.NewNop(), repo, authz, node, clk),
	}
}

func (e *testEnv) newClubWithChannel(t *testing.T, name string) (clubdomain.Club, domain.Channel) {
	t.Helper()
	ctx := context.Background()
	club := clubdomain.Club{
		ID:        e.node.Generate(),
		Name:      name,
		Slug:      slug.Make(name),
		CreatedAt: e.clk.Now(),
	}
	require.NoError(t, e.clubs.CreateClub(ctx, club))
	channel := domain.Channel{
		ID:     e.node.Generate(),
		ClubID: club.ID,
		Name:   name + " Channel",
	}
	require.NoError(t, e.repo.Create(ctx, channel))
	return club, channel
}

func (e *testEnv) newUser(t *testing.T, email string) authdomain.User {
	t.Helper()
	user := authdomain.User{
		ID:          e.node.Generate(),
		Email:       email,
		DisplayName: email,
		CreatedAt:   e.clk.Now(),
	}
	require.NoError(t, e.conn.Create(&user).Error)
	return user
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

func TestSubscribeIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, channel := env.newClubWithChannel(t, "Chess Club")
	user := env.newUser(t, "alice@example.com")
	actor := authdomain.Actor{ID: user.ID}

	_, err := env.svc.Subscribe(ctx, actor, channel.ID)
	require.NoError(t, err)
	_, err = env.svc.Subscribe(ctx, actor, channel.ID)
	require.NoError(t, err)

	subscribed, err := env.svc.Subscribed(ctx, actor.ID, channel.ID)
	require.NoError(t, err)
	assert.True(t, subscribed)

	subscribers, err := env.repo.Subscribers(ctx, channel.ID)
	require.NoError(t, err)
	assert.Len(t, subscribers, 1)
}

func TestUnsubscribeWhileNotSubscribed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, channel := env.newClubWithChannel(t, "Chess Club")
	actor := authdomain.Actor{ID: env.node.Generate()}

	_, err := env.svc.Unsubscribe(ctx, actor, channel.ID)
	require.NoError(t, err)

	subscribed, err := env.svc.Subscribed(ctx, actor.ID, channel.ID)
	require.NoError(t, err)
	assert.False(t, subscribed)
}

func TestSubscribeUnknownChannel(t *testing.T) {
	env := newTestEnv(t)
	actor := authdomain.Actor{ID: env.node.Generate()}

	_, err := env.svc.Subscribe(context.Background(), actor, env.node.Generate())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUpdateChannelRepOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	club, channel := env.newClubWithChannel(t, "Chess Club")

	rep := authdomain.Actor{ID: env.node.Generate()}
	env.join(t, club.ID, rep.ID, clubdomain.PrivilegeRep)
	member := authdomain.Actor{ID: env.node.Generate()}
	env.join(t, club.ID, member.ID, clubdomain.PrivilegeMem)

	updated, err := env.svc.Update(ctx, rep, channel.ID, domain.UpdateRequest{Name: "Announcements"})
	require.NoError(t, err)
	assert.Equal(t, "Announcements", updated.Name)

	_, err = env.svc.Update(ctx, member, channel.ID, domain.UpdateRequest{Name: "General"})
	assert.ErrorIs(t, err, authorization.ErrForbidden)
}

func TestSubscribersOrderedByJoin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, channel := env.newClubWithChannel(t, "Chess Club")

	alice := env.newUser(t, "alice@example.com")
	bob := env.newUser(t, "bob@example.com")

	_, err := env.svc.Subscribe(ctx, authdomain.Actor{ID: alice.ID}, channel.ID)
	require.NoError(t, err)
	env.clk.Advance(time.Minute)
	_, err = env.svc.Subscribe(ctx, authdomain.Actor{ID: bob.ID}, channel.ID)
	require.NoError(t, err)

	subscribers, err := env.svc.Subscribers(ctx, authdomain.Actor{ID: alice.ID}, channel.ID)
	require.NoError(t, err)
	require.Len(t, subscribers, 2)
	assert.Equal(t, alice.ID, subscribers[0].ID)
	assert.Equal(t, bob.ID, subscribers[1].ID)
}

func TestListChannels(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, chess := env.newClubWithChannel(t, "Chess Club")
	debate, _ := env.newClubWithChannel(t, "Debate Club")

	actor := authdomain.Actor{ID: env.node.Generate()}
	_, err := env.svc.Subscribe(ctx, actor, chess.ID)
	require.NoError(t, err)

	listed, err := env.svc.List(ctx, actor, domain.ListOptions{})
	require.NoError(t, err)
	assert.Len(t, listed, 2)

	listed, err = env.svc.List(ctx, actor, domain.ListOptions{OnlyMine: true})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, chess.ID, listed[0].ID)

	listed, err = env.svc.List(ctx, actor, domain.ListOptions{ClubID: debate.ID})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "Debate Club Channel", listed[0].Name)

	listed, err = env.svc.List(ctx, actor, domain.ListOptions{Search: "Debate"})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "Debate Club Channel", listed[0].Name)
}
