package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/openclub/clubhub/internal/auth/domain"
	"github.com/openclub/clubhub/internal/authorization"
	channeldomain "github.com/openclub/clubhub/internal/channel/domain"
	channelrepository "github.com/openclub/clubhub/internal/channel/repository"
	"github.com/openclub/clubhub/internal/clock"
	"github.com/openclub/clubhub/internal/club/domain"
	clubrepository "github.com/openclub/clubhub/internal/club/repository"
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
	repo     domain.Repository
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

	repo := clubrepository.NewRepository(conn)
	channels := channelrepository.NewRepository(conn)
	projects := projectrepository.NewRepository(conn)
	feedbacks := feedbackrepository.NewRepository(conn)

	authz := authorization.NewService(zap.NewNop(),
		clubrepository.NewEvaluator(repo),
		channelrepository.NewEvaluator(channels),
		projectrepository.NewEvaluator(projects),
		feedbackrepository.NewEvaluator(feedbacks),
	)

	return &testEnv{
		node:     node,
		clk:      clk,
		repo:     repo,
		channels: channels,
		svc:      NewService(conn, zap.NewNop(), repo, channels, authz, node, clk),
	}
}

func (e *testEnv) secretary() authdomain.Actor {
	return authdomain.Actor{ID: e.node.Generate(), IsSecretary: true}
}

func (e *testEnv) actor() authdomain.Actor {
	return authdomain.Actor{ID: e.node.Generate()}
}

func (e *testEnv) join(t *testing.T, clubID, userID snowflake.ID, privilege domain.Privilege) {
	t.Helper()
	role, err := e.repo.GetOrCreateRoleByPrivilege(context.Background(), clubID, privilege, e.node.Generate())
	require.NoError(t, err)
	require.NoError(t, e.repo.CreateMembership(context.Background(), domain.ClubMembership{
		ID:         e.node.Generate(),
		UserID:     userID,
		ClubRoleID: role.ID,
		Joined:     e.clk.Now(),
	}))
}

func TestCreateClubWithChannel(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	club, err := env.svc.Create(ctx, env.secretary(), domain.CreateClubRequest{
		Name:        "Chess Club",
		Description: "Weekly games",
	})
	require.NoError(t, err)
	assert.Equal(t, "Chess Club", club.Name)
	assert.Equal(t, "chess-club", club.Slug)

	channels, err := env.channels.List(ctx, 0, channeldomain.ListOptions{ClubID: club.ID})
	require.NoError(t, err)
	require.Len(t, channels, 1)
	assert.Equal(t, "Chess Club Channel", channels[0].Name)
}

func TestCreateClubSecretaryOnly(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Create(context.Background(), env.actor(), domain.CreateClubRequest{Name: "Chess Club"})
	assert.ErrorIs(t, err, authorization.ErrForbidden)
}

func TestCreateClubRequiresName(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Create(context.Background(), env.secretary(), domain.CreateClubRequest{Name: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidName)
}

func TestUpdateClubRepOrSecretary(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	secretary := env.secretary()

	club, err := env.svc.Create(ctx, secretary, domain.CreateClubRequest{Name: "Chess Club"})
	require.NoError(t, err)

	rep := env.actor()
	env.join(t, club.ID, rep.ID, domain.PrivilegeRep)
	member := env.actor()
	env.join(t, club.ID, member.ID, domain.PrivilegeMem)

	updated, err := env.svc.Update(ctx, rep, club.ID, domain.UpdateClubRequest{Name: "Chess Society"})
	require.NoError(t, err)
	assert.Equal(t, "Chess Society", updated.Name)
	// Renaming regenerates the slug.
	assert.Equal(t, "chess-society", updated.Slug)

	stored, err := env.repo.GetClub(ctx, club.ID)
	require.NoError(t, err)
	assert.Equal(t, "chess-society", stored.Slug)

	_, err = env.svc.Update(ctx, member, club.ID, domain.UpdateClubRequest{Name: "Chess Club"})
	assert.ErrorIs(t, err, authorization.ErrForbidden)
}

func TestDeleteClubSecretaryOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	secretary := env.secretary()

	club, err := env.svc.Create(ctx, secretary, domain.CreateClubRequest{Name: "Chess Club"})
	require.NoError(t, err)

	rep := env.actor()
	env.join(t, club.ID, rep.ID, domain.PrivilegeRep)

	err = env.svc.Delete(ctx, rep, club.ID)
	assert.ErrorIs(t, err, authorization.ErrForbidden)

	require.NoError(t, env.svc.Delete(ctx, secretary, club.ID))
	_, err = env.repo.GetClub(ctx, club.ID)
	assert.Error(t, err)
}

func TestEvaluateMembership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	club, err := env.svc.Create(ctx, env.secretary(), domain.CreateClubRequest{Name: "Chess Club"})
	require.NoError(t, err)

	rep := env.actor()
	env.join(t, club.ID, rep.ID, domain.PrivilegeRep)
	member := env.actor()
	env.join(t, club.ID, member.ID, domain.PrivilegeMem)
	outsider := env.actor()

	eval, err := env.svc.Evaluate(ctx, rep.ID, club.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.MembershipEval{IsMember: true, IsRep: true}, eval)
	assert.Equal(t, "Representative", eval.EffectivePrivilege().Display())

	eval, err = env.svc.Evaluate(ctx, member.ID, club.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.MembershipEval{IsMember: true}, eval)
	assert.Equal(t, "Member", eval.EffectivePrivilege().Display())

	eval, err = env.svc.Evaluate(ctx, outsider.ID, club.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.MembershipEval{}, eval)
	assert.Nil(t, eval.EffectivePrivilege())
}

func TestAddMemberReusesPrivilegeRole(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	club, err := env.svc.Create(ctx, env.secretary(), domain.CreateClubRequest{Name: "Chess Club"})
	require.NoError(t, err)

	first, err := env.svc.AddMember(ctx, club.ID, env.node.Generate(), domain.PrivilegeMem)
	require.NoError(t, err)
	second, err := env.svc.AddMember(ctx, club.ID, env.node.Generate(), domain.PrivilegeMem)
	require.NoError(t, err)
	assert.Equal(t, first.ClubRoleID, second.ClubRoleID)

	rep, err := env.svc.AddMember(ctx, club.ID, env.node.Generate(), domain.PrivilegeRep)
	require.NoError(t, err)
	assert.NotEqual(t, first.ClubRoleID, rep.ClubRoleID)

	role, err := env.repo.GetRole(ctx, first.ClubRoleID)
	require.NoError(t, err)
	assert.Equal(t, domain.PrivilegeMem, role.Privilege)
	assert.Equal(t, "Member", role.Name)
}

func TestUpdateMembershipUserImmutable(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	secretary := env.secretary()

	club, err := env.svc.Create(ctx, secretary, domain.CreateClubRequest{Name: "Chess Club"})
	require.NoError(t, err)
	membership, err := env.svc.AddMember(ctx, club.ID, env.node.Generate(), domain.PrivilegeMem)
	require.NoError(t, err)

	_, err = env.svc.UpdateMembership(ctx, secretary, membership.ID, domain.UpdateMembershipRequest{
		UserID:     env.node.Generate(),
		ClubRoleID: membership.ClubRoleID,
	})
	assert.ErrorIs(t, err, domain.ErrImmutableUser)
}

func TestUpdateMembershipRoleStaysInClub(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	secretary := env.secretary()

	chess, err := env.svc.Create(ctx, secretary, domain.CreateClubRequest{Name: "Chess Club"})
	require.NoError(t, err)
	debate, err := env.svc.Create(ctx, secretary, domain.CreateClubRequest{Name: "Debate Club"})
	require.NoError(t, err)

	membership, err := env.svc.AddMember(ctx, chess.ID, env.node.Generate(), domain.PrivilegeMem)
	require.NoError(t, err)

	foreignRole, err := env.repo.GetOrCreateRoleByPrivilege(ctx, debate.ID, domain.PrivilegeRep, env.node.Generate())
	require.NoError(t, err)
	_, err = env.svc.UpdateMembership(ctx, secretary, membership.ID, domain.UpdateMembershipRequest{
		ClubRoleID: foreignRole.ID,
	})
	assert.ErrorIs(t, err, domain.ErrRoleClubMismatch)

	// Promotion through the same club's representative role works.
	repRole, err := env.repo.GetOrCreateRoleByPrivilege(ctx, chess.ID, domain.PrivilegeRep, env.node.Generate())
	require.NoError(t, err)
	updated, err := env.svc.UpdateMembership(ctx, secretary, membership.ID, domain.UpdateMembershipRequest{
		ClubRoleID: repRole.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, repRole.ID, updated.ClubRoleID)
}

func TestListMembershipsScoping(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	secretary := env.secretary()

	chess, err := env.svc.Create(ctx, secretary, domain.CreateClubRequest{Name: "Chess Club"})
	require.NoError(t, err)
	debate, err := env.svc.Create(ctx, secretary, domain.CreateClubRequest{Name: "Debate Club"})
	require.NoError(t, err)

	member := env.actor()
	env.join(t, chess.ID, member.ID, domain.PrivilegeMem)
	env.join(t, debate.ID, env.actor().ID, domain.PrivilegeMem)

	// Members must name a club of theirs.
	_, err = env.svc.ListMemberships(ctx, member, domain.ListMembershipsOptions{})
	assert.ErrorIs(t, err, domain.ErrInvalidClub)
	_, err = env.svc.ListMemberships(ctx, member, domain.ListMembershipsOptions{ClubID: debate.ID})
	assert.ErrorIs(t, err, authorization.ErrForbidden)

	listed, err := env.svc.ListMemberships(ctx, member, domain.ListMembershipsOptions{ClubID: chess.ID})
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	// The secretary sees everything.
	listed, err = env.svc.ListMemberships(ctx, secretary, domain.ListMembershipsOptions{})
	require.NoError(t, err)
	assert.Len(t, listed, 2)
}

func TestCreateRoleValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	secretary := env.secretary()

	club, err := env.svc.Create(ctx, secretary, domain.CreateClubRequest{Name: "Chess Club"})
	require.NoError(t, err)
	rep := env.actor()
	env.join(t, club.ID, rep.ID, domain.PrivilegeRep)

	_, err = env.svc.CreateRole(ctx, rep, domain.CreateRoleRequest{
		ClubID:    club.ID,
		Name:      "Treasurer",
		Privilege: "OWNER",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidPrivilege)

	_, err = env.svc.CreateRole(ctx, rep, domain.CreateRoleRequest{
		ClubID:    env.node.Generate(),
		Name:      "Treasurer",
		Privilege: domain.PrivilegeMem,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidClub)

	role, err := env.svc.CreateRole(ctx, rep, domain.CreateRoleRequest{
		ClubID:    club.ID,
		Name:      "Treasurer",
		Privilege: domain.PrivilegeMem,
	})
	require.NoError(t, err)
	assert.Equal(t, "Treasurer", role.Name)

	member := env.actor()
	env.join(t, club.ID, member.ID, domain.PrivilegeMem)
	_, err = env.svc.CreateRole(ctx, member, domain.CreateRoleRequest{
		ClubID:    club.ID,
		Name:      "Historian",
		Privilege: domain.PrivilegeMem,
	})
	assert.ErrorIs(t, err, authorization.ErrForbidden)
}
