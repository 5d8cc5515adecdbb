package migration

import (
	authdomain "github.com/openclub/clubhub/internal/auth/domain"
	channeldomain "github.com/openclub/clubhub/internal/channel/domain"
	clubdomain "github.com/openclub/clubhub/internal/club/domain"
	"github.com/openclub/clubhub/internal/config"
	conversationdomain "github.com/openclub/clubhub/internal/conversation/domain"
	enrollmentdomain "github.com/openclub/clubhub/internal/enrollment/domain"
	feedbackdomain "github.com/openclub/clubhub/internal/feedback/domain"
	postdomain "github.com/openclub/clubhub/internal/post/domain"
	projectdomain "github.com/openclub/clubhub/internal/project/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			return RunMigrations(sqlDB)
		}
		return AutoMigrate(conn)
	}),
)

// AutoMigrate builds the schema from the models for the non-postgres
// dialects, where the SQL migrations do not apply.
func AutoMigrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&authdomain.User{},
		&clubdomain.Club{},
		&channeldomain.Channel{},
		&clubdomain.ClubRole{},
		&clubdomain.ClubMembership{},
		&enrollmentdomain.MembershipRequest{},
		&channeldomain.ChannelSubscription{},
		&projectdomain.Project{},
		&projectdomain.ClubProject{},
		&projectdomain.ProjectMembership{},
		&postdomain.Post{},
		&conversationdomain.Conversation{},
		&feedbackdomain.Feedback{},
		&feedbackdomain.FeedbackReply{},
	)
}
