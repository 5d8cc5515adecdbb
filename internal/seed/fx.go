package seed

import (
	"github.com/openclub/clubhub/internal/config"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// Module bootstraps the secretary account. Registered after migrations so
// the schema exists before the first write.
var Module = fx.Module("seed",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		return EnsureSecretary(conn, cfg)
	}),
)
