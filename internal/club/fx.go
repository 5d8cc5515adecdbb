package club

import (
	"github.com/openclub/clubhub/internal/club/repository"
	"github.com/openclub/clubhub/internal/club/service"
	"go.uber.org/fx"
)

var Module = fx.Module("club.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(repository.NewEvaluator),
	fx.Provide(service.NewService),
)
