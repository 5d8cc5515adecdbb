package channel

import (
	"github.com/openclub/clubhub/internal/channel/repository"
	"github.com/openclub/clubhub/internal/channel/service"
	"go.uber.org/fx"
)

var Module = fx.Module("channel.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(repository.NewEvaluator),
	fx.Provide(service.NewService),
)
