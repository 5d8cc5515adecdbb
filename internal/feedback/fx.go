package feedback

import (
	"github.com/openclub/clubhub/internal/feedback/repository"
	"github.com/openclub/clubhub/internal/feedback/service"
	"go.uber.org/fx"
)

var Module = fx.Module("feedback.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(repository.NewEvaluator),
	fx.Provide(service.NewService),
)
