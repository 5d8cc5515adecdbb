package project

import (
	"github.com/openclub/clubhub/internal/project/repository"
	"github.com/openclub/clubhub/internal/project/service"
	"go.uber.org/fx"
)

var Module = fx.Module("project.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(repository.NewEvaluator),
	fx.Provide(service.NewService),
)
