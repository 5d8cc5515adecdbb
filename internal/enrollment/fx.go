package enrollment

import (
	"github.com/openclub/clubhub/internal/enrollment/repository"
	"github.com/openclub/clubhub/internal/enrollment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("enrollment.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
