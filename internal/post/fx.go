package post

import (
	"github.com/openclub/clubhub/internal/post/repository"
	"github.com/openclub/clubhub/internal/post/service"
	"go.uber.org/fx"
)

var Module = fx.Module("post.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
