package conversation

import (
	"github.com/openclub/clubhub/internal/conversation/repository"
	"github.com/openclub/clubhub/internal/conversation/service"
	"go.uber.org/fx"
)

var Module = fx.Module("conversation.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
