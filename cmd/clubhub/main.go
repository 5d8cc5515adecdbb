package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/openclub/clubhub/internal/clock"
	"github.com/openclub/clubhub/internal/config"
	"github.com/openclub/clubhub/internal/logger"
	"github.com/openclub/clubhub/internal/migration"
	"github.com/openclub/clubhub/internal/seed"
	"github.com/openclub/clubhub/internal/server"
	"github.com/openclub/clubhub/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		server.Module,
		migration.Module,
		seed.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
