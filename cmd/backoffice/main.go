package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/convertfy/backoffice/internal/clock"
	"github.com/convertfy/backoffice/internal/config"
	"github.com/convertfy/backoffice/internal/logger"
	"github.com/convertfy/backoffice/internal/migration"
	"github.com/convertfy/backoffice/internal/server"
	"github.com/convertfy/backoffice/pkg/db"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		clock.Module,
		fx.Provide(newSnowflakeNode),
		db.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func newSnowflakeNode(cfg config.Config) (*snowflake.Node, error) {
	return snowflake.NewNode(cfg.NodeID)
}
