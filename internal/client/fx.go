package client

import (
	"github.com/convertfy/backoffice/internal/client/repository"
	"github.com/convertfy/backoffice/internal/client/service"
	"go.uber.org/fx"
)

var Module = fx.Module("client.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
