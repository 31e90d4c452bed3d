package subscription

import (
	"github.com/convertfy/backoffice/internal/subscription/repository"
	"github.com/convertfy/backoffice/internal/subscription/service"
	"go.uber.org/fx"
)

var Module = fx.Module("subscription.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
