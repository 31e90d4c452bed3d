package revenue

import (
	"github.com/convertfy/backoffice/internal/revenue/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("revenue",
	fx.Provide(repository.Provide),
)
