package sync

import (
	"context"

	"github.com/convertfy/backoffice/internal/sync/domain"
	"github.com/convertfy/backoffice/internal/sync/repository"
	"github.com/convertfy/backoffice/internal/sync/service"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("sync.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
	fx.Invoke(registerRecovery),
)

// registerRecovery sweeps stale running reports once on startup.
func registerRecovery(lc fx.Lifecycle, svc domain.Service, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			recoverer, ok := svc.(interface{ RecoverStale(context.Context) error })
			if !ok {
				return nil
			}
			if err := recoverer.RecoverStale(ctx); err != nil {
				log.Named("sync.service").Warn("stale report recovery failed", zap.Error(err))
			}
			return nil
		},
	})
}
