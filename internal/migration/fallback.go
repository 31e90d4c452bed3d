package migration

import (
	"fmt"

	clientdomain "github.com/convertfy/backoffice/internal/client/domain"
	revenuedomain "github.com/convertfy/backoffice/internal/revenue/domain"
	subdomain "github.com/convertfy/backoffice/internal/subscription/domain"
	syncdomain "github.com/convertfy/backoffice/internal/sync/domain"
	userdomain "github.com/convertfy/backoffice/internal/user/domain"
	"gorm.io/gorm"
)

// AutoMigrateFallback builds the schema through gorm for the dialects the
// SQL migrations do not cover (sqlite, mysql) and seeds the singleton
// sync lock row. Without the lock row the engine's compare-and-set claim
// would never match and sync could not start.
func AutoMigrateFallback(conn *gorm.DB) error {
	if err := conn.AutoMigrate(
		&userdomain.User{},
		&clientdomain.Client{},
		&subdomain.Subscription{},
		&syncdomain.Report{},
		&syncdomain.Lock{},
		&revenuedomain.Revenue{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	lock := syncdomain.Lock{ID: syncdomain.LockID}
	if err := conn.Where(syncdomain.Lock{ID: syncdomain.LockID}).FirstOrCreate(&lock).Error; err != nil {
		return fmt.Errorf("seed sync lock: %w", err)
	}
	return nil
}
