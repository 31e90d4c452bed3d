package migration

import (
	"fmt"
	"testing"

	syncdomain "github.com/convertfy/backoffice/internal/sync/domain"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestAutoMigrateFallback(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, AutoMigrateFallback(db))

	for _, table := range []string{"users", "clients", "subscriptions", "sync_reports", "sync_locks", "revenues"} {
		require.True(t, db.Migrator().HasTable(table), "missing table %s", table)
	}

	var lock syncdomain.Lock
	require.NoError(t, db.First(&lock, "id = ?", syncdomain.LockID).Error)
	require.False(t, lock.Locked, "seeded lock must start released")

	// Booting again must not duplicate the lock row or reset a held lock.
	require.NoError(t, db.Model(&syncdomain.Lock{}).Where("id = ?", syncdomain.LockID).Update("locked", true).Error)
	require.NoError(t, AutoMigrateFallback(db))

	var count int64
	require.NoError(t, db.Model(&syncdomain.Lock{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
	require.NoError(t, db.First(&lock, "id = ?", syncdomain.LockID).Error)
	require.True(t, lock.Locked)
}
