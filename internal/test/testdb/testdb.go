// Package testdb 提供测试用的 SQLite 内存数据库, 表结构与生产迁移一致
package testdb

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"property-http-service/internal/infrastructure/database"
)

// Open 创建独立的内存数据库并完成迁移, 测试结束时关闭
func Open(t testing.TB) *database.ConnectionPool {
	t.Helper()

	// 共享缓存保证池内不同连接看到同一个内存库, 外键约束与生产库一致
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return database.NewConnectionPoolWithDB(db, zap.NewNop())
}
