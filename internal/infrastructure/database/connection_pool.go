package database

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"property-http-service/internal/error/apperror"
	"property-http-service/internal/infrastructure/config"
	"property-http-service/internal/infrastructure/logger"
)

// ConnectionPool 数据库连接池管理
type ConnectionPool struct {
	DB              *gorm.DB
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration

	log *zap.Logger
}

// NewConnectionPool 校验配置并创建数据库连接池, 配置缺失时不会尝试连接
func NewConnectionPool(cfg *config.Config, log *zap.Logger) (*ConnectionPool, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := registerTrust(cfg); err != nil {
		return nil, err
	}

	log.Info("connecting to database",
		zap.String("driver", cfg.DBDriver),
		zap.String("host", cfg.DBHost),
		zap.String("port", cfg.DBPort),
		zap.String("user", cfg.DBUser),
		zap.String("database", cfg.DBName),
		zap.Bool("ssl", cfg.DBSSLCA != ""),
	)

	// 创建数据库连接
	// 每个操作只有一条语句, 不需要默认事务
	db, err := gorm.Open(dialector(cfg), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.NewGormLogger(log, gormlogger.Warn),
	})
	if err != nil {
		return nil, apperror.Connection("open database", err)
	}

	pool := &ConnectionPool{
		DB:              db,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		ConnMaxIdleTime: 30 * time.Minute, // 空闲连接最大生命周期
		log:             log,
	}

	// 初始化连接池配置
	if err := pool.ConfigurePool(); err != nil {
		_ = pool.Close()
		return nil, apperror.Connection("connect database", err)
	}
	return pool, nil
}

// NewConnectionPoolWithDB 包装已打开的数据库
func NewConnectionPoolWithDB(db *gorm.DB, log *zap.Logger) *ConnectionPool {
	return &ConnectionPool{DB: db, log: log}
}

func dialector(cfg *config.Config) gorm.Dialector {
	if cfg.DBDriver == config.DriverPostgres {
		return postgres.Open(cfg.GetDSN())
	}
	return mysql.Open(cfg.GetDSN())
}

// registerTrust 读取 DB_SSL_CA 并注册到 MySQL 驱动
func registerTrust(cfg *config.Config) error {
	if cfg.DBSSLCA == "" {
		return nil
	}
	pem, err := os.ReadFile(cfg.DBSSLCA)
	if err != nil {
		return &apperror.ConfigError{Reason: fmt.Sprintf("cannot read DB_SSL_CA: %v", err)}
	}
	if cfg.DBDriver != config.DriverMySQL {
		// postgres 通过 sslrootcert 直接读取文件
		return nil
	}

	roots := x509.NewCertPool()
	if !roots.AppendCertsFromPEM(pem) {
		return &apperror.ConfigError{Reason: "DB_SSL_CA contains no PEM certificates"}
	}
	return mysqldriver.RegisterTLSConfig(config.MySQLTLSConfigName, &tls.Config{
		RootCAs:    roots,
		ServerName: cfg.DBHost,
		MinVersion: tls.VersionTLS12,
	})
}

// ConfigurePool 配置连接池参数
func (p *ConnectionPool) ConfigurePool() error {
	// 获取底层SQL连接
	sqlDB, err := p.DB.DB()
	if err != nil {
		return err
	}

	// 设置连接池参数
	sqlDB.SetMaxIdleConns(p.MaxIdleConns)
	sqlDB.SetMaxOpenConns(p.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(p.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(p.ConnMaxIdleTime)

	// 测试连接
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return err
	}

	p.log.Info("数据库连接池已配置",
		zap.Int("max_idle_conns", p.MaxIdleConns),
		zap.Int("max_open_conns", p.MaxOpenConns),
	)
	return nil
}

// WithConnection 从连接池取出一个独占连接执行 fn, 任何退出路径(包括 panic)都会归还连接
func (p *ConnectionPool) WithConnection(ctx context.Context, fn func(tx *gorm.DB) error) error {
	called := false
	err := p.DB.WithContext(ctx).Connection(func(tx *gorm.DB) error {
		called = true
		return fn(tx.Session(&gorm.Session{NewDB: true}))
	})
	if err != nil && !called {
		return apperror.Store("acquire connection", err)
	}
	return err
}

// Stats 获取连接池统计信息
func (p *ConnectionPool) Stats() (map[string]interface{}, error) {
	sqlDB, err := p.DB.DB()
	if err != nil {
		return nil, err
	}

	stats := sqlDB.Stats()
	return map[string]interface{}{
		"max_open_connections": stats.MaxOpenConnections,
		"open_connections":     stats.OpenConnections,
		"in_use":               stats.InUse,
		"idle":                 stats.Idle,
		"wait_count":           stats.WaitCount,
		"wait_duration":        stats.WaitDuration.String(),
		"max_idle_closed":      stats.MaxIdleClosed,
		"max_lifetime_closed":  stats.MaxLifetimeClosed,
	}, nil
}

// InUse 当前被借出的连接数
func (p *ConnectionPool) InUse() int {
	sqlDB, err := p.DB.DB()
	if err != nil {
		return 0
	}
	return sqlDB.Stats().InUse
}

// GetDB 获取数据库连接
func (p *ConnectionPool) GetDB() *gorm.DB {
	return p.DB
}

// Close 关闭连接池
func (p *ConnectionPool) Close() error {
	sqlDB, err := p.DB.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

// HealthCheck 健康检查
func (p *ConnectionPool) HealthCheck(ctx context.Context) error {
	sqlDB, err := p.DB.DB()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return apperror.Store("ping database", err)
	}
	return nil
}

// Now 读取数据库时钟
func (p *ConnectionPool) Now(ctx context.Context) (string, error) {
	var now string
	err := p.WithConnection(ctx, func(tx *gorm.DB) error {
		var err error
		now, err = CurrentTime(tx)
		return err
	})
	return now, err
}

// CurrentTime 在给定连接上读取数据库时钟
func CurrentTime(tx *gorm.DB) (string, error) {
	query := "SELECT NOW()"
	if tx.Dialector.Name() == "sqlite" {
		query = "SELECT CURRENT_TIMESTAMP"
	}

	var now string
	if err := tx.Raw(query).Scan(&now).Error; err != nil {
		return "", apperror.Store("read database clock", err)
	}
	return now, nil
}
