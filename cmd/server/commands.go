package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"property-http-service/internal/app/routes"
	"property-http-service/internal/domain/services/container"
	"property-http-service/internal/infrastructure/cache"
	"property-http-service/internal/infrastructure/config"
	"property-http-service/internal/infrastructure/database"
	"property-http-service/internal/infrastructure/events"
	"property-http-service/internal/infrastructure/logger"
	"property-http-service/internal/utils"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the schema and the move history view",
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, _ := cmd.Flags().GetString("mode")

			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck

			if mode == "" {
				mode = cfg.DBMigrationMode
			}
			cfg.DBMigrationMode = mode

			pool, err := database.NewConnectionPool(cfg, log)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := database.Migrate(pool.GetDB(), mode); err != nil {
				return err
			}
			log.Info("migration completed", zap.String("mode", mode))
			return nil
		},
	}
	cmd.Flags().String("mode", "", "migration mode: auto, drop or none (default DB_MIGRATION_MODE)")
	return cmd
}

func checkDBCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-db",
		Short: "Print the database clock",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck

			pool, err := database.NewConnectionPool(cfg, log)
			if err != nil {
				return err
			}
			defer pool.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()
			now, err := pool.Now(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), now)
			return nil
		},
	}
}

func hashPasswordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print a bcrypt hash for ADMIN_PASSWORD_HASH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cost, _ := cmd.Flags().GetInt("cost")
			hash, err := utils.HashPassword(args[0], cost)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
	cmd.Flags().Int("cost", 0, "bcrypt cost (default 10)")
	return cmd
}

// bootstrap 加载配置并初始化日志
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.Setup(logger.Options{Level: cfg.LogLevel, Dir: cfg.LogDir})
	if err != nil {
		return nil, nil, fmt.Errorf("初始化日志配置失败: %w", err)
	}
	return cfg, log, nil
}

func runServe() error {
	// 设置最大处理器数量
	runtime.GOMAXPROCS(runtime.NumCPU())

	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	// 创建数据库连接池, 配置缺失时在这里失败
	pool, err := database.NewConnectionPool(cfg, log)
	if err != nil {
		log.Error("无法创建数据库连接池", zap.Error(err))
		return err
	}
	defer pool.Close()

	if err := database.Migrate(pool.GetDB(), cfg.DBMigrationMode); err != nil {
		log.Error("数据库迁移失败", zap.String("mode", cfg.DBMigrationMode), zap.Error(err))
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts, closeOptional, err := optionalComponents(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeOptional()

	serviceContainer := container.NewServiceContainer(pool, cfg, log, opts...)
	defer serviceContainer.Close()

	gin.SetMode(cfg.GinMode)
	r := routes.SetupRouter(serviceContainer)

	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.ServerPort,
		Handler:      r,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
	}

	printSystemInfo(log, pool)

	errCh := make(chan error, 1)
	go func() {
		log.Info("服务器启动", zap.String("addr", "http://"+srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			log.Error("启动服务器失败", zap.Error(err))
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("正在关闭服务器")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("服务器关闭失败", zap.Error(err))
		return err
	}
	return nil
}

// optionalComponents 按配置创建响应缓存和事件发布者
func optionalComponents(ctx context.Context, cfg *config.Config, log *zap.Logger) ([]container.Option, func(), error) {
	var (
		opts    []container.Option
		closers []func()
	)
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if cfg.CacheEnabled() {
		if cfg.RedisHost != "" {
			store, err := cache.NewRedisStore(ctx, cfg)
			if err != nil {
				closeAll()
				return nil, nil, fmt.Errorf("连接Redis失败: %w", err)
			}
			closers = append(closers, func() { _ = store.Close() })
			opts = append(opts, container.WithCache(store))
			log.Info("response cache enabled", zap.String("backend", "redis"), zap.Duration("ttl", cfg.CacheTTL))
		} else {
			opts = append(opts, container.WithCache(cache.NewMemoryStore()))
			log.Info("response cache enabled", zap.String("backend", "memory"), zap.Duration("ttl", cfg.CacheTTL))
		}
	}

	if cfg.EventsEnabled() {
		publisher, err := events.NewMQTTPublisher(cfg, log)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("连接MQTT失败: %w", err)
		}
		// 容器关闭时释放
		opts = append(opts, container.WithPublisher(publisher))
		log.Info("change events enabled", zap.String("broker", cfg.MQTTBrokerURL))
	}

	return opts, closeAll, nil
}

// printSystemInfo 打印系统信息
func printSystemInfo(log *zap.Logger, pool *database.ConnectionPool) {
	if stats, err := pool.Stats(); err == nil {
		log.Info("数据库连接池状态", zap.Any("stats", stats))
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	log.Info("系统信息",
		zap.Int("cpus", runtime.NumCPU()),
		zap.Int("goroutines", runtime.NumGoroutine()),
		zap.Uint64("alloc_mib", m.Alloc/1024/1024),
		zap.Uint64("sys_mib", m.Sys/1024/1024),
	)
}
