package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"strings"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"property-http-service/internal/error/apperror"
)

// 支持的数据库驱动
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// 数据库迁移模式
const (
	MigrationAuto = "auto" // 自动创建或升级表结构
	MigrationDrop = "drop" // 删除后重建
	MigrationNone = "none" // 不做迁移
)

// MySQLTLSConfigName 注册到 MySQL 驱动的 TLS 配置名
const MySQLTLSConfigName = "property-db-ca"

// Config stores all configuration of the application
type Config struct {
	// Database
	DBDriver          string
	DBHost            string
	DBPort            string
	DBUser            string
	DBPassword        string
	DBName            string
	DBSSLCA           string // CA 证书路径, 设置后启用 TLS
	DBMigrationMode   string // 数据库迁移模式: "auto"(默认), "drop"(删除重建), "none"
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration

	// Server
	ServerPort         string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	GinMode            string

	// Logging
	LogLevel string
	LogDir   string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration // 为 0 时关闭响应缓存

	// MQTT配置
	MQTTBrokerURL   string // MQTT服务器地址，如 tcp://broker.example.com:1883, 为空时不发布事件
	MQTTClientID    string
	MQTTUsername    string
	MQTTPassword    string
	MQTTTopicPrefix string

	// JWT Authentication, 为空时关闭鉴权
	JWTSecretKey      string
	JWTExpiration     time.Duration
	AdminUsername     string
	AdminPasswordHash string // bcrypt 哈希

	// Rate limiting
	RateLimitRPS   float64
	RateLimitBurst int
}

// Load reads .env (if present) and the process environment
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}
	return FromViper(newViper()), nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("DB_DRIVER", DriverMySQL)
	v.SetDefault("DB_PORT", "3306")
	v.SetDefault("DB_MIGRATION_MODE", MigrationAuto)
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_CONN_MAX_LIFETIME", time.Hour)

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_READ_TIMEOUT", 15*time.Second)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 15*time.Second)
	v.SetDefault("GIN_MODE", "release")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_DIR", "logs")

	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_TTL", time.Duration(0))

	v.SetDefault("MQTT_CLIENT_ID", "property-http-service")
	v.SetDefault("MQTT_TOPIC_PREFIX", "property")

	v.SetDefault("JWT_EXPIRATION", 24*time.Hour)
	v.SetDefault("ADMIN_USERNAME", "admin")

	v.SetDefault("RATE_LIMIT_RPS", 20.0)
	v.SetDefault("RATE_LIMIT_BURST", 40)
	return v
}

// FromViper builds a Config from an already populated viper instance
func FromViper(v *viper.Viper) *Config {
	return &Config{
		DBDriver:          strings.ToLower(strings.TrimSpace(v.GetString("DB_DRIVER"))),
		DBHost:            v.GetString("DB_HOST"),
		DBPort:            v.GetString("DB_PORT"),
		DBUser:            v.GetString("DB_USER"),
		DBPassword:        v.GetString("DB_PASSWORD"),
		DBName:            v.GetString("DB_NAME"),
		DBSSLCA:           v.GetString("DB_SSL_CA"),
		DBMigrationMode:   strings.ToLower(v.GetString("DB_MIGRATION_MODE")),
		DBMaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
		DBMaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
		DBConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),

		ServerPort:         v.GetString("SERVER_PORT"),
		ServerReadTimeout:  v.GetDuration("SERVER_READ_TIMEOUT"),
		ServerWriteTimeout: v.GetDuration("SERVER_WRITE_TIMEOUT"),
		GinMode:            v.GetString("GIN_MODE"),

		LogLevel: v.GetString("LOG_LEVEL"),
		LogDir:   v.GetString("LOG_DIR"),

		RedisHost:     v.GetString("REDIS_HOST"),
		RedisPort:     v.GetString("REDIS_PORT"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		RedisDB:       v.GetInt("REDIS_DB"),
		CacheTTL:      v.GetDuration("CACHE_TTL"),

		MQTTBrokerURL:   v.GetString("MQTT_BROKER_URL"),
		MQTTClientID:    v.GetString("MQTT_CLIENT_ID"),
		MQTTUsername:    v.GetString("MQTT_USERNAME"),
		MQTTPassword:    v.GetString("MQTT_PASSWORD"),
		MQTTTopicPrefix: strings.Trim(v.GetString("MQTT_TOPIC_PREFIX"), "/"),

		JWTSecretKey:      v.GetString("JWT_SECRET_KEY"),
		JWTExpiration:     v.GetDuration("JWT_EXPIRATION"),
		AdminUsername:     v.GetString("ADMIN_USERNAME"),
		AdminPasswordHash: v.GetString("ADMIN_PASSWORD_HASH"),

		RateLimitRPS:   v.GetFloat64("RATE_LIMIT_RPS"),
		RateLimitBurst: v.GetInt("RATE_LIMIT_BURST"),
	}
}

// Validate 检查数据库连接所需的配置, 一次性列出全部缺失项
func (c *Config) Validate() error {
	var missing []string
	for _, item := range []struct {
		key   string
		value string
	}{
		{"DB_HOST", c.DBHost},
		{"DB_USER", c.DBUser},
		{"DB_PASSWORD", c.DBPassword},
		{"DB_NAME", c.DBName},
	} {
		if strings.TrimSpace(item.value) == "" {
			missing = append(missing, item.key)
		}
	}
	if len(missing) > 0 {
		return &apperror.ConfigError{Missing: missing}
	}

	switch c.DBDriver {
	case DriverMySQL, DriverPostgres:
	default:
		return &apperror.ConfigError{Reason: fmt.Sprintf("unsupported DB_DRIVER %q", c.DBDriver)}
	}

	switch c.DBMigrationMode {
	case MigrationAuto, MigrationDrop, MigrationNone:
	default:
		return &apperror.ConfigError{Reason: fmt.Sprintf("unsupported DB_MIGRATION_MODE %q", c.DBMigrationMode)}
	}
	return nil
}

// GetDSN returns the database connection string
func (c *Config) GetDSN() string {
	if c.DBDriver == DriverPostgres {
		// URL 形式, 凭据中的空格、引号等由 net/url 转义
		query := url.Values{}
		query.Set("TimeZone", "UTC")
		query.Set("sslmode", "disable")
		if c.DBSSLCA != "" {
			query.Set("sslmode", "verify-full")
			query.Set("sslrootcert", c.DBSSLCA)
		}
		dsn := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(c.DBUser, c.DBPassword),
			Host:     net.JoinHostPort(c.DBHost, c.DBPort),
			Path:     "/" + c.DBName,
			RawQuery: query.Encode(),
		}
		return dsn.String()
	}

	mc := mysqldriver.NewConfig()
	mc.User = c.DBUser
	mc.Passwd = c.DBPassword
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(c.DBHost, c.DBPort)
	mc.DBName = c.DBName
	mc.ParseTime = true
	mc.Loc = time.Local
	mc.AllowNativePasswords = true
	// 未修改的行也计入 RowsAffected, 避免更新相同值时误报不存在
	mc.ClientFoundRows = true
	mc.Params = map[string]string{"charset": "utf8mb4"}
	if c.DBSSLCA != "" {
		mc.TLSConfig = MySQLTLSConfigName
	}
	return mc.FormatDSN()
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return net.JoinHostPort(c.RedisHost, c.RedisPort)
}

// CacheEnabled 是否启用响应缓存
func (c *Config) CacheEnabled() bool {
	return c.CacheTTL > 0
}

// EventsEnabled 是否发布变更事件
func (c *Config) EventsEnabled() bool {
	return c.MQTTBrokerURL != ""
}

// AuthEnabled 是否启用鉴权
func (c *Config) AuthEnabled() bool {
	return c.JWTSecretKey != ""
}
