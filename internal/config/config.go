package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	DriverSQLite = "sqlite3"
	DriverMySQL  = "mysql"
)

type Config struct {
	AppEnv   string
	LogLevel slog.Level
	HTTPAddr string

	// Driver is the database/sql driver name: sqlite3 or mysql.
	Driver string
	// DSN, when set, is handed to the driver verbatim and the per-driver fields below are ignored.
	DSN             string
	SQLitePath      string
	MySQLHost       string
	MySQLPort       int
	MySQLUser       string
	MySQLPassword   string
	MySQLDatabase   string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	LogSQL          bool

	AuthUsername string
	AuthPassword string

	ReadingsMaxLimit int
}

// LoadFromEnv reads configuration from the environment. When CONFIG_FILE names
// a YAML or JSON file its keys (lower-cased variable names, e.g. http_addr) are
// loaded first and non-empty environment variables override them.
func LoadFromEnv() (Config, error) {
	k, err := load(strings.TrimSpace(os.Getenv("CONFIG_FILE")))
	if err != nil {
		return Config{}, err
	}

	appEnv := stringOr(k, "app_env", "dev")
	switch appEnv {
	case "dev", "prod":
	default:
		return Config{}, fmt.Errorf("invalid APP_ENV %q (allowed: dev, prod)", appEnv)
	}

	level, err := parseLogLevel(stringOr(k, "log_level", "info"))
	if err != nil {
		return Config{}, err
	}

	driver := stringOr(k, "db_driver", DriverSQLite)
	switch driver {
	case DriverSQLite, DriverMySQL:
	default:
		return Config{}, fmt.Errorf("invalid DB_DRIVER %q (allowed: %s, %s)", driver, DriverSQLite, DriverMySQL)
	}

	mysqlPort, err := intOr(k, "mysql_port", 3306)
	if err != nil {
		return Config{}, err
	}
	maxOpenConns, err := intOr(k, "db_max_open_conns", 4)
	if err != nil {
		return Config{}, err
	}
	maxIdleConns, err := intOr(k, "db_max_idle_conns", 2)
	if err != nil {
		return Config{}, err
	}

	// MySQL servers drop idle connections after wait_timeout.
	defaultLifetime := "0s"
	if driver == DriverMySQL {
		defaultLifetime = "3m"
	}
	connMaxLifetimeStr := stringOr(k, "db_conn_max_lifetime", defaultLifetime)
	connMaxLifetime, err := time.ParseDuration(connMaxLifetimeStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid DB_CONN_MAX_LIFETIME %q: %w", connMaxLifetimeStr, err)
	}

	logSQLStr := stringOr(k, "db_log_sql", "false")
	logSQL, err := strconv.ParseBool(logSQLStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid DB_LOG_SQL %q: %w", logSQLStr, err)
	}

	maxLimit, err := intOr(k, "readings_max_limit", 1000)
	if err != nil {
		return Config{}, err
	}
	if maxLimit <= 0 {
		return Config{}, fmt.Errorf("invalid READINGS_MAX_LIMIT %d: must be > 0", maxLimit)
	}

	username := stringOr(k, "auth_username", "")
	password := stringOr(k, "auth_password", "")
	if username == "" || password == "" {
		return Config{}, fmt.Errorf("AUTH_USERNAME and AUTH_PASSWORD must be set")
	}

	return Config{
		AppEnv:           appEnv,
		LogLevel:         level,
		HTTPAddr:         stringOr(k, "http_addr", ":8000"),
		Driver:           driver,
		DSN:              stringOr(k, "db_dsn", ""),
		SQLitePath:       stringOr(k, "sqlite_path", "readings.db"),
		MySQLHost:        stringOr(k, "mysql_host", "localhost"),
		MySQLPort:        mysqlPort,
		MySQLUser:        stringOr(k, "mysql_user", "root"),
		MySQLPassword:    stringOr(k, "mysql_password", ""),
		MySQLDatabase:    stringOr(k, "mysql_database", "tempandhumidity_readings"),
		MaxOpenConns:     maxOpenConns,
		MaxIdleConns:     maxIdleConns,
		ConnMaxLifetime:  connMaxLifetime,
		LogSQL:           logSQL,
		AuthUsername:     username,
		AuthPassword:     password,
		ReadingsMaxLimit: maxLimit,
	}, nil
}

func load(path string) (*koanf.Koanf, error) {
	k := koanf.New(".")
	if path != "" {
		var parser koanf.Parser = yaml.Parser()
		if strings.EqualFold(filepath.Ext(path), ".json") {
			parser = json.Parser()
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}
	// Empty variables are skipped so they fall back to the file or the default.
	err := k.Load(env.ProviderWithValue("", ".", func(key, value string) (string, interface{}) {
		if strings.TrimSpace(value) == "" {
			return "", nil
		}
		return strings.ToLower(key), value
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}
	return k, nil
}

func stringOr(k *koanf.Koanf, key, def string) string {
	v := strings.TrimSpace(k.String(key))
	if v == "" {
		return def
	}
	return v
}

func intOr(k *koanf.Koanf, key string, def int) (int, error) {
	s := stringOr(k, key, "")
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", strings.ToUpper(key), s, err)
	}
	return n, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}
