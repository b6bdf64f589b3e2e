package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	sqlite3 "github.com/mattn/go-sqlite3"

	"sensorapi/internal/config"
)

// Open returns a pooled handle on the readings store. The store is owned by
// another system, so SQLite files are opened read-only and never created.
func Open(ctx context.Context, cfg config.Config, logger *slog.Logger) (*sql.DB, error) {
	dsn, err := buildDSN(cfg)
	if err != nil {
		return nil, err
	}

	var db *sql.DB
	if cfg.LogSQL {
		drv, err := driverFor(cfg.Driver)
		if err != nil {
			return nil, err
		}
		connector, err := NewLoggingConnector(drv, dsn, logger)
		if err != nil {
			return nil, err
		}
		db = sql.OpenDB(connector)
	} else {
		db, err = sql.Open(cfg.Driver, dsn)
		if err != nil {
			return nil, fmt.Errorf("db open: %w", err)
		}
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns >= 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	return db, nil
}

func Close(db *sql.DB) error {
	if db == nil {
		return nil
	}
	return db.Close()
}

func driverFor(name string) (driver.Driver, error) {
	switch name {
	case config.DriverSQLite:
		return &sqlite3.SQLiteDriver{}, nil
	case config.DriverMySQL:
		return mysql.MySQLDriver{}, nil
	default:
		return nil, fmt.Errorf("unsupported driver %q", name)
	}
}

func buildDSN(cfg config.Config) (string, error) {
	if cfg.DSN != "" {
		return cfg.DSN, nil
	}

	switch cfg.Driver {
	case config.DriverSQLite:
		return sqliteDSN(cfg.SQLitePath)
	case config.DriverMySQL:
		return mysqlDSN(cfg)
	default:
		return "", fmt.Errorf("unsupported driver %q", cfg.Driver)
	}
}

func sqliteDSN(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("sqlite path is empty")
	}
	// busy_timeout: the writer owning the file may hold the lock briefly.
	params := []string{
		"mode=ro",
		"_busy_timeout=5000",
	}

	if strings.HasPrefix(path, "file:") {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		return path + sep + strings.Join(params, "&"), nil
	}

	return fmt.Sprintf("file:%s?%s", path, strings.Join(params, "&")), nil
}

func mysqlDSN(cfg config.Config) (string, error) {
	if cfg.MySQLHost == "" {
		return "", fmt.Errorf("mysql host is empty")
	}
	mc := mysql.NewConfig()
	mc.User = cfg.MySQLUser
	mc.Passwd = cfg.MySQLPassword
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.MySQLHost, strconv.Itoa(cfg.MySQLPort))
	mc.DBName = cfg.MySQLDatabase
	// DATE and TIME columns stay textual; the repository handles both shapes.
	mc.ParseTime = false
	mc.Timeout = 5 * time.Second
	return mc.FormatDSN(), nil
}
