package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"sensorapi/internal/config"
	db "sensorapi/internal/db"
	httpapi "sensorapi/internal/httpapi"
	"sensorapi/internal/metrics"
	auth "sensorapi/internal/modules/auth"
	authservice "sensorapi/internal/modules/auth/service"
	readings "sensorapi/internal/modules/readings"
)

func Run(ctx context.Context, cfg config.Config) error {
	slog.Info("config loaded",
		"appEnv", cfg.AppEnv,
		"logLevel", cfg.LogLevel.String(),
		"httpAddr", cfg.HTTPAddr,
		"dbDriver", cfg.Driver,
		"dbDSNSet", cfg.DSN != "",
		"sqlitePath", cfg.SQLitePath,
		"mysqlHost", cfg.MySQLHost,
		"mysqlPort", cfg.MySQLPort,
		"mysqlDatabase", cfg.MySQLDatabase,
		"dbMaxOpenConns", cfg.MaxOpenConns,
		"dbMaxIdleConns", cfg.MaxIdleConns,
		"dbConnMaxLifetime", cfg.ConnMaxLifetime,
		"dbLogSQL", cfg.LogSQL,
		"readingsMaxLimit", cfg.ReadingsMaxLimit,
	)
	dbConn, err := db.Open(ctx, cfg, slog.Default())
	if err != nil {
		return err
	}
	defer func() {
		closeErr := db.Close(dbConn)
		if closeErr != nil {
			slog.Error("db close", "error", closeErr)
		}
	}()

	var ok int
	err = dbConn.QueryRowContext(ctx, `SELECT 1`).Scan(&ok)
	if err != nil {
		return err
	}
	if ok != 1 {
		return errors.New("database connection failed")
	}
	slog.Info("database connection successful")

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(dbConn, cfg.Driver),
	)
	m, err := metrics.New(reg)
	if err != nil {
		return err
	}

	gate := authservice.NewGate(cfg.AuthUsername, cfg.AuthPassword, m)
	mux := httpapi.NewMux(dbConn, reg)
	auth.RegisterFeature(mux, gate)
	readings.RegisterFeature(mux, dbConn, gate, m, cfg.ReadingsMaxLimit)

	srv := httpapi.NewServer(cfg, mux, m)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http listening", "addr", cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	slog.Info("http shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	err = <-errCh
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return ctx.Err()
}
