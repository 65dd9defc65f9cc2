package app

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	semconv "go.opentelemetry.io/otel/semconv/v1.12.0"

	"github.com/ticketagent/marketplace/internal/config"
	"github.com/ticketagent/marketplace/internal/platform/logging"
)

// OpenDatabase connects to postgres with OpenTelemetry instrumentation
// on every query.
func OpenDatabase(cfg config.Config, logger *logging.Logger) (*sqlx.DB, error) {
	if logger == nil {
		logger = logging.Default()
	}

	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
	db, err := otelsqlx.Connect("postgres", dsn,
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	logger.Info("database connected", "db_name", dbNameFromURL(cfg.DBURL))

	return db, nil
}
