package db

import (
	"context"
	"fmt"
	"net/http"
	"regexp"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

type contextKey string

const (
	LocationIDKey contextKey = "location_id"
	DBConnKey     contextKey = "db_conn"
	DBTxKey       contextKey = "db_tx"
)

var locationIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// LocationMiddleware resolves the clinic location for each request and pins
// the request to a connection whose search_path points at that location's
// schema. Every location gets its own schema so bookings never cross sites.
func LocationMiddleware(pool *pgxpool.Pool, defaultLocation string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			locationID := extractLocationID(c, defaultLocation)

			if !locationIDPattern.MatchString(locationID) {
				return echo.NewHTTPError(http.StatusBadRequest, "invalid location identifier")
			}

			ctx := c.Request().Context()
			conn, err := pool.Acquire(ctx)
			if err != nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "database unavailable")
			}
			defer conn.Release()

			schema := fmt.Sprintf("location_%s", locationID)
			_, err = conn.Exec(ctx, fmt.Sprintf("SET search_path TO %s, shared, public", schema))
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "location resolution failed")
			}

			ctx = context.WithValue(ctx, LocationIDKey, locationID)
			ctx = context.WithValue(ctx, DBConnKey, conn)
			c.SetRequest(c.Request().WithContext(ctx))
			c.Set("location_id", locationID)
			c.Set("db", conn)

			return next(c)
		}
	}
}

func extractLocationID(c echo.Context, defaultLocation string) string {
	// 1. Check X-Location-ID header
	if lid := c.Request().Header.Get("X-Location-ID"); lid != "" {
		return lid
	}

	// 2. Check query parameter
	if lid := c.QueryParam("location_id"); lid != "" {
		return lid
	}

	return defaultLocation
}

// ConnFromContext retrieves the location-scoped database connection from context.
func ConnFromContext(ctx context.Context) *pgxpool.Conn {
	conn, _ := ctx.Value(DBConnKey).(*pgxpool.Conn)
	return conn
}

// LocationFromContext retrieves the location ID from context.
func LocationFromContext(ctx context.Context) string {
	lid, _ := ctx.Value(LocationIDKey).(string)
	return lid
}

// TxFromContext retrieves an open transaction from context, if any.
func TxFromContext(ctx context.Context) pgx.Tx {
	tx, _ := ctx.Value(DBTxKey).(pgx.Tx)
	return tx
}

// WithTx begins a transaction on the request's location-scoped connection
// and returns a derived context carrying it. The caller owns commit and
// rollback.
func WithTx(ctx context.Context) (context.Context, pgx.Tx, error) {
	conn := ConnFromContext(ctx)
	if conn == nil {
		return ctx, nil, fmt.Errorf("no database connection in context")
	}
	tx, err := conn.Begin(ctx)
	if err != nil {
		return ctx, nil, fmt.Errorf("begin transaction: %w", err)
	}
	return context.WithValue(ctx, DBTxKey, tx), tx, nil
}

// CreateLocationSchema creates a new schema for a clinic location and runs all
// migrations against it. The migrationsDir parameter specifies the directory
// containing migration SQL files. If migrationsDir is empty, migrations are
// skipped.
func CreateLocationSchema(ctx context.Context, pool *pgxpool.Pool, locationID string, migrationsDir string) error {
	if !locationIDPattern.MatchString(locationID) {
		return fmt.Errorf("invalid location identifier: %s", locationID)
	}

	schema := fmt.Sprintf("location_%s", locationID)

	conn, err := pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", schema))
	if err != nil {
		return fmt.Errorf("create schema %s: %w", schema, err)
	}

	if migrationsDir != "" {
		migrator := NewMigrator(pool, migrationsDir)
		if _, err := migrator.Up(ctx, schema); err != nil {
			return fmt.Errorf("run migrations for %s: %w", schema, err)
		}
	}

	return nil
}
