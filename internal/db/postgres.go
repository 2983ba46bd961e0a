package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/AngelReyesZN/FoodStack-sub000/internal/obs"
)

type PostgresDB struct {
	Conn *sql.DB
}

func NewPostgresDB(host string, port int, user, password, dbname string) (*PostgresDB, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname,
	)

	conn, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	obs.Logger.Info("connected to postgres", "host", host, "port", port, "db", dbname)
	return &PostgresDB{Conn: conn}, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id           TEXT PRIMARY KEY,
		nombre       TEXT NOT NULL,
		precio       NUMERIC(12,2) NOT NULL,
		cantidad     INTEGER NOT NULL CHECK (cantidad >= 0),
		categoria    TEXT NOT NULL DEFAULT '',
		vendedor_ref TEXT NOT NULL,
		status_view  BOOLEAN NOT NULL DEFAULT TRUE,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS products_vendedor_idx ON products (vendedor_ref)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id              TEXT PRIMARY KEY,
		producto_ref    TEXT NOT NULL,
		vendedor_ref    TEXT NOT NULL,
		comprador_ref   TEXT NOT NULL,
		cantidad        INTEGER NOT NULL CHECK (cantidad > 0),
		precio_unitario NUMERIC(12,2) NOT NULL,
		metodo_pago     TEXT NOT NULL,
		instrucciones   TEXT NOT NULL DEFAULT '',
		total_pagado    NUMERIC(14,2) NOT NULL,
		fecha           TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS reviews (
		id                  TEXT PRIMARY KEY,
		producto_ref        TEXT NOT NULL,
		usuario_ref         TEXT NOT NULL,
		calificacion_resena INTEGER NOT NULL CHECK (calificacion_resena BETWEEN 1 AND 5),
		comentario          TEXT NOT NULL DEFAULT '',
		fecha_resena        TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS reviews_producto_idx ON reviews (producto_ref)`,
	`CREATE TABLE IF NOT EXISTS user_favoritos (
		usuario_ref  TEXT NOT NULL,
		producto_ref TEXT NOT NULL,
		PRIMARY KEY (usuario_ref, producto_ref)
	)`,
	`CREATE TABLE IF NOT EXISTS notifications (
		id          TEXT PRIMARY KEY,
		usuario_ref TEXT NOT NULL,
		mensaje     TEXT NOT NULL,
		fecha       TIMESTAMPTZ NOT NULL,
		leida       BOOLEAN NOT NULL DEFAULT FALSE
	)`,
}

// Migrate creates the tables used by the service if they do not exist yet
func (db *PostgresDB) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := db.Conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

// Check pings the database
func (db *PostgresDB) Check(ctx context.Context) error {
	return db.Conn.PingContext(ctx)
}

func (db *PostgresDB) Close() error {
	return db.Conn.Close()
}
