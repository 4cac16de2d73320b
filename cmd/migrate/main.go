package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/samirrijal/areaselector/internal/pkg/config"
)

const migrationsGlob = "migrations/*.sql"

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: migrate <up|down|status>")
	}

	cfg, err := config.Load("areaselector-migrate")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	switch os.Args[1] {
	case "up":
		runMigrations(ctx, pool)
	case "down":
		dropTables(ctx, pool)
	case "status":
		printStatus(ctx, pool)
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
}

func migrationFiles() []string {
	files, err := filepath.Glob(migrationsGlob)
	if err != nil {
		log.Fatalf("glob migrations: %v", err)
	}
	sort.Strings(files)
	return files
}

func ensureVersionTable(ctx context.Context, pool *pgxpool.Pool) {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			name       TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		log.Fatalf("create schema_migrations: %v", err)
	}
}

func applied(ctx context.Context, pool *pgxpool.Pool) map[string]bool {
	rows, err := pool.Query(ctx, `SELECT name FROM schema_migrations`)
	if err != nil {
		log.Fatalf("read schema_migrations: %v", err)
	}
	defer rows.Close()

	done := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			log.Fatalf("scan schema_migrations: %v", err)
		}
		done[name] = true
	}
	return done
}

// runMigrations applies each pending file in its own transaction.
func runMigrations(ctx context.Context, pool *pgxpool.Pool) {
	ensureVersionTable(ctx, pool)
	done := applied(ctx, pool)

	for _, f := range migrationFiles() {
		name := filepath.Base(f)
		if done[name] {
			fmt.Printf("SKIP %s\n", name)
			continue
		}

		data, err := os.ReadFile(f)
		if err != nil {
			log.Fatalf("read %s: %v", f, err)
		}

		tx, err := pool.Begin(ctx)
		if err != nil {
			log.Fatalf("begin %s: %v", name, err)
		}
		if _, err := tx.Exec(ctx, string(data)); err != nil {
			_ = tx.Rollback(ctx)
			log.Fatalf("exec %s: %v", name, err)
		}
		if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (name) VALUES ($1)`, name); err != nil {
			_ = tx.Rollback(ctx)
			log.Fatalf("record %s: %v", name, err)
		}
		if err := tx.Commit(ctx); err != nil {
			log.Fatalf("commit %s: %v", name, err)
		}

		fmt.Printf("OK   %s\n", name)
	}

	log.Println("all migrations applied")
}

func printStatus(ctx context.Context, pool *pgxpool.Pool) {
	ensureVersionTable(ctx, pool)
	done := applied(ctx, pool)
	for _, f := range migrationFiles() {
		state := "pending"
		if done[filepath.Base(f)] {
			state = "applied"
		}
		fmt.Printf("%-8s %s\n", state, filepath.Base(f))
	}
}

func dropTables(ctx context.Context, pool *pgxpool.Pool) {
	_, err := pool.Exec(ctx, `
		DROP TABLE IF EXISTS polygon_exports;
		DROP TABLE IF EXISTS settings;
		DROP TABLE IF EXISTS schema_migrations;`)
	if err != nil {
		log.Fatalf("drop tables: %v", err)
	}
	log.Println("tables dropped")
}
