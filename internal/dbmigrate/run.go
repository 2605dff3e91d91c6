package dbmigrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"

	"github.com/pressly/goose/v3"

	_ "github.com/jackc/pgx/v5/stdlib"
)

//go:embed migrations/*.sql
var embedded embed.FS

// Commands lists the goose commands accepted by Run.
var Commands = []string{"up", "down", "status", "version", "redo", "reset"}

// Run applies a goose command against dbURL. An empty migrationsDir uses the
// migrations compiled into the binary; otherwise files are read from disk.
func Run(ctx context.Context, command string, dbURL string, migrationsDir string) error {
	if dbURL == "" {
		return fmt.Errorf("database URL is empty")
	}
	if !IsCommand(command) {
		return fmt.Errorf("unsupported command %q", command)
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	fsys, dir, err := migrationsFS(migrationsDir)
	if err != nil {
		return err
	}
	goose.SetBaseFS(fsys)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.RunContext(ctx, command, db, dir); err != nil {
		return fmt.Errorf("goose %s failed: %w", command, err)
	}

	return nil
}

// IsCommand reports whether command is supported.
func IsCommand(command string) bool {
	for _, c := range Commands {
		if c == command {
			return true
		}
	}
	return false
}

func migrationsFS(dir string) (fs.FS, string, error) {
	if dir == "" {
		return embedded, DefaultMigrationsDir, nil
	}
	if _, err := os.Stat(dir); err != nil {
		return nil, "", fmt.Errorf("migrations dir: %w", err)
	}
	return os.DirFS(dir), ".", nil
}

// Embedded returns the migration files compiled into the binary.
func Embedded() ([]string, error) {
	return fs.Glob(embedded, DefaultMigrationsDir+"/*.sql")
}
