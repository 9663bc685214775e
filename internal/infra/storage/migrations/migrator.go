package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"

	"github.com/m04kA/AppointmentService/pkg/dbmetrics"
)

//go:embed sql/*.sql
var files embed.FS

var (
	// ErrLoadMigrations возвращается, если не удалось прочитать файлы миграций
	ErrLoadMigrations = errors.New("migrations: failed to load migrations")

	// ErrApplyMigration возвращается, если миграция не применилась
	ErrApplyMigration = errors.New("migrations: failed to apply migration")
)

const createVersionsTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
    version    INTEGER PRIMARY KEY,
    name       VARCHAR(255) NOT NULL,
    applied_at TIMESTAMPTZ  NOT NULL DEFAULT NOW()
)`

// Migration одна SQL миграция из встроенного каталога sql/
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// DB соединение, умеющее открывать транзакции (*dbmetrics.DB)
type DB interface {
	dbmetrics.DBExecutor
	BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
}

// Migrator применяет встроенные миграции по порядку версий
type Migrator struct {
	db     DB
	logger Logger
}

// NewMigrator создает новый мигратор
func NewMigrator(db DB, logger Logger) *Migrator {
	return &Migrator{db: db, logger: logger}
}

// Load читает файлы вида 001_name.sql и сортирует их по версии
// Файлы без числового префикса пропускаются
func Load() ([]Migration, error) {
	entries, err := fs.ReadDir(files, "sql")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadMigrations, err)
	}

	var result []Migration
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}

		parts := strings.SplitN(name, "_", 2)
		if len(parts) < 2 {
			continue
		}

		version, err := strconv.Atoi(parts[0])
		if err != nil {
			continue
		}

		content, err := fs.ReadFile(files, "sql/"+name)
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", ErrLoadMigrations, name, err)
		}

		result = append(result, Migration{Version: version, Name: name, SQL: string(content)})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Version < result[j].Version
	})

	return result, nil
}

// Up применяет все ещё не применённые миграции
// Каждая миграция выполняется в своей транзакции вместе с записью версии
func (m *Migrator) Up(ctx context.Context) (int, error) {
	if _, err := m.db.ExecContext(ctx, createVersionsTable); err != nil {
		return 0, fmt.Errorf("%w: create schema_migrations: %v", ErrApplyMigration, err)
	}

	applied, err := m.appliedVersions(ctx)
	if err != nil {
		return 0, err
	}

	all, err := Load()
	if err != nil {
		return 0, err
	}

	count := 0
	for _, mig := range all {
		if applied[mig.Version] {
			continue
		}

		if err := m.apply(ctx, mig); err != nil {
			return count, err
		}

		m.logger.Info("migrations: applied %s", mig.Name)
		count++
	}

	return count, nil
}

func (m *Migrator) apply(ctx context.Context, mig Migration) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %s - begin: %v", ErrApplyMigration, mig.Name, err)
	}

	if _, err := tx.ExecContext(ctx, mig.SQL); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("%w: %s - exec: %v", ErrApplyMigration, mig.Name, err)
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO schema_migrations (version, name) VALUES ($1, $2)", mig.Version, mig.Name); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("%w: %s - record version: %v", ErrApplyMigration, mig.Name, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %s - commit: %v", ErrApplyMigration, mig.Name, err)
	}

	return nil
}

func (m *Migrator) appliedVersions(ctx context.Context) (map[int]bool, error) {
	rows, err := m.db.QueryContext(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("%w: query applied versions: %v", ErrApplyMigration, err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("%w: scan version: %v", ErrApplyMigration, err)
		}
		applied[v] = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate versions: %v", ErrApplyMigration, err)
	}

	return applied, nil
}
