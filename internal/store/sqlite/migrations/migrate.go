package migrations

import (
	"database/sql"
	"embed"
	"fmt"
	"sort"
	"strings"

	"taskflow/internal/logging"
)

//go:embed *.sql
var migrationsFS embed.FS

// GoMigrationFunc runs a data migration inside the migration transaction.
type GoMigrationFunc func(tx *sql.Tx) error

// Migration represents a database migration. SQL migrations carry Up/Down
// scripts; Go migrations carry functions.
type Migration struct {
	Version  int
	Up       string
	Down     string
	UpFunc   GoMigrationFunc
	DownFunc GoMigrationFunc
}

var goMigrations = map[int]Migration{}

// RegisterGoMigration adds a migration implemented in Go. It is called from
// init functions, so duplicate versions panic.
func RegisterGoMigration(version int, up, down GoMigrationFunc) {
	if _, exists := goMigrations[version]; exists {
		panic(fmt.Sprintf("duplicate go migration version %d", version))
	}
	goMigrations[version] = Migration{Version: version, UpFunc: up, DownFunc: down}
}

// RunMigrations executes all pending migrations
func RunMigrations(db *sql.DB) error {
	// Create migrations table if it doesn't exist
	if err := createMigrationsTable(db); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	// Refuse to continue on top of a half-applied migration
	if err := checkDirty(db); err != nil {
		return err
	}

	// Get all migration files
	migrations, err := loadMigrations()
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	// Get applied migrations
	applied, err := getAppliedMigrations(db)
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}

	// Apply pending migrations
	for _, migration := range migrations {
		if applied[migration.Version] {
			continue
		}
		logging.Debugf("applying migration %d", migration.Version)
		if err := applyMigration(db, migration); err != nil {
			markDirty(db, migration.Version)
			return fmt.Errorf("failed to apply migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

func createMigrationsTable(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS migrations (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		dirty BOOLEAN DEFAULT FALSE
	)`
	_, err := db.Exec(query)
	return err
}

func checkDirty(db *sql.DB) error {
	rows, err := db.Query("SELECT version FROM migrations WHERE dirty ORDER BY version")
	if err != nil {
		return fmt.Errorf("failed to check migration state: %w", err)
	}
	defer rows.Close()

	var dirty []int
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return err
		}
		dirty = append(dirty, version)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if len(dirty) > 0 {
		return fmt.Errorf("database is in a dirty state; failed migration(s): %v", dirty)
	}
	return nil
}

func markDirty(db *sql.DB, version int) {
	if _, err := db.Exec("INSERT OR REPLACE INTO migrations (version, dirty) VALUES (?, TRUE)", version); err != nil {
		logging.Warnf("failed to record dirty migration %d: %v", version, err)
	}
}

func loadMigrations() ([]Migration, error) {
	entries, err := migrationsFS.ReadDir(".")
	if err != nil {
		return nil, err
	}

	var migrations []Migration
	for _, entry := range entries {
		if !strings.HasSuffix(entry.Name(), ".up.sql") {
			continue
		}

		version := extractVersion(entry.Name())
		if version == 0 {
			continue
		}
		if _, clash := goMigrations[version]; clash {
			return nil, fmt.Errorf("migration %d defined in both SQL and Go", version)
		}

		upSQL, err := migrationsFS.ReadFile(entry.Name())
		if err != nil {
			return nil, err
		}

		downFile := strings.Replace(entry.Name(), ".up.sql", ".down.sql", 1)
		downSQL, err := migrationsFS.ReadFile(downFile)
		if err != nil {
			return nil, err
		}

		migrations = append(migrations, Migration{
			Version: version,
			Up:      string(upSQL),
			Down:    string(downSQL),
		})
	}

	for _, m := range goMigrations {
		migrations = append(migrations, m)
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})

	return migrations, nil
}

func getAppliedMigrations(db *sql.DB) (map[int]bool, error) {
	rows, err := db.Query("SELECT version FROM migrations WHERE NOT dirty")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

func applyMigration(db *sql.DB, migration Migration) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}

	if migration.UpFunc != nil {
		err = migration.UpFunc(tx)
	} else {
		_, err = tx.Exec(migration.Up)
	}
	if err != nil {
		tx.Rollback()
		return err
	}

	if _, err := tx.Exec("INSERT INTO migrations (version) VALUES (?)", migration.Version); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

func extractVersion(filename string) int {
	var version int
	fmt.Sscanf(filename, "%d_", &version)
	return version
}
