// Package migration applies ordered, versioned schema scripts at startup.
// Scripts are named V<version>__<description>.sql; applied versions are
// recorded in schema_history together with a content checksum so a changed
// script is caught instead of silently re-diverging the schema.
package migration

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"io/fs"
	"log"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

var (
	// ErrChecksumMismatch means an already-applied script was edited.
	ErrChecksumMismatch = errors.New("migration checksum mismatch")
	// ErrBadScriptName means a script does not match V<n>__<desc>.sql.
	ErrBadScriptName = errors.New("malformed migration script name")
)

var scriptNamePattern = regexp.MustCompile(`^V(\d+)__(.+)\.sql$`)

// AppliedMigration is one row of schema_history.
type AppliedMigration struct {
	Version     int       `gorm:"column:version;primaryKey"`
	Description string    `gorm:"column:description"`
	Checksum    int64     `gorm:"column:checksum"`
	AppliedAt   time.Time `gorm:"column:applied_at"`
}

func (AppliedMigration) TableName() string { return "schema_history" }

type script struct {
	version     int
	description string
	name        string
	checksum    int64
	sql         string
}

// Migrator applies the pending scripts of a script filesystem to a
// database.
type Migrator struct {
	db              *gorm.DB
	scripts         fs.FS
	baselineVersion int
}

// New builds a migrator. baselineVersion marks the schema level an
// existing database is assumed to already have; scripts at or below it are
// recorded but never executed on a database with no migration history.
func New(db *gorm.DB, scripts fs.FS, baselineVersion int) *Migrator {
	return &Migrator{db: db, scripts: scripts, baselineVersion: baselineVersion}
}

// Migrate applies all pending scripts in version order. It is idempotent:
// a second run with the same scripts does nothing.
func (m *Migrator) Migrate(ctx context.Context) error {
	if err := m.ensureHistoryTable(ctx); err != nil {
		return err
	}

	scripts, err := m.loadScripts()
	if err != nil {
		return err
	}
	applied, err := m.loadApplied(ctx)
	if err != nil {
		return err
	}

	if len(applied) == 0 && m.baselineVersion > 0 {
		if err := m.baseline(ctx, scripts, applied); err != nil {
			return err
		}
	}

	for _, s := range scripts {
		if row, ok := applied[s.version]; ok {
			if row.Checksum != s.checksum {
				return fmt.Errorf("%w: %s (recorded %d, script %d)",
					ErrChecksumMismatch, s.name, row.Checksum, s.checksum)
			}
			continue
		}
		if err := m.apply(ctx, s); err != nil {
			return fmt.Errorf("applying %s: %w", s.name, err)
		}
		log.Printf("schema migrated to version %d (%s)", s.version, s.description)
	}
	return nil
}

// Info returns the applied migrations in version order.
func (m *Migrator) Info(ctx context.Context) ([]AppliedMigration, error) {
	if err := m.ensureHistoryTable(ctx); err != nil {
		return nil, err
	}
	var rows []AppliedMigration
	err := m.db.WithContext(ctx).Order("version ASC").Find(&rows).Error
	return rows, err
}

func (m *Migrator) ensureHistoryTable(ctx context.Context) error {
	return m.db.WithContext(ctx).Exec(`
		CREATE TABLE IF NOT EXISTS schema_history (
			version     INTEGER PRIMARY KEY,
			description VARCHAR(200) NOT NULL,
			checksum    BIGINT NOT NULL,
			applied_at  TIMESTAMP NOT NULL
		)`).Error
}

func (m *Migrator) loadScripts() ([]script, error) {
	entries, err := fs.ReadDir(m.scripts, ".")
	if err != nil {
		return nil, err
	}

	scripts := make([]script, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		match := scriptNamePattern.FindStringSubmatch(entry.Name())
		if match == nil {
			return nil, fmt.Errorf("%w: %s", ErrBadScriptName, entry.Name())
		}
		version, err := strconv.Atoi(match[1])
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrBadScriptName, entry.Name())
		}

		raw, err := fs.ReadFile(m.scripts, entry.Name())
		if err != nil {
			return nil, err
		}
		scripts = append(scripts, script{
			version:     version,
			description: strings.ReplaceAll(match[2], "_", " "),
			name:        entry.Name(),
			checksum:    checksum(raw),
			sql:         string(raw),
		})
	}

	sort.Slice(scripts, func(i, j int) bool { return scripts[i].version < scripts[j].version })
	for i := 1; i < len(scripts); i++ {
		if scripts[i].version == scripts[i-1].version {
			return nil, fmt.Errorf("duplicate migration version %d", scripts[i].version)
		}
	}
	return scripts, nil
}

func (m *Migrator) loadApplied(ctx context.Context) (map[int]AppliedMigration, error) {
	var rows []AppliedMigration
	if err := m.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	applied := make(map[int]AppliedMigration, len(rows))
	for _, row := range rows {
		applied[row.Version] = row
	}
	return applied, nil
}

// baseline records scripts at or below the baseline version as applied
// without executing them. Used when adopting migrations on a database that
// already carries the schema.
func (m *Migrator) baseline(ctx context.Context, scripts []script, applied map[int]AppliedMigration) error {
	for _, s := range scripts {
		if s.version > m.baselineVersion {
			continue
		}
		row := AppliedMigration{
			Version:     s.version,
			Description: s.description + " (baseline)",
			Checksum:    s.checksum,
			AppliedAt:   time.Now().UTC(),
		}
		if err := m.db.WithContext(ctx).Create(&row).Error; err != nil {
			return err
		}
		applied[s.version] = row
		log.Printf("schema version %d recorded as baseline", s.version)
	}
	return nil
}

func (m *Migrator) apply(ctx context.Context, s script) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, statement := range splitStatements(s.sql) {
			if err := tx.Exec(statement).Error; err != nil {
				return err
			}
		}
		return tx.Create(&AppliedMigration{
			Version:     s.version,
			Description: s.description,
			Checksum:    s.checksum,
			AppliedAt:   time.Now().UTC(),
		}).Error
	})
}

// splitStatements breaks a script on semicolons at line ends. Good enough
// for the DDL these scripts contain; none of them embed literal semicolons.
func splitStatements(sql string) []string {
	parts := strings.Split(sql, ";")
	statements := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			statements = append(statements, trimmed)
		}
	}
	return statements
}

func checksum(raw []byte) int64 {
	h := fnv.New32a()
	h.Write(raw)
	return int64(h.Sum32())
}
