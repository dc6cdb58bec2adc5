package migrations

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/vladimiradmaev/nurture-diary/internal/logger"
	"gorm.io/gorm"
)

// Files holds the SQL migrations shipped with the binary.
//
//go:embed *.sql
var Files embed.FS

// Migration represents a database migration
type Migration struct {
	ID   string
	Up   func(*gorm.DB) error
	Down func(*gorm.DB) error
}

var (
	mu         sync.Mutex
	migrations = make(map[string]Migration)
)

// Register adds a new migration to the registry
func Register(id string, up, down func(*gorm.DB) error) {
	mu.Lock()
	defer mu.Unlock()
	migrations[id] = Migration{
		ID:   id,
		Up:   up,
		Down: down,
	}
}

// IDs returns the registered migration ids in execution order.
func IDs() []string {
	mu.Lock()
	defer mu.Unlock()
	ids := make([]string, 0, len(migrations))
	for id := range migrations {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func lookup(id string) Migration {
	mu.Lock()
	defer mu.Unlock()
	return migrations[id]
}

// MigrationRecord represents a record of executed migrations
type MigrationRecord struct {
	ID        string `gorm:"primaryKey"`
	CreatedAt int64  `gorm:"autoCreateTime"`
}

// RunMigrations executes all pending migrations
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(&MigrationRecord{}); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	var executed []MigrationRecord
	if err := db.Find(&executed).Error; err != nil {
		return fmt.Errorf("failed to get executed migrations: %w", err)
	}

	done := make(map[string]bool, len(executed))
	for _, m := range executed {
		done[m.ID] = true
	}

	for _, id := range IDs() {
		if done[id] {
			continue
		}
		logger.Info("Running migration", "id", id)
		if err := lookup(id).Up(db); err != nil {
			return fmt.Errorf("failed to run migration %s: %w", id, err)
		}
		if err := db.Create(&MigrationRecord{ID: id}).Error; err != nil {
			return fmt.Errorf("failed to record migration %s: %w", id, err)
		}
		logger.Info("Completed migration", "id", id)
	}

	return nil
}

// LoadSQLMigrations registers every .sql file at the root of fsys.
// SQL migrations have no down step.
func LoadSQLMigrations(fsys fs.FS) error {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		content, err := fs.ReadFile(fsys, entry.Name())
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", entry.Name(), err)
		}
		statement := string(content)
		Register(strings.TrimSuffix(path.Base(entry.Name()), ".sql"), func(db *gorm.DB) error {
			return db.Exec(statement).Error
		}, nil)
	}

	return nil
}
