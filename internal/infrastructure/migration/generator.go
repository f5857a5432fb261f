package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/orris-inc/tally/internal/shared/logger"
)

var (
	migrationNamePattern = regexp.MustCompile(`^[a-z0-9_]+$`)
	sequencePattern      = regexp.MustCompile(`^(\d+)_`)
)

// Generator writes new, empty migration scripts in both formats so goose and
// golang-migrate stay in step.
type Generator struct {
	scriptsPath string
	logger      logger.Interface
	now         func() time.Time
}

// NewGenerator targets scriptsPath, the on-disk scripts directory holding
// goose/ and migrate/.
func NewGenerator(scriptsPath string, log logger.Interface) *Generator {
	return &Generator{
		scriptsPath: scriptsPath,
		logger:      log.With("component", "migration.generator"),
		now:         time.Now,
	}
}

// CreateMigration writes NNNNN_name.sql for goose and the matching
// .up.sql/.down.sql pair for golang-migrate, and returns the paths.
func (g *Generator) CreateMigration(name string) ([]string, error) {
	if !migrationNamePattern.MatchString(name) {
		return nil, fmt.Errorf("migration name must be lower snake case, got %q", name)
	}

	gooseDir := filepath.Join(g.scriptsPath, "goose")
	migrateDir := filepath.Join(g.scriptsPath, "migrate")
	for _, dir := range []string{gooseDir, migrateDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create scripts directory: %w", err)
		}
	}

	next, err := nextSequence(gooseDir, migrateDir)
	if err != nil {
		return nil, err
	}

	created := g.now().Format(time.DateTime)
	files := map[string]string{
		filepath.Join(gooseDir, fmt.Sprintf("%05d_%s.sql", next, name)): fmt.Sprintf(
			"-- Migration: %s\n-- Created: %s\n\n-- +goose Up\n\n-- +goose Down\n", name, created),
		filepath.Join(migrateDir, fmt.Sprintf("%06d_%s.up.sql", next, name)): fmt.Sprintf(
			"-- Migration: %s\n-- Created: %s\n", name, created),
		filepath.Join(migrateDir, fmt.Sprintf("%06d_%s.down.sql", next, name)): fmt.Sprintf(
			"-- Rollback Migration: %s\n-- Created: %s\n", name, created),
	}

	paths := make([]string, 0, len(files))
	for path, content := range files {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
		}
		paths = append(paths, path)
	}

	g.logger.Infow("migration files created", "name", name, "version", next)
	return paths, nil
}

func nextSequence(dirs ...string) (int, error) {
	highest := 0
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return 0, fmt.Errorf("failed to read %s: %w", dir, err)
		}
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
				continue
			}
			m := sequencePattern.FindStringSubmatch(e.Name())
			if m == nil {
				continue
			}
			n, err := strconv.Atoi(m[1])
			if err == nil && n > highest {
				highest = n
			}
		}
	}
	return highest + 1, nil
}
