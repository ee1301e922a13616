package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

var migrationNamePattern = regexp.MustCompile(`[^a-z0-9_]+`)

// CreateMigration writes an empty up/down migration file pair into dir and
// returns the paths of the created files.
func CreateMigration(dir, name string) (string, string, error) {
	sanitized := sanitizeName(name)
	if sanitized == "" {
		return "", "", fmt.Errorf("invalid migration name %q", name)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("failed to create migrations directory: %w", err)
	}

	version := time.Now().UTC().Format("20060102150405")
	upPath := filepath.Join(dir, fmt.Sprintf("%s_%s.up.sql", version, sanitized))
	downPath := filepath.Join(dir, fmt.Sprintf("%s_%s.down.sql", version, sanitized))

	upBody := fmt.Sprintf("-- Migration: %s\n-- Direction: up\n\n", sanitized)
	downBody := fmt.Sprintf("-- Migration: %s\n-- Direction: down\n\n", sanitized)

	if err := os.WriteFile(upPath, []byte(upBody), 0o644); err != nil {
		return "", "", fmt.Errorf("failed to write %s: %w", upPath, err)
	}
	if err := os.WriteFile(downPath, []byte(downBody), 0o644); err != nil {
		return "", "", fmt.Errorf("failed to write %s: %w", downPath, err)
	}
	return upPath, downPath, nil
}

// ListMigrations returns the migration file names in dir sorted by version.
func ListMigrations(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

func sanitizeName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = migrationNamePattern.ReplaceAllString(s, "")
	return strings.Trim(s, "_")
}
