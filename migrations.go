package main

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Migration is one script of a migration directory
type Migration struct {
	Name   string
	UpFile string
}

// ParseMigrations returns the scripts of migrationDir which build the schema,
// ordered by name. Next to the .up.sql files this includes plain .sql files;
// .down.sql files are skipped.
func ParseMigrations(migrationDir string) ([]Migration, error) {
	slog.Debug("scanning migration directory", "directory", migrationDir)
	upFiles := make(map[string]string)
	skipped := 0

	err := filepath.WalkDir(migrationDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		fileName := d.Name()
		switch {
		case strings.HasSuffix(fileName, ".down.sql"):
			skipped++
		case strings.HasSuffix(fileName, ".up.sql"):
			upFiles[strings.TrimSuffix(fileName, ".up.sql")] = path
		case strings.HasSuffix(fileName, ".sql"):
			upFiles[strings.TrimSuffix(fileName, ".sql")] = path
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk migration directory: %w", err)
	}

	migrations := make([]Migration, 0, len(upFiles))
	for baseName, upFile := range upFiles {
		migrations = append(migrations, Migration{
			Name:   baseName,
			UpFile: upFile,
		})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Name < migrations[j].Name
	})

	slog.Debug("parsed migrations", "count", len(migrations), "skipped", skipped)
	return migrations, nil
}

// FileScriptReader reads scripts from the local filesystem
type FileScriptReader struct{}

// NewFileScriptReader creates a new file script reader
func NewFileScriptReader() ScriptReader {
	return &FileScriptReader{}
}

// ReadScript reads a single file as-is. A directory is read as migrations
// whose scripts are concatenated in order.
func (r *FileScriptReader) ReadScript(path string) (string, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return "", fmt.Errorf("script path does not exist: %s", path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to stat script path: %w", err)
	}

	if !info.IsDir() {
		content, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read script file %s: %w", path, err)
		}
		return string(content), nil
	}

	migrations, err := ParseMigrations(path)
	if err != nil {
		return "", err
	}
	if len(migrations) == 0 {
		return "", fmt.Errorf("no migration files found in directory: %s", path)
	}

	scripts := make([]string, 0, len(migrations))
	for _, migration := range migrations {
		content, err := os.ReadFile(migration.UpFile)
		if err != nil {
			return "", fmt.Errorf("failed to read migration file %s: %w", migration.UpFile, err)
		}
		scripts = append(scripts, string(content))
	}
	slog.Info("read migrations", "directory", path, "count", len(migrations))
	// a script ending in an unterminated statement must not run into the next one
	return strings.Join(scripts, "\n;\n"), nil
}
