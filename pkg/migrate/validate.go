package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

const (
	upAnnotation   = "-- +goose Up"
	downAnnotation = "-- +goose Down"
)

var sqlFileRe = regexp.MustCompile(`^(\d{14})_([a-z0-9_]+)\.sql$`)

type migrationFile struct {
	Version string
	Name    string
	File    string
}

// scanDir lists the SQL migrations in dir ordered by version. Badly named
// files and repeated versions or names are reported as errors.
func scanDir(dir string) ([]migrationFile, error) {
	if dir == "" {
		return nil, fmt.Errorf("dir is required")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %q: %w", dir, err)
	}

	byVersion := map[string]string{}
	byName := map[string]string{}
	var files []migrationFile
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		m := sqlFileRe.FindStringSubmatch(e.Name())
		if m == nil {
			return nil, fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", e.Name())
		}
		if prev, ok := byVersion[m[1]]; ok {
			return nil, fmt.Errorf("duplicate migration version %s in %q and %q", m[1], prev, e.Name())
		}
		if prev, ok := byName[m[2]]; ok {
			return nil, fmt.Errorf("duplicate migration name %q in %q and %q", m[2], prev, e.Name())
		}
		byVersion[m[1]] = e.Name()
		byName[m[2]] = e.Name()
		files = append(files, migrationFile{Version: m[1], Name: m[2], File: e.Name()})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Version < files[j].Version })
	return files, nil
}

// ValidateDir checks migration filenames and that every file carries a
// goose Up section followed by a Down section.
func ValidateDir(dir string) error {
	files, err := scanDir(dir)
	if err != nil {
		return err
	}
	for _, f := range files {
		b, err := os.ReadFile(filepath.Join(dir, f.File))
		if err != nil {
			return fmt.Errorf("read file %q: %w", f.File, err)
		}
		txt := string(b)
		up := strings.Index(txt, upAnnotation)
		down := strings.Index(txt, downAnnotation)
		switch {
		case up < 0:
			return fmt.Errorf("migration %q missing %q", f.File, upAnnotation)
		case down < 0:
			return fmt.Errorf("migration %q missing %q", f.File, downAnnotation)
		case down < up:
			return fmt.Errorf("migration %q declares Down before Up", f.File)
		}
	}
	return nil
}
