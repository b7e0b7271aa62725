package schema

import (
	"cmp"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// migrationFilePattern matches NNN_name.sql.
var migrationFilePattern = regexp.MustCompile(`^(\d+)_([A-Za-z0-9_-]+)\.sql$`)

type migrationFile struct {
	number int
	name   string
	desc   string
}

// LoadDir reads the NNN_name.sql files of dir ordered by their numeric
// prefix, so 10_x.sql follows 9_x.sql. Each file becomes a migration whose
// id is the file name without extension. Two files with the same number
// are rejected. Files without the .sql extension are ignored.
func LoadDir(fsys fs.FS, dir string) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory %s: %w", dir, err)
	}

	var files []migrationFile
	byNumber := make(map[int]string)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		match := migrationFilePattern.FindStringSubmatch(entry.Name())
		if match == nil {
			return nil, fmt.Errorf("%w: file name %s does not match NNN_name.sql", ErrInvalidMigration, entry.Name())
		}
		number, err := strconv.Atoi(match[1])
		if err != nil {
			return nil, fmt.Errorf("%w: file name %s: %w", ErrInvalidMigration, entry.Name(), err)
		}
		if prev, dup := byNumber[number]; dup {
			return nil, fmt.Errorf("%w: %s and %s share number %d", ErrDuplicateMigration, prev, entry.Name(), number)
		}
		byNumber[number] = entry.Name()
		files = append(files, migrationFile{
			number: number,
			name:   entry.Name(),
			desc:   strings.ReplaceAll(match[2], "_", " "),
		})
	}
	slices.SortFunc(files, func(a, b migrationFile) int { return cmp.Compare(a.number, b.number) })

	migrations := make([]Migration, 0, len(files))
	for _, f := range files {
		content, err := fs.ReadFile(fsys, path.Join(dir, f.name))
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %w", f.name, err)
		}
		m := SQLMigration(strings.TrimSuffix(f.name, ".sql"), string(content))
		m.Description = f.desc
		migrations = append(migrations, m)
	}
	return migrations, nil
}
