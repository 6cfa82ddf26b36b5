package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var sqlFileRe = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)

// Migrations run against postgres in production and sqlite in dev and tests,
// so statements must stay in the common subset.
var nonPortable = []struct {
	re   *regexp.Regexp
	hint string
}{
	{regexp.MustCompile(`(?i)\bjsonb\b`), "JSONB (use TEXT)"},
	{regexp.MustCompile(`(?i)\btimestamptz\b`), "TIMESTAMPTZ (use TIMESTAMP)"},
	{regexp.MustCompile(`(?i)\bserial\b`), "SERIAL (use application ids)"},
	{regexp.MustCompile(`(?i)gen_random_uuid\s*\(`), "gen_random_uuid() (ids come from the application)"},
	{regexp.MustCompile(`::\s*[a-z]`), "postgres casts (::type)"},
}

// ValidateDir checks migration filenames, goose annotations and that no
// statement relies on postgres-only syntax.
func ValidateDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("dir is required")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read dir %q: %w", dir, err)
	}

	seen := map[string]string{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}

		m := sqlFileRe.FindStringSubmatch(name)
		if m == nil {
			return fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", name)
		}
		if prev, ok := seen[m[1]]; ok {
			return fmt.Errorf("duplicate migration version %s in %q and %q", m[1], prev, name)
		}
		seen[m[1]] = name

		full := filepath.Join(dir, name)
		b, err := os.ReadFile(full)
		if err != nil {
			return fmt.Errorf("read file %q: %w", full, err)
		}
		if err := validateContent(name, string(b)); err != nil {
			return err
		}
	}
	return nil
}

func validateContent(name, txt string) error {
	for _, marker := range []string{"-- +goose Up", "-- +goose Down"} {
		if !strings.Contains(txt, marker) {
			return fmt.Errorf("migration %q missing %q", name, marker)
		}
	}
	for _, line := range strings.Split(txt, "\n") {
		stmt := strings.TrimSpace(line)
		if strings.HasPrefix(stmt, "--") {
			continue
		}
		for _, np := range nonPortable {
			if np.re.MatchString(stmt) {
				return fmt.Errorf("migration %q is not portable to sqlite: %s", name, np.hint)
			}
		}
	}
	return nil
}
