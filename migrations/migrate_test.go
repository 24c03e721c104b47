package migrations

import (
	"sort"
	"strings"
	"testing"
)

func TestNames_OrderedAndReadable(t *testing.T) {
	names, err := Names()
	if err != nil {
		t.Fatalf("read migration names: %v", err)
	}
	if len(names) < 4 {
		t.Fatalf("expected at least 4 migrations, got %d", len(names))
	}
	if !sort.StringsAreSorted(names) {
		t.Fatalf("migration names are not in apply order: %v", names)
	}
	for _, name := range names {
		if !strings.HasSuffix(name, ".sql") {
			t.Fatalf("unexpected non-SQL migration file %q", name)
		}
		body, err := migrationFiles.ReadFile(name)
		if err != nil {
			t.Fatalf("read migration %s: %v", name, err)
		}
		if strings.TrimSpace(string(body)) == "" {
			t.Fatalf("migration %s is empty", name)
		}
	}
}

func TestNames_RegistrationsAfterDependencies(t *testing.T) {
	names, err := Names()
	if err != nil {
		t.Fatalf("read migration names: %v", err)
	}
	idx := func(substr string) int {
		for i, name := range names {
			if strings.Contains(name, substr) {
				return i
			}
		}
		t.Fatalf("no migration matching %q in %v", substr, names)
		return -1
	}
	if idx("registrations") < idx("events") || idx("events") < idx("users") || idx("events") < idx("categories") {
		t.Fatalf("migrations out of dependency order: %v", names)
	}
}
