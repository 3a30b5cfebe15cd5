package migrations

import (
	"io/fs"
	"strings"
	"testing"
)

func TestMigrationsArePaired(t *testing.T) {
	entries, err := fs.ReadDir(FS, ".")
	if err != nil {
		t.Fatalf("read embedded migrations: %v", err)
	}

	ups, downs := map[string]bool{}, map[string]bool{}
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		}
	}
	if len(ups) == 0 {
		t.Fatal("expected at least one up migration")
	}
	for name := range ups {
		if !downs[name] {
			t.Errorf("migration %s has no down file", name)
		}
	}
}

func TestBookedIntervalsSchema(t *testing.T) {
	data, err := fs.ReadFile(FS, "000001_booked_intervals.up.sql")
	if err != nil {
		t.Fatalf("read migration: %v", err)
	}
	for _, col := range []string{"owner_id", "start_value", "end_value", "all_day", "description", "seq"} {
		if !strings.Contains(string(data), col) {
			t.Errorf("schema missing column %s", col)
		}
	}
}
