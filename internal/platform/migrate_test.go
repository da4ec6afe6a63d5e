package platform

import (
	"strings"
	"testing"
)

func TestMigrations_Paired(t *testing.T) {
	names, err := Migrations()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(names) == 0 {
		t.Fatal("expected embedded migrations")
	}

	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, n := range names {
		switch {
		case strings.HasSuffix(n, ".up.sql"):
			ups[strings.TrimSuffix(n, ".up.sql")] = true
		case strings.HasSuffix(n, ".down.sql"):
			downs[strings.TrimSuffix(n, ".down.sql")] = true
		default:
			t.Errorf("unexpected migration file %q", n)
		}
	}
	for base := range ups {
		if !downs[base] {
			t.Errorf("migration %s has no down file", base)
		}
	}
	if len(ups) != len(downs) {
		t.Errorf("expected matching up/down counts, got %d/%d", len(ups), len(downs))
	}
}

func TestMigrations_CreateRoundInsights(t *testing.T) {
	data, err := migrationsFS.ReadFile("migrations/000001_create_round_insights.up.sql")
	if err != nil {
		t.Fatalf("read migration: %v", err)
	}
	sql := string(data)
	for _, want := range []string{"round_insights", "round_id    TEXT NOT NULL UNIQUE", "payload     JSONB"} {
		if !strings.Contains(sql, want) {
			t.Errorf("expected migration to contain %q", want)
		}
	}
}

func TestMigrateDown_RejectsNonPositiveSteps(t *testing.T) {
	if err := MigrateDown(nil, 0); err == nil {
		t.Error("expected error for zero steps")
	}
}
