package directory

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/myslide/leavebot/internal/store"
)

func seeded(t *testing.T) *Directory {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "dir.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	d := New(s)
	err = d.Seed(context.Background(), []store.User{
		{ID: "1001", Name: "Dana", Role: store.RoleEmployee},
		{ID: "2001", Name: "Lena", Role: store.RoleTeamLeader},
		{ID: "3001", Name: "Hiba", Role: store.RoleHR},
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return d
}

func TestRole_KnownAndUnknown(t *testing.T) {
	d := seeded(t)
	ctx := context.Background()

	if got := d.Role(ctx, "2001"); got != store.RoleTeamLeader {
		t.Fatalf("role for 2001 = %q, want team_leader", got)
	}
	if got := d.Role(ctx, "does-not-exist"); got != store.RoleEmployee {
		t.Fatalf("unknown sender role = %q, want employee", got)
	}
}

func TestManagers_UnionOfLeadersAndHR(t *testing.T) {
	d := seeded(t)

	managers, err := d.Managers(context.Background())
	if err != nil {
		t.Fatalf("managers: %v", err)
	}
	if len(managers) != 2 {
		t.Fatalf("got %d managers, want 2", len(managers))
	}
	ids := map[string]bool{}
	for _, m := range managers {
		ids[m.ID] = true
	}
	if !ids["2001"] || !ids["3001"] {
		t.Fatalf("managers missing a leader or hr: %v", ids)
	}
}

func TestLookup_Missing(t *testing.T) {
	d := seeded(t)
	if _, err := d.Lookup(context.Background(), "9999"); err == nil {
		t.Fatal("expected an error for an unknown id")
	}
}
