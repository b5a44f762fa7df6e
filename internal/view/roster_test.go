package view_test

import (
	"context"
	"strings"
	"testing"

	"github.com/msomdec/rolecall/internal/domain"
	"github.com/msomdec/rolecall/internal/view"
)

func render(t *testing.T, groups map[domain.Role][]domain.User) string {
	t.Helper()
	var b strings.Builder
	if err := view.RosterGroups(groups).Render(context.Background(), &b); err != nil {
		t.Fatalf("Render: %v", err)
	}
	return b.String()
}

func TestRosterGroups(t *testing.T) {
	inactive := *domain.NewUser(3, "Charlie", "charlie@example.com", domain.RoleViewer)
	inactive.Deactivate()
	groups := map[domain.Role][]domain.User{
		domain.RoleAdmin:  {*domain.NewUser(1, "Alice", "alice@example.com", domain.RoleAdmin)},
		domain.RoleViewer: {inactive},
	}

	html := render(t, groups)

	if !strings.Contains(html, `id="role-admin"`) || !strings.Contains(html, `id="role-viewer"`) {
		t.Fatalf("expected admin and viewer sections, got %s", html)
	}
	if strings.Contains(html, `id="role-editor"`) {
		t.Fatal("expected no editor section")
	}
	if strings.Index(html, "role-admin") > strings.Index(html, "role-viewer") {
		t.Fatal("expected admin section before viewer section")
	}
	if !strings.Contains(html, `<li id="user-3" class="inactive">`) {
		t.Fatalf("expected inactive marker for Charlie, got %s", html)
	}
	if !strings.Contains(html, "Administrator with full access") {
		t.Fatal("expected role description")
	}
}

func TestRosterGroups_Escapes(t *testing.T) {
	groups := map[domain.Role][]domain.User{
		domain.RoleEditor: {*domain.NewUser(1, "<script>", "x@example.com", domain.RoleEditor)},
	}

	html := render(t, groups)
	if strings.Contains(html, "<script>") {
		t.Fatalf("expected user name to be escaped, got %s", html)
	}
}

func TestRosterGroups_Empty(t *testing.T) {
	if html := render(t, nil); !strings.Contains(html, "No users yet.") {
		t.Fatalf("expected empty message, got %s", html)
	}
}

func TestRosterPage(t *testing.T) {
	var b strings.Builder
	err := view.RosterPage("Alice & Co", nil).Render(context.Background(), &b)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	html := b.String()
	if !strings.Contains(html, "Signed in as Alice &amp; Co") {
		t.Fatalf("expected escaped viewer name, got %s", html)
	}
	if !strings.Contains(html, `@get('/roster/stream')`) {
		t.Fatal("expected stream trigger")
	}
}
