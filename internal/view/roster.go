// Package view renders the HTML roster page as templ components.
package view

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/msomdec/rolecall/internal/domain"
)

const datastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.6/bundles/datastar.js"

// RosterPage renders the full roster page for the signed-in viewer. The
// refresh button streams updated groups and counter progress from
// /roster/stream.
func RosterPage(viewer string, groups map[domain.Role][]domain.User) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString("<!DOCTYPE html>\n<html lang=\"en\"><head><meta charset=\"utf-8\"><title>Roster</title>")
		fmt.Fprintf(&b, `<script type="module" src="%s"></script>`, datastarScript)
		b.WriteString(`</head><body data-signals="{count: 0, workers: 0}">`)
		fmt.Fprintf(&b, `<header><h1>Roster</h1><p>Signed in as %s</p></header>`, templ.EscapeString(viewer))
		b.WriteString(`<button data-on-click="@get('/roster/stream')">Refresh</button>`)
		b.WriteString(`<p>Counter: <span id="counter" data-text="$count">0</span>`)
		b.WriteString(` (<span data-text="$workers">0</span> workers finished)</p>`)
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}

		if err := RosterGroups(groups).Render(ctx, w); err != nil {
			return err
		}

		_, err := io.WriteString(w, "</body></html>")
		return err
	})
}

// RosterGroups renders one section per role, in role declaration order.
// Roles with no users are skipped.
func RosterGroups(groups map[domain.Role][]domain.User) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<div id="roster">`)
		if len(groups) == 0 {
			b.WriteString(`<p class="empty">No users yet.</p>`)
		}
		for _, role := range domain.Roles() {
			users, ok := groups[role]
			if !ok {
				continue
			}
			fmt.Fprintf(&b, `<section id="role-%s"><h2>%s</h2><p>%s</p><ul>`,
				role, templ.EscapeString(string(role)), templ.EscapeString(role.Describe()))
			for _, u := range users {
				b.WriteString(userItem(u))
			}
			b.WriteString(`</ul></section>`)
		}
		b.WriteString(`</div>`)

		_, err := io.WriteString(w, b.String())
		return err
	})
}

func userItem(u domain.User) string {
	class := "active"
	if !u.Active {
		class = "inactive"
	}
	return fmt.Sprintf(`<li id="user-%d" class="%s">%s &lt;%s&gt;</li>`,
		u.ID, class, templ.EscapeString(u.Name), templ.EscapeString(u.Email))
}
