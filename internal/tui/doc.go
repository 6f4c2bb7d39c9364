// Package tui implements the terminal user interface for the product catalog.
//
// The screen is a single Bubble Tea model with three areas: a search bar, the
// product form and the product list. All screen state that matters lives in a
// catalog.Session; the model only adds focus, cursors and the text inputs.
//
// # Layout
//
//	Search  [name or id        ]
//	( Search ) ( Show all )  ⣾ Loading...  ● live
//	╭────────────────────────────────────────╮
//	│ Add Product                            │
//	│ Name         Product name              │
//	│ Description  Optional                  │
//	│ Price        0.00                      │
//	│ ( Add Product )                        │
//	╰────────────────────────────────────────╯
//	Products
//	  → #1 Coffee Mug - $12.50   [e]dit  [d]elete
//	    #2 Desk Lamp - $34.99
//
// The form buttons are rebuilt from the form mode on every render: Add shows
// "Add Product", Edit shows "Save" and "Cancel".
//
// # Requests
//
// Every request runs as a tea.Cmd through catalog.Controller and carries a
// catalog.Ticket. Results that arrive after a newer listing was applied are
// dropped, so a slow reload cannot overwrite a newer search or reset a form
// the user has started editing since. Only one create, update or delete runs
// at a time.
//
// When an EventSource is configured the model subscribes to the server's
// change feed and reloads the active query on every event without touching
// the form.
//
// # Usage Example
//
//	ctrl := catalog.NewController(client, catalog.DefaultOptions())
//	model := tui.New(ctx, tui.Options{Controller: ctrl, Events: client, API: client.BaseURL})
//	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
//
//	if _, err := program.Run(); err != nil {
//	    log.Fatal(err)
//	}
package tui
