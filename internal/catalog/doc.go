// Package catalog holds the product list controller and the form state
// machine behind the terminal UI and the CLI.
//
// # Form
//
// The form is in Add or Edit(id) mode. Its buttons are a pure function of the
// mode (Actions): Add shows [add], Edit shows [save, cancel].
//
//	Add ──edit row──▶ Edit(id)
//	Edit(id) ──cancel / save ok / show all──▶ Add
//	Add ──add ok──▶ Add
//
// The mode is part of the Form value passed to and returned from the
// handlers; nothing is stored globally.
//
// # Controller
//
// Controller issues requests through a ProductAPI. Search tries an id lookup
// for integer-like terms and falls back to a name search when it finds
// nothing. Delete and Submit always end with a full reload of the active
// query (or of everything, when PreserveFilter is off).
//
// # Session
//
// Session holds the state of one view. List requests take a Ticket; results
// are applied in issue order so a slow reload cannot overwrite a newer list
// or reset a form the user has started editing since.
package catalog
