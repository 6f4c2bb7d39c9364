package catalog

import "github.com/muurk/catalog/internal/productapi"

// Ticket identifies one list request. Results are applied in issue order:
// a listing older than the last applied one is dropped.
type Ticket struct {
	Query        Query
	Generation   uint64
	FormRevision uint64

	// ResetForm returns the form to Add when the listing arrives, unless the
	// form transitioned after the ticket was issued.
	ResetForm bool
}

// Session is the client-side state of one catalog view: the form, the last
// applied listing, the active query and the visible error.
//
// Session is not safe for concurrent use. In the TUI it is owned by the
// bubbletea model and only touched from Update.
type Session struct {
	Form    Form
	Listing Listing
	Active  Query
	Err     error
	Loaded  bool

	issued  uint64
	applied uint64
}

// NewSession returns a session with an empty Add form and no listing
func NewSession() *Session {
	return &Session{
		Form:    NewForm(),
		Listing: NewListing(AllProducts, nil),
	}
}

// Ticket issues a ticket for a list request
func (s *Session) Ticket(q Query, resetForm bool) Ticket {
	s.issued++
	return Ticket{
		Query:        q,
		Generation:   s.issued,
		FormRevision: s.Form.Revision(),
		ResetForm:    resetForm,
	}
}

// IsStale reports whether a newer listing has already been applied
func (s *Session) IsStale(t Ticket) bool {
	return t.Generation <= s.applied
}

// ApplyListing applies the result of a list request. It returns false when
// the result was dropped as stale.
func (s *Session) ApplyListing(t Ticket, listing Listing, err error) bool {
	if s.IsStale(t) {
		return false
	}
	s.applied = t.Generation

	if err != nil {
		s.Fail(err)
		return true
	}

	s.Listing = listing
	s.Active = listing.Query
	s.Loaded = true
	if t.ResetForm && s.Form.Revision() == t.FormRevision {
		s.Form = s.Form.Reset()
	}
	return true
}

// ApplySubmit applies the result of Controller.Submit issued with ticket t.
// A successful save resets the form unless the user already moved on to
// another edit; the reloaded listing follows the ApplyListing rules.
func (s *Session) ApplySubmit(t Ticket, result SubmitResult, err error) {
	if result.Saved && s.Form.Revision() == t.FormRevision {
		s.Form = result.Form
	}

	if !result.Saved {
		s.Fail(err)
		return
	}
	s.ApplyListing(Ticket{Query: t.Query, Generation: t.Generation}, result.Listing, err)
}

// ApplyDelete applies the result of Controller.Delete issued with ticket t.
// An edit of the deleted product returns to Add: the product it refers to no
// longer exists.
func (s *Session) ApplyDelete(t Ticket, result DeleteResult, err error) {
	if !result.Deleted {
		s.Fail(err)
		return
	}
	if id, editing := s.Form.Mode.ProductID(); editing && id == result.ID {
		s.Form = s.Form.Reset()
	}
	s.ApplyListing(Ticket{Query: t.Query, Generation: t.Generation}, result.Listing, err)
}

// BeginEdit loads a product into the form
func (s *Session) BeginEdit(p productapi.Product) {
	s.Form = s.Form.BeginEdit(p)
}

// Cancel returns the form to Add
func (s *Session) Cancel() {
	s.Form = s.Form.Cancel()
}

// SetFields records what the user typed
func (s *Session) SetFields(f Fields) {
	s.Form = s.Form.WithFields(f)
}

// Fail makes err the visible error
func (s *Session) Fail(err error) {
	if err == nil || productapi.IsCanceled(err) {
		return
	}
	s.Err = err
}

// Dismiss clears the visible error
func (s *Session) Dismiss() {
	s.Err = nil
}

// Actions returns the form buttons
func (s *Session) Actions() []Action {
	return s.Form.Actions()
}
