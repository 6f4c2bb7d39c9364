package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/muurk/catalog/internal/catalog"
	"github.com/muurk/catalog/internal/logging"
	"github.com/muurk/catalog/internal/productapi"
)

// Focus is the screen area receiving key presses
type Focus int

const (
	FocusSearch Focus = iota
	FocusSearchButtons
	FocusName
	FocusDescription
	FocusPrice
	FocusFormButtons
	FocusList
	focusCount
)

func (f Focus) next() Focus { return (f + 1) % focusCount }
func (f Focus) prev() Focus { return (f + focusCount - 1) % focusCount }

func (f Focus) isFormField() bool {
	return f == FocusName || f == FocusDescription || f == FocusPrice
}

func (f Focus) isInput() bool {
	return f == FocusSearch || f.isFormField()
}

// Search row buttons
const (
	searchButtonSearch = iota
	searchButtonShowAll
)

var searchButtonLabels = []string{"Search", "Show all"}

// Options configures the catalog screen
type Options struct {
	// Controller runs every API request (required)
	Controller *catalog.Controller

	// Events is the change feed; nil disables live updates
	Events EventSource

	// API is the base URL shown in the header
	API string

	// Logger defaults to the package logger named "tui"
	Logger *zap.Logger
}

// Model is the bubbletea model of the catalog screen: a search bar, the
// product form and the product list.
type Model struct {
	ctx    context.Context
	ctrl   *catalog.Controller
	events EventSource
	feed   <-chan productapi.Event
	api    string
	log    *zap.Logger

	session *catalog.Session
	initial catalog.Ticket
	formRev uint64 // form revision the inputs were last loaded from

	search      textinput.Model
	name        textinput.Model
	description textinput.Model
	price       textinput.Model

	focus        Focus
	searchCursor int
	actionCursor int
	rowCursor    int

	// pending counts requests in flight; the spinner runs while it is non-zero
	pending int
	// mutating guards against overlapping create, update and delete requests
	mutating bool
	live     bool

	spinner spinner.Model
	help    help.Model
	keys    keyMap

	width    int
	height   int
	quitting bool
}

// New creates the catalog screen. The full product list is requested by Init.
// Requests run under ctx; cancel it after the program exits.
func New(ctx context.Context, opts Options) Model {
	log := opts.Logger
	if log == nil {
		log = logging.Named("tui")
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	session := catalog.NewSession()

	m := Model{
		ctx:         ctx,
		ctrl:        opts.Controller,
		events:      opts.Events,
		api:         opts.API,
		log:         log,
		session:     session,
		search:      newInput("name or id"),
		name:        newInput("Product name"),
		description: newInput("Optional"),
		price:       newInput("0.00"),
		spinner:     s,
		help:        help.New(),
		keys:        newKeyMap(),
		width:       DefaultWidth,
		height:      DefaultHeight,
	}
	m.search.Focus()

	m.initial = session.Ticket(catalog.AllProducts, true)
	m.pending = 1
	return m
}

// newInput has no character limit; a loaded product must fit unchanged
func newInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 0
	ti.Width = inputWidth
	ti.Prompt = ""
	return ti
}

// Init loads the full product list and connects the change feed
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		loadCmd(m.ctx, m.ctrl, m.initial),
		m.spinner.Tick,
		textinput.Blink,
	}
	if m.events != nil {
		cmds = append(cmds, startFeedCmd(m.ctx, m.events, m.log))
	}
	return tea.Batch(cmds...)
}

// Session exposes the screen state
func (m Model) Session() *catalog.Session {
	return m.session
}

// Focus returns the focused area
func (m Model) Focus() Focus {
	return m.focus
}

// Busy reports whether requests are in flight
func (m Model) Busy() bool {
	return m.pending > 0
}

// Live reports whether the change feed is connected
func (m Model) Live() bool {
	return m.live
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if m.pending == 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case listingMsg:
		m.finish()
		if !m.session.ApplyListing(msg.ticket, msg.listing, msg.err) {
			m.log.Debug("Dropped stale listing", zap.Uint64("generation", msg.ticket.Generation))
		}
		m.sync()
		return m, nil

	case submitMsg:
		m.finish()
		m.mutating = false
		m.session.ApplySubmit(msg.ticket, msg.result, msg.err)
		m.sync()
		return m, nil

	case deleteMsg:
		m.finish()
		m.mutating = false
		m.session.ApplyDelete(msg.ticket, msg.result, msg.err)
		m.sync()
		return m, nil

	case feedStartedMsg:
		m.feed = msg.events
		m.live = true
		return m, waitForEvent(m.feed)

	case feedEventMsg:
		m.log.Debug("Product changed remotely",
			zap.String("type", string(msg.event.Type)),
			zap.Int64("id", msg.event.Product.ID))
		reload := m.load(m.session.Active, false)
		return m, tea.Batch(reload, waitForEvent(m.feed))

	case feedClosedMsg:
		m.live = false
		m.feed = nil
		return m, nil
	}

	return m.updateInput(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global keys
	switch {
	case key.Matches(msg, m.keys.ForceQuit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Escape):
		switch {
		case m.session.Err != nil:
			m.session.Dismiss()
		case m.session.Form.Mode.IsEdit():
			m.cancel()
		case m.focus == FocusSearch:
			m.search.SetValue("")
		}
		return m, nil

	case key.Matches(msg, m.keys.Next):
		cmd := m.setFocus(m.focus.next())
		return m, cmd

	case key.Matches(msg, m.keys.Prev):
		cmd := m.setFocus(m.focus.prev())
		return m, cmd

	case key.Matches(msg, m.keys.ShowAll):
		cmd := m.showAll()
		return m, cmd
	}

	switch m.focus {
	case FocusSearch:
		if key.Matches(msg, m.keys.Enter) {
			cmd := m.runSearch()
			return m, cmd
		}
	case FocusName, FocusDescription, FocusPrice:
		if key.Matches(msg, m.keys.Submit) {
			cmd := m.submit()
			return m, cmd
		}
	case FocusSearchButtons:
		return m.updateSearchButtons(msg)
	case FocusFormButtons:
		return m.updateFormButtons(msg)
	case FocusList:
		return m.updateList(msg)
	}

	return m.updateInput(msg)
}

// updateInput forwards a message to the focused text input
func (m Model) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case FocusSearch:
		m.search, cmd = m.search.Update(msg)
	case FocusName:
		m.name, cmd = m.name.Update(msg)
	case FocusDescription:
		m.description, cmd = m.description.Update(msg)
	case FocusPrice:
		m.price, cmd = m.price.Update(msg)
	default:
		return m, nil
	}

	if m.focus.isFormField() {
		m.session.SetFields(m.fields())
	}
	return m, cmd
}

func (m Model) updateSearchButtons(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Left):
		m.searchCursor = moveCursor(m.searchCursor, -1, len(searchButtonLabels))
	case key.Matches(msg, m.keys.Right):
		m.searchCursor = moveCursor(m.searchCursor, 1, len(searchButtonLabels))
	case key.Matches(msg, m.keys.Enter):
		if m.searchCursor == searchButtonShowAll {
			cmd := m.showAll()
			return m, cmd
		}
		cmd := m.runSearch()
		return m, cmd
	case key.Matches(msg, m.keys.Find):
		cmd := m.setFocus(FocusSearch)
		return m, cmd
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateFormButtons(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	actions := m.session.Actions()
	m.actionCursor = moveCursor(m.actionCursor, 0, len(actions))

	switch {
	case key.Matches(msg, m.keys.Left):
		m.actionCursor = moveCursor(m.actionCursor, -1, len(actions))
	case key.Matches(msg, m.keys.Right):
		m.actionCursor = moveCursor(m.actionCursor, 1, len(actions))
	case key.Matches(msg, m.keys.Enter):
		return m.activate(actions[m.actionCursor])
	case key.Matches(msg, m.keys.Find):
		cmd := m.setFocus(FocusSearch)
		return m, cmd
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := m.session.Listing.Rows()
	m.rowCursor = moveCursor(m.rowCursor, 0, len(rows))
	row := rows[m.rowCursor]

	switch {
	case key.Matches(msg, m.keys.Up):
		m.rowCursor = moveCursor(m.rowCursor, -1, len(rows))
	case key.Matches(msg, m.keys.Down):
		m.rowCursor = moveCursor(m.rowCursor, 1, len(rows))
	case key.Matches(msg, m.keys.Edit):
		if hasRowAction(row, catalog.RowEdit) {
			cmd := m.beginEdit(row.Product)
			return m, cmd
		}
	case key.Matches(msg, m.keys.Delete):
		if hasRowAction(row, catalog.RowDelete) {
			cmd := m.deleteProduct(row.Product.ID)
			return m, cmd
		}
	case key.Matches(msg, m.keys.Find):
		cmd := m.setFocus(FocusSearch)
		return m, cmd
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// activate runs a form button
func (m Model) activate(action catalog.Action) (tea.Model, tea.Cmd) {
	switch action {
	case catalog.ActionAdd, catalog.ActionSave:
		cmd := m.submit()
		return m, cmd
	case catalog.ActionCancel:
		m.cancel()
		cmd := m.setFocus(FocusName)
		return m, cmd
	}
	return m, nil
}

// runSearch searches for the search input's term. An empty term shows all.
func (m *Model) runSearch() tea.Cmd {
	q := catalog.NewQuery(m.search.Value())
	return m.load(q, q.IsAll())
}

// showAll clears the search and reloads the full list
func (m *Model) showAll() tea.Cmd {
	m.search.SetValue("")
	return m.load(catalog.AllProducts, true)
}

func (m *Model) load(q catalog.Query, resetForm bool) tea.Cmd {
	t := m.session.Ticket(q, resetForm)
	return m.request(loadCmd(m.ctx, m.ctrl, t))
}

// submit creates or updates from the form. Invalid input is reported without
// a request; a second mutation is refused while one is in flight.
func (m *Model) submit() tea.Cmd {
	if m.mutating {
		return nil
	}

	m.session.SetFields(m.fields())
	form := m.session.Form
	if _, err := form.Fields.Draft(); err != nil {
		m.session.Fail(err)
		return nil
	}

	active := m.session.Active
	t := m.session.Ticket(m.ctrl.ReloadQuery(active), false)
	m.mutating = true
	m.log.Debug("Submitting form", zap.Stringer("mode", form.Mode))
	return m.request(submitCmd(m.ctx, m.ctrl, t, form, active))
}

func (m *Model) deleteProduct(id int64) tea.Cmd {
	if m.mutating {
		return nil
	}

	active := m.session.Active
	t := m.session.Ticket(m.ctrl.ReloadQuery(active), false)
	m.mutating = true
	return m.request(deleteCmd(m.ctx, m.ctrl, t, id, active))
}

func (m *Model) beginEdit(p productapi.Product) tea.Cmd {
	m.session.BeginEdit(p)
	m.sync()
	return m.setFocus(FocusName)
}

func (m *Model) cancel() {
	m.session.Cancel()
	m.sync()
}

// request counts a request in flight and starts the spinner for the first one
func (m *Model) request(cmd tea.Cmd) tea.Cmd {
	m.pending++
	if m.pending == 1 {
		return tea.Batch(cmd, m.spinner.Tick)
	}
	return cmd
}

func (m *Model) finish() {
	if m.pending > 0 {
		m.pending--
	}
}

// sync reloads the form inputs when the form transitioned and keeps the
// cursors inside the rebuilt button row and list.
func (m *Model) sync() {
	form := m.session.Form
	if form.Revision() != m.formRev {
		m.name.SetValue(form.Fields.Name)
		m.description.SetValue(form.Fields.Description)
		m.price.SetValue(form.Fields.Price)
		m.formRev = form.Revision()
		m.actionCursor = 0
	}
	m.rowCursor = moveCursor(m.rowCursor, 0, m.session.Listing.Len())
}

// setFocus moves focus and returns the cursor blink command for inputs
func (m *Model) setFocus(f Focus) tea.Cmd {
	m.focus = f

	m.search.Blur()
	m.name.Blur()
	m.description.Blur()
	m.price.Blur()

	switch f {
	case FocusSearch:
		m.search.Focus()
	case FocusName:
		m.name.Focus()
	case FocusDescription:
		m.description.Focus()
	case FocusPrice:
		m.price.Focus()
	case FocusFormButtons:
		m.actionCursor = moveCursor(m.actionCursor, 0, len(m.session.Actions()))
	}

	if f.isInput() {
		return textinput.Blink
	}
	return nil
}

func (m Model) fields() catalog.Fields {
	return catalog.Fields{
		Name:        m.name.Value(),
		Description: m.description.Value(),
		Price:       m.price.Value(),
	}
}

// moveCursor moves a cursor by delta and clamps it to [0, n)
func moveCursor(cursor, delta, n int) int {
	cursor += delta
	if cursor >= n {
		cursor = n - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	return cursor
}

func hasRowAction(row catalog.Row, action catalog.RowAction) bool {
	for _, a := range row.Actions() {
		if a == action {
			return true
		}
	}
	return false
}
