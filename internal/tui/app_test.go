package tui

import (
	"context"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/muurk/catalog/internal/catalog"
	"github.com/muurk/catalog/internal/productapi"
)

// fakeAPI is a minimal in-memory product API
type fakeAPI struct {
	mu        sync.Mutex
	products  []productapi.Product
	nextID    int64
	calls     []string
	errs      map[string]error
	lastDraft productapi.Draft
}

func newFakeAPI(products ...productapi.Product) *fakeAPI {
	f := &fakeAPI{nextID: 1, errs: map[string]error{}}
	for _, p := range products {
		f.products = append(f.products, p)
		if p.ID >= f.nextID {
			f.nextID = p.ID + 1
		}
	}
	return f
}

func (f *fakeAPI) record(call string) error {
	f.calls = append(f.calls, call)
	return f.errs[call]
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAPI) add(p productapi.Product) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products = append(f.products, p)
}

func (f *fakeAPI) ListProducts(ctx context.Context) ([]productapi.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("list"); err != nil {
		return nil, err
	}
	return append([]productapi.Product{}, f.products...), nil
}

func (f *fakeAPI) GetProduct(ctx context.Context, id int64) ([]productapi.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("get"); err != nil {
		return nil, err
	}
	for _, p := range f.products {
		if p.ID == id {
			return []productapi.Product{p}, nil
		}
	}
	return []productapi.Product{}, nil
}

func (f *fakeAPI) SearchProducts(ctx context.Context, name string) ([]productapi.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("search"); err != nil {
		return nil, err
	}
	out := []productapi.Product{}
	for _, p := range f.products {
		if strings.Contains(strings.ToLower(p.Name), strings.ToLower(name)) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeAPI) CreateProduct(ctx context.Context, draft productapi.Draft) (*productapi.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("create"); err != nil {
		return nil, err
	}
	f.lastDraft = draft
	p := draft.WithID(f.nextID)
	f.nextID++
	f.products = append(f.products, p)
	return &p, nil
}

func (f *fakeAPI) UpdateProduct(ctx context.Context, id int64, draft productapi.Draft) (*productapi.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("update"); err != nil {
		return nil, err
	}
	f.lastDraft = draft
	for i, p := range f.products {
		if p.ID == id {
			f.products[i] = draft.WithID(id)
			return &f.products[i], nil
		}
	}
	return nil, productapi.NewNotFoundError("no such product")
}

func (f *fakeAPI) DeleteProduct(ctx context.Context, id int64) (*productapi.DeleteResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("delete"); err != nil {
		return nil, err
	}
	for i, p := range f.products {
		if p.ID == id {
			f.products = append(f.products[:i], f.products[i+1:]...)
			break
		}
	}
	return &productapi.DeleteResult{Message: "Product deleted", ID: id}, nil
}

// fakeFeed hands out a prepared event channel
type fakeFeed struct {
	events chan productapi.Event
}

func (f *fakeFeed) Events(ctx context.Context) (<-chan productapi.Event, error) {
	return f.events, nil
}

func product(id int64, name, price string) productapi.Product {
	return productapi.Product{ID: id, Name: name, Price: decimal.RequireFromString(price)}
}

func seededAPI() *fakeAPI {
	return newFakeAPI(
		product(1, "Coffee Mug", "12.50"),
		product(2, "Desk Lamp", "34.99"),
		product(3, "Travel Mug", "18.00"),
	)
}

func newTestModel(t *testing.T, api catalog.ProductAPI, events EventSource) Model {
	t.Helper()
	ctrl := catalog.NewController(api, catalog.Options{PreserveFilter: true, Logger: zap.NewNop()})
	m := New(context.Background(), Options{
		Controller: ctrl,
		Events:     events,
		API:        "http://catalog.test",
		Logger:     zap.NewNop(),
	})
	return run(t, m, m.Init())
}

// collect executes cmd and returns the catalog messages it produces.
// Spinner ticks and cursor blinks are dropped so the loop terminates.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, collect(c)...)
		}
		return out
	case listingMsg, submitMsg, deleteMsg, feedStartedMsg, feedEventMsg, feedClosedMsg:
		return []tea.Msg{msg}
	}
	return nil
}

// run feeds every message produced by cmd back into the model
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for _, msg := range collect(cmd) {
		m = apply(t, m, msg)
	}
	return m
}

func apply(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	return run(t, next.(Model), cmd)
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

var (
	keyEnter    = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc      = tea.KeyMsg{Type: tea.KeyEsc}
	keyTab      = tea.KeyMsg{Type: tea.KeyTab}
	keyShiftTab = tea.KeyMsg{Type: tea.KeyShiftTab}
	keyDown     = tea.KeyMsg{Type: tea.KeyDown}
	keyShowAll  = tea.KeyMsg{Type: tea.KeyCtrlR}
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func ids(products []productapi.Product) []int64 {
	out := make([]int64, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

// focusList moves focus from the search input to the product list
func focusList(t *testing.T, m Model) Model {
	t.Helper()
	m, _ = send(t, m, keyShiftTab)
	if m.Focus() != FocusList {
		t.Fatalf("focus = %v, want list", m.Focus())
	}
	return m
}

func TestInitLoadsAllProducts(t *testing.T) {
	api := seededAPI()
	m := newTestModel(t, api, nil)

	s := m.Session()
	if !s.Loaded {
		t.Fatal("session not loaded after Init")
	}
	if m.Busy() {
		t.Error("model still busy after the load completed")
	}
	if diff := cmp.Diff([]int64{1, 2, 3}, ids(s.Listing.Products)); diff != "" {
		t.Errorf("listing mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"list"}, api.Calls()); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}

	view := m.View()
	for _, want := range []string{"Add Product", "#1 Coffee Mug - $12.50", "#3 Travel Mug - $18.00", "http://catalog.test"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestEmptyCollectionShowsPlaceholder(t *testing.T) {
	m := newTestModel(t, newFakeAPI(), nil)

	if got := m.Session().Listing.Len(); got != 1 {
		t.Errorf("rows = %d, want 1 placeholder", got)
	}
	if !strings.Contains(m.View(), catalog.NoProductsPlaceholder) {
		t.Errorf("view missing %q", catalog.NoProductsPlaceholder)
	}

	// Placeholder rows have no edit or delete action
	m = focusList(t, m)
	m, cmd := send(t, m, runes("d"))
	if cmd != nil {
		t.Error("delete on the placeholder returned a command")
	}
	m, _ = send(t, m, runes("e"))
	if m.Session().Form.Mode.IsEdit() {
		t.Error("edit on the placeholder entered edit mode")
	}
}

func TestSearch(t *testing.T) {
	tests := []struct {
		name      string
		term      string
		wantCalls []string
		wantIDs   []int64
	}{
		{name: "by name", term: "mug", wantCalls: []string{"list", "search"}, wantIDs: []int64{1, 3}},
		{name: "by id", term: " 2 ", wantCalls: []string{"list", "get"}, wantIDs: []int64{2}},
		{name: "id without match falls back", term: "42", wantCalls: []string{"list", "get", "search"}, wantIDs: []int64{}},
		{name: "blank term shows all", term: "   ", wantCalls: []string{"list", "list"}, wantIDs: []int64{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := seededAPI()
			m := newTestModel(t, api, nil)

			m.search.SetValue(tt.term)
			m, cmd := send(t, m, keyEnter)
			if !m.Busy() {
				t.Error("model not busy while the search is in flight")
			}
			m = run(t, m, cmd)

			if diff := cmp.Diff(tt.wantCalls, api.Calls()); diff != "" {
				t.Errorf("calls mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantIDs, ids(m.Session().Listing.Products)); diff != "" {
				t.Errorf("listing mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestShowAllClearsSearch(t *testing.T) {
	api := seededAPI()
	m := newTestModel(t, api, nil)

	m.search.SetValue("lamp")
	m, cmd := send(t, m, keyEnter)
	m = run(t, m, cmd)
	if m.Session().Active.IsAll() {
		t.Fatal("active query not set by search")
	}

	m, cmd = send(t, m, keyShowAll)
	m = run(t, m, cmd)

	if !m.Session().Active.IsAll() {
		t.Errorf("active = %v, want all products", m.Session().Active)
	}
	if m.search.Value() != "" {
		t.Errorf("search input = %q, want empty", m.search.Value())
	}
	if got := len(m.Session().Listing.Products); got != 3 {
		t.Errorf("products = %d, want 3", got)
	}
}

func TestSearchButtons(t *testing.T) {
	api := seededAPI()
	m := newTestModel(t, api, nil)

	m.search.SetValue("desk")
	m, _ = send(t, m, keyTab)
	if m.Focus() != FocusSearchButtons {
		t.Fatalf("focus = %v, want search buttons", m.Focus())
	}

	m, cmd := send(t, m, keyEnter)
	m = run(t, m, cmd)
	if diff := cmp.Diff([]int64{2}, ids(m.Session().Listing.Products)); diff != "" {
		t.Errorf("search button listing mismatch (-want +got):\n%s", diff)
	}

	m, _ = send(t, m, runes("l"))
	m, cmd = send(t, m, keyEnter)
	m = run(t, m, cmd)
	if !m.Session().Active.IsAll() {
		t.Errorf("show all button left active = %v", m.Session().Active)
	}
}

func TestEditAndSave(t *testing.T) {
	api := seededAPI()
	m := newTestModel(t, api, nil)

	m = focusList(t, m)
	m, _ = send(t, m, keyDown)
	m, _ = send(t, m, runes("e"))

	form := m.Session().Form
	if id, ok := form.Mode.ProductID(); !ok || id != 2 {
		t.Fatalf("mode = %v, want Edit(2)", form.Mode)
	}
	if m.Focus() != FocusName {
		t.Errorf("focus = %v, want name", m.Focus())
	}
	if m.name.Value() != "Desk Lamp" || m.price.Value() != "34.99" {
		t.Errorf("inputs = %q %q, want the loaded product", m.name.Value(), m.price.Value())
	}
	if !strings.Contains(m.View(), "Update Product") {
		t.Error("view missing the edit title")
	}

	m.price.SetValue("39.00")
	m, cmd := send(t, m, keyEnter)
	m = run(t, m, cmd)

	if m.Session().Err != nil {
		t.Fatalf("unexpected error: %v", m.Session().Err)
	}
	if m.Session().Form.Mode.IsEdit() {
		t.Error("form still in edit mode after save")
	}
	if m.name.Value() != "" || m.price.Value() != "" {
		t.Error("inputs not cleared after save")
	}
	if !api.lastDraft.Price.Equal(decimal.RequireFromString("39")) {
		t.Errorf("update price = %s, want 39", api.lastDraft.Price)
	}
	p, ok := m.Session().Listing.Find(2)
	if !ok || !p.Price.Equal(decimal.RequireFromString("39")) {
		t.Errorf("listing not reloaded after update: %+v", p)
	}
}

func TestEditKeepsLongValues(t *testing.T) {
	long := strings.Repeat("n", productapi.MaxNameLength+50)
	api := newFakeAPI(product(1, long, "-2"))
	m := newTestModel(t, api, nil)

	m = focusList(t, m)
	m, _ = send(t, m, runes("e"))
	if m.name.Value() != long {
		t.Fatalf("name input holds %d runes, want %d", len(m.name.Value()), len(long))
	}

	m, cmd := send(t, m, keyEnter)
	m = run(t, m, cmd)

	if m.Session().Err != nil {
		t.Fatalf("unexpected error: %v", m.Session().Err)
	}
	if api.lastDraft.Name != long || !api.lastDraft.Price.Equal(decimal.NewFromInt(-2)) {
		t.Errorf("update draft = %d runes at %s, want the loaded values", len(api.lastDraft.Name), api.lastDraft.Price)
	}
}

func TestCancelEditRestoresAddForm(t *testing.T) {
	m := newTestModel(t, seededAPI(), nil)
	before := m.Session().Actions()

	m = focusList(t, m)
	m, _ = send(t, m, runes("e"))
	if got := len(m.Session().Actions()); got != 2 {
		t.Fatalf("edit actions = %d, want 2", got)
	}

	// Cancel button is the second action
	for m.Focus() != FocusFormButtons {
		m, _ = send(t, m, keyTab)
	}
	m, _ = send(t, m, runes("l"))
	m, _ = send(t, m, keyEnter)

	if m.Session().Form.Mode.IsEdit() {
		t.Error("form still in edit mode after cancel")
	}
	if diff := cmp.Diff(before, m.Session().Actions()); diff != "" {
		t.Errorf("actions mismatch (-want +got):\n%s", diff)
	}
	if m.name.Value() != "" || m.description.Value() != "" || m.price.Value() != "" {
		t.Error("inputs not cleared by cancel")
	}
}

func TestEscapeCancelsEdit(t *testing.T) {
	m := newTestModel(t, seededAPI(), nil)
	m = focusList(t, m)
	m, _ = send(t, m, runes("e"))

	m, _ = send(t, m, keyEsc)
	if m.Session().Form.Mode.IsEdit() {
		t.Error("esc did not cancel the edit")
	}
}

func TestCreate(t *testing.T) {
	api := seededAPI()
	m := newTestModel(t, api, nil)

	m, _ = send(t, m, keyTab)
	m, _ = send(t, m, keyTab)
	if m.Focus() != FocusName {
		t.Fatalf("focus = %v, want name", m.Focus())
	}
	m.name.SetValue("Notebook")
	m.price.SetValue("$6.25")

	m, cmd := send(t, m, keyEnter)
	m = run(t, m, cmd)

	if diff := cmp.Diff([]string{"list", "create", "list"}, api.Calls()); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int64{1, 2, 3, 4}, ids(m.Session().Listing.Products)); diff != "" {
		t.Errorf("listing mismatch (-want +got):\n%s", diff)
	}
	if m.name.Value() != "" {
		t.Errorf("name input = %q, want empty", m.name.Value())
	}
}

func TestInvalidFormShowsDismissibleError(t *testing.T) {
	api := seededAPI()
	m := newTestModel(t, api, nil)

	m, _ = send(t, m, keyTab)
	m, _ = send(t, m, keyTab)
	m.name.SetValue("Widget")
	m.price.SetValue("cheap")

	m, cmd := send(t, m, keyEnter)
	if cmd != nil {
		t.Error("invalid form produced a request")
	}
	if !productapi.IsValidationError(m.Session().Err) {
		t.Fatalf("err = %v, want validation error", m.Session().Err)
	}
	if !strings.Contains(m.View(), "(price)") {
		t.Error("view does not name the invalid field")
	}
	if m.name.Value() != "Widget" {
		t.Error("invalid submit cleared the form")
	}

	m, _ = send(t, m, keyEsc)
	if m.Session().Err != nil {
		t.Error("esc did not dismiss the error")
	}
	if diff := cmp.Diff([]string{"list"}, api.Calls()); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestFailedCreateKeepsForm(t *testing.T) {
	api := seededAPI()
	api.errs["create"] = productapi.NewHTTPError(500, "boom")
	m := newTestModel(t, api, nil)

	m, _ = send(t, m, keyTab)
	m, _ = send(t, m, keyTab)
	m.name.SetValue("Widget")
	m.price.SetValue("1.00")

	m, cmd := send(t, m, keyEnter)
	m = run(t, m, cmd)

	if !productapi.IsHTTPError(m.Session().Err) {
		t.Fatalf("err = %v, want HTTP error", m.Session().Err)
	}
	if m.name.Value() != "Widget" || m.price.Value() != "1.00" {
		t.Error("failed create cleared the form")
	}
	if got := len(m.Session().Listing.Products); got != 3 {
		t.Errorf("products = %d, want the previous listing", got)
	}
	if !strings.Contains(m.View(), "HTTP 500") {
		t.Error("view missing the short error message")
	}
}

func TestDeleteKeepsFilter(t *testing.T) {
	api := seededAPI()
	m := newTestModel(t, api, nil)

	m.search.SetValue("mug")
	m, cmd := send(t, m, keyEnter)
	m = run(t, m, cmd)

	m = focusList(t, m)
	m, cmd = send(t, m, runes("d"))

	// A second delete is refused while the first is in flight
	m, again := send(t, m, runes("d"))
	if again != nil {
		t.Error("overlapping delete produced a request")
	}
	m = run(t, m, cmd)

	if diff := cmp.Diff([]string{"list", "search", "delete", "search"}, api.Calls()); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int64{3}, ids(m.Session().Listing.Products)); diff != "" {
		t.Errorf("listing mismatch (-want +got):\n%s", diff)
	}
	if m.Session().Active.Term != "mug" {
		t.Errorf("active = %v, want the mug filter", m.Session().Active)
	}
}

func TestDeleteEditedProductResetsForm(t *testing.T) {
	api := seededAPI()
	m := newTestModel(t, api, nil)

	m = focusList(t, m)
	m, _ = send(t, m, keyDown)
	m, _ = send(t, m, runes("e"))
	if m.Session().Form.Mode != catalog.EditMode(2) {
		t.Fatalf("mode = %v, want Edit(2)", m.Session().Form.Mode)
	}

	// Name, description, price, buttons, then back to the list
	for i := 0; i < 4; i++ {
		m, _ = send(t, m, keyTab)
	}
	if m.Focus() != FocusList {
		t.Fatalf("focus = %v, want list", m.Focus())
	}

	m, cmd := send(t, m, runes("d"))
	m = run(t, m, cmd)

	if m.Session().Form.Mode.IsEdit() {
		t.Errorf("mode = %v, want Add after deleting the edited product", m.Session().Form.Mode)
	}
	if m.name.Value() != "" || m.price.Value() != "" {
		t.Errorf("inputs = %q %q, want cleared", m.name.Value(), m.price.Value())
	}
	if !strings.Contains(m.View(), "Add Product") {
		t.Error("view missing the add title")
	}
	if diff := cmp.Diff([]int64{1, 3}, ids(m.Session().Listing.Products)); diff != "" {
		t.Errorf("listing mismatch (-want +got):\n%s", diff)
	}
}

func TestStaleListingIsDropped(t *testing.T) {
	m := newTestModel(t, seededAPI(), nil)

	m.search.SetValue("lamp")
	m, searchCmd := send(t, m, keyEnter)
	m, showAllCmd := send(t, m, keyShowAll)

	// The newer show-all answers first; the older search must not replace it
	for _, msg := range collect(showAllCmd) {
		m = apply(t, m, msg)
	}
	for _, msg := range collect(searchCmd) {
		m = apply(t, m, msg)
	}

	if !m.Session().Active.IsAll() {
		t.Errorf("active = %v, want all products", m.Session().Active)
	}
	if got := len(m.Session().Listing.Products); got != 3 {
		t.Errorf("products = %d, want 3", got)
	}
	if m.Busy() {
		t.Error("model still busy")
	}
}

func TestRemoteEventReloadsWithoutResettingForm(t *testing.T) {
	api := seededAPI()
	m := newTestModel(t, api, nil)

	m = focusList(t, m)
	m, _ = send(t, m, runes("e"))
	m.name.SetValue("Coffee Mug XL")

	added := product(9, "Remote Mug", "3.00")
	api.add(added)

	feed := &fakeFeed{events: make(chan productapi.Event, 1)}
	feed.events <- productapi.Event{Type: productapi.EventCreated, Product: added}
	close(feed.events)

	m = run(t, m, startFeedCmd(context.Background(), feed, zap.NewNop()))

	if _, ok := m.Session().Listing.Find(9); !ok {
		t.Error("remote change did not reload the listing")
	}
	if id, ok := m.Session().Form.Mode.ProductID(); !ok || id != 1 {
		t.Errorf("mode = %v, want Edit(1) to survive the reload", m.Session().Form.Mode)
	}
	if m.name.Value() != "Coffee Mug XL" {
		t.Errorf("name input = %q, want the typed value", m.name.Value())
	}
	if m.Live() {
		t.Error("model still live after the feed closed")
	}
}

func TestQuit(t *testing.T) {
	m := newTestModel(t, seededAPI(), nil)

	// q types into the search input
	m, cmd := send(t, m, runes("q"))
	if m.search.Value() != "q" {
		t.Errorf("search input = %q, want q", m.search.Value())
	}
	_ = cmd

	_, cmd = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c did not quit")
	}
}

func TestWindowResize(t *testing.T) {
	m := newTestModel(t, seededAPI(), nil)
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	lines := strings.Split(m.View(), "\n")
	if len(lines) != 40 {
		t.Errorf("view height = %d, want 40", len(lines))
	}
}
