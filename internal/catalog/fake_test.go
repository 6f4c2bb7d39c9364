package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/muurk/catalog/internal/productapi"
)

// fakeAPI is an in-memory ProductAPI that records calls
type fakeAPI struct {
	mu       sync.Mutex
	products map[int64]productapi.Product
	nextID   int64
	calls    []string

	// err, when set for a method name, is returned instead of doing the work
	errs map[string]error

	lastDraft productapi.Draft
}

func newFakeAPI(products ...productapi.Product) *fakeAPI {
	f := &fakeAPI{
		products: make(map[int64]productapi.Product),
		nextID:   1,
		errs:     make(map[string]error),
	}
	for _, p := range products {
		f.products[p.ID] = p
		if p.ID >= f.nextID {
			f.nextID = p.ID + 1
		}
	}
	return f
}

func product(id int64, name, price string) productapi.Product {
	return productapi.Product{ID: id, Name: name, Price: decimal.RequireFromString(price)}
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

func (f *fakeAPI) all() []productapi.Product {
	out := make([]productapi.Product, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeAPI) Snapshot() []productapi.Product {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.all()
}

func (f *fakeAPI) ListProducts(ctx context.Context) ([]productapi.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("list"); err != nil {
		return nil, err
	}
	return f.all(), nil
}

func (f *fakeAPI) GetProduct(ctx context.Context, id int64) ([]productapi.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("get"); err != nil {
		return nil, err
	}
	if p, ok := f.products[id]; ok {
		return []productapi.Product{p}, nil
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
	for _, p := range f.all() {
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
	f.products[p.ID] = p
	return &p, nil
}

func (f *fakeAPI) UpdateProduct(ctx context.Context, id int64, draft productapi.Draft) (*productapi.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("update"); err != nil {
		return nil, err
	}
	f.lastDraft = draft
	if _, ok := f.products[id]; !ok {
		return nil, productapi.NewNotFoundError("no such product")
	}
	p := draft.WithID(id)
	f.products[id] = p
	return &p, nil
}

func (f *fakeAPI) DeleteProduct(ctx context.Context, id int64) (*productapi.DeleteResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("delete"); err != nil {
		return nil, err
	}
	delete(f.products, id)
	return &productapi.DeleteResult{Message: "Product deleted", ID: id}, nil
}
