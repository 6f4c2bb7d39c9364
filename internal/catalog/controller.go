package catalog

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/muurk/catalog/internal/logging"
	"github.com/muurk/catalog/internal/productapi"
)

// ProductAPI is the subset of *productapi.Client the controller uses
type ProductAPI interface {
	ListProducts(ctx context.Context) ([]productapi.Product, error)
	GetProduct(ctx context.Context, id int64) ([]productapi.Product, error)
	SearchProducts(ctx context.Context, name string) ([]productapi.Product, error)
	CreateProduct(ctx context.Context, draft productapi.Draft) (*productapi.Product, error)
	UpdateProduct(ctx context.Context, id int64, draft productapi.Draft) (*productapi.Product, error)
	DeleteProduct(ctx context.Context, id int64) (*productapi.DeleteResult, error)
}

// Options configures a Controller
type Options struct {
	// PreserveFilter keeps the active search after a mutation. When false
	// every mutation reloads the full collection.
	PreserveFilter bool

	// Logger defaults to the package logger named "catalog"
	Logger *zap.Logger
}

// DefaultOptions returns the default controller options
func DefaultOptions() Options {
	return Options{PreserveFilter: true}
}

// Controller runs list, search and mutation requests against the product API.
// Every mutation is followed by a full reload; the controller never patches a
// listing locally. It holds no UI state and is safe for concurrent use.
type Controller struct {
	api            ProductAPI
	preserveFilter bool
	log            *zap.Logger
}

// NewController creates a controller
func NewController(api ProductAPI, opts Options) *Controller {
	log := opts.Logger
	if log == nil {
		log = logging.Named("catalog")
	}
	return &Controller{
		api:            api,
		preserveFilter: opts.PreserveFilter,
		log:            log,
	}
}

// LoadAll fetches the whole collection
func (c *Controller) LoadAll(ctx context.Context) (Listing, error) {
	products, err := c.api.ListProducts(ctx)
	if err != nil {
		return Listing{}, fmt.Errorf("failed to load products: %w", err)
	}
	c.log.Debug("Loaded products", zap.Int("count", len(products)))
	return NewListing(AllProducts, products), nil
}

// Search runs a query. An empty term loads everything. An integer-like term is
// tried as an id first; the name search only runs when the id lookup finds
// nothing.
func (c *Controller) Search(ctx context.Context, term string) (Listing, error) {
	return c.Load(ctx, NewQuery(term))
}

// Load runs an already-normalized query
func (c *Controller) Load(ctx context.Context, q Query) (Listing, error) {
	if q.IsAll() {
		return c.LoadAll(ctx)
	}

	if id, ok := q.ProductID(); ok {
		products, err := c.api.GetProduct(ctx, id)
		switch {
		case err == nil && len(products) > 0:
			c.log.Debug("Found product by id", zap.Int64("id", id))
			return NewListing(q, products), nil
		case err != nil && !productapi.IsNotFound(err):
			return Listing{}, fmt.Errorf("failed to look up product %d: %w", id, err)
		}
		c.log.Debug("No product with id, searching by name", zap.Int64("id", id))
	}

	products, err := c.api.SearchProducts(ctx, q.Term)
	if err != nil {
		return Listing{}, fmt.Errorf("failed to search products: %w", err)
	}
	c.log.Debug("Searched products", zap.String("term", q.Term), zap.Int("count", len(products)))
	return NewListing(q, products), nil
}

// ReloadQuery returns the query to reload after a mutation
func (c *Controller) ReloadQuery(active Query) Query {
	if c.preserveFilter {
		return active
	}
	return AllProducts
}

// DeleteResult is the outcome of Delete
type DeleteResult struct {
	// ID is the product the delete was issued for
	ID int64

	// Deleted reports whether the API accepted the delete
	Deleted bool

	// Listing is the reloaded list; valid only when the error is nil
	Listing Listing
}

// Delete removes a product and reloads. A failed delete returns the error
// without reloading; the error may accompany Deleted=true when only the
// reload failed.
func (c *Controller) Delete(ctx context.Context, id int64, active Query) (DeleteResult, error) {
	result := DeleteResult{ID: id}
	if _, err := c.api.DeleteProduct(ctx, id); err != nil {
		return result, fmt.Errorf("failed to delete product %d: %w", id, err)
	}
	c.log.Info("Deleted product", zap.Int64("id", id))
	result.Deleted = true

	var err error
	result.Listing, err = c.Load(ctx, c.ReloadQuery(active))
	return result, err
}

// SubmitResult is the outcome of Submit
type SubmitResult struct {
	// Form is the form to show next: reset to Add once the mutation
	// succeeded, the submitted form otherwise.
	Form Form

	// Saved reports whether the create or update succeeded
	Saved bool

	// Product is the server's answer to the mutation
	Product productapi.Product

	// Listing is the reloaded list; valid only when the error is nil
	Listing Listing
}

// Submit validates the form and creates (Add) or updates (Edit) the product,
// then reloads. The returned error may accompany Saved=true when only the
// reload failed.
func (c *Controller) Submit(ctx context.Context, form Form, active Query) (SubmitResult, error) {
	result := SubmitResult{Form: form}

	draft, err := form.Fields.Draft()
	if err != nil {
		return result, err
	}

	var saved *productapi.Product
	if id, editing := form.Mode.ProductID(); editing {
		saved, err = c.api.UpdateProduct(ctx, id, draft)
		if err != nil {
			return result, fmt.Errorf("failed to update product %d: %w", id, err)
		}
		c.log.Info("Updated product", zap.Int64("id", id))
	} else {
		saved, err = c.api.CreateProduct(ctx, draft)
		if err != nil {
			return result, fmt.Errorf("failed to create product: %w", err)
		}
		c.log.Info("Created product", zap.String("name", draft.Name))
	}

	result.Saved = true
	result.Form = form.Reset()
	if saved != nil {
		result.Product = *saved
	}

	result.Listing, err = c.Load(ctx, c.ReloadQuery(active))
	if err != nil {
		return result, err
	}
	return result, nil
}
