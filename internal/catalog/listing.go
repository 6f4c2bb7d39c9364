package catalog

import (
	"strconv"
	"strings"

	"github.com/muurk/catalog/internal/productapi"
)

// NoProductsPlaceholder is the text of the single row shown for an empty result
const NoProductsPlaceholder = "No products found"

// Query is the active list filter. The zero value shows all products.
type Query struct {
	Term string
}

// NewQuery trims the search term
func NewQuery(term string) Query {
	return Query{Term: strings.TrimSpace(term)}
}

// AllProducts is the unfiltered query
var AllProducts = Query{}

// IsAll reports whether the query shows the whole collection
func (q Query) IsAll() bool {
	return q.Term == ""
}

// ProductID returns the term as an id when it is integer-like: it parses as an
// integer and its canonical decimal form is the term itself ("42", not "042").
func (q Query) ProductID() (int64, bool) {
	if q.Term == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(q.Term, 10, 64)
	if err != nil || strconv.FormatInt(id, 10) != q.Term {
		return 0, false
	}
	return id, true
}

// String implements fmt.Stringer
func (q Query) String() string {
	if q.IsAll() {
		return "all products"
	}
	return strconv.Quote(q.Term)
}

// RowAction is an action available on a product row
type RowAction string

const (
	RowEdit   RowAction = "edit"
	RowDelete RowAction = "delete"
)

// Row is one rendered list entry: a product or the empty placeholder
type Row struct {
	Product     productapi.Product
	Placeholder bool
}

// Label is the text shown for the row
func (r Row) Label() string {
	if r.Placeholder {
		return NoProductsPlaceholder
	}
	return r.Product.FormatCompact()
}

// Actions returns the row actions; the placeholder has none
func (r Row) Actions() []RowAction {
	if r.Placeholder {
		return nil
	}
	return []RowAction{RowEdit, RowDelete}
}

// Listing is the result of a list request
type Listing struct {
	Query    Query
	Products []productapi.Product
}

// NewListing builds a listing; a nil product slice is stored as empty
func NewListing(q Query, products []productapi.Product) Listing {
	if products == nil {
		products = []productapi.Product{}
	}
	return Listing{Query: q, Products: products}
}

// IsEmpty reports whether the result has no products
func (l Listing) IsEmpty() bool {
	return len(l.Products) == 0
}

// Rows renders the listing: one row per product, or the placeholder
func (l Listing) Rows() []Row {
	if l.IsEmpty() {
		return []Row{{Placeholder: true}}
	}
	rows := make([]Row, len(l.Products))
	for i, p := range l.Products {
		rows[i] = Row{Product: p}
	}
	return rows
}

// Len returns the number of rendered rows
func (l Listing) Len() int {
	if l.IsEmpty() {
		return 1
	}
	return len(l.Products)
}

// Find returns the product with the given id
func (l Listing) Find(id int64) (productapi.Product, bool) {
	for _, p := range l.Products {
		if p.ID == id {
			return p, true
		}
	}
	return productapi.Product{}, false
}
