package productapi

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// The API speaks JSON numbers for prices, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Product is the sole entity exposed by the remote API.
// Instances held by the client are display copies; the API owns the data.
type Product struct {
	// ID is assigned by the server and never changes.
	ID int64 `json:"id"`

	// Name is the display name (required).
	Name string `json:"name"`

	// Description is optional. A JSON null decodes to "".
	Description string `json:"description"`

	// Price is a decimal amount in the catalog currency.
	Price decimal.Decimal `json:"price"`
}

// Draft is the full replacement representation sent on create and update.
type Draft struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

// Draft returns the editable fields of a product.
func (p Product) Draft() Draft {
	return Draft{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
	}
}

// WithID materializes a draft as a product with the given id.
func (d Draft) WithID(id int64) Product {
	return Product{
		ID:          id,
		Name:        d.Name,
		Description: d.Description,
		Price:       d.Price,
	}
}

// Equal compares drafts using decimal equality for the price, so "12.5" and
// "12.50" are the same draft.
func (d Draft) Equal(other Draft) bool {
	return d.Name == other.Name &&
		d.Description == other.Description &&
		d.Price.Equal(other.Price)
}

// DeleteResult is the acknowledgement returned by DELETE /products/{id}.
type DeleteResult struct {
	Message string `json:"message"`
	ID      int64  `json:"id,omitempty"`
}

// EventType names a change published on the event feed.
type EventType string

const (
	EventCreated EventType = "created"
	EventUpdated EventType = "updated"
	EventDeleted EventType = "deleted"
)

// Event is a single change notification from GET /products/events.
type Event struct {
	Type    EventType `json:"type"`
	Product Product   `json:"product"`
	At      time.Time `json:"at"`
}

// ErrorResponse is the JSON body the API uses for rejected requests.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}
