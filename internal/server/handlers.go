package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/muurk/catalog/internal/logging"
	"github.com/muurk/catalog/internal/productapi"
	"github.com/muurk/catalog/internal/store"
)

// maxBodySize caps create and update bodies
const maxBodySize = 64 << 10

// productRequest mirrors productapi.Draft with optional fields so a missing
// price can be told apart from zero
type productRequest struct {
	Name        string           `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
}

func (req productRequest) draft() (productapi.Draft, error) {
	if err := productapi.ValidateName(req.Name); err != nil {
		return productapi.Draft{}, err
	}
	if req.Price == nil {
		return productapi.Draft{}, productapi.NewFieldValidationError("price", "price is required")
	}

	d := productapi.Draft{Name: req.Name, Price: *req.Price}
	if req.Description != nil {
		d.Description = *req.Description
	}
	if err := d.Validate(); err != nil {
		return productapi.Draft{}, err
	}
	return d, nil
}

type handlers struct {
	store store.Store
	hub   *Hub
}

func (h *handlers) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.store.List(r.Context())
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// getProduct answers with an array of zero or one products
func (h *handlers) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	p, err := h.store.Get(r.Context(), id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusOK, []productapi.Product{})
	case err != nil:
		writeInternalError(w, r, err)
	default:
		writeJSON(w, http.StatusOK, []productapi.Product{p})
	}
}

func (h *handlers) searchProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.store.Search(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *handlers) createProduct(w http.ResponseWriter, r *http.Request) {
	draft, ok := decodeDraft(w, r)
	if !ok {
		return
	}

	p, err := h.store.Create(r.Context(), draft)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}

	logging.Info("Product created", zap.Int64("id", p.ID), zap.String("request_id", RequestIDFrom(r.Context())))
	h.hub.Publish(productapi.Event{Type: productapi.EventCreated, Product: p})
	writeJSON(w, http.StatusCreated, p)
}

func (h *handlers) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}
	draft, ok := decodeDraft(w, r)
	if !ok {
		return
	}

	p, err := h.store.Update(r.Context(), id, draft)
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeNotFound(w, fmt.Sprintf("product %d not found", id))
		return
	case err != nil:
		writeInternalError(w, r, err)
		return
	}

	logging.Info("Product updated", zap.Int64("id", p.ID), zap.String("request_id", RequestIDFrom(r.Context())))
	h.hub.Publish(productapi.Event{Type: productapi.EventUpdated, Product: p})
	writeJSON(w, http.StatusOK, p)
}

func (h *handlers) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	err := h.store.Delete(r.Context(), id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeNotFound(w, fmt.Sprintf("product %d not found", id))
		return
	case err != nil:
		writeInternalError(w, r, err)
		return
	}

	logging.Info("Product deleted", zap.Int64("id", id), zap.String("request_id", RequestIDFrom(r.Context())))
	h.hub.Publish(productapi.Event{Type: productapi.EventDeleted, Product: productapi.Product{ID: id}})
	writeJSON(w, http.StatusOK, productapi.DeleteResult{Message: "Product deleted", ID: id})
}

func productID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeValidationError(w, fmt.Sprintf("product id %q is not an integer", raw), "id")
		return 0, false
	}
	return id, true
}

func decodeDraft(w http.ResponseWriter, r *http.Request) (productapi.Draft, bool) {
	var req productRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	if err := dec.Decode(&req); err != nil {
		writeValidationError(w, "request body must be a JSON object with name, description and price", "body")
		return productapi.Draft{}, false
	}

	draft, err := req.draft()
	if err != nil {
		var apiErr *productapi.APIError
		if errors.As(err, &apiErr) {
			writeValidationError(w, apiErr.Message, apiErr.Field)
		} else {
			writeValidationError(w, err.Error(), "")
		}
		return productapi.Draft{}, false
	}
	return draft, true
}
