package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type CartHandler struct {
	catalog  Catalog
	validate *validator.Validate
	timeout  time.Duration
}

func NewCartHandler(c Catalog, validate *validator.Validate, timeout time.Duration) *CartHandler {
	return &CartHandler{catalog: c, validate: validate, timeout: timeout}
}

type AddItemRequestDTO struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
}

type UpdateQuantityRequestDTO struct {
	Quantity *int `json:"quantity" validate:"required,gte=0"`
}

type PromoRequestDTO struct {
	Code string `json:"code" validate:"required"`
}

type BonusesRequestDTO struct {
	Use *bool `json:"use" validate:"required"`
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, sessionFromContext(r.Context()).Cart())
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddItemRequestDTO
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	item, err := h.catalog.Item(ctx, req.ProductID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	view := sessionFromContext(r.Context()).AddMenuItem(*item)
	respondJSON(w, http.StatusCreated, view)
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var req UpdateQuantityRequestDTO
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	view, err := sessionFromContext(r.Context()).SetQuantity(chi.URLParam(r, "line_id"), *req.Quantity)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	view, err := sessionFromContext(r.Context()).RemoveLine(chi.URLParam(r, "line_id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (h *CartHandler) ApplyPromo(w http.ResponseWriter, r *http.Request) {
	var req PromoRequestDTO
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	view, err := sessionFromContext(r.Context()).ApplyPromo(req.Code)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (h *CartHandler) ClearPromo(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, sessionFromContext(r.Context()).ClearPromo())
}

func (h *CartHandler) SetBonuses(w http.ResponseWriter, r *http.Request) {
	var req BonusesRequestDTO
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}
	respondJSON(w, http.StatusOK, sessionFromContext(r.Context()).SetUseBonuses(*req.Use))
}
