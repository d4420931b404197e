package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/fjod/go_pizza/internal/catalog"
	"github.com/fjod/go_pizza/internal/domain"
	"github.com/fjod/go_pizza/internal/promo"
	"github.com/go-chi/chi/v5"
)

type Catalog interface {
	Menu(ctx context.Context) ([]domain.CatalogItem, error)
	Item(ctx context.Context, id int64) (*domain.CatalogItem, error)
	ByCategory(ctx context.Context, category string) ([]domain.CatalogItem, error)
	Popular(ctx context.Context) ([]domain.CatalogItem, error)
	Featured(ctx context.Context) (catalog.Featured, error)
	Reviews(ctx context.Context) ([]domain.Review, error)
	AverageRating(ctx context.Context) (float64, error)
}

type MenuHandler struct {
	catalog Catalog
	timeout time.Duration
}

func NewMenuHandler(c Catalog, timeout time.Duration) *MenuHandler {
	return &MenuHandler{catalog: c, timeout: timeout}
}

type MenuResponse struct {
	Items []domain.CatalogItem `json:"items"`
}

type ReviewsResponse struct {
	Reviews       []domain.Review `json:"reviews"`
	AverageRating float64         `json:"average_rating"`
}

// List serves the menu, optionally narrowed by ?category=.
func (h *MenuHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var (
		items []domain.CatalogItem
		err   error
	)
	if category := r.URL.Query().Get("category"); category != "" {
		items, err = h.catalog.ByCategory(ctx, category)
	} else {
		items, err = h.catalog.Menu(ctx)
	}
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, MenuResponse{Items: items})
}

func (h *MenuHandler) Popular(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	items, err := h.catalog.Popular(ctx)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, MenuResponse{Items: items})
}

func (h *MenuHandler) Featured(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	featured, err := h.catalog.Featured(ctx)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, featured)
}

func (h *MenuHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "id must be a positive integer")
		return
	}

	item, err := h.catalog.Item(ctx, id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

func (h *MenuHandler) Reviews(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	reviews, err := h.catalog.Reviews(ctx)
	if err != nil {
		handleError(w, r, err)
		return
	}
	avg, err := h.catalog.AverageRating(ctx)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, ReviewsResponse{Reviews: reviews, AverageRating: avg})
}

func (h *MenuHandler) Promos(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string][]promo.Banner{"banners": promo.Banners()})
}
