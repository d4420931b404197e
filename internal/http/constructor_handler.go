package http

import (
	"net/http"

	"github.com/fjod/go_pizza/internal/customizer"
	"github.com/fjod/go_pizza/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type ConstructorHandler struct {
	validate *validator.Validate
}

func NewConstructorHandler(validate *validator.Validate) *ConstructorHandler {
	return &ConstructorHandler{validate: validate}
}

type OptionsResponse struct {
	Ingredients []domain.Ingredient    `json:"ingredients"`
	Sizes       []customizer.SizeInfo  `json:"sizes"`
	Doughs      []customizer.DoughInfo `json:"doughs"`
}

type SizeRequestDTO struct {
	Size domain.Size `json:"size" validate:"required"`
}

type DoughRequestDTO struct {
	Dough domain.Dough `json:"dough" validate:"required"`
}

func (h *ConstructorHandler) Options(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, OptionsResponse{
		Ingredients: customizer.Ingredients,
		Sizes:       customizer.Sizes,
		Doughs:      customizer.Doughs,
	})
}

func (h *ConstructorHandler) Open(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusCreated, sessionFromContext(r.Context()).OpenBuilder())
}

func (h *ConstructorHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := sessionFromContext(r.Context()).Builder()
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (h *ConstructorHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	view, err := sessionFromContext(r.Context()).ToggleIngredient(chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (h *ConstructorHandler) SetSize(w http.ResponseWriter, r *http.Request) {
	var req SizeRequestDTO
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}
	view, err := sessionFromContext(r.Context()).SetSize(req.Size)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (h *ConstructorHandler) SetDough(w http.ResponseWriter, r *http.Request) {
	var req DoughRequestDTO
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}
	view, err := sessionFromContext(r.Context()).SetDough(req.Dough)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (h *ConstructorHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	view, err := sessionFromContext(r.Context()).ConfirmBuilder()
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, view)
}

func (h *ConstructorHandler) Close(w http.ResponseWriter, r *http.Request) {
	sessionFromContext(r.Context()).CloseBuilder()
	w.WriteHeader(http.StatusNoContent)
}
