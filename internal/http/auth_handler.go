package http

import (
	"net/http"

	"github.com/fjod/go_pizza/internal/auth"
	"github.com/fjod/go_pizza/internal/domain"
	"github.com/go-playground/validator/v10"
)

type AuthHandler struct {
	validate *validator.Validate
}

func NewAuthHandler(validate *validator.Validate) *AuthHandler {
	return &AuthHandler{validate: validate}
}

type PhoneRequestDTO struct {
	Phone string `json:"phone" validate:"required"`
}

type CodeRequestDTO struct {
	Code string `json:"code" validate:"required"`
}

type NameRequestDTO struct {
	Name string `json:"name" validate:"required"`
}

type StepResponse struct {
	Step auth.Step `json:"step"`
}

type ProfileResponse struct {
	User           domain.User `json:"user"`
	FormattedPhone string      `json:"formatted_phone"`
	OrderCount     int         `json:"order_count"`
}

func (h *AuthHandler) SubmitPhone(w http.ResponseWriter, r *http.Request) {
	var req PhoneRequestDTO
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}
	s := sessionFromContext(r.Context())
	if err := s.SubmitPhone(req.Phone); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, StepResponse{Step: s.AuthStep()})
}

func (h *AuthHandler) SubmitCode(w http.ResponseWriter, r *http.Request) {
	var req CodeRequestDTO
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}
	s := sessionFromContext(r.Context())
	if err := s.SubmitCode(req.Code); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, StepResponse{Step: s.AuthStep()})
}

func (h *AuthHandler) SubmitName(w http.ResponseWriter, r *http.Request) {
	var req NameRequestDTO
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}
	s := sessionFromContext(r.Context())
	user, err := s.SubmitName(req.Name)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, profile(user, len(s.Orders())))
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sessionFromContext(r.Context()).Logout()
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	s := sessionFromContext(r.Context())
	user, err := s.User()
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, profile(user, len(s.Orders())))
}

func profile(u domain.User, orders int) ProfileResponse {
	return ProfileResponse{User: u, FormattedPhone: auth.FormatPhone(u.Phone), OrderCount: orders}
}
