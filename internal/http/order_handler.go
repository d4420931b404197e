package http

import (
	"net/http"

	"github.com/fjod/go_pizza/internal/domain"
	"github.com/fjod/go_pizza/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type OrderHandler struct{}

func NewOrderHandler() *OrderHandler {
	return &OrderHandler{}
}

type CheckoutRequestDTO struct {
	Address       string `json:"address"`
	Apartment     string `json:"apartment"`
	Entrance      string `json:"entrance"`
	Floor         string `json:"floor"`
	DeliveryTime  string `json:"delivery_time"`
	ScheduledTime string `json:"scheduled_time"`
	Comment       string `json:"comment"`
	PaymentMethod string `json:"payment_method"`
}

type OrdersResponse struct {
	Orders []session.OrderView `json:"orders"`
}

type NotificationsResponse struct {
	Notifications []domain.Notification `json:"notifications"`
}

// Checkout validation lives in the checkout package, so the DTO carries no
// validate tags.
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequestDTO
	if !decodeAndValidate(w, r, nil, &req) {
		return
	}

	order, err := sessionFromContext(r.Context()).Checkout(domain.DeliveryDetails{
		Address:       req.Address,
		Apartment:     req.Apartment,
		Entrance:      req.Entrance,
		Floor:         req.Floor,
		DeliveryTime:  domain.DeliveryTime(req.DeliveryTime),
		ScheduledTime: req.ScheduledTime,
		Comment:       req.Comment,
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, order)
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, OrdersResponse{Orders: sessionFromContext(r.Context()).Orders()})
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}
	order, err := sessionFromContext(r.Context()).Order(id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) Repeat(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}
	view, err := sessionFromContext(r.Context()).RepeatOrder(id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (h *OrderHandler) Advance(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}
	order, err := sessionFromContext(r.Context()).AdvanceOrder(id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}
	order, err := sessionFromContext(r.Context()).CancelOrder(id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	notes := sessionFromContext(r.Context()).DrainNotifications()
	if notes == nil {
		notes = []domain.Notification{}
	}
	respondJSON(w, http.StatusOK, NotificationsResponse{Notifications: notes})
}

func orderID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order id must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}
