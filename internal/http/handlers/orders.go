package handlers

import (
	"net/http"

	apierrors "github.com/Abhay69095/Buildmart/internal/errors"
	"github.com/Abhay69095/Buildmart/internal/http/middleware"
	"github.com/Abhay69095/Buildmart/internal/models"
	"github.com/Abhay69095/Buildmart/internal/service"
)

type createOrderRequest struct {
	ProductID string `json:"productId"`
	Quantity  int64  `json:"quantity"`
}

func (h *Handlers) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var in createOrderRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, service.ErrValidation)
		return
	}

	user := middleware.UserFrom(r.Context())

	order, err := h.Service.CreateOrder(r.Context(), user, in.ProductID, in.Quantity)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, order)
}

func (h *Handlers) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Service.ListOrders(r.Context())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if orders == nil {
		orders = []models.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}
