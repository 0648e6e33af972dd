package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/Abhay69095/Buildmart/internal/errors"
	"github.com/Abhay69095/Buildmart/internal/models"
	"github.com/Abhay69095/Buildmart/internal/service"
)

func (h *Handlers) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.Service.ListProducts(r.Context())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if products == nil {
		products = []models.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *Handlers) ProductByID(w http.ResponseWriter, r *http.Request) {
	product, err := h.Service.ProductByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

func (h *Handlers) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var in models.Product
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, service.ErrValidation)
		return
	}

	product, err := h.Service.CreateProduct(r.Context(), in)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, product)
}

func (h *Handlers) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var in models.Product
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, service.ErrValidation)
		return
	}

	product, err := h.Service.UpdateProduct(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

func (h *Handlers) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}
