package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/Abhay69095/Buildmart/internal/errors"
	"github.com/Abhay69095/Buildmart/internal/http/middleware"
	"github.com/Abhay69095/Buildmart/internal/models"
	"github.com/Abhay69095/Buildmart/internal/service"
)

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

type contactStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handlers) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var in contactRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, service.ErrValidation)
		return
	}

	contact, err := h.Service.SubmitContact(r.Context(), models.Contact{
		Name:    in.Name,
		Email:   in.Email,
		Phone:   in.Phone,
		Message: in.Message,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, contact)
}

func (h *Handlers) ListContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.Service.ListContacts(r.Context())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if contacts == nil {
		contacts = []models.Contact{}
	}
	writeJSON(w, http.StatusOK, contacts)
}

func (h *Handlers) UpdateContactStatus(w http.ResponseWriter, r *http.Request) {
	var in contactStatusRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, service.ErrValidation)
		return
	}

	actor := middleware.UserFrom(r.Context())

	contact, err := h.Service.UpdateContactStatus(r.Context(), actor, chi.URLParam(r, "id"), in.Status)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, contact)
}

func (h *Handlers) DeleteContact(w http.ResponseWriter, r *http.Request) {
	actor := middleware.UserFrom(r.Context())

	if err := h.Service.DeleteContact(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "contact deleted"})
}
