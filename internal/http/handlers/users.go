package handlers

import (
	"net/http"

	apierrors "github.com/Abhay69095/Buildmart/internal/errors"
	"github.com/Abhay69095/Buildmart/internal/http/middleware"
	"github.com/Abhay69095/Buildmart/internal/models"
	"github.com/Abhay69095/Buildmart/internal/service"
)

type promoteRequest struct {
	UserID string `json:"userId"`
}

func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.ListUsers(r.Context())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if users == nil {
		users = []models.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *Handlers) PromoteUser(w http.ResponseWriter, r *http.Request) {
	var in promoteRequest
	if err := decodeStrict(r, &in); err != nil || in.UserID == "" {
		apierrors.WriteError(w, r, service.ErrValidation)
		return
	}

	actor := middleware.UserFrom(r.Context())

	user, err := h.Service.PromoteUser(r.Context(), actor, in.UserID)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
