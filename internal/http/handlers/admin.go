package handlers

import (
	"net/http"

	apierrors "github.com/Abhay69095/Buildmart/internal/errors"
	"github.com/Abhay69095/Buildmart/internal/http/middleware"
	"github.com/Abhay69095/Buildmart/internal/models"
)

// DashboardStats отдаёт сводку для админ-панели.
func (h *Handlers) DashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.DashboardStats(r.Context())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// VerifyAdmin подтверждает фронту, что текущий токен принадлежит админу.
// До хендлера доходят только запросы, прошедшие Authenticate+RequireAdmin,
// поэтому тело тривиально.
func (h *Handlers) VerifyAdmin(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())

	writeJSON(w, http.StatusOK, map[string]any{
		"isAdmin": true,
		"user": map[string]string{
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

// ListActivities отдаёт последние записи аудита.
func (h *Handlers) ListActivities(w http.ResponseWriter, r *http.Request) {
	activities, err := h.Service.ListActivities(r.Context())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if activities == nil {
		activities = []models.Activity{}
	}
	writeJSON(w, http.StatusOK, activities)
}
