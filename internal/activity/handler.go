package activity

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/saulo-duarte/learnpath-lambda/internal/auth"
	"github.com/saulo-duarte/learnpath-lambda/internal/config"
)

type Handler struct {
	service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		log.Warn("User not authenticated")
		config.Error(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		config.Error(w, http.StatusBadRequest, "invalid user id", "")
		return
	}

	activities, err := h.service.ListByUser(r.Context(), userID)
	if err != nil {
		config.Error(w, http.StatusInternalServerError, "internal server error", "")
		return
	}
	if activities == nil {
		activities = []*Activity{}
	}

	config.JSON(w, http.StatusOK, activities)
}
