package user

import (
	"net/http"

	"github.com/saulo-duarte/learnpath-lambda/internal/auth"
	"github.com/saulo-duarte/learnpath-lambda/internal/config"
)

type Handler struct {
	repo UserRepository
}

func NewHandler(repo UserRepository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		config.Error(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	u, err := h.repo.GetByID(r.Context(), claims.UserID)
	if err != nil {
		log.WithError(err).Error("Failed to load user")
		config.Error(w, http.StatusInternalServerError, "internal server error", "")
		return
	}
	if u == nil {
		config.Error(w, http.StatusNotFound, "user not found", "")
		return
	}

	config.JSON(w, http.StatusOK, u)
}
