package quiz

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/saulo-duarte/learnpath-lambda/internal/auth"
	"github.com/saulo-duarte/learnpath-lambda/internal/config"
)

type Handler struct {
	service QuizService
}

func NewHandler(s QuizService) *Handler {
	return &Handler{service: s}
}

func (h *Handler) GenerateQuiz(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		log.Warn("User not authenticated to generate quiz")
		config.Error(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req GenerateQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.WithError(err).Warn("Invalid generate quiz body")
		config.Error(w, http.StatusBadRequest, "invalid request body", "")
		return
	}

	resp, err := h.service.GenerateQuiz(r.Context(), claims.UserID, req)
	if err != nil {
		writeError(w, err)
		return
	}

	config.JSON(w, http.StatusOK, resp)
}

func (h *Handler) SubmitQuiz(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		log.Warn("User not authenticated to submit quiz")
		config.Error(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req SubmitQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.WithError(err).Warn("Invalid submit quiz body")
		config.Error(w, http.StatusBadRequest, "invalid request body", "")
		return
	}

	resp, err := h.service.SubmitQuiz(r.Context(), claims.UserID, req)
	if err != nil {
		writeError(w, err)
		return
	}

	config.JSON(w, http.StatusOK, resp)
}

func (h *Handler) ListResults(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		config.Error(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	results, err := h.service.ListResults(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	if results == nil {
		results = []*QuizResult{}
	}

	config.JSON(w, http.StatusOK, results)
}

func (h *Handler) GetResult(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		config.Error(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		config.Error(w, http.StatusBadRequest, "invalid result id", "")
		return
	}

	res, err := h.service.GetResult(r.Context(), claims.UserID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	if res == nil {
		config.Error(w, http.StatusNotFound, "quiz result not found", "")
		return
	}

	config.JSON(w, http.StatusOK, res)
}

func writeError(w http.ResponseWriter, err error) {
	var genErr *GenerationError
	switch {
	case errors.Is(err, ErrInvalidTopic),
		errors.Is(err, ErrInvalidAnswers),
		errors.Is(err, ErrInvalidSession),
		errors.Is(err, ErrQuizNotFound):
		config.Error(w, http.StatusBadRequest, err.Error(), "")
	case errors.Is(err, ErrUserNotFound):
		config.Error(w, http.StatusNotFound, err.Error(), "")
	case errors.As(err, &genErr):
		config.Error(w, http.StatusInternalServerError, "failed to generate quiz", genErr.Error())
	default:
		config.Error(w, http.StatusInternalServerError, "internal server error", "")
	}
}
