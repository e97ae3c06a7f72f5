package quiz

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Post("/", h.GenerateQuiz)
	r.Post("/submit", h.SubmitQuiz)
	r.Get("/history", h.ListResults)
	r.Get("/history/{id}", h.GetResult)
	return r
}
