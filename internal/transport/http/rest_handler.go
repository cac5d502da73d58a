package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"quiz-engine-service/internal/app"
	"quiz-engine-service/internal/authoring"
	"quiz-engine-service/internal/domain"
)

// RESTHandler serves the authoring and instructor-facing endpoints.
type RESTHandler struct {
	service *app.QuizService
}

func NewRESTHandler(service *app.QuizService) *RESTHandler {
	return &RESTHandler{service: service}
}

// Register wires the REST routes onto the mux.
func (h *RESTHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/quizzes", h.handleQuizzes)
	mux.HandleFunc("/quizzes/", h.handleQuizSubtree)
}

// handleQuizzes accepts an authoring draft and publishes it. A draft that
// fails validation comes back as a 422 with the full violation report.
func (h *RESTHandler) handleQuizzes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var draft authoring.Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeJSON(w, http.StatusBadRequest, errorPayload{Message: "invalid draft payload"})
		return
	}

	quiz, report, err := h.service.PublishDraft(r.Context(), draft)
	if err != nil {
		log.Printf("publish draft: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorPayload{Message: "failed to save quiz"})
		return
	}
	if !report.Valid() {
		writeJSON(w, http.StatusUnprocessableEntity, report)
		return
	}
	writeJSON(w, http.StatusCreated, quiz)
}

func (h *RESTHandler) handleQuizSubtree(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/quizzes/")
	quizID, tail, _ := strings.Cut(rest, "/")
	if quizID == "" {
		http.NotFound(w, r)
		return
	}

	switch {
	case tail == "analytics" && r.Method == http.MethodGet:
		h.handleAnalytics(w, r, quizID)
	default:
		http.NotFound(w, r)
	}
}

func (h *RESTHandler) handleAnalytics(w http.ResponseWriter, r *http.Request, quizID string) {
	snap, err := h.service.Analytics(r.Context(), quizID)
	if errors.Is(err, domain.ErrQuizNotFound) {
		writeJSON(w, http.StatusNotFound, errorPayload{Message: "quiz not found"})
		return
	}
	if err != nil {
		log.Printf("analytics for quiz %s: %v", quizID, err)
		writeJSON(w, http.StatusInternalServerError, errorPayload{Message: "failed to compute analytics"})
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
