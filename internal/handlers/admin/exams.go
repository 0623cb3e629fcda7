package admin

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/s/learnhub/internal/content"
	"github.com/s/learnhub/internal/handlers"
	"github.com/s/learnhub/internal/models"
)

type questionsRequest struct {
	Questions []models.Question `json:"questions" validate:"required,dive"`
}

// PUT /api/admin/exams/{id}/questions
// Replaces the whole question list; the last write wins.
func (s Service) UpdateExamQuestionsAPI(w http.ResponseWriter, r *http.Request) {
	var req questionsRequest
	if err := handlers.Decode(r, &req); err != nil {
		s.HandleError(w, r, err)
		return
	}

	id := mux.Vars(r)["id"]
	if s.Catalog.Exam(r.Context(), id) == nil {
		s.HandleError(w, r, content.ErrNotFound)
		return
	}
	if err := s.Catalog.UpdateExamQuestions(r.Context(), id, req.Questions); err != nil {
		s.HandleError(w, r, err)
		return
	}

	s.Log.WithField("examId", id).WithField("questions", len(req.Questions)).Info("exam questions updated")
	handlers.JSON(w, http.StatusOK, map[string]interface{}{"id": id, "questions": req.Questions})
}
