package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/s/learnhub/internal/content"
	"github.com/s/learnhub/internal/enrollment"
	"github.com/s/learnhub/internal/models"
	"github.com/s/learnhub/internal/storage"
)

type enrollRequest struct {
	CourseSlug string `json:"courseSlug" validate:"notblank"`
}

// POST /api/enrollments
// Enrolling again overwrites the previous enrollment and its lesson history.
func (h *Handler) EnrollAPI(w http.ResponseWriter, r *http.Request) {
	var req enrollRequest
	if err := Decode(r, &req); err != nil {
		h.HandleError(w, r, err)
		return
	}
	slug, err := content.ValidateSlug(req.CourseSlug)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	course := h.Catalog.CourseBySlug(r.Context(), slug)
	if course == nil {
		h.HandleError(w, r, content.ErrNotFound)
		return
	}

	enr, err := h.Enrollments.Enroll(r.Context(), currentUID(r), enrollment.CourseRef{
		ID:    course.ID,
		Title: course.Title,
		Slug:  course.Slug,
	})
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	JSON(w, http.StatusCreated, enr)
}

// GET /api/enrollments/{courseId}
func (h *Handler) CheckEnrollmentAPI(w http.ResponseWriter, r *http.Request) {
	enr, err := h.Enrollments.Check(r.Context(), currentUID(r), mux.Vars(r)["courseId"])
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, map[string]interface{}{
		"enrolled":   enr != nil,
		"enrollment": enr,
	})
}

type classroom struct {
	Course     CourseView          `json:"course"`
	Enrollment *models.Enrollment  `json:"enrollment"`
	Progress   enrollment.Progress `json:"progress"`
}

// GET /api/classroom/{slug}
func (h *Handler) ClassroomAPI(w http.ResponseWriter, r *http.Request) {
	course := h.courseFromSlug(w, r)
	if course == nil {
		return
	}
	enr, err := h.Enrollments.Check(r.Context(), currentUID(r), course.ID)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	if enr == nil {
		Error(w, http.StatusForbidden, "not enrolled in this course")
		return
	}

	JSON(w, http.StatusOK, classroom{
		Course:     NewCourseView(course),
		Enrollment: enr,
		Progress:   enrollment.Summarize(*enr, course),
	})
}

// POST /api/progress/{courseId}/lessons/{lessonId}
func (h *Handler) CompleteLessonAPI(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	err := h.Enrollments.RecordLessonComplete(r.Context(), currentUID(r), vars["courseId"], vars["lessonId"])
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type attemptRequest struct {
	CourseID string             `json:"courseId"`
	ExamID   string             `json:"examId" validate:"notblank"`
	Type     models.AttemptType `json:"type" validate:"attempttype"`
	Score    int                `json:"score"`
	MaxScore int                `json:"maxScore"`
	Answers  []models.Answer    `json:"answers"`
}

// POST /api/attempts
// The score is taken as submitted.
func (h *Handler) SaveAttemptAPI(w http.ResponseWriter, r *http.Request) {
	var req attemptRequest
	if err := Decode(r, &req); err != nil {
		h.HandleError(w, r, err)
		return
	}

	id, err := h.Quizzes.RecordAttempt(r.Context(), models.QuizAttempt{
		UserID:   currentUID(r),
		CourseID: req.CourseID,
		ExamID:   req.ExamID,
		Type:     req.Type,
		Score:    req.Score,
		MaxScore: req.MaxScore,
		Answers:  req.Answers,
	})
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	JSON(w, http.StatusCreated, map[string]string{"id": id})
}

// GET /api/attempts?examId=&courseId=
func (h *Handler) ListAttemptsAPI(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p, _ := PageParams(r)
	atts, err := h.Quizzes.ListAttempts(r.Context(), storage.AttemptFilter{
		UserID:   currentUID(r),
		ExamID:   q.Get("examId"),
		CourseID: q.Get("courseId"),
		Page:     p,
	})
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, atts)
}
