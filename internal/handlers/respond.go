package handlers

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"

	"github.com/pkg/errors"

	"github.com/s/learnhub/internal/content"
	"github.com/s/learnhub/internal/storage"
	"github.com/s/learnhub/internal/validation"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

func JSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func Error(w http.ResponseWriter, code int, message string) {
	JSON(w, code, map[string]string{"error": message})
}

// HandleError maps err onto a response: validation failures are 400 with a
// field map, missing documents 404, anything else 500 (logged).
func (h *Handler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if flds, ok := validation.Fields(err); ok {
		JSON(w, http.StatusBadRequest, flds)
		return
	}
	if errors.Is(err, storage.ErrNotFound) || errors.Is(err, content.ErrNotFound) {
		Error(w, http.StatusNotFound, "not found")
		return
	}

	h.Log.WithError(err).WithFields(map[string]interface{}{
		"method": r.Method,
		"path":   r.URL.Path,
		"uid":    currentUID(r),
	}).Error("request failed")
	Error(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}

// Decode reads a JSON body into v and validates it.
func Decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return validation.NewError(err, validation.FieldError{Field: "body", Error: "invalid JSON"})
	}
	return validation.Struct(v)
}

type Paged struct {
	Data  interface{} `json:"data"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Pages int         `json:"pages"`
}

// PageParams reads 1-based ?page= and ?limit=.
func PageParams(r *http.Request) (storage.Page, int) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return storage.Page{Limit: limit, Offset: (page - 1) * limit}, page
}

func NewPaged(data interface{}, total int64, p storage.Page, page int) Paged {
	return Paged{
		Data:  data,
		Total: total,
		Page:  page,
		Pages: int(math.Ceil(float64(total) / float64(p.Size()))),
	}
}
