package handlers

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

func (h *Handler) fileURL(id string) string {
	id = url.QueryEscape(id)
	if strings.Contains(h.FileHostURL, "%s") {
		return fmt.Sprintf(h.FileHostURL, id)
	}
	return h.FileHostURL + id
}

// ProxyPDF streams a file from the file host so it can be embedded cross-origin.
// GET /api/pdf?id=<fileId>
func (h *Handler) ProxyPDF(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if id == "" {
		Error(w, http.StatusBadRequest, "missing file id")
		return
	}

	resp, err := h.Files.R().
		SetContext(r.Context()).
		SetDoNotParseResponse(true).
		Get(h.fileURL(id))
	if err != nil {
		h.Log.WithError(err).WithField("fileId", id).Error("fetch pdf")
		Error(w, http.StatusInternalServerError, "failed to fetch file")
		return
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		h.Log.WithField("fileId", id).WithField("status", resp.StatusCode()).Error("fetch pdf")
		Error(w, http.StatusInternalServerError, "failed to fetch file")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		h.Log.WithError(err).WithField("fileId", id).Warn("stream pdf")
	}
}
