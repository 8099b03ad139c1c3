package httpapi

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"homeflow/api/internal/models"
)

const maxUploadMemory = 32 << 20

// handleUpload serves POST /workflows/{step}/upload. The step label is an
// opaque path segment recorded on the document as-is.
func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/workflows/")
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 2 || parts[1] != "upload" || parts[0] == "" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	step := parts[0]

	user, ok := userFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing user")
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "file is required")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "file is required")
		return
	}
	defer file.Close()

	storedName := fmt.Sprintf("%d_%s", time.Now().UnixMilli(), sanitizeFilename(header.Filename))
	if err := h.saveFile(file, storedName); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "could not store file")
		return
	}

	fileURL := requestScheme(r) + "://" + r.Host + "/uploads/" + storedName

	// The document record is appended only after the file is safely on disk,
	// so a failed write never leaves an orphan record.
	doc := models.Document{
		Name:       header.Filename,
		URL:        fileURL,
		Step:       step,
		UploadedAt: time.Now().UTC(),
	}
	if _, err := h.store.AppendDocument(r.Context(), user.ID, doc); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":  true,
		"url": fileURL,
	})
}

func (h *Handler) saveFile(src io.Reader, storedName string) error {
	dst, err := os.Create(filepath.Join(h.uploadDir, storedName))
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}

// sanitizeFilename strips any path components and replaces whitespace with
// underscores so the stored name is a single safe path segment.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return '_'
		}
		return r
	}, name)
}

func requestScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	return "http"
}
