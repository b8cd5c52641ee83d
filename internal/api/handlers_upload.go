// handlers_upload.go - Document upload handler
package api

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shipassist/backend/internal/models"
	"github.com/shipassist/backend/internal/storage"
)

// allowedExtensions is the fixed allow-list for uploaded documents,
// matched case-insensitively.
var allowedExtensions = map[string]bool{
	"csv":  true,
	"pdf":  true,
	"txt":  true,
	"doc":  true,
	"docx": true,
	"xls":  true,
	"xlsx": true,
}

// ErrInvalidFileType is the exact rejection message the front end displays.
const ErrInvalidFileType = "Invalid file type. Allowed types: CSV, PDF, TXT, DOC, DOCX, XLS, XLSX"

// UploadHandlerImpl implements the UploadHandler interface
type UploadHandlerImpl struct {
	store    storage.Store
	recorder UploadRecorder
}

// NewUploadHandler creates a new upload handler instance
func NewUploadHandler(store storage.Store, recorder UploadRecorder) UploadHandler {
	return &UploadHandlerImpl{
		store:    store,
		recorder: recorder,
	}
}

// HandleUpload accepts a single multipart file, validates its extension
// against the allow-list, and writes it to local storage. Size is not
// capped here beyond the server-wide body limit; the client enforces its
// own cap before calling.
func (h *UploadHandlerImpl) HandleUpload(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		h.record("rejected")
		return NewBadRequestError("No file provided")
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(file.Filename), "."))
	if ext == "" || !allowedExtensions[ext] {
		h.record("rejected")
		return NewBadRequestError(ErrInvalidFileType)
	}

	src, err := file.Open()
	if err != nil {
		h.record("error")
		return NewInternalError("Failed to read uploaded file", err)
	}
	defer src.Close()

	info, err := h.store.Save(file.Filename, file.Header.Get("Content-Type"), src)
	if err != nil {
		h.record("error")
		return NewInternalError("Failed to save file", err)
	}

	h.record("accepted")
	return c.JSON(http.StatusOK, models.UploadResponse{
		Success: true,
		File:    info,
	})
}

func (h *UploadHandlerImpl) record(outcome string) {
	if h.recorder != nil {
		h.recorder.RecordUpload(outcome)
	}
}
