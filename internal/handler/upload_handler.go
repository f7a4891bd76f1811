package handler

import (
	"errors"
	"io"
	"net/http"
	"time"

	"storefront/internal/model"
	"storefront/internal/storage"

	"github.com/rs/zerolog"
)

const maxUploadBytes = 10 << 20

// UploadHandler stores uploaded files and returns their public URL.
type UploadHandler struct {
	store  storage.Store
	logger zerolog.Logger
	now    func() time.Time
}

// NewUploadHandler creates a new upload handler.
func NewUploadHandler(store storage.Store, logger zerolog.Logger) *UploadHandler {
	return &UploadHandler{
		store:  store,
		logger: logger.With().Str("handler", "upload").Logger(),
		now:    time.Now,
	}
}

type uploadResponse struct {
	URL string `json:"url"`
}

// Upload handles POST /api/upload requests with a multipart "file" field.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes+(1<<20))
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, http.StatusRequestEntityTooLarge, model.ErrCodeInvalidInput, "file is too large", h.logger)
			return
		}
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidInput, "invalid multipart form", h.logger)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeMissingField, "No file uploaded", h.logger)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidInput, "failed to read file", h.logger)
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	url, err := h.store.Put(r.Context(), storage.Object{
		Name:        storage.ObjectName(h.now(), header.Filename),
		Data:        data,
		ContentType: contentType,
	})
	if err != nil {
		h.logger.Error().Err(err).Str("file", header.Filename).Msg("failed to store upload")
		writeError(w, r, http.StatusInternalServerError, model.ErrCodeInternalError, "failed to store file", h.logger)
		return
	}

	h.logger.Info().Str("url", url).Int("bytes", len(data)).Msg("file uploaded")
	writeJSON(w, http.StatusOK, uploadResponse{URL: url})
}
