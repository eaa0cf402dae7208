package files

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/usaidgithub/QuickShare/internal/infrastructure/json"
	"github.com/usaidgithub/QuickShare/internal/infrastructure/storage"
	"github.com/usaidgithub/QuickShare/internal/infrastructure/ws"
	"go.uber.org/zap"
)

// Slack on top of the file size limit for the other multipart fields.
const multipartOverheadBytes = 1 << 20

type Handler struct {
	store       *storage.LocalStorage
	core        *ws.Core
	publicURL   string
	maxFileSize int64
	logger      *zap.SugaredLogger
}

func NewHandler(store *storage.LocalStorage, core *ws.Core, publicURL string, maxFileSize int64, logger *zap.SugaredLogger) *Handler {
	return &Handler{
		store:       store,
		core:        core,
		publicURL:   publicURL,
		maxFileSize: maxFileSize,
		logger:      logger,
	}
}

// UploadHandler accepts one file per request and, once the artifact is
// safely on disk, announces it to the room through the same fan-out
// path as text messages. The uploader learns of their own upload only
// via that broadcast; the HTTP response just carries the URL.
func (h *Handler) UploadHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize+multipartOverheadBytes)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			json.WriteBadRequestError(w, "File exceeds the upload size limit")
			return
		}
		json.WriteBadRequestError(w, "Missing file, roomId, or sender")
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		json.WriteBadRequestError(w, "Missing file, roomId, or sender")
		return
	}
	file.Close()

	roomID := r.FormValue("roomId")
	sender := r.FormValue("sender")
	if roomID == "" || sender == "" {
		json.WriteBadRequestError(w, "Missing file, roomId, or sender")
		return
	}

	artifact, err := h.store.Save(fileHeader, roomID)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrTooLarge):
			json.WriteBadRequestError(w, "File exceeds the upload size limit")
		case errors.Is(err, storage.ErrMissingField):
			json.WriteBadRequestError(w, "Missing file, roomId, or sender")
		default:
			h.logger.Errorw("file upload failed", "room", roomID, "sender", sender, "error", err)
			json.WriteError(w, http.StatusInternalServerError, err, "Failed to process file")
		}
		return
	}

	fileURL := fmt.Sprintf("%s/tmp/%s", h.publicURL, artifact.StoredName)

	h.logger.Infow("file uploaded",
		"room", roomID,
		"sender", sender,
		"name", artifact.OriginalName,
		"stored", artifact.StoredName,
		"size", artifact.Size,
	)

	// Broadcast strictly after successful persistence
	h.core.Broadcast() <- ws.NewFileMessage(roomID, sender, fileURL, artifact.OriginalName)

	json.Write(w, http.StatusOK, uploadResponse{
		Success: true,
		FileURL: fileURL,
	})
}

// ServeArtifactHandler serves a stored artifact inline, or as a forced
// download when ?download=true is set. Expired, unknown and malformed
// names all answer 404.
func (h *Handler) ServeArtifactHandler(w http.ResponseWriter, r *http.Request) {
	fileName := chi.URLParam(r, "fileName")

	fullPath, err := h.store.Resolve(fileName)
	if err != nil {
		json.WriteNotFoundError(w, "File not found or expired")
		return
	}

	if r.URL.Query().Get("download") == "true" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	}

	http.ServeFile(w, r, fullPath)
}
