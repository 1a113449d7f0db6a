package http

import (
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/campusnest/accommodation-service/internal/domain"
	"github.com/campusnest/accommodation-service/internal/platform/logger"
)

// FileHandler serves stored photo files from the local upload directory.
// It is only mounted when the disk storage driver is active.
type FileHandler struct {
	root   string
	logger *logger.Logger
}

func NewFileHandler(root string, log *logger.Logger) *FileHandler {
	return &FileHandler{root: root, logger: log.Named("FileHandler")}
}

// Serve handles GET /api/files/images/{fileName}. filepath.Base strips any
// path components so requests cannot escape the upload directory.
func (h *FileHandler) Serve(w http.ResponseWriter, r *http.Request) {
	fileName := filepath.Base(chi.URLParam(r, "fileName"))
	if fileName == "." || fileName == ".." || fileName == "/" {
		respondError(w, h.logger, domain.ErrInvalidInput)
		return
	}
	http.ServeFile(w, r, filepath.Join(h.root, fileName))
}
