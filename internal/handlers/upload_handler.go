package handlers

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/Adilzhan2201/Special_Network/pkg/logger"
	"github.com/google/uuid"
)

// UploadHandler stores client media and hands back a storage-relative
// path. The core never looks inside the bytes; stores just carry the
// returned path around.
type UploadHandler struct {
	Dir string
}

func NewUploadHandler(dir string) *UploadHandler {
	return &UploadHandler{Dir: dir}
}

// UploadFileHandler accepts a multipart image and saves it under the
// upload directory with a generated unique name.
func (h *UploadHandler) UploadFileHandler(w http.ResponseWriter, r *http.Request) {
	r.ParseMultipartForm(10 << 20) // max ~10MB
	file, header, err := r.FormFile("image")
	if err != nil {
		file, header, err = r.FormFile("file")
		if err != nil {
			http.Error(w, "Failed to read file", http.StatusBadRequest)
			return
		}
	}
	defer file.Close()

	if ct := header.Header.Get("Content-Type"); !strings.HasPrefix(ct, "image/") {
		http.Error(w, "Only image files are allowed", http.StatusBadRequest)
		return
	}

	fileName := uuid.NewString() + filepath.Ext(header.Filename)
	if err := os.MkdirAll(h.Dir, 0o755); err != nil {
		http.Error(w, "Failed to save file", http.StatusInternalServerError)
		return
	}

	out, err := os.Create(filepath.Join(h.Dir, fileName))
	if err != nil {
		http.Error(w, "Failed to save file", http.StatusInternalServerError)
		return
	}
	defer out.Close()

	if _, err := io.Copy(out, file); err != nil {
		http.Error(w, "Failed to save file", http.StatusInternalServerError)
		return
	}

	logger.Log.Infof("Stored upload %s", fileName)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"url":  "/uploads/" + fileName,
		"name": header.Filename,
	})
}
