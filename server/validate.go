package server

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
)

// Per-file upload limit. Vision and Baidu both reject payloads well below
// this, so larger files would fail later anyway.
const maxFileSize = 10 << 20

var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
	".bmp":  true,
	".gif":  true,
}

type upload struct {
	name string
	data []byte
}

// ValidateUpload checks a file name and size against the supported image
// formats and the per-file limit.
func ValidateUpload(filename string, size int64) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return fmt.Errorf("unsupported file format: %q", ext)
	}
	if size > maxFileSize {
		return fmt.Errorf("file too large: %s", filename)
	}
	return nil
}

// readUploads parses the multipart form and validates every file. On
// failure it writes the error response itself and returns a non-nil error
// so the handler can bail out.
func readUploads(w http.ResponseWriter, r *http.Request) ([]upload, error) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return nil, fmt.Errorf("method not allowed")
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return nil, err
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, "upload at least one image")
		return nil, fmt.Errorf("no files")
	}

	uploads := make([]upload, 0, len(files))
	for _, header := range files {
		if err := ValidateUpload(header.Filename, header.Size); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return nil, err
		}

		file, err := header.Open()
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to read %s", header.Filename))
			return nil, err
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to read %s", header.Filename))
			return nil, err
		}

		uploads = append(uploads, upload{name: header.Filename, data: data})
	}
	return uploads, nil
}
