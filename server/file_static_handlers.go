package server

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

//go:embed static/*
var staticFiles embed.FS

// StaticFilesFS is the embedded stylesheet directory served under /static/.
func StaticFilesFS() fs.FS {
	subFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic("Failed to create sub filesystem: " + err.Error())
	}
	return subFS
}

// StreamFile writes an embedded asset with a content type derived from its extension.
func StreamFile(w http.ResponseWriter, fsys fs.FS, fileName string) error {
	data, err := fs.ReadFile(fsys, fileName)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", fileName, err)
	}

	ctype := mime.TypeByExtension(strings.ToLower(filepath.Ext(fileName)))
	if ctype == "" {
		ctype = http.DetectContentType(data)
	}
	if strings.HasPrefix(ctype, "text/") && !strings.Contains(strings.ToLower(ctype), "charset=") {
		ctype += "; charset=utf-8"
	}
	w.Header().Set("Content-Type", ctype)
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write %s content: %w", fileName, err)
	}
	return nil
}

// serveFileHandler serves GET /static/{file}
func (s *Server) serveFileHandler() http.HandlerFunc {
	fsys := StaticFilesFS()
	return func(w http.ResponseWriter, r *http.Request) {
		filePath := path.Clean(r.PathValue("file"))
		if !fs.ValidPath(filePath) || filePath == "." {
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}
		if err := StreamFile(w, fsys, filePath); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				log.Ctx(r.Context()).Debug().Str("file", filePath).Msg("static file not found")
			} else {
				log.Ctx(r.Context()).Err(err).Str("file", filePath).Msg("failed to serve static file")
			}
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
		}
	}
}
