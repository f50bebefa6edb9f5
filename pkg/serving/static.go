package serving

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
)

//go:embed web
var embedded embed.FS

const (
	indexFile   = "index.html"
	faviconFile = "favicon.png"
)

// loadAssets returns the dashboard files: dir on disk when set, otherwise
// the copy compiled into the binary.
func loadAssets(dir string) (fs.FS, error) {
	if dir == "" {
		return fs.Sub(embedded, "web")
	}
	assets := os.DirFS(dir)
	if _, err := fs.Stat(assets, indexFile); err != nil {
		return nil, fmt.Errorf("static dir %s: %w", dir, err)
	}
	return assets, nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	http.ServeFileFS(w, r, s.assets, indexFile)
}

func (s *Server) handleFavicon(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/png")
	http.ServeFileFS(w, r, s.assets, faviconFile)
}

// handleStatic serves one asset by name. Unlike http.FileServer it never
// redirects, so /static/index.html returns the file itself. Directories
// are not listed.
func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("path")
	if !fs.ValidPath(name) || name == "." || name == "" {
		http.NotFound(w, r)
		return
	}
	f, err := s.assets.Open(name)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}
	content, ok := f.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(f)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		content = bytes.NewReader(data)
	}
	http.ServeContent(w, r, info.Name(), info.ModTime(), content)
}
