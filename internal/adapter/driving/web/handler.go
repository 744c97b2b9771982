// Package web implements the UI driving adapter: static assets, the
// configuration-gated redirect and the about page.
package web

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"mime"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/ericfisherdev/journeydemo/internal/application"
)

// ConfigChecker reports whether a usable credential set exists.
type ConfigChecker interface {
	IsConfigured(ctx context.Context) bool
}

// UpdateChecker reports how the running build compares to the latest release.
type UpdateChecker interface {
	Check(ctx context.Context) application.UpdateReport
}

// Handler serves the bundled UI.
type Handler struct {
	assets  fs.FS
	config  ConfigChecker
	updates UpdateChecker
	version string
	started time.Time
	logger  *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(assets fs.FS, config ConfigChecker, updates UpdateChecker, version string, logger *slog.Logger) *Handler {
	return &Handler{
		assets:  assets,
		config:  config,
		updates: updates,
		version: version,
		started: time.Now(),
		logger:  logger,
	}
}

// Fallback serves files for paths with an extension. Every other path
// redirects to the setup page when no configuration resolves, or to the
// main page otherwise.
func (h *Handler) Fallback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	if strings.Contains(r.URL.Path, ".") {
		h.serveAsset(w, r, strings.TrimPrefix(path.Clean(r.URL.Path), "/"))
		return
	}

	target := MainPage
	if !h.config.IsConfigured(r.Context()) {
		target = SetupPage
	}
	h.logger.Debug("redirecting", "from", r.URL.Path, "to", target)
	http.Redirect(w, r, target, http.StatusFound)
}

// AlloySDK serves the vendored verification SDK bundle.
func (h *Handler) AlloySDK(w http.ResponseWriter, r *http.Request) {
	h.serveAsset(w, r, sdkAsset)
}

// About renders the version page, including release notes when a newer
// release exists.
func (h *Handler) About(w http.ResponseWriter, r *http.Request) {
	report := h.updates.Check(r.Context())

	page := AboutPage(AboutView{
		Version:   h.version,
		Uptime:    time.Since(h.started).Round(time.Second),
		Update:    report,
		NotesHTML: RenderMarkdown(report.Notes),
	})

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.Render(r.Context(), w); err != nil {
		h.logger.Error("failed to render about page", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// serveAsset writes a file from the asset tree. Files are read whole rather
// than handed to http.FileServer, which redirects index.html requests to the
// directory and would loop with Fallback.
func (h *Handler) serveAsset(w http.ResponseWriter, r *http.Request, name string) {
	if !fs.ValidPath(name) {
		http.NotFound(w, r)
		return
	}

	info, err := fs.Stat(h.assets, name)
	if err != nil || info.IsDir() {
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			h.logger.Error("failed to stat asset", "name", name, "error", err)
		}
		http.NotFound(w, r)
		return
	}

	data, err := fs.ReadFile(h.assets, name)
	if err != nil {
		h.logger.Error("failed to read asset", "name", name, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if ctype := mime.TypeByExtension(path.Ext(name)); ctype != "" {
		w.Header().Set("Content-Type", ctype)
	}
	http.ServeContent(w, r, name, info.ModTime(), bytes.NewReader(data))
}
