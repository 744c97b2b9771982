package web

import (
	"net/http"
)

// Page paths the root redirect chooses between.
const (
	SetupPage = "/config.html"
	MainPage  = "/index.html"
	sdkAsset  = "vendor/alloy.min.js"
)

// RegisterRoutes registers the UI routes on the provided mux. The catch-all
// pattern carries no method so it never overlaps the /api/ subtree.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /api/alloy-sdk", h.AlloySDK)
	mux.HandleFunc("GET /about", h.About)
	mux.HandleFunc("/", h.Fallback)
}
