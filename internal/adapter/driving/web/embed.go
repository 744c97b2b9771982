package web

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
)

// StaticFS holds the embedded UI: HTML pages, app scripts, styles and the
// vendored verification SDK.
//
//go:embed static/*
var StaticFS embed.FS

// Assets returns the UI file tree. An empty dir selects the embedded copy;
// otherwise dir on disk is served, which lets the UI be edited without a
// rebuild.
func Assets(dir string) (fs.FS, error) {
	if dir == "" {
		return fs.Sub(StaticFS, "static")
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("static dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("static dir %s is not a directory", dir)
	}
	return os.DirFS(dir), nil
}
