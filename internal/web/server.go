// Package web provides the chat web interface for fitcoach.
package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static/*
var staticFiles embed.FS

// Handler returns an http.Handler that serves the chat UI.
func Handler() http.Handler {
	// Strip the "static" prefix from embedded files
	subFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}

	fileServer := http.FileServer(http.FS(subFS))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" || r.URL.Path == "" {
			r.URL.Path = "/index.html"
		}
		fileServer.ServeHTTP(w, r)
	})
}

// RegisterRoutes adds the chat UI routes to a mux.
func RegisterRoutes(mux *http.ServeMux) {
	handler := Handler()

	mux.HandleFunc("/chat", func(w http.ResponseWriter, r *http.Request) {
		r.URL.Path = "/"
		handler.ServeHTTP(w, r)
	})

	mux.HandleFunc("/chat/", func(w http.ResponseWriter, r *http.Request) {
		r.URL.Path = r.URL.Path[len("/chat"):]
		if r.URL.Path == "" {
			r.URL.Path = "/"
		}
		handler.ServeHTTP(w, r)
	})
}
