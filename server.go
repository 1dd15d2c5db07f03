package main

import (
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type server struct {
	catalog Catalog
	router  chi.Router
}

func newServer(catalog Catalog) (*server, error) {
	assets, err := fs.Sub(assetsFS, "assets")
	if err != nil {
		return nil, err
	}

	s := &server{
		catalog: catalog,
		router:  chi.NewRouter(),
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(logRequests)
	s.router.Use(middleware.Recoverer)

	s.router.Route("/api", s.apiRoutes)
	s.router.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.FS(assets))))

	s.router.Get("/", s.getDashboard)

	s.router.Route("/songs", func(r chi.Router) {
		r.Get("/", s.getSongs)
		r.Get("/new", s.getNewSong)
		r.Post("/new", s.postNewSong)
		r.Get("/{id}", s.getSong)
		r.Post("/{id}", s.postSong)
		r.Get("/{id}/delete", s.getDeleteSong)
		r.Post("/{id}/delete", s.postDeleteSong)
	})

	s.router.Route("/albums", func(r chi.Router) {
		r.Get("/", s.getAlbums)
		r.Get("/new", s.getNewAlbum)
		r.Post("/new", s.postNewAlbum)
		r.Get("/{id}", s.getAlbum)
		r.Post("/{id}", s.postAlbum)
		r.Get("/{id}/delete", s.getDeleteAlbum)
		r.Post("/{id}/delete", s.postDeleteAlbum)
	})

	s.router.Route("/users", func(r chi.Router) {
		r.Get("/", s.getUsers)
		r.Get("/new", s.getNewUser)
		r.Post("/new", s.postNewUser)
		r.Get("/{id}", s.getUser)
		r.Post("/{id}", s.postUser)
		r.Get("/{id}/delete", s.getDeleteUser)
		r.Post("/{id}/delete", s.postDeleteUser)
	})

	return s, nil
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		slog.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func extractID(r *http.Request) (uint64, error) {
	return parseID(chi.URLParam(r, "id"))
}
