package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

const maxBodySize = 1 << 20

func (s *server) apiRoutes(r chi.Router) {
	r.Get("/songs", listItems(s.catalog.ListSongs, (*Song).matches))
	r.Post("/songs", createItem(s.catalog.CreateSong))
	r.Get("/songs/{id}", getItem(s.catalog.GetSong))
	r.Put("/songs/{id}", updateItem(s.catalog.UpdateSong))
	r.Delete("/songs/{id}", deleteItem(s.catalog.DeleteSong))

	r.Get("/albums", listItems(s.catalog.ListAlbums, (*Album).matches))
	r.Post("/albums", createItem(s.catalog.CreateAlbum))
	r.Get("/albums/{id}", getItem(s.catalog.GetAlbum))
	r.Put("/albums/{id}", updateItem(s.catalog.UpdateAlbum))
	r.Delete("/albums/{id}", deleteItem(s.catalog.DeleteAlbum))

	r.Get("/users", listItems(s.catalog.ListUsers, (*User).matches))
	r.Post("/users", createItem(s.catalog.CreateUser))
	r.Get("/users/{id}", getItem(s.catalog.GetUser))
	r.Put("/users/{id}", updateItem(s.catalog.UpdateUser))
	r.Delete("/users/{id}", deleteItem(s.catalog.DeleteUser))
}

func listItems[T any](list func(context.Context) ([]T, error), match func(*T, string) bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := list(r.Context())
		if err != nil {
			writeAPIError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, filterItems(items, r.URL.Query().Get("q"), match))
	}
}

func getItem[T any](get func(context.Context, uint64) (*T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := extractID(r)
		if err != nil {
			writeAPIError(w, err)
			return
		}

		item, err := get(r.Context(), id)
		if err != nil {
			writeAPIError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, item)
	}
}

func createItem[In, T any](create func(context.Context, In) (*T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in In
		if err := readJSON(w, r, &in); err != nil {
			writeAPIError(w, err)
			return
		}

		item, err := create(r.Context(), in)
		if err != nil {
			writeAPIError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, item)
	}
}

func updateItem[P, T any](update func(context.Context, uint64, P) (*T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := extractID(r)
		if err != nil {
			writeAPIError(w, err)
			return
		}

		var patch P
		if err := readJSON(w, r, &patch); err != nil {
			writeAPIError(w, err)
			return
		}

		item, err := update(r.Context(), id, patch)
		if err != nil {
			writeAPIError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, item)
	}
}

func deleteItem(remove func(context.Context, uint64) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := extractID(r)
		if err != nil {
			writeAPIError(w, err)
			return
		}

		if err := remove(r.Context(), id); err != nil {
			writeAPIError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, deleteResponse{Success: true})
	}
}

// filterItems keeps the items matching query. It never returns nil so that
// empty lists encode as [].
func filterItems[T any](items []T, query string, match func(*T, string) bool) []T {
	out := make([]T, 0, len(items))
	for i := range items {
		if match(&items[i], query) {
			out = append(out, items[i])
		}
	}
	return out
}

func readJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &ValidationError{Message: "invalid request body: " + err.Error()}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("writing json", "error", err)
	}
}

func writeAPIError(w http.ResponseWriter, err error) {
	resp := toErrorResponse(err)
	if resp.status >= http.StatusInternalServerError {
		slog.Error("serving api", "error", err)
	}
	writeJSON(w, resp.status, resp)
}
