package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), rec.Body.String())
	return v
}

func seededTestStore(t *testing.T) *store {
	t.Helper()

	s := newTestStore(t)
	data, err := loadSeed("")
	require.NoError(t, err)
	require.NoError(t, s.seed(context.Background(), data))
	return s
}

func TestAPI_Songs(t *testing.T) {
	handler, err := newServer(newTestStore(t))
	require.NoError(t, err)

	rec := serve(t, handler, http.MethodGet, "/api/songs", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = serve(t, handler, http.MethodPost, "/api/songs", `{"title":"A","artist":"B","duration":"03:00","year":2024}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"id":1,"title":"A","artist":"B","album":"Single","duration":"03:00","year":2024,"imageUrl":""}`, rec.Body.String())

	rec = serve(t, handler, http.MethodPut, "/api/songs/1", `{"album":"Debut"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, Song{ID: 1, Title: "A", Artist: "B", Album: "Debut", Duration: "03:00", Year: 2024}, decode[Song](t, rec))

	rec = serve(t, handler, http.MethodGet, "/api/songs/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Debut", decode[Song](t, rec).Album)

	for i := 0; i < 2; i++ {
		rec = serve(t, handler, http.MethodDelete, "/api/songs/1", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"success":true}`, rec.Body.String())
	}

	rec = serve(t, handler, http.MethodGet, "/api/songs/1", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	resp := decode[errorResponse](t, rec)
	assert.Equal(t, "resource not found", resp.Error)
	assert.Equal(t, resourceSongs, resp.Resource)
	assert.Equal(t, "1", resp.ID)
	assert.NotEmpty(t, resp.Hint)
}

func TestAPI_UsersHidePassword(t *testing.T) {
	handler, err := newServer(newTestStore(t))
	require.NoError(t, err)

	rec := serve(t, handler, http.MethodPost, "/api/users", `{"username":"carol","email":"carol@example.com","password":"hunter2"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"id":1,"username":"carol","email":"carol@example.com","role":"User","createdAt":"2024-03-09"}`, rec.Body.String())

	rec = serve(t, handler, http.MethodGet, "/api/users", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "hunter2")
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestAPI_Search(t *testing.T) {
	handler, err := newServer(seededTestStore(t))
	require.NoError(t, err)

	tests := []struct {
		path string
		want int
	}{
		{"/api/songs?q=s%C6%A1n+t%C3%B9ng", 3},
		{"/api/songs?q=22", 1},
		{"/api/songs?q=", 5},
		{"/api/albums?q=mono", 1},
		{"/api/users?q=ADMIN", 1},
		{"/api/users?q=example.com", 3},
		{"/api/users?q=nobody", 0},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := serve(t, handler, http.MethodGet, tt.path, "")
			require.Equal(t, http.StatusOK, rec.Code)

			var items []json.RawMessage
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
			assert.Len(t, items, tt.want)
		})
	}
}

func TestAPI_Errors(t *testing.T) {
	handler, err := newServer(newTestStore(t))
	require.NoError(t, err)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		field  string
	}{
		{"bad id", http.MethodGet, "/api/albums/abc", "", http.StatusBadRequest, "id"},
		{"negative id", http.MethodDelete, "/api/users/-1", "", http.StatusBadRequest, "id"},
		{"malformed body", http.MethodPost, "/api/albums", `{"title":`, http.StatusBadRequest, ""},
		{"missing artist", http.MethodPost, "/api/albums", `{"title":"A"}`, http.StatusBadRequest, "artist"},
		{"missing email", http.MethodPost, "/api/users", `{"username":"u","password":"p"}`, http.StatusBadRequest, "email"},
		{"update missing", http.MethodPut, "/api/albums/3", `{"year":2000}`, http.StatusNotFound, ""},
		{"unknown route", http.MethodGet, "/api/playlists", "", http.StatusNotFound, ""},
		{"wrong method", http.MethodPatch, "/api/songs/1", `{}`, http.StatusMethodNotAllowed, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, handler, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code)
			if tt.field != "" {
				assert.Equal(t, tt.field, decode[errorResponse](t, rec).Field)
			}
		})
	}
}

type failingCatalog struct {
	Catalog
}

func (failingCatalog) ListAlbums(ctx context.Context) ([]Album, error) {
	return nil, io.ErrUnexpectedEOF
}

func TestAPI_InternalError(t *testing.T) {
	handler, err := newServer(failingCatalog{Catalog: newTestStore(t)})
	require.NoError(t, err)

	rec := serve(t, handler, http.MethodGet, "/api/albums", "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decode[errorResponse](t, rec)
	assert.Equal(t, "internal error", resp.Error)
	assert.Equal(t, io.ErrUnexpectedEOF.Error(), resp.Detail)
}
