package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// apiClient is a Catalog backed by the REST API of another catalog-admin.
type apiClient struct {
	baseURL string
	http    *http.Client
}

func newAPIClient(baseURL string, httpClient *http.Client) *apiClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &apiClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    httpClient,
	}
}

type deleteResponse struct {
	Success bool `json:"success"`
}

func (c *apiClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		var errResp errorResponse
		if err := json.NewDecoder(res.Body).Decode(&errResp); err != nil {
			return fmt.Errorf("%s %s: unexpected status %d", method, path, res.StatusCode)
		}
		return fromErrorResponse(res.StatusCode, &errResp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decoding response: %w", method, path, err)
	}
	return nil
}

func itemPath(resource string, id uint64) string {
	return "/" + resource + "/" + strconv.FormatUint(id, 10)
}

func getJSON[T any](ctx context.Context, c *apiClient, path string) (T, error) {
	var out T
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

func sendJSON[T any](ctx context.Context, c *apiClient, method, path string, body any) (*T, error) {
	var out T
	if err := c.do(ctx, method, path, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *apiClient) remove(ctx context.Context, resource string, id uint64) error {
	var out deleteResponse
	if err := c.do(ctx, http.MethodDelete, itemPath(resource, id), nil, &out); err != nil {
		return err
	}
	if !out.Success {
		return fmt.Errorf("deleting %s %d: not acknowledged", resource, id)
	}
	return nil
}

func (c *apiClient) ListSongs(ctx context.Context) ([]Song, error) {
	return getJSON[[]Song](ctx, c, "/"+resourceSongs)
}

func (c *apiClient) GetSong(ctx context.Context, id uint64) (*Song, error) {
	return sendJSON[Song](ctx, c, http.MethodGet, itemPath(resourceSongs, id), nil)
}

func (c *apiClient) CreateSong(ctx context.Context, in SongInput) (*Song, error) {
	return sendJSON[Song](ctx, c, http.MethodPost, "/"+resourceSongs, in)
}

func (c *apiClient) UpdateSong(ctx context.Context, id uint64, patch SongPatch) (*Song, error) {
	return sendJSON[Song](ctx, c, http.MethodPut, itemPath(resourceSongs, id), patch)
}

func (c *apiClient) DeleteSong(ctx context.Context, id uint64) error {
	return c.remove(ctx, resourceSongs, id)
}

func (c *apiClient) ListAlbums(ctx context.Context) ([]Album, error) {
	return getJSON[[]Album](ctx, c, "/"+resourceAlbums)
}

func (c *apiClient) GetAlbum(ctx context.Context, id uint64) (*Album, error) {
	return sendJSON[Album](ctx, c, http.MethodGet, itemPath(resourceAlbums, id), nil)
}

func (c *apiClient) CreateAlbum(ctx context.Context, in AlbumInput) (*Album, error) {
	return sendJSON[Album](ctx, c, http.MethodPost, "/"+resourceAlbums, in)
}

func (c *apiClient) UpdateAlbum(ctx context.Context, id uint64, patch AlbumPatch) (*Album, error) {
	return sendJSON[Album](ctx, c, http.MethodPut, itemPath(resourceAlbums, id), patch)
}

func (c *apiClient) DeleteAlbum(ctx context.Context, id uint64) error {
	return c.remove(ctx, resourceAlbums, id)
}

func (c *apiClient) ListUsers(ctx context.Context) ([]User, error) {
	return getJSON[[]User](ctx, c, "/"+resourceUsers)
}

func (c *apiClient) GetUser(ctx context.Context, id uint64) (*User, error) {
	return sendJSON[User](ctx, c, http.MethodGet, itemPath(resourceUsers, id), nil)
}

func (c *apiClient) CreateUser(ctx context.Context, in UserInput) (*User, error) {
	return sendJSON[User](ctx, c, http.MethodPost, "/"+resourceUsers, in)
}

func (c *apiClient) UpdateUser(ctx context.Context, id uint64, patch UserPatch) (*User, error) {
	return sendJSON[User](ctx, c, http.MethodPut, itemPath(resourceUsers, id), patch)
}

func (c *apiClient) DeleteUser(ctx context.Context, id uint64) error {
	return c.remove(ctx, resourceUsers, id)
}
