package main

import (
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
)

const recentSongs = 5

func (s *server) getDashboard(w http.ResponseWriter, r *http.Request) {
	var (
		songs  []Song
		albums []Album
		users  []User
	)

	// The three lists are independent, so their round trips overlap.
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		songs, err = s.catalog.ListSongs(ctx)
		return err
	})
	g.Go(func() (err error) {
		albums, err = s.catalog.ListAlbums(ctx)
		return err
	})
	g.Go(func() (err error) {
		users, err = s.catalog.ListUsers(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.renderError(w, err)
		return
	}

	s.renderTemplate(w, http.StatusOK, "dashboard.html", map[string]any{
		"Title":       "Dashboard",
		"SongCount":   len(songs),
		"AlbumCount":  len(albums),
		"UserCount":   len(users),
		"RecentSongs": songs[:min(len(songs), recentSongs)],
	})
}

func formString(r *http.Request, name string) string {
	return strings.TrimSpace(r.Form.Get(name))
}

// formInt parses an optional integer field. Empty means zero.
func formInt(r *http.Request, name string) (int, error) {
	v := formString(r, name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, &ValidationError{Field: name, Message: "must be a number"}
	}
	return n, nil
}
