package main

import (
	"errors"
	"net/http"
	"strconv"
)

func (s *server) getAlbums(w http.ResponseWriter, r *http.Request) {
	albums, err := s.catalog.ListAlbums(r.Context())
	if err != nil {
		s.renderError(w, err)
		return
	}

	query := r.URL.Query().Get("q")
	s.renderTemplate(w, http.StatusOK, "albums.html", map[string]any{
		"Title":  "Albums",
		"Albums": filterItems(albums, query, (*Album).matches),
		"Total":  len(albums),
		"Query":  query,
	})
}

func (s *server) getNewAlbum(w http.ResponseWriter, r *http.Request) {
	s.renderTemplate(w, http.StatusOK, "album.html", map[string]any{
		"Title": "New Album",
		"Album": &Album{},
	})
}

func (s *server) postNewAlbum(w http.ResponseWriter, r *http.Request) {
	s.createOrUpdateAlbum(w, r, nil)
}

func (s *server) getAlbum(w http.ResponseWriter, r *http.Request) {
	id, err := extractID(r)
	if err != nil {
		s.renderError(w, err)
		return
	}

	album, err := s.catalog.GetAlbum(r.Context(), id)
	if err != nil {
		s.renderError(w, err)
		return
	}

	s.renderTemplate(w, http.StatusOK, "album.html", map[string]any{
		"Title": "Update Album",
		"Album": album,
	})
}

func (s *server) postAlbum(w http.ResponseWriter, r *http.Request) {
	id, err := extractID(r)
	if err != nil {
		s.renderError(w, err)
		return
	}

	s.createOrUpdateAlbum(w, r, &id)
}

func (s *server) createOrUpdateAlbum(w http.ResponseWriter, r *http.Request, id *uint64) {
	err := r.ParseForm()
	if err != nil {
		s.renderError(w, &ValidationError{Message: err.Error()})
		return
	}

	in := AlbumInput{
		Title:    formString(r, "title"),
		Artist:   formString(r, "artist"),
		ImageURL: formString(r, "imageUrl"),
	}
	in.Year, err = formInt(r, "year")
	if err == nil {
		in.SongCount, err = formInt(r, "songCount")
	}

	var album *Album
	if err == nil {
		if id == nil {
			album, err = s.catalog.CreateAlbum(r.Context(), in)
		} else {
			album, err = s.catalog.UpdateAlbum(r.Context(), *id, AlbumPatch{
				Title:     &in.Title,
				Artist:    &in.Artist,
				Year:      &in.Year,
				SongCount: &in.SongCount,
				ImageURL:  &in.ImageURL,
			})
		}
	}

	var validation *ValidationError
	if errors.As(err, &validation) {
		title := "New Album"
		if id != nil {
			title = "Update Album"
		}
		s.renderTemplate(w, http.StatusBadRequest, "album.html", map[string]any{
			"Title": title,
			"Album": &Album{Title: in.Title, Artist: in.Artist, Year: in.Year, SongCount: in.SongCount, ImageURL: in.ImageURL},
			"Error": validation.Error(),
		})
		return
	}
	if err != nil {
		s.renderError(w, err)
		return
	}

	http.Redirect(w, r, "/albums#"+strconv.FormatUint(album.ID, 10), http.StatusSeeOther)
}

func (s *server) getDeleteAlbum(w http.ResponseWriter, r *http.Request) {
	id, err := extractID(r)
	if err != nil {
		s.renderError(w, err)
		return
	}

	album, err := s.catalog.GetAlbum(r.Context(), id)
	if err != nil {
		s.renderError(w, err)
		return
	}

	s.renderTemplate(w, http.StatusOK, "album-delete.html", map[string]any{
		"Title": "Delete Album",
		"Album": album,
	})
}

func (s *server) postDeleteAlbum(w http.ResponseWriter, r *http.Request) {
	id, err := extractID(r)
	if err != nil {
		s.renderError(w, err)
		return
	}

	err = s.catalog.DeleteAlbum(r.Context(), id)
	if err != nil {
		s.renderError(w, err)
		return
	}

	http.Redirect(w, r, "/albums", http.StatusSeeOther)
}
