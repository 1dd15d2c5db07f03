package main

import (
	"errors"
	"net/http"
	"strconv"
)

func (s *server) getSongs(w http.ResponseWriter, r *http.Request) {
	songs, err := s.catalog.ListSongs(r.Context())
	if err != nil {
		s.renderError(w, err)
		return
	}

	query := r.URL.Query().Get("q")
	s.renderTemplate(w, http.StatusOK, "songs.html", map[string]any{
		"Title": "Songs",
		"Songs": filterItems(songs, query, (*Song).matches),
		"Total": len(songs),
		"Query": query,
	})
}

func (s *server) getNewSong(w http.ResponseWriter, r *http.Request) {
	s.renderTemplate(w, http.StatusOK, "song.html", map[string]any{
		"Title": "New Song",
		"Song":  &Song{},
	})
}

func (s *server) postNewSong(w http.ResponseWriter, r *http.Request) {
	s.createOrUpdateSong(w, r, nil)
}

func (s *server) getSong(w http.ResponseWriter, r *http.Request) {
	id, err := extractID(r)
	if err != nil {
		s.renderError(w, err)
		return
	}

	song, err := s.catalog.GetSong(r.Context(), id)
	if err != nil {
		s.renderError(w, err)
		return
	}

	s.renderTemplate(w, http.StatusOK, "song.html", map[string]any{
		"Title": "Update Song",
		"Song":  song,
	})
}

func (s *server) postSong(w http.ResponseWriter, r *http.Request) {
	id, err := extractID(r)
	if err != nil {
		s.renderError(w, err)
		return
	}

	s.createOrUpdateSong(w, r, &id)
}

func (s *server) createOrUpdateSong(w http.ResponseWriter, r *http.Request, id *uint64) {
	err := r.ParseForm()
	if err != nil {
		s.renderError(w, &ValidationError{Message: err.Error()})
		return
	}

	in := SongInput{
		Title:    formString(r, "title"),
		Artist:   formString(r, "artist"),
		Album:    formString(r, "album"),
		Duration: formString(r, "duration"),
		ImageURL: formString(r, "imageUrl"),
	}
	in.Year, err = formInt(r, "year")

	var song *Song
	if err == nil {
		if id == nil {
			song, err = s.catalog.CreateSong(r.Context(), in)
		} else {
			if in.Album == "" {
				in.Album = defaultAlbumLabel
			}
			song, err = s.catalog.UpdateSong(r.Context(), *id, SongPatch{
				Title:    &in.Title,
				Artist:   &in.Artist,
				Album:    &in.Album,
				Duration: &in.Duration,
				Year:     &in.Year,
				ImageURL: &in.ImageURL,
			})
		}
	}

	var validation *ValidationError
	if errors.As(err, &validation) {
		title := "New Song"
		if id != nil {
			title = "Update Song"
		}
		s.renderTemplate(w, http.StatusBadRequest, "song.html", map[string]any{
			"Title": title,
			"Song":  &Song{Title: in.Title, Artist: in.Artist, Album: in.Album, Duration: in.Duration, Year: in.Year, ImageURL: in.ImageURL},
			"Error": validation.Error(),
		})
		return
	}
	if err != nil {
		s.renderError(w, err)
		return
	}

	http.Redirect(w, r, "/songs#"+strconv.FormatUint(song.ID, 10), http.StatusSeeOther)
}

func (s *server) getDeleteSong(w http.ResponseWriter, r *http.Request) {
	id, err := extractID(r)
	if err != nil {
		s.renderError(w, err)
		return
	}

	song, err := s.catalog.GetSong(r.Context(), id)
	if err != nil {
		s.renderError(w, err)
		return
	}

	s.renderTemplate(w, http.StatusOK, "song-delete.html", map[string]any{
		"Title": "Delete Song",
		"Song":  song,
	})
}

func (s *server) postDeleteSong(w http.ResponseWriter, r *http.Request) {
	id, err := extractID(r)
	if err != nil {
		s.renderError(w, err)
		return
	}

	err = s.catalog.DeleteSong(r.Context(), id)
	if err != nil {
		s.renderError(w, err)
		return
	}

	http.Redirect(w, r, "/songs", http.StatusSeeOther)
}
