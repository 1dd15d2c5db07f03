package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testCatalog checks the record store contract against any backend.
func testCatalog(t *testing.T, newCatalog func(t *testing.T) Catalog) {
	ctx := context.Background()

	t.Run("CreateAssignsCountPlusOne", func(t *testing.T) {
		c := newCatalog(t)

		for i := 0; i < 3; i++ {
			before, err := c.ListSongs(ctx)
			require.NoError(t, err)

			song, err := c.CreateSong(ctx, SongInput{Title: fmt.Sprintf("Song %d", i), Artist: "Artist"})
			require.NoError(t, err)
			assert.Equal(t, uint64(len(before)+1), song.ID)

			after, err := c.ListSongs(ctx)
			require.NoError(t, err)
			assert.Len(t, after, len(before)+1)
		}
	})

	t.Run("SongScenario", func(t *testing.T) {
		c := newCatalog(t)

		before, err := c.ListSongs(ctx)
		require.NoError(t, err)

		song, err := c.CreateSong(ctx, SongInput{Title: "A", Artist: "B", Album: "Single", Duration: "03:00", Year: 2024})
		require.NoError(t, err)
		assert.Equal(t, Song{ID: uint64(len(before) + 1), Title: "A", Artist: "B", Album: "Single", Duration: "03:00", Year: 2024}, *song)

		songs, err := c.ListSongs(ctx)
		require.NoError(t, err)
		assert.Contains(t, songs, *song)

		require.NoError(t, c.DeleteSong(ctx, song.ID))

		songs, err = c.ListSongs(ctx)
		require.NoError(t, err)
		assert.NotContains(t, songs, *song)
	})

	t.Run("AlbumLabelDefaultsToSingle", func(t *testing.T) {
		c := newCatalog(t)

		song, err := c.CreateSong(ctx, SongInput{Title: "Lonely", Artist: "Someone"})
		require.NoError(t, err)
		assert.Equal(t, "Single", song.Album)
	})

	t.Run("ListKeepsInsertionOrder", func(t *testing.T) {
		c := newCatalog(t)

		for _, title := range []string{"one", "two", "three"} {
			_, err := c.CreateAlbum(ctx, AlbumInput{Title: title, Artist: "Band"})
			require.NoError(t, err)
		}
		require.NoError(t, c.DeleteAlbum(ctx, 2))
		_, err := c.UpdateAlbum(ctx, 1, AlbumPatch{Title: ptr("ONE")})
		require.NoError(t, err)

		albums, err := c.ListAlbums(ctx)
		require.NoError(t, err)
		require.Len(t, albums, 2)
		assert.Equal(t, uint64(1), albums[0].ID)
		assert.Equal(t, "ONE", albums[0].Title)
		assert.Equal(t, uint64(3), albums[1].ID)
		assert.Equal(t, "three", albums[1].Title)
	})

	t.Run("UpdateIsShallowMerge", func(t *testing.T) {
		c := newCatalog(t)

		song, err := c.CreateSong(ctx, SongInput{Title: "Old", Artist: "Artist", Album: "LP", Duration: "02:30", Year: 2001, ImageURL: "cover.jpg"})
		require.NoError(t, err)

		updated, err := c.UpdateSong(ctx, song.ID, SongPatch{Title: ptr("New")})
		require.NoError(t, err)

		want := *song
		want.Title = "New"
		assert.Equal(t, want, *updated)

		got, err := c.GetSong(ctx, song.ID)
		require.NoError(t, err)
		assert.Equal(t, want, *got)

		album, err := c.CreateAlbum(ctx, AlbumInput{Title: "Record", Artist: "Band", Year: 1999, SongCount: 10})
		require.NoError(t, err)

		updatedAlbum, err := c.UpdateAlbum(ctx, album.ID, AlbumPatch{SongCount: ptr(0)})
		require.NoError(t, err)
		assert.Equal(t, Album{ID: album.ID, Title: "Record", Artist: "Band", Year: 1999, SongCount: 0}, *updatedAlbum)
	})

	t.Run("MissingRecordsAreNotFound", func(t *testing.T) {
		c := newCatalog(t)

		_, err := c.GetSong(ctx, 42)
		assertNotFound(t, err, resourceSongs, 42)
		_, err = c.UpdateSong(ctx, 42, SongPatch{Title: ptr("x")})
		assertNotFound(t, err, resourceSongs, 42)

		_, err = c.GetAlbum(ctx, 42)
		assertNotFound(t, err, resourceAlbums, 42)
		_, err = c.UpdateAlbum(ctx, 42, AlbumPatch{Title: ptr("x")})
		assertNotFound(t, err, resourceAlbums, 42)

		_, err = c.GetUser(ctx, 42)
		assertNotFound(t, err, resourceUsers, 42)
		_, err = c.UpdateUser(ctx, 42, UserPatch{Email: ptr("x@example.com")})
		assertNotFound(t, err, resourceUsers, 42)
	})

	t.Run("DeleteIsIdempotent", func(t *testing.T) {
		c := newCatalog(t)

		for _, name := range []string{"first", "second"} {
			_, err := c.CreateUser(ctx, UserInput{Username: name, Email: name + "@example.com", Password: "pw"})
			require.NoError(t, err)
		}

		require.NoError(t, c.DeleteUser(ctx, 1))
		users, err := c.ListUsers(ctx)
		require.NoError(t, err)
		require.Len(t, users, 1)

		require.NoError(t, c.DeleteUser(ctx, 1))
		users, err = c.ListUsers(ctx)
		require.NoError(t, err)
		assert.Len(t, users, 1)

		assert.NoError(t, c.DeleteSong(ctx, 99))
		assert.NoError(t, c.DeleteAlbum(ctx, 99))
	})

	t.Run("UsersNeverExposePassword", func(t *testing.T) {
		c := newCatalog(t)

		created, err := c.CreateUser(ctx, UserInput{Username: "alice", Email: "alice@example.com", Password: "s3cret"})
		require.NoError(t, err)
		assert.Equal(t, RoleUser, created.Role)
		assert.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, created.CreatedAt)

		got, err := c.GetUser(ctx, created.ID)
		require.NoError(t, err)
		listed, err := c.ListUsers(ctx)
		require.NoError(t, err)
		updated, err := c.UpdateUser(ctx, created.ID, UserPatch{Password: ptr("n3w-s3cret"), Role: ptr(RoleArtist)})
		require.NoError(t, err)
		assert.Equal(t, RoleArtist, updated.Role)
		assert.Equal(t, created.CreatedAt, updated.CreatedAt)

		for _, v := range []any{created, got, listed, updated} {
			raw, err := json.Marshal(v)
			require.NoError(t, err)
			assert.NotContains(t, string(raw), "password")
			assert.NotContains(t, string(raw), "s3cret")
		}
	})

	t.Run("RequiredFields", func(t *testing.T) {
		c := newCatalog(t)

		_, err := c.CreateSong(ctx, SongInput{Artist: "B"})
		assertValidation(t, err, "title")
		_, err = c.CreateAlbum(ctx, AlbumInput{Title: "A"})
		assertValidation(t, err, "artist")
		_, err = c.CreateUser(ctx, UserInput{Username: "bob", Email: "bob@example.com"})
		assertValidation(t, err, "password")

		song, err := c.CreateSong(ctx, SongInput{Title: "A", Artist: "B"})
		require.NoError(t, err)
		_, err = c.UpdateSong(ctx, song.ID, SongPatch{Title: ptr(" ")})
		assertValidation(t, err, "title")

		songs, err := c.ListSongs(ctx)
		require.NoError(t, err)
		assert.Equal(t, []Song{*song}, songs)
	})

	t.Run("ConcurrentCreatesGetDistinctIDs", func(t *testing.T) {
		c := newCatalog(t)

		const n = 16
		var (
			wg  sync.WaitGroup
			mu  sync.Mutex
			ids = make(map[uint64]bool)
		)
		for i := 0; i < n; i++ {
			i := i
			wg.Add(1)
			go func() {
				defer wg.Done()
				user, err := c.CreateUser(ctx, UserInput{
					Username: fmt.Sprintf("user%d", i),
					Email:    fmt.Sprintf("user%d@example.com", i),
					Password: "pw",
				})
				if !assert.NoError(t, err) {
					return
				}
				mu.Lock()
				ids[user.ID] = true
				mu.Unlock()
			}()
		}
		wg.Wait()

		assert.Len(t, ids, n)
		for id := uint64(1); id <= n; id++ {
			assert.True(t, ids[id], "missing id %d", id)
		}
	})

	t.Run("DeleteThenCreateReusesIdentifier", func(t *testing.T) {
		c := newCatalog(t)

		for i := 1; i <= 3; i++ {
			_, err := c.CreateSong(ctx, SongInput{Title: fmt.Sprintf("Song %d", i), Artist: "Artist"})
			require.NoError(t, err)
		}
		require.NoError(t, c.DeleteSong(ctx, 1))

		reused, err := c.CreateSong(ctx, SongInput{Title: "Newcomer", Artist: "Artist"})
		require.NoError(t, err)
		assert.Equal(t, uint64(3), reused.ID)

		// The earlier record wins lookups by the shared identifier.
		got, err := c.GetSong(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, "Song 3", got.Title)

		require.NoError(t, c.DeleteSong(ctx, 3))
		songs, err := c.ListSongs(ctx)
		require.NoError(t, err)
		require.Len(t, songs, 2)
		assert.Equal(t, "Song 2", songs[0].Title)
		assert.Equal(t, "Newcomer", songs[1].Title)
	})
}

func assertNotFound(t *testing.T, err error, resource string, id uint64) {
	t.Helper()

	var notFound *NotFoundError
	if assert.True(t, errors.As(err, &notFound), "expected NotFoundError, got %v", err) {
		assert.Equal(t, resource, notFound.Resource)
		assert.Equal(t, id, notFound.ID)
	}
}

func assertValidation(t *testing.T, err error, field string) {
	t.Helper()

	var validation *ValidationError
	if assert.True(t, errors.As(err, &validation), "expected ValidationError, got %v", err) {
		assert.Equal(t, field, validation.Field)
	}
}

func ptr[T any](v T) *T {
	return &v
}
