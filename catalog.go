package main

import "context"

// Catalog is the record store contract shared by the in-memory store, the
// sqlite database and the REST client. Reads of users never carry passwords.
// Get and Update return a *NotFoundError for a missing id; Delete succeeds
// whether or not the id exists.
type Catalog interface {
	ListSongs(ctx context.Context) ([]Song, error)
	GetSong(ctx context.Context, id uint64) (*Song, error)
	CreateSong(ctx context.Context, in SongInput) (*Song, error)
	UpdateSong(ctx context.Context, id uint64, patch SongPatch) (*Song, error)
	DeleteSong(ctx context.Context, id uint64) error

	ListAlbums(ctx context.Context) ([]Album, error)
	GetAlbum(ctx context.Context, id uint64) (*Album, error)
	CreateAlbum(ctx context.Context, in AlbumInput) (*Album, error)
	UpdateAlbum(ctx context.Context, id uint64, patch AlbumPatch) (*Album, error)
	DeleteAlbum(ctx context.Context, id uint64) error

	ListUsers(ctx context.Context) ([]User, error)
	GetUser(ctx context.Context, id uint64) (*User, error)
	CreateUser(ctx context.Context, in UserInput) (*User, error)
	UpdateUser(ctx context.Context, id uint64, patch UserPatch) (*User, error)
	DeleteUser(ctx context.Context, id uint64) error
}

var (
	_ Catalog = (*store)(nil)
	_ Catalog = (*database)(nil)
	_ Catalog = (*apiClient)(nil)
	_ Catalog = (*delayedCatalog)(nil)
)
