package main

import (
	"context"
	"slices"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// table is an ordered list of records. Writes are serialized by the mutex so
// the count+1 identifier of concurrent inserts is never shared.
type table[T any] struct {
	mu   sync.RWMutex
	rows []T
	id   func(*T) uint64
}

func newTable[T any](id func(*T) uint64) *table[T] {
	return &table[T]{id: id}
}

func (t *table[T]) list() []T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.rows)
}

// index returns the position of the first row with id, or -1.
func (t *table[T]) index(id uint64) int {
	return slices.IndexFunc(t.rows, func(row T) bool {
		return t.id(&row) == id
	})
}

func (t *table[T]) find(id uint64) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	i := t.index(id)
	if i < 0 {
		var zero T
		return zero, false
	}
	return t.rows[i], true
}

func (t *table[T]) insert(build func(id uint64) T) T {
	t.mu.Lock()
	defer t.mu.Unlock()

	row := build(uint64(len(t.rows)) + 1)
	t.rows = append(t.rows, row)
	return row
}

func (t *table[T]) update(id uint64, fn func(row *T)) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.index(id)
	if i < 0 {
		var zero T
		return zero, false
	}
	fn(&t.rows[i])
	return t.rows[i], true
}

func (t *table[T]) remove(id uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if i := t.index(id); i >= 0 {
		t.rows = slices.Delete(t.rows, i, i+1)
	}
}

type userRecord struct {
	User
	passwordHash []byte
}

// store keeps the three tables in process memory. Each instance is independent.
type store struct {
	songs  *table[Song]
	albums *table[Album]
	users  *table[userRecord]

	now          func() time.Time
	hashPassword passwordHasher
}

func newStore() *store {
	return &store{
		songs:        newTable(func(s *Song) uint64 { return s.ID }),
		albums:       newTable(func(a *Album) uint64 { return a.ID }),
		users:        newTable(func(u *userRecord) uint64 { return u.ID }),
		now:          time.Now,
		hashPassword: bcryptHasher(bcrypt.DefaultCost),
	}
}

func (s *store) ListSongs(ctx context.Context) ([]Song, error) {
	return s.songs.list(), nil
}

func (s *store) GetSong(ctx context.Context, id uint64) (*Song, error) {
	song, ok := s.songs.find(id)
	if !ok {
		return nil, &NotFoundError{Resource: resourceSongs, ID: id}
	}
	return &song, nil
}

func (s *store) CreateSong(ctx context.Context, in SongInput) (*Song, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	song := s.songs.insert(func(id uint64) Song {
		return newSong(id, &in)
	})
	return &song, nil
}

func (s *store) UpdateSong(ctx context.Context, id uint64, patch SongPatch) (*Song, error) {
	if err := patch.validate(); err != nil {
		return nil, err
	}

	song, ok := s.songs.update(id, func(song *Song) {
		song.apply(&patch)
	})
	if !ok {
		return nil, &NotFoundError{Resource: resourceSongs, ID: id}
	}
	return &song, nil
}

func (s *store) DeleteSong(ctx context.Context, id uint64) error {
	s.songs.remove(id)
	return nil
}

func (s *store) ListAlbums(ctx context.Context) ([]Album, error) {
	return s.albums.list(), nil
}

func (s *store) GetAlbum(ctx context.Context, id uint64) (*Album, error) {
	album, ok := s.albums.find(id)
	if !ok {
		return nil, &NotFoundError{Resource: resourceAlbums, ID: id}
	}
	return &album, nil
}

func (s *store) CreateAlbum(ctx context.Context, in AlbumInput) (*Album, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	album := s.albums.insert(func(id uint64) Album {
		return newAlbum(id, &in)
	})
	return &album, nil
}

func (s *store) UpdateAlbum(ctx context.Context, id uint64, patch AlbumPatch) (*Album, error) {
	if err := patch.validate(); err != nil {
		return nil, err
	}

	album, ok := s.albums.update(id, func(album *Album) {
		album.apply(&patch)
	})
	if !ok {
		return nil, &NotFoundError{Resource: resourceAlbums, ID: id}
	}
	return &album, nil
}

func (s *store) DeleteAlbum(ctx context.Context, id uint64) error {
	s.albums.remove(id)
	return nil
}

func (s *store) ListUsers(ctx context.Context) ([]User, error) {
	records := s.users.list()
	users := make([]User, len(records))
	for i, record := range records {
		users[i] = record.User
	}
	return users, nil
}

func (s *store) GetUser(ctx context.Context, id uint64) (*User, error) {
	record, ok := s.users.find(id)
	if !ok {
		return nil, &NotFoundError{Resource: resourceUsers, ID: id}
	}
	return &record.User, nil
}

func (s *store) CreateUser(ctx context.Context, in UserInput) (*User, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	return s.insertUser(&in, s.now().UTC().Format(dateLayout))
}

// insertUser stores no hash for a blank password, so no password matches it.
func (s *store) insertUser(in *UserInput, createdAt string) (*User, error) {
	var hash []byte
	if in.Password != "" {
		var err error
		hash, err = s.hashPassword(in.Password)
		if err != nil {
			return nil, err
		}
	}

	record := s.users.insert(func(id uint64) userRecord {
		return userRecord{User: newUser(id, in, createdAt), passwordHash: hash}
	})
	return &record.User, nil
}

func (s *store) UpdateUser(ctx context.Context, id uint64, patch UserPatch) (*User, error) {
	if err := patch.validate(); err != nil {
		return nil, err
	}

	var hash []byte
	if patch.Password != nil {
		var err error
		hash, err = s.hashPassword(*patch.Password)
		if err != nil {
			return nil, err
		}
	}

	record, ok := s.users.update(id, func(record *userRecord) {
		record.apply(&patch)
		if hash != nil {
			record.passwordHash = hash
		}
	})
	if !ok {
		return nil, &NotFoundError{Resource: resourceUsers, ID: id}
	}
	return &record.User, nil
}

func (s *store) DeleteUser(ctx context.Context, id uint64) error {
	s.users.remove(id)
	return nil
}
