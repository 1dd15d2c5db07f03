package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Rows carry a surrogate RowID so that insertion order is kept and a reused
// count+1 identifier can coexist with the record that first held it.

type songRow struct {
	RowID    uint64 `gorm:"primaryKey;autoIncrement"`
	ID       uint64 `gorm:"index"`
	Title    string
	Artist   string
	Album    string
	Duration string
	Year     int
	ImageURL string
}

func (songRow) TableName() string { return resourceSongs }

func (r *songRow) song() Song {
	return Song{
		ID:       r.ID,
		Title:    r.Title,
		Artist:   r.Artist,
		Album:    r.Album,
		Duration: r.Duration,
		Year:     r.Year,
		ImageURL: r.ImageURL,
	}
}

func (r *songRow) set(s *Song) {
	r.ID = s.ID
	r.Title = s.Title
	r.Artist = s.Artist
	r.Album = s.Album
	r.Duration = s.Duration
	r.Year = s.Year
	r.ImageURL = s.ImageURL
}

type albumRow struct {
	RowID     uint64 `gorm:"primaryKey;autoIncrement"`
	ID        uint64 `gorm:"index"`
	Title     string
	Artist    string
	Year      int
	SongCount int
	ImageURL  string
}

func (albumRow) TableName() string { return resourceAlbums }

func (r *albumRow) album() Album {
	return Album{
		ID:        r.ID,
		Title:     r.Title,
		Artist:    r.Artist,
		Year:      r.Year,
		SongCount: r.SongCount,
		ImageURL:  r.ImageURL,
	}
}

func (r *albumRow) set(a *Album) {
	r.ID = a.ID
	r.Title = a.Title
	r.Artist = a.Artist
	r.Year = a.Year
	r.SongCount = a.SongCount
	r.ImageURL = a.ImageURL
}

type userRow struct {
	RowID        uint64 `gorm:"primaryKey;autoIncrement"`
	ID           uint64 `gorm:"index"`
	Username     string
	Email        string
	PasswordHash []byte
	Role         string
	CreatedOn    string `gorm:"column:created_at"`
}

func (userRow) TableName() string { return resourceUsers }

func (r *userRow) user() User {
	return User{
		ID:        r.ID,
		Username:  r.Username,
		Email:     r.Email,
		Role:      r.Role,
		CreatedAt: r.CreatedOn,
	}
}

func (r *userRow) set(u *User) {
	r.ID = u.ID
	r.Username = u.Username
	r.Email = u.Email
	r.Role = u.Role
	r.CreatedOn = u.CreatedAt
}

// database is a Catalog on a private in-memory SQLite database. It holds a
// single connection, so the count-then-insert transactions never interleave.
type database struct {
	db *gorm.DB

	now          func() time.Time
	hashPassword passwordHasher
}

func newDatabase() (*database, error) {
	dsn := fmt.Sprintf("file:catalog-%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(&songRow{}, &albumRow{}, &userRow{})
	if err != nil {
		return nil, err
	}

	return &database{
		db:           db,
		now:          time.Now,
		hashPassword: bcryptHasher(bcrypt.DefaultCost),
	}, nil
}

func (d *database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// nextID returns count+1 for the table of model. Call it inside a transaction.
func nextID(tx *gorm.DB, model any) (uint64, error) {
	var count int64
	err := tx.Model(model).Count(&count).Error
	return uint64(count) + 1, err
}

// first loads the earliest row with id into row.
func first(tx *gorm.DB, id uint64, row any) (bool, error) {
	err := tx.Where("id = ?", id).Order("row_id").First(row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}

func removeFirst(ctx context.Context, db *gorm.DB, table string, id uint64, model any) error {
	return db.WithContext(ctx).
		Where("row_id = (?)", db.Table(table).Select("MIN(row_id)").Where("id = ?", id)).
		Delete(model).Error
}

func (d *database) ListSongs(ctx context.Context) ([]Song, error) {
	var rows []songRow
	if err := d.db.WithContext(ctx).Order("row_id").Find(&rows).Error; err != nil {
		return nil, err
	}

	songs := make([]Song, len(rows))
	for i := range rows {
		songs[i] = rows[i].song()
	}
	return songs, nil
}

func (d *database) GetSong(ctx context.Context, id uint64) (*Song, error) {
	var row songRow
	ok, err := first(d.db.WithContext(ctx), id, &row)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &NotFoundError{Resource: resourceSongs, ID: id}
	}
	song := row.song()
	return &song, nil
}

func (d *database) CreateSong(ctx context.Context, in SongInput) (*Song, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var song Song
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		id, err := nextID(tx, &songRow{})
		if err != nil {
			return err
		}

		song = newSong(id, &in)
		var row songRow
		row.set(&song)
		return tx.Create(&row).Error
	})
	if err != nil {
		return nil, err
	}
	return &song, nil
}

func (d *database) UpdateSong(ctx context.Context, id uint64, patch SongPatch) (*Song, error) {
	if err := patch.validate(); err != nil {
		return nil, err
	}

	var song Song
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row songRow
		ok, err := first(tx, id, &row)
		if err != nil {
			return err
		}
		if !ok {
			return &NotFoundError{Resource: resourceSongs, ID: id}
		}

		song = row.song()
		song.apply(&patch)
		row.set(&song)
		return tx.Save(&row).Error
	})
	if err != nil {
		return nil, err
	}
	return &song, nil
}

func (d *database) DeleteSong(ctx context.Context, id uint64) error {
	return removeFirst(ctx, d.db, resourceSongs, id, &songRow{})
}

func (d *database) ListAlbums(ctx context.Context) ([]Album, error) {
	var rows []albumRow
	if err := d.db.WithContext(ctx).Order("row_id").Find(&rows).Error; err != nil {
		return nil, err
	}

	albums := make([]Album, len(rows))
	for i := range rows {
		albums[i] = rows[i].album()
	}
	return albums, nil
}

func (d *database) GetAlbum(ctx context.Context, id uint64) (*Album, error) {
	var row albumRow
	ok, err := first(d.db.WithContext(ctx), id, &row)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &NotFoundError{Resource: resourceAlbums, ID: id}
	}
	album := row.album()
	return &album, nil
}

func (d *database) CreateAlbum(ctx context.Context, in AlbumInput) (*Album, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var album Album
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		id, err := nextID(tx, &albumRow{})
		if err != nil {
			return err
		}

		album = newAlbum(id, &in)
		var row albumRow
		row.set(&album)
		return tx.Create(&row).Error
	})
	if err != nil {
		return nil, err
	}
	return &album, nil
}

func (d *database) UpdateAlbum(ctx context.Context, id uint64, patch AlbumPatch) (*Album, error) {
	if err := patch.validate(); err != nil {
		return nil, err
	}

	var album Album
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row albumRow
		ok, err := first(tx, id, &row)
		if err != nil {
			return err
		}
		if !ok {
			return &NotFoundError{Resource: resourceAlbums, ID: id}
		}

		album = row.album()
		album.apply(&patch)
		row.set(&album)
		return tx.Save(&row).Error
	})
	if err != nil {
		return nil, err
	}
	return &album, nil
}

func (d *database) DeleteAlbum(ctx context.Context, id uint64) error {
	return removeFirst(ctx, d.db, resourceAlbums, id, &albumRow{})
}

func (d *database) ListUsers(ctx context.Context) ([]User, error) {
	var rows []userRow
	if err := d.db.WithContext(ctx).Order("row_id").Find(&rows).Error; err != nil {
		return nil, err
	}

	users := make([]User, len(rows))
	for i := range rows {
		users[i] = rows[i].user()
	}
	return users, nil
}

func (d *database) GetUser(ctx context.Context, id uint64) (*User, error) {
	var row userRow
	ok, err := first(d.db.WithContext(ctx), id, &row)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &NotFoundError{Resource: resourceUsers, ID: id}
	}
	user := row.user()
	return &user, nil
}

func (d *database) CreateUser(ctx context.Context, in UserInput) (*User, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	return d.insertUser(ctx, &in, d.now().UTC().Format(dateLayout))
}

func (d *database) insertUser(ctx context.Context, in *UserInput, createdAt string) (*User, error) {
	var hash []byte
	if in.Password != "" {
		var err error
		hash, err = d.hashPassword(in.Password)
		if err != nil {
			return nil, err
		}
	}

	var user User
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		id, err := nextID(tx, &userRow{})
		if err != nil {
			return err
		}

		user = newUser(id, in, createdAt)
		row := userRow{PasswordHash: hash}
		row.set(&user)
		return tx.Create(&row).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *database) UpdateUser(ctx context.Context, id uint64, patch UserPatch) (*User, error) {
	if err := patch.validate(); err != nil {
		return nil, err
	}

	var hash []byte
	if patch.Password != nil {
		var err error
		hash, err = d.hashPassword(*patch.Password)
		if err != nil {
			return nil, err
		}
	}

	var user User
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row userRow
		ok, err := first(tx, id, &row)
		if err != nil {
			return err
		}
		if !ok {
			return &NotFoundError{Resource: resourceUsers, ID: id}
		}

		user = row.user()
		user.apply(&patch)
		row.set(&user)
		if hash != nil {
			row.PasswordHash = hash
		}
		return tx.Save(&row).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *database) DeleteUser(ctx context.Context, id uint64) error {
	return removeFirst(ctx, d.db, resourceUsers, id, &userRow{})
}
