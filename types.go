package main

import (
	"strconv"
	"strings"
)

const (
	defaultAlbumLabel = "Single"
	dateLayout        = "2006-01-02"
)

// Roles a user can hold.
const (
	RoleAdmin  = "Admin"
	RoleUser   = "User"
	RoleArtist = "Artist"
)

var roles = []string{RoleAdmin, RoleUser, RoleArtist}

type Song struct {
	ID       uint64 `json:"id"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Album    string `json:"album"`
	Duration string `json:"duration"`
	Year     int    `json:"year"`
	ImageURL string `json:"imageUrl"`
}

func (s *Song) String() string {
	return `"` + s.Title + `" by ` + s.Artist
}

type SongInput struct {
	Title    string `json:"title" yaml:"title"`
	Artist   string `json:"artist" yaml:"artist"`
	Album    string `json:"album" yaml:"album"`
	Duration string `json:"duration" yaml:"duration"`
	Year     int    `json:"year" yaml:"year"`
	ImageURL string `json:"imageUrl" yaml:"imageUrl"`
}

// SongPatch is a partial song. Nil fields keep their current value.
type SongPatch struct {
	Title    *string `json:"title,omitempty"`
	Artist   *string `json:"artist,omitempty"`
	Album    *string `json:"album,omitempty"`
	Duration *string `json:"duration,omitempty"`
	Year     *int    `json:"year,omitempty"`
	ImageURL *string `json:"imageUrl,omitempty"`
}

type Album struct {
	ID        uint64 `json:"id"`
	Title     string `json:"title"`
	Artist    string `json:"artist"`
	Year      int    `json:"year"`
	SongCount int    `json:"songCount"`
	ImageURL  string `json:"imageUrl"`
}

func (a *Album) String() string {
	str := `"` + a.Title + `"`
	if a.Artist != "" {
		str += ` by ` + a.Artist
	}
	return str
}

type AlbumInput struct {
	Title     string `json:"title" yaml:"title"`
	Artist    string `json:"artist" yaml:"artist"`
	Year      int    `json:"year" yaml:"year"`
	SongCount int    `json:"songCount" yaml:"songCount"`
	ImageURL  string `json:"imageUrl" yaml:"imageUrl"`
}

// AlbumPatch is a partial album. Nil fields keep their current value.
type AlbumPatch struct {
	Title     *string `json:"title,omitempty"`
	Artist    *string `json:"artist,omitempty"`
	Year      *int    `json:"year,omitempty"`
	SongCount *int    `json:"songCount,omitempty"`
	ImageURL  *string `json:"imageUrl,omitempty"`
}

// User is the public view of a user. The password never leaves the store.
type User struct {
	ID        uint64 `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"createdAt"`
}

type UserInput struct {
	Username string `json:"username" yaml:"username"`
	Email    string `json:"email" yaml:"email"`
	Password string `json:"password" yaml:"password"`
	Role     string `json:"role" yaml:"role"`
}

// UserPatch is a partial user. Nil fields keep their current value.
type UserPatch struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
	Role     *string `json:"role,omitempty"`
}

func (in *SongInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return requiredField("title")
	}
	if strings.TrimSpace(in.Artist) == "" {
		return requiredField("artist")
	}
	return nil
}

func (p *SongPatch) validate() error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return requiredField("title")
	}
	if p.Artist != nil && strings.TrimSpace(*p.Artist) == "" {
		return requiredField("artist")
	}
	return nil
}

func (in *AlbumInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return requiredField("title")
	}
	if strings.TrimSpace(in.Artist) == "" {
		return requiredField("artist")
	}
	return nil
}

func (p *AlbumPatch) validate() error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return requiredField("title")
	}
	if p.Artist != nil && strings.TrimSpace(*p.Artist) == "" {
		return requiredField("artist")
	}
	return nil
}

func (in *UserInput) validate() error {
	if strings.TrimSpace(in.Username) == "" {
		return requiredField("username")
	}
	if strings.TrimSpace(in.Email) == "" {
		return requiredField("email")
	}
	if in.Password == "" {
		return requiredField("password")
	}
	return nil
}

func (p *UserPatch) validate() error {
	if p.Username != nil && strings.TrimSpace(*p.Username) == "" {
		return requiredField("username")
	}
	if p.Email != nil && strings.TrimSpace(*p.Email) == "" {
		return requiredField("email")
	}
	if p.Password != nil && *p.Password == "" {
		return requiredField("password")
	}
	return nil
}

func (s *Song) apply(p *SongPatch) {
	if p.Title != nil {
		s.Title = *p.Title
	}
	if p.Artist != nil {
		s.Artist = *p.Artist
	}
	if p.Album != nil {
		s.Album = *p.Album
	}
	if p.Duration != nil {
		s.Duration = *p.Duration
	}
	if p.Year != nil {
		s.Year = *p.Year
	}
	if p.ImageURL != nil {
		s.ImageURL = *p.ImageURL
	}
}

func (a *Album) apply(p *AlbumPatch) {
	if p.Title != nil {
		a.Title = *p.Title
	}
	if p.Artist != nil {
		a.Artist = *p.Artist
	}
	if p.Year != nil {
		a.Year = *p.Year
	}
	if p.SongCount != nil {
		a.SongCount = *p.SongCount
	}
	if p.ImageURL != nil {
		a.ImageURL = *p.ImageURL
	}
}

// apply merges everything but the password, which the caller hashes.
func (u *User) apply(p *UserPatch) {
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
}

func newSong(id uint64, in *SongInput) Song {
	album := in.Album
	if strings.TrimSpace(album) == "" {
		album = defaultAlbumLabel
	}
	return Song{
		ID:       id,
		Title:    in.Title,
		Artist:   in.Artist,
		Album:    album,
		Duration: in.Duration,
		Year:     in.Year,
		ImageURL: in.ImageURL,
	}
}

func newAlbum(id uint64, in *AlbumInput) Album {
	return Album{
		ID:        id,
		Title:     in.Title,
		Artist:    in.Artist,
		Year:      in.Year,
		SongCount: in.SongCount,
		ImageURL:  in.ImageURL,
	}
}

func newUser(id uint64, in *UserInput, createdAt string) User {
	role := in.Role
	if role == "" {
		role = RoleUser
	}
	return User{
		ID:        id,
		Username:  in.Username,
		Email:     in.Email,
		Role:      role,
		CreatedAt: createdAt,
	}
}

func (s *Song) matches(query string) bool {
	return containsFold(query, s.Title, s.Artist, s.Album)
}

func (a *Album) matches(query string) bool {
	return containsFold(query, a.Title, a.Artist)
}

func (u *User) matches(query string) bool {
	return containsFold(query, u.Username, u.Email, u.Role)
}

func containsFold(query string, fields ...string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), query) {
			return true
		}
	}
	return false
}

func parseID(s string) (uint64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, &ValidationError{Field: "id", Message: "must be a positive integer"}
	}
	return id, nil
}
