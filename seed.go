package main

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeed []byte

type seedUser struct {
	UserInput `yaml:",inline"`
	CreatedAt string `yaml:"createdAt"`
}

type seedData struct {
	Songs  []SongInput  `yaml:"songs"`
	Albums []AlbumInput `yaml:"albums"`
	Users  []seedUser   `yaml:"users"`
}

// seeder loads records without simulated latency. Identifiers follow the
// document order.
type seeder interface {
	seed(ctx context.Context, data *seedData) error
}

// loadSeed parses the seed file at path, or the embedded catalog when path is empty.
func loadSeed(path string) (*seedData, error) {
	raw := defaultSeed
	if path != "" {
		var err error
		raw, err = os.ReadFile(path)
		if err != nil {
			return nil, err
		}
	}

	var data seedData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parsing seed: %w", err)
	}
	return &data, nil
}

func (s *store) seed(ctx context.Context, data *seedData) error {
	for _, in := range data.Songs {
		if _, err := s.CreateSong(ctx, in); err != nil {
			return fmt.Errorf("seeding song %q: %w", in.Title, err)
		}
	}
	for _, in := range data.Albums {
		if _, err := s.CreateAlbum(ctx, in); err != nil {
			return fmt.Errorf("seeding album %q: %w", in.Title, err)
		}
	}
	for _, u := range data.Users {
		if err := u.validate(); err != nil {
			return fmt.Errorf("seeding user %q: %w", u.Username, err)
		}
		if _, err := s.insertUser(&u.UserInput, u.createdAt(s.now)); err != nil {
			return fmt.Errorf("seeding user %q: %w", u.Username, err)
		}
	}
	return nil
}

func (d *database) seed(ctx context.Context, data *seedData) error {
	for _, in := range data.Songs {
		if _, err := d.CreateSong(ctx, in); err != nil {
			return fmt.Errorf("seeding song %q: %w", in.Title, err)
		}
	}
	for _, in := range data.Albums {
		if _, err := d.CreateAlbum(ctx, in); err != nil {
			return fmt.Errorf("seeding album %q: %w", in.Title, err)
		}
	}
	for _, u := range data.Users {
		if err := u.validate(); err != nil {
			return fmt.Errorf("seeding user %q: %w", u.Username, err)
		}
		if _, err := d.insertUser(ctx, &u.UserInput, u.createdAt(d.now)); err != nil {
			return fmt.Errorf("seeding user %q: %w", u.Username, err)
		}
	}
	return nil
}

// validate checks a seeded user like a created one, except that the password
// may be left out. Such a user has no password that matches.
func (u *seedUser) validate() error {
	if strings.TrimSpace(u.Username) == "" {
		return requiredField("username")
	}
	if strings.TrimSpace(u.Email) == "" {
		return requiredField("email")
	}
	return nil
}

func (u *seedUser) createdAt(now func() time.Time) string {
	if u.CreatedAt != "" {
		return u.CreatedAt
	}
	return now().UTC().Format(dateLayout)
}
