package main

import (
	"context"
	"time"
)

const (
	defaultLatency      = 500 * time.Millisecond
	defaultFetchLatency = 300 * time.Millisecond
)

// waitFunc blocks for d or until ctx ends, whichever comes first.
type waitFunc func(ctx context.Context, d time.Duration) error

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type latency struct {
	// Applied to list, create, update and delete.
	Default time.Duration
	// Applied to single record fetches.
	Fetch time.Duration
}

// delayedCatalog simulates a network round trip in front of another Catalog.
// The wait happens before the inner call, so a context that ends during the
// wait leaves the records untouched.
type delayedCatalog struct {
	next    Catalog
	latency latency
	wait    waitFunc
}

func withLatency(next Catalog, l latency, wait waitFunc) *delayedCatalog {
	if wait == nil {
		wait = sleep
	}
	return &delayedCatalog{next: next, latency: l, wait: wait}
}

func delayed[T any](ctx context.Context, c *delayedCatalog, d time.Duration, fn func() (T, error)) (T, error) {
	if err := c.wait(ctx, d); err != nil {
		var zero T
		return zero, err
	}
	return fn()
}

func (c *delayedCatalog) ListSongs(ctx context.Context) ([]Song, error) {
	return delayed(ctx, c, c.latency.Default, func() ([]Song, error) {
		return c.next.ListSongs(ctx)
	})
}

func (c *delayedCatalog) GetSong(ctx context.Context, id uint64) (*Song, error) {
	return delayed(ctx, c, c.latency.Fetch, func() (*Song, error) {
		return c.next.GetSong(ctx, id)
	})
}

func (c *delayedCatalog) CreateSong(ctx context.Context, in SongInput) (*Song, error) {
	return delayed(ctx, c, c.latency.Default, func() (*Song, error) {
		return c.next.CreateSong(ctx, in)
	})
}

func (c *delayedCatalog) UpdateSong(ctx context.Context, id uint64, patch SongPatch) (*Song, error) {
	return delayed(ctx, c, c.latency.Default, func() (*Song, error) {
		return c.next.UpdateSong(ctx, id, patch)
	})
}

func (c *delayedCatalog) DeleteSong(ctx context.Context, id uint64) error {
	if err := c.wait(ctx, c.latency.Default); err != nil {
		return err
	}
	return c.next.DeleteSong(ctx, id)
}

func (c *delayedCatalog) ListAlbums(ctx context.Context) ([]Album, error) {
	return delayed(ctx, c, c.latency.Default, func() ([]Album, error) {
		return c.next.ListAlbums(ctx)
	})
}

func (c *delayedCatalog) GetAlbum(ctx context.Context, id uint64) (*Album, error) {
	return delayed(ctx, c, c.latency.Fetch, func() (*Album, error) {
		return c.next.GetAlbum(ctx, id)
	})
}

func (c *delayedCatalog) CreateAlbum(ctx context.Context, in AlbumInput) (*Album, error) {
	return delayed(ctx, c, c.latency.Default, func() (*Album, error) {
		return c.next.CreateAlbum(ctx, in)
	})
}

func (c *delayedCatalog) UpdateAlbum(ctx context.Context, id uint64, patch AlbumPatch) (*Album, error) {
	return delayed(ctx, c, c.latency.Default, func() (*Album, error) {
		return c.next.UpdateAlbum(ctx, id, patch)
	})
}

func (c *delayedCatalog) DeleteAlbum(ctx context.Context, id uint64) error {
	if err := c.wait(ctx, c.latency.Default); err != nil {
		return err
	}
	return c.next.DeleteAlbum(ctx, id)
}

func (c *delayedCatalog) ListUsers(ctx context.Context) ([]User, error) {
	return delayed(ctx, c, c.latency.Default, func() ([]User, error) {
		return c.next.ListUsers(ctx)
	})
}

func (c *delayedCatalog) GetUser(ctx context.Context, id uint64) (*User, error) {
	return delayed(ctx, c, c.latency.Fetch, func() (*User, error) {
		return c.next.GetUser(ctx, id)
	})
}

func (c *delayedCatalog) CreateUser(ctx context.Context, in UserInput) (*User, error) {
	return delayed(ctx, c, c.latency.Default, func() (*User, error) {
		return c.next.CreateUser(ctx, in)
	})
}

func (c *delayedCatalog) UpdateUser(ctx context.Context, id uint64, patch UserPatch) (*User, error) {
	return delayed(ctx, c, c.latency.Default, func() (*User, error) {
		return c.next.UpdateUser(ctx, id, patch)
	})
}

func (c *delayedCatalog) DeleteUser(ctx context.Context, id uint64) error {
	if err := c.wait(ctx, c.latency.Default); err != nil {
		return err
	}
	return c.next.DeleteUser(ctx, id)
}
