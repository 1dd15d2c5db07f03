package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func main() {
	err := godotenv.Load()
	if os.IsNotExist(err) {
		log.Printf("no .env file found, skipping")
	} else if err != nil {
		log.Fatalf("failed loading .env file: %s", err)
	}

	app := cli.NewApp()
	app.Name = "catalog-admin"
	app.Usage = "Admin dashboard and REST API for a song, album and user catalog."
	app.Flags = []cli.Flag{
		&cli.IntFlag{
			Name:    "port",
			Value:   8080,
			Usage:   "port to run server on",
			EnvVars: []string{"CATALOG_PORT"},
		},
		&cli.StringFlag{
			Name:    "backend",
			Value:   "memory",
			Usage:   "record store backend: memory or sqlite (in-memory)",
			EnvVars: []string{"CATALOG_BACKEND"},
		},
		&cli.StringFlag{
			Name:    "upstream",
			Usage:   "base URL of another catalog-admin REST API to use instead of a local backend, e.g. http://host:8080/api",
			EnvVars: []string{"CATALOG_UPSTREAM"},
		},
		&cli.DurationFlag{
			Name:    "latency",
			Value:   defaultLatency,
			Usage:   "simulated latency of list, create, update and delete",
			EnvVars: []string{"CATALOG_LATENCY"},
		},
		&cli.DurationFlag{
			Name:    "fetch-latency",
			Value:   defaultFetchLatency,
			Usage:   "simulated latency of single record fetches",
			EnvVars: []string{"CATALOG_FETCH_LATENCY"},
		},
		&cli.StringFlag{
			Name:    "seed",
			Usage:   "YAML file with the initial catalog, defaults to the built-in demo catalog",
			EnvVars: []string{"CATALOG_SEED"},
		},
		&cli.BoolFlag{
			Name:    "no-seed",
			Usage:   "start with empty tables",
			EnvVars: []string{"CATALOG_NO_SEED"},
		},
		&cli.StringFlag{
			Name:    "log-format",
			Value:   "console",
			Usage:   "log output: console or json",
			EnvVars: []string{"CATALOG_LOG_FORMAT"},
		},
		&cli.BoolFlag{
			Name:    "debug",
			Usage:   "enable debug logging",
			EnvVars: []string{"CATALOG_DEBUG"},
		},
	}
	app.Action = func(ctx *cli.Context) error {
		flush, err := setupLogging(ctx.String("log-format"), ctx.Bool("debug"))
		if err != nil {
			return err
		}
		defer flush()

		catalog, closeCatalog, err := openCatalog(ctx.Context, catalogConfig{
			Backend:  ctx.String("backend"),
			Upstream: ctx.String("upstream"),
			Latency: latency{
				Default: ctx.Duration("latency"),
				Fetch:   ctx.Duration("fetch-latency"),
			},
			SeedPath: ctx.String("seed"),
			NoSeed:   ctx.Bool("no-seed"),
		})
		if err != nil {
			return err
		}
		defer closeCatalog()

		handler, err := newServer(catalog)
		if err != nil {
			return err
		}

		// Start HTTP handler.
		quit := make(chan os.Signal, 2)
		var wg sync.WaitGroup
		wg.Add(1)

		server := &http.Server{Addr: ":" + strconv.Itoa(ctx.Int("port")), Handler: handler}

		go func() {
			defer wg.Done()

			slog.Info("serving", "address", server.Addr)

			err := server.ListenAndServe()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				fmt.Fprintf(os.Stderr, "failed to start server: %s\n", err)
				quit <- os.Interrupt
			}
		}()

		signal.Notify(
			quit,
			syscall.SIGINT,
			syscall.SIGTERM,
			syscall.SIGHUP,
		)
		<-quit

		slog.Info("Server shutting down...")

		go server.Close()

		wg.Wait()
		return nil
	}

	err = app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

type catalogConfig struct {
	Backend  string
	Upstream string
	Latency  latency
	SeedPath string
	NoSeed   bool
}

// openCatalog builds the Catalog the server runs on. A local backend is seeded
// and then wrapped with the simulated latency. An upstream is used as is, since
// its latency is real.
func openCatalog(ctx context.Context, cfg catalogConfig) (Catalog, func(), error) {
	if cfg.Upstream != "" {
		slog.Info("using upstream catalog", "url", cfg.Upstream)
		return newAPIClient(cfg.Upstream, nil), func() {}, nil
	}

	var (
		backend interface {
			Catalog
			seeder
		}
		closeFn = func() {}
	)

	switch cfg.Backend {
	case "memory":
		backend = newStore()
	case "sqlite":
		db, err := newDatabase()
		if err != nil {
			return nil, nil, fmt.Errorf("opening sqlite: %w", err)
		}
		backend = db
		closeFn = func() {
			if err := db.Close(); err != nil {
				slog.Error("closing sqlite", "error", err)
			}
		}
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}

	if !cfg.NoSeed {
		data, err := loadSeed(cfg.SeedPath)
		if err != nil {
			closeFn()
			return nil, nil, err
		}
		if err := backend.seed(ctx, data); err != nil {
			closeFn()
			return nil, nil, err
		}
		slog.Info("seeded catalog", "songs", len(data.Songs), "albums", len(data.Albums), "users", len(data.Users))
	}

	slog.Info("using local catalog", "backend", cfg.Backend, "latency", cfg.Latency.Default, "fetch_latency", cfg.Latency.Fetch)
	return withLatency(backend, cfg.Latency, sleep), closeFn, nil
}
