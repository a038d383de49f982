// Command metricdeck serves the admin analytics dashboard API on top
// of the hosted Postgres store.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/metricdeck/metricdeck/internal/config"
	"github.com/metricdeck/metricdeck/internal/server"
	"github.com/metricdeck/metricdeck/internal/store"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = ""
)

func main() {
	fs := flag.NewFlagSet("metricdeck", flag.ExitOnError)
	// host, port, and db are read back through the FlagSet by
	// config.Load, which only applies flags explicitly set.
	fs.String("host", "", "host to bind to")
	fs.Int("port", 0, "port to listen on")
	fs.String("db", "", "Postgres connection URL")
	envFile := fs.String("env", "", "path to .env file")
	showVersion := fs.Bool("version", false, "print version and exit")
	fs.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("metricdeck %s (%s) %s\n", version, commit, buildDate)
		return
	}

	cfg, err := config.Load(fs, *envFile)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	if err := run(cfg); err != nil {
		log.Fatal(err)
	}
}

func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	st, err := store.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connecting to store: %w", err)
	}
	defer st.Close()

	srv := server.New(cfg, st, server.WithVersion(server.VersionInfo{
		Version:   version,
		Commit:    commit,
		BuildDate: buildDate,
	}))

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	log.Printf("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(
		context.Background(), 10*time.Second,
	)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
