// Command dronepath serves the bounded-spiral mission planner API.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "modernc.org/sqlite"

	"github.com/HansenHomeAI/DronePathAlgorithim/internal/api"
	"github.com/HansenHomeAI/DronePathAlgorithim/internal/config"
	"github.com/HansenHomeAI/DronePathAlgorithim/internal/elevation"
	"github.com/HansenHomeAI/DronePathAlgorithim/internal/mission"
	"github.com/HansenHomeAI/DronePathAlgorithim/internal/store"
	"github.com/HansenHomeAI/DronePathAlgorithim/internal/version"
)

var (
	listen        = flag.String("listen", ":8080", "Listen address")
	dbFile        = flag.String("db", "missions.db", "Mission archive database path ('' disables)")
	configPath    = flag.String("config", "", "Planner tuning JSON (defaults compiled in)")
	migrationsDir = flag.String("migrations", "migrations", "Schema migrations directory")
	devMode       = flag.Bool("dev", false, "Run in dev mode (flat terrain, admin routes)")
)

func main() {
	flag.Parse()

	if *listen == "" {
		log.Fatal("Listen address is required")
	}

	tuning := mission.DefaultTuning()
	var cfg *config.TuningConfig
	if *configPath != "" {
		loaded, err := config.LoadTuningConfig(*configPath)
		if err != nil {
			log.Fatalf("failed to load tuning config: %v", err)
		}
		cfg = loaded
		tuning = cfg.Apply(tuning)
	}

	defaultElevation := 4500.0
	if cfg != nil && cfg.DefaultElevationFt != nil {
		defaultElevation = *cfg.DefaultElevationFt
	}

	var source elevation.Source
	if *devMode {
		source = elevation.StaticSource(defaultElevation)
	} else {
		epqs := elevation.NewEPQSSource(&http.Client{Timeout: elevation.DefaultLookupTimeout})
		if cfg != nil {
			if cfg.ElevationBaseURL != nil {
				epqs.BaseURL = *cfg.ElevationBaseURL
			}
			epqs.Timeout = cfg.ElevationTimeoutDuration(elevation.DefaultLookupTimeout)
		}
		source = epqs
	}
	terrain := elevation.NewCache(source, defaultElevation)

	var archive *store.Store
	if *dbFile != "" {
		var err error
		archive, err = store.Open(*dbFile)
		if err != nil {
			log.Fatalf("Failed to open mission archive: %v", err)
		}
		defer archive.Close()

		if _, err := os.Stat(*migrationsDir); err == nil {
			if err := archive.MigrateUp(*migrationsDir); err != nil {
				log.Fatalf("Failed to run migrations: %v", err)
			}
		}
	}

	var wg sync.WaitGroup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	wg.Add(1)
	go func() {
		defer wg.Done()

		mux := http.NewServeMux()

		if archive != nil && *devMode {
			archive.AttachAdminRoutes(mux)
		}

		apiMux := api.NewServer(tuning, terrain, archive).ServeMux()
		mux.Handle("/api/", http.StripPrefix("/api", apiMux))

		server := &http.Server{
			Addr:    *listen,
			Handler: api.LoggingMiddleware(mux),
		}

		go func() {
			log.Printf("mission planner %s (%s) listening on %s", version.Version, version.GitSHA, *listen)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("failed to start server: %v", err)
			}
		}()

		<-ctx.Done()
		log.Println("shutting down HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server shutdown error: %v", err)
		}
		log.Printf("HTTP server routine stopped")
	}()

	wg.Wait()
	log.Printf("Graceful shutdown complete")
}
