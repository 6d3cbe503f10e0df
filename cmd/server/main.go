package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"buildlab/internal/codec"
	"buildlab/internal/config"
	"buildlab/internal/domain"
	"buildlab/internal/handler"
	"buildlab/internal/hub"
	"buildlab/internal/logger"
	"buildlab/internal/metrics"
	"buildlab/internal/service"
	"buildlab/internal/session"
	"buildlab/internal/watcher"
)

func main() {
	// Command line flags
	configPath := flag.String("config", "", "config file path (default: search $BUILDLAB_CONFIG, ./buildlab.yaml, XDG, /etc)")
	addr := flag.String("addr", "", "HTTP listen address (overrides config)")
	scenarioPath := flag.String("scenario", "", "scenario file replayed into every new session (overrides config)")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting buildlab server...")

	cfg, path, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if path == "" {
		log.Println("No config file found, using defaults")
	} else {
		log.Printf("Config loaded: %s", path)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *scenarioPath != "" {
		cfg.Scenario.Path = *scenarioPath
	}

	appLogger := logger.New(logger.ParseLevel(cfg.Log.Level), os.Stderr)
	registry := metrics.DefaultRegistry()

	var scenario *domain.Scenario
	if cfg.Scenario.Path != "" {
		scenario, err = codec.ParseFile(cfg.Scenario.Path)
		if err != nil {
			log.Fatalf("Failed to load scenario: %v", err)
		}
		log.Printf("Scenario loaded: %s (%d nodes, %d steps)", cfg.Scenario.Path, len(scenario.Nodes), len(scenario.Steps))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Event bus feeds the SSE hub
	eventBus := service.NewEventBus()
	sseHub := hub.New(appLogger)
	go sseHub.Run(ctx)
	sseHub.Forward(ctx, eventBus)

	sessions := session.NewManager(session.Options{
		TTL: cfg.Server.SessionTTL.Duration(),
		LabOptions: []service.Option{
			service.WithLogger(appLogger),
			service.WithAllowDuplicateCables(cfg.Lab.DuplicateCables()),
			service.WithAutoNetwork(service.AutoNetwork{
				Defaults:  cfg.Lab.AutoNetwork.Defaults(),
				FirstHost: cfg.Lab.AutoNetwork.FirstHost,
			}),
			service.WithLogTail(cfg.Lab.ActivityTail),
		},
		Scenario: scenario,
		Events:   eventBus,
		Metrics:  registry,
		Logger:   appLogger,
	})
	go sessions.RunReaper(ctx, time.Minute)

	if cfg.Scenario.Path != "" && cfg.Scenario.Watch {
		w := watcher.New(cfg.Scenario.Path, func() {
			sc, err := codec.ParseFile(cfg.Scenario.Path)
			if err != nil {
				appLogger.Warn("scenario reload failed, keeping previous", "path", cfg.Scenario.Path, "error", err)
				return
			}
			sessions.SetScenario(sc)
			appLogger.Info("scenario reloaded", "path", cfg.Scenario.Path, "nodes", len(sc.Nodes), "steps", len(sc.Steps))
		}, appLogger)
		go func() {
			if err := w.Watch(ctx); err != nil && ctx.Err() == nil {
				log.Printf("Scenario watcher stopped: %v", err)
			}
		}()
	}

	mux := http.NewServeMux()
	handler.NewLabHandler(sessions, appLogger).Register(mux)
	mux.Handle("GET /events", sseHub)
	mux.Handle("GET /metrics", registry.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Apply middleware
	finalHandler := handler.Chain(mux,
		handler.Recover(appLogger),
		handler.CORS,
		handler.Logger(appLogger),
		handler.Metrics(registry),
	)

	// No write timeout: event streams stay open
	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           finalHandler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Server listening on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Printf("Server stopped (%d sessions open)", sessions.Len())
}

func loadConfig(path string) (*config.Config, string, error) {
	if path != "" {
		return config.LoadFromPath(path)
	}
	return config.Load()
}
