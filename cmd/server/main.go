package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cipherchat/internal/config"
	"cipherchat/internal/directory"
	"cipherchat/internal/handlers"
	"cipherchat/internal/registry"
	"cipherchat/internal/relay"
	"cipherchat/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize the key directory. Postgres when configured, otherwise
	// in-memory.
	store := newDirectoryStore(cfg)
	defer store.Close()

	// Initialize the room registry and the relay hub
	reg := registry.New(cfg.Rooms.DefaultCapacity)
	hub := relay.NewHub(reg)
	go hub.Run()

	// Initialize handlers
	roomHandlers := handlers.NewRoomHandlers(reg)
	directoryHandlers := handlers.NewDirectoryHandlers(store)
	wsHandlers := handlers.NewWebSocketHandlers(hub)

	// Setup routes
	mux := http.NewServeMux()
	setupRoutes(mux, roomHandlers, directoryHandlers, wsHandlers)

	// Create server
	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      corsMiddleware(mux),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	logger.Info("🚀 Relay started on http://localhost%s", cfg.Server.Port)
	logger.Info("📡 WebSocket endpoint: ws://localhost%s/ws", cfg.Server.Port)
	printAPIEndpoints()

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Relay shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Shutdown error: %v", err)
	}
	hub.Shutdown()
}

func newDirectoryStore(cfg *config.Config) directory.Store {
	if cfg.Directory.DatabaseURL == "" {
		logger.Info("Using in-memory key directory")
		return directory.NewMemoryStore()
	}

	store, err := directory.NewPostgresStore(context.Background(), cfg.Directory.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to open directory database: %v", err)
	}
	return store
}

func setupRoutes(mux *http.ServeMux, roomHandlers *handlers.RoomHandlers, directoryHandlers *handlers.DirectoryHandlers, wsHandlers *handlers.WebSocketHandlers) {
	// Room listing
	mux.HandleFunc("/rooms", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		roomHandlers.ListRooms(w, r)
	})

	// Public-key directory
	mux.HandleFunc("/signup", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		directoryHandlers.Signup(w, r)
	})
	mux.HandleFunc("/keys/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		directoryHandlers.LookupKey(w, r)
	})

	// WebSocket route
	mux.HandleFunc("/ws", wsHandlers.HandleWebSocket)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func printAPIEndpoints() {
	logger.Info("🔗 API endpoints:")
	logger.Info("   GET  /rooms")
	logger.Info("   POST /signup")
	logger.Info("   GET  /keys/{userId}")
	logger.Info("   GET  /ws")
}
