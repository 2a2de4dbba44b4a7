package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/klauspost/compress/gzhttp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/fpang/image-enhancer/internal/logging"
	"github.com/fpang/image-enhancer/internal/session"
)

//go:embed all:frontend_dist
var frontendFS embed.FS

// CLI flags
var (
	portFlag        int
	maxSessionsFlag int
)

// store holds every active editing session. All state is in-memory;
// nothing survives a restart.
var store *session.Store

var rootCmd = &cobra.Command{
	Use:   "enhance-web",
	Short: "Web UI for image enhancement",
	Long: `Enhance Web starts a local web server that lets you upload an image,
tune brightness, contrast, JPEG quality, and target DPI with sliders,
compare the original and enhanced versions side by side, and download
the result.

Examples:
  enhance-web
  enhance-web --port 9090
  enhance-web --max-sessions 8`,
	Run: runMain,
}

func init() {
	rootCmd.Flags().IntVar(&portFlag, "port", 8080, "Port to listen on")
	rootCmd.Flags().IntVar(&maxSessionsFlag, "max-sessions", session.DefaultMaxSessions, "Maximum concurrent in-memory sessions")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runMain(cmd *cobra.Command, args []string) {
	start := time.Now()
	logging.Init()

	store = session.NewStore(maxSessionsFlag)

	mux := http.NewServeMux()

	// API routes
	mux.HandleFunc("/api/session", handleCreateSession)
	mux.HandleFunc("/api/session/", handleSessionRoutes)

	// Frontend static files (SPA fallback)
	frontendSub, err := fs.Sub(frontendFS, "frontend_dist")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to access embedded frontend")
	}
	fileServer := http.FileServer(http.FS(frontendSub))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		// Security headers
		w.Header().Set("Content-Security-Policy", "default-src 'self'; img-src 'self' blob: data:; style-src 'self' 'unsafe-inline'; connect-src 'self'")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		// SPA fallback: if the file doesn't exist, serve index.html
		path := r.URL.Path
		if path != "/" {
			f, err := frontendSub.Open(strings.TrimPrefix(path, "/"))
			if err != nil {
				r.URL.Path = "/"
			} else {
				f.Close()
			}
		}
		fileServer.ServeHTTP(w, r)
	})

	// Wrap with gzip, logging, and CORS for local dev
	handler := withLogging(withCORS(gzhttp.GzipHandler(mux)))

	addr := fmt.Sprintf(":%d", portFlag)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info().Msg("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}()

	logging.NewStartupLogger("enhance-web").
		Feature("gzip", true).
		Feature("cors", true).
		Config("port", strconv.Itoa(portFlag)).
		Config("maxSessions", strconv.Itoa(maxSessionsFlag)).
		InitDuration(time.Since(start)).
		Log()
	fmt.Printf("\n  Image Enhancer: http://localhost:%d\n\n", portFlag)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Server failed")
	}
}

// --- Middleware ---

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		if strings.HasPrefix(r.URL.Path, "/api/") {
			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Dur("duration", time.Since(start)).
				Msg("API request")
		}
	})
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Only allow localhost origins; this is a local tool
		origin := r.Header.Get("Origin")
		if origin != "" && (strings.HasPrefix(origin, "http://localhost:") || strings.HasPrefix(origin, "http://127.0.0.1:")) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
