// Package server hosts the widget assets and the chat API.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/embedchat-ai/embedchat/pkg/cache"
	"github.com/embedchat-ai/embedchat/pkg/config"
	"github.com/embedchat-ai/embedchat/pkg/llm"
	"github.com/embedchat-ai/embedchat/pkg/models"
	"github.com/embedchat-ai/embedchat/pkg/widget"
	"github.com/embedchat-ai/embedchat/pkg/wikipedia"
)

// Transcripts is the persistence surface the chat handler writes to.
type Transcripts interface {
	Append(ctx context.Context, conversationID string, turns []models.ChatMessage, cached bool) (string, error)
}

// Deps holds the collaborators a Server is wired with. Responses and Wiki
// caches are constructed once in the composition root and injected so tests
// get fresh instances. Nil fields disable the corresponding feature.
type Deps struct {
	Model       *llm.Client
	Wiki        *wikipedia.Client
	Transcripts Transcripts
	Responses   *cache.Cache[string]
	WikiLookups *cache.Cache[*models.WikiResult]
	Widget      *widget.Renderer
}

// Server is the embedchat HTTP host.
type Server struct {
	cfg  *config.Config
	log  *slog.Logger
	deps Deps
	mux  *http.ServeMux
}

// welcomeKey is the response-cache key for the generated welcome message.
// It cannot collide with a conversation key, which always contains ':'.
const welcomeKey = "welcome"

// New creates a Server wired with its dependencies.
func New(cfg *config.Config, logger *slog.Logger, deps Deps) *Server {
	s := &Server{
		cfg:  cfg,
		log:  logger,
		deps: deps,
		mux:  http.NewServeMux(),
	}
	s.mux.HandleFunc("/api/chat", s.handleChat)
	s.mux.HandleFunc("/api/welcome", s.handleWelcome)
	s.mux.HandleFunc("/api/cache/stats", s.handleCacheStats)
	s.mux.HandleFunc("/api/cache/clear", s.handleCacheClear)
	s.mux.HandleFunc("/widget.js", s.handleLoaderJS)
	s.mux.HandleFunc("/chat", s.handleChatPage)
	s.mux.HandleFunc("/", s.handleLanding)
	return s
}

// ServeHTTP implements http.Handler. The widget embeds cross-origin, so
// every response carries permissive CORS headers.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe starts the server with graceful shutdown support.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.Listen,
		Handler: s,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("embedchat listening", "addr", s.cfg.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	case err := <-errCh:
		return err
	}
}

func writeJSON(w http.ResponseWriter, code int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(body)
}

func writeJSONError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	fmt.Fprintf(w, `{"error":{"message":%q,"code":%d}}`, message, code)
}
