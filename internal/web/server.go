// Package web serves the card catalog over HTTP and runs human-vs-AI duels
// over websocket connections.
package web

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/peterkuimelis/lendas/internal/catalog"
	"github.com/peterkuimelis/lendas/internal/game"
	"github.com/peterkuimelis/lendas/internal/net"

	stdnet "net"
)

// Options configures the web server.
type Options struct {
	Catalog     *catalog.Catalog
	AI          game.Chooser
	HumanSide   game.PlayerID // seat of the browser player; the AI takes the other
	Seed        uint64        // 0 picks a random seed per duel
	SafetyBound int
	ActionDelay time.Duration // pause before each AI turn; 0 runs it inline
	StaticDir   string        // optional browser client
	Logger      *zap.Logger
}

// Server is the lendas web server.
type Server struct {
	catalog *catalog.Catalog
	opts    Options
	logger  *zap.Logger
	router  chi.Router

	mu       sync.Mutex
	sessions map[uuid.UUID]*duelSession
}

// NewServer creates a new web server.
func NewServer(opts Options) *Server {
	if opts.Catalog == nil {
		opts.Catalog = catalog.Default()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.HumanSide != game.PlayerB {
		opts.HumanSide = game.PlayerA
	}
	s := &Server{
		catalog:  opts.Catalog,
		opts:     opts,
		logger:   opts.Logger,
		sessions: make(map[uuid.UUID]*duelSession),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/cards", s.handleCards)
		r.Get("/decks", s.handleDecks)
		r.Get("/duels", s.handleListDuels)
		r.Get("/duels/{id}", s.handleGetDuel)
	})
	r.Get("/ws", s.handleWebSocket)

	if s.opts.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(s.opts.StaticDir)))
	}
	s.router = r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe starts the HTTP server and shuts it down when ctx ends.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ stdnet.Listener) context.Context { return ctx },
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	s.logger.Info("web server listening", zap.String("addr", addr))
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}

// DuelInfo summarizes a running duel for the /api/duels endpoints.
type DuelInfo struct {
	ID     string         `json:"id"`
	Human  string         `json:"human"`
	Deck   string         `json:"deck"`
	Turn   int            `json:"turn"`
	Phase  string         `json:"phase"`
	Over   bool           `json:"over"`
	Result string         `json:"result,omitempty"`
	State  *net.StateView `json:"state,omitempty"` // public view, hands hidden
}

func (s *Server) handleListDuels(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	infos := make([]DuelInfo, 0, len(s.sessions))
	for _, sess := range s.sessions {
		infos = append(infos, sess.info(false))
	}
	s.mu.Unlock()
	s.writeJSON(w, infos)
}

func (s *Server) handleGetDuel(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid duel id", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	sess, ok := s.sessions[id]
	s.mu.Unlock()
	if !ok {
		http.Error(w, "duel not found", http.StatusNotFound)
		return
	}
	s.writeJSON(w, sess.info(true))
}

func (s *Server) register(sess *duelSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.id] = sess
}

func (s *Server) unregister(sess *duelSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sess.id)
}
