package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/IlikeChooros/go-linemc/pkg/game"
	"github.com/IlikeChooros/go-linemc/pkg/mcts"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

type StatusResponse struct {
	Config       Config          `json:"config"`
	Board        [][]game.Marker `json:"board"`
	Moves        int             `json:"moves"`
	NextMarker   game.Marker     `json:"next_marker"`
	Status       string          `json:"status"`
	Winner       game.Marker     `json:"winner"`
	LastMove     *game.Move      `json:"last_move,omitempty"`
	LastDecision *mcts.Decision  `json:"last_decision,omitempty"`
	RunStats     mcts.RunStats   `json:"run_stats"`
}

type moveRequest struct {
	Row    int         `json:"row"`
	Col    int         `json:"col"`
	Marker game.Marker `json:"marker"`
}

type decisionRequest struct {
	Row *int `json:"row"`
	Col *int `json:"col"`
	// Record the decision as the engine's move
	Apply bool `json:"apply"`
}

type decisionResponse struct {
	Decision mcts.Decision  `json:"decision"`
	Status   StatusResponse `json:"status"`
}

// HTTP and websocket front of a single engine. The engine is not safe for
// concurrent use, every handler holds 'mu' while touching it.
type Server struct {
	mu     sync.Mutex
	engine *mcts.Engine
	config Config
	hub    *Hub
	logger zerolog.Logger
	router chi.Router
}

func New(config Config, logger zerolog.Logger) (*Server, error) {
	opts := []mcts.Option{mcts.WithLimits(config.Limits()), mcts.WithLogger(logger)}
	if config.Seed != 0 {
		opts = append(opts, mcts.WithSeed(config.Seed))
	}

	engine, err := mcts.NewEngine(config.Size, config.Marker, opts...)
	if err != nil {
		return nil, err
	}

	s := &Server{
		engine: engine,
		config: config,
		hub:    NewHub(),
		logger: logger,
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Hub() *Hub {
	return s.hub
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	r.Get("/api/status", s.handleStatus)
	r.Post("/api/move", s.handleMove)
	r.Post("/api/decision", s.handleDecision)
	r.Post("/api/reset", s.handleReset)
	r.Get("/ws", s.serveWS)
	return r
}

// Serve until the context is cancelled
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{Addr: s.config.Addr, Handler: s.Handler()}
	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		s.hub.Run(ctx.Done())
		return nil
	})
	group.Go(func() error {
		s.logger.Info().Str("addr", s.config.Addr).Int("size", s.config.Size).Msg("server-listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info().Msg("server-shutdown")
		return httpServer.Shutdown(shutdownCtx)
	})
	return group.Wait()
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	status := s.status()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var payload moveRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// The side to move plays by default
	if payload.Marker == game.MarkerEmpty {
		payload.Marker = game.MarkerForMove(s.engine.State().RealMoves())
	}
	if err := s.engine.NotifyMove(payload.Row, payload.Col, payload.Marker); err != nil {
		writeError(w, err)
		return
	}

	status := s.status()
	s.hub.Publish("status", status)
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleDecision(w http.ResponseWriter, r *http.Request) {
	var payload decisionRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Respond to the last recorded move when no coordinate is given
	last, _ := s.engine.LastMove()
	row, col := last.Row, last.Col
	if payload.Row != nil && payload.Col != nil {
		row, col = *payload.Row, *payload.Col
	}

	decision, err := s.engine.RequestDecision(row, col)
	if err != nil {
		writeError(w, err)
		return
	}
	if payload.Apply {
		if err := s.engine.NotifyMove(decision.Row, decision.Col, decision.Marker); err != nil {
			writeError(w, err)
			return
		}
	}

	s.logger.Info().
		Str("decision", decision.String()).
		Bool("applied", payload.Apply).
		Int("playouts", s.engine.RunStats().Playouts).
		Msg("decision-made")

	response := decisionResponse{Decision: decision, Status: s.status()}
	s.hub.Publish("decision", response)
	writeJSON(w, http.StatusOK, response)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.engine.ResetGame()
	status := s.status()
	s.hub.Publish("reset", status)
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn().Err(err).Msg("ws-upgrade")
		return
	}
	client := &Client{hub: s.hub, send: make(chan []byte, 16)}
	s.hub.Register(client)

	s.mu.Lock()
	client.sendJSON(wsMessage{Type: "status", Payload: mustMarshal(s.status())})
	s.mu.Unlock()

	go func() {
		defer conn.Close()
		if err := writeWSWithHeartbeat(conn, client.send); err != nil {
			s.logger.Debug().Err(err).Msg("ws-write")
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			s.hub.Unregister(client)
			return
		}
		var msg wsMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}
		switch msg.Type {
		case "request_status":
			s.mu.Lock()
			client.sendJSON(wsMessage{Type: "status", Payload: mustMarshal(s.status())})
			s.mu.Unlock()
		}
	}
}

// Must be called with 'mu' held
func (s *Server) status() StatusResponse {
	view := s.engine.State()
	size := view.Size()

	board := make([][]game.Marker, size)
	for row := range size {
		board[row] = make([]game.Marker, size)
		for col := range size {
			board[row][col] = view.Cell(row, col).Marker
		}
	}

	status := StatusResponse{
		Config:     s.config,
		Board:      board,
		Moves:      view.RealMoves(),
		NextMarker: game.MarkerForMove(view.RealMoves()),
		Status:     statusString(view),
		Winner:     view.Winner(),
		RunStats:   s.engine.RunStats(),
	}
	if move, ok := s.engine.LastMove(); ok {
		status.LastMove = &move
	}
	if decision, ok := s.engine.LastDecision(); ok {
		status.LastDecision = &decision
	}
	return status
}

func statusString(view game.View) string {
	switch {
	case view.IsLineCompleteNow():
		return "won"
	case view.IsDrawNow():
		return "draw"
	}
	return "playing"
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	if errors.Is(err, mcts.ErrGameOver) || errors.Is(err, game.ErrCellOccupied) {
		status = http.StatusConflict
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// Logs every request with zerolog instead of the chi's default logger
func requestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				logger.Info().
					Str("request-id", middleware.GetReqID(r.Context())).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Int("status", ww.Status()).
					Int("bytes", ww.BytesWritten()).
					Dur("elapsed", time.Since(start)).
					Msg("request")
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
