// Package server exposes the grid engine over HTTP.
//
// The server offers a stateless layout endpoint plus call sessions: each
// call holds a live tile controller on the server, driven by participant
// updates and pointer events, with its arrangement persisted to a session
// store so a call can be resumed across instances.
package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kazin-kharizma/element-call/pkg/errors"
	"github.com/kazin-kharizma/element-call/pkg/grid"
	"github.com/kazin-kharizma/element-call/pkg/grid/state"
	"github.com/kazin-kharizma/element-call/pkg/session"
)

// defaultViewport is used for calls created without explicit dimensions.
const (
	defaultViewportWidth  = 1280.0
	defaultViewportHeight = 720.0
)

// Server routes grid requests to live call controllers.
type Server struct {
	logger  *log.Logger
	cfg     grid.Config
	store   session.Store
	archive *Archive

	mu    sync.Mutex
	calls map[string]*call
}

// call is one live session's controller.
type call struct {
	id   string
	ctrl *state.Controller
}

// New creates a server. archive may be nil, which disables the named
// arrangement endpoints.
func New(logger *log.Logger, cfg grid.Config, store session.Store, archive *Archive) *Server {
	return &Server{
		logger:  logger,
		cfg:     cfg,
		store:   store,
		archive: archive,
		calls:   make(map[string]*call),
	}
}

// Close shuts down every live call controller.
func (s *Server) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.calls {
		c.ctrl.Close()
	}
	s.calls = make(map[string]*call)
}

// Router builds the HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)

		r.Route("/calls", func(r chi.Router) {
			r.Post("/", s.handleCreateCall)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetCall)
				r.Delete("/", s.handleDeleteCall)
				r.Put("/viewport", s.handleViewport)
				r.Put("/mode", s.handleMode)
				r.Put("/participants", s.handleParticipants)
				r.Post("/pointer", s.handlePointer)
				r.Get("/arrangement", s.handleGetArrangement)
				r.Put("/arrangement", s.handlePutArrangement)
			})
		})

		if s.archive != nil {
			r.Route("/arrangements", func(r chi.Router) {
				r.Get("/", s.handleListArrangements)
				r.Get("/{name}", s.handleGetArchived)
				r.Put("/{name}", s.handlePutArchived)
			})
		}
	})

	return r
}

// logRequests logs method, path, status and duration per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Microsecond),
		)
	})
}

// =============================================================================
// Stateless Layout
// =============================================================================

// layoutRequest is the input for the stateless layout endpoint.
type layoutRequest struct {
	TileCount          int     `json:"tile_count"`
	PresenterTileCount int     `json:"presenter_tile_count"`
	Width              float64 `json:"width"`
	Height             float64 `json:"height"`
	Mode               string  `json:"mode"`
	PiPX               float64 `json:"pip_x"`
	PiPY               float64 `json:"pip_y"`
	Scroll             float64 `json:"scroll"`
}

type layoutResponse struct {
	Mode  string      `json:"mode"`
	Rects []grid.Rect `json:"rects"`
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	mode := grid.Mode(req.Mode)
	if req.Mode == "" {
		mode = grid.ModeFreedom
	}
	if !mode.Valid() {
		s.writeError(w, errors.New(errors.ErrCodeInvalidMode, "unknown layout mode %q", req.Mode))
		return
	}

	rects := grid.Positions(s.cfg, grid.PositionsInput{
		TileCount:          req.TileCount,
		PresenterTileCount: req.PresenterTileCount,
		Width:              req.Width,
		Height:             req.Height,
		PiPX:               req.PiPX,
		PiPY:               req.PiPY,
		Scroll:             req.Scroll,
		Mode:               mode,
	})
	writeJSON(w, http.StatusOK, layoutResponse{Mode: string(mode), Rects: rects})
}

// =============================================================================
// Call Sessions
// =============================================================================

type createCallRequest struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Mode   string  `json:"mode"`

	// SessionID resumes a previously saved call.
	SessionID string `json:"session_id"`
}

type createCallResponse struct {
	ID string `json:"id"`
}

func (s *Server) handleCreateCall(w http.ResponseWriter, r *http.Request) {
	var req createCallRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			s.writeError(w, err)
			return
		}
	}

	ctrl := state.NewController(s.cfg)
	width, height := req.Width, req.Height
	if width <= 0 || height <= 0 {
		width, height = defaultViewportWidth, defaultViewportHeight
	}
	ctrl.SetViewport(width, height)

	if req.Mode != "" {
		if err := ctrl.SetUserMode(grid.Mode(req.Mode)); err != nil {
			ctrl.Close()
			s.writeError(w, err)
			return
		}
	}

	id := req.SessionID
	if id != "" {
		sess, err := s.store.Get(r.Context(), id)
		if err != nil {
			ctrl.Close()
			s.writeError(w, errors.Wrap(errors.ErrCodeStore, err, "load session %s", id))
			return
		}
		if sess == nil {
			ctrl.Close()
			s.writeError(w, session.NotFound(id))
			return
		}
		if err := ctrl.ApplyArrangement(sess.Arrangement); err != nil {
			ctrl.Close()
			s.writeError(w, err)
			return
		}
	} else {
		id = session.GenerateID()
	}

	c := &call{id: id, ctrl: ctrl}
	s.mu.Lock()
	if old, ok := s.calls[id]; ok {
		old.ctrl.Close()
	}
	s.calls[id] = c
	s.mu.Unlock()

	if err := s.persist(r, c); err != nil {
		s.logger.Warn("persist session", "id", id, "error", err)
	}
	writeJSON(w, http.StatusCreated, createCallResponse{ID: id})
}

func (s *Server) handleGetCall(w http.ResponseWriter, r *http.Request) {
	c, err := s.lookupCall(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c.ctrl.Layout())
}

func (s *Server) handleDeleteCall(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	c, ok := s.calls[id]
	delete(s.calls, id)
	s.mu.Unlock()

	if !ok {
		s.writeError(w, session.NotFound(id))
		return
	}
	c.ctrl.Close()
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeStore, err, "delete session %s", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type viewportRequest struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (s *Server) handleViewport(w http.ResponseWriter, r *http.Request) {
	c, err := s.lookupCall(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req viewportRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	c.ctrl.SetViewport(req.Width, req.Height)
	writeJSON(w, http.StatusOK, c.ctrl.Layout())
}

type modeRequest struct {
	Mode string `json:"mode"`
}

func (s *Server) handleMode(w http.ResponseWriter, r *http.Request) {
	c, err := s.lookupCall(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req modeRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := c.ctrl.SetUserMode(grid.Mode(req.Mode)); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.persist(r, c); err != nil {
		s.logger.Warn("persist session", "id", c.id, "error", err)
	}
	writeJSON(w, http.StatusOK, c.ctrl.Layout())
}

func (s *Server) handleParticipants(w http.ResponseWriter, r *http.Request) {
	c, err := s.lookupCall(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var items []state.Item
	if err := decodeJSON(r, &items); err != nil {
		s.writeError(w, err)
		return
	}
	if err := c.ctrl.SetItems(items); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.persist(r, c); err != nil {
		s.logger.Warn("persist session", "id", c.id, "error", err)
	}
	writeJSON(w, http.StatusOK, c.ctrl.Layout())
}

// pointerRequest mirrors state.PointerEvent with a string event kind.
type pointerRequest struct {
	Kind    string  `json:"kind"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	DX      float64 `json:"dx"`
	DY      float64 `json:"dy"`
	Primary bool    `json:"primary"`
}

func (p pointerRequest) event() (state.PointerEvent, error) {
	ev := state.PointerEvent{X: p.X, Y: p.Y, DX: p.DX, DY: p.DY, Primary: p.Primary}
	switch p.Kind {
	case "down":
		ev.Kind = state.PointerDown
	case "move":
		ev.Kind = state.PointerMove
	case "up":
		ev.Kind = state.PointerUp
	case "wheel":
		ev.Kind = state.PointerWheel
	default:
		return ev, errors.New(errors.ErrCodeInvalidInput, "unknown pointer kind %q", p.Kind)
	}
	return ev, nil
}

func (s *Server) handlePointer(w http.ResponseWriter, r *http.Request) {
	c, err := s.lookupCall(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var reqs []pointerRequest
	if err := decodeJSON(r, &reqs); err != nil {
		s.writeError(w, err)
		return
	}
	for _, p := range reqs {
		ev, err := p.event()
		if err != nil {
			s.writeError(w, err)
			return
		}
		c.ctrl.Pointer(ev)
	}
	if err := s.persist(r, c); err != nil {
		s.logger.Warn("persist session", "id", c.id, "error", err)
	}
	writeJSON(w, http.StatusOK, c.ctrl.Layout())
}

func (s *Server) handleGetArrangement(w http.ResponseWriter, r *http.Request) {
	c, err := s.lookupCall(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c.ctrl.Arrangement())
}

func (s *Server) handlePutArrangement(w http.ResponseWriter, r *http.Request) {
	c, err := s.lookupCall(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var a state.Arrangement
	if err := decodeJSON(r, &a); err != nil {
		s.writeError(w, err)
		return
	}
	if err := c.ctrl.ApplyArrangement(a); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.persist(r, c); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeStore, err, "persist session %s", c.id))
		return
	}
	writeJSON(w, http.StatusOK, c.ctrl.Layout())
}

// =============================================================================
// Named Arrangement Archive
// =============================================================================

func (s *Server) handleListArrangements(w http.ResponseWriter, r *http.Request) {
	names, err := s.archive.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"names": names})
}

func (s *Server) handleGetArchived(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	a, err := s.archive.Get(r.Context(), name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handlePutArchived(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := errors.ValidateArrangementName(name); err != nil {
		s.writeError(w, err)
		return
	}
	var a state.Arrangement
	if err := decodeJSON(r, &a); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.archive.Put(r.Context(), name, a); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Helpers
// =============================================================================

func (s *Server) lookupCall(r *http.Request) (*call, error) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.calls[id]
	if !ok {
		return nil, session.NotFound(id)
	}
	return c, nil
}

// persist saves the call's current arrangement to the session store.
func (s *Server) persist(r *http.Request, c *call) error {
	sess := session.New(c.ctrl.Arrangement(), session.DefaultTTL)
	sess.ID = c.id
	return s.store.Set(r.Context(), sess)
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps error codes to HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.ErrCodeNotFound, errors.ErrCodeSessionNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeInvalidViewport, errors.ErrCodeInvalidMode, errors.ErrCodeInvalidConfig,
		errors.ErrCodeInvalidItem, errors.ErrCodeInvalidInput, errors.ErrCodeDuplicateTileKey:
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, map[string]string{
		"error": errors.UserMessage(err),
		"code":  string(errors.GetCode(err)),
	})
}
