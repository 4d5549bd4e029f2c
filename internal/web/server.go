package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"prompt-studio/internal/catalog"
	"prompt-studio/internal/credential"
	"prompt-studio/internal/session"
	"prompt-studio/internal/view"
)

//go:embed static/*
var staticFS embed.FS

const (
	sessionCookie = "ps_session"
	// clientCookie identifies the browser that owns a saved API key. It
	// outlives the idle session.
	clientCookie    = "ps_client"
	clientCookieAge = 365 * 24 * time.Hour

	maxBodyBytes = 4 << 10
)

type Options struct {
	Sessions *session.Store[*view.Controller]
	// Backend persists one credential slot per browser.
	Backend credential.Backend
	// SharedKey is used for browsers that have not saved their own key.
	SharedKey      string
	Generator      view.Generator
	Logger         *slog.Logger
	RequestTimeout time.Duration
	// SecureCookie marks the cookies Secure (HTTPS deployments).
	SecureCookie bool
}

type Server struct {
	sessions     *session.Store[*view.Controller]
	backend      credential.Backend
	sharedKey    string
	gen          view.Generator
	logger       *slog.Logger
	timeout      time.Duration
	secureCookie bool

	// creds caches loaded slots by client id. Evicted slots are reloaded
	// from the backend on next use.
	credMu sync.Mutex
	creds  *session.Store[*credential.Store]
}

type apiError struct {
	Error string `json:"error"`
}

func New(opts Options) (*Server, error) {
	switch {
	case opts.Sessions == nil:
		return nil, errors.New("session store is nil")
	case opts.Backend == nil:
		return nil, errors.New("credential backend is nil")
	case opts.Generator == nil:
		return nil, errors.New("generator is nil")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = 240 * time.Second
	}

	return &Server{
		sessions:     opts.Sessions,
		backend:      opts.Backend,
		sharedKey:    strings.TrimSpace(opts.SharedKey),
		gen:          opts.Generator,
		logger:       logger,
		timeout:      timeout,
		secureCookie: opts.SecureCookie,
		creds:        session.NewStore(session.Options[*credential.Store]{TTL: time.Hour}),
	}, nil
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.withLogging)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.RequestSize(maxBodyBytes))
		r.Get("/catalog", s.handleCatalog)
		r.Get("/state", s.handleState)
		r.Post("/tab", s.handleTab)
		r.Post("/select", s.handleSelect)
		r.Post("/presets/{id}", s.handlePreset)
		r.Post("/proceed", s.handleProceed)
		r.Post("/reset", s.handleReset)
		r.Get("/prompt", s.handlePrompt)
		r.Post("/generate", s.handleGenerate)
		r.Get("/settings", s.handleGetSettings)
		r.Put("/settings", s.handlePutSettings)
	})

	staticSub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	r.Get("/", serveFile(staticSub, "index.html", "text/html; charset=utf-8"))
	r.Get("/app.js", serveFile(staticSub, "app.js", "text/javascript; charset=utf-8"))
	r.Get("/app.css", serveFile(staticSub, "app.css", "text/css; charset=utf-8"))

	return r
}

// controller returns the caller's session, issuing a cookie on first visit.
func (s *Server) controller(w http.ResponseWriter, r *http.Request) *view.Controller {
	if id, ok := cookieID(r, sessionCookie); ok {
		return s.sessions.Get(id)
	}

	id := uuid.NewString()
	s.setCookie(w, sessionCookie, id, 0)
	return s.sessions.Get(id)
}

// snapshot reads the caller's state without creating a session.
func (s *Server) snapshot(r *http.Request) view.Snapshot {
	if id, ok := cookieID(r, sessionCookie); ok {
		if ctrl, ok := s.sessions.Lookup(id); ok {
			return ctrl.Snapshot()
		}
	}
	return view.New().Snapshot()
}

// clientID returns the browser id, issuing a long-lived cookie when absent.
func (s *Server) clientID(w http.ResponseWriter, r *http.Request) string {
	if id, ok := cookieID(r, clientCookie); ok {
		return id
	}
	id := uuid.NewString()
	s.setCookie(w, clientCookie, id, clientCookieAge)
	return id
}

// credentials returns the browser's key slot, loading it on first use.
func (s *Server) credentials(w http.ResponseWriter, r *http.Request) (*credential.Store, error) {
	id := s.clientID(w, r)

	s.credMu.Lock()
	defer s.credMu.Unlock()

	if c, ok := s.creds.Lookup(id); ok {
		return c, nil
	}

	c, err := credential.New(credential.Options{
		Backend:  s.backend,
		Key:      credential.DefaultKey + ":" + id,
		Fallback: s.sharedKey,
	})
	if err != nil {
		return nil, err
	}
	if err := c.Load(r.Context()); err != nil {
		return nil, err
	}
	s.creds.Put(id, c)
	return c, nil
}

func cookieID(r *http.Request, name string) (string, bool) {
	c, err := r.Cookie(name)
	if err != nil {
		return "", false
	}
	id, err := uuid.Parse(c.Value)
	if err != nil {
		return "", false
	}
	return id.String(), true
}

func (s *Server) setCookie(w http.ResponseWriter, name, value string, maxAge time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge / time.Second),
		HttpOnly: true,
		Secure:   s.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

// decode reads a JSON body and writes the error response on failure.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeJSON(w, http.StatusRequestEntityTooLarge, apiError{Error: "request body too large"})
		return false
	}
	writeJSON(w, http.StatusBadRequest, apiError{Error: "invalid request body"})
	return false
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newCatalogResponse())
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newStateResponse(s.snapshot(r)))
}

func (s *Server) handleTab(w http.ResponseWriter, r *http.Request) {
	ctrl := s.controller(w, r)

	var req struct {
		Mode string `json:"mode"`
	}
	if !decode(w, r, &req) {
		return
	}
	mode, err := view.ParseMode(req.Mode)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: err.Error()})
		return
	}
	_ = ctrl.SwitchTab(mode)
	writeJSON(w, http.StatusOK, newStateResponse(ctrl.Snapshot()))
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	ctrl := s.controller(w, r)

	var req struct {
		Category string `json:"category"`
		Option   string `json:"option"`
	}
	if !decode(w, r, &req) {
		return
	}
	key, ok := catalog.ParseKey(req.Category)
	if !ok {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "unknown category"})
		return
	}
	if err := ctrl.Select(key, req.Option); err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, newStateResponse(ctrl.Snapshot()))
}

func (s *Server) handlePreset(w http.ResponseWriter, r *http.Request) {
	ctrl := s.controller(w, r)

	if err := ctrl.ChoosePreset(chi.URLParam(r, "id")); err != nil {
		writeJSON(w, http.StatusNotFound, apiError{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, newStateResponse(ctrl.Snapshot()))
}

func (s *Server) handleProceed(w http.ResponseWriter, r *http.Request) {
	ctrl := s.controller(w, r)
	ctrl.Proceed()
	writeJSON(w, http.StatusOK, newStateResponse(ctrl.Snapshot()))
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	ctrl := s.controller(w, r)
	ctrl.Reset()
	writeJSON(w, http.StatusOK, newStateResponse(ctrl.Snapshot()))
}

func (s *Server) handlePrompt(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot(r)
	if snap.Empty() {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("content-type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(snap.DisplayPrompt))
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	ctrl := s.controller(w, r)
	creds, err := s.credentials(w, r)
	if err != nil {
		s.logger.Error("load credential failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, apiError{Error: "failed to read API key"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	snap, err := ctrl.Generate(ctx, s.gen, creds.Resolve())
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, newStateResponse(snap))
	case errors.Is(err, view.ErrGenerationInProgress), errors.Is(err, view.ErrStaleResult):
		writeJSON(w, http.StatusConflict, apiError{Error: view.ErrorMessage(err)})
	default:
		s.logger.Warn("generation failed", "err", err)
		writeJSON(w, http.StatusUnprocessableEntity, newStateResponse(snap))
	}
}

type settingsResponse struct {
	Configured bool   `json:"configured"`
	Masked     string `json:"masked"`
	Fallback   bool   `json:"fallback"`
}

func newSettingsResponse(c *credential.Store) settingsResponse {
	return settingsResponse{
		Configured: c.Value() != "",
		Masked:     c.Masked(),
		Fallback:   c.HasFallback(),
	}
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	creds, err := s.credentials(w, r)
	if err != nil {
		s.logger.Error("load credential failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, apiError{Error: "failed to read API key"})
		return
	}
	writeJSON(w, http.StatusOK, newSettingsResponse(creds))
}

// handlePutSettings saves the browser's key. An empty key removes it.
func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Key string `json:"key"`
	}
	if !decode(w, r, &req) {
		return
	}
	creds, err := s.credentials(w, r)
	if err != nil {
		s.logger.Error("load credential failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, apiError{Error: "failed to save API key"})
		return
	}
	if err := creds.Save(r.Context(), req.Key); err != nil {
		s.logger.Error("save credential failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, apiError{Error: "failed to save API key"})
		return
	}
	writeJSON(w, http.StatusOK, newSettingsResponse(creds))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func serveFile(fsys fs.FS, name, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(content)
	}
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("http",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"request_id", middleware.GetReqID(r.Context()),
			"dur_ms", time.Since(start).Milliseconds(),
		)
	})
}
