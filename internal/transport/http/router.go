package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"beverage-quiz-service/internal/app"
	"beverage-quiz-service/internal/domain"
	"beverage-quiz-service/internal/identity"
)

// RouterConfig wires the HTTP surface.
type RouterConfig struct {
	Service        *app.QuizService
	Users          UserResolver
	WS             *WSHandler
	Logger         *zap.Logger
	AllowedOrigins []string
}

type api struct {
	service *app.QuizService
	log     *zap.Logger
}

type startRequest struct {
	Mode     domain.Mode `json:"mode"`
	Category string      `json:"category"`
}

type answerResponse struct {
	Question domain.PublicQuestion  `json:"question"`
	Session  domain.SessionSnapshot `json:"session"`
}

// NewRouter serves the REST API under /api, the WebSocket at /ws and /healthz.
func NewRouter(cfg RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	if cfg.WS != nil {
		r.Get("/ws", cfg.WS.ServeWS)
	}

	a := &api{service: cfg.Service, log: log}
	r.Route("/api", func(r chi.Router) {
		r.Use(withUser(cfg.Users))
		r.Get("/modes", a.modes)
		r.Get("/progress", a.progress)
		r.Get("/history", a.history)
		r.Get("/leaderboard", a.leaderboard)
		r.Post("/sessions", a.start)
		r.Get("/sessions/active", a.active)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", a.snapshot)
			r.Delete("/", a.abandon)
			r.Post("/answer", a.answer)
			r.Post("/tick", a.tick)
			r.Post("/advance", a.advance)
			r.Get("/result", a.result)
		})
	})
	return r
}

func withUser(users UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := domain.Unauthenticated
			if users != nil {
				user = users.FromRequest(r)
			}
			next.ServeHTTP(w, r.WithContext(identity.WithUser(r.Context(), user)))
		})
	}
}

func (a *api) modes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.service.Modes())
}

func (a *api) start(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Mode == "" {
		writeJSON(w, http.StatusBadRequest, errorPayload{Code: "bad_request", Message: "mode is required"})
		return
	}
	session, err := a.service.Start(r.Context(), identity.FromContext(r.Context()), req.Mode, req.Category)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, session.Snapshot())
}

func (a *api) active(w http.ResponseWriter, r *http.Request) {
	session, err := a.service.Active(r.Context(), identity.FromContext(r.Context()))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, session.Snapshot())
}

func (a *api) snapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := a.service.Snapshot(r.Context(), identity.FromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (a *api) answer(w http.ResponseWriter, r *http.Request) {
	var req answerPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OptionIndex == nil {
		writeJSON(w, http.StatusBadRequest, errorPayload{Code: "bad_request", Message: "optionIndex is required"})
		return
	}
	user := identity.FromContext(r.Context())
	id := chi.URLParam(r, "id")
	q, err := a.service.Answer(r.Context(), user, id, *req.OptionIndex)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	snap, err := a.service.Snapshot(r.Context(), user, id)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, answerResponse{Question: q.Public(), Session: snap})
}

func (a *api) tick(w http.ResponseWriter, r *http.Request) {
	snap, err := a.service.Tick(r.Context(), identity.FromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (a *api) advance(w http.ResponseWriter, r *http.Request) {
	snap, err := a.service.Advance(r.Context(), identity.FromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (a *api) abandon(w http.ResponseWriter, r *http.Request) {
	if err := a.service.Abandon(r.Context(), identity.FromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		a.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *api) result(w http.ResponseWriter, r *http.Request) {
	res, err := a.service.Result(r.Context(), identity.FromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (a *api) progress(w http.ResponseWriter, r *http.Request) {
	p, err := a.service.Progress(r.Context(), identity.FromContext(r.Context()))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (a *api) history(w http.ResponseWriter, r *http.Request) {
	results, err := a.service.History(r.Context(), identity.FromContext(r.Context()), queryLimit(r, 20))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (a *api) leaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := a.service.Leaderboard(r.Context(), queryLimit(r, 10))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (a *api) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, _ := errorStatus(err)
	if status >= http.StatusInternalServerError {
		a.log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	writeJSON(w, status, newErrorPayload(err))
}

func queryLimit(r *http.Request, fallback int) int {
	n, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || n <= 0 || n > 100 {
		return fallback
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// requestLogger logs every request with zap; successful ones at debug level.
func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", status),
				zap.Duration("latency", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			}
			switch {
			case status >= 500:
				log.Error("server error", fields...)
			case status >= 400:
				log.Warn("client error", fields...)
			default:
				log.Debug("request processed", fields...)
			}
		})
	}
}
