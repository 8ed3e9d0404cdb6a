// Package httpapi exposes the reservation use cases over HTTP/JSON.
package httpapi

import (
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aalvaropc/railbook/internal/domain"
	"github.com/aalvaropc/railbook/internal/platform/ratelimiter"
)

type AccountService interface {
	SignUp(name, credential string) (string, error)
	Login(name, credential string) (string, error)
}

type TrainService interface {
	List() []domain.Train
	Get(id string) (domain.Train, error)
	Search(source, destination string) ([]domain.Train, error)
}

type BookingService interface {
	Book(userID, trainID string) (domain.Ticket, error)
	List(userID string) ([]domain.Ticket, error)
	Cancel(ticketID, userID string) error
}

// RequestObserver counts responses per route template.
type RequestObserver interface {
	ObserveRequest(route string, status int)
}

type Deps struct {
	Accounts AccountService
	Trains   TrainService
	Bookings BookingService
}

type API struct {
	deps Deps

	log      *slog.Logger
	limiter  *ratelimiter.MapLimiter
	gatherer prometheus.Gatherer
	observer RequestObserver
	now      func() time.Time
}

type Option func(*API)

func WithLogger(l *slog.Logger) Option {
	return func(a *API) {
		if l != nil {
			a.log = l
		}
	}
}

// WithLimiter throttles requests per client address. A nil limiter allows everything.
func WithLimiter(l *ratelimiter.MapLimiter) Option {
	return func(a *API) { a.limiter = l }
}

// WithMetrics serves g on GET /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(a *API) { a.gatherer = g }
}

func WithRequestObserver(o RequestObserver) Option {
	return func(a *API) { a.observer = o }
}

// WithNow is useful for tests.
func WithNow(now func() time.Time) Option {
	return func(a *API) { a.now = now }
}

func New(deps Deps, opts ...Option) *API {
	a := &API{
		deps: deps,
		log:  slog.New(slog.NewJSONHandler(io.Discard, nil)),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Handler builds the router. /api/trains/search is registered ahead of
// /api/trains/{id} so it is not captured as an id.
func (a *API) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(a.observe, a.throttle)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/auth/signup", a.signUp).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", a.login).Methods(http.MethodPost)

	api.HandleFunc("/trains", a.listTrains).Methods(http.MethodGet)
	api.HandleFunc("/trains/search", a.searchTrains).Methods(http.MethodGet)
	api.HandleFunc("/trains/{id}", a.getTrain).Methods(http.MethodGet)

	api.HandleFunc("/bookings", a.book).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{userId}", a.listBookings).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{ticketId}", a.cancel).Methods(http.MethodDelete)

	if a.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(a.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: string(domain.CodeNotFound)})
	})
	return r
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (a *API) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := a.now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		route := r.URL.Path
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		if a.observer != nil {
			a.observer.ObserveRequest(route, sw.status)
		}
		a.log.Debug("http.request",
			"method", r.Method,
			"route", route,
			"status", sw.status,
			"duration_ms", a.now().Sub(start).Milliseconds(),
		)
	})
}

func (a *API) throttle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.limiter.Allow(clientKey(r), a.now()) {
			a.log.Warn("http.throttled", "client", clientKey(r), "path", r.URL.Path)
			writeJSON(w, http.StatusTooManyRequests, errorBody{Error: codeRateLimited})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientKey(r *http.Request) string {
	remote := strings.TrimSpace(r.RemoteAddr)
	if remote == "" {
		return "ip:unknown"
	}
	host, _, err := net.SplitHostPort(remote)
	if err != nil {
		return "ip:" + remote
	}
	if strings.TrimSpace(host) == "" {
		return "ip:unknown"
	}
	return "ip:" + host
}
