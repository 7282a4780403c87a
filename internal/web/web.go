package web

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"calunit/internal/calsys"
	"calunit/internal/config"
	"calunit/internal/ics"
	appLog "calunit/internal/log"
	"calunit/internal/model"
	"calunit/internal/unit"
	"calunit/internal/unitcache"
)

const (
	defaultAgendaDays = 7
	maxAgendaDays     = 366
	agendaCacheTTL    = 30 * time.Second
	agendaCacheMax    = 64
)

// Server provides read-only HTTP APIs over the configured calendar.
type Server struct {
	cfg        *config.Config
	configPath string
	cal        *calsys.Handle
	mux        *http.ServeMux
	now        func() time.Time

	// In-memory cache for /api/agenda responses to avoid re-reading and
	// re-expanding ICS files on every request.
	agendaMu    sync.RWMutex
	agendaCache map[string]agendaCacheEntry
}

type agendaCacheEntry struct {
	resp      agendaResponse
	updatedAt time.Time
}

// NewServer constructs a new Server. configPath anchors relative ICS paths.
func NewServer(cfg *config.Config, configPath string, cal *calsys.Handle) *Server {
	s := &Server{
		cfg:         cfg,
		configPath:  configPath,
		cal:         cal,
		mux:         http.NewServeMux(),
		now:         time.Now,
		agendaCache: make(map[string]agendaCacheEntry),
	}
	s.registerRoutes()
	return s
}

// Handler returns the underlying http.Handler for this server.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		return s.basicAuthMiddleware(h)
	}
	return h
}

// Run serves on cfg.Listen until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+s.cfg.Listen)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

// basicAuthEnabled reports whether HTTP Basic Auth is configured. Empty
// credentials disable it.
func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	return s.cfg.BasicAuth.Username != "" && s.cfg.BasicAuth.Password != ""
}

// basicAuthMiddleware wraps all handlers except /health with HTTP Basic Auth.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="calunit", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// secureCompare compares two strings in constant time.
func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /api/year", s.handleYear)
	s.mux.HandleFunc("GET /api/month", s.handleMonth)
	s.mux.HandleFunc("GET /api/week", s.handleWeek)
	s.mux.HandleFunc("GET /api/agenda", s.handleAgenda)
	s.mux.HandleFunc("GET /api/cache", s.handleCache)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// GET /api/year?date=2021-03-15
func (s *Server) handleYear(w http.ResponseWriter, r *http.Request) {
	at, ok := s.requestDate(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, NewYearView(unit.YearContaining(at, s.cal)))
}

// GET /api/month?date=2021-03-15
func (s *Server) handleMonth(w http.ResponseWriter, r *http.Request) {
	at, ok := s.requestDate(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, NewMonthView(unit.MonthContaining(at, s.cal)))
}

// GET /api/week?date=2021-03-15
func (s *Server) handleWeek(w http.ResponseWriter, r *http.Request) {
	at, ok := s.requestDate(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, NewWeekView(unit.WeekContaining(at, s.cal)))
}

func (s *Server) handleCache(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, unitcache.Default().Stats())
}

// agendaResponse is the JSON response shape for /api/agenda.
type agendaResponse struct {
	Start     time.Time   `json:"start"`
	End       time.Time   `json:"end"`
	Timezone  string      `json:"timezone"`
	Days      []dayAgenda `json:"days"`
	Truncated []string    `json:"truncated_uids,omitempty"`
	Errors    []string    `json:"errors,omitempty"`
}

type dayAgenda struct {
	DayView
	Occurrences []model.Occurrence `json:"occurrences"`
}

// GET /api/agenda?date=2021-03-15&days=7
//   - date: first day (default today)
//   - days: number of days (default 7, max 366)
func (s *Server) handleAgenda(w http.ResponseWriter, r *http.Request) {
	at, ok := s.requestDate(w, r)
	if !ok {
		return
	}
	days := parseIntDefault(r.URL.Query().Get("days"), defaultAgendaDays)
	if days <= 0 || days > maxAgendaDays {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("days must be in 1..%d", maxAgendaDays))
		return
	}

	first := unit.DayContaining(at, s.cal)
	span := unit.NewSpan(first, first.Advanced(days-1))
	key := first.String() + "/" + strconv.Itoa(days)

	s.agendaMu.RLock()
	ce, hit := s.agendaCache[key]
	s.agendaMu.RUnlock()
	if hit && s.now().Sub(ce.updatedAt) < agendaCacheTTL {
		writeJSON(w, http.StatusOK, ce.resp)
		return
	}

	sources := make([]ics.Source, 0, len(s.cfg.ICS))
	for _, c := range s.cfg.ICS {
		sources = append(sources, ics.Source{ID: c.ID, Name: c.Name, Path: config.ResolvePath(s.configPath, c.Path)})
	}

	appLog.Debug("api agenda request", "start", first.String(), "days", days, "sources", len(sources))

	ag, err := ics.LoadAgenda(sources, span)
	resp := newAgendaResponse(ag, s.cal)
	if err != nil {
		resp.Errors = append(resp.Errors, err.Error())
	}

	s.storeAgenda(key, resp)
	writeJSON(w, http.StatusOK, resp)
}

// storeAgenda caches resp under key. Expired entries are dropped first, and
// the oldest entry goes when the cache is still full.
func (s *Server) storeAgenda(key string, resp agendaResponse) {
	now := s.now()
	s.agendaMu.Lock()
	defer s.agendaMu.Unlock()

	for k, ce := range s.agendaCache {
		if now.Sub(ce.updatedAt) >= agendaCacheTTL {
			delete(s.agendaCache, k)
		}
	}
	if _, ok := s.agendaCache[key]; !ok && len(s.agendaCache) >= agendaCacheMax {
		oldest := ""
		var oldestAt time.Time
		for k, ce := range s.agendaCache {
			if oldest == "" || ce.updatedAt.Before(oldestAt) {
				oldest, oldestAt = k, ce.updatedAt
			}
		}
		delete(s.agendaCache, oldest)
	}
	s.agendaCache[key] = agendaCacheEntry{resp: resp, updatedAt: now}
}

func newAgendaResponse(ag ics.Agenda, cal *calsys.Handle) agendaResponse {
	resp := agendaResponse{
		Start:     ag.Days.Start(),
		End:       ag.Days.End(),
		Timezone:  cal.System().Location().String(),
		Days:      make([]dayAgenda, 0, len(ag.Entries)),
		Truncated: ag.Truncated,
	}
	for _, e := range ag.Entries {
		occ := e.Occurrences
		if occ == nil {
			occ = []model.Occurrence{}
		}
		resp.Days = append(resp.Days, dayAgenda{DayView: NewDayView(e.Day), Occurrences: occ})
	}
	return resp
}

// requestDate reads the "date" query parameter (YYYY-MM-DD, a civil date
// in the calendar's timezone) or falls back to now. It writes a 400 on
// malformed input.
func (s *Server) requestDate(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	at, err := ParseDate(r.URL.Query().Get("date"), s.cal.System().Location(), s.now)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return time.Time{}, false
	}
	return at, true
}

// ParseDate parses a YYYY-MM-DD civil date in loc. The result is noon of
// that date so that it never falls into a skipped midnight. An empty value
// yields now().
func ParseDate(v string, loc *time.Location, now func() time.Time) (time.Time, error) {
	if v == "" {
		return now().In(loc), nil
	}
	t, err := time.ParseInLocation(time.DateOnly, v, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", v)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, loc), nil
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
