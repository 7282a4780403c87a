package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calunit/internal/calsys"
	"calunit/internal/config"
)

const weeklyICS = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"PRODID:-//calunit//test//EN\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:standup@test\r\n" +
	"DTSTAMP:20210101T000000Z\r\n" +
	"DTSTART:20210301T090000Z\r\n" +
	"DTEND:20210301T093000Z\r\n" +
	"RRULE:FREQ=WEEKLY;COUNT=4\r\n" +
	"SUMMARY:Standup\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

func newTestServer(t *testing.T, mutate func(*config.Config)) *Server {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "team.ics"), []byte(weeklyICS), 0o600))

	cfg := config.DefaultConfig()
	cfg.Calendar.Timezone = "UTC"
	cfg.ICS = []config.ICSConfig{{ID: "team", Name: "Team", Path: "team.ics"}}
	if mutate != nil {
		mutate(cfg)
	}
	cal, err := cfg.BuildCalendar()
	require.NoError(t, err)

	s := NewServer(cfg, filepath.Join(dir, "config.yaml"), cal)
	s.now = func() time.Time { return time.Date(2021, 3, 15, 10, 0, 0, 0, time.UTC) }
	return s
}

func get(t *testing.T, h http.Handler, target string, out any) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	if out != nil && rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
	}
	return rec
}

func TestHealth(t *testing.T) {
	rec := get(t, newTestServer(t, nil).Handler(), "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestMonth(t *testing.T) {
	var v MonthView
	rec := get(t, newTestServer(t, nil).Handler(), "/api/month?date=2021-02-10", &v)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "2021-02", v.Month)
	assert.Equal(t, "February", v.Name)
	assert.Equal(t, []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}, v.Headers)
	require.Len(t, v.Weeks, 4)
	assert.Equal(t, 1, v.Weeks[0].Index)
	assert.Equal(t, "2021-02-01", v.Weeks[0].Days[0].Date)
	require.NotNil(t, v.Weeks[3].Days[6].InMonth)
	assert.True(t, *v.Weeks[3].Days[6].InMonth)
}

func TestMonth_DefaultsToNow(t *testing.T) {
	var v MonthView
	get(t, newTestServer(t, nil).Handler(), "/api/month", &v)
	assert.Equal(t, "2021-03", v.Month)
	require.Len(t, v.Weeks, 5)
	assert.False(t, *v.Weeks[4].Days[6].InMonth, "April 4 spills into the grid")
}

func TestYear(t *testing.T) {
	var v YearView
	get(t, newTestServer(t, nil).Handler(), "/api/year?date=2021-03-15", &v)
	assert.Equal(t, 2021, v.Year)
	require.Len(t, v.Months, 12)
	assert.Equal(t, 1, v.Months[0].Index)
	assert.Equal(t, 28, v.Months[1].Days)
	assert.Equal(t, 4, v.Months[1].Weeks)
}

func TestWeek(t *testing.T) {
	var v WeekView
	get(t, newTestServer(t, func(c *config.Config) { c.Calendar.WeekStart = "sunday" }).Handler(), "/api/week?date=2021-03-17", &v)
	require.Len(t, v.Days, 7)
	assert.Equal(t, "2021-03-14", v.Days[0].Date)
	assert.Equal(t, "Sunday", v.Days[0].Name)
	assert.Equal(t, 1, v.Days[0].Weekday)
	assert.Nil(t, v.Days[0].InMonth)
}

func TestUniformCalendar(t *testing.T) {
	s := newTestServer(t, func(c *config.Config) {
		c.Calendar.Kind = calsys.KindUniform
		c.Calendar.Uniform = &config.UniformConfig{MonthsPerYear: 13, DaysPerMonth: 28, DaysPerWeek: 10, EpochYear: 1}
	})
	var y YearView
	get(t, s.Handler(), "/api/year?date=2021-03-15", &y)
	require.Len(t, y.Months, 13)
	assert.Equal(t, "Month 13", y.Months[12].Name)

	var w WeekView
	get(t, s.Handler(), "/api/week?date=2021-03-15", &w)
	assert.Len(t, w.Days, 10)
}

func TestBadRequest(t *testing.T) {
	h := newTestServer(t, nil).Handler()
	for _, target := range []string{"/api/month?date=2021-13-01", "/api/week?date=yesterday", "/api/agenda?days=0"} {
		rec := get(t, h, target, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.Contains(t, rec.Body.String(), `"error"`)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/month", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestAgenda(t *testing.T) {
	s := newTestServer(t, nil)
	var resp agendaResponse
	rec := get(t, s.Handler(), "/api/agenda?date=2021-03-01&days=14", &resp)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, resp.Days, 14)
	assert.Empty(t, resp.Errors)

	var hits []string
	for _, d := range resp.Days {
		for _, o := range d.Occurrences {
			hits = append(hits, d.Date+" "+o.Summary)
		}
	}
	assert.Equal(t, []string{"2021-03-01 Standup", "2021-03-08 Standup"}, hits)
	assert.Len(t, s.agendaCache, 1)

	// Served from the response cache after the source disappears.
	require.NoError(t, os.Remove(filepath.Join(filepath.Dir(s.configPath), "team.ics")))
	var cached agendaResponse
	get(t, s.Handler(), "/api/agenda?date=2021-03-01&days=14", &cached)
	assert.Empty(t, cached.Errors)

	var missing agendaResponse
	get(t, s.Handler(), "/api/agenda?date=2021-03-02&days=3", &missing)
	require.Len(t, missing.Errors, 1)
	assert.True(t, strings.Contains(missing.Errors[0], "team"))
}

func TestAgenda_DropsExpiredResponses(t *testing.T) {
	s := newTestServer(t, nil)
	now := time.Date(2021, 3, 15, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	first := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range 200 {
		target := "/api/agenda?date=" + first.AddDate(0, 0, i).Format("2006-01-02") + "&days=1"
		require.Equal(t, http.StatusOK, get(t, s.Handler(), target, nil).Code)
		now = now.Add(time.Minute)
	}
	assert.Len(t, s.agendaCache, 1, "only the latest response is still fresh")

	// Fresh responses are bounded too.
	for i := range agendaCacheMax + 10 {
		target := "/api/agenda?date=" + first.AddDate(0, 0, i).Format("2006-01-02") + "&days=2"
		get(t, s.Handler(), target, nil)
		now = now.Add(time.Millisecond)
	}
	assert.Len(t, s.agendaCache, agendaCacheMax)
	_, ok := s.agendaCache["2021-01-01/2"]
	assert.False(t, ok, "oldest response evicted first")
}

func TestCacheStats(t *testing.T) {
	h := newTestServer(t, nil).Handler()
	get(t, h, "/api/month?date=2021-02-10", nil)

	var stats map[string]any
	rec := get(t, h, "/api/cache", &stats)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, stats, "entries")
	assert.Contains(t, stats, "by_tag")
}

func TestBasicAuth(t *testing.T) {
	h := newTestServer(t, func(c *config.Config) {
		c.BasicAuth = &config.BasicAuthConfig{Username: "admin", Password: "secret"}
	}).Handler()

	assert.Equal(t, http.StatusOK, get(t, h, "/health", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, get(t, h, "/api/month", nil).Code)

	req := httptest.NewRequest(http.MethodGet, "/api/month", nil)
	req.SetBasicAuth("admin", "secret")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req.SetBasicAuth("admin", "wrong")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestParseDate(t *testing.T) {
	sp, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	at, err := ParseDate("2018-11-04", sp, time.Now)
	require.NoError(t, err)
	assert.Equal(t, 4, at.Day())
	assert.Equal(t, 12, at.Hour())

	_, err = ParseDate("04/11/2018", sp, time.Now)
	assert.Error(t, err)
}
