package controllers_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dsatracker/backend/calendar"
	"dsatracker/backend/config"
	"dsatracker/backend/controllers"
	"dsatracker/backend/leetcode"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStats(t *testing.T) {
	env := setup(t)
	ranking := 1234
	env.fetcher.stats = &leetcode.StatsSummary{Username: "alice", Ranking: &ranking, TotalSolved: 60, Easy: 30, Medium: 20, Hard: 10}

	for _, path := range []string{"/api/stats/alice", "/api/problems/leetcode/alice"} {
		resp := env.request(t, http.MethodGet, path, nil, "")
		require.Equal(t, fiber.StatusOK, resp.StatusCode, path)

		var body map[string]interface{}
		decode(t, resp, &body)
		assert.Equal(t, map[string]interface{}{
			"username":    "alice",
			"ranking":     float64(1234),
			"totalSolved": float64(60),
			"easy":        float64(30),
			"medium":      float64(20),
			"hard":        float64(10),
		}, body)
	}
}

func TestGetStatsNullRanking(t *testing.T) {
	env := setup(t)
	env.fetcher.stats = &leetcode.StatsSummary{Username: "bob", TotalSolved: 1}

	resp := env.request(t, http.MethodGet, "/api/stats/bob", nil, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	decode(t, resp, &body)
	assert.Contains(t, body, "ranking")
	assert.Nil(t, body["ranking"])
}

func TestGetStatsNotFound(t *testing.T) {
	env := setup(t)
	env.fetcher.statsErr = leetcode.ErrNotFound

	resp := env.request(t, http.MethodGet, "/api/stats/ghost", nil, "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var body map[string]interface{}
	decode(t, resp, &body)
	assert.Equal(t, "not_found", body["error"])
}

func TestGetStatsUpstreamFailure(t *testing.T) {
	env := setup(t)
	env.fetcher.statsErr = &leetcode.UpstreamError{Op: leetcode.SourceStats, Err: errors.New("http 503 Service Unavailable")}

	resp := env.request(t, http.MethodGet, "/api/stats/alice", nil, "")
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)

	var body map[string]interface{}
	decode(t, resp, &body)
	assert.Equal(t, "stats_failed", body["error"])
	assert.Contains(t, body["detail"], "http 503")
}

func TestGetCalendar(t *testing.T) {
	now := time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC)
	fetcher := &fakeFetcher{calendar: []leetcode.RawCalendarEntry{
		{Timestamp: now.Add(-48 * time.Hour).Unix(), Count: 2},
		{Timestamp: now.Add(-24 * time.Hour).Unix(), Count: 1},
		{Timestamp: now.Unix(), Count: 3},
		{Timestamp: now.Add(-1 * time.Hour).Unix(), Count: 1},
	}}

	sc := controllers.NewStatsController(fetcher)
	sc.Now = func() time.Time { return now }
	app := fiber.New()
	app.Get("/api/stats/:username/calendar", sc.GetCalendar)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/stats/alice/calendar", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body calendar.Summary
	decode(t, resp, &body)
	require.Len(t, body.Days, calendar.WindowDays)
	assert.Equal(t, calendar.Day{Date: "2024-03-10", Count: 4}, body.Days[len(body.Days)-1])
	assert.Equal(t, calendar.Day{Date: "2024-03-08", Count: 2}, body.Days[len(body.Days)-3])
	assert.Equal(t, 3, body.CurrentStreak)
	assert.Equal(t, 3, body.MaxStreak)
	assert.Equal(t, []string{"alice"}, fetcher.asked)
}

func TestGetCalendarDegradesToEmpty(t *testing.T) {
	env := setup(t)

	resp := env.request(t, http.MethodGet, "/api/problems/leetcode/nobody/calendar", nil, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body calendar.Summary
	decode(t, resp, &body)
	assert.Len(t, body.Days, calendar.WindowDays)
	assert.Zero(t, body.CurrentStreak)
	assert.Zero(t, body.MaxStreak)
}

func TestGetCalendarFailsWhenRequestTimesOut(t *testing.T) {
	env := setup(t, func(cfg *config.Config) { cfg.RequestTimeout = 50 * time.Millisecond })
	env.fetcher.waitForCancel = true

	resp := env.request(t, http.MethodGet, "/api/stats/alice/calendar", nil, "")
	require.Equal(t, fiber.StatusBadGateway, resp.StatusCode)

	var body map[string]interface{}
	decode(t, resp, &body)
	assert.Equal(t, "calendar_failed", body["error"])
	assert.NotEmpty(t, body["detail"])
}
