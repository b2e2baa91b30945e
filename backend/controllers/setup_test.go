package controllers_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"dsatracker/backend/config"
	"dsatracker/backend/leetcode"
	"dsatracker/backend/models"
	"dsatracker/backend/routes"
	"dsatracker/backend/utils"

	"github.com/glebarez/sqlite"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeFetcher struct {
	stats    *leetcode.StatsSummary
	statsErr error
	calendar []leetcode.RawCalendarEntry
	asked    []string

	// waitForCancel makes FetchCalendar hold until the request context ends.
	waitForCancel bool
}

func (f *fakeFetcher) FetchStats(_ context.Context, username string) (*leetcode.StatsSummary, error) {
	f.asked = append(f.asked, username)
	return f.stats, f.statsErr
}

func (f *fakeFetcher) FetchCalendar(ctx context.Context, username string) []leetcode.RawCalendarEntry {
	f.asked = append(f.asked, username)
	if f.waitForCancel {
		<-ctx.Done()
		return []leetcode.RawCalendarEntry{}
	}
	if f.calendar == nil {
		return []leetcode.RawCalendarEntry{}
	}
	return f.calendar
}

type testEnv struct {
	app     *fiber.App
	db      *gorm.DB
	cfg     *config.Config
	fetcher *fakeFetcher
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := utils.OpenDB(sqlite.Open("file:" + uuid.NewString() + "?mode=memory&cache=shared"))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func setup(t *testing.T, opts ...func(*config.Config)) *testEnv {
	t.Helper()
	cfg := config.Default()
	cfg.JWTSecret = "testsecret"
	for _, opt := range opts {
		opt(cfg)
	}

	env := &testEnv{
		app:     fiber.New(fiber.Config{JSONEncoder: json.Marshal, JSONDecoder: json.Unmarshal}),
		db:      newTestDB(t),
		cfg:     cfg,
		fetcher: &fakeFetcher{},
	}
	routes.SetupRoutes(env.app, env.db, env.cfg, env.fetcher)
	return env
}

// request sends body (marshalled unless nil) with an optional bearer token.
func (e *testEnv) request(t *testing.T, method, path string, body interface{}, token string, cookies ...*http.Cookie) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func (e *testEnv) createUser(t *testing.T, username, password, role string) models.User {
	t.Helper()
	hash, err := utils.HashPassword(password)
	require.NoError(t, err)

	user := models.User{Username: username, Email: username + "@example.com", PasswordHash: hash, Role: role}
	require.NoError(t, e.db.Create(&user).Error)
	return user
}

func (e *testEnv) accessToken(t *testing.T, user models.User) string {
	t.Helper()
	token, err := utils.GenerateJWTToken(user.ID, utils.TokenTypeAccess, e.cfg)
	require.NoError(t, err)
	return token
}

func (e *testEnv) createProblems(t *testing.T, titles ...string) []models.Problem {
	t.Helper()
	problems := make([]models.Problem, 0, len(titles))
	for _, title := range titles {
		p := models.Problem{Title: title, Difficulty: models.DifficultyMedium}
		require.NoError(t, e.db.Create(&p).Error)
		problems = append(problems, p)
	}
	return problems
}
