package controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"dsatracker/backend/controllers"
	"dsatracker/backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTrackRequiresAdmin(t *testing.T) {
	env := setup(t)
	user := env.createUser(t, "alice", "correct-horse-battery", models.RoleUser)

	resp := env.request(t, http.MethodPost, "/api/tracks/create", fiber.Map{"name": "Graphs"}, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = env.request(t, http.MethodPost, "/api/tracks/create", fiber.Map{"name": "Graphs"}, env.accessToken(t, user))
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestCreateAndUpdateTrack(t *testing.T) {
	env := setup(t)
	admin := env.createUser(t, "root", "correct-horse-battery", models.RoleAdmin)
	token := env.accessToken(t, admin)

	resp := env.request(t, http.MethodPost, "/api/tracks/create", fiber.Map{
		"name":        "Dynamic Programming 101",
		"description": "Warm up",
	}, token)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var track controllers.TrackResponse
	decode(t, resp, &track)
	assert.Equal(t, "dynamic-programming-101", track.Slug)
	assert.Empty(t, track.TrackProblems)

	resp = env.request(t, http.MethodPost, "/api/tracks/create", fiber.Map{"name": "Dynamic Programming 101"}, token)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = env.request(t, http.MethodPost, "/api/tracks/create", fiber.Map{"description": "no name"}, token)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	path := fmt.Sprintf("/api/tracks/%d/update", track.ID)
	resp = env.request(t, http.MethodPatch, path, fiber.Map{"description": "Warm up, then climb"}, token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decode(t, resp, &track)
	assert.Equal(t, "Dynamic Programming 101", track.Name)
	assert.Equal(t, "Warm up, then climb", track.Description)

	resp = env.request(t, http.MethodPut, "/api/tracks/999/update", fiber.Map{"name": "x"}, token)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestAttachListAndSuggestNext(t *testing.T) {
	env := setup(t)
	admin := env.createUser(t, "root", "correct-horse-battery", models.RoleAdmin)
	token := env.accessToken(t, admin)
	problems := env.createProblems(t, "Two Sum", "Valid Parentheses", "Merge Intervals")

	track := models.Track{Name: "Arrays", Slug: "arrays"}
	require.NoError(t, env.db.Create(&track).Error)
	attachPath := fmt.Sprintf("/api/tracks/%d/attach", track.ID)

	// Attach in a custom order: 3, 1, 2.
	ids := []uint{problems[2].ID, problems[0].ID, problems[1].ID}
	resp := env.request(t, http.MethodPost, attachPath, fiber.Map{"problem_ids": ids}, token)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var attached map[string]int
	decode(t, resp, &attached)
	assert.Equal(t, 3, attached["attached"])

	resp = env.request(t, http.MethodGet, fmt.Sprintf("/api/tracks/%d", track.ID), nil, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var detail controllers.TrackResponse
	decode(t, resp, &detail)
	require.Len(t, detail.TrackProblems, 3)
	for i, tp := range detail.TrackProblems {
		assert.Equal(t, uint(i+1), tp.Order)
		assert.Equal(t, ids[i], tp.Problem.ID)
	}
	assert.Equal(t, "Merge Intervals", detail.TrackProblems[0].Problem.Title)
	assert.Equal(t, models.DifficultyMedium, detail.TrackProblems[0].Problem.Difficulty)

	suggest := func(completed string) map[string]interface{} {
		resp := env.request(t, http.MethodGet, fmt.Sprintf("/api/tracks/%d/suggest-next?completed=%s", track.ID, completed), nil, "")
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		var body map[string]interface{}
		decode(t, resp, &body)
		return body
	}

	next := suggest("")["next"].(map[string]interface{})
	assert.Equal(t, float64(problems[2].ID), next["id"])
	assert.Equal(t, float64(1), next["order"])

	next = suggest(fmt.Sprintf("%d,abc,,%d", problems[2].ID, problems[0].ID))["next"].(map[string]interface{})
	assert.Equal(t, "Valid Parentheses", next["title"])
	assert.Equal(t, float64(3), next["order"])

	body := suggest(fmt.Sprintf("%d,%d,%d", problems[0].ID, problems[1].ID, problems[2].ID))
	assert.Contains(t, body, "next")
	assert.Nil(t, body["next"])

	// Re-attaching replaces rather than appends.
	resp = env.request(t, http.MethodPost, attachPath, fiber.Map{"problem_ids": []uint{problems[1].ID}}, token)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var count int64
	env.db.Model(&models.TrackProblem{}).Where("track_id = ?", track.ID).Count(&count)
	assert.Equal(t, int64(1), count)

	resp = env.request(t, http.MethodGet, "/api/tracks", nil, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var list []controllers.TrackResponse
	decode(t, resp, &list)
	require.Len(t, list, 1)
	require.Len(t, list[0].TrackProblems, 1)
	assert.Equal(t, problems[1].ID, list[0].TrackProblems[0].Problem.ID)
}

func TestAttachRejectsBadInput(t *testing.T) {
	env := setup(t)
	admin := env.createUser(t, "root", "correct-horse-battery", models.RoleAdmin)
	token := env.accessToken(t, admin)
	problems := env.createProblems(t, "Two Sum")

	track := models.Track{Name: "Arrays", Slug: "arrays"}
	require.NoError(t, env.db.Create(&track).Error)
	attachPath := fmt.Sprintf("/api/tracks/%d/attach", track.ID)

	resp := env.request(t, http.MethodPost, attachPath, fiber.Map{"problem_ids": []uint{problems[0].ID, problems[0].ID}}, token)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = env.request(t, http.MethodPost, attachPath, fiber.Map{"problem_ids": []uint{problems[0].ID, 4242}}, token)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = env.request(t, http.MethodPost, "/api/tracks/4242/attach", fiber.Map{"problem_ids": []uint{problems[0].ID}}, token)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestGetTrackNotFound(t *testing.T) {
	env := setup(t)

	resp := env.request(t, http.MethodGet, "/api/tracks/77", nil, "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestParseCompleted(t *testing.T) {
	assert.Equal(t, []uint{1, 22, 3}, controllers.ParseCompleted("1,22,x,-4, 5,3,"))
	assert.Empty(t, controllers.ParseCompleted(""))
}

func TestTrackWritesFailWhenLookupsFail(t *testing.T) {
	env := setup(t)
	admin := env.createUser(t, "root", "correct-horse-battery", models.RoleAdmin)
	token := env.accessToken(t, admin)
	problems := env.createProblems(t, "Two Sum")

	track := models.Track{Name: "Arrays", Slug: "arrays"}
	require.NoError(t, env.db.Create(&track).Error)
	attachPath := fmt.Sprintf("/api/tracks/%d/attach", track.ID)

	require.NoError(t, env.db.Migrator().DropTable(&models.Problem{}))
	resp := env.request(t, http.MethodPost, attachPath, fiber.Map{"problem_ids": []uint{problems[0].ID}}, token)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	require.NoError(t, env.db.Migrator().DropTable(&models.Track{}))
	resp = env.request(t, http.MethodPost, "/api/tracks/create", fiber.Map{"name": "Graphs"}, token)
	require.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	var body map[string]string
	decode(t, resp, &body)
	assert.Equal(t, "Could not query database", body["detail"])
}
