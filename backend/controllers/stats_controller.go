package controllers

import (
	"context"
	"errors"
	"strings"
	"time"

	"dsatracker/backend/calendar"
	"dsatracker/backend/leetcode"
	"dsatracker/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// StatsFetcher is the upstream side of the stats endpoints.
type StatsFetcher interface {
	FetchStats(ctx context.Context, username string) (*leetcode.StatsSummary, error)
	FetchCalendar(ctx context.Context, username string) []leetcode.RawCalendarEntry
}

type StatsController struct {
	Fetcher StatsFetcher
	Now     func() time.Time
}

func NewStatsController(fetcher StatsFetcher) *StatsController {
	return &StatsController{Fetcher: fetcher, Now: time.Now}
}

// GetStats godoc
// @Summary Solved-problem summary
// @Description Returns ranking and accepted-submission counts per difficulty
// @Tags stats
// @Produce json
// @Param username path string true "Coding-judge username"
// @Success 200 {object} leetcode.StatsSummary
// @Failure 404 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /stats/{username} [get]
func (sc *StatsController) GetStats(c *fiber.Ctx) error {
	username := strings.TrimSpace(c.Params("username"))
	if username == "" {
		return utils.Error(c, fiber.StatusNotFound, "not_found")
	}

	summary, err := sc.Fetcher.FetchStats(c.UserContext(), username)
	if err != nil {
		if errors.Is(err, leetcode.ErrNotFound) {
			return utils.Error(c, fiber.StatusNotFound, "not_found")
		}
		log.Warn().Err(err).Str("username", username).Msg("stats fetch failed")
		return utils.Error(c, fiber.StatusBadGateway, "stats_failed", err.Error())
	}

	return c.JSON(summary)
}

// GetCalendar godoc
// @Summary Submission calendar
// @Description Returns 181 days of submission counts ending today plus current and longest streaks
// @Tags stats
// @Produce json
// @Param username path string true "Coding-judge username"
// @Success 200 {object} calendar.Summary
// @Failure 502 {object} utils.ErrorResponse
// @Router /stats/{username}/calendar [get]
func (sc *StatsController) GetCalendar(c *fiber.Ctx) error {
	username := strings.TrimSpace(c.Params("username"))
	ctx := c.UserContext()

	entries := sc.Fetcher.FetchCalendar(ctx, username)
	// Upstream trouble degrades to an empty calendar; only a request that
	// was itself cancelled is reported as a failure.
	if err := ctx.Err(); err != nil {
		return utils.Error(c, fiber.StatusBadGateway, "calendar_failed", err.Error())
	}

	return c.JSON(calendar.Reduce(entries, sc.Now()))
}
