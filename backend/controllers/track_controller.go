package controllers

import (
	"errors"
	"strconv"
	"strings"

	"dsatracker/backend/config"
	"dsatracker/backend/models"
	"dsatracker/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type TrackController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewTrackController(db *gorm.DB, cfg *config.Config) *TrackController {
	return &TrackController{DB: db, Cfg: cfg}
}

type CreateTrackRequest struct {
	Name        string `json:"name" validate:"required,max=120" example:"LeetCode 75"`
	Description string `json:"description" example:"Core set"`
	Slug        string `json:"slug" validate:"omitempty,max=140" example:"leetcode-75"`
}

type UpdateTrackRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=120"`
	Description *string `json:"description"`
	Slug        *string `json:"slug" validate:"omitempty,max=140"`
}

type AttachProblemsRequest struct {
	ProblemIDs []uint `json:"problem_ids"`
}

type ProblemResponse struct {
	ID              uint   `json:"id"`
	Title           string `json:"title"`
	Difficulty      string `json:"difficulty"`
	DifficultyLabel string `json:"difficulty_label"`
}

type TrackProblemResponse struct {
	Order   uint            `json:"order"`
	Problem ProblemResponse `json:"problem"`
}

type TrackResponse struct {
	ID            uint                   `json:"id"`
	Name          string                 `json:"name"`
	Description   string                 `json:"description"`
	Slug          string                 `json:"slug"`
	TrackProblems []TrackProblemResponse `json:"track_problems"`
}

// ListTracks godoc
// @Summary List tracks
// @Description Returns every track with its problems in order
// @Tags tracks
// @Produce json
// @Success 200 {array} TrackResponse
// @Router /tracks [get]
func (tc *TrackController) ListTracks(c *fiber.Ctx) error {
	var tracks []models.Track
	if err := tc.withProblems().Order("id").Find(&tracks).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	result := make([]TrackResponse, 0, len(tracks))
	for i := range tracks {
		result = append(result, trackResponse(&tracks[i]))
	}
	return c.JSON(result)
}

// GetTrack godoc
// @Summary Track details
// @Tags tracks
// @Produce json
// @Param id path int true "Track ID"
// @Success 200 {object} TrackResponse
// @Failure 404 {object} utils.DetailResponse
// @Router /tracks/{id} [get]
func (tc *TrackController) GetTrack(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return utils.NotFound(c, "Not found.")
	}

	var track models.Track
	if err := tc.withProblems().First(&track, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Not found.")
		}
		return utils.InternalServerError(c, "Could not query database")
	}
	return c.JSON(trackResponse(&track))
}

// CreateTrack godoc
// @Summary Create a track
// @Description Slug is derived from the name when omitted
// @Tags tracks
// @Accept json
// @Produce json
// @Param track body CreateTrackRequest true "Track data"
// @Success 201 {object} TrackResponse
// @Failure 400 {object} utils.DetailResponse
// @Failure 403 {object} utils.DetailResponse
// @Security ApiKeyAuth
// @Router /tracks/create [post]
func (tc *TrackController) CreateTrack(c *fiber.Ctx) error {
	var input CreateTrackRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	input.Name = strings.TrimSpace(input.Name)
	if errs := utils.ValidateStruct(input); errs != nil {
		return utils.BadRequest(c, errs)
	}

	track := models.Track{
		Name:        input.Name,
		Description: input.Description,
		Slug:        strings.TrimSpace(input.Slug),
	}
	if track.Slug == "" {
		track.Slug = utils.Slugify(track.Name)
	}

	msg, err := tc.checkUnique(&track)
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	if msg != "" {
		return utils.BadRequest(c, msg)
	}
	if err := tc.DB.Create(&track).Error; err != nil {
		log.Error().Err(err).Str("track", track.Name).Msg("could not create track")
		return utils.InternalServerError(c, "Could not create track")
	}

	track.TrackProblems = []models.TrackProblem{}
	return utils.Created(c, trackResponse(&track))
}

// UpdateTrack godoc
// @Summary Update a track
// @Tags tracks
// @Accept json
// @Produce json
// @Param id path int true "Track ID"
// @Param track body UpdateTrackRequest true "Fields to update"
// @Success 200 {object} TrackResponse
// @Failure 400 {object} utils.DetailResponse
// @Failure 404 {object} utils.DetailResponse
// @Security ApiKeyAuth
// @Router /tracks/{id}/update [patch]
func (tc *TrackController) UpdateTrack(c *fiber.Ctx) error {
	track, ok := tc.findTrack(c)
	if !ok {
		return nil
	}

	var input UpdateTrackRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if errs := utils.ValidateStruct(input); errs != nil {
		return utils.BadRequest(c, errs)
	}

	if input.Name != nil {
		track.Name = strings.TrimSpace(*input.Name)
		if track.Name == "" {
			return utils.BadRequest(c, "name may not be blank")
		}
	}
	if input.Description != nil {
		track.Description = *input.Description
	}
	if input.Slug != nil {
		track.Slug = strings.TrimSpace(*input.Slug)
	}
	if track.Slug == "" {
		track.Slug = utils.Slugify(track.Name)
	}

	msg, err := tc.checkUnique(track)
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	if msg != "" {
		return utils.BadRequest(c, msg)
	}
	if err := tc.DB.Omit("TrackProblems").Save(track).Error; err != nil {
		return utils.InternalServerError(c, "Could not update track")
	}

	if err := tc.withProblems().First(track, track.ID).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	return c.JSON(trackResponse(track))
}

// AttachProblems godoc
// @Summary Replace a track's problems
// @Description Problems are stored in the given order, starting at 1
// @Tags tracks
// @Accept json
// @Produce json
// @Param id path int true "Track ID"
// @Param request body AttachProblemsRequest true "Problem IDs in order"
// @Success 201 {object} map[string]int
// @Failure 400 {object} utils.DetailResponse
// @Failure 404 {object} utils.DetailResponse
// @Security ApiKeyAuth
// @Router /tracks/{id}/attach [post]
func (tc *TrackController) AttachProblems(c *fiber.Ctx) error {
	track, ok := tc.findTrack(c)
	if !ok {
		return nil
	}

	var input AttachProblemsRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	seen := make(map[uint]struct{}, len(input.ProblemIDs))
	for _, id := range input.ProblemIDs {
		if _, dup := seen[id]; dup {
			return utils.BadRequest(c, "problem_ids must be unique")
		}
		seen[id] = struct{}{}
	}

	if len(input.ProblemIDs) > 0 {
		var found int64
		if err := tc.DB.Model(&models.Problem{}).Where("id IN ?", input.ProblemIDs).Count(&found).Error; err != nil {
			return utils.InternalServerError(c, "Could not query database")
		}
		if int(found) != len(input.ProblemIDs) {
			return utils.BadRequest(c, "unknown problem id in problem_ids")
		}
	}

	err := tc.DB.Transaction(func(tx *gorm.DB) error {
		return models.ReplaceTrackProblems(tx, track.ID, input.ProblemIDs)
	})
	if err != nil {
		log.Error().Err(err).Uint("track_id", track.ID).Msg("could not attach problems")
		return utils.InternalServerError(c, "Could not attach problems")
	}

	return utils.Created(c, fiber.Map{"attached": len(input.ProblemIDs)})
}

// SuggestNext godoc
// @Summary Next problem in a track
// @Description Returns the lowest-order problem whose id is not listed in completed
// @Tags tracks
// @Produce json
// @Param id path int true "Track ID"
// @Param completed query string false "Comma separated completed problem IDs"
// @Success 200 {object} map[string]interface{}
// @Router /tracks/{id}/suggest-next [get]
func (tc *TrackController) SuggestNext(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return utils.NotFound(c, "Not found.")
	}

	done := ParseCompleted(c.Query("completed"))

	query := tc.DB.Preload("Problem").Where("track_id = ?", id)
	if len(done) > 0 {
		query = query.Where("problem_id NOT IN ?", done)
	}

	var tp models.TrackProblem
	if err := query.Order("position").First(&tp).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(fiber.Map{"next": nil})
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	return c.JSON(fiber.Map{"next": fiber.Map{
		"id":    tp.ProblemID,
		"title": tp.Problem.Title,
		"order": tp.Order,
	}})
}

// ParseCompleted keeps the comma separated entries made only of digits.
func ParseCompleted(raw string) []uint {
	var ids []uint
	for _, part := range strings.Split(raw, ",") {
		if part == "" || strings.TrimLeft(part, "0123456789") != "" {
			continue
		}
		id, err := strconv.ParseUint(part, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, uint(id))
	}
	return ids
}

func (tc *TrackController) withProblems() *gorm.DB {
	return tc.DB.Preload("TrackProblems", func(db *gorm.DB) *gorm.DB {
		return db.Order("position")
	}).Preload("TrackProblems.Problem")
}

// findTrack loads the :id track or writes a 404.
func (tc *TrackController) findTrack(c *fiber.Ctx) (*models.Track, bool) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		_ = utils.NotFound(c, "Not found.")
		return nil, false
	}

	var track models.Track
	if err := tc.DB.First(&track, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			_ = utils.NotFound(c, "Not found.")
		} else {
			_ = utils.InternalServerError(c, "Could not query database")
		}
		return nil, false
	}
	return &track, true
}

// checkUnique returns a detail message when another track already uses the
// name or slug.
func (tc *TrackController) checkUnique(track *models.Track) (string, error) {
	var count int64
	if err := tc.DB.Model(&models.Track{}).Where("name = ? AND id <> ?", track.Name, track.ID).Count(&count).Error; err != nil {
		return "", err
	}
	if count > 0 {
		return "track with this name already exists.", nil
	}
	if err := tc.DB.Model(&models.Track{}).Where("slug = ? AND id <> ?", track.Slug, track.ID).Count(&count).Error; err != nil {
		return "", err
	}
	if count > 0 {
		return "track with this slug already exists.", nil
	}
	return "", nil
}

func trackResponse(track *models.Track) TrackResponse {
	items := make([]TrackProblemResponse, 0, len(track.TrackProblems))
	for _, tp := range track.TrackProblems {
		items = append(items, TrackProblemResponse{
			Order:   tp.Order,
			Problem: problemResponse(&tp.Problem),
		})
	}
	return TrackResponse{
		ID:            track.ID,
		Name:          track.Name,
		Description:   track.Description,
		Slug:          track.Slug,
		TrackProblems: items,
	}
}

func problemResponse(p *models.Problem) ProblemResponse {
	return ProblemResponse{
		ID:              p.ID,
		Title:           p.Title,
		Difficulty:      p.Difficulty,
		DifficultyLabel: models.DifficultyLabel(p.Difficulty),
	}
}
