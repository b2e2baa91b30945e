package controllers

import (
	"strings"

	"dsatracker/backend/config"
	"dsatracker/backend/models"
	"dsatracker/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ProblemController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewProblemController(db *gorm.DB, cfg *config.Config) *ProblemController {
	return &ProblemController{DB: db, Cfg: cfg}
}

type CreateProblemRequest struct {
	Title      string `json:"title" validate:"required,max=200" example:"Two Sum"`
	Difficulty string `json:"difficulty" validate:"omitempty,oneof=E M H" example:"E"`
}

// ListProblems godoc
// @Summary List problems
// @Tags problems
// @Produce json
// @Param difficulty query string false "E, M or H"
// @Success 200 {array} ProblemResponse
// @Router /problems [get]
func (pc *ProblemController) ListProblems(c *fiber.Ctx) error {
	query := pc.DB.Model(&models.Problem{})
	if difficulty := strings.ToUpper(c.Query("difficulty")); difficulty != "" {
		query = query.Where("difficulty = ?", difficulty)
	}

	var problems []models.Problem
	if err := query.Order("id").Find(&problems).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	result := make([]ProblemResponse, 0, len(problems))
	for i := range problems {
		result = append(result, problemResponse(&problems[i]))
	}
	return c.JSON(result)
}

// CreateProblem godoc
// @Summary Add a problem to the catalogue
// @Tags problems
// @Accept json
// @Produce json
// @Param problem body CreateProblemRequest true "Problem data"
// @Success 201 {object} ProblemResponse
// @Failure 400 {object} utils.DetailResponse
// @Failure 403 {object} utils.DetailResponse
// @Security ApiKeyAuth
// @Router /problems/create [post]
func (pc *ProblemController) CreateProblem(c *fiber.Ctx) error {
	var input CreateProblemRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	input.Title = strings.TrimSpace(input.Title)
	input.Difficulty = strings.ToUpper(strings.TrimSpace(input.Difficulty))
	if errs := utils.ValidateStruct(input); errs != nil {
		return utils.BadRequest(c, errs)
	}

	problem := models.Problem{Title: input.Title, Difficulty: input.Difficulty}
	if problem.Difficulty == "" {
		problem.Difficulty = models.DifficultyEasy
	}

	var count int64
	if err := pc.DB.Model(&models.Problem{}).Where("title = ?", problem.Title).Count(&count).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	if count > 0 {
		return utils.BadRequest(c, "problem with this title already exists.")
	}

	if err := pc.DB.Create(&problem).Error; err != nil {
		return utils.InternalServerError(c, "Could not create problem")
	}
	return utils.Created(c, problemResponse(&problem))
}
