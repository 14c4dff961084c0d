package controllers

import (
	"sort"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"academy/backend/config"
	"academy/backend/repository"
	"academy/backend/services/progression"
	"academy/backend/utils"
)

type MemberController struct {
	DB      *gorm.DB
	Cfg     *config.Config
	Users   *repository.UserRepository
	Service *progression.Service
}

func NewMemberController(db *gorm.DB, cfg *config.Config, users *repository.UserRepository, svc *progression.Service) *MemberController {
	return &MemberController{DB: db, Cfg: cfg, Users: users, Service: svc}
}

// GetMyQuizResults returns the member's stored quiz results.
func (mc *MemberController) GetMyQuizResults(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	user, err := mc.Users.FindUser(c.UserContext(), userID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"quiz_results":      user.Ledger.QuizResults,
		"completed_courses": user.Ledger.CompletedCourses,
	})
}

type userLevelsInput struct {
	Levels []int `json:"levels" validate:"required,min=1,dive,min=1"`
}

// UpdateUserLevels overwrites a member's accessible levels. Admin only.
func (mc *MemberController) UpdateUserLevels(c *fiber.Ctx) error {
	targetID, err := strconv.Atoi(c.Params("userId"))
	if err != nil {
		return utils.BadRequest(c, "Invalid user ID")
	}

	var input userLevelsInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if err := validate.Struct(input); err != nil {
		return utils.ValidationError(c, validationDetails(err))
	}

	user, err := mc.Users.FindUser(c.UserContext(), uint(targetID))
	if err != nil {
		return serviceError(c, err)
	}

	levels := append([]int(nil), input.Levels...)
	sort.Ints(levels)
	user.Ledger.AccessibleLevels = levels

	if err := mc.Users.SaveLedger(c.UserContext(), user); err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "User levels updated",
		"user": fiber.Map{
			"id":                user.ID,
			"accessible_levels": user.Ledger.AccessibleLevels,
			"current_level":     user.Ledger.CurrentLevel(),
		},
	})
}

// GetMemberProgress returns another member's progress summary. Admin only.
func (mc *MemberController) GetMemberProgress(c *fiber.Ctx) error {
	targetID, err := strconv.Atoi(c.Params("userId"))
	if err != nil {
		return utils.BadRequest(c, "Invalid user ID")
	}

	summary, err := mc.Service.ProgressSummary(c.UserContext(), uint(targetID))
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(summary)
}
