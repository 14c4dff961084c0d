package controllers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"academy/backend/config"
	"academy/backend/models"
	"academy/backend/services/progression"
	"academy/backend/utils"
)

type CourseController struct {
	DB      *gorm.DB
	Cfg     *config.Config
	Service *progression.Service
}

func NewCourseController(db *gorm.DB, cfg *config.Config, svc *progression.Service) *CourseController {
	return &CourseController{DB: db, Cfg: cfg, Service: svc}
}

// GetMemberCourses lists every course in the member's accessible levels,
// annotated with completed/unlocked flags. Locked courses are included for
// display.
func (cc *CourseController) GetMemberCourses(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	courses, err := cc.Service.ListAccessibleCourses(c.UserContext(), userID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(courses)
}

// CanAccessCourse tells whether the member may open a course right now.
func (cc *CourseController) CanAccessCourse(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	decision, err := cc.Service.CanAccessCourse(c.UserContext(), userID, uint(courseID))
	if err != nil {
		return serviceError(c, err)
	}

	if !decision.CanAccess {
		return c.Status(fiber.StatusForbidden).JSON(decision)
	}
	return c.JSON(decision)
}

// GetProgressSummary reports per-level totals and the next course to take.
func (cc *CourseController) GetProgressSummary(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	summary, err := cc.Service.ProgressSummary(c.UserContext(), userID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(summary)
}

// GetCourseProgress reports chapter-by-chapter completion of one course.
func (cc *CourseController) GetCourseProgress(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	progress, err := cc.Service.CourseProgressFor(c.UserContext(), userID, uint(courseID))
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(progress)
}

// GetApprovedCourses lists published and approved courses for public view.
func (cc *CourseController) GetApprovedCourses(c *fiber.Ctx) error {
	var courses []models.Course
	err := cc.DB.
		Where("is_approved = ? AND is_published = ?", true, true).
		Order("created_at DESC").
		Find(&courses).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	return c.JSON(courses)
}

func (cc *CourseController) GetCourseByID(c *fiber.Ctx) error {
	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var course models.Course
	err = cc.DB.
		Preload("Chapters", func(db *gorm.DB) *gorm.DB {
			return db.Order("chapters.sequence_order ASC")
		}).
		First(&course, courseID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Course not found")
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	return c.JSON(course)
}

type courseInput struct {
	LevelID     uint   `json:"level_id" validate:"required"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
}

// CreateCourse appends a course at the end of its level's sequence.
func (cc *CourseController) CreateCourse(c *fiber.Ctx) error {
	var input courseInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if err := validate.Struct(input); err != nil {
		return utils.ValidationError(c, validationDetails(err))
	}

	var level models.Level
	if err := cc.DB.First(&level, input.LevelID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Level not found")
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	var courseCount int64
	cc.DB.Model(&models.Course{}).Where("level_id = ?", level.ID).Count(&courseCount)

	course := models.Course{
		LevelID:       level.ID,
		Title:         input.Title,
		Description:   input.Description,
		SequenceOrder: int(courseCount) + 1,
	}
	if err := cc.DB.Create(&course).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create course",
		})
	}

	return utils.Created(c, course)
}

func (cc *CourseController) UpdateCourse(c *fiber.Ctx) error {
	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var input struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		IsPublished *bool  `json:"is_published"`
		IsApproved  *bool  `json:"is_approved"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var course models.Course
	if err := cc.DB.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Course not found")
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	if input.Title != "" {
		course.Title = input.Title
	}
	if input.Description != "" {
		course.Description = input.Description
	}
	if input.IsPublished != nil {
		course.IsPublished = *input.IsPublished
	}
	if input.IsApproved != nil {
		course.IsApproved = *input.IsApproved
	}

	if err := cc.DB.Save(&course).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update course",
		})
	}

	return c.JSON(course)
}

func (cc *CourseController) DeleteCourse(c *fiber.Ctx) error {
	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var course models.Course
	if err := cc.DB.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Course not found")
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	if err := cc.DB.Delete(&course).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete course",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Course removed",
	})
}
