package controllers

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"academy/backend/config"
	"academy/backend/models"
	"academy/backend/utils"
)

type ChapterController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewChapterController(db *gorm.DB, cfg *config.Config) *ChapterController {
	return &ChapterController{DB: db, Cfg: cfg}
}

type questionInput struct {
	Prompt       string   `json:"prompt" validate:"required"`
	Options      []string `json:"options" validate:"required,min=2"`
	CorrectIndex int      `json:"correct_index"`
	Explanation  string   `json:"explanation"`
}

type chapterInput struct {
	Title       string          `json:"title" validate:"required"`
	Description string          `json:"description"`
	Questions   []questionInput `json:"questions" validate:"omitempty,dive"`
}

// AddChapterToCourse appends a chapter at the end of the course's sequence,
// optionally creating its questions in the same request.
func (cc *ChapterController) AddChapterToCourse(c *fiber.Ctx) error {
	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var input chapterInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if err := validate.Struct(input); err != nil {
		return utils.ValidationError(c, validationDetails(err))
	}

	for _, q := range input.Questions {
		if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
			return utils.BadRequest(c, "Invalid correct answer index")
		}
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

	var chapterCount int64
	cc.DB.Model(&models.Chapter{}).Where("course_id = ?", course.ID).Count(&chapterCount)

	chapter := models.Chapter{
		CourseID:      course.ID,
		Title:         input.Title,
		Description:   input.Description,
		SequenceOrder: int(chapterCount) + 1,
	}

	for i, q := range input.Questions {
		optionsJSON, err := json.Marshal(q.Options)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not encode options",
			})
		}
		chapter.Questions = append(chapter.Questions, models.Question{
			Prompt:        q.Prompt,
			Options:       string(optionsJSON),
			CorrectIndex:  q.CorrectIndex,
			Explanation:   q.Explanation,
			SequenceOrder: i + 1,
		})
	}

	if err := cc.DB.Create(&chapter).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create chapter",
		})
	}

	return utils.Created(c, chapter)
}

func (cc *ChapterController) GetChaptersByCourse(c *fiber.Ctx) error {
	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var chapters []models.Chapter
	err = cc.DB.
		Where("course_id = ?", courseID).
		Order("sequence_order ASC").
		Find(&chapters).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	return c.JSON(chapters)
}

func (cc *ChapterController) GetChapterByID(c *fiber.Ctx) error {
	chapterID, err := strconv.Atoi(c.Params("chapterId"))
	if err != nil {
		return utils.BadRequest(c, "Invalid chapter ID")
	}

	var chapter models.Chapter
	err = cc.DB.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.sequence_order ASC")
		}).
		First(&chapter, chapterID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Chapter not found")
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	return c.JSON(chapter)
}

func (cc *ChapterController) UpdateChapter(c *fiber.Ctx) error {
	chapterID, err := strconv.Atoi(c.Params("chapterId"))
	if err != nil {
		return utils.BadRequest(c, "Invalid chapter ID")
	}

	var input struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var chapter models.Chapter
	if err := cc.DB.First(&chapter, chapterID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Chapter not found")
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	if input.Title != "" {
		chapter.Title = input.Title
	}
	if input.Description != "" {
		chapter.Description = input.Description
	}

	if err := cc.DB.Save(&chapter).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update chapter",
		})
	}

	return c.JSON(chapter)
}

func (cc *ChapterController) DeleteChapter(c *fiber.Ctx) error {
	chapterID, err := strconv.Atoi(c.Params("chapterId"))
	if err != nil {
		return utils.BadRequest(c, "Invalid chapter ID")
	}

	var chapter models.Chapter
	if err := cc.DB.First(&chapter, chapterID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Chapter not found")
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	// Remove the chapter's questions along with it.
	if err := cc.DB.Where("chapter_id = ?", chapter.ID).Delete(&models.Question{}).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete chapter questions",
		})
	}
	if err := cc.DB.Delete(&chapter).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete chapter",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Chapter deleted",
	})
}
