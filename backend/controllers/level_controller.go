package controllers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"academy/backend/config"
	"academy/backend/models"
	"academy/backend/utils"
)

type LevelController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewLevelController(db *gorm.DB, cfg *config.Config) *LevelController {
	return &LevelController{DB: db, Cfg: cfg}
}

type levelInput struct {
	Name        string `json:"name" validate:"required"`
	LevelNumber int    `json:"level_number" validate:"required,min=1"`
}

func (lc *LevelController) CreateLevel(c *fiber.Ctx) error {
	var input levelInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if err := validate.Struct(input); err != nil {
		return utils.ValidationError(c, validationDetails(err))
	}

	var existing models.Level
	err := lc.DB.Where("level_number = ?", input.LevelNumber).First(&existing).Error
	if err == nil {
		return utils.BadRequest(c, "Level "+strconv.Itoa(input.LevelNumber)+" already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	level := models.Level{
		Name:        input.Name,
		LevelNumber: input.LevelNumber,
	}
	if err := lc.DB.Create(&level).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create level",
		})
	}

	return utils.Created(c, level)
}

func (lc *LevelController) GetAllLevels(c *fiber.Ctx) error {
	var levels []models.Level
	err := lc.DB.
		Preload("Courses", func(db *gorm.DB) *gorm.DB {
			return db.Order("courses.sequence_order ASC")
		}).
		Order("level_number ASC").
		Find(&levels).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	return c.JSON(levels)
}

func (lc *LevelController) UpdateLevel(c *fiber.Ctx) error {
	levelID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid level ID")
	}

	var input struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var level models.Level
	if err := lc.DB.First(&level, levelID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Level not found")
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	if input.Name != "" {
		level.Name = input.Name
	}

	if err := lc.DB.Save(&level).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update level",
		})
	}

	return c.JSON(level)
}

func (lc *LevelController) DeleteLevel(c *fiber.Ctx) error {
	levelID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid level ID")
	}

	var level models.Level
	if err := lc.DB.First(&level, levelID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Level not found")
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	if err := lc.DB.Delete(&level).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete level",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Level deleted",
	})
}
