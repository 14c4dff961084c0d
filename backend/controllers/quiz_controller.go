package controllers

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"academy/backend/config"
	"academy/backend/models"
	"academy/backend/services/progression"
	"academy/backend/utils"
)

type QuizController struct {
	DB      *gorm.DB
	Cfg     *config.Config
	Service *progression.Service
}

func NewQuizController(db *gorm.DB, cfg *config.Config, svc *progression.Service) *QuizController {
	return &QuizController{DB: db, Cfg: cfg, Service: svc}
}

// SubmitQuiz grades the submitted answers and applies completion
// propagation to the member's ledger.
func (qc *QuizController) SubmitQuiz(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	chapterID, err := strconv.Atoi(c.Params("chapterId"))
	if err != nil {
		return utils.BadRequest(c, "Invalid chapter ID")
	}

	var input struct {
		Answers map[uint]int `json:"answers"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	result, err := qc.Service.SubmitChapterQuiz(c.UserContext(), userID, uint(chapterID), input.Answers)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(result)
}

// GetChapterQuestions lists a chapter's questions. The correct index and
// explanation are only included for admins.
func (qc *QuizController) GetChapterQuestions(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	chapterID, err := strconv.Atoi(c.Params("chapterId"))
	if err != nil {
		return utils.BadRequest(c, "Invalid chapter ID")
	}

	var chapter models.Chapter
	err = qc.DB.
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

	var user models.User
	if err := qc.DB.First(&user, userID).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	questions := make([]fiber.Map, 0, len(chapter.Questions))
	for _, q := range chapter.Questions {
		var options []string
		json.Unmarshal([]byte(q.Options), &options)

		entry := fiber.Map{
			"id":      q.ID,
			"prompt":  q.Prompt,
			"options": options,
			"order":   q.SequenceOrder,
		}
		if user.IsAdmin() {
			entry["correct_index"] = q.CorrectIndex
			entry["explanation"] = q.Explanation
		}
		questions = append(questions, entry)
	}

	return c.JSON(fiber.Map{
		"chapter_id": chapter.ID,
		"questions":  questions,
	})
}

// CreateQuestion appends a question to a chapter.
func (qc *QuizController) CreateQuestion(c *fiber.Ctx) error {
	chapterID, err := strconv.Atoi(c.Params("chapterId"))
	if err != nil {
		return utils.BadRequest(c, "Invalid chapter ID")
	}

	var input questionInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if err := validate.Struct(input); err != nil {
		return utils.ValidationError(c, validationDetails(err))
	}

	if input.CorrectIndex < 0 || input.CorrectIndex >= len(input.Options) {
		return utils.BadRequest(c, "Invalid correct answer index")
	}

	var chapter models.Chapter
	if err := qc.DB.First(&chapter, chapterID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Chapter not found")
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	optionsJSON, err := json.Marshal(input.Options)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not encode options",
		})
	}

	var questionCount int64
	qc.DB.Model(&models.Question{}).Where("chapter_id = ?", chapter.ID).Count(&questionCount)

	question := models.Question{
		ChapterID:     chapter.ID,
		Prompt:        input.Prompt,
		Options:       string(optionsJSON),
		CorrectIndex:  input.CorrectIndex,
		Explanation:   input.Explanation,
		SequenceOrder: int(questionCount) + 1,
	}

	if err := qc.DB.Create(&question).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create question",
		})
	}

	return utils.Created(c, question)
}

func (qc *QuizController) UpdateQuestion(c *fiber.Ctx) error {
	chapterID, err := strconv.Atoi(c.Params("chapterId"))
	if err != nil {
		return utils.BadRequest(c, "Invalid chapter ID")
	}

	questionID, err := strconv.Atoi(c.Params("questionId"))
	if err != nil {
		return utils.BadRequest(c, "Invalid question ID")
	}

	var input struct {
		Prompt       string   `json:"prompt"`
		Options      []string `json:"options"`
		CorrectIndex *int     `json:"correct_index"`
		Explanation  string   `json:"explanation"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var question models.Question
	err = qc.DB.
		Where("id = ? AND chapter_id = ?", questionID, chapterID).
		First(&question).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Question not found")
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	if input.Prompt != "" {
		question.Prompt = input.Prompt
	}
	if input.Options != nil {
		optionsJSON, err := json.Marshal(input.Options)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not encode options",
			})
		}
		question.Options = string(optionsJSON)
	}
	if input.CorrectIndex != nil {
		var options []string
		json.Unmarshal([]byte(question.Options), &options)
		if *input.CorrectIndex < 0 || *input.CorrectIndex >= len(options) {
			return utils.BadRequest(c, "Invalid correct answer index")
		}
		question.CorrectIndex = *input.CorrectIndex
	}
	if input.Explanation != "" {
		question.Explanation = input.Explanation
	}

	if err := qc.DB.Save(&question).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update question",
		})
	}

	return c.JSON(question)
}

func (qc *QuizController) DeleteQuestion(c *fiber.Ctx) error {
	chapterID, err := strconv.Atoi(c.Params("chapterId"))
	if err != nil {
		return utils.BadRequest(c, "Invalid chapter ID")
	}

	questionID, err := strconv.Atoi(c.Params("questionId"))
	if err != nil {
		return utils.BadRequest(c, "Invalid question ID")
	}

	res := qc.DB.
		Where("id = ? AND chapter_id = ?", questionID, chapterID).
		Delete(&models.Question{})
	if res.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete question",
		})
	}
	if res.RowsAffected == 0 {
		return utils.NotFound(c, "Question not found")
	}

	return c.JSON(fiber.Map{
		"message": "Question deleted",
	})
}
