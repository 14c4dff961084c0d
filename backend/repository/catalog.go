package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"academy/backend/models"
	"academy/backend/services/progression"
)

// CatalogRepository reads levels, courses and chapters for the progression
// engine. Associations are always preloaded in sequence order.
type CatalogRepository struct {
	DB *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{DB: db}
}

func orderedCourses(db *gorm.DB) *gorm.DB {
	return db.Order("courses.sequence_order ASC")
}

func orderedChapters(db *gorm.DB) *gorm.DB {
	return db.Order("chapters.sequence_order ASC")
}

func orderedQuestions(db *gorm.DB) *gorm.DB {
	return db.Order("questions.sequence_order ASC")
}

func (r *CatalogRepository) FindLevelByNumber(ctx context.Context, levelNumber int) (*models.Level, error) {
	var level models.Level
	err := r.DB.WithContext(ctx).
		Preload("Courses", orderedCourses).
		Where("level_number = ?", levelNumber).
		First(&level).Error
	if err != nil {
		return nil, translate(err, fmt.Sprintf("level %d", levelNumber))
	}
	return &level, nil
}

func (r *CatalogRepository) FindLevelContainingCourse(ctx context.Context, courseID uint) (*models.Level, error) {
	var course models.Course
	if err := r.DB.WithContext(ctx).First(&course, courseID).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("course %d", courseID))
	}

	var level models.Level
	err := r.DB.WithContext(ctx).
		Preload("Courses", orderedCourses).
		First(&level, course.LevelID).Error
	if err != nil {
		return nil, translate(err, fmt.Sprintf("level of course %d", courseID))
	}
	return &level, nil
}

func (r *CatalogRepository) FindCourseByID(ctx context.Context, id uint) (*models.Course, error) {
	var course models.Course
	err := r.DB.WithContext(ctx).
		Preload("Chapters", orderedChapters).
		First(&course, id).Error
	if err != nil {
		return nil, translate(err, fmt.Sprintf("course %d", id))
	}
	return &course, nil
}

func (r *CatalogRepository) FindChapterByID(ctx context.Context, id uint) (*models.Chapter, error) {
	var chapter models.Chapter
	err := r.DB.WithContext(ctx).
		Preload("Questions", orderedQuestions).
		First(&chapter, id).Error
	if err != nil {
		return nil, translate(err, fmt.Sprintf("chapter %d", id))
	}
	return &chapter, nil
}

func (r *CatalogRepository) ListLevelsByNumbers(ctx context.Context, levelNumbers []int) ([]models.Level, error) {
	if len(levelNumbers) == 0 {
		return nil, nil
	}
	var levels []models.Level
	err := r.DB.WithContext(ctx).
		Preload("Courses", orderedCourses).
		Where("level_number IN ?", levelNumbers).
		Order("level_number ASC").
		Find(&levels).Error
	if err != nil {
		return nil, translate(err, "levels")
	}
	return levels, nil
}

// translate maps gorm errors onto the progression error taxonomy.
func translate(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, progression.ErrNotFound)
	}
	return fmt.Errorf("%s: %w: %v", what, progression.ErrStorage, err)
}
