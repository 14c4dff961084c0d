package progression

import (
	"context"
	"math"

	"academy/backend/models"
)

// CatalogStore is the read-only view of the level/course/chapter catalog
// the engine needs. Implementations return preloaded associations in
// sequence order and wrap missing records in ErrNotFound.
type CatalogStore interface {
	FindLevelByNumber(ctx context.Context, levelNumber int) (*models.Level, error)
	FindLevelContainingCourse(ctx context.Context, courseID uint) (*models.Level, error)
	FindCourseByID(ctx context.Context, id uint) (*models.Course, error)
	FindChapterByID(ctx context.Context, id uint) (*models.Chapter, error)
	ListLevelsByNumbers(ctx context.Context, levelNumbers []int) ([]models.Level, error)
}

// UserStore loads users and persists their ledgers. SaveLedger must reject
// a write based on a stale ledger with ErrConflict so that two concurrent
// submissions for the same user cannot silently lose one update.
type UserStore interface {
	FindUser(ctx context.Context, id uint) (*models.User, error)
	SaveLedger(ctx context.Context, user *models.User) error
}

// Service is the sequential progression engine: quiz grading, completion
// propagation and course access resolution.
type Service struct {
	users   UserStore
	catalog CatalogStore
}

func NewService(users UserStore, catalog CatalogStore) *Service {
	return &Service{users: users, catalog: catalog}
}

// roundPercent returns round(100*part/total), half up. Callers guard
// against total == 0.
func roundPercent(part, total int) int {
	return int(math.Round(float64(part) / float64(total) * 100))
}
