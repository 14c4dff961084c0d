package progression

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"academy/backend/models"
)

// fakeCatalog is an in-memory CatalogStore for engine tests.
type fakeCatalog struct {
	levels   map[int]*models.Level
	courses  map[uint]*models.Course
	chapters map[uint]*models.Chapter
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		levels:   make(map[int]*models.Level),
		courses:  make(map[uint]*models.Course),
		chapters: make(map[uint]*models.Chapter),
	}
}

func (f *fakeCatalog) addLevel(number int, name string) {
	f.levels[number] = &models.Level{
		Model:       gorm.Model{ID: uint(number)},
		Name:        name,
		LevelNumber: number,
	}
}

func (f *fakeCatalog) addCourse(levelNumber int, id uint, title string) {
	level := f.levels[levelNumber]
	course := models.Course{
		Model:         gorm.Model{ID: id},
		LevelID:       level.ID,
		Title:         title,
		SequenceOrder: len(level.Courses) + 1,
	}
	level.Courses = append(level.Courses, course)
	stored := course
	f.courses[id] = &stored
}

func (f *fakeCatalog) addChapter(courseID, id uint, questions ...models.Question) {
	course := f.courses[courseID]
	chapter := models.Chapter{
		Model:         gorm.Model{ID: id},
		CourseID:      courseID,
		Title:         fmt.Sprintf("Chapter %d", id),
		SequenceOrder: len(course.Chapters) + 1,
		Questions:     questions,
	}
	course.Chapters = append(course.Chapters, chapter)
	stored := chapter
	f.chapters[id] = &stored
}

func (f *fakeCatalog) FindLevelByNumber(_ context.Context, levelNumber int) (*models.Level, error) {
	level, ok := f.levels[levelNumber]
	if !ok {
		return nil, fmt.Errorf("level %d: %w", levelNumber, ErrNotFound)
	}
	return level, nil
}

func (f *fakeCatalog) FindLevelContainingCourse(_ context.Context, courseID uint) (*models.Level, error) {
	for _, level := range f.levels {
		for _, course := range level.Courses {
			if course.ID == courseID {
				return level, nil
			}
		}
	}
	return nil, fmt.Errorf("level of course %d: %w", courseID, ErrNotFound)
}

func (f *fakeCatalog) FindCourseByID(_ context.Context, id uint) (*models.Course, error) {
	course, ok := f.courses[id]
	if !ok {
		return nil, fmt.Errorf("course %d: %w", id, ErrNotFound)
	}
	return course, nil
}

func (f *fakeCatalog) FindChapterByID(_ context.Context, id uint) (*models.Chapter, error) {
	chapter, ok := f.chapters[id]
	if !ok {
		return nil, fmt.Errorf("chapter %d: %w", id, ErrNotFound)
	}
	return chapter, nil
}

func (f *fakeCatalog) ListLevelsByNumbers(_ context.Context, levelNumbers []int) ([]models.Level, error) {
	var out []models.Level
	for _, n := range levelNumbers {
		if level, ok := f.levels[n]; ok {
			out = append(out, *level)
		}
	}
	return out, nil
}

// fakeUsers is an in-memory UserStore with the same optimistic versioning
// contract as the real repository. injectConflicts forces the next N saves
// to fail with ErrConflict.
type fakeUsers struct {
	users           map[uint]*models.User
	injectConflicts int
	saves           int
}

func newFakeUsers(users ...*models.User) *fakeUsers {
	f := &fakeUsers{users: make(map[uint]*models.User)}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func newTestUser(id uint) *models.User {
	return &models.User{
		Model:  gorm.Model{ID: id},
		Name:   fmt.Sprintf("user-%d", id),
		Email:  fmt.Sprintf("user-%d@example.com", id),
		Role:   "member",
		Ledger: models.NewProgressLedger(),
	}
}

func cloneUser(u *models.User) *models.User {
	clone := *u
	clone.Ledger.AccessibleLevels = append([]int(nil), u.Ledger.AccessibleLevels...)
	clone.Ledger.CompletedCourses = append([]uint(nil), u.Ledger.CompletedCourses...)
	clone.Ledger.QuizResults = append([]models.QuizResult(nil), u.Ledger.QuizResults...)
	return &clone
}

func (f *fakeUsers) FindUser(_ context.Context, id uint) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	return cloneUser(user), nil
}

func (f *fakeUsers) SaveLedger(_ context.Context, user *models.User) error {
	f.saves++
	if f.injectConflicts > 0 {
		f.injectConflicts--
		return fmt.Errorf("save ledger for user %d: %w", user.ID, ErrConflict)
	}

	stored, ok := f.users[user.ID]
	if !ok {
		return fmt.Errorf("user %d: %w", user.ID, ErrNotFound)
	}
	if stored.LedgerVersion != user.LedgerVersion {
		return fmt.Errorf("save ledger for user %d: %w", user.ID, ErrConflict)
	}

	updated := cloneUser(user)
	updated.LedgerVersion++
	f.users[user.ID] = updated
	user.LedgerVersion++
	return nil
}

// question is a fixture shorthand.
func question(id uint, correct int) models.Question {
	return models.Question{
		Model:        gorm.Model{ID: id},
		Prompt:       fmt.Sprintf("Question %d", id),
		Options:      `["a","b","c","d"]`,
		CorrectIndex: correct,
	}
}
