package progression

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sequenceFixture builds Level 1 with three courses (A, B, C) of one
// chapter each, and Level 2 with one course.
func sequenceFixture() *fakeCatalog {
	catalog := newFakeCatalog()
	catalog.addLevel(1, "Foundations")
	catalog.addCourse(1, 100, "Course A")
	catalog.addChapter(100, 1000, question(1, 0))
	catalog.addCourse(1, 101, "Course B")
	catalog.addChapter(101, 1010, question(2, 0))
	catalog.addCourse(1, 102, "Course C")
	catalog.addChapter(102, 1020, question(3, 0))
	catalog.addLevel(2, "Intermediate")
	catalog.addCourse(2, 200, "Course D")
	catalog.addChapter(200, 2000, question(4, 0))
	return catalog
}

func assertAtMostOneUnlocked(t *testing.T, courses []AnnotatedCourse) {
	t.Helper()
	unlocked := 0
	for _, c := range courses {
		if c.IsUnlocked && !c.IsCompleted {
			unlocked++
		}
	}
	assert.LessOrEqual(t, unlocked, 1)
}

func TestListAccessibleCoursesSequentialUnlock(t *testing.T) {
	users := newFakeUsers(newTestUser(1))
	svc := NewService(users, sequenceFixture())
	ctx := context.Background()

	courses, err := svc.ListAccessibleCourses(ctx, 1)
	require.NoError(t, err)
	require.Len(t, courses, 3)

	assert.False(t, courses[0].IsCompleted)
	assert.True(t, courses[0].IsUnlocked)
	assert.False(t, courses[1].IsUnlocked)
	assert.False(t, courses[2].IsUnlocked)
	assertAtMostOneUnlocked(t, courses)

	// Completing A moves the unlocked slot to B; C stays locked.
	_, err = svc.SubmitChapterQuiz(ctx, 1, 1000, map[uint]int{1: 0})
	require.NoError(t, err)

	courses, err = svc.ListAccessibleCourses(ctx, 1)
	require.NoError(t, err)
	require.Len(t, courses, 3)

	assert.True(t, courses[0].IsCompleted)
	assert.True(t, courses[0].IsUnlocked)
	assert.True(t, courses[1].IsUnlocked)
	assert.False(t, courses[1].IsCompleted)
	assert.False(t, courses[2].IsUnlocked)
	assertAtMostOneUnlocked(t, courses)
}

func TestListAccessibleCoursesSpansLevels(t *testing.T) {
	user := newTestUser(1)
	user.Ledger.GrantLevel(2)
	users := newFakeUsers(user)
	svc := NewService(users, sequenceFixture())

	courses, err := svc.ListAccessibleCourses(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, courses, 4)

	// Each level is resolved independently: one open slot per level.
	unlocked := 0
	for _, c := range courses {
		if c.IsUnlocked && !c.IsCompleted {
			unlocked++
		}
	}
	assert.Equal(t, 2, unlocked)
}

func TestCanAccessCourseDecisions(t *testing.T) {
	users := newFakeUsers(newTestUser(1))
	svc := NewService(users, sequenceFixture())
	ctx := context.Background()

	// First course in the level is open.
	decision, err := svc.CanAccessCourse(ctx, 1, 100)
	require.NoError(t, err)
	assert.True(t, decision.CanAccess)
	assert.Equal(t, ReasonUnlocked, decision.Reason)

	// B is blocked until A is done.
	decision, err = svc.CanAccessCourse(ctx, 1, 101)
	require.NoError(t, err)
	assert.False(t, decision.CanAccess)
	assert.Equal(t, ReasonPreviousIncomplete, decision.Reason)

	// Level 2 is not unlocked yet.
	decision, err = svc.CanAccessCourse(ctx, 1, 200)
	require.NoError(t, err)
	assert.False(t, decision.CanAccess)
	assert.Equal(t, ReasonLevelLocked, decision.Reason)

	_, err = svc.SubmitChapterQuiz(ctx, 1, 1000, map[uint]int{1: 0})
	require.NoError(t, err)

	decision, err = svc.CanAccessCourse(ctx, 1, 100)
	require.NoError(t, err)
	assert.True(t, decision.CanAccess)
	assert.Equal(t, ReasonAlreadyCompleted, decision.Reason)

	decision, err = svc.CanAccessCourse(ctx, 1, 101)
	require.NoError(t, err)
	assert.True(t, decision.CanAccess)
	assert.Equal(t, ReasonUnlocked, decision.Reason)
}

func TestCanAccessUnknownCourse(t *testing.T) {
	users := newFakeUsers(newTestUser(1))
	svc := NewService(users, sequenceFixture())

	_, err := svc.CanAccessCourse(context.Background(), 1, 9999)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestProgressSummary(t *testing.T) {
	users := newFakeUsers(newTestUser(1))
	svc := NewService(users, sequenceFixture())
	ctx := context.Background()

	_, err := svc.SubmitChapterQuiz(ctx, 1, 1000, map[uint]int{1: 0})
	require.NoError(t, err)

	summary, err := svc.ProgressSummary(ctx, 1)
	require.NoError(t, err)
	require.Len(t, summary, 1)

	s := summary[0]
	assert.Equal(t, 1, s.LevelNumber)
	assert.Equal(t, 3, s.TotalCourses)
	assert.Equal(t, 1, s.CompletedCourses)
	assert.Equal(t, 33, s.ProgressPercentage)
	assert.False(t, s.IsLevelComplete)
	require.NotNil(t, s.NextCourse)
	assert.Equal(t, uint(101), s.NextCourse.ID)
}

func TestProgressSummaryEmptyLevel(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.addLevel(1, "Empty level")

	users := newFakeUsers(newTestUser(1))
	svc := NewService(users, catalog)

	summary, err := svc.ProgressSummary(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, summary, 1)

	assert.Equal(t, 0, summary[0].TotalCourses)
	assert.Equal(t, 0, summary[0].ProgressPercentage)
	assert.False(t, summary[0].IsLevelComplete)
	assert.Nil(t, summary[0].NextCourse)
}

func TestCourseProgressFor(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.addLevel(1, "Foundations")
	catalog.addCourse(1, 100, "Course A")
	catalog.addChapter(100, 1000, question(1, 0), question(2, 1))
	catalog.addChapter(100, 1001, question(3, 2))

	users := newFakeUsers(newTestUser(1))
	svc := NewService(users, catalog)
	ctx := context.Background()

	_, err := svc.SubmitChapterQuiz(ctx, 1, 1000, map[uint]int{1: 0, 2: 0})
	require.NoError(t, err)

	progress, err := svc.CourseProgressFor(ctx, 1, 100)
	require.NoError(t, err)

	assert.Equal(t, uint(100), progress.CourseID)
	assert.Equal(t, 2, progress.TotalChapters)
	assert.Equal(t, 1, progress.CompletedChapters)
	assert.Equal(t, 50, progress.ProgressPercentage)
	assert.False(t, progress.IsCourseCompleted)
	require.Len(t, progress.Chapters, 2)

	first := progress.Chapters[0]
	assert.True(t, first.IsCompleted)
	require.NotNil(t, first.Score)
	assert.Equal(t, 50, *first.Score)

	second := progress.Chapters[1]
	assert.False(t, second.IsCompleted)
	assert.Nil(t, second.Score)
}
