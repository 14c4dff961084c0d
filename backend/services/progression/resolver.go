package progression

import (
	"context"
	"fmt"
	"time"

	"academy/backend/models"
)

// AnnotatedCourse is a catalog course tagged with the user's standing.
type AnnotatedCourse struct {
	models.Course
	IsCompleted bool `json:"is_completed"`
	IsUnlocked  bool `json:"is_unlocked"`
}

// AccessDecision is the answer to "may this user open this course".
type AccessDecision struct {
	CanAccess bool   `json:"can_access"`
	Reason    string `json:"reason"`
}

// Reasons carried by AccessDecision.
const (
	ReasonAlreadyCompleted   = "course already completed"
	ReasonUnlocked           = "course is unlocked"
	ReasonLevelLocked        = "level not unlocked"
	ReasonPreviousIncomplete = "previous courses incomplete"
)

// LevelSummary is the per-level progress view.
type LevelSummary struct {
	LevelNumber        int            `json:"level_number"`
	LevelName          string         `json:"level_name"`
	TotalCourses       int            `json:"total_courses"`
	CompletedCourses   int            `json:"completed_courses"`
	ProgressPercentage int            `json:"progress_percentage"`
	NextCourse         *models.Course `json:"next_course,omitempty"`
	IsLevelComplete    bool           `json:"is_level_complete"`
}

// ChapterProgress is one chapter's standing inside CourseProgress.
type ChapterProgress struct {
	ChapterID   uint       `json:"chapter_id"`
	Title       string     `json:"title"`
	IsCompleted bool       `json:"is_completed"`
	Score       *int       `json:"score,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// CourseProgress is the chapter-by-chapter view of one course.
type CourseProgress struct {
	CourseID           uint              `json:"course_id"`
	CourseTitle        string            `json:"course_title"`
	TotalChapters      int               `json:"total_chapters"`
	CompletedChapters  int               `json:"completed_chapters"`
	ProgressPercentage int               `json:"progress_percentage"`
	IsCourseCompleted  bool              `json:"is_course_completed"`
	Chapters           []ChapterProgress `json:"chapters"`
}

// ListAccessibleCourses annotates every course in the user's accessible
// levels. Within a level, completed courses stay open, the first
// not-yet-completed course is the only unlocked one, and everything after
// it is locked (returned for display only).
func (s *Service) ListAccessibleCourses(ctx context.Context, userID uint) ([]AnnotatedCourse, error) {
	user, err := s.users.FindUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	levels, err := s.catalog.ListLevelsByNumbers(ctx, user.Ledger.AccessibleLevels)
	if err != nil {
		return nil, err
	}

	var out []AnnotatedCourse
	for _, level := range levels {
		out = append(out, annotateLevelCourses(&user.Ledger, level.Courses)...)
	}
	return out, nil
}

func annotateLevelCourses(ledger *models.ProgressLedger, courses []models.Course) []AnnotatedCourse {
	annotated := make([]AnnotatedCourse, 0, len(courses))
	unlockedSeen := false
	for _, course := range courses {
		ac := AnnotatedCourse{Course: course}
		switch {
		case ledger.HasCompletedCourse(course.ID):
			ac.IsCompleted = true
			ac.IsUnlocked = true
		case !unlockedSeen:
			ac.IsUnlocked = true
			unlockedSeen = true
		}
		annotated = append(annotated, ac)
	}
	return annotated
}

// CanAccessCourse gates direct access to a course: allowed if already
// completed, or if its level is unlocked and every course before it in
// that level is completed.
func (s *Service) CanAccessCourse(ctx context.Context, userID, courseID uint) (*AccessDecision, error) {
	user, err := s.users.FindUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.Ledger.HasCompletedCourse(courseID) {
		return &AccessDecision{CanAccess: true, Reason: ReasonAlreadyCompleted}, nil
	}

	level, err := s.catalog.FindLevelContainingCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	if !user.Ledger.HasLevel(level.LevelNumber) {
		return &AccessDecision{CanAccess: false, Reason: ReasonLevelLocked}, nil
	}

	for _, c := range level.Courses {
		if c.ID == courseID {
			return &AccessDecision{CanAccess: true, Reason: ReasonUnlocked}, nil
		}
		if !user.Ledger.HasCompletedCourse(c.ID) {
			return &AccessDecision{CanAccess: false, Reason: ReasonPreviousIncomplete}, nil
		}
	}

	return nil, fmt.Errorf("course %d not listed in level %d: %w", courseID, level.LevelNumber, ErrNotFound)
}

// ProgressSummary reports totals, percentage and the next course for every
// level the user can access.
func (s *Service) ProgressSummary(ctx context.Context, userID uint) ([]LevelSummary, error) {
	user, err := s.users.FindUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	levels, err := s.catalog.ListLevelsByNumbers(ctx, user.Ledger.AccessibleLevels)
	if err != nil {
		return nil, err
	}

	summaries := make([]LevelSummary, 0, len(levels))
	for _, level := range levels {
		summaries = append(summaries, summarizeLevel(&user.Ledger, level))
	}
	return summaries, nil
}

func summarizeLevel(ledger *models.ProgressLedger, level models.Level) LevelSummary {
	total := len(level.Courses)
	completed := 0
	var next *models.Course
	for i := range level.Courses {
		if ledger.HasCompletedCourse(level.Courses[i].ID) {
			completed++
		} else if next == nil {
			next = &level.Courses[i]
		}
	}

	percentage := 0
	if total > 0 {
		percentage = roundPercent(completed, total)
	}

	return LevelSummary{
		LevelNumber:        level.LevelNumber,
		LevelName:          level.Name,
		TotalCourses:       total,
		CompletedCourses:   completed,
		ProgressPercentage: percentage,
		NextCourse:         next,
		IsLevelComplete:    total > 0 && completed == total,
	}
}

// CourseProgressFor reports how far a user is through one course, chapter
// by chapter.
func (s *Service) CourseProgressFor(ctx context.Context, userID, courseID uint) (*CourseProgress, error) {
	user, err := s.users.FindUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	course, err := s.catalog.FindCourseByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	progress := &CourseProgress{
		CourseID:          course.ID,
		CourseTitle:       course.Title,
		TotalChapters:     len(course.Chapters),
		IsCourseCompleted: user.Ledger.HasCompletedCourse(course.ID),
		Chapters:          make([]ChapterProgress, 0, len(course.Chapters)),
	}

	for _, ch := range course.Chapters {
		cp := ChapterProgress{ChapterID: ch.ID, Title: ch.Title}
		if result, ok := user.Ledger.ResultFor(ch.ID); ok {
			cp.IsCompleted = true
			score := result.Score
			completedAt := result.CompletedAt
			cp.Score = &score
			cp.CompletedAt = &completedAt
			progress.CompletedChapters++
		}
		progress.Chapters = append(progress.Chapters, cp)
	}

	if progress.TotalChapters > 0 {
		progress.ProgressPercentage = roundPercent(progress.CompletedChapters, progress.TotalChapters)
	}
	return progress, nil
}
