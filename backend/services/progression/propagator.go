package progression

import (
	"context"
	"errors"

	"academy/backend/models"
)

// maxSubmitRetries bounds the retry loop when a concurrent submission for
// the same user wins the ledger write.
const maxSubmitRetries = 3

// AnswerKey reveals the correct option for one question after a submission.
type AnswerKey struct {
	QuestionID   uint   `json:"question_id"`
	CorrectIndex int    `json:"correct_index"`
	Explanation  string `json:"explanation,omitempty"`
}

// CompletionResult reports what a quiz submission changed in the ledger.
type CompletionResult struct {
	Result              models.QuizResult `json:"result"`
	AnswerKeys          []AnswerKey       `json:"correct_answers"`
	ChapterCompleted    bool              `json:"chapter_completed"`
	CourseCompleted     bool              `json:"course_completed"`
	CourseJustCompleted bool              `json:"course_just_completed"`
	LevelJustCompleted  bool              `json:"level_just_completed"`
	NextLevelUnlocked   bool              `json:"next_level_unlocked"`
	CurrentLevel        int               `json:"current_level"`
	AccessibleLevels    []int             `json:"accessible_levels"`
}

// SubmitChapterQuiz grades a submission and cascades completion upward,
// chapter -> course -> level. The ledger is read, mutated in memory and
// written back as a single unit; if another submission for the same user
// lands in between, the whole cycle is retried.
func (s *Service) SubmitChapterQuiz(ctx context.Context, userID, chapterID uint, answers map[uint]int) (*CompletionResult, error) {
	var lastErr error
	for attempt := 0; attempt < maxSubmitRetries; attempt++ {
		result, err := s.submitOnce(ctx, userID, chapterID, answers)
		if err == nil {
			return result, nil
		}
		if !errors.Is(err, ErrConflict) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

func (s *Service) submitOnce(ctx context.Context, userID, chapterID uint, answers map[uint]int) (*CompletionResult, error) {
	user, err := s.users.FindUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	chapter, err := s.catalog.FindChapterByID(ctx, chapterID)
	if err != nil {
		return nil, err
	}

	result, err := Grade(chapter, answers)
	if err != nil {
		return nil, err
	}

	course, err := s.catalog.FindCourseByID(ctx, chapter.CourseID)
	if err != nil {
		return nil, err
	}

	ledger := &user.Ledger
	ledger.UpsertResult(result)

	out := &CompletionResult{
		Result:           result,
		AnswerKeys:       answerKeys(chapter),
		ChapterCompleted: true,
	}

	// A course is complete once every one of its chapters has a stored
	// result, whatever the scores are.
	courseComplete := true
	for _, ch := range course.Chapters {
		if !ledger.HasResultFor(ch.ID) {
			courseComplete = false
			break
		}
	}
	out.CourseCompleted = courseComplete

	if courseComplete && !ledger.HasCompletedCourse(course.ID) {
		ledger.MarkCourseCompleted(course.ID)
		out.CourseJustCompleted = true

		if err := s.propagateLevel(ctx, ledger, course.ID, out); err != nil {
			return nil, err
		}
	}

	if err := s.users.SaveLedger(ctx, user); err != nil {
		return nil, err
	}

	out.CurrentLevel = ledger.CurrentLevel()
	out.AccessibleLevels = ledger.AccessibleLevels
	return out, nil
}

// propagateLevel checks whether completing courseID finished its level and
// if so unlocks the next one. A course that belongs to no level is left
// alone rather than treated as an error.
func (s *Service) propagateLevel(ctx context.Context, ledger *models.ProgressLedger, courseID uint, out *CompletionResult) error {
	level, err := s.catalog.FindLevelContainingCourse(ctx, courseID)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	for _, c := range level.Courses {
		if !ledger.HasCompletedCourse(c.ID) {
			return nil
		}
	}
	out.LevelJustCompleted = true

	next := level.LevelNumber + 1
	if _, err := s.catalog.FindLevelByNumber(ctx, next); err != nil {
		if errors.Is(err, ErrNotFound) {
			// Highest level reached; the user simply stays there.
			return nil
		}
		return err
	}

	ledger.GrantLevel(next)
	out.NextLevelUnlocked = true
	return nil
}

func answerKeys(chapter *models.Chapter) []AnswerKey {
	keys := make([]AnswerKey, 0, len(chapter.Questions))
	for _, q := range chapter.Questions {
		keys = append(keys, AnswerKey{
			QuestionID:   q.ID,
			CorrectIndex: q.CorrectIndex,
			Explanation:  q.Explanation,
		})
	}
	return keys
}
