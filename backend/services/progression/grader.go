package progression

import (
	"fmt"
	"time"

	"academy/backend/models"
)

// Grade scores a submitted answer set against a chapter's questions and
// returns the resulting QuizResult. It is a pure function; persisting the
// result is the caller's job. Unanswered questions count as incorrect.
func Grade(chapter *models.Chapter, answers map[uint]int) (models.QuizResult, error) {
	if len(chapter.Questions) == 0 {
		return models.QuizResult{}, fmt.Errorf("chapter %d has no questions: %w", chapter.ID, ErrInvalidState)
	}

	correct := 0
	for _, q := range chapter.Questions {
		if chosen, ok := answers[q.ID]; ok && chosen == q.CorrectIndex {
			correct++
		}
	}

	if answers == nil {
		answers = map[uint]int{}
	}

	return models.QuizResult{
		ChapterID:   chapter.ID,
		Score:       roundPercent(correct, len(chapter.Questions)),
		Answers:     answers,
		CompletedAt: time.Now().UTC(),
	}, nil
}
