package models

import "time"

// QuizResult is one graded submission. A user holds at most one per
// chapter; resubmission replaces the previous result.
type QuizResult struct {
	ChapterID   uint         `json:"chapter_id"`
	Score       int          `json:"score"`   // rounded percentage 0-100
	Answers     map[uint]int `json:"answers"` // question ID -> chosen option index
	CompletedAt time.Time    `json:"completed_at"`
}

// ProgressLedger is the per-user progression state. It is mutated only by
// quiz submission or an explicit admin level grant, and always written back
// as a whole.
type ProgressLedger struct {
	AccessibleLevels []int        `json:"accessible_levels"`
	CompletedCourses []uint       `json:"completed_courses"`
	QuizResults      []QuizResult `json:"quiz_results"`
}

// NewProgressLedger returns the ledger every user starts with: access to
// level 1 and nothing completed.
func NewProgressLedger() ProgressLedger {
	return ProgressLedger{
		AccessibleLevels: []int{1},
		CompletedCourses: []uint{},
		QuizResults:      []QuizResult{},
	}
}

// CurrentLevel is the highest level the user has access to. It is derived
// from AccessibleLevels rather than stored, so admin grants and normal
// progression cannot drift apart.
func (l *ProgressLedger) CurrentLevel() int {
	current := 0
	for _, n := range l.AccessibleLevels {
		if n > current {
			current = n
		}
	}
	return current
}

func (l *ProgressLedger) HasLevel(levelNumber int) bool {
	for _, n := range l.AccessibleLevels {
		if n == levelNumber {
			return true
		}
	}
	return false
}

// GrantLevel adds a level to the accessible set if absent.
func (l *ProgressLedger) GrantLevel(levelNumber int) {
	if !l.HasLevel(levelNumber) {
		l.AccessibleLevels = append(l.AccessibleLevels, levelNumber)
	}
}

func (l *ProgressLedger) HasCompletedCourse(courseID uint) bool {
	for _, id := range l.CompletedCourses {
		if id == courseID {
			return true
		}
	}
	return false
}

func (l *ProgressLedger) MarkCourseCompleted(courseID uint) {
	if !l.HasCompletedCourse(courseID) {
		l.CompletedCourses = append(l.CompletedCourses, courseID)
	}
}

// ResultFor returns the stored quiz result for a chapter, if any.
func (l *ProgressLedger) ResultFor(chapterID uint) (QuizResult, bool) {
	for _, r := range l.QuizResults {
		if r.ChapterID == chapterID {
			return r, true
		}
	}
	return QuizResult{}, false
}

func (l *ProgressLedger) HasResultFor(chapterID uint) bool {
	_, ok := l.ResultFor(chapterID)
	return ok
}

// UpsertResult replaces any existing result for the same chapter, then
// appends the new one. No attempt history is kept.
func (l *ProgressLedger) UpsertResult(result QuizResult) {
	kept := l.QuizResults[:0]
	for _, r := range l.QuizResults {
		if r.ChapterID != result.ChapterID {
			kept = append(kept, r)
		}
	}
	l.QuizResults = append(kept, result)
}
