package progression

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"academy/backend/models"
)

func TestGradeScoresAnswers(t *testing.T) {
	chapter := &models.Chapter{
		Model: gorm.Model{ID: 1},
		Questions: []models.Question{
			question(10, 2),
			question(11, 0),
		},
	}

	result, err := Grade(chapter, map[uint]int{10: 2, 11: 1})
	require.NoError(t, err)

	assert.Equal(t, uint(1), result.ChapterID)
	assert.Equal(t, 50, result.Score)
	assert.False(t, result.CompletedAt.IsZero())
}

func TestGradeRoundsHalfUp(t *testing.T) {
	chapter := &models.Chapter{
		Model: gorm.Model{ID: 1},
		Questions: []models.Question{
			question(10, 0),
			question(11, 0),
			question(12, 0),
		},
	}

	// 2/3 = 66.67 rounds up to 67.
	result, err := Grade(chapter, map[uint]int{10: 0, 11: 0, 12: 3})
	require.NoError(t, err)
	assert.Equal(t, 67, result.Score)

	// 1/3 = 33.33 rounds down to 33.
	result, err = Grade(chapter, map[uint]int{10: 0})
	require.NoError(t, err)
	assert.Equal(t, 33, result.Score)
}

func TestGradeUnansweredCountsIncorrect(t *testing.T) {
	chapter := &models.Chapter{
		Model: gorm.Model{ID: 1},
		Questions: []models.Question{
			question(10, 1),
			question(11, 1),
		},
	}

	result, err := Grade(chapter, map[uint]int{10: 1})
	require.NoError(t, err)
	assert.Equal(t, 50, result.Score)

	result, err = Grade(chapter, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Score)
	assert.NotNil(t, result.Answers)
}

func TestGradeChapterWithoutQuestions(t *testing.T) {
	chapter := &models.Chapter{Model: gorm.Model{ID: 1}}

	_, err := Grade(chapter, map[uint]int{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidState))
}
