package models

import "gorm.io/gorm"

type Level struct {
	gorm.Model
	Name        string `gorm:"not null"`
	LevelNumber int    `gorm:"unique;not null"` // >= 1
	Courses     []Course
}

type Course struct {
	gorm.Model
	LevelID       uint
	Title         string `gorm:"not null"`
	Description   string
	SequenceOrder int // position within the level, 1-based
	IsPublished   bool
	IsApproved    bool
	Chapters      []Chapter
}

type Chapter struct {
	gorm.Model
	CourseID      uint
	Title         string `gorm:"not null"`
	Description   string
	SequenceOrder int // position within the course, 1-based
	Questions     []Question
}

// Question is a multiple-choice question attached to a chapter.
type Question struct {
	gorm.Model
	ChapterID     uint
	Prompt        string `gorm:"not null"`
	Options       string // JSON array of options
	CorrectIndex  int    // index into Options
	Explanation   string
	SequenceOrder int
}
