package model

import (
	"time"

	"lms-platform/internal/domain"
)

type CourseLevel string

const (
	CourseLevelBeginner     CourseLevel = "Beginner"
	CourseLevelIntermediate CourseLevel = "Intermediate"
	CourseLevelAdvanced     CourseLevel = "Advanced"
)

// Course is the catalog entry a Purchase references. From the purchase core's
// perspective it is read-only; only the catalog surface mutates it.
type Course struct {
	ID                string
	Title             string
	Subtitle          string
	Description       string
	Category          string
	Level             CourseLevel
	Price             int64 // major currency units
	Thumbnail         string
	InstructorID      string
	LectureIDs        []string
	EnrolledStudentID []string
	IsPublished       bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func NewCourse(id, title, description, category, instructorID string, price int64) (*Course, error) {
	if id == "" || title == "" || instructorID == "" {
		return nil, domain.ErrValidation
	}
	if price < 0 {
		return nil, domain.ErrValidation
	}
	now := time.Now().UTC()
	return &Course{
		ID:           id,
		Title:        title,
		Description:  description,
		Category:     category,
		Level:        CourseLevelBeginner,
		Price:        price,
		InstructorID: instructorID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (c *Course) TotalLectures() int { return len(c.LectureIDs) }
