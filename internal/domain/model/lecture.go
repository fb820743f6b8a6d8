package model

import (
	"time"

	"lms-platform/internal/domain"
)

// Lecture is one media unit of a course. PublicID is the media-storage object
// key, so the stored video can be deleted when the lecture is removed.
type Lecture struct {
	ID          string
	CourseID    string
	Title       string
	Description string
	VideoURL    string
	PublicID    string
	Duration    float64 // seconds
	IsPreview   bool
	Order       int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func NewLecture(id, courseID, title string, order int) (*Lecture, error) {
	if id == "" || courseID == "" || title == "" {
		return nil, domain.ErrValidation
	}
	if order < 0 {
		return nil, domain.ErrValidation
	}
	now := time.Now().UTC()
	return &Lecture{
		ID:        id,
		CourseID:  courseID,
		Title:     title,
		Order:     order,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
