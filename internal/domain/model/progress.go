package model

import (
	"math"
	"time"

	"lms-platform/internal/domain"
)

type LectureProgress struct {
	LectureID   string
	IsCompleted bool
	WatchTime   float64 // seconds
	LastWatched time.Time
}

// CourseProgress tracks one user's advancement through one course.
// CompletionPercentage is derived from the per-lecture entries on every write.
type CourseProgress struct {
	ID                   string
	UserID               string
	CourseID             string
	IsCompleted          bool
	CompletionPercentage int
	Lectures             []LectureProgress
	LastAccessed         time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func NewCourseProgress(id, userID, courseID string) (*CourseProgress, error) {
	if id == "" || userID == "" || courseID == "" {
		return nil, domain.ErrValidation
	}
	now := time.Now().UTC()
	return &CourseProgress{
		ID:           id,
		UserID:       userID,
		CourseID:     courseID,
		LastAccessed: now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Touch records a view of a single lecture and recomputes completion.
func (cp *CourseProgress) Touch(lectureID string, watchTime float64, completed bool, now time.Time) {
	found := false
	for i := range cp.Lectures {
		if cp.Lectures[i].LectureID == lectureID {
			cp.Lectures[i].WatchTime += watchTime
			cp.Lectures[i].LastWatched = now
			if completed {
				cp.Lectures[i].IsCompleted = true
			}
			found = true
			break
		}
	}
	if !found {
		cp.Lectures = append(cp.Lectures, LectureProgress{
			LectureID:   lectureID,
			IsCompleted: completed,
			WatchTime:   watchTime,
			LastWatched: now,
		})
	}
	cp.LastAccessed = now
	cp.UpdatedAt = now
	cp.recompute()
}

func (cp *CourseProgress) recompute() {
	if len(cp.Lectures) == 0 {
		cp.CompletionPercentage = 0
		cp.IsCompleted = false
		return
	}
	done := 0
	for _, lp := range cp.Lectures {
		if lp.IsCompleted {
			done++
		}
	}
	cp.CompletionPercentage = int(math.Round(float64(done) / float64(len(cp.Lectures)) * 100))
	cp.IsCompleted = cp.CompletionPercentage == 100
}
