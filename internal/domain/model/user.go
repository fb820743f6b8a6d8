package model

import (
	"strings"
	"time"

	"lms-platform/internal/domain"
)

type UserRole string

const (
	UserRoleAdmin      UserRole = "admin"
	UserRoleStudent    UserRole = "student"
	UserRoleInstructor UserRole = "instructor"
)

func (r UserRole) Valid() bool {
	switch r {
	case UserRoleAdmin, UserRoleStudent, UserRoleInstructor:
		return true
	}
	return false
}

type User struct {
	ID                string
	Name              string
	Email             string
	PasswordHash      string // bcrypt; never serialized to clients
	Role              UserRole
	Avatar            string
	Bio               string
	EnrolledCourseIDs []string
	LastActiveAt      time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func NewUser(id, name, email, passwordHash string, role UserRole) (*User, error) {
	if id == "" || name == "" || email == "" || passwordHash == "" {
		return nil, domain.ErrValidation
	}
	if role == "" {
		role = UserRoleStudent
	}
	if !role.Valid() {
		return nil, domain.ErrValidation
	}
	now := time.Now().UTC()
	return &User{
		ID:           id,
		Name:         name,
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: passwordHash,
		Role:         role,
		Avatar:       "default-avatar.png",
		LastActiveAt: now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (u *User) IsEnrolled(courseID string) bool {
	for _, id := range u.EnrolledCourseIDs {
		if id == courseID {
			return true
		}
	}
	return false
}
