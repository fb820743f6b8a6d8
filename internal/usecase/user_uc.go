package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"lms-platform/internal/domain"
	"lms-platform/internal/domain/model"
	"lms-platform/internal/domain/ports/repository"
)

var _ UserUseCase = (*userUC)(nil)

type UserUseCase interface {
	Register(ctx context.Context, name, email, password string, role model.UserRole) (*model.User, error)
	Login(ctx context.Context, email, password string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
}

const bcryptCost = 11

type userUC struct {
	users repository.UserRepository
}

func NewUserUseCase(users repository.UserRepository) *userUC {
	return &userUC{users: users}
}

func (u *userUC) Register(ctx context.Context, name, email, password string, role model.UserRole) (*model.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || len(password) < 8 {
		return nil, domain.ErrValidation
	}

	if _, err := u.users.FindByEmail(ctx, repository.NoTX, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, err
	}

	user, err := model.NewUser(uuid.NewString(), name, email, string(hash), role)
	if err != nil {
		return nil, err
	}
	if err := u.users.Save(ctx, repository.NoTX, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (u *userUC) Login(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, domain.ErrValidation
	}

	user, err := u.users.FindByEmail(ctx, repository.NoTX, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	_ = u.users.TouchLastActive(ctx, repository.NoTX, user.ID)
	return user, nil
}

func (u *userUC) FindByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, domain.ErrValidation
	}
	user, err := u.users.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
