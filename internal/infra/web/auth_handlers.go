package web

import (
	"encoding/json"
	"net/http"

	"lms-platform/internal/domain/model"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Role            string   `json:"role"`
	Avatar          string   `json:"avatar,omitempty"`
	Bio             string   `json:"bio,omitempty"`
	EnrolledCourses []string `json:"enrolledCourses"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func toUserResponse(u *model.User) userResponse {
	courses := u.EnrolledCourseIDs
	if courses == nil {
		courses = []string{}
	}
	return userResponse{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		Role:            string(u.Role),
		Avatar:          u.Avatar,
		Bio:             u.Bio,
		EnrolledCourses: courses,
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Public signup never grants elevated roles.
	role := model.UserRoleStudent
	if req.Role == string(model.UserRoleInstructor) {
		role = model.UserRoleInstructor
	}

	user, err := s.userUC.Register(r.Context(), req.Name, req.Email, req.Password, role)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	token, err := s.auth.Mint(user.ID, user.Role)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusCreated, authResponse{Token: token, User: toUserResponse(user)})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := s.userUC.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	token, err := s.auth.Mint(user.ID, user.Role)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusOK, authResponse{Token: token, User: toUserResponse(user)})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFrom(r.Context())
	user, err := s.userUC.FindByID(r.Context(), claims.Subject)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toUserResponse(user))
}
