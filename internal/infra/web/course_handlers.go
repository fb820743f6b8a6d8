package web

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"lms-platform/internal/usecase"
)

// Uploaded lecture videos are streamed through multipart; courses stay JSON.
const maxLectureUploadBytes = 1 << 30 // 1 GiB

type createCourseRequest struct {
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Level       string `json:"level"`
	Price       int64  `json:"price"`
	Thumbnail   string `json:"thumbnail"`
}

func (s *Server) handleCreateCourse(w http.ResponseWriter, r *http.Request) {
	var req createCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	claims := ClaimsFrom(r.Context())

	course, err := s.courseUC.Create(r.Context(), usecase.CreateCourseInput{
		Title:        req.Title,
		Subtitle:     req.Subtitle,
		Description:  req.Description,
		Category:     req.Category,
		Level:        req.Level,
		Thumbnail:    req.Thumbnail,
		Price:        req.Price,
		InstructorID: claims.Subject,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, course)
}

func (s *Server) handleListCourses(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))

	courses, err := s.courseUC.ListPublished(r.Context(), page, pageSize)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, courses)
}

func (s *Server) handleGetCourse(w http.ResponseWriter, r *http.Request) {
	course, err := s.courseUC.FindByID(r.Context(), chi.URLParam(r, "courseID"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, course)
}

func (s *Server) handleUpdateCourse(w http.ResponseWriter, r *http.Request) {
	course, err := s.courseUC.FindByID(r.Context(), chi.URLParam(r, "courseID"))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	var req struct {
		Title       *string `json:"title"`
		Subtitle    *string `json:"subtitle"`
		Description *string `json:"description"`
		Category    *string `json:"category"`
		Price       *int64  `json:"price"`
		Thumbnail   *string `json:"thumbnail"`
		IsPublished *bool   `json:"isPublished"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Subtitle != nil {
		course.Subtitle = *req.Subtitle
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.Category != nil {
		course.Category = *req.Category
	}
	if req.Price != nil {
		course.Price = *req.Price
	}
	if req.Thumbnail != nil {
		course.Thumbnail = *req.Thumbnail
	}
	if req.IsPublished != nil {
		course.IsPublished = *req.IsPublished
	}
	course.UpdatedAt = time.Now().UTC()

	if err := s.courseUC.Update(r.Context(), course); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, course)
}

func (s *Server) handleAddLecture(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		respondError(w, http.StatusBadRequest, "expected multipart form")
		return
	}
	file, header, err := r.FormFile("video")
	if err != nil {
		respondError(w, http.StatusBadRequest, "video file is required")
		return
	}
	defer file.Close()
	if header.Size > maxLectureUploadBytes {
		respondError(w, http.StatusRequestEntityTooLarge, "video too large")
		return
	}

	order, _ := strconv.Atoi(r.FormValue("order"))
	isPreview, _ := strconv.ParseBool(r.FormValue("isPreview"))
	duration, _ := strconv.ParseFloat(r.FormValue("duration"), 64)

	lecture, err := s.lectureUC.AddLecture(r.Context(), usecase.AddLectureInput{
		CourseID:    chi.URLParam(r, "courseID"),
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Order:       order,
		IsPreview:   isPreview,
		Duration:    duration,
		Video:       file,
		VideoSize:   header.Size,
		ContentType: header.Header.Get("Content-Type"),
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, lecture)
}

func (s *Server) handleListLectures(w http.ResponseWriter, r *http.Request) {
	lectures, err := s.lectureUC.ListByCourse(r.Context(), chi.URLParam(r, "courseID"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, lectures)
}

func (s *Server) handleRemoveLecture(w http.ResponseWriter, r *http.Request) {
	err := s.lectureUC.RemoveLecture(r.Context(), chi.URLParam(r, "courseID"), chi.URLParam(r, "lectureID"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "lecture removed")
}
