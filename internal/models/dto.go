package models

import (
	"time"
)

// Response shapes keep the camelCase field names existing clients consume.
// Identifiers are always rendered as strings and the password hash never leaves the service.

type UserResponse struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Role  UserRole `json:"role"`
}

type CourseResponse struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	Description    *string `json:"description"`
	InstructorID   string  `json:"instructorId"`
	InstructorName string  `json:"instructorName"`
	MediaURL       *string `json:"mediaUrl"`
}

type AssessmentResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Questions   string `json:"questions"`
	MaxScore    int    `json:"maxScore"`
	CourseID    string `json:"courseId"`
	CourseTitle string `json:"courseTitle"`
}

type ResultResponse struct {
	ID              string    `json:"id"`
	Score           int       `json:"score"`
	AttemptDate     time.Time `json:"attemptDate"`
	AssessmentID    string    `json:"assessmentId"`
	AssessmentTitle string    `json:"assessmentTitle"`
	UserID          string    `json:"userId"`
	UserName        string    `json:"userName"`
	MaxScore        int       `json:"maxScore"`
}

type EnrollmentResponse struct {
	CourseID       string  `json:"courseId"`
	CourseTitle    string  `json:"courseTitle"`
	Description    *string `json:"description"`
	InstructorID   string  `json:"instructorId"`
	InstructorName string  `json:"instructorName"`
	MediaURL       *string `json:"mediaUrl"`
}

type LoginResponse struct {
	Token string   `json:"token"`
	Role  UserRole `json:"role"`
}

func NewUserResponse(u *User) *UserResponse {
	return &UserResponse{
		ID:    u.ID.String(),
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}

func NewCourseResponse(c *Course) *CourseResponse {
	return &CourseResponse{
		ID:             c.ID.String(),
		Title:          c.Title,
		Description:    c.Description,
		InstructorID:   c.InstructorID.String(),
		InstructorName: c.InstructorName(),
		MediaURL:       c.MediaURL,
	}
}

func NewAssessmentResponse(a *Assessment) *AssessmentResponse {
	resp := &AssessmentResponse{
		ID:        a.ID.String(),
		Title:     a.Title,
		Questions: a.Questions,
		MaxScore:  a.MaxScore,
		CourseID:  a.CourseID.String(),
	}
	if a.Course != nil {
		resp.CourseTitle = a.Course.Title
	}
	return resp
}

func NewResultResponse(r *Result) *ResultResponse {
	resp := &ResultResponse{
		ID:           r.ID.String(),
		Score:        r.Score,
		AttemptDate:  r.AttemptDate,
		AssessmentID: r.AssessmentID.String(),
		UserID:       r.UserID.String(),
	}
	if r.Assessment != nil {
		resp.AssessmentTitle = r.Assessment.Title
		resp.MaxScore = r.Assessment.MaxScore
	}
	if r.User != nil {
		resp.UserName = r.User.Name
	}
	return resp
}

func NewEnrollmentResponse(c *Course) *EnrollmentResponse {
	return &EnrollmentResponse{
		CourseID:       c.ID.String(),
		CourseTitle:    c.Title,
		Description:    c.Description,
		InstructorID:   c.InstructorID.String(),
		InstructorName: c.InstructorName(),
		MediaURL:       c.MediaURL,
	}
}
