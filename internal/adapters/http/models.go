package http

import (
	"time"

	"github.com/dcpatrol/patrol/internal/domain/models"
)

// ErrorResponse is the uniform error body
type ErrorResponse struct {
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest is the body of POST /auth/register
type RegisterRequest struct {
	Username   string `json:"username" binding:"required"`
	Password   string `json:"password" binding:"required"`
	FullName   string `json:"full_name" binding:"required"`
	Email      string `json:"email" binding:"required"`
	Phone      string `json:"phone"`
	Role       string `json:"role" binding:"required"`
	Department string `json:"department"`
}

// SubmitInspectionRequest is the body of POST /rooms/:id/inspections.
// Timestamp is optional; the engine stamps the current time when
// absent. Status must be normal, warning or error.
type SubmitInspectionRequest struct {
	Status    string     `json:"status" binding:"required"`
	Notes     string     `json:"notes"`
	Images    []string   `json:"images"`
	Timestamp *time.Time `json:"timestamp"`
}

// MediaUploadResponse is the body returned by POST /media
type MediaUploadResponse struct {
	Ref string `json:"ref"`
}

// ResetResponse reports the outcome of a reset trigger
type ResetResponse struct {
	Applied bool   `json:"applied"`
	Message string `json:"message,omitempty"`
}

// RoomResponse augments a room with its derived today-status, which is
// what the dashboard actually displays
type RoomResponse struct {
	models.Room
	TodayStatus models.RoomStatus `json:"today_status"`
}
