package http

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dcpatrol/patrol/internal/domain/models"
	"github.com/dcpatrol/patrol/internal/domain/ports"
)

// Handler handles HTTP requests for the inspection service
type Handler struct {
	service ports.InspectionService
	auth    ports.AuthProvider
	media   ports.MediaStore
}

// NewHandler creates a new HTTP handler
func NewHandler(service ports.InspectionService, auth ports.AuthProvider, media ports.MediaStore) *Handler {
	return &Handler{
		service: service,
		auth:    auth,
		media:   media,
	}
}

// Login handles POST /auth/login
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Title:  "Bad Request",
			Status: http.StatusBadRequest,
			Detail: err.Error(),
		})
		return
	}

	session, err := h.auth.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		status := http.StatusUnauthorized
		title := "Unauthorized"
		if errors.Is(err, models.ErrAccountPending) || errors.Is(err, models.ErrAccountInactive) {
			status = http.StatusForbidden
			title = "Forbidden"
		}
		c.JSON(status, ErrorResponse{Title: title, Status: status, Detail: err.Error()})
		return
	}

	c.JSON(http.StatusOK, session)
}

// Register handles POST /auth/register
func (h *Handler) Register(c *gin.Context) {
	registrar, ok := h.auth.(ports.AccountRegistrar)
	if !ok {
		c.JSON(http.StatusNotImplemented, ErrorResponse{
			Title:  "Not Implemented",
			Status: http.StatusNotImplemented,
			Detail: "registration is not supported by this auth provider",
		})
		return
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Title:  "Bad Request",
			Status: http.StatusBadRequest,
			Detail: err.Error(),
		})
		return
	}

	account, err := registrar.Register(c.Request.Context(), ports.RegistrationRequest{
		Username:   req.Username,
		Password:   req.Password,
		FullName:   req.FullName,
		Email:      req.Email,
		Phone:      req.Phone,
		Role:       models.Role(req.Role),
		Department: req.Department,
	})
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, models.ErrAccountExists) {
			status = http.StatusConflict
		}
		c.JSON(status, ErrorResponse{Title: "Registration Failed", Status: status, Detail: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, account)
}

// ListRooms handles GET /rooms
func (h *Handler) ListRooms(c *gin.Context) {
	rooms := h.service.ListRooms()
	out := make([]RoomResponse, 0, len(rooms))
	for _, room := range rooms {
		today, _ := h.service.TodayStatusOf(room.ID)
		out = append(out, RoomResponse{Room: room, TodayStatus: today})
	}
	c.JSON(http.StatusOK, out)
}

// GetRoom handles GET /rooms/:id
func (h *Handler) GetRoom(c *gin.Context) {
	id := c.Param("id")
	room, err := h.service.FindRoom(id)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Title:  "Not Found",
			Status: http.StatusNotFound,
			Detail: "unknown room id",
		})
		return
	}
	today, _ := h.service.TodayStatusOf(id)
	c.JSON(http.StatusOK, RoomResponse{Room: room, TodayStatus: today})
}

// SubmitInspection handles POST /rooms/:id/inspections
func (h *Handler) SubmitInspection(c *gin.Context) {
	var req SubmitInspectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Title:  "Bad Request",
			Status: http.StatusBadRequest,
			Detail: err.Error(),
		})
		return
	}

	record := models.InspectionRecord{
		Inspector: accountFromContext(c).FullName,
		Status:    models.RoomStatus(req.Status),
		Notes:     req.Notes,
		Images:    req.Images,
	}
	if req.Timestamp != nil {
		record.Timestamp = *req.Timestamp
	}

	err := h.service.SubmitInspection(c.Request.Context(), c.Param("id"), record)
	switch {
	case errors.Is(err, models.ErrInvalidRoom):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Title:  "Not Found",
			Status: http.StatusNotFound,
			Detail: "unknown room id",
		})
	case errors.Is(err, models.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Title:  "Bad Request",
			Status: http.StatusBadRequest,
			Detail: "status must be normal, warning or error",
		})
	case errors.Is(err, models.ErrPersistence):
		// The record is held in memory; warn the caller it may not survive a restart
		c.JSON(http.StatusAccepted, ResetResponse{
			Applied: true,
			Message: "inspection recorded but could not be persisted",
		})
	case err != nil:
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Title:  "Internal Server Error",
			Status: http.StatusInternalServerError,
			Detail: "failed to record inspection",
		})
	default:
		c.JSON(http.StatusCreated, gin.H{"status": "ok"})
	}
}

// RoomHistory handles GET /rooms/:id/history (live + archived, newest first)
func (h *Handler) RoomHistory(c *gin.Context) {
	records, err := h.service.FullHistory(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Title:  "Not Found",
			Status: http.StatusNotFound,
			Detail: "unknown room id",
		})
		return
	}
	c.JSON(http.StatusOK, records)
}

// AllHistory handles GET /history (grouped by room, newest first)
func (h *Handler) AllHistory(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.FullHistoryAll())
}

// GetStats handles GET /stats
func (h *Handler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Stats())
}

// RecentActivity handles GET /activity
func (h *Handler) RecentActivity(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Title:  "Bad Request",
				Status: http.StatusBadRequest,
				Detail: "limit must be a non-negative integer",
			})
			return
		}
		limit = parsed
	}
	c.JSON(http.StatusOK, h.service.RecentActivity(limit))
}

// TriggerReset handles POST /reset (admin only, enforced by middleware)
func (h *Handler) TriggerReset(c *gin.Context) {
	if err := h.service.ForceReset(c.Request.Context()); err != nil {
		if errors.Is(err, models.ErrPersistence) {
			c.JSON(http.StatusAccepted, ResetResponse{
				Applied: true,
				Message: "reset applied but could not be persisted",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Title:  "Internal Server Error",
			Status: http.StatusInternalServerError,
			Detail: "reset failed",
		})
		return
	}
	c.JSON(http.StatusOK, ResetResponse{Applied: true})
}

// UploadMedia handles POST /media. The raw body is the image; the
// Content-Type header carries the type for the precheck.
func (h *Handler) UploadMedia(c *gin.Context) {
	data, err := io.ReadAll(io.LimitReader(c.Request.Body, 6<<20))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Title:  "Bad Request",
			Status: http.StatusBadRequest,
			Detail: "failed to read upload body",
		})
		return
	}

	ref, err := h.media.Put(c.Request.Context(), data, c.ContentType())
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Title:  "Bad Request",
			Status: http.StatusBadRequest,
			Detail: err.Error(),
		})
		return
	}
	c.JSON(http.StatusCreated, MediaUploadResponse{Ref: ref})
}

// GetMedia handles GET /media/:ref
func (h *Handler) GetMedia(c *gin.Context) {
	data, contentType, err := h.media.Get(c.Request.Context(), c.Param("ref"))
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Title:  "Not Found",
			Status: http.StatusNotFound,
			Detail: "media reference not found",
		})
		return
	}
	c.Data(http.StatusOK, contentType, data)
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
