package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/SAP-F-2025/edusync-service/internal/models"
	"github.com/SAP-F-2025/edusync-service/internal/policy"
	"github.com/SAP-F-2025/edusync-service/internal/services"
	"github.com/SAP-F-2025/edusync-service/internal/utils"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// BaseHandler carries the helpers shared by every handler
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// LogRequest logs through the request-scoped logger
func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	utils.FromContext(c, h.logger).Info(msg, args...)
}

// actor reads the identity stored by the auth middleware
func (h *BaseHandler) actor(c *gin.Context) (policy.Actor, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return policy.Actor{}, false
	}

	id, ok := userID.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid user ID in token"})
		return policy.Actor{}, false
	}

	role, _ := c.Get("user_role")
	userRole, _ := role.(models.UserRole)

	return policy.Actor{ID: id, Role: userRole}, true
}

// parseIDParam parses a uuid path parameter, answering 400 when it is malformed
func (h *BaseHandler) parseIDParam(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid ID format",
			Details: param,
		})
		return uuid.Nil, false
	}
	return id, true
}

func (h *BaseHandler) bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return false
	}
	return true
}

func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	// Handle custom error types first
	var validationErrors services.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrors,
		})
		return
	}

	var permissionError *services.PermissionError
	if errors.As(err, &permissionError) {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: permissionError.Reason,
			Details: map[string]interface{}{
				"resource": permissionError.Resource,
				"action":   permissionError.Action,
			},
		})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case services.IsNotFound(err):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrBadRequest):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, services.ErrConflict):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		utils.FromContext(c, h.logger).Error("Unhandled service error",
			"error", err,
			"method", c.Request.Method,
			"path", c.Request.URL.Path)
		c.JSON(status, ErrorResponse{Message: "Internal server error"})
		return
	}

	message := err.Error()
	var serviceError *services.ServiceError
	if errors.As(err, &serviceError) {
		message = serviceError.Message
	}
	c.JSON(status, ErrorResponse{Message: message})
}
