package handlers

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/SAP-F-2025/edusync-service/internal/auth"
	"github.com/SAP-F-2025/edusync-service/internal/models"
	"github.com/SAP-F-2025/edusync-service/internal/policy"
	"github.com/SAP-F-2025/edusync-service/internal/utils"
)

// AuthMiddleware verifies bearer tokens issued by auth.TokenManager
type AuthMiddleware struct {
	tokens *auth.TokenManager
	logger utils.Logger
}

func NewAuthMiddleware(tokens *auth.TokenManager, logger utils.Logger) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, logger: logger}
}

// Authenticate rejects requests without a valid token and stores the caller's identity
func (am *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Message: "Authorization header missing"})
			return
		}

		// Extract token from "Bearer <token>" format
		tokenParts := strings.Fields(authHeader)
		if len(tokenParts) != 2 || !strings.EqualFold(tokenParts[0], "bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Message: "Invalid authorization header format"})
			return
		}

		claims, err := am.tokens.Parse(tokenParts[1])
		if err != nil {
			utils.FromContext(c, am.logger).Debug("Token rejected", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Message: "Invalid or expired token"})
			return
		}

		// A verified token with a bad subject is a malformed request, not a failed login
		if claims.Subject == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Message: "User ID not found in token"})
			return
		}
		userID, err := uuid.Parse(claims.Subject)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid user ID in token"})
			return
		}

		c.Set("user_id", userID)
		c.Set("user_role", models.UserRole(claims.Role))
		c.Set("user_email", claims.Email)

		c.Next()
	}
}

// RequireRoleMiddleware admits only the listed roles.
// A role outside the known set is a bad request; a known but unlisted role is forbidden.
func (am *AuthMiddleware) RequireRoleMiddleware(requiredRoles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, _ := c.Get("user_role")
		role, _ := userRole.(models.UserRole)

		if !role.IsValid() {
			c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Message: policy.ReasonInvalidRole})
			return
		}

		if !slices.Contains(requiredRoles, role) {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{
				Message: "Insufficient permissions",
				Details: map[string]interface{}{"required_roles": requiredRoles},
			})
			return
		}

		c.Next()
	}
}
