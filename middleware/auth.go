package middleware

import (
	"context"
	"floodguard/models"
	"floodguard/repositories"
	"floodguard/utils"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type AuthMiddleware struct {
	jwtService *utils.JWTService
	userRepo   *repositories.UserRepository
}

func NewAuthMiddleware(jwtService *utils.JWTService, userRepo *repositories.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		userRepo:   userRepo,
	}
}

// RequireAuth validates the access token and loads the user into context
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return gin.HandlerFunc(func(c *gin.Context) {
		token := am.extractToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Error:   "UNAUTHORIZED",
				Message: "Authentication token required",
				Code:    "AUTH_TOKEN_REQUIRED",
			})
			c.Abort()
			return
		}

		claims, err := am.jwtService.ValidateToken(token)
		if err != nil {
			logrus.Warnf("Invalid token: %v", err)
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Error:   "UNAUTHORIZED",
				Message: "Invalid authentication token",
				Code:    "AUTH_TOKEN_INVALID",
			})
			c.Abort()
			return
		}

		if claims.TokenType != "access" {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Error:   "UNAUTHORIZED",
				Message: "Invalid token type",
				Code:    "AUTH_TOKEN_INVALID_TYPE",
			})
			c.Abort()
			return
		}

		// The user document is the source of truth for role and active
		// status; the claims only carry a snapshot
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		user, err := am.userRepo.GetByID(ctx, claims.UserID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Error:   "UNAUTHORIZED",
				Message: "User account not found",
				Code:    "AUTH_USER_NOT_FOUND",
			})
			c.Abort()
			return
		}

		if !user.IsActive {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Error:   "UNAUTHORIZED",
				Message: "User account is deactivated",
				Code:    "AUTH_USER_INACTIVE",
			})
			c.Abort()
			return
		}

		c.Set("user", user)
		c.Set("userID", user.ID.Hex())
		c.Set("userRole", user.Role)

		go am.updateUserLastSeen(user.ID.Hex())

		c.Next()
	})
}

// RequireRole allows only the listed roles past
func (am *AuthMiddleware) RequireRole(roles ...string) gin.HandlerFunc {
	return gin.HandlerFunc(func(c *gin.Context) {
		userRole := c.GetString("userRole")
		if userRole == "" {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Error:   "UNAUTHORIZED",
				Message: "User role not found in context",
				Code:    "AUTH_ROLE_MISSING",
			})
			c.Abort()
			return
		}

		for _, role := range roles {
			if userRole == role {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, models.ErrorResponse{
			Error:   "FORBIDDEN",
			Message: "Insufficient permissions",
			Code:    "AUTH_INSUFFICIENT_PERMISSIONS",
		})
		c.Abort()
	})
}

// RequireRegistered blocks anonymous guests from features that need an
// account, like volunteer applications.
func (am *AuthMiddleware) RequireRegistered() gin.HandlerFunc {
	return am.RequireRole(models.RoleRegistered, models.RoleVolunteer, models.RoleAdmin)
}

// WebSocketAuth validates the token passed on a websocket upgrade request.
func (am *AuthMiddleware) WebSocketAuth(token string) (*models.User, error) {
	if token == "" {
		return nil, utils.NewValidationError("Authentication token required")
	}

	claims, err := am.jwtService.ValidateToken(token)
	if err != nil {
		return nil, utils.NewValidationError("Invalid authentication token")
	}

	if claims.TokenType != "access" {
		return nil, utils.NewValidationError("Invalid token type")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	user, err := am.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, utils.NewValidationError("User account not found")
	}

	if !user.IsActive {
		return nil, utils.NewValidationError("User account is deactivated")
	}

	go am.updateUserLastSeen(user.ID.Hex())

	return user, nil
}

// extractToken reads the JWT from the Authorization header or, for
// websocket upgrades where headers are awkward, the token query parameter
func (am *AuthMiddleware) extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
			return parts[1]
		}
	}

	if token := c.Query("token"); token != "" {
		return token
	}

	return ""
}

func (am *AuthMiddleware) updateUserLastSeen(userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := am.userRepo.UpdateLastSeen(ctx, userID); err != nil {
		logrus.Debugf("Failed to update last seen for user %s: %v", userID, err)
	}
}

// GetCurrentUser returns the authenticated user loaded by RequireAuth
func GetCurrentUser(c *gin.Context) (*models.User, bool) {
	user, exists := c.Get("user")
	if !exists {
		return nil, false
	}

	userModel, ok := user.(*models.User)
	return userModel, ok
}

// GetCurrentUserID returns the authenticated user ID from context
func GetCurrentUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get("userID")
	if !exists {
		return "", false
	}

	userIDStr, ok := userID.(string)
	return userIDStr, ok
}
