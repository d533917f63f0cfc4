package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/app/repositories"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
	"github.com/yigit/alumnihub/internal/pkg/auth"
)

// Context keys set by the auth middleware
const (
	ContextUserID = "userID"
	ContextEmail  = "email"
	ContextRole   = "role"
	ContextClaims = "claims"
	ContextUser   = "user"
)

// ErrNoToken is returned when a request carries no access token
var ErrNoToken = errors.New("no access token")

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	jwtService *auth.JWTService
	userRepo   repositories.IUserRepository
	cookieName string
}

// NewAuthMiddleware creates a new AuthMiddleware. cookieName is the session cookie
// holding the access token for browser clients.
func NewAuthMiddleware(jwtService *auth.JWTService, userRepo repositories.IUserRepository, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		userRepo:   userRepo,
		cookieName: cookieName,
	}
}

// CookieName returns the session cookie name
func (m *AuthMiddleware) CookieName() string {
	return m.cookieName
}

// Authenticate validates the access token from the Authorization header or the session cookie
func (m *AuthMiddleware) Authenticate(c *gin.Context) (*auth.Claims, error) {
	var tokenString string
	if header := c.GetHeader("Authorization"); header != "" {
		token, err := auth.ExtractBearerToken(strings.Trim(header, "\"'"))
		if err != nil {
			return nil, err
		}
		tokenString = token
	} else if m.cookieName != "" {
		if cookie, err := c.Cookie(m.cookieName); err == nil {
			tokenString = cookie
		}
	}
	if tokenString == "" {
		return nil, ErrNoToken
	}

	claims, err := m.jwtService.ValidateAndExtractClaims(tokenString)
	if err != nil {
		return nil, err
	}
	setClaims(c, claims)
	return claims, nil
}

func setClaims(c *gin.Context, claims *auth.Claims) {
	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextEmail, claims.Email)
	c.Set(ContextRole, claims.Role)
	c.Set(ContextClaims, claims)
}

// JWTAuth middleware for JWT token validation
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := m.Authenticate(c); err != nil {
			errorCode := dto.ErrorCodeInvalidToken
			details := "Invalid token"
			switch {
			case errors.Is(err, ErrNoToken):
				errorCode = dto.ErrorCodeUnauthorized
				details = "Authorization header missing"
			case errors.Is(err, auth.ErrExpiredToken):
				errorCode = dto.ErrorCodeExpiredToken
				details = "Token has expired"
			case errors.Is(err, auth.ErrInvalidFormat):
				details = "Invalid token format"
			}

			errorDetail := dto.NewErrorDetail(errorCode, "Authentication required").WithDetails(details)
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}
		c.Next()
	}
}

// OptionalAuth sets the user context when a valid token is present and never aborts
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		_, _ = m.Authenticate(c)
		c.Next()
	}
}

// LoadUser re-reads the authenticated user so approval changes apply without a new token
func (m *AuthMiddleware) LoadUser(c *gin.Context) (*models.User, error) {
	if cached, ok := c.Get(ContextUser); ok {
		if user, ok := cached.(*models.User); ok {
			return user, nil
		}
	}
	userID, ok := GetUserID(c)
	if !ok {
		return nil, ErrNoToken
	}
	user, err := m.userRepo.GetByID(c.Request.Context(), userID)
	if err != nil {
		return nil, err
	}
	c.Set(ContextUser, user)
	return user, nil
}

// ApprovedRequired rejects members whose account has not been approved yet. Admins always pass.
func (m *AuthMiddleware) ApprovedRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := m.LoadUser(c)
		if err != nil {
			if errors.Is(err, ErrNoToken) || errors.Is(err, apperrors.ErrUserNotFound) {
				errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
				c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
				return
			}
			HandleAPIError(c, err)
			c.Abort()
			return
		}

		if !user.CanAccessMemberArea() {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodePendingApproval, "Your account is pending approval.").
				WithSeverity(dto.ErrorSeverityWarning)
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
			return
		}
		c.Next()
	}
}

// RoleRequired middleware to check if user has required role
func (m *AuthMiddleware) RoleRequired(requiredRole models.RoleType) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextRole)
		if role == "" {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required").
				WithDetails("User role not found")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		if role != string(requiredRole) {
			message := "Access denied"
			if requiredRole == models.RoleAdmin {
				message = "Admin access required."
			}
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, message).
				WithDetails("You don't have sufficient permissions for this operation")
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Next()
	}
}

// GetUserID returns the authenticated user ID
func GetUserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// IsAdmin reports whether the authenticated user is an administrator
func IsAdmin(c *gin.Context) bool {
	return c.GetString(ContextRole) == string(models.RoleAdmin)
}

// GetClaims returns the validated token claims, if any
func GetClaims(c *gin.Context) *auth.Claims {
	v, ok := c.Get(ContextClaims)
	if !ok {
		return nil
	}
	claims, _ := v.(*auth.Claims)
	return claims
}
