package handlers

import (
	"net/http"
	"strings"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/gin-gonic/gin"

	"github.com/edusarathi/content-service/internal/config"
	"github.com/edusarathi/content-service/internal/models"
)

// AuthMiddleware resolves the requesting user. When Casdoor is configured
// it validates the bearer token; otherwise identity comes from the
// X-User-ID development header.
type AuthMiddleware struct {
	client *casdoorsdk.Client
	config config.CasdoorConfig
}

func NewAuthMiddleware(cfg config.CasdoorConfig) *AuthMiddleware {
	m := &AuthMiddleware{config: cfg}
	if cfg.Enabled() {
		m.client = casdoorsdk.NewClient(
			cfg.Endpoint,
			cfg.ClientID,
			cfg.ClientSecret,
			cfg.Cert,
			cfg.Application,
			cfg.Organization,
		)
	}
	return m
}

func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	if m.client == nil {
		return m.headerAuth()
	}
	return m.casdoorAuth()
}

func (m *AuthMiddleware) casdoorAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "authorization header missing")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			abortUnauthorized(c, "invalid authorization header format")
			return
		}

		claims, err := m.client.ParseJwtToken(parts[1])
		if err != nil {
			abortUnauthorized(c, "invalid token")
			return
		}

		user := userFromClaims(claims)
		if user == nil {
			abortUnauthorized(c, "token carries no user identity")
			return
		}

		c.Set("user_id", user.ID)
		c.Set("user", user)
		c.Set("user_role", user.Role)
		c.Next()
	}
}

// headerAuth trusts the X-User-ID and X-User-Role headers. Development
// only; production deployments configure Casdoor.
func (m *AuthMiddleware) headerAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader("X-User-ID"))
		if userID == "" {
			abortUnauthorized(c, "X-User-ID header missing")
			return
		}

		role := models.UserRole(strings.TrimSpace(c.GetHeader("X-User-Role")))
		if role == "" {
			role = models.RoleTeacher
		}

		user := &models.User{ID: userID, Role: role}
		c.Set("user_id", user.ID)
		c.Set("user", user)
		c.Set("user_role", user.Role)
		c.Next()
	}
}

// RequireRole rejects requests whose user lacks all of the given roles.
// Admins pass every check.
func (m *AuthMiddleware) RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get("user_role")
		if !exists {
			abortForbidden(c, "user role not found")
			return
		}
		role, ok := value.(models.UserRole)
		if !ok {
			abortForbidden(c, "invalid user role")
			return
		}

		if role == models.RoleAdmin {
			c.Next()
			return
		}
		for _, required := range roles {
			if role == required {
				c.Next()
				return
			}
		}
		abortForbidden(c, "insufficient permissions")
	}
}

func userFromClaims(claims *casdoorsdk.Claims) *models.User {
	if claims.Id == "" {
		return nil
	}
	return &models.User{
		ID:          claims.Id,
		Name:        claims.User.Name,
		Email:       claims.User.Email,
		DisplayName: claims.User.DisplayName,
		Role:        mapCasdoorRole(claims.User.Type),
	}
}

func mapCasdoorRole(casdoorType string) models.UserRole {
	switch strings.ToLower(casdoorType) {
	case "admin", "administrator":
		return models.RoleAdmin
	case "teacher", "instructor", "educator":
		return models.RoleTeacher
	default:
		return models.RoleStudent
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
		Success: false,
		Message: message,
	})
}

func abortForbidden(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{
		Success: false,
		Message: message,
	})
}
