package security

import (
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"assetregister/internal/registry"
	"assetregister/pkg/models"
	"assetregister/pkg/roles"
)

var (
	jwtSecret     []byte
	jwtSecretOnce sync.Once
)

const tokenLifetime = 120 * time.Hour

// Loaded on first use rather than at import so tooling that never
// issues or validates tokens does not require the variable.
func getJWTSecret() []byte {
	jwtSecretOnce.Do(func() {
		secret := os.Getenv("JWT_SECRET")
		if secret == "" {
			if err := godotenv.Load(); err != nil {
				log.Printf("could not load .env: %v", err)
			}
			secret = os.Getenv("JWT_SECRET")
		}

		if secret == "" {
			log.Fatal("JWT_SECRET environment variable is not set")
		}

		jwtSecret = []byte(secret)
	})
	return jwtSecret
}

var ErrInvalidCredentials = errors.New("invalid username or password")

func AuthenticateUser(username, password string, repo *registry.Repository) (*models.User, error) {
	var user models.User

	query := repo.GoquDBWrapper.
		Select("id", "username", "fullname", "password_hash", "role").
		From("users").
		Where(goqu.Ex{"username": username})

	found, err := query.Executor().ScanStruct(&user)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}

func GenerateJWT(userID int, role roles.Role, username string) (string, error) {
	claims := jwt.MapClaims{
		"userID":   userID,
		"role":     string(role),
		"username": username,
		"exp":      time.Now().Add(tokenLifetime).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(getJWTSecret())
}

// GetUserIDFromContext returns the authenticated user's id stored by
// JWTMiddleware. Decoded JWT numbers arrive as float64.
func GetUserIDFromContext(c *gin.Context) (int, error) {
	raw, exists := c.Get("userID")
	if !exists {
		return 0, fmt.Errorf("no authenticated user in request context")
	}

	switch id := raw.(type) {
	case int:
		return id, nil
	case float64:
		return int(id), nil
	default:
		return 0, fmt.Errorf("unexpected userID claim type %T", raw)
	}
}

func GetUserRoleFromContext(c *gin.Context) (roles.Role, error) {
	raw, exists := c.Get("role")
	if !exists {
		return "", fmt.Errorf("no role in request context")
	}

	role, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("unexpected role claim type %T", raw)
	}

	return roles.Role(role), nil
}

// IsAllowed reports whether the authenticated user satisfies the required
// role. Used by handlers that combine role checks with ownership checks.
func IsAllowed(c *gin.Context, requiredRole roles.Role) bool {
	role, err := GetUserRoleFromContext(c)
	if err != nil {
		return false
	}
	return role.IsValid() && role.HasPermission(requiredRole)
}
