package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const ownerIDKey = "owner_id"

// GenerateToken creates a bearer token for an account owner. Tokens are
// normally issued by the identity surface; this helper exists for tools
// and tests.
func GenerateToken(ownerID uuid.UUID, secret string) (string, error) {
	claims := jwt.MapClaims{
		"owner_id": ownerID.String(),
		"exp":      time.Now().Add(24 * time.Hour).Unix(),
		"iat":      time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken validates a token and extracts the owner ID claim.
func ParseToken(tokenStr, secret string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	if !token.Valid {
		return uuid.Nil, jwt.ErrTokenInvalidClaims
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, jwt.ErrTokenMalformed
	}

	ownerStr, ok := claims["owner_id"].(string)
	if !ok {
		return uuid.Nil, jwt.ErrTokenMalformed
	}

	ownerID, err := uuid.Parse(ownerStr)
	if err != nil {
		return uuid.Nil, jwt.ErrTokenMalformed
	}
	return ownerID, nil
}

func extractToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if auth == "" {
		return ""
	}

	parts := strings.Split(auth, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return parts[1]
}

// AuthMiddleware requires a valid bearer token and stores the caller's
// owner ID on the request context.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := extractToken(c)
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		ownerID, err := ParseToken(tokenStr, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(ownerIDKey, ownerID)
		c.Next()
	}
}

func callerOwnerID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(ownerIDKey)
	if !exists {
		return uuid.Nil, false
	}
	ownerID, ok := v.(uuid.UUID)
	return ownerID, ok
}
