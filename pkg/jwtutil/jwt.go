package jwtutil

import (
	"time"

	"project-service/pkg/config"

	"github.com/golang-jwt/jwt/v4"
)

var (
	secret     = []byte("projectservicesecretkey")
	expiration = 24 * time.Hour
)

// Initialize configures the JWT utility from configuration
func Initialize(cfg *config.JWTConfig) {
	secret = []byte(cfg.SigningKey)
	if cfg.ExpirationHours > 0 {
		expiration = time.Duration(cfg.ExpirationHours) * time.Hour
	}
}

// UserClaims represents the JWT claims for user authentication
type UserClaims struct {
	Email      string `json:"email"`
	UserID     uint   `json:"user_id"`
	TenantID   *uint  `json:"tenant_id,omitempty"`   // Tenant selected by the user, absent for superusers
	TenantName string `json:"tenant_name,omitempty"` // Tenant name for convenience
	Role       string `json:"role,omitempty"`        // User's role in the current tenant
	jwt.RegisteredClaims
}

// GenerateToken creates a JWT token with user and tenant information
func GenerateToken(email string, userID uint, tenantID *uint, tenantName string, role string) (string, error) {
	claims := UserClaims{
		Email:      email,
		UserID:     userID,
		TenantID:   tenantID,
		TenantName: tenantName,
		Role:       role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateToken validates and parses the JWT token
func ValidateToken(tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrSignatureInvalid
}
