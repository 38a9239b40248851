// Package auth issues and validates the HS256 tokens carried by resident
// and admin sessions.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/anshthakare16/sai-sillicon-valley/internal/common"
)

// Role tags a session as guard, resident or admin. Guards are not
// individually authenticated; their stations act under a shared identity.
type Role string

const (
	RoleResident Role = "resident"
	RoleAdmin    Role = "admin"
)

// Claims carries the subject identity and role on top of the registered
// claim set.
type Claims struct {
	jwt.RegisteredClaims
	SubjectID string `json:"sub_id"`
	Role      Role   `json:"role"`
}

func GenerateToken(subjectID string, role Role, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		SubjectID: subjectID,
		Role:      role,
	})

	return token.SignedString(secretKey)
}

// ParseToken returns the claims of a valid token. Expired tokens map to
// common.ErrTokenExpired so callers can trigger a refresh.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
