package middlewares

import (
	"fmt"
	"time"

	"eventgo/src/types"

	"github.com/golang-jwt/jwt/v4"
)

// GenerateJWT signs a short-lived token for an already-verified identity.
// Issuing identities (registration, password checks) lives outside this
// service; tokens are always HMAC-signed, never the alg=none variety.
func GenerateJWT(email string, id uint, role types.Role) (string, error) {
	claims := types.Claims{
		Username: email,
		Role:     string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(id),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims)
	return token.SignedString(jwtKey)
}
