// Package auth implements the stateless session-token service: HS256 JWTs
// carrying account identity and role, plus bearer extraction from HTTP
// requests. Verification never touches the database.
package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/panvault/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenValidity is the absolute token lifetime used unless
// configured otherwise.
const DefaultTokenValidity = 7 * 24 * time.Hour

// Claims are the identity facts embedded in a session token. Nothing
// sensitive beyond these three fields is ever included.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// GenerateToken signs a token asserting {userID, email, role} with an
// absolute expiry of validityDuration from now.
func GenerateToken(userID, email, role string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID: userID,
		Email:  email,
		Role:   role,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies the signature and expiry and returns the claims.
// Expired tokens yield common.ErrTokenExpired; anything else wrong with the
// token yields common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			return secretKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
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

// ExtractBearerToken pulls the token from the Authorization header.
// Absence or a non-Bearer scheme is not an error at this layer; it just
// returns "".
func ExtractBearerToken(r *http.Request) string {
	header := r.Header.Get(common.AuthorizationHeaderName)
	if header == "" {
		return ""
	}
	if !strings.HasPrefix(header, common.BearerPrefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, common.BearerPrefix))
}
