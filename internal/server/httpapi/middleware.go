package httpapi

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/panvault/internal/common"
	"github.com/dmitrijs2005/panvault/internal/server/auth"
)

type ctxKey string

const claimsKey ctxKey = "claims"

// ClaimsFromContext retrieves the verified claims stored by withAuth.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*auth.Claims)
	return claims, ok
}

// authenticate extracts and verifies the bearer token. A missing token and
// an invalid/expired one are distinct failures internally but both surface
// to the client as a 401 without detail.
func (s *HTTPServer) authenticate(r *http.Request) (*auth.Claims, error) {
	token := auth.ExtractBearerToken(r)
	if token == "" {
		return nil, common.ErrorUnauthorized
	}

	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// withAuth gates a handler behind token verification and stores the claims
// in the request context.
func (s *HTTPServer) withAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := s.authenticate(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
	}
}

// withRole gates a handler behind token verification plus a role check.
// Authentication failures take priority over the role mismatch.
func (s *HTTPServer) withRole(role string, next http.HandlerFunc) http.HandlerFunc {
	return s.withAuth(func(w http.ResponseWriter, r *http.Request) {
		claims, _ := ClaimsFromContext(r.Context())
		if claims.Role != role {
			s.writeError(w, r, common.ErrorForbidden)
			return
		}
		next(w, r)
	})
}
