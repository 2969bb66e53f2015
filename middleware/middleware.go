package middleware

import (
	"context"
	"fmt"
	"net/http"
	"slices"

	"retailpro/globals"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
)

// JWT claims
type Claims struct {
	Username string   `json:"username"`
	UserID   string   `json:"userId"`
	Role     []string `json:"role"`
	jwt.RegisteredClaims
}

// Auth validates bearer tokens. The secret comes from config; nothing
// here is package-global.
type Auth struct {
	Secret []byte
}

func NewAuth(secret []byte) *Auth {
	return &Auth{Secret: secret}
}

// Authenticate requires a valid bearer token and stashes the user id and
// roles in the request context.
func (a *Auth) Authenticate(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		claims, err := a.claimsFromRequest(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), globals.UserIDKey, claims.UserID)
		ctx = context.WithValue(ctx, globals.RoleKey, claims.Role)
		next(w, r.WithContext(ctx), ps)
	}
}

// AdminOnly requires a valid token whose roles include "admin".
func (a *Auth) AdminOnly(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		claims, err := a.claimsFromRequest(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		if !slices.Contains(claims.Role, "admin") {
			http.Error(w, "Admin access required", http.StatusForbidden)
			return
		}

		ctx := context.WithValue(r.Context(), globals.UserIDKey, claims.UserID)
		ctx = context.WithValue(ctx, globals.RoleKey, claims.Role)
		next(w, r.WithContext(ctx), ps)
	}
}

// OptionalAuth stashes the user id when a valid token is present and
// proceeds either way.
func (a *Auth) OptionalAuth(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if claims, err := a.claimsFromRequest(r); err == nil {
			ctx := context.WithValue(r.Context(), globals.UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, globals.RoleKey, claims.Role)
			r = r.WithContext(ctx)
		}
		next(w, r, ps)
	}
}

func (a *Auth) claimsFromRequest(r *http.Request) (*Claims, error) {
	tokenString := r.Header.Get("Authorization")
	if tokenString == "" {
		return nil, fmt.Errorf("Missing token")
	}
	if len(tokenString) < 8 || tokenString[:7] != "Bearer " {
		return nil, fmt.Errorf("Invalid token format")
	}
	return a.ValidateJWT(tokenString[7:])
}

// ValidateJWT parses a raw token string (without the Bearer prefix).
func (a *Auth) ValidateJWT(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return a.Secret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("Invalid token")
	}
	return claims, nil
}
