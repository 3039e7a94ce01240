// Package middleware provides HTTP middleware for authentication.
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

// editorKey is the context key for storing the authenticated editor name.
const editorKey ContextKey = "editor"

// TokenValidator is an interface for validating JWT tokens.
// This allows the middleware to work with any JWT service implementation.
type TokenValidator interface {
	ValidateToken(tokenString string) (EditorClaims, error)
}

// EditorClaims is an interface for extracting the editor name from token
// claims. The method name deliberately avoids the jwt.Claims method set.
type EditorClaims interface {
	EditorName() string
}

// AuthMiddleware creates middleware that validates bearer tokens and adds the
// authenticated editor name to the request context.
func AuthMiddleware(jwtService TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			// Handle case-insensitive "Bearer" prefix
			parts := strings.Fields(authHeader)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			tokenString := strings.TrimSpace(parts[1])
			if tokenString == "" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			claims, err := jwtService.ValidateToken(tokenString)
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), editorKey, claims.EditorName())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetEditor extracts the authenticated editor name from the request context.
func GetEditor(r *http.Request) (string, error) {
	editor, ok := r.Context().Value(editorKey).(string)
	if !ok {
		return "", fmt.Errorf("editor not found in request context")
	}
	return editor, nil
}

// EditorKey returns the context key for the editor name (for testing purposes).
func EditorKey() ContextKey {
	return editorKey
}
