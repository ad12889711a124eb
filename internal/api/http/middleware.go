package http

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"alumni-connect-backend/internal/config"
	"alumni-connect-backend/internal/logger"
	"alumni-connect-backend/internal/security"
)

type AuthMiddleware struct {
	tokenManager security.TokenManager
}

func NewAuthMiddleware(tm security.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokenManager: tm}
}

// Handler authenticates and authorizes requests by the security level of the
// matched route template.
func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		level := config.SecurityAdmin
		if route := mux.CurrentRoute(r); route != nil {
			if tpl, err := route.GetPathTemplate(); err == nil {
				level = config.GetSecurityLevel(tpl)
			}
		}

		// Public endpoint - skip auth
		if level == config.SecurityPublic {
			next.ServeHTTP(w, r)
			return
		}

		token, ok := extractToken(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "authorization token is not provided")
			return
		}

		claims, err := m.tokenManager.ValidateToken(token)
		if err != nil {
			logger.Warn("Rejected ops token", "path", r.URL.Path, "error", err)
			writeError(w, http.StatusUnauthorized, "invalid token: "+err.Error())
			return
		}

		if level == config.SecurityAdmin && !claims.IsAdmin() {
			writeError(w, http.StatusForbidden, "admin role required")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), claims.Actor())))
	})
}

func extractToken(r *http.Request) (string, bool) {
	token := strings.TrimSpace(r.Header.Get("Authorization"))
	if token == "" {
		return "", false
	}
	// Remove Bearer prefix if present
	if len(token) > 7 && strings.ToUpper(token[0:7]) == "BEARER " {
		token = strings.TrimSpace(token[7:])
	}
	return token, token != ""
}
