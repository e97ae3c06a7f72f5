package auth

import (
	"net/http"
	"strings"

	"github.com/saulo-duarte/learnpath-lambda/internal/config"
	"github.com/sirupsen/logrus"
)

const cookieName = "jwt"

func tokenFromRequest(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if c, err := r.Cookie(cookieName); err == nil {
		return c.Value
	}
	return ""
}

func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := config.WithContext(r.Context())

		tokenStr := tokenFromRequest(r)
		if tokenStr == "" {
			log.Warn("Request without bearer token")
			config.Error(w, http.StatusUnauthorized, "unauthorized", "")
			return
		}

		claims, err := ValidateJWT(tokenStr)
		if err != nil {
			log.WithError(err).Warn("Invalid JWT")
			config.Error(w, http.StatusUnauthorized, "invalid or expired token", "")
			return
		}

		ctx := ContextWithClaims(r.Context(), claims)
		ctx = config.WithLogFields(ctx, logrus.Fields{"user_id": claims.UserID})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
