package mwauth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"ticketing/internal/lib/api/response"
	"ticketing/internal/lib/jwt"
	"ticketing/internal/lib/logger/sl"
	"ticketing/internal/models"
)

type ctxKey struct{}

func WithIdentity(ctx context.Context, id models.Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// IdentityFromContext returns the caller stored by VerifyToken.
func IdentityFromContext(ctx context.Context) (models.Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(models.Identity)
	return id, ok
}

// VerifyToken rejects requests without a bearer token with 401 and requests
// with an invalid or expired token with 403.
func VerifyToken(log *slog.Logger, secret string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		log := log.With(
			slog.String("component", "middleware/auth"),
		)

		fn := func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || strings.TrimSpace(token) == "" {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("authorization token is required"))
				return
			}

			id, err := jwt.Parse(strings.TrimSpace(token), secret)
			if err != nil {
				log.Debug("token rejected",
					slog.String("request_id", middleware.GetReqID(r.Context())),
					sl.Err(err),
				)
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("invalid or expired token"))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		}

		return http.HandlerFunc(fn)
	}
}

// RequireRoles lets the request through only when the caller has one of roles.
// It must run after VerifyToken.
func RequireRoles(roles ...models.Role) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFromContext(r.Context())
			if !ok {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("authorization token is required"))
				return
			}

			for _, role := range roles {
				if id.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			render.Status(r, http.StatusForbidden)
			render.JSON(w, r, response.Error("access denied"))
		}

		return http.HandlerFunc(fn)
	}
}
