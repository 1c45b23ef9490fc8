package middleware

import (
	"net/http"
	"strings"

	"github.com/mvalverde/imageflow-backend/api/responses"
	pkgAuth "github.com/mvalverde/imageflow-backend/pkg/auth"
	pkgerrors "github.com/mvalverde/imageflow-backend/pkg/errors"
	"github.com/mvalverde/imageflow-backend/pkg/logger"
)

const tokenHeader = "X-Token"

// Auth reads the X-Token header, decodes the claims, and seeds the request
// context. The token is only parsed, not cryptographically verified: the
// previous backend behaved this way and its clients are validated against
// that contract during migration.
func Auth(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimSpace(r.Header.Get(tokenHeader))
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "token missing or invalid"))
				return
			}

			claims, err := pkgAuth.ParseUnverified(token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "token missing or invalid"))
				return
			}

			ctx := WithClaims(r.Context(), claims)
			if logg != nil {
				if id, ok := claims.UserIDInt(); ok {
					ctx = logg.WithUserID(ctx, id)
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
