package middleware

import (
	"net/http"

	"github.com/angelmondragon/webtheme-backend/api/responses"
	"github.com/angelmondragon/webtheme-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/webtheme-backend/pkg/errors"
	"github.com/angelmondragon/webtheme-backend/pkg/logger"
)

// RequireWriter rejects callers whose role may only read the theme.
func RequireWriter(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, err := enums.ParseEditorRole(RoleFromContext(r.Context()))
			if err != nil || !role.CanWrite() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "editor role required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
