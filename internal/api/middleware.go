package api

import (
	"log/slog"
	"net/http"

	"github.com/yousuf64/shift"

	"scamscope/internal/auth"
)

// adminOnly rejects requests that do not carry the admin identity
func (a *API) adminOnly(next shift.HandlerFunc) shift.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, route shift.Route) error {
		if a.authSvc == nil || !a.authSvc.IsAdmin(r) {
			a.log.Warn("Rejected admin request",
				slog.String("path", r.URL.Path),
				slog.String("identity", auth.Identity(r)))
			http.Error(w, "forbidden", http.StatusForbidden)
			return nil
		}
		return next(w, r, route)
	}
}
