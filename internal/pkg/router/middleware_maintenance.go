package router

import (
	"net/http"
	"strings"

	"github.com/shandysiswandi/otpgate/internal/pkg/config"
)

// middlewareMaintenance blocks routes listed under app.maintenance.endpoints.
// The list is read per request so a live config reload takes effect without
// a restart.
func middlewareMaintenance(cfg config.Config) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg != nil && blockedRoute(cfg, matchedRoutePath(r)) {
				writeJSON(w, errorResponse{Message: "service is under maintenance"}, http.StatusServiceUnavailable)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func blockedRoute(cfg config.Config, route string) bool {
	for _, endpoint := range cfg.GetArray("app.maintenance.endpoints") {
		if strings.TrimSpace(endpoint) == route && route != "" {
			return true
		}
	}
	return false
}
