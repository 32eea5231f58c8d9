package handlers

import (
	"net/http"
	"strconv"

	"fixiBack/internal/identity"
	"fixiBack/internal/models"
)

// getParam reads a route parameter. pat stores captures in the query
// string with a leading colon.
func getParam(r *http.Request, name string) string {
	if val := r.URL.Query().Get(":" + name); val != "" {
		return val
	}
	return r.PathValue(name)
}

func pathID(r *http.Request, name string) (int, error) {
	id, err := strconv.Atoi(getParam(r, name))
	if err != nil || id <= 0 {
		return 0, models.InvalidInput("invalid %s", name)
	}
	return id, nil
}

func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, models.InvalidInput("invalid %s", name)
	}
	return v, nil
}

// pagination reads skip and limit. Range clamping happens in the services.
func pagination(r *http.Request) (int, int, error) {
	skip, err := queryInt(r, "skip", 0)
	if err != nil {
		return 0, 0, err
	}
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		return 0, 0, err
	}
	return skip, limit, nil
}

func principalFrom(r *http.Request) (models.Principal, error) {
	p, ok := identity.FromContext(r.Context())
	if !ok {
		return models.Principal{}, models.Unauthorized("authentication required")
	}
	return p, nil
}
