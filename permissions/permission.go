package permissions

import (
	_ "embed"
	"encoding/json"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
)

//go:embed permissions.json
var permissionsData []byte

// Endpoint lists the permissions, any one of which unlocks a route.
type Endpoint struct {
	Permissions []Permission `json:"permissions"`
	Path        string       `json:"path"`
	Method      string       `json:"method"`
	Skip        bool         `json:"skip"`
	// APIKey admits callers that present the service API key instead of a session.
	APIKey bool `json:"api_key"`
}

// Allows reports whether a caller holding granted may use the endpoint.
func (e Endpoint) Allows(granted func(Permission) bool) bool {
	if e.Skip || len(e.Permissions) == 0 {
		return true
	}

	return slices.ContainsFunc(e.Permissions, granted)
}

type PermissionData struct {
	Endpoints []Endpoint `json:"endpoints"`
	Skip      bool       `json:"skip"`
}

func normalizePath(path string) string {
	if len(path) > 1 {
		return strings.TrimSuffix(path, "/")
	}

	return path
}

// FindPermissions looks up the endpoint registered for a route pattern and method.
// It reports false when the route is not listed.
func (r *PermissionData) FindPermissions(path, method string) (Endpoint, bool) {
	path = normalizePath(path)

	idx := slices.IndexFunc(r.Endpoints, func(rp Endpoint) bool {
		return normalizePath(rp.Path) == path && strings.EqualFold(rp.Method, method)
	})

	if idx == -1 {
		return Endpoint{}, false
	}

	return r.Endpoints[idx], true
}

func Get() *PermissionData {
	var permissions PermissionData

	err := json.Unmarshal(permissionsData, &permissions)
	if err != nil {
		log.Err(err).Msg("Failed to decode embedded permissions")

		return nil
	}

	log.Info().Int("endpoints", len(permissions.Endpoints)).Msg("Successfully loaded embedded permissions")

	return &permissions
}
