// Package permissions loads the per-route role table embedded from permissions.json.
package permissions

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"salon/shared/constant"
	"slices"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

//go:embed permissions.json
var permissionsData []byte

var knownRoles = []string{constant.RoleSuperAdmin, constant.RoleAdmin, constant.RoleStaff, constant.RoleCustomer}

// Permission lists the roles allowed on one route. Skip makes the route public.
type Permission struct {
	Permissions []string `json:"permissions"`
	Path        string   `json:"path"`
	Method      string   `json:"method"`
	Skip        bool     `json:"skip"`
}

// PermissionData is the whole table. Skip at this level disables role checks everywhere.
type PermissionData struct {
	Endpoints []Permission `json:"endpoints"`
	Skip      bool         `json:"skip"`

	byRoute map[string]int
}

// routeKey ignores a trailing slash, so chi's "/v1/bookings/" finds "/v1/bookings".
func routeKey(method, path string) string {
	if path != "/" {
		path = strings.TrimSuffix(path, "/")
	}

	return method + " " + path
}

// FindPermissions matches a chi route pattern. Unknown routes get the zero Permission.
func (r *PermissionData) FindPermissions(path, method string) Permission {
	idx, ok := r.byRoute[routeKey(method, path)]
	if !ok {
		return Permission{}
	}

	return r.Endpoints[idx]
}

// Parse decodes and indexes a table. Duplicate routes and unknown roles are rejected.
func Parse(data []byte) (*PermissionData, error) {
	var table PermissionData

	if err := json.Unmarshal(data, &table); err != nil {
		return nil, errors.Wrap(err, "decode permissions")
	}

	table.byRoute = make(map[string]int, len(table.Endpoints))

	for i, endpoint := range table.Endpoints {
		key := routeKey(endpoint.Method, endpoint.Path)
		if _, dup := table.byRoute[key]; dup {
			return nil, fmt.Errorf("duplicate permission entry for %s", key)
		}

		for _, role := range endpoint.Permissions {
			if !slices.Contains(knownRoles, role) {
				return nil, fmt.Errorf("unknown role %q on %s", role, key)
			}
		}

		table.byRoute[key] = i
	}

	return &table, nil
}

// Get returns the embedded table, or nil when it cannot be parsed. RBAC denies everything on nil.
func Get() *PermissionData {
	table, err := Parse(permissionsData)
	if err != nil {
		log.Err(err).Msg("failed to load embedded permissions")

		return nil
	}

	log.Info().Int("endpoints", len(table.Endpoints)).Msg("loaded embedded permissions")

	return table
}
