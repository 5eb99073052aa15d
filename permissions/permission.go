package permissions

import (
	_ "embed"
	"encoding/json"
	"strings"

	"github.com/rs/zerolog/log"
)

const anyMethod = "*"

//go:embed permissions.json
var permissionsData []byte

// Permission describes one route. Skipped routes are public: a bearer token is still read when
// sent so the caller's own bookings can be taken into account, but it is not required.
type Permission struct {
	Path   string `json:"path"`
	Method string `json:"method"`
	Skip   bool   `json:"skip"`
}

// PermissionData is the decoded permissions.json. Skip is the answer for routes it does not list.
type PermissionData struct {
	Endpoints []Permission `json:"endpoints"`
	Skip      bool         `json:"skip"`

	index map[string]Permission
}

func routeKey(method, path string) string {
	return strings.ToUpper(method) + " " + path
}

// Parse decodes a permissions document and indexes it by method and route pattern. An entry with
// method "*" covers every method of its path unless a method specific entry exists.
func Parse(raw []byte) (*PermissionData, error) {
	var data PermissionData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}

	data.index = make(map[string]Permission, len(data.Endpoints))
	for _, endpoint := range data.Endpoints {
		data.index[routeKey(endpoint.Method, endpoint.Path)] = endpoint
	}

	return &data, nil
}

// FindPermissions looks up a chi route pattern such as "/v1/spaces/{id}/slots".
func (r *PermissionData) FindPermissions(path, method string) Permission {
	if found, ok := r.index[routeKey(method, path)]; ok {
		return found
	}

	if found, ok := r.index[routeKey(anyMethod, path)]; ok {
		found.Method = method

		return found
	}

	return Permission{Path: path, Method: method, Skip: r.Skip}
}

// Get returns the embedded permissions, or nil when the document is broken.
func Get() *PermissionData {
	data, err := Parse(permissionsData)
	if err != nil {
		log.Err(err).Msg("Failed to decode embedded permissions")

		return nil
	}

	log.Info().Int("endpoints", len(data.Endpoints)).Msg("Successfully loaded embedded permissions")

	return data
}
