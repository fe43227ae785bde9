package docAuth

import (
	"sort"
	"strings"
)

// RouteTable maps navigation paths to access levels.
//
// Lookup tries an exact match, then the longest registered prefix that ends at
// a path-segment boundary. Unregistered paths are public so a not-found view
// can render.
type RouteTable struct {
	exact    map[string]AccessLevel
	prefixes []string
}

// NewRouteTable builds a table from path → level pairs.
func NewRouteTable(routes map[string]AccessLevel) *RouteTable {
	t := &RouteTable{exact: make(map[string]AccessLevel, len(routes))}
	for path, level := range routes {
		p := cleanRoute(path)
		t.exact[p] = level
		if p != "/" {
			t.prefixes = append(t.prefixes, p)
		}
	}
	sort.Slice(t.prefixes, func(i, j int) bool {
		return len(t.prefixes[i]) > len(t.prefixes[j])
	})
	return t
}

// DefaultRoutes returns the DocCare navigation table.
func DefaultRoutes() *RouteTable {
	return NewRouteTable(map[string]AccessLevel{
		"/":                   AccessPublic,
		"/doctors":            AccessPublic,
		"/appointments":       AccessPublic,
		"/about":              AccessPublic,
		"/contact":            AccessPublic,
		RouteLogin:            AccessPublic,
		"/my-appointments":    AccessAuthenticated,
		RouteAdmin:            AccessAdministrative,
		"/admin/users":        AccessAdministrative,
		"/admin/appointments": AccessAdministrative,
	})
}

// Level returns the access level for path.
func (t *RouteTable) Level(path string) AccessLevel {
	if t == nil {
		return AccessPublic
	}
	p := cleanRoute(path)
	if level, ok := t.exact[p]; ok {
		return level
	}
	for _, prefix := range t.prefixes {
		if strings.HasPrefix(p, prefix+"/") {
			return t.exact[prefix]
		}
	}
	return AccessPublic
}

func cleanRoute(path string) string {
	p := strings.TrimSpace(path)
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
		if p == "" {
			p = "/"
		}
	}
	return p
}
