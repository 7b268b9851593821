package tinyweb

// Route binds an exact request path to an API callback.
type Route struct {
	Path    string
	Handler HandlerFunc
}

// RouteTable holds the registered API routes, one ordered list per method.
// It is populated before serving and only read afterwards.
type RouteTable struct {
	gets    []Route
	puts    []Route
	posts   []Route
	deletes []Route
}

// Set replaces the routes for method. Paths are stored through RoutePath.
func (t *RouteTable) Set(method Method, routes ...Route) {
	normalized := make([]Route, len(routes))
	for i, r := range routes {
		normalized[i] = Route{Path: RoutePath(r.Path), Handler: r.Handler}
	}

	switch method {
	case MethodGet:
		t.gets = normalized
	case MethodPut:
		t.puts = normalized
	case MethodPost:
		t.posts = normalized
	case MethodDelete:
		t.deletes = normalized
	}
}

// Routes returns the registered routes for method in registration order.
func (t *RouteTable) Routes(method Method) []Route {
	switch method {
	case MethodGet:
		return t.gets
	case MethodPut:
		return t.puts
	case MethodPost:
		return t.posts
	case MethodDelete:
		return t.deletes
	default:
		return nil
	}
}

// Lookup scans the routes for method and returns the first whose stored
// path equals path exactly.
func (t *RouteTable) Lookup(method Method, path string) (Route, bool) {
	for _, r := range t.Routes(method) {
		if r.Path == path {
			return r, true
		}
	}
	return Route{}, false
}
