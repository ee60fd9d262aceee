package guard

// Route describes the authorization requirements of a navigable route.
// Immutable; defined with the route table.
type Route struct {
	Path          string
	Name          string
	RequiresAuth  bool
	RequiresAdmin bool
}

// Table maps paths to route descriptors and knows the two special routes
// the guard redirects to.
type Table struct {
	routes    map[string]Route
	loginPath string
	homePath  string
}

// NewTable builds a table from route descriptors.
func NewTable(loginPath, homePath string, routes ...Route) *Table {
	t := &Table{
		routes:    make(map[string]Route, len(routes)),
		loginPath: loginPath,
		homePath:  homePath,
	}
	for _, r := range routes {
		t.routes[r.Path] = r
	}
	return t
}

// DefaultTable mirrors the Memo AI Coach route map: public home and login,
// authenticated writing/feedback views, admin-only management views.
func DefaultTable() *Table {
	return NewTable("/login", "/",
		Route{Path: "/", Name: "Home"},
		Route{Path: "/login", Name: "Login"},
		Route{Path: "/text-input", Name: "TextInput", RequiresAuth: true},
		Route{Path: "/overall-feedback", Name: "OverallFeedback", RequiresAuth: true},
		Route{Path: "/detailed-feedback", Name: "DetailedFeedback", RequiresAuth: true},
		Route{Path: "/help", Name: "Help", RequiresAuth: true},
		Route{Path: "/admin", Name: "Admin", RequiresAuth: true, RequiresAdmin: true},
		Route{Path: "/last-evaluation", Name: "LastEvaluation", RequiresAuth: true, RequiresAdmin: true},
		Route{Path: "/debug", Name: "Debug", RequiresAuth: true, RequiresAdmin: true},
	)
}

// Route looks up the descriptor for a path. Unknown paths return a zero
// descriptor: no requirements, so the guard allows them.
func (t *Table) Route(path string) Route {
	return t.routes[path]
}

// LoginPath returns the login route path.
func (t *Table) LoginPath() string {
	return t.loginPath
}

// HomePath returns the home route path.
func (t *Table) HomePath() string {
	return t.homePath
}
