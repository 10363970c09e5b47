package middleware

import (
	"net/http"
	"strings"
)

// Rule marks requests that may proceed without a session. An empty Method
// matches any method; Prefix matches the path and everything below it.
type Rule struct {
	Method string
	Path   string
	Prefix bool
}

// Policy is the single allow-list consulted for every request. Anything not
// matched requires a valid session.
type Policy struct {
	public []Rule
}

func NewPolicy(public ...Rule) Policy {
	return Policy{public: public}
}

// DefaultPolicy leaves auth routes, the login/register/home pages, the health
// check and the read-only video feed open. Creating and deleting videos
// always needs a session.
func DefaultPolicy() Policy {
	return NewPolicy(
		Rule{Path: "/api/auth", Prefix: true},
		Rule{Path: "/login"},
		Rule{Path: "/register"},
		Rule{Path: "/"},
		Rule{Method: http.MethodGet, Path: "/healthz"},
		Rule{Method: http.MethodGet, Path: "/api/video/list"},
		Rule{Method: http.MethodGet, Path: "/api/videos"},
	)
}

func (p Policy) IsPublic(method, path string) bool {
	for _, rule := range p.public {
		if rule.matches(method, path) {
			return true
		}
	}
	return false
}

func (r Rule) matches(method, path string) bool {
	if r.Method != "" && r.Method != method {
		return false
	}
	if path == r.Path {
		return true
	}
	return r.Prefix && strings.HasPrefix(path, strings.TrimSuffix(r.Path, "/")+"/")
}
