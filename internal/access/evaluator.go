// Package access decides which dashboard routes and features a role may use.
//
// Every check goes through Evaluator. The rule tables are unexported so no
// other package can inspect them and grow a second, divergent copy of the
// deny-by-default policy.
package access

import "github.com/smileie/smileie-backend/internal/model"

// Evaluator answers access questions against a static rule table.
// It is immutable and safe for concurrent use.
type Evaluator struct {
	t *table
}

// New returns an Evaluator over the built-in dashboard rules.
func New() *Evaluator {
	return &Evaluator{t: defaultTable}
}

// CanAccessRoute reports whether role may open route. Unknown roles, routes
// without a rule, and roles outside the rule's set are all denied.
func (e *Evaluator) CanAccessRoute(route string, role model.Role) bool {
	if !role.Valid() {
		return false
	}
	roles, ok := e.t.rolesForRoute(route)
	if !ok {
		return false
	}
	return roles.has(role)
}

// CanAccessFeature reports whether role may use feature, with the same
// fail-closed semantics as CanAccessRoute.
func (e *Evaluator) CanAccessFeature(feature model.Feature, role model.Role) bool {
	if !role.Valid() {
		return false
	}
	roles, ok := e.t.rolesForFeature(feature)
	if !ok {
		return false
	}
	return roles.has(role)
}

// AccessibleRoutes lists the route patterns open to role, in declaration order.
func (e *Evaluator) AccessibleRoutes(role model.Role) []string {
	routes := make([]string, 0, len(e.t.routes))
	if !role.Valid() {
		return routes
	}
	for _, r := range e.t.routes {
		if r.roles.has(role) {
			routes = append(routes, r.pattern)
		}
	}
	return routes
}

// AccessibleFeatures lists the features open to role, in declaration order.
func (e *Evaluator) AccessibleFeatures(role model.Role) []model.Feature {
	features := make([]model.Feature, 0, len(e.t.features))
	if !role.Valid() {
		return features
	}
	for _, f := range e.t.features {
		if f.roles.has(role) {
			features = append(features, f.feature)
		}
	}
	return features
}

// LandingRoute is where a role is sent when it opens a route it may not use.
func (e *Evaluator) LandingRoute(role model.Role) string {
	if role == model.RoleDoctor {
		return model.RoutePatients
	}
	return model.RouteDashboard
}
