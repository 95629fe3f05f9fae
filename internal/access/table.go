package access

import (
	"fmt"

	"github.com/smileie/smileie-backend/internal/model"
)

type roleSet map[model.Role]struct{}

func newRoleSet(roles ...model.Role) roleSet {
	s := make(roleSet, len(roles))
	for _, r := range roles {
		s[r] = struct{}{}
	}
	return s
}

func (s roleSet) has(r model.Role) bool {
	_, ok := s[r]
	return ok
}

type routeRule struct {
	pattern  string
	segments []string
	template bool
	roles    roleSet
}

type featureRule struct {
	feature model.Feature
	roles   roleSet
}

func route(pattern string, roles ...model.Role) routeRule {
	p := normalizePath(pattern)
	segs := splitPath(p)
	return routeRule{pattern: p, segments: segs, template: isTemplate(segs), roles: newRoleSet(roles...)}
}

func feature(f model.Feature, roles ...model.Role) featureRule {
	return featureRule{feature: f, roles: newRoleSet(roles...)}
}

// table holds the two static rule lists in declaration order. It is never
// handed out of the package; callers go through Evaluator.
type table struct {
	routes       []routeRule
	literalIndex map[string]int
	features     []featureRule
	featureIndex map[model.Feature]int
}

func newTable(routes []routeRule, features []featureRule) (*table, error) {
	t := &table{
		routes:       routes,
		literalIndex: make(map[string]int, len(routes)),
		features:     features,
		featureIndex: make(map[model.Feature]int, len(features)),
	}

	seen := make(map[string]struct{}, len(routes))
	for i, r := range routes {
		if _, dup := seen[r.pattern]; dup {
			return nil, fmt.Errorf("duplicate route rule %q", r.pattern)
		}
		seen[r.pattern] = struct{}{}
		if !r.template {
			t.literalIndex[r.pattern] = i
		}
	}

	for i, f := range features {
		if _, dup := t.featureIndex[f.feature]; dup {
			return nil, fmt.Errorf("duplicate feature rule %q", f.feature)
		}
		t.featureIndex[f.feature] = i
	}

	return t, nil
}

func mustTable(routes []routeRule, features []featureRule) *table {
	t, err := newTable(routes, features)
	if err != nil {
		panic(err)
	}
	return t
}

// rolesForRoute returns the role set of the rule covering path. A literal
// rule wins over templates; among templates the first declared match wins.
func (t *table) rolesForRoute(path string) (roleSet, bool) {
	p := normalizePath(path)
	if i, ok := t.literalIndex[p]; ok {
		return t.routes[i].roles, true
	}

	segs := splitPath(p)
	for _, r := range t.routes {
		if r.template && matchSegments(r.segments, segs) {
			return r.roles, true
		}
	}
	return nil, false
}

func (t *table) rolesForFeature(f model.Feature) (roleSet, bool) {
	i, ok := t.featureIndex[f]
	if !ok {
		return nil, false
	}
	return t.features[i].roles, true
}
