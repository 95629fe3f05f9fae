package access

import (
	"testing"

	"github.com/smileie/smileie-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var probeRoles = []model.Role{model.RoleAdmin, model.RoleDoctor, model.RolePatient, "", "superuser"}

func TestUndeclaredRouteDeniedForEveryRole(t *testing.T) {
	e := New()
	for _, route := range []string{"/unknown", "/login", "/patients/1/2/3", "/", "", "/doctorsx"} {
		for _, role := range probeRoles {
			assert.False(t, e.CanAccessRoute(route, role), "route %q role %q", route, role)
		}
	}
}

func TestUndeclaredFeatureDeniedForEveryRole(t *testing.T) {
	e := New()
	for _, f := range []model.Feature{"", "launch_rockets", "DELETE_PATIENTS"} {
		for _, role := range probeRoles {
			assert.False(t, e.CanAccessFeature(f, role), "feature %q role %q", f, role)
		}
	}
}

func TestEmptyOrUnknownRoleDenied(t *testing.T) {
	e := New()
	for _, r := range e.t.routes {
		assert.False(t, e.CanAccessRoute(r.pattern, ""))
		assert.False(t, e.CanAccessRoute(r.pattern, "root"))
	}
	for _, f := range e.t.features {
		assert.False(t, e.CanAccessFeature(f.feature, ""))
	}
	assert.Empty(t, e.AccessibleRoutes(""))
	assert.Empty(t, e.AccessibleFeatures("root"))
}

func TestAccessibleRoutesMatchesRuleSets(t *testing.T) {
	e := New()
	for _, role := range model.AllRoles {
		want := []string{}
		for _, r := range defaultRoutes {
			if r.roles.has(role) {
				want = append(want, r.pattern)
			}
		}
		got := e.AccessibleRoutes(role)
		assert.Equal(t, want, got, "role %s", role)
		for _, p := range got {
			assert.True(t, e.CanAccessRoute(p, role))
		}
	}
}

func TestAccessibleFeaturesMatchesRuleSets(t *testing.T) {
	e := New()
	for _, role := range model.AllRoles {
		want := []model.Feature{}
		for _, f := range defaultFeatures {
			if f.roles.has(role) {
				want = append(want, f.feature)
			}
		}
		assert.Equal(t, want, e.AccessibleFeatures(role), "role %s", role)
	}
}

func TestAccessibleRoutesStableOrder(t *testing.T) {
	e := New()
	first := e.AccessibleRoutes(model.RoleAdmin)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, e.AccessibleRoutes(model.RoleAdmin))
	}
	assert.Equal(t, model.RouteDashboard, first[0])
}

func TestRouteTemplates(t *testing.T) {
	e := New()
	tests := []struct {
		name  string
		route string
		role  model.Role
		want  bool
	}{
		{"doctor opens patient detail", "/patients/42", model.RoleDoctor, true},
		{"patient cannot open patient detail", "/patients/42", model.RolePatient, false},
		{"treatment plan wizard", "/patients/42/treatment-plan", model.RoleDoctor, true},
		{"trailing slash", "/patients/", model.RoleDoctor, true},
		{"query string", "/orders?status=open", model.RoleDoctor, true},
		{"doctor detail admin only", "/doctors/7", model.RoleDoctor, false},
		{"admin doctor detail", "/doctors/7", model.RoleAdmin, true},
		{"empty placeholder", "/patients//treatment-plan", model.RoleAdmin, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, e.CanAccessRoute(tc.route, tc.role))
		})
	}
}

func TestLiteralRuleWinsOverTemplate(t *testing.T) {
	tbl, err := newTable([]routeRule{
		route("/patients/:id", model.RoleAdmin),
		route("/patients/new", model.RoleDoctor),
	}, nil)
	require.NoError(t, err)
	e := &Evaluator{t: tbl}

	assert.True(t, e.CanAccessRoute("/patients/new", model.RoleDoctor))
	assert.False(t, e.CanAccessRoute("/patients/new", model.RoleAdmin))
	assert.True(t, e.CanAccessRoute("/patients/9", model.RoleAdmin))
}

func TestDuplicateRulesRejected(t *testing.T) {
	_, err := newTable([]routeRule{route("/a", model.RoleAdmin), route("/a/", model.RoleDoctor)}, nil)
	assert.Error(t, err)

	_, err = newTable(nil, []featureRule{
		feature(model.FeatureViewReports, model.RoleAdmin),
		feature(model.FeatureViewReports, model.RoleDoctor),
	})
	assert.Error(t, err)
}

func TestDeletePatientsFeature(t *testing.T) {
	e := New()
	assert.True(t, e.CanAccessFeature(model.FeatureDeletePatients, model.RoleAdmin))
	assert.False(t, e.CanAccessFeature(model.FeatureDeletePatients, model.RoleDoctor))
}

func TestLandingRouteIsReachable(t *testing.T) {
	e := New()
	assert.Equal(t, model.RoutePatients, e.LandingRoute(model.RoleDoctor))
	assert.Equal(t, model.RouteDashboard, e.LandingRoute(model.RoleAdmin))
	for _, role := range model.AllRoles {
		assert.True(t, e.CanAccessRoute(e.LandingRoute(role), role), "landing of %s", role)
	}
}

func TestNormalizePath(t *testing.T) {
	assert.Equal(t, "/", normalizePath(""))
	assert.Equal(t, "/", normalizePath("/"))
	assert.Equal(t, "/patients", normalizePath("patients"))
	assert.Equal(t, "/patients/1", normalizePath("/patients/1///?x=1#top"))
}
