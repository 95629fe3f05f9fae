package model

// Dashboard screen routes. Placeholders use the ":name" form.
const (
	RouteLogin            = "/login"
	RouteDashboard        = "/dashboard"
	RoutePatients         = "/patients"
	RoutePatientDetail    = "/patients/:id"
	RoutePatientTreatment = "/patients/:id/treatment-plan"
	RouteDoctors          = "/doctors"
	RouteDoctorDetail     = "/doctors/:id"
	RouteOrders           = "/orders"
	RouteOrderDetail      = "/orders/:id"
	RouteSettings         = "/settings"
	RouteSettingsProfile  = "/settings/profile"
	RouteNotifications    = "/notifications"
	RouteReports          = "/reports"
	RouteUsers            = "/users"
)
