package access

import "github.com/smileie/smileie-backend/internal/model"

var (
	admin   = model.RoleAdmin
	doctor  = model.RoleDoctor
	patient = model.RolePatient
)

// Routes and features are maintained as two independent tables. Some screens
// are gated by a route rule and their actions by a feature rule for what is
// conceptually the same permission; the two are not reconciled here.
var defaultRoutes = []routeRule{
	route(model.RouteDashboard, admin, patient),
	route(model.RoutePatients, admin, doctor),
	route(model.RoutePatientDetail, admin, doctor),
	route(model.RoutePatientTreatment, admin, doctor),
	route(model.RouteDoctors, admin),
	route(model.RouteDoctorDetail, admin),
	route(model.RouteOrders, admin, doctor),
	route(model.RouteOrderDetail, admin, doctor),
	route(model.RouteSettings, admin),
	route(model.RouteSettingsProfile, admin, doctor, patient),
	route(model.RouteNotifications, admin, doctor, patient),
	route(model.RouteReports, admin),
	route(model.RouteUsers, admin),
}

var defaultFeatures = []featureRule{
	feature(model.FeatureViewPatients, admin, doctor),
	feature(model.FeatureCreatePatients, admin, doctor),
	feature(model.FeatureEditPatients, admin, doctor),
	feature(model.FeatureDeletePatients, admin),
	feature(model.FeatureApproveTreatmentPlan, doctor),
	feature(model.FeatureChatPatients, admin, doctor),
	feature(model.FeatureCreateDoctors, admin),
	feature(model.FeatureDeleteDoctors, admin),
	feature(model.FeatureManageOrders, admin, doctor),
	feature(model.FeatureSendNotifications, admin),
	feature(model.FeatureManageSettings, admin),
	feature(model.FeatureManageUsers, admin),
	feature(model.FeatureViewReports, admin),
}

var defaultTable = mustTable(defaultRoutes, defaultFeatures)
