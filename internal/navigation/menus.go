package navigation

import "github.com/smileie/smileie-backend/internal/model"

// Static chrome descriptors. They are never mutated; FilterForRole copies.

var headerMenu = []model.MenuEntry{
	{ID: "dashboard", Label: "Dashboard", URL: model.RouteDashboard, Icon: "home"},
	{ID: "patients", Label: "Patients", URL: model.RoutePatients, Icon: "users"},
	{ID: "doctors", Label: "Doctors", URL: model.RouteDoctors, Icon: "stethoscope"},
	{ID: "orders", Label: "Orders", URL: model.RouteOrders, Icon: "package"},
	{ID: "reports", Label: "Reports", URL: model.RouteReports, Icon: "bar-chart"},
}

var headerRightMenu = []model.MenuEntry{
	{ID: "notifications", Label: "Notifications", URL: model.RouteNotifications, Icon: "bell"},
	{ID: "new-patient", Label: "New patient", Icon: "user-plus", Feature: model.FeatureCreatePatients},
	{ID: "account", Label: "Account", Icon: "user", Children: []model.MenuEntry{
		{ID: "profile", Label: "My profile", URL: model.RouteSettingsProfile},
		{ID: "settings", Label: "Settings", URL: model.RouteSettings},
		{ID: "users", Label: "Users", URL: model.RouteUsers},
	}},
}

var sidebarMenu = []model.MenuEntry{
	{ID: "dashboard", Label: "Dashboard", URL: model.RouteDashboard, Icon: "home"},
	{ID: "patients", Label: "Patients", Icon: "users", Children: []model.MenuEntry{
		{ID: "patients-all", Label: "All patients", URL: model.RoutePatients},
		{ID: "patients-new", Label: "Add patient", Feature: model.FeatureCreatePatients},
	}},
	{ID: "doctors", Label: "Doctors", URL: model.RouteDoctors, Icon: "stethoscope", Children: []model.MenuEntry{
		{ID: "doctors-new", Label: "Add doctor", Feature: model.FeatureCreateDoctors},
	}},
	{ID: "orders", Label: "Orders", URL: model.RouteOrders, Icon: "package"},
	{ID: "notifications", Label: "Notifications", URL: model.RouteNotifications, Icon: "bell"},
	{ID: "broadcast", Label: "Send notification", Icon: "send", Feature: model.FeatureSendNotifications},
	{ID: "reports", Label: "Reports", URL: model.RouteReports, Icon: "bar-chart"},
	{ID: "settings", Label: "Settings", URL: model.RouteSettings, Icon: "settings"},
	{ID: "help", Label: "Help", Icon: "help-circle"},
}
