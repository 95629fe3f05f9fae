package model

// Feature names an action that UI elements render conditionally.
type Feature string

const (
	FeatureViewPatients Feature = "view_patients"

	// FeatureCreatePatients allows registering new patients.
	FeatureCreatePatients Feature = "create_patients"

	// FeatureEditPatients allows editing patient info and photos.
	FeatureEditPatients Feature = "edit_patients"

	// FeatureDeletePatients allows removing patients.
	FeatureDeletePatients Feature = "delete_patients"

	// FeatureApproveTreatmentPlan allows approving a treatment-plan wizard result.
	FeatureApproveTreatmentPlan Feature = "approve_treatment_plan"

	// FeatureChatPatients allows using the patient chat panel.
	FeatureChatPatients Feature = "chat_patients"

	FeatureCreateDoctors Feature = "create_doctors"
	FeatureDeleteDoctors Feature = "delete_doctors"

	// FeatureManageOrders allows creating and updating aligner orders.
	FeatureManageOrders Feature = "manage_orders"

	FeatureSendNotifications Feature = "send_notifications"
	FeatureManageSettings    Feature = "manage_settings"

	// FeatureManageUsers allows listing and creating dashboard accounts.
	FeatureManageUsers Feature = "manage_users"

	FeatureViewReports Feature = "view_reports"
)
