package common

const (
	// AccessTokenHeaderName is the HTTP header used to carry the access token
	// on authenticated gateway requests.
	AccessTokenHeaderName = "Authorization"

	// DefaultGuardID identifies the intake station in single-guard
	// deployments where guards are not individually authenticated.
	DefaultGuardID = "MAIN_GATE"

	// RetentionDays is the age after which a visitor request, regardless of
	// status, becomes eligible for deletion by the retention sweep.
	RetentionDays = 20

	// Limits on the read queries backing the resident and admin views.
	HistoryLimit     = 20
	AdminListLimit   = 50
	AdminSearchLimit = 100

	// PurposeOther is substituted when a submission leaves the purpose blank.
	PurposeOther = "Other"
)
