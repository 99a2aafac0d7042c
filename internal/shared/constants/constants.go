package constants

// Database table names
const (
	TableUsers     = "users"
	TableApps      = "apps"
	TableAppUsages = "app_usages"
	TableSessions  = "sessions"
)

// Gin context keys set by the authorization middleware
const (
	ContextKeyUser       = "auth_user"
	ContextKeyAuthMethod = "auth_method"
)

// Authentication methods a principal can be resolved by
const (
	AuthMethodToken   = "token"
	AuthMethodSession = "session"
)

// Provider tags for user records
const (
	ProviderLocal    = "local"
	ProviderGoogle   = "google"
	ProviderFacebook = "facebook"
	ProviderServer   = "server"
)

// OAuth state source tags
const (
	StateSourceCrossDomain = "cross_domain"
)
