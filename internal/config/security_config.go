package config

type SecurityLevel int

const (
	SecurityPublic SecurityLevel = iota // No authentication
	SecurityAccess                      // Any valid access token
	SecurityAdmin                       // Access token carrying the admin role
)

// EndpointSecurityConfig maps ops route templates to their required security level
var EndpointSecurityConfig = map[string]SecurityLevel{
	"/healthz": SecurityPublic,

	"/ops/whoami": SecurityAccess,

	"/ops/stores":       SecurityAdmin,
	"/ops/stores/dirty": SecurityAdmin,
	"/ops/dashboard":    SecurityAdmin,
	"/ops/jobs/{name}":  SecurityAdmin,
}

// GetSecurityLevel returns the security level for a given route template
func GetSecurityLevel(route string) SecurityLevel {
	if level, exists := EndpointSecurityConfig[route]; exists {
		return level
	}
	// Default to highest security for unknown endpoints
	return SecurityAdmin
}
