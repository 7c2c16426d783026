package config

import (
	"os"
	"strings"
)

// Secret environment variables. Each may instead name a file through a
// <NAME>_FILE variable, e.g. AUTH_JWT_SECRET_FILE=/run/secrets/jwt.
const (
	EnvGeminiAPIKey  = "GEMINI_API_KEY"
	EnvLegacyAPIKey  = "API_KEY" // older deployments; GEMINI_API_KEY wins
	EnvJWTSecret     = "AUTH_JWT_SECRET"
	EnvRedisPassword = "REDIS_PASSWORD"
)

// apiKeyChain is the lookup order for the advisory credential
var apiKeyChain = []string{EnvGeminiAPIKey, EnvLegacyAPIKey}

// LookupSecret returns the first secret found along names and the name that
// supplied it. For each name the variable itself is checked before its _FILE
// variant. Blank values and unreadable files count as unset.
func LookupSecret(names ...string) (value, source string) {
	for _, name := range names {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			return v, name
		}
		if path := os.Getenv(name + "_FILE"); path != "" {
			if data, err := os.ReadFile(path); err == nil {
				if v := strings.TrimSpace(string(data)); v != "" {
					return v, name + "_FILE"
				}
			}
		}
	}
	return "", ""
}

// GetSecret returns the secret named envVar, or defaultValue when neither
// envVar nor envVar_FILE provides one.
func GetSecret(envVar, defaultValue string) string {
	if v, _ := LookupSecret(envVar); v != "" {
		return v
	}
	return defaultValue
}

// advisoryAPIKey resolves the Gemini credential, accepting the legacy name
func advisoryAPIKey() string {
	v, _ := LookupSecret(apiKeyChain...)
	return v
}
