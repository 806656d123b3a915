package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
)

// ExpectedEnvSchemaVersion is the .env layout this build understands. Bump it
// when variables are renamed or become required.
const ExpectedEnvSchemaVersion = "1.0"

// RequiredEnvVars must be set in every deployment.
var RequiredEnvVars = []string{"ENV_SCHEMA_VERSION", "API_KEY"}

// DatabaseEnvVars are also required unless STORE_DRIVER is memory.
var DatabaseEnvVars = []string{"DB_USER", "DB_PASSWORD", "DB_HOST", "DB_PORT", "DB_NAME"}

// envWarning inspects the environment and returns a message when something
// is allowed but probably wrong.
type envWarning func(getenv func(string) string) string

var envWarnings = []envWarning{
	placeholder("DB_PASSWORD", "change_this_secure_password", "use a real password"),
	placeholder("API_KEY", "generate_with_openssl_rand_hex_32", "generate one with: openssl rand -hex 32"),
	func(getenv func(string) string) string {
		if getenv("STORE_DRIVER") == StoreDriverMemory && getenv("ENVIRONMENT") == "prod" {
			return "STORE_DRIVER=memory in prod: items are lost when the process exits"
		}
		return ""
	},
	func(getenv func(string) string) string {
		raw := getenv("NATS_URL")
		if raw == "" {
			return ""
		}
		if u, err := url.Parse(raw); err != nil || (u.Scheme != "nats" && u.Scheme != "tls") {
			return fmt.Sprintf("NATS_URL %q is not a nats:// or tls:// URL", raw)
		}
		return ""
	},
}

func placeholder(envVar, example, advice string) envWarning {
	return func(getenv func(string) string) string {
		if getenv(envVar) == example {
			return fmt.Sprintf("%s still holds the .env.example value; %s", envVar, advice)
		}
		return ""
	}
}

// ValidateEnv checks the schema version and that every required variable is
// set.
func ValidateEnv() error {
	switch v := os.Getenv("ENV_SCHEMA_VERSION"); v {
	case ExpectedEnvSchemaVersion:
	case "":
		return fmt.Errorf("ENV_SCHEMA_VERSION is not set; add it to .env (expected: %s)", ExpectedEnvSchemaVersion)
	default:
		return fmt.Errorf("ENV_SCHEMA_VERSION mismatch: expected %s, got %s; compare .env with .env.example", ExpectedEnvSchemaVersion, v)
	}

	required := RequiredEnvVars
	if os.Getenv("STORE_DRIVER") != StoreDriverMemory {
		required = append(required[:len(required):len(required)], DatabaseEnvVars...)
	}

	var missing []string
	for _, key := range required {
		if os.Getenv(key) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

// ValidateEnvWithWarnings runs ValidateEnv and then collects warnings for
// settings that load fine but look like mistakes.
func ValidateEnvWithWarnings() ([]string, error) {
	if err := ValidateEnv(); err != nil {
		return nil, err
	}

	var warnings []string
	for _, check := range envWarnings {
		if msg := check(os.Getenv); msg != "" {
			warnings = append(warnings, msg)
		}
	}
	return warnings, nil
}
