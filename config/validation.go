package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every problem found in one pass
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, e := range v {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "\n")
}

// requiredInEnv lists settings that may not be empty for a given environment
var requiredInEnv = map[Environment][]string{
	Production:  {"JWT_SECRET", "DB_PASSWORD", "SPOONACULAR_API_KEY"},
	CI:          {"JWT_SECRET"},
	Test:        {"JWT_SECRET"},
	Development: {"JWT_SECRET"},
}

// ValidateConfig checks if the configuration meets the requirements for its environment
func ValidateConfig(cfg *Config) error {
	var errs ValidationErrors
	add := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg})
	}

	values := map[string]string{
		"JWT_SECRET":          cfg.JWTSecret,
		"DB_PASSWORD":         cfg.DBPassword,
		"SPOONACULAR_API_KEY": cfg.SpoonacularAPIKey,
	}
	for _, key := range requiredInEnv[cfg.Env] {
		if values[key] == "" {
			add(key, fmt.Sprintf("is required in %s environment", cfg.Env))
		}
	}

	switch cfg.DBDriver {
	case "postgres":
		if cfg.DBHost == "" || cfg.DBName == "" || cfg.DBUser == "" {
			add("DB_HOST", "host, name and user are required for postgres")
		}
	case "sqlite":
		if cfg.SQLitePath == "" {
			add("SQLITE_PATH", "is required for sqlite")
		}
	default:
		add("DB_DRIVER", fmt.Sprintf("unsupported driver %q", cfg.DBDriver))
	}

	switch cfg.MailProvider {
	case "log":
	case "smtp":
		if cfg.SMTPHost == "" || cfg.SMTPPort == "" {
			add("SMTP_HOST", "host and port are required for the smtp provider")
		}
		if cfg.MailFrom == "" {
			add("MAIL_FROM", "is required for the smtp provider")
		}
	case "ses":
		if cfg.AWSRegion == "" {
			add("AWS_REGION", "is required for the ses provider")
		}
		if cfg.MailFrom == "" {
			add("MAIL_FROM", "is required for the ses provider")
		}
	default:
		add("MAIL_PROVIDER", fmt.Sprintf("unsupported provider %q", cfg.MailProvider))
	}

	if cfg.RatingPolicy != RatingPolicyAppend && cfg.RatingPolicy != RatingPolicyReplace {
		add("MEAL_RATING_POLICY", fmt.Sprintf("must be %q or %q", RatingPolicyAppend, RatingPolicyReplace))
	}
	if cfg.UpstreamTimeout <= 0 {
		add("UPSTREAM_TIMEOUT", "must be positive")
	}
	if cfg.UpstreamMaxRetries < 0 {
		add("UPSTREAM_MAX_RETRIES", "must not be negative")
	}
	if cfg.JWTExpiry <= 0 {
		add("JWT_EXPIRY", "must be positive")
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
