package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	defaultPort              = "3000"
	defaultUltraMsgURL       = "https://api.ultramsg.com"
	defaultDialogflowURL     = "https://dialogflow.googleapis.com"
	defaultLanguageCode      = "pt-BR"
	defaultFieldSet          = "pt"
	defaultShape             = "single"
	defaultHTTPClientTimeout = 30 * time.Second
)

// Config holds every value read from the environment at startup. It is
// never mutated after Load returns.
type Config struct {
	Port string

	UltraMsgInstanceID string
	UltraMsgToken      string
	UltraMsgAPIURL     string

	DialogflowProjectID    string
	DialogflowClientEmail  string
	DialogflowPrivateKey   string
	DialogflowLanguageCode string
	DialogflowAPIURL       string

	WebhookFieldSet string
	WebhookShape    string

	HTTPClientTimeout time.Duration

	LogLevel  string
	LogFormat string
}

func GetEnvOrDefault(key, def string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return def
}

// Load reads the relay configuration. Required values that are missing and
// malformed optional values are reported as errors so the caller can abort
// before serving.
func Load() (*Config, error) {
	cfg := &Config{
		Port:                   GetEnvOrDefault("PORT", defaultPort),
		UltraMsgInstanceID:     os.Getenv("ULTRAMSG_INSTANCE_ID"),
		UltraMsgToken:          os.Getenv("ULTRAMSG_TOKEN"),
		UltraMsgAPIURL:         strings.TrimRight(GetEnvOrDefault("ULTRAMSG_API_URL", defaultUltraMsgURL), "/"),
		DialogflowProjectID:    os.Getenv("DIALOGFLOW_PROJECT_ID"),
		DialogflowClientEmail:  os.Getenv("DIALOGFLOW_CLIENT_EMAIL"),
		DialogflowPrivateKey:   UnescapePrivateKey(os.Getenv("DIALOGFLOW_PRIVATE_KEY")),
		DialogflowLanguageCode: GetEnvOrDefault("DIALOGFLOW_LANGUAGE_CODE", defaultLanguageCode),
		DialogflowAPIURL:       strings.TrimRight(GetEnvOrDefault("DIALOGFLOW_API_URL", defaultDialogflowURL), "/"),
		WebhookFieldSet:        strings.ToLower(GetEnvOrDefault("WEBHOOK_FIELD_SET", defaultFieldSet)),
		WebhookShape:           strings.ToLower(GetEnvOrDefault("WEBHOOK_SHAPE", defaultShape)),
		HTTPClientTimeout:      defaultHTTPClientTimeout,
		LogLevel:               GetEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:              strings.ToLower(GetEnvOrDefault("LOG_FORMAT", "json")),
	}

	requiredConfigs := []struct {
		name  string
		value string
	}{
		{"ULTRAMSG_INSTANCE_ID", cfg.UltraMsgInstanceID},
		{"ULTRAMSG_TOKEN", cfg.UltraMsgToken},
		{"DIALOGFLOW_PROJECT_ID", cfg.DialogflowProjectID},
		{"DIALOGFLOW_CLIENT_EMAIL", cfg.DialogflowClientEmail},
		{"DIALOGFLOW_PRIVATE_KEY", cfg.DialogflowPrivateKey},
	}

	for _, configItem := range requiredConfigs {
		if configItem.value == "" {
			return nil, fmt.Errorf("environment variable %s is required but not set", configItem.name)
		}
	}

	if err := ValidatePrivateKey(cfg.DialogflowPrivateKey); err != nil {
		return nil, err
	}

	if raw := os.Getenv("HTTP_CLIENT_TIMEOUT"); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid HTTP_CLIENT_TIMEOUT %q: %w", raw, err)
		}
		cfg.HTTPClientTimeout = timeout
	}

	switch cfg.WebhookFieldSet {
	case "pt", "en":
	default:
		return nil, fmt.Errorf("invalid WEBHOOK_FIELD_SET %q: expected pt or en", cfg.WebhookFieldSet)
	}

	switch cfg.WebhookShape {
	case "single", "list":
	default:
		return nil, fmt.Errorf("invalid WEBHOOK_SHAPE %q: expected single or list", cfg.WebhookShape)
	}

	switch cfg.LogFormat {
	case "json", "text":
	default:
		return nil, fmt.Errorf("invalid LOG_FORMAT %q: expected json or text", cfg.LogFormat)
	}

	return cfg, nil
}

// UnescapePrivateKey turns the literal "\n" sequences used to fit a PEM key
// into a single environment line back into newlines.
func UnescapePrivateKey(key string) string {
	return strings.ReplaceAll(key, `\n`, "\n")
}

func ValidatePrivateKey(key string) error {
	if !strings.Contains(key, "BEGIN PRIVATE KEY") || !strings.Contains(key, "END PRIVATE KEY") {
		return fmt.Errorf("DIALOGFLOW_PRIVATE_KEY does not look like a PEM private key (%d characters)", len(key))
	}
	return nil
}
