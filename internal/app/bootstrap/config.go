// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// devJWTSecret is the out-of-the-box secret. ValidateConfig refuses it in prod.
const devJWTSecret = "dev-only-change-me-please-0123456789ABCDEF"

// appConfigKeys defines the configuration keys for MindHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, jwt_secret, etc.
//   - Environment variables: MINDHUB_MONGO_URI, MINDHUB_JWT_SECRET, etc.
//   - Command-line flags: --mongo_uri, --jwt_secret, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "mindhub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	{Name: "jwt_secret", Default: devJWTSecret, Desc: "HS256 signing secret for bearer tokens (must be strong in production)"},
	{Name: "jwt_ttl", Default: "24h", Desc: "Bearer token lifetime (e.g., 24h, 90m)"},

	// Email/SMTP configuration
	{Name: "mail_smtp_host", Default: "localhost", Desc: "SMTP server host"},
	{Name: "mail_smtp_port", Default: 1025, Desc: "SMTP server port"},
	{Name: "mail_smtp_user", Default: "", Desc: "SMTP username"},
	{Name: "mail_smtp_pass", Default: "", Desc: "SMTP password"},
	{Name: "mail_from", Default: "noreply@mindhub.local", Desc: "From email address"},
	{Name: "mail_from_name", Default: "MindHub", Desc: "From display name"},
	{Name: "mail_retries", Default: 3, Desc: "Retries for a failed verification email (0 sends once)"},

	{Name: "base_url", Default: "http://localhost:3000", Desc: "Base URL for verification links"},

	// File storage
	{Name: "storage_local_path", Default: "./uploads", Desc: "Local storage path for uploaded files"},
	{Name: "storage_local_url", Default: "/files", Desc: "URL prefix for serving uploaded files"},
	{Name: "upload_max_bytes", Default: 5 << 20, Desc: "Maximum upload size in bytes"},

	{Name: "cors_allowed_origins", Default: "*", Desc: "Comma-separated list of allowed CORS origins"},

	// Timeouts
	{Name: "timeout_ping", Default: "", Desc: "Health ping deadline (default 2s)"},
	{Name: "timeout_short", Default: "", Desc: "Single-document deadline (default 5s)"},
	{Name: "timeout_medium", Default: "", Desc: "List/count deadline (default 10s)"},
	{Name: "timeout_long", Default: "", Desc: "Multi-collection transaction deadline (default 30s)"},
	{Name: "timeout_batch", Default: "", Desc: "Counter reconciliation deadline (default 5m)"},

	// Counter reconciliation
	{Name: "reconcile_counters_on_start", Default: false, Desc: "Recount post/comment counters during schema setup"},
	{Name: "reconcile_interval", Default: "0", Desc: "Background counter reconciliation interval (0 disables)"},

	// Rate limits
	{Name: "login_rate_limit", Default: 10, Desc: "Login attempts per minute per client IP"},
	{Name: "resend_rate_limit", Default: 3, Desc: "Verification resends per minute per client IP"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config files,
// environment variables (WAFFLE_* for core, MINDHUB_* for app) and flags,
// merging with precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "MINDHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		JWTSecret: appValues.String("jwt_secret"),
		JWTTTL:    appValues.Duration("jwt_ttl", 24*time.Hour),

		// Email/SMTP
		MailSMTPHost: appValues.String("mail_smtp_host"),
		MailSMTPPort: appValues.Int("mail_smtp_port"),
		MailSMTPUser: appValues.String("mail_smtp_user"),
		MailSMTPPass: appValues.String("mail_smtp_pass"),
		MailFrom:     appValues.String("mail_from"),
		MailFromName: appValues.String("mail_from_name"),
		MailRetries:  appValues.Int("mail_retries"),

		BaseURL: appValues.String("base_url"),

		// File storage
		StorageLocalPath: appValues.String("storage_local_path"),
		StorageLocalURL:  strings.TrimRight(appValues.String("storage_local_url"), "/"),
		UploadMaxBytes:   int64(appValues.Int("upload_max_bytes")),

		CORSAllowedOrigins: splitCSV(appValues.String("cors_allowed_origins")),

		// Timeouts
		TimeoutPing:   appValues.Duration("timeout_ping", 0),
		TimeoutShort:  appValues.Duration("timeout_short", 0),
		TimeoutMedium: appValues.Duration("timeout_medium", 0),
		TimeoutLong:   appValues.Duration("timeout_long", 0),
		TimeoutBatch:  appValues.Duration("timeout_batch", 0),

		// Counter reconciliation
		ReconcileCountersOnStart: appValues.Bool("reconcile_counters_on_start"),
		ReconcileInterval:        appValues.Duration("reconcile_interval", 0),

		LoginRateLimit:  appValues.Int("login_rate_limit"),
		ResendRateLimit: appValues.Int("resend_rate_limit"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// MindHub validates the MongoDB URI format to catch configuration errors
// early, before attempting to connect, and refuses to run production with
// an empty or default JWT secret.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if strings.TrimSpace(appCfg.JWTSecret) == "" {
		return errors.New("jwt_secret must be set")
	}
	if coreCfg.Env == "prod" && appCfg.JWTSecret == devJWTSecret {
		return errors.New("jwt_secret is the development default; set MINDHUB_JWT_SECRET in production")
	}
	if appCfg.UploadMaxBytes <= 0 {
		return fmt.Errorf("upload_max_bytes must be positive, got %d", appCfg.UploadMaxBytes)
	}
	if appCfg.ReconcileInterval < 0 {
		return fmt.Errorf("reconcile_interval must not be negative, got %s", appCfg.ReconcileInterval)
	}
	return nil
}

// splitCSV splits a comma-separated list, dropping blanks.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
