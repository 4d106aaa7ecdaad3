// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables (MINDHUB_*), configuration
// files, or command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig
// covers ports, TLS, logging and CORS toggles; everything the MindHub API
// itself needs lives here and is passed to every lifecycle hook.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Bearer tokens
	JWTSecret string
	JWTTTL    time.Duration

	// Email/SMTP configuration (verification mail)
	MailSMTPHost string
	MailSMTPPort int
	MailSMTPUser string
	MailSMTPPass string
	MailFrom     string
	MailFromName string
	MailRetries  int

	// Base URL for verification links
	BaseURL string

	// Local file storage
	StorageLocalPath string // e.g. ./uploads
	StorageLocalURL  string // e.g. /files
	UploadMaxBytes   int64

	// CORS
	CORSAllowedOrigins []string

	// Database deadlines; zero keeps the timeouts package default
	TimeoutPing   time.Duration
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
	TimeoutLong   time.Duration
	TimeoutBatch  time.Duration

	// Counter reconciliation
	ReconcileCountersOnStart bool
	ReconcileInterval        time.Duration // 0 disables the background worker

	// Rate limits (requests per minute per client IP)
	LoginRateLimit  int
	ResendRateLimit int
}
