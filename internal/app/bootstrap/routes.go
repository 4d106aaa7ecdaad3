// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	adminfeature "github.com/dalemusser/mindhub/internal/app/features/admin"
	commentsfeature "github.com/dalemusser/mindhub/internal/app/features/comments"
	contentfeature "github.com/dalemusser/mindhub/internal/app/features/content"
	errorsfeature "github.com/dalemusser/mindhub/internal/app/features/errors"
	gamificationfeature "github.com/dalemusser/mindhub/internal/app/features/gamification"
	groupsfeature "github.com/dalemusser/mindhub/internal/app/features/groups"
	healthfeature "github.com/dalemusser/mindhub/internal/app/features/health"
	journalfeature "github.com/dalemusser/mindhub/internal/app/features/journal"
	loginfeature "github.com/dalemusser/mindhub/internal/app/features/login"
	membershipsfeature "github.com/dalemusser/mindhub/internal/app/features/memberships"
	notificationsfeature "github.com/dalemusser/mindhub/internal/app/features/notifications"
	postsfeature "github.com/dalemusser/mindhub/internal/app/features/posts"
	reactionsfeature "github.com/dalemusser/mindhub/internal/app/features/reactions"
	reportsfeature "github.com/dalemusser/mindhub/internal/app/features/reports"
	sharesfeature "github.com/dalemusser/mindhub/internal/app/features/shares"
	teletherapyfeature "github.com/dalemusser/mindhub/internal/app/features/teletherapy"
	uploadsfeature "github.com/dalemusser/mindhub/internal/app/features/uploads"
	userprofilesfeature "github.com/dalemusser/mindhub/internal/app/features/userprofiles"
	usersfeature "github.com/dalemusser/mindhub/internal/app/features/users"
	"github.com/dalemusser/mindhub/internal/app/system/auth"
	"github.com/dalemusser/mindhub/internal/app/system/mailer"
	"github.com/dalemusser/mindhub/internal/app/system/notify"
	"github.com/dalemusser/mindhub/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// the Startup hook have completed. MindHub builds the token manager, mail
// sender, upload storage and rate limiters once here and mounts every
// feature router under its resource path.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase

	tokens, err := auth.NewTokenManager(appCfg.JWTSecret, appCfg.JWTTTL, logger)
	if err != nil {
		logger.Error("token manager init failed", zap.Error(err))
		return nil, err
	}

	files, err := storage.NewLocal(storage.LocalConfig{BasePath: appCfg.StorageLocalPath, BaseURL: appCfg.StorageLocalURL})
	if err != nil {
		logger.Error("local storage init failed", zap.Error(err), zap.String("path", appCfg.StorageLocalPath))
		return nil, err
	}

	smtp := mailer.NewSMTP(mailer.Config{
		Host:     appCfg.MailSMTPHost,
		Port:     appCfg.MailSMTPPort,
		User:     appCfg.MailSMTPUser,
		Pass:     appCfg.MailSMTPPass,
		From:     appCfg.MailFrom,
		FromName: appCfg.MailFromName,
	})

	loginLimiter := ratelimit.New(appCfg.LoginRateLimit, time.Minute)
	resendLimiter := ratelimit.New(appCfg.ResendRateLimit, time.Minute)
	if deps.bgCtx != nil {
		go loginLimiter.RunSweeper(deps.bgCtx)
		go resendLimiter.RunSweeper(deps.bgCtx)
	}

	errLog := errorsfeature.NewErrorLogger(logger)
	notifier := notify.New(db, logger)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: appCfg.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "Retry-After"},
		MaxAge:         300,
	}))

	// Global auth middleware: verifies a bearer token when present and puts
	// the principal in the request context. Routes decide whether it is required.
	r.Use(tokens.LoadBearerUser)

	r.NotFound(errorsfeature.NotFound)

	// Health check endpoint for load balancers and orchestrators
	r.Mount("/health", healthfeature.Routes(healthfeature.NewHandler(deps.MongoClient, logger)))

	// Uploaded files
	r.Handle(appCfg.StorageLocalURL+"/*", fileserver.Handler(appCfg.StorageLocalURL, appCfg.StorageLocalPath))

	// Accounts
	r.Mount("/auth", loginfeature.Routes(loginfeature.NewHandler(db, tokens, errLog, logger), loginLimiter))

	usersHandler := usersfeature.NewHandler(db, smtp, errLog, logger)
	usersHandler.BaseURL = appCfg.BaseURL
	usersHandler.MailRetries = appCfg.MailRetries
	r.Mount("/users", usersfeature.Routes(usersHandler, resendLimiter))

	r.Mount("/user-profiles", userprofilesfeature.Routes(
		userprofilesfeature.NewHandler(db, files, appCfg.UploadMaxBytes, errLog, logger)))

	// Community
	r.Mount("/groups", groupsfeature.Routes(groupsfeature.NewHandler(db, errLog, logger)))
	r.Mount("/memberships", membershipsfeature.Routes(membershipsfeature.NewHandler(db, errLog, logger)))
	r.Mount("/posts", postsfeature.Routes(postsfeature.NewHandler(db, errLog, logger)))
	r.Mount("/comments", commentsfeature.Routes(commentsfeature.NewHandler(db, notifier, errLog, logger)))
	r.Mount("/reactions", reactionsfeature.Routes(reactionsfeature.NewHandler(db, notifier, errLog, logger)))
	r.Mount("/shares", sharesfeature.Routes(sharesfeature.NewHandler(db, notifier, errLog, logger)))
	r.Mount("/reports", reportsfeature.Routes(reportsfeature.NewHandler(db, errLog, logger)))
	r.Mount("/notifications", notificationsfeature.Routes(notificationsfeature.NewHandler(db, errLog, logger)))

	// Wellbeing
	r.Mount("/gamification", gamificationfeature.Routes(gamificationfeature.NewHandler(db, errLog, logger)))
	r.Mount("/teletherapy", teletherapyfeature.Routes(teletherapyfeature.NewHandler(db, errLog, logger)))

	journal := journalfeature.NewHandler(db, errLog, logger)
	r.Mount("/check-ins", journalfeature.CheckInRoutes(journal))
	r.Mount("/assessments", journalfeature.AssessmentRoutes(journal))
	r.Mount("/chats", journalfeature.ChatRoutes(journal))
	r.Mount("/ai-logs", journalfeature.AiLogRoutes(journal))
	r.Mount("/feedback", journalfeature.FeedbackRoutes(journal))

	r.Mount("/content", contentfeature.Routes(contentfeature.NewHandler(db, errLog, logger)))

	// Files and maintenance
	r.Mount("/uploads", uploadsfeature.Routes(uploadsfeature.NewHandler(files, appCfg.UploadMaxBytes, errLog, logger)))
	r.Mount("/admin", adminfeature.Routes(adminfeature.NewHandler(db, errLog, logger)))

	return r, nil
}
