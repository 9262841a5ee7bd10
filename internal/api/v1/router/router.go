package router

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"strings"
	"time"

	"lms/internal/api/v1/handler"
	"lms/internal/api/v1/response"
	"lms/internal/auth"
	"lms/internal/config"
	"lms/internal/media"
	"lms/internal/middleware"
	"lms/internal/model"
	"lms/internal/repository"
	"lms/internal/service"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	awsmiddleware "github.com/aws/smithy-go/middleware"
	"github.com/go-playground/validator/v10"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

// New wires the database, object store, verifier, gates and handlers into
// the HTTP handler. The returned *sql.DB is the caller's to close.
func New(cfg *config.Config, logger zerolog.Logger) (http.Handler, *sql.DB, error) {
	// 1. Open DB connection (connection pooling)
	dsn := cfg.DBConnectionString
	// Local development runs without SSL; production connection strings
	// carry their own sslmode.
	if cfg.Environment == "development" && !strings.Contains(dsn, "sslmode") {
		separator := "?"
		if strings.Contains(dsn, "?") {
			separator = "&"
		}
		dsn += separator + "sslmode=disable"
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to open DB connection")
		return nil, nil, err
	}
	if err := db.Ping(); err != nil {
		logger.Error().Err(err).Msg("Failed to ping DB")
		return nil, nil, err
	}
	logger.Info().Msg("Database connection successful")

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxIdleTime(5 * time.Minute)

	// 2. Initialize S3 client
	s3Config, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")),
		awsconfig.WithAPIOptions([]func(*awsmiddleware.Stack) error{removeDisableGzip()}),
	)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load S3 config")
		return nil, nil, err
	}
	s3Client := s3.NewFromConfig(s3Config, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3URL)
		o.UsePathStyle = true
	})

	// 3. Prepare the upload staging directory
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		logger.Error().Err(err).Str("dir", cfg.UploadDir).Msg("Failed to create upload staging directory")
		return nil, nil, err
	}

	// 4. Initialize validator
	validate := validator.New(validator.WithRequiredStructEnabled())

	// 5. Initialize repositories & services & handlers
	courseRepo := repository.NewCourseRepo(db)
	userRepo := repository.NewUserRepo(db)
	subscriptionRepo := repository.NewSubscriptionRepo(db)

	uploader := media.NewS3Uploader(s3Client, cfg.S3Bucket, cfg.S3URL, logger)
	courseSvc := service.NewCourseService(courseRepo, uploader, logger)
	userSvc := service.NewUserService(userRepo, subscriptionRepo, logger)
	subscriptionSvc := service.NewSubscriptionService(subscriptionRepo, logger)

	maxUploadBytes := cfg.MaxUploadSizeMB << 20
	courseHandler := handler.NewCourseHandler(courseSvc, validate, cfg.UploadDir, maxUploadBytes, logger)
	userHandler := handler.NewUserHandler(userSvc, logger)
	subscriptionHandler := handler.NewSubscriptionHandler(subscriptionSvc, logger)

	// 6. Access control gates
	verifier := auth.NewVerifier(cfg.JWTSecret)
	authenticate := middleware.Authenticate(verifier, logger)
	adminOnly := middleware.Require(middleware.RoleIn(model.RoleAdmin), logger)
	subscriberOnly := middleware.Require(middleware.ActiveSubscriber(), logger)

	// 7. Create ServeMux router
	apiV1Mux := http.NewServeMux()
	courseHandler.RegisterRoutes(apiV1Mux, authenticate, adminOnly, subscriberOnly)
	userHandler.RegisterRoutes(apiV1Mux, authenticate)
	subscriptionHandler.RegisterRoutes(apiV1Mux, authenticate, adminOnly, subscriberOnly)

	// Server status check route
	apiV1Mux.HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("pong"))
	})

	mux := http.NewServeMux()
	mux.Handle("/v1/", http.StripPrefix("/v1", apiV1Mux))

	// Default catch all route - 404
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, logger)
	})

	// 8. Apply CORS middleware
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.FrontendOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	return middleware.RequestLogger(logger)(c.Handler(mux)), db, nil
}

// removeDisableGzip is a workaround for S3 signature errors with some
// S3-compatible services.
// See: https://github.com/supabase/storage/issues/577
func removeDisableGzip() func(*awsmiddleware.Stack) error {
	return func(stack *awsmiddleware.Stack) error {
		if _, ok := stack.Finalize.Get("DisableAcceptEncodingGzip"); ok {
			_, err := stack.Finalize.Remove("DisableAcceptEncodingGzip")
			return err
		}
		return nil
	}
}
