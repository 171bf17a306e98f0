package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/carmarket-api/internal/config"
	"github.com/carmarket-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/carmarket-api/internal/infrastructure/jwt"
	s3infra "github.com/carmarket-api/internal/infrastructure/s3"
	"github.com/carmarket-api/internal/infrastructure/smtp"
	"github.com/carmarket-api/internal/infrastructure/sns"
	transporthttp "github.com/carmarket-api/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	// JWT provider (optional; falls back gracefully if keys are missing).
	var jwtProvider *jwtinfra.Provider
	if p, err := jwtinfra.NewProvider(cfg); err == nil {
		jwtProvider = p
	} else {
		log.Printf("WARN: JWT provider not available: %v", err)
	}

	// S3 store.
	s3Client := s3infra.NewClient(cfg)
	s3Store := s3infra.NewStore(s3Client, cfg.S3BucketName, cfg.MediaBaseURL)

	// SMTP mailer.
	mailer := smtp.NewMailer(cfg)

	// SNS SMS sender (optional; falls back gracefully).
	var smsSender sns.SMSSender
	if sender, err := sns.NewSender(cfg); err == nil {
		smsSender = sender
	} else {
		log.Printf("WARN: SNS sender not available: %v", err)
	}

	tables := cfg.DynamoTables
	deps := &transporthttp.Deps{
		UserRepo:         dynamo.NewUserRepo(dynamoClient, tables.Users),
		SessionRepo:      dynamo.NewSessionRepo(dynamoClient, tables.Sessions),
		OTPRepo:          dynamo.NewOTPRepo(dynamoClient, tables.OTPTokens),
		AdminRepo:        dynamo.NewAdminRepo(dynamoClient, tables.AdminUsers),
		BrandRepo:        dynamo.NewBrandRepo(dynamoClient, tables.Brands),
		ModelRepo:        dynamo.NewCarModelRepo(dynamoClient, tables.CarModels),
		VariantRepo:      dynamo.NewCarVariantRepo(dynamoClient, tables.CarVariants),
		CityRepo:         dynamo.NewCityRepo(dynamoClient, tables.Cities),
		CarRepo:          dynamo.NewCarRepo(dynamoClient, tables.Cars, tables.CarMedia),
		MediaRepo:        dynamo.NewMediaRepo(dynamoClient, tables.CarMedia),
		ReviewRepo:       dynamo.NewReviewRepo(dynamoClient, tables.CarReviews),
		QueueRepo:        dynamo.NewModerationQueueRepo(dynamoClient, tables.ModerationQueue),
		InquiryRepo:      dynamo.NewInquiryRepo(dynamoClient, tables.Inquiries),
		NotificationRepo: dynamo.NewNotificationRepo(dynamoClient, tables.Notifications),
		ActivityRepo:     dynamo.NewActivityRepo(dynamoClient, tables.AdminActivities),
		S3Store:          s3Store,
		Mailer:           mailer,
		SMSSender:        smsSender,
		JWTProvider:      jwtProvider,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
