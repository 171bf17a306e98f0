package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string

	DynamoTables DynamoTables
	S3BucketName string
	MediaBaseURL string

	JWTPrivateKeyPath string
	JWTPublicKeyPath  string
	JWTExpiry         time.Duration
	AdminJWTExpiry    time.Duration
	RefreshTokenDur   time.Duration

	OTPExpiry      time.Duration
	OTPMaxAttempts int

	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string

	SNSRegion string

	InternalNotifyEmail string
	AllowedOrigins      []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Users           string
	Sessions        string
	OTPTokens       string
	AdminUsers      string
	Brands          string
	CarModels       string
	CarVariants     string
	Cities          string
	Cars            string
	CarMedia        string
	CarReviews      string
	ModerationQueue string
	Inquiries       string
	Notifications   string
	AdminActivities string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),

		DynamoTables: DynamoTables{
			Users:           getEnv("DYNAMO_TABLE_USERS", "users"),
			Sessions:        getEnv("DYNAMO_TABLE_SESSIONS", "sessions"),
			OTPTokens:       getEnv("DYNAMO_TABLE_OTP_TOKENS", "otp_tokens"),
			AdminUsers:      getEnv("DYNAMO_TABLE_ADMIN_USERS", "admin_users"),
			Brands:          getEnv("DYNAMO_TABLE_BRANDS", "car_brands"),
			CarModels:       getEnv("DYNAMO_TABLE_CAR_MODELS", "car_models"),
			CarVariants:     getEnv("DYNAMO_TABLE_CAR_VARIANTS", "car_variants"),
			Cities:          getEnv("DYNAMO_TABLE_CITIES", "cities"),
			Cars:            getEnv("DYNAMO_TABLE_CARS", "cars"),
			CarMedia:        getEnv("DYNAMO_TABLE_CAR_MEDIA", "car_media"),
			CarReviews:      getEnv("DYNAMO_TABLE_CAR_REVIEWS", "car_reviews"),
			ModerationQueue: getEnv("DYNAMO_TABLE_MODERATION_QUEUE", "moderation_queue"),
			Inquiries:       getEnv("DYNAMO_TABLE_INQUIRIES", "inquiries"),
			Notifications:   getEnv("DYNAMO_TABLE_NOTIFICATIONS", "notifications"),
			AdminActivities: getEnv("DYNAMO_TABLE_ADMIN_ACTIVITIES", "admin_activities"),
		},
		S3BucketName: getEnv("S3_BUCKET_NAME", "carmarket-media"),
		MediaBaseURL: getEnv("MEDIA_BASE_URL", ""),

		JWTPrivateKeyPath: getEnv("JWT_PRIVATE_KEY_PATH", "./private_key.pem"),
		JWTPublicKeyPath:  getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),
		JWTExpiry:         time.Duration(getEnvInt("JWT_EXPIRY_DAYS", 7)) * 24 * time.Hour,
		AdminJWTExpiry:    time.Duration(getEnvInt("ADMIN_JWT_EXPIRY_HOURS", 12)) * time.Hour,
		RefreshTokenDur:   time.Duration(getEnvInt("REFRESH_TOKEN_EXPIRY_DAYS", 30)) * 24 * time.Hour,

		OTPExpiry:      time.Duration(getEnvInt("OTP_EXPIRY_MINUTES", 5)) * time.Minute,
		OTPMaxAttempts: getEnvInt("OTP_MAX_ATTEMPTS", 3),

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnv("SMTP_PORT", "1025"),
		SMTPFrom:     getEnv("SMTP_FROM", "noreply@example.com"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),

		SNSRegion: getEnv("SNS_REGION", "us-east-1"),

		InternalNotifyEmail: getEnv("INTERNAL_NOTIFY_EMAIL", "inquiries@example.com"),
		AllowedOrigins:      strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
