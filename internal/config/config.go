package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	JWTSecret   string
	SessionTTL  time.Duration
	MongoURI    string
	DBName      string
	SkipAuth    bool
	Environment string
	AppId       string
	Location    *time.Location // Day boundaries for the audit daily summary
	CORSOrigins string

	OIDCIssuerURL    string
	OIDCClientID     string
	OIDCClientSecret string
	OIDCRedirectURL  string

	S3Bucket       string
	S3Region       string
	S3Endpoint     string // Empty for AWS, set for MinIO/LocalStack
	S3AccessKey    string
	S3SecretKey    string
	S3UsePathStyle bool
	S3URLTTL       time.Duration

	AllowSelfRoleAssignment bool
	DailySummaryCron        string // Empty disables the digest job
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	} else {
		log.Println("Loaded .env file successfully")
	}

	loc, err := time.LoadLocation(getEnv("TIMEZONE", "Local"))
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		JWTSecret:   getEnv("JWT_SECRET", "secret"),
		SessionTTL:  getDuration("SESSION_TTL", 72*time.Hour),
		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:      getEnv("DB_NAME", "mineaction"),
		SkipAuth:    getEnv("SKIP_AUTH", "false") == "true",
		Environment: getEnv("ENVIRONMENT", "development"),
		AppId:       getEnv("APP_ID", "mineaction"),
		Location:    loc,
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:5173, http://localhost:3000"),

		OIDCIssuerURL:    getEnv("OIDC_ISSUER_URL", "https://accounts.google.com"),
		OIDCClientID:     getEnv("OIDC_CLIENT_ID", ""),
		OIDCClientSecret: getEnv("OIDC_CLIENT_SECRET", ""),
		OIDCRedirectURL:  getEnv("OIDC_REDIRECT_URL", "http://localhost:5173/auth/callback"),

		S3Bucket:       getEnv("S3_BUCKET", "mineaction-evidence"),
		S3Region:       getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:     getEnv("S3_ENDPOINT", ""),
		S3AccessKey:    getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:    getEnv("S3_SECRET_KEY", ""),
		S3UsePathStyle: getEnv("S3_USE_PATH_STYLE", "false") == "true",
		S3URLTTL:       getDuration("S3_URL_TTL", 7*24*time.Hour),

		AllowSelfRoleAssignment: getEnv("ALLOW_SELF_ROLE_ASSIGNMENT", "true") == "true",
		DailySummaryCron:        strings.TrimSpace(getEnv("DAILY_SUMMARY_CRON", "")),
	}, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Invalid duration for %s=%q, using %s", key, raw, fallback)
		return fallback
	}
	return d
}
