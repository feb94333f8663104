package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Config holds every environment driven setting of the API.
type Config struct {
	Port   string
	AppEnv string
	DSN    string

	JWTSecret  string
	BcryptCost int

	StorageDriver     string
	GCSBucket         string
	GCSPublicBaseURL  string
	SupabaseURL       string
	SupabaseKey       string
	LocalUploadDir    string
	PublicBaseURL     string
	ReportAssetsDir   string
	OpenAIAPIKey      string
	OpenAIModel       string
	SendGridAPIKey    string
	MailFrom          string
	MailFromName      string
	CORSAllowedOrigin []string
}

// Load reads .env (when present) and the process environment.
func Load(log *zap.Logger) Config {
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, using system environment variables")
	}

	cost, err := strconv.Atoi(getEnv("BCRYPT_COST", strconv.Itoa(bcrypt.DefaultCost)))
	if err != nil || cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}

	driver := getEnv("STORAGE_DRIVER", "")
	if driver == "" {
		// Cloud Run sets K_SERVICE
		if os.Getenv("USE_GCS") == "true" || os.Getenv("K_SERVICE") != "" {
			driver = "gcs"
		} else {
			driver = "local"
		}
	}

	return Config{
		Port:              getEnv("PORT", "8080"),
		AppEnv:            getEnv("APP_ENV", "development"),
		DSN:               os.Getenv("DB_DSN"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		BcryptCost:        cost,
		StorageDriver:     driver,
		GCSBucket:         os.Getenv("GCS_BUCKET"),
		GCSPublicBaseURL:  getEnv("GCS_PUBLIC_BASE_URL", "https://storage.googleapis.com"),
		SupabaseURL:       strings.TrimRight(os.Getenv("SUPABASE_URL"), "/"),
		SupabaseKey:       os.Getenv("SUPABASE_SERVICE_ROLE_KEY"),
		LocalUploadDir:    getEnv("LOCAL_UPLOAD_DIR", "./uploads"),
		PublicBaseURL:     strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),
		ReportAssetsDir:   getEnv("REPORT_ASSETS_DIR", "./assets"),
		OpenAIAPIKey:      os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		SendGridAPIKey:    os.Getenv("SENDGRID_API_KEY"),
		MailFrom:          os.Getenv("MAIL_FROM"),
		MailFromName:      getEnv("MAIL_FROM_NAME", "Vistorias"),
		CORSAllowedOrigin: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
	}
}

// Production reports whether APP_ENV selects production behaviour.
func (c Config) Production() bool {
	return c.AppEnv == "production"
}

// Connect opens the postgres connection and runs migrations.
func Connect(cfg Config, log *zap.Logger) (*gorm.DB, error) {
	level := gormlogger.Warn
	if !cfg.Production() {
		level = gormlogger.Info
	}
	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger: NewGormLogger(log, level),
	})
	if err != nil {
		return nil, err
	}

	if err := Migrations(db); err != nil {
		return nil, err
	}
	log.Info("database ready")
	return db, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
