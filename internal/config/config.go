// File: internal/config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const devJWTSecret = "dev-only-secret-change-me"

type Config struct {
	ServerPort  string
	Environment string
	LogLevel    string

	DBDriver    string
	SQLitePath  string
	DatabaseURL string

	JWTSecretKey string
	JWTExpiry    time.Duration

	LLMAPIKey  string
	LLMBaseURL string
	LLMModel   string
	LLMTimeout time.Duration

	KanoonAPIKey  string
	KanoonBaseURL string

	StorageBackend string
	UploadFolder   string
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	MaxFileSizeMB     int
	AllowedExtensions []string

	RedisAddr     string
	RedisPassword string

	SendGridAPIKey string
	MailFrom       string
	MailFromName   string

	CORSOrigins    []string
	TrustedProxies []string
}

// IsProduction reports whether ENV or GO_ENV is "production".
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// Load reads configuration from environment variables or .env file.
func Load() *Config {
	env := getEnv("ENV", getEnv("GO_ENV", ""))
	if !strings.EqualFold(env, "production") {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found; continuing with environment variables")
		}
		env = getEnv("ENV", getEnv("GO_ENV", ""))
	}

	cfg := &Config{
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		Environment: env,
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		DBDriver:    strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		SQLitePath:  getEnv("SQLITE_PATH", "kanoon.db"),
		DatabaseURL: getEnv("DATABASE_URL", ""),

		JWTSecretKey: getEnv("JWT_SECRET_KEY", ""),
		JWTExpiry:    time.Duration(getEnvAsInt("JWT_EXPIRY_HOURS", 24)) * time.Hour,

		LLMAPIKey:  getEnv("LLM_API_KEY", getEnv("GOOGLE_API_KEY", "")),
		LLMBaseURL: getEnv("LLM_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/openai/"),
		LLMModel:   getEnv("LLM_MODEL", "gemini-1.5-flash"),
		LLMTimeout: time.Duration(getEnvAsInt("LLM_TIMEOUT_SECONDS", 60)) * time.Second,

		KanoonAPIKey:  getEnv("INDIAN_KANOON_API_KEY", ""),
		KanoonBaseURL: getEnv("INDIAN_KANOON_BASE_URL", "https://api.indiankanoon.org"),

		StorageBackend: strings.ToLower(getEnv("STORAGE_BACKEND", "local")),
		UploadFolder:   getEnv("UPLOAD_FOLDER", "uploads"),
		MinioEndpoint:  getEnv("MINIO_ENDPOINT", ""),
		MinioAccessKey: getEnv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: getEnv("MINIO_SECRET_KEY", ""),
		MinioBucket:    getEnv("MINIO_BUCKET", "kanoon-documents"),
		MinioUseSSL:    getEnvAsBool("MINIO_USE_SSL", false),

		MaxFileSizeMB:     getEnvAsInt("MAX_FILE_SIZE_MB", 50),
		AllowedExtensions: getEnvAsList("ALLOWED_EXTENSIONS", []string{"pdf", "doc", "docx", "txt"}),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
		MailFrom:       getEnv("MAIL_FROM", "no-reply@kanoon.local"),
		MailFromName:   getEnv("MAIL_FROM_NAME", "Kanoon"),

		CORSOrigins:    getEnvAsList("CORS_ORIGINS", []string{"*"}),
		TrustedProxies: getEnvAsList("TRUSTED_PROXIES", nil),
	}

	if cfg.IsProduction() {
		missing := cfg.missingProductionKeys()
		if len(missing) > 0 {
			log.Fatalf("Missing required production environment variables: %v", missing)
		}
	} else if cfg.JWTSecretKey == "" {
		log.Println("JWT_SECRET_KEY not set; using an insecure development secret")
		cfg.JWTSecretKey = devJWTSecret
	}

	return cfg
}

func (c *Config) missingProductionKeys() []string {
	missing := []string{}
	if c.JWTSecretKey == "" {
		missing = append(missing, "JWT_SECRET_KEY")
	}
	if c.LLMAPIKey == "" {
		missing = append(missing, "LLM_API_KEY")
	}
	if c.DBDriver == "postgres" && c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.StorageBackend == "minio" && (c.MinioEndpoint == "" || c.MinioAccessKey == "" || c.MinioSecretKey == "") {
		missing = append(missing, "MINIO_ENDPOINT/MINIO_ACCESS_KEY/MINIO_SECRET_KEY")
	}
	return missing
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an env var as an integer, with a fallback.
func getEnvAsInt(key string, defaultValue int) int {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(strValue)
	if err != nil {
		log.Printf("Warning: could not parse env var %s as integer. Using default value.", key)
		return defaultValue
	}
	return intValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(strValue)
	if err != nil {
		log.Printf("Warning: could not parse env var %s as bool. Using default value.", key)
		return defaultValue
	}
	return b
}

// getEnvAsList splits a comma-separated variable, dropping blanks.
func getEnvAsList(key string, defaultValue []string) []string {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(strValue, ",") {
		if p := strings.ToLower(strings.TrimSpace(part)); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
