package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       string

	// MinIO Configuration
	MinIOServerURL    string
	MinIORootUser     string
	MinIORootPassword string
	MinIOUseSSL       bool
	MinIOBucketName   string

	// Document Service
	DocumentServiceURL string
	MaxUploadSizeMB    int64

	// Text extraction
	MaxTextLength            int
	EnableOCR                bool
	EnableAudioTranscription bool
	OCRServiceURL            string
	OCRServiceKey            string
	TranscriptionServiceURL  string

	// Extraction worker
	WorkerMaxAttempts    int
	WorkerPollingSeconds int
}

var cfg *Config

// LoadConfig loads configuration from environment variables
func LoadConfig() {
	envPaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	envLoaded := false
	for _, path := range envPaths {
		if err := godotenv.Load(path); err == nil {
			log.Printf("✅ Environment loaded from: %s", path)
			envLoaded = true
			break
		}
	}

	if !envLoaded {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	cfg = &Config{
		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "cloudlens"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", "your-secret-key-change-this"),

		// Redis
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnv("REDIS_DB", "0"),

		// MinIO Configuration
		MinIOServerURL:    getEnv("MINIO_SERVER_URL", "http://localhost:9000"),
		MinIORootUser:     getEnv("MINIO_ROOT_USER", "minioadmin"),
		MinIORootPassword: getEnv("MINIO_ROOT_PASSWORD", "minioadmin"),
		MinIOUseSSL:       getEnvAsBool("MINIO_USE_SSL", false),
		MinIOBucketName:   getEnv("MINIO_BUCKET_NAME", "cloudlens-documents"),

		// Document Service
		DocumentServiceURL: getEnv("DOCUMENT_SERVICE_URL", "http://localhost:8005"),
		MaxUploadSizeMB:    int64(getEnvAsInt("MAX_UPLOAD_SIZE_MB", 100)),

		// Text extraction
		MaxTextLength:            getEnvAsInt("MAX_TEXT_LENGTH", 100000),
		EnableOCR:                getEnvAsBool("ENABLE_OCR", false),
		EnableAudioTranscription: getEnvAsBool("ENABLE_AUDIO_TRANSCRIPTION", false),
		OCRServiceURL:            getEnv("OCR_SERVICE_URL", "http://localhost:8080"),
		OCRServiceKey:            getEnv("OCR_SERVICE_KEY", ""),
		TranscriptionServiceURL:  getEnv("TRANSCRIPTION_SERVICE_URL", "http://localhost:9090"),

		// Extraction worker
		WorkerMaxAttempts:    getEnvAsInt("WORKER_MAX_ATTEMPTS", 5),
		WorkerPollingSeconds: getEnvAsInt("WORKER_POLLING_SECONDS", 60),
	}

	log.Println("✅ Configuration loaded successfully")
}

// GetConfig returns the current configuration
func GetConfig() *Config {
	if cfg == nil {
		LoadConfig()
	}
	return cfg
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets environment variable as integer with default value
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
