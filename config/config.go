package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Config holds the application's configuration values.
type Config struct {
	AppName string `json:"appname"`
	AppEnv  string `json:"appenv"`
	AppPort uint16 `json:"appport"`
	GinMode string `json:"ginmode"`

	DBHost string `json:"dbhost"`
	DBPort uint16 `json:"dbport"`
	DBName string `json:"dbname"`
	DBUser string `json:"dbuser"`
	DBPass string `json:"dbpass"`

	TokenExpireMinutes int      `json:"token_expire_minutes"`
	UploadDir          string   `json:"upload_dir"`
	MaxUploadSize      int64    `json:"max_upload_size"`
	ModelDir           string   `json:"model_dir"`
	InferenceURL       string   `json:"inference_url"`
	InferenceScript    string   `json:"inference_script"`
	PythonBin          string   `json:"python_bin"`
	CORSOrigins        []string `json:"cors_origins"`
}

var config *Config
var once sync.Once

// defaultCORSOrigins covers the local development frontends.
const defaultCORSOrigins = "http://localhost:3000,http://localhost:5173,http://127.0.0.1:3000,http://127.0.0.1:5173"

// LoadConfig loads the environment variables from a .env file, and returns a singleton Config instance.
func LoadConfig() *Config {
	once.Do(func() {
		// The .env file is optional; real environment variables win.
		if err := godotenv.Load(); err != nil {
			log.Printf("No .env file found, using environment variables")
		}

		appPort, _ := strconv.ParseUint(getEnv("APPPORT", "8000"), 10, 16)
		dbPort, _ := strconv.ParseUint(os.Getenv("DBPORT"), 10, 16)

		// Initialize the Config struct with values from environment variables.
		config = &Config{
			AppName: getEnv("APPNAME", "AcneAI"),
			AppEnv:  getEnv("APPENV", "development"),
			AppPort: uint16(appPort),
			GinMode: os.Getenv("GINMODE"),

			DBHost: os.Getenv("DBHOST"),
			DBPort: uint16(dbPort),
			DBName: os.Getenv("DBNAME"),
			DBUser: os.Getenv("DBUSER"),
			DBPass: os.Getenv("DBPASS"),

			TokenExpireMinutes: getEnvInt("TOKEN_EXPIRE_MINUTES", 43200),
			UploadDir:          getEnv("UPLOAD_DIR", "uploads"),
			MaxUploadSize:      getEnvInt64("MAX_UPLOAD_SIZE", 10485760),
			ModelDir:           getEnv("MODEL_DIR", "models"),
			InferenceURL:       os.Getenv("INFERENCE_URL"),
			InferenceScript:    getEnv("INFERENCE_SCRIPT", "scripts/infer.py"),
			PythonBin:          getEnv("PYTHON_BIN", "python3"),
			CORSOrigins:        splitOrigins(getEnv("CORS_ORIGINS", defaultCORSOrigins)),
		}
	})
	return config
}

// ConnectMySQL establishes a database connection using the configuration
// values. The test environment gets a shared in-memory sqlite database
// instead of MySQL.
func ConnectMySQL() (*gorm.DB, error) {
	cfg := LoadConfig()

	if cfg.AppEnv == "test" {
		dsn := fmt.Sprintf("file:testdb_config_%d?mode=memory&cache=shared", time.Now().UnixNano())
		return gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	}

	// Build the Data Source Name (DSN) using the configuration values.
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true", cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	return db, nil
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

func getEnvInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
