package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Store    StoreConfig    `yaml:"store"`
	Hosting  HostingConfig  `yaml:"hosting"`
	Firebase FirebaseConfig `yaml:"firebase"`
	App      AppConfig      `yaml:"app"`
	Client   ClientConfig   `yaml:"client"`
}

type ServerConfig struct {
	Port          string   `yaml:"port"`
	CORSOrigins   []string `yaml:"corsOrigins"`
	SaveRateLimit float64  `yaml:"saveRateLimit"` // saves per second per user, 0 disables
	SaveBurst     int      `yaml:"saveBurst"`
}

type StoreConfig struct {
	Backend       string `yaml:"backend"` // redis | postgres
	RedisAddr     string `yaml:"redisAddr"`
	RedisPassword string `yaml:"redisPassword"`
	RedisDB       int    `yaml:"redisDB"`
	KeyPrefix     string `yaml:"keyPrefix"`
	Database      DatabaseConfig `yaml:"database"`
}

type DatabaseConfig struct {
	DSN      string `yaml:"dsn"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
}

type HostingConfig struct {
	Backend     string        `yaml:"backend"` // fs | s3
	RootDir     string        `yaml:"rootDir"`
	URLTemplate string        `yaml:"urlTemplate"`
	S3Bucket    string        `yaml:"s3Bucket"`
	S3Region    string        `yaml:"s3Region"`
	S3Endpoint  string        `yaml:"s3Endpoint"`
	FetchTO     time.Duration `yaml:"fetchTimeout"`
}

type FirebaseConfig struct {
	CredentialsPath string `yaml:"credentialsPath"`
}

type AppConfig struct {
	Environment string `yaml:"environment"`
	LogLevel    string `yaml:"logLevel"`
	Version     string `yaml:"version"`
}

// ClientConfig is read by the CLI when it talks to a running API.
type ClientConfig struct {
	APIURL string `yaml:"apiURL"`
	Token  string `yaml:"token"`
	UserID string `yaml:"userID"`
	AppURL string `yaml:"appURL"`
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := Defaults()

	if path := os.Getenv("ROOMIFY_CONFIG"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Defaults returns the configuration used when nothing is set.
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:          "8080",
			CORSOrigins:   []string{"*"},
			SaveRateLimit: 2,
			SaveBurst:     5,
		},
		Store: StoreConfig{
			Backend:   "redis",
			RedisAddr: "localhost:6379",
			KeyPrefix: "roomify:",
			Database: DatabaseConfig{
				Host:    "localhost",
				Port:    5432,
				User:    "postgres",
				Name:    "roomify",
				SSLMode: "disable",
			},
		},
		Hosting: HostingConfig{
			Backend:     "fs",
			RootDir:     "./data/hosted",
			URLTemplate: "http://localhost:8080/hosted/{subdomain}",
			S3Region:    "us-east-1",
			FetchTO:     30 * time.Second,
		},
		App: AppConfig{
			Environment: "development",
			LogLevel:    "info",
			Version:     "1.0.0",
		},
		Client: ClientConfig{
			APIURL: "http://localhost:8080",
			AppURL: "http://localhost:5173",
		},
	}
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Server.Port = getEnv("PORT", c.Server.Port)
	c.Server.CORSOrigins = getEnvAsList("CORS_ALLOWED_ORIGINS", c.Server.CORSOrigins)
	c.Server.SaveRateLimit = getEnvAsFloat("SAVE_RATE_LIMIT", c.Server.SaveRateLimit)
	c.Server.SaveBurst = getEnvAsInt("SAVE_RATE_BURST", c.Server.SaveBurst)

	c.Store.Backend = getEnv("KV_BACKEND", c.Store.Backend)
	c.Store.RedisAddr = getEnv("REDIS_ADDR", c.Store.RedisAddr)
	c.Store.RedisPassword = getEnv("REDIS_PASSWORD", c.Store.RedisPassword)
	c.Store.RedisDB = getEnvAsInt("REDIS_DB", c.Store.RedisDB)
	c.Store.KeyPrefix = getEnv("KV_KEY_PREFIX", c.Store.KeyPrefix)
	c.Store.Database.DSN = getEnv("DB_DSN", c.Store.Database.DSN)
	c.Store.Database.Host = getEnv("DB_HOST", c.Store.Database.Host)
	c.Store.Database.Port = getEnvAsInt("DB_PORT", c.Store.Database.Port)
	c.Store.Database.User = getEnv("DB_USER", c.Store.Database.User)
	c.Store.Database.Password = getEnv("DB_PASSWORD", c.Store.Database.Password)
	c.Store.Database.Name = getEnv("DB_NAME", c.Store.Database.Name)
	c.Store.Database.SSLMode = getEnv("DB_SSLMODE", c.Store.Database.SSLMode)

	c.Hosting.Backend = getEnv("HOSTING_BACKEND", c.Hosting.Backend)
	c.Hosting.RootDir = getEnv("HOSTING_ROOT_DIR", c.Hosting.RootDir)
	c.Hosting.URLTemplate = getEnv("HOSTING_URL_TEMPLATE", c.Hosting.URLTemplate)
	c.Hosting.S3Bucket = getEnv("HOSTING_S3_BUCKET", c.Hosting.S3Bucket)
	c.Hosting.S3Region = getEnv("HOSTING_S3_REGION", c.Hosting.S3Region)
	c.Hosting.S3Endpoint = getEnv("HOSTING_S3_ENDPOINT", c.Hosting.S3Endpoint)
	c.Hosting.FetchTO = getEnvAsDuration("HOSTING_FETCH_TIMEOUT", c.Hosting.FetchTO)

	c.Firebase.CredentialsPath = getEnv("FIREBASE_CREDENTIALS_PATH", c.Firebase.CredentialsPath)

	c.App.Environment = getEnv("APP_ENV", c.App.Environment)
	c.App.LogLevel = getEnv("LOG_LEVEL", c.App.LogLevel)
	c.App.Version = getEnv("APP_VERSION", c.App.Version)

	c.Client.APIURL = getEnv("ROOMIFY_API_URL", c.Client.APIURL)
	c.Client.Token = getEnv("ROOMIFY_TOKEN", c.Client.Token)
	c.Client.UserID = getEnv("ROOMIFY_USER_ID", c.Client.UserID)
	c.Client.AppURL = getEnv("ROOMIFY_APP_URL", c.Client.AppURL)
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	switch c.Store.Backend {
	case "redis":
		if c.Store.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required for the redis store")
		}
	case "postgres":
		if c.Store.Database.DSN == "" && c.Store.Database.Host == "" {
			return fmt.Errorf("DB_DSN or DB_HOST is required for the postgres store")
		}
	default:
		return fmt.Errorf("unknown KV_BACKEND %q", c.Store.Backend)
	}

	switch c.Hosting.Backend {
	case "fs":
		if c.Hosting.RootDir == "" {
			return fmt.Errorf("HOSTING_ROOT_DIR is required for the fs hosting backend")
		}
	case "s3":
		if c.Hosting.S3Bucket == "" {
			return fmt.Errorf("HOSTING_S3_BUCKET is required for the s3 hosting backend")
		}
	default:
		return fmt.Errorf("unknown HOSTING_BACKEND %q", c.Hosting.Backend)
	}

	if !strings.Contains(c.Hosting.URLTemplate, "{subdomain}") {
		return fmt.Errorf("HOSTING_URL_TEMPLATE must contain {subdomain}")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid number for %s, using default: %v", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration for %s, using default: %s", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
