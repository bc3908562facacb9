package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultPrimaryHost    = "ftp.star.nesdis.noaa.gov"
	DefaultCoastwatchHost = "ftpcoastwatch.noaa.gov"
	DefaultGOESBucket     = "noaa-goes16"
)

type Config struct {
	DataDir string

	PrimaryHost    string
	CoastwatchHost string
	FTPUser        string
	FTPPassword    string
	// FTPTimeout bounds the dial only; zero leaves it to the network stack.
	FTPTimeout time.Duration

	ApiURL     string
	AccessKey  string
	SecretKey  string
	GOESBucket string
	Region     string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn(".env file not found, using environment variables only")
	}

	config := &Config{
		DataDir:        getEnv("DATA_DIR", "Samples"),
		PrimaryHost:    getEnv("PRIMARY_HOST", DefaultPrimaryHost),
		CoastwatchHost: getEnv("COASTWATCH_HOST", DefaultCoastwatchHost),
		FTPUser:        getEnv("FTP_USER", "anonymous"),
		FTPPassword:    getEnv("FTP_PASSWORD", "anonymous@"),
		ApiURL:         getEnv("API_URL", ""),
		AccessKey:      getEnv("ACCESS_KEY", ""),
		SecretKey:      getEnv("SECRET_KEY", ""),
		GOESBucket:     getEnv("GOES_BUCKET", DefaultGOESBucket),
		Region:         getEnv("REGION", "us-east-1"),
	}

	if raw := getEnv("FTP_TIMEOUT", ""); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid FTP_TIMEOUT %q: %w", raw, err)
		}
		config.FTPTimeout = timeout
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
