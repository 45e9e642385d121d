package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration. Values come from environment
// variables (a local .env file is honored) and may be overridden by
// command-line flags in main.
type Config struct {
	// Target and output.
	ListURL    string
	OutputPath string
	City       string

	// Scroll loop tuning.
	ScrollPause         time.Duration
	MaxScrolls          int
	StagnationThreshold int
	HarvestBudget       time.Duration

	// Browser behavior.
	NavTimeout time.Duration
	MaxRetries int
	Headless   bool
	ChromeBin  string

	Debug bool
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		ListURL:    getEnv("LIST_URL", ""),
		OutputPath: getEnv("OUTPUT_PATH", "output/places.json"),
		City:       getEnv("CITY", ""),

		ScrollPause:         getEnvDuration("SCROLL_PAUSE", 2*time.Second),
		MaxScrolls:          getEnvInt("MAX_SCROLLS", 50),
		StagnationThreshold: getEnvInt("STAGNATION_THRESHOLD", 3),
		HarvestBudget:       getEnvDuration("HARVEST_BUDGET", 10*time.Minute),

		NavTimeout: getEnvDuration("NAV_TIMEOUT", 60*time.Second),
		MaxRetries: getEnvInt("MAX_RETRIES", 3),
		Headless:   getEnvBool("HEADLESS", true),
		ChromeBin:  getEnv("CHROME_BIN", ""),

		Debug: getEnvBool("DEBUG", false),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

// getEnvDuration accepts Go duration syntax ("90s", "2m") and, for
// compatibility with older job definitions, a bare number of seconds.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	if d, err := time.ParseDuration(val); err == nil {
		return d
	}
	if secs, err := strconv.ParseFloat(val, 64); err == nil {
		return time.Duration(secs * float64(time.Second))
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
