package config

import (
	"log"
	"strconv"
	"strings"
	"time"

	"receptionist/models"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// MongoDB.
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`

	// Redis configuration.
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB   int    `mapstructure:"REDIS_CACHE_DB"`
	RedisSessionDB int    `mapstructure:"REDIS_SESSION_DB"`
	RedisQueueDB   int    `mapstructure:"REDIS_QUEUE_DB"`

	// Google Maps API Key.
	GoogleAPIKey     string        `mapstructure:"GOOGLE_API_KEY"`
	DistanceMockMode bool          `mapstructure:"DISTANCE_MOCK_MODE"`
	DistanceCacheTTL time.Duration `mapstructure:"DISTANCE_CACHE_TTL"`

	QuoteSessionTTL time.Duration `mapstructure:"QUOTE_SESSION_TTL"`

	// Locale used to complete partially spoken addresses.
	DefaultCity     string `mapstructure:"DEFAULT_CITY"`
	DefaultState    string `mapstructure:"DEFAULT_STATE"`
	DefaultPostcode string `mapstructure:"DEFAULT_POSTCODE"`
	DefaultCountry  string `mapstructure:"DEFAULT_COUNTRY"`
	DefaultRegion   string `mapstructure:"DEFAULT_REGION"`

	// Availability generation.
	AvailabilityWindowDays   int    `mapstructure:"AVAILABILITY_WINDOW_DAYS"`
	AvailabilityDurations    string `mapstructure:"AVAILABILITY_DURATIONS"`
	AvailabilitySlotInterval int    `mapstructure:"AVAILABILITY_SLOT_INTERVAL"`
	AvailabilityCron         string `mapstructure:"AVAILABILITY_CRON"`

	StripeKey             string `mapstructure:"STRIPE_KEY"`
	GeminiAPIKey          string `mapstructure:"GEMINI_API_KEY"`
	GeminiModel           string `mapstructure:"GEMINI_MODEL"`
	GoogleCredentialsFile string `mapstructure:"GOOGLE_CREDENTIALS_FILE"`
	SpeechLanguage        string `mapstructure:"SPEECH_LANGUAGE"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	setDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if AppConfig.DistanceMockMode && IsProduction() {
		log.Println("DISTANCE_MOCK_MODE is not allowed in production, disabling it")
		AppConfig.DistanceMockMode = false
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	v.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	v.SetDefault("DATABASE_NAME", "receptionist")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_CACHE_DB", 0)
	v.SetDefault("REDIS_SESSION_DB", 1)
	v.SetDefault("REDIS_QUEUE_DB", 2)
	v.SetDefault("GOOGLE_API_KEY", "")
	v.SetDefault("DISTANCE_MOCK_MODE", false)
	v.SetDefault("DISTANCE_CACHE_TTL", "24h")
	v.SetDefault("QUOTE_SESSION_TTL", "2h")
	v.SetDefault("DEFAULT_CITY", "Melbourne")
	v.SetDefault("DEFAULT_STATE", "VIC")
	v.SetDefault("DEFAULT_POSTCODE", "3000")
	v.SetDefault("DEFAULT_COUNTRY", "Australia")
	v.SetDefault("DEFAULT_REGION", "au")
	v.SetDefault("AVAILABILITY_WINDOW_DAYS", 28)
	v.SetDefault("AVAILABILITY_DURATIONS", "30,60,90,120,180,240")
	v.SetDefault("AVAILABILITY_SLOT_INTERVAL", 30)
	v.SetDefault("AVAILABILITY_CRON", "0 2 * * *")
	v.SetDefault("STRIPE_KEY", "")
	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("GEMINI_MODEL", "models/gemini-1.5-pro")
	v.SetDefault("GOOGLE_CREDENTIALS_FILE", "")
	v.SetDefault("SPEECH_LANGUAGE", "en-AU")
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// Durations parses AVAILABILITY_DURATIONS ("30,60,120") skipping invalid entries.
func (c Config) Durations() []int {
	var out []int
	for _, part := range strings.Split(c.AvailabilityDurations, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n <= 0 {
			continue
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return []int{60}
	}
	return out
}

// DefaultLocale is the locale used to complete partial addresses.
func (c Config) DefaultLocale() models.Locale {
	return models.Locale{
		City:     c.DefaultCity,
		State:    c.DefaultState,
		Postcode: c.DefaultPostcode,
		Country:  c.DefaultCountry,
	}
}
