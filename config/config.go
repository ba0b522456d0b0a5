package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	Port               string        `mapstructure:"PORT"`
	Env                string        `mapstructure:"ENV"`
	MongoURI           string        `mapstructure:"MONGO_URI"`
	MongoDatabase      string        `mapstructure:"MONGO_DATABASE"`
	RedisURL           string        `mapstructure:"REDIS_URL"`
	CacheTTL           time.Duration `mapstructure:"CACHE_TTL"`
	BookingLockEnabled bool          `mapstructure:"BOOKING_LOCK_ENABLED"`
	BookingLockTTL     time.Duration `mapstructure:"BOOKING_LOCK_TTL"`
	JWTSecret          string        `mapstructure:"JWT_SECRET"`
	SessionTTL         time.Duration `mapstructure:"SESSION_TTL"`
	EnforceAPIAuth     bool          `mapstructure:"ENFORCE_API_AUTH"`
	CORSOrigins        []string      `mapstructure:"CORS_ORIGINS"`
	RateLimitRPS       float64       `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst     int           `mapstructure:"RATE_LIMIT_BURST"`
	SlotStart          string        `mapstructure:"SLOT_START"`
	SlotEnd            string        `mapstructure:"SLOT_END"`
	SlotMinutes        int           `mapstructure:"SLOT_MINUTES"`
	SlotCatalogFile    string        `mapstructure:"SLOT_CATALOG_FILE"`
	PaymentGatewayURL  string        `mapstructure:"PAYMENT_GATEWAY_URL"`
	InsuranceURL       string        `mapstructure:"INSURANCE_PROVIDER_URL"`
	MockPaymentDelay   time.Duration `mapstructure:"MOCK_PAYMENT_DELAY"`
	MockInsuranceDelay time.Duration `mapstructure:"MOCK_INSURANCE_DELAY"`
	MockClaimDelay     time.Duration `mapstructure:"MOCK_CLAIM_DELAY"`
	KafkaBrokers       []string      `mapstructure:"KAFKA_BROKERS"`
	KafkaTopic         string        `mapstructure:"KAFKA_TOPIC"`
	ReportDir          string        `mapstructure:"REPORT_DIR"`
	ReportS3Bucket     string        `mapstructure:"REPORT_S3_BUCKET"`
	JobsEnabled        bool          `mapstructure:"JOBS_ENABLED"`
	LogLevel           string        `mapstructure:"LOG_LEVEL"`
	LogFormat          string        `mapstructure:"LOG_FORMAT"`
}

var keys = []string{
	"PORT", "ENV", "MONGO_URI", "MONGO_DATABASE", "REDIS_URL", "CACHE_TTL",
	"BOOKING_LOCK_ENABLED", "BOOKING_LOCK_TTL", "JWT_SECRET", "SESSION_TTL",
	"ENFORCE_API_AUTH", "CORS_ORIGINS", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
	"SLOT_START", "SLOT_END", "SLOT_MINUTES", "SLOT_CATALOG_FILE",
	"PAYMENT_GATEWAY_URL", "INSURANCE_PROVIDER_URL", "MOCK_PAYMENT_DELAY",
	"MOCK_INSURANCE_DELAY", "MOCK_CLAIM_DELAY", "KAFKA_BROKERS", "KAFKA_TOPIC",
	"REPORT_DIR", "REPORT_S3_BUCKET", "JOBS_ENABLED", "LOG_LEVEL", "LOG_FORMAT",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "vitalink")
	v.SetDefault("CACHE_TTL", 10*time.Minute)
	v.SetDefault("BOOKING_LOCK_ENABLED", false)
	v.SetDefault("BOOKING_LOCK_TTL", 10*time.Second)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("SESSION_TTL", 12*time.Hour)
	v.SetDefault("ENFORCE_API_AUTH", false)
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("RATE_LIMIT_RPS", 50)
	v.SetDefault("RATE_LIMIT_BURST", 100)
	v.SetDefault("SLOT_START", "09:00")
	v.SetDefault("SLOT_END", "17:00")
	v.SetDefault("SLOT_MINUTES", 30)
	v.SetDefault("MOCK_PAYMENT_DELAY", time.Second)
	v.SetDefault("MOCK_INSURANCE_DELAY", 500*time.Millisecond)
	v.SetDefault("MOCK_CLAIM_DELAY", 800*time.Millisecond)
	v.SetDefault("KAFKA_TOPIC", "hospital-events")
	v.SetDefault("REPORT_DIR", "reports-out")
	v.SetDefault("JOBS_ENABLED", true)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

/*
* Load the .env file into the process environment (missing file is fine)
* Read every known key from the environment over the defaults
* Split list values given as comma separated strings
 */
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Error in loading the ENV: ", err)
	}
	return FromViper(viper.New())
}

func FromViper(v *viper.Viper) (*Config, error) {
	v.AutomaticEnv()
	setDefaults(v)
	for _, k := range keys {
		if err := v.BindEnv(k); err != nil {
			return nil, fmt.Errorf("bind %s: %w", k, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.CORSOrigins = splitList(v.GetString("CORS_ORIGINS"))
	cfg.KafkaBrokers = splitList(v.GetString("KAFKA_BROKERS"))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

func (c *Config) Validate() error {
	if c.MongoURI == "" {
		return fmt.Errorf("MONGO_URI is required")
	}
	if c.SlotMinutes <= 0 {
		return fmt.Errorf("SLOT_MINUTES must be positive, got %d", c.SlotMinutes)
	}
	start, err := time.Parse("15:04", c.SlotStart)
	if err != nil {
		return fmt.Errorf("SLOT_START must be HH:MM: %w", err)
	}
	end, err := time.Parse("15:04", c.SlotEnd)
	if err != nil {
		return fmt.Errorf("SLOT_END must be HH:MM: %w", err)
	}
	if !start.Before(end) {
		return fmt.Errorf("SLOT_START %s must be before SLOT_END %s", c.SlotStart, c.SlotEnd)
	}
	if c.JWTSecret == "" {
		if !c.IsDev() {
			return fmt.Errorf("JWT_SECRET is required outside development")
		}
		c.JWTSecret = "development-secret"
	}
	return nil
}
