package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Firebase Realtime Database (appointments, shops, counters).
	FirebaseCredentialsFile string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`
	FirebaseDatabaseURL     string `mapstructure:"FIREBASE_DATABASE_URL"`

	// Twilio WhatsApp gateway credentials.
	TwilioAccountSid   string `mapstructure:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken    string `mapstructure:"TWILIO_AUTH_TOKEN"`
	TwilioWhatsAppFrom string `mapstructure:"TWILIO_WHATSAPP_FROM"`

	// Admin secret guarding the usage report endpoint.
	AdminSecret string `mapstructure:"ADMIN_SECRET"`

	// Dispatch behaviour.
	DefaultCountryPrefix string `mapstructure:"DEFAULT_COUNTRY_PREFIX"`
	PhoneFormat          string `mapstructure:"PHONE_FORMAT"` // "international" or "local"
	DefaultTemplate      string `mapstructure:"DEFAULT_TEMPLATE"`

	// Redis configuration (batch lock + scheduled dispatch queue).
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`
}

// DefaultReminderTemplate is the built-in message used when no template is
// configured or supplied with the request. Placeholders: {{name}}, {{time}},
// {{barber}}.
const DefaultReminderTemplate = "שלום {{name}}, זוהי תזכורת לתור שלך היום בשעה {{time}} אצל {{barber}}. נתראה! ✂️"

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("FIREBASE_CREDENTIALS_FILE", "firebase.json")
	viper.SetDefault("FIREBASE_DATABASE_URL", "")
	viper.SetDefault("TWILIO_ACCOUNT_SID", "")
	viper.SetDefault("TWILIO_AUTH_TOKEN", "")
	viper.SetDefault("TWILIO_WHATSAPP_FROM", "")
	viper.SetDefault("ADMIN_SECRET", "")
	viper.SetDefault("DEFAULT_COUNTRY_PREFIX", "972")
	viper.SetDefault("PHONE_FORMAT", "international")
	viper.SetDefault("DEFAULT_TEMPLATE", DefaultReminderTemplate)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
