package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port     string `mapstructure:"PORT"`
	AppEnv   string `mapstructure:"APP_ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	MongoURI string `mapstructure:"MONGO_URI"`
	MongoDB  string `mapstructure:"MONGO_DB"`
	Store    string `mapstructure:"STORE"`

	JWTSecret   string `mapstructure:"JWT_SECRET"`
	ClientURL   string `mapstructure:"CLIENT_URL"`
	CORSOrigins string `mapstructure:"CORS_ORIGINS"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`

	GCSBucket          string `mapstructure:"GCS_BUCKET"`
	GCSCredentialsFile string `mapstructure:"GCS_CREDENTIALS_FILE"`

	MailtrapToken    string `mapstructure:"MAILTRAP_TOKEN"`
	MailtrapEndpoint string `mapstructure:"MAILTRAP_ENDPOINT"`
	EmailFrom        string `mapstructure:"EMAIL_FROM"`
	EmailFromName    string `mapstructure:"EMAIL_FROM_NAME"`

	MailQueue       string `mapstructure:"MAIL_QUEUE"`
	MailWorkers     int    `mapstructure:"MAIL_WORKERS"`
	MailBuffer      int    `mapstructure:"MAIL_BUFFER"`
	MailMaxAttempts int    `mapstructure:"MAIL_MAX_ATTEMPTS"`

	KafkaBrokers    string `mapstructure:"KAFKA_BROKERS"`
	KafkaEmailTopic string `mapstructure:"KAFKA_EMAIL_TOPIC"`
	KafkaGroup      string `mapstructure:"KAFKA_GROUP"`
}

const defaultJWTSecret = "dev-secret-change-me"

var ErrDefaultSecret = errors.New("JWT_SECRET must be set in production")

// Load reads configuration from the environment, optionally layered over the
// file named by CONFIG_FILE.
func Load() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "5000")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DB", "linkup")
	v.SetDefault("STORE", "mongo")
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("CLIENT_URL", "http://localhost:5173")
	v.SetDefault("CORS_ORIGINS", "http://localhost:5173")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("GCS_BUCKET", "")
	v.SetDefault("GCS_CREDENTIALS_FILE", "")
	v.SetDefault("MAILTRAP_TOKEN", "")
	v.SetDefault("MAILTRAP_ENDPOINT", "https://send.api.mailtrap.io/api/send")
	v.SetDefault("EMAIL_FROM", "mailtrap@demomailtrap.com")
	v.SetDefault("EMAIL_FROM_NAME", "Linkup")
	v.SetDefault("MAIL_QUEUE", "memory")
	v.SetDefault("MAIL_WORKERS", 2)
	v.SetDefault("MAIL_BUFFER", 256)
	v.SetDefault("MAIL_MAX_ATTEMPTS", 5)
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_EMAIL_TOPIC", "linkup.emails")
	v.SetDefault("KAFKA_GROUP", "linkup-mailer")

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if cfg.IsProduction() && (cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret) {
		return Config{}, ErrDefaultSecret
	}
	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func (c Config) Brokers() []string {
	var out []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}
