package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisAuthDB   int    `mapstructure:"REDIS_AUTH_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Analytics tuning. The sample floors gate which providers count toward
	// platform averages; they are configuration, not literals, so product
	// can revisit them without a release.
	MetricsCacheTTLMin     int    `mapstructure:"METRICS_CACHE_TTL_MIN"`
	MinWorkOrderSample     int    `mapstructure:"MIN_WORKORDER_SAMPLE"`
	MinRatingSample        int    `mapstructure:"MIN_RATING_SAMPLE"`
	ReportExpiryDays       int    `mapstructure:"REPORT_EXPIRY_DAYS"`
	ReportStorageDir       string `mapstructure:"REPORT_STORAGE_DIR"`
	MonthlyComparisonSpan  int    `mapstructure:"MONTHLY_COMPARISON_MONTHS"`
	ScheduleSweepMinutes   int    `mapstructure:"SCHEDULE_SWEEP_MINUTES"`
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

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_AUTH_DB", 1)
	viper.SetDefault("REDIS_QUEUE_DB", 2)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("METRICS_CACHE_TTL_MIN", 60)
	viper.SetDefault("MIN_WORKORDER_SAMPLE", 5)
	viper.SetDefault("MIN_RATING_SAMPLE", 3)
	viper.SetDefault("REPORT_EXPIRY_DAYS", 30)
	viper.SetDefault("REPORT_STORAGE_DIR", "./reports")
	viper.SetDefault("MONTHLY_COMPARISON_MONTHS", 12)
	viper.SetDefault("SCHEDULE_SWEEP_MINUTES", 15)

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
