package config

import (
	"log"
	"os"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	App      AppConfig
	Cache    CacheConfig
	Planning PlanningConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type AppConfig struct {
	MasterPath string
	OutputDir  string
}

type CacheConfig struct {
	Enabled        bool
	RedisURL       string
	RedisHost      string
	RedisPort      string
	RedisPassword  string
	RedisDB        int
	PlanTTLSeconds int
}

// PlanningConfig carries the default planning window parameters. They are
// defaults only: every run receives its effective parameters explicitly.
type PlanningConfig struct {
	SalesWindowDays    int
	PurchaseWindowDays int
	LeadTimeDays       int
	SafetyStockDays    int
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		// Set default values
		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_READ_TIMEOUT", 30)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 30)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("APP_MASTER_PATH", "./config/master_product_list.csv")
		viper.SetDefault("APP_OUTPUT_DIR", "./data/output")
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_PLAN_TTL_SECONDS", 300)
		viper.SetDefault("PLAN_SALES_WINDOW_DAYS", 30)
		viper.SetDefault("PLAN_PURCHASE_WINDOW_DAYS", 15)
		viper.SetDefault("PLAN_LEAD_TIME_DAYS", 10)
		viper.SetDefault("PLAN_SAFETY_STOCK_DAYS", 7)

		// Read from environment variables
		viper.AutomaticEnv()

		ensureDir(viper.GetString("APP_OUTPUT_DIR"))

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			App: AppConfig{
				MasterPath: viper.GetString("APP_MASTER_PATH"),
				OutputDir:  viper.GetString("APP_OUTPUT_DIR"),
			},
			Cache: CacheConfig{
				Enabled:        viper.GetBool("CACHE_ENABLED"),
				RedisURL:       viper.GetString("REDIS_URL"),
				RedisHost:      viper.GetString("REDIS_HOST"),
				RedisPort:      viper.GetString("REDIS_PORT"),
				RedisPassword:  viper.GetString("REDIS_PASSWORD"),
				RedisDB:        viper.GetInt("REDIS_DB"),
				PlanTTLSeconds: viper.GetInt("CACHE_PLAN_TTL_SECONDS"),
			},
			Planning: PlanningConfig{
				SalesWindowDays:    viper.GetInt("PLAN_SALES_WINDOW_DAYS"),
				PurchaseWindowDays: viper.GetInt("PLAN_PURCHASE_WINDOW_DAYS"),
				LeadTimeDays:       viper.GetInt("PLAN_LEAD_TIME_DAYS"),
				SafetyStockDays:    viper.GetInt("PLAN_SAFETY_STOCK_DAYS"),
			},
		}
	})

	return instance
}

func ensureDir(dir string) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}
}
