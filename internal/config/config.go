package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App struct {
		Port string `mapstructure:"port"`
		Env  string `mapstructure:"env"`
	} `mapstructure:"app"`
	DB struct {
		DSN string `mapstructure:"dsn"`
	} `mapstructure:"db"`
	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
	} `mapstructure:"redis"`
	Kafka struct {
		Brokers []string `mapstructure:"brokers"`
	} `mapstructure:"kafka"`
	Auth struct {
		JWTSecret     string        `mapstructure:"jwt_secret"`
		TokenLifespan time.Duration `mapstructure:"token_lifespan"`
	} `mapstructure:"auth"`
	Render struct {
		ChromePath string        `mapstructure:"chrome_path"`
		Timeout    time.Duration `mapstructure:"timeout"`
	} `mapstructure:"render"`
	Cache struct {
		ResumeTTL time.Duration `mapstructure:"resume_ttl"`
		StatsTTL  time.Duration `mapstructure:"stats_ttl"`
	} `mapstructure:"cache"`
	Tracing struct {
		OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	} `mapstructure:"tracing"`
}

func LoadConfig(paths ...string) (cfg Config, err error) {

	err = godotenv.Load()
	if err != nil {
		log.Println("warning: .env file not found, use default.")
	}

	if len(paths) == 0 {
		paths = []string{"."}
	}
	for _, p := range paths {
		viper.AddConfigPath(p)
	}
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	if err = viper.ReadInConfig(); err != nil {
		log.Printf("note: config.yaml not found, read .env only. Error: %v", err)
	}

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.BindEnv("app.port", "APP_PORT")
	viper.BindEnv("app.env", "APP_ENV")
	viper.BindEnv("db.dsn", "DB_DSN")
	viper.BindEnv("redis.addr", "REDIS_ADDR")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")
	viper.BindEnv("kafka.brokers", "KAFKA_BROKERS")
	viper.BindEnv("auth.jwt_secret", "JWT_SECRET")
	viper.BindEnv("auth.token_lifespan", "TOKEN_LIFESPAN")
	viper.BindEnv("render.chrome_path", "CHROME_PATH")
	viper.BindEnv("render.timeout", "RENDER_TIMEOUT")
	viper.BindEnv("cache.resume_ttl", "RESUME_CACHE_TTL")
	viper.BindEnv("cache.stats_ttl", "STATS_CACHE_TTL")
	viper.BindEnv("tracing.otlp_endpoint", "OTLP_ENDPOINT")

	viper.SetDefault("app.port", "8080")
	viper.SetDefault("app.env", "development")
	viper.SetDefault("auth.token_lifespan", "24h")
	viper.SetDefault("render.timeout", "60s")
	viper.SetDefault("cache.resume_ttl", "5m")
	viper.SetDefault("cache.stats_ttl", "60s")

	err = viper.Unmarshal(&cfg)
	return
}
