package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	// Server
	ServerPort int

	// Shodan
	ShodanBaseURL string
	ShodanAPIKey  string // only used by the CLI; the server takes keys per request

	// Outbound request options
	Request RequestConfig

	// Limiter (per API key)
	LimiterMinTime   time.Duration
	LimiterHighWater int
	LimiterMaxKeys   int // 0 = unbounded

	// Redis (optional, shares pacing between replicas)
	RedisEnabled  bool
	RedisHost     string
	RedisPort     int
	RedisPassword string
	RedisDB       int

	// Logging
	LogLevel string
}

// RequestConfig configures the HTTP client used for Shodan requests
type RequestConfig struct {
	Timeout            time.Duration
	Cert               string // path to a PEM client certificate
	Key                string // path to the PEM private key of Cert
	Passphrase         string // decrypts Key when it is encrypted
	CA                 string // path to a PEM CA bundle
	Proxy              string
	RejectUnauthorized bool
}

func setDefaults() {
	viper.SetDefault("SERVER_PORT", 8080)
	viper.SetDefault("SHODAN_BASE_URL", "https://api.shodan.io")
	viper.SetDefault("REQUEST_TIMEOUT", "30s")
	viper.SetDefault("REQUEST_REJECT_UNAUTHORIZED", true)
	viper.SetDefault("LIMITER_MIN_TIME", "1050ms")
	viper.SetDefault("LIMITER_HIGH_WATER", 15)
	viper.SetDefault("LIMITER_MAX_KEYS", 0)
	viper.SetDefault("REDIS_ENABLED", false)
	viper.SetDefault("REDIS_PORT", 6379)
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("LOG_LEVEL", "info")
}

func Load() (*Config, error) {
	// Limpa configurações anteriores do viper
	viper.Reset()

	// Configura viper
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()
	setDefaults()

	// Tenta ler .env (ignora erro se não existir, usa env vars)
	_ = viper.ReadInConfig()

	cfg := &Config{
		ServerPort:    viper.GetInt("SERVER_PORT"),
		ShodanBaseURL: viper.GetString("SHODAN_BASE_URL"),
		ShodanAPIKey:  viper.GetString("SHODAN_API_KEY"),
		Request: RequestConfig{
			Timeout:            viper.GetDuration("REQUEST_TIMEOUT"),
			Cert:               viper.GetString("REQUEST_CERT"),
			Key:                viper.GetString("REQUEST_KEY"),
			Passphrase:         viper.GetString("REQUEST_PASSPHRASE"),
			CA:                 viper.GetString("REQUEST_CA"),
			Proxy:              viper.GetString("REQUEST_PROXY"),
			RejectUnauthorized: viper.GetBool("REQUEST_REJECT_UNAUTHORIZED"),
		},
		LimiterMinTime:   viper.GetDuration("LIMITER_MIN_TIME"),
		LimiterHighWater: viper.GetInt("LIMITER_HIGH_WATER"),
		LimiterMaxKeys:   viper.GetInt("LIMITER_MAX_KEYS"),
		RedisEnabled:     viper.GetBool("REDIS_ENABLED"),
		RedisHost:        viper.GetString("REDIS_HOST"),
		RedisPort:        viper.GetInt("REDIS_PORT"),
		RedisPassword:    viper.GetString("REDIS_PASSWORD"),
		RedisDB:          viper.GetInt("REDIS_DB"),
		LogLevel:         viper.GetString("LOG_LEVEL"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate valida campos obrigatórios
func (c *Config) Validate() error {
	if c.ServerPort <= 0 {
		return fmt.Errorf("SERVER_PORT must be positive")
	}
	if c.ShodanBaseURL == "" {
		return fmt.Errorf("SHODAN_BASE_URL is required")
	}
	if c.Request.Timeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}
	if (c.Request.Cert == "") != (c.Request.Key == "") {
		return fmt.Errorf("REQUEST_CERT and REQUEST_KEY must be set together")
	}
	if c.LimiterMinTime <= 0 {
		return fmt.Errorf("LIMITER_MIN_TIME must be positive")
	}
	if c.LimiterHighWater <= 0 {
		return fmt.Errorf("LIMITER_HIGH_WATER must be positive")
	}
	if c.LimiterMaxKeys < 0 {
		return fmt.Errorf("LIMITER_MAX_KEYS cannot be negative")
	}
	if c.RedisEnabled && c.RedisHost == "" {
		return fmt.Errorf("REDIS_HOST is required when REDIS_ENABLED is true")
	}
	return nil
}

// RedisAddr returns the host:port of the Redis server
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}
