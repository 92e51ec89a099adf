// Package config предоставляет структуры и функции для загрузки конфигурации сервиса.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Окружения запуска.
const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

// Config общая структура для хранения настроек.
type Config struct {
	Env                     string          `yaml:"env" env:"ENV" env-default:"local"`
	StorageConnectionString string          `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING" env-required:"true"`
	MigrationsPath          string          `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"./migrations"`
	HTTPServer              HTTPServer      `yaml:"http_server"`
	RedisConnection         RedisConnection `yaml:"redis_connection"`
	JWTToken                JWTToken        `yaml:"jwttoken"`
	PaymentProvider         PaymentProvider `yaml:"payment_provider"`
	RabbitMQ                RabbitMQ        `yaml:"rabbitmq"`
	RateLimit               RateLimit       `yaml:"rate_limit"`
	SMTP                    SMTP            `yaml:"smtp"`
}

// HTTPServer структура для настройки сервера.
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env:"HTTP_ADDRESS" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env:"HTTP_TIMEOUT" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis.
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env:"REDIS_ADDRESS" env-default:"localhost:6379"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user" env:"REDIS_USER"`
	DB           int           `yaml:"db" env:"REDIS_DB"`
	MaxRetries   int           `yaml:"max_retries" env:"REDIS_MAX_RETRIES" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env:"REDIS_DIAL_TIMEOUT" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env:"REDIS_TIMEOUT" env-default:"3s"`
	CacheTTL     time.Duration `yaml:"cache_ttl" env:"REDIS_CACHE_TTL" env-default:"30s"`
}

// JWTToken структура для работы с jwt-токеном.
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"ACCESS_TOKEN_KEY"`
	TokenTTL     time.Duration `yaml:"token_ttl" env:"TOKEN_TTL" env-default:"1h"`
}

// PaymentProvider структура для настройки платёжного провайдера.
type PaymentProvider struct {
	APIURL    string        `yaml:"api_url" env:"PAYMENT_API_URL" env-default:"https://api.stripe.com/v1"`
	SecretKey string        `yaml:"secret_key" env:"PAYMENT_SECRET_KEY"`
	Currency  string        `yaml:"currency" env:"PAYMENT_CURRENCY" env-default:"usd"`
	Timeout   time.Duration `yaml:"timeout" env:"PAYMENT_TIMEOUT" env-default:"10s"`
}

// RabbitMQ структура для подключения к брокеру событий.
type RabbitMQ struct {
	URL      string        `yaml:"url" env:"RABBITMQ_URL"`
	Exchange string        `yaml:"exchange" env:"RABBITMQ_EXCHANGE" env-default:"newsroom.events"`
	Retries  int           `yaml:"retries" env:"RABBITMQ_RETRIES" env-default:"5"`
	Delay    time.Duration `yaml:"delay" env:"RABBITMQ_DELAY" env-default:"2s"`
}

// RateLimit структура для ограничения частоты запросов к счётчику просмотров.
type RateLimit struct {
	RPS   float64 `yaml:"rps" env:"RATE_LIMIT_RPS" env-default:"20"`
	Burst int     `yaml:"burst" env:"RATE_LIMIT_BURST" env-default:"40"`
}

// SMTP структура для отправки уведомлений по почте.
type SMTP struct {
	Host     string `yaml:"host" env:"SMTP_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"SMTP_PORT" env-default:"587"`
	User     string `yaml:"user" env:"SMTP_USER"`
	Password string `yaml:"password" env:"SMTP_PASSWORD"`
	From     string `yaml:"from" env:"SMTP_FROM" env-default:"newsroom@localhost"`
}

// Load читает конфиг из файла path и переменных окружения и проверяет его.
func Load(path string) (*Config, error) {
	const op = "config.Load"
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

// MustLoad загружает конфиг по пути из CONFIG_PATH и завершает процесс при ошибке.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

// Validate проверяет согласованность настроек.
func (c *Config) Validate() error {
	switch c.Env {
	case EnvLocal, EnvDev, EnvProd:
	default:
		return fmt.Errorf("unknown env %q", c.Env)
	}
	if c.JWTToken.JWTSecretKey == "" {
		if c.Env == EnvProd {
			return errors.New("jwt secret key must be set in prod")
		}
		c.JWTToken.JWTSecretKey = "local-development-secret"
	}
	if c.JWTToken.TokenTTL <= 0 {
		return fmt.Errorf("token ttl must be positive, got %s", c.JWTToken.TokenTTL)
	}
	return nil
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"Redis:\n"+
			"  Addr: %s\n"+
			"  DB: %d\n"+
			"  CacheTTL: %s\n"+
			"JWTToken:\n"+
			"  TokenTTL: %s\n"+
			"PaymentProvider:\n"+
			"  APIURL: %s\n"+
			"  Currency: %s\n"+
			"RabbitMQ:\n"+
			"  Exchange: %s\n",
		c.Env,
		c.HTTPServer.AddressHTTP,
		c.HTTPServer.TimeoutHTTP,
		c.HTTPServer.IdleTimeout,
		c.RedisConnection.AddressRedis,
		c.RedisConnection.DB,
		c.RedisConnection.CacheTTL,
		c.JWTToken.TokenTTL,
		c.PaymentProvider.APIURL,
		c.PaymentProvider.Currency,
		c.RabbitMQ.Exchange,
	)
}
