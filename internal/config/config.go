package config

import (
	"flag"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env        string     `yaml:"env" env:"ENV" env-default:"local"`
	Database   Database   `yaml:"database"`
	HTTPServer HTTPServer `yaml:"http_server"`
	Auth       Auth       `yaml:"auth"`
	Pricing    Pricing    `yaml:"pricing"`
	Booking    Booking    `yaml:"booking"`
	Redis      Redis      `yaml:"redis"`
	Messaging  Messaging  `yaml:"messaging"`
	Tracing    Tracing    `yaml:"tracing"`
	Metrics    Metrics    `yaml:"metrics"`
}

type Database struct {
	// Driver selects the store implementation: "postgres" or "memory".
	Driver       string        `yaml:"driver" env:"DB_DRIVER" env-default:"postgres"`
	Host         string        `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port         int           `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User         string        `yaml:"user" env:"DB_USER" env-default:"postgres"`
	Password     string        `yaml:"password" env:"DB_PASSWORD"`
	DBName       string        `yaml:"dbname" env:"DB_NAME" env-default:"ticketing"`
	SSLMode      string        `yaml:"sslmode" env:"DB_SSLMODE" env-default:"disable"`
	MaxOpenConns int           `yaml:"max_open_conns" env-default:"20"`
	TxTimeout    time.Duration `yaml:"tx_timeout" env-default:"5s"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:8080"`
	Timeout     time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

type Auth struct {
	JWTSecret string        `yaml:"jwt_secret" env:"JWT_SECRET" env-required:"true"`
	TokenTTL  time.Duration `yaml:"token_ttl" env-default:"1h"`
}

type Pricing struct {
	GroupThreshold int           `yaml:"group_threshold" env-default:"10"`
	GroupFactor    float64       `yaml:"group_factor" env-default:"0.9"`
	AdvanceTiers   []AdvanceTier `yaml:"advance_tiers"`
}

// AdvanceTier multiplies the unit price when the booking is made at least
// DaysBefore days ahead of the event start.
type AdvanceTier struct {
	DaysBefore int     `yaml:"days_before"`
	Factor     float64 `yaml:"factor"`
}

type Booking struct {
	PaymentDeadline time.Duration `yaml:"payment_deadline" env-default:"0s"`
	SweepInterval   time.Duration `yaml:"sweep_interval" env-default:"1m"`
	SweepBatch      int           `yaml:"sweep_batch" env-default:"100"`
}

type Redis struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env-default:"0"`
}

type Messaging struct {
	Enabled       bool   `yaml:"enabled" env:"MESSAGING_ENABLED" env-default:"false"`
	OutboxTopic   string `yaml:"outbox_topic" env-default:"bookings_outbox"`
	EventsTopic   string `yaml:"events_topic" env-default:"booking-events"`
	ConsumerGroup string `yaml:"consumer_group" env-default:"sales-metrics"`
}

type Tracing struct {
	Enabled        bool   `yaml:"enabled" env:"TRACING_ENABLED" env-default:"false"`
	JaegerEndpoint string `yaml:"jaeger_endpoint" env:"JAEGER_ENDPOINT" env-default:"http://localhost:14268/api/traces"`
	ServiceName    string `yaml:"service_name" env-default:"ticketing"`
}

type Metrics struct {
	Enabled bool `yaml:"enabled" env-default:"true"`
}

func MustLoad() *Config {
	configPath := fetchConfigPath()
	if configPath == "" {
		panic("config path is empty")
	}

	return MustLoadPath(configPath)
}

func MustLoadPath(configPath string) *Config {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic("cannot read config: " + err.Error())
	}

	return &cfg
}

// fetchConfigPath fetches config path from command line flag or environment variable.
// Priority: flag > env > default.
func fetchConfigPath() string {
	var res string

	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	return res
}
