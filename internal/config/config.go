// Package config loads service configuration from an optional YAML file and
// the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/togengine-byte/CRM-sub003/internal/model"
)

const envPrefix = "SUPPLIER_SCORING"

// History store backends.
const (
	HistoryMemory = "memory"
	HistoryMongo  = "mongo"
	HistorySQLite = "sqlite"
	HistoryCRM    = "crm"
)

// Weight store backends.
const (
	WeightsMemory    = "memory"
	WeightsMongo     = "mongo"
	WeightsRedis     = "redis"
	WeightsFirestore = "firestore"
)

type Config struct {
	Service     string             `mapstructure:"service"`
	Environment string             `mapstructure:"environment"`
	Server      ServerConfig       `mapstructure:"server"`
	Store       StoreConfig        `mapstructure:"store"`
	Weights     model.WeightConfig `mapstructure:"weights"`
	Scoring     ScoringConfig      `mapstructure:"scoring"`
	Mongo       MongoConfig        `mapstructure:"mongo"`
	SQLite      SQLiteConfig       `mapstructure:"sqlite"`
	CRM         CRMConfig          `mapstructure:"crm"`
	Redis       RedisConfig        `mapstructure:"redis"`
	Firestore   FirestoreConfig    `mapstructure:"firestore"`
	Events      EventsConfig       `mapstructure:"events"`
	Logging     LoggingConfig      `mapstructure:"logging"`
}

type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type StoreConfig struct {
	History string `mapstructure:"history"`
	Weights string `mapstructure:"weights"`
	// Snapshot seeds the memory history store at startup when set.
	Snapshot string `mapstructure:"snapshot"`
}

type ScoringConfig struct {
	LeaderboardConcurrency int `mapstructure:"leaderboard_concurrency"`
	MaxLeaderboardSize     int `mapstructure:"max_leaderboard_size"`
}

type MongoConfig struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type CRMConfig struct {
	BaseURL    string        `mapstructure:"base_url"`
	APIKey     string        `mapstructure:"api_key"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max_retries"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Key      string `mapstructure:"key"`
}

type FirestoreConfig struct {
	ProjectID       string `mapstructure:"project_id"`
	Collection      string `mapstructure:"collection"`
	CredentialsFile string `mapstructure:"credentials_file"`
}

// EventsConfig holds optional webhook URLs per event type.
type EventsConfig struct {
	WeightsUpdatedURL  string `mapstructure:"weights_updated_url"`
	SupplierScoredURL  string `mapstructure:"supplier_scored_url"`
	RecommendationsURL string `mapstructure:"recommendations_url"`
	// DeliveryTimeout bounds one background webhook delivery, retries included.
	DeliveryTimeout time.Duration `mapstructure:"delivery_timeout"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configFile, or config.yaml from the usual search paths when
// configFile is empty, then applies environment overrides and validates.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/supplier-scoring")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	if err := bindLegacyEnv(v); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.CRM.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.CRM.BaseURL), "/")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("service", "supplier-scoring")
	v.SetDefault("environment", "development")

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 20*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)

	v.SetDefault("store.history", HistoryMemory)
	v.SetDefault("store.weights", WeightsMemory)
	v.SetDefault("store.snapshot", "")

	d := model.DefaultWeights()
	v.SetDefault("weights.price", d.Price)
	v.SetDefault("weights.rating", d.Rating)
	v.SetDefault("weights.delivery_time", d.DeliveryTime)
	v.SetDefault("weights.reliability", d.Reliability)

	v.SetDefault("scoring.leaderboard_concurrency", 8)
	v.SetDefault("scoring.max_leaderboard_size", 500)

	v.SetDefault("mongo.uri", "")
	v.SetDefault("mongo.database", "crm")

	v.SetDefault("sqlite.path", "./data/crm.db")

	v.SetDefault("crm.base_url", "")
	v.SetDefault("crm.api_key", "")
	v.SetDefault("crm.timeout", 10*time.Second)
	v.SetDefault("crm.max_retries", 3)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key", "supplier_scoring:weights")

	v.SetDefault("firestore.project_id", "")
	v.SetDefault("firestore.collection", "settings")
	v.SetDefault("firestore.credentials_file", "")

	v.SetDefault("events.weights_updated_url", "")
	v.SetDefault("events.supplier_scored_url", "")
	v.SetDefault("events.recommendations_url", "")
	v.SetDefault("events.delivery_timeout", "10s")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// bindLegacyEnv keeps the unprefixed variable names deployments already set.
func bindLegacyEnv(v *viper.Viper) error {
	bindings := map[string]string{
		"server.port":    "PORT",
		"mongo.uri":      "MONGO_URI",
		"mongo.database": "MONGO_DB",
		"environment":    "ENVIRONMENT",
	}
	for key, legacy := range bindings {
		prefixed := envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, legacy); err != nil {
			return fmt.Errorf("bind env %s: %w", key, err)
		}
	}
	return nil
}

// Validate checks that the selected backends are known and have what they
// need, and that the default weights are a valid configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Port) == "" {
		return errors.New("server.port is required")
	}
	if err := c.Weights.Validate(); err != nil {
		return fmt.Errorf("default weights: %w", err)
	}
	if c.Events.DeliveryTimeout <= 0 {
		return fmt.Errorf("events.delivery_timeout must be positive, got %s", c.Events.DeliveryTimeout)
	}
	if c.Scoring.LeaderboardConcurrency < 1 {
		return fmt.Errorf("scoring.leaderboard_concurrency must be at least 1, got %d", c.Scoring.LeaderboardConcurrency)
	}
	if c.Scoring.MaxLeaderboardSize < 1 {
		return fmt.Errorf("scoring.max_leaderboard_size must be at least 1, got %d", c.Scoring.MaxLeaderboardSize)
	}

	switch c.Store.History {
	case HistoryMemory:
	case HistoryMongo:
		if c.Mongo.URI == "" {
			return errors.New("mongo.uri is required for the mongo history store")
		}
	case HistorySQLite:
		if c.SQLite.Path == "" {
			return errors.New("sqlite.path is required for the sqlite history store")
		}
	case HistoryCRM:
		if c.CRM.BaseURL == "" {
			return errors.New("crm.base_url is required for the crm history store")
		}
	default:
		return fmt.Errorf("unknown history store %q", c.Store.History)
	}

	switch c.Store.Weights {
	case WeightsMemory:
	case WeightsMongo:
		if c.Mongo.URI == "" {
			return errors.New("mongo.uri is required for the mongo weight store")
		}
	case WeightsRedis:
		if c.Redis.Addr == "" {
			return errors.New("redis.addr is required for the redis weight store")
		}
	case WeightsFirestore:
		if c.Firestore.ProjectID == "" {
			return errors.New("firestore.project_id is required for the firestore weight store")
		}
	default:
		return fmt.Errorf("unknown weight store %q", c.Store.Weights)
	}
	return nil
}
