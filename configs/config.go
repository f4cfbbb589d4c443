package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const EnvProduction = "production"

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	DB     DBConfig     `mapstructure:"db"`
	JWT    JWTConfig    `mapstructure:"jwt"`
	Reset  ResetConfig  `mapstructure:"reset"`
	Mail   MailConfig   `mapstructure:"mail"`
	Rates  RatesConfig  `mapstructure:"rates"`
}

type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Env            string   `mapstructure:"env"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type DBConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	TTL    time.Duration `mapstructure:"ttl"`
}

type ResetConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
	URL string        `mapstructure:"url"`
}

// MailConfig selects the reset-link transport. An empty AMQPURL means links
// are only written to the log.
type MailConfig struct {
	AMQPURL  string `mapstructure:"amqp_url"`
	Exchange string `mapstructure:"exchange"`
	Queue    string `mapstructure:"queue"`
	From     string `mapstructure:"from"`
}

type RatesConfig struct {
	APIURL  string        `mapstructure:"api_url"`
	TTL     time.Duration `mapstructure:"ttl"`
	Timeout time.Duration `mapstructure:"timeout"`
}

func (c *Config) IsProduction() bool {
	return c.Server.Env == EnvProduction
}

// Load reads .env, an optional config.yaml under dir, and the environment,
// in increasing order of precedence. The result is validated.
func Load(dir string) (*Config, error) {
	v, err := newViper(dir)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Server.AllowedOrigins = cleanList(cfg.Server.AllowedOrigins)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadDB resolves only the database settings, for tools that never issue
// tokens. The result is not validated so callers can apply overrides first.
func LoadDB(dir string) (DBConfig, error) {
	v, err := newViper(dir)
	if err != nil {
		return DBConfig{}, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return DBConfig{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg.DB, nil
}

func newViper(dir string) (*viper.Viper, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.AddConfigPath(dir)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	// names used by hosting platforms
	bindings := map[string][]string{
		"server.port": {"SERVER_PORT", "PORT"},
		"server.env":  {"SERVER_ENV", "APP_ENV"},
		"db.dsn":      {"DB_DSN", "DATABASE_URL"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	var notFound viper.ConfigFileNotFoundError
	if err := v.ReadInConfig(); err != nil && !errors.As(err, &notFound) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "5000")
	v.SetDefault("server.env", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000", "http://localhost:5173"})
	v.SetDefault("db.driver", "postgres")
	v.SetDefault("db.dsn", "")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.ttl", 24*time.Hour)
	v.SetDefault("reset.ttl", time.Hour)
	v.SetDefault("reset.url", "http://localhost:3000/reset-password")
	v.SetDefault("mail.amqp_url", "")
	v.SetDefault("mail.exchange", "mail")
	v.SetDefault("mail.queue", "password_reset")
	v.SetDefault("mail.from", "no-reply@expense-tracker.local")
	v.SetDefault("rates.api_url", "https://api.exchangerate-api.com/v4/latest")
	v.SetDefault("rates.ttl", time.Hour)
	v.SetDefault("rates.timeout", 5*time.Second)
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var errs []error

	if err := c.DB.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("jwt.secret is required (JWT_SECRET)"))
	}
	if c.JWT.TTL <= 0 {
		errs = append(errs, errors.New("jwt.ttl must be positive"))
	}
	if c.Reset.TTL <= 0 {
		errs = append(errs, errors.New("reset.ttl must be positive"))
	}
	if c.Server.Port == "" {
		errs = append(errs, errors.New("server.port is required"))
	}
	if c.Rates.TTL <= 0 || c.Rates.Timeout <= 0 {
		errs = append(errs, errors.New("rates.ttl and rates.timeout must be positive"))
	}

	return errors.Join(errs...)
}

func (c DBConfig) Validate() error {
	var errs []error
	if c.DSN == "" {
		errs = append(errs, errors.New("db.dsn is required (DB_DSN or DATABASE_URL)"))
	}
	if c.Driver != "postgres" && c.Driver != "sqlite" {
		errs = append(errs, fmt.Errorf("db.driver must be postgres or sqlite, got %q", c.Driver))
	}
	return errors.Join(errs...)
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
