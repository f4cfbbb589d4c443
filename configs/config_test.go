package configs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Server: ServerConfig{Port: "5000", Env: "development"},
		DB:     DBConfig{Driver: "postgres", DSN: "postgres://localhost/expenses"},
		JWT:    JWTConfig{Secret: "secret", TTL: 24 * time.Hour},
		Reset:  ResetConfig{TTL: time.Hour},
		Rates:  RatesConfig{TTL: time.Hour, Timeout: time.Second},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing dsn", mutate: func(c *Config) { c.DB.DSN = "" }, wantErr: "db.dsn is required"},
		{name: "missing secret", mutate: func(c *Config) { c.JWT.Secret = "" }, wantErr: "jwt.secret is required"},
		{name: "unknown driver", mutate: func(c *Config) { c.DB.Driver = "mongo" }, wantErr: "db.driver must be"},
		{name: "zero ttl", mutate: func(c *Config) { c.JWT.TTL = 0 }, wantErr: "jwt.ttl must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.DB.DSN = ""
	cfg.JWT.Secret = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db.dsn")
	assert.Contains(t, err.Error(), "jwt.secret")
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DB_DSN", "")
	t.Setenv("DATABASE_URL", "file::memory:")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("PORT", "8081")
	t.Setenv("SERVER_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, "file::memory:", cfg.DB.DSN)
	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, "8081", cfg.Server.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 24*time.Hour, cfg.JWT.TTL)
	assert.Equal(t, time.Hour, cfg.Reset.TTL)
	assert.False(t, cfg.IsProduction())
}

func TestLoadFailsWithoutRequiredSettings(t *testing.T) {
	t.Setenv("DB_DSN", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "")

	_, err := Load(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt.secret is required")
}

func TestLoadDBIgnoresMissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_DSN", "expenses.db")

	db, err := LoadDB(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, DBConfig{Driver: "sqlite", DSN: "expenses.db"}, db)
	assert.NoError(t, db.Validate())
}
