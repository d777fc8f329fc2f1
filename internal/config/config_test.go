package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "testuser",
		Password: "testpass",
		Database: "testdb",
		SSLMode:  "disable",
	}

	expected := "host=localhost port=5432 user=testuser password=testpass dbname=testdb sslmode=disable"
	assert.Equal(t, expected, cfg.DSN())
}

func TestRedisConfig_Addr(t *testing.T) {
	cfg := RedisConfig{
		Host: "redis.example.com",
		Port: 6380,
	}

	assert.Equal(t, "redis.example.com:6380", cfg.Addr())
}

func TestConfig_IsDevelopment(t *testing.T) {
	tests := []struct {
		name     string
		env      Environment
		expected bool
	}{
		{
			name:     "development",
			env:      EnvDevelopment,
			expected: true,
		},
		{
			name:     "staging",
			env:      EnvStaging,
			expected: false,
		},
		{
			name:     "production",
			env:      EnvProduction,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Env: tt.env}
			assert.Equal(t, tt.expected, cfg.IsDevelopment())
		})
	}
}

func TestConfig_GetLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		debug    bool
		logLevel string
		expected string
	}{
		{
			name:     "debug mode overrides",
			debug:    true,
			logLevel: "info",
			expected: "debug",
		},
		{
			name:     "normal mode uses log level",
			debug:    false,
			logLevel: "warn",
			expected: "warn",
		},
		{
			name:     "normal mode info",
			debug:    false,
			logLevel: "info",
			expected: "info",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Debug: tt.debug, LogLevel: tt.logLevel}
			assert.Equal(t, tt.expected, cfg.GetLogLevel())
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{
			name: "valid development config",
			config: &Config{
				Env: EnvDevelopment,
				Claude: ClaudeConfig{
					APIKey: "test-key",
				},
				Pipeline: PipelineConfig{
					Concurrency: 3,
				},
			},
			wantErr: false,
		},
		{
			name: "missing claude API key",
			config: &Config{
				Env: EnvDevelopment,
				Claude: ClaudeConfig{
					APIKey: "",
				},
				Pipeline: PipelineConfig{
					Concurrency: 3,
				},
			},
			wantErr: true,
		},
		{
			name: "zero pipeline concurrency",
			config: &Config{
				Env: EnvDevelopment,
				Claude: ClaudeConfig{
					APIKey: "test-key",
				},
				Pipeline: PipelineConfig{
					Concurrency: 0,
				},
			},
			wantErr: true,
		},
		{
			name: "production without db password",
			config: &Config{
				Env: EnvProduction,
				Claude: ClaudeConfig{
					APIKey: "test-key",
				},
				Pipeline: PipelineConfig{
					Concurrency: 3,
				},
				Database: DatabaseConfig{
					Password: "",
				},
			},
			wantErr: true,
		},
		{
			name: "production with TLS but no cert",
			config: &Config{
				Env: EnvProduction,
				Claude: ClaudeConfig{
					APIKey: "test-key",
				},
				Pipeline: PipelineConfig{
					Concurrency: 3,
				},
				Database: DatabaseConfig{
					Password: "pass",
				},
				Security: SecurityConfig{
					TLSEnabled:  true,
					TLSCertFile: "",
					TLSKeyFile:  "",
				},
			},
			wantErr: true,
		},
		{
			name: "production with proper TLS",
			config: &Config{
				Env: EnvProduction,
				Claude: ClaudeConfig{
					APIKey: "test-key",
				},
				Pipeline: PipelineConfig{
					Concurrency: 3,
				},
				Database: DatabaseConfig{
					Password: "pass",
				},
				Security: SecurityConfig{
					TLSEnabled:  true,
					TLSCertFile: "/path/to/cert",
					TLSKeyFile:  "/path/to/key",
				},
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadWithDefaults(t *testing.T) {
	originalAPIKey := os.Getenv("ANTHROPIC_API_KEY")
	defer os.Setenv("ANTHROPIC_API_KEY", originalAPIKey)

	t.Run("uses env var when set", func(t *testing.T) {
		os.Setenv("ANTHROPIC_API_KEY", "custom-api-key")

		cfg, err := LoadWithDefaults()
		require.NoError(t, err)
		assert.Equal(t, "custom-api-key", cfg.Claude.APIKey)
	})
}

func TestEnvironmentConstants(t *testing.T) {
	assert.Equal(t, Environment("development"), EnvDevelopment)
	assert.Equal(t, Environment("staging"), EnvStaging)
	assert.Equal(t, Environment("production"), EnvProduction)
}

func TestStorageConfig_Fields(t *testing.T) {
	cfg := StorageConfig{
		Type:       "s3",
		Endpoint:   "s3.amazonaws.com",
		AccessKey:  "access",
		SecretKey:  "secret",
		Bucket:     "my-bucket",
		Region:     "us-west-2",
		UseSSL:     true,
		LogoPath:   "logos",
		ReportPath: "reports",
	}

	assert.Equal(t, "s3", cfg.Type)
	assert.True(t, cfg.UseSSL)
	assert.Equal(t, "logos", cfg.LogoPath)
}
