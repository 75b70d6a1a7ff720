package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Addr string
		Mode string
	}
	Database struct {
		Path string
	}
	Auth struct {
		Secret        string
		Issuer        string
		Audience      string
		ExpiryMinutes int
		BcryptCost    int
		HashWorkers   int
		CookieName    string
		Admin         struct {
			Name     string
			Email    string
			Password string
		}
	}
	Storage struct {
		Bucket    string
		KeyPrefix string
		Region    string
		Endpoint  string
	}
	AWS struct {
		Profile string
	}
}

// Load reads configuration from environment variables and optional config files.
func Load() (Config, error) {
	loadDotEnv(".env")

	v := viper.New()
	v.SetEnvPrefix("CATALOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	v.SetConfigName("config")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// AutomaticEnv only resolves keys viper already knows about, so every key
// gets a default here, including the empty ones.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", "0.0.0.0:8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("database.path", "data/catalog.db")
	v.SetDefault("auth.secret", "")
	v.SetDefault("auth.issuer", "game-catalog")
	v.SetDefault("auth.audience", "game-catalog-clients")
	v.SetDefault("auth.expiryminutes", 60)
	v.SetDefault("auth.bcryptcost", bcrypt.DefaultCost)
	v.SetDefault("auth.hashworkers", 0)
	v.SetDefault("auth.cookiename", "access_token")
	v.SetDefault("auth.admin.name", "")
	v.SetDefault("auth.admin.email", "")
	v.SetDefault("auth.admin.password", "")
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.keyprefix", "covers")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("aws.profile", "")
}

// Validate reports the first setting that would keep the server from starting.
func (c Config) Validate() error {
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server mode must be debug, release or test, got %q", c.Server.Mode)
	}
	if strings.TrimSpace(c.Auth.Secret) == "" {
		return errors.New("auth secret is required")
	}
	if c.Auth.ExpiryMinutes <= 0 {
		return fmt.Errorf("auth expiry must be positive, got %d minutes", c.Auth.ExpiryMinutes)
	}
	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("auth bcrypt cost %d out of range [%d, %d]", c.Auth.BcryptCost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	if c.Auth.HashWorkers < 0 {
		return fmt.Errorf("auth hash workers cannot be negative, got %d", c.Auth.HashWorkers)
	}
	if c.Auth.Admin.Email != "" && c.Auth.Admin.Password == "" {
		return errors.New("auth admin password is required when admin email is set")
	}
	if strings.TrimSpace(c.Database.Path) == "" {
		return errors.New("database path is required")
	}
	return nil
}

// TokenTTL is the configured session lifetime.
func (c Config) TokenTTL() time.Duration {
	return time.Duration(c.Auth.ExpiryMinutes) * time.Minute
}

func loadDotEnv(path string) {
	file, err := os.Open(path)
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)
		if key == "" {
			continue
		}

		if _, exists := os.LookupEnv(key); !exists {
			_ = os.Setenv(key, value)
		}
	}
}
