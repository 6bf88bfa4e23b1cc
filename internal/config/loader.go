package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Load reads config.<APP_ENV>.yaml from ./configs (or the directory named
// by CONFIG_PATH) and applies TODO_* environment overrides, so for example
// TODO_JWT_SECRET overrides jwt.secret.
func Load() (*Config, error) {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	v := viper.New()
	v.SetConfigName(fmt.Sprintf("config.%s", env))
	v.SetConfigType("yaml")

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		v.AddConfigPath(path)
	}
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	v.SetEnvPrefix("TODO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, env)

	if err := v.ReadInConfig(); err != nil {
		// Missing file is fine: defaults plus environment overrides still
		// make a usable configuration.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, env string) {
	v.SetDefault("app.name", "todo-service")
	v.SetDefault("app.environment", env)
	v.SetDefault("app.version", "1.0.0")

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "10s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "15s")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	// Secrets default to empty so viper knows the keys and environment
	// overrides reach them.
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "todo")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.conn_max_life", "1h")
	v.SetDefault("database.auto_migrate", false)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.access_token_ttl", "168h")
	v.SetDefault("jwt.refresh_token_ttl", "336h")
	v.SetDefault("jwt.header", "Authorization")
	v.SetDefault("jwt.prefix", "Bearer")

	v.SetDefault("wechat.app_id", "")
	v.SetDefault("wechat.app_secret", "")
	v.SetDefault("wechat.redirect_uri", "")
	v.SetDefault("wechat.scope", "snsapi_login")
	v.SetDefault("wechat.timeout", "5s")
	v.SetDefault("wechat.state_ttl", "10m")

	v.SetDefault("logging.level", "info")
}
