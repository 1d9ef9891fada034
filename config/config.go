// Package config reads the server settings from flags, PHONEBOOK_ prefixed
// environment variables and an optional config file, in that order of
// precedence.
package config

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every setting name to form its environment
// variable, e.g. PHONEBOOK_JWT_SECRET.
const EnvPrefix = "PHONEBOOK"

// Setting names, shared by flags, env and config file.
const (
	Addr            = "addr"
	Store           = "store"
	JWTSecret       = "jwt_secret"
	Playground      = "playground"
	TokenCache      = "token_cache"
	ShutdownTimeout = "shutdown_timeout"
	ConfigFile      = "config"
)

// Config holds the settings of the serve command.
type Config struct {
	Addr            string
	StoreURL        string
	JWTSecret       string
	Playground      bool
	TokenCacheSize  int64
	ShutdownTimeout time.Duration
}

// RegisterFlags defines the settings on fs with their defaults.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String(Addr, ":4000", "Address the HTTP server listens on.")
	fs.String(Store, "mem://",
		"Store URL: mem://, file:///path/to/dir or mongodb://host:port/database.")
	fs.String(JWTSecret, "", "Secret used to sign and verify bearer tokens. Required.")
	fs.Bool(Playground, true, "Serve the GraphiQL playground on /.")
	fs.Int64(TokenCache, 10000, "Number of verified tokens kept in memory. 0 disables the cache.")
	fs.Duration(ShutdownTimeout, 10*time.Second, "Time allowed for in-flight requests on shutdown.")
	fs.String(ConfigFile, "",
		"Configuration file. Takes precedence over default values, but is "+
			"overridden to values set with environment variables and flags.")
}

// NewViper returns a viper instance bound to fs and the environment. The
// config file named by the --config flag, if any, is read as well.
func NewViper(fs *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	if err := v.BindPFlags(fs); err != nil {
		return nil, errors.Wrap(err, "binding flags")
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if cfg := v.GetString(ConfigFile); cfg != "" {
		v.SetConfigFile(cfg)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "reading config %s", cfg)
		}
	}
	return v, nil
}

// Load reads and validates the settings from v.
func Load(v *viper.Viper) (*Config, error) {
	c := &Config{
		Addr:            v.GetString(Addr),
		StoreURL:        v.GetString(Store),
		JWTSecret:       v.GetString(JWTSecret),
		Playground:      v.GetBool(Playground),
		TokenCacheSize:  v.GetInt64(TokenCache),
		ShutdownTimeout: v.GetDuration(ShutdownTimeout),
	}

	switch {
	case c.JWTSecret == "":
		return nil, errors.Errorf("--%s must be set", JWTSecret)
	case c.Addr == "":
		return nil, errors.Errorf("--%s must not be empty", Addr)
	case c.StoreURL == "":
		return nil, errors.Errorf("--%s must not be empty", Store)
	case c.TokenCacheSize < 0:
		return nil, errors.Errorf("--%s must not be negative", TokenCache)
	}
	return c, nil
}
