package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
	"go.appointy.com/phonebook/config"
)

func load(t *testing.T, args ...string) (*config.Config, error) {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	config.RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))

	v, err := config.NewViper(fs)
	require.NoError(t, err)
	return config.Load(v)
}

func TestDefaults(t *testing.T) {
	c, err := load(t, "--jwt_secret=s3cr3t")
	require.NoError(t, err)
	require.Equal(t, &config.Config{
		Addr:            ":4000",
		StoreURL:        "mem://",
		JWTSecret:       "s3cr3t",
		Playground:      true,
		TokenCacheSize:  10000,
		ShutdownTimeout: 10 * time.Second,
	}, c)
}

func TestSecretIsRequired(t *testing.T) {
	_, err := load(t)
	require.Error(t, err)

	_, err = load(t, "--jwt_secret=x", "--token_cache=-1")
	require.Error(t, err)
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "phonebook.yaml")
	require.NoError(t, os.WriteFile(file, []byte("jwt_secret: from-file\naddr: \":5000\"\nplayground: false\n"), 0o600))

	t.Setenv("PHONEBOOK_JWT_SECRET", "from-env")

	c, err := load(t, "--config="+file, "--store=mongodb://db:27017/contacts")
	require.NoError(t, err)
	require.Equal(t, "from-env", c.JWTSecret)
	require.Equal(t, ":5000", c.Addr)
	require.False(t, c.Playground)
	require.Equal(t, "mongodb://db:27017/contacts", c.StoreURL)
}
